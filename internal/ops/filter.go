// internal/ops/filter.go
package ops

import (
	"context"
	"fmt"
	"math"
	"path/filepath"

	"segul/internal/cliutil"
	"segul/internal/runner"

	"segul-core/seqerr"
	"segul-core/seqio"
	"segul-core/stats"
)

// FilterOptions configures the per-alignment predicates. MinPIS and MaxPIS use
// -1 for "unset"; the other numeric fields use 0. Percent values are fractions
// in (0,1].
type FilterOptions struct {
	Input
	OutputDir string
	OutFormat seqio.OutputFormat

	Percent   float64   // minimum taxon completeness
	NPercents []float64 // one output directory per threshold
	MinTaxa   int
	MinLen    int
	MaxLen    int
	MinPIS    int
	MaxPIS    int
	TaxonAll  []string // alignment must contain all of these ids
	IDList    []string // keep only loci whose stem is in this list

	Concat *ConcatOptions // non-nil concatenates survivors instead of copying
}

type filterMeta struct {
	ids   map[string]bool
	ntax  int
	nchar int
	pis   int
}

// Filter evaluates every alignment against the configured predicates and
// either copies survivors into the output directory or concatenates them.
// Percent thresholds compare a locus's taxon count against the union of taxa
// across the whole input set.
func Filter(ctx context.Context, env Env, opt FilterOptions) (int, error) {
	needPIS := opt.MinPIS >= 0 || opt.MaxPIS >= 0
	metas, err := runner.Map(ctx, runner.Options{Threads: env.Threads, Progress: env.Progress}, opt.Files,
		func(file string) (filterMeta, error) {
			res, rdErr := seqio.ReadFile(file, opt.Format, opt.Datatype, nil)
			if rdErr != nil {
				return filterMeta{}, rdErr
			}
			aln := res.Alignment
			m := filterMeta{
				ids:   make(map[string]bool, aln.Len()),
				ntax:  aln.Len(),
				nchar: aln.Nchar(),
			}
			for _, id := range aln.IDs() {
				m.ids[id] = true
			}
			if needPIS {
				m.pis = stats.CountSites(aln, opt.Datatype).ParsInf
			}
			return m, nil
		})
	if err != nil {
		return 0, err
	}

	union := make(map[string]bool)
	for _, m := range metas {
		for id := range m.Value.ids {
			union[id] = true
		}
	}
	totalTax := len(union)

	keepList := make(map[string]bool, len(opt.IDList))
	for _, id := range opt.IDList {
		keepList[id] = true
	}

	keep := func(m runner.Result[filterMeta], pct float64) bool {
		v := m.Value
		if pct > 0 {
			min := int(math.Floor(float64(totalTax) * pct))
			if v.ntax < min {
				return false
			}
		}
		if opt.MinTaxa > 0 && v.ntax < opt.MinTaxa {
			return false
		}
		if opt.MinLen > 0 && v.nchar < opt.MinLen {
			return false
		}
		if opt.MaxLen > 0 && v.nchar > opt.MaxLen {
			return false
		}
		if opt.MinPIS >= 0 && v.pis < opt.MinPIS {
			return false
		}
		if opt.MaxPIS >= 0 && v.pis > opt.MaxPIS {
			return false
		}
		for _, id := range opt.TaxonAll {
			if !v.ids[id] {
				return false
			}
		}
		if len(keepList) > 0 && !keepList[cliutil.Stem(m.File)] {
			return false
		}
		return true
	}

	thresholds := opt.NPercents
	if len(thresholds) == 0 {
		thresholds = []float64{opt.Percent}
	}

	total := 0
	for _, pct := range thresholds {
		outDir := opt.OutputDir
		if len(opt.NPercents) > 0 {
			outDir = filepath.Join(opt.OutputDir, fmt.Sprintf("percent_%d", int(pct*100)))
		}
		var survivors []string
		for _, m := range metas {
			if keep(m, pct) {
				survivors = append(survivors, m.File)
			}
		}
		if len(survivors) == 0 {
			env.warnf("no alignments pass the %.0f%% threshold", pct*100)
			continue
		}
		if opt.Concat != nil {
			copt := *opt.Concat
			copt.Files = survivors
			copt.Output = filepath.Join(outDir, filepath.Base(copt.Output))
			if _, err := Concat(ctx, env, copt); err != nil {
				return total, err
			}
			total += len(survivors)
			continue
		}
		n, err := Convert(ctx, env, ConvertOptions{
			Input:     Input{Files: survivors, Format: opt.Format, Datatype: opt.Datatype},
			OutputDir: outDir,
			OutFormat: opt.OutFormat,
		})
		if err != nil {
			return total, err
		}
		total += n
	}
	if total == 0 {
		return 0, seqerr.ErrEmptyResult
	}
	return total, nil
}
