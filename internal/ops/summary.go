// internal/ops/summary.go
package ops

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"segul/internal/runner"
	"segul/internal/writers"

	"segul-core/seq"
	"segul-core/seqio"
	"segul-core/stats"
)

// SummaryOptions configures the alignment summary.
type SummaryOptions struct {
	Input
	OutputDir string
	Interval  int // completeness ladder step: 1, 2, 5, or 10
}

// SummaryReport aggregates the dataset-wide numbers alongside the emitted
// CSV paths.
type SummaryReport struct {
	Loci         int
	TotalTaxa    int
	TotalSites   int
	TotalChars   int
	MissingChars int
	GC           int
	AT           int
	Completeness []stats.CompletenessBucket
	LocusCSV     string
	TaxonCSV     string
}

type locusResult struct {
	locus stats.Locus
	taxa  *stats.TaxonAccumulator
}

// Summarize runs the per-locus single pass over every file, merges taxon
// aggregates in the collector, and writes the per-locus and per-taxon CSVs.
func Summarize(ctx context.Context, env Env, opt SummaryOptions) (*SummaryReport, error) {
	results, err := runner.Map(ctx, runner.Options{Threads: env.Threads, Progress: env.Progress}, opt.Files,
		func(file string) (locusResult, error) {
			res, rdErr := seqio.ReadFile(file, opt.Format, opt.Datatype, func(m string) { env.warnf("%s: %s", file, m) })
			if rdErr != nil {
				return locusResult{}, rdErr
			}
			acc := stats.NewTaxonAccumulator()
			acc.Add(res.Alignment, opt.Datatype)
			return locusResult{
				locus: stats.SummarizeAlignment(file, res.Alignment, opt.Datatype),
				taxa:  acc,
			}, nil
		})
	if err != nil {
		return nil, err
	}

	// single-writer aggregation in file order
	taxa := stats.NewTaxonAccumulator()
	loci := make([]stats.Locus, 0, len(results))
	var ntaxPerLocus []int
	report := &SummaryReport{Loci: len(results)}
	for _, r := range results {
		loci = append(loci, r.Value.locus)
		ntaxPerLocus = append(ntaxPerLocus, r.Value.locus.Chars.Ntax)
		report.TotalSites += r.Value.locus.Sites.Counts
		report.TotalChars += r.Value.locus.Chars.TotalChars
		report.MissingChars += r.Value.locus.Chars.Missing
		report.GC += r.Value.locus.Chars.GC
		report.AT += r.Value.locus.Chars.AT
		mergeTaxa(taxa, r.Value.taxa)
	}
	report.TotalTaxa = len(taxa.Taxa())
	report.Completeness = stats.MatrixCompleteness(ntaxPerLocus, report.TotalTaxa, opt.Interval)

	if err := os.MkdirAll(opt.OutputDir, 0o755); err != nil {
		return nil, err
	}
	report.LocusCSV = filepath.Join(opt.OutputDir, "alignment_summary.csv")
	if err := writeCSV(report.LocusCSV, env, func(w *bufio.Writer) error {
		return writers.AlignmentSummaryCSV(w, loci)
	}); err != nil {
		return nil, err
	}
	report.TaxonCSV = filepath.Join(opt.OutputDir, "taxon_summary.csv")
	if err := writeCSV(report.TaxonCSV, env, func(w *bufio.Writer) error {
		return writers.TaxonSummaryCSV(w, taxa.Taxa())
	}); err != nil {
		return nil, err
	}
	return report, nil
}

func mergeTaxa(dst, src *stats.TaxonAccumulator) {
	for id, ts := range src.Taxa() {
		d, ok := dst.Taxa()[id]
		if !ok {
			dst.Taxa()[id] = ts
			continue
		}
		d.Loci += ts.Loci
		d.Chars += ts.Chars
		d.Gaps += ts.Gaps
		d.Missing += ts.Missing
		d.GC += ts.GC
		d.AT += ts.AT
		for b, n := range ts.Counts {
			d.Counts[b] += n
		}
	}
}

func writeCSV(path string, env Env, fill func(*bufio.Writer) error) error {
	if err := writers.Guard(path, env.Overwrite, env.Prompt); err != nil {
		return err
	}
	fh, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(fh)
	if err := fill(w); err != nil {
		_ = fh.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		_ = fh.Close()
		return err
	}
	return fh.Close()
}

// PrintReport renders the dataset-wide aggregates as text.
func PrintReport(w *bufio.Writer, rep *SummaryReport) error {
	fmt.Fprintf(w, "Loci:\t%d\n", rep.Loci)
	fmt.Fprintf(w, "Taxa:\t%d\n", rep.TotalTaxa)
	fmt.Fprintf(w, "Sites:\t%d\n", rep.TotalSites)
	fmt.Fprintf(w, "Chars:\t%d\n", rep.TotalChars)
	fmt.Fprintf(w, "Missing:\t%d\n", rep.MissingChars)
	nuc := rep.GC + rep.AT
	if nuc > 0 {
		fmt.Fprintf(w, "GC content:\t%.4f\n", float64(rep.GC)/float64(nuc))
		fmt.Fprintf(w, "AT content:\t%.4f\n", float64(rep.AT)/float64(nuc))
	}
	fmt.Fprintln(w, "Matrix completeness:")
	return writers.CompletenessReport(w, rep.Completeness)
}

// union helper shared with the id operator
func unionIDs(results []runner.Result[[]string]) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, r := range results {
		for _, id := range r.Value {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	seq.SortAlnum(out)
	return out
}
