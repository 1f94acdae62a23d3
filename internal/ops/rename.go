// internal/ops/rename.go
package ops

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"segul/internal/cliutil"
	"segul/internal/runner"
	"segul/internal/writers"

	"segul-core/seqio"
)

// Renamer rewrites taxon ids: either through a replacement table or through
// substring/regex edits.
type Renamer struct {
	table map[string]string

	remove     string
	removeRe   *regexp.Regexp
	removeAll  bool
	replFrom   string
	replTo     string
	replFromRe *regexp.Regexp
}

// NewTableRenamer loads a CSV/TSV replacement table with rows of
// `<original><sep><new>`. The delimiter is inferred from the extension.
func NewTableRenamer(path string) (*Renamer, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = fh.Close() }()
	cr := csv.NewReader(fh)
	if strings.HasSuffix(strings.ToLower(path), ".tsv") || strings.HasSuffix(strings.ToLower(path), ".txt") {
		cr.Comma = '\t'
	}
	cr.FieldsPerRecord = -1
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%s: %v", path, err)
	}
	table := make(map[string]string, len(rows))
	for i, row := range rows {
		if len(row) < 2 {
			return nil, fmt.Errorf("%s: row %d needs two columns", path, i+1)
		}
		from := strings.TrimSpace(row[0])
		to := strings.TrimSpace(row[1])
		if i == 0 && (strings.EqualFold(from, "original") || strings.EqualFold(from, "old")) {
			continue // header row
		}
		table[from] = to
	}
	if len(table) == 0 {
		return nil, fmt.Errorf("%s: empty replacement table", path)
	}
	return &Renamer{table: table}, nil
}

// NewEditRenamer builds a substring/regex edit. Exactly one of the edit modes
// should be populated by the CLI layer.
func NewEditRenamer(remove, removeRe string, removeAll bool, replFrom, replTo, replFromRe string) (*Renamer, error) {
	r := &Renamer{
		remove:    remove,
		removeAll: removeAll,
		replFrom:  replFrom,
		replTo:    replTo,
	}
	var err error
	if removeRe != "" {
		if r.removeRe, err = regexp.Compile(removeRe); err != nil {
			return nil, err
		}
	}
	if replFromRe != "" {
		if r.replFromRe, err = regexp.Compile(replFromRe); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Apply returns the new id and whether it changed.
func (r *Renamer) Apply(id string) (string, bool) {
	out := id
	switch {
	case r.table != nil:
		if to, ok := r.table[id]; ok {
			out = to
		}
	case r.removeRe != nil:
		if r.removeAll {
			out = r.removeRe.ReplaceAllString(id, "")
		} else if loc := r.removeRe.FindStringIndex(id); loc != nil {
			out = id[:loc[0]] + id[loc[1]:]
		}
	case r.remove != "":
		out = strings.Replace(id, r.remove, "", 1)
	case r.replFromRe != nil:
		out = r.replFromRe.ReplaceAllString(id, r.replTo)
	case r.replFrom != "":
		out = strings.ReplaceAll(id, r.replFrom, r.replTo)
	}
	return out, out != id
}

// RenameOptions configures the rename operator.
type RenameOptions struct {
	Input
	Renamer   *Renamer
	OutputDir string
	OutFormat seqio.OutputFormat
}

// Rename rewrites ids per alignment. Two originals mapping to the same new id
// are fatal; table entries that never match any id warn once at the end.
func Rename(ctx context.Context, env Env, opt RenameOptions) (int, error) {
	var (
		mu      sync.Mutex
		applied = make(map[string]bool)
	)
	results, err := runner.Map(ctx, runner.Options{Threads: env.Threads, Progress: env.Progress}, opt.Files,
		func(file string) (struct{}, error) {
			res, rdErr := seqio.ReadFile(file, opt.Format, opt.Datatype, func(m string) { env.warnf("%s: %s", file, m) })
			if rdErr != nil {
				return struct{}{}, rdErr
			}
			aln := res.Alignment
			for _, id := range aln.IDs() {
				to, changed := opt.Renamer.Apply(id)
				if !changed {
					continue
				}
				if err := aln.Rename(id, to); err != nil {
					return struct{}{}, fmt.Errorf("%s: %v", file, err)
				}
				mu.Lock()
				applied[id] = true
				mu.Unlock()
			}
			sf := writers.SeqFile{
				Path:      filepath.Join(opt.OutputDir, cliutil.Stem(file)+opt.OutFormat.Extension()),
				Format:    opt.OutFormat,
				Charsets:  res.Charsets,
				Overwrite: env.Overwrite,
				Prompt:    env.Prompt,
			}
			return struct{}{}, sf.Write(aln)
		})
	if err != nil {
		return len(results), err
	}
	for from := range opt.Renamer.table {
		if to := opt.Renamer.table[from]; to != from && !applied[from] {
			env.warnf("id %q from the replacement table not found in any input", from)
		}
	}
	return len(results), nil
}
