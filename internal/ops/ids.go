// internal/ops/ids.go
package ops

import (
	"bufio"
	"context"
	"os"
	"path/filepath"

	"segul/internal/cliutil"
	"segul/internal/runner"
	"segul/internal/writers"

	"segul-core/seqio"
)

// IDOptions configures id collection across the dataset.
type IDOptions struct {
	Input
	OutputDir string
	Map       bool // also emit the id-by-locus presence map
}

// IDResult reports what was written.
type IDResult struct {
	IDs     []string
	IDPath  string
	MapPath string
}

// CollectIDs gathers the union of taxon ids, writes it one per line, and
// optionally emits a locus-by-taxon boolean presence CSV.
func CollectIDs(ctx context.Context, env Env, opt IDOptions) (*IDResult, error) {
	results, err := runner.Map(ctx, runner.Options{Threads: env.Threads, Progress: env.Progress}, opt.Files,
		func(file string) ([]string, error) {
			res, rdErr := seqio.ReadFile(file, opt.Format, opt.Datatype, nil)
			if rdErr != nil {
				return nil, rdErr
			}
			return res.Alignment.IDs(), nil
		})
	if err != nil {
		return nil, err
	}

	ids := unionIDs(results)
	if err := os.MkdirAll(opt.OutputDir, 0o755); err != nil {
		return nil, err
	}
	out := &IDResult{IDs: ids, IDPath: filepath.Join(opt.OutputDir, "ids.txt")}
	if err := writers.Guard(out.IDPath, env.Overwrite, env.Prompt); err != nil {
		return nil, err
	}
	fh, err := os.Create(out.IDPath)
	if err != nil {
		return nil, err
	}
	w := bufio.NewWriter(fh)
	for _, id := range ids {
		if _, err := w.WriteString(id + "\n"); err != nil {
			_ = fh.Close()
			return nil, err
		}
	}
	if err := w.Flush(); err != nil {
		_ = fh.Close()
		return nil, err
	}
	if err := fh.Close(); err != nil {
		return nil, err
	}

	if opt.Map {
		presence := make(map[string]map[string]bool, len(results))
		var loci []string
		for _, r := range results {
			locus := cliutil.Stem(r.File)
			loci = append(loci, locus)
			row := make(map[string]bool, len(r.Value))
			for _, id := range r.Value {
				row[id] = true
			}
			presence[locus] = row
		}
		out.MapPath = filepath.Join(opt.OutputDir, "id_map.csv")
		if err := writers.Guard(out.MapPath, env.Overwrite, env.Prompt); err != nil {
			return nil, err
		}
		mh, err := os.Create(out.MapPath)
		if err != nil {
			return nil, err
		}
		mw := bufio.NewWriter(mh)
		if err := writers.IDMapCSV(mw, ids, presence, loci); err != nil {
			_ = mh.Close()
			return nil, err
		}
		if err := mw.Flush(); err != nil {
			_ = mh.Close()
			return nil, err
		}
		if err := mh.Close(); err != nil {
			return nil, err
		}
	}
	return out, nil
}
