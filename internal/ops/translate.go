// internal/ops/translate.go
package ops

import (
	"context"
	"path/filepath"

	"segul/internal/cliutil"
	"segul/internal/runner"
	"segul/internal/writers"

	"segul-core/alphabet"
	"segul-core/seq"
	"segul-core/seqio"
)

// TranslateOptions configures DNA-to-protein translation.
type TranslateOptions struct {
	Input
	Table     int // NCBI table id
	Frame     int // 1..3
	OutputDir string
	OutFormat seqio.OutputFormat
}

// Translate converts every sequence using the requested NCBI table and
// reading frame. Trailing partial codons are dropped with a warning; the
// output alignments carry the amino-acid datatype.
func Translate(ctx context.Context, env Env, opt TranslateOptions) (int, error) {
	// surface table/frame problems before spinning up workers
	if _, err := alphabet.Translate(opt.Table, nil, opt.Frame); err != nil {
		return 0, err
	}
	results, err := runner.Map(ctx, runner.Options{Threads: env.Threads, Progress: env.Progress}, opt.Files,
		func(file string) (struct{}, error) {
			res, rdErr := seqio.ReadFile(file, opt.Format, opt.Datatype, func(m string) { env.warnf("%s: %s", file, m) })
			if rdErr != nil {
				return struct{}{}, rdErr
			}
			out := seq.NewAlignment(alphabet.AminoAcid)
			for _, rec := range res.Alignment.Records() {
				tr, trErr := alphabet.Translate(opt.Table, rec.Seq, opt.Frame)
				if trErr != nil {
					return struct{}{}, trErr
				}
				if tr.Truncated > 0 {
					env.warnf("%s: %s: dropped %d trailing bases short of a codon", file, rec.ID, tr.Truncated)
				}
				if _, err := out.Insert(seq.Record{ID: rec.ID, Seq: tr.AA}); err != nil {
					return struct{}{}, err
				}
			}
			sf := writers.SeqFile{
				Path:      filepath.Join(opt.OutputDir, cliutil.Stem(file)+opt.OutFormat.Extension()),
				Format:    opt.OutFormat,
				Overwrite: env.Overwrite,
				Prompt:    env.Prompt,
			}
			return struct{}{}, sf.Write(out)
		})
	if err != nil {
		return len(results), err
	}
	return len(results), nil
}
