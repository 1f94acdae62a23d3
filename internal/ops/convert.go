// internal/ops/convert.go
package ops

import (
	"context"
	"path/filepath"

	"segul/internal/cliutil"
	"segul/internal/runner"
	"segul/internal/writers"

	"segul-core/seqio"
)

// ConvertOptions configures format conversion.
type ConvertOptions struct {
	Input
	OutputDir string
	OutFormat seqio.OutputFormat
	Sort      bool // alphanumeric id order before writing
}

// Convert maps every input file to the output format, preserving the input
// stem. Codec errors pass through with their file context.
func Convert(ctx context.Context, env Env, opt ConvertOptions) (int, error) {
	results, err := runner.Map(ctx, runner.Options{Threads: env.Threads, Progress: env.Progress}, opt.Files,
		func(file string) (struct{}, error) {
			res, rdErr := seqio.ReadFile(file, opt.Format, opt.Datatype, func(m string) { env.warnf("%s: %s", file, m) })
			if rdErr != nil {
				return struct{}{}, rdErr
			}
			aln := res.Alignment
			if opt.Sort {
				aln.Sort()
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
	return len(results), nil
}
