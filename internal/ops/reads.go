// internal/ops/reads.go
package ops

import (
	"bufio"
	"context"
	"fmt"
	"path/filepath"

	"segul/internal/cliutil"
	"segul/internal/runner"
	"segul/internal/writers"

	"segul-core/alphabet"
	"segul-core/fasta"
	"segul-core/fastq"
	"segul-core/seq"
	"segul-core/seqio"
	"segul-core/stats"
)

// ReadMode selects how much the FASTQ summary retains.
type ReadMode int

const (
	ReadMinimal ReadMode = iota
	ReadDefault
	ReadComplete // per-position census, written as zip-compressed CSV
)

// ParseReadMode maps the CLI spelling.
func ParseReadMode(s string) (ReadMode, error) {
	switch s {
	case "minimal":
		return ReadMinimal, nil
	case "default", "":
		return ReadDefault, nil
	case "complete":
		return ReadComplete, nil
	}
	return ReadDefault, fmt.Errorf("unknown summary mode %q (want minimal|default|complete)", s)
}

// ReadSummaryOptions configures the FASTQ summary.
type ReadSummaryOptions struct {
	Files     []string
	Mode      ReadMode
	OutputDir string
}

// FileReadSummary pairs a file with its accumulator.
type FileReadSummary struct {
	File    string
	Summary *stats.ReadSummary
}

// SummarizeReads streams every FASTQ file through its own accumulator and
// merges the per-file results into dataset totals. Quality bytes that map
// outside Phred+33 0..93 are reported in one warning per file; the offset is
// not auto-detected, and offset-64 input, which maps inside that range, is not
// flagged.
func SummarizeReads(ctx context.Context, env Env, opt ReadSummaryOptions) ([]FileReadSummary, *stats.ReadSummary, error) {
	keepPos := opt.Mode == ReadComplete
	results, err := runner.Map(ctx, runner.Options{Threads: env.Threads, Progress: env.Progress}, opt.Files,
		func(file string) (*stats.ReadSummary, error) {
			rc, err := seqio.Open(file)
			if err != nil {
				return nil, err
			}
			defer func() { _ = rc.Close() }()
			rs := stats.NewReadSummary(keepPos)
			if err := fastq.Stream(rc, file, func(rec fastq.Record) error {
				rs.Add(rec)
				return nil
			}); err != nil {
				return nil, err
			}
			return rs, nil
		})
	if err != nil {
		return nil, nil, err
	}

	total := stats.NewReadSummary(keepPos)
	perFile := make([]FileReadSummary, 0, len(results))
	for _, r := range results {
		if r.Value.LowPhred > 0 {
			env.warnf("%s: %d quality bytes outside the Phred+33 range", r.File, r.Value.LowPhred)
		}
		perFile = append(perFile, FileReadSummary{File: r.File, Summary: r.Value})
		total.Merge(r.Value)
	}

	if keepPos && opt.OutputDir != "" {
		for _, fr := range perFile {
			path := filepath.Join(opt.OutputDir, cliutil.Stem(fr.File)+"_positions.csv.zip")
			if err := writers.PositionCSVZip(path, fr.Summary.Positions(), env.Overwrite, env.Prompt); err != nil {
				return nil, nil, err
			}
		}
	}
	return perFile, total, nil
}

// PrintReadReport renders per-file and total read statistics.
func PrintReadReport(w *bufio.Writer, perFile []FileReadSummary, total *stats.ReadSummary, mode ReadMode) {
	for _, fr := range perFile {
		printOneRead(w, fr.File, fr.Summary, mode)
	}
	if len(perFile) > 1 {
		printOneRead(w, "TOTAL", total, mode)
	}
}

func printOneRead(w *bufio.Writer, name string, rs *stats.ReadSummary, mode ReadMode) {
	fmt.Fprintf(w, "%s\treads=%d\tbases=%d\n", name, rs.Reads, rs.Bases)
	if mode == ReadMinimal {
		return
	}
	ls := rs.LengthSummary()
	ns := rs.NStats()
	fmt.Fprintf(w, "\tlen min/mean/median/max=%d/%.2f/%.1f/%d\n", ls.Min, ls.Mean, ls.Median, ls.Max)
	fmt.Fprintf(w, "\tN50/N75/N90=%d/%d/%d\n", ns.N50, ns.N75, ns.N90)
	fmt.Fprintf(w, "\tGC=%.4f\tmean Phred=%.2f\tN=%d\n", rs.GCContent(), rs.MeanQual(), rs.NCount)
}

// ContigSummaryOptions configures the FASTA contig summary.
type ContigSummaryOptions struct {
	Files []string
}

// FileContigSummary pairs a file with its accumulator.
type FileContigSummary struct {
	File    string
	Summary *stats.ContigSummary
}

// SummarizeContigs streams contig FASTA files; sequences are never retained.
func SummarizeContigs(ctx context.Context, env Env, opt ContigSummaryOptions) ([]FileContigSummary, *stats.ContigSummary, error) {
	results, err := runner.Map(ctx, runner.Options{Threads: env.Threads, Progress: env.Progress}, opt.Files,
		func(file string) (*stats.ContigSummary, error) {
			rc, err := seqio.Open(file)
			if err != nil {
				return nil, err
			}
			defer func() { _ = rc.Close() }()
			var cs stats.ContigSummary
			if err := fasta.Stream(rc, file, alphabet.Ignore, func(rec seq.Record) error {
				cs.Add(rec)
				return nil
			}); err != nil {
				return nil, err
			}
			return &cs, nil
		})
	if err != nil {
		return nil, nil, err
	}
	total := &stats.ContigSummary{}
	perFile := make([]FileContigSummary, 0, len(results))
	for _, r := range results {
		perFile = append(perFile, FileContigSummary{File: r.File, Summary: r.Value})
		total.Merge(r.Value)
	}
	return perFile, total, nil
}

// PrintContigReport renders per-file and total contig statistics.
func PrintContigReport(w *bufio.Writer, perFile []FileContigSummary, total *stats.ContigSummary) {
	print := func(name string, cs *stats.ContigSummary) {
		ls := cs.LengthSummary()
		ns := cs.NStats()
		fmt.Fprintf(w, "%s\tcontigs=%d\tbases=%d\n", name, cs.Count, ls.Total)
		fmt.Fprintf(w, "\tlen min/mean/max=%d/%.2f/%d\tN50/N75/N90=%d/%d/%d\tGC=%.4f\n",
			ls.Min, ls.Mean, ls.Max, ns.N50, ns.N75, ns.N90, cs.GCContent())
	}
	for _, fc := range perFile {
		print(fc.File, fc.Summary)
	}
	if len(perFile) > 1 {
		print("TOTAL", total)
	}
}
