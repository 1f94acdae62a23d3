// internal/ops/split.go
package ops

import (
	"context"
	"fmt"
	"path/filepath"

	"segul/internal/writers"

	"segul-core/alphabet"
	"segul-core/partition"
	"segul-core/seq"
	"segul-core/seqerr"
	"segul-core/seqio"
)

// SplitOptions configures partition-wise decomposition of one matrix.
type SplitOptions struct {
	Input             // exactly one file
	PartFile   string // standalone partition; empty uses the embedded sets block
	PartFormat PartFormat
	OutputDir  string
	Prefix     string
	OutFormat  seqio.OutputFormat
}

// Split is the inverse of Concat: each partition entry becomes its own
// alignment. Taxa with nothing but gaps and missing data inside an entry's
// range are dropped; entries left with no taxa are skipped with a warning.
func Split(ctx context.Context, env Env, opt SplitOptions) (int, error) {
	if len(opt.Files) != 1 {
		return 0, fmt.Errorf("split takes exactly one input matrix")
	}
	file := opt.Files[0]
	res, err := seqio.ReadFile(file, opt.Format, opt.Datatype, func(m string) { env.warnf("%s: %s", file, m) })
	if err != nil {
		return 0, err
	}
	aln := res.Alignment
	if !aln.IsAligned() {
		return 0, &seqerr.NotAlignedError{File: file}
	}

	entries := res.Charsets
	if opt.PartFile != "" {
		entries, err = ReadPartitionFile(opt.PartFile, opt.PartFormat)
		if err != nil {
			return 0, err
		}
	}
	if len(entries) == 0 {
		return 0, fmt.Errorf("%s: no partition given and none embedded", file)
	}
	partition.NormalizeNames(entries)
	if err := partition.Validate(entries, aln.Nchar()); err != nil {
		return 0, err
	}

	written := 0
	for _, e := range entries {
		select {
		case <-ctx.Done():
			return written, ctx.Err()
		default:
		}
		cols := e.Columns()
		sub := seq.NewAlignment(opt.Datatype)
		for _, rec := range aln.Records() {
			residues := make([]byte, 0, len(cols))
			keep := false
			for _, c := range cols {
				b := rec.Seq[c-1]
				if !alphabet.IsGap(b) && !alphabet.IsMissing(opt.Datatype, b) {
					keep = true
				}
				residues = append(residues, b)
			}
			if !keep {
				continue
			}
			if _, err := sub.Insert(seq.Record{ID: rec.ID, Seq: residues}); err != nil {
				return written, &seqerr.DuplicateIDError{File: file, ID: rec.ID}
			}
		}
		if sub.Len() == 0 {
			env.warnf("subset %s is empty after dropping gap-only taxa; skipped", e.Name)
			continue
		}
		name := opt.Prefix + e.Name + opt.OutFormat.Extension()
		sf := writers.SeqFile{
			Path:      filepath.Join(opt.OutputDir, name),
			Format:    opt.OutFormat,
			Overwrite: env.Overwrite,
			Prompt:    env.Prompt,
		}
		if err := sf.Write(sub); err != nil {
			return written, err
		}
		written++
	}
	if written == 0 {
		return 0, seqerr.ErrEmptyResult
	}
	return written, nil
}

// ReadPartitionFile parses a standalone partition in the requested syntax;
// with PartNexus or PartCharset the charset parser is used.
func ReadPartitionFile(path string, f PartFormat) ([]partition.Entry, error) {
	rc, err := seqio.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()
	if f == PartRaxml {
		return partition.ParseRaxml(rc, path)
	}
	return partition.ParseNexus(rc, path)
}
