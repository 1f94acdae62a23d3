// internal/ops/concat.go
package ops

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"segul/internal/cliutil"
	"segul/internal/runner"
	"segul/internal/writers"

	"segul-core/partition"
	"segul-core/seq"
	"segul-core/seqerr"
	"segul-core/seqio"
)

// PartFormat selects how the partition travels with a concatenated matrix.
type PartFormat string

const (
	PartRaxml   PartFormat = "raxml"
	PartNexus   PartFormat = "nexus"
	PartCharset PartFormat = "charset" // embedded in the NEXUS output
)

// ParsePartFormat maps the CLI spelling.
func ParsePartFormat(s string) (PartFormat, error) {
	switch s {
	case "raxml":
		return PartRaxml, nil
	case "nexus":
		return PartNexus, nil
	case "charset":
		return PartCharset, nil
	}
	return PartNexus, fmt.Errorf("unknown partition format %q (want nexus|charset|raxml)", s)
}

// ConcatOptions configures super-matrix assembly.
type ConcatOptions struct {
	Input
	Output     string // matrix file path, extension added when absent
	OutFormat  seqio.OutputFormat
	PartFormat PartFormat
	Codon      bool // split each locus entry into stride-3 codon subsets
}

// ConcatResult reports what was assembled.
type ConcatResult struct {
	Ntax          int
	Nchar         int
	Loci          int
	MatrixPath    string
	PartitionPath string // empty when the partition is embedded
}

type concatMeta struct {
	ids      []string
	nchar    int
	declared string
}

// Concat builds the super-matrix per the streaming design: a metadata pass
// computes the id union and per-locus widths, then a bounded second pass
// appends residues to per-taxon buffers in alphanumeric file order. Taxa
// absent from a locus are padded with missing before their first appearance
// and with gaps after it.
func Concat(ctx context.Context, env Env, opt ConcatOptions) (*ConcatResult, error) {
	files := opt.Files
	if len(files) == 0 {
		return nil, seqerr.ErrEmptyResult
	}

	metas, err := runner.Map(ctx, runner.Options{Threads: env.Threads, Progress: env.Progress}, files,
		func(file string) (concatMeta, error) {
			res, err := seqio.ReadFile(file, opt.Format, opt.Datatype, nil)
			if err != nil {
				return concatMeta{}, err
			}
			if !res.Alignment.IsAligned() {
				return concatMeta{}, &seqerr.NotAlignedError{File: file}
			}
			return concatMeta{
				ids:      res.Alignment.IDs(),
				nchar:    res.Alignment.Nchar(),
				declared: res.Datatype,
			}, nil
		})
	if err != nil {
		return nil, err
	}

	// union of ids and first-appearance index, in scan order
	firstIdx := make(map[string]int)
	declared := ""
	for k, m := range metas {
		if m.Value.declared != "" {
			if declared == "" {
				declared = m.Value.declared
			} else if declared != m.Value.declared {
				return nil, seqerr.ErrMixedDatatype
			}
		}
		for _, id := range m.Value.ids {
			if _, seen := firstIdx[id]; !seen {
				firstIdx[id] = k
			}
		}
	}
	if err := checkDeclaredDatatype(declared, opt.Datatype); err != nil {
		return nil, seqerr.ErrMixedDatatype
	}
	union := make([]string, 0, len(firstIdx))
	for id := range firstIdx {
		union = append(union, id)
	}
	seq.SortAlnum(union)

	// partition entries follow the visit order
	entries := make([]partition.Entry, 0, len(metas))
	offset := 0
	for _, m := range metas {
		start := offset + 1
		offset += m.Value.nchar
		entries = append(entries, partition.Entry{
			Name:     strings.ReplaceAll(cliutil.Stem(m.File), ".", "_"),
			Datatype: datatypeName(opt.Datatype),
			Ranges:   []partition.Range{{Start: start, End: offset}},
		})
	}
	ncharTotal := offset

	// second pass in bounded chunks; rows grow append-only per taxon
	rows := make(map[string]*bytes.Buffer, len(union))
	for _, id := range union {
		buf := &bytes.Buffer{}
		buf.Grow(ncharTotal)
		rows[id] = buf
	}
	chunk := env.Threads
	if chunk < 1 {
		chunk = 4
	}
	chunk *= 2
	for lo := 0; lo < len(metas); lo += chunk {
		hi := lo + chunk
		if hi > len(metas) {
			hi = len(metas)
		}
		part := make([]string, 0, hi-lo)
		for _, m := range metas[lo:hi] {
			part = append(part, m.File)
		}
		alns, err := runner.Map(ctx, runner.Options{Threads: env.Threads}, part,
			func(file string) (*seq.Alignment, error) {
				res, err := seqio.ReadFile(file, opt.Format, opt.Datatype, nil)
				if err != nil {
					return nil, err
				}
				return res.Alignment, nil
			})
		if err != nil {
			return nil, err
		}
		for k, r := range alns {
			fileIdx := lo + k
			nchar := metas[fileIdx].Value.nchar
			for _, id := range union {
				if rec, ok := r.Value.Get(id); ok {
					rows[id].Write(rec.Seq)
					continue
				}
				fill := byte('-')
				if fileIdx < firstIdx[id] {
					fill = '?'
				}
				rows[id].Write(bytes.Repeat([]byte{fill}, nchar))
			}
		}
	}

	out := seq.NewAlignment(opt.Datatype)
	for _, id := range union {
		if _, err := out.Insert(seq.Record{ID: id, Seq: rows[id].Bytes()}); err != nil {
			return nil, err
		}
	}

	if opt.Codon {
		var split []partition.Entry
		for _, e := range entries {
			split = append(split, partition.SplitCodon(e)...)
		}
		entries = split
	}
	if err := partition.Validate(entries, ncharTotal); err != nil {
		return nil, err
	}

	matrixPath := opt.Output
	if filepath.Ext(matrixPath) == "" {
		matrixPath += opt.OutFormat.Extension()
	}

	res := &ConcatResult{
		Ntax:       out.Len(),
		Nchar:      ncharTotal,
		Loci:       len(metas),
		MatrixPath: matrixPath,
	}

	partFormat := opt.PartFormat
	isNexusOut := opt.OutFormat == seqio.OutNexus || opt.OutFormat == seqio.OutNexusInt
	if partFormat == PartCharset && !isNexusOut {
		env.warnf("charset partitions need nexus output; writing a standalone nexus partition instead")
		partFormat = PartNexus
	}

	var embedded []partition.Entry
	if partFormat == PartCharset {
		embedded = entries
	}
	sf := writers.SeqFile{
		Path:      matrixPath,
		Format:    opt.OutFormat,
		Charsets:  embedded,
		Overwrite: env.Overwrite,
		Prompt:    env.Prompt,
	}
	if err := sf.Write(out); err != nil {
		return nil, err
	}

	if partFormat != PartCharset {
		base := strings.TrimSuffix(matrixPath, filepath.Ext(matrixPath))
		partPath := base + "_partition.txt"
		if partFormat == PartNexus {
			partPath = base + "_partition.nex"
		}
		if err := writePartitionFile(partPath, entries, partFormat, datatypeName(opt.Datatype), env); err != nil {
			return nil, err
		}
		res.PartitionPath = partPath
	}
	return res, nil
}

func writePartitionFile(path string, entries []partition.Entry, f PartFormat, def string, env Env) error {
	if err := writers.Guard(path, env.Overwrite, env.Prompt); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	fh, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(fh)
	if f == PartRaxml {
		err = partition.WriteRaxml(w, entries, def)
	} else {
		err = partition.WriteNexus(w, entries)
	}
	if err != nil {
		_ = fh.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		_ = fh.Close()
		return err
	}
	return fh.Close()
}
