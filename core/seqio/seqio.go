// core/seqio/seqio.go
// Package seqio dispatches between the per-format codecs and owns
// extension-based format detection.
package seqio

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"segul-core/alphabet"
	"segul-core/fasta"
	"segul-core/nexus"
	"segul-core/partition"
	"segul-core/phylip"
	"segul-core/seq"
)

// Format identifies an input layout.
type Format int

const (
	Auto Format = iota
	Fasta
	Nexus
	Phylip
	Fastq
)

func (f Format) String() string {
	switch f {
	case Fasta:
		return "fasta"
	case Nexus:
		return "nexus"
	case Phylip:
		return "phylip"
	case Fastq:
		return "fastq"
	default:
		return "auto"
	}
}

// ParseFormat maps the CLI spelling to a Format.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "auto":
		return Auto, nil
	case "fasta":
		return Fasta, nil
	case "nexus":
		return Nexus, nil
	case "phylip":
		return Phylip, nil
	case "fastq":
		return Fastq, nil
	}
	return Auto, fmt.Errorf("unknown input format %q", s)
}

var extFormats = map[string]Format{
	".fa":     Fasta,
	".fas":    Fasta,
	".fasta":  Fasta,
	".nex":    Nexus,
	".nxs":    Nexus,
	".nexus":  Nexus,
	".phy":    Phylip,
	".phylip": Phylip,
	".fq":     Fastq,
	".fastq":  Fastq,
}

// Detect resolves Auto by file extension, looking through a trailing .gz.
// Ambiguous extensions must be declared by the caller.
func Detect(path string, f Format) (Format, error) {
	if f != Auto {
		return f, nil
	}
	name := path
	if strings.HasSuffix(name, ".gz") {
		name = strings.TrimSuffix(name, ".gz")
	}
	if got, ok := extFormats[strings.ToLower(filepath.Ext(name))]; ok {
		return got, nil
	}
	return Auto, fmt.Errorf("cannot infer format of %q; declare --input-format", path)
}

// OutputFormat identifies an output layout.
type OutputFormat int

const (
	OutFasta OutputFormat = iota
	OutFastaInt
	OutNexus
	OutNexusInt
	OutPhylip
	OutPhylipInt
)

func (f OutputFormat) String() string {
	switch f {
	case OutFastaInt:
		return "fasta-int"
	case OutNexus:
		return "nexus"
	case OutNexusInt:
		return "nexus-int"
	case OutPhylip:
		return "phylip"
	case OutPhylipInt:
		return "phylip-int"
	default:
		return "fasta"
	}
}

// Extension returns the conventional file extension for f.
func (f OutputFormat) Extension() string {
	switch f {
	case OutNexus, OutNexusInt:
		return ".nex"
	case OutPhylip, OutPhylipInt:
		return ".phy"
	default:
		return ".fas"
	}
}

// ParseOutputFormat maps the CLI spelling to an OutputFormat.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch s {
	case "fasta":
		return OutFasta, nil
	case "fasta-int", "fasta-interleaved":
		return OutFastaInt, nil
	case "nexus":
		return OutNexus, nil
	case "nexus-int", "nexus-interleaved":
		return OutNexusInt, nil
	case "phylip":
		return OutPhylip, nil
	case "phylip-int", "phylip-interleaved":
		return OutPhylipInt, nil
	}
	return OutFasta, fmt.Errorf("unknown output format %q", s)
}

// ReadResult is an alignment plus charsets when the source embedded any.
// Datatype carries a NEXUS file's declared datatype token, empty elsewhere.
type ReadResult struct {
	Alignment *seq.Alignment
	Charsets  []partition.Entry
	Datatype  string
}

// ReadFile opens, detects, and parses an alignment file. FASTQ is rejected
// here; reads go through the streaming path in core/fastq.
func ReadFile(path string, f Format, d alphabet.Datatype, warn func(string)) (*ReadResult, error) {
	f, err := Detect(path, f)
	if err != nil {
		return nil, err
	}
	if f == Fastq {
		return nil, fmt.Errorf("%s: fastq input is stream-only; use the read summary", path)
	}
	rc, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()
	return readFrom(rc, path, f, d, warn)
}

func readFrom(r io.Reader, path string, f Format, d alphabet.Datatype, warn func(string)) (*ReadResult, error) {
	switch f {
	case Fasta:
		aln, err := fasta.Read(r, path, d, warn)
		if err != nil {
			return nil, err
		}
		return &ReadResult{Alignment: aln}, nil
	case Phylip:
		aln, err := phylip.Read(r, path, d, warn)
		if err != nil {
			return nil, err
		}
		return &ReadResult{Alignment: aln}, nil
	case Nexus:
		nf, err := nexus.Read(r, path, d, warn)
		if err != nil {
			return nil, err
		}
		return &ReadResult{Alignment: nf.Alignment, Charsets: nf.Charsets, Datatype: nf.Datatype}, nil
	}
	return nil, fmt.Errorf("%s: unsupported input format %q", path, f)
}

// WriteAlignment emits aln to w in the requested layout. Charsets are only
// representable in NEXUS; other formats ignore them.
func WriteAlignment(w io.Writer, aln *seq.Alignment, f OutputFormat, charsets []partition.Entry) error {
	switch f {
	case OutFasta:
		return fasta.Write(w, aln, false)
	case OutFastaInt:
		return fasta.Write(w, aln, true)
	case OutNexus:
		return nexus.Write(w, aln, false, charsets)
	case OutNexusInt:
		return nexus.Write(w, aln, true, charsets)
	case OutPhylip:
		return phylip.Write(w, aln, false)
	case OutPhylipInt:
		return phylip.Write(w, aln, true)
	}
	return fmt.Errorf("unsupported output format")
}
