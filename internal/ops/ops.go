// internal/ops/ops.go
// Package ops implements the alignment operators. Each operator drives the
// runner over its input files, transforms alignments through the core codecs,
// and hands outputs to the writers package.
package ops

import (
	"fmt"

	"segul/internal/runner"
	"segul/internal/writers"

	"segul-core/alphabet"
	"segul-core/seqio"
)

// Env carries the cross-cutting collaborators every operator shares.
type Env struct {
	Threads   int
	Progress  runner.Progress
	Warn      func(format string, a ...any)
	Overwrite bool
	Prompt    writers.Prompt
}

func (e Env) warnf(format string, a ...any) {
	if e.Warn != nil {
		e.Warn(format, a...)
	}
}

// Input is the common slice of per-operator options describing what to read.
type Input struct {
	Files    []string
	Format   seqio.Format
	Datatype alphabet.Datatype
}

// datatypeName maps the alphabet tag to the partition/NEXUS spelling.
func datatypeName(d alphabet.Datatype) string {
	if d == alphabet.AminoAcid {
		return "protein"
	}
	return "DNA"
}

// checkDeclaredDatatype compares a NEXUS file's declared datatype against the
// configured one; disagreement across inputs is how MixedDatatype surfaces.
func checkDeclaredDatatype(declared string, d alphabet.Datatype) error {
	switch declared {
	case "", "standard":
		return nil
	case "dna", "nucleotide", "rna":
		if d == alphabet.AminoAcid {
			return fmt.Errorf("declared dna, configured aa")
		}
	case "protein":
		if d == alphabet.DNA {
			return fmt.Errorf("declared protein, configured dna")
		}
	}
	return nil
}
