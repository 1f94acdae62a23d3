// core/seqerr/seqerr.go
// Package seqerr defines the error taxonomy shared by the codecs, the
// operators, and the job runner. Every error carries the offending file so
// the runner can aggregate per-file reports.
package seqerr

import (
	"errors"
	"fmt"
)

var (
	ErrMixedDatatype     = errors.New("inputs mix DNA and amino-acid alignments")
	ErrEmptyResult       = errors.New("no alignments survived")
	ErrOverwriteDeclined = errors.New("overwrite declined")
)

// ParseError reports a malformed input file.
type ParseError struct {
	Format string
	File   string
	Line   int
	Msg    string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s: %s parse error at line %d: %s", e.File, e.Format, e.Line, e.Msg)
	}
	return fmt.Sprintf("%s: %s parse error: %s", e.File, e.Format, e.Msg)
}

// InvalidCharacterError reports the first residue outside the alphabet.
type InvalidCharacterError struct {
	File     string
	RecordID string
	Offset   int64
	Byte     byte
}

func (e *InvalidCharacterError) Error() string {
	return fmt.Sprintf("%s: invalid character %q in record %q at byte %d",
		e.File, e.Byte, e.RecordID, e.Offset)
}

// DuplicateIDError reports a repeated id with conflicting payloads.
type DuplicateIDError struct {
	File string
	ID   string
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("%s: duplicate id %q", e.File, e.ID)
}

// NotAlignedError reports ragged input to an operator that requires equal
// sequence lengths.
type NotAlignedError struct {
	File string
}

func (e *NotAlignedError) Error() string {
	return fmt.Sprintf("%s: sequences have unequal lengths", e.File)
}

// PartitionOutOfRangeError reports a partition entry outside the matrix.
type PartitionOutOfRangeError struct {
	Name  string
	Start int
	End   int
	Nchar int
}

func (e *PartitionOutOfRangeError) Error() string {
	return fmt.Sprintf("partition %q spans %d-%d outside matrix of %d columns",
		e.Name, e.Start, e.End, e.Nchar)
}

// InternalError wraps a recovered worker panic.
type InternalError struct {
	File  string
	Panic any
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("%s: internal error: %v", e.File, e.Panic)
}
