// core/alphabet/translate.go
package alphabet

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownTable is returned for NCBI table ids that were never assigned.
	ErrUnknownTable = errors.New("unknown translation table")
	// ErrInvalidReadingFrame is returned for frames outside 1..3.
	ErrInvalidReadingFrame = errors.New("reading frame must be 1, 2, or 3")
)

// TranslateResult carries the protein sequence plus a truncation note when the
// trimmed input was not a multiple of three.
type TranslateResult struct {
	AA        []byte
	Truncated int // residual bases dropped from the right end
}

// Translate converts a DNA sequence into amino acids using the given NCBI
// table and reading frame. The frame trims frame-1 bases from the left;
// a trailing partial codon is dropped and reported via Truncated.
func Translate(tableID int, seq []byte, frame int) (TranslateResult, error) {
	t, ok := ncbiTables[tableID]
	if !ok {
		return TranslateResult{}, fmt.Errorf("%w: %d", ErrUnknownTable, tableID)
	}
	if frame < 1 || frame > 3 {
		return TranslateResult{}, fmt.Errorf("%w: got %d", ErrInvalidReadingFrame, frame)
	}
	if frame-1 >= len(seq) {
		return TranslateResult{}, nil
	}
	seq = seq[frame-1:]
	n := len(seq) / 3
	res := TranslateResult{
		AA:        make([]byte, 0, n),
		Truncated: len(seq) % 3,
	}
	for i := 0; i+3 <= len(seq); i += 3 {
		res.AA = append(res.AA, codonAA(t, seq[i:i+3]))
	}
	return res, nil
}
