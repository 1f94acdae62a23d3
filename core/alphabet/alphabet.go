// core/alphabet/alphabet.go
package alphabet

import "fmt"

// Datatype selects the residue alphabet used for validation.
type Datatype int

const (
	DNA Datatype = iota
	AminoAcid
	Ignore
)

func (d Datatype) String() string {
	switch d {
	case DNA:
		return "dna"
	case AminoAcid:
		return "aa"
	default:
		return "ignore"
	}
}

// ParseDatatype maps the CLI spelling to a Datatype.
func ParseDatatype(s string) (Datatype, error) {
	switch s {
	case "dna":
		return DNA, nil
	case "aa", "amino-acid":
		return AminoAcid, nil
	case "ignore":
		return Ignore, nil
	}
	return Ignore, fmt.Errorf("unknown datatype %q (want dna|aa|ignore)", s)
}

/* ---------------------- constant-time residue lookup ---------------------- */

var dnaValid [256]bool
var aaValid [256]bool

func init() {
	dna := "ACGTUNRYSWKMBDHV-?."
	for i := 0; i < len(dna); i++ {
		c := dna[i]
		dnaValid[c] = true
		dnaValid[lower(c)] = true
	}
	aa := "ARNDCQEGHILKMFPSTWYVBJZX*-?."
	for i := 0; i < len(aa); i++ {
		c := aa[i]
		aaValid[c] = true
		aaValid[lower(c)] = true
	}
}

func lower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + 32
	}
	return c
}

// Valid reports whether b belongs to the alphabet of d.
// Ignore accepts everything.
func Valid(d Datatype, b byte) bool {
	switch d {
	case DNA:
		return dnaValid[b]
	case AminoAcid:
		return aaValid[b]
	default:
		return true
	}
}

// IsGap reports a gap character ('-' or the '.' match symbol).
func IsGap(b byte) bool { return b == '-' || b == '.' }

// IsMissing reports a missing-data character for d.
func IsMissing(d Datatype, b byte) bool {
	if b == '?' {
		return true
	}
	switch d {
	case DNA:
		return b == 'N' || b == 'n'
	case AminoAcid:
		return b == 'X' || b == 'x'
	}
	return false
}

// IsUnambiguousDNA reports one of A/C/G/T in either case. Site statistics
// count only these characters.
func IsUnambiguousDNA(b byte) bool {
	switch b {
	case 'A', 'C', 'G', 'T', 'a', 'c', 'g', 't':
		return true
	}
	return false
}

// IsAmbiguousAA mirrors the statistics-side exclusion list for protein data.
func IsAmbiguousAA(b byte) bool {
	switch b {
	case 'X', 'x', 'B', 'b', 'Z', 'z', 'J', 'j', 'U', 'u', '?', '-', '.', '~', '*':
		return true
	}
	return false
}
