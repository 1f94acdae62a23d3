// core/stats/sites.go
// Package stats implements the summary engine: per-locus site statistics,
// character matrices, taxon aggregates, matrix completeness, and streaming
// read/contig summaries.
package stats

import (
	"segul-core/alphabet"
	"segul-core/seq"
)

// Sites holds the per-locus site classification counts.
type Sites struct {
	Conserved int
	Variable  int
	ParsInf   int
	Counts    int // sites with at least one unambiguous character
}

// PropVar returns the proportion of variable sites.
func (s Sites) PropVar() float64 { return ratio(s.Variable, s.Counts) }

// PropCons returns the proportion of conserved sites.
func (s Sites) PropCons() float64 { return ratio(s.Conserved, s.Counts) }

// PropParsInf returns the proportion of parsimony-informative sites.
func (s Sites) PropParsInf() float64 { return ratio(s.ParsInf, s.Counts) }

func ratio(a, b int) float64 {
	if b == 0 {
		return 0
	}
	return float64(a) / float64(b)
}

// CountSites classifies every column of an aligned matrix. Only unambiguous
// characters participate: A/C/G/T for DNA, the twenty standard codes for
// amino acids. A conserved column has exactly one distinct character, a
// variable column more than one, and a parsimony-informative column at least
// two characters that each occur in two or more taxa.
func CountSites(aln *seq.Alignment, d alphabet.Datatype) Sites {
	var s Sites
	nchar := aln.Nchar()
	recs := aln.Records()
	var counts [256]int
	for col := 0; col < nchar; col++ {
		var present [256]bool
		var touched []byte
		for i := range recs {
			if col >= len(recs[i].Seq) {
				continue
			}
			b := upper(recs[i].Seq[col])
			if !countable(d, b) {
				continue
			}
			if !present[b] {
				present[b] = true
				touched = append(touched, b)
			}
			counts[b]++
		}
		if len(touched) == 0 {
			continue
		}
		s.Counts++
		if len(touched) == 1 {
			s.Conserved++
		} else {
			s.Variable++
			patterns := 0
			for _, b := range touched {
				if counts[b] > 1 {
					patterns++
				}
			}
			if patterns >= 2 {
				s.ParsInf++
			}
		}
		for _, b := range touched {
			counts[b] = 0
		}
	}
	return s
}

func countable(d alphabet.Datatype, b byte) bool {
	if d == alphabet.AminoAcid {
		return !alphabet.IsAmbiguousAA(b)
	}
	return alphabet.IsUnambiguousDNA(b)
}

func upper(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - 32
	}
	return b
}
