// core/stats/chars.go
package stats

import (
	"segul-core/alphabet"
	"segul-core/seq"
)

// CharMatrix is the per-locus character census.
type CharMatrix struct {
	Ntax        int
	Nchar       int
	TotalChars  int
	Missing     int // missing symbols plus gaps
	Gaps        int
	Nucleotides int // unambiguous A/C/G/T
	GC          int
	AT          int
	Counts      map[byte]int // uppercase-normalized histogram
}

// CountChars walks every residue of the alignment once.
func CountChars(aln *seq.Alignment, d alphabet.Datatype) CharMatrix {
	cm := CharMatrix{
		Ntax:   aln.Len(),
		Nchar:  aln.Nchar(),
		Counts: make(map[byte]int),
	}
	for _, rec := range aln.Records() {
		for _, raw := range rec.Seq {
			b := upper(raw)
			cm.Counts[b]++
			cm.TotalChars++
			if alphabet.IsGap(b) {
				cm.Gaps++
				cm.Missing++
				continue
			}
			if alphabet.IsMissing(d, b) {
				cm.Missing++
				continue
			}
			switch b {
			case 'G', 'C':
				cm.GC++
				cm.Nucleotides++
			case 'A', 'T':
				cm.AT++
				cm.Nucleotides++
			}
		}
	}
	return cm
}

// GCContent returns the GC fraction over unambiguous bases.
func (cm CharMatrix) GCContent() float64 { return ratio(cm.GC, cm.Nucleotides) }

// ATContent returns the AT fraction over unambiguous bases.
func (cm CharMatrix) ATContent() float64 { return ratio(cm.AT, cm.Nucleotides) }

// PropMissing returns the proportion of gap and missing symbols.
func (cm CharMatrix) PropMissing() float64 { return ratio(cm.Missing, cm.TotalChars) }

// Locus bundles everything the summary engine computes for one alignment.
type Locus struct {
	Path  string
	Chars CharMatrix
	Sites Sites
}

// SummarizeAlignment runs the per-locus single pass.
func SummarizeAlignment(path string, aln *seq.Alignment, d alphabet.Datatype) Locus {
	return Locus{
		Path:  path,
		Chars: CountChars(aln, d),
		Sites: CountSites(aln, d),
	}
}

// TaxonStats aggregates one taxon's characters across loci.
type TaxonStats struct {
	Loci    int
	Chars   int
	Gaps    int
	Missing int
	GC      int
	AT      int
	Counts  map[byte]int
}

// TaxonAccumulator collects per-taxon totals across many alignments. It is
// single-writer: only the aggregator goroutine updates it.
type TaxonAccumulator struct {
	taxa map[string]*TaxonStats
}

// NewTaxonAccumulator returns an empty accumulator.
func NewTaxonAccumulator() *TaxonAccumulator {
	return &TaxonAccumulator{taxa: make(map[string]*TaxonStats)}
}

// Add records one alignment's residues.
func (t *TaxonAccumulator) Add(aln *seq.Alignment, d alphabet.Datatype) {
	for _, rec := range aln.Records() {
		ts, ok := t.taxa[rec.ID]
		if !ok {
			ts = &TaxonStats{Counts: make(map[byte]int)}
			t.taxa[rec.ID] = ts
		}
		ts.Loci++
		for _, raw := range rec.Seq {
			b := upper(raw)
			ts.Counts[b]++
			ts.Chars++
			if alphabet.IsGap(b) {
				ts.Gaps++
				continue
			}
			if alphabet.IsMissing(d, b) {
				ts.Missing++
				continue
			}
			switch b {
			case 'G', 'C':
				ts.GC++
			case 'A', 'T':
				ts.AT++
			}
		}
	}
}

// Taxa returns the aggregated map; callers must not mutate it.
func (t *TaxonAccumulator) Taxa() map[string]*TaxonStats { return t.taxa }
