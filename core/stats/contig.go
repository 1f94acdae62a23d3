// core/stats/contig.go
package stats

import "segul-core/seq"

// ContigSummary accumulates FASTA contig statistics without keeping the
// sequences.
type ContigSummary struct {
	Count   int
	GC      int
	AT      int
	NCount  int
	lengths []int
}

// Add consumes one contig record.
func (cs *ContigSummary) Add(rec seq.Record) {
	cs.Count++
	cs.lengths = append(cs.lengths, len(rec.Seq))
	for _, raw := range rec.Seq {
		switch upper(raw) {
		case 'G', 'C':
			cs.GC++
		case 'A', 'T':
			cs.AT++
		case 'N':
			cs.NCount++
		}
	}
}

// NStats returns contig-length N-statistics.
func (cs *ContigSummary) NStats() NStats { return ComputeNStats(cs.lengths) }

// LengthSummary returns the contig-length distribution moments.
func (cs *ContigSummary) LengthSummary() LengthSummary { return SummarizeLengths(cs.lengths) }

// GCContent is the GC fraction over unambiguous bases.
func (cs *ContigSummary) GCContent() float64 { return ratio(cs.GC, cs.GC+cs.AT) }

// Merge folds other into cs.
func (cs *ContigSummary) Merge(other *ContigSummary) {
	cs.Count += other.Count
	cs.GC += other.GC
	cs.AT += other.AT
	cs.NCount += other.NCount
	cs.lengths = append(cs.lengths, other.lengths...)
}
