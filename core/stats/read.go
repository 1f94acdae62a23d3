// core/stats/read.go
package stats

import "segul-core/fastq"

// PhredOffset is the Sanger/Illumina 1.8+ quality encoding base.
const PhredOffset = 33

// maxPhred bounds the per-position quality histogram.
const maxPhred = 94

// PositionCensus counts bases and Phred scores observed at one read position.
type PositionCensus struct {
	Bases [5]int // A, C, G, T, other (N and friends)
	Phred [maxPhred]int
}

// ReadSummary is the streaming accumulator for FASTQ input. One instance per
// file; merge afterwards for dataset totals.
type ReadSummary struct {
	Reads     int
	Bases     int
	GC        int
	AT        int
	NCount    int
	LowPhred  int // bases whose quality byte maps outside Phred 0..maxPhred-1
	QualSum   int
	KeepByPos bool // complete mode retains per-position records
	lengths   []int
	positions []PositionCensus
}

// NewReadSummary returns an accumulator; keepByPos enables the per-position
// census needed for the complete report.
func NewReadSummary(keepByPos bool) *ReadSummary {
	return &ReadSummary{KeepByPos: keepByPos}
}

// Add consumes one read.
func (rs *ReadSummary) Add(rec fastq.Record) {
	rs.Reads++
	n := len(rec.Seq)
	rs.Bases += n
	rs.lengths = append(rs.lengths, n)
	if rs.KeepByPos && n > len(rs.positions) {
		grown := make([]PositionCensus, n)
		copy(grown, rs.positions)
		rs.positions = grown
	}
	for i := 0; i < n; i++ {
		b := upper(rec.Seq[i])
		slot := 4
		switch b {
		case 'A':
			rs.AT++
			slot = 0
		case 'C':
			rs.GC++
			slot = 1
		case 'G':
			rs.GC++
			slot = 2
		case 'T':
			rs.AT++
			slot = 3
		case 'N':
			rs.NCount++
		}
		q := int(rec.Qual[i]) - PhredOffset
		if q < 0 || q >= maxPhred {
			rs.LowPhred++
			q = 0
		}
		rs.QualSum += q
		if rs.KeepByPos {
			rs.positions[i].Bases[slot]++
			rs.positions[i].Phred[q]++
		}
	}
}

// Lengths returns the per-read length list.
func (rs *ReadSummary) Lengths() []int { return rs.lengths }

// Positions returns the per-position census (complete mode only).
func (rs *ReadSummary) Positions() []PositionCensus { return rs.positions }

// NStats returns the read-length N-statistics.
func (rs *ReadSummary) NStats() NStats { return ComputeNStats(rs.lengths) }

// LengthSummary returns the read-length distribution moments.
func (rs *ReadSummary) LengthSummary() LengthSummary { return SummarizeLengths(rs.lengths) }

// GCContent is the GC fraction over unambiguous bases.
func (rs *ReadSummary) GCContent() float64 { return ratio(rs.GC, rs.GC+rs.AT) }

// MeanQual is the mean Phred score over all bases.
func (rs *ReadSummary) MeanQual() float64 {
	if rs.Bases == 0 {
		return 0
	}
	return float64(rs.QualSum) / float64(rs.Bases)
}

// Merge folds other into rs for dataset-wide totals.
func (rs *ReadSummary) Merge(other *ReadSummary) {
	rs.Reads += other.Reads
	rs.Bases += other.Bases
	rs.GC += other.GC
	rs.AT += other.AT
	rs.NCount += other.NCount
	rs.LowPhred += other.LowPhred
	rs.QualSum += other.QualSum
	rs.lengths = append(rs.lengths, other.lengths...)
	if rs.KeepByPos {
		if len(other.positions) > len(rs.positions) {
			grown := make([]PositionCensus, len(other.positions))
			copy(grown, rs.positions)
			rs.positions = grown
		}
		for i := range other.positions {
			for k := 0; k < 5; k++ {
				rs.positions[i].Bases[k] += other.positions[i].Bases[k]
			}
			for k := 0; k < maxPhred; k++ {
				rs.positions[i].Phred[k] += other.positions[i].Phred[k]
			}
		}
	}
}
