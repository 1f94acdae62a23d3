package stats

import (
	"math"
	"testing"

	"segul-core/alphabet"
	"segul-core/fastq"
	"segul-core/seq"
)

func aln(t *testing.T, rows map[string]string) *seq.Alignment {
	t.Helper()
	a := seq.NewAlignment(alphabet.DNA)
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		if s, ok := rows[id]; ok {
			if _, err := a.Insert(seq.Record{ID: id, Seq: []byte(s)}); err != nil {
				t.Fatalf("insert %s: %v", id, err)
			}
		}
	}
	return a
}

func TestCountSitesScenario(t *testing.T) {
	a := aln(t, map[string]string{"a": "AAAA", "b": "AAAT", "c": "AATA", "d": "ATAA"})
	s := CountSites(a, alphabet.DNA)
	if s.Conserved != 1 || s.Variable != 3 || s.ParsInf != 0 {
		t.Fatalf("sites = %+v", s)
	}
}

func TestCountSitesParsInf(t *testing.T) {
	// two characters each in two taxa at columns 3 and 4
	a := aln(t, map[string]string{"a": "AAAT", "b": "AAAT", "c": "AATA", "d": "AATA"})
	s := CountSites(a, alphabet.DNA)
	if s.ParsInf != 2 {
		t.Fatalf("pars inf = %d, want 2", s.ParsInf)
	}
}

func TestCountSitesIgnoresAmbiguous(t *testing.T) {
	// N and gaps do not create variability
	a := aln(t, map[string]string{"a": "AN-", "b": "A??", "c": "AN-"})
	s := CountSites(a, alphabet.DNA)
	if s.Conserved != 1 || s.Variable != 0 || s.Counts != 1 {
		t.Fatalf("sites = %+v", s)
	}
}

func TestCountChars(t *testing.T) {
	a := aln(t, map[string]string{"a": "ACGT", "b": "GG-?"})
	cm := CountChars(a, alphabet.DNA)
	if cm.TotalChars != 8 || cm.Missing != 2 || cm.Gaps != 1 {
		t.Fatalf("chars = %+v", cm)
	}
	if cm.GC != 4 || cm.AT != 2 {
		t.Fatalf("gc/at = %d/%d", cm.GC, cm.AT)
	}
	if got := cm.GCContent(); math.Abs(got-4.0/6.0) > 1e-9 {
		t.Fatalf("gc content = %f", got)
	}
	if cm.Counts['G'] != 3 {
		t.Fatalf("counts = %+v", cm.Counts)
	}
}

func TestTaxonAccumulator(t *testing.T) {
	acc := NewTaxonAccumulator()
	acc.Add(aln(t, map[string]string{"a": "ACGT", "b": "AC--"}), alphabet.DNA)
	acc.Add(aln(t, map[string]string{"a": "GGGG"}), alphabet.DNA)
	ta := acc.Taxa()["a"]
	if ta.Loci != 2 || ta.Chars != 8 || ta.GC != 6 {
		t.Fatalf("taxon a: %+v", ta)
	}
	tb := acc.Taxa()["b"]
	if tb.Loci != 1 || tb.Gaps != 2 {
		t.Fatalf("taxon b: %+v", tb)
	}
}

func TestMatrixCompleteness(t *testing.T) {
	// 10 loci over a union of 10 taxa
	ntax := []int{2, 4, 5, 5, 6, 7, 8, 8, 9, 10}
	buckets := MatrixCompleteness(ntax, 10, 5)
	if buckets[0].Percent != 100 || buckets[0].Loci != 1 {
		t.Fatalf("bucket 0: %+v", buckets[0])
	}
	for _, b := range buckets {
		if b.Percent == 50 && b.Loci != 8 {
			t.Fatalf("50%% bucket = %d, want 8", b.Loci)
		}
	}
	// ladder stops once every locus qualifies
	last := buckets[len(buckets)-1]
	if last.Loci != len(ntax) {
		t.Fatalf("ladder should end at full coverage: %+v", last)
	}
}

func TestComputeNStats(t *testing.T) {
	ns := ComputeNStats([]int{2, 2, 2, 3, 3, 4, 8, 8})
	// total 32; cumulative descending 8,16,20,23,26,28,30,32
	if ns.N50 != 8 || ns.N75 != 3 || ns.N90 != 2 {
		t.Fatalf("nstats = %+v", ns)
	}
}

func TestSummarizeLengths(t *testing.T) {
	ls := SummarizeLengths([]int{1, 2, 3, 4})
	if ls.Count != 4 || ls.Total != 10 || ls.Min != 1 || ls.Max != 4 {
		t.Fatalf("lengths = %+v", ls)
	}
	if math.Abs(ls.Mean-2.5) > 1e-9 || math.Abs(ls.Median-2.5) > 1e-9 {
		t.Fatalf("mean = %f median = %f", ls.Mean, ls.Median)
	}
}

func TestReadSummary(t *testing.T) {
	rs := NewReadSummary(true)
	rs.Add(fastq.Record{ID: "r1", Seq: []byte("ACGT"), Qual: []byte("IIII")})
	rs.Add(fastq.Record{ID: "r2", Seq: []byte("GGN"), Qual: []byte("!!#")})
	if rs.Reads != 2 || rs.Bases != 7 || rs.NCount != 1 {
		t.Fatalf("summary = %+v", rs)
	}
	if rs.GC != 4 || rs.AT != 2 {
		t.Fatalf("gc/at = %d/%d", rs.GC, rs.AT)
	}
	// 'I' is Phred 40, '!' is 0, '#' is 2
	pos := rs.Positions()
	if pos[0].Phred[40] != 1 || pos[0].Phred[0] != 1 {
		t.Fatalf("pos 0 phred: %+v", pos[0].Phred[:42])
	}
	if pos[0].Bases[0] != 1 || pos[0].Bases[2] != 1 {
		t.Fatalf("pos 0 bases: %+v", pos[0].Bases)
	}
	if rs.Positions()[3].Bases[3] != 1 {
		t.Fatalf("pos 3: %+v", pos[3].Bases)
	}
}

func TestContigSummary(t *testing.T) {
	var cs ContigSummary
	cs.Add(seq.Record{ID: "c1", Seq: []byte("ACGTACGT")})
	cs.Add(seq.Record{ID: "c2", Seq: []byte("GGGG")})
	if cs.Count != 2 || cs.NStats().N50 != 8 {
		t.Fatalf("contigs = %+v n50=%d", cs, cs.NStats().N50)
	}
	ls := cs.LengthSummary()
	if ls.Min != 4 || ls.Max != 8 || ls.Total != 12 {
		t.Fatalf("lengths = %+v", ls)
	}
}
