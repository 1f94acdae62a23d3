package fasta

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"segul-core/alphabet"
	"segul-core/seq"
	"segul-core/seqerr"
)

const plain = `>seq1 some description
ACGT
ACGT
>seq2
NN--
`

func TestStream(t *testing.T) {
	var recs []seq.Record
	err := Stream(strings.NewReader(plain), "in.fas", alphabet.DNA, func(r seq.Record) error {
		recs = append(recs, r)
		return nil
	})
	if err != nil {
		t.Fatalf("stream: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("records = %d, want 2", len(recs))
	}
	if recs[0].ID != "seq1" || recs[0].Desc != "some description" {
		t.Fatalf("rec 0: %+v", recs[0])
	}
	if string(recs[0].Seq) != "ACGTACGT" {
		t.Fatalf("rec 0 seq: %q", recs[0].Seq)
	}
	if string(recs[1].Seq) != "NN--" {
		t.Fatalf("rec 1 seq: %q", recs[1].Seq)
	}
}

func TestStreamInvalidCharacter(t *testing.T) {
	err := Stream(strings.NewReader(">x\nACET\n"), "in.fas", alphabet.DNA, func(seq.Record) error { return nil })
	var ice *seqerr.InvalidCharacterError
	if !errors.As(err, &ice) {
		t.Fatalf("want InvalidCharacterError, got %v", err)
	}
	if ice.Byte != 'E' || ice.Offset != 2 || ice.RecordID != "x" {
		t.Fatalf("error detail: %+v", ice)
	}
}

func TestStreamIgnoreSkipsValidation(t *testing.T) {
	err := Stream(strings.NewReader(">x\nAC!T\n"), "in.fas", alphabet.Ignore, func(seq.Record) error { return nil })
	if err != nil {
		t.Fatalf("ignore datatype should accept anything: %v", err)
	}
}

func TestReadDuplicates(t *testing.T) {
	var warned []string
	aln, err := Read(strings.NewReader(">a\nACGT\n>a\nACGT\n"), "in.fas", alphabet.DNA,
		func(m string) { warned = append(warned, m) })
	if err != nil {
		t.Fatalf("identical duplicate should warn: %v", err)
	}
	if aln.Len() != 1 || len(warned) != 1 {
		t.Fatalf("len=%d warnings=%v", aln.Len(), warned)
	}
	if _, err := Read(strings.NewReader(">a\nACGT\n>a\nACGA\n"), "in.fas", alphabet.DNA, nil); err == nil {
		t.Fatal("conflicting duplicate should be fatal")
	}
}

func TestWriteRoundTrip(t *testing.T) {
	aln, err := Read(strings.NewReader(plain), "in.fas", alphabet.DNA, nil)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var buf bytes.Buffer
	if err := Write(&buf, aln, false); err != nil {
		t.Fatalf("write: %v", err)
	}
	back, err := Read(&buf, "out.fas", alphabet.DNA, nil)
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}
	for _, id := range aln.IDs() {
		a, _ := aln.Get(id)
		b, ok := back.Get(id)
		if !ok || !bytes.Equal(a.Seq, b.Seq) || a.Desc != b.Desc {
			t.Fatalf("round trip mismatch for %s", id)
		}
	}
}

func TestWriteInterleavedWraps(t *testing.T) {
	aln := seq.NewAlignment(alphabet.DNA)
	long := bytes.Repeat([]byte("ACGT"), 150) // 600 bases
	_, _ = aln.Insert(seq.Record{ID: "a", Seq: long})
	var buf bytes.Buffer
	if err := Write(&buf, aln, true); err != nil {
		t.Fatalf("write: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %d, want header + 2 blocks", len(lines))
	}
	if len(lines[1]) != 500 || len(lines[2]) != 100 {
		t.Fatalf("block lengths %d/%d", len(lines[1]), len(lines[2]))
	}
}
