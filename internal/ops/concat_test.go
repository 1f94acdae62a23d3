package ops

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"segul-core/alphabet"
	"segul-core/seqio"
)

func write(t *testing.T, dir, name, data string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func testEnv() Env {
	return Env{Threads: 2, Overwrite: true}
}

const locus1Nex = `#NEXUS
begin data;
    dimensions ntax=2 nchar=4;
    format datatype=dna missing=? gap=-;
    matrix
    a ACGT
    b ACGA
    ;
end;
`

const locus2Nex = `#NEXUS
begin data;
    dimensions ntax=2 nchar=3;
    format datatype=dna missing=? gap=-;
    matrix
    a GGG
    c TTT
    ;
end;
`

func writeLoci(t *testing.T) (dir string, files []string) {
	t.Helper()
	dir = t.TempDir()
	files = []string{
		write(t, dir, "locus1.nex", locus1Nex),
		write(t, dir, "locus2.nex", locus2Nex),
	}
	return dir, files
}

func TestConcatSuperMatrix(t *testing.T) {
	dir, files := writeLoci(t)
	out := filepath.Join(dir, "concat")
	res, err := Concat(context.Background(), testEnv(), ConcatOptions{
		Input:      Input{Files: files, Format: seqio.Auto, Datatype: alphabet.DNA},
		Output:     out,
		OutFormat:  seqio.OutFasta,
		PartFormat: PartRaxml,
	})
	if err != nil {
		t.Fatalf("concat: %v", err)
	}
	if res.Ntax != 3 || res.Nchar != 7 || res.Loci != 2 {
		t.Fatalf("result: %+v", res)
	}

	got, err := seqio.ReadFile(res.MatrixPath, seqio.Auto, alphabet.DNA, nil)
	if err != nil {
		t.Fatalf("read matrix: %v", err)
	}
	want := map[string]string{
		"a": "ACGTGGG",
		"b": "ACGA---",
		"c": "????TTT",
	}
	for id, w := range want {
		rec, ok := got.Alignment.Get(id)
		if !ok || string(rec.Seq) != w {
			t.Fatalf("taxon %s: got %q want %q", id, rec.Seq, w)
		}
	}

	part, err := os.ReadFile(res.PartitionPath)
	if err != nil {
		t.Fatalf("partition: %v", err)
	}
	wantPart := "DNA, locus1 = 1-4\nDNA, locus2 = 5-7\n"
	if string(part) != wantPart {
		t.Fatalf("partition:\n%s\nwant:\n%s", part, wantPart)
	}
}

func TestConcatCodonPartition(t *testing.T) {
	dir, files := writeLoci(t)
	res, err := Concat(context.Background(), testEnv(), ConcatOptions{
		Input:      Input{Files: files, Format: seqio.Auto, Datatype: alphabet.DNA},
		Output:     filepath.Join(dir, "concat.nex"),
		OutFormat:  seqio.OutNexus,
		PartFormat: PartRaxml,
		Codon:      true,
	})
	if err != nil {
		t.Fatalf("concat: %v", err)
	}
	part, err := os.ReadFile(res.PartitionPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(part), "locus1_subset1 = 1-4\\3") {
		t.Fatalf("partition:\n%s", part)
	}
}

func TestConcatEmbeddedCharset(t *testing.T) {
	dir, files := writeLoci(t)
	res, err := Concat(context.Background(), testEnv(), ConcatOptions{
		Input:      Input{Files: files, Format: seqio.Auto, Datatype: alphabet.DNA},
		Output:     filepath.Join(dir, "concat.nex"),
		OutFormat:  seqio.OutNexus,
		PartFormat: PartCharset,
	})
	if err != nil {
		t.Fatalf("concat: %v", err)
	}
	if res.PartitionPath != "" {
		t.Fatalf("charset should embed, got %q", res.PartitionPath)
	}
	got, err := seqio.ReadFile(res.MatrixPath, seqio.Auto, alphabet.DNA, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Charsets) != 2 || got.Charsets[0].Name != "locus1" {
		t.Fatalf("charsets: %+v", got.Charsets)
	}
}

func TestConcatRejectsRagged(t *testing.T) {
	dir := t.TempDir()
	files := []string{write(t, dir, "bad.fas", ">a\nACGT\n>b\nAC\n")}
	_, err := Concat(context.Background(), testEnv(), ConcatOptions{
		Input:     Input{Files: files, Format: seqio.Auto, Datatype: alphabet.DNA},
		Output:    filepath.Join(dir, "out"),
		OutFormat: seqio.OutFasta,
	})
	if err == nil || !strings.Contains(err.Error(), "unequal lengths") {
		t.Fatalf("got %v", err)
	}
}
