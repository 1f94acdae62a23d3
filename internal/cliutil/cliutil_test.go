package cliutil

import (
	"os"
	"path/filepath"
	"testing"

	"segul-core/seqio"
)

func touch(t *testing.T, dir, name string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(">a\nACGT\n"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestExpandInputsGlob(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "locus1.fas")
	touch(t, dir, "locus2.fas")
	got, err := ExpandInputs([]string{filepath.Join(dir, "*.fas")})
	if err != nil || len(got) != 2 {
		t.Fatalf("got %v, %v", got, err)
	}
	if _, err := ExpandInputs([]string{filepath.Join(dir, "*.nex")}); err == nil {
		t.Fatal("empty glob should fail")
	}
}

func TestCollectDirFiltersByFormat(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.fas")
	touch(t, dir, "b.nex")
	touch(t, dir, "notes.txt")
	got, err := CollectDir(dir, seqio.Fasta)
	if err != nil || len(got) != 1 {
		t.Fatalf("got %v, %v", got, err)
	}
	all, err := CollectDir(dir, seqio.Auto)
	if err != nil || len(all) != 2 {
		t.Fatalf("auto got %v, %v", all, err)
	}
}

func TestInputsSorted(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "locus10.fas")
	touch(t, dir, "locus2.fas")
	got, err := Inputs(nil, dir, seqio.Fasta)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(got[0]) != "locus2.fas" {
		t.Fatalf("order: %v", got)
	}
	if _, err := Inputs([]string{"x"}, dir, seqio.Fasta); err == nil {
		t.Fatal("input+dir should conflict")
	}
}

func TestStem(t *testing.T) {
	if Stem("/x/y/reads.fastq.gz") != "reads" || Stem("a.nex") != "a" {
		t.Fatal("stem")
	}
}
