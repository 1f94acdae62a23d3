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

func TestSummarize(t *testing.T) {
	dir := t.TempDir()
	files := []string{
		write(t, dir, "locus1.fas", ">a\nAAAA\n>b\nAAAT\n>c\nAATA\n>d\nATAA\n"),
		write(t, dir, "locus2.fas", ">a\nGGGG\n>b\nGGGG\n"),
	}
	outDir := filepath.Join(dir, "SEGUL-summary")
	rep, err := Summarize(context.Background(), testEnv(), SummaryOptions{
		Input:     Input{Files: files, Format: seqio.Auto, Datatype: alphabet.DNA},
		OutputDir: outDir,
		Interval:  5,
	})
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if rep.Loci != 2 || rep.TotalTaxa != 4 {
		t.Fatalf("report: %+v", rep)
	}
	if rep.TotalChars != 24 || rep.GC != 8 || rep.AT != 16 {
		t.Fatalf("chars: %+v", rep)
	}

	data, err := os.ReadFile(rep.LocusCSV)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("locus csv:\n%s", data)
	}
	// locus1: conserved=1 variable=3 pis=0
	if !strings.HasPrefix(lines[1], "locus1,4,4,0,") || !strings.Contains(lines[1], ",0,3,1,") {
		t.Fatalf("locus1 row: %s", lines[1])
	}

	taxon, err := os.ReadFile(rep.TaxonCSV)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(taxon), "a,2,8,") {
		t.Fatalf("taxon csv:\n%s", taxon)
	}
}

func TestSummaryAdditivity(t *testing.T) {
	dir := t.TempDir()
	a := write(t, dir, "a.fas", ">x\nACGT\n>y\nACGT\n")
	b := write(t, dir, "b.fas", ">x\nGGCC\n")
	run := func(files []string, sub string) *SummaryReport {
		rep, err := Summarize(context.Background(), testEnv(), SummaryOptions{
			Input:     Input{Files: files, Format: seqio.Auto, Datatype: alphabet.DNA},
			OutputDir: filepath.Join(dir, sub),
			Interval:  5,
		})
		if err != nil {
			t.Fatalf("summarize %s: %v", sub, err)
		}
		return rep
	}
	both := run([]string{a, b}, "both")
	onlyA := run([]string{a}, "onlya")
	onlyB := run([]string{b}, "onlyb")
	if both.TotalChars != onlyA.TotalChars+onlyB.TotalChars {
		t.Fatal("total chars must be additive")
	}
	if both.GC != onlyA.GC+onlyB.GC {
		t.Fatal("gc must be additive")
	}
	// taxa use set union, not a sum
	if both.TotalTaxa != 2 {
		t.Fatalf("union taxa = %d", both.TotalTaxa)
	}
}

func TestCollectIDs(t *testing.T) {
	dir := t.TempDir()
	files := []string{
		write(t, dir, "locus1.fas", ">b\nAC\n>a\nGT\n"),
		write(t, dir, "locus2.fas", ">c\nAC\n>a\nGT\n"),
	}
	outDir := filepath.Join(dir, "ids")
	res, err := CollectIDs(context.Background(), testEnv(), IDOptions{
		Input:     Input{Files: files, Format: seqio.Auto, Datatype: alphabet.DNA},
		OutputDir: outDir,
		Map:       true,
	})
	if err != nil {
		t.Fatalf("ids: %v", err)
	}
	if len(res.IDs) != 3 || res.IDs[0] != "a" {
		t.Fatalf("ids: %v", res.IDs)
	}
	data, err := os.ReadFile(res.MapPath)
	if err != nil {
		t.Fatal(err)
	}
	want := "locus,a,b,c\nlocus1,true,true,false\nlocus2,true,false,true\n"
	if string(data) != want {
		t.Fatalf("map:\n%s\nwant:\n%s", data, want)
	}
}
