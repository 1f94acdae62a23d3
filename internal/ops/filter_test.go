package ops

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"segul-core/alphabet"
	"segul-core/seqio"
)

// tenLoci writes loci whose taxon counts are 2,4,5,5,6,7,8,8,9,10 over a
// union of ten taxa.
func tenLoci(t *testing.T) (string, []string) {
	t.Helper()
	dir := t.TempDir()
	counts := []int{2, 4, 5, 5, 6, 7, 8, 8, 9, 10}
	var files []string
	for i, n := range counts {
		var b strings.Builder
		for tax := 0; tax < n; tax++ {
			fmt.Fprintf(&b, ">taxon%d\nACGT\n", tax)
		}
		files = append(files, write(t, dir, fmt.Sprintf("locus%02d.fas", i), b.String()))
	}
	return dir, files
}

func TestFilterPercent(t *testing.T) {
	dir, files := tenLoci(t)
	outDir := filepath.Join(dir, "filtered")
	n, err := Filter(context.Background(), testEnv(), FilterOptions{
		Input:     Input{Files: files, Format: seqio.Auto, Datatype: alphabet.DNA},
		OutputDir: outDir,
		OutFormat: seqio.OutFasta,
		Percent:   0.5,
		MinPIS:    -1,
		MaxPIS:    -1,
	})
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	if n != 8 {
		t.Fatalf("retained %d loci, want 8", n)
	}
	entries, _ := os.ReadDir(outDir)
	if len(entries) != 8 {
		t.Fatalf("wrote %d files", len(entries))
	}
}

// Filter monotonicity: a stricter threshold keeps a subset.
func TestFilterMonotonic(t *testing.T) {
	dir, files := tenLoci(t)
	keep := func(pct float64, sub string) int {
		n, err := Filter(context.Background(), testEnv(), FilterOptions{
			Input:     Input{Files: files, Format: seqio.Auto, Datatype: alphabet.DNA},
			OutputDir: filepath.Join(dir, sub),
			OutFormat: seqio.OutFasta,
			Percent:   pct,
			MinPIS:    -1,
			MaxPIS:    -1,
		})
		if err != nil {
			t.Fatalf("filter %f: %v", pct, err)
		}
		return n
	}
	if hi, lo := keep(0.8, "hi"), keep(0.4, "lo"); hi > lo {
		t.Fatalf("monotonicity violated: %d > %d", hi, lo)
	}
}

func TestFilterNPercents(t *testing.T) {
	dir, files := tenLoci(t)
	outDir := filepath.Join(dir, "filtered")
	_, err := Filter(context.Background(), testEnv(), FilterOptions{
		Input:     Input{Files: files, Format: seqio.Auto, Datatype: alphabet.DNA},
		OutputDir: outDir,
		OutFormat: seqio.OutFasta,
		NPercents: []float64{0.5, 0.9},
		MinPIS:    -1,
		MaxPIS:    -1,
	})
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	for _, sub := range []string{"percent_50", "percent_90"} {
		if _, err := os.Stat(filepath.Join(outDir, sub)); err != nil {
			t.Fatalf("missing %s: %v", sub, err)
		}
	}
	fifty, _ := os.ReadDir(filepath.Join(outDir, "percent_50"))
	ninety, _ := os.ReadDir(filepath.Join(outDir, "percent_90"))
	if len(fifty) != 8 || len(ninety) != 2 {
		t.Fatalf("50%%=%d 90%%=%d", len(fifty), len(ninety))
	}
}

func TestFilterTaxonAllAndLength(t *testing.T) {
	dir := t.TempDir()
	files := []string{
		write(t, dir, "a.fas", ">x\nACGTAC\n>y\nACGTAC\n"),
		write(t, dir, "b.fas", ">x\nACGT\n"),
	}
	n, err := Filter(context.Background(), testEnv(), FilterOptions{
		Input:     Input{Files: files, Format: seqio.Auto, Datatype: alphabet.DNA},
		OutputDir: filepath.Join(dir, "out"),
		OutFormat: seqio.OutFasta,
		MinLen:    5,
		TaxonAll:  []string{"y"},
		MinPIS:    -1,
		MaxPIS:    -1,
	})
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	if n != 1 {
		t.Fatalf("kept %d", n)
	}
}

func TestFilterConcatSurvivors(t *testing.T) {
	dir, files := tenLoci(t)
	outDir := filepath.Join(dir, "out")
	_, err := Filter(context.Background(), testEnv(), FilterOptions{
		Input:     Input{Files: files, Format: seqio.Auto, Datatype: alphabet.DNA},
		OutputDir: outDir,
		OutFormat: seqio.OutFasta,
		Percent:   0.9,
		MinPIS:    -1,
		MaxPIS:    -1,
		Concat: &ConcatOptions{
			Input:      Input{Format: seqio.Auto, Datatype: alphabet.DNA},
			Output:     "concat.fas",
			OutFormat:  seqio.OutFasta,
			PartFormat: PartRaxml,
		},
	})
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	got, err := seqio.ReadFile(filepath.Join(outDir, "concat.fas"), seqio.Auto, alphabet.DNA, nil)
	if err != nil {
		t.Fatal(err)
	}
	// two loci of 4 columns survive the 90% threshold
	if got.Alignment.Nchar() != 8 {
		t.Fatalf("nchar = %d", got.Alignment.Nchar())
	}
}
