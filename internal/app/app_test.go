package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// chtmp keeps segul.log inside the test sandbox.
func chtmp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	orig, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(orig) })
	return dir
}

func run(t *testing.T, argv ...string) (int, string, string) {
	t.Helper()
	var out, errb bytes.Buffer
	code := RunContext(context.Background(), argv, &out, &errb)
	return code, out.String(), errb.String()
}

func TestVersionAndHelp(t *testing.T) {
	code, out, _ := run(t, "version")
	if code != 0 || !strings.Contains(out, "segul version") {
		t.Fatalf("version: %d %q", code, out)
	}
	code, out, _ = run(t)
	if code != 0 || !strings.Contains(out, "Usage: segul") {
		t.Fatalf("bare run: %d %q", code, out)
	}
}

func TestUnknownCommand(t *testing.T) {
	chtmp(t)
	code, _, errb := run(t, "frobnicate")
	if code != 1 || !strings.Contains(errb, "unknown command") {
		t.Fatalf("%d %q", code, errb)
	}
}

func TestConvertEndToEnd(t *testing.T) {
	dir := chtmp(t)
	src := filepath.Join(dir, "locus1.fas")
	if err := os.WriteFile(src, []byte(">a\nACGT\n>b\nACGA\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	code, out, errb := run(t, "convert", "-i", src, "-F", "phylip", "-o", filepath.Join(dir, "out"), "--overwrite")
	if code != 0 {
		t.Fatalf("convert failed: %d\nstdout: %s\nstderr: %s", code, out, errb)
	}
	data, err := os.ReadFile(filepath.Join(dir, "out", "locus1.phy"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "2 4\n") {
		t.Fatalf("output: %q", data)
	}
	if _, err := os.Stat(filepath.Join(dir, "segul.log")); err != nil {
		t.Fatalf("segul.log missing: %v", err)
	}
}

func TestConcatEndToEnd(t *testing.T) {
	dir := chtmp(t)
	if err := os.WriteFile(filepath.Join(dir, "locus1.fas"), []byte(">a\nACGT\n>b\nACGA\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "locus2.fas"), []byte(">a\nGGG\n>c\nTTT\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	code, out, errb := run(t, "concat", "-d", dir, "-F", "fasta", "-p", "raxml",
		"-o", filepath.Join(dir, "concat"), "--overwrite")
	if code != 0 {
		t.Fatalf("concat failed: %d\nstdout: %s\nstderr: %s", code, out, errb)
	}
	if !strings.Contains(out, "Concatenated 2 loci: 3 taxa, 7 sites") {
		t.Fatalf("stdout: %q", out)
	}
}

func TestParseErrorExitCode(t *testing.T) {
	dir := chtmp(t)
	src := filepath.Join(dir, "bad.fas")
	if err := os.WriteFile(src, []byte(">a\nAC!T\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	code, _, _ := run(t, "convert", "-i", src, "-o", filepath.Join(dir, "out"), "--overwrite")
	if code != 2 {
		t.Fatalf("invalid character should exit 2, got %d", code)
	}
}

func TestOverwriteDeclinedExitCode(t *testing.T) {
	dir := chtmp(t)
	src := filepath.Join(dir, "locus1.fas")
	if err := os.WriteFile(src, []byte(">a\nACGT\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "out")
	if code, _, _ := run(t, "convert", "-i", src, "-F", "fasta", "-o", out, "--overwrite"); code != 0 {
		t.Fatal("first conversion should pass")
	}
	// second run without --overwrite; stdin is not a terminal, prompt declines
	code, _, _ := run(t, "convert", "-i", src, "-F", "fasta", "-o", out)
	if code != 3 {
		t.Fatalf("declined overwrite should exit 3, got %d", code)
	}
}

func TestUsageErrorExitCode(t *testing.T) {
	chtmp(t)
	code, _, errb := run(t, "convert")
	if code != 1 || !strings.Contains(errb, "provide --input or --dir") {
		t.Fatalf("%d %q", code, errb)
	}
}
