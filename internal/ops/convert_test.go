package ops

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"segul-core/alphabet"
	"segul-core/seqerr"
	"segul-core/seqio"
)

func TestConvertFastaToNexus(t *testing.T) {
	dir := t.TempDir()
	files := []string{write(t, dir, "locus1.fas", ">b\nACGT\n>a\nACGA\n")}
	outDir := filepath.Join(dir, "out")
	n, err := Convert(context.Background(), testEnv(), ConvertOptions{
		Input:     Input{Files: files, Format: seqio.Auto, Datatype: alphabet.DNA},
		OutputDir: outDir,
		OutFormat: seqio.OutNexus,
		Sort:      true,
	})
	if err != nil || n != 1 {
		t.Fatalf("convert: %d, %v", n, err)
	}
	data, err := os.ReadFile(filepath.Join(outDir, "locus1.nex"))
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	if !strings.Contains(out, "dimensions ntax=2 nchar=4;") {
		t.Fatalf("output:\n%s", out)
	}
	if strings.Index(out, "    a") > strings.Index(out, "    b") {
		t.Fatalf("sort not applied:\n%s", out)
	}
}

func TestConvertOverwriteDeclined(t *testing.T) {
	dir := t.TempDir()
	files := []string{write(t, dir, "locus1.fas", ">a\nACGT\n")}
	env := testEnv()
	env.Overwrite = false
	opt := ConvertOptions{
		Input:     Input{Files: files, Format: seqio.Auto, Datatype: alphabet.DNA},
		OutputDir: filepath.Join(dir, "out"),
		OutFormat: seqio.OutFasta,
	}
	if _, err := Convert(context.Background(), env, opt); err != nil {
		t.Fatalf("fresh output: %v", err)
	}
	_, err := Convert(context.Background(), env, opt)
	if !errors.Is(err, seqerr.ErrOverwriteDeclined) && (err == nil || !strings.Contains(err.Error(), "overwrite declined")) {
		t.Fatalf("second run should decline: %v", err)
	}
}

func TestConvertPassesThroughCodecErrors(t *testing.T) {
	dir := t.TempDir()
	files := []string{write(t, dir, "bad.fas", ">a\nAC!T\n")}
	_, err := Convert(context.Background(), testEnv(), ConvertOptions{
		Input:     Input{Files: files, Format: seqio.Auto, Datatype: alphabet.DNA},
		OutputDir: filepath.Join(dir, "out"),
		OutFormat: seqio.OutFasta,
	})
	if err == nil || !strings.Contains(err.Error(), "invalid character") {
		t.Fatalf("got %v", err)
	}
}
