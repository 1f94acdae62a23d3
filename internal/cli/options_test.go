package cli

import (
	"errors"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"segul-core/alphabet"
	"segul-core/seqio"
)

func fixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range []string{"locus1.fas", "locus2.fas"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(">a\nACGT\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestParseConcat(t *testing.T) {
	dir := fixture(t)
	fs := NewFlagSet("concat")
	opt, err := ParseConcat(fs, []string{"-d", dir, "-F", "phylip", "-p", "raxml", "--codon", "-o", "out"})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(opt.Files) != 2 || opt.OutFormat != seqio.OutPhylip || opt.Part != "raxml" || !opt.Codon {
		t.Fatalf("opt: %+v", opt)
	}
	if opt.Datatype != alphabet.DNA {
		t.Fatalf("datatype: %v", opt.Datatype)
	}
}

func TestParseConcatRejectsBadPart(t *testing.T) {
	dir := fixture(t)
	fs := NewFlagSet("concat")
	if _, err := ParseConcat(fs, []string{"-d", dir, "-p", "beast"}); err == nil {
		t.Fatal("bad partition format should fail")
	}
}

func TestParseFilterNeedsPredicate(t *testing.T) {
	dir := fixture(t)
	fs := NewFlagSet("filter")
	if _, err := ParseFilter(fs, []string{"-d", dir}); err == nil {
		t.Fatal("predicate-less filter should fail")
	}
	fs = NewFlagSet("filter")
	opt, err := ParseFilter(fs, []string{"-d", dir, "--npercent", "0.5", "--npercent", "0.9"})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(opt.NPercents) != 2 || opt.NPercents[1] != 0.9 {
		t.Fatalf("npercent: %v", opt.NPercents)
	}
}

func TestParseFilterRejectsBadPercent(t *testing.T) {
	dir := fixture(t)
	fs := NewFlagSet("filter")
	if _, err := ParseFilter(fs, []string{"-d", dir, "--npercent", "1.5"}); err == nil {
		t.Fatal("percent > 1 should fail")
	}
}

func TestParseExtractModes(t *testing.T) {
	dir := fixture(t)
	fs := NewFlagSet("extract")
	if _, err := ParseExtract(fs, []string{"-d", dir}); err == nil {
		t.Fatal("no selection mode should fail")
	}
	fs = NewFlagSet("extract")
	if _, err := ParseExtract(fs, []string{"-d", dir, "--id", "a", "--re", "^sp"}); err == nil {
		t.Fatal("two selection modes should fail")
	}
	fs = NewFlagSet("extract")
	opt, err := ParseExtract(fs, []string{"-d", dir, "--re", "^sp"})
	if err != nil || opt.Regex != "^sp" {
		t.Fatalf("%+v, %v", opt, err)
	}
}

func TestParseRenameModes(t *testing.T) {
	dir := fixture(t)
	fs := NewFlagSet("rename")
	if _, err := ParseRename(fs, []string{"-d", dir, "--remove", "x", "--names", "t.csv"}); err == nil {
		t.Fatal("two rename modes should fail")
	}
	fs = NewFlagSet("rename")
	if _, err := ParseRename(fs, []string{"-d", dir, "--replace-from", "x"}); err == nil {
		t.Fatal("replace-from without replace-to should fail")
	}
}

func TestParseSummaryInterval(t *testing.T) {
	dir := fixture(t)
	fs := NewFlagSet("summary")
	if _, err := ParseSummary(fs, []string{"-d", dir, "--interval", "3"}); err == nil {
		t.Fatal("interval 3 should fail")
	}
	fs = NewFlagSet("summary")
	opt, err := ParseSummary(fs, []string{"-d", dir, "--interval", "10", "--mode", "complete"})
	if err != nil || opt.Interval != 10 {
		t.Fatalf("%+v, %v", opt, err)
	}
}

func TestParseHelp(t *testing.T) {
	fs := NewFlagSet("convert")
	fs.SetOutput(discard{})
	_, err := ParseConvert(fs, []string{"-h"})
	if !errors.Is(err, flag.ErrHelp) {
		t.Fatalf("got %v", err)
	}
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
