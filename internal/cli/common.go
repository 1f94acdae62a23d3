// internal/cli/common.go
// Package cli parses subcommand flags. Each subcommand has its own FlagSet
// and options struct; resolution (globs, directory listing, format and
// datatype tags) happens here so the app layer only sees typed options.
package cli

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"segul/internal/cliutil"
	"segul/internal/version"

	"segul-core/alphabet"
	"segul-core/seq"
	"segul-core/seqio"
)

// NewFlagSet returns a configured FlagSet with custom usage/help.
func NewFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(),
			`segul %s: phylogenomic dataset manipulation

Version: %s

Usage of segul %s:
`, name, version.Version, name)
		fs.PrintDefaults()
	}
	return fs
}

// Common holds the flags shared by every subcommand.
type Common struct {
	Files     []string
	Format    seqio.Format
	Datatype  alphabet.Datatype
	Output    string
	OutFormat seqio.OutputFormat
	Overwrite bool
	Prefix    string
	Threads   int
}

type commonRaw struct {
	inputs    stringSlice
	dir       string
	format    string
	outFormat string
	datatype  string
}

// registerCommon wires the shared flags into fs. The returned raw values are
// resolved by resolve() after parsing.
func registerCommon(fs *flag.FlagSet, c *Common, defaultOut string) *commonRaw {
	raw := &commonRaw{}
	fs.Var(&raw.inputs, "i", "input file(s), repeatable, globs allowed (shorthand)")
	fs.Var(&raw.inputs, "input", "input file(s), repeatable, globs allowed")
	fs.StringVar(&raw.dir, "d", "", "input directory (shorthand)")
	fs.StringVar(&raw.dir, "dir", "", "input directory")
	fs.StringVar(&raw.format, "f", "auto", "input format: auto | nexus | phylip | fasta | fastq (shorthand)")
	fs.StringVar(&raw.format, "input-format", "auto", "input format: auto | nexus | phylip | fasta | fastq")
	fs.StringVar(&raw.outFormat, "F", "nexus", "output format: nexus | nexus-int | phylip | phylip-int | fasta | fasta-int (shorthand)")
	fs.StringVar(&raw.outFormat, "output-format", "nexus", "output format: nexus | nexus-int | phylip | phylip-int | fasta | fasta-int")
	fs.StringVar(&c.Output, "o", defaultOut, "output path (shorthand)")
	fs.StringVar(&c.Output, "output", defaultOut, "output path")
	fs.StringVar(&raw.datatype, "datatype", "dna", "sequence datatype: dna | aa | ignore")
	fs.BoolVar(&c.Overwrite, "overwrite", false, "replace existing outputs without prompting")
	fs.StringVar(&c.Prefix, "prefix", "", "prefix for output file names")
	fs.IntVar(&c.Threads, "threads", 0, "worker threads (0 = all CPUs)")
	return raw
}

// resolve turns raw flag text into typed options and the final file list.
func (raw *commonRaw) resolve(c *Common) error {
	format, err := seqio.ParseFormat(raw.format)
	if err != nil {
		return err
	}
	c.Format = format
	if c.OutFormat, err = seqio.ParseOutputFormat(raw.outFormat); err != nil {
		return err
	}
	if c.Datatype, err = alphabet.ParseDatatype(raw.datatype); err != nil {
		return err
	}
	if c.Files, err = cliutil.Inputs(raw.inputs, raw.dir, format); err != nil {
		return err
	}
	if c.Threads < 0 {
		return fmt.Errorf("--threads must be >= 0")
	}
	return nil
}

// resolvePlain resolves inputs that are not sequence files (partition
// files), so no extension filtering applies. Directories list every plain
// file.
func (raw *commonRaw) resolvePlain(c *Common) error {
	if raw.dir != "" && len(raw.inputs) > 0 {
		return fmt.Errorf("--input conflicts with --dir")
	}
	if raw.dir != "" {
		entries, err := os.ReadDir(raw.dir)
		if err != nil {
			return err
		}
		for _, e := range entries {
			if !e.IsDir() {
				c.Files = append(c.Files, filepath.Join(raw.dir, e.Name()))
			}
		}
	} else {
		files, err := cliutil.ExpandInputs(raw.inputs)
		if err != nil {
			return err
		}
		c.Files = files
	}
	if len(c.Files) == 0 {
		return fmt.Errorf("provide --input or --dir")
	}
	seq.SortAlnum(c.Files)
	var err error
	if c.Datatype, err = alphabet.ParseDatatype(raw.datatype); err != nil {
		return err
	}
	return nil
}

// stringSlice allows repeatable string flags.
type stringSlice []string

func (s *stringSlice) String() string     { return strings.Join(*s, ",") }
func (s *stringSlice) Set(v string) error { *s = append(*s, v); return nil }

// floatSlice allows repeatable float flags (e.g. --npercent).
type floatSlice []float64

func (s *floatSlice) String() string {
	parts := make([]string, len(*s))
	for i, f := range *s {
		parts[i] = strconv.FormatFloat(f, 'g', -1, 64)
	}
	return strings.Join(parts, ",")
}

func (s *floatSlice) Set(v string) error {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return err
	}
	if f <= 0 || f > 1 {
		return fmt.Errorf("percent %q must be in (0,1]", v)
	}
	*s = append(*s, f)
	return nil
}
