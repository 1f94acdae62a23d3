// internal/cliutil/cliutil.go
package cliutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"segul-core/seq"
	"segul-core/seqio"
)

func hasGlobMeta(s string) bool { return strings.ContainsAny(s, "*?[") }

// ExpandInputs expands any globs among path arguments, failing on globs that
// match nothing.
func ExpandInputs(args []string) ([]string, error) {
	var out []string
	for _, a := range args {
		if a == "-" {
			out = append(out, a)
			continue
		}
		if hasGlobMeta(a) {
			m, err := filepath.Glob(a)
			if err != nil {
				return nil, fmt.Errorf("bad glob %q: %v", a, err)
			}
			if len(m) == 0 {
				return nil, fmt.Errorf("no input matched %q", a)
			}
			out = append(out, m...)
		} else {
			out = append(out, a)
		}
	}
	return out, nil
}

// CollectDir lists the files of dir whose extension resolves to the expected
// format; with Auto, any recognizable sequence file qualifies.
func CollectDir(dir string, format seqio.Format) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		path := filepath.Join(dir, e.Name())
		got, err := seqio.Detect(path, seqio.Auto)
		if err != nil {
			continue
		}
		if format == seqio.Auto || got == format {
			out = append(out, path)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no %s files found in %q", format, dir)
	}
	return out, nil
}

// Inputs resolves the -i/-d pair into a deterministic, alphanumerically
// sorted file list.
func Inputs(inputs []string, dir string, format seqio.Format) ([]string, error) {
	var files []string
	var err error
	switch {
	case dir != "" && len(inputs) > 0:
		return nil, fmt.Errorf("--input conflicts with --dir")
	case dir != "":
		files, err = CollectDir(dir, format)
	case len(inputs) > 0:
		files, err = ExpandInputs(inputs)
	default:
		return nil, fmt.Errorf("provide --input or --dir")
	}
	if err != nil {
		return nil, err
	}
	seq.SortAlnum(files)
	return files, nil
}

// Stem returns the file name without directory, .gz suffix, or extension.
func Stem(path string) string {
	name := filepath.Base(path)
	name = strings.TrimSuffix(name, ".gz")
	return strings.TrimSuffix(name, filepath.Ext(name))
}
