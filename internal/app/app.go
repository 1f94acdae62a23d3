// internal/app/app.go
// Package app dispatches subcommands and maps operator errors onto the
// stable exit codes: 0 success, 1 user/IO error, 2 parse/validation error,
// 3 overwrite declined.
package app

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"segul/internal/cli"
	"segul/internal/logutil"
	"segul/internal/ops"
	"segul/internal/runner"
	"segul/internal/version"
	"segul/internal/writers"

	"segul-core/alphabet"
	"segul-core/seqerr"
)

const usageText = `segul: phylogenomic dataset manipulation

Usage: segul <command> [flags]

Commands:
  concat     assemble a super-matrix with partition metadata
  convert    change alignment formats
  filter     keep alignments passing predicates
  split      decompose a matrix by partition
  extract    keep matching taxa
  remove     drop matching taxa
  rename     rewrite taxon ids
  translate  DNA to amino acids
  summary    alignment, read, or contig statistics
  partition  convert partition files
  id         collect taxon ids
  version    print version and exit

Run 'segul <command> -h' for command flags.
`

// RunContext is the testable entry point behind appshell.Main.
func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriter(stdout)
	defer func() { _ = outw.Flush() }()

	if len(argv) == 0 {
		_, _ = io.WriteString(outw, usageText)
		return 0
	}
	cmd, rest := argv[0], argv[1:]
	switch cmd {
	case "version", "-v", "--version":
		_, _ = fmt.Fprintf(outw, "segul version %s\n", version.Version)
		return 0
	case "help", "-h", "--help":
		_, _ = io.WriteString(outw, usageText)
		return 0
	}

	log := logutil.New(stderr)
	defer log.Close()
	log.Infof("segul %s %s", cmd, strings.Join(rest, " "))

	a := &app{ctx: parent, out: outw, stderr: stderr, log: log}
	var code int
	switch cmd {
	case "concat":
		code = a.concat(rest)
	case "convert":
		code = a.convert(rest)
	case "filter":
		code = a.filter(rest)
	case "split":
		code = a.split(rest)
	case "extract":
		code = a.extract(rest, false)
	case "remove":
		code = a.extract(rest, true)
	case "rename":
		code = a.rename(rest)
	case "translate":
		code = a.translate(rest)
	case "summary":
		code = a.summary(rest)
	case "partition":
		code = a.partition(rest)
	case "id":
		code = a.ids(rest)
	default:
		_, _ = fmt.Fprintf(stderr, "unknown command %q\n", cmd)
		_, _ = io.WriteString(outw, usageText)
		return 1
	}
	log.Infof("segul %s finished with code %d", cmd, code)
	return code
}

type app struct {
	ctx    context.Context
	out    *bufio.Writer
	stderr io.Writer
	log    *logutil.Logger
}

// env builds the operator environment from the common flags.
func (a *app) env(c cli.Common) ops.Env {
	return ops.Env{
		Threads:   c.Threads,
		Overwrite: c.Overwrite,
		Prompt:    a.prompt(),
		Warn:      a.log.Warnf,
		Progress: func(ev runner.Event, file string) {
			switch ev {
			case runner.FileCompleted:
				a.log.Infof("done %s", file)
			case runner.FileFailed:
				a.log.Infof("failed %s", file)
			}
		},
	}
}

// prompt asks on the terminal before replacing an existing output. Workers
// may prompt concurrently, so answers are serialized.
func (a *app) prompt() writers.Prompt {
	var mu sync.Mutex
	rd := bufio.NewReader(os.Stdin)
	return func(path string) bool {
		mu.Lock()
		defer mu.Unlock()
		_, _ = fmt.Fprintf(a.stderr, "%s exists. Overwrite? [y/N] ", path)
		line, err := rd.ReadString('\n')
		if err != nil {
			return false
		}
		ans := strings.ToLower(strings.TrimSpace(line))
		return ans == "y" || ans == "yes"
	}
}

// fail prints, logs, and classifies an operator error.
func (a *app) fail(err error) int {
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if errors.Is(err, context.Canceled) {
		return 130
	}
	a.log.Errorf("%v", err)
	return exitCode(err)
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	if errors.Is(err, seqerr.ErrOverwriteDeclined) {
		return 3
	}
	var (
		parseErr *seqerr.ParseError
		charErr  *seqerr.InvalidCharacterError
		dupErr   *seqerr.DuplicateIDError
		alnErr   *seqerr.NotAlignedError
		rngErr   *seqerr.PartitionOutOfRangeError
	)
	switch {
	case errors.As(err, &parseErr),
		errors.As(err, &charErr),
		errors.As(err, &dupErr),
		errors.As(err, &alnErr),
		errors.As(err, &rngErr),
		errors.Is(err, seqerr.ErrMixedDatatype),
		errors.Is(err, alphabet.ErrUnknownTable),
		errors.Is(err, alphabet.ErrInvalidReadingFrame):
		return 2
	}
	return 1
}

// usageError reports a bad invocation (exit 1) and shows the flag help.
func (a *app) usageError(fs *flag.FlagSet, err error) int {
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	_, _ = fmt.Fprintln(a.stderr, err)
	fs.SetOutput(a.stderr)
	fs.Usage()
	return 1
}
