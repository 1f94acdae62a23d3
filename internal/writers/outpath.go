// internal/writers/outpath.go
package writers

import (
	"bufio"
	"os"
	"path/filepath"

	"segul-core/partition"
	"segul-core/seq"
	"segul-core/seqerr"
	"segul-core/seqio"
)

// Prompt asks the external collaborator whether path may be replaced.
// A nil Prompt declines everything.
type Prompt func(path string) bool

// Guard applies the overwrite policy to one output path.
func Guard(path string, overwrite bool, prompt Prompt) error {
	if overwrite {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil // nothing to clobber
	}
	if prompt != nil && prompt(path) {
		return nil
	}
	return seqerr.ErrOverwriteDeclined
}

// SeqFile writes one alignment, creating parent directories as needed.
// Charsets only materialize for NEXUS output.
type SeqFile struct {
	Path      string
	Format    seqio.OutputFormat
	Charsets  []partition.Entry
	Overwrite bool
	Prompt    Prompt
}

// Write guards, creates, and flushes the file.
func (sf SeqFile) Write(aln *seq.Alignment) error {
	if err := Guard(sf.Path, sf.Overwrite, sf.Prompt); err != nil {
		return err
	}
	if dir := filepath.Dir(sf.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	fh, err := os.Create(sf.Path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(fh)
	if err := seqio.WriteAlignment(w, aln, sf.Format, sf.Charsets); err != nil {
		_ = fh.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		_ = fh.Close()
		return err
	}
	return fh.Close()
}
