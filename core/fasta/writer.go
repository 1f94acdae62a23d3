// core/fasta/writer.go
package fasta

import (
	"fmt"
	"io"

	"segul-core/seq"
)

// interleaved output wraps sequences at this width
const blockWidth = 500

// Write emits the alignment in FASTA. Sequential layout puts each sequence on
// one line; interleaved wraps at 500 columns. Descriptions survive only here,
// on FASTA to FASTA round-trips.
func Write(w io.Writer, aln *seq.Alignment, interleaved bool) error {
	for _, rec := range aln.Records() {
		if rec.Desc != "" {
			if _, err := fmt.Fprintf(w, ">%s %s\n", rec.ID, rec.Desc); err != nil {
				return err
			}
		} else {
			if _, err := fmt.Fprintf(w, ">%s\n", rec.ID); err != nil {
				return err
			}
		}
		if !interleaved {
			if _, err := w.Write(rec.Seq); err != nil {
				return err
			}
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
			continue
		}
		for off := 0; off < len(rec.Seq); off += blockWidth {
			end := off + blockWidth
			if end > len(rec.Seq) {
				end = len(rec.Seq)
			}
			if _, err := w.Write(rec.Seq[off:end]); err != nil {
				return err
			}
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
	}
	return nil
}
