// core/phylip/writer.go
package phylip

import (
	"fmt"
	"io"

	"segul-core/seq"
)

const blockWidth = 500

// Write emits relaxed PHYLIP. Labels are padded to the longest label plus
// four spaces. Interleaved layout emits 500-column blocks separated by blank
// lines, labels only in the first block.
func Write(w io.Writer, aln *seq.Alignment, interleaved bool) error {
	if _, err := fmt.Fprintf(w, "%d %d\n", aln.Len(), aln.Nchar()); err != nil {
		return err
	}
	recs := aln.Records()
	pad := 0
	for _, rec := range recs {
		if len(rec.ID) > pad {
			pad = len(rec.ID)
		}
	}
	pad += 4

	if !interleaved {
		for _, rec := range recs {
			if _, err := fmt.Fprintf(w, "%-*s%s\n", pad, rec.ID, rec.Seq); err != nil {
				return err
			}
		}
		return nil
	}

	nchar := aln.Nchar()
	for off := 0; off < nchar; off += blockWidth {
		end := off + blockWidth
		if end > nchar {
			end = nchar
		}
		for _, rec := range recs {
			label := rec.ID
			if off > 0 {
				label = ""
			}
			if _, err := fmt.Fprintf(w, "%-*s%s\n", pad, label, rec.Seq[off:end]); err != nil {
				return err
			}
		}
		if end < nchar {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
	}
	return nil
}
