// core/nexus/writer.go
package nexus

import (
	"fmt"
	"io"

	"segul-core/alphabet"
	"segul-core/partition"
	"segul-core/seq"
)

const blockWidth = 500

// Write emits a NEXUS data block. Charsets, when given, are appended as a
// sets block so the partition travels with the matrix.
func Write(w io.Writer, aln *seq.Alignment, interleaved bool, charsets []partition.Entry) error {
	datatype := "dna"
	if aln.Header.Datatype == alphabet.AminoAcid {
		datatype = "protein"
	}
	interleaveTok := ""
	if interleaved {
		interleaveTok = " interleave"
	}
	_, err := fmt.Fprintf(w, "#NEXUS\n\nbegin data;\n"+
		"    dimensions ntax=%d nchar=%d;\n"+
		"    format datatype=%s missing=%c gap=%c%s;\n"+
		"    matrix\n",
		aln.Len(), aln.Nchar(), datatype, aln.Header.Missing, aln.Header.Gap, interleaveTok)
	if err != nil {
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

	if interleaved {
		nchar := aln.Nchar()
		for off := 0; off < nchar; off += blockWidth {
			end := off + blockWidth
			if end > nchar {
				end = nchar
			}
			for _, rec := range recs {
				if _, err := fmt.Fprintf(w, "    %-*s%s\n", pad, rec.ID, rec.Seq[off:end]); err != nil {
					return err
				}
			}
			if end < nchar {
				if _, err := io.WriteString(w, "\n"); err != nil {
					return err
				}
			}
		}
	} else {
		for _, rec := range recs {
			if _, err := fmt.Fprintf(w, "    %-*s%s\n", pad, rec.ID, rec.Seq); err != nil {
				return err
			}
		}
	}

	if _, err := io.WriteString(w, "    ;\nend;\n"); err != nil {
		return err
	}
	if len(charsets) > 0 {
		if _, err := io.WriteString(w, "\nbegin sets;\n"); err != nil {
			return err
		}
		if err := partition.WriteCharsets(w, charsets); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "end;\n"); err != nil {
			return err
		}
	}
	return nil
}
