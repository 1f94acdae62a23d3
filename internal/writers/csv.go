// internal/writers/csv.go
package writers

import (
	"archive/zip"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"segul-core/seq"
	"segul-core/stats"
)

// charColumns fixes the order of the per-character histogram columns so CSV
// headers stay stable across releases.
func charColumns(counts []map[byte]int) []byte {
	seen := make(map[byte]bool)
	for _, m := range counts {
		for b := range m {
			seen[b] = true
		}
	}
	// common nucleotide columns lead, everything else follows bytewise
	lead := []byte{'A', 'C', 'G', 'T', 'N', '-', '?'}
	var cols []byte
	inLead := make(map[byte]bool)
	for _, b := range lead {
		inLead[b] = true
		if seen[b] {
			cols = append(cols, b)
		}
	}
	var rest []byte
	for b := range seen {
		if !inLead[b] {
			rest = append(rest, b)
		}
	}
	sort.Slice(rest, func(i, j int) bool { return rest[i] < rest[j] })
	return append(cols, rest...)
}

// AlignmentSummaryCSV emits the per-locus table:
// locus,ntax,nchar,missing,gc,at,pis,var,con,<chars...>
func AlignmentSummaryCSV(w io.Writer, loci []stats.Locus) error {
	cw := csv.NewWriter(w)
	maps := make([]map[byte]int, len(loci))
	for i := range loci {
		maps[i] = loci[i].Chars.Counts
	}
	cols := charColumns(maps)
	header := []string{"locus", "ntax", "nchar", "missing", "gc", "at", "pis", "var", "con"}
	for _, b := range cols {
		header = append(header, string(b))
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, l := range loci {
		row := []string{
			stem(l.Path),
			strconv.Itoa(l.Chars.Ntax),
			strconv.Itoa(l.Chars.Nchar),
			strconv.Itoa(l.Chars.Missing),
			formatF(l.Chars.GCContent()),
			formatF(l.Chars.ATContent()),
			strconv.Itoa(l.Sites.ParsInf),
			strconv.Itoa(l.Sites.Variable),
			strconv.Itoa(l.Sites.Conserved),
		}
		for _, b := range cols {
			row = append(row, strconv.Itoa(l.Chars.Counts[b]))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// TaxonSummaryCSV emits: taxon,loci,chars,gaps,missing,gc,at,A,C,G,T
func TaxonSummaryCSV(w io.Writer, taxa map[string]*stats.TaxonStats) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"taxon", "loci", "chars", "gaps", "missing", "gc", "at", "A", "C", "G", "T"}); err != nil {
		return err
	}
	ids := make([]string, 0, len(taxa))
	for id := range taxa {
		ids = append(ids, id)
	}
	seq.SortAlnum(ids)
	for _, id := range ids {
		ts := taxa[id]
		total := ts.GC + ts.AT
		gc, at := 0.0, 0.0
		if total > 0 {
			gc = float64(ts.GC) / float64(total)
			at = float64(ts.AT) / float64(total)
		}
		row := []string{
			id,
			strconv.Itoa(ts.Loci),
			strconv.Itoa(ts.Chars),
			strconv.Itoa(ts.Gaps),
			strconv.Itoa(ts.Missing),
			formatF(gc),
			formatF(at),
			strconv.Itoa(ts.Counts['A']),
			strconv.Itoa(ts.Counts['C']),
			strconv.Itoa(ts.Counts['G']),
			strconv.Itoa(ts.Counts['T']),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// IDMapCSV emits locus,<taxon...> rows of presence booleans.
func IDMapCSV(w io.Writer, taxa []string, presence map[string]map[string]bool, loci []string) error {
	cw := csv.NewWriter(w)
	header := append([]string{"locus"}, taxa...)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, locus := range loci {
		row := []string{locus}
		for _, taxon := range taxa {
			row = append(row, strconv.FormatBool(presence[locus][taxon]))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// PositionCSVZip writes the per-position read census as a zip-compressed CSV
// so complete-mode output stays bounded on disk.
func PositionCSVZip(path string, positions []stats.PositionCensus, overwrite bool, prompt Prompt) error {
	if err := Guard(path, overwrite, prompt); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	fh, err := os.Create(path)
	if err != nil {
		return err
	}
	zw := zip.NewWriter(fh)
	entry, err := zw.Create(stem(path) + ".csv")
	if err != nil {
		_ = fh.Close()
		return err
	}
	cw := csv.NewWriter(entry)
	header := []string{"position", "A", "C", "G", "T", "other"}
	for q := 0; q < len(stats.PositionCensus{}.Phred); q++ {
		header = append(header, "q"+strconv.Itoa(q))
	}
	if err := cw.Write(header); err != nil {
		_ = fh.Close()
		return err
	}
	for i, p := range positions {
		row := []string{
			strconv.Itoa(i + 1),
			strconv.Itoa(p.Bases[0]),
			strconv.Itoa(p.Bases[1]),
			strconv.Itoa(p.Bases[2]),
			strconv.Itoa(p.Bases[3]),
			strconv.Itoa(p.Bases[4]),
		}
		for _, n := range p.Phred {
			row = append(row, strconv.Itoa(n))
		}
		if err := cw.Write(row); err != nil {
			_ = fh.Close()
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		_ = fh.Close()
		return err
	}
	if err := zw.Close(); err != nil {
		_ = fh.Close()
		return err
	}
	return fh.Close()
}

func formatF(f float64) string { return strconv.FormatFloat(f, 'f', 4, 64) }

func stem(path string) string {
	name := filepath.Base(path)
	for ext := filepath.Ext(name); ext != ""; ext = filepath.Ext(name) {
		name = name[:len(name)-len(ext)]
	}
	return name
}

// CompletenessReport prints the matrix-completeness ladder as text.
func CompletenessReport(w io.Writer, buckets []stats.CompletenessBucket) error {
	for _, b := range buckets {
		if _, err := fmt.Fprintf(w, "%3d%% taxa: %d loci\n", b.Percent, b.Loci); err != nil {
			return err
		}
	}
	return nil
}
