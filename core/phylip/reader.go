// core/phylip/reader.go
// Package phylip reads and writes relaxed PHYLIP. Labels are the first
// whitespace-delimited token of a row with no fixed column width.
package phylip

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"segul-core/alphabet"
	"segul-core/seq"
	"segul-core/seqerr"
)

// Read parses both sequential and interleaved layouts. The sequential pass is
// tried first: a new taxon row starts whenever the previous sequence reached
// nchar. If that pass cannot account for the file, the interleaved pass
// assigns continuation rows cyclically across the first block's taxa.
func Read(r io.Reader, file string, d alphabet.Datatype, warn func(string)) (*seq.Alignment, error) {
	var lines [][]byte
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 64*1024*1024)
	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			if len(lines) > 0 {
				lines = append(lines, nil) // keep block boundaries
			}
			continue
		}
		lines = append(lines, append([]byte(nil), line...))
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	// drop trailing boundary markers
	for len(lines) > 0 && lines[len(lines)-1] == nil {
		lines = lines[:len(lines)-1]
	}
	if len(lines) == 0 {
		return nil, &seqerr.ParseError{Format: "phylip", File: file, Msg: "empty file"}
	}

	ntax, nchar, err := parseHeader(lines[0])
	if err != nil {
		return nil, &seqerr.ParseError{Format: "phylip", File: file, Line: 1, Msg: err.Error()}
	}
	body := lines[1:]

	aln, seqErr := readSequential(body, file, d, ntax, nchar, warn)
	if seqErr == nil {
		return aln, nil
	}
	aln, intErr := readInterleaved(body, file, d, ntax, nchar, warn)
	if intErr == nil {
		return aln, nil
	}
	return nil, seqErr
}

func parseHeader(line []byte) (ntax, nchar int, err error) {
	fields := strings.Fields(string(line))
	if len(fields) < 2 {
		return 0, 0, fmt.Errorf("header must be 'ntax nchar'")
	}
	ntax, err = strconv.Atoi(fields[0])
	if err != nil || ntax < 1 {
		return 0, 0, fmt.Errorf("bad ntax %q", fields[0])
	}
	nchar, err = strconv.Atoi(fields[1])
	if err != nil || nchar < 1 {
		return 0, 0, fmt.Errorf("bad nchar %q", fields[1])
	}
	return ntax, nchar, nil
}

func readSequential(body [][]byte, file string, d alphabet.Datatype, ntax, nchar int, warn func(string)) (*seq.Alignment, error) {
	aln := seq.NewAlignment(d)
	var cur *seq.Record
	flush := func() error {
		if cur == nil {
			return nil
		}
		if len(cur.Seq) != nchar {
			return &seqerr.ParseError{Format: "phylip", File: file,
				Msg: fmt.Sprintf("taxon %q has %d of %d characters", cur.ID, len(cur.Seq), nchar)}
		}
		if err := insert(aln, *cur, file, warn); err != nil {
			return err
		}
		cur = nil
		return nil
	}
	for _, line := range body {
		if line == nil {
			continue
		}
		if cur == nil || len(cur.Seq) >= nchar {
			if err := flush(); err != nil {
				return nil, err
			}
			id, residues := splitLabel(line)
			cur = &seq.Record{ID: id}
			if err := appendResidues(cur, residues, file, d); err != nil {
				return nil, err
			}
			continue
		}
		if err := appendResidues(cur, line, file, d); err != nil {
			return nil, err
		}
	}
	if err := flush(); err != nil {
		return nil, err
	}
	if aln.Len() != ntax {
		return nil, &seqerr.ParseError{Format: "phylip", File: file,
			Msg: fmt.Sprintf("found %d taxa, header says %d", aln.Len(), ntax)}
	}
	aln.Header.Nchar = nchar
	return aln, nil
}

func readInterleaved(body [][]byte, file string, d alphabet.Datatype, ntax, nchar int, warn func(string)) (*seq.Alignment, error) {
	var recs []*seq.Record
	slot := 0
	for _, line := range body {
		if line == nil {
			slot = 0 // block boundary restarts the cycle
			continue
		}
		if len(recs) < ntax {
			id, residues := splitLabel(line)
			rec := &seq.Record{ID: id}
			if err := appendResidues(rec, residues, file, d); err != nil {
				return nil, err
			}
			recs = append(recs, rec)
			continue
		}
		if slot >= ntax {
			slot = 0
		}
		rec := recs[slot]
		slot++
		// tolerate blocks that repeat the label
		if id, residues := splitLabel(line); id == rec.ID {
			line = residues
		}
		if err := appendResidues(rec, line, file, d); err != nil {
			return nil, err
		}
	}
	if len(recs) != ntax {
		return nil, &seqerr.ParseError{Format: "phylip", File: file,
			Msg: fmt.Sprintf("found %d taxa, header says %d", len(recs), ntax)}
	}
	aln := seq.NewAlignment(d)
	for _, rec := range recs {
		if len(rec.Seq) != nchar {
			return nil, &seqerr.ParseError{Format: "phylip", File: file,
				Msg: fmt.Sprintf("taxon %q has %d of %d characters", rec.ID, len(rec.Seq), nchar)}
		}
		if err := insert(aln, *rec, file, warn); err != nil {
			return nil, err
		}
	}
	aln.Header.Nchar = nchar
	return aln, nil
}

func insert(aln *seq.Alignment, rec seq.Record, file string, warn func(string)) error {
	dropped, err := aln.Insert(rec)
	if err != nil {
		return &seqerr.DuplicateIDError{File: file, ID: rec.ID}
	}
	if dropped && warn != nil {
		warn("dropped duplicate sequence " + rec.ID)
	}
	return nil
}

// splitLabel returns the first whitespace-delimited token and the rest.
func splitLabel(line []byte) (string, []byte) {
	if i := bytes.IndexAny(line, " \t"); i >= 0 {
		return string(line[:i]), bytes.TrimSpace(line[i+1:])
	}
	return string(line), nil
}

// appendResidues strips internal whitespace and validates before appending.
func appendResidues(rec *seq.Record, line []byte, file string, d alphabet.Datatype) error {
	for _, chunk := range bytes.Fields(line) {
		if i := alphabet.FirstInvalid(d, chunk); i >= 0 {
			return &seqerr.InvalidCharacterError{
				File: file, RecordID: rec.ID,
				Offset: int64(len(rec.Seq) + i), Byte: chunk[i],
			}
		}
		rec.Seq = append(rec.Seq, chunk...)
	}
	return nil
}
