// core/nexus/reader.go
// Package nexus reads and writes the subset of NEXUS used for alignment
// interchange: data/characters blocks with dimensions, format, and matrix
// commands, plus embedded sets blocks carrying charsets.
package nexus

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"segul-core/alphabet"
	"segul-core/partition"
	"segul-core/seq"
	"segul-core/seqerr"
)

// File is the parse result: the alignment plus any charsets found in an
// embedded sets block.
type File struct {
	Alignment *seq.Alignment
	Charsets  []partition.Entry
	Datatype  string // the format command's datatype token, lowercased
}

type parser struct {
	file     string
	datatype alphabet.Datatype
	warn     func(string)

	ntax       int
	nchar      int
	interleave bool
	missing    byte
	gap        byte
	filetype   string

	recs  []*seq.Record
	index map[string]*seq.Record
	sets  strings.Builder
}

// Read parses a NEXUS data or characters block. Comments in square brackets
// are stripped, nesting included. Both interleaved and sequential matrix
// layouts are accepted; the interleave token in the format command selects
// the layout.
func Read(r io.Reader, file string, d alphabet.Datatype, warn func(string)) (*File, error) {
	p := &parser{
		file:     file,
		datatype: d,
		warn:     warn,
		missing:  '?',
		gap:      '-',
		index:    make(map[string]*seq.Record),
	}
	if err := p.run(r); err != nil {
		return nil, err
	}
	aln := seq.NewAlignment(d)
	for _, rec := range p.recs {
		if p.nchar > 0 && len(rec.Seq) != p.nchar {
			return nil, &seqerr.ParseError{Format: "nexus", File: file,
				Msg: fmt.Sprintf("taxon %q has %d of %d characters", rec.ID, len(rec.Seq), p.nchar)}
		}
		dropped, err := aln.Insert(*rec)
		if err != nil {
			return nil, &seqerr.DuplicateIDError{File: file, ID: rec.ID}
		}
		if dropped && warn != nil {
			warn("dropped duplicate sequence " + rec.ID)
		}
	}
	if aln.Len() == 0 {
		return nil, &seqerr.ParseError{Format: "nexus", File: file, Msg: "no matrix rows"}
	}
	if p.ntax > 0 && aln.Len() != p.ntax {
		return nil, &seqerr.ParseError{Format: "nexus", File: file,
			Msg: fmt.Sprintf("found %d taxa, dimensions say %d", aln.Len(), p.ntax)}
	}
	aln.Header.Missing = p.missing
	aln.Header.Gap = p.gap
	out := &File{Alignment: aln, Datatype: p.filetype}
	if p.sets.Len() > 0 {
		cs, err := partition.ParseNexus(strings.NewReader(p.sets.String()), file)
		if err != nil {
			return nil, err
		}
		partition.NormalizeNames(cs)
		out.Charsets = cs
	}
	return out, nil
}

const (
	stTop = iota
	stData
	stMatrix
	stSets
	stSkipBlock
)

func (p *parser) run(r io.Reader) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 64*1024*1024)

	state := stTop
	sawHeader := false
	depth := 0 // bracket-comment nesting, carried across lines
	var cmd strings.Builder
	lineNo := 0
	matrixDone := false
	var cur *seq.Record

	for sc.Scan() {
		lineNo++
		line, d := stripComments(sc.Bytes(), depth)
		depth = d
		text := strings.TrimSpace(string(line))
		if text == "" {
			continue
		}
		if !sawHeader {
			if !strings.HasPrefix(strings.ToUpper(text), "#NEXUS") {
				return &seqerr.ParseError{Format: "nexus", File: p.file, Line: lineNo, Msg: "missing #NEXUS header"}
			}
			sawHeader = true
			continue
		}

		switch state {
		case stMatrix:
			if text == ";" {
				state = stData
				matrixDone = true
				cur = nil
				continue
			}
			row := text
			if strings.HasSuffix(row, ";") {
				row = strings.TrimSpace(strings.TrimSuffix(row, ";"))
				state = stData
				matrixDone = true
			}
			if row == "" {
				cur = nil
				continue
			}
			var err error
			cur, err = p.matrixRow(row, cur, lineNo)
			if err != nil {
				return err
			}
			if state == stData {
				cur = nil
			}
		case stSets:
			low := strings.ToLower(text)
			if low == "end;" || low == "endblock;" {
				state = stTop
				continue
			}
			p.sets.WriteString(text)
			p.sets.WriteByte('\n')
		case stSkipBlock:
			low := strings.ToLower(text)
			if low == "end;" || low == "endblock;" {
				state = stTop
			}
		default:
			cmd.WriteString(text)
			cmd.WriteByte(' ')
			if !strings.HasSuffix(text, ";") {
				// matrix opens a line-oriented region before its ';'
				if state == stData && strings.EqualFold(strings.TrimSpace(cmd.String()), "matrix") {
					cmd.Reset()
					state = stMatrix
				}
				continue
			}
			full := strings.TrimSpace(cmd.String())
			cmd.Reset()
			var err error
			state, err = p.command(full, state, lineNo)
			if err != nil {
				return err
			}
		}
	}
	if err := sc.Err(); err != nil {
		return err
	}
	if !sawHeader {
		return &seqerr.ParseError{Format: "nexus", File: p.file, Msg: "missing #NEXUS header"}
	}
	if !matrixDone && len(p.recs) == 0 {
		return &seqerr.ParseError{Format: "nexus", File: p.file, Msg: "no data or characters block"}
	}
	return nil
}

// command handles a complete ';'-terminated command outside the matrix.
func (p *parser) command(full string, state int, lineNo int) (int, error) {
	low := strings.ToLower(strings.TrimSuffix(full, ";"))
	low = strings.TrimSpace(low)
	switch {
	case strings.HasPrefix(low, "begin "):
		name := strings.TrimSpace(low[len("begin "):])
		switch name {
		case "data", "characters":
			return stData, nil
		case "sets":
			return stSets, nil
		default:
			return stSkipBlock, nil
		}
	case low == "end" || low == "endblock":
		return stTop, nil
	case strings.HasPrefix(low, "dimensions"):
		if state != stData {
			return state, nil
		}
		return state, p.dimensions(low, lineNo)
	case strings.HasPrefix(low, "format"):
		if state != stData {
			return state, nil
		}
		return state, p.format(full, lineNo)
	case low == "matrix":
		if state == stData {
			return stMatrix, nil
		}
	}
	return state, nil
}

func (p *parser) dimensions(low string, lineNo int) error {
	for _, f := range strings.Fields(low) {
		if v, ok := strings.CutPrefix(f, "ntax="); ok {
			n, err := strconv.Atoi(strings.TrimSuffix(v, ";"))
			if err != nil || n < 1 {
				return &seqerr.ParseError{Format: "nexus", File: p.file, Line: lineNo, Msg: "bad ntax"}
			}
			p.ntax = n
		}
		if v, ok := strings.CutPrefix(f, "nchar="); ok {
			n, err := strconv.Atoi(strings.TrimSuffix(v, ";"))
			if err != nil || n < 1 {
				return &seqerr.ParseError{Format: "nexus", File: p.file, Line: lineNo, Msg: "bad nchar"}
			}
			p.nchar = n
		}
	}
	return nil
}

func (p *parser) format(full string, lineNo int) error {
	for _, f := range strings.Fields(strings.TrimSuffix(full, ";")) {
		lowF := strings.ToLower(f)
		switch {
		case strings.HasPrefix(lowF, "datatype="):
			p.filetype = strings.TrimPrefix(lowF, "datatype=")
		case strings.HasPrefix(lowF, "missing="):
			if len(f) > len("missing=") {
				p.missing = f[len("missing=")]
			}
		case strings.HasPrefix(lowF, "gap="):
			if len(f) > len("gap=") {
				p.gap = f[len("gap=")]
			}
		case lowF == "interleave" || strings.HasPrefix(lowF, "interleave=y"):
			p.interleave = true
		case strings.HasPrefix(lowF, "interleave=n"):
			p.interleave = false
		}
	}
	return nil
}

// matrixRow consumes one matrix line and returns the record that further
// sequential continuation lines should extend.
func (p *parser) matrixRow(row string, cur *seq.Record, lineNo int) (*seq.Record, error) {
	// tolerate an explicit 'name = residues' separator
	if eq := strings.IndexByte(row, '='); eq >= 0 {
		row = row[:eq] + " " + row[eq+1:]
	}
	if p.interleave {
		id, residues := splitLabel(row)
		rec, ok := p.index[id]
		if !ok {
			rec = &seq.Record{ID: id}
			p.index[id] = rec
			p.recs = append(p.recs, rec)
		}
		return nil, p.append(rec, residues, lineNo)
	}
	if cur != nil && p.nchar > 0 && len(cur.Seq) < p.nchar {
		return cur, p.append(cur, row, lineNo)
	}
	id, residues := splitLabel(row)
	if _, dup := p.index[id]; dup {
		// duplicate row in a sequential matrix; let Insert arbitrate later
		rec := &seq.Record{ID: id}
		p.recs = append(p.recs, rec)
		return rec, p.append(rec, residues, lineNo)
	}
	rec := &seq.Record{ID: id}
	p.index[id] = rec
	p.recs = append(p.recs, rec)
	return rec, p.append(rec, residues, lineNo)
}

func (p *parser) append(rec *seq.Record, residues string, lineNo int) error {
	for _, chunk := range strings.Fields(residues) {
		b := []byte(chunk)
		if i := alphabet.FirstInvalid(p.datatype, b); i >= 0 {
			return &seqerr.InvalidCharacterError{
				File: p.file, RecordID: rec.ID,
				Offset: int64(len(rec.Seq) + i), Byte: b[i],
			}
		}
		rec.Seq = append(rec.Seq, b...)
	}
	return nil
}

func splitLabel(row string) (string, string) {
	if i := strings.IndexAny(row, " \t"); i >= 0 {
		return row[:i], strings.TrimSpace(row[i+1:])
	}
	return row, ""
}

// stripComments removes [bracketed] comments given the nesting depth carried
// in from previous lines; it returns the cleaned line and the new depth.
func stripComments(line []byte, depth int) ([]byte, int) {
	var out bytes.Buffer
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '[':
			depth++
		case ']':
			if depth > 0 {
				depth--
			}
		default:
			if depth == 0 {
				out.WriteByte(line[i])
			}
		}
	}
	return out.Bytes(), depth
}
