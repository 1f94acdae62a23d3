// core/fasta/reader.go
package fasta

import (
	"bufio"
	"bytes"
	"io"

	"segul-core/alphabet"
	"segul-core/seq"
	"segul-core/seqerr"
)

// allow very long single-line sequences (64 MiB)
const maxLine = 64 * 1024 * 1024

// Stream parses FASTA from r and emits one record at a time. Sequence lines
// are concatenated until the next '>' or EOF; residues are validated against
// d as they arrive.
func Stream(r io.Reader, file string, d alphabet.Datatype, emit func(seq.Record) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLine)

	var (
		cur    seq.Record
		open   bool
		offset int64
	)
	flush := func() error {
		if !open {
			return nil
		}
		rec := cur
		cur = seq.Record{}
		open = false
		return emit(rec)
	}
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		if line[0] == '>' {
			if err := flush(); err != nil {
				return err
			}
			hdr := bytes.TrimSpace(line[1:])
			if len(hdr) == 0 {
				return &seqerr.ParseError{Format: "fasta", File: file, Line: lineNo, Msg: "empty header"}
			}
			if i := bytes.IndexAny(hdr, " \t"); i >= 0 {
				cur.ID = string(hdr[:i])
				cur.Desc = string(bytes.TrimSpace(hdr[i+1:]))
			} else {
				cur.ID = string(hdr)
			}
			open = true
			offset = 0
			continue
		}
		if !open {
			return &seqerr.ParseError{Format: "fasta", File: file, Line: lineNo, Msg: "sequence before first '>'"}
		}
		line = bytes.TrimSpace(line)
		if i := alphabet.FirstInvalid(d, line); i >= 0 {
			return &seqerr.InvalidCharacterError{File: file, RecordID: cur.ID, Offset: offset + int64(i), Byte: line[i]}
		}
		cur.Seq = append(cur.Seq, line...)
		offset += int64(len(line))
	}
	if err := sc.Err(); err != nil {
		return err
	}
	return flush()
}

// Read materializes a whole FASTA file as an alignment. Bit-identical
// duplicate ids are dropped; conflicting duplicates are fatal. The warn
// callback may be nil.
func Read(r io.Reader, file string, d alphabet.Datatype, warn func(string)) (*seq.Alignment, error) {
	aln := seq.NewAlignment(d)
	err := Stream(r, file, d, func(rec seq.Record) error {
		dropped, insErr := aln.Insert(rec)
		if insErr != nil {
			return &seqerr.DuplicateIDError{File: file, ID: rec.ID}
		}
		if dropped && warn != nil {
			warn("dropped duplicate sequence " + rec.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if aln.Len() == 0 {
		return nil, &seqerr.ParseError{Format: "fasta", File: file, Msg: "no sequences"}
	}
	return aln, nil
}
