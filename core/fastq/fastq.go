// core/fastq/fastq.go
// Package fastq streams four-line FASTQ records. Files are never
// materialized in full; each record is handed to the caller and discarded.
package fastq

import (
	"bufio"
	"bytes"
	"io"

	"segul-core/seqerr"
)

// Record is one read. Qual holds raw Phred bytes (offset 33 by convention).
type Record struct {
	ID   string
	Seq  []byte
	Qual []byte
}

// Stream parses FASTQ from r, calling emit per read. The reader should come
// from seqio.Open so gzip input is already decoded.
func Stream(r io.Reader, file string, emit func(Record) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 64*1024*1024)

	lineNo := 0
	next := func() ([]byte, bool) {
		for sc.Scan() {
			lineNo++
			line := bytes.TrimRight(sc.Bytes(), "\r")
			if len(line) == 0 {
				continue
			}
			return line, true
		}
		return nil, false
	}

	for {
		head, ok := next()
		if !ok {
			break
		}
		if head[0] != '@' {
			return &seqerr.ParseError{Format: "fastq", File: file, Line: lineNo, Msg: "record must start with '@'"}
		}
		id := string(head[1:])
		if i := bytes.IndexAny(head[1:], " \t"); i >= 0 {
			id = string(head[1 : 1+i])
		}
		sq, ok := next()
		if !ok {
			return &seqerr.ParseError{Format: "fastq", File: file, Line: lineNo, Msg: "truncated record (missing sequence)"}
		}
		plus, ok := next()
		if !ok || plus[0] != '+' {
			return &seqerr.ParseError{Format: "fastq", File: file, Line: lineNo, Msg: "missing '+' separator"}
		}
		qual, ok := next()
		if !ok {
			return &seqerr.ParseError{Format: "fastq", File: file, Line: lineNo, Msg: "truncated record (missing quality)"}
		}
		if len(qual) != len(sq) {
			return &seqerr.ParseError{Format: "fastq", File: file, Line: lineNo, Msg: "quality length differs from sequence length"}
		}
		rec := Record{
			ID:   id,
			Seq:  append([]byte(nil), sq...),
			Qual: append([]byte(nil), qual...),
		}
		if err := emit(rec); err != nil {
			return err
		}
	}
	return sc.Err()
}
