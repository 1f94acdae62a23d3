// core/partition/charset.go
package partition

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"segul-core/seqerr"
)

// ParseNexus reads charset statements from a standalone NEXUS partition file
// or from the text of an embedded sets block:
//
//	begin sets;
//	  charset locus1 = 1-100 250-300;
//	  charset locus2 = 101-249\3;
//	end;
//
// Everything outside charset statements is ignored, so the same parser serves
// both layouts.
func ParseNexus(r io.Reader, file string) ([]Entry, error) {
	sc := bufio.NewScanner(r)
	var entries []Entry
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(stripBracketComments(sc.Text()))
		if !strings.HasPrefix(strings.ToLower(line), "charset") {
			continue
		}
		body := strings.TrimSpace(line[len("charset"):])
		body = strings.TrimSuffix(body, ";")
		eq := strings.IndexByte(body, '=')
		if eq < 0 {
			return nil, &seqerr.ParseError{Format: "nexus", File: file, Line: lineNo, Msg: "charset missing '='"}
		}
		name := strings.TrimSpace(body[:eq])
		if name == "" {
			return nil, &seqerr.ParseError{Format: "nexus", File: file, Line: lineNo, Msg: "charset missing name"}
		}
		ranges, err := parseRanges(strings.TrimSpace(body[eq+1:]))
		if err != nil {
			return nil, &seqerr.ParseError{Format: "nexus", File: file, Line: lineNo, Msg: err.Error()}
		}
		entries = append(entries, Entry{Name: name, Ranges: ranges})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, &seqerr.ParseError{Format: "nexus", File: file, Msg: "no charset entries"}
	}
	return entries, nil
}

// WriteNexus emits a standalone sets block.
func WriteNexus(w io.Writer, entries []Entry) error {
	if _, err := fmt.Fprintf(w, "#NEXUS\n\nbegin sets;\n"); err != nil {
		return err
	}
	if err := WriteCharsets(w, entries); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "end;\n")
	return err
}

// WriteCharsets emits the charset lines only, for embedding in a data file.
func WriteCharsets(w io.Writer, entries []Entry) error {
	for _, e := range entries {
		if _, err := fmt.Fprintf(w, "    charset %s = %s;\n", e.Name, joinRanges(e.Ranges, " ")); err != nil {
			return err
		}
	}
	return nil
}

// stripBracketComments removes [bracketed] NEXUS comments, including nested
// ones, from a single line.
func stripBracketComments(s string) string {
	var b strings.Builder
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '[':
			depth++
		case ']':
			if depth > 0 {
				depth--
			}
		default:
			if depth == 0 {
				b.WriteByte(s[i])
			}
		}
	}
	return b.String()
}
