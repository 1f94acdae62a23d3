// core/partition/raxml.go
package partition

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"segul-core/seqerr"
)

// ParseRaxml reads the RaXML linear partition form:
//
//	DNA, locus1 = 1-100, 250-300
//	locus2 = 101-249\3
//
// The leading datatype token is optional.
func ParseRaxml(r io.Reader, file string) ([]Entry, error) {
	sc := bufio.NewScanner(r)
	var entries []Entry
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		eq := strings.IndexByte(line, '=')
		if eq < 0 {
			return nil, &seqerr.ParseError{Format: "raxml", File: file, Line: lineNo, Msg: "missing '='"}
		}
		left := strings.TrimSpace(line[:eq])
		right := strings.TrimSpace(line[eq+1:])

		var e Entry
		if comma := strings.IndexByte(left, ','); comma >= 0 {
			e.Datatype = strings.TrimSpace(left[:comma])
			e.Name = strings.TrimSpace(left[comma+1:])
		} else {
			e.Name = left
		}
		if e.Name == "" {
			return nil, &seqerr.ParseError{Format: "raxml", File: file, Line: lineNo, Msg: "missing subset name"}
		}
		ranges, err := parseRanges(right)
		if err != nil {
			return nil, &seqerr.ParseError{Format: "raxml", File: file, Line: lineNo, Msg: err.Error()}
		}
		e.Ranges = ranges
		entries = append(entries, e)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, &seqerr.ParseError{Format: "raxml", File: file, Msg: "no partition entries"}
	}
	return entries, nil
}

// parseRanges accepts comma- or space-separated `S-E` and `S-E\K` items.
func parseRanges(s string) ([]Range, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty range list")
	}
	var out []Range
	for _, f := range fields {
		var rg Range
		if bs := strings.IndexByte(f, '\\'); bs >= 0 {
			k, err := strconv.Atoi(f[bs+1:])
			if err != nil || k < 1 {
				return nil, fmt.Errorf("bad stride in %q", f)
			}
			rg.Stride = k
			f = f[:bs]
		}
		dash := strings.IndexByte(f, '-')
		if dash < 0 {
			// single-column subset
			n, err := strconv.Atoi(f)
			if err != nil {
				return nil, fmt.Errorf("bad range %q", f)
			}
			rg.Start, rg.End = n, n
		} else {
			s1, err1 := strconv.Atoi(f[:dash])
			s2, err2 := strconv.Atoi(f[dash+1:])
			if err1 != nil || err2 != nil {
				return nil, fmt.Errorf("bad range %q", f)
			}
			rg.Start, rg.End = s1, s2
		}
		if rg.Start < 1 || rg.End < rg.Start {
			return nil, fmt.Errorf("bad range %q", f)
		}
		out = append(out, rg)
	}
	return out, nil
}

// WriteRaxml emits one line per subset. Entries without a datatype fall back
// to def ("DNA" or "protein").
func WriteRaxml(w io.Writer, entries []Entry, def string) error {
	for _, e := range entries {
		dt := e.Datatype
		if dt == "" {
			dt = def
		}
		if _, err := fmt.Fprintf(w, "%s, %s = %s\n", dt, e.Name, formatRanges(e.Ranges)); err != nil {
			return err
		}
	}
	return nil
}

func formatRanges(rs []Range) string { return joinRanges(rs, ", ") }

func joinRanges(rs []Range, sep string) string {
	parts := make([]string, 0, len(rs))
	for _, r := range rs {
		switch {
		case r.Stride > 0:
			parts = append(parts, fmt.Sprintf("%d-%d\\%d", r.Start, r.End, r.Stride))
		case r.Start == r.End:
			parts = append(parts, strconv.Itoa(r.Start))
		default:
			parts = append(parts, fmt.Sprintf("%d-%d", r.Start, r.End))
		}
	}
	return strings.Join(parts, sep)
}
