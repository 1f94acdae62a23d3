// core/partition/partition.go
// Package partition models named coordinate ranges over a concatenated
// alignment and converts between the RaXML and NEXUS charset syntaxes.
package partition

import (
	"fmt"
	"sort"
	"strings"

	"segul-core/seqerr"
)

// Range is a 1-based inclusive span. Stride is 0 for contiguous ranges and 3
// for codon subsets (`S-E\3`).
type Range struct {
	Start  int
	End    int
	Stride int
}

// Entry is one named subset of the matrix.
type Entry struct {
	Name     string
	Datatype string // "DNA", "protein", or empty when unknown
	Ranges   []Range
}

// Span returns the extreme coordinates across all ranges.
func (e Entry) Span() (start, end int) {
	start, end = e.Ranges[0].Start, e.Ranges[0].End
	for _, r := range e.Ranges[1:] {
		if r.Start < start {
			start = r.Start
		}
		if r.End > end {
			end = r.End
		}
	}
	return start, end
}

// NormalizeNames replaces dots in subset names, the one character NEXUS and
// RaXML disagree about.
func NormalizeNames(entries []Entry) {
	for i := range entries {
		entries[i].Name = strings.ReplaceAll(entries[i].Name, ".", "_")
	}
}

// Validate checks name uniqueness, range sanity, and that flattened ranges
// stay inside a matrix of nchar columns without overlapping. nchar <= 0
// skips the bounds check.
func Validate(entries []Entry, nchar int) error {
	if len(entries) == 0 {
		return fmt.Errorf("empty partition")
	}
	names := make(map[string]struct{}, len(entries))
	type span struct{ s, e, k int }
	var spans []span
	for _, e := range entries {
		if _, dup := names[e.Name]; dup {
			return fmt.Errorf("duplicate subset name %q", e.Name)
		}
		names[e.Name] = struct{}{}
		if len(e.Ranges) == 0 {
			return fmt.Errorf("subset %q has no ranges", e.Name)
		}
		for _, r := range e.Ranges {
			if r.Start < 1 || r.End < r.Start {
				return fmt.Errorf("subset %q has invalid range %d-%d", e.Name, r.Start, r.End)
			}
			if nchar > 0 && r.End > nchar {
				return &seqerr.PartitionOutOfRangeError{Name: e.Name, Start: r.Start, End: r.End, Nchar: nchar}
			}
			spans = append(spans, span{r.Start, r.End, r.Stride})
		}
	}
	// Strided triples interleave; overlap detection applies column-wise only
	// to unstrided ranges.
	var flat []span
	for _, s := range spans {
		if s.k == 0 {
			flat = append(flat, s)
		}
	}
	sort.Slice(flat, func(i, j int) bool { return flat[i].s < flat[j].s })
	for i := 1; i < len(flat); i++ {
		if flat[i].s <= flat[i-1].e {
			return fmt.Errorf("overlapping ranges %d-%d and %d-%d",
				flat[i-1].s, flat[i-1].e, flat[i].s, flat[i].e)
		}
	}
	return nil
}

// Columns expands an entry into the ordered list of 1-based matrix columns it
// selects, honoring strides.
func (e Entry) Columns() []int {
	var cols []int
	for _, r := range e.Ranges {
		step := r.Stride
		if step == 0 {
			step = 1
		}
		for c := r.Start; c <= r.End; c += step {
			cols = append(cols, c)
		}
	}
	sort.Ints(cols)
	return cols
}
