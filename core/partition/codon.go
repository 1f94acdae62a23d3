// core/partition/codon.go
package partition

import "regexp"

// Codon-position suffixes recognized on subset names. The capture is the
// position digit; 1st/2nd/3rd spellings map by order.
var codonSuffixRe = regexp.MustCompile(`^(.*)_(?:subset([123])|pos([123])|(1st|2nd|3rd)pos)$`)

var ordinalPos = map[string]int{"1st": 1, "2nd": 2, "3rd": 3}

// codonSuffix returns the base name and position for a codon-subset name, or
// ok=false when the name does not match any recognized pattern.
func codonSuffix(name string) (base string, pos int, ok bool) {
	m := codonSuffixRe.FindStringSubmatch(name)
	if m == nil {
		return "", 0, false
	}
	base = m[1]
	switch {
	case m[2] != "":
		pos = int(m[2][0] - '0')
	case m[3] != "":
		pos = int(m[3][0] - '0')
	default:
		pos = ordinalPos[m[4]]
	}
	return base, pos, true
}

// MergeCodonSubsets collapses grouped codon-position triples into single
// contiguous entries. A group merges only when all three positions are
// present, every member is a single stride-3 range, and the starts are
// base+0, base+1, base+2. Anything else passes through untouched.
func MergeCodonSubsets(entries []Entry) []Entry {
	type member struct {
		idx int
		rg  Range
	}
	groups := make(map[string]map[int]member)
	for i, e := range entries {
		base, pos, ok := codonSuffix(e.Name)
		if !ok || len(e.Ranges) != 1 || e.Ranges[0].Stride != 3 {
			continue
		}
		if groups[base] == nil {
			groups[base] = make(map[int]member)
		}
		groups[base][pos] = member{idx: i, rg: e.Ranges[0]}
	}

	merged := make(map[int]bool)  // index of group leader
	dropped := make(map[int]bool) // indexes folded into a leader
	replacement := make(map[int]Entry)
	for base, g := range groups {
		m1, ok1 := g[1]
		m2, ok2 := g[2]
		m3, ok3 := g[3]
		if !ok1 || !ok2 || !ok3 {
			continue
		}
		if m2.rg.Start != m1.rg.Start+1 || m3.rg.Start != m1.rg.Start+2 {
			continue
		}
		start := m1.rg.Start
		end := m1.rg.End
		for _, m := range []member{m2, m3} {
			if m.rg.End > end {
				end = m.rg.End
			}
		}
		lead := m1.idx
		if m2.idx < lead {
			lead = m2.idx
		}
		if m3.idx < lead {
			lead = m3.idx
		}
		merged[lead] = true
		dropped[m1.idx] = true
		dropped[m2.idx] = true
		dropped[m3.idx] = true
		replacement[lead] = Entry{
			Name:     base,
			Datatype: entries[m1.idx].Datatype,
			Ranges:   []Range{{Start: start, End: end}},
		}
	}

	out := make([]Entry, 0, len(entries))
	for i, e := range entries {
		switch {
		case merged[i]:
			out = append(out, replacement[i])
		case dropped[i]:
			// folded into the leader
		default:
			out = append(out, e)
		}
	}
	return out
}

// SplitCodon expands a contiguous entry into its three codon-position
// subsets, used by concat --codon.
func SplitCodon(e Entry) []Entry {
	start, end := e.Span()
	out := make([]Entry, 0, 3)
	names := []string{"_subset1", "_subset2", "_subset3"}
	for k := 0; k < 3; k++ {
		out = append(out, Entry{
			Name:     e.Name + names[k],
			Datatype: e.Datatype,
			Ranges:   []Range{{Start: start + k, End: end, Stride: 3}},
		})
	}
	return out
}

// LooksGrouped reports whether entries evidently consist of complete codon
// triples, the condition under which conversion merges without being asked.
func LooksGrouped(entries []Entry) bool {
	if len(entries) == 0 || len(entries)%3 != 0 {
		return false
	}
	m := MergeCodonSubsets(entries)
	return len(m) == len(entries)/3
}
