// core/seq/sort.go
package seq

import "sort"

// SortAlnum sorts ids treating digit runs as numbers, so locus2 < locus10.
func SortAlnum(ids []string) {
	sort.SliceStable(ids, func(i, j int) bool { return LessAlnum(ids[i], ids[j]) })
}

// LessAlnum is the alphanumeric comparison used across the toolkit for taxon
// and file ordering.
func LessAlnum(a, b string) bool {
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		ca, cb := a[i], b[j]
		if isDigit(ca) && isDigit(cb) {
			// compare the full digit runs numerically
			si, sj := i, j
			for i < len(a) && isDigit(a[i]) {
				i++
			}
			for j < len(b) && isDigit(b[j]) {
				j++
			}
			na := trimZeros(a[si:i])
			nb := trimZeros(b[sj:j])
			if len(na) != len(nb) {
				return len(na) < len(nb)
			}
			if na != nb {
				return na < nb
			}
			continue
		}
		if ca != cb {
			return ca < cb
		}
		i++
		j++
	}
	return len(a)-i < len(b)-j
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func trimZeros(s string) string {
	k := 0
	for k < len(s)-1 && s[k] == '0' {
		k++
	}
	return s[k:]
}
