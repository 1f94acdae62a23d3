// core/alphabet/check.go
package alphabet

// FirstInvalid returns the index of the first byte outside the alphabet of d,
// or -1 when the whole sequence validates. Ignore always returns -1.
func FirstInvalid(d Datatype, s []byte) int {
	if d == Ignore {
		return -1
	}
	if d == DNA {
		for i := 0; i < len(s); i++ {
			if !dnaValid[s[i]] {
				return i
			}
		}
		return -1
	}
	for i := 0; i < len(s); i++ {
		if !aaValid[s[i]] {
			return i
		}
	}
	return -1
}
