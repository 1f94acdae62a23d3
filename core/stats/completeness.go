// core/stats/completeness.go
package stats

import "math"

// CompletenessBucket counts loci holding at least Percent of the taxon union.
type CompletenessBucket struct {
	Percent int
	Loci    int
}

// MatrixCompleteness walks thresholds from 100% down by interval, counting
// loci whose taxon count reaches floor(totalTax * pct). The ladder stops
// early once every locus qualifies.
func MatrixCompleteness(ntaxPerLocus []int, totalTax, interval int) []CompletenessBucket {
	if interval < 1 {
		interval = 5
	}
	var out []CompletenessBucket
	for pct := 100; pct > 0; pct -= interval {
		min := int(math.Floor(float64(totalTax) * float64(pct) / 100.0))
		n := 0
		for _, ntax := range ntaxPerLocus {
			if ntax >= min {
				n++
			}
		}
		out = append(out, CompletenessBucket{Percent: pct, Loci: n})
		if n == len(ntaxPerLocus) {
			break
		}
	}
	return out
}
