// core/stats/nstats.go
package stats

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// NStats holds the length-weighted N-statistics of a length distribution.
type NStats struct {
	N50 int
	N75 int
	N90 int
}

// ComputeNStats sorts lengths descending and reports the length at which the
// cumulative sum reaches 50/75/90 percent of the total.
func ComputeNStats(lengths []int) NStats {
	if len(lengths) == 0 {
		return NStats{}
	}
	sorted := append([]int(nil), lengths...)
	sort.Sort(sort.Reverse(sort.IntSlice(sorted)))
	total := 0
	for _, l := range sorted {
		total += l
	}
	at := func(frac float64) int {
		target := int(float64(total) * frac)
		sum := 0
		for _, l := range sorted {
			sum += l
			if sum >= target {
				return l
			}
		}
		return sorted[len(sorted)-1]
	}
	return NStats{N50: at(0.5), N75: at(0.75), N90: at(0.9)}
}

// LengthSummary describes a length distribution.
type LengthSummary struct {
	Count  int
	Total  int
	Min    int
	Max    int
	Mean   float64
	Median float64
	Stdev  float64
}

// SummarizeLengths computes the distribution moments via gonum.
func SummarizeLengths(lengths []int) LengthSummary {
	if len(lengths) == 0 {
		return LengthSummary{}
	}
	ls := LengthSummary{Count: len(lengths), Min: lengths[0], Max: lengths[0]}
	fs := make([]float64, len(lengths))
	for i, l := range lengths {
		ls.Total += l
		if l < ls.Min {
			ls.Min = l
		}
		if l > ls.Max {
			ls.Max = l
		}
		fs[i] = float64(l)
	}
	ls.Mean = stat.Mean(fs, nil)
	ls.Stdev = stat.StdDev(fs, nil)
	sort.Float64s(fs)
	mid := len(fs) / 2
	if len(fs)%2 == 0 {
		ls.Median = (fs[mid-1] + fs[mid]) / 2
	} else {
		ls.Median = fs[mid]
	}
	return ls
}
