package safety

import (
	"math"
	"sort"
)

// Histogram is a binned count over fixed edges.
// Bins holds the n+1 edges of n bins; Counts holds one count per bin.
type Histogram struct {
	Bins   []float64 `json:"bins"`
	Counts []int     `json:"counts"`
}

// NewHistogram bins values over edges.
// Bins are half-open [lo, hi) except the last, which also includes its upper edge.
// Values outside [edges[0], edges[n]] and NaNs are dropped.
// Edges must be sorted ascending; fewer than two edges yields no bins.
func NewHistogram(values []float64, edges []float64) Histogram {
	h := EmptyHistogram(edges)
	if len(h.Counts) == 0 {
		return h
	}
	lo, hi := edges[0], edges[len(edges)-1]
	for _, v := range values {
		if math.IsNaN(v) || v < lo || v > hi {
			continue
		}
		if v == hi {
			h.Counts[len(h.Counts)-1]++
			continue
		}
		// i is the first edge >= v.
		i := sort.SearchFloat64s(edges, v)
		if i < len(edges) && edges[i] == v {
			h.Counts[i]++
			continue
		}
		h.Counts[i-1]++
	}
	return h
}

// EmptyHistogram returns edges with all-zero counts.
func EmptyHistogram(edges []float64) Histogram {
	h := Histogram{Bins: append([]float64{}, edges...), Counts: []int{}}
	if len(edges) > 1 {
		h.Counts = make([]int, len(edges)-1)
	}
	return h
}

// Total is the number of binned values.
func (h Histogram) Total() int {
	n := 0
	for _, c := range h.Counts {
		n += c
	}
	return n
}
