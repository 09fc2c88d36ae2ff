package safety

import (
	"math"
	"slices"
	"testing"
)

func TestNewHistogram(t *testing.T) {
	edges := []float64{0, 20, 40, 60, 80, 100, 120}
	cases := []struct {
		name   string
		values []float64
		want   []int
	}{
		{"empty", nil, []int{0, 0, 0, 0, 0, 0}},
		{"lower edges are inclusive", []float64{0, 20, 40}, []int{1, 1, 1, 0, 0, 0}},
		{"last bin is closed", []float64{100, 119.9, 120}, []int{0, 0, 0, 0, 0, 3}},
		{"out of range dropped", []float64{-1, 120.01, 500, math.NaN()}, []int{0, 0, 0, 0, 0, 0}},
		{"mixed", []float64{36, 90, 18, 0, 108, 72, 79.2, 54}, []int{2, 1, 1, 2, 1, 1}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			h := NewHistogram(c.values, edges)
			if !slices.Equal(h.Counts, c.want) {
				t.Errorf("expected %v, got %v", c.want, h.Counts)
			}
			if !slices.Equal(h.Bins, edges) {
				t.Errorf("unexpected bins %v", h.Bins)
			}
		})
	}
}

func TestEmptyHistogram(t *testing.T) {
	h := EmptyHistogram([]float64{0})
	if h.Counts == nil || len(h.Counts) != 0 {
		t.Errorf("expected empty non-nil counts, got %#v", h.Counts)
	}
	if h.Total() != 0 {
		t.Error("expected zero total")
	}
}
