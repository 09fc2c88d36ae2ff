package tracepoint

import (
	"github.com/rotblauer/drivesafe/conceptual"
)

// Batch is an ordered run of consecutive source rows.
// Index is the zero-based position of the batch in its source.
type Batch struct {
	Index  int
	Points []TracePoint
}

func (b *Batch) Len() int {
	if b == nil {
		return 0
	}
	return len(b.Points)
}

func (b *Batch) IsEmpty() bool {
	return b.Len() == 0
}

func (b *Batch) Speeds() []float64 {
	out := make([]float64, 0, b.Len())
	for _, p := range b.Points {
		out = append(out, p.Speed)
	}
	return out
}

func (b *Batch) BearingChanges() []float64 {
	out := make([]float64, 0, b.Len())
	for _, p := range b.Points {
		out = append(out, p.BearingChange)
	}
	return out
}

// TripIDs returns the distinct trip ids of the batch in order of first appearance.
func (b *Batch) TripIDs() []conceptual.TripID {
	seen := map[conceptual.TripID]struct{}{}
	out := []conceptual.TripID{}
	for _, p := range b.Points {
		if _, ok := seen[p.TripID]; ok {
			continue
		}
		seen[p.TripID] = struct{}{}
		out = append(out, p.TripID)
	}
	return out
}

// TripGroup is the points of one trip within a batch, in source order.
type TripGroup struct {
	TripID conceptual.TripID
	Points []TracePoint
}

// GroupByTrip groups the batch points by trip id.
// Groups are ordered by first appearance of the id; points keep source order.
func (b *Batch) GroupByTrip() []TripGroup {
	index := map[conceptual.TripID]int{}
	groups := []TripGroup{}
	for _, p := range b.Points {
		i, ok := index[p.TripID]
		if !ok {
			i = len(groups)
			index[p.TripID] = i
			groups = append(groups, TripGroup{TripID: p.TripID})
		}
		groups[i].Points = append(groups[i].Points, p)
	}
	return groups
}
