package tracepoint

import (
	"slices"
	"testing"

	"github.com/rotblauer/drivesafe/conceptual"
)

func TestBatch_GroupByTrip(t *testing.T) {
	b := &Batch{Points: []TracePoint{
		{TripID: "b", Speed: 1},
		{TripID: "a", Speed: 2},
		{TripID: "b", Speed: 3},
		{TripID: "c", Speed: 4},
		{TripID: "a", Speed: 5},
	}}
	groups := b.GroupByTrip()
	if len(groups) != 3 {
		t.Fatalf("expected 3 groups, got %d", len(groups))
	}
	want := []conceptual.TripID{"b", "a", "c"}
	for i, g := range groups {
		if g.TripID != want[i] {
			t.Errorf("group %d: expected %s, got %s", i, want[i], g.TripID)
		}
	}
	if len(groups[0].Points) != 2 || groups[0].Points[1].Speed != 3 {
		t.Errorf("unexpected group b: %v", groups[0].Points)
	}
	if !slices.Equal(b.TripIDs(), want) {
		t.Errorf("unexpected trip ids %v", b.TripIDs())
	}
	if !slices.Equal(b.Speeds(), []float64{1, 2, 3, 4, 5}) {
		t.Errorf("unexpected speeds %v", b.Speeds())
	}
}

func TestBatch_Nil(t *testing.T) {
	var b *Batch
	if !b.IsEmpty() || b.Len() != 0 {
		t.Error("nil batch should be empty")
	}
}
