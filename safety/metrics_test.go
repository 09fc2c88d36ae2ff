package safety

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/rotblauer/drivesafe/conceptual"
	"github.com/rotblauer/drivesafe/geo/features"
	"github.com/rotblauer/drivesafe/params"
	"github.com/rotblauer/drivesafe/types/tracepoint"
)

type pt struct {
	trip    string
	speed   float64 // km/h
	bearing float64
}

func testBatch(index int, pts ...pt) *tracepoint.Batch {
	b := &tracepoint.Batch{Index: index}
	for _, p := range pts {
		b.Points = append(b.Points, tracepoint.TracePoint{
			TripID:  conceptual.TripID(p.trip),
			Lat:     51,
			Lng:     71,
			Speed:   p.speed,
			Bearing: p.bearing,
		})
	}
	features.SetBearingChanges(b)
	return b
}

func TestCompute_SharpTurns(t *testing.T) {
	b := testBatch(0,
		pt{"A", 10, 10},
		pt{"A", 10, 210}, // change 160
		pt{"A", 10, 220}, // change 10
		pt{"B", 10, 90},
	)
	m := Compute(b, params.DefaultSafetyConfig())
	if m.SharpTurns != 1 {
		t.Errorf("expected 1 sharp turn, got %d", m.SharpTurns)
	}
	if m.TotalTrips != 2 {
		t.Errorf("expected 2 trips, got %d", m.TotalTrips)
	}
	if m.UnusualRoutes != 1 {
		t.Errorf("expected 1 unusual route point, got %d", m.UnusualRoutes)
	}
}

func TestCompute_Speeds(t *testing.T) {
	b := testBatch(0,
		pt{"1", 36, 0},
		pt{"1", 90, 10},
		pt{"1", 18, 200},
		pt{"1", 0, 190},
		pt{"2", 108, 90},
		pt{"3", 72, 350},
		pt{"3", 79.2, 20},
		pt{"3", 54, 100},
	)
	m := Compute(b, params.DefaultSafetyConfig())
	if math.Abs(m.AvgSpeed-57.15) > 1e-9 {
		t.Errorf("expected avg 57.15, got %v", m.AvgSpeed)
	}
	if m.MaxSpeed != 108 {
		t.Errorf("expected max 108, got %v", m.MaxSpeed)
	}
	if m.HighSpeedPoints != 25 {
		t.Errorf("expected 25%%, got %v", m.HighSpeedPoints)
	}
	if m.SharpTurns != 2 {
		t.Errorf("expected 2 sharp turns, got %d", m.SharpTurns)
	}
	// Declines at rows 3, 6 and 8; row 6 crosses a trip boundary.
	if m.SharpDeclines != 3 {
		t.Errorf("expected 3 sharp declines, got %d", m.SharpDeclines)
	}
	// Row 3 is both a decline and a 170 degree turn.
	if m.UnusualRoutes != 3 {
		t.Errorf("expected 3 unusual route points, got %d", m.UnusualRoutes)
	}
	if m.SpeedDistribution.Total() != 8 {
		t.Errorf("expected 8 binned speeds, got %d", m.SpeedDistribution.Total())
	}
}

func TestCompute_Empty(t *testing.T) {
	for _, b := range []*tracepoint.Batch{nil, {Index: 3}} {
		m := Compute(b, nil)
		if m.AvgSpeed != 0 || m.HighSpeedPoints != 0 || m.MaxSpeed != 0 {
			t.Errorf("expected zero speeds, got %+v", m)
		}
		if math.IsNaN(m.AvgSpeed) || math.IsNaN(m.HighSpeedPoints) {
			t.Error("expected no NaN")
		}
		if m.TotalTrips != 0 {
			t.Errorf("expected 0 trips, got %d", m.TotalTrips)
		}
		if len(m.SpeedDistribution.Counts) != 6 {
			t.Errorf("expected 6 empty bins, got %v", m.SpeedDistribution.Counts)
		}
	}
}

func TestCompute_BearingChangeRange(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	pts := make([]pt, 500)
	for i := range pts {
		pts[i] = pt{trip: string(rune('a' + r.IntN(4))), speed: r.Float64() * 150, bearing: r.Float64() * 360}
	}
	b := testBatch(0, pts...)
	for i, p := range b.Points {
		if p.BearingChange < 0 || p.BearingChange > 180 {
			t.Fatalf("point %d: bearing change %v out of range", i, p.BearingChange)
		}
	}
}
