package trips

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rotblauer/drivesafe/conceptual"
	"github.com/rotblauer/drivesafe/geo/features"
	"github.com/rotblauer/drivesafe/params"
	"github.com/rotblauer/drivesafe/types/tracepoint"
)

func batchOf(pts ...tracepoint.TracePoint) *tracepoint.Batch {
	b := &tracepoint.Batch{Points: pts}
	features.SetBearingChanges(b)
	return b
}

func tp(trip string, lat, lng, speed, bearing float64) tracepoint.TracePoint {
	return tracepoint.TracePoint{TripID: conceptual.TripID(trip), Lat: lat, Lng: lng, Speed: speed, Bearing: bearing}
}

func TestSummarize(t *testing.T) {
	b := batchOf(
		tp("100", 51.0, 71.0, 36, 0),
		tp("200", 51.1, 71.1, 108, 90),
		tp("100", 51.0, 71.01, 90, 10),
		tp("100", 51.01, 71.01, 18, 200),
		tp("100", 51.02, 71.01, 0, 190),
	)
	got := Summarize(b, params.DefaultSafetyConfig())
	if len(got) != 2 {
		t.Fatalf("expected 2 trips, got %d", len(got))
	}
	if got[0].TripID != "100" || got[1].TripID != "200" {
		t.Errorf("expected first-appearance order, got %s, %s", got[0].TripID, got[1].TripID)
	}

	a := got[0]
	if a.AvgSpeed != 36 || a.MaxSpeed != 90 {
		t.Errorf("unexpected speeds %+v", a)
	}
	if a.AvgAzimuthChange != 47.5 {
		t.Errorf("expected 47.5, got %v", a.AvgAzimuthChange)
	}
	if a.SharpTurns != 1 {
		t.Errorf("expected 1 sharp turn, got %d", a.SharpTurns)
	}
	if a.Distance != 2.92 {
		t.Errorf("expected 2.92 km, got %v", a.Distance)
	}
	if a.Points != 4 {
		t.Errorf("expected 4 points, got %d", a.Points)
	}

	want := TripDetail{TripID: "200", AvgSpeed: 108, MaxSpeed: 108, Points: 1}
	if diff := cmp.Diff(want, got[1]); diff != "" {
		t.Errorf("single point trip mismatch (-want +got):\n%s", diff)
	}
}

func TestSummarize_Rounding(t *testing.T) {
	b := batchOf(
		tp("x", 0, 0, 10, 0),
		tp("x", 0, 0, 10, 30),
		tp("x", 0, 0, 10, 110),
	)
	got := Summarize(b, nil)
	if got[0].AvgAzimuthChange != 36.67 {
		t.Errorf("expected 36.67, got %v", got[0].AvgAzimuthChange)
	}
}

func TestSummarize_ExactTie(t *testing.T) {
	b := batchOf(
		tp("x", 0, 0, 0.25, 0),
		tp("x", 0, 0, 0, 0),
	)
	got := Summarize(b, nil)
	if got[0].AvgSpeed != 0.12 || got[0].MaxSpeed != 0.25 {
		t.Errorf("expected 0.12 avg and 0.25 max, got %v and %v", got[0].AvgSpeed, got[0].MaxSpeed)
	}
}

func TestSummarize_EquatorDegree(t *testing.T) {
	got := Summarize(batchOf(tp("e", 0, 0, 0, 0), tp("e", 0, 1, 0, 0)), nil)
	if math.Abs(got[0].Distance-111) > 1.11 {
		t.Errorf("expected ~111 km, got %v", got[0].Distance)
	}
}

func TestSummarize_Empty(t *testing.T) {
	if got := Summarize(nil, nil); got == nil || len(got) != 0 {
		t.Errorf("expected empty list, got %#v", got)
	}
}

func TestPaginate(t *testing.T) {
	list := make([]TripDetail, 25)
	for i := range list {
		list[i].TripID = fmt.Sprint(i)
	}

	t.Run("Page2", func(t *testing.T) {
		p, err := Paginate(list, 2, 10)
		if err != nil {
			t.Fatal(err)
		}
		if len(p.Trips) != 10 || p.Trips[0].TripID != "10" || p.Trips[9].TripID != "19" {
			t.Errorf("expected trips[10:20], got %v", p.Trips)
		}
		if p.Total != 25 || p.Page != 2 || p.PerPage != 10 {
			t.Errorf("unexpected page %+v", p)
		}
	})

	t.Run("LastPartial", func(t *testing.T) {
		p, _ := Paginate(list, 3, 10)
		if len(p.Trips) != 5 {
			t.Errorf("expected 5, got %d", len(p.Trips))
		}
	})

	t.Run("BeyondRange", func(t *testing.T) {
		p, err := Paginate(list, 4, 10)
		if err != nil {
			t.Fatal(err)
		}
		if p.Trips == nil || len(p.Trips) != 0 {
			t.Errorf("expected empty list, got %#v", p.Trips)
		}
	})

	t.Run("Invalid", func(t *testing.T) {
		for _, args := range [][2]int{{0, 10}, {1, 0}, {-1, -1}} {
			if _, err := Paginate(list, args[0], args[1]); !errors.Is(err, ErrInvalidPage) {
				t.Errorf("%v: expected ErrInvalidPage, got %v", args, err)
			}
		}
	})
}
