// Package features derives per-point kinematic fields for a batch of trace points.
// Everything here is pure and operates on one batch at a time.
package features

import (
	"math"

	"github.com/rotblauer/drivesafe/conceptual"
	"github.com/rotblauer/drivesafe/types/tracepoint"
)

// MpsToKmh converts meters per second to kilometers per hour.
const MpsToKmh = 3.6

func KmhFromMps(mps float64) float64 {
	return mps * MpsToKmh
}

// NormalizeBearing folds any finite angle into [0,360).
func NormalizeBearing(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

// BearingDelta is the absolute, wrap-aware difference between two bearings.
// The result is always in [0,180]: 350 -> 10 is 20, not 340.
func BearingDelta(a, b float64) float64 {
	d := math.Abs(NormalizeBearing(a) - NormalizeBearing(b))
	return math.Min(d, 360-d)
}

// ConvertSpeeds scales every raw speed in the batch by factor, in place.
func ConvertSpeeds(b *tracepoint.Batch, factor float64) {
	for i := range b.Points {
		b.Points[i].Speed *= factor
	}
}

// SetBearingChanges sets BearingChange on every point of the batch, in place.
// Predecessors are looked up per trip id and only within this batch,
// so the first point of each trip in the batch gets 0.
func SetBearingChanges(b *tracepoint.Batch) {
	last := make(map[conceptual.TripID]float64)
	for i := range b.Points {
		p := &b.Points[i]
		prev, ok := last[p.TripID]
		if ok {
			p.BearingChange = BearingDelta(p.Bearing, prev)
		} else {
			p.BearingChange = 0
		}
		last[p.TripID] = p.Bearing
	}
}

// Derive enriches a freshly read batch: raw speed to km/h, then bearing changes.
func Derive(b *tracepoint.Batch, speedFactor float64) {
	ConvertSpeeds(b, speedFactor)
	SetBearingChanges(b)
}

// SpeedDeltas returns the row-over-row speed change of the batch, in source order,
// regardless of trip. The first entry has no predecessor and is reported as ok=false.
func SpeedDeltas(b *tracepoint.Batch) (deltas []float64, ok []bool) {
	deltas = make([]float64, b.Len())
	ok = make([]bool, b.Len())
	for i := 1; i < b.Len(); i++ {
		deltas[i] = b.Points[i].Speed - b.Points[i-1].Speed
		ok[i] = true
	}
	return deltas, ok
}
