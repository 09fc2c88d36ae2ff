package safety

import (
	"github.com/rotblauer/drivesafe/geo/features"
	"github.com/rotblauer/drivesafe/params"
	"github.com/rotblauer/drivesafe/types/tracepoint"
)

// SharpDeclines counts points whose speed dropped by more than config.SharpDeclineKmh
// against the previous row of the batch.
// Rows are compared in source order, across trip boundaries.
func SharpDeclines(b *tracepoint.Batch, config *params.SafetyConfig) int {
	deltas, ok := features.SpeedDeltas(b)
	n := 0
	for i, d := range deltas {
		if ok[i] && d < -config.SharpDeclineKmh {
			n++
		}
	}
	return n
}

// UnusualRoutes counts points with a bearing change over config.UnusualTurnDeg,
// or a sharp decline in speed against the previous row.
// A point matching both is counted once.
func UnusualRoutes(b *tracepoint.Batch, config *params.SafetyConfig) int {
	deltas, ok := features.SpeedDeltas(b)
	n := 0
	for i, p := range b.Points {
		if p.BearingChange > config.UnusualTurnDeg || (ok[i] && deltas[i] < -config.SharpDeclineKmh) {
			n++
		}
	}
	return n
}

// SharpTurns counts points with a bearing change over config.SharpTurnDeg.
func SharpTurns(points []tracepoint.TracePoint, config *params.SafetyConfig) int {
	n := 0
	for _, p := range points {
		if p.BearingChange > config.SharpTurnDeg {
			n++
		}
	}
	return n
}
