// Package safety aggregates driving-safety indicators over batches of trace points.
package safety

import (
	"github.com/montanaflynn/stats"
	"github.com/rotblauer/drivesafe/params"
	"github.com/rotblauer/drivesafe/types/tracepoint"
)

// BatchMetrics are the safety aggregates of a single batch.
type BatchMetrics struct {
	Index  int
	Points int

	AvgSpeed float64
	MaxSpeed float64
	// HighSpeedPoints is the percentage (0-100) of points over the high speed threshold.
	HighSpeedPoints float64

	SharpTurns    int
	TotalTrips    int
	UnusualRoutes int
	SharpDeclines int

	SpeedDistribution Histogram
}

// statsOr returns fn's value, or def when fn fails (eg. on empty input).
func statsOr(fn func() (float64, error), def float64) float64 {
	v, err := fn()
	if err != nil {
		return def
	}
	return v
}

// Compute derives the batch's metrics. The batch must already carry
// km/h speeds and bearing changes.
// An empty batch yields zero values, never NaN.
func Compute(b *tracepoint.Batch, config *params.SafetyConfig) BatchMetrics {
	if config == nil {
		config = params.DefaultSafetyConfig()
	}
	m := BatchMetrics{
		SpeedDistribution: EmptyHistogram(config.SpeedBins),
	}
	if b.IsEmpty() {
		if b != nil {
			m.Index = b.Index
		}
		return m
	}
	m.Index = b.Index
	m.Points = b.Len()

	speeds := stats.Float64Data(b.Speeds())
	m.AvgSpeed = statsOr(speeds.Mean, 0)
	m.MaxSpeed = statsOr(speeds.Max, 0)

	high := 0
	for _, s := range speeds {
		if s > config.HighSpeedKmh {
			high++
		}
	}
	m.HighSpeedPoints = float64(high) / float64(m.Points) * 100

	m.SharpTurns = SharpTurns(b.Points, config)
	m.TotalTrips = len(b.TripIDs())
	m.UnusualRoutes = UnusualRoutes(b, config)
	m.SharpDeclines = SharpDeclines(b, config)
	m.SpeedDistribution = NewHistogram(speeds, config.SpeedBins)
	return m
}
