package safety

import (
	"log/slog"

	"github.com/rotblauer/drivesafe/params"
	"github.com/rotblauer/drivesafe/types/tracepoint"
)

// RunningMetrics folds BatchMetrics across a scan.
// It is a value: Merge returns the next state and never mutates the receiver.
type RunningMetrics struct {
	// Chunks is the number of batches merged so far.
	Chunks int
	// Points is the number of points merged so far.
	Points int

	AvgSpeed        float64
	MaxSpeed        float64
	HighSpeedPoints float64

	SharpTurns    int
	TotalTrips    int
	UnusualRoutes int
	SharpDeclines int

	// SpeedDistribution is taken from the first batch only.
	SpeedDistribution *Histogram
}

// SafetyMetrics is the reported shape of a RunningMetrics.
type SafetyMetrics struct {
	AvgSpeed          float64   `json:"avg_speed"`
	MaxSpeed          float64   `json:"max_speed"`
	HighSpeedPoints   float64   `json:"high_speed_points"`
	SharpTurns        int       `json:"sharp_turns"`
	TotalTrips        int       `json:"total_trips"`
	UnusualRoutes     int       `json:"unusual_routes"`
	SharpDeclines     int       `json:"sharp_declines"`
	SpeedDistribution Histogram `json:"speed_distribution"`
}

// Merge folds the next batch's metrics into r under config's mean and max policies.
// Sharp turns, trips, unusual routes and sharp declines are summed.
// Trip counts are summed too, so a trip spanning two batches is counted in each.
func (r RunningMetrics) Merge(next BatchMetrics, config *params.SafetyConfig) RunningMetrics {
	if config == nil {
		config = params.DefaultSafetyConfig()
	}
	out := r
	out.Chunks = r.Chunks + 1
	out.Points = r.Points + next.Points

	switch config.Mean {
	case params.MeanEqualWeight:
		n := float64(r.Chunks)
		out.AvgSpeed = (r.AvgSpeed*n + next.AvgSpeed) / (n + 1)
		out.HighSpeedPoints = (r.HighSpeedPoints*n + next.HighSpeedPoints) / (n + 1)
	default:
		if out.Points > 0 {
			w0, w1 := float64(r.Points), float64(next.Points)
			out.AvgSpeed = (r.AvgSpeed*w0 + next.AvgSpeed*w1) / (w0 + w1)
			out.HighSpeedPoints = (r.HighSpeedPoints*w0 + next.HighSpeedPoints*w1) / (w0 + w1)
		}
	}

	switch config.Max {
	case params.MaxSumOfMaxima:
		out.MaxSpeed = r.MaxSpeed + next.MaxSpeed
	default:
		if r.Chunks == 0 || next.MaxSpeed > r.MaxSpeed {
			out.MaxSpeed = next.MaxSpeed
		}
	}

	out.SharpTurns = r.SharpTurns + next.SharpTurns
	out.TotalTrips = r.TotalTrips + next.TotalTrips
	out.UnusualRoutes = r.UnusualRoutes + next.UnusualRoutes
	out.SharpDeclines = r.SharpDeclines + next.SharpDeclines

	if r.SpeedDistribution == nil {
		h := next.SpeedDistribution
		out.SpeedDistribution = &h
	}
	return out
}

// Fold returns a fold step that computes a batch's metrics and merges them.
func Fold(config *params.SafetyConfig) func(RunningMetrics, *tracepoint.Batch) RunningMetrics {
	return func(acc RunningMetrics, b *tracepoint.Batch) RunningMetrics {
		m := Compute(b, config)
		slog.Debug("Merged batch metrics", "batch", m.Index, "points", m.Points,
			"avg_speed", m.AvgSpeed, "max_speed", m.MaxSpeed)
		return acc.Merge(m, config)
	}
}

// Result reports r. A RunningMetrics that merged nothing reports zeros
// and an empty speed distribution over config's bins.
func (r RunningMetrics) Result(config *params.SafetyConfig) SafetyMetrics {
	if config == nil {
		config = params.DefaultSafetyConfig()
	}
	out := SafetyMetrics{
		AvgSpeed:        r.AvgSpeed,
		MaxSpeed:        r.MaxSpeed,
		HighSpeedPoints: r.HighSpeedPoints,
		SharpTurns:      r.SharpTurns,
		TotalTrips:      r.TotalTrips,
		UnusualRoutes:   r.UnusualRoutes,
		SharpDeclines:   r.SharpDeclines,
	}
	if r.SpeedDistribution != nil {
		out.SpeedDistribution = *r.SpeedDistribution
	} else {
		out.SpeedDistribution = EmptyHistogram(config.SpeedBins)
	}
	return out
}
