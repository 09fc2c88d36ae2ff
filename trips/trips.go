// Package trips summarizes the trips of a batch.
package trips

import (
	"github.com/montanaflynn/stats"
	"github.com/paulmach/orb"
	"github.com/rotblauer/drivesafe/common"
	"github.com/rotblauer/drivesafe/geo/flat"
	"github.com/rotblauer/drivesafe/params"
	"github.com/rotblauer/drivesafe/safety"
	"github.com/rotblauer/drivesafe/types/tracepoint"
)

// Precision is the number of decimal places TripDetail values are rounded to.
const Precision int32 = 2

// TripDetail summarizes one trip's points within a batch.
type TripDetail struct {
	TripID           string  `json:"trip_id"`
	AvgSpeed         float64 `json:"avg_speed"`
	MaxSpeed         float64 `json:"max_speed"`
	AvgAzimuthChange float64 `json:"avg_azimuth_change"`
	SharpTurns       int     `json:"sharp_turns"`
	Distance         float64 `json:"distance"`

	// Points is the number of points summarized. Not reported.
	Points int `json:"-"`
}

func statsMustFloat(fn func() (float64, error)) float64 {
	v, err := fn()
	if err != nil {
		return 0
	}
	return v
}

// Summarize returns one TripDetail per trip in b, in order of each trip's first appearance.
// Trips are not merged with fragments from other batches.
func Summarize(b *tracepoint.Batch, config *params.SafetyConfig) []TripDetail {
	if config == nil {
		config = params.DefaultSafetyConfig()
	}
	out := []TripDetail{}
	if b.IsEmpty() {
		return out
	}
	for _, g := range b.GroupByTrip() {
		out = append(out, summarize(g, config))
	}
	return out
}

func summarize(g tracepoint.TripGroup, config *params.SafetyConfig) TripDetail {
	speeds := make(stats.Float64Data, 0, len(g.Points))
	changes := make(stats.Float64Data, 0, len(g.Points))
	pts := make([]orb.Point, 0, len(g.Points))
	for _, p := range g.Points {
		speeds = append(speeds, p.Speed)
		changes = append(changes, p.BearingChange)
		pts = append(pts, p.Point())
	}
	return TripDetail{
		TripID:           g.TripID.String(),
		AvgSpeed:         common.RoundHalfEven(statsMustFloat(speeds.Mean), Precision),
		MaxSpeed:         common.RoundHalfEven(statsMustFloat(speeds.Max), Precision),
		AvgAzimuthChange: common.RoundHalfEven(statsMustFloat(changes.Mean), Precision),
		SharpTurns:       safety.SharpTurns(g.Points, config),
		Distance:         common.RoundHalfEven(flat.PathKm(pts), Precision),
		Points:           len(g.Points),
	}
}
