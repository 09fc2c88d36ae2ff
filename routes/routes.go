// Package routes clusters trip endpoints into popular starts, ends and pairs.
package routes

import (
	"github.com/paulmach/orb"
	"github.com/rotblauer/drivesafe/common"
	"github.com/rotblauer/drivesafe/conceptual"
	"github.com/rotblauer/drivesafe/geo/flat"
	"github.com/rotblauer/drivesafe/params"
	"github.com/rotblauer/drivesafe/types/tracepoint"
)

// Coord is a [lat, lng] pair, rounded for clustering.
type Coord [2]float64

func (c Coord) Lat() float64 { return c[0] }
func (c Coord) Lng() float64 { return c[1] }

// Pair is a [start, end] route key.
type Pair [2]Coord

// Route is the endpoint summary of one trip within a batch.
type Route struct {
	TripID conceptual.TripID
	Start  Coord
	End    Coord
	// LengthKm is the straight-line length between the unrounded endpoints.
	LengthKm float64
}

func (r Route) Pair() Pair { return Pair{r.Start, r.End} }

// RoundCoord rounds p to precision decimal places.
// Each value is rounded from its binary float, so 51.09545 rounds down to 51.0954.
func RoundCoord(p orb.Point, precision int32) Coord {
	return Coord{
		common.RoundHalfEven(p.Lat(), precision),
		common.RoundHalfEven(p.Lon(), precision),
	}
}

// Collect returns a Route for every trip in b with at least two points,
// in order of each trip's first appearance.
func Collect(b *tracepoint.Batch, config *params.RouteConfig) []Route {
	if config == nil {
		config = params.DefaultRouteConfig()
	}
	out := []Route{}
	if b.IsEmpty() {
		return out
	}
	for _, g := range b.GroupByTrip() {
		if len(g.Points) < 2 {
			continue
		}
		start, end := g.Points[0].Point(), g.Points[len(g.Points)-1].Point()
		out = append(out, Route{
			TripID:   g.TripID,
			Start:    RoundCoord(start, config.Precision),
			End:      RoundCoord(end, config.Precision),
			LengthKm: flat.EndpointKm(start, end),
		})
	}
	return out
}
