package tracepoint

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/rotblauer/drivesafe/conceptual"
)

// TracePoint is one GPS sample of a trip.
// Speed is in km/h once the point has been through ingest.
// Bearing is in compass degrees [0,360).
type TracePoint struct {
	TripID  conceptual.TripID `json:"trip_id"`
	Lat     float64           `json:"lat"`
	Lng     float64           `json:"lng"`
	Alt     float64           `json:"alt"`
	Speed   float64           `json:"spd"`
	Bearing float64           `json:"azm"`

	// BearingChange is derived: the wrap-aware difference to the previous point
	// of the same trip in the same batch, in [0,180].
	// It is 0 for the first point of a trip in a batch.
	BearingChange float64 `json:"azm_change"`
}

// Point returns the point as an orb.Point, which is [lng, lat].
func (tp TracePoint) Point() orb.Point {
	return orb.Point{tp.Lng, tp.Lat}
}

func (tp TracePoint) String() string {
	return fmt.Sprintf("trip=%s lat=%.6f lng=%.6f spd=%.2f azm=%.1f d_azm=%.1f",
		tp.TripID, tp.Lat, tp.Lng, tp.Speed, tp.Bearing, tp.BearingChange)
}
