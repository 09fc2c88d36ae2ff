// Package flat measures trace distances on a flat-earth approximation.
// Degrees are scaled to kilometers by constant factors; no geodesy.
package flat

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// KmPerDegree is the length of one degree of latitude, and of longitude at the equator.
const KmPerDegree = 111.0

// KmPerDegreeLng is the length of one degree of longitude at latitude lat.
func KmPerDegreeLng(lat float64) float64 {
	return KmPerDegree * math.Cos(lat*math.Pi/180)
}

// MeanLat is the arithmetic mean latitude of pts, 0 for none.
func MeanLat(pts []orb.Point) float64 {
	if len(pts) == 0 {
		return 0
	}
	sum := 0.0
	for _, p := range pts {
		sum += p.Lat()
	}
	return sum / float64(len(pts))
}

// Project maps lng/lat points onto a kilometer plane,
// scaling longitude by the cosine of the mean latitude of all the points.
func Project(pts []orb.Point) orb.LineString {
	kmLng := KmPerDegreeLng(MeanLat(pts))
	ls := make(orb.LineString, 0, len(pts))
	for _, p := range pts {
		ls = append(ls, orb.Point{p.Lon() * kmLng, p.Lat() * KmPerDegree})
	}
	return ls
}

// PathKm is the summed straight-line length of the consecutive segments of pts.
// Fewer than 2 points have length 0.
func PathKm(pts []orb.Point) float64 {
	if len(pts) < 2 {
		return 0
	}
	return planar.Length(Project(pts))
}

// EndpointKm is the straight-line length between a and b with both axes
// scaled by KmPerDegree. It is coarser than PathKm: no latitude correction,
// no intermediate points.
func EndpointKm(a, b orb.Point) float64 {
	return planar.Distance(a, b) * KmPerDegree
}
