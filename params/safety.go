package params

import "fmt"

// MeanPolicy decides how per-batch means fold into the running mean.
type MeanPolicy string

const (
	// MeanPointWeighted weights each batch by its point count.
	// The running mean equals the mean over all points read so far.
	MeanPointWeighted MeanPolicy = "point-weighted"
	// MeanEqualWeight gives every batch the same weight, regardless of size.
	// Only exact when all batches are full.
	MeanEqualWeight MeanPolicy = "equal-weight"
)

// MaxPolicy decides how per-batch maxima fold together.
type MaxPolicy string

const (
	// MaxOfMaxima keeps the largest value seen.
	MaxOfMaxima MaxPolicy = "max"
	// MaxSumOfMaxima adds batch maxima together, as the legacy dashboard did.
	MaxSumOfMaxima MaxPolicy = "sum"
)

type SafetyConfig struct {
	// HighSpeedKmh is the speed above which a point counts as high speed.
	HighSpeedKmh float64
	// SharpTurnDeg is the bearing change above which a point is a sharp turn.
	SharpTurnDeg float64
	// UnusualTurnDeg is the bearing change above which a point is an unusual route point.
	UnusualTurnDeg float64
	// SharpDeclineKmh is the drop in speed between consecutive rows
	// counted as a sharp decline.
	SharpDeclineKmh float64

	SpeedBins []float64

	Mean MeanPolicy
	Max  MaxPolicy
}

func DefaultSafetyConfig() *SafetyConfig {
	return &SafetyConfig{
		HighSpeedKmh:    80,
		SharpTurnDeg:    45,
		UnusualTurnDeg:  120,
		SharpDeclineKmh: 20,
		SpeedBins:       []float64{0, 20, 40, 60, 80, 100, 120},
		Mean:            MeanPointWeighted,
		Max:             MaxOfMaxima,
	}
}

func (c *SafetyConfig) Validate() error {
	switch c.Mean {
	case MeanPointWeighted, MeanEqualWeight:
	default:
		return fmt.Errorf("unknown mean policy %q", string(c.Mean))
	}
	switch c.Max {
	case MaxOfMaxima, MaxSumOfMaxima:
	default:
		return fmt.Errorf("unknown max policy %q", string(c.Max))
	}
	if len(c.SpeedBins) < 2 {
		return fmt.Errorf("speed histogram needs at least 2 bin edges")
	}
	return nil
}

type RouteConfig struct {
	// Precision is the number of decimal places endpoints are rounded to before clustering.
	Precision int32
	// TopN is the number of most frequent starts, ends and pairs reported.
	TopN       int
	LengthBins []float64
}

func DefaultRouteConfig() *RouteConfig {
	return &RouteConfig{
		Precision:  4,
		TopN:       5,
		LengthBins: []float64{0, 1, 2, 5, 10, 20},
	}
}

type TripDetailsConfig struct {
	DefaultPerPage int
}

func DefaultTripDetailsConfig() *TripDetailsConfig {
	return &TripDetailsConfig{DefaultPerPage: 10}
}
