package routes

import (
	"encoding/json"
	"sort"

	"github.com/rotblauer/drivesafe/params"
	"github.com/rotblauer/drivesafe/safety"
	"github.com/rotblauer/drivesafe/types/tracepoint"
)

// Count is a key and how many routes share it.
// It marshals as the JSON tuple [key, count].
type Count[K comparable] struct {
	Key   K
	Count int
}

func (c Count[K]) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{c.Key, c.Count})
}

func (c *Count[K]) UnmarshalJSON(data []byte) error {
	var tuple [2]json.RawMessage
	if err := json.Unmarshal(data, &tuple); err != nil {
		return err
	}
	if err := json.Unmarshal(tuple[0], &c.Key); err != nil {
		return err
	}
	return json.Unmarshal(tuple[1], &c.Count)
}

// Report is the popular-routes view.
type Report struct {
	PopularStarts   []Count[Coord]   `json:"popular_starts"`
	PopularEnds     []Count[Coord]   `json:"popular_ends"`
	PopularPairs    []Count[Pair]    `json:"popular_pairs"`
	TotalRoutes     int              `json:"total_routes"`
	LengthHistogram safety.Histogram `json:"length_histogram"`
}

// MostCommon counts keys and returns the n most frequent, highest first.
// Equal counts keep the order in which their keys were first seen.
func MostCommon[K comparable](keys []K, n int) []Count[K] {
	index := map[K]int{}
	counts := []Count[K]{}
	for _, k := range keys {
		i, ok := index[k]
		if !ok {
			i = len(counts)
			index[k] = i
			counts = append(counts, Count[K]{Key: k})
		}
		counts[i].Count++
	}
	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
	if n >= 0 && len(counts) > n {
		counts = counts[:n]
	}
	return counts
}

// NewReport clusters routes by their rounded endpoints.
func NewReport(routes []Route, config *params.RouteConfig) Report {
	if config == nil {
		config = params.DefaultRouteConfig()
	}
	starts := make([]Coord, 0, len(routes))
	ends := make([]Coord, 0, len(routes))
	pairs := make([]Pair, 0, len(routes))
	lengths := make([]float64, 0, len(routes))
	for _, r := range routes {
		starts = append(starts, r.Start)
		ends = append(ends, r.End)
		pairs = append(pairs, r.Pair())
		lengths = append(lengths, r.LengthKm)
	}
	return Report{
		PopularStarts:   MostCommon(starts, config.TopN),
		PopularEnds:     MostCommon(ends, config.TopN),
		PopularPairs:    MostCommon(pairs, config.TopN),
		TotalRoutes:     len(routes),
		LengthHistogram: safety.NewHistogram(lengths, config.LengthBins),
	}
}

// Analyze reports the routes of a single batch.
func Analyze(b *tracepoint.Batch, config *params.RouteConfig) Report {
	return NewReport(Collect(b, config), config)
}
