package params

import "fmt"

type SourceFormat string

const (
	// SourceFormatCSV is a delimited file with a header row.
	SourceFormatCSV SourceFormat = "csv"
	// SourceFormatNDJSON is one JSON object per line, keyed by the configured column names.
	SourceFormatNDJSON SourceFormat = "ndjson"
)

// MalformedPolicy decides what happens to a row that cannot be parsed into a trace point.
type MalformedPolicy string

const (
	// MalformedFail aborts the scan on the first malformed row.
	MalformedFail MalformedPolicy = "fail"
	// MalformedSkip drops malformed rows and reports how many were dropped when the scan ends.
	MalformedSkip MalformedPolicy = "skip"
)

func (p MalformedPolicy) Validate() error {
	switch p {
	case MalformedFail, MalformedSkip:
		return nil
	}
	return fmt.Errorf("unknown malformed-record policy %q", string(p))
}

// Columns names the source fields a trace point is read from.
type Columns struct {
	TripID  string
	Lat     string
	Lng     string
	Alt     string // optional
	Speed   string
	Bearing string
}

func DefaultColumns() Columns {
	return Columns{
		TripID:  "randomized_id",
		Lat:     "lat",
		Lng:     "lng",
		Alt:     "alt",
		Speed:   "spd",
		Bearing: "azm",
	}
}

type SourceConfig struct {
	Path      string
	ChunkSize int
	Format    SourceFormat

	// Delimiter separates CSV fields.
	Delimiter rune
	Columns   Columns

	// SpeedFactor converts raw source speed into km/h.
	// The default assumes the source records meters per second.
	SpeedFactor float64

	Malformed MalformedPolicy
}

func DefaultSourceConfig() *SourceConfig {
	return &SourceConfig{
		Path:        DefaultSourcePath,
		ChunkSize:   DefaultChunkSize,
		Format:      SourceFormatCSV,
		Delimiter:   ',',
		Columns:     DefaultColumns(),
		SpeedFactor: 3.6,
		Malformed:   MalformedFail,
	}
}

func (c *SourceConfig) Validate() error {
	if c.Path == "" {
		return fmt.Errorf("source path is empty")
	}
	if c.ChunkSize <= 0 {
		return fmt.Errorf("chunk size must be positive, got %d", c.ChunkSize)
	}
	switch c.Format {
	case SourceFormatCSV, SourceFormatNDJSON:
	default:
		return fmt.Errorf("unknown source format %q", string(c.Format))
	}
	return c.Malformed.Validate()
}
