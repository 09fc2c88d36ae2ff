package tracepoint

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/rotblauer/drivesafe/conceptual"
	"github.com/rotblauer/drivesafe/params"
	"github.com/tidwall/gjson"
)

var ErrMissingColumn = errors.New("missing column")
var ErrMalformedRecord = errors.New("malformed record")

// RecordError describes a source row that could not be read as a TracePoint.
type RecordError struct {
	Row    int // 1-based data row, header excluded
	Column string
	Err    error
}

func (e *RecordError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("%v: row %d: %v", ErrMalformedRecord, e.Row, e.Err)
	}
	return fmt.Sprintf("%v: row %d column %q: %v", ErrMalformedRecord, e.Row, e.Column, e.Err)
}

func (e *RecordError) Unwrap() []error {
	return []error{ErrMalformedRecord, e.Err}
}

// ColumnIndex maps the configured column names to CSV field positions.
// Alt is -1 when the source has no altitude column.
type ColumnIndex struct {
	TripID, Lat, Lng, Alt, Speed, Bearing int
	names                                 params.Columns
	width                                 int
}

// NewColumnIndex resolves cols against a header row.
// Header names are compared trimmed and case-insensitively.
func NewColumnIndex(header []string, cols params.Columns) (*ColumnIndex, error) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, ok := pos[h]; !ok {
			pos[h] = i
		}
	}
	lookup := func(name string, required bool) (int, error) {
		i, ok := pos[strings.ToLower(name)]
		if !ok {
			if !required {
				return -1, nil
			}
			return -1, fmt.Errorf("%w: %q in header %v", ErrMissingColumn, name, header)
		}
		return i, nil
	}

	idx := &ColumnIndex{names: cols, width: len(header)}
	var err error
	if idx.TripID, err = lookup(cols.TripID, true); err != nil {
		return nil, err
	}
	if idx.Lat, err = lookup(cols.Lat, true); err != nil {
		return nil, err
	}
	if idx.Lng, err = lookup(cols.Lng, true); err != nil {
		return nil, err
	}
	if idx.Speed, err = lookup(cols.Speed, true); err != nil {
		return nil, err
	}
	if idx.Bearing, err = lookup(cols.Bearing, true); err != nil {
		return nil, err
	}
	idx.Alt, _ = lookup(cols.Alt, false)
	return idx, nil
}

func parseFinite(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("not a finite number: %q", s)
	}
	return v, nil
}

// FromCSVRecord reads one CSV record. Speed is left in raw source units.
func FromCSVRecord(rec []string, idx *ColumnIndex, row int) (TracePoint, error) {
	tp := TracePoint{}
	field := func(i int, name string, dst *float64) error {
		if i >= len(rec) {
			return &RecordError{Row: row, Column: name, Err: fmt.Errorf("record has %d fields", len(rec))}
		}
		v, err := parseFinite(rec[i])
		if err != nil {
			return &RecordError{Row: row, Column: name, Err: err}
		}
		*dst = v
		return nil
	}

	if idx.TripID >= len(rec) {
		return tp, &RecordError{Row: row, Column: idx.names.TripID, Err: fmt.Errorf("record has %d fields", len(rec))}
	}
	tp.TripID = conceptual.TripID(strings.TrimSpace(rec[idx.TripID]))
	if tp.TripID.IsEmpty() {
		return tp, &RecordError{Row: row, Column: idx.names.TripID, Err: errors.New("empty trip id")}
	}
	if err := field(idx.Lat, idx.names.Lat, &tp.Lat); err != nil {
		return tp, err
	}
	if err := field(idx.Lng, idx.names.Lng, &tp.Lng); err != nil {
		return tp, err
	}
	if err := field(idx.Speed, idx.names.Speed, &tp.Speed); err != nil {
		return tp, err
	}
	if err := field(idx.Bearing, idx.names.Bearing, &tp.Bearing); err != nil {
		return tp, err
	}
	if idx.Alt >= 0 && idx.Alt < len(rec) && strings.TrimSpace(rec[idx.Alt]) != "" {
		// Altitude is informational; an unreadable value is not worth failing the row.
		tp.Alt, _ = parseFinite(rec[idx.Alt])
	}
	return tp, nil
}

// FromJSONLine reads one JSON object, picking the configured column names as top-level keys.
// Numeric fields may be JSON numbers or numeric strings.
// Speed is left in raw source units.
func FromJSONLine(line []byte, cols params.Columns, row int) (TracePoint, error) {
	tp := TracePoint{}
	if !gjson.ValidBytes(line) {
		return tp, &RecordError{Row: row, Err: errors.New("invalid json")}
	}
	res := gjson.GetManyBytes(line, cols.TripID, cols.Lat, cols.Lng, cols.Speed, cols.Bearing, cols.Alt)

	if !res[0].Exists() || res[0].String() == "" {
		return tp, &RecordError{Row: row, Column: cols.TripID, Err: ErrMissingColumn}
	}
	tp.TripID = conceptual.TripID(res[0].String())

	number := func(r gjson.Result, name string, dst *float64) error {
		if !r.Exists() {
			return &RecordError{Row: row, Column: name, Err: ErrMissingColumn}
		}
		var v float64
		var err error
		switch r.Type {
		case gjson.Number:
			v, err = parseFinite(r.Raw)
		case gjson.String:
			v, err = parseFinite(r.String())
		default:
			err = fmt.Errorf("unexpected %s value %s", r.Type, r.Raw)
		}
		if err != nil {
			return &RecordError{Row: row, Column: name, Err: err}
		}
		*dst = v
		return nil
	}
	if err := number(res[1], cols.Lat, &tp.Lat); err != nil {
		return tp, err
	}
	if err := number(res[2], cols.Lng, &tp.Lng); err != nil {
		return tp, err
	}
	if err := number(res[3], cols.Speed, &tp.Speed); err != nil {
		return tp, err
	}
	if err := number(res[4], cols.Bearing, &tp.Bearing); err != nil {
		return tp, err
	}
	if cols.Alt != "" && res[5].Exists() {
		_ = number(res[5], cols.Alt, &tp.Alt)
	}
	return tp, nil
}
