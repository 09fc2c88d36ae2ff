package tracepoint

import (
	"errors"
	"testing"

	"github.com/rotblauer/drivesafe/params"
)

var testHeader = []string{"randomized_id", "lat", "lng", "alt", "spd", "azm"}

func TestNewColumnIndex(t *testing.T) {
	idx, err := NewColumnIndex(testHeader, params.DefaultColumns())
	if err != nil {
		t.Fatal(err)
	}
	if idx.TripID != 0 || idx.Lat != 1 || idx.Lng != 2 || idx.Alt != 3 || idx.Speed != 4 || idx.Bearing != 5 {
		t.Errorf("unexpected index: %+v", idx)
	}

	t.Run("CaseAndSpace", func(t *testing.T) {
		idx, err := NewColumnIndex([]string{"\ufeffRandomized_ID", " LAT", "lng ", "spd", "azm"}, params.DefaultColumns())
		if err != nil {
			t.Fatal(err)
		}
		if idx.TripID != 0 || idx.Lat != 1 || idx.Lng != 2 {
			t.Errorf("unexpected index: %+v", idx)
		}
		if idx.Alt != -1 {
			t.Errorf("expected optional alt to be -1, got %d", idx.Alt)
		}
	})

	t.Run("Missing", func(t *testing.T) {
		_, err := NewColumnIndex([]string{"randomized_id", "lat", "lng", "spd"}, params.DefaultColumns())
		if !errors.Is(err, ErrMissingColumn) {
			t.Fatalf("expected ErrMissingColumn, got %v", err)
		}
	})
}

func TestFromCSVRecord(t *testing.T) {
	idx, err := NewColumnIndex(testHeader, params.DefaultColumns())
	if err != nil {
		t.Fatal(err)
	}
	tp, err := FromCSVRecord([]string{"7637058049336049989", "51.09546", "71.42753", "350.53102", "0.0", "0"}, idx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if tp.TripID != "7637058049336049989" {
		t.Errorf("unexpected trip id %q", tp.TripID)
	}
	if tp.Lat != 51.09546 || tp.Lng != 71.42753 || tp.Alt != 350.53102 {
		t.Errorf("unexpected coordinates %v", tp)
	}
	if p := tp.Point(); p.Lon() != 71.42753 || p.Lat() != 51.09546 {
		t.Errorf("unexpected orb point %v", p)
	}

	cases := []struct {
		name   string
		rec    []string
		column string
	}{
		{"BadSpeed", []string{"1", "51.1", "71.4", "350", "fast", "10"}, "spd"},
		{"NaNBearing", []string{"1", "51.1", "71.4", "350", "3", "NaN"}, "azm"},
		{"Short", []string{"1", "51.1"}, "lng"},
		{"EmptyID", []string{" ", "51.1", "71.4", "350", "3", "10"}, "randomized_id"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := FromCSVRecord(c.rec, idx, 42)
			if !errors.Is(err, ErrMalformedRecord) {
				t.Fatalf("expected ErrMalformedRecord, got %v", err)
			}
			var re *RecordError
			if !errors.As(err, &re) {
				t.Fatalf("expected *RecordError, got %T", err)
			}
			if re.Row != 42 || re.Column != c.column {
				t.Errorf("unexpected row/column %d/%q", re.Row, re.Column)
			}
		})
	}
}

func TestFromJSONLine(t *testing.T) {
	cols := params.DefaultColumns()
	tp, err := FromJSONLine([]byte(`{"randomized_id":"abc","lat":51.1,"lng":"71.4","spd":12.5,"azm":359}`), cols, 1)
	if err != nil {
		t.Fatal(err)
	}
	if tp.TripID != "abc" || tp.Lat != 51.1 || tp.Lng != 71.4 || tp.Speed != 12.5 || tp.Bearing != 359 {
		t.Errorf("unexpected point %v", tp)
	}

	_, err = FromJSONLine([]byte(`{"randomized_id":"abc","lat":51.1,"lng":71.4,"azm":359}`), cols, 2)
	if !errors.Is(err, ErrMalformedRecord) || !errors.Is(err, ErrMissingColumn) {
		t.Errorf("expected malformed/missing column, got %v", err)
	}

	_, err = FromJSONLine([]byte(`{"randomized_id":`), cols, 3)
	if !errors.Is(err, ErrMalformedRecord) {
		t.Errorf("expected malformed, got %v", err)
	}

	_, err = FromJSONLine([]byte(`{"randomized_id":"abc","lat":51.1,"lng":71.4,"spd":1e400,"azm":359}`), cols, 4)
	var re *RecordError
	if !errors.As(err, &re) || re.Column != "spd" || re.Row != 4 {
		t.Errorf("expected out of range speed rejected, got %v", err)
	}
}
