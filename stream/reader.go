package stream

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rotblauer/drivesafe/catz"
	"github.com/rotblauer/drivesafe/geo/features"
	"github.com/rotblauer/drivesafe/params"
	"github.com/rotblauer/drivesafe/types/tracepoint"
)

var (
	// ErrSourceNotFound is returned when the trace source cannot be opened.
	ErrSourceNotFound = errors.New("source not found")
	// ErrMalformedRecord is returned (wrapped in a *tracepoint.RecordError) for rows
	// that cannot be read as trace points.
	ErrMalformedRecord = tracepoint.ErrMalformedRecord
	// ErrMissingColumn is returned when the source header lacks a required column.
	ErrMissingColumn = tracepoint.ErrMissingColumn
	// ErrClosed is returned by Next after Close.
	ErrClosed = errors.New("chunk reader closed")
)

// MeterInterval is how often a running scan logs its throughput.
var MeterInterval = 5 * time.Second

// Stats summarizes what a ChunkReader has read so far.
type Stats struct {
	Rows    int64 `json:"rows"`
	Skipped int64 `json:"skipped"`
	Batches int   `json:"batches"`
}

// ChunkReader reads a trace source in batches of up to ChunkSize rows,
// in source order. Each batch is enriched (km/h speeds, bearing changes)
// before it is returned.
// A ChunkReader is single-use: once exhausted or closed it cannot be rewound.
// It is not safe for concurrent use.
type ChunkReader struct {
	config *params.SourceConfig
	src    catz.SourceReader

	csv   *csv.Reader
	idx   *tracepoint.ColumnIndex
	lines *bufio.Scanner

	row     int // data rows read, header excluded
	batches int
	done    bool
	closed  bool

	met    *tickScanMeter
	logger *slog.Logger
}

// Open opens the configured source and reads its header, if it has one.
// The source stays open until the reader is exhausted or closed.
func Open(config *params.SourceConfig) (*ChunkReader, error) {
	if config == nil {
		config = params.DefaultSourceConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	src, err := catz.OpenSource(config.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceNotFound, err)
	}
	r := &ChunkReader{
		config: config,
		src:    src,
		logger: slog.With("source", config.Path),
	}

	switch config.Format {
	case params.SourceFormatNDJSON:
		r.lines = bufio.NewScanner(src)
		r.lines.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	default:
		r.csv = csv.NewReader(src)
		r.csv.Comma = config.Delimiter
		r.csv.FieldsPerRecord = -1
		r.csv.ReuseRecord = true
		header, err := r.csv.Read()
		if errors.Is(err, io.EOF) {
			// An empty source reads as zero batches.
			r.logger.Warn("Source is empty")
			r.done = true
			_ = src.Close()
			return r, nil
		}
		if err != nil {
			_ = src.Close()
			return nil, fmt.Errorf("read header: %w", err)
		}
		r.idx, err = tracepoint.NewColumnIndex(header, config.Columns)
		if err != nil {
			_ = src.Close()
			return nil, err
		}
	}

	r.met = newTickScanMeter(config.Path, MeterInterval)
	return r, nil
}

// readPoint reads the next row. It returns io.EOF at the end of the source.
func (r *ChunkReader) readPoint() (tracepoint.TracePoint, int, error) {
	if r.lines != nil {
		for r.lines.Scan() {
			line := bytes.TrimSpace(r.lines.Bytes())
			if len(line) == 0 {
				continue
			}
			r.row++
			tp, err := tracepoint.FromJSONLine(line, r.config.Columns, r.row)
			return tp, len(line), err
		}
		if err := r.lines.Err(); err != nil {
			return tracepoint.TracePoint{}, 0, err
		}
		return tracepoint.TracePoint{}, 0, io.EOF
	}

	rec, err := r.csv.Read()
	if errors.Is(err, io.EOF) {
		return tracepoint.TracePoint{}, 0, io.EOF
	}
	r.row++
	if err != nil {
		var pe *csv.ParseError
		if errors.As(err, &pe) {
			return tracepoint.TracePoint{}, 0, &tracepoint.RecordError{Row: r.row, Err: pe.Err}
		}
		return tracepoint.TracePoint{}, 0, err
	}
	size := len(rec)
	for _, f := range rec {
		size += len(f)
	}
	tp, err := tracepoint.FromCSVRecord(rec, r.idx, r.row)
	return tp, size, err
}

// Next returns the next enriched batch.
// It returns io.EOF once the source is exhausted; the source is released at that point.
// Rows that fail to parse abort the read with an error wrapping ErrMalformedRecord,
// unless the malformed policy is skip.
// Skipped rows still count toward the chunk size, so batch boundaries
// do not depend on the policy.
func (r *ChunkReader) Next() (*tracepoint.Batch, error) {
	if r.closed && !r.done {
		return nil, ErrClosed
	}
	for !r.done {
		b := &tracepoint.Batch{
			Index:  r.batches,
			Points: make([]tracepoint.TracePoint, 0, min(r.config.ChunkSize, 4096)),
		}
		for n := 0; n < r.config.ChunkSize; n++ {
			tp, size, err := r.readPoint()
			if errors.Is(err, io.EOF) {
				r.finish()
				break
			}
			if err != nil {
				if errors.Is(err, ErrMalformedRecord) && r.config.Malformed == params.MalformedSkip {
					r.met.markSkipped()
					r.logger.Debug("Skipping malformed record", "error", err)
					continue
				}
				_ = r.Close()
				return nil, err
			}
			r.met.mark(b.Index, size)
			b.Points = append(b.Points, tp)
		}
		if len(b.Points) == 0 {
			// Nothing usable in this window; the loop ends at EOF.
			continue
		}
		features.Derive(b, r.config.SpeedFactor)
		r.batches++
		return b, nil
	}
	return nil, io.EOF
}

// finish marks the source exhausted and releases it.
func (r *ChunkReader) finish() {
	r.done = true
	_ = r.Close()
}

// All iterates the remaining batches.
// The source is closed when the iteration ends, including on early break.
// A read error is yielded once, as the last element.
func (r *ChunkReader) All() iter.Seq2[*tracepoint.Batch, error] {
	return func(yield func(*tracepoint.Batch, error) bool) {
		defer r.Close()
		for {
			b, err := r.Next()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(b, nil) {
				return
			}
		}
	}
}

func (r *ChunkReader) Stats() Stats {
	st := Stats{Batches: r.batches}
	if r.met != nil {
		st.Rows = r.met.rowCount()
		st.Skipped = r.met.skippedCount()
	}
	return st
}

// Close releases the source. Closing twice is a no-op.
func (r *ChunkReader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	r.met.stop()
	st := r.Stats()
	r.logger.Info("Scan closed", "exhausted", r.done,
		"rows", humanize.Comma(st.Rows),
		"batches", st.Batches,
		"skipped", humanize.Comma(st.Skipped))
	if st.Skipped > 0 {
		r.logger.Warn("Skipped malformed records", "n", humanize.Comma(st.Skipped))
	}
	return r.src.Close()
}

// Chunks opens config's source and iterates its batches.
// An open error is yielded as the only element.
func Chunks(config *params.SourceConfig) iter.Seq2[*tracepoint.Batch, error] {
	return func(yield func(*tracepoint.Batch, error) bool) {
		r, err := Open(config)
		if err != nil {
			yield(nil, err)
			return
		}
		for b, err := range r.All() {
			if !yield(b, err) {
				return
			}
		}
	}
}
