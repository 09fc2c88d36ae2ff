package stream

import (
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/ethereum/go-ethereum/metrics"
	"github.com/rotblauer/drivesafe/common"
)

// tickScanMeter meters rows and bytes read from a source,
// logging throughput every interval until stopped.
type tickScanMeter struct {
	source     string
	batch      atomic.Int64 // index of the batch being filled
	interval   time.Duration
	started    time.Time
	ticker     *time.Ticker
	done       chan struct{}
	reg        metrics.Registry
	rows       metrics.Counter
	skipped    metrics.Counter
	rowMeter   metrics.Meter
	bytesMeter metrics.Meter
}

func init() {
	// Enable metrics package.
	// Won't work without this global setting.
	metrics.Enabled = true
}

func newTickScanMeter(source string, interval time.Duration) *tickScanMeter {
	reg := metrics.NewRegistry()
	m := &tickScanMeter{
		source:     source,
		reg:        reg,
		interval:   interval,
		started:    time.Now(),
		done:       make(chan struct{}),
		rows:       metrics.NewCounter(),
		skipped:    metrics.NewCounter(),
		rowMeter:   metrics.NewMeter(),
		bytesMeter: metrics.NewMeter(),
	}
	for name, metric := range map[string]interface{}{
		"rows.count":    m.rows,
		"skipped.count": m.skipped,
		"rows.meter":    m.rowMeter,
		"bytes.meter":   m.bytesMeter,
	} {
		if err := reg.Register(name, metric); err != nil {
			panic(err)
		}
	}
	m.ticker = time.NewTicker(interval)
	go m.run()
	return m
}

func (m *tickScanMeter) mark(batch int, size int) {
	m.batch.Store(int64(batch))
	m.rows.Inc(1)
	m.rowMeter.Mark(1)
	m.bytesMeter.Mark(int64(size))
}

func (m *tickScanMeter) markSkipped() {
	m.skipped.Inc(1)
}

func (m *tickScanMeter) run() {
	for {
		select {
		case <-m.done:
			return
		case <-m.ticker.C:
			m.log()
		}
	}
}

func (m *tickScanMeter) log() {
	rowSnap := m.rowMeter.Snapshot()
	bytesSnap := m.bytesMeter.Snapshot()

	slog.Info("Read rows", "source", m.source,
		"n", humanize.Comma(rowSnap.Count()),
		"batch", m.batch.Load(),
		"rps", common.DecimalToFixed(rowSnap.Rate1(), 0),
		"bps", humanize.Bytes(uint64(bytesSnap.Rate1())),
		"total.bytes", humanize.Bytes(uint64(bytesSnap.Count())),
		"running", time.Since(m.started).Round(time.Second))
}

func (m *tickScanMeter) rowCount() int64 {
	return m.rows.Snapshot().Count()
}

func (m *tickScanMeter) skippedCount() int64 {
	return m.skipped.Snapshot().Count()
}

func (m *tickScanMeter) stop() {
	if m == nil || m.ticker == nil {
		return
	}
	m.ticker.Stop()
	select {
	case <-m.done:
	default:
		close(m.done)
	}
	m.rowMeter.Stop()
	m.bytesMeter.Stop()
}
