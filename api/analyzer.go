package api

import (
	"context"
	"iter"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/ethereum/go-ethereum/event"
	"github.com/rotblauer/drivesafe/params"
	"github.com/rotblauer/drivesafe/routes"
	"github.com/rotblauer/drivesafe/safety"
	"github.com/rotblauer/drivesafe/stream"
	"github.com/rotblauer/drivesafe/trips"
	"github.com/rotblauer/drivesafe/types/tracepoint"
)

// Analyzer computes the safety, trip and route views of a trace source.
// Every call reads the source anew; nothing is cached between calls.
// Concurrent calls are safe, each opens its own reader.
type Analyzer struct {
	Source *params.SourceConfig
	Safety *params.SafetyConfig
	Routes *params.RouteConfig

	logger      *slog.Logger
	feedScanned event.FeedOf[ScanReport]
}

// ScanReport describes one finished (or failed) view computation.
type ScanReport struct {
	View    string        `json:"view"`
	Scope   Scope         `json:"scope"`
	Stats   stream.Stats  `json:"stats"`
	Started time.Time     `json:"started"`
	Elapsed time.Duration `json:"elapsed"`
	Error   string        `json:"error,omitempty"`
}

func NewAnalyzer(source *params.SourceConfig, safetyConfig *params.SafetyConfig, routeConfig *params.RouteConfig) *Analyzer {
	if source == nil {
		source = params.DefaultSourceConfig()
	}
	if safetyConfig == nil {
		safetyConfig = params.DefaultSafetyConfig()
	}
	if routeConfig == nil {
		routeConfig = params.DefaultRouteConfig()
	}
	return &Analyzer{
		Source: source,
		Safety: safetyConfig,
		Routes: routeConfig,
		logger: slog.With("source", source.Path),
	}
}

// SubscribeScans delivers a ScanReport for each view computed from here on.
// Reports are sent synchronously; subscribers must keep ch drained.
func (a *Analyzer) SubscribeScans(ch chan<- ScanReport) event.Subscription {
	return a.feedScanned.Subscribe(ch)
}

// scan runs fn over the batches scope selects.
// ctx is checked before every batch; cancellation aborts the scan with ctx's error.
func (a *Analyzer) scan(ctx context.Context, view string, scope Scope, fn func(iter.Seq2[*tracepoint.Batch, error]) error) error {
	report := ScanReport{View: view, Scope: scope, Started: time.Now()}
	defer func() {
		report.Elapsed = time.Since(report.Started)
		a.feedScanned.Send(report)
	}()

	if err := ctx.Err(); err != nil {
		report.Error = err.Error()
		return err
	}
	r, err := stream.Open(a.Source)
	if err != nil {
		report.Error = err.Error()
		a.logger.Error("Failed to open source", "view", view, "error", err)
		return err
	}
	defer r.Close()

	seq := stream.WithContext(ctx, r.All())
	if scope == FirstBatchOnly {
		seq = stream.Limit(seq, 1)
	}
	err = fn(seq)
	report.Stats = r.Stats()
	if err != nil {
		report.Error = err.Error()
		a.logger.Error("Scan failed", "view", view, "scope", scope, "error", err)
		return err
	}
	a.logger.Info("Scan complete", "view", view, "scope", scope,
		"rows", humanize.Comma(report.Stats.Rows),
		"batches", report.Stats.Batches,
		"elapsed", time.Since(report.Started).Round(time.Millisecond))
	return nil
}

// SafetyMetrics folds the safety metrics of every batch in scope.
// A failure anywhere in the scan returns no metrics.
func (a *Analyzer) SafetyMetrics(ctx context.Context, scope Scope) (safety.SafetyMetrics, error) {
	var out safety.SafetyMetrics
	err := a.scan(ctx, "safety", scope, func(seq iter.Seq2[*tracepoint.Batch, error]) error {
		acc, err := stream.Fold(seq, safety.RunningMetrics{}, safety.Fold(a.Safety))
		if err != nil {
			return err
		}
		out = acc.Result(a.Safety)
		return nil
	})
	if err != nil {
		return safety.SafetyMetrics{}, err
	}
	return out, nil
}

// TripDetails summarizes the trips of every batch in scope.
// With FullScan a trip spanning a batch boundary appears once per batch.
func (a *Analyzer) TripDetails(ctx context.Context, scope Scope) ([]trips.TripDetail, error) {
	var out []trips.TripDetail
	err := a.scan(ctx, "trips", scope, func(seq iter.Seq2[*tracepoint.Batch, error]) error {
		var err error
		out, err = stream.Fold(seq, []trips.TripDetail{}, func(acc []trips.TripDetail, b *tracepoint.Batch) []trips.TripDetail {
			return append(acc, trips.Summarize(b, a.Safety)...)
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// TripPage is one page of TripDetails.
// Page arguments are validated before the source is read.
func (a *Analyzer) TripPage(ctx context.Context, scope Scope, page, perPage int) (trips.Page, error) {
	if err := trips.ValidatePage(page, perPage); err != nil {
		return trips.Page{}, err
	}
	list, err := a.TripDetails(ctx, scope)
	if err != nil {
		return trips.Page{}, err
	}
	return trips.Paginate(list, page, perPage)
}

// PopularRoutes clusters the routes of every batch in scope.
// With FullScan the routes of all batches are clustered together.
func (a *Analyzer) PopularRoutes(ctx context.Context, scope Scope) (routes.Report, error) {
	var out routes.Report
	err := a.scan(ctx, "routes", scope, func(seq iter.Seq2[*tracepoint.Batch, error]) error {
		collected, err := stream.Fold(seq, []routes.Route{}, func(acc []routes.Route, b *tracepoint.Batch) []routes.Route {
			return append(acc, routes.Collect(b, a.Routes)...)
		})
		if err != nil {
			return err
		}
		out = routes.NewReport(collected, a.Routes)
		return nil
	})
	if err != nil {
		return routes.Report{}, err
	}
	return out, nil
}
