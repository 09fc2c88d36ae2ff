package webd

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/rotblauer/drivesafe/api"
	"github.com/rotblauer/drivesafe/params"
	"github.com/rotblauer/drivesafe/trips"
)

func pingPong(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("pong"))
}

type webDaemonStatus struct {
	StartedAt time.Time               `json:"started_at"`
	Uptime    string                  `json:"uptime"`
	Config    *params.WebDaemonConfig `json:"config"`
	Scans     int64                   `json:"scans"`
	LastScan  *api.ScanReport         `json:"last_scan,omitempty"`
}

func (s *WebDaemon) statusReport(w http.ResponseWriter, r *http.Request) {
	last, n := s.lastScanReport()
	st := webDaemonStatus{
		StartedAt: s.started,
		Uptime:    time.Since(s.started).Round(time.Second).String(),
		Config:    s.Config,
		Scans:     n,
		LastScan:  last,
	}
	j, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		s.logger.Error("Failed to marshal status", "error", err)
		http.Error(w, "Failed to marshal status", http.StatusInternalServerError)
		return
	}
	_, err = w.Write(j)
	if err != nil {
		s.logger.Error("Failed to write response", "error", err)
	}
}

// scanError reports a failed scan. Nothing partial is written.
func (s *WebDaemon) scanError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		s.logger.Warn("Request cancelled", "url", r.URL, "error", err)
		http.Error(w, "Request cancelled", http.StatusServiceUnavailable)
		return
	}
	s.logger.Error("Failed to scan source", "url", r.URL, "error", err)
	http.Error(w, "Failed to scan source", http.StatusInternalServerError)
}

func (s *WebDaemon) writeJSON(w http.ResponseWriter, v any) {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("Failed to write response", "error", err)
	}
}

// handleSafetyMetrics aggregates safety metrics over the whole source.
func (s *WebDaemon) handleSafetyMetrics(w http.ResponseWriter, r *http.Request) {
	m, err := s.analyzer.SafetyMetrics(r.Context(), api.FullScan)
	if err != nil {
		s.scanError(w, r, err)
		return
	}
	s.writeJSON(w, m)
}

// queryInt reads a positive integer query parameter, or def when it is absent.
func queryInt(r *http.Request, key string, def int) (int, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.Join(trips.ErrInvalidPage, err)
	}
	return n, nil
}

// handleTripDetails pages through the trips of the first batch of the source.
func (s *WebDaemon) handleTripDetails(w http.ResponseWriter, r *http.Request) {
	page, err := queryInt(r, "page", 1)
	if err != nil {
		http.Error(w, "Invalid page: "+err.Error(), http.StatusBadRequest)
		return
	}
	perPage, err := queryInt(r, "per_page", s.Config.Details.DefaultPerPage)
	if err != nil {
		http.Error(w, "Invalid per_page: "+err.Error(), http.StatusBadRequest)
		return
	}
	p, err := s.analyzer.TripPage(r.Context(), api.FirstBatchOnly, page, perPage)
	if errors.Is(err, trips.ErrInvalidPage) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		s.scanError(w, r, err)
		return
	}
	s.writeJSON(w, p)
}

// handlePopularRoutes clusters the routes of the first batch of the source.
func (s *WebDaemon) handlePopularRoutes(w http.ResponseWriter, r *http.Request) {
	rep, err := s.analyzer.PopularRoutes(r.Context(), api.FirstBatchOnly)
	if err != nil {
		s.scanError(w, r, err)
		return
	}
	s.writeJSON(w, rep)
}
