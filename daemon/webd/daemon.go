package webd

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/event"
	"github.com/gorilla/mux"
	"github.com/rotblauer/drivesafe/api"
	"github.com/rotblauer/drivesafe/params"
)

// ShutdownTimeout bounds how long in-flight requests may run after an interrupt.
var ShutdownTimeout = 30 * time.Second

type WebDaemon struct {
	Config *params.WebDaemonConfig

	analyzer *api.Analyzer
	logger   *slog.Logger
	started  time.Time

	server   *http.Server
	scans    chan api.ScanReport
	scansSub event.Subscription

	lastScanMu sync.Mutex
	lastScan   *api.ScanReport
	scanCount  atomic.Int64

	done        chan struct{}
	interrupt   chan struct{}
	interrupted atomic.Bool
}

func NewWebDaemon(config *params.WebDaemonConfig) (*WebDaemon, error) {
	logger := slog.With("daemon", "web")
	if config == nil {
		logger.Warn("No config provided, using default")
		config = params.DefaultWebDaemonConfig()
	}
	if config.Source == nil {
		config.Source = params.DefaultSourceConfig()
	}
	if config.Safety == nil {
		config.Safety = params.DefaultSafetyConfig()
	}
	if config.Routes == nil {
		config.Routes = params.DefaultRouteConfig()
	}
	if config.Details == nil {
		config.Details = params.DefaultTripDetailsConfig()
	}
	if err := config.Safety.Validate(); err != nil {
		return nil, err
	}
	d := &WebDaemon{
		Config:    config,
		analyzer:  api.NewAnalyzer(config.Source, config.Safety, config.Routes),
		logger:    logger,
		started:   time.Now(),
		scans:     make(chan api.ScanReport, 16),
		done:      make(chan struct{}, 1),
		interrupt: make(chan struct{}, 1),
	}
	d.scansSub = d.analyzer.SubscribeScans(d.scans)
	go d.recordScans()
	return d, nil
}

// recordScans keeps the last scan report for /status.
func (s *WebDaemon) recordScans() {
	for {
		select {
		case report := <-s.scans:
			s.scanCount.Add(1)
			s.lastScanMu.Lock()
			s.lastScan = &report
			s.lastScanMu.Unlock()
		case <-s.scansSub.Err():
			return
		}
	}
}

func (s *WebDaemon) lastScanReport() (*api.ScanReport, int64) {
	s.lastScanMu.Lock()
	defer s.lastScanMu.Unlock()
	return s.lastScan, s.scanCount.Load()
}

// Start starts the HTTP server and does not wait for it.
// It can be stopped gracefully with a call to Interrupt then Wait.
func (s *WebDaemon) Start() error {
	listen, err := net.Listen(s.Config.ListenerConfig.Network, s.Config.ListenerConfig.Address)
	if err != nil {
		return err
	}
	s.server = &http.Server{Handler: s.NewRouter()}

	go func() {
		err := s.server.Serve(listen)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("WebDaemon HTTP serve error", "error", err)
			if !s.interrupted.Load() {
				s.Interrupt()
			}
		}
		s.logger.Info("WebDaemon HTTP server stopped")
	}()
	go s.run()

	s.logger.Info("WebDaemon HTTP server started",
		slog.Group("listen", "network", s.Config.ListenerConfig.Network, "address", listen.Addr().String()),
		"source", s.Config.Source.Path)
	return nil
}

func (s *WebDaemon) run() {
	defer s.markDone()

	// Block until interrupted
	<-s.interrupt
	s.interrupted.Store(true)
	s.logger.Info("WebDaemon interrupted", "awaiting", "requests")

	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := s.server.Shutdown(ctx); err != nil {
		s.logger.Error("WebDaemon shutdown", "error", err)
	}
	s.scansSub.Unsubscribe()
	s.logger.Info("WebDaemon exiting")
}

// Interrupt asks a started daemon to stop. Extra calls are dropped.
func (s *WebDaemon) Interrupt() {
	select {
	case s.interrupt <- struct{}{}:
	default:
	}
}

// Wait blocks until a started daemon has stopped.
func (s *WebDaemon) Wait() {
	<-s.done
}

func (s *WebDaemon) markDone() {
	s.done <- struct{}{}
	close(s.done)
}

func (s *WebDaemon) NewRouter() *mux.Router {
	/*
		StrictSlash defines the trailing slash behavior for new routes. The initial value is false.
		When false, if the route path is "/path", accessing "/path/" will not match this route and vice versa.
	*/
	router := mux.NewRouter().StrictSlash(false)
	router.Use(loggingMiddleware)

	apiRoutes := router.NewRoute().Subrouter()

	// All API routes use permissive CORS settings.
	apiRoutes.Use(permissiveCorsMiddleware)

	// /ping is a simple server healthcheck endpoint
	apiRoutes.Path("/ping").HandlerFunc(pingPong).Methods(http.MethodGet)

	apiJSONRoutes := apiRoutes.NewRoute().Subrouter()
	jsonMiddleware := contentTypeMiddlewareFunc("application/json")
	apiJSONRoutes.Use(jsonMiddleware)

	apiJSONRoutes.Path("/status").HandlerFunc(s.statusReport).Methods(http.MethodGet)
	apiJSONRoutes.Path("/api/safety-metrics").HandlerFunc(s.handleSafetyMetrics).Methods(http.MethodGet)
	apiJSONRoutes.Path("/api/trip-details").HandlerFunc(s.handleTripDetails).Methods(http.MethodGet)
	apiJSONRoutes.Path("/api/popular-routes").HandlerFunc(s.handlePopularRoutes).Methods(http.MethodGet)

	return router
}
