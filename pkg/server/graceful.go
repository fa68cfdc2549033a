// Package server exposes a running simulation over HTTP: Prometheus metrics,
// health probes and the most recent policy comparison.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dd0wney/cluso-vaxsim/pkg/experiment"
	"github.com/dd0wney/cluso-vaxsim/pkg/health"
	"github.com/dd0wney/cluso-vaxsim/pkg/logging"
	"github.com/dd0wney/cluso-vaxsim/pkg/metrics"
)

// DefaultShutdownTimeout bounds how long Run waits for in-flight requests
const DefaultShutdownTimeout = 10 * time.Second

// GracefulServer wraps an HTTP server with graceful shutdown capabilities
type GracefulServer struct {
	server       *http.Server
	logger       logging.Logger
	shutdownCh   chan struct{}
	shutdownOnce sync.Once
	latest       atomic.Pointer[experiment.Comparison]
	addr         atomic.Value // string, set once listening
}

// New creates a server on addr. checker may be nil.
func New(addr string, reg *metrics.Registry, checker *health.Checker, logger logging.Logger) *GracefulServer {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	gs := &GracefulServer{
		logger:     logger.With(logging.Component("http")),
		shutdownCh: make(chan struct{}),
	}
	gs.server = &http.Server{
		Addr:              addr,
		Handler:           gs.routes(reg, checker),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}
	return gs
}

func (gs *GracefulServer) routes(reg *metrics.Registry, checker *health.Checker) http.Handler {
	mux := http.NewServeMux()
	if reg != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(reg.GetPrometheusRegistry(), promhttp.HandlerOpts{}))
	}
	if checker != nil {
		mux.Handle("GET /healthz", checker.LivenessHandler())
		mux.Handle("GET /readyz", checker.ReadinessHandler())
	}
	mux.HandleFunc("GET /comparison", gs.handleComparison)
	return Chain(mux, RequestID(), Logging(gs.logger), Recovery(gs.logger))
}

// Handler returns the routes, for embedding or tests
func (gs *GracefulServer) Handler() http.Handler {
	return gs.server.Handler
}

// Publish makes cmp the comparison served at /comparison
func (gs *GracefulServer) Publish(cmp *experiment.Comparison) {
	gs.latest.Store(cmp)
}

func (gs *GracefulServer) handleComparison(w http.ResponseWriter, r *http.Request) {
	cmp := gs.latest.Load()
	if cmp == nil {
		http.Error(w, "no comparison has completed yet", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(cmp); err != nil {
		gs.logger.Warn("encode comparison", logging.Error(err))
	}
}

// Addr returns the bound address once the server is listening
func (gs *GracefulServer) Addr() string {
	if a, ok := gs.addr.Load().(string); ok {
		return a
	}
	return gs.server.Addr
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (gs *GracefulServer) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", gs.server.Addr)
	if err != nil {
		return err
	}
	gs.addr.Store(ln.Addr().String())

	errCh := make(chan error, 1)
	go func() {
		gs.logger.Info("Starting HTTP server", logging.String("addr", ln.Addr().String()))
		if err := gs.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return gs.Shutdown(DefaultShutdownTimeout)
	}
}

// Shutdown initiates a graceful shutdown
func (gs *GracefulServer) Shutdown(timeout time.Duration) error {
	var err error
	gs.shutdownOnce.Do(func() {
		close(gs.shutdownCh)

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		timer := logging.StartTimer(gs.logger, "HTTP server shutdown", logging.Duration("timeout", timeout))
		if err = gs.server.Shutdown(ctx); err != nil {
			timer.EndError(err)
		} else {
			timer.End()
		}
	})
	return err
}

// IsShuttingDown returns true if shutdown has been initiated
func (gs *GracefulServer) IsShuttingDown() bool {
	select {
	case <-gs.shutdownCh:
		return true
	default:
		return false
	}
}

// ShutdownChannel returns a channel that closes when shutdown is initiated
func (gs *GracefulServer) ShutdownChannel() <-chan struct{} {
	return gs.shutdownCh
}
