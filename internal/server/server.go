package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/netip"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"linkie-web/internal/app"
)

const (
	DefaultListenAddr = ":6969"
	DefaultRateLimit  = 75
)

const (
	shutdownTimeout      = 10 * time.Second
	limiterSweepInterval = time.Minute
)

type Options struct {
	// RateLimit is the number of requests a client may make per minute.
	// Zero or less disables limiting.
	RateLimit int
	// TrustedProxies are the peers allowed to name the client through
	// X-Forwarded-For. Everyone else is keyed by the connection address.
	TrustedProxies []netip.Prefix
	Registry       *prometheus.Registry
}

// Server exposes the service over HTTP.
type Server struct {
	service  *app.Service
	metrics  *Metrics
	limiter  *clientLimiter
	registry *prometheus.Registry
}

func New(service *app.Service, opts Options) *Server {
	registry := opts.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	s := &Server{
		service:  service,
		metrics:  NewMetrics(registry),
		registry: registry,
	}
	if opts.RateLimit > 0 {
		s.limiter = newClientLimiter(opts.RateLimit, time.Minute, opts.TrustedProxies)
	}
	return s
}

// Handler returns the routed handler with the middleware chain applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	api := http.NewServeMux()
	api.HandleFunc("GET /api/versions", s.handleVersions)
	api.HandleFunc("GET /api/versions/{loader}", s.handleLoaderVersions)
	api.HandleFunc("GET /api/oss", s.handleOSS)
	api.HandleFunc("GET /api/namespaces", s.handleNamespaces)
	api.HandleFunc("GET /api/search", s.handleSearch)
	api.HandleFunc("GET /api/source", s.handleSource)

	var limited http.Handler = api
	if s.limiter != nil {
		limited = s.limiter.middleware(api)
	}
	mux.Handle("/api/", limited)
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	return requestID(s.accessLog(cors(trimTrailingSlash(mux))))
}

// ListenAndServe serves until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	if addr == "" {
		addr = DefaultListenAddr
	}
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}
	if s.limiter != nil {
		go s.limiter.run(ctx, limiterSweepInterval)
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("http server listening")
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return err
		}
		log.Info().Msg("http server stopped")
		return nil
	}
}
