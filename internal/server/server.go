// Package server hosts the ContactBook HTTP API: module routes, health,
// metrics and the transport middleware around them.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/HerbHall/contactbook/internal/config"
	"github.com/HerbHall/contactbook/internal/plugin"
	"github.com/HerbHall/contactbook/internal/problem"
	"github.com/HerbHall/contactbook/internal/version"
)

// Options are the listener and transport settings of a Server.
type Options struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	RateLimit    float64 // Requests per second across all clients; 0 disables.
	RateBurst    int
}

// OptionsFromConfig reads the server.* keys.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.GetString("server.host"), cfg.GetInt("server.port")),
		ReadTimeout:  cfg.GetDuration("server.read_timeout"),
		WriteTimeout: cfg.GetDuration("server.write_timeout"),
		IdleTimeout:  cfg.GetDuration("server.idle_timeout"),
		RateLimit:    cfg.GetFloat64("server.rate_limit"),
		RateBurst:    cfg.GetInt("server.rate_burst"),
	}
}

// Server is the main ContactBook server.
type Server struct {
	httpServer *http.Server
	registry   *plugin.Registry
	logger     *zap.Logger
	mux        *http.ServeMux
	metrics    *prometheus.Registry
	http       *httpMetrics
}

// New creates a new Server instance. Module collectors must already be
// registered on metrics; the server adds its own.
func New(opts Options, reg *plugin.Registry, logger *zap.Logger, metrics *prometheus.Registry) *Server {
	mux := http.NewServeMux()

	s := &Server{
		registry: reg,
		logger:   logger,
		mux:      mux,
		metrics:  metrics,
		http:     newHTTPMetrics(metrics),
	}

	s.registerCoreRoutes()
	s.mountModuleRoutes()

	handler := chain(mux,
		requestID,
		accessLog(logger),
		recoverer(logger),
		rateLimit(opts.RateLimit, opts.RateBurst),
		instrument(s.http),
	)

	s.httpServer = &http.Server{
		Addr:         opts.Addr,
		Handler:      handler,
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
		IdleTimeout:  opts.IdleTimeout,
	}
	return s
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// registerCoreRoutes sets up routes that are always available.
func (s *Server) registerCoreRoutes() {
	s.mux.HandleFunc("GET /api/health", s.handleHealth)
	s.mux.HandleFunc("GET /api/modules", s.handleModules)
	s.mux.Handle("GET /metrics", promhttp.HandlerFor(s.metrics, promhttp.HandlerOpts{Registry: s.metrics}))
	s.mux.HandleFunc("/", s.handleFallback)
}

// mountModuleRoutes registers the route groups of every enabled module.
func (s *Server) mountModuleRoutes() {
	allGroups := s.registry.AllGroups()

	names := make([]string, 0, len(allGroups))
	for name := range allGroups {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		for _, g := range allGroups[name] {
			g.Mount(s.mux, s.handleFault)
			for _, route := range g.Routes {
				s.logger.Debug("mounted route",
					zap.String("module", name),
					zap.String("pattern", g.Pattern(route)),
				)
			}
		}
	}
}

// Start begins serving HTTP requests.
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("HTTP server error: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

// handleFault logs an error that escaped a module's filter chain and answers
// with a generic 500.
func (s *Server) handleFault(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error("unhandled error",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.String("request_id", RequestIDFrom(r.Context())),
		zap.Error(err),
	)
	problem.Write(w, problem.InternalError(r.URL.Path))
}

// handleFallback answers any unmatched path.
func (s *Server) handleFallback(w http.ResponseWriter, r *http.Request) {
	problem.Write(w, problem.NotFound(r.URL.Path, r.URL.Path))
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]any{
		"status":  "ok",
		"service": "contactbook",
		"version": version.Map(),
	})
}

// handleModules returns the registered modules and whether each is enabled.
func (s *Server) handleModules(w http.ResponseWriter, _ *http.Request) {
	type moduleResponse struct {
		Name    string `json:"name"`
		Version string `json:"version"`
		Enabled bool   `json:"enabled"`
	}

	enabled := make(map[string]bool)
	for _, p := range s.registry.Enabled() {
		enabled[p.Name()] = true
	}

	all := s.registry.All()
	info := make([]moduleResponse, 0, len(all))
	for _, p := range all {
		info = append(info, moduleResponse{Name: p.Name(), Version: p.Version(), Enabled: enabled[p.Name()]})
	}
	writeJSON(w, info)
}

func writeJSON(w http.ResponseWriter, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-ContactBook-Version", version.Short())
	_ = json.NewEncoder(w).Encode(body)
}
