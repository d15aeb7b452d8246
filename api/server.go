// Package api provides the HTTP server for the QuantSignal dashboard.
//
// It serves the rendered dashboard, the form-driven regenerate action,
// live regeneration over WebSocket, embedded static assets, health and
// Prometheus metrics.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/seenimoa/quantsignal/internal/config"
	"github.com/seenimoa/quantsignal/internal/infra"
	"github.com/seenimoa/quantsignal/internal/metrics"
	"github.com/seenimoa/quantsignal/internal/report"
	"github.com/seenimoa/quantsignal/internal/signals"
	"github.com/seenimoa/quantsignal/web"
)

const (
	shutdownTimeout = 15 * time.Second
	requestTimeout  = 30 * time.Second
)

// Server is the dashboard HTTP server.
type Server struct {
	router   chi.Router
	cfg      *config.Config
	engine   *signals.Engine
	metrics  *metrics.Metrics // nil when metrics are disabled
	wsHub    *WSHub
	chartCfg report.ChartConfig
	logger   zerolog.Logger
	version  string
}

// Option configures a Server.
type Option func(*Server)

// WithEngine replaces the engine built from config.
func WithEngine(e *signals.Engine) Option {
	return func(s *Server) { s.engine = e }
}

// WithMetrics replaces the metrics built from config.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// WithLogger sets the access and error logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithVersion sets the version reported by /health.
func WithVersion(v string) Option {
	return func(s *Server) { s.version = v }
}

// NewServer creates a configured server with all routes and middleware.
func NewServer(cfg *config.Config, opts ...Option) (*Server, error) {
	srv := &Server{
		cfg:      cfg,
		wsHub:    NewWSHub(),
		chartCfg: report.DefaultChartConfig(),
		logger:   log.Logger,
		version:  "dev",
	}
	for _, opt := range opts {
		opt(srv)
	}

	if srv.engine == nil {
		engine, err := signals.NewEngine(cfg.Signals.Universe,
			signals.WithMean(cfg.Signals.Mean),
			signals.WithSensitivity(cfg.Signals.Sensitivity),
			signals.WithSeed(cfg.Signals.Seed),
		)
		if err != nil {
			return nil, fmt.Errorf("signal engine setup failed: %w", err)
		}
		srv.engine = engine
	}
	if srv.metrics == nil && cfg.Metrics.Enabled {
		srv.metrics = metrics.New()
	}

	srv.router = srv.buildRouter()
	return srv, nil
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}

// Hub returns the WebSocket hub.
func (s *Server) Hub() *WSHub {
	return s.wsHub
}

// ListenAndServe listens on addr and serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve runs the HTTP server and the WebSocket hub on ln. When ctx is
// cancelled, connected clients get a shutdown notice and the server drains
// for up to 15 seconds.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	httpSrv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.wsHub.Run(hubCtx)
		return nil
	})

	g.Go(func() error {
		s.logger.Info().Str("addr", ln.Addr().String()).Msg("dashboard listening")
		if err := httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info().Msg("shutting down server")
		s.wsHub.Broadcast(WSMessage{Type: MsgShutdown})

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := httpSrv.Shutdown(shutdownCtx)
		stopHub()
		return err
	})

	return g.Wait()
}

// buildRouter configures all routes and middleware.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(infra.AccessLog(s.logger))
	r.Use(middleware.Recoverer)

	// CORS
	origins := []string{"*"}
	if len(s.cfg.API.CORSOrigins) > 0 {
		origins = s.cfg.API.CORSOrigins
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	// WebSocket connections outlive the request timeout.
	r.Get("/ws", s.handleWebSocket)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(requestTimeout))

		// Dashboard
		r.Get("/", s.handleDashboard)
		r.Post("/regenerate", s.handleRegenerate)

		// Health / config
		r.Get("/health", s.handleHealth)
		r.Get("/config", s.handleGetConfig)

		// Static assets
		r.Handle("/static/*", http.StripPrefix("/static/", staticHandler(web.StaticFS())))

		if s.metrics != nil {
			r.Handle("/metrics", s.metrics.Handler())
		}
	})

	return r
}

// ============================================================
// Request / Response types
// ============================================================

// APIResponse is the standard JSON envelope.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// HealthResponse is the payload of GET /health.
type HealthResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	WSClients int    `json:"ws_clients"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: HealthResponse{
			Status:    "ok",
			Version:   s.version,
			WSClients: s.wsHub.ClientCount(),
		},
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to write JSON response")
	}
}
