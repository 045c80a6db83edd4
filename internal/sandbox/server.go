package sandbox

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/errgroup"

	"keycratecli/internal/config"
	"keycratecli/internal/infrastructure"
	"keycratecli/internal/middleware"
	"keycratecli/pkg/contracts"
	"keycratecli/pkg/contracts/domain"
)

// maxBodyBytes caps request bodies
const maxBodyBytes = 64 << 10

// Server serves the sandbox licensing API
type Server struct {
	cfg      config.SandboxConfig
	store    *Store
	router   chi.Router
	validate *validator.Validate
	outcomes metric.Int64Counter
	logger   *slog.Logger
}

// NewServer builds the router around store. Metrics are served on /metrics
// when providers carry a Prometheus handler.
func NewServer(cfg config.SandboxConfig, store *Store, providers *infrastructure.OTelProviders, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = infrastructure.WithComponent(logger, "sandbox")

	outcomes, err := providers.Meter.Int64Counter("license_outcomes_total",
		metric.WithDescription("Licensing calls by operation and result code"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create outcome counter: %w", err)
	}

	otelMW, err := middleware.NewOTelMiddleware(providers)
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:      cfg,
		store:    store,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		outcomes: outcomes,
		logger:   logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.StructuredLogger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(otelMW.Handler)

	r.Get("/healthz", s.handleHealth)
	if providers.PrometheusHTTP != nil {
		r.Method(http.MethodGet, "/metrics", providers.PrometheusHTTP)
	}

	limiter := middleware.NewRateLimiter(cfg.RPS, cfg.Burst, logger)
	r.Group(func(r chi.Router) {
		r.Use(limiter.Handler)
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Post("/auth", s.handleAuth)
		r.Post("/register", s.handleRegister)
	})

	s.router = r
	return s, nil
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run listens on the configured address until ctx is done, then shuts down
// within the configured timeout
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("Sandbox licensing API listening", slog.String("addr", s.cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("sandbox server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()

		s.logger.Info("Shutting down sandbox licensing API")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("sandbox shutdown failed: %w", err)
		}
		return nil
	})

	return g.Wait()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]any{"status": "ok", "build": contracts.GetVersionInfo()})
}

func (s *Server) handleAuth(w http.ResponseWriter, r *http.Request) {
	var req domain.AuthRequest
	if !s.decode(w, r, "authenticate", &req) {
		return
	}

	out := s.store.Authenticate(req)
	s.respond(w, r, "authenticate", out)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
	if !s.decode(w, r, "register", &req) {
		return
	}

	out, err := s.store.Register(req)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Registration failed", slog.String("error", err.Error()))
		s.respond(w, r, "register", failure(http.StatusInternalServerError, domain.CodeInternalError, nil))
		return
	}
	s.respond(w, r, "register", out)
}

// decode binds and validates the JSON body, answering 400 INVALID_REQUEST on
// failure
func (s *Server) decode(w http.ResponseWriter, r *http.Request, operation string, v any) bool {
	err := render.DecodeJSON(http.MaxBytesReader(w, r.Body, maxBodyBytes), v)
	if err == nil {
		err = s.validate.Struct(v)
	}
	if err == nil {
		return true
	}

	s.logger.InfoContext(r.Context(), "Rejected malformed request",
		slog.String("operation", operation),
		slog.String("error", err.Error()),
	)
	s.respond(w, r, operation, failure(http.StatusBadRequest, domain.CodeInvalidRequest, nil))
	return false
}

func (s *Server) respond(w http.ResponseWriter, r *http.Request, operation string, out Outcome) {
	s.outcomes.Add(r.Context(), 1, metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("code", out.Envelope.Message),
	))
	s.logger.InfoContext(r.Context(), "Licensing call answered",
		slog.String("operation", operation),
		slog.String("code", out.Envelope.Message),
		slog.Int("status", out.Status),
	)
	middleware.Respond(w, r, out.Status, out.Envelope)
}
