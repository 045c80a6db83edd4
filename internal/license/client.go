package license

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"keycratecli/internal/config"
	apperrors "keycratecli/internal/errors"
	"keycratecli/internal/infrastructure"
	"keycratecli/pkg/contracts/domain"
)

// maxResponseBytes caps how much of a reply is read
const maxResponseBytes = 1 << 20

// Endpoint paths relative to the base URL
const (
	authPath     = "/auth"
	registerPath = "/register"
)

// Client talks to the keycrate licensing API
type Client struct {
	baseURL    string
	appID      string
	userAgent  string
	httpClient *http.Client
	validate   *validator.Validate
	tracer     trace.Tracer
	logger     *slog.Logger
}

// ClientOption configures a Client
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithLogger sets the client logger
func WithLogger(l *slog.Logger) ClientOption {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a client for the API at baseURL acting for appID
func NewClient(baseURL, appID string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		appID:      appID,
		userAgent:  config.UserAgent(),
		httpClient: &http.Client{Timeout: config.DefaultHTTPTimeout},
		validate:   validator.New(validator.WithRequiredStructEnabled()),
		tracer:     otel.Tracer(infrastructure.MeterName),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = infrastructure.WithComponent(c.logger, "license_client")
	return c
}

// Authenticate checks a license key or username/password against the API
func (c *Client) Authenticate(ctx context.Context, opts AuthenticateOptions) (*AuthResult, error) {
	req := domain.AuthRequest{
		AppID:    c.appID,
		License:  opts.License,
		Username: opts.Username,
		Password: opts.Password,
		HWID:     opts.HWID,
	}

	method := "license"
	if opts.License == "" {
		method = "credentials"
	}
	c.logger.InfoContext(ctx, "Authenticating",
		slog.String("method", method),
		slog.String("license_key", maskIfSet(opts.License)),
		slog.String("username", opts.Username),
		slog.Bool("hwid_present", opts.HWID != ""),
	)

	env, err := c.post(ctx, "authenticate", authPath, req)
	if err != nil {
		return nil, fmt.Errorf("authenticate: %w", err)
	}

	c.logger.InfoContext(ctx, "Authentication finished",
		slog.Bool("success", env.Success),
		slog.String("message", env.Message),
	)
	return &AuthResult{Success: env.Success, Message: env.Message, Data: env.Data}, nil
}

// Register binds a username and password to a license key. All three fields
// are required; missing ones fail before any network call.
func (c *Client) Register(ctx context.Context, opts RegisterOptions) (*RegisterResult, error) {
	if err := c.validate.Struct(opts); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return nil, fmt.Errorf("register: %w", &apperrors.FieldError{Field: verrs[0].Field(), Rule: verrs[0].Tag()})
		}
		return nil, fmt.Errorf("register: %w: %v", apperrors.ErrInvalidInput, err)
	}

	req := domain.RegisterRequest{
		AppID:    c.appID,
		License:  opts.License,
		Username: opts.Username,
		Password: opts.Password,
	}

	c.logger.InfoContext(ctx, "Registering credentials",
		slog.String("license_key", MaskLicenseKey(opts.License)),
		slog.String("username", opts.Username),
	)

	env, err := c.post(ctx, "register", registerPath, req)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	c.logger.InfoContext(ctx, "Registration finished",
		slog.Bool("success", env.Success),
		slog.String("message", env.Message),
	)
	return &RegisterResult{Success: env.Success, Message: env.Message}, nil
}

// post sends body as JSON and decodes the result envelope. Non-2xx replies
// that still carry an envelope are results, not errors.
func (c *Client) post(ctx context.Context, operation, path string, body any) (*domain.Envelope, error) {
	ctx, span := c.tracer.Start(ctx, "license_client."+operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", http.MethodPost),
			attribute.String("http.route", path),
			attribute.String("app_id", c.appID),
		),
	)
	defer span.End()

	start := time.Now()

	payload, err := json.Marshal(body)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		return nil, fmt.Errorf("encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		infrastructure.RecordError(ctx, err)
		return nil, fmt.Errorf("%w: %w", apperrors.ErrConnection, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.ErrorContext(ctx, "Licensing API request failed",
			slog.String("operation", operation),
			slog.String("error", err.Error()),
			slog.Duration("duration", time.Since(start)),
		)
		infrastructure.RecordError(ctx, err)
		return nil, fmt.Errorf("%w: %w", apperrors.ErrConnection, err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		infrastructure.RecordError(ctx, err)
		return nil, fmt.Errorf("%w: read body: %w", apperrors.ErrConnection, err)
	}

	var env domain.Envelope
	if err := json.Unmarshal(raw, &env); err != nil || (env.Message == "" && resp.StatusCode >= http.StatusBadRequest) {
		apiErr := apperrors.New(resp.StatusCode, "", snippet(raw))
		c.logger.ErrorContext(ctx, "Unexpected licensing API response",
			slog.String("operation", operation),
			slog.Int("status", resp.StatusCode),
			slog.Duration("duration", time.Since(start)),
		)
		infrastructure.RecordError(ctx, apiErr)
		return nil, apiErr
	}

	span.SetAttributes(
		attribute.Bool("license.success", env.Success),
		attribute.String("license.message", env.Message),
	)
	c.logger.DebugContext(ctx, "Licensing API replied",
		slog.String("operation", operation),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)),
	)

	return &env, nil
}

// snippet returns the start of a body for error messages
func snippet(raw []byte) string {
	s := strings.TrimSpace(string(raw))
	if len(s) > 120 {
		return s[:120] + "..."
	}
	return s
}

func maskIfSet(key string) string {
	if key == "" {
		return ""
	}
	return MaskLicenseKey(key)
}
