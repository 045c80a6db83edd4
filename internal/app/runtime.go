package app

import (
	"context"
	"log/slog"
	"time"

	"keycratecli/internal/config"
	"keycratecli/internal/infrastructure"
	"keycratecli/internal/license"
	"keycratecli/internal/security"
)

// Runtime is the process-wide setup shared by the programs: loaded config,
// the global logger and OpenTelemetry providers
type Runtime struct {
	Config *config.Config
	Logger *slog.Logger
	OTel   *infrastructure.OTelProviders
}

// Setup loads configuration and starts logging and telemetry for
// serviceName. Metrics are only exported when withMetrics is set and
// enabled in config. A config that fails to load falls back to defaults.
func Setup(serviceName string, withMetrics bool) (*Runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		slog.Warn("Failed to load config, using defaults", slog.String("error", err.Error()))
		cfg = config.Default()
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", slog.String("error", err.Error()))
		logger = slog.Default()
	}

	otelCfg := infrastructure.NewOTelConfig(serviceName, cfg.Telemetry)
	otelCfg.EnableMetrics = withMetrics && cfg.Telemetry.Metrics
	otelCfg.TraceWriter = infrastructure.LogWriter()

	providers, err := infrastructure.InitializeOTel(otelCfg, logger)
	if err != nil {
		return nil, err
	}

	logger.Info("Starting",
		slog.String("service", serviceName),
		slog.String("version", config.AppVersion()),
		slog.String("api_base_url", cfg.API.BaseURL),
		slog.String("app_id", cfg.API.AppID),
	)

	return &Runtime{Config: cfg, Logger: logger, OTel: providers}, nil
}

// NewClient returns a licensing client for the configured API
func (rt *Runtime) NewClient() *license.Client {
	return license.NewClient(rt.Config.API.BaseURL, rt.Config.API.AppID,
		license.WithTimeout(rt.Config.API.Timeout),
		license.WithLogger(rt.Logger),
	)
}

// NewHWIDGenerator returns a generator for the running platform
func (rt *Runtime) NewHWIDGenerator() *security.HWIDGenerator {
	return security.NewHWIDGenerator(
		security.WithQueryTimeout(rt.Config.HWID.QueryTimeout),
		security.WithLogger(rt.Logger),
	)
}

// Close flushes telemetry and closes the log file
func (rt *Runtime) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rt.OTel.Shutdown(ctx); err != nil {
		rt.Logger.Warn("Telemetry shutdown failed", slog.String("error", err.Error()))
	}
	rt.Logger.Info("Stopped")
	_ = infrastructure.CloseLogFile()
}
