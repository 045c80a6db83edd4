package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	API       APIConfig       `yaml:"api" envconfig:"API"`
	HWID      HWIDConfig      `yaml:"hwid" envconfig:"HWID"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
	Sandbox   SandboxConfig   `yaml:"sandbox" envconfig:"SANDBOX"`
}

// APIConfig describes the remote licensing API the demos talk to
type APIConfig struct {
	BaseURL string        `yaml:"base_url" envconfig:"BASE_URL"`
	AppID   string        `yaml:"app_id" envconfig:"APP_ID"`
	Timeout time.Duration `yaml:"timeout" envconfig:"TIMEOUT"`
}

// HWIDConfig contains hardware identifier settings
type HWIDConfig struct {
	QueryTimeout time.Duration `yaml:"query_timeout" envconfig:"QUERY_TIMEOUT"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL"`
	Output   string `yaml:"output" envconfig:"OUTPUT"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// TelemetryConfig toggles OpenTelemetry tracing and metrics
type TelemetryConfig struct {
	Tracing     bool   `yaml:"tracing" envconfig:"TRACING"`
	Metrics     bool   `yaml:"metrics" envconfig:"METRICS"`
	Environment string `yaml:"environment" envconfig:"ENVIRONMENT"`
}

// SandboxConfig contains settings for the local sandbox licensing server
type SandboxConfig struct {
	Addr            string        `yaml:"addr" envconfig:"ADDR"`
	SeedFile        string        `yaml:"seed_file" envconfig:"SEED_FILE"`
	RPS             float64       `yaml:"rps" envconfig:"RPS"`
	Burst           int           `yaml:"burst" envconfig:"BURST"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
}

// Load loads configuration from defaults, the optional config file and
// environment variables, in increasing order of precedence.
func Load() (*Config, error) {
	return LoadFrom(os.Getenv(ConfigFileEnv))
}

// LoadFrom is Load with an explicit config file path. An empty path skips the file.
func LoadFrom(configFile string) (*Config, error) {
	cfg := Default()

	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	// No default tags on the struct: envconfig leaves fields without a
	// matching variable untouched, so file values survive.
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays YAML values onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// validate validates the configuration
func (c *Config) validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid api base url %q: %w", c.API.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("api base url must use http or https, got %q", c.API.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("api base url %q has no host", c.API.BaseURL)
	}

	if strings.TrimSpace(c.API.AppID) == "" {
		return fmt.Errorf("api app id must not be empty")
	}

	if c.API.Timeout <= 0 {
		return fmt.Errorf("api timeout must be positive")
	}

	if c.HWID.QueryTimeout <= 0 {
		return fmt.Errorf("hwid query timeout must be positive")
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid logging level: %s", c.Logging.Level)
	}

	switch strings.ToLower(c.Logging.Output) {
	case "file", "both":
		if c.Logging.FilePath == "" {
			return fmt.Errorf("logging file path required for output %q", c.Logging.Output)
		}
	case "stdout", "none":
	default:
		return fmt.Errorf("invalid logging output: %s", c.Logging.Output)
	}

	if c.Sandbox.RPS <= 0 {
		return fmt.Errorf("sandbox rps must be positive")
	}

	if c.Sandbox.Burst <= 0 {
		return fmt.Errorf("sandbox burst must be positive")
	}

	return nil
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: DefaultAPIBaseURL,
			AppID:   DefaultAppID,
			Timeout: DefaultHTTPTimeout,
		},
		HWID: HWIDConfig{
			QueryTimeout: DefaultHWIDQueryTimeout,
		},
		Logging: LoggingConfig{
			Level:    DefaultLogLevel,
			Output:   DefaultLogOutput,
			FilePath: DefaultLogFile,
		},
		Telemetry: TelemetryConfig{
			Tracing:     false,
			Metrics:     true,
			Environment: "development",
		},
		Sandbox: SandboxConfig{
			Addr:            DefaultSandboxAddr,
			RPS:             DefaultSandboxRPS,
			Burst:           DefaultSandboxBurst,
			ShutdownTimeout: DefaultShutdownTimeout,
		},
	}
}
