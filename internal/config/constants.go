package config

import (
	"time"

	"keycratecli/pkg/contracts"
)

// AppVersion returns the build version
func AppVersion() string {
	return contracts.Version
}

// UserAgent is sent with every licensing API request
func UserAgent() string {
	return "keycratecli/" + contracts.Version
}

// Application constants
const (
	AppName = "Keycrate CLI"

	// EnvPrefix namespaces every environment variable read by Load.
	EnvPrefix = "KEYCRATE"
	// ConfigFileEnv names an optional YAML file overlaid between defaults and env.
	ConfigFileEnv = "KEYCRATE_CONFIG_FILE"

	// Remote licensing API
	DefaultAPIBaseURL = "https://api.keycrate.dev"
	DefaultAppID      = "YOUR_APP_ID"

	// HWID
	HWIDLength              = 16
	UnsupportedPlatformHWID = "unsupported-platform"

	// Network Timeouts
	DefaultHTTPTimeout      = 30 * time.Second
	DefaultHWIDQueryTimeout = 10 * time.Second
	DefaultShutdownTimeout  = 15 * time.Second

	// Logging
	DefaultLogLevel  = "info"
	DefaultLogOutput = "file"
	DefaultLogFile   = "logs/keycrate.log"

	// Sandbox
	DefaultSandboxAddr  = ":8787"
	DefaultSandboxRPS   = 20
	DefaultSandboxBurst = 40
)
