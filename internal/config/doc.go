// Package config provides configuration loading for the keycrate demo programs
// and the local sandbox licensing server.
//
// # Configuration Sources
//
// Configuration is resolved in the following order of precedence:
//
//	1. Environment variables (highest priority)
//	2. YAML file named by KEYCRATE_CONFIG_FILE
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern KEYCRATE_<SECTION>_<FIELD>:
//
//	KEYCRATE_API_BASE_URL=https://api.keycrate.dev
//	KEYCRATE_API_APP_ID=YOUR_APP_ID
//	KEYCRATE_LOGGING_OUTPUT=file
//	KEYCRATE_SANDBOX_SEED_FILE=sandbox.yaml
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    slog.Warn("Failed to load config, using defaults", "error", err)
//	    cfg = config.Default()
//	}
package config
