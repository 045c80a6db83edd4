package sandbox

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"

	"keycratecli/internal/config"
)

// Seed is the on-disk form of the sandbox license table
type Seed struct {
	Licenses []SeedLicense `yaml:"licenses"`
}

// SeedLicense is one license entry. Timestamps are RFC3339.
type SeedLicense struct {
	Key               string `yaml:"key"`
	AppID             string `yaml:"app_id"`
	Active            *bool  `yaml:"active"`
	ExpiresAt         string `yaml:"expires_at"`
	HWID              string `yaml:"hwid"`
	HWIDResetAllowed  bool   `yaml:"hwid_reset_allowed"`
	HWIDResetCooldown int    `yaml:"hwid_reset_cooldown"`
	LastHWIDResetAt   string `yaml:"last_hwid_reset_at"`
	Username          string `yaml:"username"`
	Password          string `yaml:"password"`
}

// LoadSeed reads and parses a seed file
func LoadSeed(path string) (*Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return ParseSeed(data)
}

// ParseSeed parses seed YAML and checks every entry
func ParseSeed(data []byte) (*Seed, error) {
	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse seed: %w", err)
	}
	if err := seed.validate(); err != nil {
		return nil, err
	}
	return &seed, nil
}

func (s *Seed) validate() error {
	keys := make(map[string]bool, len(s.Licenses))
	users := make(map[string]bool)
	for i, l := range s.Licenses {
		if l.Key == "" {
			return fmt.Errorf("license %d: key is required", i)
		}
		if keys[l.Key] {
			return fmt.Errorf("license %d: duplicate key %q", i, l.Key)
		}
		keys[l.Key] = true

		if l.AppID == "" {
			return fmt.Errorf("license %q: app_id is required", l.Key)
		}
		if (l.Username == "") != (l.Password == "") {
			return fmt.Errorf("license %q: username and password go together", l.Key)
		}
		if l.Username != "" {
			if users[l.Username] {
				return fmt.Errorf("license %q: duplicate username %q", l.Key, l.Username)
			}
			users[l.Username] = true
		}
		if l.HWIDResetCooldown < 0 {
			return fmt.Errorf("license %q: hwid_reset_cooldown must not be negative", l.Key)
		}
		for field, v := range map[string]string{"expires_at": l.ExpiresAt, "last_hwid_reset_at": l.LastHWIDResetAt} {
			if v == "" {
				continue
			}
			if _, err := time.Parse(time.RFC3339, v); err != nil {
				return fmt.Errorf("license %q: %s: %w", l.Key, field, err)
			}
		}
	}
	return nil
}

// DefaultSeed is used when no seed file is configured. It covers the main
// outcomes a demo user can hit.
func DefaultSeed() *Seed {
	active, inactive := true, false
	return &Seed{Licenses: []SeedLicense{
		{
			Key:               "DEMO-AAAA-BBBB-CCCC",
			AppID:             config.DefaultAppID,
			Active:            &active,
			ExpiresAt:         "2099-12-31T23:59:59Z",
			HWIDResetAllowed:  true,
			HWIDResetCooldown: 3600,
			Username:          "demo",
			Password:          "demo",
		},
		{
			Key:    "DEMO-FREE-0000-0000",
			AppID:  config.DefaultAppID,
			Active: &active,
		},
		{
			Key:       "DEMO-EXPI-RED0-0000",
			AppID:     config.DefaultAppID,
			Active:    &active,
			ExpiresAt: "2024-01-15T10:00:00Z",
		},
		{
			Key:    "DEMO-OFF0-0000-0000",
			AppID:  config.DefaultAppID,
			Active: &inactive,
		},
	}}
}
