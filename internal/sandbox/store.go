package sandbox

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"keycratecli/internal/config"
	"keycratecli/pkg/contracts/domain"
)

// licenseRecord is the in-memory state of one seeded license
type licenseRecord struct {
	key               string
	appID             string
	active            bool
	expiresAt         *time.Time
	hwid              string
	hwidResetAllowed  bool
	hwidResetCooldown int
	lastHWIDResetAt   *time.Time
	username          string
	passwordHash      []byte
}

// Outcome is a store decision: the HTTP status and the envelope to send
type Outcome struct {
	Status   int
	Envelope domain.Envelope
}

func success(code string, data map[string]any) Outcome {
	return Outcome{Status: http.StatusOK, Envelope: domain.Envelope{Success: true, Message: code, Data: data}}
}

func failure(status int, code string, data map[string]any) Outcome {
	return Outcome{Status: status, Envelope: domain.Envelope{Message: code, Data: data}}
}

// Store holds licenses, registered users and HWID bindings. It is safe for
// concurrent use.
type Store struct {
	mu       sync.Mutex
	licenses map[string]*licenseRecord
	users    map[string]string // username -> license key
	devices  map[string]string // hwid -> license key
	cost     int
	now      func() time.Time
}

// StoreOption configures a Store
type StoreOption func(*Store)

// WithBcryptCost sets the hashing cost for stored passwords
func WithBcryptCost(cost int) StoreOption {
	return func(s *Store) { s.cost = cost }
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) { s.now = now }
}

// NewStore builds a store from seed, hashing seeded passwords
func NewStore(seed *Seed, opts ...StoreOption) (*Store, error) {
	s := &Store{
		licenses: make(map[string]*licenseRecord),
		users:    make(map[string]string),
		devices:  make(map[string]string),
		cost:     bcrypt.DefaultCost,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	for _, sl := range seed.Licenses {
		l := &licenseRecord{
			key:               sl.Key,
			appID:             sl.AppID,
			active:            sl.Active == nil || *sl.Active,
			hwid:              sl.HWID,
			hwidResetAllowed:  sl.HWIDResetAllowed,
			hwidResetCooldown: sl.HWIDResetCooldown,
			username:          sl.Username,
			expiresAt:         parseOptionalTime(sl.ExpiresAt),
			lastHWIDResetAt:   parseOptionalTime(sl.LastHWIDResetAt),
		}
		if sl.Password != "" {
			hash, err := bcrypt.GenerateFromPassword([]byte(sl.Password), s.cost)
			if err != nil {
				return nil, fmt.Errorf("license %q: failed to hash password: %w", sl.Key, err)
			}
			l.passwordHash = hash
		}

		s.licenses[l.key] = l
		if l.username != "" {
			s.users[l.username] = l.key
		}
		if l.hwid != "" {
			s.devices[l.hwid] = l.key
		}
	}
	return s, nil
}

func parseOptionalTime(v string) *time.Time {
	if v == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil
	}
	return &t
}

// Authenticate checks a license key, or username and password, and binds the
// device on first use. The unsupported-platform sentinel is never bound since
// every non-Windows client sends the same value.
func (s *Store) Authenticate(req domain.AuthRequest) Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	var l *licenseRecord
	if req.License != "" {
		l = s.licenses[req.License]
		if l == nil || l.appID != req.AppID {
			return failure(http.StatusNotFound, domain.CodeLicenseNotFound, nil)
		}
	} else {
		l = s.licenses[s.users[req.Username]]
		if l == nil || l.appID != req.AppID ||
			bcrypt.CompareHashAndPassword(l.passwordHash, []byte(req.Password)) != nil {
			return failure(http.StatusUnauthorized, domain.CodeInvalidUsernameOrPassword, nil)
		}
	}

	if !l.active {
		return failure(http.StatusForbidden, domain.CodeLicenseNotActive, nil)
	}

	if l.expiresAt != nil && !s.now().Before(*l.expiresAt) {
		return failure(http.StatusForbidden, domain.CodeLicenseExpired, map[string]any{
			domain.DataKeyExpiresAt: l.expiresAt.Format(time.RFC3339),
		})
	}

	if hwid := req.HWID; hwid != "" && hwid != config.UnsupportedPlatformHWID {
		if owner, ok := s.devices[hwid]; ok && owner != l.key {
			return failure(http.StatusConflict, domain.CodeDeviceBoundToOtherLicense, nil)
		}
		switch {
		case l.hwid == "":
			l.hwid = hwid
			s.devices[hwid] = l.key
		case l.hwid != hwid:
			return failure(http.StatusForbidden, domain.CodeHWIDMismatch, l.resetData())
		}
	}

	data := map[string]any{domain.DataKeyLicense: l.key}
	if l.expiresAt != nil {
		data[domain.DataKeyExpiresAt] = l.expiresAt.Format(time.RFC3339)
	}
	return success(domain.CodeAuthenticated, data)
}

// resetData describes whether and when the bound HWID may be reset
func (l *licenseRecord) resetData() map[string]any {
	data := map[string]any{domain.DataKeyHWIDResetAllowed: l.hwidResetAllowed}
	if !l.hwidResetAllowed {
		return data
	}
	data[domain.DataKeyHWIDResetCooldown] = l.hwidResetCooldown
	if l.lastHWIDResetAt != nil {
		data[domain.DataKeyLastHWIDResetAt] = l.lastHWIDResetAt.Format(time.RFC3339)
	}
	return data
}

// Register binds a username and password to a license that has none yet
func (s *Store) Register(req domain.RegisterRequest) (Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l := s.licenses[req.License]
	if l == nil || l.appID != req.AppID {
		return failure(http.StatusNotFound, domain.CodeLicenseNotFound, nil), nil
	}
	if l.username != "" {
		return failure(http.StatusConflict, domain.CodeLicenseAlreadyHasUser, nil), nil
	}
	if _, taken := s.users[req.Username]; taken {
		return failure(http.StatusConflict, domain.CodeUsernameTaken, nil), nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return Outcome{}, fmt.Errorf("failed to hash password: %w", err)
	}

	l.username = req.Username
	l.passwordHash = hash
	s.users[req.Username] = l.key
	return success(domain.CodeRegistered, nil), nil
}
