package app

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"keycratecli/internal/license"
)

// Authenticator is the licensing API as seen by the demo flows
type Authenticator interface {
	Authenticate(ctx context.Context, opts license.AuthenticateOptions) (*license.AuthResult, error)
	Register(ctx context.Context, opts license.RegisterOptions) (*license.RegisterResult, error)
}

// HWIDSource computes the device fingerprint sent with logins. Components
// exposes the raw hardware values behind it for debug logs.
type HWIDSource interface {
	Compute(ctx context.Context) string
	Components(ctx context.Context) map[string]string
}

// Prompts shared by both demos
const (
	promptUsername = "Username: "
	promptPassword = "Password: "
	msgEmptyField  = "Can't be empty."
)

// endOfInput turns a closed stdin into a clean exit
func endOfInput(logger *slog.Logger, err error) error {
	if errors.Is(err, io.EOF) {
		logger.Info("Input closed, ending run")
		return nil
	}
	return err
}
