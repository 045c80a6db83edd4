package app

import (
	"context"

	"keycratecli/internal/license"
)

type fakeAuthenticator struct {
	authResult *license.AuthResult
	authErr    error
	regResult  *license.RegisterResult
	regErr     error

	authCalls []license.AuthenticateOptions
	regCalls  []license.RegisterOptions
}

func (f *fakeAuthenticator) Authenticate(_ context.Context, opts license.AuthenticateOptions) (*license.AuthResult, error) {
	f.authCalls = append(f.authCalls, opts)
	return f.authResult, f.authErr
}

func (f *fakeAuthenticator) Register(_ context.Context, opts license.RegisterOptions) (*license.RegisterResult, error) {
	f.regCalls = append(f.regCalls, opts)
	return f.regResult, f.regErr
}

type fixedHWID string

func (h fixedHWID) Compute(context.Context) string { return string(h) }

func (h fixedHWID) Components(context.Context) map[string]string {
	return map[string]string{"os": "windows", "cpu_id": "CPU-" + string(h)}
}
