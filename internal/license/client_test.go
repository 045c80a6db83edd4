package license

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "keycratecli/internal/errors"
	"keycratecli/pkg/contracts/domain"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// recordingServer captures the last request body and replies with a fixed status and body
func recordingServer(t *testing.T, status int, reply string) (*httptest.Server, *map[string]any, *atomic.Int32) {
	t.Helper()
	var got map[string]any
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Contains(t, r.Header.Get("User-Agent"), "keycratecli/")
		got = map[string]any{"_path": r.URL.Path}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		got["_path"] = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, reply)
	}))
	t.Cleanup(srv.Close)
	return srv, &got, &calls
}

func TestAuthenticateWithLicense(t *testing.T) {
	srv, got, _ := recordingServer(t, http.StatusOK,
		`{"success":true,"message":"AUTHENTICATED","data":{"key":"KEY-1234-5678","expires_at":"2030-01-01T00:00:00Z"}}`)
	client := NewClient(srv.URL+"/", "app-1", WithLogger(quietLogger()))

	res, err := client.Authenticate(context.Background(), AuthenticateOptions{License: "KEY-1234-5678", HWID: "0123456789abcdef"})
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.Equal(t, "AUTHENTICATED", res.Message)
	key, ok := res.LicenseKey()
	assert.True(t, ok)
	assert.Equal(t, "KEY-1234-5678", key)

	assert.Equal(t, "/auth", (*got)["_path"])
	assert.Equal(t, "app-1", (*got)["app_id"])
	assert.Equal(t, "KEY-1234-5678", (*got)["license"])
	assert.Equal(t, "0123456789abcdef", (*got)["hwid"])
	assert.NotContains(t, *got, "username")
	assert.NotContains(t, *got, "password")
}

func TestAuthenticateWithCredentials(t *testing.T) {
	srv, got, _ := recordingServer(t, http.StatusOK, `{"success":true,"message":"AUTHENTICATED"}`)
	client := NewClient(srv.URL, "app-1", WithLogger(quietLogger()))

	res, err := client.Authenticate(context.Background(), AuthenticateOptions{Username: "neo", Password: "trinity"})
	require.NoError(t, err)
	assert.True(t, res.Success)

	_, ok := res.LicenseKey()
	assert.False(t, ok)
	assert.Equal(t, "neo", (*got)["username"])
	assert.Equal(t, "trinity", (*got)["password"])
	assert.NotContains(t, *got, "license")
}

func TestAuthenticateLogicalFailureOnClientError(t *testing.T) {
	srv, _, _ := recordingServer(t, http.StatusForbidden,
		`{"success":false,"message":"LICENSE_EXPIRED","data":{"expires_at":"2024-01-15T10:00:00Z"}}`)
	client := NewClient(srv.URL, "app-1", WithLogger(quietLogger()))

	res, err := client.Authenticate(context.Background(), AuthenticateOptions{License: "KEY"})
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, domain.CodeLicenseExpired, res.Message)
	assert.Equal(t, "2024-01-15T10:00:00Z", res.Data["expires_at"])
}

func TestAuthenticateInvalidResponse(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "html gateway page", status: http.StatusBadGateway, body: "<html>bad gateway</html>"},
		{name: "json without envelope", status: http.StatusInternalServerError, body: `{"error":"boom"}`},
		{name: "garbage on 200", status: http.StatusOK, body: "not json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _, _ := recordingServer(t, tt.status, tt.body)
			client := NewClient(srv.URL, "app-1", WithLogger(quietLogger()))

			_, err := client.Authenticate(context.Background(), AuthenticateOptions{License: "KEY"})
			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrInvalidResponse)

			var apiErr *apperrors.APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.StatusCode)
		})
	}
}

func TestAuthenticateConnectionError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	client := NewClient(url, "app-1", WithLogger(quietLogger()))
	_, err := client.Authenticate(context.Background(), AuthenticateOptions{License: "KEY"})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrConnection)
}

func TestAuthenticateTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	client := NewClient(srv.URL, "app-1", WithTimeout(50*time.Millisecond), WithLogger(quietLogger()))
	_, err := client.Authenticate(context.Background(), AuthenticateOptions{License: "KEY"})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrConnection)
}

func TestRegister(t *testing.T) {
	srv, got, _ := recordingServer(t, http.StatusOK, `{"success":true,"message":"REGISTERED"}`)
	client := NewClient(srv.URL, "app-1", WithLogger(quietLogger()))

	res, err := client.Register(context.Background(), RegisterOptions{License: "KEY-1", Username: "neo", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, &RegisterResult{Success: true, Message: "REGISTERED"}, res)

	assert.Equal(t, "/register", (*got)["_path"])
	assert.Equal(t, "KEY-1", (*got)["license"])
	assert.Equal(t, "neo", (*got)["username"])
	assert.Equal(t, "pw", (*got)["password"])
}

func TestRegisterValidationSkipsNetwork(t *testing.T) {
	tests := []struct {
		name  string
		opts  RegisterOptions
		field string
	}{
		{name: "empty username", opts: RegisterOptions{License: "KEY", Password: "pw"}, field: "Username"},
		{name: "empty password", opts: RegisterOptions{License: "KEY", Username: "neo"}, field: "Password"},
		{name: "empty license", opts: RegisterOptions{Username: "neo", Password: "pw"}, field: "License"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _, calls := recordingServer(t, http.StatusOK, `{"success":true,"message":"REGISTERED"}`)
			client := NewClient(srv.URL, "app-1", WithLogger(quietLogger()))

			_, err := client.Register(context.Background(), tt.opts)
			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

			var fieldErr *apperrors.FieldError
			require.ErrorAs(t, err, &fieldErr)
			assert.Equal(t, tt.field, fieldErr.Field)
			assert.Zero(t, calls.Load(), "no request reaches the server")
		})
	}
}

func TestRegisterFailureMessage(t *testing.T) {
	srv, _, _ := recordingServer(t, http.StatusConflict, `{"success":false,"message":"USERNAME_ALREADY_TAKEN"}`)
	client := NewClient(srv.URL, "app-1", WithLogger(quietLogger()))

	res, err := client.Register(context.Background(), RegisterOptions{License: "KEY", Username: "neo", Password: "pw"})
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, domain.CodeUsernameTaken, res.Message)
}
