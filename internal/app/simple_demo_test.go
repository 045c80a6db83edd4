package app

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"keycratecli/internal/license"
	"keycratecli/internal/shared/testutil"
)

func runSimpleDemo(t *testing.T, fake *fakeAuthenticator, input string) string {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	var out bytes.Buffer

	require.NoError(t, NewSimpleDemo(fake, strings.NewReader(input), &out, logger).Run(context.Background()))
	return out.String()
}

func TestSimpleDemoAuthenticate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		result   *license.AuthResult
		err      error
		wantOpts license.AuthenticateOptions
		wantTail string
	}{
		{
			name:     "license key",
			input:    testutil.Lines("1", "KEY-1"),
			result:   &license.AuthResult{Success: true, Message: "AUTHENTICATED"},
			wantOpts: license.AuthenticateOptions{License: "KEY-1"},
			wantTail: "\nSUCCESS: AUTHENTICATED\n",
		},
		{
			name:     "username and password",
			input:    testutil.Lines("1", "", "neo", "pw"),
			result:   &license.AuthResult{Message: "INVALID_USERNAME_OR_PASSWORD"},
			wantOpts: license.AuthenticateOptions{Username: "neo", Password: "pw"},
			wantTail: "\nFAILED: INVALID_USERNAME_OR_PASSWORD\n",
		},
		{
			name:     "connection error",
			input:    testutil.Lines("1", "KEY-1"),
			err:      errors.New("connection refused"),
			wantOpts: license.AuthenticateOptions{License: "KEY-1"},
			wantTail: "\nFAILED: connection refused\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeAuthenticator{authResult: tt.result, authErr: tt.err}

			out := runSimpleDemo(t, fake, tt.input)

			assert.True(t, strings.HasPrefix(out, "=== Keycrate – Simple Demo ===\n\n (1) Authenticate   (2) Register   → "))
			assert.True(t, strings.HasSuffix(out, tt.wantTail), out)
			require.Len(t, fake.authCalls, 1)
			assert.Equal(t, tt.wantOpts, fake.authCalls[0])
		})
	}
}

func TestSimpleDemoUnknownErrorCode(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	fake := &fakeAuthenticator{authResult: &license.AuthResult{Message: "QUOTA_EXCEEDED"}}
	var out bytes.Buffer

	demo := NewSimpleDemo(fake, strings.NewReader(testutil.Lines("1", "KEY-1")), &out, logger)
	require.NoError(t, demo.Run(context.Background()))

	assert.Contains(t, out.String(), "\nFAILED: QUOTA_EXCEEDED\n")
	testutil.AssertLogContains(t, logs, slog.LevelWarn, "Unrecognized error code")
}

func TestSimpleDemoRegister(t *testing.T) {
	fake := &fakeAuthenticator{regResult: &license.RegisterResult{Success: true, Message: "REGISTERED"}}

	out := runSimpleDemo(t, fake, testutil.Lines("2", " KEY-1 ", "neo", "pw"))

	assert.Contains(t, out, "License key to bind: Username: Password: ")
	assert.True(t, strings.HasSuffix(out, "\nSUCCESS: REGISTERED\n"))
	require.Len(t, fake.regCalls, 1)
	assert.Equal(t, license.RegisterOptions{License: "KEY-1", Username: "neo", Password: "pw"}, fake.regCalls[0])
}

func TestSimpleDemoRegisterEmptyFieldsSkipNetwork(t *testing.T) {
	for _, input := range []string{
		testutil.Lines("2", "KEY-1", "", "pw"),
		testutil.Lines("2", "KEY-1", "neo", ""),
	} {
		fake := &fakeAuthenticator{}

		out := runSimpleDemo(t, fake, input)

		assert.True(t, strings.HasSuffix(out, "Can't be empty.\n"))
		assert.Empty(t, fake.regCalls)
	}
}

func TestSimpleDemoInvalidChoice(t *testing.T) {
	fake := &fakeAuthenticator{}

	out := runSimpleDemo(t, fake, testutil.Lines("3"))

	assert.True(t, strings.HasSuffix(out, "Invalid choice – exiting.\n"))
	assert.Empty(t, fake.authCalls)
	assert.Empty(t, fake.regCalls)
}

func TestSimpleDemoEndOfInput(t *testing.T) {
	fake := &fakeAuthenticator{}

	runSimpleDemo(t, fake, "")
	runSimpleDemo(t, fake, testutil.Lines("1"))

	assert.Empty(t, fake.authCalls)
}
