package console

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrompterAsk(t *testing.T) {
	var out bytes.Buffer
	p := NewPrompter(strings.NewReader("  KEY-1 \r\n\nlast"), &out)

	got, err := p.Ask("License: ")
	require.NoError(t, err)
	assert.Equal(t, "KEY-1", got)

	got, err = p.Ask("Username: ")
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = p.Ask("Password: ")
	require.NoError(t, err)
	assert.Equal(t, "last", got)

	_, err = p.Ask("More: ")
	assert.ErrorIs(t, err, io.EOF)

	assert.Equal(t, "License: Username: Password: More: ", out.String())
}

func TestPresenterPrintResult(t *testing.T) {
	tests := []struct {
		name string
		ok   bool
		msg  string
		want string
	}{
		{name: "success", ok: true, msg: "AUTHENTICATED", want: "\nSUCCESS: AUTHENTICATED\n"},
		{name: "failure", ok: false, msg: "LICENSE_NOT_FOUND", want: "\nFAILED: LICENSE_NOT_FOUND\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			NewPresenter(&out).PrintResult(tt.ok, tt.msg)
			assert.Equal(t, tt.want, out.String())
		})
	}
}

func TestPresenterPrintAuthFailure(t *testing.T) {
	var out bytes.Buffer
	NewPresenter(&out).PrintAuthFailure("LICENSE_EXPIRED", map[string]any{"expires_at": "2024-01-15T10:00:00Z"})

	assert.Equal(t,
		"Authentication failed: LICENSE_EXPIRED\nLicense expired on: 2024-01-15 10:00:00 UTC\n",
		out.String())
}

func TestPresenterUnknownCode(t *testing.T) {
	var out bytes.Buffer
	NewPresenter(&out).PrintAuthFailure("SOME_UNKNOWN_CODE", nil)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], "SOME_UNKNOWN_CODE")
}
