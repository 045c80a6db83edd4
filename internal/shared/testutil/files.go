package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// WriteFile writes content to name inside a per-test temp dir and returns
// the full path
func WriteFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// Lines joins console answers into stdin input, one per line
func Lines(answers ...string) string {
	out := ""
	for _, a := range answers {
		out += a + "\n"
	}
	return out
}
