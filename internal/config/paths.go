package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// ExecutableDir returns the directory containing the running executable,
// with symlinks resolved.
func ExecutableDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to get executable path: %w", err)
	}

	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return "", fmt.Errorf("failed to resolve executable symlinks: %w", err)
	}

	return filepath.Dir(exe), nil
}

// ResolvePath returns p unchanged when absolute, otherwise joins it to the
// executable directory. If the executable cannot be located, p is returned
// relative to the working directory.
func ResolvePath(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	dir, err := ExecutableDir()
	if err != nil {
		return p
	}
	return filepath.Join(dir, p)
}
