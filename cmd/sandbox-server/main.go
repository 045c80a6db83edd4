// Command sandbox-server runs a local keycrate licensing API for the demos.
// Point them at it with KEYCRATE_API_BASE_URL=http://localhost:8787.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"keycratecli/internal/app"
	"keycratecli/internal/config"
	"keycratecli/internal/sandbox"
)

func main() {
	os.Exit(run())
}

func run() int {
	rt, err := app.Setup("keycrate-sandbox", true)
	if err != nil {
		fmt.Fprintln(os.Stderr, "startup failed:", err)
		return 1
	}
	defer rt.Close()

	seed, err := loadSeed(rt.Config.Sandbox.SeedFile)
	if err != nil {
		rt.Logger.Error("Failed to load seed", slog.String("error", err.Error()))
		return 1
	}

	store, err := sandbox.NewStore(seed)
	if err != nil {
		rt.Logger.Error("Failed to build license store", slog.String("error", err.Error()))
		return 1
	}
	rt.Logger.Info("License store ready", slog.Int("licenses", len(seed.Licenses)))

	srv, err := sandbox.NewServer(rt.Config.Sandbox, store, rt.OTel, rt.Logger)
	if err != nil {
		rt.Logger.Error("Failed to create server", slog.String("error", err.Error()))
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil {
		rt.Logger.Error("Sandbox server stopped with error", slog.String("error", err.Error()))
		return 1
	}
	return 0
}

// loadSeed reads the configured seed file, or the built-in demo licenses
// when none is set. Relative paths not found from the working directory are
// tried next to the executable.
func loadSeed(path string) (*sandbox.Seed, error) {
	if path == "" {
		return sandbox.DefaultSeed(), nil
	}
	if _, err := os.Stat(path); err != nil {
		path = config.ResolvePath(path)
	}
	return sandbox.LoadSeed(path)
}
