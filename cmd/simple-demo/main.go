// Command simple-demo performs one keycrate authenticate or register call
// chosen from a numbered menu.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"keycratecli/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	rt, err := app.Setup("keycrate-simple-demo", false)
	if err != nil {
		fmt.Fprintln(os.Stderr, "startup failed:", err)
		return 1
	}
	defer rt.Close()

	demo := app.NewSimpleDemo(rt.NewClient(), os.Stdin, os.Stdout, rt.Logger)
	if err := demo.Run(context.Background()); err != nil {
		rt.Logger.Error("Simple demo failed", slog.String("error", err.Error()))
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
