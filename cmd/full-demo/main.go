// Command full-demo walks through the keycrate licensing flow: it shows the
// device HWID, logs in by license key or username/password and offers to
// register credentials for the license.
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
	rt, err := app.Setup("keycrate-full-demo", false)
	if err != nil {
		fmt.Fprintln(os.Stderr, "startup failed:", err)
		return 1
	}
	defer rt.Close()

	demo := app.NewFullDemo(rt.NewClient(), rt.NewHWIDGenerator(), os.Stdin, os.Stdout, rt.Logger)
	if err := demo.Run(context.Background()); err != nil {
		rt.Logger.Error("Full demo failed", slog.String("error", err.Error()))
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
