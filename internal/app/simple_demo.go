package app

import (
	"context"
	"io"
	"log/slog"

	"keycratecli/internal/console"
	"keycratecli/internal/infrastructure"
	"keycratecli/internal/license"
)

// SimpleDemo is the numbered-menu flow: one authenticate or register call
// per run, rendered as SUCCESS or FAILED.
type SimpleDemo struct {
	client    Authenticator
	prompter  *console.Prompter
	presenter *console.Presenter
	logger    *slog.Logger
}

// NewSimpleDemo wires the simple demo to its client and console
func NewSimpleDemo(client Authenticator, in io.Reader, out io.Writer, logger *slog.Logger) *SimpleDemo {
	if logger == nil {
		logger = slog.Default()
	}
	return &SimpleDemo{
		client:    client,
		prompter:  console.NewPrompter(in, out),
		presenter: console.NewPresenter(out),
		logger:    infrastructure.WithComponent(logger, "simple_demo"),
	}
}

// Run shows the menu and performs the chosen call
func (d *SimpleDemo) Run(ctx context.Context) error {
	ctx = infrastructure.EnsureTraceID(ctx)
	d.logger.InfoContext(ctx, "Simple demo started")

	d.prompter.Println("=== Keycrate – Simple Demo ===")
	d.prompter.Println()

	choice, err := d.prompter.Ask(" (1) Authenticate   (2) Register   → ")
	if err != nil {
		return endOfInput(d.logger, err)
	}

	switch choice {
	case "1":
		err = d.authenticate(ctx)
	case "2":
		err = d.register(ctx)
	default:
		d.prompter.Println("Invalid choice – exiting.")
	}
	return endOfInput(d.logger, err)
}

func (d *SimpleDemo) authenticate(ctx context.Context) error {
	key, err := d.prompter.Ask("License key (or ENTER for username): ")
	if err != nil {
		return err
	}

	opts := license.AuthenticateOptions{License: key}
	if key == "" {
		if opts.Username, err = d.prompter.Ask(promptUsername); err != nil {
			return err
		}
		if opts.Password, err = d.prompter.Ask(promptPassword); err != nil {
			return err
		}
	}

	result, err := d.client.Authenticate(ctx, opts)
	if err != nil {
		d.logger.ErrorContext(ctx, "Authenticate request failed", slog.String("error", err.Error()))
		d.presenter.PrintResult(false, err.Error())
		return nil
	}
	if !result.Success && !license.IsKnownCode(result.Message) {
		d.logger.WarnContext(ctx, "Unrecognized error code", slog.String("code", result.Message))
	}
	d.presenter.PrintResult(result.Success, result.Message)
	return nil
}

func (d *SimpleDemo) register(ctx context.Context) error {
	key, err := d.prompter.Ask("License key to bind: ")
	if err != nil {
		return err
	}
	username, err := d.prompter.Ask(promptUsername)
	if err != nil {
		return err
	}
	password, err := d.prompter.Ask(promptPassword)
	if err != nil {
		return err
	}
	if username == "" || password == "" {
		d.prompter.Println(msgEmptyField)
		return nil
	}

	result, err := d.client.Register(ctx, license.RegisterOptions{
		License:  key,
		Username: username,
		Password: password,
	})
	if err != nil {
		d.logger.ErrorContext(ctx, "Register request failed", slog.String("error", err.Error()))
		d.presenter.PrintResult(false, err.Error())
		return nil
	}
	d.presenter.PrintResult(result.Success, result.Message)
	return nil
}
