package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"keycratecli/internal/console"
	"keycratecli/internal/infrastructure"
	"keycratecli/internal/license"
)

// FullDemo is the guided flow: show the HWID, log in, then offer to
// register a username and password for the license used.
type FullDemo struct {
	client    Authenticator
	hwid      HWIDSource
	prompter  *console.Prompter
	presenter *console.Presenter
	logger    *slog.Logger
}

// NewFullDemo wires the full demo to its collaborators and console
func NewFullDemo(client Authenticator, hwid HWIDSource, in io.Reader, out io.Writer, logger *slog.Logger) *FullDemo {
	if logger == nil {
		logger = slog.Default()
	}
	return &FullDemo{
		client:    client,
		hwid:      hwid,
		prompter:  console.NewPrompter(in, out),
		presenter: console.NewPresenter(out),
		logger:    infrastructure.WithComponent(logger, "full_demo"),
	}
}

// Run executes one pass of the demo. It returns nil when the user exits,
// is denied, or closes input; other errors come from the console.
func (d *FullDemo) Run(ctx context.Context) error {
	ctx = infrastructure.EnsureTraceID(ctx)
	d.logger.InfoContext(ctx, "Full demo started")

	d.prompter.Println("=== Keycrate – Full Demo ===")
	d.prompter.Println()

	hwid := d.hwid.Compute(ctx)
	if d.logger.Enabled(ctx, slog.LevelDebug) {
		attrs := []any{slog.String("hwid", hwid)}
		for name, value := range d.hwid.Components(ctx) {
			attrs = append(attrs, slog.String(name, value))
		}
		d.logger.DebugContext(ctx, "HWID components", attrs...)
	}
	d.prompter.Printf("Your HWID: %s\n\n", hwid)

	ok, licenseKey, err := d.login(ctx, hwid)
	if err != nil {
		return endOfInput(d.logger, err)
	}
	if !ok {
		d.prompter.Println("\nAccess denied – goodbye.")
		return nil
	}

	d.prompter.Println("\nWelcome! You have access.")
	d.prompter.Println()

	for {
		cmd, err := d.prompter.Ask("Type 'register' or 'exit': ")
		if err != nil {
			return endOfInput(d.logger, err)
		}

		switch strings.ToLower(cmd) {
		case "exit":
			d.prompter.Println("Bye!")
			return nil
		case "register":
			// a login that returned no key has nothing to bind
			if licenseKey == "" {
				d.logger.WarnContext(ctx, "Login returned no license key, skipping registration")
				return nil
			}
			return endOfInput(d.logger, d.register(ctx, licenseKey))
		default:
			d.prompter.Println("Invalid command.")
		}
	}
}

// login authenticates by license key, or by username and password when the
// key is left blank. It reports access and the key from the reply data.
func (d *FullDemo) login(ctx context.Context, hwid string) (bool, string, error) {
	d.prompter.Println("=== Login ===")

	key, err := d.prompter.Ask("License key (press ENTER for username/password): ")
	if err != nil {
		return false, "", err
	}

	opts := license.AuthenticateOptions{HWID: hwid}
	if key != "" {
		opts.License = key
	} else {
		username, err := d.prompter.Ask(promptUsername)
		if err != nil {
			return false, "", err
		}
		password, err := d.prompter.Ask(promptPassword)
		if err != nil {
			return false, "", err
		}
		if username == "" || password == "" {
			d.prompter.Println("Both fields required.")
			return false, "", nil
		}
		opts.Username = username
		opts.Password = password
	}

	result, err := d.client.Authenticate(ctx, opts)
	if err != nil {
		d.logger.ErrorContext(ctx, "Login request failed", slog.String("error", err.Error()))
		d.prompter.Println(fmt.Sprintf("Connection error: %v", err))
		return false, "", nil
	}

	if !result.Success {
		d.logger.InfoContext(ctx, "Login rejected", slog.String("code", result.Message))
		if !license.IsKnownCode(result.Message) {
			d.logger.WarnContext(ctx, "Unrecognized error code", slog.String("code", result.Message))
		}
		d.presenter.PrintAuthFailure(result.Message, result.Data)
		return false, "", nil
	}

	d.prompter.Println("\nLogin successful!")
	d.prompter.Println()

	licenseKey, _ := result.LicenseKey()
	d.logger.InfoContext(ctx, "Login accepted", slog.String("license_key", license.MaskLicenseKey(licenseKey)))
	return true, licenseKey, nil
}

// register binds a username and password to licenseKey
func (d *FullDemo) register(ctx context.Context, licenseKey string) error {
	d.prompter.Println("\n=== Register Username & Password ===")

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
		License:  licenseKey,
		Username: username,
		Password: password,
	})
	if err != nil {
		d.logger.ErrorContext(ctx, "Register request failed", slog.String("error", err.Error()))
		d.prompter.Println(fmt.Sprintf("Register failed: %v", err))
		return nil
	}

	d.presenter.PrintResult(result.Success, result.Message)
	return nil
}
