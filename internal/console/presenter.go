package console

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"keycratecli/internal/license"
)

// Presenter renders call outcomes. Colors follow the terminal behind the
// writer, so output to files or buffers stays plain.
type Presenter struct {
	out     io.Writer
	success lipgloss.Style
	failure lipgloss.Style
}

// NewPresenter creates a presenter writing to out
func NewPresenter(out io.Writer) *Presenter {
	r := lipgloss.NewRenderer(out)
	return &Presenter{
		out:     out,
		success: r.NewStyle().Foreground(lipgloss.Color("2")),
		failure: r.NewStyle().Foreground(lipgloss.Color("1")),
	}
}

// PrintResult prints "SUCCESS: msg" or "FAILED: msg" after a blank line
func (p *Presenter) PrintResult(ok bool, msg string) {
	if ok {
		fmt.Fprintf(p.out, "\n%s\n", p.success.Render("SUCCESS: "+msg))
		return
	}
	fmt.Fprintf(p.out, "\n%s\n", p.failure.Render("FAILED: "+msg))
}

// PrintAuthFailure prints the failure headline followed by the guidance
// for code
func (p *Presenter) PrintAuthFailure(code string, data map[string]any) {
	fmt.Fprintln(p.out, p.failure.Render(license.FailureHeadline(code)))
	for _, line := range license.ExplainNow(code, data) {
		fmt.Fprintln(p.out, line)
	}
}
