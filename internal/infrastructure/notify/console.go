package notify

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/plugsync/plugsync/internal/core/domain"
)

var (
	infoCaptionStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("86"))

	errorCaptionStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("196"))
)

// ConsoleSink renders notifications to a writer, one line each, with the
// caption styled by severity.
type ConsoleSink struct {
	out io.Writer
}

// NewConsoleSink creates a console sink. A nil writer falls back to stderr.
func NewConsoleSink(out io.Writer) *ConsoleSink {
	if out == nil {
		out = os.Stderr
	}
	return &ConsoleSink{out: out}
}

// Notify renders one notification.
func (s *ConsoleSink) Notify(n domain.Notification) {
	style := infoCaptionStyle
	if n.Severity == domain.SeverityError {
		style = errorCaptionStyle
	}
	fmt.Fprintf(s.out, "%s %s\n", style.Render(n.Caption+":"), n.Text)
}
