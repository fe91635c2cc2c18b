// Package ui prints status messages to stderr, colored when the
// terminal supports it. The NO_COLOR convention is honored.
package ui

import (
	"context"
	"fmt"
	"os"

	"github.com/muesli/termenv"
)

type UI struct {
	out   *termenv.Output
	color bool
}

type contextKey struct{}

// New builds a UI for the given color mode: "never", "always" or
// "auto". Auto enables color only when stderr is a capable terminal,
// and NO_COLOR always wins.
func New(colorMode string) *UI {
	out := termenv.NewOutput(os.Stderr)

	var color bool
	switch colorMode {
	case "never":
		color = false
	case "always":
		color = true
	default:
		color = out.ColorProfile() != termenv.Ascii
	}
	if os.Getenv("NO_COLOR") != "" {
		color = false
	}

	return &UI{out: out, color: color}
}

// ANSI colors: green, red, yellow.
const (
	colorSuccess = "2"
	colorError   = "1"
	colorWarning = "3"
)

func (u *UI) println(msg, color string) {
	if u.color {
		fmt.Fprintln(os.Stderr, u.out.String(msg).Foreground(u.out.Color(color)))
		return
	}
	fmt.Fprintln(os.Stderr, msg)
}

// Success prints a confirmation message in green.
func (u *UI) Success(msg string) {
	u.println(msg, colorSuccess)
}

// Error prints an error message in red.
func (u *UI) Error(msg string) {
	u.println(msg, colorError)
}

// Warning prints a warning message in yellow.
func (u *UI) Warning(msg string) {
	u.println(msg, colorWarning)
}

// Info prints a plain informational message.
func (u *UI) Info(msg string) {
	fmt.Fprintln(os.Stderr, msg)
}

// WithUI stores the UI in the context.
func WithUI(ctx context.Context, u *UI) context.Context {
	return context.WithValue(ctx, contextKey{}, u)
}

// FromContext retrieves the UI from the context, or an auto-mode UI
// when none was stored.
func FromContext(ctx context.Context) *UI {
	if u, ok := ctx.Value(contextKey{}).(*UI); ok {
		return u
	}
	return New("auto")
}
