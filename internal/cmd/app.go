package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/klappstuhl/stalmail/internal/config"
	cerrors "github.com/klappstuhl/stalmail/internal/errors"
	"github.com/klappstuhl/stalmail/internal/jmap"
	"github.com/klappstuhl/stalmail/internal/outfmt"
	"github.com/klappstuhl/stalmail/internal/ui"
	"github.com/spf13/cobra"
)

type appKey struct{}

type App struct {
	Flags  *rootFlags
	UI     *ui.UI
	Logger Logger

	// NewMailService builds an authenticated mail service. Tests replace
	// it with a mock factory.
	NewMailService func(ctx context.Context) (jmap.MailService, error)
}

// Logger is the minimal interface we need from slog.Logger.
type Logger interface {
	Debug(msg string, args ...any)
}

func NewApp() *App {
	flags := rootFlags{
		Color:  envOr("STALMAIL_COLOR", "auto"),
		Output: envOr("STALMAIL_OUTPUT", "text"),
	}
	app := &App{Flags: &flags}
	app.NewMailService = app.connect
	return app
}

func WithApp(ctx context.Context, app *App) context.Context {
	return context.WithValue(ctx, appKey{}, app)
}

func AppFromContext(ctx context.Context) *App {
	if app, ok := ctx.Value(appKey{}).(*App); ok {
		return app
	}
	return nil
}

// runE wraps a cobra RunE to inject the App and normalize errors.
func runE(app *App, fn func(cmd *cobra.Command, args []string, app *App) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if app == nil {
			app = AppFromContext(cmd.Context())
		}
		if app == nil {
			app = &App{Flags: &rootFlags{}}
		}
		return mapCommandError(fn(cmd, args, app))
	}
}

func (a *App) IsJSON(ctx context.Context) bool {
	mode, ok := ctx.Value(outputModeKey).(outfmt.Mode)
	return ok && mode == outfmt.JSON
}

func (a *App) Query(ctx context.Context) string {
	query, _ := ctx.Value(queryKey).(string)
	return query
}

func (a *App) PrintJSON(cmd *cobra.Command, v any) error {
	return outfmt.PrintJSONFiltered(v, a.Query(cmd.Context()))
}

func (a *App) Confirm(cmd *cobra.Command, skip bool, prompt string, accepted ...string) (bool, error) {
	if skip || a.IsJSON(cmd.Context()) || (a.Flags != nil && a.Flags.Yes) {
		return true, nil
	}
	return confirmPrompt(os.Stderr, prompt, accepted...)
}

func (a *App) RequireAccount() (string, error) {
	if a.Flags != nil && a.Flags.Account != "" {
		return a.Flags.Account, nil
	}

	// Auto-select primary/only account when not explicitly specified
	primary, err := config.GetPrimaryAccount()
	if err != nil {
		return "", fmt.Errorf("failed to get accounts: %w", err)
	}
	if primary != "" {
		return primary, nil
	}

	return "", fmt.Errorf("no accounts configured: run 'stalmail auth login' to set up an account")
}

// MailService returns the authenticated mail service for the configured
// account.
func (a *App) MailService(ctx context.Context) (jmap.MailService, error) {
	if a.NewMailService == nil {
		a.NewMailService = a.connect
	}
	return a.NewMailService(ctx)
}

// connect looks up the stored login and establishes a session.
func (a *App) connect(ctx context.Context) (jmap.MailService, error) {
	account, err := a.RequireAccount()
	if err != nil {
		return nil, err
	}

	login, err := config.GetLogin(account)
	if err != nil {
		return nil, fmt.Errorf("failed to get login for %s: %w", account, err)
	}

	client := jmap.NewClient()
	if _, err := client.Authenticate(ctx, login.Username, login.Password, login.Server); err != nil {
		return nil, err
	}
	return client, nil
}

// Suggest wraps an error with a user-facing suggestion.
func Suggest(err error, suggestion string) error {
	return cerrors.WithSuggestion(err, suggestion)
}
