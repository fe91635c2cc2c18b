package cmd

import (
	cerrors "github.com/klappstuhl/stalmail/internal/errors"
	"github.com/klappstuhl/stalmail/internal/jmap"
	"github.com/spf13/cobra"
)

func newEmailGetCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <emailId>",
		Short: "Show a full email including its body",
		Args:  cobra.ExactArgs(1),
		RunE: runE(app, func(cmd *cobra.Command, args []string, app *App) error {
			svc, err := app.MailService(cmd.Context())
			if err != nil {
				return err
			}

			email, err := svc.GetEmailByID(cmd.Context(), args[0])
			if err != nil {
				return cerrors.WithContext(err, "fetching email")
			}

			if app.IsJSON(cmd.Context()) {
				return app.PrintJSON(cmd, emailDetailOutput(email))
			}

			printEmailDetails(email)
			return nil
		}),
	}

	return cmd
}

// emailDetailOutput extends the flattened summary with body content and
// attachment metadata.
func emailDetailOutput(e *jmap.Email) map[string]any {
	out := map[string]any{
		"email":       emailToOutput(*e),
		"attachments": e.Attachments,
	}

	var text, html string
	for _, part := range e.TextBody {
		if body, ok := e.BodyValues[part.PartID]; ok {
			text += body.Value
		}
	}
	for _, part := range e.HTMLBody {
		if body, ok := e.BodyValues[part.PartID]; ok {
			html += body.Value
		}
	}
	if text != "" {
		out["textBody"] = text
	}
	if html != "" {
		out["htmlBody"] = html
	}
	return out
}
