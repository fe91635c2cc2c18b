package cmd

import (
	"fmt"

	cerrors "github.com/klappstuhl/stalmail/internal/errors"
	"github.com/klappstuhl/stalmail/internal/jmap"
	"github.com/spf13/cobra"
)

func newEmailListCmd(app *App) *cobra.Command {
	var limit, position int
	var mailbox string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List emails in a mailbox",
		Long: `List emails newest first. The --mailbox flag accepts a mailbox id,
name or role; without it the whole account is listed. Page through large
mailboxes with --position.`,
		Args: cobra.NoArgs,
		RunE: runE(app, func(cmd *cobra.Command, _ []string, app *App) error {
			svc, err := app.MailService(cmd.Context())
			if err != nil {
				return err
			}

			mailboxID := ""
			if mailbox != "" {
				mb, err := resolveMailboxArg(cmd, svc, mailbox)
				if err != nil {
					return err
				}
				mailboxID = mb.ID
			}

			page, err := svc.GetEmails(cmd.Context(), mailboxID, jmap.ListOptions{
				Limit:    limit,
				Position: position,
			})
			if err != nil {
				return cerrors.WithContext(err, "listing emails")
			}

			if app.IsJSON(cmd.Context()) {
				return app.PrintJSON(cmd, map[string]any{
					"emails":   emailsToOutput(page.Emails),
					"total":    page.Total,
					"position": page.Position,
				})
			}

			if len(page.Emails) == 0 {
				printNoResults("No emails found")
				return nil
			}

			printEmailList(page.Emails)
			shown := page.Position + len(page.Emails)
			if page.Total > shown {
				fmt.Printf("\nShowing %d-%d of %d. Next page: --position %d\n",
					page.Position+1, shown, page.Total, shown)
			}
			return nil
		}),
	}

	cmd.Flags().IntVar(&limit, "limit", 25, "Maximum number of emails per page")
	cmd.Flags().IntVar(&position, "position", 0, "Offset of the first email")
	cmd.Flags().StringVar(&mailbox, "mailbox", "", "Mailbox id, name or role to list")

	return cmd
}

func newEmailSearchCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Full-text search across all mailboxes",
		Long: `Search emails by text across the whole account, ignoring mailbox
boundaries. Matching covers headers and body content, as implemented by
the server.`,
		Args: cobra.ExactArgs(1),
		RunE: runE(app, func(cmd *cobra.Command, args []string, app *App) error {
			svc, err := app.MailService(cmd.Context())
			if err != nil {
				return err
			}

			result, err := svc.SearchEmails(cmd.Context(), args[0], limit)
			if err != nil {
				return cerrors.WithContext(err, "searching emails")
			}

			if app.IsJSON(cmd.Context()) {
				return app.PrintJSON(cmd, map[string]any{
					"emails": emailsToOutput(result.Emails),
					"total":  result.Total,
				})
			}

			if len(result.Emails) == 0 {
				printNoResults("No emails found matching '%s'", args[0])
				return nil
			}

			printEmailList(result.Emails)
			if result.Total > len(result.Emails) {
				fmt.Printf("\nShowing %d of %d matches\n", len(result.Emails), result.Total)
			}
			return nil
		}),
	}

	cmd.Flags().IntVar(&limit, "limit", 25, "Maximum number of results")

	return cmd
}
