package cmd

import (
	"fmt"

	cerrors "github.com/klappstuhl/stalmail/internal/errors"
	"github.com/klappstuhl/stalmail/internal/jmap"
	"github.com/spf13/cobra"
)

func newEmailReadCmd(app *App) *cobra.Command {
	var unread bool

	cmd := &cobra.Command{
		Use:   "read <emailId>",
		Short: "Mark an email as read",
		Args:  cobra.ExactArgs(1),
		RunE: runE(app, func(cmd *cobra.Command, args []string, app *App) error {
			svc, err := app.MailService(cmd.Context())
			if err != nil {
				return err
			}

			if err := svc.MarkEmailRead(cmd.Context(), args[0], !unread); err != nil {
				return cerrors.WithContext(err, "updating read state")
			}

			if app.IsJSON(cmd.Context()) {
				return app.PrintJSON(cmd, map[string]any{
					"id":   args[0],
					"read": !unread,
				})
			}
			state := "read"
			if unread {
				state = "unread"
			}
			app.UI.Success(fmt.Sprintf("Marked %s as %s", args[0], state))
			return nil
		}),
	}

	cmd.Flags().BoolVar(&unread, "unread", false, "Mark as unread instead")
	return cmd
}

func newEmailMoveCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "move <emailId> <mailbox>",
		Short: "Move an email to another mailbox",
		Long: `Move an email to another mailbox, identified by id, name or role.

The email leaves every mailbox it is currently in.`,
		Args: cobra.ExactArgs(2),
		RunE: runE(app, func(cmd *cobra.Command, args []string, app *App) error {
			svc, err := app.MailService(cmd.Context())
			if err != nil {
				return err
			}

			target, err := resolveMailboxArg(cmd, svc, args[1])
			if err != nil {
				return err
			}

			if err := svc.MoveEmail(cmd.Context(), args[0], target.ID); err != nil {
				return cerrors.WithContext(err, "moving email")
			}

			if app.IsJSON(cmd.Context()) {
				return app.PrintJSON(cmd, map[string]any{
					"id":      args[0],
					"mailbox": target.ID,
				})
			}
			app.UI.Success(fmt.Sprintf("Moved %s to %s", args[0], target.Name))
			return nil
		}),
	}

	return cmd
}

func newEmailDeleteCmd(app *App) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <emailId>",
		Short: "Delete an email",
		Long: `Delete an email by moving it to the trash mailbox.

Accounts without a trash mailbox destroy the email permanently.`,
		Args: cobra.ExactArgs(1),
		RunE: runE(app, func(cmd *cobra.Command, args []string, app *App) error {
			svc, err := app.MailService(cmd.Context())
			if err != nil {
				return err
			}

			ok, err := app.Confirm(cmd, force, fmt.Sprintf("Delete email %s? [y/N] ", args[0]), "y", "yes")
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}

			if err := svc.DeleteEmail(cmd.Context(), args[0]); err != nil {
				return cerrors.WithContext(err, "deleting email")
			}

			if app.IsJSON(cmd.Context()) {
				return app.PrintJSON(cmd, map[string]any{"deleted": args[0]})
			}
			app.UI.Success(fmt.Sprintf("Deleted %s", args[0]))
			return nil
		}),
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip the confirmation prompt")
	return cmd
}

// resolveMailboxArg turns a user-supplied mailbox selector (id, name or
// role) into a concrete mailbox.
func resolveMailboxArg(cmd *cobra.Command, svc jmap.MailService, selector string) (*jmap.Mailbox, error) {
	mailboxes, err := svc.GetMailboxes(cmd.Context())
	if err != nil {
		return nil, cerrors.WithContext(err, "fetching mailboxes")
	}
	target, ok := jmap.ResolveMailbox(mailboxes, selector)
	if !ok {
		return nil, fmt.Errorf("mailbox %q not found", selector)
	}
	return target, nil
}
