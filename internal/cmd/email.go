package cmd

import (
	"github.com/spf13/cobra"
)

func newEmailCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "email",
		Short: "Email operations",
	}

	cmd.AddCommand(newEmailListCmd(app))
	cmd.AddCommand(newEmailSearchCmd(app))
	cmd.AddCommand(newEmailGetCmd(app))
	cmd.AddCommand(newEmailSendCmd(app))
	cmd.AddCommand(newEmailReadCmd(app))
	cmd.AddCommand(newEmailMoveCmd(app))
	cmd.AddCommand(newEmailDeleteCmd(app))
	cmd.AddCommand(newEmailAttachmentsCmd(app))
	cmd.AddCommand(newEmailIdentitiesCmd(app))

	return cmd
}

// Top-level shortcuts for the most common workflows.

func newListShortcutCmd(app *App) *cobra.Command {
	cmd := newEmailListCmd(app)
	cmd.Use = "list"
	cmd.Short = "List emails (shortcut for 'email list')"
	return cmd
}

func newSearchShortcutCmd(app *App) *cobra.Command {
	cmd := newEmailSearchCmd(app)
	cmd.Use = "search <query>"
	cmd.Short = "Search emails (shortcut for 'email search')"
	return cmd
}

func newGetShortcutCmd(app *App) *cobra.Command {
	cmd := newEmailGetCmd(app)
	cmd.Use = "get <emailId>"
	cmd.Short = "Show an email (shortcut for 'email get')"
	return cmd
}

func newSendShortcutCmd(app *App) *cobra.Command {
	cmd := newEmailSendCmd(app)
	cmd.Use = "send"
	cmd.Short = "Send an email (shortcut for 'email send')"
	return cmd
}
