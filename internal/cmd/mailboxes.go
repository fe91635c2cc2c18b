package cmd

import (
	"fmt"
	"sort"

	cerrors "github.com/klappstuhl/stalmail/internal/errors"
	"github.com/spf13/cobra"
)

func newMailboxesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "mailboxes",
		Aliases: []string{"folders"},
		Short:   "List mailboxes with unread counts",
		Args:    cobra.NoArgs,
		RunE: runE(app, func(cmd *cobra.Command, _ []string, app *App) error {
			svc, err := app.MailService(cmd.Context())
			if err != nil {
				return err
			}

			mailboxes, err := svc.GetMailboxes(cmd.Context())
			if err != nil {
				return cerrors.WithContext(err, "fetching mailboxes")
			}

			sort.SliceStable(mailboxes, func(i, j int) bool {
				if mailboxes[i].SortOrder != mailboxes[j].SortOrder {
					return mailboxes[i].SortOrder < mailboxes[j].SortOrder
				}
				return mailboxes[i].Name < mailboxes[j].Name
			})

			if app.IsJSON(cmd.Context()) {
				return app.PrintJSON(cmd, map[string]any{"mailboxes": mailboxes})
			}

			if len(mailboxes) == 0 {
				printNoResults("No mailboxes found")
				return nil
			}

			w := newTabWriter()
			fmt.Fprintln(w, "ID\tNAME\tROLE\tTOTAL\tUNREAD")
			for _, mb := range mailboxes {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\n",
					mb.ID, sanitizeTab(mb.Name), mb.Role, mb.TotalEmails, mb.UnreadEmails)
			}
			return w.Flush()
		}),
	}

	return cmd
}
