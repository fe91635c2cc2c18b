package cmd

import (
	"fmt"
	"os"

	cerrors "github.com/klappstuhl/stalmail/internal/errors"
	"github.com/klappstuhl/stalmail/internal/format"
	"github.com/klappstuhl/stalmail/internal/jmap"
	"github.com/klappstuhl/stalmail/internal/validation"
	"github.com/spf13/cobra"
)

func newEmailSendCmd(app *App) *cobra.Command {
	var (
		to, cc, bcc []string
		subject     string
		body        string
		htmlBody    string
		replyTo     string
		inReplyTo   string
		attach      []string
	)

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Compose and send an email",
		Long: `Compose and send an email through the account's first sending
identity. The draft and the submission travel in one request, so a
rejected message never lingers as a stray draft.

Attachments are uploaded first. The --attach flag takes a file path,
optionally followed by ':name' to override the attachment filename.`,
		Example: `  stalmail email send --to alice@example.com --subject "Hi" --body "Hello"
  stalmail email send --to bob@example.com --subject "Report" --body "Attached." --attach report.pdf
  stalmail email send --to carol@example.com --subject "Q3" --attach data.csv:q3-data.csv --body "Numbers inside."`,
		Args: cobra.NoArgs,
		RunE: runE(app, func(cmd *cobra.Command, _ []string, app *App) error {
			if len(to) == 0 {
				return fmt.Errorf("at least one --to recipient is required")
			}
			if subject == "" {
				return fmt.Errorf("--subject is required")
			}
			if body == "" && htmlBody == "" {
				return fmt.Errorf("either --body or --html is required")
			}
			for _, addr := range append(append(append([]string{}, to...), cc...), bcc...) {
				if err := validation.Email(addr); err != nil {
					return err
				}
			}
			if replyTo != "" {
				if err := validation.Email(replyTo); err != nil {
					return err
				}
			}

			svc, err := app.MailService(cmd.Context())
			if err != nil {
				return err
			}

			attachments, err := uploadAttachments(cmd, svc, attach)
			if err != nil {
				return err
			}

			opts := jmap.SendEmailOpts{
				To:          to,
				CC:          cc,
				BCC:         bcc,
				Subject:     subject,
				TextBody:    body,
				HTMLBody:    htmlBody,
				ReplyTo:     replyTo,
				Attachments: attachments,
			}
			if inReplyTo != "" {
				opts.InReplyTo = []string{inReplyTo}
			}
			if _, err := svc.SendEmail(cmd.Context(), opts); err != nil {
				return cerrors.WithContext(err, "sending email")
			}

			if app.IsJSON(cmd.Context()) {
				return app.PrintJSON(cmd, map[string]any{
					"sent":    true,
					"to":      to,
					"subject": subject,
				})
			}
			app.UI.Success(fmt.Sprintf("Email sent to %s", format.FormatEmailAddressList(toAddresses(to))))
			return nil
		}),
	}

	cmd.Flags().StringSliceVar(&to, "to", nil, "Recipient address (repeatable)")
	cmd.Flags().StringSliceVar(&cc, "cc", nil, "CC address (repeatable)")
	cmd.Flags().StringSliceVar(&bcc, "bcc", nil, "BCC address (repeatable)")
	cmd.Flags().StringVar(&subject, "subject", "", "Subject line")
	cmd.Flags().StringVar(&body, "body", "", "Plain-text body")
	cmd.Flags().StringVar(&htmlBody, "html", "", "HTML body")
	cmd.Flags().StringVar(&replyTo, "reply-to", "", "Reply-To address")
	cmd.Flags().StringVar(&inReplyTo, "in-reply-to", "", "Message-ID this email replies to")
	cmd.Flags().StringSliceVar(&attach, "attach", nil, "File to attach, as path or path:name (repeatable)")

	return cmd
}

// uploadAttachments uploads each --attach file and returns the
// attachment references for the draft.
func uploadAttachments(cmd *cobra.Command, svc jmap.MailService, flags []string) ([]jmap.AttachmentOpts, error) {
	var attachments []jmap.AttachmentOpts
	for _, flag := range flags {
		path, name, err := format.ParseAttachmentFlag(flag)
		if err != nil {
			return nil, err
		}

		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening attachment: %w", err)
		}

		contentType := format.MimeType(name)
		uploaded, err := svc.UploadBlob(cmd.Context(), f, contentType)
		f.Close()
		if err != nil {
			return nil, cerrors.WithContext(err, fmt.Sprintf("uploading %s", name))
		}

		attachments = append(attachments, jmap.AttachmentOpts{
			BlobID: uploaded.BlobID,
			Type:   uploaded.Type,
			Name:   name,
			Size:   uploaded.Size,
		})
	}
	return attachments, nil
}

func toAddresses(addrs []string) []jmap.EmailAddress {
	out := make([]jmap.EmailAddress, len(addrs))
	for i, a := range addrs {
		out[i] = jmap.EmailAddress{Email: a}
	}
	return out
}

func newEmailIdentitiesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "identities",
		Short: "List sending identities",
		Args:  cobra.NoArgs,
		RunE: runE(app, func(cmd *cobra.Command, _ []string, app *App) error {
			svc, err := app.MailService(cmd.Context())
			if err != nil {
				return err
			}

			identities, err := svc.GetIdentities(cmd.Context())
			if err != nil {
				return cerrors.WithContext(err, "fetching identities")
			}

			if app.IsJSON(cmd.Context()) {
				return app.PrintJSON(cmd, map[string]any{"identities": identities})
			}

			if len(identities) == 0 {
				printNoResults("No sending identities configured")
				return nil
			}

			w := newTabWriter()
			fmt.Fprintln(w, "ID\tNAME\tEMAIL")
			for _, id := range identities {
				fmt.Fprintf(w, "%s\t%s\t%s\n",
					id.ID, sanitizeTab(id.Name), sanitizeTab(id.Email))
			}
			return w.Flush()
		}),
	}

	return cmd
}
