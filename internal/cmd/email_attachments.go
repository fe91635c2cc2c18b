package cmd

import (
	"fmt"
	"io"
	"os"

	cerrors "github.com/klappstuhl/stalmail/internal/errors"
	"github.com/klappstuhl/stalmail/internal/format"
	"github.com/klappstuhl/stalmail/internal/jmap"
	"github.com/spf13/cobra"
)

func newEmailAttachmentsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "attachments [emailId]",
		Short: "List and download email attachments",
		Args:  cobra.MaximumNArgs(1),
		RunE: runE(app, func(cmd *cobra.Command, args []string, app *App) error {
			// Desire path: `attachments <emailId>` lists directly.
			if len(args) == 0 {
				return cmd.Help()
			}
			return runAttachmentsList(cmd, app, args[0])
		}),
	}

	cmd.AddCommand(newAttachmentsListCmd(app))
	cmd.AddCommand(newAttachmentsDownloadCmd(app))
	cmd.AddCommand(newAttachmentsURLCmd(app))

	return cmd
}

func newAttachmentsListCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list <emailId>",
		Short: "List attachments of an email",
		Args:  cobra.ExactArgs(1),
		RunE: runE(app, func(cmd *cobra.Command, args []string, app *App) error {
			return runAttachmentsList(cmd, app, args[0])
		}),
	}

	return cmd
}

func runAttachmentsList(cmd *cobra.Command, app *App, emailID string) error {
	svc, err := app.MailService(cmd.Context())
	if err != nil {
		return err
	}

	email, err := svc.GetEmailByID(cmd.Context(), emailID)
	if err != nil {
		return cerrors.WithContext(err, "fetching email")
	}

	if app.IsJSON(cmd.Context()) {
		return app.PrintJSON(cmd, map[string]any{
			"emailId":     email.ID,
			"attachments": email.Attachments,
		})
	}

	if len(email.Attachments) == 0 {
		printNoResults("No attachments on %s", emailID)
		return nil
	}

	w := newTabWriter()
	fmt.Fprintln(w, "BLOB ID\tNAME\tTYPE\tSIZE")
	for _, att := range email.Attachments {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			att.BlobID, sanitizeTab(att.Name), att.Type, format.FormatBytes(att.Size))
	}
	return w.Flush()
}

func newAttachmentsDownloadCmd(app *App) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "download <emailId> <blobId>",
		Short: "Download an attachment",
		Long: `Download one attachment of an email by its blob id. The file is
written to the attachment's own name unless --output names a path; the
filename is sanitized so a hostile attachment name cannot escape the
working directory.`,
		Args: cobra.ExactArgs(2),
		RunE: runE(app, func(cmd *cobra.Command, args []string, app *App) error {
			svc, err := app.MailService(cmd.Context())
			if err != nil {
				return err
			}

			att, err := findAttachment(cmd, svc, args[0], args[1])
			if err != nil {
				return err
			}

			body, err := svc.DownloadAttachment(cmd.Context(), att.BlobID, att.Name, att.Type)
			if err != nil {
				return cerrors.WithContext(err, "downloading attachment")
			}
			defer body.Close()

			dest := output
			if dest == "" {
				dest = format.SanitizeFilename(att.Name)
			}
			f, err := os.Create(dest)
			if err != nil {
				return fmt.Errorf("creating %s: %w", dest, err)
			}
			written, err := io.Copy(f, body)
			if cerr := f.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				return fmt.Errorf("writing %s: %w", dest, err)
			}

			if app.IsJSON(cmd.Context()) {
				return app.PrintJSON(cmd, map[string]any{
					"file":  dest,
					"bytes": written,
				})
			}
			app.UI.Success(fmt.Sprintf("Saved %s (%s)", dest, format.FormatBytes(written)))
			return nil
		}),
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Destination path")
	return cmd
}

func newAttachmentsURLCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "url <emailId> <blobId>",
		Short: "Print the download URL of an attachment",
		Args:  cobra.ExactArgs(2),
		RunE: runE(app, func(cmd *cobra.Command, args []string, app *App) error {
			svc, err := app.MailService(cmd.Context())
			if err != nil {
				return err
			}

			att, err := findAttachment(cmd, svc, args[0], args[1])
			if err != nil {
				return err
			}

			url := svc.AttachmentURL(att.BlobID, att.Name, att.Type)
			if app.IsJSON(cmd.Context()) {
				return app.PrintJSON(cmd, map[string]any{"url": url})
			}
			fmt.Println(url)
			return nil
		}),
	}

	return cmd
}

// findAttachment locates an attachment of the given email by blob id.
func findAttachment(cmd *cobra.Command, svc jmap.MailService, emailID, blobID string) (*jmap.Attachment, error) {
	email, err := svc.GetEmailByID(cmd.Context(), emailID)
	if err != nil {
		return nil, cerrors.WithContext(err, "fetching email")
	}
	for i := range email.Attachments {
		if email.Attachments[i].BlobID == blobID {
			return &email.Attachments[i], nil
		}
	}
	return nil, fmt.Errorf("attachment %q not found on email %s", blobID, emailID)
}
