package jmap

import (
	"context"
	"io"
	"time"
)

// MailService is the full client surface consumed by commands. It
// exists so command handlers can be tested against a mock instead of a
// live server.
type MailService interface {
	GetMailboxes(ctx context.Context) ([]Mailbox, error)
	GetEmails(ctx context.Context, mailboxID string, opts ListOptions) (*EmailPage, error)
	SearchEmails(ctx context.Context, query string, limit int) (*SearchResult, error)
	GetEmailByID(ctx context.Context, id string) (*Email, error)
	MarkEmailRead(ctx context.Context, id string, read bool) error
	MoveEmail(ctx context.Context, id, toMailboxID string) error
	DeleteEmail(ctx context.Context, id string) error
	GetIdentities(ctx context.Context) ([]Identity, error)
	SendEmail(ctx context.Context, opts SendEmailOpts) ([]MethodResponse, error)
	UploadBlob(ctx context.Context, r io.Reader, contentType string) (*UploadBlobResult, error)
	DownloadAttachment(ctx context.Context, blobID, name, contentType string) (io.ReadCloser, error)
	AttachmentURL(blobID, name, contentType string) string
	StartPolling(ctx context.Context, onChange func(ChangeEvent), interval time.Duration)
	StopPolling()
	OnUpdate(fn func(ChangeEvent)) func()
}

var _ MailService = (*Client)(nil)
