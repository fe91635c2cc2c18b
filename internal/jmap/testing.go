package jmap

import (
	"context"
	"io"
	"time"
)

// MockMailService implements MailService for testing.
// Each method can be overridden by setting the corresponding Func field.
// If a Func is not set, the method returns nil/empty values.
type MockMailService struct {
	GetMailboxesFunc       func(ctx context.Context) ([]Mailbox, error)
	GetEmailsFunc          func(ctx context.Context, mailboxID string, opts ListOptions) (*EmailPage, error)
	SearchEmailsFunc       func(ctx context.Context, query string, limit int) (*SearchResult, error)
	GetEmailByIDFunc       func(ctx context.Context, id string) (*Email, error)
	MarkEmailReadFunc      func(ctx context.Context, id string, read bool) error
	MoveEmailFunc          func(ctx context.Context, id, toMailboxID string) error
	DeleteEmailFunc        func(ctx context.Context, id string) error
	GetIdentitiesFunc      func(ctx context.Context) ([]Identity, error)
	SendEmailFunc          func(ctx context.Context, opts SendEmailOpts) ([]MethodResponse, error)
	UploadBlobFunc         func(ctx context.Context, r io.Reader, contentType string) (*UploadBlobResult, error)
	DownloadAttachmentFunc func(ctx context.Context, blobID, name, contentType string) (io.ReadCloser, error)
	AttachmentURLFunc      func(blobID, name, contentType string) string
	StartPollingFunc       func(ctx context.Context, onChange func(ChangeEvent), interval time.Duration)
	StopPollingFunc        func()
	OnUpdateFunc           func(fn func(ChangeEvent)) func()
}

func (m *MockMailService) GetMailboxes(ctx context.Context) ([]Mailbox, error) {
	if m.GetMailboxesFunc != nil {
		return m.GetMailboxesFunc(ctx)
	}
	return nil, nil
}

func (m *MockMailService) GetEmails(ctx context.Context, mailboxID string, opts ListOptions) (*EmailPage, error) {
	if m.GetEmailsFunc != nil {
		return m.GetEmailsFunc(ctx, mailboxID, opts)
	}
	return &EmailPage{}, nil
}

func (m *MockMailService) SearchEmails(ctx context.Context, query string, limit int) (*SearchResult, error) {
	if m.SearchEmailsFunc != nil {
		return m.SearchEmailsFunc(ctx, query, limit)
	}
	return &SearchResult{}, nil
}

func (m *MockMailService) GetEmailByID(ctx context.Context, id string) (*Email, error) {
	if m.GetEmailByIDFunc != nil {
		return m.GetEmailByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockMailService) MarkEmailRead(ctx context.Context, id string, read bool) error {
	if m.MarkEmailReadFunc != nil {
		return m.MarkEmailReadFunc(ctx, id, read)
	}
	return nil
}

func (m *MockMailService) MoveEmail(ctx context.Context, id, toMailboxID string) error {
	if m.MoveEmailFunc != nil {
		return m.MoveEmailFunc(ctx, id, toMailboxID)
	}
	return nil
}

func (m *MockMailService) DeleteEmail(ctx context.Context, id string) error {
	if m.DeleteEmailFunc != nil {
		return m.DeleteEmailFunc(ctx, id)
	}
	return nil
}

func (m *MockMailService) GetIdentities(ctx context.Context) ([]Identity, error) {
	if m.GetIdentitiesFunc != nil {
		return m.GetIdentitiesFunc(ctx)
	}
	return nil, nil
}

func (m *MockMailService) SendEmail(ctx context.Context, opts SendEmailOpts) ([]MethodResponse, error) {
	if m.SendEmailFunc != nil {
		return m.SendEmailFunc(ctx, opts)
	}
	return nil, nil
}

func (m *MockMailService) UploadBlob(ctx context.Context, r io.Reader, contentType string) (*UploadBlobResult, error) {
	if m.UploadBlobFunc != nil {
		return m.UploadBlobFunc(ctx, r, contentType)
	}
	return nil, nil
}

func (m *MockMailService) DownloadAttachment(ctx context.Context, blobID, name, contentType string) (io.ReadCloser, error) {
	if m.DownloadAttachmentFunc != nil {
		return m.DownloadAttachmentFunc(ctx, blobID, name, contentType)
	}
	return nil, nil
}

func (m *MockMailService) AttachmentURL(blobID, name, contentType string) string {
	if m.AttachmentURLFunc != nil {
		return m.AttachmentURLFunc(blobID, name, contentType)
	}
	return ""
}

func (m *MockMailService) StartPolling(ctx context.Context, onChange func(ChangeEvent), interval time.Duration) {
	if m.StartPollingFunc != nil {
		m.StartPollingFunc(ctx, onChange, interval)
	}
}

func (m *MockMailService) StopPolling() {
	if m.StopPollingFunc != nil {
		m.StopPollingFunc()
	}
}

func (m *MockMailService) OnUpdate(fn func(ChangeEvent)) func() {
	if m.OnUpdateFunc != nil {
		return m.OnUpdateFunc(fn)
	}
	return func() {}
}

var _ MailService = (*MockMailService)(nil)
