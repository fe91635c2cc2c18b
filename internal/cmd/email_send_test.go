package cmd

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/klappstuhl/stalmail/internal/jmap"
)

func TestEmailSend_PassesOptions(t *testing.T) {
	var gotOpts jmap.SendEmailOpts
	svc := &jmap.MockMailService{
		SendEmailFunc: func(ctx context.Context, opts jmap.SendEmailOpts) ([]jmap.MethodResponse, error) {
			gotOpts = opts
			return nil, nil
		},
	}

	_, _, err := runCommand(t, svc, "email", "send",
		"--to", "alice@example.com",
		"--to", "bob@example.com",
		"--cc", "carol@example.com",
		"--bcc", "dave@example.com",
		"--subject", "Stock count",
		"--body", "Numbers attached.",
		"--reply-to", "office@example.com",
	)
	if err != nil {
		t.Fatalf("email send error = %v", err)
	}

	want := jmap.SendEmailOpts{
		To:       []string{"alice@example.com", "bob@example.com"},
		CC:       []string{"carol@example.com"},
		BCC:      []string{"dave@example.com"},
		Subject:  "Stock count",
		TextBody: "Numbers attached.",
		ReplyTo:  "office@example.com",
	}
	if diff := cmp.Diff(want, gotOpts); diff != "" {
		t.Errorf("SendEmail opts mismatch (-want +got):\n%s", diff)
	}
}

func TestEmailSend_RequiresRecipient(t *testing.T) {
	called := false
	svc := &jmap.MockMailService{
		SendEmailFunc: func(ctx context.Context, opts jmap.SendEmailOpts) ([]jmap.MethodResponse, error) {
			called = true
			return nil, nil
		},
	}

	_, _, err := runCommand(t, svc, "email", "send", "--subject", "x", "--body", "y")
	if err == nil {
		t.Fatal("expected error without --to")
	}
	if called {
		t.Error("SendEmail called without recipients")
	}
}

func TestEmailSend_RequiresBody(t *testing.T) {
	svc := &jmap.MockMailService{}

	_, _, err := runCommand(t, svc, "email", "send", "--to", "a@example.com", "--subject", "x")
	if err == nil {
		t.Fatal("expected error without --body or --html")
	}
}

func TestEmailSend_RejectsInvalidAddress(t *testing.T) {
	svc := &jmap.MockMailService{}

	_, _, err := runCommand(t, svc, "email", "send",
		"--to", "not-an-address", "--subject", "x", "--body", "y")
	if err == nil {
		t.Fatal("expected error for invalid address")
	}
}

func TestEmailSend_UploadsAttachments(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.4 fake"), 0o600); err != nil {
		t.Fatal(err)
	}

	var uploadedType string
	var uploadedBody []byte
	var gotOpts jmap.SendEmailOpts
	svc := &jmap.MockMailService{
		UploadBlobFunc: func(ctx context.Context, r io.Reader, contentType string) (*jmap.UploadBlobResult, error) {
			body, err := io.ReadAll(r)
			if err != nil {
				return nil, err
			}
			uploadedType = contentType
			uploadedBody = body
			return &jmap.UploadBlobResult{
				AccountID: "acc1",
				BlobID:    "b100",
				Type:      contentType,
				Size:      int64(len(body)),
			}, nil
		},
		SendEmailFunc: func(ctx context.Context, opts jmap.SendEmailOpts) ([]jmap.MethodResponse, error) {
			gotOpts = opts
			return nil, nil
		},
	}

	_, _, err := runCommand(t, svc, "email", "send",
		"--to", "alice@example.com",
		"--subject", "Report",
		"--body", "Attached.",
		"--attach", path+":quarterly.pdf",
	)
	if err != nil {
		t.Fatalf("email send error = %v", err)
	}

	if uploadedType != "application/pdf" {
		t.Errorf("upload content type = %q, want application/pdf", uploadedType)
	}
	if string(uploadedBody) != "%PDF-1.4 fake" {
		t.Errorf("uploaded body = %q", uploadedBody)
	}

	want := []jmap.AttachmentOpts{{
		BlobID: "b100",
		Type:   "application/pdf",
		Name:   "quarterly.pdf",
		Size:   13,
	}}
	if diff := cmp.Diff(want, gotOpts.Attachments); diff != "" {
		t.Errorf("attachments mismatch (-want +got):\n%s", diff)
	}
}

func TestEmailSend_MissingAttachmentFile(t *testing.T) {
	sent := false
	svc := &jmap.MockMailService{
		SendEmailFunc: func(ctx context.Context, opts jmap.SendEmailOpts) ([]jmap.MethodResponse, error) {
			sent = true
			return nil, nil
		},
	}

	_, _, err := runCommand(t, svc, "email", "send",
		"--to", "alice@example.com",
		"--subject", "x", "--body", "y",
		"--attach", "/nonexistent/file.bin")
	if err == nil {
		t.Fatal("expected error for missing attachment file")
	}
	if sent {
		t.Error("SendEmail called despite failed upload")
	}
}

func TestEmailSend_SubmissionError(t *testing.T) {
	svc := &jmap.MockMailService{
		SendEmailFunc: func(ctx context.Context, opts jmap.SendEmailOpts) ([]jmap.MethodResponse, error) {
			return nil, &jmap.SubmissionError{Type: "forbiddenFrom", Description: "sender not allowed"}
		},
	}

	_, _, err := runCommand(t, svc, "email", "send",
		"--to", "alice@example.com", "--subject", "x", "--body", "y")
	if err == nil {
		t.Fatal("expected submission error")
	}
	if !strings.Contains(err.Error(), "sender not allowed") {
		t.Errorf("error %q missing server description", err)
	}
}

func TestEmailIdentities_Table(t *testing.T) {
	svc := &jmap.MockMailService{
		GetIdentitiesFunc: func(ctx context.Context) ([]jmap.Identity, error) {
			return []jmap.Identity{
				{ID: "ident1", Name: "Office", Email: "office@example.com"},
			}, nil
		},
	}

	stdout, _, err := runCommand(t, svc, "email", "identities")
	if err != nil {
		t.Fatalf("email identities error = %v", err)
	}
	if !strings.Contains(stdout, "office@example.com") {
		t.Errorf("output missing identity:\n%s", stdout)
	}
}
