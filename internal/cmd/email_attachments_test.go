package cmd

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klappstuhl/stalmail/internal/jmap"
)

func TestAttachmentsList(t *testing.T) {
	svc := &jmap.MockMailService{
		GetEmailByIDFunc: func(ctx context.Context, id string) (*jmap.Email, error) {
			return detailedEmail(), nil
		},
	}

	stdout, _, err := runCommand(t, svc, "email", "attachments", "list", "m42")
	if err != nil {
		t.Fatalf("attachments list error = %v", err)
	}
	for _, want := range []string{"b9", "count.pdf", "application/pdf", "2.0 KB"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("output missing %q:\n%s", want, stdout)
		}
	}
}

func TestAttachmentsList_DirectEmailID(t *testing.T) {
	svc := &jmap.MockMailService{
		GetEmailByIDFunc: func(ctx context.Context, id string) (*jmap.Email, error) {
			return detailedEmail(), nil
		},
	}

	// The email id can follow "attachments" without the list subcommand.
	stdout, _, err := runCommand(t, svc, "email", "attachments", "m42")
	if err != nil {
		t.Fatalf("attachments error = %v", err)
	}
	if !strings.Contains(stdout, "count.pdf") {
		t.Errorf("output missing attachment row:\n%s", stdout)
	}
}

func TestAttachmentsList_NoneFound(t *testing.T) {
	svc := &jmap.MockMailService{
		GetEmailByIDFunc: func(ctx context.Context, id string) (*jmap.Email, error) {
			e := testEmail("m1")
			return &e, nil
		},
	}

	_, stderr, err := runCommand(t, svc, "email", "attachments", "list", "m1")
	if err != nil {
		t.Fatalf("attachments list error = %v", err)
	}
	if !strings.Contains(stderr, "No attachments") {
		t.Errorf("missing empty notice: %q", stderr)
	}
}

func TestAttachmentsDownload(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "out.pdf")

	svc := &jmap.MockMailService{
		GetEmailByIDFunc: func(ctx context.Context, id string) (*jmap.Email, error) {
			return detailedEmail(), nil
		},
		DownloadAttachmentFunc: func(ctx context.Context, blobID, name, contentType string) (io.ReadCloser, error) {
			if blobID != "b9" || name != "count.pdf" || contentType != "application/pdf" {
				t.Errorf("DownloadAttachment(%q, %q, %q)", blobID, name, contentType)
			}
			return io.NopCloser(strings.NewReader("pdf bytes")), nil
		},
	}

	stdout, _, err := runCommand(t, svc, "email", "attachments", "download", "m42", "b9", "--output", dest)
	if err != nil {
		t.Fatalf("attachments download error = %v", err)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("reading downloaded file: %v", err)
	}
	if string(data) != "pdf bytes" {
		t.Errorf("file content = %q", data)
	}
	if !strings.Contains(stdout, "Saved") {
		t.Errorf("missing confirmation:\n%s", stdout)
	}
}

func TestAttachmentsDownload_UnknownBlob(t *testing.T) {
	svc := &jmap.MockMailService{
		GetEmailByIDFunc: func(ctx context.Context, id string) (*jmap.Email, error) {
			return detailedEmail(), nil
		},
	}

	_, _, err := runCommand(t, svc, "email", "attachments", "download", "m42", "missing")
	if err == nil {
		t.Fatal("expected error for unknown blob id")
	}
	if !strings.Contains(err.Error(), "missing") {
		t.Errorf("error %q does not name the blob", err)
	}
}

func TestAttachmentsURL(t *testing.T) {
	svc := &jmap.MockMailService{
		GetEmailByIDFunc: func(ctx context.Context, id string) (*jmap.Email, error) {
			return detailedEmail(), nil
		},
		AttachmentURLFunc: func(blobID, name, contentType string) string {
			return "https://mail.example.com/jmap/download/acc1/" + blobID + "/" + name
		},
	}

	stdout, _, err := runCommand(t, svc, "email", "attachments", "url", "m42", "b9")
	if err != nil {
		t.Fatalf("attachments url error = %v", err)
	}
	if !strings.Contains(stdout, "/jmap/download/acc1/b9/count.pdf") {
		t.Errorf("unexpected url output:\n%s", stdout)
	}
}
