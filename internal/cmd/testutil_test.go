package cmd

import (
	"bytes"
	"context"
	"io"
	"os"
	"testing"

	"github.com/klappstuhl/stalmail/internal/jmap"
)

// runCommand executes a full command line against an injected mail
// service and returns captured stdout, stderr and the command error.
func runCommand(t *testing.T, svc jmap.MailService, args ...string) (string, string, error) {
	t.Helper()

	app := NewApp()
	app.Flags.Color = "never"
	app.NewMailService = func(ctx context.Context) (jmap.MailService, error) {
		return svc, nil
	}

	root := NewRootCmd(app)
	root.SetArgs(args)

	var err error
	stdout, stderr := captureOutput(t, func() {
		err = root.Execute()
	})
	return stdout, stderr, err
}

// captureOutput redirects os.Stdout and os.Stderr for the duration of
// fn. Command handlers print through fmt and outfmt, both of which
// write to the process streams directly.
func captureOutput(t *testing.T, fn func()) (string, string) {
	t.Helper()

	origOut, origErr := os.Stdout, os.Stderr
	outR, outW, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe() error = %v", err)
	}
	errR, errW, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe() error = %v", err)
	}
	os.Stdout, os.Stderr = outW, errW

	outCh := make(chan string, 1)
	errCh := make(chan string, 1)
	go func() {
		var buf bytes.Buffer
		io.Copy(&buf, outR)
		outCh <- buf.String()
	}()
	go func() {
		var buf bytes.Buffer
		io.Copy(&buf, errR)
		errCh <- buf.String()
	}()

	defer func() {
		os.Stdout, os.Stderr = origOut, origErr
	}()
	fn()

	outW.Close()
	errW.Close()
	os.Stdout, os.Stderr = origOut, origErr
	return <-outCh, <-errCh
}

func testMailboxes() []jmap.Mailbox {
	return []jmap.Mailbox{
		{ID: "mb-inbox", Name: "Inbox", Role: "inbox", SortOrder: 1, TotalEmails: 12, UnreadEmails: 3},
		{ID: "mb-archive", Name: "Archive", Role: "archive", SortOrder: 3, TotalEmails: 100},
		{ID: "mb-trash", Name: "Trash", Role: "trash", SortOrder: 4},
	}
}

func testEmail(id string) jmap.Email {
	return jmap.Email{
		ID:         id,
		ThreadID:   "t-" + id,
		MailboxIDs: map[string]bool{"mb-inbox": true},
		From:       []jmap.EmailAddress{{Name: "Ruth Meier", Email: "ruth@example.com"}},
		To:         []jmap.EmailAddress{{Email: "me@example.com"}},
		Subject:    "Delivery schedule " + id,
		ReceivedAt: "2026-03-02T09:15:00Z",
		Preview:    "The schedule for next week is attached.",
		Keywords:   map[string]bool{},
	}
}
