package jmap

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const testIdentities = `[["Identity/get", {"accountId": "acc1", "list": [
	{"id": "ident1", "name": "Me", "email": "me@example.com"},
	{"id": "ident2", "name": "Alias", "email": "alias@example.com"}
]}, "a"]]`

const testSendMailboxes = `[["Mailbox/get", {"accountId": "acc1", "state": "mb1", "list": [
	{"id": "d1", "name": "Drafts", "role": "drafts", "totalEmails": 0, "unreadEmails": 0},
	{"id": "s1", "name": "Sent", "role": "sent", "totalEmails": 0, "unreadEmails": 0}
]}, "a"]]`

const testSendSuccess = `[
	["Email/set", {"accountId": "acc1", "created": {"draft": {"id": "e-new", "blobId": "b-new"}}}, "a"],
	["EmailSubmission/set", {"accountId": "acc1", "created": {"submission": {"id": "sub1"}}}, "b"]
]`

// sendResponder answers the three requests SendEmail issues: identities,
// mailboxes, then the batched create-and-submit.
func sendResponder(submitResponse string) func(req recordedRequest) string {
	return func(req recordedRequest) string {
		switch req.calls[0].Name {
		case "Identity/get":
			return testIdentities
		case "Mailbox/get":
			return testSendMailboxes
		case "Email/set":
			return submitResponse
		}
		return `[]`
	}
}

// submitRequest digs the batched Email/set + EmailSubmission/set request
// out of the record.
func submitRequest(t *testing.T, ts *testServer) recordedRequest {
	t.Helper()
	for _, req := range ts.recorded() {
		if req.calls[0].Name == "Email/set" {
			return req
		}
	}
	t.Fatal("no Email/set batch reached the server")
	return recordedRequest{}
}

func TestSendEmail_MinimalRequestShape(t *testing.T) {
	ts := newTestServer(t, sendResponder(testSendSuccess))
	client := newTestClient(t, ts)

	_, err := client.SendEmail(context.Background(), SendEmailOpts{
		To:       []string{"a@example.com"},
		Subject:  "hello",
		TextBody: "hi there",
	})
	if err != nil {
		t.Fatalf("SendEmail failed: %v", err)
	}

	req := submitRequest(t, ts)
	if len(req.calls) != 2 {
		t.Fatalf("got %d calls in the submit batch, want 2", len(req.calls))
	}

	set := req.calls[0]
	if set.Tag != "a" {
		t.Errorf("Email/set tag = %q, want %q", set.Tag, "a")
	}
	create, _ := set.Args["create"].(map[string]any)
	draft, _ := create["draft"].(map[string]any)
	if draft == nil {
		t.Fatalf("create = %v, want a draft entry", create)
	}

	from, _ := draft["from"].([]any)
	if len(from) != 1 {
		t.Fatalf("from = %v, want one sender", draft["from"])
	}
	sender, _ := from[0].(map[string]any)
	if sender["email"] != "me@example.com" {
		t.Errorf("from = %v, want the first identity's address", sender)
	}

	mailboxIDs, _ := draft["mailboxIds"].(map[string]any)
	if diff := cmp.Diff(map[string]any{"d1": true}, mailboxIDs); diff != "" {
		t.Errorf("draft mailboxIds mismatch (-want +got):\n%s", diff)
	}

	bodyValues, _ := draft["bodyValues"].(map[string]any)
	if _, ok := bodyValues["text"]; !ok {
		t.Errorf("bodyValues = %v, want a text part", bodyValues)
	}
	if _, ok := draft["htmlBody"]; ok {
		t.Error("htmlBody present although none was supplied")
	}

	submission := req.calls[1]
	if submission.Name != "EmailSubmission/set" || submission.Tag != "b" {
		t.Fatalf("second call = %s/%s, want EmailSubmission/set/b", submission.Name, submission.Tag)
	}
	subCreate, _ := submission.Args["create"].(map[string]any)
	sub, _ := subCreate["submission"].(map[string]any)
	if sub["emailId"] != "#draft" {
		t.Errorf("emailId = %v, want the #draft back-reference", sub["emailId"])
	}
	if sub["identityId"] != "ident1" {
		t.Errorf("identityId = %v, want ident1", sub["identityId"])
	}

	envelope, _ := sub["envelope"].(map[string]any)
	mailFrom, _ := envelope["mailFrom"].(map[string]any)
	if mailFrom["email"] != "me@example.com" {
		t.Errorf("mailFrom = %v", mailFrom)
	}
	rcptTo, _ := envelope["rcptTo"].([]any)
	want := []any{map[string]any{"email": "a@example.com"}}
	if diff := cmp.Diff(want, rcptTo); diff != "" {
		t.Errorf("rcptTo mismatch (-want +got):\n%s", diff)
	}

	onSuccess, _ := submission.Args["onSuccessUpdateEmail"].(map[string]any)
	filed, _ := onSuccess["#submission"].(map[string]any)
	if filed == nil {
		t.Fatalf("onSuccessUpdateEmail = %v, want a #submission entry", onSuccess)
	}
	sentIDs, _ := filed["mailboxIds"].(map[string]any)
	if diff := cmp.Diff(map[string]any{"s1": true}, sentIDs); diff != "" {
		t.Errorf("sent filing mismatch (-want +got):\n%s", diff)
	}
	if value, present := filed["keywords/$draft"]; !present || value != nil {
		t.Errorf("keywords/$draft = %v (present=%v), want explicit null", value, present)
	}
}

func TestSendEmail_EnvelopeCoversAllRecipients(t *testing.T) {
	ts := newTestServer(t, sendResponder(testSendSuccess))
	client := newTestClient(t, ts)

	_, err := client.SendEmail(context.Background(), SendEmailOpts{
		To:      []string{"to1@example.com", "to2@example.com"},
		CC:      []string{"cc@example.com"},
		BCC:     []string{"bcc@example.com"},
		Subject: "all hands",
	})
	if err != nil {
		t.Fatalf("SendEmail failed: %v", err)
	}

	req := submitRequest(t, ts)
	sub := req.calls[1].Args["create"].(map[string]any)["submission"].(map[string]any)
	envelope := sub["envelope"].(map[string]any)
	rcptTo := envelope["rcptTo"].([]any)

	got := make(map[string]bool)
	for _, entry := range rcptTo {
		got[entry.(map[string]any)["email"].(string)] = true
	}
	for _, addr := range []string{"to1@example.com", "to2@example.com", "cc@example.com", "bcc@example.com"} {
		if !got[addr] {
			t.Errorf("rcptTo is missing %s", addr)
		}
	}

	// BCC recipients live in the envelope only.
	draft := req.calls[0].Args["create"].(map[string]any)["draft"].(map[string]any)
	bcc, _ := draft["bcc"].([]any)
	if len(bcc) != 1 {
		t.Errorf("draft bcc = %v", draft["bcc"])
	}
}

func TestSendEmail_NoIdentities(t *testing.T) {
	ts := newTestServer(t, func(req recordedRequest) string {
		switch req.calls[0].Name {
		case "Identity/get":
			return `[["Identity/get", {"accountId": "acc1", "list": []}, "a"]]`
		}
		return `[]`
	})
	client := newTestClient(t, ts)

	_, err := client.SendEmail(context.Background(), SendEmailOpts{
		To:      []string{"a@example.com"},
		Subject: "no sender",
	})
	if !errors.Is(err, ErrNoIdentities) {
		t.Fatalf("error = %v, want ErrNoIdentities", err)
	}

	// Nothing may be created when there is no identity to send as.
	for _, req := range ts.recorded() {
		for _, call := range req.calls {
			if call.Name == "Email/set" || call.Name == "EmailSubmission/set" {
				t.Errorf("mutation %s was issued without an identity", call.Name)
			}
		}
	}
}

func TestSendEmail_NoRecipients(t *testing.T) {
	ts := newTestServer(t, sendResponder(testSendSuccess))
	client := newTestClient(t, ts)

	_, err := client.SendEmail(context.Background(), SendEmailOpts{Subject: "to nobody"})
	if !errors.Is(err, ErrNoRecipients) {
		t.Fatalf("error = %v, want ErrNoRecipients", err)
	}
}

func TestSendEmail_DraftRejected(t *testing.T) {
	ts := newTestServer(t, sendResponder(`[
		["Email/set", {"accountId": "acc1", "notCreated": {"draft": {"type": "invalidProperties", "description": "invalid address in To header"}}}, "a"],
		["EmailSubmission/set", {"accountId": "acc1", "notCreated": {"submission": {"type": "invalidEmail"}}}, "b"]
	]`))
	client := newTestClient(t, ts)

	_, err := client.SendEmail(context.Background(), SendEmailOpts{
		To:      []string{"broken@"},
		Subject: "bad",
	})

	var se *SubmissionError
	if !errors.As(err, &se) {
		t.Fatalf("error = %v, want *SubmissionError", err)
	}
	// The message is exactly the server's description.
	if err.Error() != "invalid address in To header" {
		t.Errorf("message = %q, want the server description verbatim", err.Error())
	}
	if !IsSubmissionError(err) {
		t.Error("IsSubmissionError = false, want true")
	}
}

func TestSendEmail_SubmissionRejectedWithoutDescription(t *testing.T) {
	ts := newTestServer(t, sendResponder(`[
		["Email/set", {"accountId": "acc1", "created": {"draft": {"id": "e-new"}}}, "a"],
		["EmailSubmission/set", {"accountId": "acc1", "notCreated": {"submission": {"type": "tooManyRecipients"}}}, "b"]
	]`))
	client := newTestClient(t, ts)

	_, err := client.SendEmail(context.Background(), SendEmailOpts{
		To:      []string{"a@example.com"},
		Subject: "bulk",
	})

	var se *SubmissionError
	if !errors.As(err, &se) {
		t.Fatalf("error = %v, want *SubmissionError", err)
	}
	// Without a description the type stands in as the message.
	if err.Error() != "tooManyRecipients" {
		t.Errorf("message = %q, want the server type", err.Error())
	}
}

func TestSendEmail_MethodLevelError(t *testing.T) {
	ts := newTestServer(t, sendResponder(`[
		["error", {"type": "serverFail", "description": "disk full"}, "a"],
		["error", {"type": "resultReference"}, "b"]
	]`))
	client := newTestClient(t, ts)

	_, err := client.SendEmail(context.Background(), SendEmailOpts{
		To:      []string{"a@example.com"},
		Subject: "doomed",
	})

	var se *SubmissionError
	if !errors.As(err, &se) {
		t.Fatalf("error = %v, want *SubmissionError", err)
	}
	if err.Error() != "disk full" {
		t.Errorf("message = %q, want the first server description", err.Error())
	}
}

func TestSendEmail_WithAttachments(t *testing.T) {
	ts := newTestServer(t, sendResponder(testSendSuccess))
	client := newTestClient(t, ts)

	_, err := client.SendEmail(context.Background(), SendEmailOpts{
		To:      []string{"a@example.com"},
		Subject: "see attached",
		Attachments: []AttachmentOpts{
			{BlobID: "b7", Type: "application/pdf", Name: "report.pdf", Size: 2048},
		},
	})
	if err != nil {
		t.Fatalf("SendEmail failed: %v", err)
	}

	draft := submitRequest(t, ts).calls[0].Args["create"].(map[string]any)["draft"].(map[string]any)
	attachments, _ := draft["attachments"].([]any)
	if len(attachments) != 1 {
		t.Fatalf("attachments = %v", draft["attachments"])
	}
	att := attachments[0].(map[string]any)
	if att["blobId"] != "b7" || att["disposition"] != "attachment" {
		t.Errorf("attachment = %v", att)
	}
}

func TestGetIdentities(t *testing.T) {
	ts := newTestServer(t, sendResponder(`[]`))
	client := newTestClient(t, ts)

	identities, err := client.GetIdentities(context.Background())
	if err != nil {
		t.Fatalf("GetIdentities failed: %v", err)
	}

	want := []Identity{
		{ID: "ident1", Name: "Me", Email: "me@example.com"},
		{ID: "ident2", Name: "Alias", Email: "alias@example.com"},
	}
	if diff := cmp.Diff(want, identities); diff != "" {
		t.Errorf("identities mismatch (-want +got):\n%s", diff)
	}
}
