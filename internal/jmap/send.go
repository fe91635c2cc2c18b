package jmap

import (
	"context"
)

// Identity represents a sending address authorized for the account.
type Identity struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

type identityGetResult struct {
	List []Identity `json:"list"`
}

// GetIdentities retrieves the sending identities for the active account.
func (c *Client) GetIdentities(ctx context.Context) ([]Identity, error) {
	session, _, err := c.currentSession()
	if err != nil {
		return nil, err
	}

	responses, err := c.MakeRequest(ctx, []MethodCall{
		{"Identity/get", map[string]any{"accountId": session.AccountID}, "a"},
	})
	if err != nil {
		return nil, err
	}

	result, err := expectResult[identityGetResult](responses, "Identity/get")
	if err != nil {
		return nil, err
	}
	return result.List, nil
}

// AttachmentOpts references an uploaded blob to attach to an outgoing
// email. All fields come from the UploadBlob result plus the original
// filename.
type AttachmentOpts struct {
	BlobID string
	Type   string
	Name   string
	Size   int64
}

// SendEmailOpts describes an outgoing email. Recipient addresses are
// bare address strings; display names are not carried on send.
type SendEmailOpts struct {
	To        []string
	CC        []string
	BCC       []string
	Subject   string
	TextBody  string
	HTMLBody  string
	ReplyTo   string
	InReplyTo []string

	// Attachments requires uploading blobs first via UploadBlob.
	Attachments []AttachmentOpts
}

// SendEmail composes and submits an email in a single batched request:
// an Email/set create (call id "a", creation id "draft") chained into an
// EmailSubmission/set create (call id "b") whose emailId is the "#draft"
// back-reference. The submission's onSuccessUpdateEmail files the sent
// draft into the sent-role mailbox and clears the $draft keyword, so no
// third round trip is needed and no window exists where the message is
// sent but still a draft.
//
// The first identity of the account is used as sender; its absence is
// fatal before any mutation. If draft creation succeeds but submission
// fails, the orphaned draft is left on the server; no compensating
// cleanup is attempted.
//
// Every response tuple is inspected: an "error" method name or a
// notCreated entry aborts with a *SubmissionError carrying the server's
// description. On success the raw response tuples are returned.
func (c *Client) SendEmail(ctx context.Context, opts SendEmailOpts) ([]MethodResponse, error) {
	session, _, err := c.currentSession()
	if err != nil {
		return nil, err
	}
	if len(opts.To) == 0 {
		return nil, ErrNoRecipients
	}

	identities, err := c.GetIdentities(ctx)
	if err != nil {
		return nil, err
	}
	if len(identities) == 0 {
		return nil, ErrNoIdentities
	}
	identity := identities[0]

	email := map[string]any{
		"from":    []map[string]string{{"email": identity.Email, "name": identity.Name}},
		"to":      toAddressList(opts.To),
		"subject": opts.Subject,
	}
	if len(opts.CC) > 0 {
		email["cc"] = toAddressList(opts.CC)
	}
	if len(opts.BCC) > 0 {
		email["bcc"] = toAddressList(opts.BCC)
	}
	if opts.ReplyTo != "" {
		email["replyTo"] = []map[string]string{{"email": opts.ReplyTo}}
	}
	if len(opts.InReplyTo) > 0 {
		email["inReplyTo"] = opts.InReplyTo
	}

	bodyValues := map[string]map[string]string{}
	if opts.TextBody != "" {
		bodyValues["text"] = map[string]string{"value": opts.TextBody}
		email["textBody"] = []map[string]string{{"partId": "text", "type": "text/plain"}}
	}
	if opts.HTMLBody != "" {
		bodyValues["html"] = map[string]string{"value": opts.HTMLBody}
		email["htmlBody"] = []map[string]string{{"partId": "html", "type": "text/html"}}
	}
	if len(bodyValues) > 0 {
		email["bodyValues"] = bodyValues
	}

	if len(opts.Attachments) > 0 {
		attachments := make([]map[string]any, len(opts.Attachments))
		for i, att := range opts.Attachments {
			attachments[i] = map[string]any{
				"blobId":      att.BlobID,
				"type":        att.Type,
				"name":        att.Name,
				"size":        att.Size,
				"disposition": "attachment",
			}
		}
		email["attachments"] = attachments
	}

	mailboxes, err := c.GetMailboxes(ctx)
	if err != nil {
		return nil, err
	}
	if drafts, ok := FindMailboxByRole(mailboxes, "drafts"); ok {
		email["mailboxIds"] = map[string]bool{drafts.ID: true}
	}

	// rcptTo is the union of To, CC and BCC; BCC recipients appear in
	// the envelope only, never in the stored headers.
	rcptTo := make([]map[string]string, 0, len(opts.To)+len(opts.CC)+len(opts.BCC))
	for _, addr := range opts.To {
		rcptTo = append(rcptTo, map[string]string{"email": addr})
	}
	for _, addr := range opts.CC {
		rcptTo = append(rcptTo, map[string]string{"email": addr})
	}
	for _, addr := range opts.BCC {
		rcptTo = append(rcptTo, map[string]string{"email": addr})
	}

	sentUpdate := map[string]any{
		"mailboxIds":      map[string]bool{},
		"keywords/$draft": nil,
	}
	if sent, ok := FindMailboxByRole(mailboxes, "sent"); ok {
		sentUpdate["mailboxIds"] = map[string]bool{sent.ID: true}
	}

	responses, err := c.MakeRequest(ctx, []MethodCall{
		{"Email/set", map[string]any{
			"accountId": session.AccountID,
			"create":    map[string]any{"draft": email},
		}, "a"},
		{"EmailSubmission/set", map[string]any{
			"accountId": session.AccountID,
			"create": map[string]any{
				"submission": map[string]any{
					"emailId":    "#draft",
					"identityId": identity.ID,
					"envelope": map[string]any{
						"mailFrom": map[string]string{"email": identity.Email},
						"rcptTo":   rcptTo,
					},
				},
			},
			"onSuccessUpdateEmail": map[string]any{
				"#submission": sentUpdate,
			},
		}, "b"},
	})
	if err != nil {
		return nil, err
	}

	if err := checkSendResponses(responses); err != nil {
		return nil, err
	}
	return responses, nil
}

// checkSendResponses scans each response tuple for method-level errors
// and notCreated maps, surfacing the server's own description.
func checkSendResponses(responses []MethodResponse) error {
	for _, mr := range responses {
		if mr.Name() == "error" {
			if m, ok := mr[1].(map[string]any); ok {
				return &SubmissionError{
					Type:        getString(m, "type"),
					Description: getString(m, "description"),
				}
			}
			return &SubmissionError{}
		}

		result, ok := mr[1].(map[string]any)
		if !ok {
			continue
		}
		notCreated, ok := result["notCreated"].(map[string]any)
		if !ok {
			continue
		}
		for _, v := range notCreated {
			if m, ok := v.(map[string]any); ok {
				return &SubmissionError{
					Type:        getString(m, "type"),
					Description: getString(m, "description"),
				}
			}
			return &SubmissionError{}
		}
	}
	return nil
}

func toAddressList(addrs []string) []map[string]string {
	list := make([]map[string]string, len(addrs))
	for i, addr := range addrs {
		list[i] = map[string]string{"email": addr}
	}
	return list
}
