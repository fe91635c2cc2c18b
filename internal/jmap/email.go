package jmap

import (
	"context"
	"fmt"
)

// EmailAddress represents an email address with optional display name.
type EmailAddress struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

// Email represents a JMAP email. List operations fill the summary
// fields; GetEmailByID additionally fills body structure, body values
// and attachments.
type Email struct {
	ID            string          `json:"id"`
	BlobID        string          `json:"blobId,omitempty"`
	ThreadID      string          `json:"threadId,omitempty"`
	MailboxIDs    map[string]bool `json:"mailboxIds,omitempty"`
	From          []EmailAddress  `json:"from,omitempty"`
	To            []EmailAddress  `json:"to,omitempty"`
	CC            []EmailAddress  `json:"cc,omitempty"`
	BCC           []EmailAddress  `json:"bcc,omitempty"`
	ReplyTo       []EmailAddress  `json:"replyTo,omitempty"`
	Subject       string          `json:"subject"`
	SentAt        string          `json:"sentAt,omitempty"`
	ReceivedAt    string          `json:"receivedAt"`
	HasAttachment bool            `json:"hasAttachment"`
	Preview       string          `json:"preview,omitempty"`
	Keywords      map[string]bool `json:"keywords,omitempty"`

	// Detail-only fields.
	BodyStructure map[string]any       `json:"bodyStructure,omitempty"`
	BodyValues    map[string]BodyValue `json:"bodyValues,omitempty"`
	TextBody      []BodyPart           `json:"textBody,omitempty"`
	HTMLBody      []BodyPart           `json:"htmlBody,omitempty"`
	Attachments   []Attachment         `json:"attachments,omitempty"`
}

// BodyValue is decoded body content keyed by part id.
type BodyValue struct {
	Value string `json:"value"`
}

// BodyPart is a reference into the body structure.
type BodyPart struct {
	PartID string `json:"partId"`
	Type   string `json:"type"`
}

// Attachment describes one attachment part of an email.
type Attachment struct {
	PartID string `json:"partId,omitempty"`
	BlobID string `json:"blobId"`
	Name   string `json:"name"`
	Type   string `json:"type"`
	Size   int64  `json:"size"`
}

// IsRead reports whether the $seen keyword is set.
func (e *Email) IsRead() bool {
	return e.Keywords != nil && e.Keywords["$seen"]
}

// summaryProperties are fetched by list and search operations.
var summaryProperties = []string{
	"id", "blobId", "threadId", "mailboxIds",
	"from", "to", "cc", "bcc", "replyTo",
	"subject", "sentAt", "receivedAt",
	"hasAttachment", "preview", "keywords",
}

// detailProperties are fetched by GetEmailByID.
var detailProperties = []string{
	"id", "blobId", "threadId", "mailboxIds",
	"from", "to", "cc", "bcc", "replyTo",
	"subject", "sentAt", "receivedAt",
	"hasAttachment", "preview", "keywords",
	"bodyStructure", "bodyValues", "textBody", "htmlBody", "attachments",
}

// ListOptions controls paging of GetEmails.
type ListOptions struct {
	Limit    int
	Position int
}

// DefaultPageSize applies when ListOptions.Limit is zero or negative.
const DefaultPageSize = 50

// EmailPage is one page of a mailbox listing. Total reflects the
// query's reported total regardless of page size.
type EmailPage struct {
	Emails   []Email `json:"emails"`
	Total    int     `json:"total"`
	Position int     `json:"position"`
}

// SearchResult is the outcome of a full-text search.
type SearchResult struct {
	Emails []Email `json:"emails"`
	Total  int     `json:"total"`
}

type emailQueryResult struct {
	IDs      []string `json:"ids"`
	Total    int      `json:"total"`
	Position int      `json:"position"`
	State    string   `json:"queryState"`
}

type emailGetResult struct {
	State    string   `json:"state"`
	List     []Email  `json:"list"`
	NotFound []string `json:"notFound"`
}

type emailSetResult struct {
	Created      map[string]any      `json:"created"`
	Updated      map[string]any      `json:"updated"`
	Destroyed    []string            `json:"destroyed"`
	NotCreated   map[string]setError `json:"notCreated"`
	NotUpdated   map[string]setError `json:"notUpdated"`
	NotDestroyed map[string]setError `json:"notDestroyed"`
}

// GetEmails retrieves one page of emails from a mailbox, newest first.
// An empty mailboxID lists the whole account. The query and the summary
// fetch travel in one batched request chained with an ids
// back-reference.
func (c *Client) GetEmails(ctx context.Context, mailboxID string, opts ListOptions) (*EmailPage, error) {
	session, _, err := c.currentSession()
	if err != nil {
		return nil, err
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultPageSize
	}

	filter := map[string]any{}
	if mailboxID != "" {
		filter["inMailbox"] = mailboxID
	}

	responses, err := c.MakeRequest(ctx, []MethodCall{
		{"Email/query", map[string]any{
			"accountId": session.AccountID,
			"filter":    filter,
			"sort":      []map[string]any{{"property": "receivedAt", "isAscending": false}},
			"position":  opts.Position,
			"limit":     limit,
		}, "a"},
		{"Email/get", map[string]any{
			"accountId":  session.AccountID,
			"#ids":       map[string]any{"resultOf": "a", "name": "Email/query", "path": "/ids"},
			"properties": summaryProperties,
		}, "b"},
	})
	if err != nil {
		return nil, err
	}

	query, err := expectResult[emailQueryResult](responses, "Email/query")
	if err != nil {
		return nil, err
	}
	get, err := expectResult[emailGetResult](responses, "Email/get")
	if err != nil {
		return nil, err
	}

	return &EmailPage{
		Emails:   get.List,
		Total:    query.Total,
		Position: query.Position,
	}, nil
}

// SearchEmails runs a full-text query across the whole account, without
// mailbox scoping, newest first.
func (c *Client) SearchEmails(ctx context.Context, query string, limit int) (*SearchResult, error) {
	session, _, err := c.currentSession()
	if err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = DefaultPageSize
	}

	responses, err := c.MakeRequest(ctx, []MethodCall{
		{"Email/query", map[string]any{
			"accountId": session.AccountID,
			"filter":    map[string]any{"text": query},
			"sort":      []map[string]any{{"property": "receivedAt", "isAscending": false}},
			"limit":     limit,
		}, "a"},
		{"Email/get", map[string]any{
			"accountId":  session.AccountID,
			"#ids":       map[string]any{"resultOf": "a", "name": "Email/query", "path": "/ids"},
			"properties": summaryProperties,
		}, "b"},
	})
	if err != nil {
		return nil, err
	}

	queryResult, err := expectResult[emailQueryResult](responses, "Email/query")
	if err != nil {
		return nil, err
	}
	get, err := expectResult[emailGetResult](responses, "Email/get")
	if err != nil {
		return nil, err
	}

	return &SearchResult{Emails: get.List, Total: queryResult.Total}, nil
}

// GetEmailByID retrieves a single email with body values and attachment
// metadata. A missing id yields a *NotFoundError.
func (c *Client) GetEmailByID(ctx context.Context, id string) (*Email, error) {
	session, _, err := c.currentSession()
	if err != nil {
		return nil, err
	}

	responses, err := c.MakeRequest(ctx, []MethodCall{
		{"Email/get", map[string]any{
			"accountId":          session.AccountID,
			"ids":                []string{id},
			"properties":         detailProperties,
			"fetchAllBodyValues": true,
		}, "a"},
	})
	if err != nil {
		return nil, err
	}

	result, err := expectResult[emailGetResult](responses, "Email/get")
	if err != nil {
		return nil, err
	}
	if len(result.List) == 0 {
		return nil, &NotFoundError{Resource: "email", ID: id}
	}
	return &result.List[0], nil
}

// MarkEmailRead sets or clears the $seen keyword with a JMAP patch, so
// other keywords are left untouched. Clearing uses the protocol's
// null-to-remove convention.
func (c *Client) MarkEmailRead(ctx context.Context, id string, read bool) error {
	session, _, err := c.currentSession()
	if err != nil {
		return err
	}

	var seen any
	if read {
		seen = true
	}

	responses, err := c.MakeRequest(ctx, []MethodCall{
		{"Email/set", map[string]any{
			"accountId": session.AccountID,
			"update": map[string]any{
				id: map[string]any{"keywords/$seen": seen},
			},
		}, "a"},
	})
	if err != nil {
		return err
	}

	result, err := expectResult[emailSetResult](responses, "Email/set")
	if err != nil {
		return err
	}
	if se, failed := result.NotUpdated[id]; failed {
		return fmt.Errorf("updating read state of %s: %s", id, se.message())
	}
	return nil
}

// MoveEmail replaces the email's mailbox membership wholesale with the
// target mailbox. This is a move, not an add: membership in every other
// mailbox is lost, including any extra labels the message carried.
func (c *Client) MoveEmail(ctx context.Context, id, toMailboxID string) error {
	session, _, err := c.currentSession()
	if err != nil {
		return err
	}

	responses, err := c.MakeRequest(ctx, []MethodCall{
		{"Email/set", map[string]any{
			"accountId": session.AccountID,
			"update": map[string]any{
				id: map[string]any{
					"mailboxIds": map[string]bool{toMailboxID: true},
				},
			},
		}, "a"},
	})
	if err != nil {
		return err
	}

	result, err := expectResult[emailSetResult](responses, "Email/set")
	if err != nil {
		return err
	}
	if se, failed := result.NotUpdated[id]; failed {
		return fmt.Errorf("moving %s: %s", id, se.message())
	}
	return nil
}

// DeleteEmail moves the email to the trash-role mailbox when one
// exists, otherwise destroys it outright.
func (c *Client) DeleteEmail(ctx context.Context, id string) error {
	session, _, err := c.currentSession()
	if err != nil {
		return err
	}

	mailboxes, err := c.GetMailboxes(ctx)
	if err != nil {
		return err
	}
	if trash, ok := FindMailboxByRole(mailboxes, "trash"); ok {
		return c.MoveEmail(ctx, id, trash.ID)
	}

	responses, err := c.MakeRequest(ctx, []MethodCall{
		{"Email/set", map[string]any{
			"accountId": session.AccountID,
			"destroy":   []string{id},
		}, "a"},
	})
	if err != nil {
		return err
	}

	result, err := expectResult[emailSetResult](responses, "Email/set")
	if err != nil {
		return err
	}
	if se, failed := result.NotDestroyed[id]; failed {
		return fmt.Errorf("destroying %s: %s", id, se.message())
	}
	return nil
}
