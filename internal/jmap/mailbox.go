package jmap

import (
	"context"
	"strings"
)

// Mailbox represents a JMAP mailbox with its counters. Roles are
// read-only labels supplied by the server; this client neither creates
// nor deletes mailboxes.
type Mailbox struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Role         string `json:"role,omitempty"`
	SortOrder    int    `json:"sortOrder,omitempty"`
	TotalEmails  int    `json:"totalEmails"`
	UnreadEmails int    `json:"unreadEmails"`
	ParentID     string `json:"parentId,omitempty"`
}

var mailboxProperties = []string{
	"id", "name", "role", "sortOrder",
	"totalEmails", "unreadEmails",
	"parentId", "myRights",
}

type mailboxGetResult struct {
	State string    `json:"state"`
	List  []Mailbox `json:"list"`
}

// GetMailboxes retrieves all mailboxes for the active account, including
// unread and total counters.
func (c *Client) GetMailboxes(ctx context.Context) ([]Mailbox, error) {
	session, _, err := c.currentSession()
	if err != nil {
		return nil, err
	}

	responses, err := c.MakeRequest(ctx, []MethodCall{
		{"Mailbox/get", map[string]any{
			"accountId":  session.AccountID,
			"properties": mailboxProperties,
		}, "a"},
	})
	if err != nil {
		return nil, err
	}

	result, err := expectResult[mailboxGetResult](responses, "Mailbox/get")
	if err != nil {
		return nil, err
	}
	return result.List, nil
}

// FindMailboxByRole returns the first mailbox carrying the given role.
// Role uniqueness is not enforced server-side; first one wins.
func FindMailboxByRole(mailboxes []Mailbox, role string) (*Mailbox, bool) {
	for i := range mailboxes {
		if mailboxes[i].Role == role {
			return &mailboxes[i], true
		}
	}
	return nil, false
}

// ResolveMailbox matches idOrName against mailbox ids, then names
// (case-insensitive), then roles.
func ResolveMailbox(mailboxes []Mailbox, idOrName string) (*Mailbox, bool) {
	for i := range mailboxes {
		if mailboxes[i].ID == idOrName {
			return &mailboxes[i], true
		}
	}
	lower := strings.ToLower(idOrName)
	for i := range mailboxes {
		if strings.ToLower(mailboxes[i].Name) == lower {
			return &mailboxes[i], true
		}
	}
	for i := range mailboxes {
		if mailboxes[i].Role == lower {
			return &mailboxes[i], true
		}
	}
	return nil, false
}
