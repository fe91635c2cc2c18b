package jmap

import (
	"errors"
	"fmt"
)

// Sentinel errors for JMAP operations
var (
	// ErrNotAuthenticated indicates an operation was attempted before a
	// successful Authenticate call.
	ErrNotAuthenticated = errors.New("not authenticated: call Authenticate first")

	// ErrNoAccounts indicates the session resource listed no accounts.
	ErrNoAccounts = errors.New("no accounts found in session")

	// ErrNoIdentities indicates no sending identities were found.
	ErrNoIdentities = errors.New("no sending identities found")

	// ErrNoRecipients indicates a send was attempted without recipients.
	ErrNoRecipients = errors.New("at least one recipient is required")
)

// AuthError indicates the session bootstrap itself failed.
type AuthError struct {
	StatusCode int
	Message    string
}

func (e *AuthError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("authentication failed with status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("authentication failed with status %d", e.StatusCode)
}

// IsAuthError checks if an error is an AuthError.
func IsAuthError(err error) bool {
	var ae *AuthError
	return errors.As(err, &ae)
}

// ProtocolError indicates the server answered with an unexpected or
// missing method name.
type ProtocolError struct {
	Expected string
	Got      string
}

func (e *ProtocolError) Error() string {
	if e.Got != "" {
		return fmt.Sprintf("unexpected method response: want %s, got %s", e.Expected, e.Got)
	}
	return fmt.Sprintf("missing method response: want %s", e.Expected)
}

// NotFoundError indicates a requested entity was absent from the result.
type NotFoundError struct {
	Resource string // e.g. "email", "mailbox"
	ID       string
}

func (e *NotFoundError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// IsNotFoundError checks if an error indicates a missing entity.
func IsNotFoundError(err error) bool {
	var nfe *NotFoundError
	return errors.As(err, &nfe)
}

// JMAPError represents a method-level "error" response tuple.
type JMAPError struct {
	Type        string // e.g. "invalidArguments", "serverFail"
	Description string
}

func (e *JMAPError) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("JMAP error (%s): %s", e.Type, e.Description)
	}
	return fmt.Sprintf("JMAP error: %s", e.Type)
}

// SubmissionError carries the server-provided failure of the send
// transaction, from either an "error" tuple or a notCreated entry. Its
// message is exactly the server's description, falling back to the type,
// so callers can surface it verbatim and still distinguish it from
// HTTP-level failures by its kind.
type SubmissionError struct {
	Type        string
	Description string
}

func (e *SubmissionError) Error() string {
	if e.Description != "" {
		return e.Description
	}
	if e.Type != "" {
		return e.Type
	}
	return "email submission failed"
}

// IsSubmissionError checks if an error came from the send transaction.
func IsSubmissionError(err error) bool {
	var se *SubmissionError
	return errors.As(err, &se)
}

// setError is the wire shape of a SetError in notCreated/notUpdated/
// notDestroyed maps.
type setError struct {
	Type        string `json:"type"`
	Description string `json:"description"`
}

func (e setError) message() string {
	switch {
	case e.Description != "":
		return e.Description
	case e.Type != "":
		return e.Type
	default:
		return "unknown error"
	}
}
