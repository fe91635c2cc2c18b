// Package validation checks user-supplied values before they reach the
// server, primarily recipient addresses for outgoing mail.
package validation

import (
	"fmt"
)

// Email validates an email address. Addresses that fail here would be
// rejected by the server anyway; checking locally gives a clearer error
// before any draft is created.
func Email(email string) error {
	if !IsValidEmail(email) {
		return fmt.Errorf("invalid email address: %s", email)
	}
	return nil
}
