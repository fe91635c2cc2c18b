package validation

import (
	"regexp"
	"strings"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9.!#$%&'*+/=?^_` + "`" + `{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$`)

// IsValidEmail reports whether email looks like a deliverable RFC 5322
// address. Control characters and angle brackets are rejected outright
// so an address can never smuggle header content into a draft.
func IsValidEmail(email string) bool {
	// RFC 5321 caps the full address at 254 octets.
	if len(email) < 3 || len(email) > 254 {
		return false
	}

	for _, r := range email {
		if r < 32 || r == 127 || (r >= 0x80 && r <= 0x9F) {
			return false
		}
	}

	if strings.ContainsAny(email, "<>") {
		return false
	}

	return emailRegex.MatchString(email)
}
