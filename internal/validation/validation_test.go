package validation

import (
	"strings"
	"testing"
)

func TestEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{
			name:  "plain address",
			email: "user@example.com",
		},
		{
			name:  "subdomain",
			email: "user@mail.example.com",
		},
		{
			name:  "plus tag",
			email: "user+invoices@example.com",
		},
		{
			name:  "dotted local part",
			email: "first.last@example.com",
		},
		{
			name:  "bare host without TLD",
			email: "admin@mailserver",
		},
		{
			name:    "missing at sign",
			email:   "userexample.com",
			wantErr: true,
		},
		{
			name:    "missing domain",
			email:   "user@",
			wantErr: true,
		},
		{
			name:    "missing local part",
			email:   "@example.com",
			wantErr: true,
		},
		{
			name:    "embedded space",
			email:   "user @example.com",
			wantErr: true,
		},
		{
			name:    "empty",
			email:   "",
			wantErr: true,
		},
		{
			name:    "angle brackets",
			email:   "<user@example.com>",
			wantErr: true,
		},
		{
			name:    "newline injection",
			email:   "user@example.com\nBcc: victim@example.com",
			wantErr: true,
		},
		{
			name:    "null byte",
			email:   "user\x00@example.com",
			wantErr: true,
		},
		{
			name:    "over RFC 5321 length limit",
			email:   strings.Repeat("a", 250) + "@example.com",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Email(tt.email)
			if (err != nil) != tt.wantErr {
				t.Errorf("Email(%q) error = %v, wantErr %v", tt.email, err, tt.wantErr)
			}
			if got := IsValidEmail(tt.email); got == tt.wantErr {
				t.Errorf("IsValidEmail(%q) = %v, disagrees with Email", tt.email, got)
			}
		})
	}
}
