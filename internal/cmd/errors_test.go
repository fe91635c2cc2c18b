package cmd

import (
	"fmt"
	"testing"

	cerrors "github.com/klappstuhl/stalmail/internal/errors"
	"github.com/klappstuhl/stalmail/internal/jmap"
	"github.com/klappstuhl/stalmail/internal/transport"
)

func TestMapCommandError(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		wantSuggestion string
	}{
		{
			name:           "auth error suggests checking the server",
			err:            &jmap.AuthError{StatusCode: 401},
			wantSuggestion: cerrors.SuggestionCheckServer,
		},
		{
			name:           "unauthorized response suggests re-login",
			err:            &transport.HTTPError{Op: "JMAP request", StatusCode: 401, Status: "401 Unauthorized"},
			wantSuggestion: cerrors.SuggestionReauth,
		},
		{
			name:           "not authenticated suggests re-login",
			err:            fmt.Errorf("listing emails: %w", jmap.ErrNotAuthenticated),
			wantSuggestion: cerrors.SuggestionReauth,
		},
		{
			name:           "no identities suggests checking the account",
			err:            jmap.ErrNoIdentities,
			wantSuggestion: cerrors.SuggestionListIdentity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapCommandError(tt.err)
			if !cerrors.ContainsSuggestion(got) {
				t.Fatalf("mapCommandError(%v) carries no suggestion", tt.err)
			}
			if s := cerrors.GetSuggestion(got); s != tt.wantSuggestion {
				t.Errorf("suggestion = %q, want %q", s, tt.wantSuggestion)
			}
		})
	}
}

func TestMapCommandError_PassThrough(t *testing.T) {
	if got := mapCommandError(nil); got != nil {
		t.Errorf("mapCommandError(nil) = %v", got)
	}

	plain := fmt.Errorf("disk full")
	if got := mapCommandError(plain); got != plain {
		t.Errorf("mapCommandError(%v) = %v, want unchanged", plain, got)
	}

	// An error that already carries a suggestion keeps it.
	suggested := cerrors.WithSuggestion(fmt.Errorf("boom"), "try again")
	got := mapCommandError(suggested)
	if s := cerrors.GetSuggestion(got); s != "try again" {
		t.Errorf("suggestion = %q, want original kept", s)
	}
}
