package cmd

import (
	"errors"

	cerrors "github.com/klappstuhl/stalmail/internal/errors"
	"github.com/klappstuhl/stalmail/internal/jmap"
	"github.com/klappstuhl/stalmail/internal/transport"
)

// mapCommandError adds common suggestions for known error types.
func mapCommandError(err error) error {
	if err == nil {
		return nil
	}
	if cerrors.ContainsSuggestion(err) {
		return err
	}

	switch {
	case jmap.IsAuthError(err):
		return cerrors.WithSuggestion(err, cerrors.SuggestionCheckServer)
	case transport.IsUnauthorized(err):
		return cerrors.WithSuggestion(err, cerrors.SuggestionReauth)
	case errors.Is(err, jmap.ErrNotAuthenticated):
		return cerrors.WithSuggestion(err, cerrors.SuggestionReauth)
	case errors.Is(err, jmap.ErrNoIdentities):
		return cerrors.WithSuggestion(err, cerrors.SuggestionListIdentity)
	}

	return err
}
