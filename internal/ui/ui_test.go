package ui

import (
	"context"
	"testing"
)

func TestNew_ColorModes(t *testing.T) {
	t.Setenv("NO_COLOR", "")

	if u := New("never"); u.color {
		t.Error("mode never: color enabled")
	}
	if u := New("always"); !u.color {
		t.Error("mode always: color disabled")
	}
	// Auto depends on the terminal; only verify construction.
	if u := New("auto"); u.out == nil {
		t.Error("mode auto: no output")
	}
}

func TestNew_NoColorOverride(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	if u := New("always"); u.color {
		t.Error("NO_COLOR did not override --color=always")
	}
}

func TestContextRoundTrip(t *testing.T) {
	u := New("never")
	ctx := WithUI(context.Background(), u)

	if got := FromContext(ctx); got != u {
		t.Error("FromContext returned a different UI instance")
	}
}

func TestFromContext_Default(t *testing.T) {
	u := FromContext(context.Background())
	if u == nil || u.out == nil {
		t.Fatal("expected a usable default UI")
	}
}

func TestUI_PrintHelpers(t *testing.T) {
	u := New("never")
	u.Success("moved 1 email")
	u.Error("server unreachable")
	u.Warning("credentials are 120 days old")
	u.Info("watching for changes")
}
