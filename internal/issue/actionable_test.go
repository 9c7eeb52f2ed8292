// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestActionableError_Error(t *testing.T) {
	t.Parallel()

	cause := errors.New("permission denied")
	tests := []struct {
		name string
		err  *ActionableError
		want string
	}{
		{"operation only", &ActionableError{Operation: "load config"}, "failed to load config"},
		{"with resource", &ActionableError{Operation: "read", Resource: "a.cue"}, "failed to read: a.cue"},
		{"with cause", &ActionableError{Operation: "read", Resource: "a.cue", Cause: cause}, "failed to read: a.cue: permission denied"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestActionableError_Unwrap(t *testing.T) {
	t.Parallel()

	sentinel := errors.New("sentinel")
	err := WrapWithOperation(fmt.Errorf("inner: %w", sentinel), "do thing")
	if !errors.Is(err, sentinel) {
		t.Error("errors.Is should find the sentinel through ActionableError")
	}
	if WrapWithOperation(nil, "x") != nil {
		t.Error("WrapWithOperation(nil) should be nil")
	}
}

func TestActionableError_Format(t *testing.T) {
	t.Parallel()

	err := NewErrorContext().
		WithOperation("override command").
		WithResource("build").
		WithSuggestion("Run 'palm init' first").
		WithSuggestion("Check the command name").
		Wrap(fmt.Errorf("stat: %w", errors.New("no such file"))).
		Build()

	plain := err.Format(false)
	if !strings.Contains(plain, "  • Run 'palm init' first") || !strings.Contains(plain, "  • Check the command name") {
		t.Errorf("Format(false) missing suggestions:\n%s", plain)
	}
	if strings.Contains(plain, "Error chain") {
		t.Error("Format(false) should not include the chain")
	}

	verbose := err.Format(true)
	if !strings.Contains(verbose, "1. stat: no such file") || !strings.Contains(verbose, "2. no such file") {
		t.Errorf("Format(true) missing chain:\n%s", verbose)
	}
}

func TestErrorContext_Build(t *testing.T) {
	t.Parallel()

	if NewErrorContext().WithResource("x").Build() != nil {
		t.Error("Build() without operation should be nil")
	}
	if err := NewErrorContext().BuildError(); err != nil {
		t.Errorf("BuildError() without operation = %v, want nil interface", err)
	}

	ctx := NewErrorContext().WithOperation("op").WithSuggestion("a").WithIssue(PluginNotFoundId)
	first := ctx.Build()
	ctx.WithSuggestion("b")
	if len(first.Suggestions) != 1 {
		t.Errorf("built error shares suggestions with builder: %v", first.Suggestions)
	}
	if first.IssueId != PluginNotFoundId || !first.HasSuggestions() {
		t.Errorf("unexpected built error %+v", first)
	}
}
