// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"testing"
)

func TestActionableError_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  *ActionableError
		want string
	}{
		{
			name: "operation only",
			err:  &ActionableError{Operation: "load project"},
			want: "failed to load project",
		},
		{
			name: "with resource",
			err:  &ActionableError{Operation: "load project", Resource: "./nbm.cue"},
			want: "failed to load project: ./nbm.cue",
		},
		{
			name: "with resource and cause",
			err:  &ActionableError{Operation: "read manifest", Resource: "mod.nbm", Cause: errors.New("zip: not a valid zip file")},
			want: "failed to read manifest: mod.nbm: zip: not a valid zip file",
		},
		{
			name: "cause without resource",
			err:  &ActionableError{Operation: "resolve descriptor", Cause: errors.New("no value")},
			want: "failed to resolve descriptor: no value",
		},
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

	err := WrapWithContext(fmt.Errorf("open: %w", fs.ErrNotExist), "read manifest", "x.jar")
	if !errors.Is(err, fs.ErrNotExist) {
		t.Error("errors.Is should see through the actionable error")
	}
	if WrapWithContext(nil, "op", "res") != nil {
		t.Error("WrapWithContext(nil) should be nil")
	}
}

func TestActionableError_Format(t *testing.T) {
	t.Parallel()

	err := NewErrorContext().
		WithOperation("load project").
		WithResource("./nbm.cue").
		WithSuggestions("Run 'nbm init'", "Check file permissions").
		Wrap(fmt.Errorf("read: %w", errors.New("permission denied"))).
		Build()

	plain := err.Format(false)
	for _, want := range []string{"failed to load project: ./nbm.cue", "\n  • Run 'nbm init'", "\n  • Check file permissions"} {
		if !strings.Contains(plain, want) {
			t.Errorf("Format(false) missing %q:\n%s", want, plain)
		}
	}
	if strings.Contains(plain, "Error chain") {
		t.Errorf("Format(false) should not include the chain:\n%s", plain)
	}

	verbose := err.Format(true)
	for _, want := range []string{"Error chain:", "1. read: permission denied", "2. permission denied"} {
		if !strings.Contains(verbose, want) {
			t.Errorf("Format(true) missing %q:\n%s", want, verbose)
		}
	}
}

func TestErrorContext_Build(t *testing.T) {
	t.Parallel()

	if NewErrorContext().WithResource("x").Build() != nil {
		t.Error("Build() without an operation should be nil")
	}
	if NewErrorContext().BuildError() != nil {
		t.Error("BuildError() without an operation should be a nil interface")
	}

	ae := NewErrorContext().
		WithOperation("scan sources").
		WithSuggestion("Check permissions").
		WithIssue(PackageScanFailedId).
		Build()
	if ae.Issue != PackageScanFailedId || !ae.HasSuggestions() {
		t.Errorf("Build() = %+v", ae)
	}
	if (&ActionableError{Operation: "x"}).HasSuggestions() {
		t.Error("HasSuggestions() should be false without suggestions")
	}
}

func TestErrorContext_Reuse(t *testing.T) {
	t.Parallel()

	ctx := NewErrorContext().WithOperation("process file").WithSuggestion("first")

	err1 := ctx.Wrap(errors.New("error 1")).Build()
	err2 := ctx.WithSuggestion("second").Wrap(errors.New("error 2")).Build()

	if err1.Cause.Error() != "error 1" || err2.Cause.Error() != "error 2" {
		t.Errorf("causes = %v, %v", err1.Cause, err2.Cause)
	}
	if len(err1.Suggestions) != 1 {
		t.Errorf("earlier error changed after reuse: %v", err1.Suggestions)
	}
	if len(err2.Suggestions) != 2 {
		t.Errorf("err2.Suggestions = %v, want 2 entries", err2.Suggestions)
	}
}
