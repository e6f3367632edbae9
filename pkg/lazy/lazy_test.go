// SPDX-License-Identifier: MPL-2.0

package lazy

import (
	"errors"
	"strconv"
	"testing"
)

type version struct{ major, minor int }

func (v version) String() string { return strconv.Itoa(v.major) + "." + strconv.Itoa(v.minor) }

func TestResolve(t *testing.T) {
	t.Parallel()

	calls := 0
	computed := From(func() (int, error) {
		calls++
		return calls, nil
	})

	if got, err := Resolve(Of(7)); err != nil || got != 7 {
		t.Errorf("Resolve(Of(7)) = %d, %v; want 7, nil", got, err)
	}
	first, _ := Resolve(computed)
	second, _ := Resolve(computed)
	if first != 1 || second != 2 {
		t.Errorf("Computed should be evaluated on every read, got %d then %d", first, second)
	}
	if _, err := Resolve[string](nil); !errors.Is(err, ErrMissingValue) {
		t.Errorf("Resolve(nil) error = %v, want ErrMissingValue", err)
	}
}

func TestExternalError(t *testing.T) {
	t.Parallel()

	cause := errors.New("not yet evaluated")
	ref := Ref("project.version", func() (string, error) { return "", cause })

	_, err := Resolve(ref)
	var extErr *ExternalError
	if !errors.As(err, &extErr) {
		t.Fatalf("error = %T, want *ExternalError", err)
	}
	if extErr.Handle != "project.version" {
		t.Errorf("Handle = %q, want %q", extErr.Handle, "project.version")
	}
	if !errors.Is(err, cause) {
		t.Errorf("error should wrap cause, got %v", err)
	}
}

func TestProperty(t *testing.T) {
	t.Parallel()

	name := NewProperty(Of("from-convention"))
	derived := NewProperty(Map(name.AsValue(), func(s string) (string, error) {
		return s + ".nbm", nil
	}))

	if got, _ := derived.Get(); got != "from-convention.nbm" {
		t.Errorf("derived = %q, want %q", got, "from-convention.nbm")
	}

	// Derived conventions follow later changes to their source.
	name.SetValue("explicit")
	if got, _ := derived.Get(); got != "explicit.nbm" {
		t.Errorf("derived after Set = %q, want %q", got, "explicit.nbm")
	}
	if !name.IsExplicit() {
		t.Error("IsExplicit() = false after SetValue")
	}

	name.Set(nil)
	if got, _ := name.Get(); got != "from-convention" {
		t.Errorf("Get after clearing = %q, want convention", got)
	}
}

func TestProperty_Empty(t *testing.T) {
	t.Parallel()

	var p Property[string]
	if p.IsPresent() {
		t.Error("zero Property reports IsPresent")
	}
	if _, err := p.Get(); !errors.Is(err, ErrMissingValue) {
		t.Errorf("Get() error = %v, want ErrMissingValue", err)
	}
	got, err := p.OrElse("fallback")
	if err != nil || got != "fallback" {
		t.Errorf("OrElse() = %q, %v; want fallback, nil", got, err)
	}

	boom := errors.New("boom")
	p.Set(From(func() (string, error) { return "", boom }))
	if _, err := p.OrElse("fallback"); !errors.Is(err, boom) {
		t.Errorf("OrElse should surface resolution errors, got %v", err)
	}
}

func TestAsString(t *testing.T) {
	t.Parallel()

	s := "1.0"
	var nilStr *string
	var nilVersion *version

	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, ""},
		{"string", "1.2", "1.2"},
		{"int", 3, "3"},
		{"stringer", version{1, 4}, "1.4"},
		{"nil stringer pointer", nilVersion, ""},
		{"pointer", &s, "1.0"},
		{"nil pointer", nilStr, ""},
		{"supplier", func() any { return "2.0" }, "2.0"},
		{"nested suppliers", func() any { return func() any { return version{3, 1} } }, "3.1"},
		{"supplier of nil", func() any { return nil }, ""},
		{"string supplier", func() string { return "4.0" }, "4.0"},
		{"lazy value", Of("5.0"), "5.0"},
		{"lazy any value", Of[any](func() any { return 6 }), "6"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := AsString(tt.in)
			if err != nil {
				t.Fatalf("AsString() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("AsString() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAsString_SupplierError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	_, err := AsString(func() (any, error) { return nil, boom })
	if !errors.Is(err, boom) {
		t.Errorf("AsString() error = %v, want %v", err, boom)
	}
}

func TestAsString_SelfReferencing(t *testing.T) {
	t.Parallel()

	var loop func() any
	loop = func() any { return loop }
	if _, err := AsString(loop); err == nil {
		t.Error("AsString() on a self-referencing supplier should fail")
	}
}

func TestConfigure(t *testing.T) {
	t.Parallel()

	type target struct{ names []string }
	got := Configure(&target{}, func(tg *target) {
		tg.names = append(tg.names, "a", "b")
	})
	if len(got.names) != 2 {
		t.Errorf("Configure did not apply fn, names = %v", got.names)
	}
	if Configure(&target{}, nil) == nil {
		t.Error("Configure with nil fn should return target")
	}
}
