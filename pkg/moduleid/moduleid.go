// SPDX-License-Identifier: MPL-2.0

package moduleid

import (
	"errors"
	"fmt"
	"regexp"
)

const (
	identStart = `\p{L}\p{Nl}\p{Sc}\p{Pc}`
	identPart  = identStart + `\p{Nd}\p{Mn}\p{Mc}\p{Cf}`

	// Pattern is the module code name grammar: a Java identifier, followed by
	// dot-separated identifier parts, with an optional "/<major>" suffix.
	Pattern = `[` + identStart + `][` + identPart + `]*(?:\.[` + identPart + `]+)*(?:/[0-9]+)?`
)

var (
	// ErrInvalidModuleName is the sentinel error wrapped by InvalidModuleNameError.
	ErrInvalidModuleName = errors.New("invalid module name")

	modulePattern = regexp.MustCompile(`^` + Pattern + `$`)
)

type (
	// ModuleName is a module code name such as "org.example.editor/2".
	// Values obtained from Validate are guaranteed to match Pattern.
	ModuleName string

	// InvalidModuleNameError is returned when a candidate does not match Pattern.
	// It wraps ErrInvalidModuleName for errors.Is() compatibility.
	InvalidModuleNameError struct {
		Value ModuleName
	}
)

// Validate checks candidate against Pattern and returns it unchanged as a ModuleName.
func Validate(candidate string) (ModuleName, error) {
	name := ModuleName(candidate)
	if err := name.Validate(); err != nil {
		return "", err
	}
	return name, nil
}

// String returns the string representation of the ModuleName.
func (n ModuleName) String() string { return string(n) }

// Validate returns nil if the ModuleName matches Pattern.
func (n ModuleName) Validate() error {
	if !modulePattern.MatchString(string(n)) {
		return &InvalidModuleNameError{Value: n}
	}
	return nil
}

// IsValid returns whether the ModuleName is valid, and the validation errors if not.
func (n ModuleName) IsValid() (bool, []error) {
	if err := n.Validate(); err != nil {
		return false, []error{err}
	}
	return true, nil
}

// Base returns the code name without the "/<major>" suffix.
func (n ModuleName) Base() string {
	base, _ := n.split()
	return base
}

// MajorVersion returns the major release version suffix, if present.
func (n ModuleName) MajorVersion() (string, bool) {
	_, major := n.split()
	return major, major != ""
}

func (n ModuleName) split() (base, major string) {
	s := string(n)
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '/' {
			return s[:i], s[i+1:]
		}
	}
	return s, ""
}

// Error implements the error interface for InvalidModuleNameError.
func (e *InvalidModuleNameError) Error() string {
	return fmt.Sprintf("illegal module name %q (must match '%s')", string(e.Value), Pattern)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidModuleNameError) Unwrap() error {
	return ErrInvalidModuleName
}
