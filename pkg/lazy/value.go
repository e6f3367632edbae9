// SPDX-License-Identifier: MPL-2.0

package lazy

import (
	"errors"
	"fmt"
)

// ErrMissingValue is returned when a value is read but neither an explicit
// value nor a convention is available.
var ErrMissingValue = errors.New("no value available")

type (
	// Value is a possibly-deferred configuration value.
	// Implementations are Literal, Computed and External.
	Value[T any] interface {
		resolve() (T, error)
	}

	// Literal is a value known at configuration time.
	Literal[T any] struct {
		V T
	}

	// Computed is evaluated every time it is resolved.
	Computed[T any] struct {
		Fn func() (T, error)
	}

	// External is a value owned by the host build runtime, identified by Handle
	// for diagnostics and produced by Fn when resolved.
	External[T any] struct {
		Handle string
		Fn     func() (T, error)
	}

	// ExternalError reports a failure to resolve an External reference.
	ExternalError struct {
		Handle string
		Err    error
	}
)

// Of returns a Literal holding v.
func Of[T any](v T) Value[T] { return Literal[T]{V: v} }

// From returns a Computed backed by fn.
func From[T any](fn func() (T, error)) Value[T] { return Computed[T]{Fn: fn} }

// FromPure returns a Computed backed by an infallible fn.
func FromPure[T any](fn func() T) Value[T] {
	return Computed[T]{Fn: func() (T, error) { return fn(), nil }}
}

// Ref returns an External reference named handle, produced by fn.
func Ref[T any](handle string, fn func() (T, error)) Value[T] {
	return External[T]{Handle: handle, Fn: fn}
}

// Resolve forces v to a concrete value. A nil Value yields ErrMissingValue.
func Resolve[T any](v Value[T]) (T, error) {
	if v == nil {
		var zero T
		return zero, ErrMissingValue
	}
	return v.resolve()
}

// Map derives a Computed value by applying fn to the resolved value of src.
// src is resolved on every read of the result.
func Map[T, U any](src Value[T], fn func(T) (U, error)) Value[U] {
	return Computed[U]{Fn: func() (U, error) {
		v, err := Resolve(src)
		if err != nil {
			var zero U
			return zero, err
		}
		return fn(v)
	}}
}

func (l Literal[T]) resolve() (T, error) { return l.V, nil }

func (c Computed[T]) resolve() (T, error) {
	if c.Fn == nil {
		var zero T
		return zero, ErrMissingValue
	}
	return c.Fn()
}

func (e External[T]) resolve() (T, error) {
	if e.Fn == nil {
		var zero T
		return zero, &ExternalError{Handle: e.Handle, Err: ErrMissingValue}
	}
	v, err := e.Fn()
	if err != nil {
		var zero T
		return zero, &ExternalError{Handle: e.Handle, Err: err}
	}
	return v, nil
}

// Error implements the error interface.
func (e *ExternalError) Error() string {
	return fmt.Sprintf("resolve external reference %q: %v", e.Handle, e.Err)
}

// Unwrap returns the underlying cause.
func (e *ExternalError) Unwrap() error { return e.Err }
