// SPDX-License-Identifier: MPL-2.0

package lazy

import "errors"

// Property holds an optional explicit value and an optional convention.
// The zero Property has neither.
type Property[T any] struct {
	value      Value[T]
	convention Value[T]
}

// NewProperty returns a Property whose convention is conv.
func NewProperty[T any](conv Value[T]) *Property[T] {
	return &Property[T]{convention: conv}
}

// Set replaces the explicit value. Passing nil clears it, so reads fall back
// to the convention.
func (p *Property[T]) Set(v Value[T]) { p.value = v }

// SetValue sets an explicit literal value.
func (p *Property[T]) SetValue(v T) { p.value = Literal[T]{V: v} }

// Convention replaces the fallback used when no explicit value is set.
func (p *Property[T]) Convention(v Value[T]) { p.convention = v }

// IsExplicit reports whether an explicit value has been set.
func (p *Property[T]) IsExplicit() bool { return p.value != nil }

// IsPresent reports whether either an explicit value or a convention is set.
// It does not resolve anything.
func (p *Property[T]) IsPresent() bool { return p.value != nil || p.convention != nil }

// Get resolves the explicit value if set, otherwise the convention.
func (p *Property[T]) Get() (T, error) {
	if p.value != nil {
		return Resolve(p.value)
	}
	return Resolve(p.convention)
}

// OrElse resolves the property, returning fallback when no value is available.
// Resolution errors other than ErrMissingValue are still returned.
func (p *Property[T]) OrElse(fallback T) (T, error) {
	v, err := p.Get()
	if errors.Is(err, ErrMissingValue) {
		return fallback, nil
	}
	return v, err
}

// AsValue exposes the property as a Value that resolves it on every read,
// so other properties can derive their conventions from it.
func (p *Property[T]) AsValue() Value[T] {
	return Computed[T]{Fn: p.Get}
}
