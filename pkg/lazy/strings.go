// SPDX-License-Identifier: MPL-2.0

package lazy

import (
	"fmt"
	"reflect"
)

// maxUnwrapDepth bounds AsString recursion for self-referencing suppliers.
const maxUnwrapDepth = 32

// AsString coerces a host-supplied value to a plain string, unwrapping any
// number of indirection layers: suppliers (func() any, func() string,
// func() (any, error)), Value[string], Value[any] and pointers. A nil value,
// at any layer, yields "". Other values are formatted with fmt.
func AsString(v any) (string, error) {
	return asString(v, 0)
}

func asString(v any, depth int) (string, error) {
	if depth > maxUnwrapDepth {
		return "", fmt.Errorf("value nested deeper than %d layers", maxUnwrapDepth)
	}
	switch x := v.(type) {
	case nil:
		return "", nil
	case string:
		return x, nil
	case func() any:
		return asString(x(), depth+1)
	case func() string:
		return x(), nil
	case func() (any, error):
		inner, err := x()
		if err != nil {
			return "", err
		}
		return asString(inner, depth+1)
	case Value[string]:
		s, err := Resolve(x)
		if err != nil {
			return "", err
		}
		return s, nil
	case Value[any]:
		inner, err := Resolve(x)
		if err != nil {
			return "", err
		}
		return asString(inner, depth+1)
	case fmt.Stringer:
		if isNilPointer(x) {
			return "", nil
		}
		return x.String(), nil
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return "", nil
		}
		return asString(rv.Elem().Interface(), depth+1)
	}
	return fmt.Sprint(v), nil
}

func isNilPointer(v any) bool {
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}
