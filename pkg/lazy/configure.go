// SPDX-License-Identifier: MPL-2.0

package lazy

// Configure applies fn to target and returns target, replacing
// closure-delegate configuration blocks with a plain builder call.
func Configure[T any](target *T, fn func(*T)) *T {
	if fn != nil {
		fn(target)
	}
	return target
}
