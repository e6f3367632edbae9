// SPDX-License-Identifier: MPL-2.0

package nbmmod

import "fmt"

// Warner receives diagnostics such as deprecation notices.
// *log.Logger from github.com/charmbracelet/log satisfies it.
type Warner interface {
	Warn(msg any, keyvals ...any)
}

func warnDeprecated(w Warner, old, replacement string) {
	w.Warn(fmt.Sprintf("'nbm' plugin: use of '%s' is deprecated, use '%s' instead", old, replacement))
}
