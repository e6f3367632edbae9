// SPDX-License-Identifier: MPL-2.0

// Package issue provides user-facing errors for the nbm CLI.
//
// ActionableError records what was attempted, on which resource, and how the
// user can fix it. It may point at an entry of the guidance catalog (Id),
// whose Markdown text is rendered with glamour in verbose mode.
package issue
