// SPDX-License-Identifier: MPL-2.0

// Package manifest reads and writes the main attribute section of JAR-style
// manifests, both standalone and inside ZIP archives (.jar, .nbm).
//
// Attribute names are compared case-insensitively. [Attributes] preserves the
// order in which names were first seen; setting an existing name replaces its
// value in place, so duplicates in a parsed manifest resolve to the last value.
package manifest
