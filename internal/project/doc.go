// SPDX-License-Identifier: MPL-2.0

// Package project adapts a loaded project file to the module descriptor.
//
// It plays the host build runtime: it reports the project name, version and
// build directory, and turns every configured setting into a descriptor
// property. Strings containing '$' become external references that are
// expanded from the environment with shell parameter expansion each time they
// are read; a reference that expands to the empty string has no value.
package project
