// SPDX-License-Identifier: MPL-2.0

//go:build windows

package watch

import (
	"errors"
	"syscall"
)

// Win32 error codes reported by ReadDirectoryChangesW.
const (
	errorTooManyOpenFiles = syscall.Errno(4)
	errorInvalidHandle    = syscall.Errno(6)
	errorNotEnoughMemory  = syscall.Errno(8)
)

// isResourceExhausted reports handle and memory exhaustion, and handles
// invalidated by a removed directory.
func isResourceExhausted(err error) bool {
	return errors.Is(err, errorTooManyOpenFiles) ||
		errors.Is(err, errorInvalidHandle) ||
		errors.Is(err, errorNotEnoughMemory)
}
