// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helpers that fail the test on error instead of
// returning it: file writers for the OS and afero filesystems, a
// controllable clock (FakeClock) and a fixed host project (StubProject).
package testutil
