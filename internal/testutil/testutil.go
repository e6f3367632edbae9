// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
)

// MustWriteFile writes content to path, creating parent directories.
// The test fails immediately if the operation fails.
func MustWriteFile(t testing.TB, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create directory %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

// WriteFiles writes content to every slash-separated path in fs, creating
// parent directories. The test fails immediately if a write fails.
func WriteFiles(t testing.TB, fs afero.Fs, content string, paths ...string) {
	t.Helper()
	for _, p := range paths {
		native := filepath.FromSlash(p)
		if err := fs.MkdirAll(filepath.Dir(native), 0o755); err != nil {
			t.Fatalf("failed to create directory %s: %v", filepath.Dir(native), err)
		}
		if err := afero.WriteFile(fs, native, []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", p, err)
		}
	}
}
