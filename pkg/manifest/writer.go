// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"archive/zip"
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/spf13/afero"
)

// maxLineBytes is the longest manifest line, excluding the line terminator.
const maxLineBytes = 72

// Write serializes attrs as a manifest main section terminated by a blank line.
// Long headers are wrapped onto continuation lines. Values containing CR, LF
// or NUL are rejected with [ErrInvalidManifest].
func Write(w io.Writer, attrs *Attributes) error {
	bw := bufio.NewWriter(w)
	for name, value := range attrs.All() {
		if !headerNamePattern.MatchString(name) || len(name) > maxNameLength {
			return fmt.Errorf("%w: invalid header name %q", ErrInvalidManifest, name)
		}
		if strings.ContainsAny(value, "\r\n\x00") {
			return fmt.Errorf("%w: value of header %q contains a line break or NUL", ErrInvalidManifest, name)
		}
		if err := writeHeader(bw, name+": "+value); err != nil {
			return err
		}
	}
	if _, err := bw.WriteString("\r\n"); err != nil {
		return err
	}
	return bw.Flush()
}

func writeHeader(w *bufio.Writer, line string) error {
	limit := maxLineBytes
	for {
		if len(line) <= limit {
			_, err := w.WriteString(line + "\r\n")
			return err
		}
		cut := limit
		for cut > 0 && !utf8.RuneStart(line[cut]) {
			cut--
		}
		if _, err := w.WriteString(line[:cut] + "\r\n "); err != nil {
			return err
		}
		line = line[cut:]
		// Continuation lines spend one byte on the leading space.
		limit = maxLineBytes - 1
	}
}

// WriteFile writes attrs as a standalone manifest file, creating parent directories.
func WriteFile(fs afero.Fs, path string, attrs *Attributes) (err error) {
	if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	f, err := fs.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create manifest %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	return Write(f, attrs)
}

// WriteArchive writes a ZIP archive at path whose only entry is the manifest.
func WriteArchive(fs afero.Fs, path string, attrs *Attributes) (err error) {
	if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	f, err := fs.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create archive %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	zw := zip.NewWriter(f)
	defer func() {
		if closeErr := zw.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	entry, err := zw.CreateHeader(&zip.FileHeader{Name: Path, Method: zip.Deflate})
	if err != nil {
		return fmt.Errorf("failed to create manifest entry: %w", err)
	}
	return Write(entry, attrs)
}
