// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/spf13/afero"
)

// Path is the location of the manifest inside an archive.
const Path = "META-INF/MANIFEST.MF"

// maxNameLength is the longest header name accepted, matching the JAR specification.
const maxNameLength = 70

var (
	// ErrInvalidManifest is returned when manifest text cannot be parsed.
	ErrInvalidManifest = errors.New("invalid manifest")

	// ErrNoManifest is returned when an archive has no manifest entry.
	ErrNoManifest = errors.New("archive has no " + Path)

	headerNamePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*$`)
)

type (
	// Reader reads manifests from a filesystem.
	Reader struct {
		fs afero.Fs
	}

	// ParseError reports a malformed line in manifest text.
	ParseError struct {
		Line    int
		Message string
	}
)

// NewReader returns a Reader over fs.
func NewReader(fs afero.Fs) *Reader {
	return &Reader{fs: fs}
}

// NewOSReader returns a Reader over the operating system filesystem.
func NewOSReader() *Reader {
	return NewReader(afero.NewOsFs())
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

// Unwrap returns ErrInvalidManifest so callers can use errors.Is.
func (e *ParseError) Unwrap() error { return ErrInvalidManifest }

// Read opens the ZIP archive at archivePath and returns the main attributes
// of its manifest.
func (r *Reader) Read(archivePath string) (attrs *Attributes, err error) {
	f, err := r.fs.Open(archivePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive %s: %w", archivePath, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat archive %s: %w", archivePath, err)
	}

	zr, err := zip.NewReader(f, info.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to read archive %s: %w", archivePath, err)
	}

	for _, entry := range zr.File {
		if !strings.EqualFold(entry.Name, Path) {
			continue
		}
		rc, err := entry.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open %s in %s: %w", entry.Name, archivePath, err)
		}
		attrs, err := Parse(rc)
		_ = rc.Close() // read-only entry; parse result already captured
		if err != nil {
			return nil, fmt.Errorf("%s in %s: %w", entry.Name, archivePath, err)
		}
		return attrs, nil
	}
	return nil, fmt.Errorf("%s: %w", archivePath, ErrNoManifest)
}

// ReadFile parses a standalone manifest file.
func (r *Reader) ReadFile(path string) (*Attributes, error) {
	data, err := afero.ReadFile(r.fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}
	attrs, err := ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return attrs, nil
}

// Parse reads manifest text from rd and returns its main attributes.
func Parse(rd io.Reader) (*Attributes, error) {
	data, err := io.ReadAll(rd)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	return ParseBytes(data)
}

// ParseBytes parses manifest text and returns its main attributes. Parsing
// stops at the first blank line, which ends the main section.
func ParseBytes(data []byte) (*Attributes, error) {
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("%w: not valid UTF-8", ErrInvalidManifest)
	}

	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	attrs := &Attributes{}
	var name string
	var value strings.Builder
	flush := func() {
		if name != "" {
			attrs.Set(name, value.String())
		}
		name = ""
		value.Reset()
	}

	for i, line := range strings.Split(text, "\n") {
		if line == "" {
			break
		}
		if line[0] == ' ' {
			if name == "" {
				return nil, &ParseError{Line: i + 1, Message: "continuation line without a preceding header"}
			}
			value.WriteString(line[1:])
			continue
		}

		flush()
		sep := strings.Index(line, ": ")
		if sep < 0 {
			return nil, &ParseError{Line: i + 1, Message: fmt.Sprintf("invalid header %q", line)}
		}
		candidate := line[:sep]
		if len(candidate) > maxNameLength || !headerNamePattern.MatchString(candidate) {
			return nil, &ParseError{Line: i + 1, Message: fmt.Sprintf("invalid header name %q", candidate)}
		}
		name = candidate
		value.WriteString(line[sep+2:])
	}
	flush()

	return attrs, nil
}
