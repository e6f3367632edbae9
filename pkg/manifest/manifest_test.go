// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"archive/zip"
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"
)

func TestAttributes_LastWriteWins(t *testing.T) {
	t.Parallel()

	a := NewAttributes(
		Attribute{Name: "Manifest-Version", Value: "1.0"},
		Attribute{Name: "OpenIDE-Module", Value: "org.first"},
		Attribute{Name: "Created-By", Value: "nbm"},
		Attribute{Name: "openide-module", Value: "org.second"},
	)

	want := []Attribute{
		{Name: "Manifest-Version", Value: "1.0"},
		{Name: "OpenIDE-Module", Value: "org.second"},
		{Name: "Created-By", Value: "nbm"},
	}
	if diff := cmp.Diff(want, a.Entries()); diff != "" {
		t.Errorf("Entries() mismatch (-want +got):\n%s", diff)
	}
	if v, ok := a.Get("OPENIDE-MODULE"); !ok || v != "org.second" {
		t.Errorf("Get() = %q, %v; want org.second, true", v, ok)
	}
	if _, ok := a.Get("Missing"); ok {
		t.Error("Get() found a missing attribute")
	}
}

func TestAttributes_ZeroValue(t *testing.T) {
	t.Parallel()

	var a Attributes
	if a.Len() != 0 {
		t.Errorf("Len() = %d, want 0", a.Len())
	}
	a.Set("Key", "v")
	if v, _ := a.Get("key"); v != "v" {
		t.Errorf("Get() = %q, want v", v)
	}
	if diff := cmp.Diff(map[string]string{"Key": "v"}, a.Map()); diff != "" {
		t.Errorf("Map() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseBytes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []Attribute
	}{
		{
			name:  "crlf",
			input: "Manifest-Version: 1.0\r\nOpenIDE-Module: org.example\r\n\r\n",
			want:  []Attribute{{"Manifest-Version", "1.0"}, {"OpenIDE-Module", "org.example"}},
		},
		{
			name:  "lf without trailing blank line",
			input: "Manifest-Version: 1.0\nOpenIDE-Module: org.example",
			want:  []Attribute{{"Manifest-Version", "1.0"}, {"OpenIDE-Module", "org.example"}},
		},
		{
			name:  "cr only",
			input: "A: 1\rB: 2\r",
			want:  []Attribute{{"A", "1"}, {"B", "2"}},
		},
		{
			name:  "continuation lines",
			input: "OpenIDE-Module-Public-Packages: org.example.api.*, org.exam\r\n ple.spi.*\r\n\r\n",
			want:  []Attribute{{"OpenIDE-Module-Public-Packages", "org.example.api.*, org.example.spi.*"}},
		},
		{
			name:  "duplicates resolve to last value",
			input: "A: first\nB: b\nA: second\n",
			want:  []Attribute{{"A", "second"}, {"B", "b"}},
		},
		{
			name:  "per-entry sections are ignored",
			input: "A: main\n\nName: org/example/\nA: section\n",
			want:  []Attribute{{"A", "main"}},
		},
		{
			name:  "empty value",
			input: "A: \n",
			want:  []Attribute{{"A", ""}},
		},
		{
			name:  "value containing colon",
			input: "Distribution: https://example.org/a.nbm\n",
			want:  []Attribute{{"Distribution", "https://example.org/a.nbm"}},
		},
		{
			name:  "empty",
			input: "",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseBytes([]byte(tt.input))
			if err != nil {
				t.Fatalf("ParseBytes() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got.Entries()); diff != "" {
				t.Errorf("ParseBytes() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseBytes_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
	}{
		{"missing separator", "Manifest-Version 1.0\n"},
		{"colon without space", "Manifest-Version:1.0\n"},
		{"leading continuation", " orphan\n"},
		{"bad header name", "Bad Name: x\n"},
		{"invalid utf-8", "A: \xff\n"},
		{"name too long", strings.Repeat("N", 71) + ": x\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := ParseBytes([]byte(tt.input))
			if !errors.Is(err, ErrInvalidManifest) {
				t.Errorf("ParseBytes() error = %v, want ErrInvalidManifest", err)
			}
		})
	}
}

func TestWrite_WrapsLongLines(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("org.example.pkg.*, ", 12) + "ünïcödé.*"
	attrs := NewAttributes(Attribute{Name: "OpenIDE-Module-Public-Packages", Value: long})

	var buf bytes.Buffer
	if err := Write(&buf, attrs); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	out := buf.String()
	if !strings.HasSuffix(out, "\r\n\r\n") {
		t.Errorf("output should end with a blank line, got %q", out)
	}
	for _, line := range strings.Split(strings.TrimSuffix(out, "\r\n\r\n"), "\r\n") {
		if len(line) > maxLineBytes {
			t.Errorf("line exceeds %d bytes: %q", maxLineBytes, line)
		}
	}

	back, err := ParseBytes(buf.Bytes())
	if err != nil {
		t.Fatalf("ParseBytes() error = %v", err)
	}
	if v, _ := back.Get("OpenIDE-Module-Public-Packages"); v != long {
		t.Errorf("round-tripped value = %q, want %q", v, long)
	}
}

func TestWrite_RejectsInvalidName(t *testing.T) {
	t.Parallel()

	attrs := NewAttributes(Attribute{Name: "Not Valid", Value: "x"})
	if err := Write(&bytes.Buffer{}, attrs); !errors.Is(err, ErrInvalidManifest) {
		t.Errorf("Write() error = %v, want ErrInvalidManifest", err)
	}
}

func TestWrite_RejectsLineBreakInValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value string
	}{
		{name: "lf injects a header", value: "one\ntwo: three"},
		{name: "crlf", value: "one\r\ntwo"},
		{name: "cr", value: "one\rtwo"},
		{name: "nul", value: "one\x00two"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			attrs := NewAttributes(
				Attribute{Name: "X-A", Value: tt.value},
				Attribute{Name: "X-B", Value: "b"},
			)
			var buf bytes.Buffer
			err := Write(&buf, attrs)
			if !errors.Is(err, ErrInvalidManifest) {
				t.Fatalf("Write() error = %v, want ErrInvalidManifest", err)
			}
			if !strings.Contains(err.Error(), "X-A") {
				t.Errorf("Write() error = %q, want it to name the header", err)
			}
		})
	}
}

func TestReader_ArchiveRoundTrip(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	attrs := NewAttributes(
		Attribute{Name: "Manifest-Version", Value: "1.0"},
		Attribute{Name: "OpenIDE-Module", Value: "org.example.editor/2"},
		Attribute{Name: "OpenIDE-Module-Public-Packages", Value: strings.Repeat("org.example.api.*, ", 8) + "-"},
		Attribute{Name: "OpenIDE-Module-Requires", Value: "org.openide.modules.ModuleFormat1"},
	)

	if err := WriteArchive(fs, "/build/editor.nbm", attrs); err != nil {
		t.Fatalf("WriteArchive() error = %v", err)
	}

	got, err := NewReader(fs).Read("/build/editor.nbm")
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if diff := cmp.Diff(attrs.Entries(), got.Entries()); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestReader_ManifestFileRoundTrip(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	attrs := NewAttributes(Attribute{Name: "A", Value: "1"}, Attribute{Name: "B", Value: "2"})
	if err := WriteFile(fs, "/build/generated-manifest.mf", attrs); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	got, err := NewReader(fs).ReadFile("/build/generated-manifest.mf")
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if diff := cmp.Diff(attrs.Map(), got.Map()); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestReader_Errors(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "/not-a-zip.nbm", []byte("plain text"), 0o644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("org/example/A.class")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte{0xca, 0xfe}); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := afero.WriteFile(fs, "/no-manifest.jar", buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	r := NewReader(fs)

	if _, err := r.Read("/missing.nbm"); err == nil {
		t.Error("Read() of a missing file should fail")
	}
	if _, err := r.Read("/not-a-zip.nbm"); err == nil || !errors.Is(err, zip.ErrFormat) {
		t.Errorf("Read() of a non-archive error = %v, want zip.ErrFormat", err)
	}
	if _, err := r.Read("/no-manifest.jar"); !errors.Is(err, ErrNoManifest) {
		t.Errorf("Read() without manifest error = %v, want ErrNoManifest", err)
	}
	if _, err := r.ReadFile("/missing.mf"); err == nil {
		t.Error("ReadFile() of a missing file should fail")
	}
}
