// SPDX-License-Identifier: MPL-2.0

// Package pkgscan discovers package names in source trees laid out one
// package per directory.
//
// A directory is a package when it directly contains at least one regular
// file. Any file counts, including resources, so a directory holding only a
// properties file is still reported. A directory that only contains
// sub-directories is not a package, but its sub-directories are still walked.
package pkgscan

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

type (
	// Scanner walks source roots on a filesystem.
	Scanner struct {
		fs afero.Fs
	}

	// ScanError reports a directory that exists but could not be read.
	ScanError struct {
		Path string
		Err  error
	}
)

// New returns a Scanner reading from fs.
func New(fs afero.Fs) *Scanner {
	return &Scanner{fs: fs}
}

// NewOS returns a Scanner reading from the operating system filesystem.
func NewOS() *Scanner {
	return New(afero.NewOsFs())
}

// Error implements the error interface.
func (e *ScanError) Error() string {
	return fmt.Sprintf("failed to scan %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying cause.
func (e *ScanError) Unwrap() error { return e.Err }

// Scan returns the dotted names of every package at or below packagePrefix
// in each of sourceRoots. A root that lacks the prefix directory contributes
// nothing. Results from multiple roots are concatenated; order and
// duplicates are left to the caller.
func (s *Scanner) Scan(sourceRoots []string, packagePrefix string) ([]string, error) {
	var result []string
	for _, root := range sourceRoots {
		found, err := s.scanRoot(root, packagePrefix)
		if err != nil {
			return nil, err
		}
		result = append(result, found...)
	}
	return result, nil
}

func (s *Scanner) scanRoot(root, packagePrefix string) ([]string, error) {
	start := root
	if packagePrefix != "" {
		start = filepath.Join(append([]string{root}, strings.Split(packagePrefix, ".")...)...)
	}

	info, err := s.fs.Stat(start)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, &ScanError{Path: start, Err: err}
	}
	if !info.IsDir() {
		return nil, nil
	}

	var result []string
	if err := s.walk(packagePrefix, start, []os.FileInfo{info}, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// walk scans dir. ancestors holds the directories on the current path so a
// link back to one of them is not followed.
func (s *Scanner) walk(packageName, dir string, ancestors []os.FileInfo, result *[]string) error {
	entries, err := afero.ReadDir(s.fs, dir)
	if err != nil {
		return &ScanError{Path: dir, Err: err}
	}

	hasFile := false
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		info := entry
		isDir, isFile := entry.IsDir(), entry.Mode().IsRegular()
		if entry.Mode()&os.ModeSymlink != 0 {
			target, err := s.fs.Stat(path)
			if err != nil {
				// Dangling links are neither files nor packages.
				continue
			}
			if target.IsDir() && isAncestor(target, ancestors) {
				continue
			}
			info = target
			isDir, isFile = target.IsDir(), target.Mode().IsRegular()
		}

		switch {
		case isDir:
			sub := entry.Name()
			if packageName != "" {
				sub = packageName + "." + sub
			}
			if err := s.walk(sub, path, append(ancestors[:len(ancestors):len(ancestors)], info), result); err != nil {
				return err
			}
		case isFile:
			hasFile = true
		}
	}

	if hasFile && packageName != "" {
		*result = append(*result, packageName)
	}
	return nil
}

func isAncestor(dir os.FileInfo, ancestors []os.FileInfo) bool {
	for _, a := range ancestors {
		if os.SameFile(dir, a) {
			return true
		}
	}
	return false
}
