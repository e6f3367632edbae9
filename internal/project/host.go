// SPDX-License-Identifier: MPL-2.0

package project

import (
	"os"
	"path/filepath"
	"strings"

	"mvdan.cc/sh/v3/shell"

	"github.com/nbmkit/nbmkit/internal/config"
	"github.com/nbmkit/nbmkit/pkg/lazy"
)

// Host is the descriptor's view of a loaded project.
type Host struct {
	cfg    *config.Project
	getenv func(string) string
}

// NewHost wraps cfg. A nil getenv reads the process environment.
func NewHost(cfg *config.Project, getenv func(string) string) *Host {
	if getenv == nil {
		getenv = os.Getenv
	}
	return &Host{cfg: cfg, getenv: getenv}
}

// Name returns the project name.
func (h *Host) Name() string { return h.cfg.Name }

// Version returns the project version as a deferred value, or nil when unset.
func (h *Host) Version() any {
	if h.cfg.Version == "" {
		return nil
	}
	return h.Value(h.cfg.Version)
}

// BuildDir returns the absolute build directory.
func (h *Host) BuildDir() string {
	return h.abs(h.cfg.BuildDir)
}

// Dir returns the project directory.
func (h *Host) Dir() string { return h.cfg.Dir }

// Value returns raw as a literal, or as an external reference when it
// contains '$'.
func (h *Host) Value(raw string) lazy.Value[string] {
	if !strings.Contains(raw, "$") {
		return lazy.Of(raw)
	}
	return lazy.Ref(raw, func() (string, error) {
		return h.Expand(raw)
	})
}

// PathValue is Value for a path relative to the project directory.
func (h *Host) PathValue(raw string) lazy.Value[string] {
	return lazy.Map(h.Value(raw), func(p string) (string, error) {
		return h.abs(p), nil
	})
}

// Expand performs shell parameter expansion on raw. An empty result reports
// lazy.ErrMissingValue so optional settings fall back to their defaults.
func (h *Host) Expand(raw string) (string, error) {
	s, err := shell.Expand(raw, h.getenv)
	if err != nil {
		return "", err
	}
	if s == "" {
		return "", lazy.ErrMissingValue
	}
	return s, nil
}

func (h *Host) abs(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(h.cfg.Dir, p)
}
