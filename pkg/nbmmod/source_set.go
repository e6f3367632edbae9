// SPDX-License-Identifier: MPL-2.0

package nbmmod

// SourceSet is a named, mutable list of source directories owned by the host
// build. Package scans hold a *SourceSet, so directories added after a scan
// is declared are still searched when the scan runs.
type SourceSet struct {
	name string
	dirs []string
}

// NewSourceSet returns a SourceSet holding dirs.
func NewSourceSet(name string, dirs ...string) *SourceSet {
	return &SourceSet{name: name, dirs: append([]string(nil), dirs...)}
}

// Name returns the source set name, such as "main".
func (s *SourceSet) Name() string { return s.name }

// Add appends source directories.
func (s *SourceSet) Add(dirs ...string) { s.dirs = append(s.dirs, dirs...) }

// SetDirs replaces the source directories.
func (s *SourceSet) SetDirs(dirs ...string) { s.dirs = append([]string(nil), dirs...) }

// Dirs returns a copy of the source directories.
func (s *SourceSet) Dirs() []string { return append([]string(nil), s.dirs...) }
