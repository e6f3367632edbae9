// SPDX-License-Identifier: MPL-2.0

package testutil

// StubProject is a fixed host project for descriptor tests.
// VersionValue may be any value the host would supply, including suppliers.
type StubProject struct {
	ProjectName  string
	VersionValue any
	Dir          string
}

// Name returns ProjectName.
func (p *StubProject) Name() string { return p.ProjectName }

// Version returns VersionValue.
func (p *StubProject) Version() any { return p.VersionValue }

// BuildDir returns Dir.
func (p *StubProject) BuildDir() string { return p.Dir }
