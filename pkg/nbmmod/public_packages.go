// SPDX-License-Identifier: MPL-2.0

package nbmmod

import (
	"slices"
	"strings"

	"github.com/nbmkit/nbmkit/pkg/pkgscan"
)

type (
	// packageGenerator yields package names when the set is resolved.
	packageGenerator func(scanner *pkgscan.Scanner) ([]string, error)

	// PublicPackageSet declares the packages a module exports. Declarations are
	// kept in order and only expanded when Entries is called.
	PublicPackageSet struct {
		generators []packageGenerator
		scanner    *pkgscan.Scanner
		warner     Warner
	}
)

func newPublicPackageSet(scanner *pkgscan.Scanner, warner Warner) *PublicPackageSet {
	return &PublicPackageSet{scanner: scanner, warner: warner}
}

// Add declares a single package, such as "org.example.api" or "org.example.api.*".
func (p *PublicPackageSet) Add(packageName string) {
	p.generators = append(p.generators, func(*pkgscan.Scanner) ([]string, error) {
		return []string{packageName}, nil
	})
}

// AddWithSubpackages declares every package found under packageName in the
// directories of set. The directories are read when Entries is called.
func (p *PublicPackageSet) AddWithSubpackages(set *SourceSet, packageName string) {
	p.generators = append(p.generators, func(scanner *pkgscan.Scanner) ([]string, error) {
		return scanner.Scan(set.Dirs(), packageName)
	})
}

// Entries expands every declaration and returns the sorted, duplicate-free
// package patterns, each ending in ".*".
func (p *PublicPackageSet) Entries() ([]string, error) {
	names, err := p.resolveNames()
	if err != nil {
		return nil, err
	}
	entries := make([]string, 0, len(names))
	for _, name := range names {
		entries = append(entries, toStarImport(name))
	}
	slices.Sort(entries)
	return slices.Compact(entries), nil
}

// PackageList returns the raw declared package names in declaration order.
//
// Deprecated: use Entries.
func (p *PublicPackageSet) PackageList() ([]string, error) {
	warnDeprecated(p.warner, "friendPackages.packageList", "publicPackages.entries")
	return p.resolveNames()
}

// PackageListPattern returns the same patterns as Entries.
//
// Deprecated: use Entries.
func (p *PublicPackageSet) PackageListPattern() ([]string, error) {
	warnDeprecated(p.warner, "friendPackages.packageListPattern", "publicPackages.entries")
	return p.Entries()
}

func (p *PublicPackageSet) resolveNames() ([]string, error) {
	var names []string
	for _, gen := range p.generators {
		found, err := gen(p.scanner)
		if err != nil {
			return nil, err
		}
		names = append(names, found...)
	}
	return names, nil
}

func toStarImport(packageName string) string {
	if strings.HasSuffix(packageName, "*") {
		return packageName
	}
	return packageName + ".*"
}
