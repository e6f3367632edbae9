// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

const (
	// DefaultBuildDir is the build output directory, relative to the project directory.
	DefaultBuildDir = "build"
	// DefaultSourceSet is the source set scanned packages use when none is named.
	DefaultSourceSet = "main"
	// DefaultSourceDir is the single directory of the default source set.
	DefaultSourceDir = "src/main/java"
)

// ErrInvalidProject is the sentinel error wrapped by InvalidProjectError.
var ErrInvalidProject = errors.New("invalid project")

type (
	// Project is a decoded project file.
	Project struct {
		// Name is the project name; the module name is derived from it.
		Name string `json:"name" mapstructure:"name"`
		// Version is the project version. Values containing '$' are expanded
		// from the environment when read.
		Version string `json:"version,omitempty" mapstructure:"version"`
		// BuildDir is the build output root, relative to Dir unless absolute.
		BuildDir string `json:"build_dir" mapstructure:"build_dir"`
		// SourceSets maps source set names to their directories.
		SourceSets map[string][]string `json:"source_sets" mapstructure:"source_sets"`
		// Module holds the module descriptor settings.
		Module Module `json:"module" mapstructure:"module"`

		// Dir is the project directory relative paths resolve against.
		Dir string `json:"-" mapstructure:"-"`
		// File is the loaded project file, empty when only defaults applied.
		File string `json:"-" mapstructure:"-"`
	}

	// Module mirrors the module descriptor fields. Empty strings and nil flags
	// are unset and leave the descriptor defaults in place.
	Module struct {
		Name                  string `json:"name,omitempty" mapstructure:"name"`
		Cluster               string `json:"cluster,omitempty" mapstructure:"cluster"`
		SpecificationVersion  string `json:"specification_version,omitempty" mapstructure:"specification_version"`
		ImplementationVersion string `json:"implementation_version,omitempty" mapstructure:"implementation_version"`
		BuildVersion          string `json:"build_version,omitempty" mapstructure:"build_version"`
		LocalizingBundle      string `json:"localizing_bundle,omitempty" mapstructure:"localizing_bundle"`
		ModuleInstall         string `json:"module_install,omitempty" mapstructure:"module_install"`
		LicenseFile           string `json:"license_file,omitempty" mapstructure:"license_file"`
		ModuleAuthor          string `json:"module_author,omitempty" mapstructure:"module_author"`
		HomePage              string `json:"home_page,omitempty" mapstructure:"home_page"`
		Distribution          string `json:"distribution,omitempty" mapstructure:"distribution"`
		Layer                 string `json:"layer,omitempty" mapstructure:"layer"`
		JavaDependency        string `json:"java_dependency,omitempty" mapstructure:"java_dependency"`
		ClasspathExtFolder    string `json:"classpath_ext_folder,omitempty" mapstructure:"classpath_ext_folder"`
		ArchiveFileName       string `json:"archive_file_name,omitempty" mapstructure:"archive_file_name"`
		NbmBuildDir           string `json:"nbm_build_dir,omitempty" mapstructure:"nbm_build_dir"`
		ModuleBuildDir        string `json:"module_build_dir,omitempty" mapstructure:"module_build_dir"`
		GeneratedManifestFile string `json:"generated_manifest_file,omitempty" mapstructure:"generated_manifest_file"`

		Eager                    *bool `json:"eager,omitempty" mapstructure:"eager"`
		Autoload                 *bool `json:"autoload,omitempty" mapstructure:"autoload"`
		NeedsRestart             *bool `json:"needs_restart,omitempty" mapstructure:"needs_restart"`
		AutoupdateShowInClient   *bool `json:"autoupdate_show_in_client,omitempty" mapstructure:"autoupdate_show_in_client"`
		GenerateLastModifiedFile *bool `json:"generate_last_modified_file,omitempty" mapstructure:"generate_last_modified_file"`

		Requires       []string        `json:"requires,omitempty" mapstructure:"requires"`
		Friends        []string        `json:"friends,omitempty" mapstructure:"friends"`
		PublicPackages []PublicPackage `json:"public_packages,omitempty" mapstructure:"public_packages"`
		// Deprecated: use PublicPackages.
		FriendPackages []PublicPackage `json:"friend_packages,omitempty" mapstructure:"friend_packages"`

		KeyStore KeyStore `json:"key_store" mapstructure:"key_store"`
	}

	// PublicPackage declares either a literal package (Name) or every package
	// found under Prefix in a source set.
	PublicPackage struct {
		Name      string  `json:"name,omitempty" mapstructure:"name"`
		Prefix    *string `json:"prefix,omitempty" mapstructure:"prefix"`
		SourceSet string  `json:"source_set,omitempty" mapstructure:"source_set"`
	}

	// KeyStore holds the signing credentials.
	KeyStore struct {
		File     string `json:"file,omitempty" mapstructure:"file"`
		Username string `json:"username,omitempty" mapstructure:"username"`
		Password string `json:"-" mapstructure:"password"`
	}

	// InvalidProjectError is returned when a decoded project violates a rule
	// the schema cannot express. It wraps ErrInvalidProject.
	InvalidProjectError struct {
		File        string
		FieldErrors []error
	}
)

// Error implements the error interface.
func (e *InvalidProjectError) Error() string {
	msgs := make([]string, 0, len(e.FieldErrors))
	for _, err := range e.FieldErrors {
		msgs = append(msgs, err.Error())
	}
	file := e.File
	if file == "" {
		file = "project"
	}
	return fmt.Sprintf("%s: invalid project: %s", file, strings.Join(msgs, "; "))
}

// Unwrap returns ErrInvalidProject for errors.Is() compatibility.
func (e *InvalidProjectError) Unwrap() error { return ErrInvalidProject }

// IsScanned reports whether the declaration scans a source set.
func (p PublicPackage) IsScanned() bool { return p.Prefix != nil }

// SourceSetName returns the referenced source set, DefaultSourceSet when unnamed.
func (p PublicPackage) SourceSetName() string {
	if p.SourceSet == "" {
		return DefaultSourceSet
	}
	return p.SourceSet
}

// Validate checks the cross-field rules: every public package declaration is
// either literal or scanned, and scanned declarations name a known source set.
func (p *Project) Validate() error {
	var errs []error
	check := func(field string, decls []PublicPackage) {
		for i, decl := range decls {
			switch {
			case decl.Name != "" && decl.IsScanned():
				errs = append(errs, fmt.Errorf("%s[%d]: name and prefix are mutually exclusive", field, i))
			case decl.Name == "" && !decl.IsScanned():
				errs = append(errs, fmt.Errorf("%s[%d]: one of name or prefix is required", field, i))
			case decl.IsScanned():
				if _, ok := p.SourceSets[decl.SourceSetName()]; !ok {
					errs = append(errs, fmt.Errorf("%s[%d]: unknown source set %q (known: %s)",
						field, i, decl.SourceSetName(), strings.Join(p.SourceSetNames(), ", ")))
				}
			}
		}
	}
	check("module.public_packages", p.Module.PublicPackages)
	check("module.friend_packages", p.Module.FriendPackages)

	if len(errs) > 0 {
		return &InvalidProjectError{File: p.File, FieldErrors: errs}
	}
	return nil
}

// SourceSetNames returns the declared source set names, sorted.
func (p *Project) SourceSetNames() []string {
	return slices.Sorted(maps.Keys(p.SourceSets))
}
