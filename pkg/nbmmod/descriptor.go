// SPDX-License-Identifier: MPL-2.0

package nbmmod

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"

	"github.com/nbmkit/nbmkit/pkg/lazy"
	"github.com/nbmkit/nbmkit/pkg/moduleid"
	"github.com/nbmkit/nbmkit/pkg/pkgscan"
)

const (
	// ModuleFormatToken is the module format dependency every module requires.
	ModuleFormatToken = "org.openide.modules.ModuleFormat1"

	// ArchiveExtension is the suffix of NBM archive files.
	ArchiveExtension = ".nbm"

	// DefaultCluster is the cluster modules are installed into unless configured.
	DefaultCluster = "extra"

	// DefaultBuildDir is used when the project does not report a build directory.
	DefaultBuildDir = "build"

	// BuildVersionLayout formats the build timestamp as yyyyMMddHHmmss.
	BuildVersionLayout = "20060102150405"
)

// ErrConfiguration is the sentinel error wrapped by ConfigurationError.
var ErrConfiguration = errors.New("invalid module configuration")

type (
	// Project is the host build's view of the project owning the module.
	Project interface {
		// Name is the project name; the module name defaults to it.
		Name() string
		// Version is the project version. It may be a deferred value and is
		// coerced with lazy.AsString when read.
		Version() any
		// BuildDir is the root of the project's build outputs.
		BuildDir() string
	}

	// Clock supplies the build timestamp.
	Clock interface {
		Now() time.Time
	}

	// Option configures a Descriptor.
	Option func(*Descriptor)

	// ConfigurationError reports a field that has no value and no usable default,
	// or whose value could not be resolved.
	ConfigurationError struct {
		Property string
		Err      error
	}

	// Descriptor is the metadata descriptor of one module for one build.
	Descriptor struct {
		project Project
		clock   Clock
		warner  Warner
		scanner *pkgscan.Scanner

		moduleName            lazy.Property[string]
		cluster               lazy.Property[string]
		specificationVersion  lazy.Property[string]
		implementationVersion lazy.Property[string]
		buildVersion          lazy.Property[string]
		localizingBundle      lazy.Property[string]
		moduleInstall         lazy.Property[string]
		licenseFile           lazy.Property[string]
		moduleAuthor          lazy.Property[string]
		homePage              lazy.Property[string]
		distribution          lazy.Property[string]
		layer                 lazy.Property[string]
		javaDependency        lazy.Property[string]
		classpathExtFolder    lazy.Property[string]
		archiveFileName       lazy.Property[string]
		nbmBuildDir           lazy.Property[string]
		moduleBuildDir        lazy.Property[string]
		generatedManifestFile lazy.Property[string]

		eager                    lazy.Property[bool]
		autoload                 lazy.Property[bool]
		needsRestart             lazy.Property[bool]
		autoupdateShowInClient   lazy.Property[bool]
		generateLastModifiedFile lazy.Property[bool]

		requires       []string
		friends        *FriendSet
		publicPackages *PublicPackageSet
		keyStore       *KeyStore

		timestampMu    sync.Mutex
		buildTimestamp time.Time
		timestampTaken bool
	}

	realClock struct{}
)

// Now returns the current system time.
func (realClock) Now() time.Time { return time.Now() }

// WithClock sets the clock the build timestamp is sampled from.
func WithClock(c Clock) Option {
	return func(d *Descriptor) { d.clock = c }
}

// WithWarner sets the sink for deprecation warnings.
func WithWarner(w Warner) Option {
	return func(d *Descriptor) { d.warner = w }
}

// WithFs sets the filesystem source trees are scanned on.
func WithFs(fs afero.Fs) Option {
	return func(d *Descriptor) { d.scanner = pkgscan.New(fs) }
}

// New returns a Descriptor for project with every default wired.
func New(project Project, opts ...Option) *Descriptor {
	d := &Descriptor{
		project:  project,
		clock:    realClock{},
		warner:   log.Default(),
		requires: []string{ModuleFormatToken},
		friends:  NewFriendSet(),
		keyStore: &KeyStore{},
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.scanner == nil {
		d.scanner = pkgscan.NewOS()
	}
	d.publicPackages = newPublicPackageSet(d.scanner, d.warner)

	d.moduleName.Convention(lazy.From(d.defaultModuleName))
	d.cluster.Convention(lazy.Of(DefaultCluster))
	d.specificationVersion.Convention(lazy.From(func() (string, error) {
		return lazy.AsString(d.project.Version())
	}))
	d.buildVersion.Convention(lazy.FromPure(func() string {
		return d.BuildTimestamp().Format(BuildVersionLayout)
	}))
	d.eager.Convention(lazy.Of(false))
	d.autoload.Convention(lazy.Of(false))
	d.generateLastModifiedFile.Convention(lazy.Of(true))
	d.archiveFileName.Convention(lazy.From(func() (string, error) {
		name, err := d.ModuleName()
		if err != nil {
			return "", err
		}
		return strings.ReplaceAll(name, ".", "-") + ArchiveExtension, nil
	}))
	d.distribution.Convention(d.archiveFileName.AsValue())
	d.nbmBuildDir.Convention(lazy.FromPure(func() string { return d.inBuildDir("nbm") }))
	d.moduleBuildDir.Convention(lazy.FromPure(func() string { return d.inBuildDir("module") }))
	d.generatedManifestFile.Convention(lazy.FromPure(func() string { return d.inBuildDir("generated-manifest.mf") }))

	return d
}

func (d *Descriptor) defaultModuleName() (string, error) {
	name := d.project.Name()
	if name == "" {
		return "", lazy.ErrMissingValue
	}
	return strings.ReplaceAll(name, "-", "."), nil
}

func (d *Descriptor) inBuildDir(name string) string {
	dir := d.project.BuildDir()
	if dir == "" {
		dir = DefaultBuildDir
	}
	return filepath.Join(dir, name)
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	if errors.Is(e.Err, lazy.ErrMissingValue) {
		return fmt.Sprintf("%s: %q has no value and no default can be derived", ErrConfiguration, e.Property)
	}
	return fmt.Sprintf("%s: %q: %v", ErrConfiguration, e.Property, e.Err)
}

// Unwrap returns the underlying cause. ConfigurationError also matches
// ErrConfiguration through Is.
func (e *ConfigurationError) Unwrap() error { return e.Err }

// Is reports whether target is ErrConfiguration.
func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }

// ModuleName returns the validated module code name. Validation runs on every
// read, so an invalid default derived from the project name is reported here.
func (d *Descriptor) ModuleName() (string, error) {
	name, err := d.moduleName.Get()
	if err != nil {
		return "", &ConfigurationError{Property: "moduleName", Err: err}
	}
	valid, err := moduleid.Validate(name)
	if err != nil {
		return "", err
	}
	return valid.String(), nil
}

// SetModuleName sets the module code name. It is validated when read.
func (d *Descriptor) SetModuleName(name lazy.Value[string]) { d.moduleName.Set(name) }

// Cluster is the platform cluster the module is installed into.
func (d *Descriptor) Cluster() *lazy.Property[string] { return &d.cluster }

// SpecificationVersion defaults to the project version.
func (d *Descriptor) SpecificationVersion() *lazy.Property[string] { return &d.specificationVersion }

// ImplementationVersion has no default; the manifest falls back to the build version.
func (d *Descriptor) ImplementationVersion() *lazy.Property[string] { return &d.implementationVersion }

// BuildVersion defaults to the build timestamp formatted with BuildVersionLayout.
func (d *Descriptor) BuildVersion() *lazy.Property[string] { return &d.buildVersion }

// LocalizingBundle is the resource path of the module's localized bundle.
func (d *Descriptor) LocalizingBundle() *lazy.Property[string] { return &d.localizingBundle }

// ModuleInstall is the fully qualified name of the module installer class.
func (d *Descriptor) ModuleInstall() *lazy.Property[string] { return &d.moduleInstall }

// LicenseFile is the path of the license shown by the update center.
func (d *Descriptor) LicenseFile() *lazy.Property[string] { return &d.licenseFile }

// ModuleAuthor is the author shown by the update center.
func (d *Descriptor) ModuleAuthor() *lazy.Property[string] { return &d.moduleAuthor }

// HomePage is the module home page URL.
func (d *Descriptor) HomePage() *lazy.Property[string] { return &d.homePage }

// Distribution is the download URL of the archive and defaults to its file name.
func (d *Descriptor) Distribution() *lazy.Property[string] { return &d.distribution }

// Layer is the resource path of the module's XML layer.
func (d *Descriptor) Layer() *lazy.Property[string] { return &d.layer }

// JavaDependency is the required Java platform, such as "Java > 17".
func (d *Descriptor) JavaDependency() *lazy.Property[string] { return &d.javaDependency }

// ClasspathExtFolder is the folder extension libraries are placed in.
func (d *Descriptor) ClasspathExtFolder() *lazy.Property[string] { return &d.classpathExtFolder }

// ArchiveFileName defaults to the module name with dots replaced by dashes, plus ".nbm".
func (d *Descriptor) ArchiveFileName() *lazy.Property[string] { return &d.archiveFileName }

// NbmBuildDir is where the archive is assembled; defaults to <buildDir>/nbm.
func (d *Descriptor) NbmBuildDir() *lazy.Property[string] { return &d.nbmBuildDir }

// ModuleBuildDir is where the module cluster layout is staged; defaults to <buildDir>/module.
func (d *Descriptor) ModuleBuildDir() *lazy.Property[string] { return &d.moduleBuildDir }

// GeneratedManifestFile defaults to <buildDir>/generated-manifest.mf.
func (d *Descriptor) GeneratedManifestFile() *lazy.Property[string] { return &d.generatedManifestFile }

// Eager modules are enabled as soon as all their dependencies are; defaults to false.
func (d *Descriptor) Eager() *lazy.Property[bool] { return &d.eager }

// Autoload modules are enabled only when another module needs them; defaults to false.
func (d *Descriptor) Autoload() *lazy.Property[bool] { return &d.autoload }

// NeedsRestart marks modules whose installation requires an IDE restart.
func (d *Descriptor) NeedsRestart() *lazy.Property[bool] { return &d.needsRestart }

// AutoupdateShowInClient controls visibility in the plugin manager.
func (d *Descriptor) AutoupdateShowInClient() *lazy.Property[bool] { return &d.autoupdateShowInClient }

// GenerateLastModifiedFile controls the last-modified marker; defaults to true.
func (d *Descriptor) GenerateLastModifiedFile() *lazy.Property[bool] { return &d.generateLastModifiedFile }

// KeyStore returns the signing credentials.
func (d *Descriptor) KeyStore() *KeyStore { return d.keyStore }

// ConfigureKeyStore applies fn to the signing credentials.
func (d *Descriptor) ConfigureKeyStore(fn func(*KeyStore)) {
	lazy.Configure(d.keyStore, fn)
}

// Requires appends a dependency token. Duplicates are kept.
func (d *Descriptor) Requires(token string) {
	d.requires = append(d.requires, token)
}

// SetRequires replaces the declared tokens. ModuleFormatToken stays first and
// is not repeated when tokens already starts with it.
func (d *Descriptor) SetRequires(tokens []string) {
	if len(tokens) > 0 && tokens[0] == ModuleFormatToken {
		tokens = tokens[1:]
	}
	d.requires = append([]string{ModuleFormatToken}, tokens...)
}

// RequiredTokens returns a copy of the dependency tokens in declaration order.
func (d *Descriptor) RequiredTokens() []string {
	return append([]string(nil), d.requires...)
}

// Friends returns the friend module set.
func (d *Descriptor) Friends() *FriendSet { return d.friends }

// ConfigureFriends applies fn to the friend module set and returns its error.
// A nil fn does nothing. Friends added before fn fails stay in the set.
func (d *Descriptor) ConfigureFriends(fn func(*FriendSet) error) error {
	if fn == nil {
		return nil
	}
	return fn(d.friends)
}

// PublicPackages returns the exported package declarations.
func (d *Descriptor) PublicPackages() *PublicPackageSet { return d.publicPackages }

// ConfigurePublicPackages applies fn to the exported package declarations.
func (d *Descriptor) ConfigurePublicPackages(fn func(*PublicPackageSet)) {
	lazy.Configure(d.publicPackages, fn)
}

// FriendPackages returns the exported package declarations.
//
// Deprecated: use PublicPackages.
func (d *Descriptor) FriendPackages() *PublicPackageSet {
	warnDeprecated(d.warner, "friendPackages", "publicPackages")
	return d.PublicPackages()
}

// ConfigureFriendPackages applies fn to the exported package declarations.
//
// Deprecated: use ConfigurePublicPackages.
func (d *Descriptor) ConfigureFriendPackages(fn func(*PublicPackageSet)) {
	warnDeprecated(d.warner, "friendPackages", "publicPackages")
	d.ConfigurePublicPackages(fn)
}

// BuildTimestamp returns the instant of this build. The clock is sampled on
// the first call only, even under concurrent first calls.
func (d *Descriptor) BuildTimestamp() time.Time {
	d.timestampMu.Lock()
	defer d.timestampMu.Unlock()

	if !d.timestampTaken {
		d.buildTimestamp = d.clock.Now().UTC()
		d.timestampTaken = true
	}
	return d.buildTimestamp
}

// LastModifiedTimestamp returns the build timestamp in epoch milliseconds, or
// 0 when GenerateLastModifiedFile is false.
func (d *Descriptor) LastModifiedTimestamp() (int64, error) {
	enabled, err := d.generateLastModifiedFile.Get()
	if err != nil {
		return 0, &ConfigurationError{Property: "generateLastModifiedFile", Err: err}
	}
	if !enabled {
		return 0, nil
	}
	return d.BuildTimestamp().UnixMilli(), nil
}
