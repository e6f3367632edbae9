// SPDX-License-Identifier: MPL-2.0

package nbmmod

import (
	"strconv"
	"strings"

	"github.com/nbmkit/nbmkit/pkg/lazy"
	"github.com/nbmkit/nbmkit/pkg/manifest"
)

// Manifest header names, in the order ManifestAttributes emits them.
const (
	AttrManifestVersion       = "Manifest-Version"
	AttrModule                = "OpenIDE-Module"
	AttrSpecificationVersion  = "OpenIDE-Module-Specification-Version"
	AttrImplementationVersion = "OpenIDE-Module-Implementation-Version"
	AttrBuildVersion          = "OpenIDE-Module-Build-Version"
	AttrLocalizingBundle      = "OpenIDE-Module-Localizing-Bundle"
	AttrInstall               = "OpenIDE-Module-Install"
	AttrLayer                 = "OpenIDE-Module-Layer"
	AttrJavaDependencies      = "OpenIDE-Module-Java-Dependencies"
	AttrRequires              = "OpenIDE-Module-Requires"
	AttrPublicPackages        = "OpenIDE-Module-Public-Packages"
	AttrFriends               = "OpenIDE-Module-Friends"
	AttrShowInClient          = "AutoUpdate-Show-In-Client"

	manifestVersion = "1.0"
	noPackages      = "-"
)

type (
	// Resolved is the fully evaluated descriptor handed to the packaging step.
	// Optional fields that were never set are empty; optional flags are nil.
	Resolved struct {
		ModuleName             string               `json:"moduleName"`
		Cluster                string               `json:"cluster"`
		SpecificationVersion   string               `json:"specificationVersion,omitempty"`
		ImplementationVersion  string               `json:"implementationVersion,omitempty"`
		BuildVersion           string               `json:"buildVersion"`
		LocalizingBundle       string               `json:"localizingBundle,omitempty"`
		ModuleInstall          string               `json:"moduleInstall,omitempty"`
		LicenseFile            string               `json:"licenseFile,omitempty"`
		ModuleAuthor           string               `json:"moduleAuthor,omitempty"`
		HomePage               string               `json:"homePage,omitempty"`
		Distribution           string               `json:"distribution"`
		Layer                  string               `json:"layer,omitempty"`
		JavaDependency         string               `json:"javaDependency,omitempty"`
		ClasspathExtFolder     string               `json:"classpathExtFolder,omitempty"`
		ArchiveFileName        string               `json:"archiveFileName"`
		NbmBuildDir            string               `json:"nbmBuildDir"`
		ModuleBuildDir         string               `json:"moduleBuildDir"`
		GeneratedManifestFile  string               `json:"generatedManifestFile"`
		Eager                  bool                 `json:"eager"`
		Autoload               bool                 `json:"autoload"`
		NeedsRestart           *bool                `json:"needsRestart,omitempty"`
		AutoupdateShowInClient *bool                `json:"autoupdateShowInClient,omitempty"`
		LastModified           int64                `json:"lastModified"`
		Requires               []string             `json:"requires"`
		Friends                []string             `json:"friends"`
		PublicPackages         []string             `json:"publicPackages"`
		KeyStore               ResolvedKeyStore     `json:"keyStore"`
		Manifest               []manifest.Attribute `json:"manifest"`
	}

	// ResolvedKeyStore carries the signing credentials. The password is never serialized.
	ResolvedKeyStore struct {
		File     string `json:"file,omitempty"`
		Username string `json:"username,omitempty"`
		Password string `json:"-"`
	}

	// resolver collects the first resolution error so long field lists read linearly.
	resolver struct {
		err error
	}
)

func (r *resolver) required(name string, p *lazy.Property[string]) string {
	if r.err != nil {
		return ""
	}
	v, err := p.Get()
	if err != nil {
		r.err = &ConfigurationError{Property: name, Err: err}
	}
	return v
}

func (r *resolver) optional(name string, p *lazy.Property[string]) string {
	if r.err != nil {
		return ""
	}
	v, err := p.OrElse("")
	if err != nil {
		r.err = &ConfigurationError{Property: name, Err: err}
	}
	return v
}

func (r *resolver) flag(name string, p *lazy.Property[bool]) bool {
	if r.err != nil {
		return false
	}
	v, err := p.Get()
	if err != nil {
		r.err = &ConfigurationError{Property: name, Err: err}
	}
	return v
}

func (r *resolver) optionalFlag(name string, p *lazy.Property[bool]) *bool {
	if r.err != nil || !p.IsPresent() {
		return nil
	}
	v, err := p.Get()
	if err != nil {
		r.err = &ConfigurationError{Property: name, Err: err}
		return nil
	}
	return &v
}

func (r *resolver) set(err error) {
	if r.err == nil {
		r.err = err
	}
}

// ManifestAttributes assembles the module manifest headers in a fixed order:
// Manifest-Version, OpenIDE-Module, specification, implementation and build
// versions, localizing bundle, installer, layer, Java dependency, requires
// tokens, public packages, friends and AutoUpdate-Show-In-Client. Headers
// for unset optional fields are omitted. Public packages are "-" when none
// are declared; friends are omitted when empty.
func (d *Descriptor) ManifestAttributes() (*manifest.Attributes, error) {
	name, err := d.ModuleName()
	if err != nil {
		return nil, err
	}

	r := &resolver{}
	spec := r.optional("specificationVersion", &d.specificationVersion)
	build := r.required("buildVersion", &d.buildVersion)
	impl := r.optional("implementationVersion", &d.implementationVersion)
	bundle := r.optional("localizingBundle", &d.localizingBundle)
	install := r.optional("moduleInstall", &d.moduleInstall)
	layer := r.optional("layer", &d.layer)
	javaDep := r.optional("javaDependency", &d.javaDependency)
	showInClient := r.optionalFlag("autoupdateShowInClient", &d.autoupdateShowInClient)
	if r.err != nil {
		return nil, r.err
	}

	packages, err := d.publicPackages.Entries()
	if err != nil {
		return nil, err
	}
	if impl == "" {
		impl = build
	}

	attrs := &manifest.Attributes{}
	attrs.Set(AttrManifestVersion, manifestVersion)
	attrs.Set(AttrModule, name)
	setIfPresent(attrs, AttrSpecificationVersion, spec)
	attrs.Set(AttrImplementationVersion, impl)
	attrs.Set(AttrBuildVersion, build)
	setIfPresent(attrs, AttrLocalizingBundle, bundle)
	setIfPresent(attrs, AttrInstall, install)
	setIfPresent(attrs, AttrLayer, layer)
	setIfPresent(attrs, AttrJavaDependencies, javaDep)
	attrs.Set(AttrRequires, strings.Join(d.requires, ", "))
	if len(packages) == 0 {
		attrs.Set(AttrPublicPackages, noPackages)
	} else {
		attrs.Set(AttrPublicPackages, strings.Join(packages, ", "))
	}
	if friends := d.friends.Entries(); len(friends) > 0 {
		attrs.Set(AttrFriends, strings.Join(friends, ", "))
	}
	if showInClient != nil {
		attrs.Set(AttrShowInClient, strconv.FormatBool(*showInClient))
	}
	return attrs, nil
}

func setIfPresent(attrs *manifest.Attributes, name, value string) {
	if value != "" {
		attrs.Set(name, value)
	}
}

// Resolve evaluates every field and returns the result. The first failure
// stops resolution.
func (d *Descriptor) Resolve() (*Resolved, error) {
	attrs, err := d.ManifestAttributes()
	if err != nil {
		return nil, err
	}

	res := &Resolved{}
	res.ModuleName, err = d.ModuleName()
	if err != nil {
		return nil, err
	}

	r := &resolver{}
	res.Cluster = r.required("cluster", &d.cluster)
	res.SpecificationVersion = r.optional("specificationVersion", &d.specificationVersion)
	res.ImplementationVersion = r.optional("implementationVersion", &d.implementationVersion)
	res.BuildVersion = r.required("buildVersion", &d.buildVersion)
	res.LocalizingBundle = r.optional("localizingBundle", &d.localizingBundle)
	res.ModuleInstall = r.optional("moduleInstall", &d.moduleInstall)
	res.LicenseFile = r.optional("licenseFile", &d.licenseFile)
	res.ModuleAuthor = r.optional("moduleAuthor", &d.moduleAuthor)
	res.HomePage = r.optional("homePage", &d.homePage)
	res.Distribution = r.required("distribution", &d.distribution)
	res.Layer = r.optional("layer", &d.layer)
	res.JavaDependency = r.optional("javaDependency", &d.javaDependency)
	res.ClasspathExtFolder = r.optional("classpathExtFolder", &d.classpathExtFolder)
	res.ArchiveFileName = r.required("archiveFileName", &d.archiveFileName)
	res.NbmBuildDir = r.required("nbmBuildDir", &d.nbmBuildDir)
	res.ModuleBuildDir = r.required("moduleBuildDir", &d.moduleBuildDir)
	res.GeneratedManifestFile = r.required("generatedManifestFile", &d.generatedManifestFile)
	res.Eager = r.flag("eager", &d.eager)
	res.Autoload = r.flag("autoload", &d.autoload)
	res.NeedsRestart = r.optionalFlag("needsRestart", &d.needsRestart)
	res.AutoupdateShowInClient = r.optionalFlag("autoupdateShowInClient", &d.autoupdateShowInClient)
	res.KeyStore = ResolvedKeyStore{
		File:     r.optional("keyStore.file", &d.keyStore.file),
		Username: r.optional("keyStore.username", &d.keyStore.username),
		Password: r.optional("keyStore.password", &d.keyStore.password),
	}
	lastModified, err := d.LastModifiedTimestamp()
	r.set(err)
	if r.err != nil {
		return nil, r.err
	}
	res.LastModified = lastModified

	res.Requires = d.RequiredTokens()
	res.Friends = d.friends.Entries()
	res.PublicPackages, err = d.publicPackages.Entries()
	if err != nil {
		return nil, err
	}
	res.Manifest = attrs.Entries()
	return res, nil
}
