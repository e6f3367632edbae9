// SPDX-License-Identifier: MPL-2.0

package project

import (
	"errors"
	"fmt"

	"github.com/nbmkit/nbmkit/internal/config"
	"github.com/nbmkit/nbmkit/pkg/lazy"
	"github.com/nbmkit/nbmkit/pkg/nbmmod"
)

type (
	// Option configures Open.
	Option func(*openOptions)

	openOptions struct {
		getenv     func(string) string
		descriptor []nbmmod.Option
	}
)

// WithEnv sets the environment lookup used for '$' expansion.
func WithEnv(getenv func(string) string) Option {
	return func(o *openOptions) { o.getenv = getenv }
}

// WithDescriptorOptions passes options through to nbmmod.New.
func WithDescriptorOptions(opts ...nbmmod.Option) Option {
	return func(o *openOptions) { o.descriptor = append(o.descriptor, opts...) }
}

// Open builds a descriptor for cfg. Only friend names are validated here;
// every other setting is checked when the descriptor reads it.
func Open(cfg *config.Project, opts ...Option) (*nbmmod.Descriptor, error) {
	var o openOptions
	for _, opt := range opts {
		opt(&o)
	}

	h := NewHost(cfg, o.getenv)
	d := nbmmod.New(h, o.descriptor...)
	m := cfg.Module

	if m.Name != "" {
		d.SetModuleName(h.Value(m.Name))
	}
	for _, s := range []struct {
		prop *lazy.Property[string]
		raw  string
	}{
		{d.Cluster(), m.Cluster},
		{d.SpecificationVersion(), m.SpecificationVersion},
		{d.ImplementationVersion(), m.ImplementationVersion},
		{d.BuildVersion(), m.BuildVersion},
		{d.LocalizingBundle(), m.LocalizingBundle},
		{d.ModuleInstall(), m.ModuleInstall},
		{d.ModuleAuthor(), m.ModuleAuthor},
		{d.HomePage(), m.HomePage},
		{d.Distribution(), m.Distribution},
		{d.Layer(), m.Layer},
		{d.JavaDependency(), m.JavaDependency},
		{d.ClasspathExtFolder(), m.ClasspathExtFolder},
		{d.ArchiveFileName(), m.ArchiveFileName},
	} {
		if s.raw != "" {
			s.prop.Set(h.Value(s.raw))
		}
	}
	for _, s := range []struct {
		prop *lazy.Property[string]
		raw  string
	}{
		{d.LicenseFile(), m.LicenseFile},
		{d.NbmBuildDir(), m.NbmBuildDir},
		{d.ModuleBuildDir(), m.ModuleBuildDir},
		{d.GeneratedManifestFile(), m.GeneratedManifestFile},
	} {
		if s.raw != "" {
			s.prop.Set(h.PathValue(s.raw))
		}
	}
	for _, f := range []struct {
		prop  *lazy.Property[bool]
		value *bool
	}{
		{d.Eager(), m.Eager},
		{d.Autoload(), m.Autoload},
		{d.NeedsRestart(), m.NeedsRestart},
		{d.AutoupdateShowInClient(), m.AutoupdateShowInClient},
		{d.GenerateLastModifiedFile(), m.GenerateLastModifiedFile},
	} {
		if f.value != nil {
			f.prop.SetValue(*f.value)
		}
	}

	for _, token := range m.Requires {
		d.Requires(token)
	}

	err := d.ConfigureFriends(func(friends *nbmmod.FriendSet) error {
		for i, name := range m.Friends {
			if err := friends.Add(name); err != nil {
				return fmt.Errorf("module.friends[%d]: %w", i, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sets, err := sourceSets(h, cfg)
	if err != nil {
		return nil, err
	}
	d.ConfigurePublicPackages(func(p *nbmmod.PublicPackageSet) {
		declare(p, m.PublicPackages, sets)
	})
	if len(m.FriendPackages) > 0 {
		d.ConfigureFriendPackages(func(p *nbmmod.PublicPackageSet) {
			declare(p, m.FriendPackages, sets)
		})
	}

	d.ConfigureKeyStore(func(k *nbmmod.KeyStore) {
		if m.KeyStore.File != "" {
			k.File().Set(h.PathValue(m.KeyStore.File))
		}
		if m.KeyStore.Username != "" {
			k.Username().Set(h.Value(m.KeyStore.Username))
		}
		if m.KeyStore.Password != "" {
			k.Password().Set(h.Value(m.KeyStore.Password))
		}
	})

	return d, nil
}

// sourceSets expands and absolutizes every source set directory. Directories
// that expand to nothing are dropped.
func sourceSets(h *Host, cfg *config.Project) (map[string]*nbmmod.SourceSet, error) {
	sets := make(map[string]*nbmmod.SourceSet, len(cfg.SourceSets))
	for _, name := range cfg.SourceSetNames() {
		set := nbmmod.NewSourceSet(name)
		for _, raw := range cfg.SourceSets[name] {
			dir, err := h.Expand(raw)
			if errors.Is(err, lazy.ErrMissingValue) {
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("source_sets.%s: %w", name, err)
			}
			set.Add(h.abs(dir))
		}
		sets[name] = set
	}
	return sets, nil
}

func declare(p *nbmmod.PublicPackageSet, decls []config.PublicPackage, sets map[string]*nbmmod.SourceSet) {
	for _, decl := range decls {
		if !decl.IsScanned() {
			p.Add(decl.Name)
			continue
		}
		// Project.Validate guarantees the set exists.
		if set, ok := sets[decl.SourceSetName()]; ok {
			p.AddWithSubpackages(set, *decl.Prefix)
		}
	}
}
