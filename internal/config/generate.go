// SPDX-License-Identifier: MPL-2.0

package config

import (
	"fmt"
	"strings"
)

// GenerateCUE renders p as an nbm.cue project file. Unset module fields are
// omitted; the default source set is only written when it was changed.
func GenerateCUE(p *Project) string {
	var sb strings.Builder

	sb.WriteString("// NBM project file. Values containing '$' are expanded from the environment.\n\n")
	fmt.Fprintf(&sb, "name: %q\n", p.Name)
	if p.Version != "" {
		fmt.Fprintf(&sb, "version: %q\n", p.Version)
	}
	if p.BuildDir != "" && p.BuildDir != DefaultBuildDir {
		fmt.Fprintf(&sb, "build_dir: %q\n", p.BuildDir)
	}

	if !hasOnlyDefaultSourceSet(p.SourceSets) {
		sb.WriteString("\nsource_sets: {\n")
		for _, name := range p.SourceSetNames() {
			fmt.Fprintf(&sb, "\t%q: %s\n", name, quoteList(p.SourceSets[name]))
		}
		sb.WriteString("}\n")
	}

	m := p.Module
	sb.WriteString("\nmodule: {\n")
	for _, f := range []struct{ key, value string }{
		{"name", m.Name},
		{"cluster", m.Cluster},
		{"specification_version", m.SpecificationVersion},
		{"implementation_version", m.ImplementationVersion},
		{"build_version", m.BuildVersion},
		{"localizing_bundle", m.LocalizingBundle},
		{"module_install", m.ModuleInstall},
		{"license_file", m.LicenseFile},
		{"module_author", m.ModuleAuthor},
		{"home_page", m.HomePage},
		{"distribution", m.Distribution},
		{"layer", m.Layer},
		{"java_dependency", m.JavaDependency},
		{"classpath_ext_folder", m.ClasspathExtFolder},
		{"archive_file_name", m.ArchiveFileName},
		{"nbm_build_dir", m.NbmBuildDir},
		{"module_build_dir", m.ModuleBuildDir},
		{"generated_manifest_file", m.GeneratedManifestFile},
	} {
		if f.value != "" {
			fmt.Fprintf(&sb, "\t%s: %q\n", f.key, f.value)
		}
	}
	for _, f := range []struct {
		key   string
		value *bool
	}{
		{"eager", m.Eager},
		{"autoload", m.Autoload},
		{"needs_restart", m.NeedsRestart},
		{"autoupdate_show_in_client", m.AutoupdateShowInClient},
		{"generate_last_modified_file", m.GenerateLastModifiedFile},
	} {
		if f.value != nil {
			fmt.Fprintf(&sb, "\t%s: %v\n", f.key, *f.value)
		}
	}
	if len(m.Requires) > 0 {
		fmt.Fprintf(&sb, "\trequires: %s\n", quoteList(m.Requires))
	}
	if len(m.Friends) > 0 {
		fmt.Fprintf(&sb, "\tfriends: %s\n", quoteList(m.Friends))
	}
	if len(m.PublicPackages) > 0 {
		sb.WriteString("\tpublic_packages: [\n")
		for _, decl := range m.PublicPackages {
			fmt.Fprintf(&sb, "\t\t%s,\n", packageDecl(decl))
		}
		sb.WriteString("\t]\n")
	}
	if m.KeyStore != (KeyStore{}) {
		sb.WriteString("\tkey_store: {\n")
		for _, f := range []struct{ key, value string }{
			{"file", m.KeyStore.File},
			{"username", m.KeyStore.Username},
			{"password", m.KeyStore.Password},
		} {
			if f.value != "" {
				fmt.Fprintf(&sb, "\t\t%s: %q\n", f.key, f.value)
			}
		}
		sb.WriteString("\t}\n")
	}
	sb.WriteString("}\n")

	return sb.String()
}

func hasOnlyDefaultSourceSet(sets map[string][]string) bool {
	if len(sets) == 0 {
		return true
	}
	dirs, ok := sets[DefaultSourceSet]
	return len(sets) == 1 && ok && len(dirs) == 1 && dirs[0] == DefaultSourceDir
}

func quoteList(values []string) string {
	quoted := make([]string, 0, len(values))
	for _, v := range values {
		quoted = append(quoted, fmt.Sprintf("%q", v))
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

func packageDecl(decl PublicPackage) string {
	if !decl.IsScanned() {
		return fmt.Sprintf("{name: %q}", decl.Name)
	}
	if decl.SourceSet == "" {
		return fmt.Sprintf("{prefix: %q}", *decl.Prefix)
	}
	return fmt.Sprintf("{prefix: %q, source_set: %q}", *decl.Prefix, decl.SourceSet)
}
