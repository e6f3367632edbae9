// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"github.com/nbmkit/nbmkit/internal/cueutil"
	"github.com/nbmkit/nbmkit/internal/issue"
)

const (
	// CUEFileName is the preferred project file name.
	CUEFileName = "nbm.cue"
	// TOMLFileName is the alternative project file name.
	TOMLFileName = "nbm.toml"
	// EnvPrefix prefixes environment overrides, e.g. NBM_MODULE_CLUSTER.
	EnvPrefix = "NBM"

	schemaDefinition = "#Project"
)

//go:embed nbm_schema.cue
var projectSchema string

// ErrUnsupportedFormat is returned for project files that are neither CUE nor TOML.
var ErrUnsupportedFormat = errors.New("unsupported project file format")

// envKeys are the settings that can be overridden from the environment.
var envKeys = []string{
	"name",
	"version",
	"build_dir",
	"module.name",
	"module.cluster",
	"module.specification_version",
	"module.implementation_version",
	"module.build_version",
	"module.localizing_bundle",
	"module.module_install",
	"module.license_file",
	"module.module_author",
	"module.home_page",
	"module.distribution",
	"module.layer",
	"module.java_dependency",
	"module.classpath_ext_folder",
	"module.archive_file_name",
	"module.nbm_build_dir",
	"module.module_build_dir",
	"module.generated_manifest_file",
	"module.eager",
	"module.autoload",
	"module.needs_restart",
	"module.autoupdate_show_in_client",
	"module.generate_last_modified_file",
	"module.requires",
	"module.friends",
	"module.key_store.file",
	"module.key_store.username",
	"module.key_store.password",
}

type (
	// LoadOptions selects the project to load.
	LoadOptions struct {
		// Dir is the project directory searched for nbm.cue, then nbm.toml.
		// Defaults to the working directory.
		Dir string
		// File forces a specific project file. Its directory becomes the
		// project directory.
		File string
	}

	// Provider loads projects.
	Provider interface {
		Load(ctx context.Context, opts LoadOptions) (*Project, error)
	}

	fileProvider struct{}
)

// NewProvider returns a Provider reading project files from disk.
func NewProvider() Provider {
	return &fileProvider{}
}

// Load reads, validates and merges the project selected by opts.
func (p *fileProvider) Load(ctx context.Context, opts LoadOptions) (*Project, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("load project canceled: %w", ctx.Err())
	default:
	}

	dir, file, err := locate(opts)
	if err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetDefault("name", filepath.Base(dir))
	v.SetDefault("build_dir", DefaultBuildDir)
	v.SetDefault("source_sets."+DefaultSourceSet, []string{DefaultSourceDir})
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind environment for %s: %w", key, err)
		}
	}

	if file != "" {
		doc, err := decodeFile(file)
		if err != nil {
			return nil, issue.NewErrorContext().
				WithOperation("load project").
				WithResource(file).
				WithSuggestion("Check the file syntax").
				WithSuggestion("Verify the values match the project schema, see 'nbm init' for a starter file").
				WithIssue(issue.ProjectFileInvalidId).
				Wrap(err).
				BuildError()
		}
		if err := v.MergeConfigMap(doc); err != nil {
			return nil, fmt.Errorf("merge %s: %w", file, err)
		}
	}

	var project Project
	if err := v.Unmarshal(&project); err != nil {
		return nil, fmt.Errorf("decode project: %w", err)
	}
	project.Dir = dir
	project.File = file

	if err := project.Validate(); err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("validate project").
			WithResource(file).
			WithSuggestion("Declare each public package with either 'name' or 'prefix'").
			WithSuggestion("Add the missing source set under 'source_sets'").
			WithIssue(issue.ProjectFileInvalidId).
			Wrap(err).
			BuildError()
	}
	return &project, nil
}

// locate resolves the project directory and file. A missing file is only an
// error when it was requested explicitly.
func locate(opts LoadOptions) (dir, file string, err error) {
	if opts.File != "" {
		file, err = filepath.Abs(opts.File)
		if err != nil {
			return "", "", fmt.Errorf("resolve %s: %w", opts.File, err)
		}
		if !fileExists(file) {
			return "", "", issue.NewErrorContext().
				WithOperation("load project").
				WithResource(opts.File).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Run 'nbm init' to create a project file").
				WithIssue(issue.ProjectFileNotFoundId).
				Wrap(fmt.Errorf("project file not found: %s", opts.File)).
				BuildError()
		}
		return filepath.Dir(file), file, nil
	}

	dir = opts.Dir
	if dir == "" {
		dir = "."
	}
	dir, err = filepath.Abs(dir)
	if err != nil {
		return "", "", fmt.Errorf("resolve %s: %w", opts.Dir, err)
	}
	for _, name := range []string{CUEFileName, TOMLFileName} {
		candidate := filepath.Join(dir, name)
		if fileExists(candidate) {
			return dir, candidate, nil
		}
	}
	return dir, "", nil
}

// decodeFile validates a project file against the schema and returns its
// settings as a map ready to merge into Viper.
func decodeFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read project file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".cue":
		res, err := cueutil.ParseAndDecode[map[string]any](projectSchema, schemaDefinition, data,
			cueutil.WithFilename(path),
			cueutil.WithConcrete(false),
		)
		if err != nil {
			return nil, err
		}
		return res.Value, nil
	case ".toml":
		if err := cueutil.CheckFileSize(data, cueutil.DefaultMaxFileSize, path); err != nil {
			return nil, err
		}
		var raw map[string]any
		if err := toml.Unmarshal(data, &raw); err != nil {
			var derr *toml.DecodeError
			if errors.As(err, &derr) {
				row, col := derr.Position()
				return nil, fmt.Errorf("%s:%d:%d: %w", path, row, col, err)
			}
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if raw == nil {
			raw = map[string]any{}
		}
		res, err := cueutil.EncodeAndDecode[map[string]any](projectSchema, schemaDefinition, raw,
			cueutil.WithFilename(path),
			cueutil.WithConcrete(false),
		)
		if err != nil {
			return nil, err
		}
		return res.Value, nil
	default:
		return nil, fmt.Errorf("%w: %s (use %s or %s)", ErrUnsupportedFormat, path, CUEFileName, TOMLFileName)
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
