// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strconv"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/nbmkit/nbmkit/internal/config"
	"github.com/nbmkit/nbmkit/internal/project"
	"github.com/nbmkit/nbmkit/internal/watch"
	"github.com/nbmkit/nbmkit/pkg/manifest"
	"github.com/nbmkit/nbmkit/pkg/nbmmod"
	"github.com/nbmkit/nbmkit/pkg/types"
)

// lastModifiedFile is written next to the module classes when the
// last-modified marker is enabled.
const lastModifiedFile = ".lastModified"

type manifestParams struct {
	stdout  io.Writer
	fs      afero.Fs
	output  string
	archive string
	write   bool
	json    bool
	watch   bool
}

func newManifestCommand() *cobra.Command {
	p := manifestParams{}

	cmd := &cobra.Command{
		Use:   "manifest",
		Short: "Print or write the module manifest",
		Long: `Resolve the module descriptor and produce its OpenIDE-Module manifest.

Without flags the manifest is printed to stdout. --write stores it at the
descriptor's generated manifest location and, when enabled, writes the
last-modified marker into the module build directory. --watch keeps
running and regenerates the manifest whenever the project file or a
source set changes.`,
		Example: `  # Print the manifest
  nbm manifest

  # Write it where the packaging step expects it
  nbm manifest --write

  # Pack it into a bare module archive for inspection
  nbm manifest --archive build/preview.nbm`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, d, err := loadDescriptor(cmd)
			if err != nil {
				return err
			}
			p.stdout = cmd.OutOrStdout()
			p.fs = afero.NewOsFs()
			if err := runManifest(p, d); err != nil {
				return resolveFailed(cmd, cfg, err)
			}
			if !p.watch {
				return nil
			}
			return watchManifest(cmd, cfg, p)
		},
	}

	cmd.Flags().StringVarP(&p.output, "output", "o", "", "write the manifest to this file instead of stdout")
	cmd.Flags().StringVar(&p.archive, "archive", "", "write a module archive holding only the manifest")
	cmd.Flags().BoolVarP(&p.write, "write", "w", false, "write the manifest to the generated manifest location")
	cmd.Flags().BoolVar(&p.json, "json", false, "print the manifest headers as JSON")
	cmd.Flags().BoolVar(&p.watch, "watch", false, "regenerate the manifest when the project changes")

	return cmd
}

// watchManifest regenerates the manifest on every change until the command's
// context is cancelled. Each rebuild reloads the project file and opens a
// fresh descriptor, so it gets its own build timestamp.
func watchManifest(cmd *cobra.Command, cfg *config.Project, p manifestParams) error {
	dirs, err := project.WatchDirs(cfg, nil)
	if err != nil {
		return fail(cmd, types.ExitConfig, err)
	}
	// Outputs are excluded so writing them does not trigger another rebuild.
	exclude := []string{project.NewHost(cfg, nil).BuildDir()}
	for _, out := range []string{p.output, p.archive} {
		if out != "" {
			exclude = append(exclude, out)
		}
	}
	w, err := watch.New(watch.Config{
		Dirs:    dirs,
		Exclude: exclude,
		Logger:  logger,
		OnChange: func(ctx context.Context, changed []string) error {
			logger.Info("change detected, regenerating manifest", "files", len(changed))
			logger.Debug("changed files", "paths", changed)
			_, d, err := openDescriptor(ctx)
			if err != nil {
				return err
			}
			return runManifest(p, d)
		},
	})
	if err != nil {
		return fail(cmd, types.ExitFailure, err)
	}

	logger.Info("watching for changes", "dirs", w.Roots())
	if err := w.Run(cmd.Context()); err != nil {
		return fail(cmd, types.ExitFailure, err)
	}
	return nil
}

func runManifest(p manifestParams, d *nbmmod.Descriptor) error {
	attrs, err := d.ManifestAttributes()
	if err != nil {
		return err
	}

	wrote := false
	if p.output != "" {
		if err := manifest.WriteFile(p.fs, p.output, attrs); err != nil {
			return err
		}
		fmt.Fprintf(p.stdout, "%s Wrote %s\n", SuccessStyle.Render("✓"), p.output)
		wrote = true
	}
	if p.archive != "" {
		if err := manifest.WriteArchive(p.fs, p.archive, attrs); err != nil {
			return err
		}
		fmt.Fprintf(p.stdout, "%s Wrote %s\n", SuccessStyle.Render("✓"), p.archive)
		wrote = true
	}
	if p.write {
		written, err := writeGenerated(p.fs, d, attrs)
		if err != nil {
			return err
		}
		for _, path := range written {
			fmt.Fprintf(p.stdout, "%s Wrote %s\n", SuccessStyle.Render("✓"), path)
		}
		wrote = true
	}
	if wrote {
		return nil
	}

	if p.json {
		enc := json.NewEncoder(p.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(attrs.Entries())
	}
	return manifest.Write(p.stdout, attrs)
}

// writeGenerated writes the manifest to the generated manifest file and the
// last-modified marker when enabled. It returns the paths written.
func writeGenerated(fs afero.Fs, d *nbmmod.Descriptor, attrs *manifest.Attributes) ([]string, error) {
	target, err := d.GeneratedManifestFile().Get()
	if err != nil {
		return nil, &nbmmod.ConfigurationError{Property: "generatedManifestFile", Err: err}
	}
	if err := manifest.WriteFile(fs, target, attrs); err != nil {
		return nil, err
	}
	written := []string{target}

	stamp, err := d.LastModifiedTimestamp()
	if err != nil {
		return nil, err
	}
	if stamp == 0 {
		return written, nil
	}
	dir, err := d.ModuleBuildDir().Get()
	if err != nil {
		return nil, &nbmmod.ConfigurationError{Property: "moduleBuildDir", Err: err}
	}
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", dir, err)
	}
	marker := filepath.Join(dir, lastModifiedFile)
	if err := afero.WriteFile(fs, marker, []byte(strconv.FormatInt(stamp, 10)), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", marker, err)
	}
	return append(written, marker), nil
}
