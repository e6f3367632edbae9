// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nbmkit/nbmkit/internal/config"
	"github.com/nbmkit/nbmkit/pkg/moduleid"
	"github.com/nbmkit/nbmkit/pkg/types"
)

func newInitCommand() *cobra.Command {
	var (
		name  string
		force bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a starter nbm.cue in the project directory",
		Long: `Create a starter nbm.cue in the project directory.

The project name defaults to the directory name; --name sets the module
code name explicitly.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir := projectDir
			if dir == "" {
				dir = "."
			}
			dir, err := filepath.Abs(dir)
			if err != nil {
				return fail(cmd, types.ExitFailure, err)
			}
			if name != "" {
				if _, err := moduleid.Validate(name); err != nil {
					return fail(cmd, types.ExitInvalid, err)
				}
			}

			filename := filepath.Join(dir, config.CUEFileName)
			if _, err := os.Stat(filename); err == nil && !force {
				return fail(cmd, types.ExitFailure, fmt.Errorf("file '%s' already exists. Use --force to overwrite", filename))
			}

			content := config.GenerateCUE(starterProject(filepath.Base(dir), name))
			if err := os.WriteFile(filename, []byte(content), 0o644); err != nil {
				return fail(cmd, types.ExitFailure, fmt.Errorf("failed to write file: %w", err))
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s Created %s\n", SuccessStyle.Render("✓"), filename)
			fmt.Fprintln(out)
			fmt.Fprintln(out, SubtitleStyle.Render("Next steps:"))
			fmt.Fprintln(out, "  1. Fill in the module section of nbm.cue")
			fmt.Fprintln(out, "  2. Run 'nbm describe' to see the resolved descriptor")
			fmt.Fprintln(out, "  3. Run 'nbm manifest --write' before packaging")
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "module code name (default is derived from the project name)")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing nbm.cue")

	return cmd
}

func starterProject(projectName, moduleName string) *config.Project {
	return &config.Project{
		Name:    projectName,
		Version: "1.0.0",
		Module: config.Module{
			Name:                 moduleName,
			SpecificationVersion: "1.0",
		},
	}
}
