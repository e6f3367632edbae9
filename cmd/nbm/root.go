// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for nbm.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/nbmkit/nbmkit/internal/issue"
	"github.com/nbmkit/nbmkit/pkg/types"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// verbose enables debug logging and full error chains
	verbose bool
	// projectDir is the directory searched for nbm.cue or nbm.toml
	projectDir string
	// projectFile forces a specific project file
	projectFile string

	logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "nbm"})

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "nbm",
		Short: "Resolve NetBeans module descriptors",
		Long: TitleStyle.Render("nbm") + SubtitleStyle.Render(" - NetBeans module descriptor resolver") + `

nbm reads a project file (nbm.cue or nbm.toml), resolves the module
descriptor it declares and produces the OpenIDE-Module manifest that
the packaging step embeds in the module archive.

` + SubtitleStyle.Render("Examples:") + `
  nbm init --name com.example.foo   Create a starter nbm.cue
  nbm describe                      Show the resolved descriptor
  nbm manifest                      Print the module manifest
  nbm manifest --write              Write the manifest into the build directory
  nbm inspect build/foo.nbm         Show the manifest of a module archive
  nbm validate-name org.foo.bar/2   Check a module name`,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			logger.SetOutput(cmd.ErrOrStderr())
			if verbose {
				logger.SetLevel(log.DebugLevel)
			}
		},
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&projectDir, "dir", "C", "", "project directory (default is the working directory)")
	rootCmd.PersistentFlags().StringVar(&projectFile, "file", "", "project file (default is nbm.cue, then nbm.toml, in the project directory)")

	rootCmd.AddCommand(newManifestCommand())
	rootCmd.AddCommand(newDescribeCommand())
	rootCmd.AddCommand(newInspectCommand())
	rootCmd.AddCommand(newValidateNameCommand())
	rootCmd.AddCommand(newInitCommand())
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(int(types.ExitFailure))
	}
}

// fail reports err on the command's error stream and returns the ExitError
// that carries code back to Execute.
func fail(cmd *cobra.Command, code types.ExitCode, err error) error {
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	fmt.Fprintln(cmd.ErrOrStderr(), ErrorStyle.Render("Error:")+" "+formatErrorForDisplay(err, verbose))
	if verbose {
		if guidance := renderGuidance(err); guidance != "" {
			fmt.Fprintln(cmd.ErrOrStderr(), guidance)
		}
	}
	logger.Debug("command failed", "command", cmd.Name(), "exit", code.Describe())
	return &ExitError{Code: code}
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}

// renderGuidance renders the catalog entry that matches err, if any.
func renderGuidance(err error) string {
	id := classifyIssue(err)
	if id == 0 {
		return ""
	}
	entry := issue.Get(id)
	if entry == nil {
		return ""
	}
	out, renderErr := entry.Render("notty")
	if renderErr != nil {
		logger.Debug("rendering guidance failed", "err", renderErr)
		return ""
	}
	return out
}
