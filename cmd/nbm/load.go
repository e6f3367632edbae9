// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/nbmkit/nbmkit/internal/config"
	"github.com/nbmkit/nbmkit/internal/issue"
	"github.com/nbmkit/nbmkit/internal/project"
	"github.com/nbmkit/nbmkit/pkg/lazy"
	"github.com/nbmkit/nbmkit/pkg/manifest"
	"github.com/nbmkit/nbmkit/pkg/moduleid"
	"github.com/nbmkit/nbmkit/pkg/nbmmod"
	"github.com/nbmkit/nbmkit/pkg/pkgscan"
	"github.com/nbmkit/nbmkit/pkg/types"
)

// openDescriptor reads the project file selected by the global flags and
// opens its module descriptor.
func openDescriptor(ctx context.Context) (*config.Project, *nbmmod.Descriptor, error) {
	cfg, err := config.NewProvider().Load(ctx, config.LoadOptions{Dir: projectDir, File: projectFile})
	if err != nil {
		return nil, nil, err
	}
	if cfg.File == "" {
		logger.Debug("no project file found, using defaults", "dir", cfg.Dir)
	} else {
		logger.Debug("loaded project file", "file", cfg.File)
	}

	d, err := project.Open(cfg, project.WithDescriptorOptions(nbmmod.WithWarner(logger)))
	if err != nil {
		return nil, nil, descriptorFailure("open module descriptor", cfg.File, err)
	}
	return cfg, d, nil
}

// loadDescriptor is openDescriptor for a command: failures are reported on
// cmd's error stream and the returned error is the ExitError to hand back
// to cobra.
func loadDescriptor(cmd *cobra.Command) (*config.Project, *nbmmod.Descriptor, error) {
	cfg, d, err := openDescriptor(cmd.Context())
	if err != nil {
		return nil, nil, fail(cmd, openExitCode(err), err)
	}
	return cfg, d, nil
}

// resolveFailed reports a failure raised while evaluating the descriptor.
func resolveFailed(cmd *cobra.Command, cfg *config.Project, err error) error {
	return fail(cmd, exitCodeFor(err), descriptorFailure("resolve module descriptor", cfg.File, err))
}

// descriptorFailure wraps err with the guidance entry and suggestion that
// match its cause.
func descriptorFailure(operation, resource string, err error) error {
	id := classifyIssue(err)
	ctx := issue.NewErrorContext().
		WithOperation(operation).
		WithResource(resource).
		WithIssue(id)
	switch id {
	case issue.InvalidModuleNameId:
		ctx.WithSuggestion("Module and friend names must be dotted code names such as com.example.foo, optionally followed by /<major>")
	case issue.MissingValueId:
		ctx.WithSuggestion("Export the environment variable the project file refers to, or set the value directly")
	case issue.PackageScanFailedId:
		ctx.WithSuggestion("Check that the source set directories exist and are readable")
	case issue.PermissionDeniedId:
		ctx.WithSuggestion("Check the permissions of the project and build directories")
	}
	return ctx.Wrap(err).BuildError()
}

// classifyIssue maps err onto the guidance catalog. It returns 0 when no
// entry applies.
func classifyIssue(err error) issue.Id {
	var ae *issue.ActionableError
	if errors.As(err, &ae) && ae.Issue != 0 {
		return ae.Issue
	}
	var scanErr *pkgscan.ScanError
	switch {
	case errors.Is(err, moduleid.ErrInvalidModuleName):
		return issue.InvalidModuleNameId
	case errors.Is(err, lazy.ErrMissingValue):
		return issue.MissingValueId
	case errors.Is(err, os.ErrPermission):
		return issue.PermissionDeniedId
	case errors.As(err, &scanErr):
		return issue.PackageScanFailedId
	case errors.Is(err, manifest.ErrInvalidManifest), errors.Is(err, manifest.ErrNoManifest):
		return issue.ManifestUnreadableId
	}
	return 0
}

// openExitCode is exitCodeFor for failures while opening the descriptor.
// Anything unclassified there comes from the project file.
func openExitCode(err error) types.ExitCode {
	if code := exitCodeFor(err); code != types.ExitFailure {
		return code
	}
	return types.ExitConfig
}

// exitCodeFor picks the process status for a failed command.
func exitCodeFor(err error) types.ExitCode {
	switch {
	case errors.Is(err, moduleid.ErrInvalidModuleName),
		errors.Is(err, manifest.ErrInvalidManifest),
		errors.Is(err, manifest.ErrNoManifest):
		return types.ExitInvalid
	case errors.Is(err, config.ErrInvalidProject),
		errors.Is(err, config.ErrUnsupportedFormat),
		errors.Is(err, nbmmod.ErrConfiguration):
		return types.ExitConfig
	}
	return types.ExitFailure
}
