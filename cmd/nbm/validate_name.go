// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nbmkit/nbmkit/pkg/moduleid"
	"github.com/nbmkit/nbmkit/pkg/types"
)

func newValidateNameCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate-name <name>...",
		Short: "Check module code names",
		Long: `Check that each argument is a valid module code name: dot-separated
Java identifiers, optionally followed by "/<major release>".`,
		Example: `  nbm validate-name org.example.api org.example.impl/2`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			var errs []error
			for _, arg := range args {
				name, err := moduleid.Validate(arg)
				if err != nil {
					fmt.Fprintf(out, "%s %s\n", ErrorStyle.Render("✗"), err)
					errs = append(errs, err)
					continue
				}
				if major, ok := name.MajorVersion(); ok {
					fmt.Fprintf(out, "%s %s (base %s, major release %s)\n", SuccessStyle.Render("✓"), name, name.Base(), major)
				} else {
					fmt.Fprintf(out, "%s %s\n", SuccessStyle.Render("✓"), name)
				}
			}
			if len(errs) > 0 {
				cmd.SilenceUsage = true
				cmd.SilenceErrors = true
				return &ExitError{Code: types.ExitInvalid, Err: errors.Join(errs...)}
			}
			return nil
		},
	}
}
