// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nbmkit/nbmkit/internal/issue"
	"github.com/nbmkit/nbmkit/pkg/manifest"
)

func newInspectCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "inspect <archive|manifest>",
		Short: "Show the manifest of a module archive or manifest file",
		Long: `Read the main attributes of a manifest. Files ending in .mf are parsed
as standalone manifests; anything else is opened as a ZIP archive
(.nbm or .jar) and its META-INF/MANIFEST.MF entry is read.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			reader := manifest.NewOSReader()

			var (
				attrs *manifest.Attributes
				err   error
			)
			if strings.EqualFold(filepath.Ext(path), ".mf") {
				attrs, err = reader.ReadFile(path)
			} else {
				attrs, err = reader.Read(path)
			}
			if err != nil {
				return fail(cmd, exitCodeFor(err), issue.NewErrorContext().
					WithOperation("read manifest").
					WithResource(path).
					WithSuggestion("Pass a module archive (.nbm, .jar) or a MANIFEST.MF file").
					WithIssue(classifyIssue(err)).
					Wrap(err).
					BuildError())
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(attrs.Entries())
			}
			for name, value := range attrs.All() {
				fmt.Fprintf(out, "%s %s\n", KeyStyle.Render(name+":"), value)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the headers as JSON")

	return cmd
}
