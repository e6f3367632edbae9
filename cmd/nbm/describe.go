// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/nbmkit/nbmkit/pkg/nbmmod"
)

type describeField struct {
	label string
	value string
}

func newDescribeCommand() *cobra.Command {
	var asJSON, asMarkdown bool

	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Show the resolved module descriptor",
		Long: `Resolve every descriptor field, including derived defaults, deferred
values and scanned public packages, and print the result.

The key store password is never printed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, d, err := loadDescriptor(cmd)
			if err != nil {
				return err
			}
			res, err := d.Resolve()
			if err != nil {
				return resolveFailed(cmd, cfg, err)
			}

			out := cmd.OutOrStdout()
			switch {
			case asJSON:
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			case asMarkdown:
				rendered, err := glamour.Render(describeMarkdown(res), "auto")
				if err != nil {
					return fail(cmd, exitCodeFor(err), fmt.Errorf("failed to render markdown: %w", err))
				}
				fmt.Fprint(out, rendered)
				return nil
			default:
				printDescription(out, res)
				return nil
			}
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the descriptor as JSON")
	cmd.Flags().BoolVar(&asMarkdown, "markdown", false, "render the descriptor as a markdown document")
	cmd.MarkFlagsMutuallyExclusive("json", "markdown")

	return cmd
}

// describeFields lists the populated scalar fields in display order.
func describeFields(res *nbmmod.Resolved) []describeField {
	fields := []describeField{
		{"Module", res.ModuleName},
		{"Cluster", res.Cluster},
		{"Specification version", res.SpecificationVersion},
		{"Implementation version", res.ImplementationVersion},
		{"Build version", res.BuildVersion},
		{"Localizing bundle", res.LocalizingBundle},
		{"Installer", res.ModuleInstall},
		{"Layer", res.Layer},
		{"Java dependency", res.JavaDependency},
		{"Author", res.ModuleAuthor},
		{"Home page", res.HomePage},
		{"License file", res.LicenseFile},
		{"Distribution", res.Distribution},
		{"Archive", res.ArchiveFileName},
		{"NBM build dir", res.NbmBuildDir},
		{"Module build dir", res.ModuleBuildDir},
		{"Generated manifest", res.GeneratedManifestFile},
		{"Classpath ext folder", res.ClasspathExtFolder},
		{"Eager", strconv.FormatBool(res.Eager)},
		{"Autoload", strconv.FormatBool(res.Autoload)},
		{"Needs restart", formatOptionalBool(res.NeedsRestart)},
		{"Show in client", formatOptionalBool(res.AutoupdateShowInClient)},
		{"Key store", res.KeyStore.File},
		{"Key store user", res.KeyStore.Username},
	}
	if res.LastModified != 0 {
		fields = append(fields, describeField{"Last modified", strconv.FormatInt(res.LastModified, 10)})
	}
	return fields
}

func formatOptionalBool(b *bool) string {
	if b == nil {
		return ""
	}
	return strconv.FormatBool(*b)
}

func printDescription(w io.Writer, res *nbmmod.Resolved) {
	fmt.Fprintln(w, TitleStyle.Render(res.ModuleName))
	for _, f := range describeFields(res) {
		if f.value == "" {
			continue
		}
		fmt.Fprintf(w, "  %s %s\n", KeyStyle.Render(f.label+":"), f.value)
	}
	printList(w, "Requires", res.Requires)
	printList(w, "Friends", res.Friends)
	printList(w, "Public packages", res.PublicPackages)
}

func printList(w io.Writer, label string, values []string) {
	if len(values) == 0 {
		return
	}
	fmt.Fprintln(w, SubtitleStyle.Render(label+":"))
	for _, v := range values {
		fmt.Fprintln(w, "  - "+v)
	}
}

func describeMarkdown(res *nbmmod.Resolved) string {
	var md strings.Builder
	fmt.Fprintf(&md, "# %s\n\n", res.ModuleName)
	md.WriteString("| Field | Value |\n|---|---|\n")
	for _, f := range describeFields(res) {
		if f.value == "" {
			continue
		}
		fmt.Fprintf(&md, "| %s | `%s` |\n", f.label, f.value)
	}
	for _, section := range []struct {
		title  string
		values []string
	}{
		{"Requires", res.Requires},
		{"Friends", res.Friends},
		{"Public packages", res.PublicPackages},
	} {
		if len(section.values) == 0 {
			continue
		}
		fmt.Fprintf(&md, "\n## %s\n\n", section.title)
		for _, v := range section.values {
			fmt.Fprintf(&md, "- `%s`\n", v)
		}
	}
	return md.String()
}
