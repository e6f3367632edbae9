// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/glamour"
)

// Id identifies an entry of the guidance catalog.
type Id int

const (
	InvalidModuleNameId Id = iota + 1
	ProjectFileNotFoundId
	ProjectFileInvalidId
	MissingValueId
	PackageScanFailedId
	ManifestUnreadableId
	PermissionDeniedId
)

type (
	// MarkdownMsg is guidance text rendered with glamour.
	MarkdownMsg string

	// HttpLink points at further reading.
	HttpLink string

	// Issue is a catalog entry: guidance for one class of failure.
	Issue struct {
		id       Id
		mdMsg    MarkdownMsg
		docLinks []HttpLink
	}
)

// Id returns the catalog key.
func (i *Issue) Id() Id { return i.id }

// MarkdownMsg returns the raw guidance.
func (i *Issue) MarkdownMsg() MarkdownMsg { return i.mdMsg }

// DocLinks returns a copy of the reference links.
func (i *Issue) DocLinks() []HttpLink { return slices.Clone(i.docLinks) }

// Render renders the guidance, followed by its links, with the glamour style
// at stylePath ("auto", "dark", "notty", or a JSON style file).
func (i *Issue) Render(stylePath string) (string, error) {
	var md strings.Builder
	md.WriteString(string(i.mdMsg))
	if len(i.docLinks) > 0 {
		md.WriteString("\n\n## See also\n")
		for _, link := range i.docLinks {
			md.WriteString("- " + string(link) + "\n")
		}
	}
	return render(md.String(), stylePath)
}

var (
	render = glamour.Render

	invalidModuleNameIssue = &Issue{
		id: InvalidModuleNameId,
		mdMsg: `
# Invalid module name

Module code names are dot-separated Java identifiers, optionally followed by
a slash and a major release version.

## Valid names
~~~
org.example.editor
org.example.editor/2
~~~

## Things you can try
- Set ` + "`module.name`" + ` explicitly in nbm.cue
- Rename the project: dashes in the project name become dots
- Check a candidate with:
~~~
$ nbm validate-name org.example.editor
~~~`,
		docLinks: []HttpLink{"https://bits.netbeans.org/dev/javadoc/org-openide-modules/org/openide/modules/doc-files/api.html"},
	}

	projectFileNotFoundIssue = &Issue{
		id: ProjectFileNotFoundId,
		mdMsg: `
# Project file not found

nbm looks for nbm.cue, then nbm.toml, in the project directory.

## Things you can try
- Create a starter file:
~~~
$ nbm init
~~~
- Point at another directory with ` + "`-C <dir>`" + ` or at a file with ` + "`--file`",
	}

	projectFileInvalidIssue = &Issue{
		id: ProjectFileInvalidId,
		mdMsg: `
# Project file is invalid

The project file did not match the project schema.

## Things you can try
- Compare your file with the one written by ` + "`nbm init`" + `
- Declare each public package as either ` + "`{name: \"...\"}`" + ` or ` + "`{prefix: \"...\"}`" + `
- Make sure every ` + "`source_set`" + ` referenced by a package is declared under ` + "`source_sets`",
	}

	missingValueIssue = &Issue{
		id: MissingValueId,
		mdMsg: `
# A required setting has no value

The setting was left unset and no default could be derived, or it refers to
an environment variable that is not set.

## Things you can try
- Set a project ` + "`name`" + ` or an explicit ` + "`module.name`" + `
- Export the variables referenced with ` + "`$`" + ` in the project file
- Override the setting with an NBM_ environment variable, e.g. ` + "`NBM_VERSION`",
	}

	packageScanFailedIssue = &Issue{
		id: PackageScanFailedId,
		mdMsg: `
# Source directories could not be scanned

A source directory exists but could not be read while collecting public
packages.

## Things you can try
- Check the permissions of the directory named in the error
- Remove stale or dangling entries from ` + "`source_sets`",
	}

	manifestUnreadableIssue = &Issue{
		id: ManifestUnreadableId,
		mdMsg: `
# Manifest could not be read

The file is not a ZIP archive with a META-INF/MANIFEST.MF entry, or the
manifest does not follow the JAR manifest format.

## Things you can try
- Make sure the path points at a .jar or .nbm archive, or at a plain manifest file
- Headers must look like ` + "`Name: value`" + `; continuation lines start with a single space`,
		docLinks: []HttpLink{"https://docs.oracle.com/en/java/javase/21/docs/specs/jar/jar.html#jar-manifest"},
	}

	permissionDeniedIssue = &Issue{
		id: PermissionDeniedId,
		mdMsg: `
# Permission denied

nbm could not read or write one of the files involved.

## Things you can try
- Check the ownership and mode of the project and build directories
- Choose another output location with ` + "`--output`",
	}

	issues = map[Id]*Issue{
		invalidModuleNameIssue.Id():   invalidModuleNameIssue,
		projectFileNotFoundIssue.Id(): projectFileNotFoundIssue,
		projectFileInvalidIssue.Id():  projectFileInvalidIssue,
		missingValueIssue.Id():        missingValueIssue,
		packageScanFailedIssue.Id():   packageScanFailedIssue,
		manifestUnreadableIssue.Id():  manifestUnreadableIssue,
		permissionDeniedIssue.Id():    permissionDeniedIssue,
	}
)

// Values returns every catalog entry ordered by Id.
func Values() []*Issue {
	return slices.SortedFunc(maps.Values(issues), func(a, b *Issue) int {
		return int(a.id) - int(b.id)
	})
}

// Get returns the entry for id, or nil.
func Get(id Id) *Issue {
	return issues[id]
}
