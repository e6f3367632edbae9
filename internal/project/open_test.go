// SPDX-License-Identifier: MPL-2.0

package project

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"

	"github.com/nbmkit/nbmkit/internal/config"
	"github.com/nbmkit/nbmkit/internal/testutil"
	"github.com/nbmkit/nbmkit/pkg/lazy"
	"github.com/nbmkit/nbmkit/pkg/moduleid"
	"github.com/nbmkit/nbmkit/pkg/nbmmod"
)

var projectDir = filepath.FromSlash("/work/sample")

func ptr[T any](v T) *T { return &v }

func envMap(vars map[string]string) func(string) string {
	return func(name string) string { return vars[name] }
}

func baseProject() *config.Project {
	return &config.Project{
		Name:       "sample-module",
		Version:    "1.4",
		BuildDir:   config.DefaultBuildDir,
		SourceSets: map[string][]string{config.DefaultSourceSet: {config.DefaultSourceDir}},
		Dir:        projectDir,
	}
}

func openForTest(t *testing.T, cfg *config.Project, env map[string]string, fs afero.Fs, logs *bytes.Buffer) *nbmmod.Descriptor {
	t.Helper()
	if fs == nil {
		fs = afero.NewMemMapFs()
	}
	if logs == nil {
		logs = &bytes.Buffer{}
	}
	d, err := Open(cfg,
		WithEnv(envMap(env)),
		WithDescriptorOptions(
			nbmmod.WithClock(testutil.NewFakeClock(time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC))),
			nbmmod.WithWarner(log.New(logs)),
			nbmmod.WithFs(fs),
		),
	)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	return d
}

func TestOpen_Defaults(t *testing.T) {
	t.Parallel()

	d := openForTest(t, baseProject(), nil, nil, nil)
	res, err := d.Resolve()
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if res.ModuleName != "sample.module" {
		t.Errorf("ModuleName = %q, want sample.module", res.ModuleName)
	}
	if res.SpecificationVersion != "1.4" {
		t.Errorf("SpecificationVersion = %q, want 1.4", res.SpecificationVersion)
	}
	if res.BuildVersion != "20250102030405" {
		t.Errorf("BuildVersion = %q, want 20250102030405", res.BuildVersion)
	}
	if want := filepath.Join(projectDir, "build", "nbm"); res.NbmBuildDir != want {
		t.Errorf("NbmBuildDir = %q, want %q", res.NbmBuildDir, want)
	}
	if res.ArchiveFileName != "sample-module.nbm" {
		t.Errorf("ArchiveFileName = %q, want sample-module.nbm", res.ArchiveFileName)
	}
}

func TestOpen_AppliesSettings(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	testutil.WriteFiles(t, fs, "class X {}",
		"/work/sample/src/main/java/org/example/api/Api.java",
		"/work/sample/build/gen/org/example/gen/Gen.java",
	)

	cfg := baseProject()
	cfg.SourceSets["generated"] = []string{"build/gen", "$UNSET_DIR"}
	cfg.Module = config.Module{
		Name:                     "org.example.sample/2",
		Cluster:                  "platform",
		ImplementationVersion:    "${IMPL_VERSION}",
		HomePage:                 "https://example.org/$SLUG",
		LicenseFile:              "LICENSE.txt",
		NbmBuildDir:              "/abs/nbm",
		Eager:                    ptr(true),
		AutoupdateShowInClient:   ptr(false),
		GenerateLastModifiedFile: ptr(false),
		Requires:                 []string{"org.openide.windows.WindowManager"},
		Friends:                  []string{"org.example.tests", "org.example.other"},
		PublicPackages: []config.PublicPackage{
			{Name: "org.example.extra"},
			{Prefix: ptr("org.example")},
			{Prefix: ptr("org.example"), SourceSet: "generated"},
		},
		KeyStore: config.KeyStore{File: "keys/release.jks", Username: "release", Password: "$KEYSTORE_PASSWORD"},
	}
	env := map[string]string{"IMPL_VERSION": "1.4.2", "SLUG": "sample", "KEYSTORE_PASSWORD": "s3cret"}

	d := openForTest(t, cfg, env, fs, nil)
	res, err := d.Resolve()
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	got := map[string]any{
		"moduleName":     res.ModuleName,
		"cluster":        res.Cluster,
		"impl":           res.ImplementationVersion,
		"homePage":       res.HomePage,
		"license":        res.LicenseFile,
		"nbmBuildDir":    res.NbmBuildDir,
		"eager":          res.Eager,
		"showInClient":   *res.AutoupdateShowInClient,
		"lastModified":   res.LastModified,
		"requires":       res.Requires,
		"friends":        res.Friends,
		"publicPackages": res.PublicPackages,
		"keyStoreFile":   res.KeyStore.File,
		"keyStoreUser":   res.KeyStore.Username,
		"keyStorePass":   res.KeyStore.Password,
	}
	want := map[string]any{
		"moduleName":     "org.example.sample/2",
		"cluster":        "platform",
		"impl":           "1.4.2",
		"homePage":       "https://example.org/sample",
		"license":        filepath.Join(projectDir, "LICENSE.txt"),
		"nbmBuildDir":    "/abs/nbm",
		"eager":          true,
		"showInClient":   false,
		"lastModified":   int64(0),
		"requires":       []string{nbmmod.ModuleFormatToken, "org.openide.windows.WindowManager"},
		"friends":        []string{"org.example.other", "org.example.tests"},
		"publicPackages": []string{"org.example.api.*", "org.example.extra.*", "org.example.gen.*"},
		"keyStoreFile":   filepath.Join(projectDir, "keys", "release.jks"),
		"keyStoreUser":   "release",
		"keyStorePass":   "s3cret",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Resolve() mismatch (-want +got):\n%s", diff)
	}
}

func TestOpen_ExpansionIsDeferred(t *testing.T) {
	t.Parallel()

	env := map[string]string{}
	cfg := baseProject()
	cfg.Version = "$RELEASE"
	cfg.Module.HomePage = "$HOME_PAGE"

	d := openForTest(t, cfg, env, nil, nil)

	// Unset references have no value; optional settings are simply omitted.
	attrs, err := d.ManifestAttributes()
	if err != nil {
		t.Fatalf("ManifestAttributes() error = %v", err)
	}
	if _, ok := attrs.Get(nbmmod.AttrSpecificationVersion); ok {
		t.Error("specification version should be omitted while $RELEASE is unset")
	}
	if _, err := d.SpecificationVersion().Get(); !errors.Is(err, lazy.ErrMissingValue) {
		t.Errorf("SpecificationVersion() error = %v, want ErrMissingValue", err)
	}

	env["RELEASE"] = "3.1"
	env["HOME_PAGE"] = "https://example.org"
	spec, err := d.SpecificationVersion().Get()
	if err != nil || spec != "3.1" {
		t.Errorf("SpecificationVersion() = %q, %v, want 3.1", spec, err)
	}
	home, err := d.HomePage().Get()
	if err != nil || home != "https://example.org" {
		t.Errorf("HomePage() = %q, %v, want https://example.org", home, err)
	}
}

func TestOpen_InvalidFriend(t *testing.T) {
	t.Parallel()

	cfg := baseProject()
	cfg.Module.Friends = []string{"org.ok", "123bad"}

	_, err := Open(cfg, WithEnv(envMap(nil)))
	if !errors.Is(err, moduleid.ErrInvalidModuleName) {
		t.Fatalf("Open() error = %v, want ErrInvalidModuleName", err)
	}
	if !strings.Contains(err.Error(), "module.friends[1]") {
		t.Errorf("Open() error = %q, want it to name module.friends[1]", err)
	}
}

func TestOpen_InvalidModuleNameReportedOnRead(t *testing.T) {
	t.Parallel()

	cfg := baseProject()
	cfg.Module.Name = "not a name"

	d := openForTest(t, cfg, nil, nil, nil)
	if _, err := d.ModuleName(); !errors.Is(err, moduleid.ErrInvalidModuleName) {
		t.Errorf("ModuleName() error = %v, want ErrInvalidModuleName", err)
	}
}

func TestOpen_FriendPackagesWarn(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	cfg := baseProject()
	cfg.Module.FriendPackages = []config.PublicPackage{{Name: "org.legacy"}}

	d := openForTest(t, cfg, nil, nil, &logs)
	entries, err := d.PublicPackages().Entries()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"org.legacy.*"}, entries); diff != "" {
		t.Errorf("Entries() mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(logs.String(), "deprecated") {
		t.Errorf("expected a deprecation warning, logs: %q", logs.String())
	}
}

func TestHost(t *testing.T) {
	t.Parallel()

	cfg := baseProject()
	cfg.BuildDir = "/abs/build"
	h := NewHost(cfg, envMap(map[string]string{"V": "9"}))

	if h.Name() != "sample-module" || h.Dir() != projectDir {
		t.Errorf("Name/Dir = %q/%q", h.Name(), h.Dir())
	}
	if h.BuildDir() != "/abs/build" {
		t.Errorf("BuildDir() = %q, want /abs/build", h.BuildDir())
	}
	if _, ok := h.Value("plain").(lazy.Literal[string]); !ok {
		t.Error("Value() without '$' should be a literal")
	}
	ext, ok := h.Value("v$V").(lazy.External[string])
	if !ok || ext.Handle != "v$V" {
		t.Fatalf("Value() with '$' = %#v, want an external reference", h.Value("v$V"))
	}
	if got, err := lazy.Resolve[string](ext); err != nil || got != "v9" {
		t.Errorf("Resolve() = %q, %v, want v9", got, err)
	}

	cfg.Version = ""
	if h.Version() != nil {
		t.Errorf("Version() = %v, want nil when unset", h.Version())
	}
}

func TestWatchDirs(t *testing.T) {
	t.Parallel()

	cfg := &config.Project{
		Name: "p",
		Dir:  filepath.FromSlash("/work/p"),
		SourceSets: map[string][]string{
			"test": {"src/test/java"},
			"main": {"src/main/java", "$GEN_DIR", "/abs/gen"},
		},
	}
	got, err := WatchDirs(cfg, envMap(nil))
	if err != nil {
		t.Fatalf("WatchDirs() error = %v", err)
	}
	want := []string{
		filepath.FromSlash("/work/p"),
		filepath.Join(filepath.FromSlash("/work/p"), "src", "main", "java"),
		filepath.FromSlash("/abs/gen"),
		filepath.Join(filepath.FromSlash("/work/p"), "src", "test", "java"),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("WatchDirs() mismatch (-want +got):\n%s", diff)
	}
}
