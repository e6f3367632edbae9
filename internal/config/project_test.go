// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"strings"
	"testing"
)

func TestProject_Validate(t *testing.T) {
	t.Parallel()

	sets := map[string][]string{DefaultSourceSet: {DefaultSourceDir}, "gen": {"build/gen"}}
	tests := []struct {
		name    string
		decls   []PublicPackage
		friends []PublicPackage
		wantErr string
	}{
		{name: "literal", decls: []PublicPackage{{Name: "org.a"}}},
		{name: "scanned default set", decls: []PublicPackage{{Prefix: ptr("org")}}},
		{name: "scanned named set", decls: []PublicPackage{{Prefix: ptr(""), SourceSet: "gen"}}},
		{name: "both", decls: []PublicPackage{{Name: "org.a", Prefix: ptr("org")}}, wantErr: "mutually exclusive"},
		{name: "neither", decls: []PublicPackage{{}}, wantErr: "one of name or prefix"},
		{name: "unknown set", decls: []PublicPackage{{Prefix: ptr("org"), SourceSet: "test"}}, wantErr: `unknown source set "test" (known: gen, main)`},
		{name: "deprecated list checked too", friends: []PublicPackage{{}}, wantErr: "module.friend_packages[0]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := &Project{
				File:       "nbm.cue",
				SourceSets: sets,
				Module:     Module{PublicPackages: tt.decls, FriendPackages: tt.friends},
			}
			err := p.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			if !errors.Is(err, ErrInvalidProject) {
				t.Fatalf("Validate() error = %v, want ErrInvalidProject", err)
			}
			if !strings.Contains(err.Error(), tt.wantErr) || !strings.HasPrefix(err.Error(), "nbm.cue: ") {
				t.Errorf("Validate() error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestPublicPackage_SourceSetName(t *testing.T) {
	t.Parallel()

	if got := (PublicPackage{Prefix: ptr("x")}).SourceSetName(); got != DefaultSourceSet {
		t.Errorf("SourceSetName() = %q, want %q", got, DefaultSourceSet)
	}
	if got := (PublicPackage{Prefix: ptr("x"), SourceSet: "gen"}).SourceSetName(); got != "gen" {
		t.Errorf("SourceSetName() = %q, want gen", got)
	}
}
