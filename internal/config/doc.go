// SPDX-License-Identifier: MPL-2.0

// Package config loads NBM project files.
//
// A project is described by nbm.cue or nbm.toml in the project directory. Both
// formats are validated against the embedded #Project CUE schema
// (nbm_schema.cue), merged into Viper on top of the defaults, and may be
// overridden from the environment with NBM_-prefixed variables such as
// NBM_VERSION or NBM_MODULE_KEY_STORE_PASSWORD. A directory without a project
// file loads the defaults, with the directory name as project name.
package config
