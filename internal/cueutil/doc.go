// SPDX-License-Identifier: MPL-2.0

// Package cueutil validates user documents against embedded CUE schemas.
//
// Every decode follows the same flow: compile the schema, compile (or encode)
// the user document, unify it with a schema definition, validate, and decode
// into a Go value. Failures are reported as *Error values whose issues carry
// the JSON-style path of the offending field.
//
//	//go:embed nbm_schema.cue
//	var schema string
//
//	res, err := cueutil.ParseAndDecode[map[string]any](schema, "#Project", data,
//	    cueutil.WithFilename("nbm.cue"),
//	    cueutil.WithConcrete(false),
//	)
package cueutil
