// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// Result is a decoded document together with its unified CUE value.
type Result[T any] struct {
	Value   T
	Unified cue.Value
}

// ParseAndDecode compiles data as CUE source, unifies it with the definition
// at path in schema, validates it and decodes it into T.
func ParseAndDecode[T any](schema, path string, data []byte, opts ...Option) (*Result[T], error) {
	o := applyOptions(opts)
	if err := CheckFileSize(data, o.maxFileSize, o.filename); err != nil {
		return nil, err
	}

	ctx := cuecontext.New()
	def, err := lookupDefinition(ctx, schema, path)
	if err != nil {
		return nil, err
	}
	user := ctx.CompileBytes(data, cue.Filename(o.filename))
	if user.Err() != nil {
		return nil, FormatError(user.Err(), o.filename)
	}
	return unifyAndDecode[T](def, user, o)
}

// EncodeAndDecode validates an already decoded document, such as one read
// from TOML, against the definition at path in schema and decodes it into T.
func EncodeAndDecode[T any](schema, path string, doc any, opts ...Option) (*Result[T], error) {
	o := applyOptions(opts)

	ctx := cuecontext.New()
	def, err := lookupDefinition(ctx, schema, path)
	if err != nil {
		return nil, err
	}
	user := ctx.Encode(doc)
	if user.Err() != nil {
		return nil, FormatError(user.Err(), o.filename)
	}
	return unifyAndDecode[T](def, user, o)
}

func lookupDefinition(ctx *cue.Context, schema, path string) (cue.Value, error) {
	compiled := ctx.CompileString(schema)
	if compiled.Err() != nil {
		return cue.Value{}, fmt.Errorf("internal error: compile schema: %w", compiled.Err())
	}
	def := compiled.LookupPath(cue.ParsePath(path))
	if !def.Exists() {
		return cue.Value{}, fmt.Errorf("internal error: schema definition %s not found", path)
	}
	return def, nil
}

func unifyAndDecode[T any](def, user cue.Value, o options) (*Result[T], error) {
	unified := def.Unify(user)
	if err := unified.Validate(cue.Concrete(o.concrete)); err != nil {
		return nil, FormatError(err, o.filename)
	}

	var out T
	if err := unified.Decode(&out); err != nil {
		return nil, FormatError(err, o.filename)
	}
	return &Result[T]{Value: out, Unified: unified}, nil
}
