// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// Result holds a decoded document together with the unified CUE value it came from.
type Result[T any] struct {
	Value   *T
	Unified cue.Value
}

// Decode compiles data as CUE source, unifies it with the definition named by
// def inside schema, validates it and decodes it into T.
func Decode[T any](schema, data []byte, def string, opts ...Option) (*Result[T], error) {
	o := applyOptions(opts)
	if err := CheckFileSize(data, o.maxFileSize, o.filename); err != nil {
		return nil, err
	}

	ctx := cuecontext.New()
	root, err := lookupDefinition(ctx, schema, def)
	if err != nil {
		return nil, err
	}

	user := ctx.CompileBytes(data, cue.Filename(o.filename))
	if user.Err() != nil {
		return nil, FormatError(user.Err(), o.filename)
	}

	return finish[T](root.Unify(user), o)
}

// DecodeValue validates an already decoded Go value (typically a map read from YAML)
// against def and decodes the unified result into T, filling schema defaults.
func DecodeValue[T any](schema []byte, value any, def string, opts ...Option) (*Result[T], error) {
	o := applyOptions(opts)

	ctx := cuecontext.New()
	root, err := lookupDefinition(ctx, schema, def)
	if err != nil {
		return nil, err
	}

	user := ctx.Encode(value)
	if user.Err() != nil {
		return nil, FormatError(user.Err(), o.filename)
	}

	return finish[T](root.Unify(user), o)
}

func applyOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func lookupDefinition(ctx *cue.Context, schema []byte, def string) (cue.Value, error) {
	compiled := ctx.CompileBytes(schema)
	if compiled.Err() != nil {
		return cue.Value{}, fmt.Errorf("compile schema: %w", compiled.Err())
	}
	root := compiled.LookupPath(cue.ParsePath(def))
	if !root.Exists() {
		return cue.Value{}, fmt.Errorf("schema definition %s not found", def)
	}
	return root, nil
}

func finish[T any](unified cue.Value, o options) (*Result[T], error) {
	var validateOpts []cue.Option
	if o.concrete {
		validateOpts = append(validateOpts, cue.Concrete(true))
	}
	if err := unified.Validate(validateOpts...); err != nil {
		return nil, FormatError(err, o.filename)
	}

	var out T
	if err := unified.Decode(&out); err != nil {
		return nil, FormatError(err, o.filename)
	}
	return &Result[T]{Value: &out, Unified: unified}, nil
}
