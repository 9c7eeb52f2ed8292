// SPDX-License-Identifier: MPL-2.0

// Package cueutil validates palm documents against embedded CUE schemas.
//
// Command files, the merged configuration map and plugin configuration all go
// through the same steps: compile the schema, unify the user value with one of its
// definitions, validate, then decode into a Go value. Errors carry a JSON-style
// path to the offending field:
//
//	cmd_build.cue: options[0].type: 2 errors in empty disjunction
package cueutil
