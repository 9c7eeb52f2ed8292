// SPDX-License-Identifier: MPL-2.0

// Package cmdfile defines the on-disk format of a palm command.
//
// A plugin contributes one file per command, named cmd_<name>.cue. The file body is
// validated against the embedded #Command schema:
//
//	help:    "Run the test suite"
//	runtime: "container"
//	env: PALM_TEST: "true"
//	options: [{name: "marker", short: "m", help: "pytest marker"}]
//	script: "pytest -m \"$PALM_OPT_MARKER\" \"$@\""
//
// A command either carries a shell script or names a built-in Go action. Options are
// parsed from the command line and exported to the script as PALM_OPT_<NAME>.
package cmdfile
