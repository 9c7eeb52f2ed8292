// SPDX-License-Identifier: MPL-2.0

// Package dispatch turns a command name and its raw arguments into a run.
//
// The Dispatcher consults the plugin registry, loads the command file only when
// the command is invoked, parses the command's declared options and hands the
// result to either a built-in action or a script runtime.
package dispatch
