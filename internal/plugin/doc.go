// SPDX-License-Identifier: MPL-2.0

// Package plugin discovers command files and merges them into one command namespace.
//
// A Plugin is a named directory of cmd_<name>.cue files. Plugins come from a Source:
// the built-ins compiled into palm, plugins installed under $PALM_HOME/plugins, and
// the repo plugin backed by the project's .palm directory.
//
// The Registry loads plugins in the order the configuration resolver asks for and
// keeps a command -> owning plugin map. Each LoadOne overwrites existing entries, so
// a command declared by several plugins belongs to the last one loaded. Command
// bodies are not read during loading; Resolve hands back a Locator and the file is
// read only when the command actually runs.
package plugin
