// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the palm command line.
//
// The cobra tree is built per process from the loaded plugins: every command a
// plugin provides becomes a stub whose arguments are handed unparsed to the
// dispatcher. App is the composition root that wires configuration, the plugin
// registry, runtimes and the built-in actions together.
package cmd
