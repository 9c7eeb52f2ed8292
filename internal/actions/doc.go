// SPDX-License-Identifier: MPL-2.0

// Package actions implements the built-in commands whose command files name an
// action instead of a script: override, plugin, init, scaffold, containerize,
// commands, new and clone.
package actions
