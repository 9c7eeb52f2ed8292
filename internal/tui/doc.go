// SPDX-License-Identifier: MPL-2.0

// Package tui holds palm's terminal presentation: the shared lipgloss palette
// and the huh-backed prompts used by `init` and `plugin new`.
package tui
