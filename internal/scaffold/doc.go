// SPDX-License-Identifier: MPL-2.0

// Package scaffold renders embedded template sets onto a filesystem.
//
// Each set lives under templates/<set>/ and carries a template.toml listing
// the directories to create and the files to render. Destination paths are
// templates themselves, so a set can name files after its input.
package scaffold
