// SPDX-License-Identifier: MPL-2.0

package builtin

import (
	"embed"
	"io/fs"
	"slices"
)

const commandsDir = "commands"

//go:embed core/commands setup/commands multi_service/commands
var files embed.FS

// core and setup are loaded by palm itself. multi_service is opt-in through
// the plugins list.
var names = []string{"core", "setup", "multi_service"}

// Names lists the built-in plugins.
func Names() []string { return slices.Clone(names) }

// FS returns the command directory of the built-in plugin called name.
func FS(name string) (fs.FS, bool) {
	if !slices.Contains(names, name) {
		return nil, false
	}
	sub, err := fs.Sub(files, name+"/"+commandsDir)
	if err != nil {
		return nil, false
	}
	return sub, true
}
