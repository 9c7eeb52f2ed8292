// SPDX-License-Identifier: MPL-2.0

// Command palm is a plugin-driven project CLI.
package main

import "github.com/palm-cli/palm/cmd/palm"

func main() {
	cmd.Execute()
}
