// SPDX-License-Identifier: MPL-2.0

// Package builtin embeds the command files of the plugins shipped inside the palm
// binary: core, loaded first in every project, setup, the only plugin available
// outside a project, and multi_service, which a project opts into for
// docker compose setups with several services.
package builtin
