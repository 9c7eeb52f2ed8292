// SPDX-License-Identifier: MPL-2.0

// Package runtime runs command scripts.
//
// Three runtimes are available:
//   - host: the host shell through internal/hostexec, with PTY passthrough for
//     interactive commands
//   - virtual: an embedded POSIX shell interpreter (mvdan/sh)
//   - container: `<engine> compose run` against the project's service
//
// All runtimes take a Request and report the script's exit status. A non-zero
// exit status is not an error; errors mean the script could not be run at all.
package runtime
