// SPDX-License-Identifier: MPL-2.0

// Package hostexec runs processes on the host. It is the single place palm starts
// external programs: scripts through the host shell, container engine calls, and
// interactive sessions attached to a pseudo-terminal.
//
// A non-zero exit status is not an error. Run reports it in Result.ExitCode and
// returns an error only when the process could not be started.
package hostexec
