// SPDX-License-Identifier: MPL-2.0

// Package testutil provides test helpers that fail the test on error instead of
// returning it: working directory and environment changes (MustChdir,
// MustSetenv, SetHomeDir), file fixtures (MustWriteFile) and git repositories
// (InitGitRepo).
package testutil
