// SPDX-License-Identifier: MPL-2.0

// Package vcs wraps the git operations palm needs: locating the project root and its
// checked-out branch, and cloning or updating plugin and project repositories.
package vcs
