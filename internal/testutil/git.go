// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// InitGitRepo initializes a repository in dir with branch checked out. The branch
// has no commits, which is enough for branch detection.
func InitGitRepo(t testing.TB, dir, branch string) {
	t.Helper()
	_, err := git.PlainInitWithOptions(dir, &git.PlainInitOptions{
		InitOptions: git.InitOptions{DefaultBranch: plumbing.NewBranchReferenceName(branch)},
	})
	if err != nil {
		t.Fatalf("failed to init git repository in %s: %v", dir, err)
	}
}
