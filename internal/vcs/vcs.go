// SPDX-License-Identifier: MPL-2.0

package vcs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
)

// DefaultBranch is used by Init for new repositories.
const DefaultBranch = "main"

// ErrNotRepository is returned when a directory is not inside a git work tree.
var ErrNotRepository = errors.New("not a git repository")

type (
	// Repo describes the work tree containing a directory.
	Repo struct {
		Root string
		// Branch is empty for a detached HEAD.
		Branch string
	}

	// Client performs network git operations.
	Client struct {
		auth transport.AuthMethod
	}
)

// Detect finds the work tree containing dir.
func Detect(dir string) (Repo, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return Repo{}, ErrNotRepository
		}
		return Repo{}, fmt.Errorf("open repository at %s: %w", dir, err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		if errors.Is(err, git.ErrIsBareRepository) {
			return Repo{}, ErrNotRepository
		}
		return Repo{}, fmt.Errorf("open work tree: %w", err)
	}

	branch, err := currentBranch(repo)
	if err != nil {
		return Repo{}, err
	}
	return Repo{Root: wt.Filesystem.Root(), Branch: branch}, nil
}

// currentBranch reads HEAD without resolving it, so a branch with no commits yet is
// still reported.
func currentBranch(repo *git.Repository) (string, error) {
	head, err := repo.Reference(plumbing.HEAD, false)
	if err != nil {
		return "", fmt.Errorf("read HEAD: %w", err)
	}
	if head.Type() != plumbing.SymbolicReference {
		return "", nil
	}
	return head.Target().Short(), nil
}

// Init creates a repository at dir with DefaultBranch checked out.
func Init(dir string) error {
	_, err := git.PlainInitWithOptions(dir, &git.PlainInitOptions{
		InitOptions: git.InitOptions{DefaultBranch: plumbing.NewBranchReferenceName(DefaultBranch)},
	})
	if err != nil {
		return fmt.Errorf("init repository at %s: %w", dir, err)
	}
	return nil
}

// NewClient returns a Client that authenticates over HTTPS with the first token found
// in GITHUB_TOKEN, GITLAB_TOKEN or GIT_TOKEN.
func NewClient() *Client {
	return &Client{auth: tokenAuth()}
}

func tokenAuth() transport.AuthMethod {
	for _, c := range []struct{ env, user string }{
		{"GITHUB_TOKEN", "x-access-token"},
		{"GITLAB_TOKEN", "gitlab-ci-token"},
		{"GIT_TOKEN", "git"},
	} {
		if token := os.Getenv(c.env); token != "" {
			return &http.BasicAuth{Username: c.user, Password: token}
		}
	}
	return nil
}

// Clone clones url into dest, which must not exist yet.
func (c *Client) Clone(ctx context.Context, url, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("create parent of %s: %w", dest, err)
	}
	_, err := git.PlainCloneContext(ctx, dest, false, &git.CloneOptions{
		URL:  url,
		Auth: c.authFor(url),
	})
	if err != nil {
		_ = os.RemoveAll(dest)
		return fmt.Errorf("clone %s: %w", url, err)
	}
	return nil
}

// Pull fast-forwards the work tree at dir from origin. It reports whether anything
// changed.
func (c *Client) Pull(ctx context.Context, dir string) (bool, error) {
	repo, err := git.PlainOpen(dir)
	if err != nil {
		return false, fmt.Errorf("open %s: %w", dir, err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return false, fmt.Errorf("open work tree: %w", err)
	}

	url := ""
	if remote, err := repo.Remote(git.DefaultRemoteName); err == nil && len(remote.Config().URLs) > 0 {
		url = remote.Config().URLs[0]
	}

	err = wt.PullContext(ctx, &git.PullOptions{
		RemoteName: git.DefaultRemoteName,
		Auth:       c.authFor(url),
	})
	switch {
	case errors.Is(err, git.NoErrAlreadyUpToDate):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("pull %s: %w", dir, err)
	}
	return true, nil
}

// Head returns the abbreviated commit hash checked out at dir.
func Head(dir string) (string, error) {
	repo, err := git.PlainOpen(dir)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", dir, err)
	}
	ref, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("resolve HEAD: %w", err)
	}
	return ref.Hash().String()[:7], nil
}

// authFor drops token auth for local and ssh remotes.
func (c *Client) authFor(url string) transport.AuthMethod {
	ep, err := transport.NewEndpoint(url)
	if err != nil || (ep.Protocol != "https" && ep.Protocol != "http") {
		return nil
	}
	return c.auth
}
