// SPDX-License-Identifier: MPL-2.0

package actions

import (
	"context"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/palm-cli/palm/internal/config"
	"github.com/palm-cli/palm/internal/dispatch"
	"github.com/palm-cli/palm/internal/issue"
	"github.com/palm-cli/palm/internal/scaffold"
	"github.com/palm-cli/palm/internal/vcs"
)

// New creates a project directory with a git repository and a palm config.
func (a *Actions) New(_ context.Context, inv *dispatch.Invocation) (int, error) {
	if len(inv.Args) == 0 {
		return fail(inv, "Usage: palm new %s", inv.Command.Usage)
	}
	dir := a.abs(inv.Args[0])

	if entries, err := afero.ReadDir(a.deps.Fs, dir); err == nil && len(entries) > 0 {
		return fail(inv, "Directory %s already exists and is not empty", dir)
	}
	if err := a.deps.Fs.MkdirAll(dir, 0o755); err != nil {
		return 1, issue.WrapWithOperation(err, "create "+dir)
	}
	if err := vcs.Init(dir); err != nil {
		return 1, issue.WrapWithOperation(err, "initialize git repository")
	}

	imageName := inv.Values.String("image-name")
	if imageName == "" {
		imageName = scaffold.Snake(filepath.Base(dir))
	}
	data := scaffold.ConfigData{ImageName: imageName, Plugins: inv.Values.Strings("plugin")}
	if _, err := a.deps.Generator.Generate(scaffold.SetConfig, dir, data); err != nil {
		return 1, issue.WrapWithOperation(err, "write project config")
	}

	success(inv, "Success! Project created in %s", dir)
	return 0, nil
}

// Clone clones a project and reports whether it is set up for palm.
func (a *Actions) Clone(ctx context.Context, inv *dispatch.Invocation) (int, error) {
	if len(inv.Args) == 0 {
		return fail(inv, "Usage: palm clone %s", inv.Command.Usage)
	}
	url := inv.Args[0]

	dir := repoBase(url)
	if len(inv.Args) > 1 {
		dir = inv.Args[1]
	}
	dir = a.abs(dir)
	if exists, _ := afero.Exists(a.deps.Fs, dir); exists {
		return fail(inv, "Directory %s already exists", dir)
	}

	if err := a.deps.Git.Clone(ctx, url, dir); err != nil {
		return 1, issue.NewErrorContext().
			WithOperation("clone project").
			WithResource(url).
			WithSuggestion("Set GITHUB_TOKEN or GIT_TOKEN for private repositories").
			Wrap(err).
			BuildError()
	}

	success(inv, "Success! Project cloned to %s", dir)
	if exists, _ := afero.Exists(a.deps.Fs, config.ProjectConfigPath(dir)); !exists {
		warn(inv, "This project is not set up for palm yet, run 'palm init' inside it")
	}
	return 0, nil
}

func (a *Actions) abs(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(a.deps.Cwd, p)
}
