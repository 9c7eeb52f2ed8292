// SPDX-License-Identifier: MPL-2.0

package actions

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/palm-cli/palm/internal/dispatch"
	"github.com/palm-cli/palm/internal/issue"
	"github.com/palm-cli/palm/internal/plugin"
	"github.com/palm-cli/palm/pkg/cmdfile"
)

// Override copies the file of the resolved command into the project's .palm
// directory, where the repo plugin picks it up on the next run.
func (a *Actions) Override(_ context.Context, inv *dispatch.Invocation) (int, error) {
	name := cmdfile.Name(inv.Values.String("name"))

	dir := a.deps.Resolver.OverrideDir()
	if ok, _ := afero.DirExists(a.deps.Fs, dir); dir == "" || !ok {
		return fail(inv, "palm is not initialized in this project, please run 'palm init' first")
	}

	loc, err := a.deps.Registry.Resolve(name)
	if errors.Is(err, plugin.ErrCommandNotFound) {
		return fail(inv, dispatch.NotFoundMessage)
	}
	if err != nil {
		return 1, err
	}

	dest := filepath.Join(dir, cmdfile.FileName(name))
	if exists, _ := afero.Exists(a.deps.Fs, dest); exists {
		warn(inv, "Command already exists in project, skipping")
		return 0, nil
	}

	data, err := loc.Read()
	if err != nil {
		return 1, issue.NewErrorContext().
			WithOperation("read command file").
			WithResource(loc.Location).
			Wrap(err).
			BuildError()
	}
	if err := afero.WriteFile(a.deps.Fs, dest, data, 0o644); err != nil {
		return 1, issue.NewErrorContext().
			WithOperation("write override").
			WithResource(dest).
			WithSuggestion("Check that .palm is writable").
			Wrap(err).
			BuildError()
	}

	success(inv, "%s command overridden to %s", name, dest)
	return 0, nil
}
