// SPDX-License-Identifier: MPL-2.0

package actions

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/palm-cli/palm/internal/dispatch"
	"github.com/palm-cli/palm/internal/issue"
	"github.com/palm-cli/palm/internal/scaffold"
	"github.com/palm-cli/palm/internal/tui"
)

// errAborted is returned by the containerize setup steps when the user declines.
var errAborted = errors.New("aborted")

// Containerize generates a Dockerfile, docker-compose.yaml and entrypoint for a
// Python project.
func (a *Actions) Containerize(_ context.Context, inv *dispatch.Invocation) (int, error) {
	root := a.deps.Resolver.ProjectRoot()
	if root == "" {
		return fail(inv, "palm containerize must be run inside a project")
	}

	for _, f := range []string{"Dockerfile", "docker-compose.yaml"} {
		if exists, _ := afero.Exists(a.deps.Fs, filepath.Join(root, f)); exists {
			return fail(inv, "Containerization already exists")
		}
	}

	if err := a.ensureEnvFile(root); err != nil {
		if errors.Is(err, errAborted) || errors.Is(err, tui.ErrAborted) {
			return fail(inv, "Aborting containerization")
		}
		return 1, err
	}

	manager, err := a.packageManager(root)
	if err != nil {
		if errors.Is(err, errAborted) || errors.Is(err, tui.ErrAborted) {
			return fail(inv, "Aborting containerization")
		}
		return 1, err
	}

	data := scaffold.ContainerData{
		ImageName:      a.deps.Resolver.ImageName(),
		ComposeVersion: inv.Values.String("version"),
		BaseImage:      inv.Values.String("base-image"),
		PackageManager: manager,
	}
	if _, err := a.deps.Generator.Generate(scaffold.SetContainerize, root, data); err != nil {
		return 1, issue.WrapWithOperation(err, "generate container files")
	}

	success(inv, "Containerized %s with %s", data.ImageName, manager)
	return 0, nil
}

func (a *Actions) ensureEnvFile(root string) error {
	path := filepath.Join(root, ".env")
	if exists, _ := afero.Exists(a.deps.Fs, path); exists {
		return nil
	}
	ok, err := a.confirm("No .env file found. Create an empty one?", true)
	if err != nil {
		return err
	}
	if !ok {
		return errAborted
	}
	return afero.WriteFile(a.deps.Fs, path, nil, 0o644)
}

// packageManager detects pip3 (requirements.txt) or poetry (poetry.lock). When
// neither is found it offers to create requirements.txt.
func (a *Actions) packageManager(root string) (string, error) {
	if exists, _ := afero.Exists(a.deps.Fs, filepath.Join(root, "requirements.txt")); exists {
		return "pip3", nil
	}
	if exists, _ := afero.Exists(a.deps.Fs, filepath.Join(root, "poetry.lock")); exists {
		return "poetry", nil
	}

	ok, err := a.confirm("Unable to detect python package manager, requirements.txt will be used by default. Continue?", true)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", errAborted
	}
	if err := afero.WriteFile(a.deps.Fs, filepath.Join(root, "requirements.txt"), nil, 0o644); err != nil {
		return "", err
	}
	return "pip3", nil
}

func (a *Actions) confirm(title string, def bool) (bool, error) {
	if a.deps.Prompter == nil {
		return def, nil
	}
	return a.deps.Prompter.Confirm(tui.ConfirmOptions{Title: title, Default: def})
}
