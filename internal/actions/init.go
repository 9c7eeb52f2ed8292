// SPDX-License-Identifier: MPL-2.0

package actions

import (
	"context"

	"github.com/spf13/afero"

	"github.com/palm-cli/palm/internal/config"
	"github.com/palm-cli/palm/internal/dispatch"
	"github.com/palm-cli/palm/internal/issue"
	"github.com/palm-cli/palm/internal/scaffold"
	"github.com/palm-cli/palm/internal/tui"
	"github.com/palm-cli/palm/pkg/cmdfile"
)

// Init writes .palm/config.yaml for the current project and scaffolds any
// commands requested with --command.
func (a *Actions) Init(_ context.Context, inv *dispatch.Invocation) (int, error) {
	root := a.deps.Resolver.ProjectRoot()
	if root == "" {
		return fail(inv, "palm init must be run inside a git repository")
	}
	if exists, _ := afero.Exists(a.deps.Fs, config.ProjectConfigPath(root)); exists {
		warn(inv, "Palm is already initialized")
		return 0, nil
	}

	for _, c := range inv.Values.Strings("command") {
		if ok, errs := cmdfile.Name(c).IsValid(); !ok {
			return fail(inv, "%v", errs[0])
		}
	}

	imageName := inv.Values.String("image-name")
	if imageName == "" && a.deps.Prompter != nil {
		answer, err := a.deps.Prompter.Input(tui.InputOptions{
			Title:    "Image name",
			Value:    a.deps.Resolver.ImageName(),
			Required: true,
		})
		if err != nil {
			return 1, err
		}
		imageName = answer
	}
	if imageName == "" {
		imageName = a.deps.Resolver.ImageName()
	}

	data := scaffold.ConfigData{
		ImageName:         imageName,
		Plugins:           inv.Values.Strings("plugin"),
		ProtectedBranches: inv.Values.Strings("protected-branch"),
	}
	if _, err := a.deps.Generator.Generate(scaffold.SetConfig, root, data); err != nil {
		return 1, issue.NewErrorContext().
			WithOperation("write project config").
			WithResource(config.ProjectConfigPath(root)).
			Wrap(err).
			BuildError()
	}

	dir := a.deps.Resolver.OverrideDir()
	for _, c := range inv.Values.Strings("command") {
		if _, err := a.deps.Generator.Generate(scaffold.SetCommand, dir, scaffold.CommandData{Name: c}); err != nil {
			return 1, issue.WrapWithOperation(err, "scaffold command "+c)
		}
	}

	success(inv, "Success! Project initialized with Palm CLI")
	return 0, nil
}
