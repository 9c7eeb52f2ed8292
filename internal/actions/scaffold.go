// SPDX-License-Identifier: MPL-2.0

package actions

import (
	"context"
	"fmt"

	"github.com/spf13/afero"

	"github.com/palm-cli/palm/internal/config"
	"github.com/palm-cli/palm/internal/dispatch"
	"github.com/palm-cli/palm/internal/issue"
	"github.com/palm-cli/palm/internal/scaffold"
	"github.com/palm-cli/palm/pkg/cmdfile"
)

// Scaffold generates command files (`scaffold command`) or the project config
// (`scaffold config`).
func (a *Actions) Scaffold(_ context.Context, inv *dispatch.Invocation) (int, error) {
	if len(inv.Args) == 0 {
		return fail(inv, "Usage: palm scaffold %s", inv.Command.Usage)
	}

	root := a.deps.Resolver.ProjectRoot()
	if root == "" {
		return fail(inv, "palm scaffold must be run inside a project")
	}

	switch inv.Args[0] {
	case "command":
		return a.scaffoldCommands(inv)
	case "config":
		return a.scaffoldConfig(inv, root)
	default:
		return fail(inv, "Unknown scaffold target %q, expected one of: command, config", inv.Args[0])
	}
}

func (a *Actions) scaffoldCommands(inv *dispatch.Invocation) (int, error) {
	names := inv.Values.Strings("name")
	if len(names) == 0 {
		return fail(inv, "Missing option --name")
	}

	dir := a.deps.Resolver.OverrideDir()
	if ok, _ := afero.DirExists(a.deps.Fs, dir); !ok {
		return fail(inv, "palm is not initialized in this project, please run 'palm init' first")
	}

	for _, n := range names {
		if ok, errs := cmdfile.Name(n).IsValid(); !ok {
			return fail(inv, "%v", errs[0])
		}
		report, err := a.deps.Generator.Generate(scaffold.SetCommand, dir,
			scaffold.CommandData{Name: n, Help: fmt.Sprintf("Run %s", n)},
			scaffold.Force(inv.Values.Bool("force")))
		if err != nil {
			return 1, issue.WrapWithOperation(err, "scaffold command "+n)
		}
		if len(report.Skipped) > 0 {
			warn(inv, "%s command already exists in %s, use --force to overwrite", n, dir)
			continue
		}
		success(inv, "%s command created in %s", n, dir)
	}
	return 0, nil
}

func (a *Actions) scaffoldConfig(inv *dispatch.Invocation, root string) (int, error) {
	report, err := a.deps.Generator.Generate(scaffold.SetConfig, root,
		scaffold.ConfigData{ImageName: a.deps.Resolver.ImageName()},
		scaffold.Force(inv.Values.Bool("force")))
	if err != nil {
		return 1, issue.WrapWithOperation(err, "scaffold config")
	}
	path := config.ProjectConfigPath(root)
	if len(report.Skipped) > 0 {
		warn(inv, "Config already exists at %s, use --force to overwrite", path)
		return 0, nil
	}
	success(inv, "Config created at %s", path)
	return 0, nil
}
