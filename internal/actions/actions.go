// SPDX-License-Identifier: MPL-2.0

package actions

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"

	"github.com/palm-cli/palm/internal/config"
	"github.com/palm-cli/palm/internal/dispatch"
	"github.com/palm-cli/palm/internal/plugin"
	"github.com/palm-cli/palm/internal/scaffold"
	"github.com/palm-cli/palm/internal/tui"
	"github.com/palm-cli/palm/internal/vcs"
	"github.com/palm-cli/palm/pkg/cmdfile"
)

// Action names referenced from the built-in command files.
const (
	ActionOverride     = "override"
	ActionPlugin       = "plugin"
	ActionInit         = "init"
	ActionScaffold     = "scaffold"
	ActionContainerize = "containerize"
	ActionCommands     = "commands"
	ActionNew          = "new"
	ActionClone        = "clone"
)

type (
	// Lister is the part of the dispatcher the commands listing needs.
	Lister interface {
		Groups() []dispatch.Group
		Load(name cmdfile.Name) (*dispatch.Executable, error)
	}

	// Git is the subset of vcs.Client the actions use.
	Git interface {
		Clone(ctx context.Context, url, dest string) error
		Pull(ctx context.Context, dir string) (bool, error)
	}

	// Deps are the services the actions work with.
	Deps struct {
		Resolver  *config.Resolver
		Registry  *plugin.Registry
		Installed plugin.InstalledSource
		Settings  config.Settings
		Fs        afero.Fs
		Git       Git
		Prompter  tui.Prompter
		Generator *scaffold.Generator
		// Cwd is the directory palm was started in.
		Cwd    string
		Logger *log.Logger
	}

	// Actions holds the built-in action implementations.
	Actions struct {
		deps   Deps
		lister Lister
	}
)

// New returns the actions bound to deps.
func New(deps Deps) *Actions {
	if deps.Fs == nil {
		deps.Fs = afero.NewOsFs()
	}
	if deps.Generator == nil {
		deps.Generator = scaffold.NewGenerator(deps.Fs)
	}
	if deps.Git == nil {
		deps.Git = vcs.NewClient()
	}
	if deps.Logger == nil {
		deps.Logger = log.New(io.Discard)
	}
	return &Actions{deps: deps}
}

// Bind sets the dispatcher used by the commands listing. The dispatcher is built
// after the actions, so it is bound late.
func (a *Actions) Bind(l Lister) { a.lister = l }

// Funcs returns the actions keyed by the name command files use.
func (a *Actions) Funcs() map[string]dispatch.ActionFunc {
	return map[string]dispatch.ActionFunc{
		ActionOverride:     a.Override,
		ActionPlugin:       a.Plugin,
		ActionInit:         a.Init,
		ActionScaffold:     a.Scaffold,
		ActionContainerize: a.Containerize,
		ActionCommands:     a.Commands,
		ActionNew:          a.New,
		ActionClone:        a.Clone,
	}
}

func fail(inv *dispatch.Invocation, format string, args ...any) (int, error) {
	fmt.Fprintln(inv.Stderr, tui.ErrorStyle.Render(fmt.Sprintf(format, args...)))
	return 1, nil
}

func warn(inv *dispatch.Invocation, format string, args ...any) {
	fmt.Fprintln(inv.Stderr, tui.WarningStyle.Render(fmt.Sprintf(format, args...)))
}

func success(inv *dispatch.Invocation, format string, args ...any) {
	fmt.Fprintln(inv.Stdout, tui.SuccessStyle.Render(fmt.Sprintf(format, args...)))
}
