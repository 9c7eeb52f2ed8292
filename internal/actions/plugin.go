// SPDX-License-Identifier: MPL-2.0

package actions

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/afero"

	"github.com/palm-cli/palm/internal/builtin"
	"github.com/palm-cli/palm/internal/config"
	"github.com/palm-cli/palm/internal/dispatch"
	"github.com/palm-cli/palm/internal/issue"
	"github.com/palm-cli/palm/internal/plugin"
	"github.com/palm-cli/palm/internal/scaffold"
	"github.com/palm-cli/palm/internal/tui"
	"github.com/palm-cli/palm/internal/vcs"
)

// pluginPrefix is stripped from repository and plugin names.
const pluginPrefix = "palm-"

// Plugin dispatches the `plugin` subcommands.
func (a *Actions) Plugin(ctx context.Context, inv *dispatch.Invocation) (int, error) {
	if len(inv.Args) == 0 {
		return fail(inv, "Usage: palm plugin %s", inv.Command.Usage)
	}

	switch sub := inv.Args[0]; sub {
	case "versions":
		return a.pluginVersions(inv)
	case "update":
		return a.pluginUpdate(ctx, inv)
	case "configure":
		return a.pluginConfigure(inv)
	case "new":
		return a.pluginNew(inv)
	case "install":
		return a.pluginInstall(ctx, inv)
	default:
		return fail(inv, "Unknown plugin subcommand %q", sub)
	}
}

func isBuiltinPlugin(name string) bool {
	return name == config.RepoPlugin || slices.Contains(builtin.Names(), name)
}

func (a *Actions) pluginVersions(inv *dispatch.Invocation) (int, error) {
	installed, err := a.deps.Installed.Installed()
	if err != nil {
		return 1, issue.WrapWithOperation(err, "list installed plugins")
	}
	if name := inv.Values.String("name"); name != "" {
		installed = slices.DeleteFunc(installed, func(p *plugin.Plugin) bool { return p.Name() != name })
	}
	if len(installed) == 0 {
		warn(inv, "No plugins installed")
		return 0, nil
	}

	for _, p := range installed {
		line := fmt.Sprintf("%s: %s", tui.CmdStyle.Render(p.Name()), p.Version())
		if p.Source() != "" {
			line += " " + tui.SubtitleStyle.Render("("+p.Source()+")")
		}
		fmt.Fprintln(inv.Stdout, line)
	}
	return 0, nil
}

func (a *Actions) pluginUpdate(ctx context.Context, inv *dispatch.Invocation) (int, error) {
	name := inv.Values.String("name")
	if name == "" {
		return fail(inv, "Missing option --name")
	}
	if isBuiltinPlugin(name) {
		return fail(inv, "Plugin %s is a core plugin and cannot be updated", name)
	}
	p, ok := a.deps.Registry.Plugin(name)
	if !ok || p.Root() == "" {
		return fail(inv, "Plugin %s not installed in this project", name)
	}

	updated, err := a.deps.Git.Pull(ctx, p.Root())
	if err != nil {
		return 1, issue.NewErrorContext().
			WithOperation("update plugin "+name).
			WithResource(p.Root()).
			WithSuggestion("Check that the plugin was installed from a git repository").
			WithSuggestion("Set GITHUB_TOKEN or GIT_TOKEN for private repositories").
			Wrap(err).
			BuildError()
	}
	if !updated {
		success(inv, "Plugin %s is already up to date", name)
		return 0, nil
	}
	if head, err := vcs.Head(p.Root()); err == nil {
		success(inv, "Plugin %s updated to %s", name, head)
	} else {
		success(inv, "Plugin %s updated", name)
	}
	return 0, nil
}

func (a *Actions) pluginConfigure(inv *dispatch.Invocation) (int, error) {
	name := inv.Values.String("name")
	if name == "" {
		return fail(inv, "Missing option --name")
	}
	p, ok := a.deps.Registry.Plugin(name)
	if !ok {
		return fail(inv, "Plugin %s not installed in this project", name)
	}

	values, _ := a.deps.Resolver.PluginConfig(name)
	cfg, err := p.Config(values)
	if errors.Is(err, plugin.ErrPluginNotConfigured) {
		warn(inv, "Plugin %s is not configured", name)
		var invalid *config.InvalidConfigurationError
		if errors.As(err, &invalid) {
			fmt.Fprintln(inv.Stderr, invalid.Err)
		}
		fmt.Fprintf(inv.Stderr, "Add plugin_config.%s to %s\n", name, config.ProjectConfigPath(a.deps.Resolver.ProjectRoot()))
		return 1, nil
	}
	if err != nil {
		return 1, err
	}

	fmt.Fprintln(inv.Stdout, tui.TitleStyle.Render(p.Title()+" configuration"))
	for _, k := range slices.Sorted(maps.Keys(cfg)) {
		fmt.Fprintf(inv.Stdout, "  %s: %v\n", k, cfg[k])
	}
	return 0, nil
}

func (a *Actions) pluginNew(inv *dispatch.Invocation) (int, error) {
	name := inv.Values.String("name")
	author := inv.Values.String("author")
	email := inv.Values.String("author-email")

	var err error
	if name == "" {
		if name, err = a.ask("Plugin name", "", true); err != nil {
			return 1, err
		}
	}
	name = strings.TrimPrefix(name, pluginPrefix)
	if !plugin.IsValidName(name) {
		return fail(inv, "Invalid plugin name %q: use lowercase letters, digits, '-' and '_'", name)
	}
	if author == "" {
		if author, err = a.ask("Author", "", false); err != nil {
			return 1, err
		}
	}
	if email == "" && author != "" {
		if email, err = a.ask("Author email", "", false); err != nil {
			return 1, err
		}
	}

	target := inv.Values.String("target")
	if target == "" {
		target = filepath.Join("..", pluginPrefix+name)
	}
	if !filepath.IsAbs(target) {
		target = filepath.Join(a.deps.Cwd, target)
	}
	if exists, _ := afero.Exists(a.deps.Fs, target); exists {
		return fail(inv, "Directory %s already exists", target)
	}

	data := scaffold.PluginData{Name: name, Author: author, AuthorEmail: email}
	if _, err := a.deps.Generator.Generate(scaffold.SetPlugin, target, data); err != nil {
		return 1, issue.WrapWithOperation(err, "generate plugin "+name)
	}
	if err := vcs.Init(target); err != nil {
		warn(inv, "Could not initialize a git repository in %s: %v", target, err)
	}

	success(inv, "Plugin %s created in %s", name, target)
	return 0, nil
}

func (a *Actions) pluginInstall(ctx context.Context, inv *dispatch.Invocation) (int, error) {
	if len(inv.Args) < 2 {
		return fail(inv, "Usage: palm plugin install <URL>")
	}
	url := inv.Args[1]

	name := inv.Values.String("name")
	if name == "" {
		name = repoName(url)
	}
	if !plugin.IsValidName(name) {
		return fail(inv, "Invalid plugin name %q, pass --name", name)
	}

	dirs := a.deps.Settings.PluginDirs()
	dest := filepath.Join(dirs[len(dirs)-1], name)
	if exists, _ := afero.Exists(a.deps.Fs, dest); exists {
		warn(inv, "Plugin %s is already installed in %s", name, dest)
		return 0, nil
	}

	if err := a.deps.Git.Clone(ctx, url, dest); err != nil {
		return 1, issue.NewErrorContext().
			WithOperation("install plugin "+name).
			WithResource(url).
			WithSuggestion("Check the repository URL").
			WithSuggestion("Set GITHUB_TOKEN or GIT_TOKEN for private repositories").
			Wrap(err).
			BuildError()
	}

	p, err := plugin.LoadInstalled(dest)
	if err == nil && p.Name() != name {
		err = fmt.Errorf("manifest declares plugin %q", p.Name())
	}
	if err != nil {
		_ = os.RemoveAll(dest)
		return 1, issue.NewErrorContext().
			WithOperation("install plugin "+name).
			WithResource(url).
			WithSuggestion("The repository must contain a valid " + plugin.ManifestFile).
			Wrap(err).
			BuildError()
	}

	success(inv, "Plugin %s %s installed to %s", name, p.Version(), dest)
	fmt.Fprintf(inv.Stdout, "Add %s to plugins in .palm/config.yaml to use it\n", tui.CmdStyle.Render(name))
	return 0, nil
}

// repoBase is the last path element of a clone URL without ".git":
// "git@github.com:acme/palm-tools.git" becomes "palm-tools".
func repoBase(url string) string {
	url = strings.TrimSuffix(strings.TrimSuffix(url, "/"), ".git")
	if i := strings.LastIndexAny(url, ":/"); i >= 0 {
		url = url[i+1:]
	}
	return url
}

// repoName derives a plugin name from a clone URL.
func repoName(url string) string {
	return strings.TrimPrefix(repoBase(url), pluginPrefix)
}

func (a *Actions) ask(title, value string, required bool) (string, error) {
	if a.deps.Prompter == nil {
		return value, nil
	}
	return a.deps.Prompter.Input(tui.InputOptions{Title: title, Value: value, Required: required})
}
