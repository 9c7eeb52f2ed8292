// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"

	"github.com/palm-cli/palm/internal/actions"
	"github.com/palm-cli/palm/internal/config"
	"github.com/palm-cli/palm/internal/container"
	"github.com/palm-cli/palm/internal/dispatch"
	"github.com/palm-cli/palm/internal/hostexec"
	"github.com/palm-cli/palm/internal/issue"
	"github.com/palm-cli/palm/internal/plugin"
	"github.com/palm-cli/palm/internal/runtime"
	"github.com/palm-cli/palm/internal/tui"
	"github.com/palm-cli/palm/internal/vcs"
)

type (
	// App wires configuration, the plugin registry, runtimes and built-in actions.
	// It is the composition root for the CLI layer and is built once per process.
	App struct {
		Settings   config.Settings
		Resolver   *config.Resolver
		Registry   *plugin.Registry
		Dispatcher *dispatch.Dispatcher
		Logger     *log.Logger
		verbose    bool
		stdout     io.Writer
		stderr     io.Writer
	}

	// Dependencies defines the injection points for building an App. Nil or zero
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		// Dir is the directory palm treats as its working directory.
		Dir      string
		Verbose  bool
		Settings *config.Settings
		Fs       afero.Fs
		Git      actions.Git
		Prompter tui.Prompter
		Stdin    io.Reader
		Stdout   io.Writer
		Stderr   io.Writer
	}
)

// NewApp resolves the project, loads configuration and plugins, and builds the
// dispatcher. Errors that must stop palm before any command runs are returned as
// *ServiceError.
func NewApp(ctx context.Context, deps Dependencies) (*App, error) {
	deps = withDefaults(deps)

	settings := deps.Settings
	if settings == nil {
		s, err := config.LoadSettings()
		if err != nil {
			return nil, err
		}
		settings = &s
	}

	app := &App{
		Settings: *settings,
		verbose:  deps.Verbose || settings.Verbose,
		stdout:   deps.Stdout,
		stderr:   deps.Stderr,
	}
	app.Logger = newLogger(deps.Stderr, app.verbose)
	if deps.Prompter == nil {
		deps.Prompter = tui.NewPrompter(app.promptConfig())
	}

	dir, err := filepath.Abs(deps.Dir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}
	project, err := detectProject(dir)
	if err != nil {
		return nil, err
	}
	app.Logger.Debug("resolved project", "root", project.Root, "branch", project.Branch)

	loaded, err := config.NewProvider(deps.Fs).Load(ctx, config.LoadOptions{
		GlobalPath:  settings.GlobalConfigPath(),
		ProjectRoot: project.Root,
	})
	if err != nil {
		return nil, err
	}
	for _, w := range loaded.Warnings {
		app.warn(w)
	}
	if loaded.ProjectConfigMissing {
		app.Logger.Debug("no project config", "path", config.ProjectConfigPath(project.Root))
	}

	app.Resolver = config.NewResolver(loaded.Config, project)
	if err := app.Resolver.CheckBranch(); err != nil {
		msg := fmt.Sprintf("You are currently on protected branch %s. For your safety palm will not run!", app.Resolver.CurrentBranch())
		return nil, newServiceError(err, issue.ProtectedBranchId, tui.ErrorStyle.Render(msg))
	}

	installed := plugin.InstalledSource{Dirs: settings.PluginDirs()}
	app.Registry = plugin.NewRegistry(plugin.Chain{
		plugin.BuiltinSource{Version: Version},
		installed,
		plugin.RepoSource{Dir: app.Resolver.OverrideDir()},
	}, plugin.WithLogger(app.Logger))

	order := app.Resolver.PluginLoadOrder()
	app.Logger.Debug("loading plugins", "order", order)
	if err := app.Registry.Load(ctx, order); err != nil {
		var notFound *plugin.PluginNotFoundError
		if errors.As(err, &notFound) {
			msg := fmt.Sprintf("Plugin %s not found", notFound.Name)
			return nil, newServiceError(err, issue.PluginNotFoundId, tui.ErrorStyle.Render(msg))
		}
		return nil, err
	}

	acts := actions.New(actions.Deps{
		Resolver:  app.Resolver,
		Registry:  app.Registry,
		Installed: installed,
		Settings:  *settings,
		Fs:        deps.Fs,
		Git:       deps.Git,
		Prompter:  deps.Prompter,
		Cwd:       dir,
		Logger:    app.Logger,
	})
	loader := dispatch.NewLoader(
		app.runtimes(deps),
		dispatch.WithActions(acts.Funcs()),
		dispatch.WithDir(projectDir(project, dir)),
		dispatch.WithOutput(deps.Stdout, deps.Stderr),
	)
	app.Dispatcher = dispatch.New(app.Registry, loader,
		dispatch.WithExcluded(app.Resolver.ExcludedCommands()),
		dispatch.WithStderr(deps.Stderr),
		dispatch.WithLogger(app.Logger),
	)
	acts.Bind(app.Dispatcher)
	return app, nil
}

func withDefaults(deps Dependencies) Dependencies {
	if deps.Dir == "" {
		if wd, err := os.Getwd(); err == nil {
			deps.Dir = wd
		}
	}
	if deps.Fs == nil {
		deps.Fs = afero.NewOsFs()
	}
	if deps.Stdin == nil {
		deps.Stdin = os.Stdin
	}
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Git == nil {
		deps.Git = vcs.NewClient()
	}
	return deps
}

func newLogger(w io.Writer, verbose bool) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{Prefix: "palm", Level: log.WarnLevel})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// detectProject returns the git work tree containing dir. Outside a repository
// it returns the zero Project.
func detectProject(dir string) (config.Project, error) {
	repo, err := vcs.Detect(dir)
	if errors.Is(err, vcs.ErrNotRepository) {
		return config.Project{}, nil
	}
	if err != nil {
		return config.Project{}, issue.NewErrorContext().
			WithOperation("detect project").
			WithResource(dir).
			WithSuggestion("Check that the git repository is not corrupted").
			Wrap(err).
			BuildError()
	}
	return config.Project{Root: repo.Root, Branch: repo.Branch}, nil
}

// promptConfig applies the PALM_THEME setting. An unknown theme is reported and
// the default is used.
func (a *App) promptConfig() tui.Config {
	cfg := tui.DefaultConfig()
	theme := tui.Theme(a.Settings.Theme)
	if ok, errs := theme.IsValid(); !ok {
		a.warn(errors.Join(errs...))
		return cfg
	}
	if theme != "" {
		cfg.Theme = theme
	}
	return cfg
}

// projectDir is where scripts run: the project root, or dir outside a project.
func projectDir(project config.Project, dir string) string {
	if project.Root != "" {
		return project.Root
	}
	return dir
}

func (a *App) runtimes(deps Dependencies) *runtime.Registry {
	runner := hostexec.NewRunner(
		hostexec.WithStdio(deps.Stdin, deps.Stdout, deps.Stderr),
		hostexec.WithRunnerLogger(a.Logger),
	)
	compose := container.NewCompose(runner, a.Resolver.ContainerEngine(), a.Resolver.ImageName(), a.Resolver.ProjectRoot())

	return runtime.NewRegistry(
		runtime.NewHost(runner, compose.CommandString(), a.Resolver.ImageName()),
		runtime.NewVirtual(runtime.IO{Stdin: deps.Stdin, Stdout: deps.Stdout, Stderr: deps.Stderr}),
		runtime.NewContainer(compose, a.Settings.Test, deps.Stdout),
	)
}

// Invoke runs one command and converts its outcome to an error for cobra.
func (a *App) Invoke(ctx context.Context, name string, args []string) error {
	code, err := a.Dispatcher.Invoke(ctx, name, args)
	switch {
	case err != nil && !dispatch.IsReported(err):
		return &ExitError{Code: max(code, 1), Err: err}
	case code != 0:
		return &ExitError{Code: code}
	default:
		return nil
	}
}

func (a *App) warn(err error) {
	fmt.Fprintln(a.stderr, tui.WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, a.verbose))
}

// formatErrorForDisplay uses ActionableError.Format when available; verbose adds
// the cause chain.
func formatErrorForDisplay(err error, verbose bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verbose)
	}
	return err.Error()
}
