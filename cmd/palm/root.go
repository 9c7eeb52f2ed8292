// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/palm-cli/palm/internal/dispatch"
	"github.com/palm-cli/palm/internal/issue"
	"github.com/palm-cli/palm/internal/tui"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// globalFlags are read before the command tree exists, since the tree depends on
// the project they select.
type globalFlags struct {
	verbose bool
	project string
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// cobraCommands are the subcommands cobra and fang add on their own.
var cobraCommands = map[string]bool{
	"help":             true,
	"completion":       true,
	"man":              true,
	"__complete":       true,
	"__completeNoDesc": true,
}

// Execute builds the App and the command tree, runs the command named on the
// command line and exits with its code. It is called by main.main().
func Execute() {
	ctx := context.Background()
	flags, rest := parseGlobalFlags(os.Args[1:])

	app, err := NewApp(ctx, Dependencies{Dir: flags.project, Verbose: flags.verbose})
	if err != nil {
		os.Exit(renderFatal(os.Stderr, err, flags.verbose))
	}

	root := newRootCommand(app)
	if name, args, ok := directCommand(root, rest); ok {
		ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
		code := app.invokeDirect(ctx, os.Stderr, name, args)
		stop()
		os.Exit(code)
	}

	if err := fang.Execute(
		ctx,
		root,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(app.handleError),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

// parseGlobalFlags reads --verbose and --project up to the command name and
// returns the arguments that follow them. Anything it does not know is left for
// cobra.
func parseGlobalFlags(args []string) (globalFlags, []string) {
	var g globalFlags
	fs := pflag.NewFlagSet("palm", pflag.ContinueOnError)
	fs.SetInterspersed(false)
	fs.SetOutput(io.Discard)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.Usage = func() {}
	addGlobalFlags(fs, &g)
	if err := fs.Parse(args); err != nil {
		return g, nil
	}
	return g, fs.Args()
}

// directCommand reports whether args start with a command name that has no node
// in the cobra tree. Such names go straight to the dispatcher so cobra never
// parses their flags.
func directCommand(root *cobra.Command, args []string) (string, []string, bool) {
	if len(args) == 0 || strings.HasPrefix(args[0], "-") || cobraCommands[args[0]] {
		return "", nil, false
	}
	for _, c := range root.Commands() {
		if c.Name() == args[0] || c.HasAlias(args[0]) {
			return "", nil, false
		}
	}
	return args[0], args[1:], true
}

func addGlobalFlags(fs *pflag.FlagSet, g *globalFlags) {
	fs.BoolVarP(&g.verbose, "verbose", "v", false, "enable debug logging")
	fs.StringVarP(&g.project, "project", "C", "", "run as if palm was started in this directory")
}

// newRootCommand builds the cobra tree: one group per plugin and one stub per
// command. Stubs do not parse flags; the dispatcher owns argument handling.
func newRootCommand(app *App) *cobra.Command {
	var g globalFlags
	root := &cobra.Command{
		Use:   "palm",
		Short: "A pluggable command line for your projects",
		Long: tui.TitleStyle.Render("palm") + tui.SubtitleStyle.Render(" - a pluggable command line for your projects") + `

Commands come from plugins: the built-in core plugin, plugins listed in
.palm/config.yaml, and the project's own .palm directory, which wins over
everything else.

` + tui.SubtitleStyle.Render("Examples:") + `
  palm commands             List commands with their help text
  palm build                Run the 'build' command
  palm override --name test Copy 'test' into .palm to customize it
  palm init                 Set up palm in this project`,
		Args:             cobra.ArbitraryArgs,
		TraverseChildren: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return app.Invoke(cmd.Context(), args[0], args[1:])
		},
	}
	addGlobalFlags(root.PersistentFlags(), &g)

	for _, grp := range app.Dispatcher.Groups() {
		root.AddGroup(&cobra.Group{ID: grp.ID, Title: grp.Title + " commands:"})
	}
	for _, name := range app.Registry.AllCommandNames() {
		stub := &cobra.Command{
			Use:                string(name),
			DisableFlagParsing: true,
			RunE: func(cmd *cobra.Command, args []string) error {
				return app.Invoke(cmd.Context(), cmd.Name(), args)
			},
		}
		if app.Dispatcher.IsExcluded(name) {
			stub.Hidden = true
		} else if owner, ok := app.Registry.Owner(name); ok {
			stub.GroupID = owner
		}
		root.AddCommand(stub)
	}
	return root
}

// handleError is fang's error handler. Failures the dispatcher already printed
// are not repeated.
func (a *App) handleError(w io.Writer, styles fang.Styles, err error) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Err == nil {
		return
	}
	if dispatch.IsReported(err) {
		return
	}

	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		renderServiceError(w, svcErr)
		return
	}
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		fmt.Fprintln(w, tui.ErrorStyle.Render("Error: ")+ae.Format(a.verbose))
		renderIssue(w, ae.IssueId)
		return
	}
	fang.DefaultErrorHandler(w, styles, err)
}

// invokeDirect runs a command outside of cobra and returns the exit code.
func (a *App) invokeDirect(ctx context.Context, w io.Writer, name string, args []string) int {
	err := a.Invoke(ctx, name, args)
	if err == nil {
		return 0
	}
	a.handleError(w, fang.Styles{}, err)
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return 1
}

// renderFatal reports an error raised while building the App and returns the
// exit code.
func renderFatal(w io.Writer, err error, verbose bool) int {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		renderServiceError(w, svcErr)
		return 1
	}
	fmt.Fprintln(w, tui.ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, verbose))
	return 1
}
