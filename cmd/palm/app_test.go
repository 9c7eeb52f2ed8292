// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/palm-cli/palm/internal/config"
	"github.com/palm-cli/palm/internal/issue"
	"github.com/palm-cli/palm/internal/plugin"
	"github.com/palm-cli/palm/internal/testutil"
	"github.com/palm-cli/palm/internal/tui"
)

type (
	defaultsPrompter struct{}

	testApp struct {
		*App
		stdout *bytes.Buffer
		stderr *bytes.Buffer
	}
)

func (defaultsPrompter) Input(opts tui.InputOptions) (string, error)   { return opts.Value, nil }
func (defaultsPrompter) Confirm(opts tui.ConfirmOptions) (bool, error) { return opts.Default, nil }

// newProject creates a git repository on branch with the given project config.
// An empty cfg leaves .palm/config.yaml out.
func newProject(t *testing.T, branch, cfg string) string {
	t.Helper()

	dir := t.TempDir()
	testutil.InitGitRepo(t, dir, branch)
	if cfg != "" {
		testutil.MustWriteFile(t, cfg, dir, config.DirName, config.FileName)
	}
	return dir
}

func newTestApp(t *testing.T, dir string) (*testApp, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	app, err := NewApp(context.Background(), Dependencies{
		Dir:      dir,
		Settings: &config.Settings{Home: t.TempDir(), Test: true},
		Prompter: defaultsPrompter{},
		Stdin:    strings.NewReader(""),
		Stdout:   &stdout,
		Stderr:   &stderr,
	})
	if err != nil {
		return nil, err
	}
	return &testApp{App: app, stdout: &stdout, stderr: &stderr}, nil
}

func mustTestApp(t *testing.T, dir string) *testApp {
	t.Helper()

	app, err := newTestApp(t, dir)
	if err != nil {
		t.Fatalf("NewApp() error: %v", err)
	}
	return app
}

func pluginNames(reg *plugin.Registry) []string {
	var names []string
	for _, p := range reg.Plugins() {
		names = append(names, p.Name())
	}
	return names
}

func TestNewApp_OutsideProject(t *testing.T) {
	t.Parallel()

	app := mustTestApp(t, t.TempDir())

	if app.Resolver.InProject() {
		t.Fatal("InProject() = true outside a repository")
	}
	if got := pluginNames(app.Registry); len(got) != 1 || got[0] != config.SetupPlugin {
		t.Errorf("plugins = %v, want [setup]", got)
	}

	var exitErr *ExitError
	err := app.Invoke(context.Background(), "build", nil)
	if !errors.As(err, &exitErr) || exitErr.Code != 1 || exitErr.Err != nil {
		t.Fatalf("Invoke(build) = %v, want silent exit 1", err)
	}
	if !strings.Contains(app.stderr.String(), "Command not found, check spelling!") {
		t.Errorf("stderr = %q", app.stderr.String())
	}
}

func TestNewApp_Project(t *testing.T) {
	t.Parallel()

	dir := newProject(t, "feature", "excluded_commands: [lint]\n")
	testutil.MustWriteFile(t, "runtime: \"virtual\"\nscript: \"echo hello $1\"\n", dir, config.DirName, "cmd_hello.cue")
	testutil.MustWriteFile(t, "runtime: \"virtual\"\nscript: \"exit 3\"\n", dir, config.DirName, "cmd_fail.cue")

	app := mustTestApp(t, dir)

	if got := pluginNames(app.Registry); strings.Join(got, ",") != "core,repo" {
		t.Errorf("plugins = %v, want [core repo]", got)
	}
	if owner, _ := app.Registry.Owner("hello"); owner != config.RepoPlugin {
		t.Errorf("Owner(hello) = %q, want repo", owner)
	}

	if err := app.Invoke(context.Background(), "hello", []string{"world"}); err != nil {
		t.Fatalf("Invoke(hello) error: %v", err)
	}
	if got := app.stdout.String(); got != "hello world\n" {
		t.Errorf("stdout = %q, want %q", got, "hello world\n")
	}

	var exitErr *ExitError
	if err := app.Invoke(context.Background(), "fail", nil); !errors.As(err, &exitErr) || exitErr.Code != 3 {
		t.Errorf("Invoke(fail) = %v, want exit 3", err)
	}
}

func TestNewApp_ProtectedBranch(t *testing.T) {
	t.Parallel()

	dir := newProject(t, "main", "protected_branches: [main]\n")

	_, err := newTestApp(t, dir)
	var svcErr *ServiceError
	if !errors.As(err, &svcErr) {
		t.Fatalf("NewApp() error = %v, want *ServiceError", err)
	}
	if !errors.Is(err, config.ErrProtectedBranch) {
		t.Errorf("error does not wrap ErrProtectedBranch: %v", err)
	}
	if svcErr.IssueID != issue.ProtectedBranchId {
		t.Errorf("IssueID = %d, want %d", svcErr.IssueID, issue.ProtectedBranchId)
	}

	var out bytes.Buffer
	if code := renderFatal(&out, err, false); code != 1 {
		t.Errorf("renderFatal() = %d, want 1", code)
	}
	if !strings.Contains(out.String(), "You are currently on protected branch main. For your safety palm will not run!") {
		t.Errorf("rendered = %q", out.String())
	}
}

func TestNewApp_ProtectedBranchSurvivesInvalidKey(t *testing.T) {
	t.Parallel()

	dir := newProject(t, "main", "protected_branches: [main]\ncontainer_engine: dockr\n")

	_, err := newTestApp(t, dir)
	var svcErr *ServiceError
	if !errors.As(err, &svcErr) || svcErr.IssueID != issue.ProtectedBranchId {
		t.Fatalf("NewApp() error = %v, want protected-branch ServiceError", err)
	}
}

func TestNewApp_UnreadablePluginsIsFatal(t *testing.T) {
	t.Parallel()

	dir := newProject(t, "feature", "plugins: [Foo]\n")

	_, err := newTestApp(t, dir)
	if !errors.Is(err, config.ErrInvalidConfiguration) {
		t.Fatalf("NewApp() error = %v, want ErrInvalidConfiguration", err)
	}

	var out bytes.Buffer
	if code := renderFatal(&out, err, false); code != 1 {
		t.Errorf("renderFatal() = %d, want 1", code)
	}
	if !strings.Contains(out.String(), "failed to load config") {
		t.Errorf("rendered = %q", out.String())
	}
}

func TestNewApp_PluginNotFound(t *testing.T) {
	t.Parallel()

	dir := newProject(t, "feature", "plugins: [ghost]\n")

	_, err := newTestApp(t, dir)
	var svcErr *ServiceError
	if !errors.As(err, &svcErr) || svcErr.IssueID != issue.PluginNotFoundId {
		t.Fatalf("NewApp() error = %v, want plugin-not-found ServiceError", err)
	}
	if !errors.Is(err, plugin.ErrPluginNotFound) {
		t.Errorf("error does not wrap ErrPluginNotFound: %v", err)
	}
	if !strings.Contains(svcErr.StyledMessage, "Plugin ghost not found") {
		t.Errorf("StyledMessage = %q", svcErr.StyledMessage)
	}
}

func TestNewApp_InvalidConfigWarns(t *testing.T) {
	t.Parallel()

	dir := newProject(t, "feature", "image_name: 3\n")

	app := mustTestApp(t, dir)
	if !strings.Contains(app.stderr.String(), "Warning:") {
		t.Errorf("stderr = %q, want a warning", app.stderr.String())
	}
	if got := pluginNames(app.Registry); strings.Join(got, ",") != "core,repo" {
		t.Errorf("plugins = %v, want defaults", got)
	}
}

func TestNewApp_MissingProjectConfig(t *testing.T) {
	t.Parallel()

	app := mustTestApp(t, newProject(t, "feature", ""))
	if !app.Resolver.InProject() {
		t.Fatal("InProject() = false inside a repository")
	}
	if app.stderr.Len() != 0 {
		t.Errorf("stderr = %q, want no output", app.stderr.String())
	}
}

func TestPromptConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		theme    string
		want     tui.Theme
		wantWarn bool
	}{
		{name: "unset", want: tui.ThemeDefault},
		{name: "dracula", theme: "dracula", want: tui.ThemeDracula},
		{name: "unknown", theme: "neon", want: tui.ThemeDefault, wantWarn: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var stderr bytes.Buffer
			app := &App{Settings: config.Settings{Theme: tt.theme}, stderr: &stderr}
			if got := app.promptConfig().Theme; got != tt.want {
				t.Errorf("Theme = %q, want %q", got, tt.want)
			}
			if warned := strings.Contains(stderr.String(), `invalid theme "neon"`); warned != tt.wantWarn {
				t.Errorf("stderr = %q, want warning %v", stderr.String(), tt.wantWarn)
			}
		})
	}
}
