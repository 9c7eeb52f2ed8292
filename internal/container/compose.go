// SPDX-License-Identifier: MPL-2.0

package container

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"mvdan.cc/sh/v3/syntax"

	"github.com/palm-cli/palm/internal/config"
	"github.com/palm-cli/palm/internal/hostexec"
)

// Shell is the interpreter scripts run with inside the service container.
const Shell = "/bin/bash"

var (
	// ErrEngineNotFound is returned when the engine binary is not on PATH.
	ErrEngineNotFound = errors.New("container engine not found")
	// ErrComposeUnavailable is returned when `<engine> compose` does not work.
	ErrComposeUnavailable = errors.New("compose is not available")
	// ErrDaemonUnreachable is returned when `<engine> info` fails.
	ErrDaemonUnreachable = errors.New("container engine is not running")
)

type (
	// Runner is the subset of hostexec.Runner used here.
	Runner interface {
		Exec(ctx context.Context, name string, args []string, opts ...hostexec.RunOption) (hostexec.Result, error)
		LookPath(name string) (string, error)
	}

	// Compose runs scripts through `<engine> compose run`.
	Compose struct {
		runner  Runner
		engine  config.ContainerEngine
		service string
		dir     string
	}

	// RunSpec describes one script run.
	RunSpec struct {
		Script      string
		Env         map[string]string
		Args        []string
		Interactive bool
	}

	// DependencyError reports which readiness check failed.
	DependencyError struct {
		Engine config.ContainerEngine
		Err    error
		Detail string
	}
)

func (e *DependencyError) Error() string {
	msg := fmt.Sprintf("%s: %v", e.Engine, e.Err)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *DependencyError) Unwrap() error { return e.Err }

// NewCompose returns a Compose for service, running the engine from dir.
func NewCompose(runner Runner, engine config.ContainerEngine, service, dir string) *Compose {
	if engine == "" {
		engine = config.EngineDocker
	}
	return &Compose{runner: runner, engine: engine, service: service, dir: dir}
}

// Engine returns the configured engine.
func (c *Compose) Engine() config.ContainerEngine { return c.engine }

// Service returns the compose service scripts run in.
func (c *Compose) Service() string { return c.service }

// CommandString is the compose invocation prefix, e.g. "docker compose".
func (c *Compose) CommandString() string {
	return string(c.engine) + " compose"
}

// Ready verifies the engine binary, compose support and the daemon, in that order.
func (c *Compose) Ready(ctx context.Context) error {
	bin := string(c.engine)
	if _, err := c.runner.LookPath(bin); err != nil {
		return &DependencyError{Engine: c.engine, Err: ErrEngineNotFound}
	}

	res, err := c.runner.Exec(ctx, bin, []string{"compose", "version"}, hostexec.Capture())
	if err != nil || res.ExitCode != 0 {
		return &DependencyError{Engine: c.engine, Err: ErrComposeUnavailable, Detail: detail(res, err)}
	}

	res, err = c.runner.Exec(ctx, bin, []string{"info"}, hostexec.Capture())
	if err != nil || res.ExitCode != 0 {
		return &DependencyError{Engine: c.engine, Err: ErrDaemonUnreachable, Detail: detail(res, err)}
	}
	return nil
}

func detail(res hostexec.Result, err error) string {
	if err != nil {
		return err.Error()
	}
	return strings.TrimSpace(res.Stderr)
}

// RunArgs builds the engine arguments for spec. Env entries are emitted sorted by key.
func (c *Compose) RunArgs(spec RunSpec) []string {
	args := []string{"compose", "run", "--service-ports", "--rm"}
	for _, k := range slices.Sorted(maps.Keys(spec.Env)) {
		args = append(args, "-e", k+"="+spec.Env[k])
	}
	args = append(args, c.service, Shell, "-c", spec.Script, "palm")
	return append(args, spec.Args...)
}

// CommandLine renders the full invocation as a shell-quoted string for display.
func (c *Compose) CommandLine(spec RunSpec) string {
	words := append([]string{string(c.engine)}, c.RunArgs(spec)...)
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = quote(w)
	}
	return strings.Join(quoted, " ")
}

func quote(s string) string {
	if s != "" && !strings.ContainsAny(s, " \t\n'\"\\$`!*?[]{}()<>|&;#~") {
		return s
	}
	q, err := syntax.Quote(s, syntax.LangBash)
	if err != nil {
		return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
	}
	return q
}

// Run executes spec in the service and returns the engine's exit status.
func (c *Compose) Run(ctx context.Context, spec RunSpec) (hostexec.Result, error) {
	opts := []hostexec.RunOption{hostexec.Dir(c.dir)}
	if spec.Interactive {
		opts = append(opts, hostexec.Interactive())
	}
	return c.runner.Exec(ctx, string(c.engine), c.RunArgs(spec), opts...)
}
