// SPDX-License-Identifier: MPL-2.0

package hostexec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"os/exec"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
)

// DefaultShell interprets scripts passed to Run.
const DefaultShell = "sh"

type (
	// ExecCommandFunc creates the command to run. Tests replace it to avoid spawning
	// real programs.
	ExecCommandFunc func(ctx context.Context, name string, arg ...string) *exec.Cmd

	// LookPathFunc resolves a binary on PATH.
	LookPathFunc func(file string) (string, error)

	// Result is the outcome of a finished process. Stdout and Stderr are only filled
	// when output was captured.
	Result struct {
		ExitCode int
		Stdout   string
		Stderr   string
	}

	// Runner starts host processes.
	Runner struct {
		shell       string
		execCommand ExecCommandFunc
		lookPath    LookPathFunc
		stdin       io.Reader
		stdout      io.Writer
		stderr      io.Writer
		logger      *log.Logger
	}

	// RunnerOption configures a Runner.
	RunnerOption func(*Runner)

	// RunOption configures a single Run call.
	RunOption func(*runConfig)

	runConfig struct {
		env         map[string]string
		dir         string
		args        []string
		capture     bool
		interactive bool
	}
)

// WithExecCommand replaces exec.CommandContext.
func WithExecCommand(fn ExecCommandFunc) RunnerOption {
	return func(r *Runner) { r.execCommand = fn }
}

// WithLookPath replaces exec.LookPath.
func WithLookPath(fn LookPathFunc) RunnerOption {
	return func(r *Runner) { r.lookPath = fn }
}

// WithShell sets the shell used by Run.
func WithShell(shell string) RunnerOption {
	return func(r *Runner) { r.shell = shell }
}

// WithStdio sets the streams passed to child processes.
func WithStdio(stdin io.Reader, stdout, stderr io.Writer) RunnerOption {
	return func(r *Runner) {
		r.stdin, r.stdout, r.stderr = stdin, stdout, stderr
	}
}

// WithRunnerLogger sets the debug logger.
func WithRunnerLogger(l *log.Logger) RunnerOption {
	return func(r *Runner) { r.logger = l }
}

// NewRunner returns a Runner using the process's standard streams.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{
		shell:       DefaultShell,
		execCommand: exec.CommandContext,
		lookPath:    exec.LookPath,
		stdin:       os.Stdin,
		stdout:      os.Stdout,
		stderr:      os.Stderr,
		logger:      log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Env adds variables on top of the inherited environment.
func Env(env map[string]string) RunOption {
	return func(c *runConfig) {
		if c.env == nil {
			c.env = make(map[string]string, len(env))
		}
		maps.Copy(c.env, env)
	}
}

// Dir sets the working directory.
func Dir(dir string) RunOption {
	return func(c *runConfig) { c.dir = dir }
}

// Args sets the positional parameters ($1..$n) of a script run with Run.
func Args(args ...string) RunOption {
	return func(c *runConfig) { c.args = args }
}

// Capture collects stdout and stderr into the Result instead of streaming them.
func Capture() RunOption {
	return func(c *runConfig) { c.capture = true }
}

// Interactive attaches the process to a pseudo-terminal when stdin is a terminal.
func Interactive() RunOption {
	return func(c *runConfig) { c.interactive = true }
}

// Run executes command with the host shell as `sh -c command palm args...`.
func (r *Runner) Run(ctx context.Context, command string, opts ...RunOption) (Result, error) {
	cfg := newRunConfig(opts)
	argv := append([]string{"-c", command, "palm"}, cfg.args...)
	return r.start(ctx, r.shell, argv, cfg)
}

// Exec runs a binary directly, without a shell.
func (r *Runner) Exec(ctx context.Context, name string, args []string, opts ...RunOption) (Result, error) {
	return r.start(ctx, name, args, newRunConfig(opts))
}

// LookPath reports where name is found on PATH.
func (r *Runner) LookPath(name string) (string, error) {
	return r.lookPath(name)
}

func newRunConfig(opts []RunOption) runConfig {
	var cfg runConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

func (r *Runner) start(ctx context.Context, name string, args []string, cfg runConfig) (Result, error) {
	cmd := r.execCommand(ctx, name, args...)
	cmd.Dir = cfg.dir
	if len(cfg.env) > 0 {
		base := cmd.Env
		if base == nil {
			base = os.Environ()
		}
		cmd.Env = MergeEnv(base, cfg.env)
	}
	r.logger.Debug("exec", "cmd", name, "args", args, "dir", cfg.dir)

	if cfg.interactive && !cfg.capture && isTerminal(r.stdin) {
		return r.runPTY(cmd)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdin = r.stdin
	if cfg.capture {
		cmd.Stdout, cmd.Stderr = &stdout, &stderr
	} else {
		cmd.Stdout, cmd.Stderr = r.stdout, r.stderr
	}

	err := cmd.Run()
	res := Result{Stdout: stdout.String(), Stderr: stderr.String()}
	return finish(res, err, name)
}

func finish(res Result, err error, name string) (Result, error) {
	if err == nil {
		return res, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		if res.ExitCode < 0 {
			res.ExitCode = 1
		}
		return res, nil
	}
	res.ExitCode = 127
	return res, fmt.Errorf("start %s: %w", name, err)
}

// MergeEnv overrides or appends KEY=VALUE pairs. Keys are emitted in sorted order.
func MergeEnv(base []string, extra map[string]string) []string {
	out := make([]string, 0, len(base)+len(extra))
	for _, kv := range base {
		key, _, _ := strings.Cut(kv, "=")
		if _, ok := extra[key]; !ok {
			out = append(out, kv)
		}
	}
	for _, k := range slices.Sorted(maps.Keys(extra)) {
		out = append(out, k+"="+extra[k])
	}
	return out
}
