// SPDX-License-Identifier: MPL-2.0

package container

import (
	"context"
	"errors"
	"os/exec"
	"slices"
	"strings"
	"testing"

	"github.com/palm-cli/palm/internal/config"
	"github.com/palm-cli/palm/internal/hostexec"
)

type (
	fakeRunner struct {
		missing bool
		// exitCodes maps the first engine argument to the exit code it yields.
		exitCodes map[string]int
		calls     []call
	}

	call struct {
		name string
		args []string
	}
)

func (f *fakeRunner) LookPath(name string) (string, error) {
	if f.missing {
		return "", exec.ErrNotFound
	}
	return "/usr/bin/" + name, nil
}

func (f *fakeRunner) Exec(_ context.Context, name string, args []string, _ ...hostexec.RunOption) (hostexec.Result, error) {
	f.calls = append(f.calls, call{name: name, args: args})
	code := 0
	if len(args) > 0 {
		code = f.exitCodes[args[0]]
	}
	return hostexec.Result{ExitCode: code, Stderr: "stderr text"}, nil
}

func TestCompose_RunArgs(t *testing.T) {
	t.Parallel()

	c := NewCompose(&fakeRunner{}, config.EnginePodman, "my_app", "/p")
	got := c.RunArgs(RunSpec{
		Script: "pytest \"$@\"",
		Env:    map[string]string{"PALM_TEST": "true", "A": "1"},
		Args:   []string{"-k", "slow"},
	})
	want := []string{
		"compose", "run", "--service-ports", "--rm",
		"-e", "A=1", "-e", "PALM_TEST=true",
		"my_app", "/bin/bash", "-c", "pytest \"$@\"", "palm", "-k", "slow",
	}
	if !slices.Equal(got, want) {
		t.Errorf("RunArgs() =\n%q\nwant\n%q", got, want)
	}
	if c.CommandString() != "podman compose" {
		t.Errorf("CommandString() = %q", c.CommandString())
	}
}

func TestCompose_CommandLine(t *testing.T) {
	t.Parallel()

	c := NewCompose(&fakeRunner{}, "", "svc", "")
	line := c.CommandLine(RunSpec{Script: "echo hi", Env: map[string]string{"K": "v"}})
	want := "docker compose run --service-ports --rm -e K=v svc /bin/bash -c 'echo hi' palm"
	if line != want {
		t.Errorf("CommandLine() = %q, want %q", line, want)
	}
}

func TestCompose_Run(t *testing.T) {
	t.Parallel()

	f := &fakeRunner{exitCodes: map[string]int{"compose": 4}}
	c := NewCompose(f, config.EngineDocker, "svc", "/p")

	res, err := c.Run(context.Background(), RunSpec{Script: "false"})
	if err != nil {
		t.Fatal(err)
	}
	if res.ExitCode != 4 {
		t.Errorf("ExitCode = %d, want 4", res.ExitCode)
	}
	if len(f.calls) != 1 || f.calls[0].name != "docker" {
		t.Errorf("calls = %+v", f.calls)
	}
}

func TestCompose_Ready(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		runner *fakeRunner
		want   error
	}{
		{"ok", &fakeRunner{}, nil},
		{"no binary", &fakeRunner{missing: true}, ErrEngineNotFound},
		{"no compose", &fakeRunner{exitCodes: map[string]int{"compose": 1}}, ErrComposeUnavailable},
		{"daemon down", &fakeRunner{exitCodes: map[string]int{"info": 1}}, ErrDaemonUnreachable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := NewCompose(tt.runner, config.EngineDocker, "svc", "").Ready(context.Background())
			if tt.want == nil {
				if err != nil {
					t.Errorf("Ready() error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("Ready() error = %v, want %v", err, tt.want)
			}
			var depErr *DependencyError
			if !errors.As(err, &depErr) || depErr.Engine != config.EngineDocker {
				t.Errorf("error is not a DependencyError for docker: %v", err)
			}
			if tt.want == ErrDaemonUnreachable && !strings.Contains(err.Error(), "stderr text") {
				t.Errorf("daemon error should carry stderr: %v", err)
			}
		})
	}
}
