// SPDX-License-Identifier: MPL-2.0

package hostexec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"slices"
	"strings"
	"testing"
)

type (
	// commandRecorder captures exec calls and answers them with TestHelperProcess.
	commandRecorder struct {
		invocations []invocation
		exitCode    int
		stdout      string
		stderr      string
		echoEnv     string
	}

	invocation struct {
		name string
		args []string
	}
)

func (m *commandRecorder) commandFunc(_ context.Context, name string, args ...string) *exec.Cmd {
	m.invocations = append(m.invocations, invocation{name: name, args: args})

	cs := append([]string{"-test.run=TestHelperProcess", "--", name}, args...)
	cmd := exec.Command(os.Args[0], cs...) //nolint:noctx // test helper
	cmd.Env = []string{
		"GO_WANT_HELPER_PROCESS=1",
		fmt.Sprintf("GO_HELPER_EXIT_CODE=%d", m.exitCode),
		"GO_HELPER_STDOUT=" + m.stdout,
		"GO_HELPER_STDERR=" + m.stderr,
		"GO_HELPER_ECHO_ENV=" + m.echoEnv,
	}
	return cmd
}

func (m *commandRecorder) last(t *testing.T) invocation {
	t.Helper()
	if len(m.invocations) == 0 {
		t.Fatal("no command was invoked")
	}
	return m.invocations[len(m.invocations)-1]
}

// TestHelperProcess is not a real test; it stands in for the spawned program.
func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	fmt.Fprint(os.Stdout, os.Getenv("GO_HELPER_STDOUT"))
	if key := os.Getenv("GO_HELPER_ECHO_ENV"); key != "" {
		fmt.Fprintf(os.Stdout, "%s=%s", key, os.Getenv(key))
	}
	fmt.Fprint(os.Stderr, os.Getenv("GO_HELPER_STDERR"))

	code := 0
	fmt.Sscanf(os.Getenv("GO_HELPER_EXIT_CODE"), "%d", &code)
	os.Exit(code)
}

func TestRunner_Run(t *testing.T) {
	t.Parallel()

	rec := &commandRecorder{stdout: "hello"}
	r := NewRunner(WithExecCommand(rec.commandFunc))

	res, err := r.Run(context.Background(), `echo "$1"`, Args("a b", "c"), Capture())
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if res.ExitCode != 0 || res.Stdout != "hello" {
		t.Errorf("Run() = %+v", res)
	}

	inv := rec.last(t)
	if inv.name != "sh" {
		t.Errorf("shell = %q, want sh", inv.name)
	}
	want := []string{"-c", `echo "$1"`, "palm", "a b", "c"}
	if !slices.Equal(inv.args, want) {
		t.Errorf("argv = %q, want %q", inv.args, want)
	}
}

func TestRunner_ExitCodeIsNotAnError(t *testing.T) {
	t.Parallel()

	rec := &commandRecorder{exitCode: 3, stderr: "boom"}
	r := NewRunner(WithExecCommand(rec.commandFunc))

	res, err := r.Exec(context.Background(), "docker", []string{"info"}, Capture())
	if err != nil {
		t.Fatalf("Exec() error: %v", err)
	}
	if res.ExitCode != 3 || res.Stderr != "boom" {
		t.Errorf("Exec() = %+v", res)
	}
	if inv := rec.last(t); inv.name != "docker" || !slices.Equal(inv.args, []string{"info"}) {
		t.Errorf("invocation = %+v", inv)
	}
}

func TestRunner_Env(t *testing.T) {
	t.Parallel()

	rec := &commandRecorder{echoEnv: "PALM_OPT_NAME"}
	r := NewRunner(WithExecCommand(rec.commandFunc))

	res, err := r.Run(context.Background(), "true", Env(map[string]string{"PALM_OPT_NAME": "x y"}), Capture())
	if err != nil {
		t.Fatal(err)
	}
	if res.Stdout != "PALM_OPT_NAME=x y" {
		t.Errorf("child saw %q", res.Stdout)
	}
}

func TestRunner_StreamsToConfiguredWriters(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	rec := &commandRecorder{stdout: "out", stderr: "err"}
	r := NewRunner(WithExecCommand(rec.commandFunc), WithStdio(strings.NewReader(""), &stdout, &stderr))

	res, err := r.Run(context.Background(), "x")
	if err != nil {
		t.Fatal(err)
	}
	if res.Stdout != "" || stdout.String() != "out" || stderr.String() != "err" {
		t.Errorf("result %+v, stdout %q, stderr %q", res, stdout.String(), stderr.String())
	}
}

func TestRunner_StartFailure(t *testing.T) {
	t.Parallel()

	r := NewRunner(WithShell("/definitely/not/a/shell"), WithStdio(strings.NewReader(""), &bytes.Buffer{}, &bytes.Buffer{}))
	res, err := r.Run(context.Background(), "true")
	if err == nil {
		t.Fatal("expected start error")
	}
	if res.ExitCode != 127 {
		t.Errorf("ExitCode = %d, want 127", res.ExitCode)
	}
}

func TestRunner_LookPath(t *testing.T) {
	t.Parallel()

	r := NewRunner(WithLookPath(func(file string) (string, error) {
		if file == "docker" {
			return "/usr/bin/docker", nil
		}
		return "", exec.ErrNotFound
	}))
	if p, err := r.LookPath("docker"); err != nil || p != "/usr/bin/docker" {
		t.Errorf("LookPath(docker) = %q, %v", p, err)
	}
	if _, err := r.LookPath("podman"); !errors.Is(err, exec.ErrNotFound) {
		t.Errorf("LookPath(podman) error = %v", err)
	}
}

func TestMergeEnv(t *testing.T) {
	t.Parallel()

	got := MergeEnv([]string{"A=1", "B=2", "PATH=/bin"}, map[string]string{"B": "3", "C": "4"})
	want := []string{"A=1", "PATH=/bin", "B=3", "C=4"}
	if !slices.Equal(got, want) {
		t.Errorf("MergeEnv() = %v, want %v", got, want)
	}
}
