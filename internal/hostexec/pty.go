// SPDX-License-Identifier: MPL-2.0

package hostexec

import (
	"io"
	"os"
	"os/exec"

	"github.com/creack/pty"
	"golang.org/x/term"
)

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// runPTY attaches cmd to a new pseudo-terminal, switches the caller's terminal to raw
// mode and copies bytes both ways until the process exits.
func (r *Runner) runPTY(cmd *exec.Cmd) (Result, error) {
	ptmx, err := pty.Start(cmd)
	if err != nil {
		return Result{ExitCode: 127}, err
	}
	defer func() { _ = ptmx.Close() }()

	in := r.stdin.(*os.File)
	_ = pty.InheritSize(in, ptmx)
	stopResize := watchResize(in, ptmx)
	defer stopResize()

	if state, err := term.MakeRaw(int(in.Fd())); err == nil {
		defer func() { _ = term.Restore(int(in.Fd()), state) }()
	}

	go func() { _, _ = io.Copy(ptmx, in) }()
	_, _ = io.Copy(r.stdout, ptmx)

	return finish(Result{}, cmd.Wait(), cmd.Path)
}
