// SPDX-License-Identifier: MPL-2.0

//go:build !windows

package hostexec

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/creack/pty"
)

// watchResize keeps the pty size in sync with the controlling terminal.
func watchResize(tty, ptmx *os.File) (stop func()) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGWINCH)
	go func() {
		for range ch {
			_ = pty.InheritSize(tty, ptmx)
		}
	}()
	return func() {
		signal.Stop(ch)
		close(ch)
	}
}
