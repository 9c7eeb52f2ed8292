// SPDX-License-Identifier: MPL-2.0

package dispatch

import (
	"fmt"
	"io"
	"maps"

	"github.com/palm-cli/palm/internal/plugin"
	"github.com/palm-cli/palm/internal/runtime"
	"github.com/palm-cli/palm/pkg/cmdfile"
)

type (
	// Loader turns a Locator into an Executable.
	Loader struct {
		runtimes *runtime.Registry
		actions  map[string]ActionFunc
		dir      string
		stdout   io.Writer
		stderr   io.Writer
	}

	// LoaderOption configures a Loader.
	LoaderOption func(*Loader)
)

// WithActions registers built-in actions by name.
func WithActions(actions map[string]ActionFunc) LoaderOption {
	return func(l *Loader) { maps.Copy(l.actions, actions) }
}

// WithDir sets the working directory scripts run in.
func WithDir(dir string) LoaderOption {
	return func(l *Loader) { l.dir = dir }
}

// WithOutput sets the streams actions and messages write to.
func WithOutput(stdout, stderr io.Writer) LoaderOption {
	return func(l *Loader) { l.stdout, l.stderr = stdout, stderr }
}

// NewLoader returns a Loader binding scripts to runtimes.
func NewLoader(runtimes *runtime.Registry, opts ...LoaderOption) *Loader {
	l := &Loader{
		runtimes: runtimes,
		actions:  make(map[string]ActionFunc),
		stdout:   io.Discard,
		stderr:   io.Discard,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads and parses the command file behind loc. Every failure is an
// ImportError.
func (l *Loader) Load(loc plugin.Locator) (*Executable, error) {
	data, err := loc.Read()
	if err != nil {
		return nil, &ImportError{Command: loc.Command, Path: loc.Location, Err: err}
	}
	cmd, err := cmdfile.Parse(loc.Command, data, loc.Location)
	if err != nil {
		return nil, &ImportError{Command: loc.Command, Path: loc.Location, Err: err}
	}

	exe := &Executable{
		Command: cmd,
		Plugin:  loc.Plugin,
		Path:    loc.Location,
		dir:     l.dir,
		stdout:  l.stdout,
		stderr:  l.stderr,
	}
	if cmd.IsAction() {
		fn, ok := l.actions[cmd.Action]
		if !ok {
			return nil, &ImportError{Command: loc.Command, Path: loc.Location, Err: fmt.Errorf("unknown action %q", cmd.Action)}
		}
		exe.action = fn
		return exe, nil
	}

	rt, err := l.runtimes.Get(cmd.Runtime)
	if err != nil {
		return nil, &ImportError{Command: loc.Command, Path: loc.Location, Err: err}
	}
	exe.runtime = rt
	return exe, nil
}
