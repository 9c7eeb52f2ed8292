// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/palm-cli/palm/pkg/cmdfile"
)

// ErrRuntimeNotRegistered is returned by Registry.Get for unknown runtimes.
var ErrRuntimeNotRegistered = errors.New("runtime not registered")

type (
	// Request is one script run.
	Request struct {
		// Command is the command name, used in messages only.
		Command cmdfile.Name
		Script  string
		// Args become the positional parameters $1..$n.
		Args []string
		// Env is added on top of the inherited environment.
		Env map[string]string
		// Dir is the working directory. Empty means the current directory.
		Dir         string
		Interactive bool
	}

	// Runtime runs a Request and returns the script's exit status.
	Runtime interface {
		Name() cmdfile.Runtime
		Run(ctx context.Context, req Request) (int, error)
	}

	// IO holds the streams a runtime reads and writes.
	IO struct {
		Stdin  io.Reader
		Stdout io.Writer
		Stderr io.Writer
	}

	// Registry maps runtime names to implementations.
	Registry struct {
		runtimes map[cmdfile.Runtime]Runtime
	}
)

// DefaultIO returns the process streams.
func DefaultIO() IO {
	return IO{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

// NewRegistry returns a registry holding rts, keyed by their names.
func NewRegistry(rts ...Runtime) *Registry {
	r := &Registry{runtimes: make(map[cmdfile.Runtime]Runtime, len(rts))}
	for _, rt := range rts {
		r.Register(rt)
	}
	return r
}

// Register adds rt, replacing any runtime with the same name.
func (r *Registry) Register(rt Runtime) {
	r.runtimes[rt.Name()] = rt
}

// Get returns the runtime registered under name.
func (r *Registry) Get(name cmdfile.Runtime) (Runtime, error) {
	rt, ok := r.runtimes[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrRuntimeNotRegistered, name)
	}
	return rt, nil
}
