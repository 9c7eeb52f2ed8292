// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"

	"github.com/palm-cli/palm/internal/hostexec"
	"github.com/palm-cli/palm/pkg/cmdfile"
)

// Virtual runs scripts with the embedded mvdan/sh interpreter.
// External programs are still looked up on the host PATH.
type Virtual struct {
	io IO
}

// NewVirtual returns a virtual runtime bound to streams.
func NewVirtual(streams IO) *Virtual {
	return &Virtual{io: streams}
}

// Name implements Runtime.
func (v *Virtual) Name() cmdfile.Runtime { return cmdfile.RuntimeVirtual }

// Run implements Runtime.
func (v *Virtual) Run(ctx context.Context, req Request) (int, error) {
	prog, err := syntax.NewParser().Parse(strings.NewReader(req.Script), string(req.Command))
	if err != nil {
		return 1, fmt.Errorf("parse script: %w", err)
	}

	opts := []interp.RunnerOption{
		interp.Env(expand.ListEnviron(hostexec.MergeEnv(os.Environ(), req.Env)...)),
		interp.StdIO(v.io.Stdin, v.io.Stdout, v.io.Stderr),
	}
	if req.Dir != "" {
		opts = append(opts, interp.Dir(req.Dir))
	}
	// "--" keeps args such as "-v" from being read as shell options.
	if len(req.Args) > 0 {
		opts = append(opts, interp.Params(append([]string{"--"}, req.Args...)...))
	}

	runner, err := interp.New(opts...)
	if err != nil {
		return 1, fmt.Errorf("create interpreter: %w", err)
	}

	if err := runner.Run(ctx, prog); err != nil {
		var status interp.ExitStatus
		if errors.As(err, &status) {
			return int(status), nil
		}
		return 1, fmt.Errorf("run script: %w", err)
	}
	return 0, nil
}
