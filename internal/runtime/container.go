// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"context"
	"fmt"
	"io"

	"github.com/palm-cli/palm/internal/container"
	"github.com/palm-cli/palm/internal/tui"
	"github.com/palm-cli/palm/pkg/cmdfile"
)

// Container runs scripts inside the project's compose service.
type Container struct {
	compose *container.Compose
	// skipChecks disables the engine readiness check (PALM_TEST).
	skipChecks bool
	out        io.Writer
}

// NewContainer returns a container runtime. Status lines go to out.
func NewContainer(compose *container.Compose, skipChecks bool, out io.Writer) *Container {
	return &Container{compose: compose, skipChecks: skipChecks, out: out}
}

// Name implements Runtime.
func (c *Container) Name() cmdfile.Runtime { return cmdfile.RuntimeContainer }

// Run implements Runtime.
func (c *Container) Run(ctx context.Context, req Request) (int, error) {
	if !c.skipChecks {
		if err := c.compose.Ready(ctx); err != nil {
			return 1, err
		}
	}

	spec := container.RunSpec{
		Script:      req.Script,
		Env:         req.Env,
		Args:        req.Args,
		Interactive: req.Interactive,
	}
	fmt.Fprintln(c.out, tui.WarningStyle.Render(fmt.Sprintf("Executing command `%s` in compose...", c.compose.CommandLine(spec))))

	res, err := c.compose.Run(ctx, spec)
	if err != nil {
		return res.ExitCode, err
	}

	if res.ExitCode == 0 {
		fmt.Fprintln(c.out, tui.SuccessStyle.Render("Success! Palm completed with exit code 0"))
	} else {
		fmt.Fprintln(c.out, tui.ErrorStyle.Render(fmt.Sprintf("Fail! Palm exited with code %d", res.ExitCode)))
	}
	return res.ExitCode, nil
}
