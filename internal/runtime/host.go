// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"context"
	"maps"

	"github.com/palm-cli/palm/internal/hostexec"
	"github.com/palm-cli/palm/pkg/cmdfile"
)

// Environment variables every host script receives.
const (
	EnvCompose = "PALM_COMPOSE"
	EnvImage   = "PALM_IMAGE"
)

// Host runs scripts with the host shell.
type Host struct {
	runner *hostexec.Runner
	// compose and image are exported to scripts so host commands can drive the
	// project's containers themselves.
	compose string
	image   string
}

// NewHost returns a host runtime. compose is the compose invocation prefix
// (e.g. "docker compose") and image the project's service name.
func NewHost(runner *hostexec.Runner, compose, image string) *Host {
	return &Host{runner: runner, compose: compose, image: image}
}

// Name implements Runtime.
func (h *Host) Name() cmdfile.Runtime { return cmdfile.RuntimeHost }

// Run implements Runtime.
func (h *Host) Run(ctx context.Context, req Request) (int, error) {
	env := map[string]string{EnvCompose: h.compose, EnvImage: h.image}
	maps.Copy(env, req.Env)

	opts := []hostexec.RunOption{
		hostexec.Env(env),
		hostexec.Dir(req.Dir),
		hostexec.Args(req.Args...),
	}
	if req.Interactive {
		opts = append(opts, hostexec.Interactive())
	}

	res, err := h.runner.Run(ctx, req.Script, opts...)
	return res.ExitCode, err
}
