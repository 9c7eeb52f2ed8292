// SPDX-License-Identifier: MPL-2.0

// Package container runs palm scripts in the project's compose service.
//
// Every container command becomes
//
//	<engine> compose run --service-ports --rm -e K=V ... <service> /bin/bash -c '<script>' palm [args...]
//
// where <engine> is docker or podman. Ready checks that the engine binary, its
// compose plugin and the daemon are all usable before anything runs.
package container
