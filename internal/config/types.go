// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
)

const (
	// EngineDocker selects docker as the container engine.
	EngineDocker ContainerEngine = "docker"
	// EnginePodman selects podman as the container engine.
	EnginePodman ContainerEngine = "podman"
)

var (
	// ErrInvalidConfiguration marks a config file that failed to parse or validate.
	ErrInvalidConfiguration = errors.New("invalid configuration")
	// ErrProtectedBranch is returned by Resolver.CheckBranch.
	ErrProtectedBranch = errors.New("protected branch")
	// ErrInvalidContainerEngine is returned for an engine other than docker or podman.
	ErrInvalidContainerEngine = errors.New("invalid container engine")
)

type (
	// ContainerEngine names the binary used for `compose run`.
	ContainerEngine string

	// InvalidContainerEngineError wraps ErrInvalidContainerEngine.
	InvalidContainerEngineError struct {
		Value ContainerEngine
	}

	// Config is the merged global and project configuration.
	Config struct {
		ImageName         string                    `mapstructure:"image_name"`
		ContainerEngine   ContainerEngine           `mapstructure:"container_engine"`
		Plugins           []string                  `mapstructure:"plugins"`
		ProtectedBranches []string                  `mapstructure:"protected_branches"`
		ExcludedCommands  []string                  `mapstructure:"excluded_commands"`
		PluginConfig      map[string]map[string]any `mapstructure:"plugin_config"`
	}

	// InvalidConfigurationError reports which file broke validation.
	InvalidConfigurationError struct {
		Path string
		Err  error
	}

	// ProtectedBranchError is returned when palm runs on a protected branch.
	ProtectedBranchError struct {
		Branch string
	}
)

func (e *InvalidContainerEngineError) Error() string {
	return fmt.Sprintf("invalid container engine %q (valid: docker, podman)", e.Value)
}

func (e *InvalidContainerEngineError) Unwrap() error { return ErrInvalidContainerEngine }

// IsValid reports whether e is a supported engine.
func (e ContainerEngine) IsValid() (bool, []error) {
	switch e {
	case EngineDocker, EnginePodman:
		return true, nil
	default:
		return false, []error{&InvalidContainerEngineError{Value: e}}
	}
}

func (e *InvalidConfigurationError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("invalid configuration: %v", e.Err)
	}
	return fmt.Sprintf("invalid configuration in %s: %v", e.Path, e.Err)
}

func (e *InvalidConfigurationError) Unwrap() []error {
	return []error{ErrInvalidConfiguration, e.Err}
}

func (e *ProtectedBranchError) Error() string {
	return fmt.Sprintf("You are currently on protected branch %s. For your safety palm will not run!", e.Branch)
}

func (e *ProtectedBranchError) Unwrap() error { return ErrProtectedBranch }

// DefaultConfig is the configuration used when no file sets a value.
func DefaultConfig() *Config {
	return &Config{
		ContainerEngine:   EngineDocker,
		Plugins:           []string{},
		ProtectedBranches: []string{},
		ExcludedCommands:  []string{},
		PluginConfig:      map[string]map[string]any{},
	}
}
