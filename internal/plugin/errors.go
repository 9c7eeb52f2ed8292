// SPDX-License-Identifier: MPL-2.0

package plugin

import (
	"errors"
	"fmt"

	"github.com/palm-cli/palm/pkg/cmdfile"
)

var (
	// ErrPluginNotFound is returned when no Source provides a plugin name.
	ErrPluginNotFound = errors.New("plugin not found")
	// ErrCommandNotFound is returned when no loaded plugin provides a command.
	ErrCommandNotFound = errors.New("command not found")
	// ErrDirectoryNotFound is returned when a plugin's command directory is missing.
	ErrDirectoryNotFound = errors.New("plugin directory not found")
	// ErrPluginNotConfigured is returned by Plugin.Config when no usable
	// configuration exists.
	ErrPluginNotConfigured = errors.New("plugin not configured")
)

type (
	// PluginNotFoundError wraps ErrPluginNotFound.
	PluginNotFoundError struct {
		Name string
	}

	// CommandNotFoundError wraps ErrCommandNotFound.
	CommandNotFoundError struct {
		Name cmdfile.Name
		// Plugin is set when the owning plugin is known but its file disappeared.
		Plugin string
	}

	// DirectoryNotFoundError wraps ErrDirectoryNotFound.
	DirectoryNotFoundError struct {
		Plugin string
		Path   string
	}

	// NotConfiguredError wraps ErrPluginNotConfigured and, when validation failed,
	// the validation error.
	NotConfiguredError struct {
		Plugin string
		Err    error
	}
)

func (e *PluginNotFoundError) Error() string {
	return fmt.Sprintf("plugin %q is not installed", e.Name)
}

func (e *PluginNotFoundError) Unwrap() error { return ErrPluginNotFound }

func (e *CommandNotFoundError) Error() string {
	if e.Plugin != "" {
		return fmt.Sprintf("command %q no longer exists in plugin %q", e.Name, e.Plugin)
	}
	return fmt.Sprintf("command %q not found", e.Name)
}

func (e *CommandNotFoundError) Unwrap() error { return ErrCommandNotFound }

func (e *DirectoryNotFoundError) Error() string {
	return fmt.Sprintf("plugin %q: command directory %s does not exist", e.Plugin, e.Path)
}

func (e *DirectoryNotFoundError) Unwrap() error { return ErrDirectoryNotFound }

func (e *NotConfiguredError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("plugin %q is not configured: %v", e.Plugin, e.Err)
	}
	return fmt.Sprintf("plugin %q is not configured", e.Plugin)
}

func (e *NotConfiguredError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrPluginNotConfigured}
	}
	return []error{ErrPluginNotConfigured, e.Err}
}
