// SPDX-License-Identifier: MPL-2.0

package cmdfile

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// RuntimeContainer runs the script through `<engine> compose run` in the project image.
	RuntimeContainer Runtime = "container"
	// RuntimeHost runs the script with the host shell.
	RuntimeHost Runtime = "host"
	// RuntimeVirtual runs the script with the built-in POSIX interpreter.
	RuntimeVirtual Runtime = "virtual"
)

var (
	// ErrInvalidRuntime is returned for a runtime other than container, host or virtual.
	ErrInvalidRuntime = errors.New("invalid runtime")
	// ErrInvalidCommand is returned when a decoded command is structurally wrong.
	ErrInvalidCommand = errors.New("invalid command")
)

type (
	// Runtime selects how a script runs.
	Runtime string

	// InvalidRuntimeError wraps ErrInvalidRuntime.
	InvalidRuntimeError struct {
		Value Runtime
	}

	// Command is a decoded command file.
	Command struct {
		Name        Name              `json:"-"`
		Help        string            `json:"help"`
		Short       string            `json:"short,omitempty"`
		Usage       string            `json:"usage,omitempty"`
		Hidden      bool              `json:"hidden"`
		Runtime     Runtime           `json:"runtime"`
		Interactive bool              `json:"interactive"`
		Env         map[string]string `json:"env,omitempty"`
		Options     []Option          `json:"options,omitempty"`
		Script      string            `json:"script,omitempty"`
		Action      string            `json:"action,omitempty"`
	}

	// InvalidCommandError lists every structural problem found in one command.
	InvalidCommandError struct {
		Name   Name
		Errors []error
	}
)

func (e *InvalidRuntimeError) Error() string {
	return fmt.Sprintf("invalid runtime %q (valid: container, host, virtual)", e.Value)
}

func (e *InvalidRuntimeError) Unwrap() error { return ErrInvalidRuntime }

// IsValid reports whether r names a known runtime.
func (r Runtime) IsValid() (bool, []error) {
	switch r {
	case RuntimeContainer, RuntimeHost, RuntimeVirtual:
		return true, nil
	default:
		return false, []error{&InvalidRuntimeError{Value: r}}
	}
}

func (e *InvalidCommandError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("command %s: %s", e.Name, strings.Join(msgs, "; "))
}

func (e *InvalidCommandError) Unwrap() error { return ErrInvalidCommand }

// ShortHelp returns Short, or the first line of Help when Short is empty.
func (c *Command) ShortHelp() string {
	if c.Short != "" {
		return c.Short
	}
	first, _, _ := strings.Cut(strings.TrimSpace(c.Help), "\n")
	return first
}

// IsAction reports whether the command is implemented by a built-in Go action.
func (c *Command) IsAction() bool { return c.Action != "" }

// Option returns the option called name.
func (c *Command) Option(name string) (Option, bool) {
	for _, o := range c.Options {
		if o.Name == name {
			return o, true
		}
	}
	return Option{}, false
}

// Validate checks the rules the schema cannot express.
func (c *Command) Validate() error {
	var errs []error
	if ok, nameErrs := c.Name.IsValid(); !ok {
		errs = append(errs, nameErrs...)
	}
	if ok, rtErrs := c.Runtime.IsValid(); !ok {
		errs = append(errs, rtErrs...)
	}

	switch {
	case c.Script == "" && c.Action == "":
		errs = append(errs, errors.New("one of script or action is required"))
	case c.Script != "" && c.Action != "":
		errs = append(errs, errors.New("script and action are mutually exclusive"))
	}

	seen := make(map[string]bool)
	shorts := make(map[string]bool)
	for _, o := range c.Options {
		if o.Name == "help" {
			errs = append(errs, errors.New(`option "help" is reserved`))
		}
		if seen[o.Name] {
			errs = append(errs, fmt.Errorf("option %q declared twice", o.Name))
		}
		seen[o.Name] = true
		if o.Short != "" {
			if shorts[o.Short] {
				errs = append(errs, fmt.Errorf("short flag -%s declared twice", o.Short))
			}
			shorts[o.Short] = true
		}
		if err := o.Validate(); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return &InvalidCommandError{Name: c.Name, Errors: errs}
	}
	return nil
}
