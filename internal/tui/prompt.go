// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
)

// ErrAborted is returned when the user cancels a prompt.
var ErrAborted = errors.New("prompt aborted")

type (
	// InputOptions configures a single-line text prompt.
	InputOptions struct {
		Title       string
		Description string
		Placeholder string
		// Value pre-fills the answer.
		Value string
		// Required rejects empty (whitespace-only) answers.
		Required bool
	}

	// ConfirmOptions configures a yes/no prompt.
	ConfirmOptions struct {
		Title       string
		Description string
		Default     bool
	}

	// Prompter asks the user for values.
	Prompter interface {
		Input(opts InputOptions) (string, error)
		Confirm(opts ConfirmOptions) (bool, error)
	}

	// FormPrompter implements Prompter with huh forms.
	FormPrompter struct {
		cfg Config
	}
)

// NewPrompter returns a Prompter that renders with cfg.
func NewPrompter(cfg Config) *FormPrompter {
	return &FormPrompter{cfg: cfg}
}

// Input asks for a line of text.
func (p *FormPrompter) Input(opts InputOptions) (string, error) {
	value := opts.Value
	field := huh.NewInput().
		Title(opts.Title).
		Description(opts.Description).
		Placeholder(opts.Placeholder).
		Value(&value)
	if opts.Required {
		field = field.Validate(requireValue)
	}

	if err := p.run(field); err != nil {
		return "", err
	}
	return strings.TrimSpace(value), nil
}

// Confirm asks a yes/no question.
func (p *FormPrompter) Confirm(opts ConfirmOptions) (bool, error) {
	value := opts.Default
	field := huh.NewConfirm().
		Title(opts.Title).
		Description(opts.Description).
		Affirmative("Yes").
		Negative("No").
		Value(&value)

	if err := p.run(field); err != nil {
		return false, err
	}
	return value, nil
}

func (p *FormPrompter) run(field huh.Field) error {
	form := huh.NewForm(huh.NewGroup(field)).
		WithTheme(huhTheme(p.cfg.Theme)).
		WithAccessible(p.cfg.Accessible)
	if p.cfg.Input != nil {
		form = form.WithInput(p.cfg.Input)
	}
	if p.cfg.Output != nil {
		form = form.WithOutput(p.cfg.Output)
	}

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return ErrAborted
		}
		return fmt.Errorf("prompt: %w", err)
	}
	return nil
}

func requireValue(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("a value is required")
	}
	return nil
}
