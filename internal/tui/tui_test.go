// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"errors"
	"testing"
)

func TestHuhTheme(t *testing.T) {
	t.Parallel()

	for _, theme := range []Theme{ThemeDefault, ThemeCharm, ThemeDracula, ThemeCatppuccin, ThemeBase16, "unknown"} {
		if huhTheme(theme) == nil {
			t.Errorf("huhTheme(%q) returned nil", theme)
		}
	}
}

func TestTheme_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		theme Theme
		want  bool
	}{
		{"", true},
		{ThemeDefault, true},
		{ThemeDracula, true},
		{ThemeBase16, true},
		{"neon", false},
	}

	for _, tt := range tests {
		ok, errs := tt.theme.IsValid()
		if ok != tt.want {
			t.Errorf("Theme(%q).IsValid() = %v, want %v", tt.theme, ok, tt.want)
		}
		if !ok && (len(errs) != 1 || !errors.Is(errs[0], ErrInvalidTheme)) {
			t.Errorf("Theme(%q).IsValid() errs = %v", tt.theme, errs)
		}
	}
}

func TestRequireValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		wantErr bool
	}{
		{"", true},
		{"   ", true},
		{"palm", false},
	}

	for _, tt := range tests {
		if err := requireValue(tt.in); (err != nil) != tt.wantErr {
			t.Errorf("requireValue(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
	}
}

func TestDefaultConfig_HasStreams(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Input == nil || cfg.Output == nil {
		t.Fatalf("DefaultConfig() streams not set: %+v", cfg)
	}
	if cfg.Theme != ThemeDefault {
		t.Errorf("Theme = %q", cfg.Theme)
	}
}
