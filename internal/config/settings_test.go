// SPDX-License-Identifier: MPL-2.0

package config

import (
	"path/filepath"
	"slices"
	"testing"

	"github.com/palm-cli/palm/internal/testutil"
)

func TestLoadSettings(t *testing.T) {
	home := t.TempDir()
	t.Setenv("PALM_HOME", home)
	t.Setenv("PALM_TEST", "true")
	t.Setenv("PALM_PLUGIN_PATH", "/a:/b")

	s, err := LoadSettings()
	if err != nil {
		t.Fatalf("LoadSettings() error: %v", err)
	}
	if s.Home != home || !s.Test || s.Verbose {
		t.Errorf("unexpected settings %+v", s)
	}
	if s.GlobalConfigPath() != filepath.Join(home, "config.yaml") {
		t.Errorf("GlobalConfigPath() = %q", s.GlobalConfigPath())
	}
	want := []string{"/a", "/b", filepath.Join(home, "plugins")}
	if got := s.PluginDirs(); !slices.Equal(got, want) {
		t.Errorf("PluginDirs() = %v, want %v", got, want)
	}
}

func TestLoadSettings_DefaultHome(t *testing.T) {
	home := t.TempDir()
	t.Cleanup(testutil.SetHomeDir(t, home))
	t.Setenv("PALM_HOME", "")
	t.Setenv("PALM_PLUGIN_PATH", "")

	s, err := LoadSettings()
	if err != nil {
		t.Fatalf("LoadSettings() error: %v", err)
	}
	if s.Home != filepath.Join(home, ".palm") {
		t.Errorf("Home = %q", s.Home)
	}
	if len(s.PluginDirs()) != 1 {
		t.Errorf("PluginDirs() = %v", s.PluginDirs())
	}
}
