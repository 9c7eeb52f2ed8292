// SPDX-License-Identifier: MPL-2.0

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
)

// Settings are process-level switches read from the environment.
type Settings struct {
	// Home holds the global config and installed plugins. Defaults to ~/.palm.
	Home string `env:"PALM_HOME"`
	// Test skips the container dependency check.
	Test bool `env:"PALM_TEST"`
	// Verbose enables debug logging.
	Verbose bool `env:"PALM_VERBOSE"`
	// Theme names the prompt theme (default, charm, dracula, catppuccin, base16).
	Theme string `env:"PALM_THEME"`
	// PluginPath lists extra directories searched for installed plugins.
	PluginPath []string `env:"PALM_PLUGIN_PATH" envSeparator:":"`
}

// LoadSettings parses Settings from the process environment.
func LoadSettings() (Settings, error) {
	var s Settings
	if err := env.Parse(&s); err != nil {
		return Settings{}, fmt.Errorf("parse environment: %w", err)
	}
	if s.Home == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Settings{}, fmt.Errorf("locate home directory: %w", err)
		}
		s.Home = filepath.Join(home, ".palm")
	}
	return s, nil
}

// GlobalConfigPath is the location of the user-wide config file.
func (s Settings) GlobalConfigPath() string {
	return filepath.Join(s.Home, "config.yaml")
}

// PluginDirs lists the directories holding installed plugins, most specific first.
func (s Settings) PluginDirs() []string {
	dirs := make([]string, 0, len(s.PluginPath)+1)
	for _, d := range s.PluginPath {
		if d != "" {
			dirs = append(dirs, d)
		}
	}
	return append(dirs, filepath.Join(s.Home, "plugins"))
}
