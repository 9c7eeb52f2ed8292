// SPDX-License-Identifier: MPL-2.0

package plugin

import (
	"bytes"
	"fmt"
	"regexp"

	"github.com/pelletier/go-toml/v2"
)

const (
	// ManifestFile describes an installed plugin.
	ManifestFile = "plugin.toml"
	// ConfigSchemaFile optionally holds the plugin's #Config schema.
	ConfigSchemaFile = "config.cue"

	defaultCommandsDir = "commands"
)

var namePattern = regexp.MustCompile(`^[a-z][a-z0-9_-]*$`)

// Manifest is the decoded plugin.toml of an installed plugin.
//
//	name = "example"
//	version = "0.3.1"
//	description = "Example commands"
//	source = "https://github.com/acme/palm-example.git"
//	commands = "commands"
type Manifest struct {
	Name        string `toml:"name"`
	Version     string `toml:"version"`
	Description string `toml:"description,omitempty"`
	Source      string `toml:"source,omitempty"`
	// Commands is the command directory relative to the plugin root.
	Commands string `toml:"commands,omitempty"`
}

// ParseManifest decodes and validates plugin.toml content.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("parse %s: %w", ManifestFile, err)
	}
	if !namePattern.MatchString(m.Name) {
		return nil, fmt.Errorf("%s: invalid plugin name %q", ManifestFile, m.Name)
	}
	if m.Commands == "" {
		m.Commands = defaultCommandsDir
	}
	return &m, nil
}

// Encode renders the manifest as TOML.
func (m *Manifest) Encode() ([]byte, error) {
	out, err := toml.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", ManifestFile, err)
	}
	return out, nil
}

// IsValidName reports whether name can be used as a plugin name.
func IsValidName(name string) bool { return namePattern.MatchString(name) }
