// SPDX-License-Identifier: MPL-2.0

package plugin

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"
	"unicode"

	"github.com/palm-cli/palm/internal/config"
	"github.com/palm-cli/palm/pkg/cmdfile"
	"github.com/palm-cli/palm/pkg/cueutil"
)

type (
	// Plugin is a named bundle of command files.
	Plugin struct {
		name         string
		dir          fs.FS
		location     string
		root         string
		version      string
		source       string
		description  string
		allowMissing bool
		configSchema []byte
	}

	// Option configures a Plugin.
	Option func(*Plugin)

	// Locator is a deferred reference to one command file. Nothing is read until
	// Read is called.
	Locator struct {
		Plugin  string
		Command cmdfile.Name
		// Path is the file name inside FS.
		Path string
		// Location is a human-readable path for messages.
		Location string
		FS       fs.FS
	}
)

// WithVersion records the plugin version.
func WithVersion(v string) Option { return func(p *Plugin) { p.version = v } }

// WithSource records where an installed plugin came from (usually a git URL).
func WithSource(s string) Option { return func(p *Plugin) { p.source = s } }

// WithDescription sets a one-line description.
func WithDescription(d string) Option { return func(p *Plugin) { p.description = d } }

// WithLocation sets the on-disk path of the command directory, used in messages and
// as the copy source for overrides.
func WithLocation(path string) Option { return func(p *Plugin) { p.location = path } }

// WithRoot sets the installation directory of the plugin.
func WithRoot(path string) Option { return func(p *Plugin) { p.root = path } }

// AllowMissing makes a missing command directory mean "no commands" instead of an error.
func AllowMissing() Option { return func(p *Plugin) { p.allowMissing = true } }

// WithConfigSchema attaches a CUE schema with a #Config definition that
// plugin_config.<name> must satisfy.
func WithConfigSchema(schema []byte) Option {
	return func(p *Plugin) { p.configSchema = slices.Clone(schema) }
}

// New returns a plugin whose commands live in dir.
func New(name string, dir fs.FS, opts ...Option) *Plugin {
	p := &Plugin{name: name, dir: dir, location: name}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns the plugin name used in the plugins list.
func (p *Plugin) Name() string { return p.name }

// Version returns the manifest version, or the palm version for built-ins.
func (p *Plugin) Version() string { return p.version }

// Source returns where the plugin came from: a git URL or "builtin".
func (p *Plugin) Source() string { return p.source }

// Description returns the manifest description.
func (p *Plugin) Description() string { return p.description }

// Root returns the installed plugin directory. It is empty for built-ins.
func (p *Plugin) Root() string { return p.root }

// Location returns the directory holding the command files, if on disk.
func (p *Plugin) Location() string { return p.location }

// Title is the group heading for the plugin's commands: "core" becomes "Core".
func (p *Plugin) Title() string {
	r := []rune(strings.ReplaceAll(p.name, "_", " "))
	if len(r) == 0 {
		return ""
	}
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// DiscoverCommands lists the command names in the plugin directory, sorted.
// Subdirectories and files that do not follow the cmd_<name>.cue convention are
// ignored.
func (p *Plugin) DiscoverCommands() ([]cmdfile.Name, error) {
	if p.dir == nil {
		return p.missing()
	}
	entries, err := fs.ReadDir(p.dir, ".")
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return p.missing()
		}
		return nil, fmt.Errorf("plugin %q: list %s: %w", p.name, p.location, err)
	}

	var names []cmdfile.Name
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if n, ok := cmdfile.ParseFileName(e.Name()); ok {
			names = append(names, n)
		}
	}
	return names, nil
}

func (p *Plugin) missing() ([]cmdfile.Name, error) {
	if p.allowMissing {
		return nil, nil
	}
	return nil, &DirectoryNotFoundError{Plugin: p.name, Path: p.location}
}

// CommandMap maps each discovered command to this plugin's name.
func (p *Plugin) CommandMap() (map[cmdfile.Name]string, error) {
	names, err := p.DiscoverCommands()
	if err != nil {
		return nil, err
	}
	m := make(map[cmdfile.Name]string, len(names))
	for _, n := range names {
		m[n] = p.name
	}
	return m, nil
}

// Resolve returns a Locator for the command. It fails with CommandNotFoundError when
// the file no longer exists.
func (p *Plugin) Resolve(name cmdfile.Name) (Locator, error) {
	file := cmdfile.FileName(name)
	if p.dir == nil {
		return Locator{}, &CommandNotFoundError{Name: name, Plugin: p.name}
	}
	info, err := fs.Stat(p.dir, file)
	if err != nil || info.IsDir() {
		return Locator{}, &CommandNotFoundError{Name: name, Plugin: p.name}
	}
	return Locator{
		Plugin:   p.name,
		Command:  name,
		Path:     file,
		Location: filepath.Join(p.location, file),
		FS:       p.dir,
	}, nil
}

// ReadCommand returns the raw command file.
func (p *Plugin) ReadCommand(name cmdfile.Name) ([]byte, error) {
	loc, err := p.Resolve(name)
	if err != nil {
		return nil, err
	}
	return loc.Read()
}

// HasConfigSchema reports whether the plugin declares a configuration schema.
func (p *Plugin) HasConfigSchema() bool { return len(p.configSchema) > 0 }

// Config validates values (the plugin_config.<name> section) against the plugin's
// schema and returns them with schema defaults filled in. A nil values map or a
// validation failure yields NotConfiguredError.
func (p *Plugin) Config(values map[string]any) (map[string]any, error) {
	if values == nil {
		return nil, &NotConfiguredError{Plugin: p.name}
	}
	if !p.HasConfigSchema() {
		return values, nil
	}
	res, err := cueutil.DecodeValue[map[string]any](p.configSchema, values, "#Config",
		cueutil.WithFilename("plugin_config."+p.name))
	if err != nil {
		return nil, &NotConfiguredError{
			Plugin: p.name,
			Err:    &config.InvalidConfigurationError{Err: err},
		}
	}
	return *res.Value, nil
}

// Read loads the command file.
func (l Locator) Read() ([]byte, error) {
	data, err := fs.ReadFile(l.FS, l.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &CommandNotFoundError{Name: l.Command, Plugin: l.Plugin}
		}
		return nil, fmt.Errorf("read %s: %w", l.Location, err)
	}
	return data, nil
}
