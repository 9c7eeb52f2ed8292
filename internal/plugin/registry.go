// SPDX-License-Identifier: MPL-2.0

package plugin

import (
	"context"
	"io"
	"maps"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/palm-cli/palm/pkg/cmdfile"
)

type (
	// Registry holds the loaded plugins and the merged command namespace.
	Registry struct {
		source   Source
		logger   *log.Logger
		plugins  map[string]*Plugin
		order    []string
		commands map[cmdfile.Name]string
	}

	// RegistryOption configures a Registry.
	RegistryOption func(*Registry)
)

// WithLogger sets the logger used for debug output.
func WithLogger(l *log.Logger) RegistryOption {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRegistry returns an empty registry resolving plugin names through src.
func NewRegistry(src Source, opts ...RegistryOption) *Registry {
	r := &Registry{
		source:   src,
		logger:   log.New(io.Discard),
		plugins:  make(map[string]*Plugin),
		commands: make(map[cmdfile.Name]string),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Load loads names in order. The first failure aborts the load.
func (r *Registry) Load(ctx context.Context, names []string) error {
	for _, name := range names {
		if _, err := r.LoadOne(ctx, name); err != nil {
			return err
		}
	}
	return nil
}

// LoadOne loads a plugin and merges its commands over the existing map. Loading a
// name that is already loaded returns the stored plugin and leaves the map alone,
// so [a, b, a] yields the same namespace as [a, b].
func (r *Registry) LoadOne(ctx context.Context, name string) (*Plugin, error) {
	if p, ok := r.plugins[name]; ok {
		r.logger.Debug("plugin already loaded", "plugin", name)
		return p, nil
	}

	p, err := r.source.Lookup(ctx, name)
	if err != nil {
		return nil, err
	}
	cmds, err := p.CommandMap()
	if err != nil {
		return nil, err
	}

	r.plugins[name] = p
	r.order = append(r.order, name)
	for cmd, owner := range cmds {
		if prev, ok := r.commands[cmd]; ok && prev != owner {
			r.logger.Debug("command overridden", "command", cmd, "from", prev, "to", owner)
		}
		r.commands[cmd] = owner
	}
	r.logger.Debug("plugin loaded", "plugin", name, "commands", len(cmds))
	return p, nil
}

// IsCommand reports whether any loaded plugin provides name.
func (r *Registry) IsCommand(name cmdfile.Name) bool {
	_, ok := r.commands[name]
	return ok
}

// Resolve returns a Locator for the command from its owning plugin.
func (r *Registry) Resolve(name cmdfile.Name) (Locator, error) {
	owner, ok := r.commands[name]
	if !ok {
		return Locator{}, &CommandNotFoundError{Name: name}
	}
	return r.plugins[owner].Resolve(name)
}

// AllCommandNames returns every command name once, sorted.
func (r *Registry) AllCommandNames() []cmdfile.Name {
	return slices.Sorted(maps.Keys(r.commands))
}

// Owner returns the plugin a command resolves to.
func (r *Registry) Owner(name cmdfile.Name) (string, bool) {
	owner, ok := r.commands[name]
	return owner, ok
}

// CommandMap returns a copy of the merged command map.
func (r *Registry) CommandMap() map[cmdfile.Name]string {
	return maps.Clone(r.commands)
}

// Plugins returns the loaded plugins in load order.
func (r *Registry) Plugins() []*Plugin {
	out := make([]*Plugin, len(r.order))
	for i, name := range r.order {
		out[i] = r.plugins[name]
	}
	return out
}

// Plugin returns a loaded plugin by name.
func (r *Registry) Plugin(name string) (*Plugin, bool) {
	p, ok := r.plugins[name]
	return p, ok
}
