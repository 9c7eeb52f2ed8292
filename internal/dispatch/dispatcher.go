// SPDX-License-Identifier: MPL-2.0

package dispatch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/palm-cli/palm/internal/plugin"
	"github.com/palm-cli/palm/internal/tui"
	"github.com/palm-cli/palm/pkg/cmdfile"
)

// NotFoundMessage is printed for names no loaded plugin provides.
const NotFoundMessage = "Command not found, check spelling!"

type (
	// Dispatcher resolves and runs commands.
	Dispatcher struct {
		registry *plugin.Registry
		loader   *Loader
		excluded map[cmdfile.Name]bool
		stderr   io.Writer
		logger   *log.Logger
	}

	// Group is the visible commands of one plugin.
	Group struct {
		// ID is the plugin name.
		ID       string
		Title    string
		Commands []cmdfile.Name
	}

	// Option configures a Dispatcher.
	Option func(*Dispatcher)
)

// WithExcluded hides names from listings. Excluded commands stay invokable.
func WithExcluded(names []string) Option {
	return func(d *Dispatcher) {
		for _, n := range names {
			d.excluded[cmdfile.Name(n)] = true
		}
	}
}

// WithStderr sets where not-found and import messages go.
func WithStderr(w io.Writer) Option {
	return func(d *Dispatcher) { d.stderr = w }
}

// WithLogger sets the debug logger.
func WithLogger(l *log.Logger) Option {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

// New returns a Dispatcher over a loaded registry.
func New(registry *plugin.Registry, loader *Loader, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		registry: registry,
		loader:   loader,
		excluded: make(map[cmdfile.Name]bool),
		stderr:   io.Discard,
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// IsExcluded reports whether name is hidden by configuration.
func (d *Dispatcher) IsExcluded(name cmdfile.Name) bool { return d.excluded[name] }

// ListVisibleCommands returns every command name minus the exclusions, sorted.
func (d *Dispatcher) ListVisibleCommands() []cmdfile.Name {
	all := d.registry.AllCommandNames()
	return slices.DeleteFunc(all, d.IsExcluded)
}

// Groups returns the visible commands grouped by owning plugin, in plugin load order.
func (d *Dispatcher) Groups() []Group {
	byOwner := make(map[string][]cmdfile.Name)
	for _, name := range d.ListVisibleCommands() {
		owner, _ := d.registry.Owner(name)
		byOwner[owner] = append(byOwner[owner], name)
	}

	var groups []Group
	for _, p := range d.registry.Plugins() {
		names := byOwner[p.Name()]
		if len(names) == 0 {
			continue
		}
		groups = append(groups, Group{ID: p.Name(), Title: p.Title(), Commands: names})
	}
	return groups
}

// Load resolves and parses name without running it.
func (d *Dispatcher) Load(name cmdfile.Name) (*Executable, error) {
	loc, err := d.registry.Resolve(name)
	if err != nil {
		return nil, err
	}
	d.logger.Debug("resolved command", "command", name, "plugin", loc.Plugin, "path", loc.Location)
	return d.loader.Load(loc)
}

// Invoke runs name with args and returns its exit status. Unknown names and
// broken command files are reported on stderr and yield a non-zero status with
// an error for which IsReported is true.
func (d *Dispatcher) Invoke(ctx context.Context, name string, args []string) (int, error) {
	exe, err := d.Load(cmdfile.Name(name))
	switch {
	case errors.Is(err, plugin.ErrCommandNotFound):
		fmt.Fprintln(d.stderr, tui.ErrorStyle.Render(NotFoundMessage))
		return 1, reported(err)
	case err != nil:
		var importErr *ImportError
		detail := err.Error()
		if errors.As(err, &importErr) {
			detail = importErr.Err.Error()
		}
		fmt.Fprintln(d.stderr, tui.ErrorStyle.Render("Import error: "+detail))
		return 1, reported(err)
	}

	if exe.runtime != nil {
		d.logger.Debug("running script", "command", name, "runtime", exe.runtime.Name())
	} else {
		d.logger.Debug("running action", "command", name, "action", exe.Command.Action)
	}
	return exe.Run(ctx, args)
}
