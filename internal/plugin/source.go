// SPDX-License-Identifier: MPL-2.0

package plugin

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/palm-cli/palm/internal/builtin"
	"github.com/palm-cli/palm/internal/config"
)

type (
	// Source resolves a plugin name. It returns PluginNotFoundError when it does not
	// provide the name.
	Source interface {
		Lookup(ctx context.Context, name string) (*Plugin, error)
	}

	// SourceFunc adapts a function to Source.
	SourceFunc func(ctx context.Context, name string) (*Plugin, error)

	// Chain asks each Source in turn and returns the first hit.
	Chain []Source

	// BuiltinSource provides the plugins compiled into palm.
	BuiltinSource struct {
		Version string
	}

	// InstalledSource provides plugins installed as <dir>/<name>/plugin.toml.
	InstalledSource struct {
		Dirs []string
	}

	// RepoSource provides the repo plugin backed by the project's .palm directory.
	RepoSource struct {
		Dir string
	}
)

func (f SourceFunc) Lookup(ctx context.Context, name string) (*Plugin, error) { return f(ctx, name) }

func (c Chain) Lookup(ctx context.Context, name string) (*Plugin, error) {
	for _, s := range c {
		p, err := s.Lookup(ctx, name)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, ErrPluginNotFound) {
			return nil, err
		}
	}
	return nil, &PluginNotFoundError{Name: name}
}

func (b BuiltinSource) Lookup(_ context.Context, name string) (*Plugin, error) {
	dir, ok := builtin.FS(name)
	if !ok {
		return nil, &PluginNotFoundError{Name: name}
	}
	return New(name, dir, WithVersion(b.Version), WithSource("builtin")), nil
}

func (s InstalledSource) Lookup(ctx context.Context, name string) (*Plugin, error) {
	if !IsValidName(name) {
		return nil, &PluginNotFoundError{Name: name}
	}
	for _, dir := range s.Dirs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		root := filepath.Join(dir, name)
		p, err := LoadInstalled(root)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if p.Name() != name {
			return nil, fmt.Errorf("%s declares plugin %q, expected %q", filepath.Join(root, ManifestFile), p.Name(), name)
		}
		return p, nil
	}
	return nil, &PluginNotFoundError{Name: name}
}

// Installed lists every plugin found under the source directories. Earlier
// directories shadow later ones.
func (s InstalledSource) Installed() ([]*Plugin, error) {
	seen := make(map[string]bool)
	var out []*Plugin
	for _, dir := range s.Dirs {
		entries, err := os.ReadDir(dir)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", dir, err)
		}
		for _, e := range entries {
			if !e.IsDir() || seen[e.Name()] {
				continue
			}
			p, err := LoadInstalled(filepath.Join(dir, e.Name()))
			if err != nil {
				continue
			}
			seen[e.Name()] = true
			out = append(out, p)
		}
	}
	return out, nil
}

// LoadInstalled reads the plugin installed at root. It returns an error wrapping
// fs.ErrNotExist when root has no manifest.
func LoadInstalled(root string) (*Plugin, error) {
	data, err := os.ReadFile(filepath.Join(root, ManifestFile))
	if err != nil {
		return nil, err
	}
	m, err := ParseManifest(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", root, err)
	}

	cmdDir := filepath.Join(root, filepath.FromSlash(m.Commands))
	opts := []Option{
		WithVersion(m.Version),
		WithSource(m.Source),
		WithDescription(m.Description),
		WithLocation(cmdDir),
		WithRoot(root),
	}
	schema, err := os.ReadFile(filepath.Join(root, ConfigSchemaFile))
	switch {
	case err == nil:
		opts = append(opts, WithConfigSchema(schema))
	case !errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("read %s: %w", ConfigSchemaFile, err)
	}
	return New(m.Name, os.DirFS(cmdDir), opts...), nil
}

func (r RepoSource) Lookup(_ context.Context, name string) (*Plugin, error) {
	if name != config.RepoPlugin || r.Dir == "" {
		return nil, &PluginNotFoundError{Name: name}
	}
	return New(config.RepoPlugin, os.DirFS(r.Dir), AllowMissing(), WithLocation(r.Dir), WithRoot(r.Dir)), nil
}
