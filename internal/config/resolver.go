// SPDX-License-Identifier: MPL-2.0

package config

import (
	"path/filepath"
	"slices"
	"strings"
)

const (
	// CorePlugin is always loaded first inside a project.
	CorePlugin = "core"
	// RepoPlugin is backed by <root>/.palm and always loaded last.
	RepoPlugin = "repo"
	// SetupPlugin is the only plugin loaded outside a project.
	SetupPlugin = "setup"
)

type (
	// Project describes the repository palm runs in. The zero value means
	// "outside any project".
	Project struct {
		Root   string
		Branch string
	}

	// Resolver derives the plugin load order and policy checks from a Config.
	Resolver struct {
		cfg     *Config
		project Project
	}
)

// NewResolver returns a Resolver. A nil cfg behaves like DefaultConfig.
func NewResolver(cfg *Config, project Project) *Resolver {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Resolver{cfg: cfg, project: project}
}

// InProject reports whether palm runs inside a project.
func (r *Resolver) InProject() bool { return r.project.Root != "" }

// ProjectRoot returns the project root, or "" outside a project.
func (r *Resolver) ProjectRoot() string { return r.project.Root }

// OverrideDir is the directory backing the repo plugin.
func (r *Resolver) OverrideDir() string {
	if !r.InProject() {
		return ""
	}
	return filepath.Join(r.project.Root, DirName)
}

// PluginLoadOrder returns ["core", <configured plugins...>, "repo"] inside a project
// and ["setup"] outside one. Configured names are kept as written, duplicates
// included, except core and repo, whose positions are fixed.
func (r *Resolver) PluginLoadOrder() []string {
	if !r.InProject() {
		return []string{SetupPlugin}
	}
	order := make([]string, 0, len(r.cfg.Plugins)+2)
	order = append(order, CorePlugin)
	for _, name := range r.cfg.Plugins {
		if name != CorePlugin && name != RepoPlugin {
			order = append(order, name)
		}
	}
	return append(order, RepoPlugin)
}

// ProtectedBranches returns the configured protected branch names.
func (r *Resolver) ProtectedBranches() []string {
	return slices.Clone(r.cfg.ProtectedBranches)
}

// CurrentBranch returns the checked-out branch, or "" when unknown or detached.
func (r *Resolver) CurrentBranch() string { return r.project.Branch }

// CheckBranch fails with ProtectedBranchError when the current branch is protected.
func (r *Resolver) CheckBranch() error {
	b := r.CurrentBranch()
	if b == "" {
		return nil
	}
	if slices.Contains(r.cfg.ProtectedBranches, b) {
		return &ProtectedBranchError{Branch: b}
	}
	return nil
}

// ExcludedCommands returns command names hidden from listings.
func (r *Resolver) ExcludedCommands() []string {
	return slices.Clone(r.cfg.ExcludedCommands)
}

// ImageName is the compose service commands run in. Without a configured name it is
// derived from the project directory: "my-app" becomes "my_app".
func (r *Resolver) ImageName() string {
	if r.cfg.ImageName != "" {
		return r.cfg.ImageName
	}
	if !r.InProject() {
		return ""
	}
	return strings.ReplaceAll(filepath.Base(r.project.Root), "-", "_")
}

// ContainerEngine returns the configured engine.
func (r *Resolver) ContainerEngine() ContainerEngine {
	if r.cfg.ContainerEngine == "" {
		return EngineDocker
	}
	return r.cfg.ContainerEngine
}

// PluginConfig returns the raw plugin_config.<name> section.
func (r *Resolver) PluginConfig(name string) (map[string]any, bool) {
	m, ok := r.cfg.PluginConfig[name]
	return m, ok
}

// Config returns the underlying configuration.
func (r *Resolver) Config() *Config { return r.cfg }
