// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"slices"
	"testing"
)

func TestResolver_PluginLoadOrder(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		plugins []string
		project Project
		want    []string
	}{
		{"outside project", []string{"x"}, Project{}, []string{"setup"}},
		{"no plugins", nil, Project{Root: "/p"}, []string{"core", "repo"}},
		{"ordered", []string{"b", "a"}, Project{Root: "/p"}, []string{"core", "b", "a", "repo"}},
		{"duplicates kept", []string{"a", "a"}, Project{Root: "/p"}, []string{"core", "a", "a", "repo"}},
		{"repo stays last", []string{"repo", "foo"}, Project{Root: "/p"}, []string{"core", "foo", "repo"}},
		{"core stays first", []string{"foo", "core"}, Project{Root: "/p"}, []string{"core", "foo", "repo"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := NewResolver(&Config{Plugins: tt.plugins}, tt.project)
			if got := r.PluginLoadOrder(); !slices.Equal(got, tt.want) {
				t.Errorf("PluginLoadOrder() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolver_CheckBranch(t *testing.T) {
	t.Parallel()

	cfg := &Config{ProtectedBranches: []string{"main", "release"}}

	err := NewResolver(cfg, Project{Root: "/p", Branch: "main"}).CheckBranch()
	if !errors.Is(err, ErrProtectedBranch) {
		t.Fatalf("CheckBranch() = %v, want ErrProtectedBranch", err)
	}
	want := "You are currently on protected branch main. For your safety palm will not run!"
	if err.Error() != want {
		t.Errorf("message = %q", err.Error())
	}

	for _, branch := range []string{"feature", ""} {
		if err := NewResolver(cfg, Project{Root: "/p", Branch: branch}).CheckBranch(); err != nil {
			t.Errorf("CheckBranch() on %q = %v", branch, err)
		}
	}
}

func TestResolver_ImageName(t *testing.T) {
	t.Parallel()

	if got := NewResolver(&Config{}, Project{Root: "/src/my-cool-app"}).ImageName(); got != "my_cool_app" {
		t.Errorf("derived ImageName = %q", got)
	}
	if got := NewResolver(&Config{ImageName: "explicit"}, Project{Root: "/src/x"}).ImageName(); got != "explicit" {
		t.Errorf("configured ImageName = %q", got)
	}
	if got := NewResolver(nil, Project{}).ImageName(); got != "" {
		t.Errorf("outside project ImageName = %q", got)
	}
}

func TestResolver_Accessors(t *testing.T) {
	t.Parallel()

	cfg := &Config{
		ExcludedCommands: []string{"lint"},
		PluginConfig:     map[string]map[string]any{"x": {"k": "v"}},
	}
	r := NewResolver(cfg, Project{Root: "/p"})

	ex := r.ExcludedCommands()
	ex[0] = "mutated"
	if r.ExcludedCommands()[0] != "lint" {
		t.Error("ExcludedCommands() exposed internal slice")
	}
	if r.ContainerEngine() != EngineDocker {
		t.Errorf("ContainerEngine() = %q", r.ContainerEngine())
	}
	if m, ok := r.PluginConfig("x"); !ok || m["k"] != "v" {
		t.Errorf("PluginConfig(x) = %v, %v", m, ok)
	}
	if _, ok := r.PluginConfig("y"); ok {
		t.Error("PluginConfig(y) should be absent")
	}
	if r.OverrideDir() != "/p/.palm" {
		t.Errorf("OverrideDir() = %q", r.OverrideDir())
	}
}
