// SPDX-License-Identifier: MPL-2.0

package plugin

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeInstalled(t *testing.T, dir, name, manifest string, cmds ...string) string {
	t.Helper()

	root := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Join(root, "commands"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, ManifestFile), []byte(manifest), 0o644); err != nil {
		t.Fatal(err)
	}
	for _, c := range cmds {
		if err := os.WriteFile(filepath.Join(root, "commands", "cmd_"+c+".cue"), []byte(`script: "true"`), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func TestBuiltinSource(t *testing.T) {
	t.Parallel()

	p, err := BuiltinSource{Version: "1.2.3"}.Lookup(context.Background(), "core")
	if err != nil {
		t.Fatalf("Lookup(core) error: %v", err)
	}
	if p.Version() != "1.2.3" {
		t.Errorf("Version() = %q", p.Version())
	}
	names, err := p.DiscoverCommands()
	if err != nil || len(names) == 0 {
		t.Errorf("core commands = %v, %v", names, err)
	}

	if _, err := (BuiltinSource{}).Lookup(context.Background(), "nope"); !errors.Is(err, ErrPluginNotFound) {
		t.Errorf("Lookup(nope) error = %v", err)
	}
}

func TestInstalledSource(t *testing.T) {
	t.Parallel()

	first, second := t.TempDir(), t.TempDir()
	writeInstalled(t, first, "deploy", "name = \"deploy\"\nversion = \"2.0.0\"\n", "ship")
	writeInstalled(t, second, "deploy", "name = \"deploy\"\nversion = \"1.0.0\"\n", "ship")
	root := writeInstalled(t, second, "aws", "name = \"aws\"\nversion = \"0.1.0\"\nsource = \"https://example.com/aws.git\"\n", "login")
	if err := os.WriteFile(filepath.Join(root, ConfigSchemaFile), []byte("#Config: region: string\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	src := InstalledSource{Dirs: []string{first, second}}

	p, err := src.Lookup(context.Background(), "deploy")
	if err != nil {
		t.Fatalf("Lookup(deploy) error: %v", err)
	}
	if p.Version() != "2.0.0" {
		t.Errorf("earlier directory should shadow later: version %q", p.Version())
	}

	aws, err := src.Lookup(context.Background(), "aws")
	if err != nil {
		t.Fatalf("Lookup(aws) error: %v", err)
	}
	if !aws.HasConfigSchema() || aws.Source() != "https://example.com/aws.git" || aws.Root() != root {
		t.Errorf("aws plugin = %+v", aws)
	}
	if _, err := aws.Resolve("login"); err != nil {
		t.Errorf("Resolve(login) error: %v", err)
	}

	if _, err := src.Lookup(context.Background(), "missing"); !errors.Is(err, ErrPluginNotFound) {
		t.Errorf("Lookup(missing) error = %v", err)
	}
	if _, err := src.Lookup(context.Background(), "../escape"); !errors.Is(err, ErrPluginNotFound) {
		t.Errorf("Lookup(../escape) error = %v", err)
	}

	all, err := src.Installed()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Errorf("Installed() returned %d plugins, want 2", len(all))
	}
}

func TestInstalledSource_NameMismatch(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeInstalled(t, dir, "foo", "name = \"bar\"\n")

	_, err := InstalledSource{Dirs: []string{dir}}.Lookup(context.Background(), "foo")
	if err == nil || errors.Is(err, ErrPluginNotFound) {
		t.Errorf("Lookup() error = %v, want a manifest mismatch error", err)
	}
}

func TestRepoSource(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), ".palm")
	p, err := RepoSource{Dir: dir}.Lookup(context.Background(), "repo")
	if err != nil {
		t.Fatalf("Lookup(repo) error: %v", err)
	}
	names, err := p.DiscoverCommands()
	if err != nil || len(names) != 0 {
		t.Errorf("missing .palm should give no commands: %v, %v", names, err)
	}

	if _, err := (RepoSource{}).Lookup(context.Background(), "repo"); !errors.Is(err, ErrPluginNotFound) {
		t.Errorf("RepoSource without dir should not provide repo: %v", err)
	}
}

func TestChain(t *testing.T) {
	t.Parallel()

	chain := Chain{BuiltinSource{}, RepoSource{Dir: t.TempDir()}}

	if p, err := chain.Lookup(context.Background(), "repo"); err != nil || p.Name() != "repo" {
		t.Errorf("Lookup(repo) = %v, %v", p, err)
	}
	if p, err := chain.Lookup(context.Background(), "core"); err != nil || p.Name() != "core" {
		t.Errorf("Lookup(core) = %v, %v", p, err)
	}

	broken := SourceFunc(func(context.Context, string) (*Plugin, error) { return nil, errors.New("disk on fire") })
	if _, err := (Chain{broken, BuiltinSource{}}).Lookup(context.Background(), "core"); err == nil || errors.Is(err, ErrPluginNotFound) {
		t.Errorf("a hard error must stop the chain, got %v", err)
	}
}
