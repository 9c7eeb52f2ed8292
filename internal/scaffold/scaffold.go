// SPDX-License-Identifier: MPL-2.0

package scaffold

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"text/template"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"
)

// Template sets shipped with palm.
const (
	SetCommand      = "command"
	SetConfig       = "config"
	SetPlugin       = "plugin"
	SetContainerize = "containerize"

	manifestFile = "template.toml"
)

var (
	//go:embed templates
	templatesFS embed.FS

	// ErrUnknownSet is returned for a template set that does not exist.
	ErrUnknownSet = errors.New("unknown template set")
)

type (
	// FileSpec maps one template to its destination.
	FileSpec struct {
		Template    string `toml:"template"`
		Destination string `toml:"destination"`
		Executable  bool   `toml:"executable"`
	}

	// SetManifest is the decoded template.toml of a set.
	SetManifest struct {
		Directories []string   `toml:"directories"`
		Files       []FileSpec `toml:"files"`
	}

	// Report lists what a generation run wrote, relative to the target.
	Report struct {
		Created     []string
		Overwritten []string
		Skipped     []string
	}

	// Generator renders template sets onto fs.
	Generator struct {
		fs        afero.Fs
		templates fs.FS
	}

	// GenerateOption configures one Generate call.
	GenerateOption func(*generateOptions)

	generateOptions struct {
		force bool
	}
)

// Force overwrites existing files instead of skipping them.
func Force(force bool) GenerateOption {
	return func(o *generateOptions) { o.force = force }
}

// NewGenerator returns a Generator writing to fsys with the built-in sets.
func NewGenerator(fsys afero.Fs) *Generator {
	sub, err := fs.Sub(templatesFS, "templates")
	if err != nil {
		panic(err) // embedded directory always exists
	}
	return &Generator{fs: fsys, templates: sub}
}

// Sets returns the names of the available template sets.
func (g *Generator) Sets() ([]string, error) {
	entries, err := fs.ReadDir(g.templates, ".")
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// Manifest reads the template.toml of set.
func (g *Generator) Manifest(set string) (*SetManifest, error) {
	data, err := fs.ReadFile(g.templates, path.Join(set, manifestFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownSet, set)
		}
		return nil, err
	}
	var m SetManifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%s/%s: %w", set, manifestFile, err)
	}
	return &m, nil
}

// Generate renders set into target with data. Existing files are skipped
// unless Force(true) is given.
func (g *Generator) Generate(set, target string, data any, opts ...GenerateOption) (*Report, error) {
	var o generateOptions
	for _, opt := range opts {
		opt(&o)
	}

	m, err := g.Manifest(set)
	if err != nil {
		return nil, err
	}

	for _, d := range m.Directories {
		rel, err := renderString(d, data)
		if err != nil {
			return nil, fmt.Errorf("directory %q: %w", d, err)
		}
		if err := g.fs.MkdirAll(filepath.Join(target, filepath.FromSlash(rel)), 0o755); err != nil {
			return nil, err
		}
	}

	report := &Report{}
	for _, f := range m.Files {
		if err := g.renderFile(set, target, f, data, o, report); err != nil {
			return report, err
		}
	}
	return report, nil
}

func (g *Generator) renderFile(set, target string, f FileSpec, data any, o generateOptions, report *Report) error {
	rel, err := renderString(f.Destination, data)
	if err != nil {
		return fmt.Errorf("destination %q: %w", f.Destination, err)
	}
	dest := filepath.Join(target, filepath.FromSlash(rel))

	exists, err := afero.Exists(g.fs, dest)
	if err != nil {
		return err
	}
	if exists && !o.force {
		report.Skipped = append(report.Skipped, rel)
		return nil
	}

	src, err := fs.ReadFile(g.templates, path.Join(set, f.Template))
	if err != nil {
		return err
	}
	tmpl, err := template.New(f.Template).Funcs(funcs).Parse(string(src))
	if err != nil {
		return fmt.Errorf("parse %s: %w", f.Template, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("render %s: %w", f.Template, err)
	}

	if err := g.fs.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	mode := fs.FileMode(0o644)
	if f.Executable {
		mode = 0o755
	}
	if err := afero.WriteFile(g.fs, dest, buf.Bytes(), mode); err != nil {
		return err
	}
	// WriteFile keeps the mode of a file it overwrites.
	if f.Executable {
		if err := g.fs.Chmod(dest, mode); err != nil {
			return err
		}
	}

	if exists {
		report.Overwritten = append(report.Overwritten, rel)
	} else {
		report.Created = append(report.Created, rel)
	}
	return nil
}

var funcs = template.FuncMap{
	"quote": strconv.Quote,
	"snake": Snake,
	"title": Title,
}

func renderString(s string, data any) (string, error) {
	if !strings.Contains(s, "{{") {
		return s, nil
	}
	tmpl, err := template.New("path").Funcs(funcs).Parse(s)
	if err != nil {
		return "", err
	}
	var buf strings.Builder
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Snake lowercases s and replaces dashes and spaces with underscores.
func Snake(s string) string {
	return strings.NewReplacer("-", "_", " ", "_").Replace(strings.ToLower(s))
}

// Title turns "my_plugin" into "My plugin".
func Title(s string) string {
	s = strings.NewReplacer("_", " ", "-", " ").Replace(s)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
