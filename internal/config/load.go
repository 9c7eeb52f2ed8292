// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"path/filepath"
	"slices"

	"github.com/palm-cli/palm/internal/issue"
	"github.com/palm-cli/palm/pkg/cueutil"

	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

const (
	// DirName is the per-project palm directory. It also backs the repo plugin.
	DirName = ".palm"
	// FileName is the config file name, both globally and per project.
	FileName = "config.yaml"

	// EnvPrefix prefixes environment overrides such as PALM_IMAGE_NAME.
	EnvPrefix = "PALM"

	defaultGlobalConfig = "plugins: []\nexcluded_commands: []\n"
)

// criticalKeys decide what is loaded and whether palm runs at all.
var criticalKeys = []string{"plugins", "protected_branches"}

//go:embed config_schema.cue
var configSchema []byte

type (
	// LoadOptions names the files to read.
	LoadOptions struct {
		GlobalPath string
		// ProjectRoot is empty outside a project.
		ProjectRoot string
	}

	// Loaded is the outcome of Provider.Load.
	Loaded struct {
		Config      *Config
		ProjectPath string
		// ProjectConfigMissing is set inside a project without .palm/config.yaml.
		ProjectConfigMissing bool
		// Warnings are non-fatal problems such as a config file that failed validation.
		Warnings []error
	}

	// Provider loads configuration.
	Provider interface {
		Load(ctx context.Context, opts LoadOptions) (*Loaded, error)
	}

	fileProvider struct {
		fs afero.Fs
	}
)

// NewProvider returns a Provider reading from fsys. A nil fsys means the OS filesystem.
func NewProvider(fsys afero.Fs) Provider {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	return &fileProvider{fs: fsys}
}

// ProjectConfigPath returns <root>/.palm/config.yaml.
func ProjectConfigPath(root string) string {
	return filepath.Join(root, DirName, FileName)
}

func (p *fileProvider) Load(ctx context.Context, opts LoadOptions) (*Loaded, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("load config canceled: %w", err)
	}

	out := &Loaded{}
	var global, project map[string]any

	if opts.GlobalPath != "" {
		if err := p.ensureGlobal(opts.GlobalPath); err != nil {
			return nil, err
		}
		m, err := p.readFile(opts.GlobalPath, out)
		if err != nil {
			return nil, err
		}
		global = m
	}

	if opts.ProjectRoot != "" {
		path := ProjectConfigPath(opts.ProjectRoot)
		out.ProjectPath = path
		switch ok, err := afero.Exists(p.fs, path); {
		case err != nil:
			return nil, fmt.Errorf("stat %s: %w", path, err)
		case !ok:
			out.ProjectConfigMissing = true
		default:
			m, err := p.readFile(path, out)
			if err != nil {
				return nil, err
			}
			project = m
		}
	}

	merged, warnings, err := sanitize(Merge(global, project), "")
	if err != nil {
		return nil, fatalConfig(err)
	}
	out.Warnings = append(out.Warnings, warnings...)

	cfg, err := decode(merged)
	if err != nil {
		return nil, err
	}
	if ok, errs := cfg.ContainerEngine.IsValid(); !ok {
		out.Warnings = append(out.Warnings, &InvalidConfigurationError{Err: errors.Join(errs...)})
		cfg.ContainerEngine = EngineDocker
	}
	out.Config = cfg
	return out, nil
}

func (p *fileProvider) ensureGlobal(path string) error {
	ok, err := afero.Exists(p.fs, path)
	if err != nil || ok {
		return err
	}
	if err := p.fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return issue.NewErrorContext().
			WithOperation("create global config").
			WithResource(filepath.Dir(path)).
			WithSuggestion("Set PALM_HOME to a writable directory").
			Wrap(err).
			BuildError()
	}
	if err := afero.WriteFile(p.fs, path, []byte(defaultGlobalConfig), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// readFile reads and validates one config file. Invalid keys are dropped with a
// warning on out. A file that cannot be parsed, or whose critical keys are
// invalid, is an error: the branch guard cannot be trusted without it.
func (p *fileProvider) readFile(path string, out *Loaded) (map[string]any, error) {
	m, err := p.readYAML(path)
	if err != nil {
		return nil, fatalConfig(err)
	}
	m, warnings, err := sanitize(m, path)
	if err != nil {
		return nil, fatalConfig(err)
	}
	out.Warnings = append(out.Warnings, warnings...)
	return m, nil
}

func fatalConfig(err error) error {
	return issue.NewErrorContext().
		WithOperation("load config").
		WithSuggestion("Fix the file: palm does not run while plugins or protected_branches are unreadable").
		Wrap(err).
		BuildError()
}

// readYAML parses one file through its own viper instance so keys from different
// files never mix before Merge.
func (p *fileProvider) readYAML(path string) (map[string]any, error) {
	data, err := afero.ReadFile(p.fs, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if err := cueutil.CheckFileSize(data, cueutil.DefaultMaxFileSize, path); err != nil {
		return nil, &InvalidConfigurationError{Path: path, Err: err}
	}

	v := viper.New()
	v.SetFs(p.fs)
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, &InvalidConfigurationError{Path: path, Err: err}
	}
	return v.AllSettings(), nil
}

func validate(m map[string]any, path string) error {
	if len(m) == 0 {
		return nil
	}
	name := path
	if name == "" {
		name = "merged config"
	}
	if _, err := cueutil.DecodeValue[map[string]any](configSchema, m, "#Config", cueutil.WithFilename(name)); err != nil {
		return &InvalidConfigurationError{Path: path, Err: err}
	}
	return nil
}

// sanitize validates m against #Config. When the document as a whole fails,
// each top-level key is checked alone: invalid keys are dropped and returned as
// warnings, except criticalKeys, which fail the load.
func sanitize(m map[string]any, path string) (map[string]any, []error, error) {
	if err := validate(m, path); err == nil {
		return m, nil, nil
	}

	kept := make(map[string]any, len(m))
	var warnings []error
	for _, key := range slices.Sorted(maps.Keys(m)) {
		err := validate(map[string]any{key: m[key]}, path)
		switch {
		case err == nil:
			kept[key] = m[key]
		case slices.Contains(criticalKeys, key):
			return nil, nil, err
		default:
			warnings = append(warnings, err)
		}
	}
	return kept, warnings, nil
}

// decode applies defaults and PALM_ environment overrides on top of m.
func decode(m map[string]any) (*Config, error) {
	def := DefaultConfig()

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetDefault("image_name", def.ImageName)
	v.SetDefault("container_engine", string(def.ContainerEngine))
	v.SetDefault("plugins", def.Plugins)
	v.SetDefault("protected_branches", def.ProtectedBranches)
	v.SetDefault("excluded_commands", def.ExcludedCommands)
	v.SetDefault("plugin_config", map[string]any{})

	if err := v.MergeConfigMap(m); err != nil {
		return nil, fmt.Errorf("merge config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, &InvalidConfigurationError{Err: err}
	}
	return &cfg, nil
}
