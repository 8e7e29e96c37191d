// Package config provides the configuration loader for rebund.
package config

import (
	"errors"
	"fmt"
	"maps"
	"path/filepath"
	"slices"

	"go.trai.ch/rebund/internal/core/domain"
	"go.trai.ch/rebund/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// DefaultEntry is the entry of a project without a config file.
const DefaultEntry = "src/index.*"

// SupportedVersion is the only config file version understood by the loader.
const SupportedVersion = "1"

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
	FS     ports.FileSystem
}

// NewLoader creates a new Loader reading through fsys.
func NewLoader(logger ports.Logger, fsys ports.FileSystem) *Loader {
	return &Loader{Logger: logger, FS: fsys}
}

// Load reads root/rebund.yaml. Keys the file leaves out keep their defaults.
func (l *Loader) Load(root string) (*domain.BuildConfig, error) {
	configPath := filepath.Join(root, domain.ConfigFileName)
	if !l.FS.IsFile(configPath) {
		cfg := domain.NewDefaultConfig(root, DefaultEntry)
		cfg.ConfigPath = configPath
		return cfg, nil
	}

	var file Rebundfile
	if err := l.readAndUnmarshalYAML(configPath, &file); err != nil {
		return nil, err
	}
	for _, key := range slices.Sorted(maps.Keys(file.Extra)) {
		l.Logger.Warn(fmt.Sprintf("unknown key %q in %s is ignored", key, domain.ConfigFileName))
	}

	cfg, err := buildConfig(root, &file)
	if err != nil {
		return nil, zerr.With(err, "file", configPath)
	}
	cfg.ConfigPath = configPath
	return cfg, nil
}

// DiscoverRoot walks up from cwd to the first directory holding rebund.yaml.
func (l *Loader) DiscoverRoot(cwd string) (string, error) {
	abs, err := filepath.Abs(cwd)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to resolve working directory"), "cwd", cwd)
	}
	for dir := abs; ; {
		if l.FS.IsFile(filepath.Join(dir, domain.ConfigFileName)) {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			return abs, nil
		}
		dir = parent
	}
}

func (l *Loader) readAndUnmarshalYAML(configPath string, target *Rebundfile) error {
	data, err := l.FS.ReadFile(configPath)
	if err != nil {
		return zerr.With(errors.Join(domain.ErrConfigReadFailed, err), "file", configPath)
	}
	if err := yaml.Unmarshal(data, target); err != nil {
		return zerr.With(errors.Join(domain.ErrConfigParseFailed, err), "file", configPath)
	}
	return nil
}

//nolint:cyclop // one branch per config section
func buildConfig(root string, file *Rebundfile) (*domain.BuildConfig, error) {
	if file.Version != "" && file.Version != SupportedVersion {
		return nil, zerr.With(zerr.Wrap(domain.ErrInvalidConfigVersion, ""), "version", file.Version)
	}
	if len(file.Entries) == 0 {
		return nil, domain.ErrMissingEntries
	}

	cfg := domain.NewDefaultConfig(root, file.Entries...)
	if file.Dist != "" {
		cfg.DistDir = file.Dist
	}

	if file.GlobSyntax != "" {
		if file.GlobSyntax != domain.GlobDoublestar && file.GlobSyntax != domain.GlobGobwas {
			return nil, zerr.With(zerr.Wrap(domain.ErrInvalidGlobSyntax, ""), "globSyntax", file.GlobSyntax)
		}
		cfg.GlobSyntax = file.GlobSyntax
	}

	var err error
	if file.Resolver != nil {
		if cfg.Resolver, err = file.Resolver.toDomain("resolver"); err != nil {
			return nil, err
		}
	}
	if file.Bundler != nil {
		if cfg.Bundler, err = file.Bundler.toDomain("bundler"); err != nil {
			return nil, err
		}
	}
	if len(file.Namers) > 0 {
		if cfg.Namers, err = pluginList("namers", file.Namers); err != nil {
			return nil, err
		}
	}
	if file.Runtimes != nil {
		if cfg.Runtimes, err = pluginList("runtimes", *file.Runtimes); err != nil {
			return nil, err
		}
	}

	if len(file.Transformers) > 0 {
		rules, err := transformerRules(file.Transformers)
		if err != nil {
			return nil, err
		}
		// Configured rules take precedence over the built-in ones.
		cfg.Transformers = append(rules, cfg.Transformers...)
	}

	if len(file.Targets) > 0 {
		cfg.Targets = make([]domain.Target, 0, len(file.Targets))
		for i, t := range file.Targets {
			if t.Name == "" {
				return nil, zerr.With(zerr.New("target requires a name"), "index", i)
			}
			format := t.Format
			if format == "" {
				format = domain.DefaultTargetFormat
			}
			cfg.Targets = append(cfg.Targets, domain.Target{
				Name:    t.Name,
				Format:  format,
				DistDir: t.Dist,
				Options: options(t.Options),
			})
		}
	}

	if file.Cache != nil {
		switch file.Cache.Backend {
		case "":
		case domain.CacheBackendFS, domain.CacheBackendSQLite, domain.CacheBackendMemory:
			cfg.Cache.Backend = file.Cache.Backend
		default:
			return nil, zerr.With(zerr.Wrap(domain.ErrInvalidCacheBackend, ""), "backend", file.Cache.Backend)
		}
		if file.Cache.Dir != "" {
			cfg.Cache.Dir = file.Cache.Dir
		}
		if file.Cache.MemoryEntries > 0 {
			cfg.Cache.MemoryEntries = file.Cache.MemoryEntries
		}
	}

	return cfg, nil
}

func pluginList(field string, dtos []PluginDTO) ([]domain.PluginRef, error) {
	refs := make([]domain.PluginRef, 0, len(dtos))
	for i, dto := range dtos {
		ref, err := dto.toDomain(field)
		if err != nil {
			return nil, zerr.With(err, "index", i)
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

func transformerRules(dtos []TransformerDTO) ([]domain.TransformerRule, error) {
	rules := make([]domain.TransformerRule, 0, len(dtos))
	for i, dto := range dtos {
		if dto.Pattern == "" || len(dto.Pipeline) == 0 {
			return nil, zerr.With(zerr.Wrap(domain.ErrInvalidTransformerRule, ""), "index", i)
		}
		pipeline, err := pluginList("transformers.pipeline", dto.Pipeline)
		if err != nil {
			return nil, zerr.With(err, "pattern", dto.Pattern)
		}
		rules = append(rules, domain.TransformerRule{Pattern: dto.Pattern, Pipeline: pipeline})
	}
	return rules, nil
}
