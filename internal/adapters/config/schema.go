package config

import (
	"go.trai.ch/rebund/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Rebundfile represents the structure of the rebund.yaml configuration file.
type Rebundfile struct {
	Version      string           `yaml:"version"`
	Entries      []string         `yaml:"entries"`
	Dist         string           `yaml:"dist"`
	GlobSyntax   string           `yaml:"globSyntax"`
	Resolver     *PluginDTO       `yaml:"resolver"`
	Transformers []TransformerDTO `yaml:"transformers"`
	Bundler      *PluginDTO       `yaml:"bundler"`
	Namers       []PluginDTO      `yaml:"namers"`
	Runtimes     *[]PluginDTO     `yaml:"runtimes"`
	Targets      []TargetDTO      `yaml:"targets"`
	Cache        *CacheDTO        `yaml:"cache"`
	// Extra collects unrecognized top-level keys.
	Extra map[string]any `yaml:",inline"`
}

// PluginDTO is a plugin reference. It is written either as a bare name or as
// a mapping with a name and an option block.
type PluginDTO struct {
	Name    string         `yaml:"name"`
	Options map[string]any `yaml:"options"`
}

// UnmarshalYAML accepts both plugin reference forms.
func (p *PluginDTO) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		return node.Decode(&p.Name)
	}
	type plain PluginDTO
	var out plain
	if err := node.Decode(&out); err != nil {
		return err
	}
	*p = PluginDTO(out)
	return nil
}

// TransformerDTO maps a file pattern to a transformer pipeline.
type TransformerDTO struct {
	Pattern  string      `yaml:"pattern"`
	Pipeline []PluginDTO `yaml:"pipeline"`
}

// TargetDTO describes one output environment.
type TargetDTO struct {
	Name    string         `yaml:"name"`
	Format  string         `yaml:"format"`
	Dist    string         `yaml:"dist"`
	Options map[string]any `yaml:"options"`
}

// CacheDTO selects the result cache backend.
type CacheDTO struct {
	Backend       string `yaml:"backend"`
	Dir           string `yaml:"dir"`
	MemoryEntries int    `yaml:"memoryEntries"`
}

func (p PluginDTO) toDomain(field string) (domain.PluginRef, error) {
	if p.Name == "" {
		return domain.PluginRef{}, zerr.With(zerr.Wrap(domain.ErrInvalidPluginRef, ""), "field", field)
	}
	return domain.PluginRef{Name: p.Name, Options: options(p.Options)}, nil
}

func options(m map[string]any) domain.Options {
	if len(m) == 0 {
		return nil
	}
	return domain.Options(m)
}
