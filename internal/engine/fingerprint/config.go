package fingerprint

import "go.trai.ch/rebund/internal/core/domain"

// ConfigSlices fingerprints every independently invalidated slice of cfg,
// keyed by its option path.
func ConfigSlices(cfg *domain.BuildConfig) map[string]domain.Fingerprint {
	if cfg == nil {
		return map[string]domain.Fingerprint{}
	}

	targets := New()
	for _, t := range cfg.Targets {
		targets.String(t.Name).String(t.Format).String(t.DistDir).Value(t.Options)
	}

	transformers := New()
	for _, rule := range cfg.Transformers {
		transformers.String(rule.Pattern)
		pluginRefs(transformers, rule.Pipeline)
	}

	return map[string]domain.Fingerprint{
		domain.OptionEntries:      New().Strings(cfg.Entries).String(cfg.GlobSyntax).Sum(),
		domain.OptionResolver:     pluginRefs(New(), []domain.PluginRef{cfg.Resolver}).Sum(),
		domain.OptionTransformers: transformers.Sum(),
		domain.OptionBundler:      pluginRefs(New(), []domain.PluginRef{cfg.Bundler}).Sum(),
		domain.OptionNamers:       pluginRefs(New(), cfg.Namers).Sum(),
		domain.OptionRuntimes:     pluginRefs(New(), cfg.Runtimes).Sum(),
		domain.OptionTargets:      targets.Sum(),
	}
}

// ChangedSlices returns the option paths whose fingerprint differs between prev and next,
// in the order of domain.OptionPaths.
func ChangedSlices(prev, next map[string]domain.Fingerprint) []string {
	var changed []string
	for _, path := range domain.OptionPaths {
		if prev[path] != next[path] {
			changed = append(changed, path)
		}
	}
	return changed
}

func pluginRefs(b *Builder, refs []domain.PluginRef) *Builder {
	b.Int(int64(len(refs)))
	for _, ref := range refs {
		b.String(ref.Name).Value(ref.Options)
	}
	return b
}
