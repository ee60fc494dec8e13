package config

import (
	"github.com/frux-technologies/parcel/pkg/errors"
	"github.com/frux-technologies/parcel/pkg/pipeline"
)

// Merge combines a derived record with the base it extends.
//
// Fixed pipelines and same-pattern map pipelines are composed so that a
// spread marker in the derived pipeline is replaced by the base pipeline
// as written; a marker in the base survives for whatever it extends in
// turn. When the base has nothing for that phase or pattern the derived
// marker is kept, so it still falls through to the next matching pattern
// at lookup time. A derived pipeline without a marker replaces the base
// one, an empty one inherits it. Map entries keep the derived declaration order,
// followed by the patterns only the base declares. Single plugin values
// (bundler, packagers) are overridden by the derived record.
//
// The result carries the derived record's path and no extends.
func Merge(derived, base *Record) (*Record, error) {
	if base == nil {
		return derived, nil
	}
	if derived == nil {
		return base, nil
	}

	merged := &Record{
		Schema:     firstNonEmpty(derived.Schema, base.Schema),
		Bundler:    firstNonEmpty(derived.Bundler, base.Bundler),
		Packagers:  mergeValues(derived.Packagers, base.Packagers),
		ConfigPath: derived.ConfigPath,
	}

	var err error
	if merged.Resolvers, err = mergePipeline("resolvers", derived.Resolvers, base.Resolvers); err != nil {
		return nil, err
	}
	if merged.Namers, err = mergePipeline("namers", derived.Namers, base.Namers); err != nil {
		return nil, err
	}
	if merged.Reporters, err = mergePipeline("reporters", derived.Reporters, base.Reporters); err != nil {
		return nil, err
	}
	if merged.Transforms, err = mergePipelines("transforms", derived.Transforms, base.Transforms); err != nil {
		return nil, err
	}
	if merged.Runtimes, err = mergePipelines("runtimes", derived.Runtimes, base.Runtimes); err != nil {
		return nil, err
	}
	if merged.Optimizers, err = mergePipelines("optimizers", derived.Optimizers, base.Optimizers); err != nil {
		return nil, err
	}

	return merged, nil
}

func mergePipeline(phase string, derived, base pipeline.Pipeline) (pipeline.Pipeline, error) {
	if len(derived) == 0 {
		if base == nil {
			return nil, nil
		}
		return base.Clone(), nil
	}

	index := derived.SpreadIndex()
	if index < 0 || base == nil {
		return derived.Clone(), nil
	}
	if pipeline.Pipeline(derived[index+1:]).HasSpread() {
		return nil, errors.New(errors.ErrComposition,
			"only one spread (...) can be included in a config pipeline").
			WithDetail("phase", phase).
			WithDetail("pipeline", []string(derived))
	}

	out := make(pipeline.Pipeline, 0, len(derived)-1+len(base))
	out = append(out, derived[:index]...)
	out = append(out, base...)
	out = append(out, derived[index+1:]...)
	return out, nil
}

func mergePipelines(phase string, derived, base pipeline.GlobMap[pipeline.Pipeline]) (pipeline.GlobMap[pipeline.Pipeline], error) {
	var merged pipeline.GlobMap[pipeline.Pipeline]
	for _, e := range derived.Entries() {
		baseValue, _ := base.Get(e.Pattern)
		value, err := mergePipeline(phase, e.Value, baseValue)
		if err != nil {
			return merged, errors.Wrapf(err, errors.ErrComposition, "cannot merge %s entry %q", phase, e.Pattern).
				WithDetail("pattern", e.Pattern)
		}
		merged.Set(e.Pattern, value)
	}
	for _, e := range base.Entries() {
		if !derived.Has(e.Pattern) {
			merged.Set(e.Pattern, e.Value.Clone())
		}
	}
	return merged, nil
}

func mergeValues(derived, base pipeline.GlobMap[string]) pipeline.GlobMap[string] {
	var merged pipeline.GlobMap[string]
	for _, e := range derived.Entries() {
		merged.Set(e.Pattern, e.Value)
	}
	for _, e := range base.Entries() {
		if !derived.Has(e.Pattern) {
			merged.Set(e.Pattern, e.Value)
		}
	}
	return merged
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
