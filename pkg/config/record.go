package config

import (
	"bytes"
	"slices"

	"github.com/frux-technologies/parcel/pkg/errors"
	"github.com/frux-technologies/parcel/pkg/pipeline"
	"gopkg.in/yaml.v3"
)

// Record is the plain pipeline configuration. Absent fields are empty
// values and every consumer treats them as such.
type Record struct {
	Schema     string                              `yaml:"$schema,omitempty"`
	Extends    StringList                          `yaml:"extends,omitempty"`
	Resolvers  pipeline.Pipeline                   `yaml:"resolvers,omitempty"`
	Transforms pipeline.GlobMap[pipeline.Pipeline] `yaml:"transforms,omitempty"`
	Bundler    string                              `yaml:"bundler,omitempty"`
	Namers     pipeline.Pipeline                   `yaml:"namers,omitempty"`
	Runtimes   pipeline.GlobMap[pipeline.Pipeline] `yaml:"runtimes,omitempty"`
	Packagers  pipeline.GlobMap[string]            `yaml:"packagers,omitempty"`
	Optimizers pipeline.GlobMap[pipeline.Pipeline] `yaml:"optimizers,omitempty"`
	Reporters  pipeline.Pipeline                   `yaml:"reporters,omitempty"`

	// ConfigPath is the file the record was loaded from; plugins are
	// resolved relative to it
	ConfigPath string `yaml:"-"`
}

// StringList decodes either a single string or a list of strings
type StringList []string

// UnmarshalYAML implements yaml.Unmarshaler
func (l *StringList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			*l = nil
			return nil
		}
		*l = StringList{node.Value}
		return nil
	case yaml.SequenceNode:
		var items []string
		if err := node.Decode(&items); err != nil {
			return err
		}
		*l = items
		return nil
	default:
		return errors.Newf(errors.ErrConfigParse, "line %d: extends must be a string or a list of strings", node.Line)
	}
}

// Clone returns a deep copy of r
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	clone := *r
	clone.Extends = slices.Clone(r.Extends)
	clone.Resolvers = slices.Clone(r.Resolvers)
	clone.Namers = slices.Clone(r.Namers)
	clone.Reporters = slices.Clone(r.Reporters)
	clone.Transforms = r.Transforms.Clone(clonePipeline)
	clone.Runtimes = r.Runtimes.Clone(clonePipeline)
	clone.Packagers = r.Packagers.Clone(nil)
	clone.Optimizers = r.Optimizers.Clone(clonePipeline)
	return &clone
}

func clonePipeline(p pipeline.Pipeline) pipeline.Pipeline {
	return slices.Clone(p)
}

// Validate checks glob patterns and plugin identifiers
func (r *Record) Validate() error {
	for phase, p := range map[string]pipeline.Pipeline{
		"resolvers": r.Resolvers,
		"namers":    r.Namers,
		"reporters": r.Reporters,
	} {
		if err := validateIdentifiers(phase, "", p); err != nil {
			return err
		}
	}

	for phase, m := range map[string]pipeline.GlobMap[pipeline.Pipeline]{
		"transforms": r.Transforms,
		"optimizers": r.Optimizers,
	} {
		if err := pipeline.ValidatePatterns(m); err != nil {
			return errors.Wrapf(err, errors.ErrConfigInvalid, "invalid %s pattern", phase).
				WithDetail("phase", phase)
		}
		for _, e := range m.Entries() {
			if err := validateIdentifiers(phase, e.Pattern, e.Value); err != nil {
				return err
			}
		}
	}

	if err := pipeline.ValidatePatterns(r.Packagers); err != nil {
		return errors.Wrap(err, errors.ErrConfigInvalid, "invalid packagers pattern").
			WithDetail("phase", "packagers")
	}
	for _, e := range r.Packagers.Entries() {
		if e.Value == "" || e.Value == pipeline.Spread {
			return errors.Newf(errors.ErrConfigInvalid, "packager for %q must name a plugin", e.Pattern).
				WithDetail("phase", "packagers").
				WithDetail("pattern", e.Pattern)
		}
	}

	for _, e := range r.Runtimes.Entries() {
		if err := validateIdentifiers("runtimes", e.Pattern, e.Value); err != nil {
			return err
		}
	}

	return nil
}

func validateIdentifiers(phase, pattern string, p pipeline.Pipeline) error {
	for _, id := range p {
		if id == "" {
			err := errors.Newf(errors.ErrConfigInvalid, "empty plugin name in %s", phase).
				WithDetail("phase", phase)
			if pattern != "" {
				err = err.WithDetail("pattern", pattern)
			}
			return err
		}
	}
	return nil
}

// PluginNames returns every plugin identifier the record refers to, once,
// in the order they first appear
func (r *Record) PluginNames() []string {
	seen := make(map[string]bool)
	var names []string
	add := func(ids ...string) {
		for _, id := range ids {
			if id == "" || id == pipeline.Spread || seen[id] {
				continue
			}
			seen[id] = true
			names = append(names, id)
		}
	}

	add(r.Resolvers...)
	for _, e := range r.Transforms.Entries() {
		add(e.Value...)
	}
	add(r.Bundler)
	add(r.Namers...)
	for _, e := range r.Runtimes.Entries() {
		add(e.Value...)
	}
	for _, e := range r.Packagers.Entries() {
		add(e.Value)
	}
	for _, e := range r.Optimizers.Entries() {
		add(e.Value...)
	}
	add(r.Reporters...)

	return names
}

// ToYAML renders the record, keeping pattern order
func (r *Record) ToYAML() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "cannot render configuration")
	}
	if err := enc.Close(); err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "cannot render configuration")
	}
	return buf.Bytes(), nil
}
