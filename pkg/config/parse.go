package config

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/frux-technologies/parcel/pkg/errors"
	"github.com/frux-technologies/parcel/pkg/pipeline"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Parse decodes a pipeline configuration. Files ending in .toml use the
// TOML form; everything else is read as YAML, which covers JSON.
// Unknown keys are rejected.
func Parse(data []byte, path string) (*Record, error) {
	var (
		record *Record
		err    error
	)

	if strings.EqualFold(filepath.Ext(path), ".toml") {
		record, err = parseTOML(data)
	} else {
		record, err = parseYAML(data)
	}
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigParse, "cannot parse %s", path).
			WithDetail("path", path)
	}

	record.ConfigPath = path
	return record, nil
}

func parseYAML(data []byte) (*Record, error) {
	record := &Record{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(record); err != nil {
		if err == io.EOF {
			return record, nil
		}
		return nil, err
	}
	return record, nil
}

// tomlRecord is the TOML layout. TOML tables do not keep key order, so the
// ordered maps are written as arrays of tables.
type tomlRecord struct {
	Schema     string         `toml:"$schema"`
	Extends    interface{}    `toml:"extends"`
	Resolvers  []string       `toml:"resolvers"`
	Transforms []tomlPipeline `toml:"transforms"`
	Bundler    string         `toml:"bundler"`
	Namers     []string       `toml:"namers"`
	Runtimes   []tomlRuntime  `toml:"runtimes"`
	Packagers  []tomlPackager `toml:"packagers"`
	Optimizers []tomlPipeline `toml:"optimizers"`
	Reporters  []string       `toml:"reporters"`
}

type tomlPipeline struct {
	Pattern  string   `toml:"pattern"`
	Pipeline []string `toml:"pipeline"`
}

type tomlRuntime struct {
	Context  string   `toml:"context"`
	Pipeline []string `toml:"pipeline"`
}

type tomlPackager struct {
	Pattern string `toml:"pattern"`
	Plugin  string `toml:"plugin"`
}

func parseTOML(data []byte) (*Record, error) {
	var raw tomlRecord
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}

	extends, err := toStringList(raw.Extends)
	if err != nil {
		return nil, err
	}

	record := &Record{
		Schema:    raw.Schema,
		Extends:   extends,
		Resolvers: raw.Resolvers,
		Bundler:   raw.Bundler,
		Namers:    raw.Namers,
		Reporters: raw.Reporters,
	}
	for _, t := range raw.Transforms {
		if err := addEntry(&record.Transforms, "transforms", t.Pattern, pipeline.Pipeline(t.Pipeline)); err != nil {
			return nil, err
		}
	}
	for _, r := range raw.Runtimes {
		if err := addEntry(&record.Runtimes, "runtimes", r.Context, pipeline.Pipeline(r.Pipeline)); err != nil {
			return nil, err
		}
	}
	for _, p := range raw.Packagers {
		if err := addEntry(&record.Packagers, "packagers", p.Pattern, p.Plugin); err != nil {
			return nil, err
		}
	}
	for _, o := range raw.Optimizers {
		if err := addEntry(&record.Optimizers, "optimizers", o.Pattern, pipeline.Pipeline(o.Pipeline)); err != nil {
			return nil, err
		}
	}
	return record, nil
}

func addEntry[V any](m *pipeline.GlobMap[V], section, pattern string, value V) error {
	if m.Has(pattern) {
		return fmt.Errorf("%s: pattern %q already declared", section, pattern)
	}
	m.Set(pattern, value)
	return nil
}

func toStringList(v interface{}) (StringList, error) {
	switch value := v.(type) {
	case nil:
		return nil, nil
	case string:
		return StringList{value}, nil
	case []interface{}:
		out := make(StringList, 0, len(value))
		for _, item := range value {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("extends entries must be strings, got %T", item)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("extends must be a string or a list of strings, got %T", v)
	}
}
