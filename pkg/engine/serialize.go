package engine

import (
	"github.com/frux-technologies/parcel/pkg/config"
)

// Serialized is the transportable form of an engine: its configuration
// and the path plugins resolve from. The plugin cache is not carried.
type Serialized struct {
	Config     config.Record `yaml:"config"`
	ConfigPath string        `yaml:"configPath"`
}

// Serialize returns the transportable form of e
func (e *Engine) Serialize() Serialized {
	return Serialized{
		Config:     *e.config.Clone(),
		ConfigPath: e.config.ConfigPath,
	}
}

// Deserialize builds an engine equivalent to the one that was serialized.
// Resolver, host version and logger are not part of the serialized form
// and are given as options again.
func Deserialize(s Serialized, opts ...Option) (*Engine, error) {
	record := s.Config
	record.ConfigPath = s.ConfigPath
	return New(&record, opts...)
}
