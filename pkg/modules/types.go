package modules

import (
	"context"
	"encoding/json"
	"path/filepath"

	"github.com/frux-technologies/parcel/pkg/errors"
)

// Well-known export names of a plugin module
const (
	// ConfigExport holds the plugin's capability object
	ConfigExport = "Config"
	// DefaultExport wraps the whole export table of modules that use a default export
	DefaultExport = "Default"
)

// EngineName is the key of the host in a package's engines field
const EngineName = "parcel"

// Package is the metadata of a plugin package (its package.json)
type Package struct {
	Name    string            `json:"name" yaml:"name"`
	Version string            `json:"version" yaml:"version"`
	Main    string            `json:"main,omitempty" yaml:"main,omitempty"`
	Engines map[string]string `json:"engines,omitempty" yaml:"engines,omitempty"`

	// Dir is the directory holding the package; empty for builtins
	Dir string `json:"-" yaml:"-"`
}

// EngineRange returns the declared compatible version range for engine
func (p *Package) EngineRange(engine string) (string, bool) {
	if p == nil || p.Engines == nil {
		return "", false
	}
	r, ok := p.Engines[engine]
	return r, ok && r != ""
}

// MainPath returns the module entry point, defaulting to index.js like node
func (p *Package) MainPath() string {
	main := p.Main
	if main == "" {
		main = "index.js"
	}
	if p.Dir == "" {
		return main
	}
	return filepath.Join(p.Dir, filepath.FromSlash(main))
}

// ParsePackage decodes package.json content
func ParsePackage(data []byte, dir string) (*Package, error) {
	var pkg Package
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil, errors.Wrapf(err, errors.ErrPluginInvalid,
			"invalid package.json in %s", dir).
			WithDetail("path", dir)
	}
	pkg.Dir = dir
	return &pkg, nil
}

// Exports is the export table of a loaded module
type Exports map[string]any

// Module is a loaded plugin module
type Module struct {
	// ID is the identifier the module was resolved from
	ID string
	// Path is where the module was loaded from (a file, or builtin:<name>)
	Path string
	// Exports are the values the module exposes
	Exports Exports
}

// Resolver resolves a plugin identifier relative to basePath, usually the
// path of the configuration file declaring the plugin. A plugin that
// cannot be located fails with ErrPluginNotFound.
type Resolver interface {
	Resolve(ctx context.Context, id, basePath string) (*Module, *Package, error)
}

// ResolverFunc adapts a function to the Resolver interface
type ResolverFunc func(ctx context.Context, id, basePath string) (*Module, *Package, error)

// Resolve calls f
func (f ResolverFunc) Resolve(ctx context.Context, id, basePath string) (*Module, *Package, error) {
	return f(ctx, id, basePath)
}

func notFound(id, basePath string) *errors.ParcelError {
	return errors.Newf(errors.ErrPluginNotFound, "cannot find plugin %q from %q", id, basePath).
		WithDetail("plugin", id).
		WithDetail("path", basePath)
}
