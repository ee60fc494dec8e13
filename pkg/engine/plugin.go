package engine

import (
	"github.com/frux-technologies/parcel/pkg/errors"
	"github.com/frux-technologies/parcel/pkg/modules"
)

// Plugin is a loaded plugin
type Plugin struct {
	// ID is the identifier used in the configuration
	ID string
	// Version is the package version, empty when unknown
	Version string
	// PackagePath is where the module was loaded from
	PackagePath string
	// Config is the capability object the plugin exports
	Config any
}

// capability extracts the plugin object from a module's exports. Modules
// with a default export hold their export table under it.
func capability(id string, exports modules.Exports) (any, error) {
	table := map[string]any(exports)

	if def, ok := table[modules.DefaultExport]; ok {
		switch inner := def.(type) {
		case modules.Exports:
			table = inner
		case map[string]any:
			table = inner
		default:
			return nil, errors.Newf(errors.ErrPluginInvalid,
				"plugin %q has a default export that is not an export table", id).
				WithDetail("plugin", id)
		}
	}

	config, ok := table[modules.ConfigExport]
	if !ok || config == nil {
		return nil, errors.Newf(errors.ErrPluginInvalid,
			"plugin %q does not export %s", id, modules.ConfigExport).
			WithDetail("plugin", id)
	}
	return config, nil
}

// As returns the plugin's capability object as a T
func As[T any](p *Plugin) (T, bool) {
	var zero T
	if p == nil {
		return zero, false
	}
	v, ok := p.Config.(T)
	return v, ok
}
