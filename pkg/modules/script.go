package modules

import (
	"go/parser"
	"go/token"

	"github.com/frux-technologies/parcel/pkg/errors"
	"github.com/spf13/afero"
	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
)

// ScriptLoader interprets Go source plugins with yaegi. A script exposes its
// capability as a package level Config value, or as the "Config" key of a
// map[string]any named Default.
type ScriptLoader struct {
	fs afero.Fs
}

// NewScriptLoader creates a loader reading sources from fs
func NewScriptLoader(fs afero.Fs) *ScriptLoader {
	return &ScriptLoader{fs: fs}
}

// Load evaluates the script at path and returns its well-known exports
func (l *ScriptLoader) Load(path string) (Exports, error) {
	src, err := afero.ReadFile(l.fs, path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrPluginLoad, "cannot read script %s", path).
			WithDetail("path", path)
	}

	file, err := parser.ParseFile(token.NewFileSet(), path, src, parser.PackageClauseOnly)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrPluginInvalid, "cannot parse script %s", path).
			WithDetail("path", path)
	}
	qualifier := ""
	if name := file.Name.Name; name != "main" {
		qualifier = name + "."
	}

	i := interp.New(interp.Options{})
	if err := i.Use(stdlib.Symbols); err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "cannot prepare script interpreter")
	}
	if _, err := i.Eval(string(src)); err != nil {
		return nil, errors.Wrapf(err, errors.ErrPluginLoad, "cannot interpret script %s", path).
			WithDetail("path", path)
	}

	exports := Exports{}
	for _, name := range []string{ConfigExport, DefaultExport} {
		value, err := i.Eval(qualifier + name)
		if err != nil || !value.IsValid() || !value.CanInterface() {
			continue
		}
		exports[name] = value.Interface()
	}

	if len(exports) == 0 {
		return nil, errors.Newf(errors.ErrPluginInvalid,
			"script %s must declare %s or %s", path, ConfigExport, DefaultExport).
			WithDetail("path", path)
	}
	return exports, nil
}
