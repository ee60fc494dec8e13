package modules_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/frux-technologies/parcel/pkg/errors"
	"github.com/frux-technologies/parcel/pkg/modules"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scriptPlugin = `package main

var Config = map[string]any{
	"kind": "transformer",
	"name": "uppercase",
}
`

func writeFile(t *testing.T, fs afero.Fs, path, content string) {
	t.Helper()
	require.NoError(t, fs.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0644))
}

func TestFSResolver_FindPackageWalksUp(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/repo/node_modules/@parcel/transformer-js/package.json",
		`{"name": "@parcel/transformer-js", "version": "2.1.0", "engines": {"parcel": "^2.0.0"}}`)
	writeFile(t, fs, "/repo/packages/app/.parcelrc", `{}`)

	r := modules.NewFSResolver(fs)
	pkg, err := r.FindPackage(context.Background(), "@parcel/transformer-js", "/repo/packages/app/.parcelrc")
	require.NoError(t, err)

	assert.Equal(t, "@parcel/transformer-js", pkg.Name)
	assert.Equal(t, "2.1.0", pkg.Version)
	assert.Equal(t, filepath.FromSlash("/repo/node_modules/@parcel/transformer-js"), pkg.Dir)

	rng, ok := pkg.EngineRange(modules.EngineName)
	assert.True(t, ok)
	assert.Equal(t, "^2.0.0", rng)
}

func TestFSResolver_NearestPackageWins(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/repo/node_modules/plugin/package.json", `{"name": "plugin", "version": "1.0.0"}`)
	writeFile(t, fs, "/repo/app/node_modules/plugin/package.json", `{"name": "plugin", "version": "2.0.0"}`)

	r := modules.NewFSResolver(fs)
	pkg, err := r.FindPackage(context.Background(), "plugin", "/repo/app/.parcelrc")
	require.NoError(t, err)
	assert.Equal(t, "2.0.0", pkg.Version)
}

func TestFSResolver_NotFound(t *testing.T) {
	fs := afero.NewMemMapFs()
	r := modules.NewFSResolver(fs)

	_, _, err := r.Resolve(context.Background(), "@parcel/missing", "/repo/.parcelrc")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrPluginNotFound))
	assert.Contains(t, err.Error(), "@parcel/missing")
}

func TestFSResolver_RejectsEscapingIdentifiers(t *testing.T) {
	r := modules.NewFSResolver(afero.NewMemMapFs())

	_, err := r.FindPackage(context.Background(), "foo/../../etc", "/repo/.parcelrc")
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))

	_, err = r.FindPackage(context.Background(), "", "/repo/.parcelrc")
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestFSResolver_RelativePlugin(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/repo/plugins/local/package.json", `{"name": "local-plugin", "version": "0.1.0", "main": "plugin.go"}`)
	writeFile(t, fs, "/repo/plugins/local/plugin.go", scriptPlugin)

	r := modules.NewFSResolver(fs)
	mod, pkg, err := r.Resolve(context.Background(), "./plugins/local", "/repo/.parcelrc")
	require.NoError(t, err)

	assert.Equal(t, "local-plugin", pkg.Name)
	assert.Equal(t, filepath.FromSlash("/repo/plugins/local/plugin.go"), mod.Path)
	assert.Equal(t, map[string]any{"kind": "transformer", "name": "uppercase"}, mod.Exports[modules.ConfigExport])
}

func TestFSResolver_ScriptsDisabled(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/repo/node_modules/script/package.json", `{"name": "script", "main": "index.go"}`)
	writeFile(t, fs, "/repo/node_modules/script/index.go", scriptPlugin)

	r := modules.NewFSResolver(fs, modules.WithScripts(false))
	_, _, err := r.Resolve(context.Background(), "script", "/repo/.parcelrc")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrPluginLoad))
	assert.Contains(t, err.Error(), "disabled")
}

func TestFSResolver_BuiltinImplementation(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/repo/node_modules/@parcel/namer-default/package.json",
		`{"name": "@parcel/namer-default", "version": "2.0.0", "main": "lib/index.js"}`)

	builtins := modules.NewBuiltins()
	require.NoError(t, builtins.Register(modules.Package{Name: "@parcel/namer-default", Version: "2.0.0"},
		modules.Exports{modules.ConfigExport: "namer"}))

	r := modules.NewFSResolver(fs, modules.WithBuiltins(builtins))
	mod, pkg, err := r.Resolve(context.Background(), "@parcel/namer-default", "/repo/.parcelrc")
	require.NoError(t, err)

	assert.Equal(t, "namer", mod.Exports[modules.ConfigExport])
	assert.Equal(t, filepath.FromSlash("/repo/node_modules/@parcel/namer-default/lib/index.js"), mod.Path)
	assert.Equal(t, "2.0.0", pkg.Version)
}

func TestFSResolver_NoImplementation(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/repo/node_modules/js-only/package.json", `{"name": "js-only", "version": "1.0.0"}`)

	r := modules.NewFSResolver(fs, modules.WithBuiltins(modules.NewBuiltins()))
	_, _, err := r.Resolve(context.Background(), "js-only", "/repo/.parcelrc")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrPluginLoad))
	assert.Contains(t, err.Error(), "js-only")
}

func TestFSResolver_InvalidPackageJSON(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/repo/node_modules/broken/package.json", `{"name": `)

	r := modules.NewFSResolver(fs)
	_, _, err := r.Resolve(context.Background(), "broken", "/repo/.parcelrc")
	assert.True(t, errors.IsErrorCode(err, errors.ErrPluginInvalid))
}

func TestFSResolver_CustomModulesDir(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/repo/vendor_plugins/p/package.json", `{"name": "p", "version": "1.0.0"}`)

	r := modules.NewFSResolver(fs, modules.WithModulesDir("vendor_plugins"))
	pkg, err := r.FindPackage(context.Background(), "p", "/repo")
	require.NoError(t, err)
	assert.Equal(t, "p", pkg.Name)
}

func TestFSResolver_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := modules.NewFSResolver(afero.NewMemMapFs())
	_, err := r.FindPackage(ctx, "anything", "/repo/.parcelrc")
	assert.ErrorIs(t, err, context.Canceled)
}
