package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/frux-technologies/parcel/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSettings_Defaults(t *testing.T) {
	s, err := LoadSettings(t.TempDir(), nil)
	require.NoError(t, err)

	assert.Equal(t, "2.0.0", s.HostVersion)
	assert.Equal(t, ".parcelrc", s.ConfigFile)
	assert.Equal(t, "node_modules", s.ModulesDir)
	assert.True(t, s.Scripts.Enabled)
	assert.Equal(t, 0, s.Log.Verbosity)
}

func TestLoadSettings_Layers(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "parcel.toml"), []byte(`
host_version = "2.4.0"
modules_dir = "vendor_modules"

[scripts]
enabled = false
`), 0644))

	s, err := LoadSettings(dir, nil)
	require.NoError(t, err)
	assert.Equal(t, "2.4.0", s.HostVersion)
	assert.Equal(t, "vendor_modules", s.ModulesDir)
	assert.False(t, s.Scripts.Enabled)

	t.Setenv("PARCEL_HOST_VERSION", "2.5.0")
	t.Setenv("PARCEL_SCRIPTS__ENABLED", "true")
	t.Setenv("PARCEL_LOG__VERBOSITY", "2")

	s, err = LoadSettings(dir, nil)
	require.NoError(t, err)
	assert.Equal(t, "2.5.0", s.HostVersion)
	assert.True(t, s.Scripts.Enabled)
	assert.Equal(t, 2, s.Log.Verbosity)

	s, err = LoadSettings(dir, map[string]interface{}{"host_version": "3.0.0"})
	require.NoError(t, err)
	assert.Equal(t, "3.0.0", s.HostVersion)
}

func TestLoadSettings_YAMLFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "parcel.yaml"), []byte("config_file: .parcelrc.toml\n"), 0644))

	s, err := LoadSettings(dir, nil)
	require.NoError(t, err)
	assert.Equal(t, ".parcelrc.toml", s.ConfigFile)
}

func TestLoadSettings_Invalid(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "parcel.toml"), []byte(`host_version = `), 0644))

	_, err := LoadSettings(dir, nil)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigParse))

	_, err = LoadSettings(t.TempDir(), map[string]interface{}{"modules_dir": ""})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigInvalid))
}

func TestSettings_ToTOML(t *testing.T) {
	s, err := LoadSettings(t.TempDir(), nil)
	require.NoError(t, err)

	data, err := s.ToTOML()
	require.NoError(t, err)
	assert.Contains(t, string(data), "host_version")
	assert.Contains(t, string(data), "2.0.0")
	assert.Contains(t, string(data), "[scripts]")
}
