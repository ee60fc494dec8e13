package config

import (
	_ "embed"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/frux-technologies/parcel/pkg/errors"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	gotoml "github.com/pelletier/go-toml/v2"
)

//go:embed embedded/defaults.toml
var defaultSettings []byte

// EnvPrefix prefixes every settings environment variable
const EnvPrefix = "PARCEL_"

// SettingsFileNames are looked up, in order, in the project directory
var SettingsFileNames = []string{"parcel.toml", "parcel.yaml", "parcel.yml"}

// Settings are the host options of the resolution engine and the CLI
type Settings struct {
	HostVersion string          `koanf:"host_version" toml:"host_version"`
	ConfigFile  string          `koanf:"config_file" toml:"config_file"`
	ModulesDir  string          `koanf:"modules_dir" toml:"modules_dir"`
	Scripts     ScriptsSettings `koanf:"scripts" toml:"scripts"`
	Log         LogSettings     `koanf:"log" toml:"log"`
}

type ScriptsSettings struct {
	Enabled bool `koanf:"enabled" toml:"enabled"`
}

type LogSettings struct {
	Verbosity int `koanf:"verbosity" toml:"verbosity"`
}

type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, stderrors.New("not implemented")
}

// LoadSettings layers, lowest first: embedded defaults, the first settings
// file found in dir, PARCEL_* environment variables and overrides. Keys
// of overrides use dots for nesting ("scripts.enabled").
func LoadSettings(dir string, overrides map[string]interface{}) (*Settings, error) {
	k := koanf.New(".")

	if err := k.Load(&rawBytesProvider{bytes: defaultSettings}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load default settings")
	}

	if dir != "" {
		if path, parser := settingsFile(dir); path != "" {
			if err := k.Load(file.Provider(path), parser); err != nil {
				return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to load settings from %s", path).
					WithDetail("path", path)
			}
		}
	}

	// PARCEL_SCRIPTS__ENABLED -> scripts.enabled
	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
	}), nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load settings from environment")
	}

	if len(overrides) > 0 {
		if err := k.Load(confmap.Provider(overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to apply settings overrides")
		}
	}

	var s Settings
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &s,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &s, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigInvalid, "failed to decode settings")
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func settingsFile(dir string) (string, koanf.Parser) {
	for _, name := range SettingsFileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if filepath.Ext(name) == ".toml" {
			return path, toml.Parser()
		}
		return path, yaml.Parser()
	}
	return "", nil
}

// Validate checks that required settings are present
func (s *Settings) Validate() error {
	if s.HostVersion == "" {
		return errors.New(errors.ErrConfigInvalid, "host_version cannot be empty").
			WithDetail("key", "host_version")
	}
	if s.ConfigFile == "" {
		return errors.New(errors.ErrConfigInvalid, "config_file cannot be empty").
			WithDetail("key", "config_file")
	}
	if s.ModulesDir == "" {
		return errors.New(errors.ErrConfigInvalid, "modules_dir cannot be empty").
			WithDetail("key", "modules_dir")
	}
	return nil
}

// ToTOML renders the settings as TOML
func (s *Settings) ToTOML() ([]byte, error) {
	data, err := gotoml.Marshal(s)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "cannot render settings")
	}
	return data, nil
}
