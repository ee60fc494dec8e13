// Package config handles the two configuration surfaces of parcel.
//
// The pipeline configuration (.parcelrc) declares which plugins run for
// each build phase. It is found by walking up from the project directory,
// parsed from JSON/YAML or TOML with its key order intact, and merged with
// the configurations it extends into a single Record.
//
// Host settings (Settings) are layered with koanf: embedded defaults, an
// optional parcel.toml in the project directory, PARCEL_* environment
// variables and explicit overrides such as command-line flags.
package config
