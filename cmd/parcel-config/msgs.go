package main

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	MsgRootShort       = "Resolve Parcel plugin pipelines"
	MsgResolveShort    = "Print the plugins of a build phase"
	MsgValidateShort   = "Load every declared plugin and report failures"
	MsgShowShort       = "Print the merged configuration"
	MsgShowLong        = "Show prints the configuration with everything it extends merged in, as YAML."
	MsgSettingsShort   = "Print the effective host settings"
	MsgSettingsLong    = "Settings prints the host settings after defaults, parcel.toml, PARCEL_* environment variables and flags are applied, as TOML."
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"
	MsgManShort        = "Generate man pages"

	// Flag descriptions
	MsgFlagVerbose     = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagConfig      = "Pipeline configuration file (default: found by walking up from --cwd)"
	MsgFlagCwd         = "Project directory"
	MsgFlagFormat      = "Output format: auto, term, text, json"
	MsgFlagHostVersion = "Host version plugins are checked against (overrides host_version)"
	MsgFlagNamesOnly   = "Print plugin names without loading them"
	MsgFlagManDir      = "Directory man pages are written to"

	// Output and errors
	MsgErrNeedsTarget  = "phase %s needs a target (a file path, or an environment context for runtimes)"
	MsgErrValidate     = "%d of %d plugins failed to load"
	MsgErrNoSubcommand = "no command specified"
	MsgVersionFormat   = "parcel-config version %s\n  commit: %s\n  built:  %s\n  host:   %s\n"
	MsgManPagesWritten = "Man pages written to %s"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/resolve-long.txt
	msgResolveLongRaw string
	MsgResolveLong    = strings.TrimSpace(msgResolveLongRaw)

	//go:embed msgs/resolve-example.txt
	msgResolveExampleRaw string
	MsgResolveExample    = strings.TrimRight(msgResolveExampleRaw, "\n")

	//go:embed msgs/validate-long.txt
	msgValidateLongRaw string
	MsgValidateLong    = strings.TrimSpace(msgValidateLongRaw)

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw) + "\n"
)
