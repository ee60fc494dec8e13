package main

import (
	"context"
	"embed"
	"os"
	"path/filepath"

	"github.com/frux-technologies/parcel/internal/version"
	"github.com/frux-technologies/parcel/pkg/cobrax/topics"
	"github.com/frux-technologies/parcel/pkg/config"
	"github.com/frux-technologies/parcel/pkg/engine"
	"github.com/frux-technologies/parcel/pkg/errors"
	"github.com/frux-technologies/parcel/pkg/logging"
	"github.com/frux-technologies/parcel/pkg/modules"
	"github.com/frux-technologies/parcel/pkg/ui"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

//go:embed topics
var topicFiles embed.FS

// globalOptions are the persistent flags shared by every command
type globalOptions struct {
	verbosity   int
	configPath  string
	cwd         string
	format      string
	hostVersion string
}

// session lazily builds what commands need from the global options
type session struct {
	opts globalOptions
	fs   afero.Fs

	settings *config.Settings
	record   *config.Record
	engine   *engine.Engine
}

func (s *session) Settings() (*config.Settings, error) {
	if s.settings != nil {
		return s.settings, nil
	}

	overrides := map[string]interface{}{}
	if s.opts.hostVersion != "" {
		overrides["host_version"] = s.opts.hostVersion
	}

	settings, err := config.LoadSettings(s.projectDir(), overrides)
	if err != nil {
		return nil, err
	}
	s.settings = settings
	return settings, nil
}

func (s *session) projectDir() string {
	if s.opts.cwd != "" {
		return s.opts.cwd
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}

func (s *session) resolver(settings *config.Settings) *modules.FSResolver {
	return modules.NewFSResolver(s.fs,
		modules.WithModulesDir(settings.ModulesDir),
		modules.WithScripts(settings.Scripts.Enabled),
	)
}

// Record finds, loads and merges the pipeline configuration
func (s *session) Record(ctx context.Context) (*config.Record, error) {
	if s.record != nil {
		return s.record, nil
	}

	settings, err := s.Settings()
	if err != nil {
		return nil, err
	}

	path := s.opts.configPath
	if path == "" {
		path, err = config.Find(s.fs, s.projectDir(), config.FileNames(settings.ConfigFile)...)
		if err != nil {
			return nil, err
		}
	} else if !filepath.IsAbs(path) {
		path = filepath.Join(s.projectDir(), path)
	}

	record, err := config.NewLoader(s.fs, s.resolver(settings)).Load(ctx, path)
	if err != nil {
		return nil, err
	}
	s.record = record
	return record, nil
}

// Engine builds the resolution engine for the configuration
func (s *session) Engine(ctx context.Context) (*engine.Engine, error) {
	if s.engine != nil {
		return s.engine, nil
	}

	settings, err := s.Settings()
	if err != nil {
		return nil, err
	}
	record, err := s.Record(ctx)
	if err != nil {
		return nil, err
	}

	e, err := engine.New(record,
		engine.WithResolver(modules.Chain{modules.Default, s.resolver(settings)}),
		engine.WithHostVersion(settings.HostVersion),
	)
	if err != nil {
		return nil, err
	}
	s.engine = e
	return e, nil
}

// Renderer creates the renderer selected by --format for cmd's output
func (s *session) Renderer(cmd *cobra.Command) (ui.Renderer, error) {
	format, err := ui.ParseFormat(s.opts.format)
	if err != nil {
		return nil, err
	}
	return ui.NewRenderer(format, cmd.OutOrStdout())
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	return newRootCmd(afero.NewOsFs())
}

func newRootCmd(fs afero.Fs) *cobra.Command {
	initTemplateFormatting()

	s := &session{fs: fs}

	rootCmd := &cobra.Command{
		Use:     "parcel-config",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			verbosity := s.opts.verbosity
			if !cmd.Flags().Changed("verbose") {
				if settings, err := s.Settings(); err == nil {
					verbosity = settings.Log.Verbosity
				}
			}
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return errors.New(errors.ErrInvalidInput, MsgErrNoSubcommand)
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.CountVarP(&s.opts.verbosity, "verbose", "v", MsgFlagVerbose)
	flags.StringVarP(&s.opts.configPath, "config", "c", "", MsgFlagConfig)
	flags.StringVarP(&s.opts.cwd, "cwd", "C", "", MsgFlagCwd)
	flags.StringVarP(&s.opts.format, "format", "f", "auto", MsgFlagFormat)
	flags.StringVar(&s.opts.hostVersion, "host-version", "", MsgFlagHostVersion)

	_ = rootCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"auto", "term", "text", "json"}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddGroup(&cobra.Group{ID: "core", Title: "COMMANDS:"})
	rootCmd.AddGroup(&cobra.Group{ID: "misc", Title: "MISC:"})
	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.AddCommand(newResolveCmd(s))
	rootCmd.AddCommand(newValidateCmd(s))
	rootCmd.AddCommand(newShowCmd(s))
	rootCmd.AddCommand(newSettingsCmd(s))
	rootCmd.AddCommand(newVersionCmd(s))
	rootCmd.AddCommand(newCompletionCmd())
	rootCmd.AddCommand(newManCmd())

	topicFS := afero.FromIOFS{FS: topicFiles}
	opts := topics.Options{
		Extensions: []string{".md", ".txt"},
		Renderer:   topics.NewGlamourRenderer(),
	}
	if !stdoutIsTerminal() {
		opts.Renderer = topics.NewPlainGlamourRenderer()
	}
	if err := topics.InitializeWithOptions(rootCmd, topicFS, "topics", opts); err != nil {
		log.Warn().Err(err).Msg("Help topics unavailable")
	}

	return rootCmd
}
