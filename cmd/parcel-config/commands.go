package main

import (
	"fmt"
	"strings"

	"github.com/frux-technologies/parcel/pkg/engine"
	"github.com/frux-technologies/parcel/pkg/errors"
	"github.com/frux-technologies/parcel/pkg/logging"
	"github.com/frux-technologies/parcel/pkg/ui/display"
	"github.com/spf13/cobra"
)

func phaseNames() []string {
	names := make([]string, len(engine.Phases))
	for i, p := range engine.Phases {
		names[i] = p.String()
	}
	return names
}

func newResolveCmd(s *session) *cobra.Command {
	var namesOnly bool

	cmd := &cobra.Command{
		Use:     "resolve <phase> [target]",
		Short:   MsgResolveShort,
		Long:    MsgResolveLong + "\n\nPhases: " + strings.Join(phaseNames(), ", "),
		Example: MsgResolveExample,
		GroupID: "core",
		Args:    cobra.RangeArgs(1, 2),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) == 0 {
				return phaseNames(), cobra.ShellCompDirectiveNoFileComp
			}
			return nil, cobra.ShellCompDirectiveDefault
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.GetLogger("cmd.resolve")

			phase, err := engine.ParsePhase(args[0])
			if err != nil {
				return err
			}
			var target string
			if len(args) > 1 {
				target = args[1]
			}
			if phase.NeedsTarget() && target == "" {
				return errors.Newf(errors.ErrInvalidInput, MsgErrNeedsTarget, phase).
					WithDetail("phase", phase.String())
			}

			renderer, err := s.Renderer(cmd)
			if err != nil {
				return err
			}
			e, err := s.Engine(cmd.Context())
			if err != nil {
				return err
			}

			result := &display.PhaseResult{Phase: phase.String(), Target: target, Plugins: []display.PluginRow{}}
			if namesOnly {
				ids, err := e.Names(phase, target)
				if err != nil {
					return err
				}
				for _, id := range ids {
					result.Plugins = append(result.Plugins, display.PluginRow{ID: id})
				}
			} else {
				plugins, err := e.Plugins(cmd.Context(), phase, target)
				if err != nil {
					return err
				}
				for _, p := range plugins {
					result.Plugins = append(result.Plugins, display.PluginRow{
						ID:      p.ID,
						Version: p.Version,
						Path:    p.PackagePath,
					})
				}
			}

			logger.Debug().
				Str("phase", phase.String()).
				Str("target", target).
				Int("plugins", len(result.Plugins)).
				Msg("Resolved phase")

			return renderer.RenderResult(result)
		},
	}

	cmd.Flags().BoolVarP(&namesOnly, "names-only", "n", false, MsgFlagNamesOnly)
	return cmd
}

func newValidateCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:     "validate",
		Short:   MsgValidateShort,
		Long:    MsgValidateLong,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			renderer, err := s.Renderer(cmd)
			if err != nil {
				return err
			}
			e, err := s.Engine(cmd.Context())
			if err != nil {
				return err
			}

			report := &display.ValidationReport{ConfigPath: e.ConfigPath()}
			for _, id := range e.Record().PluginNames() {
				check := display.Check{ID: id}
				if p, err := e.LoadPlugin(cmd.Context(), id); err != nil {
					check.Error = err.Error()
				} else {
					check.OK = true
					check.Version = p.Version
				}
				report.Checks = append(report.Checks, check)
			}

			if err := renderer.RenderResult(report); err != nil {
				return err
			}
			if failed := report.Failed(); failed > 0 {
				return errors.Newf(errors.ErrPluginLoad, MsgErrValidate, failed, len(report.Checks)).
					WithDetail("path", report.ConfigPath)
			}
			return nil
		},
	}
}

func newShowCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:     "show",
		Short:   MsgShowShort,
		Long:    MsgShowLong,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			renderer, err := s.Renderer(cmd)
			if err != nil {
				return err
			}
			record, err := s.Record(cmd.Context())
			if err != nil {
				return err
			}
			data, err := record.ToYAML()
			if err != nil {
				return err
			}
			return renderer.RenderResult(&display.Document{
				Title:    record.ConfigPath,
				Language: "yaml",
				Content:  string(data),
			})
		},
	}
}

func newSettingsCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:     "settings",
		Short:   MsgSettingsShort,
		Long:    MsgSettingsLong,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			renderer, err := s.Renderer(cmd)
			if err != nil {
				return err
			}
			settings, err := s.Settings()
			if err != nil {
				return err
			}
			data, err := settings.ToTOML()
			if err != nil {
				return err
			}
			return renderer.RenderResult(&display.Document{
				Title:    fmt.Sprintf("settings for %s", s.projectDir()),
				Language: "toml",
				Content:  string(data),
			})
		},
	}
}
