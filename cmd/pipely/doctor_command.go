package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"pipely/internal/deps"
	"pipely/internal/preflight"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check folders, the registry and installed applications",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := isTerminal(out)

			lines := renderSectionHeader("Configuration", colorize)
			configPath := ctx.configPath
			if configPath == "" {
				configPath = "(defaults)"
			}
			lines = append(lines, renderStatusLine("Config", statusInfo, configPath, colorize))
			lines = append(lines, renderStatusLine("Default template", statusInfo, cfg.Workfiles.DefaultTemplate, colorize))

			results := preflight.RunAll(cmd.Context(), cfg)
			lines = append(lines, "")
			lines = append(lines, renderSectionHeader("Folders", colorize)...)
			lines = append(lines, preflightLines(results, colorize)...)

			locator := newLocator(cfg)
			blender := "blender"
			if found, err := locator.Find("blender"); err == nil {
				blender = found
			} else if strings.TrimSpace(cfg.DCC.Blender) != "" {
				blender = cfg.DCC.Blender
			}
			probe := preflight.ProbeBlender(cmd.Context(), blender)
			headless := statusOK
			if !probe.Available {
				headless = statusWarn
			}

			statuses := preflight.CheckApplications(cfg)
			lines = append(lines, "")
			lines = append(lines, renderSectionHeader("Applications", colorize)...)
			lines = append(lines, renderStatusLine("Headless Blender", headless, probe.Detail(), colorize))
			lines = append(lines, applicationLines(statuses, colorize)...)

			for _, line := range lines {
				fmt.Fprintln(out, line)
			}
			if preflight.Failed(results) {
				return errors.New("doctor found problems")
			}
			if deps.MissingRequired(statuses) > 0 {
				return errors.New("required applications missing")
			}
			return nil
		},
	}
}
