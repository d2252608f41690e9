package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"pipely/internal/logging"
	"pipely/internal/logs"
)

func newLogsCommand(ctx *commandContext) *cobra.Command {
	var (
		lines  int
		follow bool
		raw    bool
		filter logs.Filter
	)
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show recent entries from the pipely log file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if cfg.Paths.LogDir == "" {
				return errors.New("no log directory configured")
			}
			path := filepath.Join(cfg.Paths.LogDir, logging.LogFileName)
			out := cmd.OutOrStdout()

			res, err := logs.Tail(cmd.Context(), path, logs.TailOptions{Offset: -1, Limit: lines})
			if err != nil {
				return err
			}
			printLogLines(out, res.Lines, filter, raw)
			if !follow {
				if len(res.Lines) == 0 {
					fmt.Fprintf(out, "No log entries in %s\n", path)
				}
				return nil
			}
			offset := res.Offset
			for {
				res, err := logs.Tail(cmd.Context(), path, logs.TailOptions{Offset: offset, Follow: true, Wait: 5 * time.Second})
				if errors.Is(err, context.Canceled) {
					return nil
				}
				if err != nil {
					return err
				}
				printLogLines(out, res.Lines, filter, raw)
				offset = res.Offset
			}
		},
	}
	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "Number of lines to read from the end of the log")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Keep printing new entries until interrupted")
	cmd.Flags().BoolVar(&raw, "raw", false, "Print the JSON lines unchanged")
	cmd.Flags().StringVar(&filter.RequestID, "request", "", "Only entries whose correlation id starts with this value")
	cmd.Flags().StringVar(&filter.Component, "component", "", "Only entries from this component")
	cmd.Flags().StringVar(&filter.MinLevel, "level", "", "Minimum level (debug, info, warn, error)")
	return cmd
}

func printLogLines(out io.Writer, lines []string, filter logs.Filter, raw bool) {
	for _, line := range lines {
		entry, ok := logs.ParseEntry(line)
		if !ok {
			fmt.Fprintln(out, line)
			continue
		}
		if !filter.Match(entry) {
			continue
		}
		if raw {
			fmt.Fprintln(out, line)
			continue
		}
		fmt.Fprintln(out, logs.Format(entry))
	}
}
