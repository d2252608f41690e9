package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"pipely/internal/config"
	"pipely/internal/layout"
	"pipely/internal/logging"
	"pipely/internal/registry"
	"pipely/internal/workfile"
	"pipely/internal/workflow"
)

type projectFlags struct {
	project  string
	show     string
	template string
}

func (f *projectFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.project, "project", "p", "", "Project root (default: the project containing the working directory)")
	cmd.Flags().StringVar(&f.show, "show", "", "Registered show code to use instead of --project")
	cmd.Flags().StringVarP(&f.template, "template", "t", "", "Override the project template")
}

func newWorkfileCommand(ctx *commandContext) *cobra.Command {
	workfileCmd := &cobra.Command{
		Use:     "workfile",
		Aliases: []string{"wf"},
		Short:   "Create, list and open versioned workfiles",
	}
	workfileCmd.AddCommand(newWorkfileAddCommand(ctx))
	workfileCmd.AddCommand(newWorkfileNextCommand(ctx))
	workfileCmd.AddCommand(newWorkfileListCommand(ctx))
	workfileCmd.AddCommand(newWorkfileOpenCommand(ctx))
	workfileCmd.AddCommand(newWorkfileHistoryCommand(ctx))
	return workfileCmd
}

type workfileJSON struct {
	Target     string    `json:"target"`
	TargetKind string    `json:"target_kind"`
	Kind       string    `json:"kind"`
	Version    int       `json:"version"`
	FileName   string    `json:"file_name"`
	Path       string    `json:"path"`
	Size       int64     `json:"size,omitempty"`
	Modified   time.Time `json:"modified,omitzero"`
	Notice     string    `json:"notice,omitempty"`
	Retried    bool      `json:"retried,omitempty"`
}

func resolveTargetKind(logger *slog.Logger, value, target string) (layout.TargetKind, error) {
	kind, inferred, err := workflow.ResolveTargetKind(value, target)
	if err != nil {
		return "", err
	}
	if inferred {
		logger.Info("target type inferred from name",
			logging.String(logging.FieldTarget, target),
			logging.String("target_kind", string(kind)),
		)
	}
	return kind, nil
}

func newWorkfileAddCommand(ctx *commandContext) *cobra.Command {
	var (
		pf         projectFlags
		kind       string
		targetType string
		open       bool
		asJSON     bool
	)
	cmd := &cobra.Command{
		Use:   "add <target>",
		Short: "Create the next version of a workfile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := args[0]
			return ctx.withManager(cmd, func(mgr *workflow.Manager) error {
				project, err := ctx.resolveProject(cmd, mgr, pf.project, pf.show, pf.template)
				if err != nil {
					return err
				}
				tk, err := resolveTargetKind(ctx.loggerFor(cmd.Context()), targetType, target)
				if err != nil {
					return err
				}
				res, err := mgr.AddWorkfile(cmd.Context(), workflow.AddRequest{
					Project:    project,
					Target:     target,
					TargetKind: tk,
					Kind:       kind,
				})
				if err != nil {
					return err
				}

				if asJSON {
					if err := writeJSON(cmd, workfileJSON{
						Target:     res.Target,
						TargetKind: string(res.TargetKind),
						Kind:       res.Kind.Name,
						Version:    res.Version,
						FileName:   res.FileName,
						Path:       res.Path,
						Notice:     res.Notice,
						Retried:    res.Retried,
					}); err != nil {
						return err
					}
				} else {
					out := cmd.OutOrStdout()
					fmt.Fprintf(out, "Created %s\n", res.FileName)
					fmt.Fprintf(out, "Path: %s\n", res.Path)
					if res.Retried {
						fmt.Fprintln(out, "The first version number was taken by another session; used the next one.")
					}
					if res.Notice != "" {
						fmt.Fprintf(out, "Note: %s\n", res.Notice)
					}
				}
				if !open {
					return nil
				}
				cfg, err := ctx.ensureConfig()
				if err != nil {
					return err
				}
				file := res.Path
				if res.Kind.Placeholder {
					file = ""
				}
				return launchWorkfile(cmd, cfg, res.Kind, file, res.Dir)
			})
		},
	}
	pf.register(cmd)
	cmd.Flags().StringVarP(&kind, "kind", "k", "", "Workfile kind ("+strings.Join(workfile.KindNames(), ", ")+")")
	cmd.Flags().StringVar(&targetType, "type", "auto", "Target type: shot, asset or auto (shot when the name contains _SH)")
	cmd.Flags().BoolVar(&open, "open", false, "Open the new workfile in its application")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	_ = cmd.MarkFlagRequired("kind")
	return cmd
}

func newWorkfileNextCommand(ctx *commandContext) *cobra.Command {
	var (
		pf         projectFlags
		kind       string
		targetType string
		asJSON     bool
	)
	cmd := &cobra.Command{
		Use:   "next <target>",
		Short: "Show the version the next add would create",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := args[0]
			return ctx.withManager(cmd, func(mgr *workflow.Manager) error {
				project, err := ctx.resolveProject(cmd, mgr, pf.project, pf.show, pf.template)
				if err != nil {
					return err
				}
				tk, err := resolveTargetKind(ctx.loggerFor(cmd.Context()), targetType, target)
				if err != nil {
					return err
				}
				version, path, err := mgr.NextWorkfile(workflow.AddRequest{Project: project, Target: target, TargetKind: tk, Kind: kind})
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, workfileJSON{
						Target:     target,
						TargetKind: string(tk),
						Kind:       kind,
						Version:    version,
						FileName:   filepath.Base(path),
						Path:       path,
					})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Next: %s (version %d)\n", filepath.Base(path), version)
				fmt.Fprintf(cmd.OutOrStdout(), "Path: %s\n", path)
				return nil
			})
		},
	}
	pf.register(cmd)
	cmd.Flags().StringVarP(&kind, "kind", "k", "", "Workfile kind")
	cmd.Flags().StringVar(&targetType, "type", "auto", "Target type: shot, asset or auto")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	_ = cmd.MarkFlagRequired("kind")
	return cmd
}

func newWorkfileListCommand(ctx *commandContext) *cobra.Command {
	var (
		pf         projectFlags
		kind       string
		targetType string
		asJSON     bool
	)
	cmd := &cobra.Command{
		Use:   "list [target]",
		Short: "List workfiles on disk",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var target string
			if len(args) == 1 {
				target = args[0]
			}
			return ctx.withManager(cmd, func(mgr *workflow.Manager) error {
				project, err := ctx.resolveProject(cmd, mgr, pf.project, pf.show, pf.template)
				if err != nil {
					return err
				}
				var tk layout.TargetKind
				if strings.TrimSpace(targetType) != "" {
					if tk, err = layout.ParseTargetKind(targetType); err != nil {
						return err
					}
				}
				entries, err := mgr.ListWorkfiles(workflow.ListRequest{Project: project, Target: target, TargetKind: tk, Kind: kind})
				if err != nil {
					return err
				}
				if asJSON {
					items := make([]workfileJSON, 0, len(entries))
					for _, e := range entries {
						items = append(items, workfileJSON{
							Target:     e.Target,
							TargetKind: string(e.TargetKind),
							Kind:       e.Kind,
							Version:    e.Version,
							FileName:   e.FileName,
							Path:       e.Path,
							Size:       e.Size,
							Modified:   e.ModTime,
						})
					}
					return writeJSON(cmd, items)
				}
				if len(entries) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No workfiles found")
					return nil
				}
				rows := make([][]string, 0, len(entries))
				for _, e := range entries {
					rows = append(rows, []string{
						e.Target,
						string(e.TargetKind),
						e.Kind,
						fmt.Sprintf("w%03d", e.Version),
						e.ModTime.Local().Format("2006-01-02 15:04"),
						formatSize(e.Size),
						e.FileName,
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(cmd.OutOrStdout(),
					[]string{"Target", "Type", "Kind", "Version", "Modified", "Size", "File"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft, alignRight, alignLeft},
				))
				return nil
			})
		},
	}
	pf.register(cmd)
	cmd.Flags().StringVarP(&kind, "kind", "k", "", "Only list this kind")
	cmd.Flags().StringVar(&targetType, "type", "", "Only list shots or assets")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func newWorkfileOpenCommand(ctx *commandContext) *cobra.Command {
	var (
		pf         projectFlags
		kind       string
		targetType string
		file       string
	)
	cmd := &cobra.Command{
		Use:   "open [target]",
		Short: "Open the latest workfile (or --file) in its application",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if strings.TrimSpace(file) != "" {
				wfKind, ok := workfile.KindForExtension(filepath.Ext(file))
				if !ok {
					return fmt.Errorf("%w: no kind uses the %q extension", workfile.ErrUnknownKind, filepath.Ext(file))
				}
				return launchWorkfile(cmd, cfg, wfKind, file, filepath.Dir(file))
			}
			if len(args) == 0 {
				return errors.New("pass a target or --file")
			}
			target := args[0]
			return ctx.withManager(cmd, func(mgr *workflow.Manager) error {
				project, err := ctx.resolveProject(cmd, mgr, pf.project, pf.show, pf.template)
				if err != nil {
					return err
				}
				tk, err := resolveTargetKind(ctx.loggerFor(cmd.Context()), targetType, target)
				if err != nil {
					return err
				}
				entry, err := mgr.LatestWorkfile(project, target, tk, kind)
				if err != nil {
					return err
				}
				wfKind, err := workfile.LookupKind(entry.Kind)
				if err != nil {
					return err
				}
				return launchWorkfile(cmd, cfg, wfKind, entry.Path, filepath.Dir(entry.Path))
			})
		},
	}
	pf.register(cmd)
	cmd.Flags().StringVarP(&kind, "kind", "k", "", "Workfile kind (default: newest of any kind)")
	cmd.Flags().StringVar(&targetType, "type", "auto", "Target type: shot, asset or auto")
	cmd.Flags().StringVarP(&file, "file", "f", "", "Open this file instead of looking up a target")
	return cmd
}

func launchWorkfile(cmd *cobra.Command, cfg *config.Config, kind workfile.Kind, file, dir string) error {
	launchCtx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()
	launched, err := newLocator(cfg).Launch(launchCtx, kind.Name, file, dir)
	if err != nil {
		return err
	}
	subject := kind.Application
	if file != "" {
		subject = filepath.Base(file) + " in " + kind.Application
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Opened %s (pid %d)\n", subject, launched.PID)
	return nil
}

func newWorkfileHistoryCommand(ctx *commandContext) *cobra.Command {
	var (
		show   string
		target string
		kind   string
		limit  int
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recently created workfiles from the registry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openRegistry()
			if err != nil {
				return err
			}
			defer store.Close()

			rows, err := store.Workfiles(cmd.Context(), registry.Filter{ShowCode: show, Target: target, Kind: kind, Limit: limit})
			if err != nil {
				return err
			}
			if asJSON {
				items := make([]workfileJSON, 0, len(rows))
				for _, r := range rows {
					items = append(items, workfileJSON{
						Target:     r.Target,
						TargetKind: r.TargetKind,
						Kind:       r.Kind,
						Version:    r.Version,
						FileName:   filepath.Base(r.Path),
						Path:       r.Path,
						Modified:   r.CreatedAt,
					})
				}
				return writeJSON(cmd, items)
			}
			if len(rows) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No workfiles recorded")
				return nil
			}
			table := make([][]string, 0, len(rows))
			for _, r := range rows {
				table = append(table, []string{
					r.CreatedAt.Local().Format("2006-01-02 15:04"),
					r.ShowCode,
					r.Target,
					r.Kind,
					strconv.Itoa(r.Version),
					r.Path,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(cmd.OutOrStdout(),
				[]string{"Created", "Show", "Target", "Kind", "Version", "Path"},
				table,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
			))
			return nil
		},
	}
	cmd.Flags().StringVar(&show, "show", "", "Only this show code")
	cmd.Flags().StringVar(&target, "target", "", "Only this target")
	cmd.Flags().StringVarP(&kind, "kind", "k", "", "Only this kind")
	cmd.Flags().IntVarP(&limit, "limit", "n", 50, "Maximum rows (0 for all)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func formatSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(size)/float64(div), "KMGTPE"[exp])
}
