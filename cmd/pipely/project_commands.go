package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"pipely/internal/workflow"
)

func newProjectCommand(ctx *commandContext) *cobra.Command {
	projectCmd := &cobra.Command{
		Use:   "project",
		Short: "Create and list projects",
	}
	projectCmd.AddCommand(newProjectCreateCommand(ctx))
	projectCmd.AddCommand(newProjectListCommand(ctx))
	return projectCmd
}

func newProjectCreateCommand(ctx *commandContext) *cobra.Command {
	var (
		code     string
		name     string
		template string
		parent   string
		asJSON   bool
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Scaffold a project folder from a template",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(code) == "" {
				return fmt.Errorf("--code is required")
			}
			return ctx.withManager(cmd, func(mgr *workflow.Manager) error {
				res, err := mgr.CreateProject(cmd.Context(), workflow.ProjectRequest{
					Code:     code,
					Name:     name,
					Template: template,
					Parent:   parent,
				})
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, projectJSON{
						Code:     res.ShowCode,
						Name:     res.Name,
						Template: res.Template,
						Root:     res.Root,
						Existing: res.Existing,
						Created:  res.Created,
					})
				}
				out := cmd.OutOrStdout()
				if res.Existing {
					fmt.Fprintf(out, "Project %s already exists at %s\n", res.ShowCode, res.Root)
				} else {
					fmt.Fprintf(out, "Created project %s at %s\n", res.ShowCode, res.Root)
				}
				fmt.Fprintf(out, "Template: %s (%d folders created)\n", res.Template, len(res.Created))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&code, "code", "", "Short show code, e.g. DMO")
	cmd.Flags().StringVar(&name, "name", "", "Project name, e.g. \"Poku Short 30s\"")
	cmd.Flags().StringVarP(&template, "template", "t", "", "Project template (animation, game, art)")
	cmd.Flags().StringVar(&parent, "root", "", "Directory that will contain the project (default: paths.projects_root)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

type projectJSON struct {
	Code      string    `json:"code"`
	Name      string    `json:"name,omitempty"`
	Template  string    `json:"template"`
	Root      string    `json:"root"`
	Existing  bool      `json:"existing,omitempty"`
	Created   []string  `json:"created,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitzero"`
}

func newProjectListCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List projects registered on this machine",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openRegistry()
			if err != nil {
				return err
			}
			defer store.Close()

			shows, err := store.Shows(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				items := make([]projectJSON, 0, len(shows))
				for _, show := range shows {
					items = append(items, projectJSON{Code: show.Code, Name: show.Name, Template: show.Template, Root: show.Root, UpdatedAt: show.UpdatedAt})
				}
				return writeJSON(cmd, items)
			}
			if len(shows) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No projects registered. Create one with: pipely project create --code DMO --name \"My Short\"")
				return nil
			}
			rows := make([][]string, 0, len(shows))
			for _, show := range shows {
				rows = append(rows, []string{show.Code, show.Name, show.Template, show.Root})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(cmd.OutOrStdout(), []string{"Code", "Name", "Template", "Root"}, rows, nil))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}
