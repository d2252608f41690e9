package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"pipely/internal/workfile"
)

type kindJSON struct {
	Name        string `json:"name"`
	Extension   string `json:"extension"`
	Application string `json:"application"`
	Placeholder bool   `json:"placeholder"`
}

func newKindsCommand() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:         "kinds",
		Short:       "List the workfile kinds pipely can create",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			kinds := workfile.Kinds()
			if asJSON {
				items := make([]kindJSON, 0, len(kinds))
				for _, k := range kinds {
					items = append(items, kindJSON{Name: k.Name, Extension: k.Extension, Application: k.Application, Placeholder: k.Placeholder})
				}
				return writeJSON(cmd, items)
			}
			rows := make([][]string, 0, len(kinds))
			for _, k := range kinds {
				rows = append(rows, []string{k.Name, "." + k.Extension, k.Application, creationMode(k)})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(cmd.OutOrStdout(),
				[]string{"Kind", "Extension", "Application", "Creation"}, rows, nil))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func creationMode(k workfile.Kind) string {
	switch {
	case k.Placeholder:
		return "placeholder, Save As from " + k.Application
	case k.Name == "blender":
		return "headless Blender"
	default:
		return "generated"
	}
}
