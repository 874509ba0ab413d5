package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newTypesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "Show registered relationship types, object kinds, and statuses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDeps(cmd.Context(), func(d *Deps) error {
				reg := d.Relationships.Registry()

				fmt.Println("Types:")
				for _, t := range reg.Types() {
					fmt.Printf("  %-24s %s (%s -> %s)\n", t.ID, t.Name, t.From.ID, t.To.ID)
				}

				fmt.Println("\nObject kinds:")
				for _, k := range reg.Kinds() {
					fmt.Printf("  %-24s %s\n", k.ID, k.Name)
				}

				fmt.Println("\nStatuses:")
				for _, s := range reg.Statuses() {
					fmt.Printf("  %-24s %s\n", s.ID, s.Name)
				}
				return nil
			})
		},
	}
}
