package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <id> <active|inactive>",
		Short: "Set a relationship's status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			return withDeps(cmd.Context(), func(d *Deps) error {
				rel, changed, err := d.Relationships.HandleSetStatus(cmd.Context(), id, args[1])
				if err != nil {
					return fmt.Errorf("setting status: %w", err)
				}
				if !changed {
					fmt.Printf("Relationship %d already %s.\n", rel.ID, rel.Status)
					return nil
				}
				fmt.Printf("Relationship %d is now %s.\n", rel.ID, rel.Status)
				return nil
			})
		},
	}
}
