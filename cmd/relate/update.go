package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ersonp/relate-core/internal/application/handlers"
)

func newUpdateCmd() *cobra.Command {
	var (
		name    string
		slug    string
		content string
		relType string
		status  string
		parent  int64
		order   int64
		from    int64
		to      int64
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update fields of a relationship",
		Long: `Updates only the flags you pass; everything else is left as-is.

Examples:
  relate update 12 --name "Renamed"
  relate update 12 --status inactive --order 3`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			var req handlers.UpdateRequest
			f := cmd.Flags()
			if f.Changed("name") {
				req.Name = &name
			}
			if f.Changed("slug") {
				req.Slug = &slug
			}
			if f.Changed("content") {
				req.Content = &content
			}
			if f.Changed("type") {
				req.Type = &relType
			}
			if f.Changed("status") {
				req.Status = &status
			}
			if f.Changed("parent") {
				req.Parent = &parent
			}
			if f.Changed("order") {
				req.Order = &order
			}
			if f.Changed("from") {
				req.FromID = &from
			}
			if f.Changed("to") {
				req.ToID = &to
			}

			return withDeps(cmd.Context(), func(d *Deps) error {
				rel, changed, err := d.Relationships.HandleUpdate(cmd.Context(), id, req)
				if err != nil {
					return fmt.Errorf("updating relationship: %w", err)
				}
				if !changed {
					fmt.Printf("Relationship %d unchanged.\n", rel.ID)
					return nil
				}
				fmt.Printf("Updated relationship %d.\n", rel.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&slug, "slug", "", "Slug")
	cmd.Flags().StringVar(&content, "content", "", "Free-text content")
	cmd.Flags().StringVar(&relType, "type", "", "Relationship type")
	cmd.Flags().StringVar(&status, "status", "", "Status: active or inactive")
	cmd.Flags().Int64Var(&parent, "parent", 0, "Parent relationship id")
	cmd.Flags().Int64Var(&order, "order", 0, "Manual ordering position")
	cmd.Flags().Int64Var(&from, "from", 0, "From endpoint object id")
	cmd.Flags().Int64Var(&to, "to", 0, "To endpoint object id")

	return cmd
}
