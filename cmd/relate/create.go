package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ersonp/relate-core/internal/application/handlers"
)

type createFlags struct {
	relType string
	from    int64
	to      int64
	name    string
	slug    string
	content string
	status  string
	parent  int64
	order   int64
	author  int64
}

func newCreateCmd() *cobra.Command {
	var flags createFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a relationship between two objects",
		Long: `Creates a typed, directed relationship edge.

Examples:
  relate create --type post_post --from 12 --to 47
  relate create --type post_taxonomy_term --from 9 --to 12 --name "Featured" --status inactive`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCreate(cmd, flags)
		},
	}

	cmd.Flags().StringVar(&flags.relType, "type", "", "Relationship type (required)")
	cmd.Flags().Int64Var(&flags.from, "from", 0, "From endpoint object id (required)")
	cmd.Flags().Int64Var(&flags.to, "to", 0, "To endpoint object id (required)")
	cmd.Flags().StringVar(&flags.name, "name", "", "Display name")
	cmd.Flags().StringVar(&flags.slug, "slug", "", "Slug (derived from name when empty)")
	cmd.Flags().StringVar(&flags.content, "content", "", "Free-text content")
	cmd.Flags().StringVar(&flags.status, "status", "", "Status: active or inactive (default active)")
	cmd.Flags().Int64Var(&flags.parent, "parent", 0, "Parent relationship id")
	cmd.Flags().Int64Var(&flags.order, "order", 0, "Manual ordering position")
	cmd.Flags().Int64Var(&flags.author, "author", 0, "Author user id")
	_ = cmd.MarkFlagRequired("type")

	return cmd
}

func runCreate(cmd *cobra.Command, flags createFlags) error {
	if flags.from < 0 || flags.to < 0 {
		return errors.New("endpoint ids must be non-negative")
	}

	return withDeps(cmd.Context(), func(d *Deps) error {
		rel, err := d.Relationships.HandleCreate(cmd.Context(), handlers.CreateRequest{
			Type:    flags.relType,
			FromID:  flags.from,
			ToID:    flags.to,
			Name:    flags.name,
			Slug:    flags.slug,
			Content: flags.content,
			Status:  flags.status,
			Parent:  flags.parent,
			Order:   flags.order,
			Author:  flags.author,
		})
		if err != nil {
			return fmt.Errorf("creating relationship: %w", err)
		}

		fmt.Printf("Created relationship %d (%s: %d -> %d, %s)\n",
			rel.ID, rel.Type, rel.FromID, rel.ToID, rel.Status)
		return nil
	})
}
