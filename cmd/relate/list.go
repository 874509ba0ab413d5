package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ersonp/relate-core/internal/application/handlers"
)

type listFlags struct {
	relType string
	status  string
	slug    string
	search  string
	parent  int64
	author  int64
	from    []int64
	to      []int64
	number  int
	page    int
	orderBy string
	order   string
	idsOnly bool
	count   bool
}

func newListCmd() *cobra.Command {
	var flags listFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List relationships matching filters",
		Long: `Queries relationships with optional filters, ordering, and paging.

Examples:
  relate list --type post_post --status active
  relate list --from 12 --orderby created --order DESC
  relate list --search "foo*bar" --number 20 --page 2
  relate list --type post_post --count`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd, flags)
		},
	}

	cmd.Flags().StringVar(&flags.relType, "type", "", "Filter by relationship type")
	cmd.Flags().StringVar(&flags.status, "status", "", "Filter by status")
	cmd.Flags().StringVar(&flags.slug, "slug", "", "Filter by slug")
	cmd.Flags().StringVar(&flags.search, "search", "", "Free-text search (use * as wildcard)")
	cmd.Flags().Int64Var(&flags.parent, "parent", 0, "Filter by parent relationship id")
	cmd.Flags().Int64Var(&flags.author, "author", 0, "Filter by author id")
	cmd.Flags().Int64SliceVar(&flags.from, "from", nil, "Filter by from endpoint ids")
	cmd.Flags().Int64SliceVar(&flags.to, "to", nil, "Filter by to endpoint ids")
	cmd.Flags().IntVar(&flags.number, "number", 0, "Page size (negative for unlimited)")
	cmd.Flags().IntVar(&flags.page, "page", 1, "Page number")
	cmd.Flags().StringVar(&flags.orderBy, "orderby", "", "Order keys, comma separated")
	cmd.Flags().StringVar(&flags.order, "order", "ASC", "Order direction: ASC or DESC")
	cmd.Flags().BoolVar(&flags.idsOnly, "ids", false, "Print only relationship ids")
	cmd.Flags().BoolVar(&flags.count, "count", false, "Print only the matching count")

	return cmd
}

func runList(cmd *cobra.Command, flags listFlags) error {
	req := handlers.ListRequest{
		Type:    flags.relType,
		Status:  flags.status,
		Slug:    flags.slug,
		Search:  flags.search,
		Parent:  flags.parent,
		Author:  flags.author,
		FromIn:  flags.from,
		ToIn:    flags.to,
		Number:  flags.number,
		Page:    flags.page,
		OrderBy: flags.orderBy,
		Order:   flags.order,
		IDsOnly: flags.idsOnly,
	}

	return withDeps(cmd.Context(), func(d *Deps) error {
		ctx := cmd.Context()

		if flags.count {
			n, err := d.Queries.HandleCount(ctx, req)
			if err != nil {
				return fmt.Errorf("counting relationships: %w", err)
			}
			fmt.Println(n)
			return nil
		}

		result, err := d.Queries.HandleList(ctx, req)
		if err != nil {
			return fmt.Errorf("listing relationships: %w", err)
		}

		if flags.idsOnly {
			for _, id := range result.IDs {
				fmt.Println(id)
			}
			return nil
		}

		if len(result.Relationships) == 0 {
			fmt.Println("No relationships found.")
			return nil
		}

		fmt.Printf("%-6s %-22s %-10s %-8s %-8s %s\n", "ID", "TYPE", "STATUS", "FROM", "TO", "NAME")
		for _, rel := range result.Relationships {
			fmt.Printf("%-6d %-22s %-10s %-8d %-8d %s\n",
				rel.ID, rel.Type, rel.Status, rel.FromID, rel.ToID, rel.Name)
		}
		fmt.Printf("\n%d of %d total", len(result.Relationships), result.Found)
		if result.MaxPages > 1 {
			fmt.Printf(" (page %d of %d)", flags.page, result.MaxPages)
		}
		fmt.Println()
		return nil
	})
}
