package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ersonp/relate-core/internal/domain/entities"
)

func newGetCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show a relationship by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withDeps(cmd.Context(), func(d *Deps) error {
				rel, err := d.Relationships.HandleGet(cmd.Context(), id)
				if err != nil {
					return err
				}
				if asJSON {
					enc := json.NewEncoder(os.Stdout)
					enc.SetIndent("", "  ")
					return enc.Encode(rel)
				}
				printRelationship(rel)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid relationship id: %s", s)
	}
	return id, nil
}

func printRelationship(rel *entities.Relationship) {
	fmt.Printf("ID:       %d\n", rel.ID)
	fmt.Printf("Type:     %s\n", rel.Type)
	fmt.Printf("Status:   %s\n", rel.Status)
	fmt.Printf("From:     %d\n", rel.FromID)
	fmt.Printf("To:       %d\n", rel.ToID)
	if rel.Name != "" {
		fmt.Printf("Name:     %s\n", rel.Name)
	}
	if rel.Slug != "" {
		fmt.Printf("Slug:     %s\n", rel.Slug)
	}
	if rel.Content != "" {
		fmt.Printf("Content:  %s\n", rel.Content)
	}
	if rel.Parent != 0 {
		fmt.Printf("Parent:   %d\n", rel.Parent)
	}
	if rel.Order != 0 {
		fmt.Printf("Order:    %d\n", rel.Order)
	}
	fmt.Printf("Author:   %d\n", rel.Author)
	fmt.Printf("Created:  %s\n", rel.Created.Format("2006-01-02 15:04:05"))
	fmt.Printf("Modified: %s\n", rel.Modified.Format("2006-01-02 15:04:05"))
}
