package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

func newMetaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "meta",
		Short: "Manage relationship metadata",
	}

	cmd.AddCommand(
		newMetaSetCmd(),
		newMetaGetCmd(),
		newMetaDeleteCmd(),
		newMetaListCmd(),
	)

	return cmd
}

func newMetaSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <id> <key> <value>",
		Short: "Add a metadata value to a relationship",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			return withDeps(cmd.Context(), func(d *Deps) error {
				if err := d.Relationships.HandleAddMeta(cmd.Context(), id, args[1], args[2]); err != nil {
					return fmt.Errorf("adding metadata: %w", err)
				}
				fmt.Printf("Set %s on relationship %d.\n", args[1], id)
				return nil
			})
		},
	}
}

func newMetaGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id> <key>",
		Short: "Print the metadata values for a key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			return withDeps(cmd.Context(), func(d *Deps) error {
				values, err := d.Relationships.HandleGetMeta(cmd.Context(), id, args[1])
				if err != nil {
					return fmt.Errorf("reading metadata: %w", err)
				}
				for _, v := range values {
					fmt.Println(v)
				}
				return nil
			})
		},
	}
}

func newMetaDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id> <key>",
		Short: "Delete all metadata values for a key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			return withDeps(cmd.Context(), func(d *Deps) error {
				if err := d.Relationships.HandleDeleteMeta(cmd.Context(), id, args[1]); err != nil {
					return fmt.Errorf("deleting metadata: %w", err)
				}
				fmt.Printf("Deleted %s from relationship %d.\n", args[1], id)
				return nil
			})
		},
	}
}

func newMetaListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <id>",
		Short: "List all metadata on a relationship",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			return withDeps(cmd.Context(), func(d *Deps) error {
				meta, err := d.Relationships.HandleListMeta(cmd.Context(), id)
				if err != nil {
					return fmt.Errorf("listing metadata: %w", err)
				}
				if len(meta) == 0 {
					fmt.Println("No metadata.")
					return nil
				}

				keys := make([]string, 0, len(meta))
				for k := range meta {
					keys = append(keys, k)
				}
				sort.Strings(keys)

				for _, k := range keys {
					for _, v := range meta[k] {
						fmt.Printf("%s\t%s\n", k, v)
					}
				}
				return nil
			})
		},
	}
}
