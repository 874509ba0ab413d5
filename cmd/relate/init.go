package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ersonp/relate-core/internal/infrastructure/config"
	"github.com/ersonp/relate-core/internal/infrastructure/relationaldb/sqlite"
)

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the .relate config and database schema",
		Args:  cobra.NoArgs,
		RunE:  runInit,
	}
}

func runInit(cmd *cobra.Command, _ []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	if config.Exists(cwd) {
		fmt.Println("Config already exists:", config.ConfigFilePath(cwd))
	} else {
		cfg := config.Default(cwd)
		if err := cfg.Save(cwd); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Println("Created config:", config.ConfigFilePath(cwd))
	}

	cfg, err := config.Load(cwd)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.SQLite.Path), 0o755); err != nil {
		return fmt.Errorf("creating database directory: %w", err)
	}

	repo, err := sqlite.NewRepository(cfg.SQLite)
	if err != nil {
		return fmt.Errorf("creating sqlite repository: %w", err)
	}
	defer repo.Close()

	if err := repo.EnsureSchema(cmd.Context()); err != nil {
		return fmt.Errorf("ensuring schema: %w", err)
	}

	fmt.Println("Database ready:", cfg.SQLite.Path)
	return nil
}
