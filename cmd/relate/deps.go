package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ersonp/relate-core/internal/application/handlers"
	"github.com/ersonp/relate-core/internal/domain/entities"
	"github.com/ersonp/relate-core/internal/domain/ports"
	"github.com/ersonp/relate-core/internal/domain/services"
	memorycache "github.com/ersonp/relate-core/internal/infrastructure/cache/memory"
	rediscache "github.com/ersonp/relate-core/internal/infrastructure/cache/redis"
	"github.com/ersonp/relate-core/internal/infrastructure/config"
	"github.com/ersonp/relate-core/internal/infrastructure/relationaldb/sqlite"
	"github.com/ersonp/relate-core/internal/platform/logger"
)

// Deps holds high-level dependencies for commands. Only handlers are
// exposed; services and repositories stay internal.
type Deps struct {
	Config        *config.Config
	Log           *logger.Logger
	Relationships *handlers.RelationshipHandler
	Queries       *handlers.QueryHandler
}

// withDeps loads config and builds dependencies, then calls the
// provided function. Cleanup is handled automatically.
func withDeps(ctx context.Context, fn func(*Deps) error) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	cfg, err := config.Load(cwd)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log, err := logger.New(cfg.Log.Mode)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer log.Sync()

	if cfg.SQLite.Path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.SQLite.Path), 0o755); err != nil {
			return fmt.Errorf("creating database directory: %w", err)
		}
	}

	repo, err := sqlite.NewRepository(cfg.SQLite)
	if err != nil {
		return fmt.Errorf("creating sqlite repository: %w", err)
	}
	defer repo.Close()

	if err := repo.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("ensuring sqlite schema: %w", err)
	}

	var cache ports.Cache
	switch cfg.Cache.Backend {
	case config.CacheBackendRedis:
		rc, err := rediscache.New(ctx, cfg.Cache.Redis)
		if err != nil {
			return fmt.Errorf("creating redis cache: %w", err)
		}
		defer rc.Close()
		cache = rc
	default:
		cache = memorycache.New()
	}

	registry := entities.DefaultRegistry()
	metrics := services.NewMetrics(prometheus.NewRegistry())

	store := services.NewStore(repo, cache, log, metrics)
	store.AddValidator(services.NewTypeValidator(registry))
	engine := services.NewEngine(repo, cache, store, log, metrics)

	deps := &Deps{
		Config:        cfg,
		Log:           log,
		Relationships: handlers.NewRelationshipHandler(store, registry),
		Queries:       handlers.NewQueryHandler(engine),
	}

	return fn(deps)
}
