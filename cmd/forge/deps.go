package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/ersonp/campaign-forge/internal/application/handlers"
	"github.com/ersonp/campaign-forge/internal/domain/ports"
	"github.com/ersonp/campaign-forge/internal/domain/services"
	"github.com/ersonp/campaign-forge/internal/infrastructure/config"
	"github.com/ersonp/campaign-forge/internal/infrastructure/dice"
	llm "github.com/ersonp/campaign-forge/internal/infrastructure/llm/openai"
	"github.com/ersonp/campaign-forge/internal/infrastructure/logging"
	"github.com/ersonp/campaign-forge/internal/infrastructure/random"
	"github.com/ersonp/campaign-forge/internal/infrastructure/relationaldb/postgres"
	"github.com/ersonp/campaign-forge/internal/infrastructure/relationaldb/sqlite"
)

// Deps holds high-level dependencies for commands.
// Only handlers are exposed - services and repositories are internal.
type Deps struct {
	Config       *config.Config
	Logger       *zap.Logger
	Seed         int64
	Tables       *handlers.TableHandler
	Import       *handlers.ImportHandler
	Generate     *handlers.GenerateHandler
	Relationship *handlers.RelationshipHandler
	Story        *handlers.StoryHandler
	Session      *handlers.SessionHandler
}

// withDeps loads config and builds dependencies, then calls the provided function.
// It handles cleanup automatically.
func withDeps(ctx context.Context, fn func(*Deps) error) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	cfg, err := config.Load(cwd)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger, err := logging.New(cfg.Log.Level, globalVerbose)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	rng, err := random.NewFromSeed(cfg.SeedPtr())
	if err != nil {
		return fmt.Errorf("seeding random source: %w", err)
	}
	logger.Debug("random source ready", zap.Int64("seed", rng.Seed()))

	var registryOpts []services.RegistryOption
	registryOpts = append(registryOpts, services.WithRegistryLogger(logger))
	if cfg.Engine.OverwriteTables {
		registryOpts = append(registryOpts, services.WithOverwrite())
	}
	registry, err := services.NewDefaultRegistry(registryOpts...)
	if err != nil {
		return fmt.Errorf("registering built-in tables: %w", err)
	}

	importHandler := handlers.NewImportHandler(services.NewTableImportService(registry, logger))
	strategy := services.ConflictSkip
	if cfg.Engine.OverwriteTables {
		strategy = services.ConflictOverwrite
	}
	custom, err := importHandler.HandleDir(ctx, cfg.TablesDir(cwd), handlers.ImportOptions{OnConflict: strategy})
	if err != nil {
		return fmt.Errorf("loading custom tables: %w", err)
	}
	for _, e := range custom.Errors {
		logger.Warn("custom table rejected", zap.String("table", e.Table), zap.String("error", e.Error()))
	}
	if len(custom.Imported) > 0 {
		logger.Debug("custom tables loaded", zap.Strings("tables", custom.Imported))
	}

	resolver := services.NewResolver(registry, dice.NewRoller(rng), rng, logger)
	resolver.SetMaxDepth(cfg.Engine.MaxDepth)

	var narrator ports.Narrator
	if cfg.Narrator.Enabled() {
		client, err := llm.NewClient(cfg.Narrator)
		if err != nil {
			return fmt.Errorf("creating narrator: %w", err)
		}
		narrator = client
	}
	generator := services.NewGenerator(resolver, rng, narrator, logger)

	store, err := openStore(cfg, cwd)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("ensuring session store schema: %w", err)
	}

	sessions := handlers.NewSessionHandler(store, logger)
	story := handlers.NewStoryHandler(sessions)

	deps := &Deps{
		Config:       cfg,
		Logger:       logger,
		Seed:         rng.Seed(),
		Tables:       handlers.NewTableHandler(resolver, store, logger),
		Import:       importHandler,
		Generate:     handlers.NewGenerateHandler(generator, story),
		Relationship: handlers.NewRelationshipHandler(sessions),
		Story:        story,
		Session:      sessions,
	}

	return fn(deps)
}

// sessionName returns the --session flag value or the default session.
func sessionName() string {
	if globalSession == "" {
		return config.DefaultSession
	}
	return globalSession
}

// openStore opens the session store: PostgreSQL when a DSN is configured,
// otherwise SQLite, creating the database directory if needed.
func openStore(cfg *config.Config, cwd string) (ports.SessionStore, error) {
	if cfg.Postgres.Enabled() {
		store, err := postgres.NewRepository(cfg.Postgres)
		if err != nil {
			return nil, fmt.Errorf("creating postgres repository: %w", err)
		}
		return store, nil
	}

	path := cfg.SQLitePath(cwd)
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}
	store, err := sqlite.NewRepository(config.SQLiteConfig{Path: path})
	if err != nil {
		return nil, fmt.Errorf("creating sqlite repository: %w", err)
	}
	return store, nil
}
