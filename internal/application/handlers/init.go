// Package handlers contains application use case handlers.
package handlers

import (
	"context"
	"fmt"

	"github.com/ersonp/campaign-forge/internal/domain/ports"
	"github.com/ersonp/campaign-forge/internal/infrastructure/config"
)

// InitHandler handles workspace initialization.
type InitHandler struct {
	store ports.SessionStore
}

// NewInitHandler creates a new init handler. store may be nil.
func NewInitHandler(store ports.SessionStore) *InitHandler {
	return &InitHandler{
		store: store,
	}
}

// InitResult contains the result of initialization.
type InitResult struct {
	ConfigPath   string `json:"config_path"`
	TablesDir    string `json:"tables_dir"`
	DatabasePath string `json:"database_path"`
}

// Handle writes the default config and prepares the session database.
func (h *InitHandler) Handle(ctx context.Context, basePath string) (*InitResult, error) {
	if config.Exists(basePath) {
		return nil, fmt.Errorf("forge already initialized in %s", basePath)
	}

	if err := config.WriteDefault(basePath); err != nil {
		return nil, fmt.Errorf("writing default config: %w", err)
	}

	cfg, err := config.Load(basePath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if h.store != nil {
		if err := h.store.EnsureSchema(ctx); err != nil {
			return nil, fmt.Errorf("creating schema: %w", err)
		}
	}

	dbPath := cfg.SQLitePath(basePath)
	if cfg.Postgres.Enabled() {
		dbPath = "postgres"
	}

	return &InitResult{
		ConfigPath:   config.ConfigFilePath(basePath),
		TablesDir:    cfg.TablesDir(basePath),
		DatabasePath: dbPath,
	}, nil
}
