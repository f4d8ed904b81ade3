// Package infrastructure assembles the shared runtime the domain modules
// build on: lifecycle coordination, the base logger, the case database, and
// the document blob store.
package infrastructure

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/archis17/AI-KYC/internal/config"
	"github.com/archis17/AI-KYC/pkg/database"
	"github.com/archis17/AI-KYC/pkg/lifecycle"
	"github.com/archis17/AI-KYC/pkg/storage"
)

// Infrastructure holds the shared systems the case, document, scoring, and
// pipeline modules depend on.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Database  database.System
	Storage   storage.System
}

// New builds the shared systems from cfg. Nothing connects yet; Start
// registers the lifecycle hooks that do.
func New(cfg *config.Config) (*Infrastructure, error) {
	lc := lifecycle.New()
	logger := newLogger(cfg)

	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	store, err := storage.New(&cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("storage init failed: %w", err)
	}

	return &Infrastructure{
		Lifecycle: lc,
		Logger:    logger,
		Database:  db,
		Storage:   store,
	}, nil
}

// Start registers the database and storage lifecycle hooks.
func (i *Infrastructure) Start() error {
	if err := i.Database.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("database start failed: %w", err)
	}
	if err := i.Storage.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("storage start failed: %w", err)
	}
	return nil
}

// newLogger builds the base logger every module derives from, leveled from
// server configuration and tagged with the service identity.
func newLogger(cfg *config.Config) *slog.Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.Server.SlogLevel(),
	})
	return slog.New(handler).With("service", "kyc-api", "version", cfg.Version)
}
