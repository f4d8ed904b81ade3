package infrastructure_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/archis17/AI-KYC/internal/config"
	"github.com/archis17/AI-KYC/internal/infrastructure"
	"github.com/archis17/AI-KYC/pkg/database"
	"github.com/archis17/AI-KYC/pkg/storage"
)

func validConfig() *config.Config {
	return &config.Config{
		Database: database.Config{
			Host:            "localhost",
			Port:            5432,
			Name:            "kyc",
			User:            "kyc",
			Password:        "kyc",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: "15m",
			ConnTimeout:     "5s",
		},
		Storage: storage.Config{
			Driver: storage.DriverLocal,
			Root:   "data/blobs",
		},
		Version: "0.1.0",
	}
}

func TestNew(t *testing.T) {
	infra, err := infrastructure.New(validConfig())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if infra.Lifecycle == nil {
		t.Error("Lifecycle is nil")
	}
	if infra.Logger == nil {
		t.Error("Logger is nil")
	}
	if infra.Database == nil {
		t.Error("Database is nil")
	}
	if infra.Storage == nil {
		t.Error("Storage is nil")
	}
}

func TestNewLoggerLevel(t *testing.T) {
	cfg := validConfig()

	infra, err := infrastructure.New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if infra.Logger.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("debug should be disabled by default")
	}

	cfg.Server.LogLevel = "debug"
	infra, err = infrastructure.New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if !infra.Logger.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("debug should be enabled when configured")
	}
}

func TestNewDatabaseConnection(t *testing.T) {
	infra, err := infrastructure.New(validConfig())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	conn := infra.Database.Connection()
	if conn == nil {
		t.Fatal("Database.Connection() returned nil")
	}
	conn.Close()
}

func TestNewInvalidStorageConfig(t *testing.T) {
	cfg := validConfig()
	cfg.Storage = storage.Config{
		Driver:           storage.DriverAzure,
		ContainerName:    "documents",
		ConnectionString: "not-a-connection-string",
	}

	_, err := infrastructure.New(cfg)
	if err == nil {
		t.Fatal("expected error for invalid storage connection string")
	}
}

func TestNewUnknownStorageDriver(t *testing.T) {
	cfg := validConfig()
	cfg.Storage = storage.Config{Driver: "s3"}

	_, err := infrastructure.New(cfg)
	if err == nil {
		t.Fatal("expected error for unknown storage driver")
	}
}
