package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/archis17/AI-KYC/internal/notify"
	"github.com/archis17/AI-KYC/internal/pipeline"
	"github.com/archis17/AI-KYC/pkg/database"
	"github.com/archis17/AI-KYC/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvKycEnv             = "KYC_ENV"
	EnvKycShutdownTimeout = "KYC_SHUTDOWN_TIMEOUT"
	EnvKycVersion         = "KYC_VERSION"
)

var databaseEnv = &database.Env{
	Host:            "KYC_DB_HOST",
	Port:            "KYC_DB_PORT",
	Name:            "KYC_DB_NAME",
	User:            "KYC_DB_USER",
	Password:        "KYC_DB_PASSWORD",
	SSLMode:         "KYC_DB_SSL_MODE",
	MaxOpenConns:    "KYC_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "KYC_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "KYC_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "KYC_DB_CONN_TIMEOUT",
}

var storageEnv = &storage.Env{
	Driver:           "KYC_STORAGE_DRIVER",
	Root:             "KYC_STORAGE_ROOT",
	ContainerName:    "KYC_STORAGE_CONTAINER_NAME",
	ConnectionString: "KYC_STORAGE_CONNECTION_STRING",
	AccountURL:       "KYC_STORAGE_ACCOUNT_URL",
}

var pipelineEnv = &pipeline.Env{
	Workers:   "KYC_PIPELINE_WORKERS",
	QueueSize: "KYC_PIPELINE_QUEUE_SIZE",
}

var notifierEnv = &notify.Env{
	URL:       "KYC_NOTIFIER_URL",
	APIKey:    "KYC_NOTIFIER_API_KEY",
	Timeout:   "KYC_NOTIFIER_TIMEOUT",
	QueueSize: "KYC_NOTIFIER_QUEUE_SIZE",
}

// Config is the root configuration for the KYC service.
type Config struct {
	Server          ServerConfig    `toml:"server"`
	Database        database.Config `toml:"database"`
	Storage         storage.Config  `toml:"storage"`
	API             APIConfig       `toml:"api"`
	Agents          AgentsConfig    `toml:"agents"`
	Pipeline        pipeline.Config `toml:"pipeline"`
	Notifier        notify.Config   `toml:"notifier"`
	ShutdownTimeout string          `toml:"shutdown_timeout"`
	Version         string          `toml:"version"`
}

// Env returns the KYC_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvKycEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and environment
// variables provide all configuration.
func Load() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
	c.API.Merge(&overlay.API)
	c.Agents.Merge(&overlay.Agents)
	c.Pipeline.Merge(&overlay.Pipeline)
	c.Notifier.Merge(&overlay.Notifier)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Database.Finalize(databaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Storage.Finalize(storageEnv); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := c.Agents.Finalize(); err != nil {
		return fmt.Errorf("agents: %w", err)
	}
	if err := c.Pipeline.Finalize(pipelineEnv); err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}
	if err := c.Notifier.Finalize(notifierEnv); err != nil {
		return fmt.Errorf("notifier: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvKycShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvKycVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvKycEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
