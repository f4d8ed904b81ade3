package pipeline

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds worker pool dimensions for document processing.
type Config struct {
	Workers   int `toml:"workers"`
	QueueSize int `toml:"queue_size"`
}

// Env maps environment variable names to Config fields.
type Env struct {
	Workers   string
	QueueSize string
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	c.loadEnv(env)
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Workers != 0 {
		c.Workers = overlay.Workers
	}
	if overlay.QueueSize != 0 {
		c.QueueSize = overlay.QueueSize
	}
}

func (c *Config) loadDefaults() {
	if c.Workers == 0 {
		c.Workers = 4
	}
	if c.QueueSize == 0 {
		c.QueueSize = 64
	}
}

func (c *Config) loadEnv(env *Env) {
	if v := os.Getenv(env.Workers); v != "" {
		if workers, err := strconv.Atoi(v); err == nil {
			c.Workers = workers
		}
	}
	if v := os.Getenv(env.QueueSize); v != "" {
		if size, err := strconv.Atoi(v); err == nil {
			c.QueueSize = size
		}
	}
}

func (c *Config) validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("invalid workers: %d", c.Workers)
	}
	if c.QueueSize < 1 {
		return fmt.Errorf("invalid queue_size: %d", c.QueueSize)
	}
	return nil
}
