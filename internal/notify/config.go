package notify

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds webhook notification settings. An empty URL disables
// delivery entirely; publishes become debug-logged no-ops.
type Config struct {
	URL       string `toml:"url"`
	APIKey    string `toml:"api_key"`
	Timeout   string `toml:"timeout"`
	QueueSize int    `toml:"queue_size"`
}

// Env maps environment variable names to Config fields.
type Env struct {
	URL       string
	APIKey    string
	Timeout   string
	QueueSize string
}

// Enabled reports whether an endpoint is configured.
func (c *Config) Enabled() bool {
	return c.URL != ""
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *Config) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	c.loadEnv(env)
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.URL != "" {
		c.URL = overlay.URL
	}
	if overlay.APIKey != "" {
		c.APIKey = overlay.APIKey
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
	if overlay.QueueSize != 0 {
		c.QueueSize = overlay.QueueSize
	}
}

func (c *Config) loadDefaults() {
	if c.Timeout == "" {
		c.Timeout = "10s"
	}
	if c.QueueSize == 0 {
		c.QueueSize = 256
	}
}

func (c *Config) loadEnv(env *Env) {
	if v := os.Getenv(env.URL); v != "" {
		c.URL = v
	}
	if v := os.Getenv(env.APIKey); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv(env.Timeout); v != "" {
		c.Timeout = v
	}
	if v := os.Getenv(env.QueueSize); v != "" {
		if size, err := strconv.Atoi(v); err == nil {
			c.QueueSize = size
		}
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	if c.QueueSize < 1 {
		return fmt.Errorf("invalid queue_size: %d", c.QueueSize)
	}
	return nil
}
