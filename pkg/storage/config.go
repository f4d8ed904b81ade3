package storage

import (
	"fmt"
	"os"
)

// Storage driver identifiers.
const (
	DriverLocal = "local"
	DriverAzure = "azure"
)

// Config holds blob storage parameters for the configured driver.
type Config struct {
	Driver           string `toml:"driver" json:"driver"`
	Root             string `toml:"root" json:"root"`
	ContainerName    string `toml:"container_name" json:"container_name"`
	ConnectionString string `toml:"connection_string" json:"-"`
	AccountURL       string `toml:"account_url" json:"account_url"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Driver           string
	Root             string
	ContainerName    string
	ConnectionString string
	AccountURL       string
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Driver != "" {
		c.Driver = overlay.Driver
	}
	if overlay.Root != "" {
		c.Root = overlay.Root
	}
	if overlay.ContainerName != "" {
		c.ContainerName = overlay.ContainerName
	}
	if overlay.ConnectionString != "" {
		c.ConnectionString = overlay.ConnectionString
	}
	if overlay.AccountURL != "" {
		c.AccountURL = overlay.AccountURL
	}
}

func (c *Config) loadDefaults() {
	if c.Driver == "" {
		c.Driver = DriverLocal
	}
	if c.Root == "" {
		c.Root = "data/blobs"
	}
	if c.ContainerName == "" {
		c.ContainerName = "documents"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Driver != "" {
		if v := os.Getenv(env.Driver); v != "" {
			c.Driver = v
		}
	}
	if env.Root != "" {
		if v := os.Getenv(env.Root); v != "" {
			c.Root = v
		}
	}
	if env.ContainerName != "" {
		if v := os.Getenv(env.ContainerName); v != "" {
			c.ContainerName = v
		}
	}
	if env.ConnectionString != "" {
		if v := os.Getenv(env.ConnectionString); v != "" {
			c.ConnectionString = v
		}
	}
	if env.AccountURL != "" {
		if v := os.Getenv(env.AccountURL); v != "" {
			c.AccountURL = v
		}
	}
}

func (c *Config) validate() error {
	switch c.Driver {
	case DriverLocal:
		if c.Root == "" {
			return fmt.Errorf("root required for local driver")
		}
	case DriverAzure:
		if c.ContainerName == "" {
			return fmt.Errorf("container_name required for azure driver")
		}
		if c.ConnectionString == "" && c.AccountURL == "" {
			return fmt.Errorf("connection_string or account_url required for azure driver")
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDriver, c.Driver)
	}
	return nil
}
