package config

import (
	"fmt"
	"os"

	"github.com/archis17/AI-KYC/pkg/formatting"
	"github.com/archis17/AI-KYC/pkg/middleware"
	"github.com/archis17/AI-KYC/pkg/openapi"
	"github.com/archis17/AI-KYC/pkg/pagination"
)

var corsEnv = &middleware.CORSEnv{
	Enabled:          "KYC_CORS_ENABLED",
	Origins:          "KYC_CORS_ORIGINS",
	AllowedMethods:   "KYC_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "KYC_CORS_ALLOWED_HEADERS",
	AllowCredentials: "KYC_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "KYC_CORS_MAX_AGE",
}

var authEnv = &middleware.AuthEnv{
	Enabled:     "KYC_AUTH_ENABLED",
	Issuer:      "KYC_AUTH_ISSUER",
	Audience:    "KYC_AUTH_AUDIENCE",
	InternalKey: "KYC_INTERNAL_API_KEY",
}

var paginationEnv = &pagination.ConfigEnv{
	DefaultPageSize: "KYC_PAGINATION_DEFAULT_PAGE_SIZE",
	MaxPageSize:     "KYC_PAGINATION_MAX_PAGE_SIZE",
}

var docsEnv = &openapi.ConfigEnv{
	Title:       "KYC_API_DOCS_TITLE",
	Description: "KYC_API_DOCS_DESCRIPTION",
}

// APIConfig holds API routing, auth, CORS, pagination, and docs settings.
type APIConfig struct {
	BasePath      string                `toml:"base_path"`
	MaxUploadSize string                `toml:"max_upload_size"`
	Auth          middleware.AuthConfig `toml:"auth"`
	CORS          middleware.CORSConfig `toml:"cors"`
	Pagination    pagination.Config     `toml:"pagination"`
	Docs          openapi.Config        `toml:"docs"`
}

func (c *APIConfig) MaxUploadSizeBytes() int64 {
	size, err := formatting.ParseBytes(c.MaxUploadSize)
	if err != nil {
		return 50 * 1024 * 1024 // 50MB fallback
	}
	return size
}

// Finalize applies defaults, environment variable overrides, and validation
// for the API config and its nested auth, CORS, and pagination configs.
func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.Auth.Finalize(authEnv); err != nil {
		return fmt.Errorf("auth: %w", err)
	}
	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.Pagination.Finalize(paginationEnv); err != nil {
		return fmt.Errorf("pagination: %w", err)
	}
	if err := c.Docs.Finalize(docsEnv); err != nil {
		return fmt.Errorf("docs: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay across nested configs.
func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.MaxUploadSize != "" {
		c.MaxUploadSize = overlay.MaxUploadSize
	}

	c.Auth.Merge(&overlay.Auth)
	c.CORS.Merge(&overlay.CORS)
	c.Pagination.Merge(&overlay.Pagination)
	c.Docs.Merge(&overlay.Docs)
}

func (c *APIConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
	if c.MaxUploadSize == "" {
		c.MaxUploadSize = "50MB"
	}
}

func (c *APIConfig) loadEnv() {
	if v := os.Getenv("KYC_API_BASE_PATH"); v != "" {
		c.BasePath = v
	}
	if v := os.Getenv("KYC_API_MAX_UPLOAD_SIZE"); v != "" {
		c.MaxUploadSize = v
	}
}
