package config

import (
	"fmt"
	"os"

	"github.com/intellisort/intellisort/pkg/formatting"
	"github.com/intellisort/intellisort/pkg/middleware"
	"github.com/intellisort/intellisort/pkg/openapi"
	"github.com/intellisort/intellisort/pkg/pagination"
)

var corsEnv = &middleware.CORSEnv{
	Enabled:          "INTELLISORT_CORS_ENABLED",
	Origins:          "INTELLISORT_CORS_ORIGINS",
	AllowedMethods:   "INTELLISORT_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "INTELLISORT_CORS_ALLOWED_HEADERS",
	AllowCredentials: "INTELLISORT_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "INTELLISORT_CORS_MAX_AGE",
}

var paginationEnv = &pagination.ConfigEnv{
	DefaultPageSize: "INTELLISORT_PAGINATION_DEFAULT_PAGE_SIZE",
	MaxPageSize:     "INTELLISORT_PAGINATION_MAX_PAGE_SIZE",
}

var openapiEnv = &openapi.ConfigEnv{
	Title:       "INTELLISORT_OPENAPI_TITLE",
	Description: "INTELLISORT_OPENAPI_DESCRIPTION",
}

// APIConfig holds API routing, CORS, pagination, and OpenAPI settings.
type APIConfig struct {
	BasePath      string                `toml:"base_path"`
	MaxUploadSize string                `toml:"max_upload_size"`
	CORS          middleware.CORSConfig `toml:"cors"`
	Pagination    pagination.Config     `toml:"pagination"`
	OpenAPI       openapi.Config        `toml:"openapi"`
}

// MaxUploadSizeBytes returns the submission payload ceiling in bytes.
func (c *APIConfig) MaxUploadSizeBytes() int64 {
	size, err := formatting.ParseBytes(c.MaxUploadSize)
	if err != nil {
		return 10 * 1024 * 1024 // 10MB fallback
	}
	return size
}

// Finalize applies defaults, environment variable overrides, and validation
// for the API config and its nested CORS, pagination, and OpenAPI configs.
func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.Pagination.Finalize(paginationEnv); err != nil {
		return fmt.Errorf("pagination: %w", err)
	}
	if err := c.OpenAPI.Finalize(openapiEnv); err != nil {
		return fmt.Errorf("openapi: %w", err)
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

	c.CORS.Merge(&overlay.CORS)
	c.Pagination.Merge(&overlay.Pagination)
	c.OpenAPI.Merge(&overlay.OpenAPI)
}

func (c *APIConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
	if c.MaxUploadSize == "" {
		c.MaxUploadSize = "10MB"
	}
}

func (c *APIConfig) loadEnv() {
	if v := os.Getenv("INTELLISORT_API_BASE_PATH"); v != "" {
		c.BasePath = v
	}
	if v := os.Getenv("INTELLISORT_API_MAX_UPLOAD_SIZE"); v != "" {
		c.MaxUploadSize = v
	}
}
