package api

import (
	"github.com/intellisort/intellisort/internal/config"
	"github.com/intellisort/intellisort/internal/infrastructure"
	"github.com/intellisort/intellisort/pkg/pagination"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Pagination pagination.Config
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    infra.Logger.With("module", "api"),
			Database:  infra.Database,
			Identity:  infra.Identity,
		},
		Pagination: cfg.API.Pagination,
	}
}
