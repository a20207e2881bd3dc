// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"fmt"
	"net/http"

	"github.com/intellisort/intellisort/internal/config"
	"github.com/intellisort/intellisort/internal/identity"
	"github.com/intellisort/intellisort/internal/infrastructure"
	"github.com/intellisort/intellisort/pkg/middleware"
	"github.com/intellisort/intellisort/pkg/module"
	"github.com/intellisort/intellisort/pkg/openapi"
)

// specPath serves the OpenAPI document, exempt from authentication.
const specPath = "/openapi.json"

// NewModule creates the API module with all domain handlers and middleware.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(cfg, runtime)

	if err := domain.Classifier.Start(runtime.Lifecycle); err != nil {
		return nil, fmt.Errorf("classifier start failed: %w", err)
	}

	specBytes, err := openapi.MarshalJSON(buildSpec(cfg))
	if err != nil {
		return nil, fmt.Errorf("marshal openapi spec: %w", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET "+specPath, openapi.ServeSpec(specBytes))
	registerRoutes(mux, domain, cfg)

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(runtime.Logger))
	m.Use(identity.Middleware(runtime.Identity, runtime.Logger, specPath))

	return m, nil
}
