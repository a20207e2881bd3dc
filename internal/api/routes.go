package api

import (
	"net/http"

	"github.com/intellisort/intellisort/internal/config"
	"github.com/intellisort/intellisort/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
) {
	routes.Register(
		mux,
		domain.Classifications.Handler(cfg.API.MaxUploadSizeBytes()).Routes(),
		domain.Analytics.Handler().Routes(),
	)
}
