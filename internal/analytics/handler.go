package analytics

import (
	"log/slog"
	"net/http"

	"github.com/intellisort/intellisort/internal/identity"
	"github.com/intellisort/intellisort/pkg/handlers"
	"github.com/intellisort/intellisort/pkg/routes"
)

// Handler provides HTTP endpoints for analytics operations.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "analytics"),
	}
}

// Routes returns the route group definition for analytics endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/analytics",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/summary", Handler: h.Summary},
			{Method: "GET", Pattern: "/system", Handler: h.System},
			{Method: "GET", Pattern: "/overview", Handler: h.Overview},
		},
	}
}

// Summary returns aggregate statistics over the caller's own records.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	caller, ok := identity.FromContext(r.Context())
	if !ok {
		handlers.RespondError(w, h.logger, http.StatusUnauthorized, identity.ErrNoToken)
		return
	}

	summary, err := h.sys.ForUser(r.Context(), caller.Subject)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, summary)
}

// System returns service-wide aggregate statistics. Admin only.
func (h *Handler) System(w http.ResponseWriter, r *http.Request) {
	caller, ok := identity.FromContext(r.Context())
	if !ok {
		handlers.RespondError(w, h.logger, http.StatusUnauthorized, identity.ErrNoToken)
		return
	}

	if !caller.Admin {
		handlers.RespondError(w, h.logger, http.StatusForbidden, ErrForbidden)
		return
	}

	summary, err := h.sys.SystemWide(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, summary)
}

// Overview returns the caller's summary alongside their most recent records.
func (h *Handler) Overview(w http.ResponseWriter, r *http.Request) {
	caller, ok := identity.FromContext(r.Context())
	if !ok {
		handlers.RespondError(w, h.logger, http.StatusUnauthorized, identity.ErrNoToken)
		return
	}

	overview, err := h.sys.Overview(r.Context(), caller.Subject)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, overview)
}
