package ledger

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns user-facing credit routes
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)
	r.Get("/balance", h.Balance)
	r.Get("/history", h.History)
	return r
}

// AdminRoutes returns admin credit tooling routes
func (h *Handler) AdminRoutes(authMiddleware, requireAdmin func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)
	r.Use(requireAdmin)

	r.Post("/credits/adjust", h.Adjust)
	r.Post("/credits/grant", h.Grant)
	r.Post("/credits/set", h.Set)
	r.Post("/credits/rollback", h.Rollback)

	r.Get("/ledger", h.Search)
	r.Get("/ledger/{steamID}/reconcile", h.Reconcile)

	return r
}
