package stipend

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/skinvaults/skinvaults-api/internal/middleware"
	"github.com/skinvaults/skinvaults-api/internal/pkg/response"
	"github.com/skinvaults/skinvaults-api/internal/pkg/validator"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) available(w http.ResponseWriter) bool {
	if h.svc == nil {
		response.ServiceUnavailable(w, "stipend store not configured")
		return false
	}
	return true
}

func (h *Handler) claim(w http.ResponseWriter, r *http.Request, steamID string) {
	result, err := h.svc.Claim(r.Context(), steamID)
	if err != nil {
		switch {
		case errors.Is(err, ErrAlreadyGranted):
			// Expected outcome, reported as a non-error skip.
			response.OK(w, map[string]interface{}{
				"granted":        false,
				"alreadyGranted": true,
				"month":          h.svc.CurrentMonth(),
			})
		case errors.Is(err, ErrNotEligible):
			response.Forbidden(w, "Active Pro membership required")
		default:
			response.InternalError(w)
		}
		return
	}

	response.OK(w, map[string]interface{}{
		"granted": true,
		"credits": result.Credits,
		"month":   result.Month,
		"balance": result.Balance,
	})
}

// Claim handles POST /api/v1/stipends/claim
func (h *Handler) Claim(w http.ResponseWriter, r *http.Request) {
	if !h.available(w) {
		return
	}
	h.claim(w, r, middleware.GetSteamID(r.Context()))
}

// History handles GET /api/v1/stipends
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	if !h.available(w) {
		return
	}

	grants, err := h.svc.History(r.Context(), middleware.GetSteamID(r.Context()))
	if err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, grants)
}

type runRequest struct {
	SteamID string `json:"steamId" validate:"required,steamid"`
}

// Run handles POST /api/admin/stipends/run, a backfill tool for support.
func (h *Handler) Run(w http.ResponseWriter, r *http.Request) {
	if !h.available(w) {
		return
	}

	var req runRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	h.claim(w, r, req.SteamID)
}

// Routes returns user-facing stipend routes
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)
	r.Post("/claim", h.Claim)
	r.Get("/", h.History)
	return r
}

// AdminRoutes returns admin stipend routes
func (h *Handler) AdminRoutes(authMiddleware, requireAdmin func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)
	r.Use(requireAdmin)
	r.Post("/run", h.Run)
	return r
}
