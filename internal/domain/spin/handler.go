package spin

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/skinvaults/skinvaults-api/internal/middleware"
	"github.com/skinvaults/skinvaults-api/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type tierResponse struct {
	Amount int64  `json:"amount"`
	Label  string `json:"label"`
	Color  string `json:"color"`
}

// Spin handles POST /api/v1/spins
func (h *Handler) Spin(w http.ResponseWriter, r *http.Request) {
	if h.svc == nil {
		response.ServiceUnavailable(w, "spin service not configured")
		return
	}

	steamID := middleware.GetSteamID(r.Context())
	result, err := h.svc.Spin(r.Context(), steamID)
	if err != nil {
		switch {
		case errors.Is(err, ErrAlreadySpun):
			response.JSON(w, http.StatusTooManyRequests, map[string]interface{}{
				"alreadySpun": true,
				"nextSpinAt":  h.svc.NextSpinAt().Format(time.RFC3339),
			})
		case errors.Is(err, ErrUnavailable):
			response.ServiceUnavailable(w, "spin service not configured")
		default:
			response.InternalError(w)
		}
		return
	}

	response.OK(w, map[string]interface{}{
		"tier":       tierResponse{Amount: result.Tier.Amount, Label: result.Tier.Label, Color: result.Tier.Color},
		"balance":    result.Balance,
		"nextSpinAt": result.NextSpinAt.Format(time.RFC3339),
	})
}

// Tiers handles GET /api/v1/spins/tiers. Weights stay server-side.
func (h *Handler) Tiers(w http.ResponseWriter, r *http.Request) {
	if h.svc == nil {
		response.ServiceUnavailable(w, "spin service not configured")
		return
	}

	tiers := h.svc.Tiers()
	out := make([]tierResponse, 0, len(tiers))
	for _, t := range tiers {
		out = append(out, tierResponse{Amount: t.Amount, Label: t.Label, Color: t.Color})
	}

	response.OK(w, out)
}

// Routes returns spin routes
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/tiers", h.Tiers)
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Post("/", h.Spin)
	})
	return r
}
