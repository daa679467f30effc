package automod

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/lib/pq"

	"github.com/skinvaults/skinvaults-api/internal/pkg/response"
)

type Handler struct {
	repo *Repository
}

func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

func (h *Handler) available(w http.ResponseWriter) bool {
	if h.repo == nil {
		response.ServiceUnavailable(w, "automod store not configured")
		return false
	}
	return true
}

// GetSettings handles GET /api/admin/automod/settings
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	if !h.available(w) {
		return
	}

	settings, err := h.repo.Get(r.Context())
	if err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, settings)
}

type settingsRequest struct {
	Enabled          bool     `json:"enabled"`
	BlockLinks       bool     `json:"block_links"`
	AllowLinkDomains []string `json:"allow_link_domains"`
	BannedWords      []string `json:"banned_words"`
	BannedRegex      []string `json:"banned_regex"`
}

// PutSettings handles PUT /api/admin/automod/settings
func (h *Handler) PutSettings(w http.ResponseWriter, r *http.Request) {
	if !h.available(w) {
		return
	}

	var req settingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	settings := Settings{
		Enabled:          req.Enabled,
		BlockLinks:       req.BlockLinks,
		AllowLinkDomains: pq.StringArray(req.AllowLinkDomains),
		BannedWords:      pq.StringArray(req.BannedWords),
		BannedRegex:      pq.StringArray(req.BannedRegex),
	}

	if err := h.repo.Save(r.Context(), settings); err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, settings)
}

type checkRequest struct {
	Message string `json:"message"`
}

// CheckMessage handles POST /api/admin/automod/check: dry-run a message
// against the current settings.
func (h *Handler) CheckMessage(w http.ResponseWriter, r *http.Request) {
	if !h.available(w) {
		return
	}

	var req checkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	settings, err := h.repo.Get(r.Context())
	if err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, Check(req.Message, settings))
}

// AdminRoutes returns admin automod routes
func (h *Handler) AdminRoutes(authMiddleware, requireAdmin func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)
	r.Use(requireAdmin)
	r.Get("/settings", h.GetSettings)
	r.Put("/settings", h.PutSettings)
	r.Post("/check", h.CheckMessage)
	return r
}
