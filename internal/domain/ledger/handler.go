package ledger

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

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

// available guards every endpoint: without a configured database the
// handler degrades to 503 instead of panicking.
func (h *Handler) available(w http.ResponseWriter) bool {
	if h.svc == nil {
		response.ServiceUnavailable(w, "credit store not configured")
		return false
	}
	return true
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidSteamID):
		response.BadRequest(w, "Invalid SteamID")
	case errors.Is(err, ErrInvalidDelta):
		response.BadRequest(w, "Delta must be nonzero and within ±1,000,000")
	case errors.Is(err, ErrInsufficientCredits):
		response.Conflict(w, "Balance cannot go negative")
	case errors.Is(err, ErrEntryNotFound):
		response.NotFound(w, "Ledger entry not found")
	case errors.Is(err, ErrRollbackOfRollback):
		response.BadRequest(w, "Cannot roll back a rollback entry")
	default:
		response.InternalError(w)
	}
}

// Adjust handles POST /api/admin/credits/adjust
func (h *Handler) Adjust(w http.ResponseWriter, r *http.Request) {
	if !h.available(w) {
		return
	}

	var req AdjustRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	actorID := middleware.GetSteamID(r.Context())
	if actorID == "" {
		actorID = "admin"
	}

	balance, err := h.svc.Adjust(r.Context(), req.SteamID, req.Delta, actorID, req.Reason)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.OK(w, BalanceResponse{SteamID: req.SteamID, Balance: balance, Delta: req.Delta})
}

// Grant handles POST /api/admin/credits/grant
func (h *Handler) Grant(w http.ResponseWriter, r *http.Request) {
	if !h.available(w) {
		return
	}

	var req GrantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	balance, err := h.svc.Grant(r.Context(), req.SteamID, req.Amount, middleware.GetSteamID(r.Context()), req.Reason)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.OK(w, BalanceResponse{SteamID: req.SteamID, Balance: balance, Delta: req.Amount})
}

// Set handles POST /api/admin/credits/set
func (h *Handler) Set(w http.ResponseWriter, r *http.Request) {
	if !h.available(w) {
		return
	}

	var req SetBalanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	delta, balance, err := h.svc.SetBalance(r.Context(), req.SteamID, req.Balance, middleware.GetSteamID(r.Context()), req.Reason)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.OK(w, BalanceResponse{SteamID: req.SteamID, Balance: balance, Delta: delta})
}

// Rollback handles POST /api/admin/credits/rollback
func (h *Handler) Rollback(w http.ResponseWriter, r *http.Request) {
	if !h.available(w) {
		return
	}

	var req RollbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	entryID, err := uuid.Parse(req.EntryID)
	if err != nil {
		response.BadRequest(w, "Invalid entry id")
		return
	}

	applyBalance := true
	if req.ApplyBalance != nil {
		applyBalance = *req.ApplyBalance
	}

	delta, balance, err := h.svc.Rollback(r.Context(), req.SteamID, entryID, applyBalance, middleware.GetSteamID(r.Context()), req.Reason)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.OK(w, RollbackResponse{SteamID: req.SteamID, Balance: balance, RolledBackDelta: delta})
}

// Balance handles GET /api/v1/credits/balance
func (h *Handler) Balance(w http.ResponseWriter, r *http.Request) {
	if !h.available(w) {
		return
	}

	steamID := middleware.GetSteamID(r.Context())
	balance, err := h.svc.GetBalance(r.Context(), steamID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.OK(w, map[string]interface{}{"steamId": steamID, "balance": balance})
}

// History handles GET /api/v1/credits/history
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	if !h.available(w) {
		return
	}

	steamID := middleware.GetSteamID(r.Context())
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	entries, err := h.svc.History(r.Context(), steamID, limit, offset)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.OK(w, entries)
}

// Search handles GET /api/admin/ledger
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	if !h.available(w) {
		return
	}

	q := r.URL.Query()
	filters := SearchFilters{}

	if v := q.Get("steamId"); v != "" {
		filters.SteamID = &v
	}
	if v := q.Get("type"); v != "" {
		if err := validator.ValidateVar(v, "tx_type"); err != nil {
			response.BadRequest(w, "Invalid ledger entry type")
			return
		}
		filters.EntryType = &v
	}
	if v := q.Get("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			response.BadRequest(w, "Invalid 'from' timestamp (expected RFC3339)")
			return
		}
		filters.DateFrom = &t
	}
	if v := q.Get("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			response.BadRequest(w, "Invalid 'to' timestamp (expected RFC3339)")
			return
		}
		filters.DateTo = &t
	}
	if v := q.Get("relatedType"); v != "" {
		filters.RelatedType = &v
	}
	if v := q.Get("relatedId"); v != "" {
		filters.RelatedID = &v
	}
	filters.Limit, _ = strconv.Atoi(q.Get("limit"))
	filters.Offset, _ = strconv.Atoi(q.Get("offset"))

	entries, err := h.svc.Search(r.Context(), filters)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.OK(w, entries)
}

// Reconcile handles GET /api/admin/ledger/{steamID}/reconcile
func (h *Handler) Reconcile(w http.ResponseWriter, r *http.Request) {
	if !h.available(w) {
		return
	}

	steamID := chi.URLParam(r, "steamID")
	rec, err := h.svc.Reconcile(r.Context(), steamID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	response.OK(w, rec)
}
