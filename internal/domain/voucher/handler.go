package voucher

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

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
		response.ServiceUnavailable(w, "voucher store not configured")
		return false
	}
	return true
}

// Redeem handles POST /api/v1/vouchers/redeem
func (h *Handler) Redeem(w http.ResponseWriter, r *http.Request) {
	if !h.available(w) {
		return
	}

	var req RedeemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	steamID := middleware.GetSteamID(r.Context())
	result, err := h.svc.Redeem(r.Context(), steamID, req.Code)
	if err != nil {
		if errors.Is(err, ErrInvalidCode) {
			// One message for unknown, expired, disabled and already-redeemed.
			response.BadRequest(w, "Invalid or already redeemed code")
			return
		}
		response.InternalError(w)
		return
	}

	response.OK(w, RedeemResponse{
		SKUID:            result.SKUID,
		CreditsGranted:   result.CreditsGranted,
		ProMonthsGranted: result.ProMonthsGranted,
		ProUntil:         result.ProUntil,
	})
}

// Generate handles POST /api/admin/vouchers/generate
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	if !h.available(w) {
		return
	}

	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	createdBy := middleware.GetSteamID(r.Context())
	if createdBy == "" {
		createdBy = "admin"
	}

	result, err := h.svc.Generate(r.Context(), req.SKUID, req.Quantity, req.Credits, req.ProMonths, req.Source, createdBy, req.ExpiresAt)
	if err != nil {
		if errors.Is(err, ErrInvalidBatch) {
			response.BadRequest(w, "Invalid voucher batch request")
			return
		}
		response.InternalError(w)
		return
	}

	response.Created(w, GenerateResponse{
		SKUID:     result.SKUID,
		Created:   result.Created,
		Codes:     result.Codes,
		ExpiresAt: result.ExpiresAt,
	})
}

// Disable handles POST /api/admin/vouchers/{hash}/disable
func (h *Handler) Disable(w http.ResponseWriter, r *http.Request) {
	if !h.available(w) {
		return
	}

	codeHash := chi.URLParam(r, "hash")
	if err := h.svc.Disable(r.Context(), codeHash); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(w, "Voucher not found or not active")
			return
		}
		response.InternalError(w)
		return
	}

	response.NoContent(w)
}

// List handles GET /api/admin/vouchers?sku=...
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	if !h.available(w) {
		return
	}

	skuID := r.URL.Query().Get("sku")
	if skuID == "" {
		response.BadRequest(w, "Missing 'sku' query parameter")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	vouchers, err := h.svc.ListBySKU(r.Context(), skuID, limit, offset)
	if err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, vouchers)
}

// Routes returns user-facing voucher routes
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)
	r.Post("/redeem", h.Redeem)
	return r
}

// AdminRoutes returns admin voucher routes
func (h *Handler) AdminRoutes(authMiddleware, requireAdmin func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)
	r.Use(requireAdmin)
	r.Post("/generate", h.Generate)
	r.Post("/{hash}/disable", h.Disable)
	r.Get("/", h.List)
	return r
}
