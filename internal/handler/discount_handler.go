package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"gemkart/internal/cart"
	"gemkart/internal/discount"
	"gemkart/internal/middleware"
	"gemkart/internal/model"

	"github.com/rs/zerolog"
)

// DiscountHandler handles discount preview requests.
type DiscountHandler struct {
	discounts discount.Service
	carts     cart.Service
	logger    zerolog.Logger
}

// NewDiscountHandler creates a new discount handler.
func NewDiscountHandler(discounts discount.Service, carts cart.Service, logger zerolog.Logger) *DiscountHandler {
	return &DiscountHandler{
		discounts: discounts,
		carts:     carts,
		logger:    logger.With().Str("handler", "discount").Logger(),
	}
}

type previewRequest struct {
	Code string `json:"code"`
}

// Preview handles POST /api/discounts/preview. The outcome is advisory:
// checkout re-validates, so a code accepted here can still be rejected at
// compile time.
func (h *DiscountHandler) Preview(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	var req previewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Code) == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "code is required")
		return
	}

	cartResp, err := h.carts.List(r.Context(), userID)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	applied, err := h.discounts.Preview(r.Context(), req.Code, cartResp.Summary.Subtotal)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, applied)
}
