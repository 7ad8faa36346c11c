package handler

import (
	"encoding/json"
	"net/http"

	"gemkart/internal/cart"
	"gemkart/internal/middleware"
	"gemkart/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// CartHandler handles cart and add-on HTTP requests.
type CartHandler struct {
	service cart.Service
	logger  zerolog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(service cart.Service, logger zerolog.Logger) *CartHandler {
	return &CartHandler{
		service: service,
		logger:  logger.With().Str("handler", "cart").Logger(),
	}
}

type addRequest struct {
	ProductID int64         `json:"productId"`
	Quantity  int           `json:"quantity"`
	Options   model.Options `json:"selectedOptions"`
}

type resolveRequest struct {
	addRequest
	Resolution string `json:"resolution"`
}

type setQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type attachAddonRequest struct {
	AddonProductID int64         `json:"addonProductId"`
	Quantity       int           `json:"quantity"`
	Options        model.Options `json:"selectedOptions"`
}

// Get handles GET /api/cart.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	resp, err := h.service.List(r.Context(), userID)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Add handles POST /api/cart.
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	var req addRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body")
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	line, err := h.service.AddOrMerge(r.Context(), userID, req.ProductID, req.Quantity, req.Options)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, line)
}

// Resolve handles POST /api/cart/resolve, the explicit user choice after a
// conflict.
func (h *CartHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	var req resolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body")
		return
	}

	line, err := h.service.ResolveConflict(r.Context(), userID, req.ProductID, req.Quantity, req.Options, req.Resolution)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, line)
}

// Clear handles DELETE /api/cart.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	if err := h.service.Clear(r.Context(), userID); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SetQuantity handles PUT /api/cart/items/{id}. A quantity below 1 deletes
// the line.
func (h *CartHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	lineID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req setQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body")
		return
	}

	if err := h.service.SetQuantity(r.Context(), userID, lineID, req.Quantity); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Remove handles DELETE /api/cart/items/{id}.
func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	lineID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.Remove(r.Context(), userID, lineID); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AttachAddon handles POST /api/cart/items/{id}/addons.
func (h *CartHandler) AttachAddon(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	lineID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req attachAddonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body")
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	addon, err := h.service.AttachAddon(r.Context(), userID, lineID, req.AddonProductID, req.Quantity, req.Options)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, addon)
}

// UpdateAddon handles PUT /api/cart/addons/{id}.
func (h *CartHandler) UpdateAddon(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	addonID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req model.AddonUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body")
		return
	}

	addon, err := h.service.UpdateAddon(r.Context(), userID, addonID, req)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, addon)
}

// DetachAddon handles DELETE /api/cart/addons/{id}.
func (h *CartHandler) DetachAddon(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	addonID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.DetachAddon(r.Context(), userID, addonID); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// pathUUID parses a UUID path parameter, writing a 400 on failure.
func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "invalid "+name+" path parameter")
		return uuid.Nil, false
	}
	return id, true
}
