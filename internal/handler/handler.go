package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"gemkart/internal/model"

	"github.com/rs/zerolog"
)

// statusForCode maps domain error codes to HTTP statuses. Validation
// rejections are expected outcomes, not faults.
var statusForCode = map[string]int{
	model.ErrCodeUnauthenticated:     http.StatusUnauthorized,
	model.ErrCodeProductNotFound:     http.StatusNotFound,
	model.ErrCodeLineNotFound:        http.StatusNotFound,
	model.ErrCodeAddonNotFound:       http.StatusNotFound,
	model.ErrCodeOrderNotFound:       http.StatusNotFound,
	model.ErrCodeAddonNotAllowed:     http.StatusBadRequest,
	model.ErrCodeInvalidQuantity:     http.StatusBadRequest,
	model.ErrCodeInvalidResolution:   http.StatusBadRequest,
	model.ErrCodeInsufficientStock:   http.StatusConflict,
	model.ErrCodeInvalidCode:         http.StatusUnprocessableEntity,
	model.ErrCodeExpired:             http.StatusUnprocessableEntity,
	model.ErrCodeNotYetActive:        http.StatusUnprocessableEntity,
	model.ErrCodeUsageLimitReached:   http.StatusUnprocessableEntity,
	model.ErrCodeBelowMinimum:        http.StatusUnprocessableEntity,
	model.ErrCodeCartConflict:        http.StatusConflict,
	model.ErrCodeDiscountInvalidated: http.StatusConflict,
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Headers are already out; nothing left to do.
		return
	}
}

// writeError writes a standardised error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, model.ErrorResponse{Error: code, Message: message})
}

// conflictResponse is the 409 payload for an add-to-cart collision: the
// caller must prompt the user to replace or add separately.
type conflictResponse struct {
	Error    string             `json:"error"`
	Message  string             `json:"message"`
	Existing model.CartLine     `json:"existing"`
	Proposed model.ProposedLine `json:"proposed"`
}

// belowMinimumResponse carries the required minimum for display.
type belowMinimumResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Minimum string `json:"minimum"`
}

// writeDomainError maps engine errors onto HTTP responses. Anything
// unrecognised is an opaque storage-layer failure and becomes a 500.
func writeDomainError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	var conflict *model.CartConflictError
	if errors.As(err, &conflict) {
		writeJSON(w, http.StatusConflict, conflictResponse{
			Error:    model.ErrCodeCartConflict,
			Message:  conflict.Error(),
			Existing: conflict.Existing,
			Proposed: conflict.Proposed,
		})
		return
	}

	var belowMin *model.BelowMinimumError
	if errors.As(err, &belowMin) {
		writeJSON(w, http.StatusUnprocessableEntity, belowMinimumResponse{
			Error:   model.ErrCodeBelowMinimum,
			Message: belowMin.Error(),
			Minimum: belowMin.Minimum.StringFixed(2),
		})
		return
	}

	var invalidated *model.DiscountInvalidatedError
	if errors.As(err, &invalidated) {
		writeError(w, http.StatusConflict, model.ErrCodeDiscountInvalidated, invalidated.Error())
		return
	}

	var compile *model.OrderCompileError
	if errors.As(err, &compile) {
		logger.Error().Err(compile.Cause).Msg("order compilation failed")
		writeError(w, http.StatusInternalServerError, model.ErrCodeOrderCompileFailed, compile.Error())
		return
	}

	var domain *model.DomainError
	if errors.As(err, &domain) {
		status, ok := statusForCode[domain.Code]
		if !ok {
			status = http.StatusBadRequest
		}
		writeError(w, status, domain.Code, domain.Message)
		return
	}

	logger.Error().Err(err).Msg("unhandled error")
	writeError(w, http.StatusInternalServerError, model.ErrCodeInternalError, "internal server error")
}
