package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"gemkart/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockDiscountService is a mock implementation of discount.Service.
type MockDiscountService struct {
	mock.Mock
}

func (m *MockDiscountService) Preview(ctx context.Context, rawCode string, subtotal decimal.Decimal) (*model.AppliedDiscount, error) {
	args := m.Called(ctx, rawCode, subtotal)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AppliedDiscount), args.Error(1)
}

func cartWithSubtotal(subtotal int64) *model.CartResponse {
	return &model.CartResponse{
		Items:   []model.CartView{},
		Summary: model.CartSummary{ItemCount: 1, Subtotal: decimal.NewFromInt(subtotal)},
	}
}

func TestDiscountHandler_Preview(t *testing.T) {
	mockDiscounts := new(MockDiscountService)
	mockCarts := new(MockCartService)
	h := NewDiscountHandler(mockDiscounts, mockCarts, zerolog.Nop())

	mockCarts.On("List", mock.Anything, "user-1").Return(cartWithSubtotal(1000), nil)
	mockDiscounts.On("Preview", mock.Anything, "SAVE10", decimal.NewFromInt(1000)).Return(&model.AppliedDiscount{
		Code:           "save10",
		Kind:           model.DiscountPercentage,
		Value:          decimal.NewFromInt(10),
		DiscountAmount: decimal.NewFromInt(100),
	}, nil)

	body, _ := json.Marshal(map[string]any{"code": "SAVE10"})
	w := httptest.NewRecorder()
	h.Preview(w, authedRequest(http.MethodPost, "/api/discounts/preview", body))

	assert.Equal(t, http.StatusOK, w.Code)

	var applied model.AppliedDiscount
	require.NoError(t, json.NewDecoder(w.Body).Decode(&applied))
	assert.Equal(t, "save10", applied.Code)
	assert.True(t, applied.DiscountAmount.Equal(decimal.NewFromInt(100)))
}

func TestDiscountHandler_Preview_BelowMinimum(t *testing.T) {
	mockDiscounts := new(MockDiscountService)
	mockCarts := new(MockCartService)
	h := NewDiscountHandler(mockDiscounts, mockCarts, zerolog.Nop())

	mockCarts.On("List", mock.Anything, "user-1").Return(cartWithSubtotal(300), nil)
	mockDiscounts.On("Preview", mock.Anything, "save10", decimal.NewFromInt(300)).
		Return(nil, &model.BelowMinimumError{Minimum: decimal.NewFromInt(500)})

	body, _ := json.Marshal(map[string]any{"code": "save10"})
	w := httptest.NewRecorder()
	h.Preview(w, authedRequest(http.MethodPost, "/api/discounts/preview", body))

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp belowMinimumResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, model.ErrCodeBelowMinimum, resp.Error)
	assert.Equal(t, "500.00", resp.Minimum)
}

func TestDiscountHandler_Preview_InvalidCode(t *testing.T) {
	mockDiscounts := new(MockDiscountService)
	mockCarts := new(MockCartService)
	h := NewDiscountHandler(mockDiscounts, mockCarts, zerolog.Nop())

	mockCarts.On("List", mock.Anything, "user-1").Return(cartWithSubtotal(1000), nil)
	mockDiscounts.On("Preview", mock.Anything, "nope", decimal.NewFromInt(1000)).
		Return(nil, model.ErrInvalidCode)

	body, _ := json.Marshal(map[string]any{"code": "nope"})
	w := httptest.NewRecorder()
	h.Preview(w, authedRequest(http.MethodPost, "/api/discounts/preview", body))

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp model.ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, model.ErrCodeInvalidCode, resp.Error)
}

func TestDiscountHandler_Preview_MissingCode(t *testing.T) {
	h := NewDiscountHandler(new(MockDiscountService), new(MockCartService), zerolog.Nop())

	body, _ := json.Marshal(map[string]any{"code": "  "})
	w := httptest.NewRecorder()
	h.Preview(w, authedRequest(http.MethodPost, "/api/discounts/preview", body))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
