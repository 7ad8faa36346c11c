package model

import "github.com/shopspring/decimal"

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	CorrelationID string `json:"correlationId,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON         = "INVALID_JSON"
	ErrCodeMissingField        = "MISSING_FIELD"
	ErrCodeUnauthenticated     = "UNAUTHENTICATED"
	ErrCodeProductNotFound     = "PRODUCT_NOT_FOUND"
	ErrCodeLineNotFound        = "CART_LINE_NOT_FOUND"
	ErrCodeAddonNotFound       = "ADDON_LINE_NOT_FOUND"
	ErrCodeAddonNotAllowed     = "ADDON_NOT_ALLOWED"
	ErrCodeInvalidQuantity     = "INVALID_QUANTITY"
	ErrCodeInsufficientStock   = "INSUFFICIENT_STOCK"
	ErrCodeCartConflict        = "CART_CONFLICT"
	ErrCodeInvalidCode         = "INVALID_CODE"
	ErrCodeExpired             = "EXPIRED"
	ErrCodeNotYetActive        = "NOT_YET_ACTIVE"
	ErrCodeUsageLimitReached   = "USAGE_LIMIT_REACHED"
	ErrCodeBelowMinimum        = "BELOW_MINIMUM"
	ErrCodeDiscountInvalidated = "DISCOUNT_NO_LONGER_VALID"
	ErrCodeOrderCompileFailed  = "ORDER_COMPILE_FAILED"
	ErrCodeOrderNotFound       = "ORDER_NOT_FOUND"
	ErrCodeInvalidResolution   = "INVALID_RESOLUTION"
	ErrCodeInternalError       = "INTERNAL_ERROR"
)

// Domain errors for business logic
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrUnauthenticated   = NewDomainError(ErrCodeUnauthenticated, "Authenticated user is required")
	ErrProductNotFound   = NewDomainError(ErrCodeProductNotFound, "Product not found")
	ErrLineNotFound      = NewDomainError(ErrCodeLineNotFound, "Cart line not found")
	ErrAddonNotFound     = NewDomainError(ErrCodeAddonNotFound, "Add-on line not found")
	ErrAddonNotAllowed   = NewDomainError(ErrCodeAddonNotAllowed, "Product cannot be attached as an add-on to this line")
	ErrInvalidQuantity   = NewDomainError(ErrCodeInvalidQuantity, "Quantity must be greater than zero")
	ErrInsufficientStock = NewDomainError(ErrCodeInsufficientStock, "Requested quantity exceeds available stock")
	ErrInvalidCode       = NewDomainError(ErrCodeInvalidCode, "Discount code is invalid")
	ErrCodeExpiredNow    = NewDomainError(ErrCodeExpired, "Discount code has expired")
	ErrNotYetActive      = NewDomainError(ErrCodeNotYetActive, "Discount code is not active yet")
	ErrUsageLimitReached = NewDomainError(ErrCodeUsageLimitReached, "Discount code usage limit has been reached")
	ErrOrderNotFound     = NewDomainError(ErrCodeOrderNotFound, "Order not found")
	ErrInvalidResolution = NewDomainError(ErrCodeInvalidResolution, "Resolution must be \"replace\" or \"add_separate\"")
)

// BelowMinimumError is returned when the cart subtotal does not reach a
// discount code's minimum order amount. It carries the required minimum so
// callers can display it.
type BelowMinimumError struct {
	Minimum decimal.Decimal
}

func (e *BelowMinimumError) Error() string {
	return "Cart subtotal is below the discount code minimum of " + e.Minimum.StringFixed(2)
}

// DiscountInvalidatedError is returned by order compilation when a discount
// that previously validated no longer does. The underlying rejection is kept
// so the UI can re-prompt with the specific reason instead of silently
// dropping the discount.
type DiscountInvalidatedError struct {
	Cause error
}

func (e *DiscountInvalidatedError) Error() string {
	return "Discount code is no longer valid: " + e.Cause.Error()
}

func (e *DiscountInvalidatedError) Unwrap() error {
	return e.Cause
}

// CartConflictError signals that an add targets a product already in the
// cart with different option selections. It is expected control flow, not a
// fault: the caller must ask the user to replace or add separately.
type CartConflictError struct {
	Existing CartLine
	Proposed ProposedLine
}

func (e *CartConflictError) Error() string {
	return "Product is already in the cart with different options"
}

// OrderCompileError wraps any failure during order compilation. The cart is
// left intact whenever it is returned.
type OrderCompileError struct {
	Cause error
}

func (e *OrderCompileError) Error() string {
	return "Failed to compile order: " + e.Cause.Error()
}

func (e *OrderCompileError) Unwrap() error {
	return e.Cause
}
