package discount

import (
	"strings"
	"time"

	"gemkart/internal/model"

	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// NormalizeCode canonicalises a raw code string for lookup: trimmed and
// lowercased, so "SAVE10 " and "save10" name the same code.
func NormalizeCode(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// Validate checks a discount code record against a proposed cart subtotal
// and computes the discount amount. It is a pure function; the first failing
// check wins:
//
//	missing or inactive  -> INVALID_CODE
//	expired              -> EXPIRED
//	not yet started      -> NOT_YET_ACTIVE
//	use ceiling reached  -> USAGE_LIMIT_REACHED
//	subtotal below floor -> BELOW_MINIMUM (carries the minimum)
//
// A fixed discount is clamped to the subtotal so the payable amount can
// never go negative.
func Validate(code *model.DiscountCode, subtotal decimal.Decimal, now time.Time) (*model.AppliedDiscount, error) {
	if code == nil || !code.IsActive {
		return nil, model.ErrInvalidCode
	}

	if code.ExpiresAt != nil && code.ExpiresAt.Before(now) {
		return nil, model.ErrCodeExpiredNow
	}

	if code.StartsAt != nil && code.StartsAt.After(now) {
		return nil, model.ErrNotYetActive
	}

	if code.MaxUses != nil && code.UseCount >= *code.MaxUses {
		return nil, model.ErrUsageLimitReached
	}

	if code.MinOrderAmount != nil && subtotal.LessThan(*code.MinOrderAmount) {
		return nil, &model.BelowMinimumError{Minimum: *code.MinOrderAmount}
	}

	var amount decimal.Decimal
	switch code.Kind {
	case model.DiscountPercentage:
		amount = subtotal.Mul(code.Value).Div(oneHundred)
	case model.DiscountFixed:
		amount = decimal.Min(code.Value, subtotal)
	default:
		return nil, model.ErrInvalidCode
	}

	return &model.AppliedDiscount{
		Code:           code.Code,
		Kind:           code.Kind,
		Value:          code.Value,
		DiscountAmount: amount,
	}, nil
}
