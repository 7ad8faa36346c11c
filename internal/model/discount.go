package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DiscountKind distinguishes percentage discounts from fixed amounts.
type DiscountKind string

const (
	DiscountPercentage DiscountKind = "percentage"
	DiscountFixed      DiscountKind = "fixed"
)

// DiscountCode is a redeemable promotional rule. Codes are matched
// case-insensitively on the trimmed code string. UseCount only ever grows:
// it is incremented exactly once per compiled order that applied the code
// and is not released by cancellations or refunds.
type DiscountCode struct {
	ID             uuid.UUID        `json:"id" db:"id"`
	Code           string           `json:"code" db:"code"`
	Kind           DiscountKind     `json:"kind" db:"kind"`
	Value          decimal.Decimal  `json:"value" db:"value"`
	MinOrderAmount *decimal.Decimal `json:"minOrderAmount,omitempty" db:"min_order_amount"`
	MaxUses        *int             `json:"maxUses,omitempty" db:"max_uses"`
	PerUserLimit   *int             `json:"perUserLimit,omitempty" db:"per_user_limit"`
	UseCount       int              `json:"useCount" db:"use_count"`
	IsActive       bool             `json:"isActive" db:"is_active"`
	StartsAt       *time.Time       `json:"startsAt,omitempty" db:"starts_at"`
	ExpiresAt      *time.Time       `json:"expiresAt,omitempty" db:"expires_at"`
	CreatedAt      time.Time        `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time        `json:"updatedAt" db:"updated_at"`
}

// AppliedDiscount is the successful outcome of validating a code against a
// cart subtotal.
type AppliedDiscount struct {
	Code           string          `json:"code"`
	Kind           DiscountKind    `json:"kind"`
	Value          decimal.Decimal `json:"value"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
}

// DiscountUsage records that a user consumed a code for an order. OrderID is
// nil until the order row exists inside the same transaction.
type DiscountUsage struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	DiscountCodeID uuid.UUID  `json:"discountCodeId" db:"discount_code_id"`
	UserID         string     `json:"userId" db:"user_id"`
	OrderID        *uuid.UUID `json:"orderId,omitempty" db:"order_id"`
	UsedAt         time.Time  `json:"usedAt" db:"used_at"`
}
