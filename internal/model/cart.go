package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Options is a product option selection, keyed by option identifier.
// Key order is irrelevant; two selections are equal when every key maps to
// the same value and neither side has extra keys.
type Options map[string]string

// CartLine is one product entry in a user's active cart. At most one line
// exists per (user, product, variant) at any time; VariantHash is empty for
// the primary line and an options hash for lines created by an explicit
// "add separate" resolution.
type CartLine struct {
	ID           uuid.UUID `json:"id" db:"id"`
	UserID       string    `json:"-" db:"user_id"`
	ProductID    int64     `json:"productId" db:"product_id"`
	VariantHash  string    `json:"-" db:"variant_hash"`
	Quantity     int       `json:"quantity" db:"quantity"`
	Options      Options   `json:"selectedOptions" db:"selected_options"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

// ProposedLine is the not-yet-persisted side of an add decision.
type ProposedLine struct {
	ProductID int64   `json:"productId"`
	Quantity  int     `json:"quantity"`
	Options   Options `json:"selectedOptions"`
}

// AddonLine is a complementary product attached to a CartLine. Several
// add-on lines may reference the same add-on product; they are deleted with
// their owning line.
type AddonLine struct {
	ID             uuid.UUID        `json:"id" db:"id"`
	CartLineID     uuid.UUID        `json:"cartLineId" db:"cart_item_id"`
	AddonProductID int64            `json:"addonProductId" db:"addon_product_id"`
	Quantity       int              `json:"quantity" db:"quantity"`
	Options        Options          `json:"selectedOptions" db:"selected_options"`
	PriceOverride  *decimal.Decimal `json:"priceOverride,omitempty" db:"price_override"`
	CreatedAt      time.Time        `json:"createdAt" db:"created_at"`
}

// AddonUpdate is a partial update of an add-on line; nil fields are left
// unchanged.
type AddonUpdate struct {
	Quantity *int     `json:"quantity,omitempty"`
	Options  *Options `json:"selectedOptions,omitempty"`
}

// CartView is a cart line joined with live catalogue data and its add-ons.
// Prices here may be stale relative to checkout; compilation revalidates.
type CartView struct {
	Line    CartLine    `json:"line"`
	Product Product     `json:"product"`
	Addons  []AddonView `json:"addons"`
}

// AddonView is an add-on line joined with its catalogue product.
type AddonView struct {
	Line    AddonLine `json:"line"`
	Product Product   `json:"product"`
}

// UnitPrice returns the price one unit of this add-on sells at: the
// override when set, otherwise the add-on product's catalogue price.
func (v *AddonView) UnitPrice() decimal.Decimal {
	if v.Line.PriceOverride != nil {
		return *v.Line.PriceOverride
	}
	return v.Product.Price
}

// CartSummary is the recomputed aggregate over a user's cart. It is derived
// on every read rather than cached, so mutations can never leave a stale
// aggregate behind.
type CartSummary struct {
	ItemCount int             `json:"itemCount"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// CartResponse is the payload for cart reads.
type CartResponse struct {
	Items   []CartView  `json:"items"`
	Summary CartSummary `json:"summary"`
}
