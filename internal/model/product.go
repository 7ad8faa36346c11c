package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a catalogue item as seen by the pricing engine. The
// catalogue itself is owned elsewhere; this engine only reads it.
type Product struct {
	ID        int64           `json:"id" db:"id"`
	Name      string          `json:"name" db:"name"`
	Slug      string          `json:"slug" db:"slug"`
	ImageURL  string          `json:"imageUrl" db:"image_url"`
	Price     decimal.Decimal `json:"price" db:"price"`
	Stock     int             `json:"stock" db:"stock"`
	AddonIDs  []int64         `json:"addonIds" db:"addon_ids"`
	OptionIDs []string        `json:"optionIds" db:"option_ids"`
	CreatedAt time.Time       `json:"createdAt" db:"created_at"`
}

// AllowsAddon reports whether the given product may be attached to this
// product as an add-on.
func (p *Product) AllowsAddon(addonProductID int64) bool {
	for _, id := range p.AddonIDs {
		if id == addonProductID {
			return true
		}
	}
	return false
}

// ProductSnapshot is the display data frozen into an order line at purchase
// time, so later catalogue edits or deletions never alter historical orders.
type ProductSnapshot struct {
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	ImageURL string `json:"imageUrl"`
}
