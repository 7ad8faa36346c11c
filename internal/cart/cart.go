package cart

import (
	"context"

	"gemkart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Service owns the cart-line and add-on lifecycle up to checkout.
type Service interface {
	// AddOrMerge adds a product to the user's cart, merging with an
	// existing line when the option selections match. A differing
	// selection fails with *model.CartConflictError.
	AddOrMerge(ctx context.Context, userID string, productID int64, quantity int, options model.Options) (*model.CartLine, error)

	// ResolveConflict applies the user's explicit choice after a
	// conflict: "replace" overwrites the existing line, "add_separate"
	// creates a variant line for the new selection.
	ResolveConflict(ctx context.Context, userID string, productID int64, quantity int, options model.Options, resolution string) (*model.CartLine, error)

	// SetQuantity updates a line's quantity; a value below 1 deletes the
	// line and its add-ons.
	SetQuantity(ctx context.Context, userID string, lineID uuid.UUID, quantity int) error

	// Remove deletes a single line and its add-ons.
	Remove(ctx context.Context, userID string, lineID uuid.UUID) error

	// Clear empties the user's cart.
	Clear(ctx context.Context, userID string) error

	// List returns the cart joined with live catalogue data and a
	// recomputed summary.
	List(ctx context.Context, userID string) (*model.CartResponse, error)

	// AttachAddon attaches an add-on product to a cart line. Duplicate
	// attachments of the same add-on product are permitted.
	AttachAddon(ctx context.Context, userID string, lineID uuid.UUID, addonProductID int64, quantity int, options model.Options) (*model.AddonLine, error)

	// UpdateAddon applies a partial update to an add-on line.
	UpdateAddon(ctx context.Context, userID string, addonID uuid.UUID, update model.AddonUpdate) (*model.AddonLine, error)

	// DetachAddon removes a single add-on line.
	DetachAddon(ctx context.Context, userID string, addonID uuid.UUID) error
}

// LineRepository is the cart line store.
type LineRepository interface {
	// ListForProductForUpdate reads every line the user holds for a
	// product, row-locked so concurrent adds serialise instead of losing
	// updates.
	ListForProductForUpdate(ctx context.Context, tx pgx.Tx, userID string, productID int64) ([]model.CartLine, error)

	// Insert creates a new cart line within the transaction.
	Insert(ctx context.Context, tx pgx.Tx, line *model.CartLine) error

	// Update overwrites a line's quantity and option selection.
	Update(ctx context.Context, tx pgx.Tx, lineID uuid.UUID, quantity int, options model.Options) error

	// GetByID retrieves a line owned by the user. Returns nil when absent.
	GetByID(ctx context.Context, userID string, lineID uuid.UUID) (*model.CartLine, error)

	// ListByUser returns all of the user's lines.
	ListByUser(ctx context.Context, userID string) ([]model.CartLine, error)

	// ListByUserForUpdate reads all of the user's lines row-locked,
	// used by order compilation.
	ListByUserForUpdate(ctx context.Context, tx pgx.Tx, userID string) ([]model.CartLine, error)

	// Delete removes a single line within the transaction.
	Delete(ctx context.Context, tx pgx.Tx, lineID uuid.UUID) error

	// DeleteByUser removes all of the user's lines within the transaction.
	DeleteByUser(ctx context.Context, tx pgx.Tx, userID string) error
}

// AddonRepository is the add-on attachment store.
type AddonRepository interface {
	// Insert creates a new add-on line.
	Insert(ctx context.Context, addon *model.AddonLine) error

	// GetByID retrieves an add-on line. Returns nil when absent.
	GetByID(ctx context.Context, addonID uuid.UUID) (*model.AddonLine, error)

	// Update applies a partial update; nil fields are left unchanged.
	Update(ctx context.Context, addonID uuid.UUID, update model.AddonUpdate) error

	// Delete removes a single add-on line.
	Delete(ctx context.Context, addonID uuid.UUID) error

	// DeleteForLine removes every add-on attached to a cart line. Every
	// line deletion must invoke this within the same transaction so no
	// orphaned add-ons survive.
	DeleteForLine(ctx context.Context, tx pgx.Tx, lineID uuid.UUID) error

	// DeleteForUser removes every add-on attached to any of the user's
	// lines within the transaction.
	DeleteForUser(ctx context.Context, tx pgx.Tx, userID string) error

	// ListForLines returns add-ons grouped by owning cart line.
	ListForLines(ctx context.Context, lineIDs []uuid.UUID) (map[uuid.UUID][]model.AddonLine, error)

	// ListForLinesForUpdate is the row-locked variant used by order
	// compilation.
	ListForLinesForUpdate(ctx context.Context, tx pgx.Tx, lineIDs []uuid.UUID) (map[uuid.UUID][]model.AddonLine, error)
}
