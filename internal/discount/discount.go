package discount

import (
	"context"
	"io"

	"gemkart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// Service exposes discount validation against a live cart subtotal. The
// preview outcome is advisory only: order compilation re-runs the same
// validation because elapsed time or concurrent usage may have invalidated
// the code since.
type Service interface {
	// Preview validates a raw code string against a cart subtotal.
	Preview(ctx context.Context, rawCode string, subtotal decimal.Decimal) (*model.AppliedDiscount, error)
}

// Repository is the discount code and usage-ledger store.
type Repository interface {
	// GetByCode retrieves a code by its normalised form. Returns nil
	// when absent.
	GetByCode(ctx context.Context, normalized string) (*model.DiscountCode, error)

	// GetByCodeForUpdate is the row-locked variant used inside order
	// compilation, so revalidation and the use-count increment serialise
	// across concurrent orders.
	GetByCodeForUpdate(ctx context.Context, tx pgx.Tx, normalized string) (*model.DiscountCode, error)

	// ConsumeUse increments use_count by one, guarded so the count can
	// never exceed max_uses. Returns false when the ceiling was already
	// reached. The count is never decremented, not even for cancelled or
	// refunded orders.
	ConsumeUse(ctx context.Context, tx pgx.Tx, codeID uuid.UUID) (bool, error)

	// InsertUsage appends a usage row to the ledger.
	InsertUsage(ctx context.Context, tx pgx.Tx, usage *model.DiscountUsage) error

	// CountUsagesForUser counts how many times the user has consumed the
	// code, for per-user limits.
	CountUsagesForUser(ctx context.Context, tx pgx.Tx, codeID uuid.UUID, userID string) (int, error)

	// Upsert inserts or refreshes a code definition by its normalised
	// code string. Used by the bulk importer; use_count is preserved on
	// refresh.
	Upsert(ctx context.Context, code *model.DiscountCode) error
}

// Source opens a named discount file for the bulk importer. Implementations
// exist for the local filesystem and S3.
type Source interface {
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}
