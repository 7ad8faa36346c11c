package discount

import (
	"context"
	"fmt"
	"time"

	"gemkart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// repository implements Repository using PostgreSQL.
type repository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewRepository creates a new PostgreSQL-backed discount store.
func NewRepository(pool *pgxpool.Pool, logger zerolog.Logger) Repository {
	return &repository{
		pool:   pool,
		logger: logger.With().Str("repository", "discount").Logger(),
	}
}

const codeColumns = `id, code, kind, value, min_order_amount, max_uses, per_user_limit, use_count, is_active, starts_at, expires_at, created_at, updated_at`

func scanCode(row pgx.Row) (*model.DiscountCode, error) {
	var c model.DiscountCode
	err := row.Scan(&c.ID, &c.Code, &c.Kind, &c.Value, &c.MinOrderAmount, &c.MaxUses, &c.PerUserLimit,
		&c.UseCount, &c.IsActive, &c.StartsAt, &c.ExpiresAt, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetByCode retrieves a code by its normalised form.
func (r *repository) GetByCode(ctx context.Context, normalized string) (*model.DiscountCode, error) {
	query := `
		SELECT ` + codeColumns + `
		FROM discount_codes
		WHERE lower(code) = $1
	`

	c, err := scanCode(r.pool.QueryRow(ctx, query, normalized))
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("code", normalized).Msg("discount code not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("code", normalized).Msg("failed to query discount code")
		return nil, fmt.Errorf("failed to query discount code: %w", err)
	}

	return c, nil
}

// GetByCodeForUpdate retrieves a code row-locked within the transaction.
func (r *repository) GetByCodeForUpdate(ctx context.Context, tx pgx.Tx, normalized string) (*model.DiscountCode, error) {
	query := `
		SELECT ` + codeColumns + `
		FROM discount_codes
		WHERE lower(code) = $1
		FOR UPDATE
	`

	c, err := scanCode(tx.QueryRow(ctx, query, normalized))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("code", normalized).Msg("failed to lock discount code")
		return nil, fmt.Errorf("failed to lock discount code: %w", err)
	}

	return c, nil
}

// ConsumeUse increments use_count by exactly one, guarded against the
// ceiling. A zero row count means the ceiling was hit by a concurrent order.
func (r *repository) ConsumeUse(ctx context.Context, tx pgx.Tx, codeID uuid.UUID) (bool, error) {
	query := `
		UPDATE discount_codes
		SET use_count = use_count + 1, updated_at = $2
		WHERE id = $1
		  AND is_active
		  AND (max_uses IS NULL OR use_count < max_uses)
	`

	tag, err := tx.Exec(ctx, query, codeID, time.Now())
	if err != nil {
		r.logger.Error().Err(err).Str("code_id", codeID.String()).Msg("failed to consume discount use")
		return false, fmt.Errorf("failed to consume discount use: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

// InsertUsage appends a usage row to the ledger.
func (r *repository) InsertUsage(ctx context.Context, tx pgx.Tx, usage *model.DiscountUsage) error {
	query := `
		INSERT INTO discount_code_usages (id, discount_code_id, user_id, order_id, used_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := tx.Exec(ctx, query, usage.ID, usage.DiscountCodeID, usage.UserID, usage.OrderID, usage.UsedAt)
	if err != nil {
		r.logger.Error().Err(err).
			Str("discount_code_id", usage.DiscountCodeID.String()).
			Msg("failed to insert discount usage")
		return fmt.Errorf("failed to insert discount usage: %w", err)
	}

	return nil
}

// CountUsagesForUser counts the user's consumptions of a code.
func (r *repository) CountUsagesForUser(ctx context.Context, tx pgx.Tx, codeID uuid.UUID, userID string) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM discount_code_usages
		WHERE discount_code_id = $1 AND user_id = $2
	`

	var count int
	if err := tx.QueryRow(ctx, query, codeID, userID).Scan(&count); err != nil {
		r.logger.Error().Err(err).Str("code_id", codeID.String()).Msg("failed to count discount usages")
		return 0, fmt.Errorf("failed to count discount usages: %w", err)
	}

	return count, nil
}

// Upsert inserts or refreshes a code definition. Matching is on the
// normalised code string; use_count survives a refresh.
func (r *repository) Upsert(ctx context.Context, code *model.DiscountCode) error {
	query := `
		INSERT INTO discount_codes (id, code, kind, value, min_order_amount, max_uses, per_user_limit, use_count, is_active, starts_at, expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 0, $8, $9, $10, $11, $11)
		ON CONFLICT (code) DO UPDATE SET
			kind = EXCLUDED.kind,
			value = EXCLUDED.value,
			min_order_amount = EXCLUDED.min_order_amount,
			max_uses = EXCLUDED.max_uses,
			per_user_limit = EXCLUDED.per_user_limit,
			is_active = EXCLUDED.is_active,
			starts_at = EXCLUDED.starts_at,
			expires_at = EXCLUDED.expires_at,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.pool.Exec(ctx, query,
		code.ID, NormalizeCode(code.Code), code.Kind, code.Value,
		code.MinOrderAmount, code.MaxUses, code.PerUserLimit,
		code.IsActive, code.StartsAt, code.ExpiresAt, time.Now())
	if err != nil {
		r.logger.Error().Err(err).Str("code", code.Code).Msg("failed to upsert discount code")
		return fmt.Errorf("failed to upsert discount code: %w", err)
	}

	return nil
}
