package cart

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

// lineRepository implements LineRepository using PostgreSQL.
type lineRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewLineRepository creates a new PostgreSQL-backed cart line store.
func NewLineRepository(pool *pgxpool.Pool, logger zerolog.Logger) LineRepository {
	return &lineRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "cart_line").Logger(),
	}
}

const lineColumns = `id, user_id, product_id, variant_hash, quantity, selected_options, created_at, updated_at`

func scanLines(rows pgx.Rows) ([]model.CartLine, error) {
	defer rows.Close()

	var lines []model.CartLine
	for rows.Next() {
		var l model.CartLine
		err := rows.Scan(&l.ID, &l.UserID, &l.ProductID, &l.VariantHash, &l.Quantity, &l.Options, &l.CreatedAt, &l.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cart line: %w", err)
		}
		lines = append(lines, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cart lines: %w", err)
	}

	return lines, nil
}

// ListForProductForUpdate reads the user's lines for one product, row-locked.
func (r *lineRepository) ListForProductForUpdate(ctx context.Context, tx pgx.Tx, userID string, productID int64) ([]model.CartLine, error) {
	query := `
		SELECT ` + lineColumns + `
		FROM cart_items
		WHERE user_id = $1 AND product_id = $2
		ORDER BY created_at
		FOR UPDATE
	`

	rows, err := tx.Query(ctx, query, userID, productID)
	if err != nil {
		r.logger.Error().Err(err).Int64("product_id", productID).Msg("failed to query cart lines for product")
		return nil, fmt.Errorf("failed to query cart lines: %w", err)
	}

	return scanLines(rows)
}

// Insert creates a new cart line within the transaction.
func (r *lineRepository) Insert(ctx context.Context, tx pgx.Tx, line *model.CartLine) error {
	query := `
		INSERT INTO cart_items (id, user_id, product_id, variant_hash, quantity, selected_options, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := tx.Exec(ctx, query,
		line.ID, line.UserID, line.ProductID, line.VariantHash,
		line.Quantity, line.Options, line.CreatedAt, line.UpdatedAt)
	if err != nil {
		r.logger.Error().Err(err).
			Str("line_id", line.ID.String()).
			Int64("product_id", line.ProductID).
			Msg("failed to insert cart line")
		return fmt.Errorf("failed to insert cart line: %w", err)
	}

	r.logger.Debug().Str("line_id", line.ID.String()).Msg("cart line inserted")

	return nil
}

// Update overwrites a line's quantity and option selection.
func (r *lineRepository) Update(ctx context.Context, tx pgx.Tx, lineID uuid.UUID, quantity int, options model.Options) error {
	query := `
		UPDATE cart_items
		SET quantity = $2, selected_options = $3, updated_at = $4
		WHERE id = $1
	`

	tag, err := tx.Exec(ctx, query, lineID, quantity, options, time.Now())
	if err != nil {
		r.logger.Error().Err(err).Str("line_id", lineID.String()).Msg("failed to update cart line")
		return fmt.Errorf("failed to update cart line: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrLineNotFound
	}

	return nil
}

// GetByID retrieves a line owned by the user.
func (r *lineRepository) GetByID(ctx context.Context, userID string, lineID uuid.UUID) (*model.CartLine, error) {
	query := `
		SELECT ` + lineColumns + `
		FROM cart_items
		WHERE id = $1 AND user_id = $2
	`

	var l model.CartLine
	err := r.pool.QueryRow(ctx, query, lineID, userID).Scan(
		&l.ID, &l.UserID, &l.ProductID, &l.VariantHash, &l.Quantity, &l.Options, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("line_id", lineID.String()).Msg("failed to query cart line")
		return nil, fmt.Errorf("failed to query cart line: %w", err)
	}

	return &l, nil
}

// ListByUser returns all of the user's lines.
func (r *lineRepository) ListByUser(ctx context.Context, userID string) ([]model.CartLine, error) {
	query := `
		SELECT ` + lineColumns + `
		FROM cart_items
		WHERE user_id = $1
		ORDER BY created_at
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query cart lines")
		return nil, fmt.Errorf("failed to query cart lines: %w", err)
	}

	return scanLines(rows)
}

// ListByUserForUpdate reads all of the user's lines row-locked.
func (r *lineRepository) ListByUserForUpdate(ctx context.Context, tx pgx.Tx, userID string) ([]model.CartLine, error) {
	query := `
		SELECT ` + lineColumns + `
		FROM cart_items
		WHERE user_id = $1
		ORDER BY created_at
		FOR UPDATE
	`

	rows, err := tx.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query cart lines for update")
		return nil, fmt.Errorf("failed to query cart lines: %w", err)
	}

	return scanLines(rows)
}

// Delete removes a single line within the transaction.
func (r *lineRepository) Delete(ctx context.Context, tx pgx.Tx, lineID uuid.UUID) error {
	tag, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE id = $1`, lineID)
	if err != nil {
		r.logger.Error().Err(err).Str("line_id", lineID.String()).Msg("failed to delete cart line")
		return fmt.Errorf("failed to delete cart line: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrLineNotFound
	}

	r.logger.Debug().Str("line_id", lineID.String()).Msg("cart line deleted")

	return nil
}

// DeleteByUser removes all of the user's lines within the transaction.
func (r *lineRepository) DeleteByUser(ctx context.Context, tx pgx.Tx, userID string) error {
	_, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to clear cart")
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	return nil
}
