package cart

import (
	"context"
	"fmt"

	"gemkart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// addonRepository implements AddonRepository using PostgreSQL.
type addonRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewAddonRepository creates a new PostgreSQL-backed add-on store.
func NewAddonRepository(pool *pgxpool.Pool, logger zerolog.Logger) AddonRepository {
	return &addonRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "cart_addon").Logger(),
	}
}

const addonColumns = `id, cart_item_id, addon_product_id, quantity, selected_options, price_override, created_at`

func scanAddon(row pgx.Row) (*model.AddonLine, error) {
	var a model.AddonLine
	err := row.Scan(&a.ID, &a.CartLineID, &a.AddonProductID, &a.Quantity, &a.Options, &a.PriceOverride, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func groupAddons(rows pgx.Rows) (map[uuid.UUID][]model.AddonLine, error) {
	defer rows.Close()

	grouped := make(map[uuid.UUID][]model.AddonLine)
	for rows.Next() {
		a, err := scanAddon(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan add-on line: %w", err)
		}
		grouped[a.CartLineID] = append(grouped[a.CartLineID], *a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating add-on lines: %w", err)
	}

	return grouped, nil
}

// Insert creates a new add-on line. No uniqueness applies: the same add-on
// product may be attached to a line more than once.
func (r *addonRepository) Insert(ctx context.Context, addon *model.AddonLine) error {
	query := `
		INSERT INTO cart_item_addons (id, cart_item_id, addon_product_id, quantity, selected_options, price_override, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query,
		addon.ID, addon.CartLineID, addon.AddonProductID,
		addon.Quantity, addon.Options, addon.PriceOverride, addon.CreatedAt)
	if err != nil {
		r.logger.Error().Err(err).
			Str("cart_line_id", addon.CartLineID.String()).
			Int64("addon_product_id", addon.AddonProductID).
			Msg("failed to insert add-on line")
		return fmt.Errorf("failed to insert add-on line: %w", err)
	}

	return nil
}

// GetByID retrieves an add-on line.
func (r *addonRepository) GetByID(ctx context.Context, addonID uuid.UUID) (*model.AddonLine, error) {
	query := `
		SELECT ` + addonColumns + `
		FROM cart_item_addons
		WHERE id = $1
	`

	a, err := scanAddon(r.pool.QueryRow(ctx, query, addonID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("addon_id", addonID.String()).Msg("failed to query add-on line")
		return nil, fmt.Errorf("failed to query add-on line: %w", err)
	}

	return a, nil
}

// Update applies a partial update; nil fields are left unchanged.
func (r *addonRepository) Update(ctx context.Context, addonID uuid.UUID, update model.AddonUpdate) error {
	query := `
		UPDATE cart_item_addons
		SET quantity = COALESCE($2, quantity),
		    selected_options = COALESCE($3, selected_options)
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query, addonID, update.Quantity, update.Options)
	if err != nil {
		r.logger.Error().Err(err).Str("addon_id", addonID.String()).Msg("failed to update add-on line")
		return fmt.Errorf("failed to update add-on line: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrAddonNotFound
	}

	return nil
}

// Delete removes a single add-on line.
func (r *addonRepository) Delete(ctx context.Context, addonID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM cart_item_addons WHERE id = $1`, addonID)
	if err != nil {
		r.logger.Error().Err(err).Str("addon_id", addonID.String()).Msg("failed to delete add-on line")
		return fmt.Errorf("failed to delete add-on line: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrAddonNotFound
	}

	return nil
}

// DeleteForLine removes every add-on attached to a cart line.
func (r *addonRepository) DeleteForLine(ctx context.Context, tx pgx.Tx, lineID uuid.UUID) error {
	_, err := tx.Exec(ctx, `DELETE FROM cart_item_addons WHERE cart_item_id = $1`, lineID)
	if err != nil {
		r.logger.Error().Err(err).Str("cart_line_id", lineID.String()).Msg("failed to delete add-ons for line")
		return fmt.Errorf("failed to delete add-ons for line: %w", err)
	}

	return nil
}

// DeleteForUser removes every add-on attached to any of the user's lines.
func (r *addonRepository) DeleteForUser(ctx context.Context, tx pgx.Tx, userID string) error {
	query := `
		DELETE FROM cart_item_addons
		WHERE cart_item_id IN (SELECT id FROM cart_items WHERE user_id = $1)
	`

	_, err := tx.Exec(ctx, query, userID)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to delete add-ons for user")
		return fmt.Errorf("failed to delete add-ons for user: %w", err)
	}

	return nil
}

// ListForLines returns add-ons grouped by owning cart line.
func (r *addonRepository) ListForLines(ctx context.Context, lineIDs []uuid.UUID) (map[uuid.UUID][]model.AddonLine, error) {
	if len(lineIDs) == 0 {
		return map[uuid.UUID][]model.AddonLine{}, nil
	}

	query := `
		SELECT ` + addonColumns + `
		FROM cart_item_addons
		WHERE cart_item_id = ANY($1)
		ORDER BY created_at
	`

	rows, err := r.pool.Query(ctx, query, lineIDs)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query add-on lines")
		return nil, fmt.Errorf("failed to query add-on lines: %w", err)
	}

	return groupAddons(rows)
}

// ListForLinesForUpdate is the row-locked variant used by order compilation.
func (r *addonRepository) ListForLinesForUpdate(ctx context.Context, tx pgx.Tx, lineIDs []uuid.UUID) (map[uuid.UUID][]model.AddonLine, error) {
	if len(lineIDs) == 0 {
		return map[uuid.UUID][]model.AddonLine{}, nil
	}

	query := `
		SELECT ` + addonColumns + `
		FROM cart_item_addons
		WHERE cart_item_id = ANY($1)
		ORDER BY created_at
		FOR UPDATE
	`

	rows, err := tx.Query(ctx, query, lineIDs)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query add-on lines for update")
		return nil, fmt.Errorf("failed to query add-on lines: %w", err)
	}

	return groupAddons(rows)
}
