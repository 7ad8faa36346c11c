package order

import (
	"context"
	"fmt"

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

// NewRepository creates a new PostgreSQL-backed order store.
func NewRepository(pool *pgxpool.Pool, logger zerolog.Logger) Repository {
	return &repository{
		pool:   pool,
		logger: logger.With().Str("repository", "order").Logger(),
	}
}

const orderColumns = `id, order_number, user_id, status, payment_status, payment_method, subtotal, discount_amount, shipping_amount, tax_amount, total, discount_code, shipping_address, billing_address, notes, created_at, updated_at`

func scanOrder(row pgx.Row) (*model.Order, error) {
	var o model.Order
	err := row.Scan(&o.ID, &o.OrderNumber, &o.UserID, &o.Status, &o.PaymentStatus, &o.PaymentMethod,
		&o.Subtotal, &o.DiscountAmount, &o.ShippingAmount, &o.TaxAmount, &o.Total,
		&o.DiscountCode, &o.ShippingAddress, &o.BillingAddress, &o.Notes, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// InsertOrder inserts the order header within the transaction. The order
// number carries a timestamp-derived draft value; the unique index on
// order_number is what actually guarantees uniqueness.
func (r *repository) InsertOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	query := `
		INSERT INTO orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`

	_, err := tx.Exec(ctx, query,
		order.ID, order.OrderNumber, order.UserID, order.Status, order.PaymentStatus, order.PaymentMethod,
		order.Subtotal, order.DiscountAmount, order.ShippingAmount, order.TaxAmount, order.Total,
		order.DiscountCode, order.ShippingAddress, order.BillingAddress, order.Notes,
		order.CreatedAt, order.UpdatedAt)
	if err != nil {
		r.logger.Error().Err(err).
			Str("order_id", order.ID.String()).
			Str("order_number", order.OrderNumber).
			Msg("failed to insert order")
		return fmt.Errorf("failed to insert order: %w", err)
	}

	r.logger.Debug().Str("order_id", order.ID.String()).Msg("order inserted")

	return nil
}

// InsertLines inserts the order lines within the transaction.
func (r *repository) InsertLines(ctx context.Context, tx pgx.Tx, lines []model.OrderLine) error {
	if len(lines) == 0 {
		return nil
	}

	query := `
		INSERT INTO order_items (id, order_id, product_id, quantity, price, total, is_addon, product_snapshot, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	batch := &pgx.Batch{}
	for _, line := range lines {
		batch.Queue(query, line.ID, line.OrderID, line.ProductID, line.Quantity,
			line.UnitPrice, line.LineTotal, line.IsAddon, line.Snapshot, line.CreatedAt)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < len(lines); i++ {
		if _, err := results.Exec(); err != nil {
			r.logger.Error().Err(err).
				Str("order_id", lines[i].OrderID.String()).
				Int64("product_id", lines[i].ProductID).
				Msg("failed to insert order line")
			return fmt.Errorf("failed to insert order line: %w", err)
		}
	}

	r.logger.Debug().Int("count", len(lines)).Msg("order lines inserted")

	return nil
}

// GetByID retrieves an order owned by the user along with its lines.
func (r *repository) GetByID(ctx context.Context, userID string, orderID uuid.UUID) (*model.Order, []model.OrderLine, error) {
	orderQuery := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE id = $1 AND user_id = $2
	`

	o, err := scanOrder(r.pool.QueryRow(ctx, orderQuery, orderID, userID))
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("order_id", orderID.String()).Msg("order not found")
			return nil, nil, nil
		}
		r.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to query order")
		return nil, nil, fmt.Errorf("failed to query order: %w", err)
	}

	linesQuery := `
		SELECT id, order_id, product_id, quantity, price, total, is_addon, product_snapshot, created_at
		FROM order_items
		WHERE order_id = $1
		ORDER BY created_at, id
	`

	rows, err := r.pool.Query(ctx, linesQuery, orderID)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to query order lines")
		return nil, nil, fmt.Errorf("failed to query order lines: %w", err)
	}
	defer rows.Close()

	var lines []model.OrderLine
	for rows.Next() {
		var l model.OrderLine
		err := rows.Scan(&l.ID, &l.OrderID, &l.ProductID, &l.Quantity, &l.UnitPrice, &l.LineTotal, &l.IsAddon, &l.Snapshot, &l.CreatedAt)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order line row")
			return nil, nil, fmt.Errorf("failed to scan order line: %w", err)
		}
		lines = append(lines, l)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order line rows")
		return nil, nil, fmt.Errorf("error iterating order lines: %w", err)
	}

	return o, lines, nil
}

// ListByUser retrieves the user's order headers, newest first.
func (r *repository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]model.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, userID, limit, offset)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query orders")
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []model.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order row")
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, *o)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order rows")
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	return orders, nil
}
