package order

import (
	"context"

	"gemkart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Service compiles carts into immutable orders and reads them back.
type Service interface {
	// Compile turns the user's cart into an order: recompute the
	// subtotal at live prices, re-validate the discount, persist header
	// and lines, consume the discount use and clear the cart, all in
	// one transaction. On any failure nothing persists and the cart
	// stays intact.
	Compile(ctx context.Context, userID string, req *model.CompileRequest) (*model.OrderResponse, error)

	// GetByID retrieves one of the user's orders with its lines.
	GetByID(ctx context.Context, userID string, orderID uuid.UUID) (*model.OrderResponse, error)

	// ListByUser retrieves the user's order headers, newest first.
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]model.Order, error)
}

// Repository is the order store. Orders and their lines are write-once.
type Repository interface {
	// InsertOrder inserts the order header within the transaction.
	InsertOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// InsertLines inserts the order lines within the transaction.
	InsertLines(ctx context.Context, tx pgx.Tx, lines []model.OrderLine) error

	// GetByID retrieves an order owned by the user along with its lines.
	// Returns a nil order when absent.
	GetByID(ctx context.Context, userID string, orderID uuid.UUID) (*model.Order, []model.OrderLine, error)

	// ListByUser retrieves the user's order headers, newest first.
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]model.Order, error)
}
