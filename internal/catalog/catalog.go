package catalog

import (
	"context"

	"gemkart/internal/model"
)

// Catalog is the read-only product collaborator. The pricing engine never
// writes to it; catalogue administration lives outside this service.
type Catalog interface {
	// List retrieves products with pagination support.
	List(ctx context.Context, limit, offset int) ([]model.Product, error)

	// GetByID retrieves a single product. Returns nil when the product
	// does not exist.
	GetByID(ctx context.Context, id int64) (*model.Product, error)

	// GetByIDs retrieves products keyed by ID. Missing IDs are simply
	// absent from the result map.
	GetByIDs(ctx context.Context, ids []int64) (map[int64]model.Product, error)
}
