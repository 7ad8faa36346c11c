package cart

import (
	"context"

	"gemkart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/mock"
)

// MockDB is a mock transaction opener.
type MockDB struct {
	mock.Mock
}

func (m *MockDB) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if tx, ok := args.Get(0).(pgx.Tx); ok {
		return tx, args.Error(1)
	}
	return nil, args.Error(1)
}

// MockTx is a minimal mock implementation of pgx.Tx for testing.
type MockTx struct {
	mock.Mock
	committed  bool
	rolledBack bool
}

func (m *MockTx) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	m.committed = true
	return args.Error(0)
}

func (m *MockTx) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	m.rolledBack = true
	return args.Error(0)
}

// Stub methods to satisfy pgx.Tx interface - these are not used in our tests
func (m *MockTx) Begin(ctx context.Context) (pgx.Tx, error) { return nil, nil }
func (m *MockTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (m *MockTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (m *MockTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (m *MockTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (m *MockTx) Exec(ctx context.Context, sql string, arguments ...any) (commandTag pgconn.CommandTag, err error) {
	return
}
func (m *MockTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (m *MockTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row { return nil }
func (m *MockTx) Conn() *pgx.Conn                                               { return nil }

// MockLineRepository is a mock implementation of LineRepository.
type MockLineRepository struct {
	mock.Mock
}

func (m *MockLineRepository) ListForProductForUpdate(ctx context.Context, tx pgx.Tx, userID string, productID int64) ([]model.CartLine, error) {
	args := m.Called(ctx, tx, userID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.CartLine), args.Error(1)
}

func (m *MockLineRepository) Insert(ctx context.Context, tx pgx.Tx, line *model.CartLine) error {
	args := m.Called(ctx, tx, line)
	return args.Error(0)
}

func (m *MockLineRepository) Update(ctx context.Context, tx pgx.Tx, lineID uuid.UUID, quantity int, options model.Options) error {
	args := m.Called(ctx, tx, lineID, quantity, options)
	return args.Error(0)
}

func (m *MockLineRepository) GetByID(ctx context.Context, userID string, lineID uuid.UUID) (*model.CartLine, error) {
	args := m.Called(ctx, userID, lineID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CartLine), args.Error(1)
}

func (m *MockLineRepository) ListByUser(ctx context.Context, userID string) ([]model.CartLine, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.CartLine), args.Error(1)
}

func (m *MockLineRepository) ListByUserForUpdate(ctx context.Context, tx pgx.Tx, userID string) ([]model.CartLine, error) {
	args := m.Called(ctx, tx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.CartLine), args.Error(1)
}

func (m *MockLineRepository) Delete(ctx context.Context, tx pgx.Tx, lineID uuid.UUID) error {
	args := m.Called(ctx, tx, lineID)
	return args.Error(0)
}

func (m *MockLineRepository) DeleteByUser(ctx context.Context, tx pgx.Tx, userID string) error {
	args := m.Called(ctx, tx, userID)
	return args.Error(0)
}

// MockAddonRepository is a mock implementation of AddonRepository.
type MockAddonRepository struct {
	mock.Mock
}

func (m *MockAddonRepository) Insert(ctx context.Context, addon *model.AddonLine) error {
	args := m.Called(ctx, addon)
	return args.Error(0)
}

func (m *MockAddonRepository) GetByID(ctx context.Context, addonID uuid.UUID) (*model.AddonLine, error) {
	args := m.Called(ctx, addonID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AddonLine), args.Error(1)
}

func (m *MockAddonRepository) Update(ctx context.Context, addonID uuid.UUID, update model.AddonUpdate) error {
	args := m.Called(ctx, addonID, update)
	return args.Error(0)
}

func (m *MockAddonRepository) Delete(ctx context.Context, addonID uuid.UUID) error {
	args := m.Called(ctx, addonID)
	return args.Error(0)
}

func (m *MockAddonRepository) DeleteForLine(ctx context.Context, tx pgx.Tx, lineID uuid.UUID) error {
	args := m.Called(ctx, tx, lineID)
	return args.Error(0)
}

func (m *MockAddonRepository) DeleteForUser(ctx context.Context, tx pgx.Tx, userID string) error {
	args := m.Called(ctx, tx, userID)
	return args.Error(0)
}

func (m *MockAddonRepository) ListForLines(ctx context.Context, lineIDs []uuid.UUID) (map[uuid.UUID][]model.AddonLine, error) {
	args := m.Called(ctx, lineIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID][]model.AddonLine), args.Error(1)
}

func (m *MockAddonRepository) ListForLinesForUpdate(ctx context.Context, tx pgx.Tx, lineIDs []uuid.UUID) (map[uuid.UUID][]model.AddonLine, error) {
	args := m.Called(ctx, tx, lineIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID][]model.AddonLine), args.Error(1)
}

// MockCatalog is a mock implementation of catalog.Catalog.
type MockCatalog struct {
	mock.Mock
}

func (m *MockCatalog) List(ctx context.Context, limit, offset int) ([]model.Product, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockCatalog) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockCatalog) GetByIDs(ctx context.Context, ids []int64) (map[int64]model.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]model.Product), args.Error(1)
}
