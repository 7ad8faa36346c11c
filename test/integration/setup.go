package integration

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"gemkart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a PostgreSQL test container, connects a pool and
// applies the schema migrations.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping database: %v", err)
	}

	applyMigrations(t, pool)

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// applyMigrations runs the SQL files from migrations/ in lexical order.
func applyMigrations(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()
	dir := filepath.Join("..", "..", "migrations")

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("failed to read migrations directory: %v", err)
	}

	var names []string
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".sql") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		sql, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("failed to read migration %s: %v", name, err)
		}
		if _, err := pool.Exec(ctx, string(sql)); err != nil {
			t.Fatalf("failed to apply migration %s: %v", name, err)
		}
	}
}

// SeedProducts inserts test catalogue data.
func SeedProducts(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	products := []struct {
		id       int64
		name     string
		price    int64
		stock    int
		addonIDs []int64
	}{
		{1, "Gold Ring", 400, 50, []int64{4}},
		{2, "Silver Pendant", 300, 20, nil},
		{3, "Diamond Earrings", 1500, 5, nil},
		{4, "Gift Box", 200, 100, nil},
	}

	for _, p := range products {
		addonIDs := p.addonIDs
		if addonIDs == nil {
			addonIDs = []int64{}
		}
		_, err := pool.Exec(ctx,
			`INSERT INTO products (id, name, slug, price, stock, addon_ids)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			p.id, p.name, strings.ToLower(strings.ReplaceAll(p.name, " ", "-")),
			decimal.NewFromInt(p.price), p.stock, addonIDs,
		)
		if err != nil {
			t.Fatalf("failed to seed product %d: %v", p.id, err)
		}
	}
}

// SeedDiscountCode inserts a discount code row and returns its ID.
func SeedDiscountCode(t *testing.T, pool *pgxpool.Pool, code model.DiscountCode) uuid.UUID {
	t.Helper()

	ctx := context.Background()
	if code.ID == uuid.Nil {
		code.ID = uuid.New()
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO discount_codes
		     (id, code, kind, value, min_order_amount, max_uses, per_user_limit, use_count, is_active, starts_at, expires_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		code.ID, code.Code, code.Kind, code.Value, code.MinOrderAmount,
		code.MaxUses, code.PerUserLimit, code.UseCount, code.IsActive,
		code.StartsAt, code.ExpiresAt,
	)
	if err != nil {
		t.Fatalf("failed to seed discount code %s: %v", code.Code, err)
	}

	return code.ID
}

// CleanupDB removes all data from the test tables.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	tables := []string{
		"order_items", "orders", "discount_code_usages", "discount_codes",
		"cart_item_addons", "cart_items", "products",
	}
	for _, table := range tables {
		_, err := pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}
}
