// Package dbtest mở Postgres thật cho các test có build tag integration.
// Mỗi test chạy trong một schema riêng, schema bị drop khi test kết thúc.
package dbtest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// EnvDatabaseURL chứa DSN của Postgres dùng cho test, không set thì test bị skip
const EnvDatabaseURL = "TEST_DATABASE_URL"

// Open tạo schema mới, apply migration vào schema đó và trả về pool
// có search_path trỏ tới schema.
func Open(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv(EnvDatabaseURL)
	if dsn == "" {
		t.Skipf("%s not set", EnvDatabaseURL)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	schema := "test_" + strings.ReplaceAll(uuid.NewString(), "-", "")

	admin, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	_, err = admin.Exec(ctx, "CREATE SCHEMA "+schema)
	require.NoError(t, err)

	cfg, err := pgxpool.ParseConfig(dsn)
	require.NoError(t, err)
	cfg.ConnConfig.RuntimeParams["search_path"] = schema
	cfg.MaxConns = 8

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	require.NoError(t, err)

	t.Cleanup(func() {
		pool.Close()
		_, _ = admin.Exec(context.Background(), "DROP SCHEMA "+schema+" CASCADE")
		admin.Close()
	})

	migration, err := os.ReadFile(migrationPath("000001_init_storefront.up.sql"))
	require.NoError(t, err)

	// Exec không có args chạy simple protocol, cho phép nhiều statement
	_, err = pool.Exec(ctx, string(migration))
	require.NoError(t, err, "apply migration")

	return pool
}

func migrationPath(name string) string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "..", "migrations", name)
}

// Exec chạy một statement seed, fail test nếu lỗi
func Exec(t *testing.T, pool *pgxpool.Pool, sql string, args ...any) {
	t.Helper()
	_, err := pool.Exec(context.Background(), sql, args...)
	require.NoError(t, err, fmt.Sprintf("exec: %s", sql))
}

// Product seed một product active kèm một variant, trả về (productID, variantID)
func Product(t *testing.T, pool *pgxpool.Pool, slug string, price string, stock int) (uuid.UUID, uuid.UUID) {
	t.Helper()
	productID, variantID := uuid.New(), uuid.New()
	Exec(t, pool,
		`INSERT INTO products (id, name, slug, status, base_price) VALUES ($1, $2, $3, 'active', $4::numeric)`,
		productID, slug, slug, price)
	Exec(t, pool,
		`INSERT INTO variants (id, product_id, sku, price, quantity) VALUES ($1, $2, $3, $4::numeric, $5)`,
		variantID, productID, slug+"-sku", price, stock)
	return productID, variantID
}
