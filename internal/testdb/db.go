//go:build integration

package testdb

import (
	"context"
	"database/sql"
	"errors"
	"net/url"
	"os"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/phrazzld/shop-api/internal/platform/postgres"
	"github.com/phrazzld/shop-api/internal/testutils"
	"github.com/stretchr/testify/require"
)

// TestTimeout defines a default timeout for test database operations.
const TestTimeout = 5 * time.Second

// Environment variables consulted, in order, for the test database URL.
const (
	EnvTestDatabaseURL = "SHOP_TEST_DATABASE_URL"
	EnvDatabaseURL     = "DATABASE_URL"
)

// GetTestDatabaseURL returns the first non-empty of SHOP_TEST_DATABASE_URL
// and DATABASE_URL.
func GetTestDatabaseURL() string {
	if dbURL := os.Getenv(EnvTestDatabaseURL); dbURL != "" {
		return dbURL
	}
	return os.Getenv(EnvDatabaseURL)
}

// OpenTestDB connects to the test database, applies all migrations and
// registers cleanup of the pool. The test is skipped when no URL is set.
func OpenTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dbURL := GetTestDatabaseURL()
	if dbURL == "" {
		t.Skipf("%s or %s not set, skipping integration test", EnvTestDatabaseURL, EnvDatabaseURL)
	}

	db, err := sql.Open("pgx", dbURL)
	require.NoError(t, err, "failed to open database %s", maskDatabaseURL(dbURL))
	t.Cleanup(func() {
		_ = db.Close()
	})

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()
	require.NoError(t, db.PingContext(ctx), "failed to ping database %s", maskDatabaseURL(dbURL))

	logger, _ := testutils.NewTestLogger()
	require.NoError(t, postgres.Migrate(context.Background(), db, "up", logger), "failed to run migrations")

	return db
}

// WithTx runs fn inside a transaction that is always rolled back, so the
// test leaves no rows behind.
func WithTx(t *testing.T, db *sql.DB, fn func(t *testing.T, tx *sql.Tx)) {
	t.Helper()

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err, "failed to begin transaction")

	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			t.Logf("failed to roll back transaction: %v", err)
		}
	}()

	fn(t, tx)
}

// maskDatabaseURL hides the password of a database URL for test output.
func maskDatabaseURL(dbURL string) string {
	u, err := url.Parse(dbURL)
	if err != nil {
		return "<unparseable database url>"
	}
	return u.Redacted()
}
