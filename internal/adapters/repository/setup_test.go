package repository

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/comitanigiacomo/liftbook/internal/core/domain"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		getEnv("DB_USER", "liftbook_user"),
		getEnv("DB_PASSWORD", "secret"),
		getEnv("DB_HOST", "localhost"),
		getEnv("DB_PORT", "5432"),
		getEnv("DB_NAME", "liftbook_db"),
	)

	db, err := sqlx.Connect("pgx", dsn)
	if err != nil {
		t.Skipf("Skipping integration tests: database connection failed: %v", err)
	}

	require.NoError(t, Migrate(context.Background(), db), "Failed to apply schema")
	cleanup(t, db)

	t.Cleanup(func() {
		cleanup(t, db)
		db.Close()
	})
	return db
}

func cleanup(t *testing.T, db *sqlx.DB) {
	_, err := db.Exec("TRUNCATE TABLE routine_lifts, routines, measurements, profiles, users CASCADE")
	require.NoError(t, err, "Failed to clean up database")
}

func createUserFixture(t *testing.T, db *sqlx.DB, email string) string {
	t.Helper()

	id := uuid.NewString()
	now := time.Now().UTC()
	_, err := db.Exec(`INSERT INTO users (id, email, password_hash, created_at, updated_at)
		VALUES ($1, $2, 'hash', $3, $3)`, id, email, now)
	require.NoError(t, err, "Failed to create user fixture")
	return id
}

func mustLift(t *testing.T, userID, name string, weight, reps float64, date string) *domain.Measurement {
	t.Helper()

	m, err := domain.NewLift(userID, name, weight, reps, domain.MustParseDate(date))
	require.NoError(t, err)
	return m
}

func mustBodyweight(t *testing.T, userID string, kg float64, date string) *domain.Measurement {
	t.Helper()

	m, err := domain.NewBodyweight(userID, kg, domain.MustParseDate(date), "")
	require.NoError(t, err)
	return m
}

func datePtr(s string) *domain.Date {
	d := domain.MustParseDate(s)
	return &d
}
