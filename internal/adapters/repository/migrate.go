package repository

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/jmoiron/sqlx"
)

//go:embed schema.sql
var schema string

// Migrate creates the tables and indexes if they are missing. It is safe to
// run on every boot.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("repository: apply schema: %w", err)
	}
	return nil
}
