package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/comitanigiacomo/liftbook/internal/core/domain"
	"github.com/jmoiron/sqlx"
)

var _ domain.ProfileRepository = (*PostgresProfileRepository)(nil)

type PostgresProfileRepository struct {
	db *sqlx.DB
}

func NewPostgresProfileRepository(db *sqlx.DB) *PostgresProfileRepository {
	return &PostgresProfileRepository{db: db}
}

func (r *PostgresProfileRepository) Get(ctx context.Context, userID string) (*domain.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var p domain.Profile
	err := r.db.GetContext(ctx, &p, `
		SELECT user_id, username, date_of_birth, updated_at
		FROM profiles
		WHERE user_id = $1`, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return &p, nil
}

func (r *PostgresProfileRepository) Upsert(ctx context.Context, p *domain.Profile) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO profiles (user_id, username, date_of_birth, updated_at)
		VALUES (:user_id, :username, :date_of_birth, :updated_at)
		ON CONFLICT (user_id) DO UPDATE SET
			username = EXCLUDED.username,
			date_of_birth = EXCLUDED.date_of_birth,
			updated_at = EXCLUDED.updated_at`, p)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return domain.ErrUsernameTaken
		case isForeignKeyViolation(err):
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}

func (r *PostgresProfileRepository) UsernameTaken(ctx context.Context, username, exceptUserID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var taken bool
	err := r.db.GetContext(ctx, &taken, `
		SELECT EXISTS (SELECT 1 FROM profiles WHERE username = $1 AND user_id <> $2)`,
		username, exceptUserID)
	if err != nil {
		return false, fmt.Errorf("check username: %w", err)
	}
	return taken, nil
}
