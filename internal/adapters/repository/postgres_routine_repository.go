package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/comitanigiacomo/liftbook/internal/core/domain"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var _ domain.RoutineRepository = (*PostgresRoutineRepository)(nil)

type PostgresRoutineRepository struct {
	db *sqlx.DB
}

func NewPostgresRoutineRepository(db *sqlx.DB) *PostgresRoutineRepository {
	return &PostgresRoutineRepository{db: db}
}

type routineLiftRow struct {
	RoutineID  string `db:"routine_id"`
	Position   int    `db:"position"`
	Name       string `db:"name"`
	TargetSets int    `db:"target_sets"`
}

func (r *PostgresRoutineRepository) Create(ctx context.Context, rt *domain.Routine) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin routine create: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.NamedExecContext(ctx, `
		INSERT INTO routines (id, user_id, name, created_at, updated_at)
		VALUES (:id, :user_id, :name, :created_at, :updated_at)`, rt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("insert routine: %w", err)
	}

	if err := insertRoutineLifts(ctx, tx, rt); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit routine create: %w", err)
	}
	return nil
}

func (r *PostgresRoutineRepository) GetByID(ctx context.Context, id string) (*domain.Routine, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var rt domain.Routine
	err := r.db.GetContext(ctx, &rt, `SELECT id, user_id, name, created_at, updated_at FROM routines WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRoutineNotFound
		}
		return nil, fmt.Errorf("get routine: %w", err)
	}

	lifts, err := r.loadLifts(ctx, []string{rt.ID})
	if err != nil {
		return nil, err
	}
	rt.Lifts = lifts[rt.ID]
	return &rt, nil
}

func (r *PostgresRoutineRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Routine, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var routines []*domain.Routine
	err := r.db.SelectContext(ctx, &routines, `
		SELECT id, user_id, name, created_at, updated_at
		FROM routines
		WHERE user_id = $1
		ORDER BY created_at ASC, name ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list routines: %w", err)
	}
	if len(routines) == 0 {
		return routines, nil
	}

	ids := make([]string, len(routines))
	for i, rt := range routines {
		ids[i] = rt.ID
	}

	lifts, err := r.loadLifts(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, rt := range routines {
		rt.Lifts = lifts[rt.ID]
	}
	return routines, nil
}

func (r *PostgresRoutineRepository) Replace(ctx context.Context, rt *domain.Routine) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin routine replace: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE routines SET name = $1, updated_at = $2 WHERE id = $3 AND user_id = $4`,
		rt.Name, rt.UpdatedAt, rt.ID, rt.UserID)
	if err != nil {
		return fmt.Errorf("update routine: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrRoutineNotFound
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM routine_lifts WHERE routine_id = $1`, rt.ID); err != nil {
		return fmt.Errorf("clear routine lifts: %w", err)
	}

	if err := insertRoutineLifts(ctx, tx, rt); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit routine replace: %w", err)
	}
	return nil
}

func (r *PostgresRoutineRepository) Delete(ctx context.Context, id string, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM routines WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete routine: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrRoutineNotFound
	}
	return nil
}

func (r *PostgresRoutineRepository) loadLifts(ctx context.Context, routineIDs []string) (map[string][]domain.RoutineLift, error) {
	var rows []routineLiftRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT routine_id, position, name, target_sets
		FROM routine_lifts
		WHERE routine_id = ANY($1)
		ORDER BY routine_id, position`, pq.Array(routineIDs))
	if err != nil {
		return nil, fmt.Errorf("load routine lifts: %w", err)
	}

	out := make(map[string][]domain.RoutineLift, len(routineIDs))
	for _, row := range rows {
		out[row.RoutineID] = append(out[row.RoutineID], domain.RoutineLift{
			Name:       row.Name,
			TargetSets: row.TargetSets,
		})
	}
	return out, nil
}

func insertRoutineLifts(ctx context.Context, tx *sqlx.Tx, rt *domain.Routine) error {
	for i, l := range rt.Lifts {
		row := routineLiftRow{RoutineID: rt.ID, Position: i, Name: l.Name, TargetSets: l.TargetSets}
		_, err := tx.NamedExecContext(ctx, `
			INSERT INTO routine_lifts (routine_id, position, name, target_sets)
			VALUES (:routine_id, :position, :name, :target_sets)`, row)
		if err != nil {
			return fmt.Errorf("insert routine lift %q: %w", l.Name, err)
		}
	}
	return nil
}
