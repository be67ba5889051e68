package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/comitanigiacomo/liftbook/internal/core/domain"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	_ "github.com/jackc/pgx/v5/stdlib"
)

var _ domain.MeasurementRepository = (*PostgresMeasurementRepository)(nil)

const measurementColumns = `id, user_id, kind, series_name, value, secondary_value, date, notes, version, created_at, updated_at`

const queryTimeout = 3 * time.Second

type PostgresMeasurementRepository struct {
	db *sqlx.DB
}

func NewPostgresMeasurementRepository(db *sqlx.DB) *PostgresMeasurementRepository {
	return &PostgresMeasurementRepository{db: db}
}

const insertMeasurement = `
	INSERT INTO measurements (
		id, user_id, kind, series_name, value, secondary_value, date, notes, version, created_at, updated_at
	) VALUES (
		:id, :user_id, :kind, :series_name, :value, :secondary_value, :date, :notes, 1, :created_at, :updated_at
	)`

func (r *PostgresMeasurementRepository) Create(ctx context.Context, m *domain.Measurement) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if _, err := r.db.NamedExecContext(ctx, insertMeasurement, m); err != nil {
		return mapWriteError("insert measurement", err)
	}

	m.Version = 1
	return nil
}

func (r *PostgresMeasurementRepository) CreateBatch(ctx context.Context, ms []*domain.Measurement) error {
	if len(ms) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin batch: %w", err)
	}
	defer tx.Rollback()

	for _, m := range ms {
		if _, err := tx.NamedExecContext(ctx, insertMeasurement, m); err != nil {
			return mapWriteError("insert measurement batch", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}

	for _, m := range ms {
		m.Version = 1
	}
	return nil
}

func (r *PostgresMeasurementRepository) GetByID(ctx context.Context, id string) (*domain.Measurement, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var m domain.Measurement
	err := r.db.GetContext(ctx, &m, `SELECT `+measurementColumns+` FROM measurements WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrMeasurementNotFound
		}
		return nil, fmt.Errorf("get measurement: %w", err)
	}
	return &m, nil
}

func (r *PostgresMeasurementRepository) Update(ctx context.Context, m *domain.Measurement) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		UPDATE measurements SET
			series_name = $1, value = $2, secondary_value = $3, date = $4, notes = $5,
			updated_at = $6, version = version + 1
		WHERE id = $7 AND user_id = $8 AND version = $9
		RETURNING version`

	var newVersion int
	err := r.db.QueryRowxContext(ctx, query,
		m.SeriesName, m.Value, m.SecondaryValue, m.Date, m.Notes,
		m.UpdatedAt, m.ID, m.UserID, m.Version,
	).Scan(&newVersion)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			var count int
			if checkErr := r.db.GetContext(ctx, &count, `SELECT count(*) FROM measurements WHERE id = $1`, m.ID); checkErr != nil {
				return fmt.Errorf("existence check failed: %w", checkErr)
			}
			if count == 0 {
				return domain.ErrMeasurementNotFound
			}
			return domain.ErrMeasurementConflict
		}
		return mapWriteError("update measurement", err)
	}

	m.Version = newVersion
	return nil
}

func (r *PostgresMeasurementRepository) Delete(ctx context.Context, id string, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM measurements WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete measurement: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrMeasurementNotFound
	}
	return nil
}

func (r *PostgresMeasurementRepository) List(ctx context.Context, userID, kind string, filter domain.MeasurementFilter) ([]*domain.Measurement, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query, args := buildListQuery(userID, kind, filter)

	var ms []*domain.Measurement
	if err := r.db.SelectContext(ctx, &ms, query, args...); err != nil {
		return nil, fmt.Errorf("list measurements: %w", err)
	}
	return ms, nil
}

// buildListQuery turns a filter into SQL. A limit picks the newest rows;
// the outer query puts them back in ascending order unless Newest is set.
func buildListQuery(userID, kind string, f domain.MeasurementFilter) (string, []any) {
	conds := []string{"user_id = $1", "kind = $2"}
	args := []any{userID, kind}

	if len(f.Series) > 0 {
		args = append(args, pq.Array(f.Series))
		conds = append(conds, fmt.Sprintf("series_name = ANY($%d)", len(args)))
	}
	if f.From != nil {
		args = append(args, *f.From)
		conds = append(conds, fmt.Sprintf("date >= $%d", len(args)))
	}
	if f.To != nil {
		args = append(args, *f.To)
		conds = append(conds, fmt.Sprintf("date <= $%d", len(args)))
	}

	where := strings.Join(conds, " AND ")
	asc := "date ASC, seq ASC"
	desc := "date DESC, seq DESC"

	if f.Limit <= 0 {
		order := asc
		if f.Newest {
			order = desc
		}
		return fmt.Sprintf(`SELECT %s FROM measurements WHERE %s ORDER BY %s`, measurementColumns, where, order), args
	}

	args = append(args, f.Limit)
	inner := fmt.Sprintf(`SELECT %s, seq FROM measurements WHERE %s ORDER BY %s LIMIT $%d`,
		measurementColumns, where, desc, len(args))
	if f.Newest {
		return fmt.Sprintf(`SELECT %s FROM (%s) newest ORDER BY %s`, measurementColumns, inner, desc), args
	}
	return fmt.Sprintf(`SELECT %s FROM (%s) newest ORDER BY %s`, measurementColumns, inner, asc), args
}

func (r *PostgresMeasurementRepository) ListSeriesNames(ctx context.Context, userID, kind string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		SELECT series_name FROM measurements
		WHERE user_id = $1 AND kind = $2
		GROUP BY series_name
		ORDER BY MIN(seq) ASC`

	var names []string
	if err := r.db.SelectContext(ctx, &names, query, userID, kind); err != nil {
		return nil, fmt.Errorf("list series names: %w", err)
	}
	return names, nil
}

func (r *PostgresMeasurementRepository) UpsertByDate(ctx context.Context, m *domain.Measurement) error {
	if m.Kind != domain.KindBodyweight {
		return domain.ErrInvalidKind
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		INSERT INTO measurements (
			id, user_id, kind, series_name, value, secondary_value, date, notes, version, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 1, $9, $10)
		ON CONFLICT (user_id, date) WHERE kind = 'bodyweight' DO UPDATE SET
			value = EXCLUDED.value,
			notes = EXCLUDED.notes,
			updated_at = EXCLUDED.updated_at,
			version = measurements.version + 1
		RETURNING id, version, created_at`

	err := r.db.QueryRowxContext(ctx, query,
		m.ID, m.UserID, m.Kind, m.SeriesName, m.Value, m.SecondaryValue, m.Date, m.Notes,
		m.CreatedAt, m.UpdatedAt,
	).Scan(&m.ID, &m.Version, &m.CreatedAt)
	if err != nil {
		return mapWriteError("upsert measurement", err)
	}
	return nil
}

func mapWriteError(op string, err error) error {
	switch {
	case isForeignKeyViolation(err):
		return domain.ErrUserNotFound
	case isUniqueViolation(err):
		return domain.ErrMeasurementConflict
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
