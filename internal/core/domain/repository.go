package domain

import (
	"context"
)

// MeasurementFilter narrows a List call. The zero value lists every
// measurement of the kind, oldest first.
type MeasurementFilter struct {
	Series []string
	From   *Date
	To     *Date
	// Limit keeps only the newest N rows (still returned oldest first
	// unless Newest is set).
	Limit  int
	Newest bool
}

func (f MeasurementFilter) IsZero() bool {
	return len(f.Series) == 0 && f.From == nil && f.To == nil && f.Limit == 0 && !f.Newest
}

type MeasurementRepository interface {
	// Create persists a new measurement.
	Create(ctx context.Context, m *Measurement) error

	// CreateBatch persists all measurements or none of them.
	CreateBatch(ctx context.Context, ms []*Measurement) error

	GetByID(ctx context.Context, id string) (*Measurement, error)

	// Update modifies an existing measurement.
	// Implementations must reject stale versions with ErrMeasurementConflict.
	Update(ctx context.Context, m *Measurement) error

	// Delete removes a measurement owned by userID.
	Delete(ctx context.Context, id string, userID string) error

	// List returns the user's measurements of a kind ordered by date,
	// then by insertion.
	List(ctx context.Context, userID, kind string, filter MeasurementFilter) ([]*Measurement, error)

	// ListSeriesNames returns distinct series names in order of first use.
	ListSeriesNames(ctx context.Context, userID, kind string) ([]string, error)

	// UpsertByDate inserts or replaces the single measurement of m.Kind
	// that the user has on m.Date.
	UpsertByDate(ctx context.Context, m *Measurement) error
}

type RoutineRepository interface {
	// Create persists the routine together with its lifts.
	Create(ctx context.Context, r *Routine) error

	GetByID(ctx context.Context, id string) (*Routine, error)

	ListByUserID(ctx context.Context, userID string) ([]*Routine, error)

	// Replace renames the routine, deletes all of its lifts and inserts r.Lifts.
	Replace(ctx context.Context, r *Routine) error

	// Delete removes the routine and, by cascade, its lifts.
	Delete(ctx context.Context, id string, userID string) error
}

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	Update(ctx context.Context, user *User) error
}

type ProfileRepository interface {
	Get(ctx context.Context, userID string) (*Profile, error)
	Upsert(ctx context.Context, p *Profile) error
	UsernameTaken(ctx context.Context, username, exceptUserID string) (bool, error)
}
