package domain

import (
	"errors"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrSeriesNameEmpty      = errors.New("lift name cannot be empty")
	ErrSeriesNameTooLong    = errors.New("lift name is too long (max 100 chars)")
	ErrInvalidValue         = errors.New("weight must be greater than zero")
	ErrInvalidReps          = errors.New("reps must be greater than zero")
	ErrFractionalLift       = errors.New("weight and reps must be whole numbers")
	ErrDateRequired         = errors.New("date is required")
	ErrInvalidKind          = errors.New("invalid measurement kind (must be lift or bodyweight)")
	ErrNotesTooLong         = errors.New("notes are too long (max 100 chars)")
	ErrMeasurementNoOwner   = errors.New("measurement must belong to a user")
	ErrMeasurementNotFound  = errors.New("measurement not found")
	ErrMeasurementConflict  = errors.New("measurement version conflict")
	ErrMeasurementWrongKind = errors.New("measurement is of a different kind")
)

const (
	KindLift       = "lift"
	KindBodyweight = "bodyweight"

	BodyweightSeries = "Bodyweight"

	MaxSeriesNameLen = 100
	MaxNotesLen      = 100
)

// Measurement is one observed event: a set of a lift (Value = weight,
// SecondaryValue = reps) or a bodyweight reading (Value = kg).
type Measurement struct {
	ID             string  `json:"id" db:"id"`
	UserID         string  `json:"user_id" db:"user_id"`
	Kind           string  `json:"kind" db:"kind"`
	SeriesName     string  `json:"name" db:"series_name"`
	Value          float64 `json:"value" db:"value"`
	SecondaryValue float64 `json:"secondary_value" db:"secondary_value"`
	Date           Date    `json:"date" db:"date"`
	Notes          string  `json:"notes,omitempty" db:"notes"`

	Version   int       `json:"version" db:"version"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// NewLift builds a lift set. The name is normalized before validation.
func NewLift(userID, name string, weight, reps float64, date Date) (*Measurement, error) {
	now := time.Now().UTC()
	m := &Measurement{
		ID:             uuid.NewString(),
		UserID:         userID,
		Kind:           KindLift,
		SeriesName:     NormalizeName(name),
		Value:          weight,
		SecondaryValue: reps,
		Date:           date,
		Version:        1,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func NewBodyweight(userID string, kg float64, date Date, notes string) (*Measurement, error) {
	now := time.Now().UTC()
	m := &Measurement{
		ID:         uuid.NewString(),
		UserID:     userID,
		Kind:       KindBodyweight,
		SeriesName: BodyweightSeries,
		Value:      kg,
		Date:       date,
		Notes:      strings.TrimSpace(notes),
		Version:    1,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Measurement) Validate() error {
	if strings.TrimSpace(m.UserID) == "" {
		return ErrMeasurementNoOwner
	}

	switch m.Kind {
	case KindLift:
		if m.SeriesName == "" {
			return ErrSeriesNameEmpty
		}
		if len(m.SeriesName) > MaxSeriesNameLen {
			return ErrSeriesNameTooLong
		}
		if m.SecondaryValue <= 0 {
			return ErrInvalidReps
		}
		if !isWhole(m.Value) || !isWhole(m.SecondaryValue) {
			return ErrFractionalLift
		}
	case KindBodyweight:
	default:
		return ErrInvalidKind
	}

	if m.Value <= 0 {
		return ErrInvalidValue
	}
	if m.Date.IsZero() {
		return ErrDateRequired
	}
	if len(m.Notes) > MaxNotesLen {
		return ErrNotesTooLong
	}
	return nil
}

// UpdateLift replaces the editable fields of a lift set. Nothing is
// changed when the new values are invalid.
func (m *Measurement) UpdateLift(name string, weight, reps float64, date Date) error {
	if m.Kind != KindLift {
		return ErrMeasurementWrongKind
	}

	next := *m
	next.SeriesName = NormalizeName(name)
	next.Value = weight
	next.SecondaryValue = reps
	next.Date = date
	if err := next.Validate(); err != nil {
		return err
	}

	next.UpdatedAt = time.Now().UTC()
	*m = next
	return nil
}

// Volume is weight x reps for a lift set.
func (m *Measurement) Volume() float64 {
	return m.Value * m.SecondaryValue
}

func isWhole(v float64) bool {
	return v == math.Trunc(v)
}

func (m *Measurement) Clone() *Measurement {
	c := *m
	return &c
}
