package domain_test

import (
	"strings"
	"testing"
	"time"

	"github.com/comitanigiacomo/liftbook/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLift(t *testing.T) {
	date := domain.MustParseDate("2024-01-01")

	t.Run("Success: Normalizes the name and starts at version 1", func(t *testing.T) {
		m, err := domain.NewLift("u1", "bench   press", 135, 5, date)

		require.NoError(t, err)
		assert.Equal(t, "Bench Press", m.SeriesName)
		assert.Equal(t, domain.KindLift, m.Kind)
		assert.Equal(t, 135.0, m.Value)
		assert.Equal(t, 5.0, m.SecondaryValue)
		assert.Equal(t, 1, m.Version)
		assert.Equal(t, 675.0, m.Volume())
		assert.WithinDuration(t, time.Now().UTC(), m.CreatedAt, 2*time.Second)
	})

	tests := []struct {
		name    string
		userID  string
		series  string
		weight  float64
		reps    float64
		date    domain.Date
		wantErr error
	}{
		{"Fail: No owner", "", "Squat", 100, 5, date, domain.ErrMeasurementNoOwner},
		{"Fail: Name empty after normalization", "u1", "!!", 100, 5, date, domain.ErrSeriesNameEmpty},
		{"Fail: Name too long", "u1", strings.Repeat("a", 101), 100, 5, date, domain.ErrSeriesNameTooLong},
		{"Fail: Zero weight", "u1", "Squat", 0, 5, date, domain.ErrInvalidValue},
		{"Fail: Negative weight", "u1", "Squat", -5, 5, date, domain.ErrInvalidValue},
		{"Fail: Zero reps", "u1", "Squat", 100, 0, date, domain.ErrInvalidReps},
		{"Fail: Fractional reps", "u1", "Squat", 100, 5.5, date, domain.ErrFractionalLift},
		{"Fail: Fractional weight", "u1", "Squat", 102.5, 5, date, domain.ErrFractionalLift},
		{"Fail: Missing date", "u1", "Squat", 100, 5, domain.Date{}, domain.ErrDateRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := domain.NewLift(tt.userID, tt.series, tt.weight, tt.reps, tt.date)
			assert.Nil(t, m)
			assert.Equal(t, tt.wantErr, err)
		})
	}
}

func TestNewBodyweight(t *testing.T) {
	date := domain.MustParseDate("2024-01-01")

	m, err := domain.NewBodyweight("u1", 80.5, date, "  after breakfast ")
	require.NoError(t, err)
	assert.Equal(t, domain.KindBodyweight, m.Kind)
	assert.Equal(t, domain.BodyweightSeries, m.SeriesName)
	assert.Equal(t, "after breakfast", m.Notes)
	assert.Zero(t, m.SecondaryValue)

	_, err = domain.NewBodyweight("u1", 0, date, "")
	assert.Equal(t, domain.ErrInvalidValue, err)

	_, err = domain.NewBodyweight("u1", 80, date, strings.Repeat("n", 101))
	assert.Equal(t, domain.ErrNotesTooLong, err)
}

func TestMeasurement_UpdateLift(t *testing.T) {
	date := domain.MustParseDate("2024-01-01")

	t.Run("Success: Replaces editable fields", func(t *testing.T) {
		m, _ := domain.NewLift("u1", "Squat", 100, 5, date)
		next := domain.MustParseDate("2024-01-02")

		err := m.UpdateLift("front squat", 90, 3, next)

		require.NoError(t, err)
		assert.Equal(t, "Front Squat", m.SeriesName)
		assert.Equal(t, 90.0, m.Value)
		assert.Equal(t, 3.0, m.SecondaryValue)
		assert.Equal(t, next, m.Date)
	})

	t.Run("Fail: Invalid values leave the set untouched", func(t *testing.T) {
		m, _ := domain.NewLift("u1", "Squat", 100, 5, date)
		before := *m

		err := m.UpdateLift("Squat", 0, 5, date)

		assert.Equal(t, domain.ErrInvalidValue, err)
		assert.Equal(t, before, *m)
	})

	t.Run("Fail: Bodyweight entries are not lifts", func(t *testing.T) {
		m, _ := domain.NewBodyweight("u1", 80, date, "")
		assert.Equal(t, domain.ErrMeasurementWrongKind, m.UpdateLift("Squat", 100, 5, date))
	})
}

func TestMeasurement_Validate_Kind(t *testing.T) {
	m := &domain.Measurement{UserID: "u1", Kind: "cardio", SeriesName: "Run", Value: 1, Date: domain.MustParseDate("2024-01-01")}
	assert.Equal(t, domain.ErrInvalidKind, m.Validate())
}
