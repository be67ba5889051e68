package services

import (
	"context"
	"testing"

	"github.com/comitanigiacomo/liftbook/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func bodyweight(userID string, kg float64, date string) *domain.Measurement {
	m, err := domain.NewBodyweight(userID, kg, domain.MustParseDate(date), "")
	if err != nil {
		panic(err)
	}
	return m
}

func TestHealthService_Log(t *testing.T) {
	ctx := context.Background()

	t.Run("Success: Pounds are stored as kilograms", func(t *testing.T) {
		repo := new(MockMeasurementRepo)
		service := NewHealthService(repo, fixedClock("2024-08-15"))
		repo.On("UpsertByDate", ctx, mock.MatchedBy(func(m *domain.Measurement) bool {
			return m.Kind == domain.KindBodyweight && m.Date.String() == "2024-08-15"
		})).Return(nil)

		entry, err := service.Log(ctx, LogBodyweightInput{UserID: "u1", Weight: 200, Notes: " morning "})

		require.NoError(t, err)
		assert.InDelta(t, 90.718474, entry.Kilogram, 1e-6)
		assert.Equal(t, 200.0, entry.Weight)
		assert.Equal(t, domain.UnitPounds, entry.Unit)
		assert.Equal(t, "morning", entry.Notes)
		repo.AssertExpectations(t)
	})

	t.Run("Fail: Unknown unit", func(t *testing.T) {
		repo := new(MockMeasurementRepo)
		service := NewHealthService(repo, fixedClock("2024-08-15"))

		_, err := service.Log(ctx, LogBodyweightInput{UserID: "u1", Weight: 80, Unit: "stone"})

		assert.ErrorIs(t, err, domain.ErrInvalidUnit)
		repo.AssertNotCalled(t, "UpsertByDate")
	})

	t.Run("Fail: Non-positive weight", func(t *testing.T) {
		service := NewHealthService(new(MockMeasurementRepo), fixedClock("2024-08-15"))
		_, err := service.Log(ctx, LogBodyweightInput{UserID: "u1", Weight: 0, Unit: "kg"})
		assert.ErrorIs(t, err, domain.ErrInvalidValue)
	})
}

func TestHealthService_History(t *testing.T) {
	ctx := context.Background()
	repo := new(MockMeasurementRepo)
	service := NewHealthService(repo, fixedClock("2024-08-15"))

	repo.On("List", ctx, "u1", domain.KindBodyweight, domain.MeasurementFilter{Limit: DefaultHistoryLimit, Newest: true}).
		Return([]*domain.Measurement{bodyweight("u1", 80, "2024-08-14"), bodyweight("u1", 81, "2024-08-10")}, nil)

	entries, err := service.History(ctx, "u1", "kg", 0)

	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, 80.0, entries[0].Weight)
	assert.Equal(t, "kg", entries[0].Unit)
}

func TestHealthService_Overview(t *testing.T) {
	ctx := context.Background()
	repo := new(MockMeasurementRepo)
	service := NewHealthService(repo, fixedClock("2024-08-15"))

	repo.On("List", ctx, "u1", domain.KindBodyweight, domain.MeasurementFilter{}).Return([]*domain.Measurement{
		bodyweight("u1", 82, "2024-08-15"),
		bodyweight("u1", 90, "2023-06-01"),
		bodyweight("u1", 86, "2024-01-05"),
	}, nil)

	o, err := service.Overview(ctx, "u1", "kg")

	require.NoError(t, err)
	require.NotNil(t, o.Today)
	assert.Equal(t, 82.0, o.Today.Weight)
	assert.Equal(t, 3, o.Entries)
	require.Len(t, o.Chart, 3)
	assert.Equal(t, "2023-06-01", o.Chart[0].Date.String())
	require.NotNil(t, o.Deltas)
	assert.Equal(t, -4.0, o.Deltas.YearToDate.Change)
	assert.Equal(t, -8.0, o.Deltas.TwelveMonth.Change)
}

func TestHealthService_Delete(t *testing.T) {
	ctx := context.Background()
	repo := new(MockMeasurementRepo)
	service := NewHealthService(repo, fixedClock("2024-08-15"))

	own := bodyweight("u1", 80, "2024-08-14")
	other := bodyweight("u2", 80, "2024-08-14")
	liftRow := lift("u1", "Squat", 100, 5, "2024-08-14")

	repo.On("GetByID", ctx, own.ID).Return(own, nil)
	repo.On("GetByID", ctx, other.ID).Return(other, nil)
	repo.On("GetByID", ctx, liftRow.ID).Return(liftRow, nil)
	repo.On("Delete", ctx, own.ID, "u1").Return(nil)

	assert.NoError(t, service.Delete(ctx, own.ID, "u1"))
	assert.ErrorIs(t, service.Delete(ctx, other.ID, "u1"), domain.ErrUnauthorized)
	assert.ErrorIs(t, service.Delete(ctx, liftRow.ID, "u1"), domain.ErrMeasurementNotFound)
}
