package services

import (
	"context"

	"github.com/comitanigiacomo/liftbook/internal/core/aggregate"
	"github.com/comitanigiacomo/liftbook/internal/core/domain"
)

const DefaultHistoryLimit = 30

type HealthService struct {
	repo  domain.MeasurementRepository
	today Clock
}

func NewHealthService(repo domain.MeasurementRepository, today Clock) *HealthService {
	return &HealthService{
		repo:  repo,
		today: today,
	}
}

type LogBodyweightInput struct {
	UserID string
	Weight float64
	// Unit of Weight; empty means pounds.
	Unit  string
	Date  *domain.Date
	Notes string
}

// BodyweightEntry is a stored reading expressed in the caller's unit.
type BodyweightEntry struct {
	ID       string      `json:"id"`
	Date     domain.Date `json:"date"`
	Kilogram float64     `json:"bodyweight_kg"`
	Weight   float64     `json:"weight"`
	Unit     string      `json:"unit"`
	Notes    string      `json:"notes,omitempty"`
}

type HealthOverview struct {
	Unit    string                  `json:"unit"`
	Today   *BodyweightEntry        `json:"today"`
	Deltas  *aggregate.WindowDeltas `json:"deltas"`
	Chart   []aggregate.Point       `json:"chart"`
	Entries int                     `json:"entries"`
}

// Log stores the reading for its date, replacing any earlier reading of
// the same day.
func (s *HealthService) Log(ctx context.Context, input LogBodyweightInput) (*BodyweightEntry, error) {
	unit, err := domain.ParseUnit(input.Unit)
	if err != nil {
		return nil, err
	}

	date := s.today()
	if input.Date != nil {
		date = *input.Date
	}

	m, err := domain.NewBodyweight(input.UserID, domain.ToKilograms(input.Weight, unit), date, input.Notes)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpsertByDate(ctx, m); err != nil {
		return nil, err
	}

	return toEntry(m, unit), nil
}

// History returns the newest readings first.
func (s *HealthService) History(ctx context.Context, userID, unit string, limit int) ([]BodyweightEntry, error) {
	unit, err := domain.ParseUnit(unit)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	ms, err := s.repo.List(ctx, userID, domain.KindBodyweight, domain.MeasurementFilter{Limit: limit, Newest: true})
	if err != nil {
		return nil, err
	}

	out := make([]BodyweightEntry, 0, len(ms))
	for _, m := range ms {
		out = append(out, *toEntry(m, unit))
	}
	return out, nil
}

func (s *HealthService) Delete(ctx context.Context, id, userID string) error {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if m.UserID != userID {
		return domain.ErrUnauthorized
	}
	if m.Kind != domain.KindBodyweight {
		return domain.ErrMeasurementNotFound
	}
	return s.repo.Delete(ctx, id, userID)
}

// Overview gathers today's reading, the windowed changes and the chart
// series, all in the requested unit.
func (s *HealthService) Overview(ctx context.Context, userID, unit string) (*HealthOverview, error) {
	unit, err := domain.ParseUnit(unit)
	if err != nil {
		return nil, err
	}

	ms, err := s.repo.List(ctx, userID, domain.KindBodyweight, domain.MeasurementFilter{})
	if err != nil {
		return nil, err
	}

	today := s.today()
	converted := make([]*domain.Measurement, 0, len(ms))
	overview := &HealthOverview{
		Unit:    unit,
		Chart:   make([]aggregate.Point, 0, len(ms)),
		Entries: len(ms),
	}

	for _, m := range aggregate.SortByDate(ms) {
		c := m.Clone()
		c.Value = domain.RoundTenth(domain.FromKilograms(m.Value, unit))
		converted = append(converted, c)

		v := c.Value
		overview.Chart = append(overview.Chart, aggregate.Point{Date: c.Date, Value: &v})

		if m.Date.Equal(today) {
			overview.Today = toEntry(m, unit)
		}
	}

	overview.Deltas = aggregate.ComputeWindowDeltas(converted, today)
	return overview, nil
}

func toEntry(m *domain.Measurement, unit string) *BodyweightEntry {
	return &BodyweightEntry{
		ID:       m.ID,
		Date:     m.Date,
		Kilogram: m.Value,
		Weight:   domain.RoundTenth(domain.FromKilograms(m.Value, unit)),
		Unit:     unit,
		Notes:    m.Notes,
	}
}
