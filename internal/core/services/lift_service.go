package services

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/comitanigiacomo/liftbook/internal/core/aggregate"
	"github.com/comitanigiacomo/liftbook/internal/core/domain"
)

type LiftService struct {
	repo     domain.MeasurementRepository
	notifier ChangeNotifier
	today    Clock
}

func NewLiftService(repo domain.MeasurementRepository, notifier ChangeNotifier, today Clock) *LiftService {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &LiftService{
		repo:     repo,
		notifier: notifier,
		today:    today,
	}
}

type CreateLiftInput struct {
	UserID string
	Name   string
	Weight float64
	Reps   float64
	// Date defaults to today when nil.
	Date *domain.Date
}

type UpdateLiftInput struct {
	ID      string
	UserID  string
	Name    string
	Weight  float64
	Reps    float64
	Date    *domain.Date
	Version int
}

// Logbook is one day of training plus every day that can be browsed.
type Logbook struct {
	Date   *domain.Date           `json:"date"`
	Dates  []domain.Date          `json:"dates"`
	Series []aggregate.SeriesSets `json:"series"`
}

func (s *LiftService) Create(ctx context.Context, input CreateLiftInput) (*domain.Measurement, error) {
	m, err := s.newLift(input)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}

	s.notifier.LiftsChanged(ctx, m.UserID)
	return m, nil
}

// CreateBatch validates every input before persisting any of them.
func (s *LiftService) CreateBatch(ctx context.Context, userID string, inputs []CreateLiftInput) ([]*domain.Measurement, error) {
	if len(inputs) == 0 {
		return nil, domain.ErrNoSetsToLog
	}

	ms := make([]*domain.Measurement, 0, len(inputs))
	for i, in := range inputs {
		in.UserID = userID
		m, err := s.newLift(in)
		if err != nil {
			return nil, fmt.Errorf("set %d: %w", i+1, err)
		}
		ms = append(ms, m)
	}

	if err := s.repo.CreateBatch(ctx, ms); err != nil {
		return nil, err
	}

	s.notifier.LiftsChanged(ctx, userID)
	return ms, nil
}

func (s *LiftService) Get(ctx context.Context, id, userID string) (*domain.Measurement, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m.UserID != userID {
		return nil, domain.ErrUnauthorized
	}
	if m.Kind != domain.KindLift {
		return nil, domain.ErrMeasurementNotFound
	}
	return m, nil
}

func (s *LiftService) Update(ctx context.Context, input UpdateLiftInput) (*domain.Measurement, error) {
	existing, err := s.Get(ctx, input.ID, input.UserID)
	if err != nil {
		return nil, err
	}

	if input.Version > 0 && existing.Version != input.Version {
		return nil, fmt.Errorf("%w: client v%d vs server v%d", domain.ErrMeasurementConflict, input.Version, existing.Version)
	}

	date := existing.Date
	if input.Date != nil {
		date = *input.Date
	}

	if err := existing.UpdateLift(input.Name, input.Weight, input.Reps, date); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, err
	}

	s.notifier.LiftsChanged(ctx, existing.UserID)
	return existing, nil
}

func (s *LiftService) Delete(ctx context.Context, id, userID string) error {
	if _, err := s.Get(ctx, id, userID); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id, userID); err != nil {
		return err
	}

	s.notifier.LiftsChanged(ctx, userID)
	return nil
}

func (s *LiftService) List(ctx context.Context, userID string, filter domain.MeasurementFilter) ([]*domain.Measurement, error) {
	if userID == "" {
		return nil, domain.ErrNotAuthenticated
	}
	return s.repo.List(ctx, userID, domain.KindLift, filter)
}

// Names lists every lift name the user has logged, in order of first use.
func (s *LiftService) Names(ctx context.Context, userID string) ([]string, error) {
	return s.repo.ListSeriesNames(ctx, userID, domain.KindLift)
}

// Logbook returns the sets of one day, lifts sorted by name and sets
// heaviest first. A nil date selects the latest day with any lift.
func (s *LiftService) Logbook(ctx context.Context, userID string, date *domain.Date) (*Logbook, error) {
	ms, err := s.List(ctx, userID, domain.MeasurementFilter{})
	if err != nil {
		return nil, err
	}

	groups := aggregate.GroupByDate(ms)
	book := &Logbook{
		Dates:  make([]domain.Date, 0, len(groups)),
		Series: []aggregate.SeriesSets{},
	}
	for i := len(groups) - 1; i >= 0; i-- {
		book.Dates = append(book.Dates, groups[i].Date)
	}
	if len(groups) == 0 {
		return book, nil
	}

	selected := groups[len(groups)-1].Date
	if date != nil {
		selected = *date
	}
	book.Date = &selected

	for _, g := range groups {
		if !g.Date.Equal(selected) {
			continue
		}
		for _, series := range g.Series {
			sets := slices.Clone(series.Sets)
			slices.SortStableFunc(sets, func(a, b *domain.Measurement) int {
				switch {
				case a.Value > b.Value:
					return -1
				case a.Value < b.Value:
					return 1
				default:
					return 0
				}
			})
			book.Series = append(book.Series, aggregate.SeriesSets{Name: series.Name, Sets: sets})
		}
	}
	slices.SortFunc(book.Series, func(a, b aggregate.SeriesSets) int {
		return strings.Compare(a.Name, b.Name)
	})

	return book, nil
}

func (s *LiftService) newLift(input CreateLiftInput) (*domain.Measurement, error) {
	date := s.today()
	if input.Date != nil {
		date = *input.Date
	}
	return domain.NewLift(input.UserID, input.Name, input.Weight, input.Reps, date)
}
