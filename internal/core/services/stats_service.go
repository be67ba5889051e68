package services

import (
	"context"

	"github.com/comitanigiacomo/liftbook/internal/core/aggregate"
	"github.com/comitanigiacomo/liftbook/internal/core/domain"
	"github.com/sirupsen/logrus"
)

type StatsService struct {
	lifts domain.MeasurementRepository
	cache SummaryCache
	today Clock
	log   logrus.FieldLogger
}

// NewStatsService accepts a nil cache; the summary is then computed on
// every request.
func NewStatsService(lifts domain.MeasurementRepository, cache SummaryCache, today Clock, log logrus.FieldLogger) *StatsService {
	return &StatsService{
		lifts: lifts,
		cache: cache,
		today: today,
		log:   log.WithField("service", "stats"),
	}
}

type ChartInput struct {
	UserID string
	Series []string
	Range  aggregate.DateRange
	Mode   aggregate.VolumeMode
}

func (s *StatsService) Chart(ctx context.Context, input ChartInput) (*aggregate.Table, error) {
	if input.UserID == "" {
		return nil, domain.ErrNotAuthenticated
	}

	ms, err := s.lifts.List(ctx, input.UserID, domain.KindLift, domain.MeasurementFilter{
		Series: input.Series,
		From:   input.Range.Start,
		To:     input.Range.End,
	})
	if err != nil {
		return nil, err
	}

	selected := aggregate.Filter(ms, aggregate.Selection{Series: input.Series, Range: input.Range})
	return aggregate.BuildTable(selected, input.Mode), nil
}

// Dashboard serves the cached summary when it was computed today.
func (s *StatsService) Dashboard(ctx context.Context, userID string) (*aggregate.Summary, error) {
	if userID == "" {
		return nil, domain.ErrNotAuthenticated
	}

	today := s.today()
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, userID)
		if err != nil {
			s.log.WithError(err).WithField("user_id", userID).Warn("summary cache read failed")
		} else if cached != nil && cached.ComputedFor.Equal(today) {
			return cached, nil
		}
	}

	return s.compute(ctx, userID, today)
}

// RefreshSummary recomputes the summary and overwrites the cached copy.
func (s *StatsService) RefreshSummary(ctx context.Context, userID string) error {
	_, err := s.compute(ctx, userID, s.today())
	return err
}

// Suggestions proposes past lift names that start with partial.
func (s *StatsService) Suggestions(ctx context.Context, userID, partial string, exclude []string) ([]string, error) {
	if partial == "" {
		return []string{}, nil
	}

	names, err := s.lifts.ListSeriesNames(ctx, userID, domain.KindLift)
	if err != nil {
		return nil, err
	}
	return aggregate.Suggest(partial, names, exclude, aggregate.DefaultSuggestionLimit), nil
}

func (s *StatsService) compute(ctx context.Context, userID string, today domain.Date) (*aggregate.Summary, error) {
	ms, err := s.lifts.List(ctx, userID, domain.KindLift, domain.MeasurementFilter{})
	if err != nil {
		return nil, err
	}

	summary := aggregate.Summarize(ms, today)

	if s.cache != nil {
		if err := s.cache.Set(ctx, userID, &summary); err != nil {
			s.log.WithError(err).WithField("user_id", userID).Warn("summary cache write failed")
		}
	}
	return &summary, nil
}
