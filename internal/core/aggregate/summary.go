package aggregate

import (
	"github.com/comitanigiacomo/liftbook/internal/core/domain"
)

// Improvement is the change of a series' peak value between its first and
// last logged day.
type Improvement struct {
	Series    string      `json:"series"`
	First     float64     `json:"first"`
	Last      float64     `json:"last"`
	Delta     float64     `json:"delta"`
	FirstDate domain.Date `json:"first_date"`
	LastDate  domain.Date `json:"last_date"`
}

type Summary struct {
	ComputedFor    domain.Date   `json:"computed_for"`
	WorkedOutToday bool          `json:"worked_out_today"`
	TotalSessions  int           `json:"total_sessions"`
	SeriesCount    int           `json:"series_count"`
	LastWorkout    *domain.Date  `json:"last_workout"`
	CurrentStreak  int           `json:"current_streak"`
	LongestStreak  int           `json:"longest_streak"`
	MostImproved   *Improvement  `json:"most_improved"`
	LeastImproved  *Improvement  `json:"least_improved"`
	SingleSeries   bool          `json:"single_series"`
	Improvements   []Improvement `json:"improvements"`
}

// Summarize computes the dashboard figures for one owner's full history.
//
// A series takes part in the improvement ranking only when it was logged on
// at least two distinct dates. Ties keep the series seen first.
func Summarize(ms []*domain.Measurement, today domain.Date) Summary {
	s := Summary{
		ComputedFor:  today,
		Improvements: []Improvement{},
	}

	days := make(map[domain.Date]struct{})
	for _, m := range ms {
		days[m.Date] = struct{}{}
		if m.Date.Equal(today) {
			s.WorkedOutToday = true
		}
		if s.LastWorkout == nil || m.Date.After(*s.LastWorkout) {
			d := m.Date
			s.LastWorkout = &d
		}
	}
	s.TotalSessions = len(days)
	s.CurrentStreak, s.LongestStreak = Streaks(ms, today)

	groups := GroupBySeries(ms)
	s.SeriesCount = len(groups)

	for _, g := range groups {
		if g.DistinctDates() < 2 {
			continue
		}
		first, last := g.First(), g.Last()
		s.Improvements = append(s.Improvements, Improvement{
			Series:    g.Name,
			First:     first.Value,
			Last:      last.Value,
			Delta:     last.Value - first.Value,
			FirstDate: first.Date,
			LastDate:  last.Date,
		})
	}

	for i := range s.Improvements {
		imp := &s.Improvements[i]
		if s.MostImproved == nil || imp.Delta > s.MostImproved.Delta {
			s.MostImproved = imp
		}
		if s.LeastImproved == nil || imp.Delta < s.LeastImproved.Delta {
			s.LeastImproved = imp
		}
	}
	s.SingleSeries = len(s.Improvements) == 1

	return s
}
