package aggregate

import (
	"slices"

	"github.com/comitanigiacomo/liftbook/internal/core/domain"
)

// Key identifies one (date, series) session cell.
type Key struct {
	Date   domain.Date
	Series string
}

// SeriesSets are the sets of one series performed on one day.
type SeriesSets struct {
	Name string                `json:"name"`
	Sets []*domain.Measurement `json:"sets"`
}

// DateGroup is everything logged on one day, partitioned by series.
type DateGroup struct {
	Date   domain.Date  `json:"date"`
	Series []SeriesSets `json:"series"`
}

func (g DateGroup) Len() int {
	n := 0
	for _, s := range g.Series {
		n += len(s.Sets)
	}
	return n
}

// SeriesGroup is the full history of one series, oldest first.
type SeriesGroup struct {
	Name         string                `json:"name"`
	Measurements []*domain.Measurement `json:"measurements"`
}

func (g SeriesGroup) First() *domain.Measurement {
	if len(g.Measurements) == 0 {
		return nil
	}
	return g.Measurements[0]
}

func (g SeriesGroup) Last() *domain.Measurement {
	if len(g.Measurements) == 0 {
		return nil
	}
	return g.Measurements[len(g.Measurements)-1]
}

// DistinctDates counts the days on which the series was logged.
func (g SeriesGroup) DistinctDates() int {
	n := 0
	for i, m := range g.Measurements {
		if i == 0 || !m.Date.Equal(g.Measurements[i-1].Date) {
			n++
		}
	}
	return n
}

// GroupByDateSeries buckets measurements by (date, series). Records sharing
// a key are separate sets and keep their input order.
func GroupByDateSeries(ms []*domain.Measurement) map[Key][]*domain.Measurement {
	out := make(map[Key][]*domain.Measurement)
	for _, m := range ms {
		k := Key{Date: m.Date, Series: m.SeriesName}
		out[k] = append(out[k], m)
	}
	return out
}

// GroupByDate returns one group per day in ascending calendar order.
// Within a day, series appear in the order they were first seen.
func GroupByDate(ms []*domain.Measurement) []DateGroup {
	index := make(map[domain.Date]int)
	var groups []DateGroup
	seriesIndex := make(map[Key]int)

	for _, m := range ms {
		gi, ok := index[m.Date]
		if !ok {
			gi = len(groups)
			index[m.Date] = gi
			groups = append(groups, DateGroup{Date: m.Date})
		}

		k := Key{Date: m.Date, Series: m.SeriesName}
		si, ok := seriesIndex[k]
		if !ok {
			si = len(groups[gi].Series)
			seriesIndex[k] = si
			groups[gi].Series = append(groups[gi].Series, SeriesSets{Name: m.SeriesName})
		}
		groups[gi].Series[si].Sets = append(groups[gi].Series[si].Sets, m)
	}

	slices.SortFunc(groups, func(a, b DateGroup) int {
		return a.Date.Compare(b.Date)
	})
	return groups
}

// GroupBySeries returns one group per series in order of first appearance,
// each stably sorted by date.
func GroupBySeries(ms []*domain.Measurement) []SeriesGroup {
	index := make(map[string]int)
	var groups []SeriesGroup

	for _, m := range ms {
		gi, ok := index[m.SeriesName]
		if !ok {
			gi = len(groups)
			index[m.SeriesName] = gi
			groups = append(groups, SeriesGroup{Name: m.SeriesName})
		}
		groups[gi].Measurements = append(groups[gi].Measurements, m)
	}

	for i := range groups {
		slices.SortStableFunc(groups[i].Measurements, byDate)
	}
	return groups
}

// Flatten undoes GroupByDate.
func Flatten(groups []DateGroup) []*domain.Measurement {
	var out []*domain.Measurement
	for _, g := range groups {
		for _, s := range g.Series {
			out = append(out, s.Sets...)
		}
	}
	return out
}

// SortByDate returns a copy ordered by date; records on the same day keep
// their relative order.
func SortByDate(ms []*domain.Measurement) []*domain.Measurement {
	out := slices.Clone(ms)
	slices.SortStableFunc(out, byDate)
	return out
}

// SeriesNames lists distinct series names in order of first appearance.
func SeriesNames(ms []*domain.Measurement) []string {
	seen := make(map[string]struct{})
	var names []string
	for _, m := range ms {
		if _, ok := seen[m.SeriesName]; ok {
			continue
		}
		seen[m.SeriesName] = struct{}{}
		names = append(names, m.SeriesName)
	}
	return names
}

func byDate(a, b *domain.Measurement) int {
	return a.Date.Compare(b.Date)
}
