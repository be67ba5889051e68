package aggregate

import (
	"github.com/comitanigiacomo/liftbook/internal/core/domain"
)

// Delta is the change of a scalar series over one window.
type Delta struct {
	Baseline     float64     `json:"baseline"`
	BaselineDate domain.Date `json:"baseline_date"`
	Change       float64     `json:"change"`
}

type WindowDeltas struct {
	Current     float64     `json:"current"`
	CurrentDate domain.Date `json:"current_date"`
	YearToDate  Delta       `json:"year_to_date"`
	SixMonths   Delta       `json:"six_months"`
	TwelveMonth Delta       `json:"twelve_months"`
}

// ComputeWindowDeltas compares the most recent measurement against three
// baselines:
//
//   - year to date: the earliest measurement on or after January 1st
//   - six and twelve months: the latest measurement on or before the boundary
//
// A window with no qualifying measurement falls back to the earliest one.
// Returns nil for an empty input.
func ComputeWindowDeltas(ms []*domain.Measurement, today domain.Date) *WindowDeltas {
	if len(ms) == 0 {
		return nil
	}

	sorted := SortByDate(ms)
	earliest := sorted[0]
	current := sorted[len(sorted)-1]

	yearStart := today.StartOfYear()
	var ytd *domain.Measurement
	for _, m := range sorted {
		if !m.Date.Before(yearStart) {
			ytd = m
			break
		}
	}

	pick := func(m *domain.Measurement) Delta {
		if m == nil {
			m = earliest
		}
		return Delta{
			Baseline:     m.Value,
			BaselineDate: m.Date,
			Change:       domain.RoundTenth(current.Value - m.Value),
		}
	}

	return &WindowDeltas{
		Current:     current.Value,
		CurrentDate: current.Date,
		YearToDate:  pick(ytd),
		SixMonths:   pick(latestOnOrBefore(sorted, today.AddMonths(-6))),
		TwelveMonth: pick(latestOnOrBefore(sorted, today.AddYears(-1))),
	}
}

func latestOnOrBefore(sorted []*domain.Measurement, boundary domain.Date) *domain.Measurement {
	var found *domain.Measurement
	for _, m := range sorted {
		if m.Date.After(boundary) {
			break
		}
		found = m
	}
	return found
}
