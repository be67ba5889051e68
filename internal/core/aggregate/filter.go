package aggregate

import (
	"slices"

	"github.com/comitanigiacomo/liftbook/internal/core/domain"
)

// DateRange is inclusive on both ends. A nil bound is unbounded.
type DateRange struct {
	Start *domain.Date `json:"start,omitempty"`
	End   *domain.Date `json:"end,omitempty"`
}

func (r DateRange) Contains(d domain.Date) bool {
	if r.Start != nil && d.Before(*r.Start) {
		return false
	}
	if r.End != nil && d.After(*r.End) {
		return false
	}
	return true
}

func (r DateRange) IsUnbounded() bool {
	return r.Start == nil && r.End == nil
}

// Selection picks the measurements a view is built from.
// An empty Series list selects every series.
type Selection struct {
	Series []string
	Range  DateRange
}

func (s Selection) IsZero() bool {
	return len(s.Series) == 0 && s.Range.IsUnbounded()
}

// Filter keeps the measurements whose series is selected and whose date is
// inside the range, preserving input order.
func Filter(ms []*domain.Measurement, sel Selection) []*domain.Measurement {
	if sel.IsZero() {
		return slices.Clone(ms)
	}

	var selected map[string]struct{}
	if len(sel.Series) > 0 {
		selected = make(map[string]struct{}, len(sel.Series))
		for _, s := range sel.Series {
			selected[s] = struct{}{}
		}
	}

	out := make([]*domain.Measurement, 0, len(ms))
	for _, m := range ms {
		if selected != nil {
			if _, ok := selected[m.SeriesName]; !ok {
				continue
			}
		}
		if !sel.Range.Contains(m.Date) {
			continue
		}
		out = append(out, m)
	}
	return out
}
