package aggregate

import (
	"slices"

	"github.com/comitanigiacomo/liftbook/internal/core/domain"
)

// Streaks counts runs of consecutive training days. The current streak is
// still alive when the last session was today or yesterday.
func Streaks(ms []*domain.Measurement, today domain.Date) (current, longest int) {
	if len(ms) == 0 {
		return 0, 0
	}

	seen := make(map[domain.Date]struct{})
	var days []domain.Date
	for _, m := range ms {
		if _, ok := seen[m.Date]; ok {
			continue
		}
		seen[m.Date] = struct{}{}
		days = append(days, m.Date)
	}

	slices.SortFunc(days, func(a, b domain.Date) int {
		return b.Compare(a)
	})

	if !days[0].Before(today.AddDays(-1)) {
		current = 1
		for i := 0; i < len(days)-1; i++ {
			if days[i+1].AddDays(1) != days[i] {
				break
			}
			current++
		}
	}

	run := 1
	for i := 0; i < len(days)-1; i++ {
		if days[i+1].AddDays(1) == days[i] {
			run++
			continue
		}
		longest = max(longest, run)
		run = 1
	}
	longest = max(longest, run)

	return current, longest
}
