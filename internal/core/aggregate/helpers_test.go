package aggregate_test

import (
	"strconv"

	"github.com/comitanigiacomo/liftbook/internal/core/domain"
)

var seq int

func lift(name string, weight, reps float64, date string) *domain.Measurement {
	seq++
	return &domain.Measurement{
		ID:             "m" + strconv.Itoa(seq),
		UserID:         "u1",
		Kind:           domain.KindLift,
		SeriesName:     name,
		Value:          weight,
		SecondaryValue: reps,
		Date:           domain.MustParseDate(date),
		Version:        1,
	}
}

func bodyweight(kg float64, date string) *domain.Measurement {
	seq++
	return &domain.Measurement{
		ID:         "bw" + strconv.Itoa(seq),
		UserID:     "u1",
		Kind:       domain.KindBodyweight,
		SeriesName: domain.BodyweightSeries,
		Value:      kg,
		Date:       domain.MustParseDate(date),
		Version:    1,
	}
}

func datePtr(s string) *domain.Date {
	d := domain.MustParseDate(s)
	return &d
}

func ids(ms []*domain.Measurement) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.ID
	}
	return out
}
