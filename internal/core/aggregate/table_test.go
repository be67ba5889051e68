package aggregate_test

import (
	"encoding/json"
	"testing"

	"github.com/comitanigiacomo/liftbook/internal/core/aggregate"
	"github.com/comitanigiacomo/liftbook/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildTable_PeakProjection(t *testing.T) {
	ms := []*domain.Measurement{
		lift("Bench", 100, 5, "2024-01-01"),
		lift("Bench", 110, 3, "2024-01-01"),
	}

	table := aggregate.BuildTable(ms, aggregate.VolumeTotal)

	cell, ok := table.Cell(domain.MustParseDate("2024-01-01"), "Bench")
	require.True(t, ok)
	assert.Equal(t, 110.0, *cell.PeakValue)
	assert.Equal(t, 3.0, *cell.ValueAtPeak, "reps come from the peak set")
	assert.Equal(t, 830.0, *cell.TotalVolume)
	assert.Equal(t, 415.0, *cell.AverageVolume)
	assert.Equal(t, 2, cell.SetCount)
	assert.Equal(t, []string{"100x5", "110x3"}, cell.Sets)
}

func TestBuildTable_PeakTieKeepsFirst(t *testing.T) {
	ms := []*domain.Measurement{
		lift("Bench", 100, 8, "2024-01-01"),
		lift("Bench", 100, 5, "2024-01-01"),
	}
	cell, ok := aggregate.BuildTable(ms, "").Cell(domain.MustParseDate("2024-01-01"), "Bench")
	require.True(t, ok)
	assert.Equal(t, 8.0, *cell.ValueAtPeak)
}

func TestBuildTable_AverageRounds(t *testing.T) {
	ms := []*domain.Measurement{
		lift("Curl", 10, 5, "2024-01-01"),
		lift("Curl", 10, 5, "2024-01-01"),
		lift("Curl", 11, 5, "2024-01-01"),
	}
	table := aggregate.BuildTable(ms, aggregate.VolumeAverage)
	cell, _ := table.Cell(domain.MustParseDate("2024-01-01"), "Curl")

	assert.Equal(t, 155.0, *cell.TotalVolume)
	assert.Equal(t, 52.0, *cell.AverageVolume, "155/3 = 51.67 rounds to 52")
	assert.Equal(t, 52.0, *table.Line("Curl", aggregate.MetricVolume)[0].Value)
}

func TestBuildTable_MissingPairIsNull(t *testing.T) {
	ms := []*domain.Measurement{
		lift("Bench Press", 100, 5, "2024-01-01"),
		lift("Squat", 140, 5, "2024-01-01"),
		lift("Bench Press", 105, 5, "2024-01-02"),
	}

	table := aggregate.BuildTable(ms, aggregate.VolumeTotal)

	cell, ok := table.Cell(domain.MustParseDate("2024-01-02"), "Squat")
	require.True(t, ok)
	assert.True(t, cell.Empty())
	assert.Nil(t, cell.PeakValue)
	assert.Nil(t, cell.ValueAtPeak)
	assert.Nil(t, cell.TotalVolume)
	assert.Nil(t, cell.AverageVolume)

	rows := table.FlatRows()
	require.Len(t, rows, 2)
	assert.Nil(t, rows[1]["Squat_weight"])

	raw, err := json.Marshal(table)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"Squat_weight":null`)
	assert.NotContains(t, string(raw), `"Squat_weight":0`)

	line := table.Line("Squat", aggregate.MetricWeight)
	require.Len(t, line, 2)
	assert.Equal(t, 140.0, *line[0].Value)
	assert.Nil(t, line[1].Value)
}

func TestBuildTable_RowsSortedByCalendarDate(t *testing.T) {
	ms := []*domain.Measurement{
		lift("Squat", 150, 5, "2024-10-01"),
		lift("Squat", 140, 5, "2024-09-15"),
		lift("Squat", 130, 5, "2023-12-31"),
	}
	table := aggregate.BuildTable(ms, aggregate.VolumeTotal)

	var dates []string
	for _, r := range table.Rows {
		dates = append(dates, r.Date.String())
	}
	assert.Equal(t, []string{"2023-12-31", "2024-09-15", "2024-10-01"}, dates)
}

func TestBuildTable_BenchPressScenario(t *testing.T) {
	ms := []*domain.Measurement{
		lift("Bench Press", 135, 5, "2024-01-01"),
		lift("Bench Press", 145, 5, "2024-01-08"),
	}

	rows := aggregate.BuildTable(ms, aggregate.VolumeTotal).FlatRows()

	require.Len(t, rows, 2)
	assert.Equal(t, "2024-01-01", rows[0]["date"])
	assert.Equal(t, 135.0, *rows[0]["Bench Press_weight"].(*float64))
	assert.Equal(t, 145.0, *rows[1]["Bench Press_weight"].(*float64))
	assert.Equal(t, 675.0, *rows[0]["Bench Press_volume"].(*float64))
	assert.Equal(t, 725.0, *rows[1]["Bench Press_volume"].(*float64))
}

func TestBuildTable_Empty(t *testing.T) {
	table := aggregate.BuildTable(nil, aggregate.VolumeTotal)
	assert.Empty(t, table.Rows)
	assert.Nil(t, table.Line("Bench", aggregate.MetricWeight))

	raw, err := json.Marshal(table)
	require.NoError(t, err)
	assert.JSONEq(t, `{"series":[],"volume_mode":"total","rows":[]}`, string(raw))
}

func TestParseModes(t *testing.T) {
	mode, err := aggregate.ParseVolumeMode("")
	assert.NoError(t, err)
	assert.Equal(t, aggregate.VolumeTotal, mode)

	_, err = aggregate.ParseVolumeMode("median")
	assert.ErrorIs(t, err, aggregate.ErrInvalidVolumeMode)

	metric, err := aggregate.ParseMetric("reps")
	assert.NoError(t, err)
	assert.Equal(t, aggregate.MetricReps, metric)

	_, err = aggregate.ParseMetric("speed")
	assert.ErrorIs(t, err, aggregate.ErrInvalidMetric)
}
