package aggregate

import (
	"encoding/json"
	"errors"
	"math"
	"slices"
	"strconv"

	"github.com/comitanigiacomo/liftbook/internal/core/domain"
)

var (
	ErrInvalidVolumeMode = errors.New("invalid volume mode (must be total or average)")
	ErrInvalidMetric     = errors.New("invalid metric (must be weight, reps or volume)")
)

type VolumeMode string

const (
	VolumeTotal   VolumeMode = "total"
	VolumeAverage VolumeMode = "average"
)

// ParseVolumeMode defaults to VolumeTotal for an empty string.
func ParseVolumeMode(s string) (VolumeMode, error) {
	switch VolumeMode(s) {
	case "", VolumeTotal:
		return VolumeTotal, nil
	case VolumeAverage:
		return VolumeAverage, nil
	default:
		return "", ErrInvalidVolumeMode
	}
}

type Metric string

const (
	MetricWeight Metric = "weight"
	MetricReps   Metric = "reps"
	MetricVolume Metric = "volume"
)

// ParseMetric defaults to MetricWeight for an empty string.
func ParseMetric(s string) (Metric, error) {
	switch Metric(s) {
	case "", MetricWeight:
		return MetricWeight, nil
	case MetricReps, MetricVolume:
		return Metric(s), nil
	default:
		return "", ErrInvalidMetric
	}
}

// Cell holds the projections of one (date, series) pair. A pair with no
// sets has every pointer nil so charts draw a gap instead of a zero.
type Cell struct {
	PeakValue     *float64 `json:"peak_value"`
	ValueAtPeak   *float64 `json:"value_at_peak"`
	TotalVolume   *float64 `json:"total_volume"`
	AverageVolume *float64 `json:"average_volume"`
	SetCount      int      `json:"set_count"`
	Sets          []string `json:"sets,omitempty"`
}

func (c Cell) Empty() bool {
	return c.SetCount == 0
}

func (c Cell) Volume(mode VolumeMode) *float64 {
	if mode == VolumeAverage {
		return c.AverageVolume
	}
	return c.TotalVolume
}

func (c Cell) Metric(metric Metric, mode VolumeMode) *float64 {
	switch metric {
	case MetricReps:
		return c.ValueAtPeak
	case MetricVolume:
		return c.Volume(mode)
	default:
		return c.PeakValue
	}
}

// Row is one calendar date. Cells are indexed like Table.Series.
type Row struct {
	Date  domain.Date
	Cells []Cell
}

// Table is the dense date x series grid behind the progress chart.
type Table struct {
	Series []string
	Rows   []Row
	Mode   VolumeMode
}

// Point is a single chart sample. A nil Value is a gap.
type Point struct {
	Date  domain.Date `json:"date"`
	Value *float64    `json:"value"`
}

// BuildTable projects the measurements into one row per distinct date
// (ascending) and one column per distinct series (first appearance order).
func BuildTable(ms []*domain.Measurement, mode VolumeMode) *Table {
	if mode == "" {
		mode = VolumeTotal
	}

	series := SeriesNames(ms)
	column := make(map[string]int, len(series))
	for i, s := range series {
		column[s] = i
	}

	groups := GroupByDateSeries(ms)

	dates := make([]domain.Date, 0, len(groups))
	seen := make(map[domain.Date]struct{})
	for _, m := range ms {
		if _, ok := seen[m.Date]; ok {
			continue
		}
		seen[m.Date] = struct{}{}
		dates = append(dates, m.Date)
	}
	slices.SortFunc(dates, domain.Date.Compare)

	rows := make([]Row, len(dates))
	for i, d := range dates {
		cells := make([]Cell, len(series))
		for _, s := range series {
			if sets, ok := groups[Key{Date: d, Series: s}]; ok {
				cells[column[s]] = project(sets)
			}
		}
		rows[i] = Row{Date: d, Cells: cells}
	}

	return &Table{Series: series, Rows: rows, Mode: mode}
}

func project(sets []*domain.Measurement) Cell {
	peak := sets[0]
	total := 0.0
	labels := make([]string, 0, len(sets))
	for _, m := range sets {
		if m.Value > peak.Value {
			peak = m
		}
		total += m.Volume()
		labels = append(labels, setLabel(m))
	}

	avg := math.Round(total / float64(len(sets)))
	return Cell{
		PeakValue:     ptr(peak.Value),
		ValueAtPeak:   ptr(peak.SecondaryValue),
		TotalVolume:   ptr(total),
		AverageVolume: ptr(avg),
		SetCount:      len(sets),
		Sets:          labels,
	}
}

// Cell looks up the projections of one (date, series) pair.
func (t *Table) Cell(date domain.Date, series string) (Cell, bool) {
	col := slices.Index(t.Series, series)
	if col < 0 {
		return Cell{}, false
	}
	i, found := slices.BinarySearchFunc(t.Rows, date, func(r Row, d domain.Date) int {
		return r.Date.Compare(d)
	})
	if !found {
		return Cell{}, false
	}
	return t.Rows[i].Cells[col], true
}

// Line extracts one metric of one series across every row. Dates on which
// the series was not performed yield a nil value.
func (t *Table) Line(series string, metric Metric) []Point {
	col := slices.Index(t.Series, series)
	if col < 0 {
		return nil
	}
	points := make([]Point, len(t.Rows))
	for i, r := range t.Rows {
		points[i] = Point{Date: r.Date, Value: r.Cells[col].Metric(metric, t.Mode)}
	}
	return points
}

// FlatRows encodes each row as {"date": ..., "<series>_weight": ...,
// "<series>_reps": ..., "<series>_volume": ...}. Missing values are nil.
func (t *Table) FlatRows() []map[string]any {
	out := make([]map[string]any, len(t.Rows))
	for i, r := range t.Rows {
		row := make(map[string]any, 1+3*len(t.Series))
		row["date"] = r.Date.String()
		for j, s := range t.Series {
			c := r.Cells[j]
			row[s+"_weight"] = c.PeakValue
			row[s+"_reps"] = c.ValueAtPeak
			row[s+"_volume"] = c.Volume(t.Mode)
		}
		out[i] = row
	}
	return out
}

func (t *Table) MarshalJSON() ([]byte, error) {
	series := t.Series
	if series == nil {
		series = []string{}
	}
	return json.Marshal(struct {
		Series []string         `json:"series"`
		Mode   VolumeMode       `json:"volume_mode"`
		Rows   []map[string]any `json:"rows"`
	}{
		Series: series,
		Mode:   t.Mode,
		Rows:   t.FlatRows(),
	})
}

func setLabel(m *domain.Measurement) string {
	return formatNumber(m.Value) + "x" + formatNumber(m.SecondaryValue)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func ptr(v float64) *float64 {
	return &v
}
