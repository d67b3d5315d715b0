package engine

import (
	"errors"
	"time"
)

var ErrInvalidInput = errors.New("invalid input parameters")

// Report is everything the dashboard shows for one render
type Report struct {
	Now            time.Time          `json:"now"`
	CurrentHour    int                `json:"current_hour"`
	Offset         Offset             `json:"offset"`
	Recommendation Recommendation     `json:"recommendation"`
	Panel          Panel              `json:"panel"`
	Hourly         HourlyCongestion   `json:"hourly"`
	Stats          []HourStats        `json:"stats"`
	Chart          []ChartBar         `json:"chart"`
	Periods        []PeriodSummary    `json:"periods"`
	Completion     CompletionEstimate `json:"completion"`
	CycleMinutes   int                `json:"cycle_minutes"`
}

// BuildReport runs the whole computation for one render
func BuildReport(records []UsageRecord, now time.Time, offset Offset, cycle time.Duration) (*Report, error) {
	if cycle <= 0 {
		return nil, ErrInvalidInput
	}

	stats := AggregateStats(records)
	hourly := make(HourlyCongestion, len(stats))
	for _, s := range stats {
		hourly[s.Hour] = s.Score
	}

	rec := Evaluate(now.Hour(), offset, hourly)

	return &Report{
		Now:            now,
		CurrentHour:    now.Hour(),
		Offset:         offset,
		Recommendation: rec,
		Panel:          BuildPanel(rec, offset),
		Hourly:         hourly,
		Stats:          stats,
		Chart:          ChartSeries(hourly),
		Periods:        SummarizePeriods(hourly, KeyPeriods),
		Completion:     Completion(now, cycle),
		CycleMinutes:   int(cycle / time.Minute),
	}, nil
}
