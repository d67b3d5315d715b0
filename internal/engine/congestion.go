package engine

import (
	"gonum.org/v1/gonum/stat"
)

const (
	// FirstServiceHour and LastServiceHour bound the hours that get a score
	FirstServiceHour = 7
	LastServiceHour  = 23
)

// LevelScore maps a congestion label to its numeric score.
// Unknown labels score 0.
func LevelScore(level CongestionLevel) int {
	switch level {
	case CongestionLow:
		return 0
	case CongestionMedium:
		return 25
	case CongestionHigh:
		return 50
	case CongestionVeryHigh:
		return 75
	default:
		return 0
	}
}

// Aggregate folds the records into a per-hour congestion score for the service hours
func Aggregate(records []UsageRecord) HourlyCongestion {
	hourly := make(HourlyCongestion)
	for _, s := range AggregateStats(records) {
		hourly[s.Hour] = s.Score
	}
	return hourly
}

// AggregateStats returns the per-hour aggregates in ascending hour order.
// Hours without records are skipped.
func AggregateStats(records []UsageRecord) []HourStats {
	byHour := make(map[int][]UsageRecord)
	for _, r := range records {
		byHour[r.Hour] = append(byHour[r.Hour], r)
	}

	stats := []HourStats{}
	for hour := FirstServiceHour; hour <= LastServiceHour; hour++ {
		hourRecords := byHour[hour]
		if len(hourRecords) == 0 {
			continue
		}

		scores := make([]float64, len(hourRecords))
		usage := make([]float64, len(hourRecords))
		for i, r := range hourRecords {
			scores[i] = float64(LevelScore(r.Congestion))
			usage[i] = float64(r.UsageCount)
		}

		stats = append(stats, HourStats{
			Hour: hour,
			// int() truncates toward zero, so 24.9 becomes 24
			Score:    int(stat.Mean(scores, nil)),
			AvgUsage: stat.Mean(usage, nil),
			Samples:  len(hourRecords),
		})
	}

	return stats
}
