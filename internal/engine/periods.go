package engine

// PeriodLevel classifies the average congestion of a period
type PeriodLevel string

const (
	LevelComfortable PeriodLevel = "comfortable"
	LevelModerate    PeriodLevel = "moderate"
	LevelBusy        PeriodLevel = "busy"
)

// Period is a named block of hours shown in the summary
type Period struct {
	Name  string `json:"name"`
	Start int    `json:"start"`
	End   int    `json:"end"` // inclusive
}

// PeriodSummary is the average congestion of a period
type PeriodSummary struct {
	Period
	AvgScore int         `json:"avg_score"`
	Level    PeriodLevel `json:"level"`
}

// KeyPeriods are the blocks of the day residents usually ask about
var KeyPeriods = []Period{
	{Name: "Morning", Start: 7, End: 9},
	{Name: "Lunch", Start: 12, End: 14},
	{Name: "Evening", Start: 18, End: 20},
	{Name: "Before closing", Start: 21, End: 21},
}

// SummarizePeriods averages the hourly scores over each key period.
// Only hours with data count; a period with none averages 0.
func SummarizePeriods(hourly HourlyCongestion, periods []Period) []PeriodSummary {
	summaries := make([]PeriodSummary, 0, len(periods))

	for _, p := range periods {
		total, n := 0, 0
		for h := p.Start; h <= p.End; h++ {
			if score, ok := hourly[h]; ok {
				total += score
				n++
			}
		}

		avg := 0
		if n > 0 {
			avg = total / n
		}

		summaries = append(summaries, PeriodSummary{
			Period:   p,
			AvgScore: avg,
			Level:    levelFor(avg),
		})
	}

	return summaries
}

func levelFor(score int) PeriodLevel {
	switch {
	case score < 30:
		return LevelComfortable
	case score < 60:
		return LevelModerate
	default:
		return LevelBusy
	}
}
