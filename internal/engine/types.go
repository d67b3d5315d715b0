package engine

import "fmt"

// CongestionLevel is the categorical busyness label recorded in the historical table
type CongestionLevel string

const (
	CongestionLow      CongestionLevel = "low"
	CongestionMedium   CongestionLevel = "medium"
	CongestionHigh     CongestionLevel = "high"
	CongestionVeryHigh CongestionLevel = "very_high"
)

// UsageRecord is one historical sample of machine usage at an hour of the day.
// Several records may share an hour.
type UsageRecord struct {
	Hour       int             `json:"hour" db:"hour"`
	UsageCount int             `json:"usage_count" db:"usage_count"`
	Congestion CongestionLevel `json:"congestion" db:"congestion"`
}

// HourlyCongestion maps a service hour (7-23) to its congestion score (0-100).
// Hours without samples have no entry.
type HourlyCongestion map[int]int

// HourStats is the per-hour aggregate behind a congestion score
type HourStats struct {
	Hour     int     `json:"hour"`
	Score    int     `json:"score"`
	AvgUsage float64 `json:"avg_usage"`
	Samples  int     `json:"samples"`
}

// Verdict is the outcome of evaluating a target hour
type Verdict string

const (
	VerdictOK        Verdict = "ok"
	VerdictCongested Verdict = "congested"
	VerdictClosed    Verdict = "closed"
	VerdictNoData    Verdict = "no_data"
)

// Recommendation is the answer for one requested hour
type Recommendation struct {
	TargetHour       int     `json:"target_hour"`
	Score            int     `json:"congestion_score"`
	Verdict          Verdict `json:"verdict"`
	AlternativeHour  *int    `json:"alternative_hour,omitempty"`
	AlternativeScore *int    `json:"alternative_score,omitempty"`
	VeryGood         bool    `json:"very_good"`  // score under VeryGoodThreshold
	WaitHours        int     `json:"wait_hours"` // only set when closed
}

// WindowStatus reports whether the laundry room is open at an hour
type WindowStatus struct {
	Hour      int  `json:"hour"`
	Open      bool `json:"open"`
	WaitHours int  `json:"wait_hours"`
}

// CompletionEstimate is the wall-clock time a cycle started now will finish
type CompletionEstimate struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

// String renders the estimate as HH:MM
func (c CompletionEstimate) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}
