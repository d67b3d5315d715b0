package engine

import "fmt"

// Panel is the text shown in the status panel for a recommendation
type Panel struct {
	Headline      string `json:"headline"`
	CongestionPct string `json:"congestion_pct"`
	WaitText      string `json:"wait_text"`
	StatusLabel   string `json:"status_label"`
	Suggestion    string `json:"suggestion,omitempty"`
	Celebrate     bool   `json:"celebrate"`
}

// BuildPanel describes a recommendation for display
func BuildPanel(rec Recommendation, offset Offset) Panel {
	switch rec.Verdict {
	case VerdictClosed:
		return Panel{
			Headline:    fmt.Sprintf("The laundry room is closed from %d:00 to %d:00", ClosingHour, OpeningHour),
			WaitText:    fmt.Sprintf("about %d hours", rec.WaitHours),
			StatusLabel: "closed",
			Suggestion:  fmt.Sprintf("Opens again at %d:00 (in about %d hours)", OpeningHour, rec.WaitHours),
		}

	case VerdictNoData:
		return Panel{
			Headline:    fmt.Sprintf("No usage data for %d:00", rec.TargetHour),
			StatusLabel: "no data",
		}

	case VerdictOK:
		return Panel{
			Headline:      fmt.Sprintf("%s is a good time, go ahead (%d:00)", offset.Label, rec.TargetHour),
			CongestionPct: fmt.Sprintf("%d%%", rec.Score),
			WaitText:      "0 minutes",
			StatusLabel:   "comfortable",
			Celebrate:     rec.VeryGood,
		}

	default:
		p := Panel{
			Headline:      fmt.Sprintf("%s is busy (%d:00, congestion %d%%)", offset.Label, rec.TargetHour, rec.Score),
			CongestionPct: fmt.Sprintf("%d%%", rec.Score),
			StatusLabel:   "busy",
		}
		if rec.AlternativeHour != nil && rec.AlternativeScore != nil {
			p.Suggestion = fmt.Sprintf("Try %d:00 instead (congestion %d%%)", *rec.AlternativeHour, *rec.AlternativeScore)
		}
		return p
	}
}
