package engine

const (
	// CongestedThreshold is the score from which an hour is considered busy
	CongestedThreshold = 40
	// VeryGoodThreshold marks hours quiet enough to celebrate
	VeryGoodThreshold = 20
)

// Recommend evaluates an open target hour against the hourly scores
func Recommend(targetHour int, hourly HourlyCongestion) Recommendation {
	rec := Recommendation{TargetHour: targetHour}

	score, ok := hourly[targetHour]
	if !ok {
		rec.Verdict = VerdictNoData
		return rec
	}

	rec.Score = score
	if score < CongestedThreshold {
		rec.Verdict = VerdictOK
		rec.VeryGood = score < VeryGoodThreshold
		return rec
	}

	rec.Verdict = VerdictCongested
	if hour, best, found := QuietestHour(hourly); found {
		rec.AlternativeHour = &hour
		rec.AlternativeScore = &best
	}

	return rec
}

// QuietestHour returns the hour with the lowest score.
// Ties go to the earliest hour.
func QuietestHour(hourly HourlyCongestion) (hour, score int, found bool) {
	for h := 0; h < 24; h++ {
		s, ok := hourly[h]
		if !ok {
			continue
		}
		if !found || s < score {
			hour, score, found = h, s, true
		}
	}
	return hour, score, found
}

// Evaluate resolves the target hour for an offset and applies the service window
// before recommending
func Evaluate(currentHour int, offset Offset, hourly HourlyCongestion) Recommendation {
	target := TargetHour(currentHour, offset.Hours)

	window := CheckWindow(target)
	if !window.Open {
		return Recommendation{
			TargetHour: target,
			Verdict:    VerdictClosed,
			WaitHours:  window.WaitHours,
		}
	}

	return Recommend(target, hourly)
}
