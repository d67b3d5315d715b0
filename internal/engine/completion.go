package engine

import "time"

// CycleDuration is how long a wash takes
const CycleDuration = 50 * time.Minute

// Completion returns the wall-clock time at which a cycle of length d started at now ends.
// The host clock's location is used as-is.
func Completion(now time.Time, d time.Duration) CompletionEstimate {
	done := now.Add(d)
	return CompletionEstimate{Hour: done.Hour(), Minute: done.Minute()}
}
