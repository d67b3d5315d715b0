package engine

const (
	// OpeningHour is when the laundry room opens
	OpeningHour = 7
	// ClosingHour is the first hour the laundry room is closed
	ClosingHour = 23
)

// IsOpen reports whether the laundry room is usable at the given hour (0-23)
func IsOpen(hour int) bool {
	return hour >= OpeningHour && hour < ClosingHour
}

// WaitHours returns the hours until the room next opens.
// Hours from 22 count through midnight, so 22 yields 9 even though 22 is open.
func WaitHours(hour int) int {
	if hour >= 22 {
		return (24 - hour) + OpeningHour
	}
	return OpeningHour - hour
}

// CheckWindow classifies an hour against the service window
func CheckWindow(hour int) WindowStatus {
	status := WindowStatus{Hour: hour, Open: IsOpen(hour)}
	if !status.Open {
		status.WaitHours = WaitHours(hour)
	}
	return status
}

// TargetHour applies an offset to the current hour, wrapping at midnight
func TargetHour(currentHour, offsetHours int) int {
	h := (currentHour + offsetHours) % 24
	if h < 0 {
		h += 24
	}
	return h
}
