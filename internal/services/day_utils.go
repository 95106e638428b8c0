package services

import (
	"time"
)

// DateAtLocation truncates the instant to midnight of its calendar day
// in the given location.
func DateAtLocation(value time.Time, location *time.Location) time.Time {
	if location == nil {
		location = time.UTC
	}
	localized := value.In(location)
	year, month, day := localized.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, location)
}

// DayRange returns [midnight, next midnight) around the instant.
func DayRange(value time.Time, location *time.Location) (time.Time, time.Time) {
	start := DateAtLocation(value, location)
	return start, start.AddDate(0, 0, 1)
}

// DaysBetween counts whole calendar days from earlier to later in the
// location. 23:59 and 00:01 around one midnight are one day apart, and
// a span crossing a DST change still counts by calendar days rather
// than elapsed 24h blocks.
func DaysBetween(earlier time.Time, later time.Time, location *time.Location) int {
	start := DateAtLocation(earlier, location)
	end := DateAtLocation(later, location)
	hours := end.Sub(start).Hours()
	days := int(hours / 24)
	if remainder := hours - float64(days)*24; remainder > 12 {
		days++
	} else if remainder < -12 {
		days--
	}
	return days
}
