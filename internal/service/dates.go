package service

import (
	"fmt"
	"time"
)

const dayFormat = "2006-01-02"

// weekdayLabels index by time.Weekday, Sunday first. The single-letter
// labels are what ReminderConfig.Days stores.
var weekdayLabels = []string{"S", "M", "T", "W", "T", "F", "S"}

// dateOnly maps an instant to its local calendar day, represented as a
// UTC midnight. All day arithmetic runs on these values so that
// daylight-saving shifts can never make a day look 23 or 25 hours long.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// parseDay parses a stored YYYY-MM-DD string into a UTC midnight.
// Malformed dates return the zero time, which no bucket matches.
func parseDay(s string) time.Time {
	t, err := time.Parse(dayFormat, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// clock12 formats an instant as the 12-hour display string tasks
// store, e.g. "10:00 AM" or "2:30 PM".
func clock12(t time.Time) string {
	hour := t.Hour() % 12
	if hour == 0 {
		hour = 12
	}
	suffix := "AM"
	if t.Hour() >= 12 {
		suffix = "PM"
	}
	return fmt.Sprintf("%d:%02d %s", hour, t.Minute(), suffix)
}
