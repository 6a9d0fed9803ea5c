package models

import "time"

// DateLayout is the calendar-day key format used by completions.
const DateLayout = "2006-01-02"

// DateKey formats t as a calendar day in t's own location.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDateKey parses a YYYY-MM-DD key into midnight UTC.
func ParseDateKey(key string) (time.Time, error) {
	return time.Parse(DateLayout, key)
}

// AddDays shifts a date key by n calendar days.
func AddDays(key string, n int) (string, error) {
	t, err := ParseDateKey(key)
	if err != nil {
		return "", err
	}
	return DateKey(t.AddDate(0, 0, n)), nil
}

// Today returns the date key of now in loc. A nil loc means time.Local.
func Today(now time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return DateKey(now.In(loc))
}
