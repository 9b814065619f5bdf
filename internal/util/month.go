package util

import "time"

// MonthKeyLayout formats a month as its upsert key.
const MonthKeyLayout = "2006-01"

// MonthNameLayout formats a month for display.
const MonthNameLayout = "January 2006"

// FirstOfMonth truncates t to the first day of its calendar month in UTC.
func FirstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// MonthBounds returns the first and last day of the given calendar month.
func MonthBounds(year int, month time.Month) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)
	return start, end
}

// DaysInMonth returns the number of days in the given calendar month.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// PreviousMonth returns the first day of the calendar month before t's month.
func PreviousMonth(t time.Time) time.Time {
	return FirstOfMonth(FirstOfMonth(t).AddDate(0, 0, -1))
}

// TrailingMonths returns the first days of n trailing months, newest first.
// Month i is computed by subtracting i*30 days from the first of the current
// month and re-anchoring to day 1. For months other than 30 days long this
// drifts (it can skip or repeat a month over long ranges); the behavior is
// kept for compatibility with the analytics this feeds.
func TrailingMonths(now time.Time, n int) []time.Time {
	first := FirstOfMonth(now)
	months := make([]time.Time, n)
	for i := 0; i < n; i++ {
		target := first.AddDate(0, 0, -i*30)
		months[i] = FirstOfMonth(target)
	}
	return months
}

// ValidYearMonth reports whether year/month name a real calendar month.
func ValidYearMonth(year, month int) bool {
	return year >= 1 && year <= 9999 && month >= 1 && month <= 12
}

// ParseMonthKey parses a "YYYY-MM" key into the first day of that month.
func ParseMonthKey(key string) (time.Time, error) {
	t, err := time.ParseInLocation(MonthKeyLayout, key, time.UTC)
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}
