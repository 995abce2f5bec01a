package dateutil

import "time"

const secondsPerDay = 24 * 60 * 60

// DaysInMonth returns the number of days in the given month, following
// Gregorian leap-year rules.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// IsWeekday returns true if the date is Monday-Friday
func IsWeekday(date time.Time) bool {
	weekday := date.Weekday()
	return weekday >= time.Monday && weekday <= time.Friday
}

// IsSameDay returns true if two dates are on the same day
func IsSameDay(date1, date2 time.Time) bool {
	return date1.Year() == date2.Year() &&
		date1.Month() == date2.Month() &&
		date1.Day() == date2.Day()
}

// DaysBetween returns the number of calendar days from `from` to `to`.
// Both dates are truncated to their day in UTC, so DST shifts do not count.
// The result is negative when to is before from. Unix seconds are used
// because time.Duration saturates after about 292 years.
func DaysBetween(from, to time.Time) int {
	a := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int((b.Unix() - a.Unix()) / secondsPerDay)
}
