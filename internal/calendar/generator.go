package calendar

import (
	"time"

	"github.com/username/calendrier-api/pkg/dateutil"
)

// Generate builds the Monday-Friday calendars of all twelve months of year.
// Years the time package cannot represent yield months without weeks.
func Generate(year int) YearCalendar {
	supported := Supported(year)

	months := make(YearCalendar, 0, len(MonthNames))
	for i, name := range MonthNames {
		month := time.Month(i + 1)
		weeks := []WeekRow{}
		if supported {
			weeks = monthWeeks(year, month)
		}
		months = append(months, MonthCalendar{
			Year:   year,
			Name:   name,
			Number: int(month),
			Weeks:  weeks,
		})
	}
	return months
}

// Supported reports whether every day of year survives a round trip through
// time.Date. Far outside that range dates wrap around silently.
func Supported(year int) bool {
	first := time.Date(year, time.January, 1, 12, 0, 0, 0, time.UTC)
	last := time.Date(year, time.December, 31, 12, 0, 0, 0, time.UTC)
	return first.Year() == year && first.YearDay() == 1 &&
		last.Year() == year && last.Month() == time.December && last.Day() == 31
}

// monthWeeks walks the month day by day. A week ends on Sunday or on the
// last day of the month; weeks without any working day are dropped.
func monthWeeks(year int, month time.Month) []WeekRow {
	daysInMonth := dateutil.DaysInMonth(year, month)
	weeks := make([]WeekRow, 0, 6)

	var current WeekRow
	for day := 1; day <= daysInMonth; day++ {
		date := time.Date(year, month, day, 12, 0, 0, 0, time.UTC)
		weekday := date.Weekday()
		if dateutil.IsWeekday(date) {
			current = current.With(weekday, day)
		}

		if weekday == time.Sunday || day == daysInMonth {
			if !current.Empty() {
				weeks = append(weeks, current)
			}
			current = WeekRow{}
		}
	}

	return weeks
}
