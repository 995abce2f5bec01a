package holidays

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rickar/cal/v2/fr"

	"github.com/username/calendrier-api/internal/calendar"
	"github.com/username/calendrier-api/pkg/dateutil"
)

const (
	pastLabel  = "Passé"
	todayLabel = "Aujourd'hui"
)

// ReferenceHoliday is a French public holiday computed locally
type ReferenceHoliday struct {
	Date time.Time
	Name string
}

// ReferenceHolidays computes the national French public holidays of year,
// sorted by date. It does not contact the provider.
func ReferenceHolidays(year int) []ReferenceHoliday {
	list := make([]ReferenceHoliday, 0, len(fr.Holidays))
	if !calendar.Supported(year) {
		return list
	}
	for _, h := range fr.Holidays {
		actual, _ := h.Calc(year)
		if actual.IsZero() {
			continue
		}
		list = append(list, ReferenceHoliday{
			Date: time.Date(actual.Year(), actual.Month(), actual.Day(), 0, 0, 0, 0, time.UTC),
			Name: h.Name,
		})
	}

	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Date.Before(list[j].Date)
	})
	return list
}

// Record formats the holiday the way the provider lists it, with the
// countdown taken relative to now.
func (h ReferenceHoliday) Record(now time.Time) Record {
	var remaining DaysRemaining
	switch days := dateutil.DaysBetween(now, h.Date); {
	case dateutil.IsSameDay(now, h.Date):
		remaining = Raw(todayLabel)
	case days > 0:
		remaining = Numeric(days)
	default:
		remaining = Raw(pastLabel)
	}

	return Record{
		Date:          FrenchDate(h.Date),
		Name:          h.Name,
		Weekday:       calendar.WeekdayNames[h.Date.Weekday()],
		DaysRemaining: remaining,
	}
}

// Reference returns the locally computed holidays of year as records
func Reference(year int, now time.Time) []Record {
	holidays := ReferenceHolidays(year)
	records := make([]Record, 0, len(holidays))
	for _, h := range holidays {
		records = append(records, h.Record(now))
	}
	return records
}

// FrenchDate formats t as "1 janvier"
func FrenchDate(t time.Time) string {
	return fmt.Sprintf("%d %s", t.Day(), strings.ToLower(calendar.MonthNames[t.Month()-1]))
}
