package holidays

import (
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
)

const icsProductID = "-//calendrier-api//Jours feries//FR"

// ICS renders holidays as an iCalendar document of all-day events
func ICS(year int, holidays []ReferenceHoliday, stamp time.Time) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(icsProductID)
	cal.SetXWRCalName(fmt.Sprintf("Jours fériés %d", year))

	for _, h := range holidays {
		event := cal.AddEvent(fmt.Sprintf("jour-ferie-%s@calendrier-api", h.Date.Format("20060102")))
		event.SetDtStampTime(stamp)
		event.SetSummary(h.Name)
		event.SetAllDayStartAt(h.Date)
		event.SetAllDayEndAt(h.Date.AddDate(0, 0, 1))
	}

	return cal.Serialize()
}
