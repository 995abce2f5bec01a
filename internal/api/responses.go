package api

import (
	"github.com/username/calendrier-api/internal/calendar"
	"github.com/username/calendrier-api/internal/holidays"
)

// CalendarsResponse is returned by GET /
type CalendarsResponse struct {
	Success     bool                  `json:"success"`
	Year        int                   `json:"annee"`
	Description string                `json:"description"`
	Calendars   calendar.YearCalendar `json:"calendriers"`
}

// HolidaysResponse is returned by GET /recherche and GET /reference/:annee
type HolidaysResponse struct {
	Success     bool              `json:"success"`
	Title       string            `json:"titre"`
	Description string            `json:"description"`
	Year        int               `json:"annee"`
	Total       int               `json:"totalJoursFeries"`
	Holidays    []holidays.Record `json:"joursFeries"`
}

// HolidayList nests holidays inside CombinedResponse
type HolidayList struct {
	Title       string            `json:"titre"`
	Description string            `json:"description"`
	List        []holidays.Record `json:"liste"`
}

// CombinedResponse is returned by GET /calendriers/:annee
type CombinedResponse struct {
	Success   bool                  `json:"success"`
	Year      int                   `json:"annee"`
	Calendars calendar.YearCalendar `json:"calendriers"`
	Holidays  HolidayList           `json:"joursFeries"`
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
