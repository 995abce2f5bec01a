package calendar

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// MonthNames holds the French month names in calendar order.
var MonthNames = [12]string{
	"Janvier", "Février", "Mars", "Avril", "Mai", "Juin",
	"Juillet", "Août", "Septembre", "Octobre", "Novembre", "Décembre",
}

// WeekdayNames holds the French names of every weekday, indexed by time.Weekday.
var WeekdayNames = [7]string{
	"Dimanche", "Lundi", "Mardi", "Mercredi", "Jeudi", "Vendredi", "Samedi",
}

// WeekRow holds the day-of-month for each working day of one week.
// A nil slot means that weekday falls outside the month.
type WeekRow struct {
	Lundi    *int `json:"Lundi"`
	Mardi    *int `json:"Mardi"`
	Mercredi *int `json:"Mercredi"`
	Jeudi    *int `json:"Jeudi"`
	Vendredi *int `json:"Vendredi"`
}

// With returns a copy of the row with the slot for weekday set to day.
// Saturday and Sunday are ignored.
func (w WeekRow) With(weekday time.Weekday, day int) WeekRow {
	d := day
	switch weekday {
	case time.Monday:
		w.Lundi = &d
	case time.Tuesday:
		w.Mardi = &d
	case time.Wednesday:
		w.Mercredi = &d
	case time.Thursday:
		w.Jeudi = &d
	case time.Friday:
		w.Vendredi = &d
	}
	return w
}

// Slot returns the day stored for weekday, or nil.
func (w WeekRow) Slot(weekday time.Weekday) *int {
	switch weekday {
	case time.Monday:
		return w.Lundi
	case time.Tuesday:
		return w.Mardi
	case time.Wednesday:
		return w.Mercredi
	case time.Thursday:
		return w.Jeudi
	case time.Friday:
		return w.Vendredi
	}
	return nil
}

// Empty reports whether no weekday slot is set
func (w WeekRow) Empty() bool {
	return w.Lundi == nil && w.Mardi == nil && w.Mercredi == nil && w.Jeudi == nil && w.Vendredi == nil
}

// MonthCalendar is the weekday-only view of a single month
type MonthCalendar struct {
	Year   int       `json:"annee"`
	Name   string    `json:"mois"`
	Number int       `json:"numeroMois"`
	Weeks  []WeekRow `json:"semaines"`
}

// YearCalendar holds the twelve months of a year in calendar order.
// It serialises as a JSON object keyed by French month name.
type YearCalendar []MonthCalendar

// Month returns the month with the given French name.
func (y YearCalendar) Month(name string) (MonthCalendar, bool) {
	for _, m := range y {
		if m.Name == name {
			return m, true
		}
	}
	return MonthCalendar{}, false
}

// MarshalJSON keeps the months in calendar order, which a Go map would not.
func (y YearCalendar) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, m := range y {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(m.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to encode month name: %w", err)
		}
		value, err := json.Marshal(m)
		if err != nil {
			return nil, fmt.Errorf("failed to encode month %s: %w", m.Name, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
