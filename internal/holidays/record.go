package holidays

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/username/calendrier-api/pkg/textutil"
)

// DaysRemainingKind tells which half of a DaysRemaining is set
type DaysRemainingKind int

const (
	// DaysRemainingNumeric marks a countdown in days, held in Value
	DaysRemainingNumeric DaysRemainingKind = iota + 1
	// DaysRemainingRaw marks a countdown kept as the cell text, held in Text
	DaysRemainingRaw
)

// DaysRemaining is the countdown published next to a holiday. The provider
// shows a number for upcoming holidays and free text otherwise, so the value
// is either numeric or the raw cell text.
type DaysRemaining struct {
	Kind  DaysRemainingKind
	Value int
	Text  string
}

// Numeric returns a numeric countdown
func Numeric(n int) DaysRemaining {
	return DaysRemaining{Kind: DaysRemainingNumeric, Value: n}
}

// Raw returns a countdown kept as text
func Raw(s string) DaysRemaining {
	return DaysRemaining{Kind: DaysRemainingRaw, Text: s}
}

// ParseDaysRemaining reads the leading integer of text. Text without one is
// kept verbatim; so is "0", which the provider never uses as a countdown.
func ParseDaysRemaining(text string) DaysRemaining {
	if n, ok := textutil.LeadingInt(text); ok && n != 0 {
		return Numeric(n)
	}
	return Raw(text)
}

// IsNumeric reports whether the countdown is a number
func (d DaysRemaining) IsNumeric() bool {
	return d.Kind == DaysRemainingNumeric
}

// String returns the value as displayed by the provider
func (d DaysRemaining) String() string {
	if d.IsNumeric() {
		return strconv.Itoa(d.Value)
	}
	return d.Text
}

// MarshalJSON encodes numbers as JSON numbers and everything else as strings.
func (d DaysRemaining) MarshalJSON() ([]byte, error) {
	if d.IsNumeric() {
		return json.Marshal(d.Value)
	}
	return json.Marshal(d.Text)
}

// UnmarshalJSON accepts either a JSON number or a JSON string.
func (d *DaysRemaining) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*d = Raw(s)
		return nil
	}

	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("joursRestants must be a number or a string: %w", err)
	}
	*d = Numeric(n)
	return nil
}

// Record is one public holiday as listed by the provider. Date is kept in
// the provider's format ("1 janvier").
type Record struct {
	Date          string        `json:"date"`
	Name          string        `json:"nom"`
	Weekday       string        `json:"jour"`
	DaysRemaining DaysRemaining `json:"joursRestants"`
}
