package calendar

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/username/calendrier-api/pkg/textutil"
)

// ParsePolicy controls how a year given as text is turned into a number
type ParsePolicy string

const (
	// ParseLenient takes the leading integer of the input and falls back to
	// the default year when there is none or when it is zero.
	ParseLenient ParsePolicy = "lenient-int-or-default"
	// ParseStrict accepts only a plain integer; empty input still yields the default.
	ParseStrict ParsePolicy = "strict"

	// DefaultYear is used when the caller gives no usable year
	DefaultYear = 2026
)

// ErrInvalidYear is returned by a strict policy for non-numeric input
var ErrInvalidYear = errors.New("invalid year")

// YearPolicy resolves the year requested by a caller
type YearPolicy struct {
	DefaultYear int
	Parse       ParsePolicy
}

// DefaultYearPolicy returns the lenient policy defaulting to 2026.
func DefaultYearPolicy() YearPolicy {
	return YearPolicy{DefaultYear: DefaultYear, Parse: ParseLenient}
}

// ParsePolicyFromString validates a policy name; empty means lenient.
func ParsePolicyFromString(s string) (ParsePolicy, error) {
	switch ParsePolicy(s) {
	case "", ParseLenient:
		return ParseLenient, nil
	case ParseStrict:
		return ParseStrict, nil
	default:
		return "", fmt.Errorf("unknown parse policy '%s'", s)
	}
}

// Resolve returns the year from the first non-empty candidate, in order.
func (p YearPolicy) Resolve(candidates ...string) (int, error) {
	defaultYear := p.DefaultYear
	if defaultYear == 0 {
		defaultYear = DefaultYear
	}

	var raw string
	for _, c := range candidates {
		if c = strings.TrimSpace(c); c != "" {
			raw = c
			break
		}
	}
	if raw == "" {
		return defaultYear, nil
	}

	if p.Parse == ParseStrict {
		year, err := strconv.Atoi(raw)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidYear, raw)
		}
		return year, nil
	}

	year, ok := textutil.LeadingInt(raw)
	if !ok || year == 0 {
		return defaultYear, nil
	}
	return year, nil
}
