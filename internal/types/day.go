package types

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// DayLayout is the canonical text form of a Day.
const DayLayout = "2006-01-02"

// Day is a calendar date without a time zone, stored and transmitted as
// YYYY-MM-DD. The zero value means "not specified".
type Day string

// ParseDay accepts YYYY-MM-DD or an RFC3339 timestamp, whose date part is
// taken in the timestamp's own offset.
func ParseDay(s string) (Day, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	if t, err := time.Parse(DayLayout, s); err == nil {
		return Day(t.Format(DayLayout)), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return "", fmt.Errorf("invalid day %q: expected YYYY-MM-DD", s)
	}
	return Day(t.Format(DayLayout)), nil
}

// DayOf returns the calendar day of t in loc.
func DayOf(t time.Time, loc *time.Location) Day {
	if loc == nil {
		loc = time.UTC
	}
	return Day(t.In(loc).Format(DayLayout))
}

// IsZero reports whether the day was left unspecified.
func (d Day) IsZero() bool {
	return d == ""
}

// Valid reports whether d is a well-formed calendar date.
func (d Day) Valid() bool {
	_, err := time.Parse(DayLayout, string(d))
	return err == nil
}

// Time returns midnight UTC of the day.
func (d Day) Time() (time.Time, error) {
	return time.Parse(DayLayout, string(d))
}

func (d Day) String() string {
	return string(d)
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (d *Day) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		*d = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("Day: expected string: %w", err)
	}
	parsed, err := ParseDay(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
