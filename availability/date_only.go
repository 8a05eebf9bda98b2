package availability

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const DATE_ONLY_LAYOUT = "2006-01-02"

// DateOnly is a calendar date with no time-of-day or timezone.
// The zero value is not a valid date; use IsZero to detect it.
type DateOnly struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDateOnly builds a DateOnly, normalizing out-of-range fields the way time.Date does
// (e.g. 2024-02-30 becomes 2024-03-01).
func NewDateOnly(year int, month time.Month, day int) DateOnly {
	return FromTime(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// FromTime takes the UTC calendar fields of t.
func FromTime(t time.Time) DateOnly {
	y, m, d := t.UTC().Date()
	return DateOnly{Year: y, Month: m, Day: d}
}

// ParseDateOnly accepts either a pure date ("2024-06-10") or an RFC 3339 date-time
// ("2024-06-10T00:00:00.000Z"). Date-times are converted to UTC before the calendar
// fields are read.
func ParseDateOnly(s string) (DateOnly, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DateOnly{}, fmt.Errorf("empty date")
	}
	if len(s) == len(DATE_ONLY_LAYOUT) {
		t, err := time.Parse(DATE_ONLY_LAYOUT, s)
		if err != nil {
			return DateOnly{}, fmt.Errorf("invalid date %q: %w", s, err)
		}
		return FromTime(t), nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return DateOnly{}, fmt.Errorf("invalid date-time %q: %w", s, err)
	}
	return FromTime(t), nil
}

// MustParseDateOnly is ParseDateOnly for literals known to be valid.
func MustParseDateOnly(s string) DateOnly {
	d, err := ParseDateOnly(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (d DateOnly) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// AddDays uses calendar arithmetic, never fixed 24h increments.
func (d DateOnly) AddDays(n int) DateOnly {
	return FromTime(time.Date(d.Year, d.Month, d.Day+n, 0, 0, 0, 0, time.UTC))
}

// DaysUntil returns the number of calendar days from d to other (negative if other is earlier).
func (d DateOnly) DaysUntil(other DateOnly) int {
	return int(other.Time().Sub(d.Time()).Hours() / 24)
}

func (d DateOnly) Compare(other DateOnly) int {
	switch {
	case d.Year != other.Year:
		return cmpInt(d.Year, other.Year)
	case d.Month != other.Month:
		return cmpInt(int(d.Month), int(other.Month))
	default:
		return cmpInt(d.Day, other.Day)
	}
}

func (d DateOnly) Before(other DateOnly) bool { return d.Compare(other) < 0 }
func (d DateOnly) After(other DateOnly) bool  { return d.Compare(other) > 0 }
func (d DateOnly) IsZero() bool               { return d == DateOnly{} }

func (d DateOnly) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

func (d DateOnly) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *DateOnly) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDateOnly(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
