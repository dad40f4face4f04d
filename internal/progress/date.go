package progress

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Older snapshots stored dates the way a browser prints them.
var legacyDateLayouts = []string{
	"Mon Jan 02 2006",
	"Mon Jan 2 2006",
	"1/2/2006",
}

// Date is a calendar day with no time-of-day or zone attached.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the calendar day of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate accepts YYYY-MM-DD as well as the legacy layouts.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(dateLayout, s); err == nil {
		return DateOf(t), nil
	}
	for _, layout := range legacyDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return DateOf(t), nil
		}
	}
	return Date{}, fmt.Errorf("parse date %q: unrecognized layout", s)
}

func (d Date) IsZero() bool {
	return d == Date{}
}

// midnight pins the day to UTC so day arithmetic never sees DST shifts.
func (d Date) midnight() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func (d Date) Equal(o Date) bool {
	return d.midnight().Equal(o.midnight())
}

func (d Date) Before(o Date) bool {
	return d.midnight().Before(o.midnight())
}

// AddDays returns the date n days later (or earlier for negative n).
func (d Date) AddDays(n int) Date {
	return DateOf(d.midnight().AddDate(0, 0, n))
}

// DaysBetween is the absolute number of whole days separating a and b.
func DaysBetween(a, b Date) int {
	diff := a.midnight().Sub(b.midnight())
	if diff < 0 {
		diff = -diff
	}
	return int(diff / (24 * time.Hour))
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.midnight().Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalYAML keeps exports readable.
func (d Date) MarshalYAML() (interface{}, error) {
	return d.String(), nil
}
