// Package dbtime holds the day/slot conventions used by every store: dates
// are persisted as "YYYY-MM-DD" strings and slots as "HH:MM", both read in
// the pool's timezone.
package dbtime

import (
	"fmt"
	"strings"
	"time"
)

const (
	DateLayout = "2006-01-02"
	SlotLayout = "15:04"
)

// Clock answers "what day is it at the pool". Now is swappable for tests.
type Clock struct {
	Loc *time.Location
	Now func() time.Time
}

func NewClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.UTC
	}
	return Clock{Loc: loc, Now: time.Now}
}

// FixedClock always reports t. Used by tests and the seeder.
func FixedClock(t time.Time) Clock {
	return Clock{Loc: t.Location(), Now: func() time.Time { return t }}
}

func (c Clock) NowInPool() time.Time {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	loc := c.Loc
	if loc == nil {
		loc = time.UTC
	}
	return now().In(loc)
}

func (c Clock) Today() string { return c.NowInPool().Format(DateLayout) }

// SlotPassed reports whether the slot on date has already started.
func (c Clock) SlotPassed(date, slot string) bool {
	now := c.NowInPool()
	start, err := time.ParseInLocation(DateLayout+" "+SlotLayout, date+" "+slot, now.Location())
	if err != nil {
		return false
	}
	return !start.After(now)
}

// ParseDate validates and normalizes a calendar date.
func ParseDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("date is required")
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return "", fmt.Errorf("date %q must be YYYY-MM-DD", s)
	}
	return t.Format(DateLayout), nil
}

// ParseSlot validates and normalizes a slot start ("9:00" becomes "09:00").
func ParseSlot(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("slot is required")
	}
	t, err := time.Parse(SlotLayout, s)
	if err != nil {
		return "", fmt.Errorf("slot %q must be HH:MM", s)
	}
	return t.Format(SlotLayout), nil
}

// DayOfWeek returns the English weekday name of a normalized date.
func DayOfWeek(date string) string {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return ""
	}
	return t.Weekday().String()
}

// DaysBetween counts the days from..to inclusive without listing them.
// It is 0 when either date is malformed or to is before from. Unix seconds
// are used because time.Duration saturates past ~292 years.
func DaysBetween(from, to string) int {
	start, err1 := time.Parse(DateLayout, from)
	end, err2 := time.Parse(DateLayout, to)
	if err1 != nil || err2 != nil || end.Before(start) {
		return 0
	}
	return int((end.Unix()-start.Unix())/86400) + 1
}

// DatesBetween lists every date from..to inclusive. Both must be normalized.
// Callers bound the span with DaysBetween first.
func DatesBetween(from, to string) []string {
	n := DaysBetween(from, to)
	if n == 0 {
		return nil
	}
	start, _ := time.Parse(DateLayout, from)
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, start.AddDate(0, 0, i).Format(DateLayout))
	}
	return out
}

// AddDays shifts a normalized date by n days.
func AddDays(date string, n int) string {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return date
	}
	return t.AddDate(0, 0, n).Format(DateLayout)
}
