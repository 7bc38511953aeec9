// Package timezones holds the calendar policy used for date-scoped queries.
//
// "Today" and "this week" are taken from the wall clock in one configured
// IANA zone. Stored dates are calendar days written as midnight UTC, so they
// are read as UTC calendar days and never shifted into the zone. Both sides
// compare as YYYY-MM-DD. Weeks run Monday through Sunday, both days inclusive.
package timezones

import (
	"fmt"
	"sync"
	"time"
	_ "time/tzdata"
)

// Default is the zone used when none is configured.
const Default = "Asia/Ho_Chi_Minh"

// DayLayout is the calendar-day key layout.
const DayLayout = "2006-01-02"

var (
	cacheMu sync.Mutex
	cache   = map[string]*time.Location{}
)

// Load resolves an IANA zone name, caching the result. An empty name loads
// Default.
func Load(name string) (*time.Location, error) {
	if name == "" {
		name = Default
	}
	cacheMu.Lock()
	defer cacheMu.Unlock()
	if loc, ok := cache[name]; ok {
		return loc, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", name, err)
	}
	cache[name] = loc
	return loc, nil
}

// Valid reports whether name is a loadable zone.
func Valid(name string) bool {
	_, err := Load(name)
	return err == nil
}

// Calendar converts instants into calendar days of one zone.
type Calendar struct {
	loc *time.Location
}

// NewCalendar returns a Calendar for loc. A nil loc means UTC.
func NewCalendar(loc *time.Location) Calendar {
	if loc == nil {
		loc = time.UTC
	}
	return Calendar{loc: loc}
}

// Location returns the calendar's zone.
func (c Calendar) Location() *time.Location {
	return c.loc
}

// DayKey returns the YYYY-MM-DD key of t in the calendar's zone.
func (c Calendar) DayKey(t time.Time) string {
	return t.In(c.loc).Format(DayLayout)
}

// StoredDayKey returns the key for a date stored as a calendar day.
// Stored dates are midnight UTC of the intended day, so they are read in UTC
// rather than shifted into the local zone.
func (c Calendar) StoredDayKey(t time.Time) string {
	return t.UTC().Format(DayLayout)
}

// WeekBounds returns the Monday and Sunday keys of the week containing now.
func (c Calendar) WeekBounds(now time.Time) (monday, sunday string) {
	local := now.In(c.loc)
	// time.Weekday has Sunday = 0; shift so Monday = 0.
	offset := (int(local.Weekday()) + 6) % 7
	start := time.Date(local.Year(), local.Month(), local.Day()-offset, 0, 0, 0, 0, c.loc)
	end := start.AddDate(0, 0, 6)
	return start.Format(DayLayout), end.Format(DayLayout)
}

// InWeek reports whether dayKey falls inside the week containing now.
// Keys compare lexically because they are zero-padded.
func (c Calendar) InWeek(dayKey string, now time.Time) bool {
	monday, sunday := c.WeekBounds(now)
	return dayKey >= monday && dayKey <= sunday
}

// IsToday reports whether dayKey is the current day.
func (c Calendar) IsToday(dayKey string, now time.Time) bool {
	return dayKey == c.DayKey(now)
}

// Display formats a stored calendar day as dd/mm/yyyy.
func Display(t time.Time) string {
	return t.UTC().Format("02/01/2006")
}
