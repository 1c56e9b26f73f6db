package models

import (
	"fmt"
	"strings"
	"time"
)

const calendarDateLayout = "2006-01-02"

// CalendarDate is a civic date as published by the municipality. It carries
// no time of day and no timezone.
type CalendarDate struct {
	Year  int
	Month time.Month
	Day   int
}

// NewCalendarDate validates the triple and rejects dates that do not exist,
// such as day 0, day 32 or 30 February.
func NewCalendarDate(year int, month time.Month, day int) (CalendarDate, error) {
	if month < time.January || month > time.December {
		return CalendarDate{}, fmt.Errorf("invalid month %d", month)
	}
	if day < 1 || day > 31 {
		return CalendarDate{}, fmt.Errorf("invalid day %d", day)
	}

	// time.Date normalises overflow, so a changed month means the day does
	// not exist in that month.
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Month() != month {
		return CalendarDate{}, fmt.Errorf("day %d does not exist in %s %d", day, month, year)
	}

	return CalendarDate{Year: year, Month: month, Day: day}, nil
}

// DateOf returns the calendar day of t in t's own location.
func DateOf(t time.Time) CalendarDate {
	y, m, d := t.Date()
	return CalendarDate{Year: y, Month: m, Day: d}
}

// Time returns midnight of the date in loc.
func (d CalendarDate) Time(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

func (d CalendarDate) IsZero() bool {
	return d == CalendarDate{}
}

func (d CalendarDate) Before(other CalendarDate) bool {
	return d.compare(other) < 0
}

func (d CalendarDate) After(other CalendarDate) bool {
	return d.compare(other) > 0
}

func (d CalendarDate) Equal(other CalendarDate) bool {
	return d == other
}

// DaysSince returns the number of whole calendar days from other to d.
// It is negative when d lies before other.
func (d CalendarDate) DaysSince(other CalendarDate) int {
	// UTC has no DST transitions, so every day is exactly 24h.
	diff := d.Time(time.UTC).Sub(other.Time(time.UTC))
	return int(diff.Hours() / 24)
}

func (d CalendarDate) compare(other CalendarDate) int {
	switch {
	case d.Year != other.Year:
		return d.Year - other.Year
	case d.Month != other.Month:
		return int(d.Month) - int(other.Month)
	default:
		return d.Day - other.Day
	}
}

func (d CalendarDate) String() string {
	return d.Time(time.UTC).Format(calendarDateLayout)
}

// UnmarshalJSON accepts "2006-01-02" strings; null and "" leave the zero date.
func (d *CalendarDate) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), "\"")
	if s == "null" || s == "" {
		return nil
	}

	t, err := time.Parse(calendarDateLayout, s)
	if err != nil {
		return fmt.Errorf("unable to parse date %q: %w", s, err)
	}

	*d = DateOf(t)
	return nil
}

// MarshalJSON writes the date as "2006-01-02", or null for the zero date.
func (d CalendarDate) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(fmt.Sprintf("\"%s\"", d.String())), nil
}
