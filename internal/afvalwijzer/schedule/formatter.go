package schedule

import (
	"errors"
	"time"

	"github.com/ncruces/go-strftime"

	"github.com/afvalwijzer/pkg/afvalwijzer/models"
)

const (
	DefaultDateFormat = "%d-%m-%Y"

	// Collections at least this many days ahead are shown as a plain date.
	plainDateThreshold = 8
)

// FormattingConfig controls how a resolved collection is rendered.
// DateFormat is a strftime pattern.
type FormattingConfig struct {
	DateFormat string
	DateOnly   bool
}

type Formatter struct {
	Config FormattingConfig
}

func NewFormatter(cfg FormattingConfig) Formatter {
	if cfg.DateFormat == "" {
		cfg.DateFormat = DefaultDateFormat
	}
	return Formatter{Config: cfg}
}

func (f Formatter) Validate() error {
	if f.Config.DateFormat == "" {
		return errors.New("date format cannot be empty")
	}
	return nil
}

// Format renders date relative to the calendar day of now. The bool is false
// when there is nothing to show: no date was resolved or it lies in the past.
func (f Formatter) Format(date models.CalendarDate, ok bool, now time.Time) (string, bool) {
	if !ok {
		return "", false
	}

	daysAhead := DaysAhead(date, now)
	if daysAhead < 0 {
		return "", false
	}

	formatted := strftime.Format(f.Config.DateFormat, date.Time(now.Location()))
	if f.Config.DateOnly {
		return formatted, true
	}

	switch {
	case daysAhead >= plainDateThreshold:
		return formatted, true
	case daysAhead > 1:
		return date.Time(now.Location()).Weekday().String() + ", " + formatted, true
	case daysAhead == 1:
		return "Tomorrow, " + formatted, true
	default:
		return "Today, " + formatted, true
	}
}

// DaysAhead counts calendar days from the day of now to date. A collection
// today is 0 days ahead and one tomorrow is 1.
func DaysAhead(date models.CalendarDate, now time.Time) int {
	return date.DaysSince(models.DateOf(now))
}
