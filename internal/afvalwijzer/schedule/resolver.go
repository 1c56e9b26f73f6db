package schedule

import (
	"fmt"
	"strings"
	"time"

	"github.com/afvalwijzer/pkg/afvalwijzer/models"
)

// BoundaryRule decides whether a collection today still counts as upcoming.
type BoundaryRule int

const (
	// BoundaryInclusive accepts every date on or after the calendar day of
	// now, so today qualifies at any time of day.
	BoundaryInclusive BoundaryRule = iota
	// BoundaryStrict accepts only dates whose midnight lies after now. Today
	// stops qualifying as soon as the day has started.
	BoundaryStrict
)

func (b BoundaryRule) String() string {
	switch b {
	case BoundaryInclusive:
		return "inclusive"
	case BoundaryStrict:
		return "strict"
	default:
		return fmt.Sprintf("BoundaryRule(%d)", int(b))
	}
}

// ParseBoundaryRule maps a configuration value to a rule.
func ParseBoundaryRule(s string) (BoundaryRule, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "inclusive":
		return BoundaryInclusive, nil
	case "strict":
		return BoundaryStrict, nil
	default:
		return 0, fmt.Errorf("unknown boundary rule %q", s)
	}
}

type Resolver struct {
	Boundary BoundaryRule
}

func NewResolver(boundary BoundaryRule) Resolver {
	return Resolver{Boundary: boundary}
}

// Next returns the earliest date in dates that qualifies as upcoming at now.
// The input may be unsorted and contain duplicates or past dates. The bool
// is false when no date qualifies.
func (r Resolver) Next(dates []models.CalendarDate, now time.Time) (models.CalendarDate, bool) {
	var next models.CalendarDate
	found := false

	for _, d := range dates {
		if !r.qualifies(d, now) {
			continue
		}
		if !found || d.Before(next) {
			next = d
			found = true
		}
	}

	return next, found
}

func (r Resolver) qualifies(d models.CalendarDate, now time.Time) bool {
	if r.Boundary == BoundaryStrict {
		return d.Time(now.Location()).After(now)
	}
	return !d.Before(models.DateOf(now))
}
