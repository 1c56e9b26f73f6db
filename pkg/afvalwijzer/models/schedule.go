package models

import (
	"sort"
	"time"
)

// CollectionSchedule maps a waste category label, as printed in the first
// column of the municipal table, to its collection dates. Dates are neither
// sorted nor deduplicated.
type CollectionSchedule map[string][]CalendarDate

// Categories returns the category labels in alphabetical order.
func (s CollectionSchedule) Categories() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Snapshot is the result of one successful fetch and parse cycle.
type Snapshot struct {
	CycleID   string
	Year      int
	Schedule  CollectionSchedule
	FetchedAt time.Time
}

// Dates returns the dates for a category and whether the category is present.
// A nil snapshot means no data and reports every category as absent.
func (s *Snapshot) Dates(category string) ([]CalendarDate, bool) {
	if s == nil || s.Schedule == nil {
		return nil, false
	}
	dates, ok := s.Schedule[category]
	return dates, ok
}

// FetchOutcome classifies a refresh attempt for the fetch log.
type FetchOutcome string

const (
	OutcomeSuccess       FetchOutcome = "success"
	OutcomeTransportFail FetchOutcome = "transport_failure"
	OutcomeBadResponse   FetchOutcome = "bad_response"
	OutcomeNoData        FetchOutcome = "no_data"
)

// FetchRecord describes one refresh attempt that reached the network.
type FetchRecord struct {
	CycleID    string
	FetchedAt  time.Time
	Year       int
	Outcome    FetchOutcome
	Categories int
	Error      string
}
