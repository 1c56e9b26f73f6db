package sensor

import (
	"context"
	"sync"
	"time"

	"github.com/ncruces/go-strftime"

	"github.com/afvalwijzer/internal/afvalwijzer/schedule"
	"github.com/afvalwijzer/internal/afvalwijzer/scraper"
	"github.com/afvalwijzer/internal/common/logger"
	"github.com/afvalwijzer/pkg/afvalwijzer/models"
)

const (
	namePrefix       = "Afvalwijzer "
	lastUpdateFormat = "%d-%m-%Y %H:%M"

	AttrLastUpdate = "Last update"
	AttrHidden     = "Hidden"
)

// Sensor exposes the next collection of one category.
type Sensor struct {
	category  Category
	source    scraper.SnapshotSource
	resolver  schedule.Resolver
	formatter schedule.Formatter
	logger    logger.Logger
	now       func() time.Time

	mu    sync.RWMutex
	state models.SensorState
}

func New(
	category Category,
	source scraper.SnapshotSource,
	resolver schedule.Resolver,
	formatter schedule.Formatter,
	log logger.Logger,
) *Sensor {
	s := &Sensor{
		category:  category,
		source:    source,
		resolver:  resolver,
		formatter: formatter,
		logger:    log.With("sensor", category.Key),
		now:       time.Now,
	}
	s.state = s.baseState()
	return s
}

// WithClock replaces the time source.
func (s *Sensor) WithClock(now func() time.Time) *Sensor {
	s.now = now
	return s
}

func (s *Sensor) Key() string { return s.category.Key }

func (s *Sensor) Name() string { return namePrefix + s.category.Label }

// Update refreshes the shared snapshot, subject to its minimum interval, and
// recomputes the state against the current time.
func (s *Sensor) Update(ctx context.Context) models.SensorState {
	snapshot := s.source.Refresh(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = s.evaluate(snapshot, s.now(), s.state.LastUpdate)

	s.logger.Debug("Sensor updated",
		"state", s.state.State,
		"available", s.state.Available,
		"hidden", s.state.Hidden)

	return s.state
}

// State returns the result of the last Update.
func (s *Sensor) State() models.SensorState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Attributes returns the extra state attributes shown next to the value.
func (s *Sensor) Attributes() map[string]interface{} {
	st := s.State()

	var lastUpdate interface{}
	if !st.LastUpdate.IsZero() {
		lastUpdate = strftime.Format(lastUpdateFormat, st.LastUpdate)
	}

	return map[string]interface{}{
		AttrLastUpdate: lastUpdate,
		AttrHidden:     st.Hidden,
	}
}

// evaluate derives the state from a snapshot. A nil snapshot, a missing
// category or a missing upcoming date all leave the sensor unavailable.
func (s *Sensor) evaluate(snapshot *models.Snapshot, now time.Time, lastUpdate time.Time) models.SensorState {
	st := s.baseState()
	st.LastUpdate = lastUpdate

	if snapshot == nil {
		return st
	}

	dates, ok := snapshot.Dates(s.category.Label)
	if !ok {
		st.Hidden = true
		return st
	}

	next, found := s.resolver.Next(dates, now)
	value, ok := s.formatter.Format(next, found, now)
	if !ok {
		return st
	}

	st.State = value
	st.Available = true
	st.LastUpdate = now
	return st
}

func (s *Sensor) baseState() models.SensorState {
	return models.SensorState{
		Key:  s.category.Key,
		Name: s.Name(),
		Icon: s.category.Icon,
		Unit: s.category.Unit,
	}
}
