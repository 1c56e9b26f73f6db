package scraper

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/afvalwijzer/internal/afvalwijzer/parser"
	"github.com/afvalwijzer/internal/common/logger"
	"github.com/afvalwijzer/pkg/afvalwijzer/models"
)

type Config struct {
	Postcode     string
	StreetNumber string
	MinInterval  time.Duration
}

// Refresher fetches and parses the collection page for one address at most
// once per MinInterval and publishes the result as an immutable snapshot.
type Refresher struct {
	config   Config
	fetcher  PageFetcher
	parser   ScheduleParser
	recorder FetchRecorder
	logger   logger.Logger
	now      func() time.Time

	mu          sync.Mutex
	lastAttempt time.Time

	snapshot atomic.Pointer[models.Snapshot]
}

func NewRefresher(
	config Config,
	fetcher PageFetcher,
	parser ScheduleParser,
	logger logger.Logger,
) *Refresher {
	return &Refresher{
		config:  config,
		fetcher: fetcher,
		parser:  parser,
		logger:  logger,
		now:     time.Now,
	}
}

// WithRecorder reports every refresh attempt that ran to rec.
func (r *Refresher) WithRecorder(rec FetchRecorder) *Refresher {
	r.recorder = rec
	return r
}

// WithClock replaces the time source.
func (r *Refresher) WithClock(now func() time.Time) *Refresher {
	r.now = now
	return r
}

// Snapshot returns the current snapshot without fetching. Nil means no data.
func (r *Refresher) Snapshot() *models.Snapshot {
	return r.snapshot.Load()
}

// Refresh fetches a new snapshot unless the last attempt, successful or not,
// happened less than MinInterval ago. Within that window the cached snapshot
// is returned unchanged. A failed attempt discards the previous snapshot.
func (r *Refresher) Refresh(ctx context.Context) *models.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if !r.lastAttempt.IsZero() && now.Sub(r.lastAttempt) < r.config.MinInterval {
		r.logger.Debug("Refresh skipped, minimum interval not elapsed",
			"last_attempt", r.lastAttempt,
			"min_interval", r.config.MinInterval)
		return r.snapshot.Load()
	}
	r.lastAttempt = now

	snapshot, record := r.fetch(ctx, now)
	r.snapshot.Store(snapshot)

	if r.recorder != nil {
		if err := r.recorder.RecordFetch(ctx, record); err != nil {
			r.logger.Warn("Failed to record fetch", "cycle_id", record.CycleID, "error", err)
		}
	}

	return snapshot
}

func (r *Refresher) fetch(ctx context.Context, now time.Time) (*models.Snapshot, models.FetchRecord) {
	year := now.Year()
	record := models.FetchRecord{
		CycleID:   uuid.NewString(),
		FetchedAt: now,
		Year:      year,
	}

	r.logger.Debug("Updating waste collection dates",
		"cycle_id", record.CycleID,
		"postcode", r.config.Postcode,
		"street_number", r.config.StreetNumber,
		"year", year)

	page, err := r.fetcher.FetchPage(ctx, r.config.Postcode, r.config.StreetNumber, year)
	if err != nil {
		record.Error = err.Error()
		if errors.Is(err, ErrBadResponse) {
			record.Outcome = models.OutcomeBadResponse
			r.logger.Error("Collection page rejected", "cycle_id", record.CycleID, "error", err)
		} else {
			record.Outcome = models.OutcomeTransportFail
			r.logger.Error("Error occurred while fetching data", "cycle_id", record.CycleID, "error", err)
		}
		return nil, record
	}

	schedule, err := r.parser.Parse(page, year)
	if err != nil {
		record.Error = err.Error()
		record.Outcome = models.OutcomeNoData
		if errors.Is(err, parser.ErrNoData) {
			r.logger.Error("No collection table found, probably the postcode or street number is incorrect",
				"cycle_id", record.CycleID,
				"postcode", r.config.Postcode,
				"street_number", r.config.StreetNumber)
		} else {
			r.logger.Error("Failed to parse collection page", "cycle_id", record.CycleID, "error", err)
		}
		return nil, record
	}

	record.Outcome = models.OutcomeSuccess
	record.Categories = len(schedule)

	r.logger.Info("Collection schedule updated",
		"cycle_id", record.CycleID,
		"year", year,
		"categories", len(schedule))

	return &models.Snapshot{
		CycleID:   record.CycleID,
		Year:      year,
		Schedule:  schedule,
		FetchedAt: now,
	}, record
}
