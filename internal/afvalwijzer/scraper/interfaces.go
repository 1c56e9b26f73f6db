package scraper

import (
	"context"

	"github.com/afvalwijzer/pkg/afvalwijzer/models"
)

// PageFetcher retrieves the raw collection page for an address and year.
type PageFetcher interface {
	FetchPage(ctx context.Context, postcode, streetNumber string, year int) (string, error)
}

// ScheduleParser turns a fetched page into a schedule for year.
type ScheduleParser interface {
	Parse(page string, year int) (models.CollectionSchedule, error)
}

// FetchRecorder receives one record per refresh attempt that ran.
type FetchRecorder interface {
	RecordFetch(ctx context.Context, record models.FetchRecord) error
}

// SnapshotSource is the read side of the refresher used by sensors.
type SnapshotSource interface {
	Refresh(ctx context.Context) *models.Snapshot
	Snapshot() *models.Snapshot
}
