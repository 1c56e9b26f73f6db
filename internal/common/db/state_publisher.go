package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/afvalwijzer/pkg/afvalwijzer/models"
)

const (
	insertFetchQuery = `
		INSERT INTO afvalwijzer.fetch_log (cycle_id, fetched_at, year, outcome, categories, error)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	upsertStateQuery = `
		INSERT INTO afvalwijzer.sensor_states (sensor_key, name, icon, unit, state, available, hidden, last_update, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now())
		ON CONFLICT (sensor_key) DO UPDATE SET
			name = EXCLUDED.name,
			icon = EXCLUDED.icon,
			unit = EXCLUDED.unit,
			state = EXCLUDED.state,
			available = EXCLUDED.available,
			hidden = EXCLUDED.hidden,
			last_update = EXCLUDED.last_update,
			updated_at = now()
	`
)

// StatePublisher writes fetch attempts and sensor states for downstream
// consumers. It never reads them back.
type StatePublisher struct {
	db *DB
}

func NewStatePublisher(db *DB) *StatePublisher {
	return &StatePublisher{db: db}
}

func (p *StatePublisher) RecordFetch(ctx context.Context, record models.FetchRecord) error {
	_, err := p.db.conn.ExecContext(ctx, insertFetchQuery, fetchArgs(record)...)
	if err != nil {
		return fmt.Errorf("inserting fetch record: %w", err)
	}

	p.db.logger.Debug("Recorded fetch",
		"cycle_id", record.CycleID,
		"outcome", record.Outcome)

	return nil
}

func (p *StatePublisher) PublishState(ctx context.Context, state models.SensorState) error {
	_, err := p.db.conn.ExecContext(ctx, upsertStateQuery, stateArgs(state)...)
	if err != nil {
		return fmt.Errorf("upserting sensor state %s: %w", state.Key, err)
	}
	return nil
}

func fetchArgs(r models.FetchRecord) []interface{} {
	return []interface{}{
		r.CycleID,
		r.FetchedAt,
		r.Year,
		string(r.Outcome),
		r.Categories,
		r.Error,
	}
}

func stateArgs(s models.SensorState) []interface{} {
	state := sql.NullString{String: s.State, Valid: s.Available}
	lastUpdate := sql.NullTime{Time: s.LastUpdate, Valid: !s.LastUpdate.IsZero()}
	return []interface{}{
		s.Key,
		s.Name,
		s.Icon,
		s.Unit,
		state,
		s.Available,
		s.Hidden,
		lastUpdate,
	}
}
