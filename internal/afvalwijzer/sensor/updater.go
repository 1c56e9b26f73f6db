package sensor

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/afvalwijzer/internal/common/logger"
	"github.com/afvalwijzer/pkg/afvalwijzer/models"
)

// Day-relative wording changes at midnight regardless of the update schedule.
const midnightSpec = "@midnight"

// StatePublisher receives every sensor state after an update.
type StatePublisher interface {
	PublishState(ctx context.Context, state models.SensorState) error
}

// Updater updates all sensors on a cron schedule.
type Updater struct {
	spec      string
	sensors   []*Sensor
	publisher StatePublisher
	logger    logger.Logger

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
}

func NewUpdater(spec string, sensors []*Sensor, logger logger.Logger) *Updater {
	return &Updater{
		spec:    spec,
		sensors: sensors,
		logger:  logger,
	}
}

func (u *Updater) WithPublisher(p StatePublisher) *Updater {
	u.publisher = p
	return u
}

// UpdateAll updates every sensor in order and publishes the results.
func (u *Updater) UpdateAll(ctx context.Context) []models.SensorState {
	states := make([]models.SensorState, 0, len(u.sensors))
	for _, s := range u.sensors {
		st := s.Update(ctx)
		states = append(states, st)

		if u.publisher == nil {
			continue
		}
		if err := u.publisher.PublishState(ctx, st); err != nil {
			u.logger.Warn("Failed to publish sensor state", "sensor", st.Key, "error", err)
		}
	}
	return states
}

// Start runs an initial update and then follows the schedule until ctx is
// cancelled or Stop is called.
func (u *Updater) Start(ctx context.Context) error {
	u.mu.Lock()
	if u.running {
		u.mu.Unlock()
		return fmt.Errorf("updater already running")
	}

	ctx, cancel := context.WithCancel(ctx)
	u.cancel = cancel
	u.running = true
	u.mu.Unlock()

	defer func() {
		u.mu.Lock()
		u.running = false
		u.mu.Unlock()
	}()

	cl := cronLogger{u.logger}
	c := cron.New(
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)

	job := cron.FuncJob(func() { u.UpdateAll(ctx) })
	if _, err := c.AddJob(u.spec, job); err != nil {
		cancel()
		return fmt.Errorf("scheduling updates %q: %w", u.spec, err)
	}
	if _, err := c.AddJob(midnightSpec, job); err != nil {
		cancel()
		return fmt.Errorf("scheduling midnight update: %w", err)
	}

	u.logger.Info("Starting sensor updater", "schedule", u.spec, "sensors", len(u.sensors))

	u.UpdateAll(ctx)

	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()

	u.logger.Info("Sensor updater stopped")
	return nil
}

func (u *Updater) Stop() error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if !u.running {
		return fmt.Errorf("updater not running")
	}

	if u.cancel != nil {
		u.cancel()
	}
	return nil
}

// cronLogger routes cron's logging through the service logger.
type cronLogger struct {
	l logger.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Debug("cron: "+msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Error("cron: "+msg, append([]interface{}{"error", err}, keysAndValues...)...)
}
