package sensor

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/afvalwijzer/internal/afvalwijzer/schedule"
	"github.com/afvalwijzer/internal/common/logger"
	"github.com/afvalwijzer/pkg/afvalwijzer/models"
)

type memoryPublisher struct {
	mu     sync.Mutex
	states []models.SensorState
	err    error
}

func (p *memoryPublisher) PublishState(_ context.Context, st models.SensorState) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.states = append(p.states, st)
	return p.err
}

func (p *memoryPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.states)
}

func testSensors(now time.Time, src *staticSource) []*Sensor {
	return []*Sensor{
		newTestSensor("restafval", src, schedule.BoundaryInclusive, schedule.FormattingConfig{}, now),
		newTestSensor("papier", src, schedule.BoundaryInclusive, schedule.FormattingConfig{}, now),
	}
}

func TestUpdaterUpdateAll(t *testing.T) {
	now := time.Date(2024, time.March, 10, 8, 0, 0, 0, time.UTC)
	pub := &memoryPublisher{}
	u := NewUpdater("@every 1h", testSensors(now, &staticSource{snapshot: testSnapshot()}), logger.New(io.Discard)).
		WithPublisher(pub)

	states := u.UpdateAll(context.Background())
	require.Len(t, states, 2)
	assert.Equal(t, "restafval", states[0].Key)
	assert.Equal(t, "papier", states[1].Key)
	assert.Equal(t, states, pub.states)
}

func TestUpdaterPublishErrorsDoNotStopUpdates(t *testing.T) {
	now := time.Date(2024, time.March, 10, 8, 0, 0, 0, time.UTC)
	pub := &memoryPublisher{err: errors.New("connection reset")}
	u := NewUpdater("@every 1h", testSensors(now, &staticSource{snapshot: testSnapshot()}), logger.New(io.Discard)).
		WithPublisher(pub)

	assert.Len(t, u.UpdateAll(context.Background()), 2)
	assert.Equal(t, 2, pub.count())
}

func TestUpdaterStartRunsInitialUpdate(t *testing.T) {
	now := time.Date(2024, time.March, 10, 8, 0, 0, 0, time.UTC)
	pub := &memoryPublisher{}
	u := NewUpdater("@every 1h", testSensors(now, &staticSource{snapshot: testSnapshot()}), logger.New(io.Discard)).
		WithPublisher(pub)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- u.Start(ctx) }()

	require.Eventually(t, func() bool { return pub.count() == 2 }, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("updater did not stop")
	}
}

func TestUpdaterStop(t *testing.T) {
	u := NewUpdater("@every 1h", nil, logger.New(io.Discard))
	assert.Error(t, u.Stop())

	done := make(chan error, 1)
	go func() { done <- u.Start(context.Background()) }()

	require.Eventually(t, func() bool { return u.Stop() == nil }, time.Second, 10*time.Millisecond)
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("updater did not stop")
	}
}

func TestUpdaterInvalidSchedule(t *testing.T) {
	u := NewUpdater("whenever", nil, logger.New(io.Discard))
	assert.Error(t, u.Start(context.Background()))
}
