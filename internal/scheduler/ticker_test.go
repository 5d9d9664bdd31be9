package scheduler_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/reconova/reconova/internal/database/models"
	"github.com/reconova/reconova/internal/scheduler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type memorySource struct {
	schedules []models.ScheduledScan
}

func (m *memorySource) ActiveSchedules(ctx context.Context, fromMinute, toMinute int) ([]models.ScheduledScan, error) {
	var out []models.ScheduledScan
	for _, s := range m.schedules {
		if s.IsEnabled && s.TimeOfDay >= fromMinute && s.TimeOfDay <= toMinute {
			out = append(out, s)
		}
	}
	return out, nil
}

type firing struct {
	userID uuid.UUID
	target string
	tool   string
}

type recordingTrigger struct {
	mu      sync.Mutex
	firings []firing
}

func (r *recordingTrigger) TriggerScan(ctx context.Context, userID uuid.UUID, target, tool string, taskID uuid.UUID) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.firings = append(r.firings, firing{userID: userID, target: target, tool: tool})
	return uuid.NewString(), nil
}

func (r *recordingTrigger) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.firings)
}

func schedule(timeOfDay int, tools ...string) models.ScheduledScan {
	st := make([]models.ScheduledTool, 0, len(tools))
	for _, name := range tools {
		st = append(st, models.ScheduledTool{ToolName: name})
	}
	return models.ScheduledScan{
		Base:      models.Base{ID: uuid.New()},
		UserID:    uuid.New(),
		Name:      "nightly",
		Target:    "example.com",
		TimeOfDay: timeOfDay,
		IsEnabled: true,
		Tools:     st,
	}
}

func at(hour, minute, second int) time.Time {
	return time.Date(2026, 3, 14, hour, minute, second, 0, time.UTC)
}

func TestTicker_Tick(t *testing.T) {
	ctx := context.Background()

	t.Run("fires one scan per tool at the scheduled minute", func(t *testing.T) {
		source := &memorySource{schedules: []models.ScheduledScan{
			schedule(10*60+30, "nmap", "httpx"),
		}}
		trigger := &recordingTrigger{}
		ticker := scheduler.NewTicker(source, trigger, time.Minute, discardLogger())

		ticker.Tick(ctx, at(10, 30, 0))

		require.Equal(t, 2, trigger.count())
		assert.Equal(t, "nmap", trigger.firings[0].tool)
		assert.Equal(t, "httpx", trigger.firings[1].tool)
		assert.Equal(t, "example.com", trigger.firings[0].target)
	})

	t.Run("does not fire outside the minute window", func(t *testing.T) {
		source := &memorySource{schedules: []models.ScheduledScan{
			schedule(10*60+30, "nmap"),
		}}
		trigger := &recordingTrigger{}
		ticker := scheduler.NewTicker(source, trigger, time.Minute, discardLogger())

		// Exactly 60 seconds away on both sides; the boundary is exclusive
		ticker.Tick(ctx, at(10, 29, 0))
		ticker.Tick(ctx, at(10, 31, 0))

		assert.Zero(t, trigger.count())
	})

	t.Run("fires at most once per schedule per minute", func(t *testing.T) {
		source := &memorySource{schedules: []models.ScheduledScan{
			schedule(10*60+30, "nmap"),
		}}
		trigger := &recordingTrigger{}
		ticker := scheduler.NewTicker(source, trigger, time.Minute, discardLogger())

		// A drifted tick can observe the same scheduled minute twice
		ticker.Tick(ctx, at(10, 29, 59))
		ticker.Tick(ctx, at(10, 30, 58))

		assert.Equal(t, 1, trigger.count())
	})

	t.Run("skips schedules without tools", func(t *testing.T) {
		source := &memorySource{schedules: []models.ScheduledScan{
			schedule(10 * 60),
		}}
		trigger := &recordingTrigger{}
		ticker := scheduler.NewTicker(source, trigger, time.Minute, discardLogger())

		ticker.Tick(ctx, at(10, 0, 0))

		assert.Zero(t, trigger.count())
	})

	t.Run("disabled schedules never fire", func(t *testing.T) {
		s := schedule(10*60, "nmap")
		s.IsEnabled = false
		source := &memorySource{schedules: []models.ScheduledScan{s}}
		trigger := &recordingTrigger{}
		ticker := scheduler.NewTicker(source, trigger, time.Minute, discardLogger())

		ticker.Tick(ctx, at(10, 0, 0))

		assert.Zero(t, trigger.count())
	})

	t.Run("a schedule fires exactly once over a day of ticks", func(t *testing.T) {
		source := &memorySource{schedules: []models.ScheduledScan{
			schedule(14*60+45, "nmap", "nuclei"),
		}}
		trigger := &recordingTrigger{}
		ticker := scheduler.NewTicker(source, trigger, time.Minute, discardLogger())

		// Simulate a full day of 60s ticks with a fixed 30s phase offset
		now := at(0, 0, 30)
		for i := 0; i < 24*60; i++ {
			ticker.Tick(ctx, now)
			now = now.Add(time.Minute)
		}

		assert.Equal(t, 2, trigger.count())
	})

	t.Run("midnight schedule fires", func(t *testing.T) {
		source := &memorySource{schedules: []models.ScheduledScan{
			schedule(0, "nmap"),
		}}
		trigger := &recordingTrigger{}
		ticker := scheduler.NewTicker(source, trigger, time.Minute, discardLogger())

		ticker.Tick(ctx, at(0, 0, 30))

		assert.Equal(t, 1, trigger.count())
	})
}
