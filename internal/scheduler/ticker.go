package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/reconova/reconova/internal/database/models"
)

// ScheduleSource provides the enabled schedules whose time of day falls
// in the given minute range.
type ScheduleSource interface {
	ActiveSchedules(ctx context.Context, fromMinute, toMinute int) ([]models.ScheduledScan, error)
}

// ScanTrigger fires one scan for one (user, target, tool, task) tuple.
type ScanTrigger interface {
	TriggerScan(ctx context.Context, userID uuid.UUID, target, tool string, taskID uuid.UUID) (string, error)
}

// Ticker evaluates recurring scan schedules against wall-clock time once
// per tick and triggers one scan per (schedule, tool) pair whose time of
// day matches the current minute.
type Ticker struct {
	schedules ScheduleSource
	trigger   ScanTrigger
	interval  time.Duration
	logger    *slog.Logger
	now       func() time.Time

	// lastFired maps schedule id to the unix timestamp of the minute it
	// last fired for. The match window is ±1 minute while the tick is
	// 60s, so a drifted tick could otherwise see the same schedule
	// twice; this pins firing to at most once per schedule per calendar
	// minute.
	lastFired map[uuid.UUID]int64
}

func NewTicker(schedules ScheduleSource, trigger ScanTrigger, interval time.Duration, logger *slog.Logger) *Ticker {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Ticker{
		schedules: schedules,
		trigger:   trigger,
		interval:  interval,
		logger:    logger,
		now:       time.Now,
		lastFired: make(map[uuid.UUID]int64),
	}
}

// Run loops until ctx is cancelled, ticking once per interval. Shutdown
// latency is bounded by one interval.
func (t *Ticker) Run(ctx context.Context) {
	t.logger.Info("schedule ticker started", "interval", t.interval.String())

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		t.Tick(ctx, t.now())

		select {
		case <-ctx.Done():
			t.logger.Info("schedule ticker stopped")
			return
		case <-ticker.C:
		}
	}
}

// Tick evaluates all schedules against now. Failures are isolated: a
// broken schedule or tool never blocks its siblings.
func (t *Ticker) Tick(ctx context.Context, now time.Time) {
	now = now.UTC()
	minuteOfDay := now.Hour()*60 + now.Minute()
	secondOfDay := minuteOfDay*60 + now.Second()

	from, to := minuteOfDay-1, minuteOfDay+1
	if from < 0 {
		from = 0
	}
	if to > 23*60+59 {
		to = 23*60 + 59
	}

	candidates, err := t.schedules.ActiveSchedules(ctx, from, to)
	if err != nil {
		t.logger.Error("loading schedules failed", "error", err)
		return
	}

	midnight := now.Add(-time.Duration(secondOfDay) * time.Second).Unix()

	for _, schedule := range candidates {
		// Refine the coarse minute-range pre-filter: fire only within a
		// strict sub-minute distance of now. The boundary at exactly one
		// minute is exclusive so a schedule cannot fire in two adjacent
		// windows.
		distance := schedule.TimeOfDay*60 - secondOfDay
		if distance < 0 {
			distance = -distance
		}
		if distance >= 60 {
			continue
		}

		if len(schedule.Tools) == 0 {
			continue
		}

		stamp := midnight + int64(schedule.TimeOfDay)*60
		if t.lastFired[schedule.ID] == stamp {
			continue
		}
		t.lastFired[schedule.ID] = stamp

		for _, tool := range schedule.Tools {
			scanID, err := t.trigger.TriggerScan(ctx, schedule.UserID, schedule.Target, tool.ToolName, schedule.TaskID)
			if err != nil {
				t.logger.Error("scheduled scan failed to start",
					"schedule", schedule.Name,
					"tool", tool.ToolName,
					"target", schedule.Target,
					"error", err,
				)
				continue
			}
			t.logger.Info("scheduled scan started",
				"schedule", schedule.Name,
				"tool", tool.ToolName,
				"target", schedule.Target,
				"scan_id", scanID,
			)
		}
	}
}
