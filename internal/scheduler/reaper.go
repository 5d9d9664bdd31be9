package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/reconova/reconova/internal/database/models"
	"github.com/reconova/reconova/pkg/util"
	"github.com/robfig/cron/v3"
)

// UserPlanStore provides the reaper's view of subscription state.
type UserPlanStore interface {
	ExpiredPlanUsers(ctx context.Context, now time.Time) ([]models.User, error)
	SaveUsers(ctx context.Context, users []models.User) error
}

// Reaper periodically downgrades users whose plan end date has passed.
// Plans with the non-expiring duration sentinel are never touched.
type Reaper struct {
	store    UserPlanStore
	schedule cron.Schedule
	logger   *slog.Logger
	now      func() time.Time
}

func NewReaper(store UserPlanStore, cronExpr string, logger *slog.Logger) (*Reaper, error) {
	schedule, err := util.ParseCronSchedule(cronExpr)
	if err != nil {
		return nil, fmt.Errorf("parsing reaper schedule: %w", err)
	}
	return &Reaper{
		store:    store,
		schedule: schedule,
		logger:   logger,
		now:      time.Now,
	}, nil
}

// Run loops until ctx is cancelled. Errors in one cycle are logged and
// the loop carries on with the next one.
func (r *Reaper) Run(ctx context.Context) {
	r.logger.Info("plan expiry reaper started")

	for {
		if err := r.Reap(ctx, r.now()); err != nil {
			r.logger.Error("plan expiry check failed", "error", err)
		}

		next := r.schedule.Next(r.now())
		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			r.logger.Info("plan expiry reaper stopped")
			return
		case <-timer.C:
		}
	}
}

// Reap downgrades every user with an expired plan in one batch: plan
// cleared, plan and report privileges revoked, start/end dates reset.
func (r *Reaper) Reap(ctx context.Context, now time.Time) error {
	now = now.UTC()

	users, err := r.store.ExpiredPlanUsers(ctx, now)
	if err != nil {
		return err
	}
	if len(users) == 0 {
		return nil
	}

	for i := range users {
		users[i].PlanID = nil
		users[i].IsPlanActive = false
		users[i].CanGenerateReport = false
		users[i].PlanStartedAt = now.Unix()
		users[i].PlanEndsAt = now.Unix()
		r.logger.Info("plan expired", "user_id", users[i].ID, "email", users[i].Email)
	}

	if err := r.store.SaveUsers(ctx, users); err != nil {
		return fmt.Errorf("saving downgraded users: %w", err)
	}

	r.logger.Info("plan expiry cycle finished", "downgraded", len(users))
	return nil
}
