package scan

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// QuotaGuard decides whether a user may run another scan today, based on
// the active plan's daily limit and the scans already recorded for the
// current UTC date.
type QuotaGuard struct {
	store *Store
}

func NewQuotaGuard(store *Store) *QuotaGuard {
	return &QuotaGuard{store: store}
}

// CanScanToday returns true iff the user has an active plan with quota
// left for today. A plan with MaxScansPerDay == 0 never allows scanning.
func (g *QuotaGuard) CanScanToday(ctx context.Context, userID uuid.UUID) (bool, error) {
	used, limit, err := g.Usage(ctx, userID)
	if err != nil {
		return false, err
	}
	return limit > 0 && used < limit, nil
}

// Usage returns the scans used today and the plan's daily limit.
func (g *QuotaGuard) Usage(ctx context.Context, userID uuid.UUID) (used, limit int64, err error) {
	plan, err := g.store.ActivePlan(ctx, userID)
	if err != nil {
		return 0, 0, err
	}
	count, err := g.store.CountScansToday(ctx, userID, time.Now().UTC())
	if err != nil {
		return 0, 0, err
	}
	return count, int64(plan.MaxScansPerDay), nil
}
