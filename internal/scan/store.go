package scan

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/reconova/reconova/internal/database/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store is the persistence sink for the scan core. Everything the
// orchestrator, quota guard, ticker, and reaper need from the database
// goes through here.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// ActivePlan loads the plan backing a user's subscription. Returns
// ErrNoActivePlan when the user is missing, has no plan assigned, or the
// plan is not marked active.
func (s *Store) ActivePlan(ctx context.Context, userID uuid.UUID) (*models.Plan, error) {
	return activePlan(s.db.WithContext(ctx), userID)
}

func activePlan(db *gorm.DB, userID uuid.UUID) (*models.Plan, error) {
	var user models.User
	if err := db.Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoActivePlan
		}
		return nil, fmt.Errorf("loading user: %w", err)
	}
	if user.PlanID == nil || !user.IsPlanActive {
		return nil, ErrNoActivePlan
	}

	var plan models.Plan
	if err := db.Where("id = ?", *user.PlanID).First(&plan).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoActivePlan
		}
		return nil, fmt.Errorf("loading plan: %w", err)
	}
	return &plan, nil
}

// CountScansToday counts the user's non-deleted scans whose UTC date
// matches day. Pending rows count: a scan reserves quota the moment it
// is accepted.
func (s *Store) CountScansToday(ctx context.Context, userID uuid.UUID, day time.Time) (int64, error) {
	return countScansToday(s.db.WithContext(ctx), userID, day)
}

func countScansToday(db *gorm.DB, userID uuid.UUID, day time.Time) (int64, error) {
	day = day.UTC()
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)

	var count int64
	err := db.Model(&models.ScanResult{}).
		Where("user_id = ? AND created_at >= ? AND created_at < ?", userID, start, end).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("counting scans: %w", err)
	}
	return count, nil
}

// CreatePendingScan inserts a pending scan record, re-checking the quota
// inside the same transaction so concurrent requests cannot slip past the
// daily limit between the check and the insert.
func (s *Store) CreatePendingScan(ctx context.Context, rec *models.ScanResult) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		plan, err := activePlan(tx, rec.UserID)
		if err != nil {
			return err
		}
		if plan.MaxScansPerDay == 0 {
			return ErrQuotaExceeded
		}
		count, err := countScansToday(tx, rec.UserID, time.Now())
		if err != nil {
			return err
		}
		if count >= int64(plan.MaxScansPerDay) {
			return ErrQuotaExceeded
		}

		rec.Status = models.ScanStatusPending
		return tx.Create(rec).Error
	})
}

// ScanByID loads a single scan record by its opaque scan id.
func (s *Store) ScanByID(ctx context.Context, scanID string) (*models.ScanResult, error) {
	var rec models.ScanResult
	err := s.db.WithContext(ctx).Where("scan_id = ?", scanID).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrScanNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading scan: %w", err)
	}
	return &rec, nil
}

// ScanWithAnalysis loads a scan record together with its analysis, if one
// was ever persisted. The analysis being absent is not an error.
func (s *Store) ScanWithAnalysis(ctx context.Context, scanID string) (*models.ScanResult, error) {
	var rec models.ScanResult
	err := s.db.WithContext(ctx).Preload("Analysis").
		Where("scan_id = ?", scanID).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrScanNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading scan: %w", err)
	}
	return &rec, nil
}

// ScansForUser lists a user's scans, newest first.
func (s *Store) ScansForUser(ctx context.Context, userID uuid.UUID) ([]models.ScanResult, error) {
	var recs []models.ScanResult
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("listing scans: %w", err)
	}
	return recs, nil
}

// MarkScanRunning transitions a pending scan to running.
func (s *Store) MarkScanRunning(ctx context.Context, scanID string, startedAt time.Time) error {
	return s.db.WithContext(ctx).Model(&models.ScanResult{}).
		Where("scan_id = ?", scanID).
		Updates(map[string]interface{}{
			"status":     models.ScanStatusRunning,
			"started_at": startedAt.Unix(),
		}).Error
}

// FinalizeScan writes the terminal state of a scan and, when analysis is
// non-nil, the matching analysis record, in one transaction.
func (s *Store) FinalizeScan(ctx context.Context, rec *models.ScanResult, analysis *models.AIResult) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(rec).Error; err != nil {
			return fmt.Errorf("saving scan: %w", err)
		}
		if analysis != nil {
			if err := tx.Create(analysis).Error; err != nil {
				return fmt.Errorf("saving analysis: %w", err)
			}
		}
		return nil
	})
}

// MarkScanDeleted soft-deletes a scan and its analysis. Deleting an
// already deleted scan is a no-op.
func (s *Store) MarkScanDeleted(ctx context.Context, scanID string, userID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("scan_id = ? AND user_id = ?", scanID, userID).
			Delete(&models.ScanResult{})
		if res.Error != nil {
			return res.Error
		}
		return tx.Where("scan_id = ? AND user_id = ?", scanID, userID).
			Delete(&models.AIResult{}).Error
	})
}

// ActiveSchedules returns enabled schedules whose time of day falls in
// [fromMinute, toMinute], tools preloaded. The range is a coarse SQL
// pre-filter; the ticker refines it in memory.
func (s *Store) ActiveSchedules(ctx context.Context, fromMinute, toMinute int) ([]models.ScheduledScan, error) {
	var schedules []models.ScheduledScan
	err := s.db.WithContext(ctx).Preload("Tools").
		Where("is_enabled = ? AND time_of_day BETWEEN ? AND ?", true, fromMinute, toMinute).
		Find(&schedules).Error
	if err != nil {
		return nil, fmt.Errorf("loading schedules: %w", err)
	}
	return schedules, nil
}

// ExpiredPlanUsers returns users whose active plan has passed its end
// date, excluding plans with the non-expiring duration sentinel.
func (s *Store) ExpiredPlanUsers(ctx context.Context, now time.Time) ([]models.User, error) {
	var users []models.User
	err := s.db.WithContext(ctx).
		Joins("Plan").
		Where(`users.is_plan_active = ? AND users.plan_ends_at < ? AND "Plan".duration_days <> ?`,
			true, now.Unix(), models.PlanDurationUnlimited).
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("loading expired plan users: %w", err)
	}
	return users, nil
}

// SaveUsers persists a batch of user mutations in one transaction.
func (s *Store) SaveUsers(ctx context.Context, users []models.User) error {
	if len(users) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range users {
			if err := tx.Omit(clause.Associations).Save(&users[i]).Error; err != nil {
				return fmt.Errorf("saving user %s: %w", users[i].ID, err)
			}
		}
		return nil
	})
}
