package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/KasumiMercury/primind-commute-slots/internal/domain"
	"github.com/KasumiMercury/primind-commute-slots/internal/observability/tracing"
)

const insertBatchSize = 500

type commuteRepository struct {
	db  *gorm.DB
	loc *time.Location
}

// NewCommuteRepository returns a Postgres-backed repository. Timestamps read
// back from the database are converted to loc so that slot keys keep their
// wall-clock form.
func NewCommuteRepository(db *gorm.DB, loc *time.Location) domain.Repository {
	if loc == nil {
		loc = time.Local
	}

	return &commuteRepository{
		db:  db,
		loc: loc,
	}
}

func (r *commuteRepository) ListUsers(ctx context.Context) ([]domain.User, error) {
	ctx, span := tracing.StartRepositorySpan(ctx, "ListUsers")
	defer span.End()

	var rows []userModel
	if err := r.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		tracing.RecordError(span, err)
		return nil, fmt.Errorf("list users: %w", err)
	}

	users := make([]domain.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, row.toDomain())
	}

	return users, nil
}

func (r *commuteRepository) GetUser(ctx context.Context, userID int64) (*domain.User, error) {
	var row userModel
	if err := r.db.WithContext(ctx).First(&row, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user %d: %w", userID, err)
	}

	user := row.toDomain()
	return &user, nil
}

func (r *commuteRepository) CreateUser(ctx context.Context, user domain.NewUser) (*domain.User, error) {
	if user.HomeZone == "" || user.WorkZone == "" {
		return nil, fmt.Errorf("%w: home and work zone are required", ErrInvalidRecord)
	}

	row := userModel{
		HomeZone:     user.HomeZone,
		WorkZone:     user.WorkZone,
		FlexMinusMin: user.FlexMinusMin,
		FlexPlusMin:  user.FlexPlusMin,
		NudgeQuota:   max(user.NudgeQuota, 0),
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if name := strings.TrimSpace(user.EmployerName); name != "" {
			employer := employerModel{Name: name}
			if err := tx.Where(employerModel{Name: name}).FirstOrCreate(&employer).Error; err != nil {
				return fmt.Errorf("find or create employer %q: %w", name, err)
			}
			row.EmployerID = &employer.ID
		}

		if err := tx.Create(&row).Error; err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	created := row.toDomain()
	return &created, nil
}

func (r *commuteRepository) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&userModel{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return count, nil
}

func (r *commuteRepository) ListSlots(ctx context.Context, date time.Time) ([]domain.Slot, error) {
	ctx, span := tracing.StartRepositorySpan(ctx, "ListSlots")
	defer span.End()

	var rows []slotModel
	err := r.db.WithContext(ctx).
		Where("service_date = ?", domain.DateKey(date)).
		Order("start_ts").
		Find(&rows).Error
	if err != nil {
		tracing.RecordError(span, err)
		return nil, fmt.Errorf("list slots for %s: %w", domain.DateKey(date), err)
	}

	day := domain.DateOf(date)
	slots := make([]domain.Slot, 0, len(rows))
	for _, row := range rows {
		slots = append(slots, domain.Slot{
			Date:           day,
			Start:          row.StartTS.In(r.loc),
			Capacity:       row.Capacity,
			AllocatedCount: row.AllocatedCount,
		})
	}

	return slots, nil
}

// EnsureSlots inserts slots only when the date has none yet, and reports
// whether it did.
func (r *commuteRepository) EnsureSlots(ctx context.Context, date time.Time, slots []domain.Slot) (bool, error) {
	dateKey := domain.DateKey(date)
	created := false

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&slotModel{}).Where("service_date = ?", dateKey).Count(&count).Error; err != nil {
			return fmt.Errorf("count slots for %s: %w", dateKey, err)
		}
		if count > 0 || len(slots) == 0 {
			return nil
		}

		rows := make([]slotModel, 0, len(slots))
		for _, s := range slots {
			rows = append(rows, slotModel{
				ServiceDate: dateKey,
				StartTS:     s.Start,
				Capacity:    s.Capacity,
			})
		}

		result := tx.Clauses(clause.OnConflict{DoNothing: true}).CreateInBatches(rows, insertBatchSize)
		if result.Error != nil {
			return fmt.Errorf("insert slots for %s: %w", dateKey, result.Error)
		}
		created = result.RowsAffected > 0
		return nil
	})

	return created, err
}

func (r *commuteRepository) ListRecommendations(ctx context.Context, userID int64, date time.Time) ([]domain.Recommendation, error) {
	var rows []recommendationModel
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND service_date = ?", userID, domain.DateKey(date)).
		Order("rank").
		Order("slot_start").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list recommendations for user %d: %w", userID, err)
	}

	day := domain.DateOf(date)
	recs := make([]domain.Recommendation, 0, len(rows))
	for _, row := range rows {
		recs = append(recs, domain.Recommendation{
			UserID:          row.UserID,
			Date:            day,
			Window:          domain.Window(row.Window),
			SlotStart:       row.SlotStart.In(r.loc),
			PredictedETAMin: row.PredictedETAMin,
			Rank:            row.Rank,
			Chosen:          row.Chosen,
			Assigned:        row.Assigned,
		})
	}

	return recs, nil
}

// AcceptRecommendation marks the matching recommendation as chosen and
// accepts the nudge that moved the user to that slot, if any.
func (r *commuteRepository) AcceptRecommendation(ctx context.Context, userID int64, date time.Time, slotStart time.Time) error {
	dateKey := domain.DateKey(date)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&recommendationModel{}).
			Where("user_id = ? AND service_date = ? AND slot_start = ?", userID, dateKey, slotStart).
			Update("chosen_bool", true)
		if result.Error != nil {
			return fmt.Errorf("accept recommendation: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return domain.ErrRecommendationNotFound
		}

		err := tx.Model(&nudgeModel{}).
			Where("user_id = ? AND service_date = ? AND to_slot = ?", userID, dateKey, slotStart).
			Update("accepted", true).Error
		if err != nil {
			return fmt.Errorf("accept nudge: %w", err)
		}
		return nil
	})
}

// CommitGeneration replaces everything a previous run wrote for the date in
// a single transaction.
func (r *commuteRepository) CommitGeneration(ctx context.Context, commit *domain.GenerationCommit) error {
	if commit == nil {
		return fmt.Errorf("%w: nil generation commit", ErrInvalidRecord)
	}

	ctx, span := tracing.StartRepositorySpan(ctx, "CommitGeneration")
	defer span.End()

	dateKey := domain.DateKey(commit.Date)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("service_date = ?", dateKey).Delete(&recommendationModel{}).Error; err != nil {
			return fmt.Errorf("delete recommendations: %w", err)
		}

		if len(commit.Recommendations) > 0 {
			rows := make([]recommendationModel, 0, len(commit.Recommendations))
			for _, rec := range commit.Recommendations {
				rows = append(rows, recommendationModel{
					UserID:          rec.UserID,
					ServiceDate:     dateKey,
					Window:          rec.Window.String(),
					SlotStart:       rec.SlotStart,
					PredictedETAMin: rec.PredictedETAMin,
					Rank:            rec.Rank,
					Chosen:          rec.Chosen,
					Assigned:        rec.Assigned,
				})
			}
			if err := tx.CreateInBatches(rows, insertBatchSize).Error; err != nil {
				return fmt.Errorf("insert recommendations: %w", err)
			}
		}

		for _, d := range commit.UserDeltas {
			err := tx.Model(&userModel{}).
				Where("id = ?", d.UserID).
				Updates(map[string]any{
					"fairness_score": gorm.Expr("fairness_score + ?", d.FairnessIncrement),
					"nudge_quota":    gorm.Expr("GREATEST(nudge_quota - ?, 0)", d.QuotaDecrement),
				}).Error
			if err != nil {
				return fmt.Errorf("apply delta for user %d: %w", d.UserID, err)
			}
		}

		if err := tx.Model(&slotModel{}).Where("service_date = ?", dateKey).Update("allocated_count", 0).Error; err != nil {
			return fmt.Errorf("reset slot loads: %w", err)
		}
		for _, load := range commit.SlotLoads {
			err := tx.Model(&slotModel{}).
				Where("service_date = ? AND start_ts = ?", dateKey, load.Start).
				Update("allocated_count", load.Assigned).Error
			if err != nil {
				return fmt.Errorf("set load of slot %s: %w", domain.SlotKey(load.Start), err)
			}
		}

		if err := tx.Where("service_date = ?", dateKey).Delete(&nudgeModel{}).Error; err != nil {
			return fmt.Errorf("delete nudges: %w", err)
		}
		if len(commit.Nudges) > 0 {
			rows := make([]nudgeModel, 0, len(commit.Nudges))
			for _, n := range commit.Nudges {
				rows = append(rows, nudgeModel{
					UserID:       n.UserID,
					ServiceDate:  dateKey,
					Window:       n.Window.String(),
					FromSlot:     n.FromSlot,
					ToSlot:       n.ToSlot,
					RewardPoints: n.RewardPoints,
				})
			}
			if err := tx.CreateInBatches(rows, insertBatchSize).Error; err != nil {
				return fmt.Errorf("insert nudges: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		tracing.RecordError(span, err)
		return err
	}

	return nil
}

func (m userModel) toDomain() domain.User {
	return domain.User{
		ID:            m.ID,
		EmployerID:    m.EmployerID,
		HomeZone:      m.HomeZone,
		WorkZone:      m.WorkZone,
		FlexMinusMin:  m.FlexMinusMin,
		FlexPlusMin:   m.FlexPlusMin,
		FairnessScore: m.FairnessScore,
		NudgeQuota:    m.NudgeQuota,
	}
}
