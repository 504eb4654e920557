package generation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/KasumiMercury/primind-commute-slots/internal/domain"
	"github.com/KasumiMercury/primind-commute-slots/internal/infra/taskqueue"
	"github.com/KasumiMercury/primind-commute-slots/internal/observability/metrics"
	"github.com/KasumiMercury/primind-commute-slots/internal/observability/tracing"
	"github.com/KasumiMercury/primind-commute-slots/internal/service/capacity"
	"github.com/KasumiMercury/primind-commute-slots/internal/service/eta"
	"github.com/KasumiMercury/primind-commute-slots/internal/service/window"
)

// Deps wires a Service. Cache, Lock, Recorder, TaskQueue and Metrics are
// optional.
type Deps struct {
	Repository domain.Repository
	Cache      domain.RecommendationCache
	Lock       domain.GenerationLock
	Estimator  eta.Estimator
	Planner    *Planner
	Classifier *window.Classifier
	Schedule   *capacity.Schedule
	Recorder   domain.GenerationRecorder
	TaskQueue  taskqueue.TaskQueue
	Metrics    *metrics.GenerationMetrics
}

type Service struct {
	repo       domain.Repository
	cache      domain.RecommendationCache
	lock       domain.GenerationLock
	estimator  eta.Estimator
	planner    *Planner
	classifier *window.Classifier
	schedule   *capacity.Schedule
	recorder   domain.GenerationRecorder
	taskQueue  taskqueue.TaskQueue
	metrics    *metrics.GenerationMetrics
}

func NewService(deps Deps) *Service {
	estimator := deps.Estimator
	if estimator == nil {
		estimator = eta.NewHeuristic()
	}
	return &Service{
		repo:       deps.Repository,
		cache:      deps.Cache,
		lock:       deps.Lock,
		estimator:  estimator,
		planner:    deps.Planner,
		classifier: deps.Classifier,
		schedule:   deps.Schedule,
		recorder:   deps.Recorder,
		taskQueue:  deps.TaskQueue,
		metrics:    deps.Metrics,
	}
}

// EnsureSlots seeds the bins of both windows for date with capacities from
// the schedule. Existing slots for the day are left untouched.
func (s *Service) EnsureSlots(ctx context.Context, date time.Time) error {
	day := domain.DateOf(date)

	var slots []domain.Slot
	for _, w := range domain.Windows {
		for _, start := range s.classifier.Bins(day, w) {
			slots = append(slots, domain.Slot{
				Date:     day,
				Start:    start,
				Capacity: s.schedule.CapacityFor(start),
			})
		}
	}

	created, err := s.repo.EnsureSlots(ctx, day, slots)
	if err != nil {
		return fmt.Errorf("failed to ensure slots: %w", err)
	}

	if created {
		slog.InfoContext(ctx, "slots seeded",
			slog.String("date", domain.DateKey(day)),
			slog.Int("count", len(slots)),
		)
	}

	return nil
}

// Generate runs one full generation for date: seed slots, plan both windows,
// persist the plan in one commit, then fan out side effects. Side effects
// after the commit never fail the run.
func (s *Service) Generate(ctx context.Context, date time.Time) (summary *Summary, err error) {
	runID := uuid.NewString()
	day := domain.DateOf(date)
	start := time.Now()

	ctx, span := tracing.StartGenerationSpan(ctx, day, runID)
	defer span.End()

	defer func() {
		outcome := "success"
		switch {
		case errors.Is(err, domain.ErrGenerationInProgress):
			outcome = "skipped"
		case err != nil:
			outcome = "failed"
		}
		if s.metrics != nil {
			s.metrics.RecordGenerationDuration(ctx, outcome, time.Since(start))
		}
		if summary != nil {
			tracing.RecordGenerationResult(span, summary.Recommendations, summary.Displaced, err)
		} else {
			tracing.RecordError(span, err)
		}
	}()

	if s.lock != nil {
		release, err := s.lock.Acquire(ctx)
		if err != nil {
			return nil, err
		}
		defer func() {
			if err := release(context.WithoutCancel(ctx)); err != nil {
				slog.WarnContext(ctx, "failed to release generation lock",
					slog.String("run_id", runID),
					slog.String("error", err.Error()),
				)
			}
		}()
	}

	slog.InfoContext(ctx, "generation started",
		slog.String("run_id", runID),
		slog.String("date", domain.DateKey(day)),
	)

	if err := s.EnsureSlots(ctx, day); err != nil {
		return nil, err
	}

	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	slots, err := s.repo.ListSlots(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("failed to list slots: %w", err)
	}
	if len(slots) == 0 {
		return nil, fmt.Errorf("%s: %w", domain.DateKey(day), domain.ErrNoSlots)
	}

	etas, err := s.estimator.Estimate(ctx, SlotStartsOf(slots))
	if err != nil {
		return nil, fmt.Errorf("failed to estimate travel times: %w", err)
	}

	plan := s.planner.Plan(ctx, Snapshot{
		Date:  day,
		Users: users,
		Slots: slots,
		ETAs:  etas,
	})

	if err := s.repo.CommitGeneration(ctx, plan.Commit()); err != nil {
		return nil, fmt.Errorf("failed to commit generation: %w", err)
	}

	s.invalidateCache(ctx, day)
	s.recordMetrics(ctx, plan)
	s.recordAllocations(ctx, runID, plan)
	queued := s.dispatchNudges(ctx, runID, plan)

	summary = &Summary{
		RunID:           runID,
		Date:            domain.DateKey(day),
		Users:           len(users),
		Recommendations: len(plan.Recommendations),
		Displaced:       plan.DisplacedCount(),
		Overloaded:      plan.Overloaded(),
		NudgesQueued:    queued,
	}

	slog.InfoContext(ctx, "generation completed",
		slog.String("run_id", runID),
		slog.String("date", summary.Date),
		slog.Int("users", summary.Users),
		slog.Int("recommendations", summary.Recommendations),
		slog.Int("displaced", summary.Displaced),
		slog.Int("overloaded_slots", len(summary.Overloaded)),
		slog.Int("nudges_queued", queued),
		slog.Duration("elapsed", time.Since(start)),
	)

	return summary, nil
}

func (s *Service) invalidateCache(ctx context.Context, day time.Time) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateDate(ctx, day); err != nil {
		slog.WarnContext(ctx, "failed to invalidate recommendation cache",
			slog.String("date", domain.DateKey(day)),
			slog.String("error", err.Error()),
		)
	}
}

func (s *Service) recordMetrics(ctx context.Context, plan *Plan) {
	if s.metrics == nil {
		return
	}
	for _, w := range plan.Windows {
		s.metrics.RecordWindow(ctx, w.Window.String(),
			len(w.Demand.UserOrder), w.Displaced, len(w.Result.Overloaded), w.Result.Passes)
	}
}

func (s *Service) recordAllocations(ctx context.Context, runID string, plan *Plan) {
	if s.recorder == nil || len(plan.SlotRecords) == 0 {
		return
	}

	records := make([]domain.SlotAllocationRecord, len(plan.SlotRecords))
	for i, r := range plan.SlotRecords {
		r.RunID = runID
		records[i] = r
	}

	if err := s.recorder.RecordSlotAllocations(ctx, records); err != nil {
		slog.WarnContext(ctx, "failed to record slot allocations",
			slog.String("run_id", runID),
			slog.String("error", err.Error()),
		)
		return
	}
	if err := s.recorder.Flush(ctx); err != nil {
		slog.WarnContext(ctx, "failed to flush slot allocations",
			slog.String("run_id", runID),
			slog.String("error", err.Error()),
		)
	}
}

func (s *Service) dispatchNudges(ctx context.Context, runID string, plan *Plan) int {
	if s.taskQueue == nil || len(plan.Nudges) == 0 {
		return 0
	}

	queued := 0
	for _, n := range plan.Nudges {
		task := taskqueue.NewNudgeTask(runID, n, time.Time{})

		if _, err := s.taskQueue.RegisterNudge(ctx, task); err != nil {
			slog.WarnContext(ctx, "failed to queue nudge",
				slog.String("run_id", runID),
				slog.Int64("user_id", n.UserID),
				slog.String("window", n.Window.String()),
				slog.String("error", err.Error()),
			)
			if s.metrics != nil {
				s.metrics.RecordNudgeDispatched(ctx, "failed")
			}
			continue
		}

		queued++
		if s.metrics != nil {
			s.metrics.RecordNudgeDispatched(ctx, "queued")
		}
	}

	return queued
}
