package generation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/KasumiMercury/primind-commute-slots/internal/domain"
	"github.com/KasumiMercury/primind-commute-slots/internal/infra/taskqueue"
	"github.com/KasumiMercury/primind-commute-slots/internal/service/capacity"
	"github.com/KasumiMercury/primind-commute-slots/internal/service/eta"
	"github.com/KasumiMercury/primind-commute-slots/internal/service/window"
)

type fakeRecorder struct {
	records []domain.SlotAllocationRecord
	flushed int
	err     error
}

func (r *fakeRecorder) RecordSlotAllocations(_ context.Context, records []domain.SlotAllocationRecord) error {
	if r.err != nil {
		return r.err
	}
	r.records = append(r.records, records...)
	return nil
}

func (r *fakeRecorder) Flush(_ context.Context) error {
	r.flushed++
	return nil
}

func (r *fakeRecorder) Close() error {
	return nil
}

type serviceMocks struct {
	repo      *domain.MockRepository
	cache     *domain.MockRecommendationCache
	lock      *domain.MockGenerationLock
	estimator *eta.MockEstimator
	queue     *taskqueue.MockTaskQueue
	recorder  *fakeRecorder
}

func newTestService(t *testing.T) (*Service, *serviceMocks) {
	ctrl := gomock.NewController(t)

	m := &serviceMocks{
		repo:      domain.NewMockRepository(ctrl),
		cache:     domain.NewMockRecommendationCache(ctrl),
		lock:      domain.NewMockGenerationLock(ctrl),
		estimator: eta.NewMockEstimator(ctrl),
		queue:     taskqueue.NewMockTaskQueue(ctrl),
		recorder:  &fakeRecorder{},
	}

	svc := NewService(Deps{
		Repository: m.repo,
		Cache:      m.cache,
		Lock:       m.lock,
		Estimator:  m.estimator,
		Planner:    newTestPlanner(),
		Classifier: window.NewDefaultClassifier(),
		Schedule:   capacity.MustFallback(),
		Recorder:   m.recorder,
		TaskQueue:  m.queue,
	})

	return svc, m
}

func overbookedDay() ([]domain.User, []domain.Slot, map[string]int) {
	users := []domain.User{
		{ID: 1, NudgeQuota: 2},
		{ID: 2, NudgeQuota: 2},
		{ID: 3, NudgeQuota: 0},
	}
	slots := []domain.Slot{
		{Date: testDate, Start: clock(8, 0), Capacity: 2},
		{Date: testDate, Start: clock(8, 30), Capacity: 5},
	}
	etas := map[string]int{
		domain.SlotKey(clock(8, 0)):  20,
		domain.SlotKey(clock(8, 30)): 25,
	}
	return users, slots, etas
}

func expectLock(m *serviceMocks, released *bool) {
	m.lock.EXPECT().Acquire(gomock.Any()).Return(func(context.Context) error {
		*released = true
		return nil
	}, nil)
}

func TestService_Generate(t *testing.T) {
	svc, m := newTestService(t)
	users, slots, etas := overbookedDay()

	released := false
	expectLock(m, &released)
	m.repo.EXPECT().EnsureSlots(gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil)
	m.repo.EXPECT().ListUsers(gomock.Any()).Return(users, nil)
	m.repo.EXPECT().ListSlots(gomock.Any(), gomock.Any()).Return(slots, nil)
	m.estimator.EXPECT().Estimate(gomock.Any(), gomock.Len(2)).Return(etas, nil)

	var committed *domain.GenerationCommit
	m.repo.EXPECT().CommitGeneration(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, c *domain.GenerationCommit) error {
			committed = c
			return nil
		},
	)
	m.cache.EXPECT().InvalidateDate(gomock.Any(), gomock.Any()).Return(nil)

	// Priority is 1, 2, 3 and one move relieves the slot.
	m.queue.EXPECT().RegisterNudge(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, task *taskqueue.NudgeTask) (*taskqueue.TaskResponse, error) {
			assert.Equal(t, int64(1), task.UserID)
			assert.Equal(t, "2026-03-02", task.Date)
			assert.NotEmpty(t, task.RunID)
			return &taskqueue.TaskResponse{Name: task.TaskID()}, nil
		},
	)

	summary, err := svc.Generate(context.Background(), clock(15, 0))
	require.NoError(t, err)

	assert.True(t, released)
	assert.Equal(t, "2026-03-02", summary.Date)
	assert.Equal(t, 3, summary.Users)
	assert.Equal(t, 6, summary.Recommendations)
	assert.Equal(t, 1, summary.Displaced)
	assert.Empty(t, summary.Overloaded)
	assert.Equal(t, 1, summary.NudgesQueued)

	require.NotNil(t, committed)
	assert.True(t, committed.Date.Equal(testDate))
	assert.Len(t, committed.Recommendations, 6)
	assert.Equal(t, []domain.UserDelta{{UserID: 1, FairnessIncrement: 1, QuotaDecrement: 1}}, committed.UserDeltas)
	assert.Len(t, committed.Nudges, 1)

	require.Len(t, m.recorder.records, 2)
	for _, r := range m.recorder.records {
		assert.Equal(t, summary.RunID, r.RunID)
	}
	assert.Equal(t, 1, m.recorder.flushed)
}

func TestService_Generate_LockHeld(t *testing.T) {
	svc, m := newTestService(t)

	m.lock.EXPECT().Acquire(gomock.Any()).Return(nil, domain.ErrGenerationInProgress)

	summary, err := svc.Generate(context.Background(), testDate)

	assert.ErrorIs(t, err, domain.ErrGenerationInProgress)
	assert.Nil(t, summary)
}

func TestService_Generate_NoSlots(t *testing.T) {
	svc, m := newTestService(t)

	released := false
	expectLock(m, &released)
	m.repo.EXPECT().EnsureSlots(gomock.Any(), gomock.Any(), gomock.Any()).Return(true, nil)
	m.repo.EXPECT().ListUsers(gomock.Any()).Return(nil, nil)
	m.repo.EXPECT().ListSlots(gomock.Any(), gomock.Any()).Return(nil, nil)

	_, err := svc.Generate(context.Background(), testDate)

	assert.ErrorIs(t, err, domain.ErrNoSlots)
	assert.True(t, released)
}

func TestService_Generate_CommitFailure(t *testing.T) {
	svc, m := newTestService(t)
	users, slots, etas := overbookedDay()

	released := false
	expectLock(m, &released)
	m.repo.EXPECT().EnsureSlots(gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil)
	m.repo.EXPECT().ListUsers(gomock.Any()).Return(users, nil)
	m.repo.EXPECT().ListSlots(gomock.Any(), gomock.Any()).Return(slots, nil)
	m.estimator.EXPECT().Estimate(gomock.Any(), gomock.Any()).Return(etas, nil)
	m.repo.EXPECT().CommitGeneration(gomock.Any(), gomock.Any()).Return(errors.New("tx aborted"))

	_, err := svc.Generate(context.Background(), testDate)

	assert.ErrorContains(t, err, "tx aborted")
	assert.True(t, released)
	assert.Empty(t, m.recorder.records)
}

func TestService_Generate_SideEffectFailuresAreTolerated(t *testing.T) {
	svc, m := newTestService(t)
	users, slots, etas := overbookedDay()
	m.recorder.err = errors.New("influx down")

	released := false
	expectLock(m, &released)
	m.repo.EXPECT().EnsureSlots(gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil)
	m.repo.EXPECT().ListUsers(gomock.Any()).Return(users, nil)
	m.repo.EXPECT().ListSlots(gomock.Any(), gomock.Any()).Return(slots, nil)
	m.estimator.EXPECT().Estimate(gomock.Any(), gomock.Any()).Return(etas, nil)
	m.repo.EXPECT().CommitGeneration(gomock.Any(), gomock.Any()).Return(nil)
	m.cache.EXPECT().InvalidateDate(gomock.Any(), gomock.Any()).Return(errors.New("redis down"))
	m.queue.EXPECT().RegisterNudge(gomock.Any(), gomock.Any()).Return(nil, errors.New("queue down"))

	summary, err := svc.Generate(context.Background(), testDate)

	require.NoError(t, err)
	assert.Equal(t, 1, summary.Displaced)
	assert.Equal(t, 0, summary.NudgesQueued)
}

func TestService_EnsureSlots(t *testing.T) {
	svc, m := newTestService(t)

	m.repo.EXPECT().EnsureSlots(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, date time.Time, slots []domain.Slot) (bool, error) {
			assert.True(t, date.Equal(testDate))
			assert.Len(t, slots, 37+49)
			for _, s := range slots {
				assert.Equal(t, 340, s.Capacity, "slot %s", s.Key())
				assert.True(t, s.Date.Equal(testDate))
			}
			return true, nil
		},
	)

	require.NoError(t, svc.EnsureSlots(context.Background(), clock(9, 41)))
}
