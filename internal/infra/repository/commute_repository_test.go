package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KasumiMercury/primind-commute-slots/internal/domain"
	"github.com/KasumiMercury/primind-commute-slots/internal/testutil"
)

func setupRepository(t *testing.T) (context.Context, domain.Repository) {
	t.Helper()

	ctx := context.Background()
	db, cleanup := testutil.SetupPostgresContainer(ctx, t)
	t.Cleanup(cleanup)

	require.NoError(t, Migrate(ctx, db))

	return ctx, NewCommuteRepository(db, time.UTC)
}

func TestCreateUser(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx, repo := setupRepository(t)

	tests := []struct {
		name         string
		input        domain.NewUser
		wantEmployer bool
		wantErr      error
	}{
		{
			name:  "without employer",
			input: domain.NewUser{HomeZone: "Z1", WorkZone: "Z9", FlexMinusMin: 15, FlexPlusMin: 30, NudgeQuota: 2},
		},
		{
			name:         "with employer",
			input:        domain.NewUser{HomeZone: "Z2", WorkZone: "Z9", NudgeQuota: 2, EmployerName: "Acme"},
			wantEmployer: true,
		},
		{
			name:    "missing zone",
			input:   domain.NewUser{HomeZone: "Z2"},
			wantErr: ErrInvalidRecord,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := repo.CreateUser(ctx, tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)

			assert.NotZero(t, user.ID)
			assert.Equal(t, tt.input.HomeZone, user.HomeZone)
			assert.Equal(t, tt.input.NudgeQuota, user.NudgeQuota)
			assert.Equal(t, tt.wantEmployer, user.EmployerID != nil)

			got, err := repo.GetUser(ctx, user.ID)
			require.NoError(t, err)
			assert.Equal(t, *user, *got)
		})
	}

	t.Run("employer is reused", func(t *testing.T) {
		a, err := repo.CreateUser(ctx, domain.NewUser{HomeZone: "Z3", WorkZone: "Z9", EmployerName: "Globex"})
		require.NoError(t, err)
		b, err := repo.CreateUser(ctx, domain.NewUser{HomeZone: "Z4", WorkZone: "Z9", EmployerName: " Globex "})
		require.NoError(t, err)

		require.NotNil(t, a.EmployerID)
		require.NotNil(t, b.EmployerID)
		assert.Equal(t, *a.EmployerID, *b.EmployerID)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := repo.GetUser(ctx, 999999)
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})
}

func TestEnsureSlots(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx, repo := setupRepository(t)

	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	slots := []domain.Slot{
		{Date: day, Start: day.Add(8 * time.Hour), Capacity: 340},
		{Date: day, Start: day.Add(8*time.Hour + 5*time.Minute), Capacity: 340},
	}

	created, err := repo.EnsureSlots(ctx, day, slots)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.EnsureSlots(ctx, day, append(slots, domain.Slot{Date: day, Start: day.Add(9 * time.Hour), Capacity: 1}))
	require.NoError(t, err)
	assert.False(t, created, "a seeded day must not be reseeded")

	got, err := repo.ListSlots(ctx, day)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "2026-03-02T08:00:00", got[0].Key())
	assert.Equal(t, 340, got[1].Capacity)

	other, err := repo.ListSlots(ctx, day.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestCommitGeneration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx, repo := setupRepository(t)

	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	a := day.Add(8 * time.Hour)
	b := day.Add(8*time.Hour + 15*time.Minute)

	_, err := repo.EnsureSlots(ctx, day, []domain.Slot{
		{Date: day, Start: a, Capacity: 1},
		{Date: day, Start: b, Capacity: 1},
	})
	require.NoError(t, err)

	stay, err := repo.CreateUser(ctx, domain.NewUser{HomeZone: "Z1", WorkZone: "Z9", NudgeQuota: 2})
	require.NoError(t, err)
	moved, err := repo.CreateUser(ctx, domain.NewUser{HomeZone: "Z2", WorkZone: "Z9", NudgeQuota: 1})
	require.NoError(t, err)

	commit := &domain.GenerationCommit{
		Date: day,
		Recommendations: []domain.Recommendation{
			{UserID: stay.ID, Window: domain.WindowMorning, SlotStart: a, PredictedETAMin: 44, Rank: 1, Chosen: true, Assigned: true},
			{UserID: stay.ID, Window: domain.WindowMorning, SlotStart: b, PredictedETAMin: 44, Rank: 2},
			{UserID: moved.ID, Window: domain.WindowMorning, SlotStart: a, PredictedETAMin: 44, Rank: 1},
			{UserID: moved.ID, Window: domain.WindowMorning, SlotStart: b, PredictedETAMin: 44, Rank: 2, Assigned: true},
		},
		UserDeltas: []domain.UserDelta{
			{UserID: moved.ID, FairnessIncrement: 2, QuotaDecrement: 2},
		},
		SlotLoads: []domain.SlotLoad{
			{Start: a, Assigned: 1},
			{Start: b, Assigned: 1},
		},
		Nudges: []domain.Nudge{
			{UserID: moved.ID, Date: day, Window: domain.WindowMorning, FromSlot: a, ToSlot: b, RewardPoints: 10},
		},
	}

	require.NoError(t, repo.CommitGeneration(ctx, commit))

	u, err := repo.GetUser(ctx, moved.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, u.FairnessScore)
	assert.Equal(t, 0, u.NudgeQuota, "quota is clamped at zero")

	recs, err := repo.ListRecommendations(ctx, moved.ID, day)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, 1, recs[0].Rank)
	assert.True(t, recs[1].Assigned)
	assert.Equal(t, domain.WindowMorning, recs[1].Window)

	slots, err := repo.ListSlots(ctx, day)
	require.NoError(t, err)
	assert.Equal(t, 1, slots[0].AllocatedCount)
	assert.Equal(t, 1, slots[1].AllocatedCount)

	t.Run("accept marks chosen", func(t *testing.T) {
		require.NoError(t, repo.AcceptRecommendation(ctx, moved.ID, day, b))

		recs, err := repo.ListRecommendations(ctx, moved.ID, day)
		require.NoError(t, err)
		assert.True(t, recs[1].Chosen)
	})

	t.Run("accept unknown slot", func(t *testing.T) {
		err := repo.AcceptRecommendation(ctx, moved.ID, day, day.Add(12*time.Hour))
		assert.True(t, errors.Is(err, domain.ErrRecommendationNotFound))
	})

	t.Run("regeneration replaces the day", func(t *testing.T) {
		require.NoError(t, repo.CommitGeneration(ctx, &domain.GenerationCommit{
			Date: day,
			Recommendations: []domain.Recommendation{
				{UserID: stay.ID, Window: domain.WindowMorning, SlotStart: a, PredictedETAMin: 44, Rank: 1, Chosen: true, Assigned: true},
			},
			SlotLoads: []domain.SlotLoad{{Start: a, Assigned: 1}},
		}))

		recs, err := repo.ListRecommendations(ctx, moved.ID, day)
		require.NoError(t, err)
		assert.Empty(t, recs)

		slots, err := repo.ListSlots(ctx, day)
		require.NoError(t, err)
		assert.Equal(t, 0, slots[1].AllocatedCount)
	})

	t.Run("nil commit", func(t *testing.T) {
		assert.ErrorIs(t, repo.CommitGeneration(ctx, nil), ErrInvalidRecord)
	})
}

func TestCountUsers(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx, repo := setupRepository(t)

	count, err := repo.CountUsers(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	_, err = repo.CreateUser(ctx, domain.NewUser{HomeZone: "Z1", WorkZone: "Z9"})
	require.NoError(t, err)

	users, err := repo.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)

	count, err = repo.CountUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
