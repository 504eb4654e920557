package seed

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/KasumiMercury/primind-commute-slots/internal/domain"
)

func TestDemoUsers(t *testing.T) {
	users := DemoUsers(2)

	require.Len(t, users, 10)
	for _, u := range users {
		assert.Equal(t, "Lisboa-Centro", u.WorkZone)
		assert.Equal(t, 2, u.NudgeQuota)
		assert.NotEmpty(t, u.HomeZone)
	}
	assert.Equal(t, 30, users[2].FlexPlusMin)
}

func TestUsers(t *testing.T) {
	tests := []struct {
		name        string
		count       int64
		countErr    error
		createErr   error
		wantCreated int
		wantErr     bool
	}{
		{name: "empty table is seeded", count: 0, wantCreated: 10},
		{name: "populated table is left alone", count: 3, wantCreated: 0},
		{name: "count failure", countErr: errors.New("db down"), wantErr: true},
		{name: "create failure", createErr: errors.New("constraint"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := domain.NewMockRepository(ctrl)

			repo.EXPECT().CountUsers(gomock.Any()).Return(tt.count, tt.countErr)

			if tt.countErr == nil && tt.count == 0 {
				if tt.createErr != nil {
					repo.EXPECT().CreateUser(gomock.Any(), gomock.Any()).Return(nil, tt.createErr)
				} else {
					var id int64
					repo.EXPECT().CreateUser(gomock.Any(), gomock.Any()).
						DoAndReturn(func(_ context.Context, u domain.NewUser) (*domain.User, error) {
							id++
							return &domain.User{ID: id, HomeZone: u.HomeZone, WorkZone: u.WorkZone, NudgeQuota: u.NudgeQuota}, nil
						}).
						Times(10)
				}
			}

			created, err := Users(context.Background(), repo, 2)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantCreated, created)
		})
	}
}
