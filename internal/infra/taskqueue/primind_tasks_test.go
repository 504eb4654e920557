//go:build !gcloud

package taskqueue

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KasumiMercury/primind-commute-slots/internal/domain"
)

func testNudge() *NudgeTask {
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	return NewNudgeTask("run-1", domain.Nudge{
		UserID:       7,
		Date:         date,
		Window:       domain.WindowMorning,
		FromSlot:     date.Add(8 * time.Hour),
		ToSlot:       date.Add(8*time.Hour + 20*time.Minute),
		RewardPoints: 10,
	}, time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC))
}

func TestPrimindTasksClient_RegisterNudge(t *testing.T) {
	var got PrimindTaskRequest
	var path string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(PrimindTaskResponse{
			Name:         "tasks/nudge-2026-03-02-morning-7",
			ScheduleTime: "2026-03-01T18:00:00Z",
			CreateTime:   "2026-03-01T12:00:00Z",
		})
	}))
	defer server.Close()

	client := NewPrimindTasksClient(server.URL, "nudges", 1)

	resp, err := client.RegisterNudge(context.Background(), testNudge())
	require.NoError(t, err)

	assert.Equal(t, "/tasks/nudges", path)
	assert.Equal(t, "nudge-2026-03-02-morning-7", got.Task.Name)
	assert.Equal(t, "2026-03-01T18:00:00Z", got.Task.ScheduleTime)
	assert.Equal(t, "tasks/nudge-2026-03-02-morning-7", resp.Name)
	assert.True(t, resp.ScheduleTime.Equal(time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)))

	body, err := base64.StdEncoding.DecodeString(got.Task.HTTPRequest.Body)
	require.NoError(t, err)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(body, &payload))
	assert.Equal(t, float64(7), payload["user_id"])
	assert.Equal(t, "2026-03-02T08:00:00", payload["from_slot"])
	assert.Equal(t, "2026-03-02T08:20:00", payload["to_slot"])
	assert.Equal(t, float64(10), payload["reward_points"])
}

func TestPrimindTasksClient_DefaultQueuePath(t *testing.T) {
	var path string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		_ = json.NewEncoder(w).Encode(PrimindTaskResponse{Name: "x"})
	}))
	defer server.Close()

	_, err := NewPrimindTasksClient(server.URL, "default", 1).RegisterNudge(context.Background(), testNudge())
	require.NoError(t, err)
	assert.Equal(t, "/tasks", path)
}

func TestPrimindTasksClient_Retries(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_ = json.NewEncoder(w).Encode(PrimindTaskResponse{Name: "ok"})
	}))
	defer server.Close()

	client := NewPrimindTasksClient(server.URL, "", 3)
	client.baseDelay = time.Millisecond

	resp, err := client.RegisterNudge(context.Background(), testNudge())
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Name)
	assert.Equal(t, int32(3), calls.Load())
}

func TestPrimindTasksClient_RetriesExhausted(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewPrimindTasksClient(server.URL, "", 2)
	client.baseDelay = time.Millisecond

	_, err := client.RegisterNudge(context.Background(), testNudge())
	assert.ErrorContains(t, err, "after 2 retries")
}

func TestPrimindTasksClient_AlreadyRegistered(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}))
	defer server.Close()

	resp, err := NewPrimindTasksClient(server.URL, "", 1).RegisterNudge(context.Background(), testNudge())
	require.NoError(t, err)
	assert.Equal(t, "nudge-2026-03-02-morning-7", resp.Name)
}
