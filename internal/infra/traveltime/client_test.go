package traveltime

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KasumiMercury/primind-commute-slots/internal/service/eta"
)

var _ eta.Estimator = (*Client)(nil)

func TestClient_Estimate(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	starts := []time.Time{day.Add(8 * time.Hour), day.Add(8*time.Hour + 5*time.Minute)}

	tests := []struct {
		name    string
		status  int
		body    string
		want    map[string]int
		wantErr bool
	}{
		{
			name:   "predictions",
			status: http.StatusOK,
			body:   `{"predictions":[{"slot_iso":"2026-03-02T08:00:00","eta_min":41},{"slot_iso":"2026-03-02T08:05:00","eta_min":-1}]}`,
			want:   map[string]int{"2026-03-02T08:00:00": 41},
		},
		{
			name:    "server error",
			status:  http.StatusBadGateway,
			body:    `{}`,
			wantErr: true,
		},
		{
			name:    "malformed body",
			status:  http.StatusOK,
			body:    `{"predictions":`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var received PredictRequest
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, predictionsPath, r.URL.Path)
				assert.Equal(t, http.MethodPost, r.Method)
				assert.NotEmpty(t, r.Header.Get("x-request-id"))
				assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))

				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			got, err := NewClient(srv.URL).Estimate(context.Background(), starts)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, []string{"2026-03-02T08:00:00", "2026-03-02T08:05:00"}, received.Slots)
		})
	}
}

func TestClient_EstimateEmpty(t *testing.T) {
	got, err := NewClient("http://127.0.0.1:0").Estimate(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestClient_FallbackOnUnreachableService(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	day := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	est := eta.NewWithFallback(NewClient(srv.URL))

	got, err := est.Estimate(context.Background(), []time.Time{day})
	require.NoError(t, err)
	assert.Equal(t, 44, got["2026-03-02T08:00:00"])
}
