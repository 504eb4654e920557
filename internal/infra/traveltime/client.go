package traveltime

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/KasumiMercury/primind-commute-slots/internal/domain"
	"github.com/KasumiMercury/primind-commute-slots/internal/observability/logging"
	"github.com/KasumiMercury/primind-commute-slots/internal/observability/tracing"
)

const (
	predictionsPath = "/api/v1/travel-times/predict"
	defaultTimeout  = 10 * time.Second
)

type PredictRequest struct {
	Slots []string `json:"slots"`
}

type Prediction struct {
	SlotISO string `json:"slot_iso"`
	ETAMin  int    `json:"eta_min"`
}

type PredictResponse struct {
	Predictions []Prediction `json:"predictions"`
}

// Client asks a travel time service for per-slot departure predictions.
// It satisfies eta.Estimator.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: newHTTPClient(baseURL, defaultTimeout),
	}
}

func (c *Client) Estimate(ctx context.Context, starts []time.Time) (map[string]int, error) {
	if len(starts) == 0 {
		return map[string]int{}, nil
	}

	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}
	u.Path = predictionsPath

	ctx, span := tracing.StartExternalAPISpan(ctx, "travel_time.predict", u.String())
	defer span.End()

	keys := make([]string, 0, len(starts))
	for _, s := range starts {
		keys = append(keys, domain.SlotKey(s))
	}

	body, err := json.Marshal(PredictRequest{Slots: keys})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	requestID := logging.ValidateAndExtractRequestID(logging.RequestIDFromContext(ctx))
	req.Header.Set(logging.RequestIDHeader, requestID)
	tracing.InjectToHTTPRequest(ctx, req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		tracing.RecordError(span, err)
		return nil, err
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var predictResp PredictResponse
	if err := json.Unmarshal(respBody, &predictResp); err != nil {
		tracing.RecordError(span, err)
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	out := make(map[string]int, len(predictResp.Predictions))
	for _, p := range predictResp.Predictions {
		if p.ETAMin < 0 {
			continue
		}
		out[p.SlotISO] = p.ETAMin
	}

	slog.DebugContext(ctx, "fetched travel time predictions",
		slog.Int("requested", len(starts)),
		slog.Int("received", len(out)),
	)
	tracing.RecordError(span, nil)

	return out, nil
}
