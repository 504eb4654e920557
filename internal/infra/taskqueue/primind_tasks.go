//go:build !gcloud

package taskqueue

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"time"

	"github.com/KasumiMercury/primind-commute-slots/internal/observability/tracing"
)

type PrimindTasksClient struct {
	baseURL    string
	queueName  string
	httpClient *http.Client
	maxRetries int
	baseDelay  time.Duration
}

func NewPrimindTasksClient(baseURL, queueName string, maxRetries int) *PrimindTasksClient {
	if maxRetries <= 0 {
		maxRetries = 3
	}
	return &PrimindTasksClient{
		baseURL:   baseURL,
		queueName: queueName,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		maxRetries: maxRetries,
		baseDelay:  100 * time.Millisecond,
	}
}

func (c *PrimindTasksClient) RegisterNudge(ctx context.Context, task *NudgeTask) (*TaskResponse, error) {
	payload, err := json.Marshal(task)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal nudge task: %w", err)
	}

	primindReq := PrimindTaskRequest{
		Task: PrimindTask{
			Name: task.TaskID(),
			HTTPRequest: PrimindHTTPRequest{
				Body: base64.StdEncoding.EncodeToString(payload),
				Headers: map[string]string{
					"Content-Type": "application/json",
				},
			},
		},
	}

	if !task.ScheduleAt.IsZero() {
		primindReq.Task.ScheduleTime = task.ScheduleAt.Format(time.RFC3339)
	}

	reqBody, err := json.Marshal(primindReq)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal primind request: %w", err)
	}

	url := fmt.Sprintf("%s/tasks", c.baseURL)
	if c.queueName != "" && c.queueName != "default" {
		url = fmt.Sprintf("%s/tasks/%s", c.baseURL, c.queueName)
	}

	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * c.baseDelay
			slog.DebugContext(ctx, "retrying nudge registration",
				slog.String("task_id", task.TaskID()),
				slog.Int("attempt", attempt+1),
				slog.Duration("backoff", backoff),
			)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		resp, err := c.doRequest(ctx, url, reqBody, task)
		if err == nil {
			return resp, nil
		}
		lastErr = err
	}

	slog.ErrorContext(ctx, "all retries exhausted for nudge registration",
		slog.String("task_id", task.TaskID()),
		slog.Int("max_retries", c.maxRetries),
		slog.String("error", lastErr.Error()),
	)
	return nil, fmt.Errorf("failed to register task after %d retries: %w", c.maxRetries, lastErr)
}

func (c *PrimindTasksClient) doRequest(ctx context.Context, url string, reqBody []byte, task *NudgeTask) (*TaskResponse, error) {
	ctx, span := tracing.StartExternalAPISpan(ctx, "register_nudge", url)
	defer span.End()

	slog.DebugContext(ctx, "registering nudge to Primind Tasks",
		slog.String("url", url),
		slog.String("task_id", task.TaskID()),
		slog.Int64("user_id", task.UserID),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	tracing.InjectToHTTPRequest(ctx, req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.WarnContext(ctx, "failed to send request to Primind Tasks",
			slog.String("task_id", task.TaskID()),
			slog.String("error", err.Error()),
		)
		tracing.RecordError(span, err)
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusConflict {
		slog.InfoContext(ctx, "nudge task already registered",
			slog.String("task_id", task.TaskID()),
		)
		return &TaskResponse{Name: task.TaskID()}, nil
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		err := fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		slog.WarnContext(ctx, "unexpected status code from Primind Tasks",
			slog.String("task_id", task.TaskID()),
			slog.Int("status_code", resp.StatusCode),
		)
		tracing.RecordError(span, err)
		return nil, err
	}

	var primindResp PrimindTaskResponse
	if err := json.NewDecoder(resp.Body).Decode(&primindResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	scheduleTime, _ := time.Parse(time.RFC3339, primindResp.ScheduleTime)
	createTime, _ := time.Parse(time.RFC3339, primindResp.CreateTime)

	slog.InfoContext(ctx, "nudge task registered to Primind Tasks",
		slog.String("task_name", primindResp.Name),
		slog.Int64("user_id", task.UserID),
	)
	tracing.RecordError(span, nil)

	return &TaskResponse{
		Name:         primindResp.Name,
		ScheduleTime: scheduleTime,
		CreateTime:   createTime,
	}, nil
}
