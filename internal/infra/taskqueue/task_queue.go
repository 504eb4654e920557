package taskqueue

import "context"

//go:generate mockgen -source=task_queue.go -destination=mock.go -package=taskqueue

type TaskQueue interface {
	RegisterNudge(ctx context.Context, task *NudgeTask) (*TaskResponse, error)
}
