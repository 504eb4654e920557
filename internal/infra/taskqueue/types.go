package taskqueue

import (
	"fmt"
	"time"

	"github.com/KasumiMercury/primind-commute-slots/internal/domain"
)

// NudgeTask asks a displaced user to depart at the assigned slot instead of
// their first choice.
type NudgeTask struct {
	RunID      string    `json:"-"`
	ScheduleAt time.Time `json:"-"`

	UserID       int64  `json:"user_id"`
	Date         string `json:"date"`
	Window       string `json:"window"`
	FromSlot     string `json:"from_slot"`
	ToSlot       string `json:"to_slot"`
	RewardPoints int    `json:"reward_points"`
}

func NewNudgeTask(runID string, n domain.Nudge, scheduleAt time.Time) *NudgeTask {
	return &NudgeTask{
		RunID:        runID,
		ScheduleAt:   scheduleAt,
		UserID:       n.UserID,
		Date:         domain.DateKey(n.Date),
		Window:       n.Window.String(),
		FromSlot:     domain.SlotKey(n.FromSlot),
		ToSlot:       domain.SlotKey(n.ToSlot),
		RewardPoints: n.RewardPoints,
	}
}

// TaskID is stable per user, date and window so a rerun for the same day
// does not notify twice.
func (t *NudgeTask) TaskID() string {
	return fmt.Sprintf("nudge-%s-%s-%d", t.Date, t.Window, t.UserID)
}

type TaskResponse struct {
	Name         string    `json:"name"`
	ScheduleTime time.Time `json:"schedule_time"`
	CreateTime   time.Time `json:"create_time"`
}

type PrimindTaskRequest struct {
	Task PrimindTask `json:"task"`
}

type PrimindTask struct {
	Name         string             `json:"name,omitempty"`
	HTTPRequest  PrimindHTTPRequest `json:"httpRequest"`
	ScheduleTime string             `json:"scheduleTime,omitempty"`
}

type PrimindHTTPRequest struct {
	Body    string            `json:"body"`
	Headers map[string]string `json:"headers,omitempty"`
}

type PrimindTaskResponse struct {
	Name         string `json:"name"`
	ScheduleTime string `json:"scheduleTime"`
	CreateTime   string `json:"createTime"`
}
