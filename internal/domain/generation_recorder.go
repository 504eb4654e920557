package domain

import (
	"context"
	"time"
)

type SlotAllocationRecord struct {
	RunID         string
	Date          time.Time
	Window        string
	SlotTime      time.Time
	Capacity      int
	DemandCount   int
	AssignedCount int
	MovedIn       int
	MovedOut      int
}

type GenerationRecorder interface {
	RecordSlotAllocations(ctx context.Context, records []SlotAllocationRecord) error
	Flush(ctx context.Context) error
	Close() error
}
