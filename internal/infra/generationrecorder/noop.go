package generationrecorder

import (
	"context"

	"github.com/KasumiMercury/primind-commute-slots/internal/domain"
)

type noopRecorder struct{}

func NewNoopRecorder() domain.GenerationRecorder {
	return &noopRecorder{}
}

func (n *noopRecorder) RecordSlotAllocations(_ context.Context, _ []domain.SlotAllocationRecord) error {
	return nil
}

func (n *noopRecorder) Flush(_ context.Context) error {
	return nil
}

func (n *noopRecorder) Close() error {
	return nil
}
