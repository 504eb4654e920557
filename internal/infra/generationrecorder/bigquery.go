//go:build gcloud

package generationrecorder

import (
	"context"
	"log/slog"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"

	"github.com/KasumiMercury/primind-commute-slots/internal/domain"
)

type bigQueryRecord struct {
	RecordedAt    time.Time  `bigquery:"recorded_at"`
	RunID         string     `bigquery:"run_id"`
	Date          civil.Date `bigquery:"date"`
	Window        string     `bigquery:"window"`
	SlotTime      time.Time  `bigquery:"slot_time"`
	Capacity      int64      `bigquery:"capacity"`
	DemandCount   int64      `bigquery:"demand_count"`
	AssignedCount int64      `bigquery:"assigned_count"`
	MovedIn       int64      `bigquery:"moved_in"`
	MovedOut      int64      `bigquery:"moved_out"`
}

type bigQueryRecorder struct {
	client   *bigquery.Client
	inserter *bigquery.Inserter
	dataset  string
	table    string
}

func NewRecorder(ctx context.Context, cfg *Config) (domain.GenerationRecorder, error) {
	if cfg.Disabled {
		slog.InfoContext(ctx, "generation result recording disabled")
		return NewNoopRecorder(), nil
	}

	if cfg.BigQueryProjectID == "" {
		slog.WarnContext(ctx, "BigQuery project ID not configured, generation result recording disabled")
		return NewNoopRecorder(), nil
	}

	client, err := bigquery.NewClient(ctx, cfg.BigQueryProjectID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to create BigQuery client, generation result recording disabled",
			slog.String("error", err.Error()),
			slog.String("project_id", cfg.BigQueryProjectID),
		)
		return NewNoopRecorder(), nil
	}

	table := client.Dataset(cfg.BigQueryDataset).Table(cfg.BigQueryTable)

	slog.InfoContext(ctx, "generation result recorder initialized",
		slog.String("type", "bigquery"),
		slog.String("project_id", cfg.BigQueryProjectID),
		slog.String("dataset", cfg.BigQueryDataset),
		slog.String("table", cfg.BigQueryTable),
	)

	return &bigQueryRecorder{
		client:   client,
		inserter: table.Inserter(),
		dataset:  cfg.BigQueryDataset,
		table:    cfg.BigQueryTable,
	}, nil
}

func (r *bigQueryRecorder) RecordSlotAllocations(ctx context.Context, records []domain.SlotAllocationRecord) error {
	if len(records) == 0 {
		return nil
	}

	now := time.Now()
	rows := make([]*bigQueryRecord, 0, len(records))
	for _, record := range records {
		rows = append(rows, &bigQueryRecord{
			RecordedAt:    now,
			RunID:         record.RunID,
			Date:          civil.DateOf(record.Date),
			Window:        record.Window,
			SlotTime:      record.SlotTime,
			Capacity:      int64(record.Capacity),
			DemandCount:   int64(record.DemandCount),
			AssignedCount: int64(record.AssignedCount),
			MovedIn:       int64(record.MovedIn),
			MovedOut:      int64(record.MovedOut),
		})
	}

	if err := r.inserter.Put(ctx, rows); err != nil {
		slog.WarnContext(ctx, "failed to insert slot allocations to BigQuery",
			slog.String("error", err.Error()),
			slog.Int("record_count", len(records)),
		)
	}

	return nil
}

func (r *bigQueryRecorder) Flush(_ context.Context) error {
	return nil
}

func (r *bigQueryRecorder) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}
