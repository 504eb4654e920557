//go:build !gcloud

package generationrecorder

import (
	"context"
	"log/slog"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/KasumiMercury/primind-commute-slots/internal/domain"
)

const slotAllocationMeasurement = "slot_allocation"

type influxDBRecorder struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	bucket   string
	org      string
}

func NewRecorder(ctx context.Context, cfg *Config) (domain.GenerationRecorder, error) {
	if cfg.Disabled {
		slog.InfoContext(ctx, "generation result recording disabled")
		return NewNoopRecorder(), nil
	}

	if cfg.InfluxDBToken == "" || cfg.InfluxDBOrg == "" {
		slog.WarnContext(ctx, "InfluxDB token or org not configured, generation result recording disabled",
			slog.String("url", cfg.InfluxDBURL),
		)
		return NewNoopRecorder(), nil
	}

	client := influxdb2.NewClient(cfg.InfluxDBURL, cfg.InfluxDBToken)
	writeAPI := client.WriteAPIBlocking(cfg.InfluxDBOrg, cfg.InfluxDBBucket)

	slog.InfoContext(ctx, "generation result recorder initialized",
		slog.String("type", "influxdb"),
		slog.String("url", cfg.InfluxDBURL),
		slog.String("bucket", cfg.InfluxDBBucket),
	)

	return &influxDBRecorder{
		client:   client,
		writeAPI: writeAPI,
		bucket:   cfg.InfluxDBBucket,
		org:      cfg.InfluxDBOrg,
	}, nil
}

func (r *influxDBRecorder) RecordSlotAllocations(ctx context.Context, records []domain.SlotAllocationRecord) error {
	if len(records) == 0 {
		return nil
	}

	now := time.Now()
	points := make([]*write.Point, 0, len(records))
	for _, record := range records {
		points = append(points, slotAllocationPoint(record, now))
	}

	if err := r.writeAPI.WritePoint(ctx, points...); err != nil {
		slog.WarnContext(ctx, "failed to write slot allocations to InfluxDB",
			slog.String("error", err.Error()),
			slog.Int("record_count", len(records)),
		)
	}

	return nil
}

func slotAllocationPoint(record domain.SlotAllocationRecord, at time.Time) *write.Point {
	runID := record.RunID
	if runID == "" {
		runID = "default"
	}

	return influxdb2.NewPoint(
		slotAllocationMeasurement,
		map[string]string{
			"run_id": runID,
			"date":   domain.DateKey(record.Date),
			"window": record.Window,
			"slot":   domain.SlotKey(record.SlotTime),
		},
		map[string]any{
			"capacity":       record.Capacity,
			"demand_count":   record.DemandCount,
			"assigned_count": record.AssignedCount,
			"moved_in":       record.MovedIn,
			"moved_out":      record.MovedOut,
			"slot_unix":      record.SlotTime.Unix(),
		},
		at,
	)
}

func (r *influxDBRecorder) Flush(_ context.Context) error {
	return nil
}

func (r *influxDBRecorder) Close() error {
	if r.client != nil {
		r.client.Close()
	}
	return nil
}
