//go:build gcloud

package observability

import (
	"context"
	"fmt"

	mexporter "github.com/GoogleCloudPlatform/opentelemetry-operations-go/exporter/metric"
	texporter "github.com/GoogleCloudPlatform/opentelemetry-operations-go/exporter/trace"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func exporterOptions(_ context.Context, cfg Config) ([]sdktrace.TracerProviderOption, []sdkmetric.Option, error) {
	if cfg.GCPProjectID == "" {
		return nil, nil, fmt.Errorf("GCP project id is required for Cloud Trace and Cloud Monitoring export")
	}

	traceExporter, err := texporter.New(texporter.WithProjectID(cfg.GCPProjectID))
	if err != nil {
		return nil, nil, fmt.Errorf("create cloud trace exporter: %w", err)
	}

	metricExporter, err := mexporter.New(mexporter.WithProjectID(cfg.GCPProjectID))
	if err != nil {
		return nil, nil, fmt.Errorf("create cloud monitoring exporter: %w", err)
	}

	return []sdktrace.TracerProviderOption{sdktrace.WithBatcher(traceExporter)},
		[]sdkmetric.Option{sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter))},
		nil
}
