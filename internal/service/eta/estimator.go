package eta

import (
	"context"
	"log/slog"
	"time"

	"github.com/KasumiMercury/primind-commute-slots/internal/domain"
)

//go:generate mockgen -source=estimator.go -destination=estimator_mock.go -package=eta

// Estimator predicts travel minutes for departures at the given slot starts.
// The result is keyed by domain.SlotKey. Missing keys are allowed.
type Estimator interface {
	Estimate(ctx context.Context, starts []time.Time) (map[string]int, error)
}

const baseMinutes = 28

// Heuristic is the time-of-day travel curve used when no live estimate is
// available.
type Heuristic struct{}

func NewHeuristic() *Heuristic {
	return &Heuristic{}
}

func (h *Heuristic) Minutes(t time.Time) int {
	hour := float64(t.Hour()) + float64(t.Minute())/60

	switch {
	case 8.0 <= hour && hour <= 9.0:
		return scaled(1.6)
	case 7.5 <= hour && hour < 8.0, 9.0 < hour && hour <= 9.5:
		return scaled(1.35)
	case 17.0 <= hour && hour <= 18.0:
		return scaled(1.5)
	case 16.0 <= hour && hour < 17.0, 18.0 < hour && hour <= 19.0:
		return scaled(1.25)
	default:
		return scaled(1.05)
	}
}

func scaled(factor float64) int {
	return int(baseMinutes * factor)
}

func (h *Heuristic) Estimate(_ context.Context, starts []time.Time) (map[string]int, error) {
	out := make(map[string]int, len(starts))
	for _, s := range starts {
		out[domain.SlotKey(s)] = h.Minutes(s)
	}
	return out, nil
}

// WithFallback asks primary first and fills anything it could not answer
// from the heuristic. A primary failure never fails the caller.
type WithFallback struct {
	primary   Estimator
	heuristic *Heuristic
}

func NewWithFallback(primary Estimator) *WithFallback {
	return &WithFallback{
		primary:   primary,
		heuristic: NewHeuristic(),
	}
}

func (f *WithFallback) Estimate(ctx context.Context, starts []time.Time) (map[string]int, error) {
	out := make(map[string]int, len(starts))
	for _, s := range starts {
		out[domain.SlotKey(s)] = f.heuristic.Minutes(s)
	}
	if f.primary == nil {
		return out, nil
	}

	live, err := f.primary.Estimate(ctx, starts)
	if err != nil {
		slog.WarnContext(ctx, "travel time estimate failed, using heuristic",
			slog.Int("slots", len(starts)),
			slog.String("error", err.Error()),
		)
		return out, nil
	}

	filled := 0
	for key, minutes := range live {
		if _, ok := out[key]; !ok || minutes < 0 {
			continue
		}
		out[key] = minutes
		filled++
	}

	if filled < len(out) {
		slog.DebugContext(ctx, "travel time estimate incomplete, heuristic fills the rest",
			slog.Int("live", filled),
			slog.Int("slots", len(out)),
		)
	}

	return out, nil
}
