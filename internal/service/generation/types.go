package generation

import (
	"time"

	"github.com/KasumiMercury/primind-commute-slots/internal/domain"
	"github.com/KasumiMercury/primind-commute-slots/internal/service/allocation"
	"github.com/KasumiMercury/primind-commute-slots/internal/service/demand"
)

// Snapshot is the read-only input of one generation run.
type Snapshot struct {
	Date  time.Time
	Users []domain.User
	Slots []domain.Slot
	// ETAs holds predicted travel minutes keyed by slot key. Slots without an
	// entry are not offered as candidates.
	ETAs map[string]int
}

type WindowOutcome struct {
	Window    domain.Window
	Slots     int
	Demand    *demand.Demand
	Result    *allocation.Result
	Deltas    []domain.FairnessDelta
	Displaced int
}

// Plan is the pure result of a run. Nothing in it has been persisted.
type Plan struct {
	Date            time.Time
	Recommendations []domain.Recommendation
	UserDeltas      []domain.UserDelta
	SlotLoads       []domain.SlotLoad
	Nudges          []domain.Nudge
	SlotRecords     []domain.SlotAllocationRecord
	Windows         []WindowOutcome
}

func (p *Plan) Commit() *domain.GenerationCommit {
	return &domain.GenerationCommit{
		Date:            p.Date,
		Recommendations: p.Recommendations,
		UserDeltas:      p.UserDeltas,
		SlotLoads:       p.SlotLoads,
		Nudges:          p.Nudges,
	}
}

func (p *Plan) DisplacedCount() int {
	n := 0
	for _, w := range p.Windows {
		n += w.Displaced
	}
	return n
}

type OverloadedSlot struct {
	Window   domain.Window `json:"window"`
	Slot     string        `json:"slot"`
	Load     int           `json:"load"`
	Capacity int           `json:"capacity"`
}

func (p *Plan) Overloaded() []OverloadedSlot {
	var out []OverloadedSlot
	for _, w := range p.Windows {
		for _, o := range w.Result.Overloaded {
			out = append(out, OverloadedSlot{
				Window:   w.Window,
				Slot:     o.Slot,
				Load:     o.Load,
				Capacity: o.Capacity,
			})
		}
	}
	return out
}

// Summary reports a persisted run.
type Summary struct {
	RunID           string           `json:"run_id"`
	Date            string           `json:"generated_for"`
	Users           int              `json:"users"`
	Recommendations int              `json:"recommendations"`
	Displaced       int              `json:"displaced"`
	Overloaded      []OverloadedSlot `json:"overloaded"`
	NudgesQueued    int              `json:"nudges_queued"`
}
