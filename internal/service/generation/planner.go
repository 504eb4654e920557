package generation

import (
	"context"
	"log/slog"
	"time"

	"github.com/KasumiMercury/primind-commute-slots/internal/domain"
	"github.com/KasumiMercury/primind-commute-slots/internal/observability/tracing"
	"github.com/KasumiMercury/primind-commute-slots/internal/service/allocation"
	"github.com/KasumiMercury/primind-commute-slots/internal/service/alternative"
	"github.com/KasumiMercury/primind-commute-slots/internal/service/demand"
	"github.com/KasumiMercury/primind-commute-slots/internal/service/fairness"
	"github.com/KasumiMercury/primind-commute-slots/internal/service/window"
)

const DefaultRewardPoints = 10

// Planner turns a snapshot into a Plan. It performs no I/O.
type Planner struct {
	selector     *alternative.Selector
	engine       *allocation.Engine
	classifier   *window.Classifier
	rewardPoints int
}

func NewPlanner(selector *alternative.Selector, engine *allocation.Engine, classifier *window.Classifier, rewardPoints int) *Planner {
	if rewardPoints < 0 {
		rewardPoints = DefaultRewardPoints
	}
	return &Planner{
		selector:     selector,
		engine:       engine,
		classifier:   classifier,
		rewardPoints: rewardPoints,
	}
}

// Plan resolves the morning window, then the afternoon window. Both use the
// movable set and priority order of the user snapshot; fairness and quota
// deltas are folded only after every window is resolved.
func (p *Planner) Plan(ctx context.Context, snap Snapshot) *Plan {
	date := domain.DateOf(snap.Date)
	ledger := fairness.NewLedger(snap.Users)
	byWindow := p.classifier.Split(snap.Slots)

	movable := ledger.Movable()
	priority := ledger.Priority()

	plan := &Plan{Date: date}

	for _, w := range domain.Windows {
		outcome := p.planWindow(ctx, w, snap, byWindow[w], movable, priority, ledger, plan)
		plan.Windows = append(plan.Windows, outcome)
	}

	plan.UserDeltas = ledger.Summarize()
	return plan
}

func (p *Planner) planWindow(ctx context.Context, w domain.Window, snap Snapshot, slots []domain.Slot, movable map[int64]bool, priority []int64, ledger *fairness.Ledger, plan *Plan) WindowOutcome {
	ctx, span := tracing.StartWindowSpan(ctx, w.String(), len(snap.Users), len(slots))
	defer span.End()

	pool := make([]alternative.Candidate, 0, len(slots))
	capacity := make(map[string]int, len(slots))
	for _, s := range slots {
		capacity[s.Key()] = s.Capacity
		minutes, ok := snap.ETAs[s.Key()]
		if !ok {
			continue
		}
		pool = append(pool, alternative.Candidate{Start: s.Start, ETAMinutes: minutes})
	}

	lists := make([]demand.UserAlternatives, 0, len(snap.Users))
	etaByUser := make(map[int64]map[string]alternative.Candidate, len(snap.Users))
	for _, u := range snap.Users {
		alts := p.selector.Generate(u.ID, pool)
		if len(alts) == 0 {
			continue
		}
		lists = append(lists, demand.UserAlternatives{UserID: u.ID, Alternatives: alts})

		byKey := make(map[string]alternative.Candidate, len(alts))
		for _, c := range alts {
			byKey[c.Key()] = c
		}
		etaByUser[u.ID] = byKey
	}

	d := demand.Aggregate(lists, capacity)

	result := p.engine.Resolve(ctx, allocation.Input{
		Initial:      d.Initial,
		UserOrder:    d.UserOrder,
		Capacity:     d.Capacity,
		Alternatives: d.Alternatives,
		Movable:      movable,
		Priority:     priority,
	})

	deltas := ledger.Record(w, d.UserOrder, result.Assignment, d.Alternatives)

	for _, id := range d.UserOrder {
		assigned := result.Assignment[id]
		keys := d.Alternatives[id]

		for i, key := range keys {
			c := etaByUser[id][key]
			rank := i + 1
			plan.Recommendations = append(plan.Recommendations, domain.Recommendation{
				UserID:          id,
				Date:            plan.Date,
				Window:          w,
				SlotStart:       c.Start,
				PredictedETAMin: c.ETAMinutes,
				Rank:            rank,
				Chosen:          assigned == key && rank == 1,
				Assigned:        assigned == key,
			})
		}

		if assigned != keys[0] {
			plan.Nudges = append(plan.Nudges, domain.Nudge{
				UserID:       id,
				Date:         plan.Date,
				Window:       w,
				FromSlot:     etaByUser[id][keys[0]].Start,
				ToSlot:       etaByUser[id][assigned].Start,
				RewardPoints: p.rewardPoints,
			})
		}
	}

	load := result.Load()
	movedIn, movedOut := movement(d.Initial, result.Assignment)
	for _, s := range slots {
		key := s.Key()
		plan.SlotLoads = append(plan.SlotLoads, domain.SlotLoad{Start: s.Start, Assigned: load[key]})
		plan.SlotRecords = append(plan.SlotRecords, domain.SlotAllocationRecord{
			Date:          plan.Date,
			Window:        w.String(),
			SlotTime:      s.Start,
			Capacity:      s.Capacity,
			DemandCount:   len(d.BySlot[key]),
			AssignedCount: load[key],
			MovedIn:       movedIn[key],
			MovedOut:      movedOut[key],
		})
	}

	slog.InfoContext(ctx, "window allocated",
		slog.String("window", w.String()),
		slog.Int("users", len(d.UserOrder)),
		slog.Int("slots", len(slots)),
		slog.Int("displaced", len(result.Displaced)),
		slog.Int("overloaded_slots", len(result.Overloaded)),
		slog.Int("passes", result.Passes),
	)
	for _, o := range result.Overloaded {
		slog.WarnContext(ctx, "slot left over capacity",
			slog.String("window", w.String()),
			slog.String("slot", o.Slot),
			slog.Int("load", o.Load),
			slog.Int("capacity", o.Capacity),
		)
	}

	tracing.RecordWindowResult(span, len(result.Displaced), len(result.Overloaded), result.Passes)

	return WindowOutcome{
		Window:    w,
		Slots:     len(slots),
		Demand:    d,
		Result:    result,
		Deltas:    deltas,
		Displaced: len(result.Displaced),
	}
}

func movement(initial, final map[int64]string) (in, out map[string]int) {
	in = make(map[string]int)
	out = make(map[string]int)
	for user, from := range initial {
		to := final[user]
		if to == from {
			continue
		}
		out[from]++
		in[to]++
	}
	return in, out
}

// SlotStartsOf lists the start time of each slot.
func SlotStartsOf(slots []domain.Slot) []time.Time {
	out := make([]time.Time, len(slots))
	for i, s := range slots {
		out[i] = s.Start
	}
	return out
}
