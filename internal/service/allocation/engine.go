package allocation

import (
	"context"
	"log/slog"
	"sort"
)

// UnlimitedCapacity is used for slots missing from the capacity map.
const UnlimitedCapacity = 1_000_000_000

// Input is an isolated snapshot of one window's allocation problem.
type Input struct {
	// Initial maps each user to its starting slot, normally its rank-1 alternative.
	Initial map[int64]string
	// UserOrder fixes the iteration order over users. Users of Initial that
	// are missing here are appended in ascending id order.
	UserOrder []int64
	// Capacity per slot key. Missing slots are unconstrained.
	Capacity map[string]int
	// Alternatives holds each user's ranked slot keys.
	Alternatives map[int64][]string
	// Movable restricts displacement to the listed users. Nil means everybody.
	Movable map[int64]bool
	// Priority lists users in the order they should absorb displacement.
	// Nil means no preference.
	Priority []int64
}

type Move struct {
	UserID int64
	From   string
	To     string
}

type Overload struct {
	Slot     string
	Load     int
	Capacity int
}

type Result struct {
	Assignment map[int64]string
	// Displaced lists, in user order, users whose final slot is not their rank-1 alternative.
	Displaced []int64
	// Overloaded lists slots still above capacity at the fixpoint.
	Overloaded []Overload
	Moves      []Move
	Passes     int
}

// Load counts the final assignment per slot.
func (r *Result) Load() map[string]int {
	load := make(map[string]int)
	for _, slot := range r.Assignment {
		load[slot]++
	}
	return load
}

type Engine struct{}

func NewEngine() *Engine {
	return &Engine{}
}

// Resolve relieves overloaded slots by moving users down their own
// alternative lists until a pass makes no move.
//
// Each pass snapshots per-slot load once, visiting slots in the order they
// first appear while iterating users in user order. Only slots whose snapshot
// count exceeds capacity are processed in that pass. Moves update a working
// copy of the load immediately, and later capacity checks in the same pass
// read the working copy. A slot that becomes overloaded through moves made
// earlier in a pass is therefore handled in the next pass, which makes
// cross-slot outcomes depend on the snapshot order.
func (e *Engine) Resolve(ctx context.Context, in Input) *Result {
	order := userOrder(in)

	assignment := make(map[int64]string, len(in.Initial))
	for user, slot := range in.Initial {
		assignment[user] = slot
	}

	ranks := make(map[int64]int, len(in.Priority))
	for i, user := range in.Priority {
		if _, ok := ranks[user]; !ok {
			ranks[user] = i
		}
	}

	result := &Result{}

	for {
		result.Passes++
		changed := false

		slots, counts := snapshotLoad(order, assignment)
		working := make(map[string]int, len(slots))
		for i, slot := range slots {
			working[slot] = counts[i]
		}

		for i, slot := range slots {
			limit := capacityOf(in.Capacity, slot)
			if counts[i] <= limit {
				continue
			}

			queue := NewDisplacementQueue(counts[i])
			for _, user := range order {
				if assignment[user] != slot {
					continue
				}
				if in.Movable != nil && !in.Movable[user] {
					continue
				}
				rank, ok := ranks[user]
				if !ok {
					rank = unranked
				}
				queue.Enqueue(user, rank)
			}

			for queue.Len() > 0 {
				user := queue.Next()

				if next, ok := e.nextFeasible(in, user, slot, working); ok {
					assignment[user] = next
					working[slot]--
					working[next]++
					changed = true
					result.Moves = append(result.Moves, Move{UserID: user, From: slot, To: next})

					slog.DebugContext(ctx, "allocation: displaced user",
						slog.Int64("user_id", user),
						slog.String("from_slot", slot),
						slog.String("to_slot", next),
						slog.Int("pass", result.Passes),
					)
				}

				if working[slot] <= limit {
					break
				}
			}
		}

		if !changed {
			break
		}
	}

	result.Assignment = assignment
	result.Displaced = displaced(order, assignment, in.Alternatives)
	result.Overloaded = overloaded(order, assignment, in.Capacity)

	if len(result.Overloaded) > 0 {
		slog.DebugContext(ctx, "allocation: overload left unresolved",
			slog.Int("overloaded_slots", len(result.Overloaded)),
			slog.Int("passes", result.Passes),
		)
	}

	return result
}

// nextFeasible scans the user's alternatives strictly after slot and returns
// the first one whose working load is below capacity.
func (e *Engine) nextFeasible(in Input, user int64, slot string, working map[string]int) (string, bool) {
	alts := in.Alternatives[user]

	idx := -1
	for i, s := range alts {
		if s == slot {
			idx = i
			break
		}
	}
	if idx < 0 {
		return "", false
	}

	for _, next := range alts[idx+1:] {
		if working[next] < capacityOf(in.Capacity, next) {
			return next, true
		}
	}

	return "", false
}

func capacityOf(capacity map[string]int, slot string) int {
	if c, ok := capacity[slot]; ok {
		return c
	}
	return UnlimitedCapacity
}

func userOrder(in Input) []int64 {
	order := make([]int64, 0, len(in.Initial))
	seen := make(map[int64]bool, len(in.Initial))

	for _, user := range in.UserOrder {
		if _, ok := in.Initial[user]; !ok || seen[user] {
			continue
		}
		seen[user] = true
		order = append(order, user)
	}

	if len(order) < len(in.Initial) {
		rest := make([]int64, 0, len(in.Initial)-len(order))
		for user := range in.Initial {
			if !seen[user] {
				rest = append(rest, user)
			}
		}
		sort.Slice(rest, func(i, j int) bool { return rest[i] < rest[j] })
		order = append(order, rest...)
	}

	return order
}

func snapshotLoad(order []int64, assignment map[int64]string) ([]string, []int) {
	index := make(map[string]int)
	slots := make([]string, 0)
	counts := make([]int, 0)

	for _, user := range order {
		slot := assignment[user]
		i, ok := index[slot]
		if !ok {
			i = len(slots)
			index[slot] = i
			slots = append(slots, slot)
			counts = append(counts, 0)
		}
		counts[i]++
	}

	return slots, counts
}

func displaced(order []int64, assignment map[int64]string, alternatives map[int64][]string) []int64 {
	var out []int64
	for _, user := range order {
		alts := alternatives[user]
		if len(alts) == 0 {
			continue
		}
		if assignment[user] != alts[0] {
			out = append(out, user)
		}
	}
	return out
}

func overloaded(order []int64, assignment map[int64]string, capacity map[string]int) []Overload {
	slots, counts := snapshotLoad(order, assignment)

	var out []Overload
	for i, slot := range slots {
		limit := capacityOf(capacity, slot)
		if counts[i] > limit {
			out = append(out, Overload{Slot: slot, Load: counts[i], Capacity: limit})
		}
	}
	return out
}
