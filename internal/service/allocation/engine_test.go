package allocation

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sameList(n int, alts ...string) map[int64][]string {
	out := make(map[int64][]string, n)
	for i := 1; i <= n; i++ {
		out[int64(i)] = alts
	}
	return out
}

func allAt(n int, slot string) map[int64]string {
	out := make(map[int64]string, n)
	for i := 1; i <= n; i++ {
		out[int64(i)] = slot
	}
	return out
}

func ids(n int) []int64 {
	out := make([]int64, n)
	for i := range out {
		out[i] = int64(i + 1)
	}
	return out
}

func TestResolve_SevenUsersOnOneSlot(t *testing.T) {
	engine := NewEngine()

	in := Input{
		Initial:      allAt(7, "A"),
		UserOrder:    ids(7),
		Capacity:     map[string]int{"A": 2, "B": 2, "C": 2},
		Alternatives: sameList(7, "A", "B", "C"),
		Priority:     ids(7),
	}

	result := engine.Resolve(context.Background(), in)

	// Total capacity is 6, so one user more than capacity stays at A.
	want := map[int64]string{
		1: "B", 2: "B",
		3: "C", 4: "C",
		5: "A", 6: "A", 7: "A",
	}
	if diff := cmp.Diff(want, result.Assignment); diff != "" {
		t.Errorf("assignment mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, []int64{1, 2, 3, 4}, result.Displaced)
	assert.Equal(t, []Overload{{Slot: "A", Load: 3, Capacity: 2}}, result.Overloaded)
	assert.Len(t, result.Moves, 4)
}

func TestResolve_SevenUsersWithRoomDownstream(t *testing.T) {
	engine := NewEngine()

	in := Input{
		Initial:      allAt(7, "A"),
		UserOrder:    ids(7),
		Capacity:     map[string]int{"A": 2, "B": 2},
		Alternatives: sameList(7, "A", "B", "C"),
		Priority:     ids(7),
	}

	result := engine.Resolve(context.Background(), in)

	load := result.Load()
	assert.Equal(t, 2, load["A"])
	assert.Equal(t, 2, load["B"])
	assert.Equal(t, 3, load["C"])
	assert.Empty(t, result.Overloaded)

	// Lower ids absorb the displacement first.
	assert.Equal(t, []int64{1, 2, 3, 4, 5}, result.Displaced)
	assert.Equal(t, "A", result.Assignment[6])
	assert.Equal(t, "A", result.Assignment[7])
}

func TestResolve_PriorityOrderDecidesWhoMoves(t *testing.T) {
	engine := NewEngine()

	in := Input{
		Initial:      allAt(4, "A"),
		UserOrder:    ids(4),
		Capacity:     map[string]int{"A": 2},
		Alternatives: sameList(4, "A", "B"),
		Priority:     []int64{4, 3, 2, 1},
	}

	result := engine.Resolve(context.Background(), in)

	assert.Equal(t, []int64{3, 4}, result.Displaced)
	assert.Equal(t, "A", result.Assignment[1])
	assert.Equal(t, "A", result.Assignment[2])
}

func TestResolve_UsersMissingFromPriorityMoveLast(t *testing.T) {
	engine := NewEngine()

	in := Input{
		Initial:      allAt(4, "A"),
		UserOrder:    ids(4),
		Capacity:     map[string]int{"A": 3},
		Alternatives: sameList(4, "A", "B"),
		Priority:     []int64{3},
	}

	result := engine.Resolve(context.Background(), in)

	assert.Equal(t, []int64{3}, result.Displaced)
}

func TestResolve_SingleAlternativeIsNeverDisplaced(t *testing.T) {
	engine := NewEngine()

	in := Input{
		Initial:   map[int64]string{1: "A", 2: "A"},
		UserOrder: []int64{1, 2},
		Capacity:  map[string]int{"A": 1},
		Alternatives: map[int64][]string{
			1: {"A"},
			2: {"A"},
		},
	}

	result := engine.Resolve(context.Background(), in)

	assert.Equal(t, map[int64]string{1: "A", 2: "A"}, result.Assignment)
	assert.Empty(t, result.Displaced)
	assert.Empty(t, result.Moves)
	assert.Equal(t, []Overload{{Slot: "A", Load: 2, Capacity: 1}}, result.Overloaded)
	assert.Equal(t, 1, result.Passes)
}

func TestResolve_ImmovableUserStays(t *testing.T) {
	engine := NewEngine()

	in := Input{
		Initial:      allAt(3, "A"),
		UserOrder:    ids(3),
		Capacity:     map[string]int{"A": 1},
		Alternatives: sameList(3, "A", "B"),
		// User 1 has no quota left and is ranked first.
		Movable:  map[int64]bool{2: true, 3: true},
		Priority: []int64{1, 2, 3},
	}

	result := engine.Resolve(context.Background(), in)

	assert.Equal(t, "A", result.Assignment[1])
	assert.Equal(t, []int64{2, 3}, result.Displaced)
	assert.Empty(t, result.Overloaded)
}

func TestResolve_NoMovableUsersLeavesOverload(t *testing.T) {
	engine := NewEngine()

	in := Input{
		Initial:      allAt(3, "A"),
		UserOrder:    ids(3),
		Capacity:     map[string]int{"A": 1},
		Alternatives: sameList(3, "A", "B"),
		Movable:      map[int64]bool{},
	}

	result := engine.Resolve(context.Background(), in)

	assert.Empty(t, result.Displaced)
	require.Len(t, result.Overloaded, 1)
	assert.Equal(t, 3, result.Overloaded[0].Load)
}

func TestResolve_NilPriorityUsesUserOrder(t *testing.T) {
	engine := NewEngine()

	in := Input{
		Initial:      allAt(3, "A"),
		UserOrder:    []int64{3, 1, 2},
		Capacity:     map[string]int{"A": 2},
		Alternatives: sameList(3, "A", "B"),
	}

	result := engine.Resolve(context.Background(), in)

	assert.Equal(t, []int64{3}, result.Displaced)
}

func TestResolve_UnknownSlotIsUnconstrained(t *testing.T) {
	engine := NewEngine()

	in := Input{
		Initial:      allAt(5, "A"),
		UserOrder:    ids(5),
		Capacity:     map[string]int{},
		Alternatives: sameList(5, "A", "B"),
	}

	result := engine.Resolve(context.Background(), in)

	assert.Empty(t, result.Displaced)
	assert.Empty(t, result.Moves)
	assert.Empty(t, result.Overloaded)
	assert.Equal(t, 1, result.Passes)
}

func TestResolve_FullDestinationIsSkipped(t *testing.T) {
	engine := NewEngine()

	in := Input{
		Initial:   map[int64]string{1: "A", 2: "A", 3: "B"},
		UserOrder: []int64{1, 2, 3},
		Capacity:  map[string]int{"A": 1, "B": 1, "C": 1},
		Alternatives: map[int64][]string{
			1: {"A", "B", "C"},
			2: {"A", "B", "C"},
			3: {"B", "C"},
		},
	}

	result := engine.Resolve(context.Background(), in)

	assert.Equal(t, "C", result.Assignment[1])
	assert.Equal(t, "A", result.Assignment[2])
	assert.Equal(t, "B", result.Assignment[3])
	assert.Empty(t, result.Overloaded)
}

func TestResolve_EmptyInput(t *testing.T) {
	engine := NewEngine()

	result := engine.Resolve(context.Background(), Input{})

	assert.Empty(t, result.Assignment)
	assert.Empty(t, result.Displaced)
	assert.Empty(t, result.Overloaded)
	assert.Equal(t, 1, result.Passes)
}

func TestResolve_DoesNotMutateInput(t *testing.T) {
	engine := NewEngine()

	initial := allAt(4, "A")
	in := Input{
		Initial:      initial,
		UserOrder:    ids(4),
		Capacity:     map[string]int{"A": 1},
		Alternatives: sameList(4, "A", "B"),
	}

	_ = engine.Resolve(context.Background(), in)

	assert.Equal(t, allAt(4, "A"), initial)
}

func TestResolve_Properties(t *testing.T) {
	tests := []struct {
		name string
		in   Input
	}{
		{
			name: "mixed windows of choice",
			in: Input{
				Initial:   map[int64]string{1: "A", 2: "A", 3: "A", 4: "B", 5: "B", 6: "C"},
				UserOrder: []int64{1, 2, 3, 4, 5, 6},
				Capacity:  map[string]int{"A": 1, "B": 2, "C": 2, "D": 1},
				Alternatives: map[int64][]string{
					1: {"A", "B", "D"},
					2: {"A", "C"},
					3: {"A", "D", "C"},
					4: {"B", "C"},
					5: {"B"},
					6: {"C", "A"},
				},
				Priority: []int64{3, 1, 2, 6, 5, 4},
			},
		},
		{
			name: "overload with partial movable set",
			in: Input{
				Initial:      allAt(6, "A"),
				UserOrder:    ids(6),
				Capacity:     map[string]int{"A": 2, "B": 1, "C": 1},
				Alternatives: sameList(6, "A", "B", "C"),
				Movable:      map[int64]bool{1: true, 4: true, 6: true},
				Priority:     []int64{6, 4, 1},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := NewEngine()

			first := engine.Resolve(context.Background(), tt.in)

			// Every user ends on a slot from its own list.
			for user, slot := range first.Assignment {
				assert.Contains(t, tt.in.Alternatives[user], slot, "user %d", user)
			}

			// Only movable users leave their initial slot.
			for user, slot := range first.Assignment {
				if tt.in.Movable != nil && !tt.in.Movable[user] {
					assert.Equal(t, tt.in.Initial[user], slot, "user %d", user)
				}
			}

			// Moves never push a destination past capacity.
			load := first.Load()
			for _, m := range first.Moves {
				assert.LessOrEqual(t, load[m.To], capacityOf(tt.in.Capacity, m.To), "slot %s", m.To)
			}

			second := engine.Resolve(context.Background(), tt.in)
			if diff := cmp.Diff(first, second); diff != "" {
				t.Errorf("resolve is not deterministic (-first +second):\n%s", diff)
			}

			// Feeding the fixpoint back in makes no further moves.
			again := tt.in
			again.Initial = first.Assignment
			third := engine.Resolve(context.Background(), again)
			assert.Empty(t, third.Moves)
			assert.Equal(t, first.Assignment, third.Assignment)
		})
	}
}
