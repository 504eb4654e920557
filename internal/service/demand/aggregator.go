package demand

import (
	"github.com/KasumiMercury/primind-commute-slots/internal/service/alternative"
)

// UserAlternatives is one user's ranked alternative list for a window.
type UserAlternatives struct {
	UserID       int64
	Alternatives []alternative.Candidate
}

// Demand is the unconstrained first-choice view of one window.
type Demand struct {
	// BySlot lists the users whose rank-1 alternative is the slot, in input order.
	BySlot map[string][]int64
	// SlotOrder holds slot keys in order of first appearance as a rank-1 choice.
	SlotOrder []string
	// Initial maps every user with a non-empty list to its rank-1 slot.
	Initial map[int64]string
	// UserOrder is the insertion order of Initial.
	UserOrder []int64
	// Alternatives holds each user's full list as slot keys.
	Alternatives map[int64][]string
	// Capacity covers every slot referenced by any list and known to the provider.
	Capacity map[string]int
}

// Aggregate groups users by their rank-1 alternative. Users with an empty
// list are skipped. Slots unknown to capacity are left out of Demand.Capacity.
func Aggregate(lists []UserAlternatives, capacity map[string]int) *Demand {
	d := &Demand{
		BySlot:       make(map[string][]int64),
		SlotOrder:    make([]string, 0),
		Initial:      make(map[int64]string, len(lists)),
		UserOrder:    make([]int64, 0, len(lists)),
		Alternatives: make(map[int64][]string, len(lists)),
		Capacity:     make(map[string]int),
	}

	for _, ua := range lists {
		if len(ua.Alternatives) == 0 {
			continue
		}
		if _, dup := d.Initial[ua.UserID]; dup {
			continue
		}

		keys := alternative.Keys(ua.Alternatives)
		first := keys[0]

		if _, seen := d.BySlot[first]; !seen {
			d.SlotOrder = append(d.SlotOrder, first)
		}
		d.BySlot[first] = append(d.BySlot[first], ua.UserID)
		d.Initial[ua.UserID] = first
		d.UserOrder = append(d.UserOrder, ua.UserID)
		d.Alternatives[ua.UserID] = keys

		for _, key := range keys {
			if c, ok := capacity[key]; ok {
				d.Capacity[key] = c
			}
		}
	}

	return d
}
