package fairness

import (
	"sort"

	"github.com/KasumiMercury/primind-commute-slots/internal/domain"
)

type account struct {
	fairness int
	quota    int
}

// Ledger emits the fairness and quota deltas of one generation run. Movable
// and Priority read the user snapshot only, so every window of the run is
// resolved against the same state. The running accounts exist to clamp
// quota across windows: scores grow, quotas shrink and never go below zero.
type Ledger struct {
	order    []int64
	snapshot map[int64]account
	accounts map[int64]*account
}

func NewLedger(users []domain.User) *Ledger {
	l := &Ledger{
		order:    make([]int64, 0, len(users)),
		snapshot: make(map[int64]account, len(users)),
		accounts: make(map[int64]*account, len(users)),
	}

	for _, u := range users {
		if _, ok := l.accounts[u.ID]; ok {
			continue
		}
		quota := max(u.NudgeQuota, 0)
		l.order = append(l.order, u.ID)
		l.snapshot[u.ID] = account{fairness: u.FairnessScore, quota: quota}
		l.accounts[u.ID] = &account{fairness: u.FairnessScore, quota: quota}
	}

	return l
}

// Movable returns the users whose snapshot quota is positive.
func (l *Ledger) Movable() map[int64]bool {
	movable := make(map[int64]bool, len(l.snapshot))
	for id, a := range l.snapshot {
		if a.quota > 0 {
			movable[id] = true
		}
	}
	return movable
}

// Priority orders users by ascending snapshot fairness score, then by
// descending snapshot quota. Ties keep snapshot order.
func (l *Ledger) Priority() []int64 {
	out := make([]int64, len(l.order))
	copy(out, l.order)

	sort.SliceStable(out, func(i, j int) bool {
		a, b := l.snapshot[out[i]], l.snapshot[out[j]]
		if a.fairness != b.fairness {
			return a.fairness < b.fairness
		}
		return a.quota > b.quota
	})

	return out
}

// Record emits a delta for every user in order whose final slot differs from
// the rank-1 entry of its list, and applies it to the running accounts.
// Quota is only charged while the running account still has some.
func (l *Ledger) Record(window domain.Window, order []int64, final map[int64]string, lists map[int64][]string) []domain.FairnessDelta {
	var out []domain.FairnessDelta

	for _, id := range order {
		slot, ok := final[id]
		if !ok {
			continue
		}
		alts := lists[id]
		if len(alts) == 0 || alts[0] == slot {
			continue
		}

		a := l.account(id)
		delta := domain.FairnessDelta{
			UserID:            id,
			Window:            window,
			FairnessIncrement: 1,
		}
		if a.quota > 0 {
			delta.QuotaDecrement = 1
			a.quota--
		}
		a.fairness++

		out = append(out, delta)
	}

	return out
}

// Summarize folds the recorded deltas into one entry per touched user,
// in snapshot order.
func (l *Ledger) Summarize() []domain.UserDelta {
	var out []domain.UserDelta

	for _, id := range l.order {
		before := l.snapshot[id]
		after := l.accounts[id]

		d := domain.UserDelta{
			UserID:            id,
			FairnessIncrement: after.fairness - before.fairness,
			QuotaDecrement:    before.quota - after.quota,
		}
		if !d.IsZero() {
			out = append(out, d)
		}
	}

	return out
}

func (l *Ledger) account(id int64) *account {
	if a, ok := l.accounts[id]; ok {
		return a
	}

	a := &account{}
	l.order = append(l.order, id)
	l.snapshot[id] = account{}
	l.accounts[id] = a
	return a
}
