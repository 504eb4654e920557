package alternative

import (
	"sort"
	"time"

	"github.com/KasumiMercury/primind-commute-slots/internal/domain"
)

const (
	DefaultMaxAlternatives = 3
	DefaultMinSpacing      = 10 * time.Minute
)

// Candidate is a slot scored by its predicted travel time.
type Candidate struct {
	Start      time.Time
	ETAMinutes int
}

func (c Candidate) Key() string {
	return domain.SlotKey(c.Start)
}

type Selector struct {
	maxAlternatives int
	minSpacing      time.Duration
}

func NewSelector(maxAlternatives int, minSpacing time.Duration) *Selector {
	if maxAlternatives <= 0 {
		maxAlternatives = DefaultMaxAlternatives
	}
	if minSpacing < 0 {
		minSpacing = 0
	}
	return &Selector{
		maxAlternatives: maxAlternatives,
		minSpacing:      minSpacing,
	}
}

// Generate ranks the pool by ETA and greedily keeps candidates that are at
// least minSpacing away from every candidate already kept. The pool is not
// modified. An empty pool yields nil.
func (s *Selector) Generate(_ int64, pool []Candidate) []Candidate {
	if len(pool) == 0 {
		return nil
	}

	scored := make([]Candidate, len(pool))
	copy(scored, pool)
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].ETAMinutes < scored[j].ETAMinutes
	})

	top := make([]Candidate, 0, s.maxAlternatives)
	for _, c := range scored {
		if s.spacedFromAll(c, top) {
			top = append(top, c)
		}
		if len(top) >= s.maxAlternatives {
			break
		}
	}

	if len(top) == 0 {
		return []Candidate{scored[0]}
	}

	return top
}

func (s *Selector) spacedFromAll(c Candidate, accepted []Candidate) bool {
	for _, a := range accepted {
		gap := c.Start.Sub(a.Start)
		if gap < 0 {
			gap = -gap
		}
		if gap < s.minSpacing {
			return false
		}
	}
	return true
}

// Keys returns the slot keys of an alternative list, preserving rank order.
func Keys(list []Candidate) []string {
	keys := make([]string, len(list))
	for i, c := range list {
		keys[i] = c.Key()
	}
	return keys
}
