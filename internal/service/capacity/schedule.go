package capacity

import (
	"errors"
	"fmt"
	"time"
)

// DefaultCapacity applies to any time of day no rule covers.
const DefaultCapacity = 420

var (
	ErrInvalidClock    = errors.New("clock must be HH:MM")
	ErrInvalidCapacity = errors.New("capacity must not be negative")
	ErrInvertedRule    = errors.New("rule start is after its end")
)

type Rule struct {
	Start    string `json:"start" yaml:"start"`
	End      string `json:"end" yaml:"end"`
	Capacity int    `json:"capacity" yaml:"capacity"`
}

// FallbackRules are used when no rule file is configured or it cannot be read.
func FallbackRules() []Rule {
	return []Rule{
		{Start: "07:30", End: "10:30", Capacity: 340},
		{Start: "16:00", End: "20:00", Capacity: 340},
		{Start: "00:00", End: "23:59", Capacity: 420},
	}
}

type rule struct {
	start    int
	end      int
	capacity int
}

// Schedule maps a time of day to the admission capacity of its bin.
type Schedule struct {
	rules           []rule
	defaultCapacity int
}

func NewSchedule(rules []Rule, defaultCapacity int) (*Schedule, error) {
	if defaultCapacity < 0 {
		return nil, fmt.Errorf("default capacity %d: %w", defaultCapacity, ErrInvalidCapacity)
	}

	var errs []error
	parsed := make([]rule, 0, len(rules))

	for i, r := range rules {
		start, err := parseClock(r.Start)
		if err != nil {
			errs = append(errs, fmt.Errorf("rule %d start %q: %w", i, r.Start, err))
			continue
		}
		end, err := parseClock(r.End)
		if err != nil {
			errs = append(errs, fmt.Errorf("rule %d end %q: %w", i, r.End, err))
			continue
		}
		if start > end {
			errs = append(errs, fmt.Errorf("rule %d %s-%s: %w", i, r.Start, r.End, ErrInvertedRule))
			continue
		}
		if r.Capacity < 0 {
			errs = append(errs, fmt.Errorf("rule %d capacity %d: %w", i, r.Capacity, ErrInvalidCapacity))
			continue
		}
		parsed = append(parsed, rule{start: start, end: end, capacity: r.Capacity})
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return &Schedule{
		rules:           parsed,
		defaultCapacity: defaultCapacity,
	}, nil
}

// MustFallback builds the schedule of FallbackRules.
func MustFallback() *Schedule {
	s, err := NewSchedule(FallbackRules(), DefaultCapacity)
	if err != nil {
		panic(err)
	}
	return s
}

// CapacityFor returns the capacity of the first rule whose inclusive range
// contains the minute of day of t.
func (s *Schedule) CapacityFor(t time.Time) int {
	minute := t.Hour()*60 + t.Minute()

	for _, r := range s.rules {
		if r.start <= minute && minute <= r.end {
			return r.capacity
		}
	}

	return s.defaultCapacity
}

func parseClock(clock string) (int, error) {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return 0, ErrInvalidClock
	}
	return t.Hour()*60 + t.Minute(), nil
}
