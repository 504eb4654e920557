package domain

import (
	"time"
)

// SlotLoad is the final assigned count of a slot after a generation run.
type SlotLoad struct {
	Start    time.Time
	Assigned int
}

// GenerationCommit is everything a generation run writes, applied atomically.
type GenerationCommit struct {
	Date            time.Time
	Recommendations []Recommendation
	UserDeltas      []UserDelta
	SlotLoads       []SlotLoad
	Nudges          []Nudge
}
