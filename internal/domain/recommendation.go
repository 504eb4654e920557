package domain

import (
	"time"
)

type Recommendation struct {
	UserID          int64     `json:"user_id"`
	Date            time.Time `json:"date"`
	Window          Window    `json:"window"`
	SlotStart       time.Time `json:"slot_start"`
	PredictedETAMin int       `json:"predicted_eta_min"`
	Rank            int       `json:"rank"`
	Chosen          bool      `json:"chosen"`
	Assigned        bool      `json:"assigned"`
}

func (r *Recommendation) SlotKey() string {
	return SlotKey(r.SlotStart)
}

type Nudge struct {
	UserID       int64
	Date         time.Time
	Window       Window
	FromSlot     time.Time
	ToSlot       time.Time
	RewardPoints int
	Accepted     bool
}
