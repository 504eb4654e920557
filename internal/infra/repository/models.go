package repository

import (
	"time"
)

type employerModel struct {
	ID        int64  `gorm:"column:id;primaryKey"`
	Name      string `gorm:"column:name;size:255;not null;uniqueIndex"`
	CreatedAt time.Time
}

func (employerModel) TableName() string { return "employers" }

type userModel struct {
	ID            int64  `gorm:"column:id;primaryKey"`
	EmployerID    *int64 `gorm:"column:employer_id;index"`
	HomeZone      string `gorm:"column:home_zone;size:64;not null"`
	WorkZone      string `gorm:"column:work_zone;size:64;not null"`
	FlexMinusMin  int    `gorm:"column:flex_minus_min;not null;default:0"`
	FlexPlusMin   int    `gorm:"column:flex_plus_min;not null;default:0"`
	FairnessScore int    `gorm:"column:fairness_score;not null;default:0"`
	NudgeQuota    int    `gorm:"column:nudge_quota;not null;default:2"`
	CreatedAt     time.Time
}

func (userModel) TableName() string { return "users" }

type slotModel struct {
	ID             int64     `gorm:"column:id;primaryKey"`
	ServiceDate    string    `gorm:"column:service_date;size:10;not null;uniqueIndex:idx_slots_date_start,priority:1"`
	StartTS        time.Time `gorm:"column:start_ts;not null;uniqueIndex:idx_slots_date_start,priority:2"`
	Capacity       int       `gorm:"column:capacity;not null"`
	AllocatedCount int       `gorm:"column:allocated_count;not null;default:0"`
}

func (slotModel) TableName() string { return "slots" }

type recommendationModel struct {
	ID              int64     `gorm:"column:id;primaryKey"`
	UserID          int64     `gorm:"column:user_id;not null;index:idx_recs_user_date,priority:1"`
	ServiceDate     string    `gorm:"column:service_date;size:10;not null;index:idx_recs_user_date,priority:2;index"`
	Window          string    `gorm:"column:window_name;size:16;not null"`
	SlotStart       time.Time `gorm:"column:slot_start;not null"`
	PredictedETAMin int       `gorm:"column:predicted_eta_min;not null"`
	Rank            int       `gorm:"column:rank;not null"`
	Chosen          bool      `gorm:"column:chosen_bool;not null;default:false"`
	Assigned        bool      `gorm:"column:assigned;not null;default:false"`
	CreatedAt       time.Time
}

func (recommendationModel) TableName() string { return "recommendations" }

type nudgeModel struct {
	ID           int64     `gorm:"column:id;primaryKey"`
	UserID       int64     `gorm:"column:user_id;not null;index:idx_nudges_user_date,priority:1"`
	ServiceDate  string    `gorm:"column:service_date;size:10;not null;index:idx_nudges_user_date,priority:2;index"`
	Window       string    `gorm:"column:window_name;size:16;not null"`
	FromSlot     time.Time `gorm:"column:from_slot;not null"`
	ToSlot       time.Time `gorm:"column:to_slot;not null"`
	RewardPoints int       `gorm:"column:reward_points;not null"`
	Accepted     bool      `gorm:"column:accepted;not null;default:false"`
	CreatedAt    time.Time
}

func (nudgeModel) TableName() string { return "nudges" }

func allModels() []any {
	return []any{
		&employerModel{},
		&userModel{},
		&slotModel{},
		&recommendationModel{},
		&nudgeModel{},
	}
}
