package domain

// FairnessDelta is the mutation intent produced for one user displaced in
// one window.
type FairnessDelta struct {
	UserID            int64
	Window            Window
	FairnessIncrement int
	QuotaDecrement    int
}

// UserDelta is the per-run fold of a user's FairnessDelta values, already
// clamped so that the quota never goes below zero.
type UserDelta struct {
	UserID            int64
	FairnessIncrement int
	QuotaDecrement    int
}

func (d UserDelta) IsZero() bool {
	return d.FairnessIncrement == 0 && d.QuotaDecrement == 0
}
