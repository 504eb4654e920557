package domain

type User struct {
	ID            int64
	EmployerID    *int64
	HomeZone      string
	WorkZone      string
	FlexMinusMin  int
	FlexPlusMin   int
	FairnessScore int
	NudgeQuota    int
}

// Movable reports whether the user may still absorb a displacement.
func (u *User) Movable() bool {
	return u.NudgeQuota > 0
}

type NewUser struct {
	HomeZone     string
	WorkZone     string
	FlexMinusMin int
	FlexPlusMin  int
	EmployerName string
	NudgeQuota   int
}
