package domain

// Window is one of the two half-day periods resolved independently.
type Window string

const (
	WindowMorning   Window = "morning"
	WindowAfternoon Window = "afternoon"
)

// Windows lists the windows in the order a generation run resolves them.
var Windows = []Window{WindowMorning, WindowAfternoon}

func (w Window) String() string {
	return string(w)
}

func (w Window) IsMorning() bool {
	return w == WindowMorning
}

func (w Window) IsAfternoon() bool {
	return w == WindowAfternoon
}
