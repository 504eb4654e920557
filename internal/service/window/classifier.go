package window

import (
	"errors"
	"fmt"
	"time"

	"github.com/KasumiMercury/primind-commute-slots/internal/domain"
)

const DefaultBinWidth = 5 * time.Minute

var (
	ErrInvalidClock  = errors.New("clock must be HH:MM")
	ErrInvalidBounds = errors.New("window start is after its end")
	ErrOverlap       = errors.New("morning and afternoon windows overlap")
	ErrInvalidWidth  = errors.New("bin width must be positive")
)

// Bounds is an inclusive time-of-day range, as offsets from midnight.
type Bounds struct {
	Start time.Duration
	End   time.Duration
}

func (b Bounds) contains(offset time.Duration) bool {
	return b.Start <= offset && offset <= b.End
}

// ParseBounds reads two "HH:MM" clocks.
func ParseBounds(start, end string) (Bounds, error) {
	s, err := parseClock(start)
	if err != nil {
		return Bounds{}, fmt.Errorf("start %q: %w", start, err)
	}
	e, err := parseClock(end)
	if err != nil {
		return Bounds{}, fmt.Errorf("end %q: %w", end, err)
	}
	if s > e {
		return Bounds{}, fmt.Errorf("%s-%s: %w", start, end, ErrInvalidBounds)
	}
	return Bounds{Start: s, End: e}, nil
}

func DefaultMorning() Bounds {
	return Bounds{Start: 7*time.Hour + 30*time.Minute, End: 10*time.Hour + 30*time.Minute}
}

func DefaultAfternoon() Bounds {
	return Bounds{Start: 16 * time.Hour, End: 20 * time.Hour}
}

type Classifier struct {
	morning   Bounds
	afternoon Bounds
	width     time.Duration
}

func NewClassifier(morning, afternoon Bounds, width time.Duration) (*Classifier, error) {
	if width <= 0 {
		return nil, ErrInvalidWidth
	}
	if morning.Start > morning.End || afternoon.Start > afternoon.End {
		return nil, ErrInvalidBounds
	}
	if morning.contains(afternoon.Start) || afternoon.contains(morning.Start) {
		return nil, ErrOverlap
	}

	return &Classifier{
		morning:   morning,
		afternoon: afternoon,
		width:     width,
	}, nil
}

func NewDefaultClassifier() *Classifier {
	return &Classifier{
		morning:   DefaultMorning(),
		afternoon: DefaultAfternoon(),
		width:     DefaultBinWidth,
	}
}

func (c *Classifier) BinWidth() time.Duration {
	return c.width
}

// Classify returns the window whose inclusive bounds contain the wall clock
// of t. Times outside both windows report false.
func (c *Classifier) Classify(t time.Time) (domain.Window, bool) {
	offset := sinceMidnight(t)

	switch {
	case c.morning.contains(offset):
		return domain.WindowMorning, true
	case c.afternoon.contains(offset):
		return domain.WindowAfternoon, true
	default:
		return "", false
	}
}

// Bins lists the bin starts of w on date, from the window start up to and
// including its end.
func (c *Classifier) Bins(date time.Time, w domain.Window) []time.Time {
	var b Bounds
	switch w {
	case domain.WindowMorning:
		b = c.morning
	case domain.WindowAfternoon:
		b = c.afternoon
	default:
		return nil
	}

	day := domain.DateOf(date)
	var out []time.Time
	for offset := b.Start; offset <= b.End; offset += c.width {
		out = append(out, day.Add(offset))
	}
	return out
}

// Split groups slots by window, keeping input order. Slots outside both
// windows are dropped.
func (c *Classifier) Split(slots []domain.Slot) map[domain.Window][]domain.Slot {
	out := make(map[domain.Window][]domain.Slot, len(domain.Windows))
	for _, s := range slots {
		w, ok := c.Classify(s.Start)
		if !ok {
			continue
		}
		out[w] = append(out[w], s)
	}
	return out
}

func sinceMidnight(t time.Time) time.Duration {
	return time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second
}

func parseClock(clock string) (time.Duration, error) {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return 0, ErrInvalidClock
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}
