package window

import (
	"errors"
	"testing"
	"time"

	"github.com/KasumiMercury/primind-commute-slots/internal/domain"
)

func at(h, m int) time.Time {
	return time.Date(2026, 3, 2, h, m, 0, 0, time.UTC)
}

func TestClassifier_Classify(t *testing.T) {
	classifier := NewDefaultClassifier()

	tests := []struct {
		name       string
		at         time.Time
		wantWindow domain.Window
		wantOK     bool
	}{
		{name: "before morning", at: at(7, 25), wantOK: false},
		{name: "morning start is inclusive", at: at(7, 30), wantWindow: domain.WindowMorning, wantOK: true},
		{name: "morning peak", at: at(8, 30), wantWindow: domain.WindowMorning, wantOK: true},
		{name: "morning end is inclusive", at: at(10, 30), wantWindow: domain.WindowMorning, wantOK: true},
		{name: "after morning", at: at(10, 35), wantOK: false},
		{name: "midday", at: at(13, 0), wantOK: false},
		{name: "afternoon start is inclusive", at: at(16, 0), wantWindow: domain.WindowAfternoon, wantOK: true},
		{name: "afternoon end is inclusive", at: at(20, 0), wantWindow: domain.WindowAfternoon, wantOK: true},
		{name: "after afternoon", at: at(20, 5), wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := classifier.Classify(tt.at)

			if ok != tt.wantOK {
				t.Fatalf("Classify() ok = %v, want %v", ok, tt.wantOK)
			}
			if got != tt.wantWindow {
				t.Errorf("Classify() = %v, want %v", got, tt.wantWindow)
			}
		})
	}
}

func TestClassifier_Bins(t *testing.T) {
	classifier := NewDefaultClassifier()
	date := time.Date(2026, 3, 2, 15, 45, 0, 0, time.UTC)

	morning := classifier.Bins(date, domain.WindowMorning)
	if len(morning) != 37 {
		t.Fatalf("len(morning bins) = %d, want 37", len(morning))
	}
	if !morning[0].Equal(at(7, 30)) {
		t.Errorf("first morning bin = %v, want 07:30", morning[0])
	}
	if !morning[len(morning)-1].Equal(at(10, 30)) {
		t.Errorf("last morning bin = %v, want 10:30", morning[len(morning)-1])
	}

	afternoon := classifier.Bins(date, domain.WindowAfternoon)
	if len(afternoon) != 49 {
		t.Fatalf("len(afternoon bins) = %d, want 49", len(afternoon))
	}

	for i := 1; i < len(afternoon); i++ {
		if got := afternoon[i].Sub(afternoon[i-1]); got != DefaultBinWidth {
			t.Errorf("bin %d spacing = %v, want %v", i, got, DefaultBinWidth)
		}
	}

	if bins := classifier.Bins(date, domain.Window("night")); bins != nil {
		t.Errorf("Bins(unknown) = %v, want nil", bins)
	}
}

func TestClassifier_Split(t *testing.T) {
	classifier := NewDefaultClassifier()

	slots := []domain.Slot{
		{Start: at(8, 0)},
		{Start: at(12, 0)},
		{Start: at(17, 0)},
		{Start: at(7, 30)},
	}

	got := classifier.Split(slots)

	if len(got[domain.WindowMorning]) != 2 {
		t.Errorf("morning slots = %d, want 2", len(got[domain.WindowMorning]))
	}
	if !got[domain.WindowMorning][1].Start.Equal(at(7, 30)) {
		t.Errorf("morning order not preserved: %v", got[domain.WindowMorning])
	}
	if len(got[domain.WindowAfternoon]) != 1 {
		t.Errorf("afternoon slots = %d, want 1", len(got[domain.WindowAfternoon]))
	}
}

func TestNewClassifier(t *testing.T) {
	morning, err := ParseBounds("06:00", "09:00")
	if err != nil {
		t.Fatalf("ParseBounds() error = %v", err)
	}

	tests := []struct {
		name      string
		morning   Bounds
		afternoon Bounds
		width     time.Duration
		wantErr   error
	}{
		{name: "valid", morning: morning, afternoon: DefaultAfternoon(), width: 10 * time.Minute},
		{name: "zero width", morning: morning, afternoon: DefaultAfternoon(), width: 0, wantErr: ErrInvalidWidth},
		{name: "overlap", morning: morning, afternoon: Bounds{Start: 8 * time.Hour, End: 12 * time.Hour}, width: time.Minute, wantErr: ErrOverlap},
		{name: "inverted", morning: Bounds{Start: 9 * time.Hour, End: 8 * time.Hour}, afternoon: DefaultAfternoon(), width: time.Minute, wantErr: ErrInvalidBounds},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClassifier(tt.morning, tt.afternoon, tt.width)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("NewClassifier() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseBounds_Invalid(t *testing.T) {
	if _, err := ParseBounds("7:3x", "08:00"); !errors.Is(err, ErrInvalidClock) {
		t.Errorf("ParseBounds() error = %v, want %v", err, ErrInvalidClock)
	}
	if _, err := ParseBounds("09:00", "08:00"); !errors.Is(err, ErrInvalidBounds) {
		t.Errorf("ParseBounds() error = %v, want %v", err, ErrInvalidBounds)
	}
}
