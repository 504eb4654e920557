package capacity

import (
	"errors"
	"testing"
	"time"
)

func at(clock string) time.Time {
	t, err := time.Parse("2006-01-02 15:04", "2026-03-02 "+clock)
	if err != nil {
		panic(err)
	}
	return t
}

func TestSchedule_CapacityFor_Fallback(t *testing.T) {
	s := MustFallback()

	tests := []struct {
		clock string
		want  int
	}{
		{"07:29", 420},
		{"07:30", 340},
		{"09:00", 340},
		{"10:30", 340},
		{"10:31", 420},
		{"15:59", 420},
		{"16:00", 340},
		{"20:00", 340},
		{"20:05", 420},
		{"23:59", 420},
		{"00:00", 420},
	}

	for _, tt := range tests {
		t.Run(tt.clock, func(t *testing.T) {
			if got := s.CapacityFor(at(tt.clock)); got != tt.want {
				t.Errorf("CapacityFor(%s) = %d, want %d", tt.clock, got, tt.want)
			}
		})
	}
}

func TestSchedule_FirstRuleWins(t *testing.T) {
	s, err := NewSchedule([]Rule{
		{Start: "08:00", End: "08:30", Capacity: 5},
		{Start: "07:00", End: "09:00", Capacity: 50},
	}, DefaultCapacity)
	if err != nil {
		t.Fatalf("NewSchedule() error = %v", err)
	}

	if got := s.CapacityFor(at("08:15")); got != 5 {
		t.Errorf("CapacityFor(08:15) = %d, want 5", got)
	}
	if got := s.CapacityFor(at("08:45")); got != 50 {
		t.Errorf("CapacityFor(08:45) = %d, want 50", got)
	}
	if got := s.CapacityFor(at("12:00")); got != DefaultCapacity {
		t.Errorf("CapacityFor(12:00) = %d, want %d", got, DefaultCapacity)
	}
}

func TestSchedule_NoRules(t *testing.T) {
	s, err := NewSchedule(nil, 7)
	if err != nil {
		t.Fatalf("NewSchedule() error = %v", err)
	}

	if got := s.CapacityFor(at("08:00")); got != 7 {
		t.Errorf("CapacityFor() = %d, want 7", got)
	}
}

func TestNewSchedule_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		rules   []Rule
		def     int
		wantErr error
	}{
		{
			name:    "bad start",
			rules:   []Rule{{Start: "7.30", End: "08:00", Capacity: 1}},
			def:     DefaultCapacity,
			wantErr: ErrInvalidClock,
		},
		{
			name:    "bad end",
			rules:   []Rule{{Start: "07:30", End: "25:00", Capacity: 1}},
			def:     DefaultCapacity,
			wantErr: ErrInvalidClock,
		},
		{
			name:    "inverted",
			rules:   []Rule{{Start: "09:00", End: "08:00", Capacity: 1}},
			def:     DefaultCapacity,
			wantErr: ErrInvertedRule,
		},
		{
			name:    "negative capacity",
			rules:   []Rule{{Start: "07:00", End: "08:00", Capacity: -1}},
			def:     DefaultCapacity,
			wantErr: ErrInvalidCapacity,
		},
		{
			name:    "negative default",
			def:     -1,
			wantErr: ErrInvalidCapacity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSchedule(tt.rules, tt.def)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("NewSchedule() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
