package core

import (
	"testing"
	"time"
)

func TestWeekStart(t *testing.T) {
	tests := []struct {
		name string
		in   Date
		want Date
	}{
		{"monday", NewDate(2024, 6, 3), NewDate(2024, 6, 3)},
		{"wednesday", NewDate(2024, 6, 5), NewDate(2024, 6, 3)},
		{"sunday", NewDate(2024, 6, 9), NewDate(2024, 6, 3)},
		{"next monday", NewDate(2024, 6, 10), NewDate(2024, 6, 10)},
		{"across month", NewDate(2024, 3, 2), NewDate(2024, 2, 26)},
		{"across year", NewDate(2025, 1, 1), NewDate(2024, 12, 30)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WeekStart(tt.in); !got.Equal(tt.want) {
				t.Errorf("WeekStart(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestIsSameWeek(t *testing.T) {
	now := time.Date(2024, 6, 5, 15, 4, 5, 0, time.Local)

	tests := []struct {
		date string
		want bool
	}{
		{"2024-06-03", true},  // Monday
		{"2024-06-09", true},  // Sunday
		{"2024-06-10", false}, // next Monday
		{"2024-06-02", false}, // previous Sunday
		{"2023-06-05", false},
	}

	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			d, err := ParseDate(tt.date)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if got := IsSameWeek(d, now); got != tt.want {
				t.Errorf("IsSameWeek(%s) = %v, want %v", tt.date, got, tt.want)
			}
		})
	}
}

func TestIsSameWeekWhenNowIsSunday(t *testing.T) {
	now := time.Date(2024, 6, 9, 23, 59, 0, 0, time.Local)
	if !IsSameWeek(NewDate(2024, 6, 3), now) {
		t.Error("Monday should share the week of the following Sunday")
	}
	if IsSameWeek(NewDate(2024, 6, 10), now) {
		t.Error("next Monday should not share the week")
	}
}

func TestIsSameWeekIgnoresTimeOfDay(t *testing.T) {
	d := NewDate(2024, 6, 3)
	for _, hour := range []int{0, 1, 12, 23} {
		now := time.Date(2024, 6, 3, hour, 30, 0, 0, time.Local)
		if !IsSameWeek(d, now) {
			t.Errorf("hour %d: expected same week", hour)
		}
	}
}

func TestIsSameMonth(t *testing.T) {
	now := time.Date(2024, 6, 5, 8, 0, 0, 0, time.Local)

	tests := []struct {
		in   Date
		want bool
	}{
		{NewDate(2024, 6, 1), true},
		{NewDate(2024, 6, 30), true},
		{NewDate(2024, 5, 31), false},
		{NewDate(2024, 7, 1), false},
		{NewDate(2023, 6, 15), false},
		{Date{}, false},
	}

	for _, tt := range tests {
		if got := IsSameMonth(tt.in, now); got != tt.want {
			t.Errorf("IsSameMonth(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
