package models

import (
	"testing"
	"time"
)

func mondayLab() *Lab {
	return &Lab{
		ClassName:  "COMP 11 Lab",
		RoomNumber: 116,
		StartTime:  NewTimeOfDay(9, 0),
		EndTime:    NewTimeOfDay(10, 0),
		StartDate:  time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2026, 12, 15, 0, 0, 0, 0, time.UTC),
		DayOfWeek:  0,
	}
}

func TestLabEvaluator(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("Failed to load location: %v", err)
	}
	// 2026-10-19 is a Monday
	at := func(hour, minute int) time.Time {
		return time.Date(2026, 10, 19, hour, minute, 0, 0, ny)
	}

	tests := []struct {
		name      string
		now       time.Time
		inSession bool
		comingUp  bool
	}{
		{"during session", at(9, 30), true, false},
		{"exact start", at(9, 0), true, false},
		{"exact end", at(10, 0), true, false},
		{"within lookahead", at(8, 0), false, true},
		{"lookahead boundary", at(6, 0), false, true},
		{"before lookahead", at(5, 0), false, false},
		{"after end", at(10, 1), false, false},
		{"wrong weekday", time.Date(2026, 10, 20, 9, 30, 0, 0, ny), false, false},
		{"before date range", time.Date(2026, 8, 31, 9, 30, 0, 0, ny), false, false},
		{"after date range", time.Date(2026, 12, 21, 8, 0, 0, 0, ny), false, false},
		{"first day of range", time.Date(2026, 9, 7, 9, 30, 0, 0, ny), true, false},
	}

	lab := mondayLab()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := lab.IsInSession(tt.now); got != tt.inSession {
				t.Errorf("Expected IsInSession %v, got %v", tt.inSession, got)
			}
			if got := lab.IsComingUp(tt.now); got != tt.comingUp {
				t.Errorf("Expected IsComingUp %v, got %v", tt.comingUp, got)
			}
		})
	}
}

func TestLabComingUpClampsAtMidnight(t *testing.T) {
	lab := mondayLab()
	lab.StartTime = NewTimeOfDay(1, 0)
	lab.EndTime = NewTimeOfDay(2, 0)

	now := time.Date(2026, 10, 19, 0, 15, 0, 0, time.UTC)
	if !lab.IsComingUp(now) {
		t.Error("Expected lab starting at 01:00 to be coming up at 00:15")
	}

	// Sunday evening must not match a Monday early lab
	sunday := time.Date(2026, 10, 18, 23, 0, 0, 0, time.UTC)
	if lab.IsComingUp(sunday) {
		t.Error("Expected no coming up on the previous day")
	}
}

func TestMondayBasedWeekday(t *testing.T) {
	monday := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		if got := MondayBasedWeekday(monday.AddDate(0, 0, i)); got != i {
			t.Errorf("Expected weekday %d, got %d", i, got)
		}
	}
}

func TestTimeOfDayFormat(t *testing.T) {
	tod, err := ParseTimeOfDay("13:05")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if got := tod.Format("03:04 PM"); got != "01:05 PM" {
		t.Errorf("Expected 01:05 PM, got %s", got)
	}
	if tod.String() != "13:05" {
		t.Errorf("Expected 13:05, got %s", tod.String())
	}
	if _, err := ParseTimeOfDay("25:00"); err == nil {
		t.Error("Expected error for invalid time")
	}
}

func TestDayName(t *testing.T) {
	lab := mondayLab()
	lab.DayOfWeek = 4
	if lab.DayName() != "Friday" {
		t.Errorf("Expected Friday, got %s", lab.DayName())
	}
	lab.DayOfWeek = 9
	if lab.DayName() != "" {
		t.Errorf("Expected empty day name, got %s", lab.DayName())
	}
}
