package models

import (
	"testing"
	"time"
)

func TestDisplayName(t *testing.T) {
	tests := []struct {
		first, last, want string
	}{
		{"Jane", "doe", "Jane D"},
		{"  Ana ", "Ñúñez", "Ana Ñ"},
		{"Solo", "", "Solo"},
		{"", "smith", "S"},
	}
	for _, tt := range tests {
		u := &User{FirstName: tt.first, LastName: tt.last}
		if got := u.DisplayName(); got != tt.want {
			t.Errorf("Expected %q, got %q", tt.want, got)
		}
	}
}

func TestOfficeHourIsActive(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	oh := &OfficeHour{StartTime: now.Add(-time.Hour), EndTime: now.Add(time.Hour)}

	if !oh.IsActive(now) {
		t.Error("Expected session to be active")
	}
	if !oh.IsActive(oh.StartTime) {
		t.Error("Expected session to be active at its start")
	}
	if oh.IsActive(oh.EndTime) {
		t.Error("Expected session to be inactive at its end")
	}
}

func TestSummarizeRoom(t *testing.T) {
	at := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	computers := []Computer{
		{ComputerNumber: "116-01", Status: ComputerAvailable},
		{ComputerNumber: "116-02", Status: ComputerInUse, UsedFor: "11"},
		{ComputerNumber: "116-03", Status: ComputerInUse, UsedFor: "15"},
		{ComputerNumber: "116-04", Status: ComputerInUse, UsedFor: "11"},
		{ComputerNumber: "116-05", Status: ComputerInUse},
		{ComputerNumber: "116-06", Status: ComputerError},
		{ComputerNumber: "116-07", Status: ComputerOff},
	}

	info := SummarizeRoom("116", computers, at)

	if info.NumReporting != 7 {
		t.Errorf("Expected 7 reporting, got %d", info.NumReporting)
	}
	if info.NumAvailable != 1 || info.NumError != 1 || info.NumUnavailable != 5 {
		t.Errorf("Expected 1/5/1 available/unavailable/error, got %d/%d/%d",
			info.NumAvailable, info.NumUnavailable, info.NumError)
	}
	if len(info.CourseUsage) != 3 {
		t.Fatalf("Expected 3 course usage rows, got %d", len(info.CourseUsage))
	}
	if info.CourseUsage[0].Course != "11" || info.CourseUsage[0].NumMachines != 2 {
		t.Errorf("Expected course 11 with 2 machines, got %+v", info.CourseUsage[0])
	}
	if info.CourseUsage[2].Course != DefaultCourseUsage {
		t.Errorf("Expected default course usage, got %s", info.CourseUsage[2].Course)
	}
}

func TestStatusValid(t *testing.T) {
	if !ComputerInUse.Valid() || ComputerStatus("BROKEN").Valid() {
		t.Error("Unexpected computer status validity")
	}
	if !ServerOn.Valid() || ServerStatus("INUSE").Valid() {
		t.Error("Unexpected server status validity")
	}
}
