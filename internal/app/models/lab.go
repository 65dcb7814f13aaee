package models

import (
	"fmt"
	"time"
)

// LabLookahead is how long before its start a lab counts as coming up
const LabLookahead = 3 * time.Hour

// TimeOfDay is a wall-clock time stored as the offset from midnight
type TimeOfDay time.Duration

// NewTimeOfDay builds a TimeOfDay from hour and minute
func NewTimeOfDay(hour, minute int) TimeOfDay {
	return TimeOfDay(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

// ParseTimeOfDay parses "15:04" formatted times
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	return NewTimeOfDay(t.Hour(), t.Minute()), nil
}

// TimeOfDayOf returns the wall-clock time of t in t's own location
func TimeOfDayOf(t time.Time) TimeOfDay {
	return TimeOfDay(time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second +
		time.Duration(t.Nanosecond()))
}

// Format renders the time with a reference layout such as "03:04 PM"
func (d TimeOfDay) Format(layout string) string {
	return time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(d)).Format(layout)
}

// String renders the time as "15:04"
func (d TimeOfDay) String() string {
	return d.Format("15:04")
}

// Lab is a static weekly schedule entry for a lab section.
// DayOfWeek counts from Monday = 0 to Sunday = 6.
type Lab struct {
	ID         int64     `json:"id" db:"id"`
	ClassName  string    `json:"className" db:"class_name"`
	RoomNumber int       `json:"roomNumber" db:"room_number"`
	StartTime  TimeOfDay `json:"-" db:"start_time"`
	EndTime    TimeOfDay `json:"-" db:"end_time"`
	StartDate  time.Time `json:"startDate" db:"start_date"`
	EndDate    time.Time `json:"endDate" db:"end_date"`
	DayOfWeek  int       `json:"dayOfWeek" db:"day_of_week"`
}

var dayNames = [7]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// DayName returns the weekday name of the lab, or "" when out of range
func (l *Lab) DayName() string {
	if l.DayOfWeek < 0 || l.DayOfWeek > 6 {
		return ""
	}
	return dayNames[l.DayOfWeek]
}

// MondayBasedWeekday converts Go's Sunday-first weekday to Monday = 0
func MondayBasedWeekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// withinDates reports whether the calendar date of now lies in [StartDate, EndDate]
func (l *Lab) withinDates(now time.Time) bool {
	day := civilDate(now)
	return !day.Before(civilDate(l.StartDate)) && !day.After(civilDate(l.EndDate))
}

func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// IsInSession reports whether now is within the date range, on the lab's
// weekday, and between StartTime and EndTime inclusive.
func (l *Lab) IsInSession(now time.Time) bool {
	if !l.withinDates(now) || MondayBasedWeekday(now) != l.DayOfWeek {
		return false
	}
	tod := TimeOfDayOf(now)
	return tod >= l.StartTime && tod <= l.EndTime
}

// IsComingUp reports whether the lab is not in session but now falls in
// [StartTime-LabLookahead, EndTime] on the lab's weekday within the date range.
// The window start is clamped at midnight.
func (l *Lab) IsComingUp(now time.Time) bool {
	if l.IsInSession(now) {
		return false
	}
	if !l.withinDates(now) || MondayBasedWeekday(now) != l.DayOfWeek {
		return false
	}
	windowStart := l.StartTime - TimeOfDay(LabLookahead)
	if windowStart < 0 {
		windowStart = 0
	}
	tod := TimeOfDayOf(now)
	return tod >= windowStart && tod <= l.EndTime
}
