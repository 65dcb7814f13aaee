package models

import "time"

// OfficeHour is one duty session of a TA for a course
type OfficeHour struct {
	ID        int64     `json:"id" db:"id"`
	TAID      int64     `json:"taId" db:"ta_id"`
	CourseID  int64     `json:"courseId" db:"course_id"`
	StartTime time.Time `json:"startTime" db:"start_time"`
	EndTime   time.Time `json:"endTime" db:"end_time"`

	TA     *TA     `json:"-"`
	Course *Course `json:"course,omitempty"`
}

// IsActive reports whether the session spans now: start <= now < end
func (o *OfficeHour) IsActive(now time.Time) bool {
	return !now.Before(o.StartTime) && now.Before(o.EndTime)
}
