package models

import "time"

const (
	// MaxLocationLength and MaxQuestionLength bound the free-text request fields
	MaxLocationLength = 50
	MaxQuestionLength = 51
)

// Request is a student's help request in a course queue.
// Solved and TimedOut are mutually exclusive terminal states.
type Request struct {
	ID         int64      `json:"id" db:"id"`
	StudentID  int64      `json:"studentId" db:"student_id"`
	CourseID   int64      `json:"courseId" db:"course_id"`
	Location   string     `json:"location" db:"location"`
	Question   string     `json:"question" db:"question"`
	WhenAsked  time.Time  `json:"whenAsked" db:"when_asked"`
	WhenSolved *time.Time `json:"whenSolved,omitempty" db:"when_solved"`
	Solved     bool       `json:"solved" db:"solved"`
	TimedOut   bool       `json:"timedOut" db:"timed_out"`
	Emailed    bool       `json:"emailed" db:"emailed"`

	// Populated when needed
	Student *Student `json:"-"`
	Course  *Course  `json:"course,omitempty"`
}
