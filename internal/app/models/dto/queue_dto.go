package dto

import (
	"html"
	"time"

	"github.com/yigit/labdesk/internal/app/models"
)

// QueueTimeLayout formats ask times shown to viewers ("10/19 02:30 PM")
const QueueTimeLayout = "01/02 03:04 PM"

// SubmitRequestRequest is the body of POST /requests
type SubmitRequestRequest struct {
	Course   int    `json:"course" binding:"required,min=1"`
	Location string `json:"location" binding:"required,max=50"`
	Question string `json:"question" binding:"required,max=51"`
}

// RequestResponse is a help request as returned to its owner
type RequestResponse struct {
	ID         int64      `json:"id"`
	Course     int        `json:"course"`
	Location   string     `json:"location"`
	Question   string     `json:"question"`
	WhenAsked  time.Time  `json:"whenAsked"`
	WhenSolved *time.Time `json:"whenSolved,omitempty"`
	Solved     bool       `json:"solved"`
	TimedOut   bool       `json:"timedOut"`
}

// NewRequestResponse maps a stored request, using courseNumber when the course is not loaded
func NewRequestResponse(r *models.Request, courseNumber int) RequestResponse {
	if r.Course != nil {
		courseNumber = r.Course.Number
	}
	return RequestResponse{
		ID:         r.ID,
		Course:     courseNumber,
		Location:   r.Location,
		Question:   r.Question,
		WhenAsked:  r.WhenAsked,
		WhenSolved: r.WhenSolved,
		Solved:     r.Solved,
		TimedOut:   r.TimedOut,
	}
}

// QueueEntry is one open request in the public queue view
type QueueEntry struct {
	ID       int64  `json:"pk"`
	Name     string `json:"name"`
	Location string `json:"location"`
	Problem  string `json:"problem"`
	When     string `json:"when"`
}

// OnDutyEntry is one TA covering a course
type OnDutyEntry struct {
	TA    string    `json:"ta"`
	Until time.Time `json:"until"`
}

// CourseQueueResponse is one course section of GET /queue
type CourseQueueResponse struct {
	Course   int           `json:"course"`
	Name     string        `json:"name"`
	Requests []QueueEntry  `json:"requests"`
	OnDuty   []OnDutyEntry `json:"onDuty"`
}

// NewCourseQueueResponse renders a queue group with ask times shown in loc
func NewCourseQueueResponse(q models.CourseQueue, loc *time.Location) CourseQueueResponse {
	resp := CourseQueueResponse{
		Course:   q.Course.Number,
		Name:     q.Course.Name,
		Requests: make([]QueueEntry, 0, len(q.Requests)),
		OnDuty:   make([]OnDutyEntry, 0, len(q.OnDuty)),
	}
	for i := range q.Requests {
		r := &q.Requests[i]
		name := ""
		if r.Student != nil && r.Student.User != nil {
			name = r.Student.User.DisplayName()
		}
		resp.Requests = append(resp.Requests, QueueEntry{
			ID:       r.ID,
			Name:     html.EscapeString(name),
			Location: html.EscapeString(r.Location),
			Problem:  html.EscapeString(r.Question),
			When:     r.WhenAsked.In(loc).Format(QueueTimeLayout),
		})
	}
	for i := range q.OnDuty {
		oh := &q.OnDuty[i]
		name := ""
		if oh.TA != nil && oh.TA.User != nil {
			name = oh.TA.User.DisplayName()
		}
		resp.OnDuty = append(resp.OnDuty, OnDutyEntry{TA: html.EscapeString(name), Until: oh.EndTime.In(loc)})
	}
	return resp
}

// RequestAddedEvent is pushed to viewers when a request is submitted
type RequestAddedEvent struct {
	Type     string `json:"type"`
	ID       int64  `json:"pk"`
	Name     string `json:"name"`
	Location string `json:"location"`
	Problem  string `json:"problem"`
	When     string `json:"when"`
	Course   int    `json:"course"`
}

// RequestResolvedEvent is pushed to viewers when a request is solved
type RequestResolvedEvent struct {
	Type      string `json:"type"`
	RequestID int64  `json:"rq"`
	Course    int    `json:"course"`
}

// DutyChangedEvent is pushed to viewers when a TA goes on or off duty
type DutyChangedEvent struct {
	Type   string    `json:"type"`
	TA     string    `json:"ta"`
	Course int       `json:"course"`
	OnDuty bool      `json:"on_duty"`
	Until  time.Time `json:"until"`
}

const (
	EventTypeAdd     = "add"
	EventTypeResolve = "resolve"
	EventTypeDuty    = "duty"
)

// NewRequestAddedEvent builds the "add" event; user text is HTML-escaped
func NewRequestAddedEvent(r *models.Request, student *models.User, course *models.Course, loc *time.Location) RequestAddedEvent {
	return RequestAddedEvent{
		Type:     EventTypeAdd,
		ID:       r.ID,
		Name:     html.EscapeString(student.DisplayName()),
		Location: html.EscapeString(r.Location),
		Problem:  html.EscapeString(r.Question),
		When:     r.WhenAsked.In(loc).Format(QueueTimeLayout),
		Course:   course.Number,
	}
}

// NewRequestResolvedEvent builds the "resolve" event
func NewRequestResolvedEvent(requestID int64, course *models.Course) RequestResolvedEvent {
	return RequestResolvedEvent{Type: EventTypeResolve, RequestID: requestID, Course: course.Number}
}

// NewDutyChangedEvent builds the "duty" event
func NewDutyChangedEvent(ta *models.User, course *models.Course, oh *models.OfficeHour, onDuty bool, loc *time.Location) DutyChangedEvent {
	return DutyChangedEvent{
		Type:   EventTypeDuty,
		TA:     html.EscapeString(ta.DisplayName()),
		Course: course.Number,
		OnDuty: onDuty,
		Until:  oh.EndTime.In(loc),
	}
}
