package dto

import (
	"time"

	"github.com/yigit/labdesk/internal/app/models"
)

// GoOnDutyRequest is the body of POST /duty
type GoOnDutyRequest struct {
	Course  int       `json:"course" binding:"required,min=1"`
	EndTime time.Time `json:"endTime" binding:"required"`
}

// OfficeHourResponse describes one duty session
type OfficeHourResponse struct {
	ID        int64     `json:"id"`
	Course    int       `json:"course"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
}

// NewOfficeHourResponse maps a session, using courseNumber when the course is not loaded
func NewOfficeHourResponse(oh *models.OfficeHour, courseNumber int) OfficeHourResponse {
	if oh.Course != nil {
		courseNumber = oh.Course.Number
	}
	return OfficeHourResponse{
		ID:        oh.ID,
		Course:    courseNumber,
		StartTime: oh.StartTime,
		EndTime:   oh.EndTime,
	}
}

// DutyStatusResponse answers GET /duty
type DutyStatusResponse struct {
	OnDuty  bool                `json:"onDuty"`
	Session *OfficeHourResponse `json:"session,omitempty"`
}

// CreateCourseRequest is the body of POST /courses
type CreateCourseRequest struct {
	Number     int    `json:"number" binding:"required,min=1"`
	Name       string `json:"name" binding:"required,max=100"`
	Instructor string `json:"instructor" binding:"max=100"`
}

// CreateLabRequest is the body of POST /labs; times are "15:04", dates "2006-01-02"
type CreateLabRequest struct {
	ClassName  string `json:"className" binding:"required,max=30"`
	RoomNumber int    `json:"roomNumber" binding:"required,min=1"`
	StartTime  string `json:"startTime" binding:"required,clocktime"`
	EndTime    string `json:"endTime" binding:"required,clocktime"`
	StartDate  string `json:"startDate" binding:"required,datetime=2006-01-02"`
	EndDate    string `json:"endDate" binding:"required,datetime=2006-01-02"`
	DayOfWeek  *int   `json:"dayOfWeek" binding:"required,min=0,max=6"`
}

// LabResponse is a lab schedule entry annotated with its current state
type LabResponse struct {
	ID             int64  `json:"id"`
	ClassName      string `json:"ClassName"`
	RoomNumber     int    `json:"RoomNumber"`
	StartTime      string `json:"StartTime"`
	EndTime        string `json:"EndTime"`
	DayOfWeek      string `json:"DayOfWeek"`
	InSession      bool   `json:"InSession"`
	ComingUp       bool   `json:"ComingUp"`
	DayOfWeekAsNum int    `json:"DayOfWeek_AsNum"`
}

// NewLabResponse evaluates the lab against now
func NewLabResponse(l *models.Lab, now time.Time) LabResponse {
	return LabResponse{
		ID:             l.ID,
		ClassName:      l.ClassName,
		RoomNumber:     l.RoomNumber,
		StartTime:      l.StartTime.Format("03:04 PM"),
		EndTime:        l.EndTime.Format("03:04 PM"),
		DayOfWeek:      l.DayName(),
		InSession:      l.IsInSession(now),
		ComingUp:       l.IsComingUp(now),
		DayOfWeekAsNum: l.DayOfWeek,
	}
}

// TACheckResponse reports the outcome of a roster check
type TACheckResponse struct {
	IsTA    bool  `json:"isTA"`
	Active  bool  `json:"active"`
	Courses []int `json:"courses"`
}

// ComputerReportRequest is the body of PUT /availability/computers/:number
type ComputerReportRequest struct {
	Room    string `json:"room" binding:"required,max=10"`
	Status  string `json:"status" binding:"required,oneof=OFF INUSE AVAILABLE ERROR"`
	UsedFor string `json:"usedFor" binding:"max=20"`
}

// ServerReportRequest is the body of PUT /availability/servers/:name
type ServerReportRequest struct {
	NumUsers *int   `json:"numUsers" binding:"required,min=0"`
	Status   string `json:"status" binding:"required,oneof=OFF ON ERROR"`
}

// RoomOverview summarizes one room for GET /availability
type RoomOverview struct {
	Room           string            `json:"room"`
	NumReporting   int               `json:"numReporting"`
	NumAvailable   int               `json:"numAvailable"`
	NumUnavailable int               `json:"numUnavailable"`
	NumError       int               `json:"numError"`
	Computers      []models.Computer `json:"computers"`
}

// AvailabilityResponse answers GET /availability
type AvailabilityResponse struct {
	Rooms   []RoomOverview  `json:"rooms"`
	Servers []models.Server `json:"servers"`
}
