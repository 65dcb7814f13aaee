package services

import (
	"context"
	"time"

	"github.com/yigit/labdesk/internal/app/models"
)

// Services defined in this package:
// - AuthService: login and the caller's profile
// - RequestService: help request lifecycle and the live queue
// - DutyService: TA office hour sessions
// - TAService: roster checks that activate or deactivate TAs
// - CourseService, LabService: directory listings
// - AvailabilityService: lab computer and server telemetry

// Notifier receives lifecycle events after a successful write.
// Implementations must not block.
type Notifier interface {
	Broadcast(event interface{})
}

// Clock returns the current time
type Clock func() time.Time

// UserStore reads user accounts
type UserStore interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// CourseStore persists courses
type CourseStore interface {
	Create(ctx context.Context, course *models.Course) error
	GetByID(ctx context.Context, id int64) (*models.Course, error)
	GetByNumber(ctx context.Context, number int) (*models.Course, error)
	ListByNumbers(ctx context.Context, numbers []int) ([]models.Course, error)
	List(ctx context.Context) ([]models.Course, error)
}

// StudentStore persists student records
type StudentStore interface {
	GetByUserID(ctx context.Context, userID int64) (*models.Student, error)
	GetOrCreate(ctx context.Context, userID int64) (*models.Student, error)
}

// TAStore persists TA records and their course assignments
type TAStore interface {
	// GetByUserID returns the TA with CourseIDs and User loaded
	GetByUserID(ctx context.Context, userID int64) (*models.TA, error)
	// Save creates or updates the TA of userID and replaces its course links
	Save(ctx context.Context, userID int64, active bool, courseIDs []int64) (*models.TA, error)
}

// RequestStore persists help requests
type RequestStore interface {
	Create(ctx context.Context, request *models.Request) error
	GetByID(ctx context.Context, id int64) (*models.Request, error)
	// MarkSolved transitions an open request; solved is false when no open row matched
	MarkSolved(ctx context.Context, id int64, at time.Time) (request *models.Request, solved bool, err error)
	// MarkTimedOut times out unsolved requests asked before cutoff
	MarkTimedOut(ctx context.Context, cutoff time.Time) (int64, error)
	// ListOpenSince returns open requests asked at or after since with Course and
	// Student.User loaded, ordered by course number then ask time
	ListOpenSince(ctx context.Context, since time.Time) ([]models.Request, error)
	// ListByStudent returns a student's requests newest first with Course loaded
	ListByStudent(ctx context.Context, studentID int64) ([]models.Request, error)
}

// OfficeHourStore persists duty sessions
type OfficeHourStore interface {
	// CreateExclusive inserts the session unless the TA has one ending after now;
	// it returns apperrors.ErrAlreadyOnDuty in that case
	CreateExclusive(ctx context.Context, session *models.OfficeHour, now time.Time) error
	// ActiveForTA returns the TA's session ending after now or apperrors.ErrNoActiveDuty
	ActiveForTA(ctx context.Context, taID int64, now time.Time) (*models.OfficeHour, error)
	SetEnd(ctx context.Context, id int64, end time.Time) error
	// ListActive returns sessions spanning now with Course and TA.User loaded
	ListActive(ctx context.Context, now time.Time) ([]models.OfficeHour, error)
}

// LabStore persists the weekly lab schedule
type LabStore interface {
	Create(ctx context.Context, lab *models.Lab) error
	List(ctx context.Context) ([]models.Lab, error)
}

// AvailabilityStore persists telemetry and its snapshots
type AvailabilityStore interface {
	UpsertComputer(ctx context.Context, computer *models.Computer) error
	// RecordServer upserts the server and appends a ServerInfo row
	RecordServer(ctx context.Context, server *models.Server) error
	ListComputers(ctx context.Context, room string) ([]models.Computer, error)
	ListServers(ctx context.Context) ([]models.Server, error)
	CreateRoomInfo(ctx context.Context, info *models.RoomInfo) error
}
