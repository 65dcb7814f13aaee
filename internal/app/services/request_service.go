package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	appAuth "github.com/yigit/labdesk/internal/app/auth"
	"github.com/yigit/labdesk/internal/app/models"
	"github.com/yigit/labdesk/internal/app/models/dto"
	"github.com/yigit/labdesk/internal/pkg/apperrors"
	"github.com/yigit/labdesk/internal/pkg/validation"
)

// RequestService manages the help request lifecycle
type RequestService interface {
	Submit(ctx context.Context, userID int64, courseNumber int, location, question string) (*models.Request, error)
	Resolve(ctx context.Context, requestID, actorUserID int64) (*models.Request, error)
	SweepExpired(ctx context.Context, horizon time.Duration) (int64, error)
	ListActive(ctx context.Context, horizon time.Duration) ([]models.CourseQueue, error)
	LiveQueue(ctx context.Context) ([]models.CourseQueue, error)
	ListForStudent(ctx context.Context, userID int64) ([]models.Request, error)
}

// QueueSettings tunes the live queue
type QueueSettings struct {
	Horizon  time.Duration
	Location *time.Location
}

type requestServiceImpl struct {
	requests RequestStore
	students StudentStore
	courses  CourseStore
	users    UserStore
	sessions OfficeHourStore
	authz    *appAuth.AuthorizationService
	notifier Notifier
	settings QueueSettings
	now      Clock
	logger   zerolog.Logger
}

// NewRequestService creates a new RequestService
func NewRequestService(
	requests RequestStore,
	students StudentStore,
	courses CourseStore,
	users UserStore,
	sessions OfficeHourStore,
	authz *appAuth.AuthorizationService,
	notifier Notifier,
	settings QueueSettings,
	now Clock,
	logger zerolog.Logger,
) RequestService {
	if settings.Location == nil {
		settings.Location = time.UTC
	}
	return &requestServiceImpl{
		requests: requests,
		students: students,
		courses:  courses,
		users:    users,
		sessions: sessions,
		authz:    authz,
		notifier: notifier,
		settings: settings,
		now:      now,
		logger:   logger,
	}
}

// Submit files a new help request for the caller
func (s *requestServiceImpl) Submit(ctx context.Context, userID int64, courseNumber int, location, question string) (*models.Request, error) {
	location = strings.TrimSpace(location)
	question = strings.TrimSpace(question)

	fields := map[string]string{}
	if msg, ok := validation.TextField("location", location, models.MaxLocationLength); !ok {
		fields["location"] = msg
	}
	if msg, ok := validation.TextField("question", question, models.MaxQuestionLength); !ok {
		fields["question"] = msg
	}
	if len(fields) > 0 {
		return nil, apperrors.NewValidationError("invalid help request", fields)
	}

	course, err := s.courses.GetByNumber(ctx, courseNumber)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	student, err := s.students.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve student: %w", err)
	}

	request := &models.Request{
		StudentID: student.ID,
		CourseID:  course.ID,
		Location:  location,
		Question:  question,
		WhenAsked: s.now(),
		Course:    course,
	}
	if err := s.requests.Create(ctx, request); err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	s.logger.Info().
		Int64("requestID", request.ID).
		Int64("userID", userID).
		Int("course", course.Number).
		Msg("Help request submitted")

	s.notifier.Broadcast(dto.NewRequestAddedEvent(request, user, course, s.settings.Location))
	return request, nil
}

// Resolve marks a request solved. Only its owner or an active TA may do so.
func (s *requestServiceImpl) Resolve(ctx context.Context, requestID, actorUserID int64) (*models.Request, error) {
	request, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if err := s.authz.ValidateCanResolve(ctx, request, actorUserID); err != nil {
		return nil, err
	}

	updated, solved, err := s.requests.MarkSolved(ctx, requestID, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to resolve request: %w", err)
	}
	if !solved {
		// lost the race or already terminal
		switch {
		case updated == nil:
			return nil, apperrors.ErrRequestNotFound
		case updated.Solved:
			if updated.Course == nil {
				if updated.Course, err = s.courses.GetByID(ctx, updated.CourseID); err != nil {
					return nil, err
				}
			}
			return updated, nil
		case updated.TimedOut:
			return nil, apperrors.ErrRequestClosed
		default:
			return nil, fmt.Errorf("request %d could not be resolved", requestID)
		}
	}

	course := updated.Course
	if course == nil {
		if course, err = s.courses.GetByID(ctx, updated.CourseID); err != nil {
			s.logger.Warn().Err(err).Int64("requestID", requestID).Msg("Resolved request has no course; skipping notification")
			return updated, nil
		}
		updated.Course = course
	}

	s.logger.Info().Int64("requestID", requestID).Int64("actorUserID", actorUserID).Msg("Help request resolved")
	s.notifier.Broadcast(dto.NewRequestResolvedEvent(updated.ID, course))
	return updated, nil
}

// SweepExpired times out unsolved requests older than horizon
func (s *requestServiceImpl) SweepExpired(ctx context.Context, horizon time.Duration) (int64, error) {
	n, err := s.requests.MarkTimedOut(ctx, s.now().Add(-horizon))
	if err != nil {
		return 0, fmt.Errorf("failed to sweep expired requests: %w", err)
	}
	if n > 0 {
		s.logger.Info().Int64("count", n).Dur("horizon", horizon).Msg("Timed out stale help requests")
	}
	return n, nil
}

// ListActive returns one queue per course in course number order, holding the
// open requests inside horizon and the TAs on duty. Courses with neither are included.
func (s *requestServiceImpl) ListActive(ctx context.Context, horizon time.Duration) ([]models.CourseQueue, error) {
	now := s.now()
	courses, err := s.courses.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	open, err := s.requests.ListOpenSince(ctx, now.Add(-horizon))
	if err != nil {
		return nil, fmt.Errorf("failed to list open requests: %w", err)
	}
	onDuty, err := s.sessions.ListActive(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("failed to list office hours: %w", err)
	}

	return groupQueues(courses, open, onDuty), nil
}

// groupQueues seeds one CourseQueue per course and fills requests and sessions in.
// Requests keep their incoming order within a course.
func groupQueues(courses []models.Course, requests []models.Request, sessions []models.OfficeHour) []models.CourseQueue {
	index := make(map[int64]int, len(courses))
	queues := make([]models.CourseQueue, 0, len(courses))

	queueFor := func(course *models.Course, courseID int64) *models.CourseQueue {
		if i, ok := index[courseID]; ok {
			return &queues[i]
		}
		c := models.Course{ID: courseID}
		if course != nil {
			c = *course
		}
		index[courseID] = len(queues)
		queues = append(queues, models.CourseQueue{Course: c, Requests: []models.Request{}, OnDuty: []models.OfficeHour{}})
		return &queues[len(queues)-1]
	}

	for i := range courses {
		queueFor(&courses[i], courses[i].ID)
	}
	for _, r := range requests {
		q := queueFor(r.Course, r.CourseID)
		q.Requests = append(q.Requests, r)
	}
	for _, oh := range sessions {
		q := queueFor(oh.Course, oh.CourseID)
		q.OnDuty = append(q.OnDuty, oh)
	}

	sort.SliceStable(queues, func(i, j int) bool {
		return queues[i].Course.Number < queues[j].Course.Number
	})
	return queues
}

// LiveQueue sweeps stale requests and then lists the queue
func (s *requestServiceImpl) LiveQueue(ctx context.Context) ([]models.CourseQueue, error) {
	if _, err := s.SweepExpired(ctx, s.settings.Horizon); err != nil {
		return nil, err
	}
	return s.ListActive(ctx, s.settings.Horizon)
}

// ListForStudent returns the caller's request history, newest first
func (s *requestServiceImpl) ListForStudent(ctx context.Context, userID int64) ([]models.Request, error) {
	student, err := s.students.GetByUserID(ctx, userID)
	if errors.Is(err, apperrors.ErrStudentNotFound) {
		return []models.Request{}, nil
	}
	if err != nil {
		return nil, err
	}
	return s.requests.ListByStudent(ctx, student.ID)
}
