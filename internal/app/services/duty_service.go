package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	appAuth "github.com/yigit/labdesk/internal/app/auth"
	"github.com/yigit/labdesk/internal/app/models"
	"github.com/yigit/labdesk/internal/app/models/dto"
	"github.com/yigit/labdesk/internal/pkg/apperrors"
	"github.com/yigit/labdesk/internal/pkg/keylock"
)

// DefaultOffDutyBuffer is how far in the past a closed session ends
const DefaultOffDutyBuffer = time.Minute

// DutyService tracks which TA covers which course and until when
type DutyService interface {
	GoOnDuty(ctx context.Context, userID int64, courseNumber int, endTime time.Time) (*models.OfficeHour, error)
	GoOffDuty(ctx context.Context, userID int64) (*models.OfficeHour, error)
	IsOnDuty(ctx context.Context, taID int64) (bool, error)
	Status(ctx context.Context, userID int64) (*models.OfficeHour, error)
}

// DutySettings tunes duty sessions
type DutySettings struct {
	Location      *time.Location
	OffDutyBuffer time.Duration
}

type dutyServiceImpl struct {
	tas      TAStore
	courses  CourseStore
	sessions OfficeHourStore
	authz    *appAuth.AuthorizationService
	notifier Notifier
	locks    *keylock.KeyLock
	settings DutySettings
	now      Clock
	logger   zerolog.Logger
}

// NewDutyService creates a new DutyService
func NewDutyService(
	tas TAStore,
	courses CourseStore,
	sessions OfficeHourStore,
	authz *appAuth.AuthorizationService,
	notifier Notifier,
	settings DutySettings,
	now Clock,
	logger zerolog.Logger,
) DutyService {
	if settings.Location == nil {
		settings.Location = time.UTC
	}
	if settings.OffDutyBuffer <= 0 {
		settings.OffDutyBuffer = DefaultOffDutyBuffer
	}
	return &dutyServiceImpl{
		tas:      tas,
		courses:  courses,
		sessions: sessions,
		authz:    authz,
		notifier: notifier,
		locks:    keylock.New(),
		settings: settings,
		now:      now,
		logger:   logger,
	}
}

// GoOnDuty opens an office hour session for the caller until endTime
func (s *dutyServiceImpl) GoOnDuty(ctx context.Context, userID int64, courseNumber int, endTime time.Time) (*models.OfficeHour, error) {
	ta, err := s.authz.ActiveTA(ctx, userID)
	if err != nil {
		return nil, err
	}

	course, err := s.courses.GetByNumber(ctx, courseNumber)
	if err != nil {
		return nil, err
	}
	if !ta.TeachesCourse(course.ID) {
		return nil, apperrors.ErrNotAssignedToCourse
	}

	unlock := s.locks.Lock(ta.ID)
	defer unlock()

	now := s.now().In(s.settings.Location)
	end := endTime.In(s.settings.Location)
	if !end.After(now) {
		return nil, apperrors.NewValidationError("invalid office hours", map[string]string{
			"endTime": "endTime must be in the future",
		})
	}

	session := &models.OfficeHour{
		TAID:      ta.ID,
		CourseID:  course.ID,
		StartTime: now,
		EndTime:   end,
		TA:        ta,
		Course:    course,
	}
	if err := s.sessions.CreateExclusive(ctx, session, now); err != nil {
		if errors.Is(err, apperrors.ErrAlreadyOnDuty) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to open office hours: %w", err)
	}

	s.logger.Info().
		Int64("taID", ta.ID).
		Int("course", course.Number).
		Time("until", end).
		Msg("TA went on duty")

	if ta.User != nil {
		s.notifier.Broadcast(dto.NewDutyChangedEvent(ta.User, course, session, true, s.settings.Location))
	}
	return session, nil
}

// GoOffDuty closes the caller's active session
func (s *dutyServiceImpl) GoOffDuty(ctx context.Context, userID int64) (*models.OfficeHour, error) {
	ta, err := s.tas.GetByUserID(ctx, userID)
	if errors.Is(err, apperrors.ErrTANotFound) {
		return nil, apperrors.ErrNotTA
	}
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(ta.ID)
	defer unlock()

	now := s.now().In(s.settings.Location)
	session, err := s.sessions.ActiveForTA(ctx, ta.ID, now)
	if err != nil {
		return nil, err
	}

	end := now.Add(-s.settings.OffDutyBuffer)
	if err := s.sessions.SetEnd(ctx, session.ID, end); err != nil {
		return nil, fmt.Errorf("failed to close office hours: %w", err)
	}
	session.EndTime = end

	course := session.Course
	if course == nil {
		if course, err = s.courses.GetByID(ctx, session.CourseID); err != nil {
			s.logger.Warn().Err(err).Int64("sessionID", session.ID).Msg("Closed session has no course; skipping notification")
			return session, nil
		}
		session.Course = course
	}

	s.logger.Info().Int64("taID", ta.ID).Int("course", course.Number).Msg("TA went off duty")
	if ta.User != nil {
		s.notifier.Broadcast(dto.NewDutyChangedEvent(ta.User, course, session, false, s.settings.Location))
	}
	return session, nil
}

// IsOnDuty reports whether the TA has a session with start <= now < end
func (s *dutyServiceImpl) IsOnDuty(ctx context.Context, taID int64) (bool, error) {
	now := s.now()
	session, err := s.sessions.ActiveForTA(ctx, taID, now)
	if errors.Is(err, apperrors.ErrNoActiveDuty) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return session.IsActive(now), nil
}

// Status returns the caller's active session or nil when off duty
func (s *dutyServiceImpl) Status(ctx context.Context, userID int64) (*models.OfficeHour, error) {
	ta, err := s.tas.GetByUserID(ctx, userID)
	if errors.Is(err, apperrors.ErrTANotFound) {
		return nil, apperrors.ErrNotTA
	}
	if err != nil {
		return nil, err
	}

	session, err := s.sessions.ActiveForTA(ctx, ta.ID, s.now())
	if errors.Is(err, apperrors.ErrNoActiveDuty) {
		return nil, nil
	}
	return session, err
}
