package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/yigit/labdesk/internal/app/models"
	"github.com/yigit/labdesk/internal/pkg/apperrors"
	"github.com/yigit/labdesk/internal/pkg/email"
)

// RosterLookup answers which courses an email assists
type RosterLookup interface {
	Lookup(ctx context.Context, email string) (courses []int, isTA bool, err error)
}

// TAService syncs TA records with the department roster
type TAService interface {
	CheckRoster(ctx context.Context, userID int64) (*models.TA, error)
}

type taServiceImpl struct {
	users   UserStore
	courses CourseStore
	tas     TAStore
	roster  RosterLookup
	mailer  email.Service
	logger  zerolog.Logger

	// async runs mail sends; tests replace it to run inline
	async func(func())
}

// NewTAService creates a new TAService
func NewTAService(
	users UserStore,
	courses CourseStore,
	tas TAStore,
	roster RosterLookup,
	mailer email.Service,
	logger zerolog.Logger,
) TAService {
	return &taServiceImpl{
		users:   users,
		courses: courses,
		tas:     tas,
		roster:  roster,
		mailer:  mailer,
		logger:  logger,
		async:   func(f func()) { go f() },
	}
}

// CheckRoster activates or deactivates the caller's TA record per the roster.
// It returns nil when the user is neither listed nor previously a TA.
func (s *taServiceImpl) CheckRoster(ctx context.Context, userID int64) (*models.TA, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	numbers, isTA, err := s.roster.Lookup(ctx, user.Email)
	if err != nil {
		return nil, err
	}

	if !isTA {
		return s.deactivate(ctx, user)
	}

	courses, err := s.courses.ListByNumbers(ctx, numbers)
	if err != nil {
		return nil, fmt.Errorf("failed to load roster courses: %w", err)
	}
	known := make(map[int]bool, len(courses))
	ids := make([]int64, 0, len(courses))
	assigned := make([]int, 0, len(courses))
	for _, c := range courses {
		known[c.Number] = true
		ids = append(ids, c.ID)
		assigned = append(assigned, c.Number)
	}
	for _, n := range numbers {
		if !known[n] {
			s.logger.Warn().Int("course", n).Str("email", user.Email).Msg("Roster lists an unknown course; skipping")
		}
	}

	ta, err := s.tas.Save(ctx, user.ID, true, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to activate TA: %w", err)
	}
	s.logger.Info().Int64("userID", user.ID).Ints("courses", assigned).Msg("TA activated from roster")

	to, name := user.Email, user.DisplayName()
	s.async(func() {
		if err := s.mailer.SendTAActivation(to, name, assigned); err != nil {
			s.logger.Error().Err(err).Str("email", to).Msg("Failed to send TA activation mail")
		}
	})
	return ta, nil
}

func (s *taServiceImpl) deactivate(ctx context.Context, user *models.User) (*models.TA, error) {
	_, err := s.tas.GetByUserID(ctx, user.ID)
	if errors.Is(err, apperrors.ErrTANotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	ta, err := s.tas.Save(ctx, user.ID, false, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to deactivate TA: %w", err)
	}
	s.logger.Info().Int64("userID", user.ID).Msg("TA deactivated from roster")

	to, name := user.Email, user.DisplayName()
	s.async(func() {
		if err := s.mailer.SendTADeactivation(to, name); err != nil {
			s.logger.Error().Err(err).Str("email", to).Msg("Failed to send TA removal mail")
		}
	})
	return ta, nil
}
