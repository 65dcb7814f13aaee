package auth

import (
	"context"
	"errors"

	"github.com/yigit/labdesk/internal/app/models"
	"github.com/yigit/labdesk/internal/pkg/apperrors"
	"github.com/yigit/labdesk/internal/pkg/logger"
)

// ErrNotRequestOwner is returned when a non-TA resolves someone else's request
var ErrNotRequestOwner = apperrors.NewForbiddenError("only the owner or a TA can resolve this request")

// StudentLookup finds the student record of a user
type StudentLookup interface {
	GetByUserID(ctx context.Context, userID int64) (*models.Student, error)
}

// TALookup finds the TA record of a user
type TALookup interface {
	GetByUserID(ctx context.Context, userID int64) (*models.TA, error)
}

// AuthorizationService decides who may act on help desk entities
type AuthorizationService struct {
	students StudentLookup
	tas      TALookup
}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService(students StudentLookup, tas TALookup) *AuthorizationService {
	return &AuthorizationService{
		students: students,
		tas:      tas,
	}
}

// ActiveTA returns the user's TA record, or apperrors.ErrNotTA when the user
// has none or it is inactive
func (s *AuthorizationService) ActiveTA(ctx context.Context, userID int64) (*models.TA, error) {
	ta, err := s.tas.GetByUserID(ctx, userID)
	if errors.Is(err, apperrors.ErrTANotFound) {
		return nil, apperrors.ErrNotTA
	}
	if err != nil {
		logger.Error().Err(err).Int64("userID", userID).Msg("Error getting TA in ActiveTA")
		return nil, err
	}
	if !ta.Active {
		return nil, apperrors.ErrNotTA
	}
	return ta, nil
}

// IsActiveTA checks if the user currently holds an active TA record
func (s *AuthorizationService) IsActiveTA(ctx context.Context, userID int64) (bool, error) {
	_, err := s.ActiveTA(ctx, userID)
	if errors.Is(err, apperrors.ErrNotTA) {
		return false, nil
	}
	return err == nil, err
}

// IsRequestOwner checks if the user is the student who asked the request
func (s *AuthorizationService) IsRequestOwner(ctx context.Context, request *models.Request, userID int64) (bool, error) {
	student, err := s.students.GetByUserID(ctx, userID)
	if errors.Is(err, apperrors.ErrStudentNotFound) {
		return false, nil
	}
	if err != nil {
		logger.Error().Err(err).Int64("userID", userID).Msg("Error getting student in IsRequestOwner")
		return false, err
	}
	return student.ID == request.StudentID, nil
}

// ValidateCanResolve allows the request owner or any active TA
func (s *AuthorizationService) ValidateCanResolve(ctx context.Context, request *models.Request, userID int64) error {
	owner, err := s.IsRequestOwner(ctx, request, userID)
	if err != nil {
		return err
	}
	if owner {
		return nil
	}

	isTA, err := s.IsActiveTA(ctx, userID)
	if err != nil {
		return err
	}
	if !isTA {
		return ErrNotRequestOwner
	}
	return nil
}
