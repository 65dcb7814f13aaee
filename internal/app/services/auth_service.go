package services

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/yigit/labdesk/internal/app/models"
	"github.com/yigit/labdesk/internal/app/models/dto"
	"github.com/yigit/labdesk/internal/pkg/apperrors"
	"github.com/yigit/labdesk/internal/pkg/auth"
)

// AuthService handles authentication operations
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	Me(ctx context.Context, userID int64) (*dto.ProfileResponse, error)
}

type authServiceImpl struct {
	users      UserStore
	students   StudentStore
	tas        TAStore
	courses    CourseStore
	duty       DutyService
	jwtService *auth.JWTService
	logger     zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	users UserStore,
	students StudentStore,
	tas TAStore,
	courses CourseStore,
	duty DutyService,
	jwtService *auth.JWTService,
	logger zerolog.Logger,
) AuthService {
	return &authServiceImpl{
		users:      users,
		students:   students,
		tas:        tas,
		courses:    courses,
		duty:       duty,
		jwtService: jwtService,
		logger:     logger,
	}
}

// Login authenticates a user
func (s *authServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	// Password validation
	if !auth.CheckPassword(user.Password, req.Password) {
		s.logger.Debug().Int64("userID", user.ID).Msg("Login rejected: wrong password")
		return nil, apperrors.ErrInvalidCredentials
	}

	token, expiresIn, err := s.jwtService.GenerateAccessToken(user)
	if err != nil {
		s.logger.Error().Err(err).Int64("userID", user.ID).Msg("Failed to sign access token")
		return nil, err
	}

	return &dto.AuthResponse{
		Token: dto.TokenResponse{
			AccessToken: token,
			TokenType:   "Bearer",
			ExpiresIn:   expiresIn,
		},
		User: toUserResponse(user),
	}, nil
}

// Me describes the caller's student and TA roles
func (s *authServiceImpl) Me(ctx context.Context, userID int64) (*dto.ProfileResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile := &dto.ProfileResponse{User: toUserResponse(user)}

	_, err = s.students.GetByUserID(ctx, userID)
	switch {
	case err == nil:
		profile.IsStudent = true
	case !errors.Is(err, apperrors.ErrStudentNotFound):
		return nil, err
	}

	ta, err := s.tas.GetByUserID(ctx, userID)
	switch {
	case errors.Is(err, apperrors.ErrTANotFound):
		return profile, nil
	case err != nil:
		return nil, err
	}

	profile.IsTA = true
	profile.TAActive = ta.Active
	if profile.OnDuty, err = s.duty.IsOnDuty(ctx, ta.ID); err != nil {
		return nil, err
	}
	for _, id := range ta.CourseIDs {
		course, err := s.courses.GetByID(ctx, id)
		if err != nil {
			s.logger.Warn().Err(err).Int64("courseID", id).Msg("TA linked to missing course")
			continue
		}
		profile.Courses = append(profile.Courses, course.Number)
	}
	return profile, nil
}

func toUserResponse(user *models.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		IsAdmin:   user.IsAdmin,
	}
}
