package seed

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	appModels "github.com/yigit/labdesk/internal/app/models"
	appRepos "github.com/yigit/labdesk/internal/app/repositories"
	"github.com/yigit/labdesk/internal/pkg/apperrors"
	"golang.org/x/crypto/bcrypt"
)

// Default accounts created on an empty database
const (
	AdminEmail    = "admin@labdesk.local"
	AdminPassword = "Admin123!"
)

var defaultCourses = []appModels.Course{
	{Number: 11, Name: "Introduction to Computer Science"},
	{Number: 15, Name: "Data Structures"},
	{Number: 40, Name: "Machine Structure and Assembly Language Programming"},
	{Number: 61, Name: "Discrete Mathematics"},
}

// CreateDefaultData creates the default admin and courses if they don't exist.
// Failures are collected and returned together so one bad row does not stop the rest.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	userRepo := appRepos.NewUserRepository(dbPool)
	courseRepo := appRepos.NewCourseRepository(dbPool)

	lgr.Info().Msg("Checking/Creating default data (admin/courses)...")
	var finalErr error

	// --- Courses --- //
	for _, c := range defaultCourses {
		course := c
		err := courseRepo.Create(ctx, &course)
		switch {
		case err == nil:
			lgr.Info().Int("number", course.Number).Msg("Default course created")
		case errors.Is(err, apperrors.ErrConflict):
			lgr.Debug().Int("number", course.Number).Msg("Course already exists, skipping")
		default:
			lgr.Error().Err(err).Int("number", course.Number).Msg("Error creating default course")
			finalErr = errors.Join(finalErr, err)
		}
	}

	// --- Admin user --- //
	_, err := userRepo.GetByEmail(ctx, AdminEmail)
	switch {
	case err == nil:
		lgr.Info().Msg("Admin user already exists, skipping creation")
	case errors.Is(err, apperrors.ErrUserNotFound):
		lgr.Info().Msg("Creating default admin user...")
		hashedPassword, hashErr := bcrypt.GenerateFromPassword([]byte(AdminPassword), bcrypt.DefaultCost)
		if hashErr != nil {
			lgr.Error().Err(hashErr).Msg("Error hashing admin password")
			return errors.Join(finalErr, hashErr)
		}
		admin := &appModels.User{
			Email:     AdminEmail,
			Password:  string(hashedPassword),
			FirstName: "System",
			LastName:  "Administrator",
			IsAdmin:   true,
		}
		if err := userRepo.Create(ctx, admin); err != nil {
			lgr.Error().Err(err).Msg("Error creating admin user")
			finalErr = errors.Join(finalErr, err)
		} else {
			lgr.Info().Int64("adminID", admin.ID).Msg("Default admin user created successfully")
		}
	default:
		lgr.Error().Err(err).Msg("Error checking if admin user exists")
		finalErr = errors.Join(finalErr, err)
	}

	lgr.Info().Msg("Default data check/creation completed.")
	return finalErr
}
