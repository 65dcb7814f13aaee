package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yigit/labdesk/internal/app/models"
	"github.com/yigit/labdesk/internal/pkg/apperrors"
	"github.com/yigit/labdesk/internal/pkg/logger"
)

// StudentRepository handles student database operations
type StudentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(db *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// GetByUserID retrieves a student by user ID
func (r *StudentRepository) GetByUserID(ctx context.Context, userID int64) (*models.Student, error) {
	sql, args, err := r.sb.Select("id", "user_id").
		From("students").
		Where(squirrel.Eq{"user_id": userID}).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get student by user ID SQL")
		return nil, fmt.Errorf("failed to build get student query: %w", err)
	}

	student := &models.Student{}
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&student.ID, &student.UserID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		logger.Error().Err(err).Int64("userID", userID).Msg("Error scanning student row")
		return nil, fmt.Errorf("error getting student: %w", err)
	}
	return student, nil
}

// GetOrCreate returns the student of userID, creating the row on first use
func (r *StudentRepository) GetOrCreate(ctx context.Context, userID int64) (*models.Student, error) {
	sql, args, err := r.sb.Insert("students").
		Columns("user_id").
		Values(userID).
		Suffix("ON CONFLICT (user_id) DO NOTHING").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create student SQL")
		return nil, fmt.Errorf("failed to build create student query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("userID", userID).Msg("Error executing create student query")
		return nil, fmt.Errorf("error creating student: %w", err)
	}
	if tag.RowsAffected() > 0 {
		logger.Info().Int64("userID", userID).Msg("Student created on first request")
	}

	return r.GetByUserID(ctx, userID)
}

// Enroll links a student to a course; existing links are kept
func (r *StudentRepository) Enroll(ctx context.Context, studentID, courseID int64) error {
	sql, args, err := r.sb.Insert("student_courses").
		Columns("student_id", "course_id").
		Values(studentID, courseID).
		Suffix("ON CONFLICT DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build enroll query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Int64("studentID", studentID).Int64("courseID", courseID).Msg("Error enrolling student")
		return fmt.Errorf("error enrolling student: %w", err)
	}
	return nil
}
