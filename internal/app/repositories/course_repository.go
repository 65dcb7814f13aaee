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
	"github.com/yigit/labdesk/internal/pkg/dberrors"
	"github.com/yigit/labdesk/internal/pkg/logger"
)

var courseColumns = []string{"id", "number", "name", "instructor"}

// CourseRepository handles course database operations
type CourseRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewCourseRepository creates a new CourseRepository
func NewCourseRepository(db *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a course; duplicate numbers are a conflict
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	sql, args, err := r.sb.Insert("courses").
		Columns("number", "name", "instructor").
		Values(course.Number, course.Name, course.Instructor).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create course SQL")
		return fmt.Errorf("failed to build create course query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&course.ID); err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.NewConflictError(fmt.Sprintf("course %d already exists", course.Number))
		}
		logger.Error().Err(err).Int("number", course.Number).Msg("Error executing create course query")
		return fmt.Errorf("error creating course: %w", err)
	}
	return nil
}

func (r *CourseRepository) getBy(ctx context.Context, where squirrel.Eq) (*models.Course, error) {
	sql, args, err := r.sb.Select(courseColumns...).
		From("courses").
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get course SQL")
		return nil, fmt.Errorf("failed to build get course query: %w", err)
	}

	course := &models.Course{}
	err = r.db.QueryRow(ctx, sql, args...).Scan(&course.ID, &course.Number, &course.Name, &course.Instructor)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCourseNotFound
		}
		logger.Error().Err(err).Interface("where", where).Msg("Error scanning course row")
		return nil, fmt.Errorf("error getting course: %w", err)
	}
	return course, nil
}

// GetByID retrieves a course by ID
func (r *CourseRepository) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	return r.getBy(ctx, squirrel.Eq{"id": id})
}

// GetByNumber retrieves a course by its public number
func (r *CourseRepository) GetByNumber(ctx context.Context, number int) (*models.Course, error) {
	return r.getBy(ctx, squirrel.Eq{"number": number})
}

// ListByNumbers returns the known courses among numbers
func (r *CourseRepository) ListByNumbers(ctx context.Context, numbers []int) ([]models.Course, error) {
	if len(numbers) == 0 {
		return []models.Course{}, nil
	}
	return r.list(ctx, squirrel.Eq{"number": numbers})
}

// List retrieves all courses ordered by number
func (r *CourseRepository) List(ctx context.Context) ([]models.Course, error) {
	return r.list(ctx, nil)
}

func (r *CourseRepository) list(ctx context.Context, where squirrel.Sqlizer) ([]models.Course, error) {
	query := r.sb.Select(courseColumns...).From("courses").OrderBy("number ASC")
	if where != nil {
		query = query.Where(where)
	}
	sql, args, err := query.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list courses SQL")
		return nil, fmt.Errorf("failed to build list courses query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list courses query")
		return nil, fmt.Errorf("error querying courses: %w", err)
	}
	defer rows.Close()

	courses := []models.Course{}
	for rows.Next() {
		var c models.Course
		if err := rows.Scan(&c.ID, &c.Number, &c.Name, &c.Instructor); err != nil {
			logger.Error().Err(err).Msg("Error scanning course row")
			return nil, fmt.Errorf("error scanning course: %w", err)
		}
		courses = append(courses, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating courses: %w", err)
	}
	return courses, nil
}
