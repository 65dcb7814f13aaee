package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yigit/labdesk/internal/app/models"
	"github.com/yigit/labdesk/internal/pkg/apperrors"
	"github.com/yigit/labdesk/internal/pkg/logger"
)

var requestColumns = []string{
	"r.id", "r.student_id", "r.course_id", "r.location", "r.question",
	"r.when_asked", "r.when_solved", "r.solved", "r.timed_out", "r.emailed",
}

// RequestRepository handles help request database operations
type RequestRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewRequestRepository creates a new RequestRepository
func NewRequestRepository(db *pgxpool.Pool) *RequestRepository {
	return &RequestRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func requestDest(r *models.Request) []interface{} {
	return []interface{}{
		&r.ID, &r.StudentID, &r.CourseID, &r.Location, &r.Question,
		&r.WhenAsked, &r.WhenSolved, &r.Solved, &r.TimedOut, &r.Emailed,
	}
}

// Create inserts a new open request
func (r *RequestRepository) Create(ctx context.Context, request *models.Request) error {
	sql, args, err := r.sb.Insert("requests").
		Columns("student_id", "course_id", "location", "question", "when_asked").
		Values(request.StudentID, request.CourseID, request.Location, request.Question, request.WhenAsked).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create request SQL")
		return fmt.Errorf("failed to build create request query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&request.ID); err != nil {
		logger.Error().Err(err).Int64("studentID", request.StudentID).Msg("Error executing create request query")
		return fmt.Errorf("error creating request: %w", err)
	}
	return nil
}

// GetByID retrieves a request by ID
func (r *RequestRepository) GetByID(ctx context.Context, id int64) (*models.Request, error) {
	sql, args, err := r.sb.Select(requestColumns...).
		From("requests r").
		Where(squirrel.Eq{"r.id": id}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get request SQL")
		return nil, fmt.Errorf("failed to build get request query: %w", err)
	}

	request := &models.Request{}
	if err := r.db.QueryRow(ctx, sql, args...).Scan(requestDest(request)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrRequestNotFound
		}
		logger.Error().Err(err).Int64("requestID", id).Msg("Error scanning request row")
		return nil, fmt.Errorf("error getting request: %w", err)
	}
	return request, nil
}

// MarkSolved solves the request only while it is open. When no open row
// matched it returns the stored request with solved=false.
func (r *RequestRepository) MarkSolved(ctx context.Context, id int64, at time.Time) (*models.Request, bool, error) {
	sql, args, err := r.sb.Update("requests").
		Set("solved", true).
		Set("timed_out", false).
		Set("when_solved", at).
		Where(squirrel.Eq{"id": id, "solved": false, "timed_out": false}).
		Suffix("RETURNING id, student_id, course_id, location, question, when_asked, when_solved, solved, timed_out, emailed").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building resolve request SQL")
		return nil, false, fmt.Errorf("failed to build resolve request query: %w", err)
	}

	request := &models.Request{}
	err = r.db.QueryRow(ctx, sql, args...).Scan(requestDest(request)...)
	if err == nil {
		return request, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		logger.Error().Err(err).Int64("requestID", id).Msg("Error executing resolve request query")
		return nil, false, fmt.Errorf("error resolving request: %w", err)
	}

	current, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, false, err
	}
	return current, false, nil
}

// MarkTimedOut times out every unsolved open request asked before cutoff
func (r *RequestRepository) MarkTimedOut(ctx context.Context, cutoff time.Time) (int64, error) {
	sql, args, err := r.sb.Update("requests").
		Set("timed_out", true).
		Where(squirrel.Eq{"solved": false, "timed_out": false}).
		Where(squirrel.Lt{"when_asked": cutoff}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building sweep requests SQL")
		return 0, fmt.Errorf("failed to build sweep query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing sweep requests query")
		return 0, fmt.Errorf("error sweeping requests: %w", err)
	}
	return tag.RowsAffected(), nil
}

// ListOpenSince returns open requests asked at or after since, ordered by
// course number and then ask time, with course and student user loaded
func (r *RequestRepository) ListOpenSince(ctx context.Context, since time.Time) ([]models.Request, error) {
	columns := append(append([]string{}, requestColumns...),
		"c.id", "c.number", "c.name", "c.instructor",
		"s.id", "s.user_id",
		"u.id", "u.email", "u.first_name", "u.last_name", "u.is_admin", "u.created_at",
	)
	sql, args, err := r.sb.Select(columns...).
		From("requests r").
		Join("courses c ON c.id = r.course_id").
		Join("students s ON s.id = r.student_id").
		Join("users u ON u.id = s.user_id").
		Where(squirrel.Eq{"r.solved": false, "r.timed_out": false}).
		Where(squirrel.GtOrEq{"r.when_asked": since}).
		OrderBy("c.number ASC", "r.when_asked ASC", "r.id ASC").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list open requests SQL")
		return nil, fmt.Errorf("failed to build list open requests query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list open requests query")
		return nil, fmt.Errorf("error querying open requests: %w", err)
	}
	defer rows.Close()

	requests := []models.Request{}
	for rows.Next() {
		var req models.Request
		course := &models.Course{}
		student := &models.Student{User: &models.User{}}
		dest := append(requestDest(&req),
			&course.ID, &course.Number, &course.Name, &course.Instructor,
			&student.ID, &student.UserID,
			&student.User.ID, &student.User.Email, &student.User.FirstName, &student.User.LastName,
			&student.User.IsAdmin, &student.User.CreatedAt,
		)
		if err := rows.Scan(dest...); err != nil {
			logger.Error().Err(err).Msg("Error scanning open request row")
			return nil, fmt.Errorf("error scanning request: %w", err)
		}
		req.Course = course
		req.Student = student
		requests = append(requests, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating requests: %w", err)
	}
	return requests, nil
}

// ListByStudent returns a student's requests newest first with the course loaded
func (r *RequestRepository) ListByStudent(ctx context.Context, studentID int64) ([]models.Request, error) {
	columns := append(append([]string{}, requestColumns...), "c.id", "c.number", "c.name", "c.instructor")
	sql, args, err := r.sb.Select(columns...).
		From("requests r").
		Join("courses c ON c.id = r.course_id").
		Where(squirrel.Eq{"r.student_id": studentID}).
		OrderBy("r.when_asked DESC", "r.id DESC").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list student requests SQL")
		return nil, fmt.Errorf("failed to build list student requests query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("studentID", studentID).Msg("Error executing list student requests query")
		return nil, fmt.Errorf("error querying student requests: %w", err)
	}
	defer rows.Close()

	requests := []models.Request{}
	for rows.Next() {
		var req models.Request
		course := &models.Course{}
		dest := append(requestDest(&req), &course.ID, &course.Number, &course.Name, &course.Instructor)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("error scanning request: %w", err)
		}
		req.Course = course
		requests = append(requests, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating requests: %w", err)
	}
	return requests, nil
}
