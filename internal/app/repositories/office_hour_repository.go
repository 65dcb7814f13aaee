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
	"github.com/yigit/labdesk/internal/db"
	"github.com/yigit/labdesk/internal/pkg/apperrors"
	"github.com/yigit/labdesk/internal/pkg/logger"
)

// OfficeHourRepository handles TA duty sessions
type OfficeHourRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewOfficeHourRepository creates a new OfficeHourRepository
func NewOfficeHourRepository(db *pgxpool.Pool) *OfficeHourRepository {
	return &OfficeHourRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// CreateExclusive inserts the session unless the TA already has one ending after now.
// The check and insert share a transaction holding an advisory lock on the TA id,
// so concurrent instances cannot both succeed.
func (r *OfficeHourRepository) CreateExclusive(ctx context.Context, session *models.OfficeHour, now time.Time) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock($1)", session.TAID); err != nil {
			return fmt.Errorf("error locking TA %d: %w", session.TAID, err)
		}

		sql, args, err := r.sb.Select("1").
			Prefix("SELECT EXISTS(").
			From("office_hours").
			Where(squirrel.Eq{"ta_id": session.TAID}).
			Where(squirrel.Gt{"end_time": now}).
			Suffix(")").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build active session query: %w", err)
		}

		var exists bool
		if err := tx.QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
			return fmt.Errorf("error checking active session: %w", err)
		}
		if exists {
			return apperrors.ErrAlreadyOnDuty
		}

		sql, args, err = r.sb.Insert("office_hours").
			Columns("ta_id", "course_id", "start_time", "end_time").
			Values(session.TAID, session.CourseID, session.StartTime, session.EndTime).
			Suffix("RETURNING id").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build create session query: %w", err)
		}
		if err := tx.QueryRow(ctx, sql, args...).Scan(&session.ID); err != nil {
			logger.Error().Err(err).Int64("taID", session.TAID).Msg("Error executing create session query")
			return fmt.Errorf("error creating session: %w", err)
		}
		return nil
	})
}

// ActiveForTA returns the TA's session ending after now
func (r *OfficeHourRepository) ActiveForTA(ctx context.Context, taID int64, now time.Time) (*models.OfficeHour, error) {
	sql, args, err := r.sb.Select(
		"o.id", "o.ta_id", "o.course_id", "o.start_time", "o.end_time",
		"c.id", "c.number", "c.name", "c.instructor",
	).
		From("office_hours o").
		Join("courses c ON c.id = o.course_id").
		Where(squirrel.Eq{"o.ta_id": taID}).
		Where(squirrel.Gt{"o.end_time": now}).
		OrderBy("o.end_time DESC").
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building active session SQL")
		return nil, fmt.Errorf("failed to build active session query: %w", err)
	}

	oh := &models.OfficeHour{Course: &models.Course{}}
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&oh.ID, &oh.TAID, &oh.CourseID, &oh.StartTime, &oh.EndTime,
		&oh.Course.ID, &oh.Course.Number, &oh.Course.Name, &oh.Course.Instructor,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNoActiveDuty
		}
		logger.Error().Err(err).Int64("taID", taID).Msg("Error scanning session row")
		return nil, fmt.Errorf("error getting active session: %w", err)
	}
	return oh, nil
}

// SetEnd moves the end of a session
func (r *OfficeHourRepository) SetEnd(ctx context.Context, id int64, end time.Time) error {
	sql, args, err := r.sb.Update("office_hours").
		Set("end_time", end).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build close session query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("sessionID", id).Msg("Error executing close session query")
		return fmt.Errorf("error closing session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNoActiveDuty
	}
	return nil
}

// ListActive returns sessions with start <= now < end, with course and TA user loaded
func (r *OfficeHourRepository) ListActive(ctx context.Context, now time.Time) ([]models.OfficeHour, error) {
	sql, args, err := r.sb.Select(
		"o.id", "o.ta_id", "o.course_id", "o.start_time", "o.end_time",
		"c.id", "c.number", "c.name", "c.instructor",
		"t.id", "t.user_id", "t.active",
		"u.id", "u.email", "u.first_name", "u.last_name", "u.is_admin", "u.created_at",
	).
		From("office_hours o").
		Join("courses c ON c.id = o.course_id").
		Join("tas t ON t.id = o.ta_id").
		Join("users u ON u.id = t.user_id").
		Where(squirrel.LtOrEq{"o.start_time": now}).
		Where(squirrel.Gt{"o.end_time": now}).
		OrderBy("c.number ASC", "o.start_time ASC").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list active sessions SQL")
		return nil, fmt.Errorf("failed to build list active sessions query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list active sessions query")
		return nil, fmt.Errorf("error querying active sessions: %w", err)
	}
	defer rows.Close()

	sessions := []models.OfficeHour{}
	for rows.Next() {
		oh := models.OfficeHour{
			Course: &models.Course{},
			TA:     &models.TA{User: &models.User{}},
		}
		if err := rows.Scan(
			&oh.ID, &oh.TAID, &oh.CourseID, &oh.StartTime, &oh.EndTime,
			&oh.Course.ID, &oh.Course.Number, &oh.Course.Name, &oh.Course.Instructor,
			&oh.TA.ID, &oh.TA.UserID, &oh.TA.Active,
			&oh.TA.User.ID, &oh.TA.User.Email, &oh.TA.User.FirstName, &oh.TA.User.LastName,
			&oh.TA.User.IsAdmin, &oh.TA.User.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning session: %w", err)
		}
		sessions = append(sessions, oh)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sessions: %w", err)
	}
	return sessions, nil
}
