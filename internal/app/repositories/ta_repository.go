package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yigit/labdesk/internal/app/models"
	"github.com/yigit/labdesk/internal/db"
	"github.com/yigit/labdesk/internal/pkg/apperrors"
	"github.com/yigit/labdesk/internal/pkg/logger"
)

// TARepository handles TA records and their course assignments
type TARepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewTARepository creates a new TARepository
func NewTARepository(db *pgxpool.Pool) *TARepository {
	return &TARepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// GetByUserID returns the TA with its user and course ids loaded
func (r *TARepository) GetByUserID(ctx context.Context, userID int64) (*models.TA, error) {
	sql, args, err := r.sb.Select(
		"t.id", "t.user_id", "t.active",
		"u.id", "u.email", "u.first_name", "u.last_name", "u.is_admin", "u.created_at",
		"COALESCE(array_agg(tc.course_id) FILTER (WHERE tc.course_id IS NOT NULL), '{}')",
	).
		From("tas t").
		Join("users u ON u.id = t.user_id").
		LeftJoin("ta_courses tc ON tc.ta_id = t.id").
		Where(squirrel.Eq{"t.user_id": userID}).
		GroupBy("t.id", "u.id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get TA SQL")
		return nil, fmt.Errorf("failed to build get TA query: %w", err)
	}

	ta := &models.TA{User: &models.User{}}
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&ta.ID, &ta.UserID, &ta.Active,
		&ta.User.ID, &ta.User.Email, &ta.User.FirstName, &ta.User.LastName, &ta.User.IsAdmin, &ta.User.CreatedAt,
		&ta.CourseIDs,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTANotFound
		}
		logger.Error().Err(err).Int64("userID", userID).Msg("Error scanning TA row")
		return nil, fmt.Errorf("error getting TA: %w", err)
	}
	return ta, nil
}

// Save creates or updates the TA of userID and replaces its course links in one transaction
func (r *TARepository) Save(ctx context.Context, userID int64, active bool, courseIDs []int64) (*models.TA, error) {
	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		sql, args, err := r.sb.Insert("tas").
			Columns("user_id", "active").
			Values(userID, active).
			Suffix("ON CONFLICT (user_id) DO UPDATE SET active = EXCLUDED.active RETURNING id").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build upsert TA query: %w", err)
		}

		var taID int64
		if err := tx.QueryRow(ctx, sql, args...).Scan(&taID); err != nil {
			return fmt.Errorf("error upserting TA: %w", err)
		}

		sql, args, err = r.sb.Delete("ta_courses").Where(squirrel.Eq{"ta_id": taID}).ToSql()
		if err != nil {
			return fmt.Errorf("failed to build clear TA courses query: %w", err)
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("error clearing TA courses: %w", err)
		}

		if len(courseIDs) == 0 {
			return nil
		}
		insert := r.sb.Insert("ta_courses").Columns("ta_id", "course_id")
		for _, id := range courseIDs {
			insert = insert.Values(taID, id)
		}
		sql, args, err = insert.Suffix("ON CONFLICT DO NOTHING").ToSql()
		if err != nil {
			return fmt.Errorf("failed to build link TA courses query: %w", err)
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("error linking TA courses: %w", err)
		}
		return nil
	})
	if err != nil {
		logger.Error().Err(err).Int64("userID", userID).Msg("Error saving TA")
		return nil, err
	}

	return r.GetByUserID(ctx, userID)
}
