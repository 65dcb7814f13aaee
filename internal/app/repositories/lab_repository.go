package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yigit/labdesk/internal/app/models"
	"github.com/yigit/labdesk/internal/pkg/logger"
)

// LabRepository handles the weekly lab schedule
type LabRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewLabRepository creates a new LabRepository
func NewLabRepository(db *pgxpool.Pool) *LabRepository {
	return &LabRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func toPgTime(t models.TimeOfDay) pgtype.Time {
	return pgtype.Time{Microseconds: time.Duration(t).Microseconds(), Valid: true}
}

func fromPgTime(t pgtype.Time) models.TimeOfDay {
	return models.TimeOfDay(time.Duration(t.Microseconds) * time.Microsecond)
}

// Create inserts a lab schedule entry
func (r *LabRepository) Create(ctx context.Context, lab *models.Lab) error {
	sql, args, err := r.sb.Insert("labs").
		Columns("class_name", "room_number", "start_time", "end_time", "start_date", "end_date", "day_of_week").
		Values(
			lab.ClassName, lab.RoomNumber,
			toPgTime(lab.StartTime), toPgTime(lab.EndTime),
			pgtype.Date{Time: lab.StartDate, Valid: true}, pgtype.Date{Time: lab.EndDate, Valid: true},
			lab.DayOfWeek,
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create lab SQL")
		return fmt.Errorf("failed to build create lab query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&lab.ID); err != nil {
		logger.Error().Err(err).Str("className", lab.ClassName).Msg("Error executing create lab query")
		return fmt.Errorf("error creating lab: %w", err)
	}
	return nil
}

// List returns every lab ordered by weekday and start time
func (r *LabRepository) List(ctx context.Context) ([]models.Lab, error) {
	sql, args, err := r.sb.Select("id", "class_name", "room_number", "start_time", "end_time", "start_date", "end_date", "day_of_week").
		From("labs").
		OrderBy("day_of_week ASC", "start_time ASC", "id ASC").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list labs SQL")
		return nil, fmt.Errorf("failed to build list labs query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list labs query")
		return nil, fmt.Errorf("error querying labs: %w", err)
	}
	defer rows.Close()

	labs := []models.Lab{}
	for rows.Next() {
		var (
			lab                models.Lab
			startTime, endTime pgtype.Time
			startDate, endDate pgtype.Date
			dayOfWeek          int16
		)
		if err := rows.Scan(&lab.ID, &lab.ClassName, &lab.RoomNumber, &startTime, &endTime, &startDate, &endDate, &dayOfWeek); err != nil {
			return nil, fmt.Errorf("error scanning lab: %w", err)
		}
		lab.StartTime = fromPgTime(startTime)
		lab.EndTime = fromPgTime(endTime)
		lab.StartDate = startDate.Time
		lab.EndDate = endDate.Time
		lab.DayOfWeek = int(dayOfWeek)
		labs = append(labs, lab)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating labs: %w", err)
	}
	return labs, nil
}
