package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yigit/labdesk/internal/app/models"
	"github.com/yigit/labdesk/internal/db"
	"github.com/yigit/labdesk/internal/pkg/logger"
)

// AvailabilityRepository stores lab computer and server telemetry
type AvailabilityRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewAvailabilityRepository creates a new AvailabilityRepository
func NewAvailabilityRepository(db *pgxpool.Pool) *AvailabilityRepository {
	return &AvailabilityRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// UpsertComputer overwrites the latest poll of a computer
func (r *AvailabilityRepository) UpsertComputer(ctx context.Context, c *models.Computer) error {
	sql, args, err := r.sb.Insert("computers").
		Columns("computer_number", "room_number", "status", "used_for", "last_update").
		Values(c.ComputerNumber, c.RoomNumber, string(c.Status), c.UsedFor, c.LastUpdate).
		Suffix(`ON CONFLICT (computer_number) DO UPDATE SET
			room_number = EXCLUDED.room_number,
			status = EXCLUDED.status,
			used_for = EXCLUDED.used_for,
			last_update = EXCLUDED.last_update`).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building upsert computer SQL")
		return fmt.Errorf("failed to build upsert computer query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Str("computer", c.ComputerNumber).Msg("Error executing upsert computer query")
		return fmt.Errorf("error recording computer: %w", err)
	}
	return nil
}

// RecordServer overwrites the latest poll of a server and appends a ServerInfo row
func (r *AvailabilityRepository) RecordServer(ctx context.Context, s *models.Server) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		sql, args, err := r.sb.Insert("servers").
			Columns("computer_name", "num_users", "status", "last_updated").
			Values(s.ComputerName, s.NumUsers, string(s.Status), s.LastUpdated).
			Suffix(`ON CONFLICT (computer_name) DO UPDATE SET
				num_users = EXCLUDED.num_users,
				status = EXCLUDED.status,
				last_updated = EXCLUDED.last_updated`).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build upsert server query: %w", err)
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			logger.Error().Err(err).Str("server", s.ComputerName).Msg("Error executing upsert server query")
			return fmt.Errorf("error recording server: %w", err)
		}

		sql, args, err = r.sb.Insert("server_infos").
			Columns("computer_name", "num_users", "status", "update_time").
			Values(s.ComputerName, s.NumUsers, string(s.Status), s.LastUpdated).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build server snapshot query: %w", err)
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("error recording server snapshot: %w", err)
		}
		return nil
	})
}

// ListComputers returns the computers of room, or of every room when room is empty
func (r *AvailabilityRepository) ListComputers(ctx context.Context, room string) ([]models.Computer, error) {
	query := r.sb.Select("computer_number", "room_number", "status", "used_for", "last_update").
		From("computers").
		OrderBy("room_number ASC", "computer_number ASC")
	if room != "" {
		query = query.Where(squirrel.Eq{"room_number": room})
	}
	sql, args, err := query.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list computers SQL")
		return nil, fmt.Errorf("failed to build list computers query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list computers query")
		return nil, fmt.Errorf("error querying computers: %w", err)
	}
	defer rows.Close()

	computers := []models.Computer{}
	for rows.Next() {
		var c models.Computer
		var status string
		if err := rows.Scan(&c.ComputerNumber, &c.RoomNumber, &status, &c.UsedFor, &c.LastUpdate); err != nil {
			return nil, fmt.Errorf("error scanning computer: %w", err)
		}
		c.Status = models.ComputerStatus(status)
		computers = append(computers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating computers: %w", err)
	}
	return computers, nil
}

// ListServers returns every server ordered by name
func (r *AvailabilityRepository) ListServers(ctx context.Context) ([]models.Server, error) {
	sql, args, err := r.sb.Select("computer_name", "num_users", "status", "last_updated").
		From("servers").
		OrderBy("computer_name ASC").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list servers SQL")
		return nil, fmt.Errorf("failed to build list servers query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list servers query")
		return nil, fmt.Errorf("error querying servers: %w", err)
	}
	defer rows.Close()

	servers := []models.Server{}
	for rows.Next() {
		var s models.Server
		var status string
		if err := rows.Scan(&s.ComputerName, &s.NumUsers, &status, &s.LastUpdated); err != nil {
			return nil, fmt.Errorf("error scanning server: %w", err)
		}
		s.Status = models.ServerStatus(status)
		servers = append(servers, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating servers: %w", err)
	}
	return servers, nil
}

// CreateRoomInfo stores a room snapshot with its per-course usage rows
func (r *AvailabilityRepository) CreateRoomInfo(ctx context.Context, info *models.RoomInfo) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		sql, args, err := r.sb.Insert("room_infos").
			Columns("lab", "num_reporting", "num_available", "num_unavailable", "num_error", "update_time").
			Values(info.Lab, info.NumReporting, info.NumAvailable, info.NumUnavailable, info.NumError, info.UpdateTime).
			Suffix("RETURNING id").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build room snapshot query: %w", err)
		}
		if err := tx.QueryRow(ctx, sql, args...).Scan(&info.ID); err != nil {
			logger.Error().Err(err).Str("room", info.Lab).Msg("Error executing room snapshot query")
			return fmt.Errorf("error recording room snapshot: %w", err)
		}

		for i := range info.CourseUsage {
			usage := &info.CourseUsage[i]
			usage.RoomInfoID = info.ID
			sql, args, err := r.sb.Insert("course_usage_infos").
				Columns("room_info_id", "course", "num_machines").
				Values(usage.RoomInfoID, usage.Course, usage.NumMachines).
				Suffix("RETURNING id").
				ToSql()
			if err != nil {
				return fmt.Errorf("failed to build course usage query: %w", err)
			}
			if err := tx.QueryRow(ctx, sql, args...).Scan(&usage.ID); err != nil {
				return fmt.Errorf("error recording course usage: %w", err)
			}
		}
		return nil
	})
}
