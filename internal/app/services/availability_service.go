package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/yigit/labdesk/internal/app/models"
	"github.com/yigit/labdesk/internal/app/models/dto"
	"github.com/yigit/labdesk/internal/pkg/apperrors"
)

// AvailabilityService ingests lab machine telemetry
type AvailabilityService interface {
	ReportComputer(ctx context.Context, number, room string, status models.ComputerStatus, usedFor string) (*models.Computer, error)
	ReportServer(ctx context.Context, name string, numUsers int, status models.ServerStatus) (*models.Server, error)
	SnapshotRoom(ctx context.Context, room string) (*models.RoomInfo, error)
	Overview(ctx context.Context) (*dto.AvailabilityResponse, error)
}

type availabilityServiceImpl struct {
	store  AvailabilityStore
	now    Clock
	logger zerolog.Logger
}

// NewAvailabilityService creates a new AvailabilityService
func NewAvailabilityService(store AvailabilityStore, now Clock, logger zerolog.Logger) AvailabilityService {
	return &availabilityServiceImpl{store: store, now: now, logger: logger}
}

// ReportComputer overwrites the latest state of one computer
func (s *availabilityServiceImpl) ReportComputer(ctx context.Context, number, room string, status models.ComputerStatus, usedFor string) (*models.Computer, error) {
	number = strings.TrimSpace(number)
	fields := map[string]string{}
	if number == "" || len(number) > 7 {
		fields["number"] = "computer number must be 1 to 7 characters"
	}
	if !status.Valid() {
		fields["status"] = "status must be one of OFF, INUSE, AVAILABLE, ERROR"
	}
	if len(fields) > 0 {
		return nil, apperrors.NewValidationError("invalid computer report", fields)
	}

	usedFor = strings.TrimSpace(usedFor)
	if usedFor == "" {
		usedFor = models.DefaultCourseUsage
	}

	computer := &models.Computer{
		ComputerNumber: number,
		RoomNumber:     strings.TrimSpace(room),
		Status:         status,
		UsedFor:        usedFor,
		LastUpdate:     s.now(),
	}
	if err := s.store.UpsertComputer(ctx, computer); err != nil {
		return nil, fmt.Errorf("failed to record computer %s: %w", number, err)
	}
	return computer, nil
}

// ReportServer overwrites the latest state of one server and logs a snapshot
func (s *availabilityServiceImpl) ReportServer(ctx context.Context, name string, numUsers int, status models.ServerStatus) (*models.Server, error) {
	name = strings.TrimSpace(name)
	fields := map[string]string{}
	if name == "" || len(name) > 30 {
		fields["name"] = "server name must be 1 to 30 characters"
	}
	if numUsers < 0 {
		fields["numUsers"] = "numUsers must not be negative"
	}
	if !status.Valid() {
		fields["status"] = "status must be one of OFF, ON, ERROR"
	}
	if len(fields) > 0 {
		return nil, apperrors.NewValidationError("invalid server report", fields)
	}

	server := &models.Server{
		ComputerName: name,
		NumUsers:     numUsers,
		Status:       status,
		LastUpdated:  s.now(),
	}
	if err := s.store.RecordServer(ctx, server); err != nil {
		return nil, fmt.Errorf("failed to record server %s: %w", name, err)
	}
	return server, nil
}

// SnapshotRoom stores the current counts of one room
func (s *availabilityServiceImpl) SnapshotRoom(ctx context.Context, room string) (*models.RoomInfo, error) {
	computers, err := s.store.ListComputers(ctx, room)
	if err != nil {
		return nil, err
	}
	if len(computers) == 0 {
		return nil, apperrors.NewResourceNotFoundError(fmt.Sprintf("no computers reported in room %s", room))
	}

	info := models.SummarizeRoom(room, computers, s.now())
	if err := s.store.CreateRoomInfo(ctx, &info); err != nil {
		return nil, fmt.Errorf("failed to store room snapshot: %w", err)
	}
	s.logger.Debug().Str("room", room).Int("reporting", info.NumReporting).Msg("Room snapshot stored")
	return &info, nil
}

// Overview groups every computer by room and lists every server
func (s *availabilityServiceImpl) Overview(ctx context.Context) (*dto.AvailabilityResponse, error) {
	computers, err := s.store.ListComputers(ctx, "")
	if err != nil {
		return nil, err
	}
	servers, err := s.store.ListServers(ctx)
	if err != nil {
		return nil, err
	}

	byRoom := map[string][]models.Computer{}
	for _, c := range computers {
		byRoom[c.RoomNumber] = append(byRoom[c.RoomNumber], c)
	}
	rooms := make([]string, 0, len(byRoom))
	for room := range byRoom {
		rooms = append(rooms, room)
	}
	sort.Strings(rooms)

	now := s.now()
	resp := &dto.AvailabilityResponse{
		Rooms:   make([]dto.RoomOverview, 0, len(rooms)),
		Servers: servers,
	}
	if resp.Servers == nil {
		resp.Servers = []models.Server{}
	}
	for _, room := range rooms {
		info := models.SummarizeRoom(room, byRoom[room], now)
		resp.Rooms = append(resp.Rooms, dto.RoomOverview{
			Room:           room,
			NumReporting:   info.NumReporting,
			NumAvailable:   info.NumAvailable,
			NumUnavailable: info.NumUnavailable,
			NumError:       info.NumError,
			Computers:      byRoom[room],
		})
	}
	return resp, nil
}
