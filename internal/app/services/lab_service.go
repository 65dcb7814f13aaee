package services

import (
	"context"
	"time"

	"github.com/yigit/labdesk/internal/app/models"
	"github.com/yigit/labdesk/internal/app/models/dto"
	"github.com/yigit/labdesk/internal/pkg/apperrors"
)

// LabService lists the weekly lab schedule with its live state
type LabService interface {
	List(ctx context.Context) ([]dto.LabResponse, error)
	Create(ctx context.Context, req *dto.CreateLabRequest) (*models.Lab, error)
}

type labServiceImpl struct {
	labs LabStore
	loc  *time.Location
	now  Clock
}

// NewLabService creates a LabService evaluating schedules in loc
func NewLabService(labs LabStore, loc *time.Location, now Clock) LabService {
	if loc == nil {
		loc = time.UTC
	}
	return &labServiceImpl{labs: labs, loc: loc, now: now}
}

// List returns every lab annotated with InSession and ComingUp
func (s *labServiceImpl) List(ctx context.Context) ([]dto.LabResponse, error) {
	labs, err := s.labs.List(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now().In(s.loc)
	out := make([]dto.LabResponse, 0, len(labs))
	for i := range labs {
		out = append(out, dto.NewLabResponse(&labs[i], now))
	}
	return out, nil
}

// Create validates and stores a schedule entry
func (s *labServiceImpl) Create(ctx context.Context, req *dto.CreateLabRequest) (*models.Lab, error) {
	fields := map[string]string{}

	start, err := models.ParseTimeOfDay(req.StartTime)
	if err != nil {
		fields["startTime"] = "startTime must be HH:MM"
	}
	end, err := models.ParseTimeOfDay(req.EndTime)
	if err != nil {
		fields["endTime"] = "endTime must be HH:MM"
	}
	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		fields["startDate"] = "startDate must be YYYY-MM-DD"
	}
	endDate, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		fields["endDate"] = "endDate must be YYYY-MM-DD"
	}
	if len(fields) == 0 {
		if end <= start {
			fields["endTime"] = "endTime must be after startTime"
		}
		if endDate.Before(startDate) {
			fields["endDate"] = "endDate must not be before startDate"
		}
	}
	if req.DayOfWeek == nil || *req.DayOfWeek < 0 || *req.DayOfWeek > 6 {
		fields["dayOfWeek"] = "dayOfWeek must be between 0 (Monday) and 6 (Sunday)"
	}
	if len(fields) > 0 {
		return nil, apperrors.NewValidationError("invalid lab", fields)
	}

	lab := &models.Lab{
		ClassName:  req.ClassName,
		RoomNumber: req.RoomNumber,
		StartTime:  start,
		EndTime:    end,
		StartDate:  startDate,
		EndDate:    endDate,
		DayOfWeek:  *req.DayOfWeek,
	}
	if err := s.labs.Create(ctx, lab); err != nil {
		return nil, err
	}
	return lab, nil
}
