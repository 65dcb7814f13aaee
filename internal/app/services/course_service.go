package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/yigit/labdesk/internal/app/models"
	"github.com/yigit/labdesk/internal/app/models/dto"
	"github.com/yigit/labdesk/internal/pkg/apperrors"
)

// CourseService defines the interface for course-related operations
type CourseService interface {
	List(ctx context.Context) ([]models.Course, error)
	Create(ctx context.Context, req *dto.CreateCourseRequest) (*models.Course, error)
}

// courseServiceImpl implements the CourseService interface
type courseServiceImpl struct {
	courses CourseStore
}

// NewCourseService creates a new course service instance
func NewCourseService(courses CourseStore) CourseService {
	return &courseServiceImpl{courses: courses}
}

// List returns every course ordered by number
func (s *courseServiceImpl) List(ctx context.Context) ([]models.Course, error) {
	return s.courses.List(ctx)
}

// Create adds a course; numbers are unique
func (s *courseServiceImpl) Create(ctx context.Context, req *dto.CreateCourseRequest) (*models.Course, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("invalid course", map[string]string{"name": "name is required"})
	}

	course := &models.Course{
		Number:     req.Number,
		Name:       name,
		Instructor: strings.TrimSpace(req.Instructor),
	}
	if err := s.courses.Create(ctx, course); err != nil {
		return nil, fmt.Errorf("failed to create course %d: %w", req.Number, err)
	}
	return course, nil
}
