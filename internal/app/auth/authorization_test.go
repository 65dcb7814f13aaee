package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/yigit/labdesk/internal/app/models"
	"github.com/yigit/labdesk/internal/pkg/apperrors"
)

type mapStudents map[int64]*models.Student

func (m mapStudents) GetByUserID(_ context.Context, userID int64) (*models.Student, error) {
	if s, ok := m[userID]; ok {
		return s, nil
	}
	return nil, apperrors.ErrStudentNotFound
}

type mapTAs map[int64]*models.TA

func (m mapTAs) GetByUserID(_ context.Context, userID int64) (*models.TA, error) {
	if t, ok := m[userID]; ok {
		return t, nil
	}
	return nil, apperrors.ErrTANotFound
}

type failingTAs struct{}

func (failingTAs) GetByUserID(context.Context, int64) (*models.TA, error) {
	return nil, errors.New("connection reset")
}

func TestValidateCanResolve(t *testing.T) {
	students := mapStudents{
		1: {ID: 10, UserID: 1},
		2: {ID: 20, UserID: 2},
		3: {ID: 30, UserID: 3},
	}
	tas := mapTAs{
		3: {ID: 100, UserID: 3, Active: true},
		4: {ID: 200, UserID: 4, Active: false},
	}
	svc := NewAuthorizationService(students, tas)
	request := &models.Request{ID: 1, StudentID: 10}

	tests := []struct {
		name    string
		userID  int64
		allowed bool
	}{
		{"owner", 1, true},
		{"other student", 2, false},
		{"active TA", 3, true},
		{"inactive TA", 4, false},
		{"stranger", 5, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.ValidateCanResolve(context.Background(), request, tt.userID)
			if tt.allowed && err != nil {
				t.Errorf("Expected allowed, got %v", err)
			}
			if !tt.allowed && !errors.Is(err, apperrors.ErrPermissionDenied) {
				t.Errorf("Expected permission denied, got %v", err)
			}
		})
	}
}

func TestActiveTA(t *testing.T) {
	svc := NewAuthorizationService(mapStudents{}, mapTAs{
		3: {ID: 100, UserID: 3, Active: true},
		4: {ID: 200, UserID: 4},
	})

	ta, err := svc.ActiveTA(context.Background(), 3)
	if err != nil || ta.ID != 100 {
		t.Errorf("Expected TA 100, got %+v, %v", ta, err)
	}
	if _, err := svc.ActiveTA(context.Background(), 4); !errors.Is(err, apperrors.ErrNotTA) {
		t.Errorf("Expected ErrNotTA for inactive TA, got %v", err)
	}
	if _, err := svc.ActiveTA(context.Background(), 9); !errors.Is(err, apperrors.ErrNotTA) {
		t.Errorf("Expected ErrNotTA for unknown user, got %v", err)
	}
}

func TestStoreFailurePropagates(t *testing.T) {
	svc := NewAuthorizationService(mapStudents{}, failingTAs{})

	err := svc.ValidateCanResolve(context.Background(), &models.Request{StudentID: 10}, 7)
	if err == nil || errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Errorf("Expected store error, got %v", err)
	}
}
