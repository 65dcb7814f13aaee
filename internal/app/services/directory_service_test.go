package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/yigit/labdesk/internal/app/models"
	"github.com/yigit/labdesk/internal/app/models/dto"
	"github.com/yigit/labdesk/internal/pkg/apperrors"
	"github.com/yigit/labdesk/internal/pkg/auth"
)

func intPtr(v int) *int { return &v }

func TestLabServiceCreateAndList(t *testing.T) {
	db := newMemDB()
	// Monday 08:00 in New York, one hour before the lab starts
	clock := newTestClock(time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC))
	svc := NewLabService(fakeLabs{db}, newYork, clock.Now)

	_, err := svc.Create(context.Background(), &dto.CreateLabRequest{
		ClassName: "COMP 15", RoomNumber: 116,
		StartTime: "09:00", EndTime: "10:00",
		StartDate: "2026-09-01", EndDate: "2026-12-15",
		DayOfWeek: intPtr(0),
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	labs, err := svc.List(context.Background())
	if err != nil || len(labs) != 1 {
		t.Fatalf("Expected 1 lab, got %d (%v)", len(labs), err)
	}
	lab := labs[0]
	if lab.StartTime != "09:00 AM" || lab.DayOfWeek != "Monday" || lab.DayOfWeekAsNum != 0 {
		t.Errorf("Unexpected lab rendering: %+v", lab)
	}
	if lab.InSession || !lab.ComingUp {
		t.Errorf("Expected lab coming up, got InSession=%v ComingUp=%v", lab.InSession, lab.ComingUp)
	}
}

func TestLabServiceCreateValidation(t *testing.T) {
	svc := NewLabService(fakeLabs{newMemDB()}, newYork, time.Now)

	_, err := svc.Create(context.Background(), &dto.CreateLabRequest{
		ClassName: "COMP 15", RoomNumber: 116,
		StartTime: "10:00", EndTime: "09:00",
		StartDate: "2026-12-15", EndDate: "2026-09-01",
		DayOfWeek: intPtr(7),
	})
	if !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Fatalf("Expected validation error, got %v", err)
	}
	details := apperrors.Details(err)
	for _, field := range []string{"endTime", "endDate", "dayOfWeek"} {
		if _, ok := details[field]; !ok {
			t.Errorf("Expected detail for %s, got %v", field, details)
		}
	}
}

func TestCourseServiceCreate(t *testing.T) {
	db := newMemDB()
	svc := NewCourseService(fakeCourses{db})

	if _, err := svc.Create(context.Background(), &dto.CreateCourseRequest{Number: 15, Name: "Data Structures"}); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if _, err := svc.Create(context.Background(), &dto.CreateCourseRequest{Number: 15, Name: "Again"}); !errors.Is(err, apperrors.ErrConflict) {
		t.Errorf("Expected conflict on duplicate number, got %v", err)
	}
	if _, err := svc.Create(context.Background(), &dto.CreateCourseRequest{Number: 11, Name: "  "}); !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Errorf("Expected validation error on blank name, got %v", err)
	}

	courses, _ := svc.List(context.Background())
	if len(courses) != 1 || courses[0].Number != 15 {
		t.Errorf("Expected only course 15, got %+v", courses)
	}
}

func TestAvailabilityService(t *testing.T) {
	db := newMemDB()
	clock := newTestClock(time.Date(2026, 10, 19, 14, 0, 0, 0, newYork))
	svc := NewAvailabilityService(fakeAvailability{db}, clock.Now, zerolog.Nop())
	ctx := context.Background()

	reports := []struct {
		number, room string
		status       models.ComputerStatus
		usedFor      string
	}{
		{"lab116a", "116", models.ComputerAvailable, ""},
		{"lab116b", "116", models.ComputerInUse, "COMP 15"},
		{"lab116c", "116", models.ComputerInUse, ""},
		{"lab118a", "118", models.ComputerError, ""},
	}
	for _, r := range reports {
		if _, err := svc.ReportComputer(ctx, r.number, r.room, r.status, r.usedFor); err != nil {
			t.Fatalf("Expected no error for %s, got %v", r.number, err)
		}
	}
	// a later poll overwrites the row
	if _, err := svc.ReportComputer(ctx, "lab116a", "116", models.ComputerOff, ""); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if _, err := svc.ReportComputer(ctx, "toolongname", "116", models.ComputerOff, ""); !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Errorf("Expected validation error, got %v", err)
	}
	if _, err := svc.ReportComputer(ctx, "lab1", "116", models.ComputerStatus("BROKEN"), ""); !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Errorf("Expected validation error on status, got %v", err)
	}

	if _, err := svc.ReportServer(ctx, "homework", 12, models.ServerOn); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if _, err := svc.ReportServer(ctx, "homework", 3, models.ServerOn); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(db.servers) != 1 || db.servers["homework"].NumUsers != 3 || len(db.serverLog) != 2 {
		t.Errorf("Expected one server row and two snapshots, got %d rows and %d snapshots", len(db.servers), len(db.serverLog))
	}

	info, err := svc.SnapshotRoom(ctx, "116")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if info.NumReporting != 3 || info.NumAvailable != 0 || info.NumUnavailable != 3 {
		t.Errorf("Unexpected snapshot counts: %+v", info)
	}
	if len(info.CourseUsage) != 2 || len(db.rooms) != 1 {
		t.Errorf("Expected two usage rows in one stored snapshot, got %+v", info.CourseUsage)
	}
	if _, err := svc.SnapshotRoom(ctx, "999"); !errors.Is(err, apperrors.ErrResourceNotFound) {
		t.Errorf("Expected not found for an empty room, got %v", err)
	}

	overview, err := svc.Overview(ctx)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(overview.Rooms) != 2 || overview.Rooms[0].Room != "116" || overview.Rooms[1].NumError != 1 {
		t.Errorf("Unexpected overview rooms: %+v", overview.Rooms)
	}
	if len(overview.Servers) != 1 {
		t.Errorf("Expected 1 server, got %d", len(overview.Servers))
	}
}

func TestAuthServiceLoginAndMe(t *testing.T) {
	db := newMemDB()
	clock := newTestClock(time.Date(2026, 10, 19, 14, 0, 0, 0, newYork))
	course := db.addCourse(15, "Data Structures")
	user := db.addUser("ta@example.edu", "Tee", "Ay")
	hash, err := auth.HashPasswordWithCost("hunter22", 4)
	if err != nil {
		t.Fatalf("Failed to hash: %v", err)
	}
	db.users[user.ID].Password = hash
	ta := db.addTA(user.ID, true, course)
	db.addSession(ta.ID, course.ID, clock.Now().Add(-time.Minute), clock.Now().Add(time.Hour))

	duty := NewDutyService(fakeTAs{db}, fakeCourses{db}, fakeSessions{db}, newAuthz(db), &recordingNotifier{}, DutySettings{Location: newYork}, clock.Now, zerolog.Nop())
	jwtService := auth.NewJWTService(auth.JWTConfig{SecretKey: "test-secret", AccessTokenExp: time.Hour, TokenIssuer: "labdesk"})
	svc := NewAuthService(fakeUsers{db}, fakeStudents{db}, fakeTAs{db}, fakeCourses{db}, duty, jwtService, zerolog.Nop())

	if _, err := svc.Login(context.Background(), &dto.LoginRequest{Email: "ta@example.edu", Password: "wrong"}); !errors.Is(err, apperrors.ErrInvalidCredentials) {
		t.Errorf("Expected invalid credentials, got %v", err)
	}
	if _, err := svc.Login(context.Background(), &dto.LoginRequest{Email: "nobody@example.edu", Password: "hunter22"}); !errors.Is(err, apperrors.ErrInvalidCredentials) {
		t.Errorf("Expected invalid credentials for unknown email, got %v", err)
	}

	resp, err := svc.Login(context.Background(), &dto.LoginRequest{Email: " TA@example.edu", Password: "hunter22"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	claims, err := jwtService.ValidateToken(resp.Token.AccessToken)
	if err != nil || claims.UserID != user.ID {
		t.Errorf("Expected token for user %d, got %+v (%v)", user.ID, claims, err)
	}

	profile, err := svc.Me(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if profile.IsStudent || !profile.IsTA || !profile.TAActive || !profile.OnDuty {
		t.Errorf("Unexpected profile flags: %+v", profile)
	}
	if len(profile.Courses) != 1 || profile.Courses[0] != 15 {
		t.Errorf("Expected courses [15], got %v", profile.Courses)
	}
}
