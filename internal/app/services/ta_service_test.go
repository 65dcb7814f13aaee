package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/yigit/labdesk/internal/pkg/apperrors"
)

type stubRoster struct {
	courses []int
	isTA    bool
	err     error
}

func (r stubRoster) Lookup(context.Context, string) ([]int, bool, error) {
	return r.courses, r.isTA, r.err
}

type recordingMailer struct {
	mu          sync.Mutex
	activations []string
	removals    []string
}

func (m *recordingMailer) SendTAActivation(to, name string, courses []int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.activations = append(m.activations, fmt.Sprintf("%s %s %v", to, name, courses))
	return nil
}

func (m *recordingMailer) SendTADeactivation(to, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.removals = append(m.removals, to)
	return errors.New("smtp down")
}

func newTAService(db *memDB, roster RosterLookup, mailer *recordingMailer) TAService {
	svc := NewTAService(fakeUsers{db}, fakeCourses{db}, fakeTAs{db}, roster, mailer, zerolog.Nop())
	svc.(*taServiceImpl).async = func(f func()) { f() }
	return svc
}

func TestCheckRosterActivates(t *testing.T) {
	db := newMemDB()
	c15 := db.addCourse(15, "Data Structures")
	c40 := db.addCourse(40, "Machine Structure")
	user := db.addUser("ta@example.edu", "Tee", "Ay")
	mailer := &recordingMailer{}

	svc := newTAService(db, stubRoster{courses: []int{15, 40, 999}, isTA: true}, mailer)
	ta, err := svc.CheckRoster(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !ta.Active || !ta.TeachesCourse(c15.ID) || !ta.TeachesCourse(c40.ID) || len(ta.CourseIDs) != 2 {
		t.Errorf("Expected active TA of 15 and 40, got %+v", ta)
	}
	if len(mailer.activations) != 1 || mailer.activations[0] != "ta@example.edu Tee A [15 40]" {
		t.Errorf("Expected one activation mail, got %v", mailer.activations)
	}
}

func TestCheckRosterReplacesCourses(t *testing.T) {
	db := newMemDB()
	c15 := db.addCourse(15, "Data Structures")
	c40 := db.addCourse(40, "Machine Structure")
	user := db.addUser("ta@example.edu", "Tee", "Ay")
	db.addTA(user.ID, false, c15)

	svc := newTAService(db, stubRoster{courses: []int{40}, isTA: true}, &recordingMailer{})
	ta, err := svc.CheckRoster(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !ta.Active || ta.TeachesCourse(c15.ID) || !ta.TeachesCourse(c40.ID) {
		t.Errorf("Expected course links replaced by 40, got %+v", ta)
	}
}

func TestCheckRosterDeactivates(t *testing.T) {
	db := newMemDB()
	c15 := db.addCourse(15, "Data Structures")
	user := db.addUser("ta@example.edu", "Tee", "Ay")
	db.addTA(user.ID, true, c15)
	mailer := &recordingMailer{}

	svc := newTAService(db, stubRoster{isTA: false}, mailer)
	ta, err := svc.CheckRoster(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("Expected mail failure to be swallowed, got %v", err)
	}
	if ta.Active || len(ta.CourseIDs) != 0 {
		t.Errorf("Expected inactive TA without courses, got %+v", ta)
	}
	if len(mailer.removals) != 1 {
		t.Errorf("Expected one removal mail, got %d", len(mailer.removals))
	}
}

func TestCheckRosterNonTA(t *testing.T) {
	db := newMemDB()
	user := db.addUser("student@example.edu", "Stu", "Dent")
	mailer := &recordingMailer{}

	svc := newTAService(db, stubRoster{isTA: false}, mailer)
	ta, err := svc.CheckRoster(context.Background(), user.ID)
	if err != nil || ta != nil {
		t.Errorf("Expected no TA and no error, got %+v (%v)", ta, err)
	}
	if len(mailer.activations)+len(mailer.removals) != 0 {
		t.Error("Expected no mail for a non-TA")
	}
}

func TestCheckRosterUpstreamFailure(t *testing.T) {
	db := newMemDB()
	user := db.addUser("ta@example.edu", "Tee", "Ay")

	svc := newTAService(db, stubRoster{err: fmt.Errorf("%w: timeout", apperrors.ErrUpstream)}, &recordingMailer{})
	if _, err := svc.CheckRoster(context.Background(), user.ID); !errors.Is(err, apperrors.ErrUpstream) {
		t.Errorf("Expected upstream error, got %v", err)
	}
	if _, err := (fakeTAs{db}).GetByUserID(context.Background(), user.ID); !errors.Is(err, apperrors.ErrTANotFound) {
		t.Errorf("Expected no TA record after failure, got %v", err)
	}
}
