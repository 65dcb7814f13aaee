package services

import (
	"context"
	"sort"
	"sync"
	"time"

	appAuth "github.com/yigit/labdesk/internal/app/auth"
	"github.com/yigit/labdesk/internal/app/models"
	"github.com/yigit/labdesk/internal/pkg/apperrors"
)

var newYork = mustLoad("America/New_York")

func mustLoad(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

// testClock is a settable clock
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newAuthz(db *memDB) *appAuth.AuthorizationService {
	return appAuth.NewAuthorizationService(fakeStudents{db}, fakeTAs{db})
}

func newTestClock(t time.Time) *testClock { return &testClock{now: t} }

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []interface{}
}

func (n *recordingNotifier) Broadcast(event interface{}) {
	n.mu.Lock()
	n.events = append(n.events, event)
	n.mu.Unlock()
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.events)
}

func (n *recordingNotifier) last() interface{} {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.events) == 0 {
		return nil
	}
	return n.events[len(n.events)-1]
}

// memDB backs every fake store
type memDB struct {
	mu        sync.Mutex
	nextID    int64
	users     map[int64]*models.User
	courses   map[int64]*models.Course
	students  map[int64]*models.Student
	tas       map[int64]*models.TA
	requests  map[int64]*models.Request
	sessions  map[int64]*models.OfficeHour
	labs      []models.Lab
	computers map[string]models.Computer
	servers   map[string]models.Server
	serverLog []models.ServerInfo
	rooms     []models.RoomInfo
}

func newMemDB() *memDB {
	return &memDB{
		users:     map[int64]*models.User{},
		courses:   map[int64]*models.Course{},
		students:  map[int64]*models.Student{},
		tas:       map[int64]*models.TA{},
		requests:  map[int64]*models.Request{},
		sessions:  map[int64]*models.OfficeHour{},
		computers: map[string]models.Computer{},
		servers:   map[string]models.Server{},
	}
}

func (db *memDB) id() int64 {
	db.nextID++
	return db.nextID
}

func (db *memDB) addUser(email, first, last string) *models.User {
	db.mu.Lock()
	defer db.mu.Unlock()
	u := &models.User{ID: db.id(), Email: email, FirstName: first, LastName: last}
	db.users[u.ID] = u
	return u
}

func (db *memDB) addCourse(number int, name string) *models.Course {
	db.mu.Lock()
	defer db.mu.Unlock()
	c := &models.Course{ID: db.id(), Number: number, Name: name}
	db.courses[c.ID] = c
	return c
}

func (db *memDB) addTA(userID int64, active bool, courses ...*models.Course) *models.TA {
	db.mu.Lock()
	defer db.mu.Unlock()
	ta := &models.TA{ID: db.id(), UserID: userID, Active: active}
	for _, c := range courses {
		ta.CourseIDs = append(ta.CourseIDs, c.ID)
	}
	db.tas[ta.ID] = ta
	return ta
}

func (db *memDB) addStudent(userID int64) *models.Student {
	db.mu.Lock()
	defer db.mu.Unlock()
	s := &models.Student{ID: db.id(), UserID: userID}
	db.students[s.ID] = s
	return s
}

func (db *memDB) addRequest(studentID, courseID int64, asked time.Time) *models.Request {
	db.mu.Lock()
	defer db.mu.Unlock()
	r := &models.Request{ID: db.id(), StudentID: studentID, CourseID: courseID, Location: "Lab 116", Question: "segfault", WhenAsked: asked}
	db.requests[r.ID] = r
	return r
}

func (db *memDB) addSession(taID, courseID int64, start, end time.Time) *models.OfficeHour {
	db.mu.Lock()
	defer db.mu.Unlock()
	oh := &models.OfficeHour{ID: db.id(), TAID: taID, CourseID: courseID, StartTime: start, EndTime: end}
	db.sessions[oh.ID] = oh
	return oh
}

func (db *memDB) request(id int64) models.Request {
	db.mu.Lock()
	defer db.mu.Unlock()
	return *db.requests[id]
}

func (db *memDB) session(id int64) models.OfficeHour {
	db.mu.Lock()
	defer db.mu.Unlock()
	return *db.sessions[id]
}

func (db *memDB) userCopy(id int64) *models.User {
	if u, ok := db.users[id]; ok {
		c := *u
		return &c
	}
	return nil
}

func (db *memDB) courseCopy(id int64) *models.Course {
	if c, ok := db.courses[id]; ok {
		cp := *c
		return &cp
	}
	return nil
}

func (db *memDB) taCopy(ta *models.TA) *models.TA {
	cp := *ta
	cp.CourseIDs = append([]int64(nil), ta.CourseIDs...)
	cp.User = db.userCopy(ta.UserID)
	return &cp
}

type fakeUsers struct{ *memDB }

func (f fakeUsers) GetByID(_ context.Context, id int64) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u := f.userCopy(id); u != nil {
		return u, nil
	}
	return nil, apperrors.ErrUserNotFound
}

func (f fakeUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, u := range f.users {
		if u.Email == email {
			return f.userCopy(id), nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

type fakeCourses struct{ *memDB }

func (f fakeCourses) Create(_ context.Context, course *models.Course) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.courses {
		if c.Number == course.Number {
			return apperrors.NewConflictError("course number already exists")
		}
	}
	course.ID = f.id()
	cp := *course
	f.courses[course.ID] = &cp
	return nil
}

func (f fakeCourses) GetByID(_ context.Context, id int64) (*models.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c := f.courseCopy(id); c != nil {
		return c, nil
	}
	return nil, apperrors.ErrCourseNotFound
}

func (f fakeCourses) GetByNumber(_ context.Context, number int) (*models.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, c := range f.courses {
		if c.Number == number {
			return f.courseCopy(id), nil
		}
	}
	return nil, apperrors.ErrCourseNotFound
}

func (f fakeCourses) ListByNumbers(_ context.Context, numbers []int) ([]models.Course, error) {
	wanted := map[int]bool{}
	for _, n := range numbers {
		wanted[n] = true
	}
	all, _ := f.List(context.Background())
	out := []models.Course{}
	for _, c := range all {
		if wanted[c.Number] {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f fakeCourses) List(_ context.Context) ([]models.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Course{}
	for _, c := range f.courses {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

type fakeStudents struct{ *memDB }

func (f fakeStudents) GetByUserID(_ context.Context, userID int64) (*models.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.students {
		if s.UserID == userID {
			cp := *s
			return &cp, nil
		}
	}
	return nil, apperrors.ErrStudentNotFound
}

func (f fakeStudents) GetOrCreate(ctx context.Context, userID int64) (*models.Student, error) {
	if s, err := f.GetByUserID(ctx, userID); err == nil {
		return s, nil
	}
	return f.addStudent(userID), nil
}

type fakeTAs struct{ *memDB }

func (f fakeTAs) GetByUserID(_ context.Context, userID int64) (*models.TA, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ta := range f.tas {
		if ta.UserID == userID {
			return f.taCopy(ta), nil
		}
	}
	return nil, apperrors.ErrTANotFound
}

func (f fakeTAs) Save(_ context.Context, userID int64, active bool, courseIDs []int64) (*models.TA, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var ta *models.TA
	for _, existing := range f.tas {
		if existing.UserID == userID {
			ta = existing
		}
	}
	if ta == nil {
		ta = &models.TA{ID: f.id(), UserID: userID}
		f.tas[ta.ID] = ta
	}
	ta.Active = active
	ta.CourseIDs = append([]int64(nil), courseIDs...)
	return f.taCopy(ta), nil
}

type fakeRequests struct{ *memDB }

func (f fakeRequests) Create(_ context.Context, r *models.Request) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r.ID = f.id()
	cp := *r
	cp.Course, cp.Student = nil, nil
	f.requests[r.ID] = &cp
	return nil
}

func (f fakeRequests) GetByID(_ context.Context, id int64) (*models.Request, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.requests[id]
	if !ok {
		return nil, apperrors.ErrRequestNotFound
	}
	cp := *r
	return &cp, nil
}

func (f fakeRequests) MarkSolved(_ context.Context, id int64, at time.Time) (*models.Request, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.requests[id]
	if !ok {
		return nil, false, apperrors.ErrRequestNotFound
	}
	if r.Solved || r.TimedOut {
		cp := *r
		return &cp, false, nil
	}
	r.Solved = true
	r.TimedOut = false
	solvedAt := at
	r.WhenSolved = &solvedAt
	cp := *r
	cp.Course = f.courseCopy(r.CourseID)
	return &cp, true, nil
}

func (f fakeRequests) MarkTimedOut(_ context.Context, cutoff time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, r := range f.requests {
		if !r.Solved && !r.TimedOut && r.WhenAsked.Before(cutoff) {
			r.TimedOut = true
			n++
		}
	}
	return n, nil
}

func (f fakeRequests) ListOpenSince(_ context.Context, since time.Time) ([]models.Request, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Request{}
	for _, r := range f.requests {
		if r.Solved || r.TimedOut || r.WhenAsked.Before(since) {
			continue
		}
		cp := *r
		cp.Course = f.courseCopy(r.CourseID)
		if s, ok := f.students[r.StudentID]; ok {
			cp.Student = &models.Student{ID: s.ID, UserID: s.UserID, User: f.userCopy(s.UserID)}
		}
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Course.Number != out[j].Course.Number {
			return out[i].Course.Number < out[j].Course.Number
		}
		return out[i].WhenAsked.Before(out[j].WhenAsked)
	})
	return out, nil
}

func (f fakeRequests) ListByStudent(_ context.Context, studentID int64) ([]models.Request, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Request{}
	for _, r := range f.requests {
		if r.StudentID == studentID {
			cp := *r
			cp.Course = f.courseCopy(r.CourseID)
			out = append(out, cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WhenAsked.After(out[j].WhenAsked) })
	return out, nil
}

type fakeSessions struct{ *memDB }

func (f fakeSessions) CreateExclusive(_ context.Context, oh *models.OfficeHour, now time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.sessions {
		if existing.TAID == oh.TAID && existing.EndTime.After(now) {
			return apperrors.ErrAlreadyOnDuty
		}
	}
	oh.ID = f.id()
	cp := *oh
	cp.TA, cp.Course = nil, nil
	f.sessions[oh.ID] = &cp
	return nil
}

func (f fakeSessions) ActiveForTA(_ context.Context, taID int64, now time.Time) (*models.OfficeHour, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, oh := range f.sessions {
		if oh.TAID == taID && oh.EndTime.After(now) {
			cp := *oh
			cp.Course = f.courseCopy(oh.CourseID)
			return &cp, nil
		}
	}
	return nil, apperrors.ErrNoActiveDuty
}

func (f fakeSessions) SetEnd(_ context.Context, id int64, end time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	oh, ok := f.sessions[id]
	if !ok {
		return apperrors.ErrNoActiveDuty
	}
	oh.EndTime = end
	return nil
}

func (f fakeSessions) ListActive(_ context.Context, now time.Time) ([]models.OfficeHour, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.OfficeHour{}
	for _, oh := range f.sessions {
		if !oh.IsActive(now) {
			continue
		}
		cp := *oh
		cp.Course = f.courseCopy(oh.CourseID)
		if ta, ok := f.tas[oh.TAID]; ok {
			cp.TA = f.taCopy(ta)
		}
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakeLabs struct{ *memDB }

func (f fakeLabs) Create(_ context.Context, lab *models.Lab) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	lab.ID = f.id()
	f.labs = append(f.labs, *lab)
	return nil
}

func (f fakeLabs) List(_ context.Context) ([]models.Lab, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Lab(nil), f.labs...), nil
}

type fakeAvailability struct{ *memDB }

func (f fakeAvailability) UpsertComputer(_ context.Context, c *models.Computer) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.computers[c.ComputerNumber] = *c
	return nil
}

func (f fakeAvailability) RecordServer(_ context.Context, s *models.Server) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.servers[s.ComputerName] = *s
	f.serverLog = append(f.serverLog, models.ServerInfo{
		ID:           f.id(),
		ComputerName: s.ComputerName,
		NumUsers:     s.NumUsers,
		Status:       s.Status,
		UpdateTime:   s.LastUpdated,
	})
	return nil
}

func (f fakeAvailability) ListComputers(_ context.Context, room string) ([]models.Computer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Computer{}
	for _, c := range f.computers {
		if room == "" || c.RoomNumber == room {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ComputerNumber < out[j].ComputerNumber })
	return out, nil
}

func (f fakeAvailability) ListServers(_ context.Context) ([]models.Server, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Server{}
	for _, s := range f.servers {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ComputerName < out[j].ComputerName })
	return out, nil
}

func (f fakeAvailability) CreateRoomInfo(_ context.Context, info *models.RoomInfo) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	info.ID = f.id()
	for i := range info.CourseUsage {
		info.CourseUsage[i].ID = f.id()
		info.CourseUsage[i].RoomInfoID = info.ID
	}
	f.rooms = append(f.rooms, *info)
	return nil
}
