package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository         *UserRepository
	CourseRepository       *CourseRepository
	StudentRepository      *StudentRepository
	TARepository           *TARepository
	RequestRepository      *RequestRepository
	OfficeHourRepository   *OfficeHourRepository
	LabRepository          *LabRepository
	AvailabilityRepository *AvailabilityRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:         NewUserRepository(db),
		CourseRepository:       NewCourseRepository(db),
		StudentRepository:      NewStudentRepository(db),
		TARepository:           NewTARepository(db),
		RequestRepository:      NewRequestRepository(db),
		OfficeHourRepository:   NewOfficeHourRepository(db),
		LabRepository:          NewLabRepository(db),
		AvailabilityRepository: NewAvailabilityRepository(db),
	}
}
