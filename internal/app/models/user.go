package models

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// User defines the account identity based on the 'users' table
type User struct {
	ID        int64     `json:"id" db:"id" example:"1"`
	Email     string    `json:"email" db:"email" example:"jdoe01@cs.example.edu"`
	Password  string    `json:"-" db:"password"`
	FirstName string    `json:"firstName" db:"first_name" example:"Jane"`
	LastName  string    `json:"lastName" db:"last_name" example:"Doe"`
	IsAdmin   bool      `json:"isAdmin" db:"is_admin"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// DisplayName returns the anonymized queue name: first name plus the
// upper-cased initial of the last name ("Jane D").
func (u *User) DisplayName() string {
	first := strings.TrimSpace(u.FirstName)
	last := strings.TrimSpace(u.LastName)
	if last == "" {
		return first
	}
	r, _ := utf8.DecodeRuneInString(last)
	initial := string(unicode.ToUpper(r))
	if first == "" {
		return initial
	}
	return first + " " + initial
}

// Student wraps one user that can ask for help
type Student struct {
	ID     int64 `json:"id" db:"id"`
	UserID int64 `json:"userId" db:"user_id"`
	User   *User `json:"user,omitempty"`
}

// TA wraps one user that can hold office hours
type TA struct {
	ID        int64   `json:"id" db:"id"`
	UserID    int64   `json:"userId" db:"user_id"`
	Active    bool    `json:"active" db:"active"`
	CourseIDs []int64 `json:"courseIds"`
	User      *User   `json:"user,omitempty"`
}

// TeachesCourse reports whether the TA is assigned to the course
func (t *TA) TeachesCourse(courseID int64) bool {
	for _, id := range t.CourseIDs {
		if id == courseID {
			return true
		}
	}
	return false
}
