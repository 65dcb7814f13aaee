package models

// Course is identified publicly by its number (e.g. 11, 15, 40).
type Course struct {
	ID         int64  `json:"id" db:"id"`
	Number     int    `json:"number" db:"number"`
	Name       string `json:"name" db:"name"`
	Instructor string `json:"instructor" db:"instructor"`
}
