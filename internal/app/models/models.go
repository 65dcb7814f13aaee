package models

// CourseQueue is one course's slice of the live queue view: its open requests
// in ask order and the office hour sessions currently covering it.
type CourseQueue struct {
	Course   Course       `json:"course"`
	Requests []Request    `json:"requests"`
	OnDuty   []OfficeHour `json:"onDuty"`
}
