package models

import "time"

// ComputerStatus is the last reported state of a lab computer
type ComputerStatus string

const (
	ComputerOff       ComputerStatus = "OFF"
	ComputerInUse     ComputerStatus = "INUSE"
	ComputerAvailable ComputerStatus = "AVAILABLE"
	ComputerError     ComputerStatus = "ERROR"
)

// Valid reports whether s is a known computer status
func (s ComputerStatus) Valid() bool {
	switch s {
	case ComputerOff, ComputerInUse, ComputerAvailable, ComputerError:
		return true
	}
	return false
}

// ServerStatus is the last reported state of a lab server
type ServerStatus string

const (
	ServerOff   ServerStatus = "OFF"
	ServerOn    ServerStatus = "ON"
	ServerError ServerStatus = "ERROR"
)

// Valid reports whether s is a known server status
func (s ServerStatus) Valid() bool {
	switch s {
	case ServerOff, ServerOn, ServerError:
		return true
	}
	return false
}

// DefaultCourseUsage is recorded when a machine does not report its course
const DefaultCourseUsage = "Other"

// Computer holds the latest poll of one lab machine; each poll overwrites it
type Computer struct {
	ComputerNumber string         `json:"computerNumber" db:"computer_number"`
	RoomNumber     string         `json:"roomNumber" db:"room_number"`
	Status         ComputerStatus `json:"status" db:"status"`
	UsedFor        string         `json:"usedFor" db:"used_for"`
	LastUpdate     time.Time      `json:"lastUpdate" db:"last_update"`
}

// Server holds the latest poll of one lab server
type Server struct {
	ComputerName string       `json:"computerName" db:"computer_name"`
	NumUsers     int          `json:"numUsers" db:"num_users"`
	Status       ServerStatus `json:"status" db:"status"`
	LastUpdated  time.Time    `json:"lastUpdated" db:"last_updated"`
}

// RoomInfo is a point-in-time snapshot of a room's machine counts
type RoomInfo struct {
	ID             int64     `json:"id" db:"id"`
	Lab            string    `json:"lab" db:"lab"`
	NumReporting   int       `json:"numReporting" db:"num_reporting"`
	NumAvailable   int       `json:"numAvailable" db:"num_available"`
	NumUnavailable int       `json:"numUnavailable" db:"num_unavailable"`
	NumError       int       `json:"numError" db:"num_error"`
	UpdateTime     time.Time `json:"updateTime" db:"update_time"`

	CourseUsage []CourseUsageInfo `json:"courseUsage,omitempty"`
}

// CourseUsageInfo counts machines in use for one course at snapshot time
type CourseUsageInfo struct {
	ID          int64  `json:"id" db:"id"`
	RoomInfoID  int64  `json:"roomInfoId" db:"room_info_id"`
	Course      string `json:"course" db:"course"`
	NumMachines int    `json:"numMachines" db:"num_machines"`
}

// ServerInfo is a point-in-time snapshot of a server poll
type ServerInfo struct {
	ID           int64        `json:"id" db:"id"`
	ComputerName string       `json:"computerName" db:"computer_name"`
	NumUsers     int          `json:"numUsers" db:"num_users"`
	Status       ServerStatus `json:"status" db:"status"`
	UpdateTime   time.Time    `json:"updateTime" db:"update_time"`
}

// SummarizeRoom counts the computers of one room into a snapshot.
// In-use machines are tallied per course; OFF machines count as unavailable.
func SummarizeRoom(room string, computers []Computer, at time.Time) RoomInfo {
	info := RoomInfo{Lab: room, UpdateTime: at}
	usage := map[string]int{}
	var order []string

	for _, c := range computers {
		info.NumReporting++
		switch c.Status {
		case ComputerAvailable:
			info.NumAvailable++
		case ComputerError:
			info.NumError++
		case ComputerInUse:
			info.NumUnavailable++
			course := c.UsedFor
			if course == "" {
				course = DefaultCourseUsage
			}
			if _, seen := usage[course]; !seen {
				order = append(order, course)
			}
			usage[course]++
		default:
			info.NumUnavailable++
		}
	}

	for _, course := range order {
		info.CourseUsage = append(info.CourseUsage, CourseUsageInfo{Course: course, NumMachines: usage[course]})
	}
	return info
}
