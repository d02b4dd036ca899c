package domain

import "time"

// Schedule is a named date range of shifts within a calendar.
type Schedule struct {
	ScheduleID  string    `json:"scheduleID"` // Primary Key (UUID)
	CalendarID  string    `json:"calendarID"`
	Name        string    `json:"name"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
	IsPublished bool      `json:"isPublished"`
	AuditFields
}

// Shift is a unit of scheduled work with exactly one owner. Ownership is mutable;
// mutating it is the swap/take mechanism.
type Shift struct {
	ShiftID    string    `json:"shiftID"` // Primary Key (UUID)
	ScheduleID string    `json:"scheduleID"`
	EmployeeID string    `json:"employeeID"` // Current owner
	StartTime  time.Time `json:"startTime"`
	EndTime    time.Time `json:"endTime"`
	Position   string    `json:"position"`
	Notes      *string   `json:"notes,omitempty"`
	AuditFields
}
