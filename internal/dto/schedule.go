package dto

import (
	"time"

	"github.com/nathanmaher41/WorkScheduler/internal/core/domain"
)

// --- Schedule DTOs ---

// CreateScheduleRequest defines data for creating a schedule.
type CreateScheduleRequest struct {
	Name      string    `json:"name" binding:"required,max=100"`
	StartDate time.Time `json:"startDate" binding:"required"`
	EndDate   time.Time `json:"endDate" binding:"required,gtfield=StartDate"`
}

// UpdateScheduleRequest defines updatable schedule fields.
type UpdateScheduleRequest struct {
	Name        *string    `json:"name,omitempty" binding:"omitempty,max=100"`
	StartDate   *time.Time `json:"startDate,omitempty"`
	EndDate     *time.Time `json:"endDate,omitempty"`
	IsPublished *bool      `json:"isPublished,omitempty"`
}

// ScheduleResponse defines data returned for a schedule.
type ScheduleResponse struct {
	ScheduleID  string    `json:"scheduleID"`
	CalendarID  string    `json:"calendarID"`
	Name        string    `json:"name"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
	IsPublished bool      `json:"isPublished"`
}

// ToScheduleResponse converts domain.Schedule to DTO.
func ToScheduleResponse(s *domain.Schedule) ScheduleResponse {
	return ScheduleResponse{
		ScheduleID:  s.ScheduleID,
		CalendarID:  s.CalendarID,
		Name:        s.Name,
		StartDate:   s.StartDate,
		EndDate:     s.EndDate,
		IsPublished: s.IsPublished,
	}
}

// ListSchedulesResponse wraps a list of schedules.
type ListSchedulesResponse struct {
	Schedules []ScheduleResponse `json:"schedules"`
}

// ToListSchedulesResponse converts a slice of schedules to DTO.
func ToListSchedulesResponse(ss []domain.Schedule) ListSchedulesResponse {
	list := make([]ScheduleResponse, len(ss))
	for i, s := range ss {
		list[i] = ToScheduleResponse(&s)
	}
	return ListSchedulesResponse{Schedules: list}
}

// --- Shift DTOs ---

// CreateShiftRequest defines data for creating a shift.
type CreateShiftRequest struct {
	EmployeeID string    `json:"employeeID" binding:"required"`
	StartTime  time.Time `json:"startTime" binding:"required"`
	EndTime    time.Time `json:"endTime" binding:"required,gtfield=StartTime"`
	Position   string    `json:"position" binding:"required,max=100"`
	Notes      *string   `json:"notes,omitempty"`
}

// UpdateShiftRequest defines updatable shift fields.
type UpdateShiftRequest struct {
	EmployeeID *string    `json:"employeeID,omitempty"`
	StartTime  *time.Time `json:"startTime,omitempty"`
	EndTime    *time.Time `json:"endTime,omitempty"`
	Position   *string    `json:"position,omitempty" binding:"omitempty,max=100"`
	Notes      *string    `json:"notes,omitempty"`
}

// ShiftResponse defines data returned for a shift.
type ShiftResponse struct {
	ShiftID    string    `json:"shiftID"`
	ScheduleID string    `json:"scheduleID"`
	EmployeeID string    `json:"employeeID"`
	StartTime  time.Time `json:"startTime"`
	EndTime    time.Time `json:"endTime"`
	Position   string    `json:"position"`
	Notes      *string   `json:"notes,omitempty"`
}

// ToShiftResponse converts domain.Shift to DTO.
func ToShiftResponse(s *domain.Shift) ShiftResponse {
	return ShiftResponse{
		ShiftID:    s.ShiftID,
		ScheduleID: s.ScheduleID,
		EmployeeID: s.EmployeeID,
		StartTime:  s.StartTime,
		EndTime:    s.EndTime,
		Position:   s.Position,
		Notes:      s.Notes,
	}
}

// ListShiftsResponse wraps a page of shifts with the cursor for the next page.
type ListShiftsResponse struct {
	Shifts    []ShiftResponse `json:"shifts"`
	NextToken *string         `json:"nextToken,omitempty"`
}

// ToListShiftsResponse converts a page of shifts to DTO.
func ToListShiftsResponse(ss []domain.Shift, nextToken *string) ListShiftsResponse {
	list := make([]ShiftResponse, len(ss))
	for i, s := range ss {
		list[i] = ToShiftResponse(&s)
	}
	return ListShiftsResponse{Shifts: list, NextToken: nextToken}
}
