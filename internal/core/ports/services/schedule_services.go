package services

import (
	"context"

	"github.com/nathanmaher41/WorkScheduler/internal/core/domain"
	"github.com/nathanmaher41/WorkScheduler/internal/dto"
)

// ScheduleSvcFacade handles schedules and shifts inside a calendar.
type ScheduleSvcFacade interface {
	// CreateSchedule adds a schedule, gated by create_edit_delete_schedules.
	CreateSchedule(ctx context.Context, actorID, calendarID string, req dto.CreateScheduleRequest) (*domain.Schedule, error)

	// ListSchedules retrieves the calendar's schedules for any member.
	ListSchedules(ctx context.Context, actorID, calendarID string) ([]domain.Schedule, error)

	// UpdateSchedule updates name, dates and published flag.
	UpdateSchedule(ctx context.Context, actorID, scheduleID string, req dto.UpdateScheduleRequest) (*domain.Schedule, error)

	// DeleteSchedule removes a schedule and its shifts.
	DeleteSchedule(ctx context.Context, actorID, scheduleID string) error

	// CreateShift adds a shift, gated by create_edit_delete_shifts. The assigned
	// employee must be a member of the calendar.
	CreateShift(ctx context.Context, actorID, scheduleID string, req dto.CreateShiftRequest) (*domain.Shift, error)

	// ListShifts retrieves a schedule's shifts for any member, paginated.
	ListShifts(ctx context.Context, actorID, scheduleID string, limit int, nextToken *string) ([]domain.Shift, *string, error)

	// GetShift retrieves a shift together with its owning calendar for any member.
	GetShift(ctx context.Context, actorID, shiftID string) (*domain.Shift, *domain.Calendar, error)

	// UpdateShift updates times, position, notes and assignee.
	UpdateShift(ctx context.Context, actorID, shiftID string, req dto.UpdateShiftRequest) (*domain.Shift, error)

	// DeleteShift removes a shift.
	DeleteShift(ctx context.Context, actorID, shiftID string) error
}
