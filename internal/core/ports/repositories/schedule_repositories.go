package repositories

import (
	"context"

	"github.com/nathanmaher41/WorkScheduler/internal/core/domain"
)

// ScheduleReader defines read operations for schedules and shifts
type ScheduleReader interface {
	// FindScheduleByID retrieves a schedule by its ID.
	FindScheduleByID(ctx context.Context, scheduleID string) (*domain.Schedule, error)

	// ListSchedulesByCalendar retrieves all schedules of a calendar.
	ListSchedulesByCalendar(ctx context.Context, calendarID string) ([]domain.Schedule, error)

	// FindShiftByID retrieves a shift by its ID.
	FindShiftByID(ctx context.Context, shiftID string) (*domain.Shift, error)

	// ListShiftsBySchedule retrieves shifts of a schedule, paginated with an opaque
	// cursor. A nil next token means the first page; a nil returned token means the
	// last page.
	ListShiftsBySchedule(ctx context.Context, scheduleID string, limit int, nextToken *string) ([]domain.Shift, *string, error)

	// FindCalendarIDForShift resolves the owning calendar of a shift.
	FindCalendarIDForShift(ctx context.Context, shiftID string) (string, error)
}

// ScheduleWriter defines write operations for schedules and shifts
type ScheduleWriter interface {
	SaveSchedule(ctx context.Context, schedule domain.Schedule) error
	UpdateSchedule(ctx context.Context, schedule domain.Schedule) error
	DeleteSchedule(ctx context.Context, scheduleID string) error

	SaveShift(ctx context.Context, shift domain.Shift) error
	UpdateShift(ctx context.Context, shift domain.Shift) error
	DeleteShift(ctx context.Context, shiftID string) error
}

// ScheduleRepositoryFacade combines schedule and shift repository interfaces
type ScheduleRepositoryFacade interface {
	ScheduleReader
	ScheduleWriter
}
