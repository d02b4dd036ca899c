package repositories

import (
	"context"

	"github.com/nathanmaher41/WorkScheduler/internal/core/domain"
)

// TimeOffReader defines read operations for time-off requests
type TimeOffReader interface {
	// FindTimeOffByID retrieves a time-off request by its ID.
	FindTimeOffByID(ctx context.Context, requestID string) (*domain.TimeOffRequest, error)

	// ListTimeOffByCalendar retrieves requests for a calendar, optionally filtered
	// to a single status.
	ListTimeOffByCalendar(ctx context.Context, calendarID string, status *domain.TimeOffStatus) ([]domain.TimeOffRequest, error)

	// ListTimeOffByEmployee retrieves a member's own requests in a calendar.
	ListTimeOffByEmployee(ctx context.Context, calendarID, employeeID string) ([]domain.TimeOffRequest, error)
}

// TimeOffWriter defines write operations for time-off requests
type TimeOffWriter interface {
	// SaveTimeOff persists a new request.
	SaveTimeOff(ctx context.Context, request domain.TimeOffRequest) error

	// UpdateTimeOff persists status, visibility and rejection reason changes.
	UpdateTimeOff(ctx context.Context, request domain.TimeOffRequest) error

	// DeleteTimeOff removes a request.
	DeleteTimeOff(ctx context.Context, requestID string) error
}

// TimeOffRepositoryFacade combines all time-off repository interfaces
type TimeOffRepositoryFacade interface {
	TimeOffReader
	TimeOffWriter
}
