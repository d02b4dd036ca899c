package services

import (
	"context"

	"github.com/nathanmaher41/WorkScheduler/internal/core/domain"
	"github.com/nathanmaher41/WorkScheduler/internal/dto"
)

// TimeOffSvcFacade handles time-off requests and their approval workflow.
type TimeOffSvcFacade interface {
	// CreateTimeOff files a pending request for the acting member.
	CreateTimeOff(ctx context.Context, actorID, calendarID string, req dto.CreateTimeOffRequest) (*domain.TimeOffRequest, error)

	// ListTimeOffForCalendar retrieves requests for review, gated by
	// approve_reject_time_off.
	ListTimeOffForCalendar(ctx context.Context, actorID, calendarID string, status *domain.TimeOffStatus) ([]domain.TimeOffRequest, error)

	// ListOwnTimeOff retrieves the actor's requests in a calendar.
	ListOwnTimeOff(ctx context.Context, actorID, calendarID string) ([]domain.TimeOffRequest, error)

	// DecideTimeOff approves or denies a pending request and notifies the
	// employee. Denials carry a reason; approvals may expose the absence to the
	// rest of the calendar.
	DecideTimeOff(ctx context.Context, actorID, requestID string, decision dto.TimeOffDecisionRequest) (*domain.TimeOffRequest, error)

	// CancelTimeOff lets the employee withdraw a still-pending request.
	CancelTimeOff(ctx context.Context, actorID, requestID string) error
}
