package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nathanmaher41/WorkScheduler/internal/apperrors"
	"github.com/nathanmaher41/WorkScheduler/internal/core/domain"
	portsrepo "github.com/nathanmaher41/WorkScheduler/internal/core/ports/repositories"
	portssvc "github.com/nathanmaher41/WorkScheduler/internal/core/ports/services"
	"github.com/nathanmaher41/WorkScheduler/internal/dto"
)

// TimeOffService handles time-off requests and their approval workflow.
type TimeOffService struct {
	BaseService
	timeOffRepo portsrepo.TimeOffRepositoryFacade
	notifier    portssvc.NotifierSvc
}

// NewTimeOffService creates a new TimeOffService.
func NewTimeOffService(tr portsrepo.TimeOffRepositoryFacade, authorizer portssvc.CalendarAuthorizerSvc, notifier portssvc.NotifierSvc) *TimeOffService {
	return &TimeOffService{
		BaseService: BaseService{CalendarAuthorizer: authorizer},
		timeOffRepo: tr,
		notifier:    notifier,
	}
}

var _ portssvc.TimeOffSvcFacade = (*TimeOffService)(nil)

// CreateTimeOff files a pending request for the acting member.
func (s *TimeOffService) CreateTimeOff(ctx context.Context, actorID, calendarID string, req dto.CreateTimeOffRequest) (*domain.TimeOffRequest, error) {
	if _, err := s.CalendarAuthorizer.RequireMembership(ctx, actorID, calendarID); err != nil {
		return nil, err
	}
	if req.EndDate.Before(req.StartDate) {
		return nil, apperrors.NewValidationFailedError("end date must not be before start date")
	}

	request := domain.TimeOffRequest{
		RequestID:  uuid.NewString(),
		CalendarID: calendarID,
		EmployeeID: actorID,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		Reason:     req.Reason,
		Status:     domain.TimeOffPending,
		CreatedAt:  time.Now(),
	}
	if err := s.timeOffRepo.SaveTimeOff(ctx, request); err != nil {
		s.LogError(ctx, err, "Failed to save time-off request", slog.String("calendar_id", calendarID))
		return nil, fmt.Errorf("failed to create time-off request: %w", err)
	}

	s.LogInfo(ctx, "Time-off requested",
		slog.String("request_id", request.RequestID),
		slog.String("employee_id", actorID))
	return &request, nil
}

// ListTimeOffForCalendar retrieves requests for review.
func (s *TimeOffService) ListTimeOffForCalendar(ctx context.Context, actorID, calendarID string, status *domain.TimeOffStatus) ([]domain.TimeOffRequest, error) {
	if _, err := s.Authorize(ctx, actorID, calendarID, domain.PermApproveTimeOff); err != nil {
		return nil, err
	}
	requests, err := s.timeOffRepo.ListTimeOffByCalendar(ctx, calendarID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list time-off requests: %w", err)
	}
	return requests, nil
}

// ListOwnTimeOff retrieves the actor's requests in a calendar.
func (s *TimeOffService) ListOwnTimeOff(ctx context.Context, actorID, calendarID string) ([]domain.TimeOffRequest, error) {
	if _, err := s.CalendarAuthorizer.RequireMembership(ctx, actorID, calendarID); err != nil {
		return nil, err
	}
	requests, err := s.timeOffRepo.ListTimeOffByEmployee(ctx, calendarID, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list time-off requests: %w", err)
	}
	return requests, nil
}

// DecideTimeOff approves or denies a pending request and notifies the employee.
func (s *TimeOffService) DecideTimeOff(ctx context.Context, actorID, requestID string, decision dto.TimeOffDecisionRequest) (*domain.TimeOffRequest, error) {
	request, err := s.findTimeOff(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if _, err := s.Authorize(ctx, actorID, request.CalendarID, domain.PermApproveTimeOff); err != nil {
		return nil, err
	}
	if !request.IsPending() {
		return nil, apperrors.NewConflictError("time-off request has already been decided")
	}

	var message string
	if decision.Approve {
		request.Status = domain.TimeOffApproved
		request.VisibleToOthers = decision.VisibleToOthers
		request.RejectionReason = nil
		message = "Your time-off request was approved."
	} else {
		request.Status = domain.TimeOffDenied
		request.VisibleToOthers = false
		request.RejectionReason = decision.RejectionReason
		message = "Your time-off request was denied."
		if decision.RejectionReason != nil && *decision.RejectionReason != "" {
			message = fmt.Sprintf("Your time-off request was denied: %s", *decision.RejectionReason)
		}
	}

	if err := s.timeOffRepo.UpdateTimeOff(ctx, *request); err != nil {
		s.LogError(ctx, err, "Failed to update time-off request", slog.String("request_id", requestID))
		return nil, fmt.Errorf("failed to decide time-off request: %w", err)
	}

	s.LogInfo(ctx, "Time-off decided",
		slog.String("request_id", requestID),
		slog.String("status", string(request.Status)),
		slog.String("actor_id", actorID))
	if s.notifier != nil {
		if err := s.notifier.Notify(ctx, request.EmployeeID, domain.NotifTimeOffDecision, message, &request.RequestID, &request.CalendarID); err != nil {
			s.LogError(ctx, err, "Failed to create time-off notification", slog.String("request_id", requestID))
		}
		s.notifier.EmailIfEnabled(ctx, request.EmployeeID, "Time-off request update", message)
	}
	return request, nil
}

// CancelTimeOff lets the employee withdraw a still-pending request.
func (s *TimeOffService) CancelTimeOff(ctx context.Context, actorID, requestID string) error {
	request, err := s.findTimeOff(ctx, requestID)
	if err != nil {
		return err
	}
	if request.EmployeeID != actorID {
		return fmt.Errorf("only the requester may cancel: %w", apperrors.ErrForbidden)
	}
	if !request.IsPending() {
		return apperrors.NewConflictError("time-off request has already been decided")
	}
	if err := s.timeOffRepo.DeleteTimeOff(ctx, requestID); err != nil {
		s.LogError(ctx, err, "Failed to delete time-off request", slog.String("request_id", requestID))
		return fmt.Errorf("failed to cancel time-off request: %w", err)
	}
	return nil
}

func (s *TimeOffService) findTimeOff(ctx context.Context, requestID string) (*domain.TimeOffRequest, error) {
	request, err := s.timeOffRepo.FindTimeOffByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("time-off request not found")
		}
		return nil, fmt.Errorf("failed to find time-off request: %w", err)
	}
	return request, nil
}
