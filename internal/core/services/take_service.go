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
)

// TakeService runs the one-directional reassignment state machine. It shares the
// swap engine's shape but transfers a single shift, and the calendar's
// RequireTakeApproval flag decides whether target consent alone finalizes.
type TakeService struct {
	BaseService
	takeRepo     portsrepo.TakeRepositoryFacade
	scheduleRepo portsrepo.ScheduleRepositoryFacade
	calendarRepo portsrepo.CalendarRepositoryFacade
	notifier     portssvc.NotifierSvc
}

// NewTakeService creates a new TakeService.
func NewTakeService(tr portsrepo.TakeRepositoryFacade, schr portsrepo.ScheduleRepositoryFacade, cr portsrepo.CalendarRepositoryFacade, authorizer portssvc.CalendarAuthorizerSvc, notifier portssvc.NotifierSvc) *TakeService {
	return &TakeService{
		BaseService:  BaseService{CalendarAuthorizer: authorizer},
		takeRepo:     tr,
		scheduleRepo: schr,
		calendarRepo: cr,
		notifier:     notifier,
	}
}

var _ portssvc.TakeSvcFacade = (*TakeService)(nil)

// ProposeTake creates a request over a single shift. For "take" the actor claims
// a shift they do not own and consent falls to the owner; for "give" the actor
// offers a shift they own to the named counterparty.
func (s *TakeService) ProposeTake(ctx context.Context, actorID, shiftID string, direction domain.TakeDirection, counterpartyUserID string) (*domain.ShiftTakeRequest, error) {
	shift, err := s.findShift(ctx, shiftID)
	if err != nil {
		return nil, err
	}
	calendarID, err := s.scheduleRepo.FindCalendarIDForShift(ctx, shiftID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve calendar for shift: %w", err)
	}
	if _, err := s.CalendarAuthorizer.RequireMembership(ctx, actorID, calendarID); err != nil {
		return nil, err
	}

	var requestedTo string
	switch direction {
	case domain.TakeDirectionTake:
		if shift.EmployeeID == actorID {
			return nil, apperrors.NewValidationFailedError("cannot take a shift you already own")
		}
		// Consent falls to the current owner.
		requestedTo = shift.EmployeeID
	case domain.TakeDirectionGive:
		if shift.EmployeeID != actorID {
			return nil, fmt.Errorf("user %s does not own shift %s: %w", actorID, shiftID, apperrors.ErrForbidden)
		}
		if counterpartyUserID == "" {
			return nil, apperrors.NewValidationFailedError("counterparty is required to give a shift")
		}
		if counterpartyUserID == actorID {
			return nil, apperrors.NewValidationFailedError("cannot give a shift to yourself")
		}
		if _, err := s.CalendarAuthorizer.RequireMembership(ctx, counterpartyUserID, calendarID); err != nil {
			if errors.Is(err, apperrors.ErrForbidden) {
				return nil, apperrors.NewValidationFailedError("counterparty is not a member of this calendar")
			}
			return nil, err
		}
		requestedTo = counterpartyUserID
	default:
		return nil, apperrors.NewValidationFailedError(fmt.Sprintf("unknown direction %q", direction))
	}

	existing, err := s.takeRepo.FindActiveTakeForShift(ctx, shiftID, actorID, requestedTo)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check for existing request: %w", err)
	}
	if existing != nil {
		return nil, apperrors.NewConflictError("an active take request already exists for this shift")
	}

	request := domain.ShiftTakeRequest{
		TakeID:           uuid.NewString(),
		ShiftID:          shiftID,
		RequestedByID:    actorID,
		RequestedToID:    requestedTo,
		ApprovedByTarget: false,
		ApprovedByAdmin:  false,
		IsActive:         true,
		CreatedAt:        time.Now(),
	}
	if err := s.takeRepo.SaveTakeRequest(ctx, request); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, apperrors.NewConflictError("an active take request already exists for this shift")
		}
		s.LogError(ctx, err, "Failed to save take request", slog.String("shift_id", shiftID))
		return nil, fmt.Errorf("failed to create take request: %w", err)
	}

	s.LogInfo(ctx, "Take proposed",
		slog.String("take_id", request.TakeID),
		slog.String("direction", string(direction)),
		slog.String("requested_by", actorID))
	s.notifyTake(ctx, requestedTo, domain.NotifTakeRequested,
		"You have a new shift request.", request.TakeID, calendarID)
	return &request, nil
}

// AcceptTake advances the request. Only the named target may give first consent;
// an admin or delegate calling before that fails with a state conflict instead
// of bypassing consent. Accepting a finalized request reports the final state.
func (s *TakeService) AcceptTake(ctx context.Context, actorID, takeID string) (*portssvc.TakeAcceptResult, error) {
	request, shift, calendarID, err := s.loadTakeContext(ctx, actorID, takeID)
	if err != nil {
		return nil, err
	}
	if request.IsFinalized() {
		return &portssvc.TakeAcceptResult{Request: *request, AlreadyFinalized: true}, nil
	}
	if !request.IsActive {
		return nil, apperrors.NewConflictError("take request is no longer active")
	}

	calendar, err := s.calendarRepo.FindCalendarByID(ctx, calendarID)
	if err != nil {
		return nil, fmt.Errorf("failed to get calendar: %w", err)
	}

	if actorID == request.RequestedToID && !request.ApprovedByTarget {
		if !calendar.RequireTakeApproval {
			return s.finalize(ctx, request, shift, calendarID)
		}
		now := time.Now()
		if err := s.takeRepo.MarkTargetApproved(ctx, takeID, now); err != nil {
			if errors.Is(err, apperrors.ErrConflict) {
				return s.reportFinalState(ctx, takeID)
			}
			s.LogError(ctx, err, "Failed to mark target approval", slog.String("take_id", takeID))
			return nil, fmt.Errorf("failed to accept take: %w", err)
		}
		request.ApprovedByTarget = true
		s.LogInfo(ctx, "Take target approved", slog.String("take_id", takeID))
		s.notifyTake(ctx, request.RequestedByID, domain.NotifTakeAccepted,
			"Your shift request was accepted and is awaiting admin approval.", takeID, calendarID)
		return &portssvc.TakeAcceptResult{Request: *request, PendingAdminApproval: true}, nil
	}

	if _, err := s.Authorize(ctx, actorID, calendarID, domain.PermApproveTakeRequests); err != nil {
		return nil, err
	}
	if !request.ApprovedByTarget {
		return nil, apperrors.NewConflictError("the target has not yet accepted this request")
	}
	return s.finalize(ctx, request, shift, calendarID)
}

func (s *TakeService) finalize(ctx context.Context, request *domain.ShiftTakeRequest, shift *domain.Shift, calendarID string) (*portssvc.TakeAcceptResult, error) {
	newOwnerID := request.NewOwnerID(shift.EmployeeID)
	now := time.Now()
	if err := s.takeRepo.FinalizeTake(ctx, request.TakeID, newOwnerID, now); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return s.reportFinalState(ctx, request.TakeID)
		}
		s.LogError(ctx, err, "Failed to finalize take", slog.String("take_id", request.TakeID))
		return nil, fmt.Errorf("failed to finalize take: %w", err)
	}

	request.ApprovedByTarget = true
	request.ApprovedByAdmin = true
	request.IsActive = false
	request.AcceptedAt = &now

	s.LogInfo(ctx, "Take finalized",
		slog.String("take_id", request.TakeID),
		slog.String("new_owner_id", newOwnerID))
	s.notifyTake(ctx, request.RequestedByID, domain.NotifTakeAccepted,
		"Your shift request was finalized.", request.TakeID, calendarID)
	s.notifyTake(ctx, request.RequestedToID, domain.NotifTakeAccepted,
		"A shift request you accepted was finalized.", request.TakeID, calendarID)
	return &portssvc.TakeAcceptResult{Request: *request, Finalized: true}, nil
}

func (s *TakeService) reportFinalState(ctx context.Context, takeID string) (*portssvc.TakeAcceptResult, error) {
	request, err := s.takeRepo.FindTakeByID(ctx, takeID)
	if err != nil {
		return nil, fmt.Errorf("failed to re-read take request: %w", err)
	}
	if request.IsFinalized() {
		return &portssvc.TakeAcceptResult{Request: *request, AlreadyFinalized: true}, nil
	}
	return nil, apperrors.NewConflictError("take request is no longer active")
}

// RejectTake terminates an active request without transferring ownership. The
// named target or a permission holder may reject.
func (s *TakeService) RejectTake(ctx context.Context, actorID, takeID string) error {
	request, _, calendarID, err := s.loadTakeContext(ctx, actorID, takeID)
	if err != nil {
		return err
	}
	if !request.IsActive {
		return apperrors.NewConflictError("take request is no longer active")
	}
	if actorID != request.RequestedToID {
		if _, err := s.Authorize(ctx, actorID, calendarID, domain.PermApproveTakeRequests); err != nil {
			return err
		}
	}

	now := time.Now()
	if err := s.takeRepo.DeactivateTake(ctx, takeID, &now); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return apperrors.NewConflictError("take request is no longer active")
		}
		s.LogError(ctx, err, "Failed to reject take", slog.String("take_id", takeID))
		return fmt.Errorf("failed to reject take: %w", err)
	}

	s.LogInfo(ctx, "Take rejected", slog.String("take_id", takeID), slog.String("actor_id", actorID))
	s.notifyTake(ctx, request.RequestedByID, domain.NotifTakeRejected,
		"Your shift request was rejected.", takeID, calendarID)
	return nil
}

// CancelTake lets the original requester withdraw a still-active request.
func (s *TakeService) CancelTake(ctx context.Context, actorID, takeID string) error {
	request, _, calendarID, err := s.loadTakeContext(ctx, actorID, takeID)
	if err != nil {
		return err
	}
	if request.RequestedByID != actorID {
		return fmt.Errorf("only the requester may cancel: %w", apperrors.ErrForbidden)
	}
	if !request.IsActive {
		return apperrors.NewConflictError("take request is no longer active")
	}

	if err := s.takeRepo.DeactivateTake(ctx, takeID, nil); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return apperrors.NewConflictError("take request is no longer active")
		}
		s.LogError(ctx, err, "Failed to cancel take", slog.String("take_id", takeID))
		return fmt.Errorf("failed to cancel take: %w", err)
	}

	s.LogInfo(ctx, "Take canceled", slog.String("take_id", takeID))
	s.notifyTake(ctx, request.RequestedToID, domain.NotifTakeCanceled,
		"A shift request sent to you was canceled.", takeID, calendarID)
	return nil
}

// ListTakesForUser retrieves active requests the actor is a party to.
func (s *TakeService) ListTakesForUser(ctx context.Context, actorID string) ([]domain.ShiftTakeRequest, error) {
	requests, err := s.takeRepo.ListTakesForUser(ctx, actorID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list takes", slog.String("actor_id", actorID))
		return nil, fmt.Errorf("failed to list take requests: %w", err)
	}
	return requests, nil
}

// ListPendingAdminTakes retrieves target-approved requests awaiting an admin.
// Calendars that do not require take approval have no admin queue; the list is
// empty there.
func (s *TakeService) ListPendingAdminTakes(ctx context.Context, actorID, calendarID string) ([]domain.ShiftTakeRequest, error) {
	if _, err := s.Authorize(ctx, actorID, calendarID, domain.PermApproveTakeRequests); err != nil {
		return nil, err
	}
	calendar, err := s.calendarRepo.FindCalendarByID(ctx, calendarID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("calendar not found")
		}
		return nil, fmt.Errorf("failed to load calendar: %w", err)
	}
	if !calendar.RequireTakeApproval {
		return []domain.ShiftTakeRequest{}, nil
	}
	requests, err := s.takeRepo.ListPendingAdminTakes(ctx, calendarID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending takes: %w", err)
	}
	return requests, nil
}

// loadTakeContext loads a request, its shift and calendar, and verifies the
// actor is a member there.
func (s *TakeService) loadTakeContext(ctx context.Context, actorID, takeID string) (*domain.ShiftTakeRequest, *domain.Shift, string, error) {
	request, err := s.takeRepo.FindTakeByID(ctx, takeID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil, "", apperrors.NewNotFoundError("take request not found")
		}
		return nil, nil, "", fmt.Errorf("failed to find take request: %w", err)
	}
	shift, err := s.findShift(ctx, request.ShiftID)
	if err != nil {
		return nil, nil, "", err
	}
	calendarID, err := s.scheduleRepo.FindCalendarIDForShift(ctx, request.ShiftID)
	if err != nil {
		return nil, nil, "", fmt.Errorf("failed to resolve calendar for take: %w", err)
	}
	if _, err := s.CalendarAuthorizer.RequireMembership(ctx, actorID, calendarID); err != nil {
		return nil, nil, "", err
	}
	return request, shift, calendarID, nil
}

func (s *TakeService) findShift(ctx context.Context, shiftID string) (*domain.Shift, error) {
	shift, err := s.scheduleRepo.FindShiftByID(ctx, shiftID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("shift %s not found", shiftID))
		}
		return nil, fmt.Errorf("failed to find shift: %w", err)
	}
	return shift, nil
}

func (s *TakeService) notifyTake(ctx context.Context, userID string, t domain.NotificationType, message, takeID, calendarID string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, userID, t, message, &takeID, &calendarID); err != nil {
		s.LogError(ctx, err, "Failed to create take notification",
			slog.String("user_id", userID),
			slog.String("take_id", takeID))
	}
	s.notifier.EmailIfEnabled(ctx, userID, "Shift request update", message)
}
