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

// SwapService runs the two-shift exchange state machine:
// proposed → target approved → finalized, with calendar policy deciding whether
// target approval alone finalizes.
type SwapService struct {
	BaseService
	swapRepo     portsrepo.SwapRepositoryFacade
	scheduleRepo portsrepo.ScheduleRepositoryFacade
	calendarRepo portsrepo.CalendarRepositoryFacade
	notifier     portssvc.NotifierSvc
}

// NewSwapService creates a new SwapService.
func NewSwapService(sr portsrepo.SwapRepositoryFacade, schr portsrepo.ScheduleRepositoryFacade, cr portsrepo.CalendarRepositoryFacade, authorizer portssvc.CalendarAuthorizerSvc, notifier portssvc.NotifierSvc) *SwapService {
	return &SwapService{
		BaseService:  BaseService{CalendarAuthorizer: authorizer},
		swapRepo:     sr,
		scheduleRepo: schr,
		calendarRepo: cr,
		notifier:     notifier,
	}
}

var _ portssvc.SwapSvcFacade = (*SwapService)(nil)

// ProposeSwap creates a request to exchange the actor's shift with the target
// shift. Both shifts must live in the same calendar, the actor must own the
// requesting shift, and at most one active request may exist per shift pair.
func (s *SwapService) ProposeSwap(ctx context.Context, actorID, requestingShiftID, targetShiftID string) (*domain.ShiftSwapRequest, error) {
	if requestingShiftID == targetShiftID {
		return nil, apperrors.NewValidationFailedError("cannot swap a shift with itself")
	}

	requestingShift, err := s.findShift(ctx, requestingShiftID)
	if err != nil {
		return nil, err
	}
	targetShift, err := s.findShift(ctx, targetShiftID)
	if err != nil {
		return nil, err
	}
	if requestingShift.EmployeeID != actorID {
		return nil, fmt.Errorf("user %s does not own shift %s: %w", actorID, requestingShiftID, apperrors.ErrForbidden)
	}
	if requestingShift.EmployeeID == targetShift.EmployeeID {
		return nil, apperrors.NewValidationFailedError("cannot swap between two of your own shifts")
	}

	requestingCalID, err := s.scheduleRepo.FindCalendarIDForShift(ctx, requestingShiftID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve calendar for shift: %w", err)
	}
	targetCalID, err := s.scheduleRepo.FindCalendarIDForShift(ctx, targetShiftID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve calendar for shift: %w", err)
	}
	if requestingCalID != targetCalID {
		return nil, apperrors.NewValidationFailedError("shifts belong to different calendars")
	}
	// Proposing needs membership only; owning the requesting shift is the gate.
	if _, err := s.CalendarAuthorizer.RequireMembership(ctx, actorID, requestingCalID); err != nil {
		return nil, err
	}

	existing, err := s.swapRepo.FindActiveSwapForPair(ctx, requestingShiftID, targetShiftID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check for existing request: %w", err)
	}
	if existing != nil {
		return nil, apperrors.NewConflictError("an active swap request already exists for these shifts")
	}

	request := domain.ShiftSwapRequest{
		SwapID:            uuid.NewString(),
		RequestingShiftID: requestingShiftID,
		TargetShiftID:     targetShiftID,
		RequestedByID:     actorID,
		ApprovedByTarget:  false,
		ApprovedByAdmin:   false,
		IsActive:          true,
		CreatedAt:         time.Now(),
	}
	if err := s.swapRepo.SaveSwapRequest(ctx, request); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, apperrors.NewConflictError("an active swap request already exists for these shifts")
		}
		s.LogError(ctx, err, "Failed to save swap request", slog.String("requesting_shift_id", requestingShiftID))
		return nil, fmt.Errorf("failed to create swap request: %w", err)
	}

	s.LogInfo(ctx, "Swap proposed",
		slog.String("swap_id", request.SwapID),
		slog.String("requested_by", actorID))
	s.notifySwap(ctx, targetShift.EmployeeID, domain.NotifSwapRequested,
		"You have a new shift swap request.", request.SwapID, requestingCalID)
	return &request, nil
}

// AcceptSwap advances the request one state. The target employee accepts first;
// when the calendar requires approval a permission holder finalizes afterwards.
// Accepting an already-finalized request reports the final state without error.
func (s *SwapService) AcceptSwap(ctx context.Context, actorID, swapID string) (*portssvc.SwapAcceptResult, error) {
	request, calendarID, err := s.loadSwapContext(ctx, actorID, swapID)
	if err != nil {
		return nil, err
	}
	if request.IsFinalized() {
		return &portssvc.SwapAcceptResult{Request: *request, AlreadyFinalized: true}, nil
	}
	if !request.IsActive {
		return nil, apperrors.NewConflictError("swap request is no longer active")
	}

	calendar, err := s.calendarRepo.FindCalendarByID(ctx, calendarID)
	if err != nil {
		return nil, fmt.Errorf("failed to get calendar: %w", err)
	}
	targetShift, err := s.findShift(ctx, request.TargetShiftID)
	if err != nil {
		return nil, err
	}

	isTarget := targetShift.EmployeeID == actorID
	if isTarget && !request.ApprovedByTarget {
		if calendar.AllowSwapWithoutApproval {
			return s.finalize(ctx, request, calendarID, targetShift.EmployeeID)
		}
		now := time.Now()
		if err := s.swapRepo.MarkTargetApproved(ctx, swapID, now); err != nil {
			if errors.Is(err, apperrors.ErrConflict) {
				return s.reportFinalState(ctx, swapID)
			}
			s.LogError(ctx, err, "Failed to mark target approval", slog.String("swap_id", swapID))
			return nil, fmt.Errorf("failed to accept swap: %w", err)
		}
		request.ApprovedByTarget = true
		s.LogInfo(ctx, "Swap target approved", slog.String("swap_id", swapID))
		s.notifySwap(ctx, request.RequestedByID, domain.NotifSwapAccepted,
			"Your swap request was accepted and is awaiting admin approval.", swapID, calendarID)
		return &portssvc.SwapAcceptResult{Request: *request, PendingAdminApproval: true}, nil
	}

	// Not the target (or target already approved): admin approval path.
	if _, err := s.Authorize(ctx, actorID, calendarID, domain.PermApproveSwapRequests); err != nil {
		return nil, err
	}
	if !request.ApprovedByTarget {
		return nil, apperrors.NewConflictError("the target employee has not yet accepted this swap")
	}
	return s.finalize(ctx, request, calendarID, targetShift.EmployeeID)
}

// finalize runs the atomic ownership exchange and reports the outcome. A
// conflict from the repository means another accept won the race; the final
// state is then reported idempotently.
func (s *SwapService) finalize(ctx context.Context, request *domain.ShiftSwapRequest, calendarID, targetEmployeeID string) (*portssvc.SwapAcceptResult, error) {
	now := time.Now()
	if err := s.swapRepo.FinalizeSwap(ctx, request.SwapID, now); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return s.reportFinalState(ctx, request.SwapID)
		}
		s.LogError(ctx, err, "Failed to finalize swap", slog.String("swap_id", request.SwapID))
		return nil, fmt.Errorf("failed to finalize swap: %w", err)
	}

	request.ApprovedByTarget = true
	request.ApprovedByAdmin = true
	request.IsActive = false
	request.AcceptedAt = &now

	s.LogInfo(ctx, "Swap finalized", slog.String("swap_id", request.SwapID))
	s.notifySwap(ctx, request.RequestedByID, domain.NotifSwapAccepted,
		"Your shift swap was finalized.", request.SwapID, calendarID)
	s.notifySwap(ctx, targetEmployeeID, domain.NotifSwapAccepted,
		"A shift swap involving your shift was finalized.", request.SwapID, calendarID)
	return &portssvc.SwapAcceptResult{Request: *request, Finalized: true}, nil
}

// reportFinalState re-reads a request after losing a finalization race. A
// finalized request is returned as the idempotent no-op; anything else was
// invalidated underneath us.
func (s *SwapService) reportFinalState(ctx context.Context, swapID string) (*portssvc.SwapAcceptResult, error) {
	request, err := s.swapRepo.FindSwapByID(ctx, swapID)
	if err != nil {
		return nil, fmt.Errorf("failed to re-read swap request: %w", err)
	}
	if request.IsFinalized() {
		return &portssvc.SwapAcceptResult{Request: *request, AlreadyFinalized: true}, nil
	}
	return nil, apperrors.NewConflictError("swap request is no longer active")
}

// RejectSwap terminates an active request without transferring ownership. The
// target employee or a permission holder may reject.
func (s *SwapService) RejectSwap(ctx context.Context, actorID, swapID string) error {
	request, calendarID, err := s.loadSwapContext(ctx, actorID, swapID)
	if err != nil {
		return err
	}
	if !request.IsActive {
		return apperrors.NewConflictError("swap request is no longer active")
	}

	targetShift, err := s.findShift(ctx, request.TargetShiftID)
	if err != nil {
		return err
	}
	if targetShift.EmployeeID != actorID {
		if _, err := s.Authorize(ctx, actorID, calendarID, domain.PermApproveSwapRequests); err != nil {
			return err
		}
	}

	now := time.Now()
	if err := s.swapRepo.DeactivateSwap(ctx, swapID, &now); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return apperrors.NewConflictError("swap request is no longer active")
		}
		s.LogError(ctx, err, "Failed to reject swap", slog.String("swap_id", swapID))
		return fmt.Errorf("failed to reject swap: %w", err)
	}

	s.LogInfo(ctx, "Swap rejected", slog.String("swap_id", swapID), slog.String("actor_id", actorID))
	s.notifySwap(ctx, request.RequestedByID, domain.NotifSwapRejected,
		"Your shift swap request was rejected.", swapID, calendarID)
	return nil
}

// CancelSwap lets the original requester withdraw a still-active request.
func (s *SwapService) CancelSwap(ctx context.Context, actorID, swapID string) error {
	request, calendarID, err := s.loadSwapContext(ctx, actorID, swapID)
	if err != nil {
		return err
	}
	if request.RequestedByID != actorID {
		return fmt.Errorf("only the requester may cancel: %w", apperrors.ErrForbidden)
	}
	if !request.IsActive {
		return apperrors.NewConflictError("swap request is no longer active")
	}

	if err := s.swapRepo.DeactivateSwap(ctx, swapID, nil); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return apperrors.NewConflictError("swap request is no longer active")
		}
		s.LogError(ctx, err, "Failed to cancel swap", slog.String("swap_id", swapID))
		return fmt.Errorf("failed to cancel swap: %w", err)
	}

	targetShift, err := s.findShift(ctx, request.TargetShiftID)
	if err == nil {
		s.notifySwap(ctx, targetShift.EmployeeID, domain.NotifSwapCanceled,
			"A shift swap request involving your shift was canceled.", swapID, calendarID)
	}
	s.LogInfo(ctx, "Swap canceled", slog.String("swap_id", swapID))
	return nil
}

// ListSwapsForUser retrieves active requests where the actor owns either shift.
func (s *SwapService) ListSwapsForUser(ctx context.Context, actorID string) ([]domain.ShiftSwapRequest, error) {
	requests, err := s.swapRepo.ListSwapsForUser(ctx, actorID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list swaps", slog.String("actor_id", actorID))
		return nil, fmt.Errorf("failed to list swap requests: %w", err)
	}
	return requests, nil
}

// ListPendingAdminSwaps retrieves target-approved requests awaiting an admin
// decision in the calendar. Calendars where swaps finalize without approval
// have no admin queue; the list is empty there.
func (s *SwapService) ListPendingAdminSwaps(ctx context.Context, actorID, calendarID string) ([]domain.ShiftSwapRequest, error) {
	if _, err := s.Authorize(ctx, actorID, calendarID, domain.PermApproveSwapRequests); err != nil {
		return nil, err
	}
	calendar, err := s.calendarRepo.FindCalendarByID(ctx, calendarID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("calendar not found")
		}
		return nil, fmt.Errorf("failed to load calendar: %w", err)
	}
	if calendar.AllowSwapWithoutApproval {
		return []domain.ShiftSwapRequest{}, nil
	}
	requests, err := s.swapRepo.ListPendingAdminSwaps(ctx, calendarID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending swaps: %w", err)
	}
	return requests, nil
}

// loadSwapContext loads a request, resolves its calendar and verifies the actor
// is a member there. Non-members get forbidden, not found, to avoid leaking
// request existence.
func (s *SwapService) loadSwapContext(ctx context.Context, actorID, swapID string) (*domain.ShiftSwapRequest, string, error) {
	request, err := s.swapRepo.FindSwapByID(ctx, swapID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, "", apperrors.NewNotFoundError("swap request not found")
		}
		return nil, "", fmt.Errorf("failed to find swap request: %w", err)
	}
	calendarID, err := s.scheduleRepo.FindCalendarIDForShift(ctx, request.RequestingShiftID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to resolve calendar for swap: %w", err)
	}
	if _, err := s.CalendarAuthorizer.RequireMembership(ctx, actorID, calendarID); err != nil {
		return nil, "", err
	}
	return request, calendarID, nil
}

func (s *SwapService) findShift(ctx context.Context, shiftID string) (*domain.Shift, error) {
	shift, err := s.scheduleRepo.FindShiftByID(ctx, shiftID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("shift %s not found", shiftID))
		}
		return nil, fmt.Errorf("failed to find shift: %w", err)
	}
	return shift, nil
}

func (s *SwapService) notifySwap(ctx context.Context, userID string, t domain.NotificationType, message, swapID, calendarID string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, userID, t, message, &swapID, &calendarID); err != nil {
		s.LogError(ctx, err, "Failed to create swap notification",
			slog.String("user_id", userID),
			slog.String("swap_id", swapID))
	}
	s.notifier.EmailIfEnabled(ctx, userID, "Shift swap update", message)
}
