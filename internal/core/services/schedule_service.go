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

const (
	defaultShiftPageSize = 50
	maxShiftPageSize     = 200
)

// ScheduleService handles schedules and the shifts inside them.
type ScheduleService struct {
	BaseService
	scheduleRepo portsrepo.ScheduleRepositoryFacade
	calendarRepo portsrepo.CalendarRepositoryFacade
}

// NewScheduleService creates a new ScheduleService.
func NewScheduleService(sr portsrepo.ScheduleRepositoryFacade, cr portsrepo.CalendarRepositoryFacade, authorizer portssvc.CalendarAuthorizerSvc) *ScheduleService {
	return &ScheduleService{
		BaseService:  BaseService{CalendarAuthorizer: authorizer},
		scheduleRepo: sr,
		calendarRepo: cr,
	}
}

var _ portssvc.ScheduleSvcFacade = (*ScheduleService)(nil)

// CreateSchedule adds a schedule to the calendar.
func (s *ScheduleService) CreateSchedule(ctx context.Context, actorID, calendarID string, req dto.CreateScheduleRequest) (*domain.Schedule, error) {
	if _, err := s.Authorize(ctx, actorID, calendarID, domain.PermManageSchedules); err != nil {
		return nil, err
	}
	if !req.EndDate.After(req.StartDate) {
		return nil, apperrors.NewValidationFailedError("end date must be after start date")
	}

	now := time.Now()
	schedule := domain.Schedule{
		ScheduleID:  uuid.NewString(),
		CalendarID:  calendarID,
		Name:        req.Name,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		IsPublished: false,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}
	if err := s.scheduleRepo.SaveSchedule(ctx, schedule); err != nil {
		s.LogError(ctx, err, "Failed to save schedule", slog.String("calendar_id", calendarID))
		return nil, fmt.Errorf("failed to create schedule: %w", err)
	}
	return &schedule, nil
}

// ListSchedules retrieves the calendar's schedules for any member.
func (s *ScheduleService) ListSchedules(ctx context.Context, actorID, calendarID string) ([]domain.Schedule, error) {
	if _, err := s.CalendarAuthorizer.RequireMembership(ctx, actorID, calendarID); err != nil {
		return nil, err
	}
	schedules, err := s.scheduleRepo.ListSchedulesByCalendar(ctx, calendarID)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}
	return schedules, nil
}

// UpdateSchedule updates name, dates and the published flag.
func (s *ScheduleService) UpdateSchedule(ctx context.Context, actorID, scheduleID string, req dto.UpdateScheduleRequest) (*domain.Schedule, error) {
	schedule, err := s.findSchedule(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	if _, err := s.Authorize(ctx, actorID, schedule.CalendarID, domain.PermManageSchedules); err != nil {
		return nil, err
	}

	if req.Name != nil {
		schedule.Name = *req.Name
	}
	if req.StartDate != nil {
		schedule.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		schedule.EndDate = *req.EndDate
	}
	if !schedule.EndDate.After(schedule.StartDate) {
		return nil, apperrors.NewValidationFailedError("end date must be after start date")
	}
	if req.IsPublished != nil {
		schedule.IsPublished = *req.IsPublished
	}
	schedule.LastUpdatedAt = time.Now()
	schedule.LastUpdatedBy = actorID

	if err := s.scheduleRepo.UpdateSchedule(ctx, *schedule); err != nil {
		s.LogError(ctx, err, "Failed to update schedule", slog.String("schedule_id", scheduleID))
		return nil, fmt.Errorf("failed to update schedule: %w", err)
	}
	return schedule, nil
}

// DeleteSchedule removes a schedule; its shifts cascade at the database level.
func (s *ScheduleService) DeleteSchedule(ctx context.Context, actorID, scheduleID string) error {
	schedule, err := s.findSchedule(ctx, scheduleID)
	if err != nil {
		return err
	}
	if _, err := s.Authorize(ctx, actorID, schedule.CalendarID, domain.PermManageSchedules); err != nil {
		return err
	}
	if err := s.scheduleRepo.DeleteSchedule(ctx, scheduleID); err != nil {
		s.LogError(ctx, err, "Failed to delete schedule", slog.String("schedule_id", scheduleID))
		return fmt.Errorf("failed to delete schedule: %w", err)
	}
	s.LogInfo(ctx, "Schedule deleted", slog.String("schedule_id", scheduleID))
	return nil
}

// CreateShift adds a shift to a schedule. The assignee must be a member of the
// schedule's calendar.
func (s *ScheduleService) CreateShift(ctx context.Context, actorID, scheduleID string, req dto.CreateShiftRequest) (*domain.Shift, error) {
	schedule, err := s.findSchedule(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	if _, err := s.Authorize(ctx, actorID, schedule.CalendarID, domain.PermManageShifts); err != nil {
		return nil, err
	}
	if !req.EndTime.After(req.StartTime) {
		return nil, apperrors.NewValidationFailedError("end time must be after start time")
	}
	if err := s.requireCalendarMember(ctx, req.EmployeeID, schedule.CalendarID); err != nil {
		return nil, err
	}

	now := time.Now()
	shift := domain.Shift{
		ShiftID:    uuid.NewString(),
		ScheduleID: scheduleID,
		EmployeeID: req.EmployeeID,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		Position:   req.Position,
		Notes:      req.Notes,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}
	if err := s.scheduleRepo.SaveShift(ctx, shift); err != nil {
		s.LogError(ctx, err, "Failed to save shift", slog.String("schedule_id", scheduleID))
		return nil, fmt.Errorf("failed to create shift: %w", err)
	}
	return &shift, nil
}

// ListShifts retrieves a page of a schedule's shifts for any member.
func (s *ScheduleService) ListShifts(ctx context.Context, actorID, scheduleID string, limit int, nextToken *string) ([]domain.Shift, *string, error) {
	schedule, err := s.findSchedule(ctx, scheduleID)
	if err != nil {
		return nil, nil, err
	}
	if _, err := s.CalendarAuthorizer.RequireMembership(ctx, actorID, schedule.CalendarID); err != nil {
		return nil, nil, err
	}
	if limit <= 0 {
		limit = defaultShiftPageSize
	}
	if limit > maxShiftPageSize {
		limit = maxShiftPageSize
	}
	shifts, next, err := s.scheduleRepo.ListShiftsBySchedule(ctx, scheduleID, limit, nextToken)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list shifts: %w", err)
	}
	return shifts, next, nil
}

// GetShift retrieves a shift with its owning calendar for any member.
func (s *ScheduleService) GetShift(ctx context.Context, actorID, shiftID string) (*domain.Shift, *domain.Calendar, error) {
	shift, err := s.findShift(ctx, shiftID)
	if err != nil {
		return nil, nil, err
	}
	calendarID, err := s.scheduleRepo.FindCalendarIDForShift(ctx, shiftID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to resolve calendar for shift: %w", err)
	}
	if _, err := s.CalendarAuthorizer.RequireMembership(ctx, actorID, calendarID); err != nil {
		return nil, nil, err
	}
	calendar, err := s.calendarRepo.FindCalendarByID(ctx, calendarID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to find calendar: %w", err)
	}
	return shift, calendar, nil
}

// UpdateShift updates times, position, notes and assignee.
func (s *ScheduleService) UpdateShift(ctx context.Context, actorID, shiftID string, req dto.UpdateShiftRequest) (*domain.Shift, error) {
	shift, err := s.findShift(ctx, shiftID)
	if err != nil {
		return nil, err
	}
	calendarID, err := s.scheduleRepo.FindCalendarIDForShift(ctx, shiftID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve calendar for shift: %w", err)
	}
	if _, err := s.Authorize(ctx, actorID, calendarID, domain.PermManageShifts); err != nil {
		return nil, err
	}

	if req.EmployeeID != nil && *req.EmployeeID != shift.EmployeeID {
		if err := s.requireCalendarMember(ctx, *req.EmployeeID, calendarID); err != nil {
			return nil, err
		}
		shift.EmployeeID = *req.EmployeeID
	}
	if req.StartTime != nil {
		shift.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		shift.EndTime = *req.EndTime
	}
	if !shift.EndTime.After(shift.StartTime) {
		return nil, apperrors.NewValidationFailedError("end time must be after start time")
	}
	if req.Position != nil {
		shift.Position = *req.Position
	}
	if req.Notes != nil {
		shift.Notes = req.Notes
	}
	shift.LastUpdatedAt = time.Now()
	shift.LastUpdatedBy = actorID

	if err := s.scheduleRepo.UpdateShift(ctx, *shift); err != nil {
		s.LogError(ctx, err, "Failed to update shift", slog.String("shift_id", shiftID))
		return nil, fmt.Errorf("failed to update shift: %w", err)
	}
	return shift, nil
}

// DeleteShift removes a shift.
func (s *ScheduleService) DeleteShift(ctx context.Context, actorID, shiftID string) error {
	if _, err := s.findShift(ctx, shiftID); err != nil {
		return err
	}
	calendarID, err := s.scheduleRepo.FindCalendarIDForShift(ctx, shiftID)
	if err != nil {
		return fmt.Errorf("failed to resolve calendar for shift: %w", err)
	}
	if _, err := s.Authorize(ctx, actorID, calendarID, domain.PermManageShifts); err != nil {
		return err
	}
	if err := s.scheduleRepo.DeleteShift(ctx, shiftID); err != nil {
		s.LogError(ctx, err, "Failed to delete shift", slog.String("shift_id", shiftID))
		return fmt.Errorf("failed to delete shift: %w", err)
	}
	return nil
}

func (s *ScheduleService) findSchedule(ctx context.Context, scheduleID string) (*domain.Schedule, error) {
	schedule, err := s.scheduleRepo.FindScheduleByID(ctx, scheduleID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("schedule %s not found", scheduleID))
		}
		return nil, fmt.Errorf("failed to find schedule: %w", err)
	}
	return schedule, nil
}

func (s *ScheduleService) findShift(ctx context.Context, shiftID string) (*domain.Shift, error) {
	shift, err := s.scheduleRepo.FindShiftByID(ctx, shiftID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("shift %s not found", shiftID))
		}
		return nil, fmt.Errorf("failed to find shift: %w", err)
	}
	return shift, nil
}

// requireCalendarMember verifies the assignee belongs to the calendar, turning
// the forbidden from the membership gate into a validation error about them.
func (s *ScheduleService) requireCalendarMember(ctx context.Context, userID, calendarID string) error {
	if _, err := s.calendarRepo.FindMembership(ctx, userID, calendarID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NewValidationFailedError("assignee is not a member of this calendar")
		}
		return fmt.Errorf("failed to verify assignee membership: %w", err)
	}
	return nil
}
