package services_test

import (
	"context"
	"time"

	"github.com/nathanmaher41/WorkScheduler/internal/core/domain"
	"github.com/stretchr/testify/mock"
)

// --- Mock CalendarRepository ---

type MockCalendarRepository struct {
	mock.Mock
}

func (m *MockCalendarRepository) FindCalendarByID(ctx context.Context, calendarID string) (*domain.Calendar, error) {
	args := m.Called(ctx, calendarID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Calendar), args.Error(1)
}

func (m *MockCalendarRepository) FindCalendarByJoinCode(ctx context.Context, joinCode string) (*domain.Calendar, error) {
	args := m.Called(ctx, joinCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Calendar), args.Error(1)
}

func (m *MockCalendarRepository) ListCalendarsByUserID(ctx context.Context, userID string) ([]domain.Calendar, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Calendar), args.Error(1)
}

func (m *MockCalendarRepository) SaveCalendar(ctx context.Context, calendar domain.Calendar) error {
	args := m.Called(ctx, calendar)
	return args.Error(0)
}

func (m *MockCalendarRepository) UpdateCalendar(ctx context.Context, calendar domain.Calendar) error {
	args := m.Called(ctx, calendar)
	return args.Error(0)
}

func (m *MockCalendarRepository) DeleteCalendar(ctx context.Context, calendarID string) error {
	args := m.Called(ctx, calendarID)
	return args.Error(0)
}

func (m *MockCalendarRepository) SaveRole(ctx context.Context, role domain.CalendarRole) error {
	args := m.Called(ctx, role)
	return args.Error(0)
}

func (m *MockCalendarRepository) FindRoleByID(ctx context.Context, roleID string) (*domain.CalendarRole, error) {
	args := m.Called(ctx, roleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CalendarRole), args.Error(1)
}

func (m *MockCalendarRepository) FindRoleByName(ctx context.Context, calendarID, name string) (*domain.CalendarRole, error) {
	args := m.Called(ctx, calendarID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CalendarRole), args.Error(1)
}

func (m *MockCalendarRepository) ListRolesByCalendar(ctx context.Context, calendarID string) ([]domain.CalendarRole, error) {
	args := m.Called(ctx, calendarID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CalendarRole), args.Error(1)
}

func (m *MockCalendarRepository) UpdateRole(ctx context.Context, role domain.CalendarRole) error {
	args := m.Called(ctx, role)
	return args.Error(0)
}

func (m *MockCalendarRepository) ReplaceRolePermissions(ctx context.Context, roleID string, codes []domain.PermissionCode) error {
	args := m.Called(ctx, roleID, codes)
	return args.Error(0)
}

func (m *MockCalendarRepository) CountMembershipsByRole(ctx context.Context, roleID string) (int, error) {
	args := m.Called(ctx, roleID)
	return args.Int(0), args.Error(1)
}

func (m *MockCalendarRepository) DeleteRole(ctx context.Context, roleID string) error {
	args := m.Called(ctx, roleID)
	return args.Error(0)
}

func (m *MockCalendarRepository) SaveMembership(ctx context.Context, membership domain.CalendarMembership) error {
	args := m.Called(ctx, membership)
	return args.Error(0)
}

func (m *MockCalendarRepository) FindMembership(ctx context.Context, userID, calendarID string) (*domain.CalendarMembership, error) {
	args := m.Called(ctx, userID, calendarID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CalendarMembership), args.Error(1)
}

func (m *MockCalendarRepository) ListMembershipsByCalendar(ctx context.Context, calendarID string) ([]domain.CalendarMembership, error) {
	args := m.Called(ctx, calendarID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CalendarMembership), args.Error(1)
}

func (m *MockCalendarRepository) UpdateMembership(ctx context.Context, membership domain.CalendarMembership) error {
	args := m.Called(ctx, membership)
	return args.Error(0)
}

func (m *MockCalendarRepository) ColorTaken(ctx context.Context, calendarID, color string) (bool, error) {
	args := m.Called(ctx, calendarID, color)
	return args.Bool(0), args.Error(1)
}

func (m *MockCalendarRepository) RemoveMembership(ctx context.Context, userID, calendarID string) error {
	args := m.Called(ctx, userID, calendarID)
	return args.Error(0)
}

func (m *MockCalendarRepository) SaveHoliday(ctx context.Context, holiday domain.Holiday) error {
	args := m.Called(ctx, holiday)
	return args.Error(0)
}

func (m *MockCalendarRepository) ListHolidaysByCalendar(ctx context.Context, calendarID string) ([]domain.Holiday, error) {
	args := m.Called(ctx, calendarID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Holiday), args.Error(1)
}

func (m *MockCalendarRepository) DeleteHoliday(ctx context.Context, holidayID string) error {
	args := m.Called(ctx, holidayID)
	return args.Error(0)
}

// --- Mock ScheduleRepository ---

type MockScheduleRepository struct {
	mock.Mock
}

func (m *MockScheduleRepository) FindScheduleByID(ctx context.Context, scheduleID string) (*domain.Schedule, error) {
	args := m.Called(ctx, scheduleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Schedule), args.Error(1)
}

func (m *MockScheduleRepository) ListSchedulesByCalendar(ctx context.Context, calendarID string) ([]domain.Schedule, error) {
	args := m.Called(ctx, calendarID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Schedule), args.Error(1)
}

func (m *MockScheduleRepository) FindShiftByID(ctx context.Context, shiftID string) (*domain.Shift, error) {
	args := m.Called(ctx, shiftID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Shift), args.Error(1)
}

func (m *MockScheduleRepository) ListShiftsBySchedule(ctx context.Context, scheduleID string, limit int, nextToken *string) ([]domain.Shift, *string, error) {
	args := m.Called(ctx, scheduleID, limit, nextToken)
	var shifts []domain.Shift
	if args.Get(0) != nil {
		shifts = args.Get(0).([]domain.Shift)
	}
	var next *string
	if args.Get(1) != nil {
		next = args.Get(1).(*string)
	}
	return shifts, next, args.Error(2)
}

func (m *MockScheduleRepository) FindCalendarIDForShift(ctx context.Context, shiftID string) (string, error) {
	args := m.Called(ctx, shiftID)
	return args.String(0), args.Error(1)
}

func (m *MockScheduleRepository) SaveSchedule(ctx context.Context, schedule domain.Schedule) error {
	args := m.Called(ctx, schedule)
	return args.Error(0)
}

func (m *MockScheduleRepository) UpdateSchedule(ctx context.Context, schedule domain.Schedule) error {
	args := m.Called(ctx, schedule)
	return args.Error(0)
}

func (m *MockScheduleRepository) DeleteSchedule(ctx context.Context, scheduleID string) error {
	args := m.Called(ctx, scheduleID)
	return args.Error(0)
}

func (m *MockScheduleRepository) SaveShift(ctx context.Context, shift domain.Shift) error {
	args := m.Called(ctx, shift)
	return args.Error(0)
}

func (m *MockScheduleRepository) UpdateShift(ctx context.Context, shift domain.Shift) error {
	args := m.Called(ctx, shift)
	return args.Error(0)
}

func (m *MockScheduleRepository) DeleteShift(ctx context.Context, shiftID string) error {
	args := m.Called(ctx, shiftID)
	return args.Error(0)
}

// --- Mock SwapRepository ---

type MockSwapRepository struct {
	mock.Mock
}

func (m *MockSwapRepository) FindSwapByID(ctx context.Context, swapID string) (*domain.ShiftSwapRequest, error) {
	args := m.Called(ctx, swapID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ShiftSwapRequest), args.Error(1)
}

func (m *MockSwapRepository) FindActiveSwapForPair(ctx context.Context, shiftAID, shiftBID string) (*domain.ShiftSwapRequest, error) {
	args := m.Called(ctx, shiftAID, shiftBID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ShiftSwapRequest), args.Error(1)
}

func (m *MockSwapRepository) ListSwapsForUser(ctx context.Context, userID string) ([]domain.ShiftSwapRequest, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ShiftSwapRequest), args.Error(1)
}

func (m *MockSwapRepository) ListPendingAdminSwaps(ctx context.Context, calendarID string) ([]domain.ShiftSwapRequest, error) {
	args := m.Called(ctx, calendarID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ShiftSwapRequest), args.Error(1)
}

func (m *MockSwapRepository) SaveSwapRequest(ctx context.Context, request domain.ShiftSwapRequest) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}

func (m *MockSwapRepository) MarkTargetApproved(ctx context.Context, swapID string, approvedAt time.Time) error {
	args := m.Called(ctx, swapID, approvedAt)
	return args.Error(0)
}

func (m *MockSwapRepository) FinalizeSwap(ctx context.Context, swapID string, acceptedAt time.Time) error {
	args := m.Called(ctx, swapID, acceptedAt)
	return args.Error(0)
}

func (m *MockSwapRepository) DeactivateSwap(ctx context.Context, swapID string, rejectedAt *time.Time) error {
	args := m.Called(ctx, swapID, rejectedAt)
	return args.Error(0)
}

// --- Mock TakeRepository ---

type MockTakeRepository struct {
	mock.Mock
}

func (m *MockTakeRepository) FindTakeByID(ctx context.Context, takeID string) (*domain.ShiftTakeRequest, error) {
	args := m.Called(ctx, takeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ShiftTakeRequest), args.Error(1)
}

func (m *MockTakeRepository) FindActiveTakeForShift(ctx context.Context, shiftID, requestedByID, requestedToID string) (*domain.ShiftTakeRequest, error) {
	args := m.Called(ctx, shiftID, requestedByID, requestedToID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ShiftTakeRequest), args.Error(1)
}

func (m *MockTakeRepository) ListTakesForUser(ctx context.Context, userID string) ([]domain.ShiftTakeRequest, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ShiftTakeRequest), args.Error(1)
}

func (m *MockTakeRepository) ListPendingAdminTakes(ctx context.Context, calendarID string) ([]domain.ShiftTakeRequest, error) {
	args := m.Called(ctx, calendarID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ShiftTakeRequest), args.Error(1)
}

func (m *MockTakeRepository) SaveTakeRequest(ctx context.Context, request domain.ShiftTakeRequest) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}

func (m *MockTakeRepository) MarkTargetApproved(ctx context.Context, takeID string, approvedAt time.Time) error {
	args := m.Called(ctx, takeID, approvedAt)
	return args.Error(0)
}

func (m *MockTakeRepository) FinalizeTake(ctx context.Context, takeID string, newOwnerID string, acceptedAt time.Time) error {
	args := m.Called(ctx, takeID, newOwnerID, acceptedAt)
	return args.Error(0)
}

func (m *MockTakeRepository) DeactivateTake(ctx context.Context, takeID string, rejectedAt *time.Time) error {
	args := m.Called(ctx, takeID, rejectedAt)
	return args.Error(0)
}

// --- Mock TimeOffRepository ---

type MockTimeOffRepository struct {
	mock.Mock
}

func (m *MockTimeOffRepository) FindTimeOffByID(ctx context.Context, requestID string) (*domain.TimeOffRequest, error) {
	args := m.Called(ctx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TimeOffRequest), args.Error(1)
}

func (m *MockTimeOffRepository) ListTimeOffByCalendar(ctx context.Context, calendarID string, status *domain.TimeOffStatus) ([]domain.TimeOffRequest, error) {
	args := m.Called(ctx, calendarID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TimeOffRequest), args.Error(1)
}

func (m *MockTimeOffRepository) ListTimeOffByEmployee(ctx context.Context, calendarID, employeeID string) ([]domain.TimeOffRequest, error) {
	args := m.Called(ctx, calendarID, employeeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TimeOffRequest), args.Error(1)
}

func (m *MockTimeOffRepository) SaveTimeOff(ctx context.Context, request domain.TimeOffRequest) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}

func (m *MockTimeOffRepository) UpdateTimeOff(ctx context.Context, request domain.TimeOffRequest) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}

func (m *MockTimeOffRepository) DeleteTimeOff(ctx context.Context, requestID string) error {
	args := m.Called(ctx, requestID)
	return args.Error(0)
}

// --- Mock NotificationRepository ---

type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) FindNotificationByID(ctx context.Context, notificationID string) (*domain.InboxNotification, error) {
	args := m.Called(ctx, notificationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InboxNotification), args.Error(1)
}

func (m *MockNotificationRepository) ListNotificationsByUser(ctx context.Context, userID string, unreadOnly bool, limit int, nextToken *string) ([]domain.InboxNotification, *string, error) {
	args := m.Called(ctx, userID, unreadOnly, limit, nextToken)
	var notifications []domain.InboxNotification
	if args.Get(0) != nil {
		notifications = args.Get(0).([]domain.InboxNotification)
	}
	var next *string
	if args.Get(1) != nil {
		next = args.Get(1).(*string)
	}
	return notifications, next, args.Error(2)
}

func (m *MockNotificationRepository) CountUnread(ctx context.Context, userID string) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *MockNotificationRepository) SaveNotification(ctx context.Context, notification domain.InboxNotification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

func (m *MockNotificationRepository) MarkRead(ctx context.Context, userID, notificationID string) error {
	args := m.Called(ctx, userID, notificationID)
	return args.Error(0)
}

func (m *MockNotificationRepository) MarkAllRead(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockNotificationRepository) DeactivateNotification(ctx context.Context, userID, notificationID string) error {
	args := m.Called(ctx, userID, notificationID)
	return args.Error(0)
}

// --- Mock UserRepository ---

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUsersByIDs(ctx context.Context, userIDs []string) (map[string]domain.User, error) {
	args := m.Called(ctx, userIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdatePasswordHash(ctx context.Context, userID string, passwordHash string) error {
	args := m.Called(ctx, userID, passwordHash)
	return args.Error(0)
}

// --- Mock Notifier ---

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, userID string, t domain.NotificationType, message string, relatedObjectID *string, calendarID *string) error {
	args := m.Called(ctx, userID, t, message, relatedObjectID, calendarID)
	return args.Error(0)
}

func (m *MockNotifier) EmailIfEnabled(ctx context.Context, userID, subject, body string) {
	m.Called(ctx, userID, subject, body)
}

// --- Mock EmailSender ---

type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) SendEmail(ctx context.Context, to, subject, body string) error {
	args := m.Called(ctx, to, subject, body)
	return args.Error(0)
}

// --- Mock CalendarAuthorizer ---

type MockCalendarAuthorizer struct {
	mock.Mock
}

func (m *MockCalendarAuthorizer) AuthorizeCalendarAction(ctx context.Context, actorID, calendarID string, required domain.PermissionCode) (*domain.CalendarMembership, error) {
	args := m.Called(ctx, actorID, calendarID, required)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CalendarMembership), args.Error(1)
}

func (m *MockCalendarAuthorizer) RequireMembership(ctx context.Context, actorID, calendarID string) (*domain.CalendarMembership, error) {
	args := m.Called(ctx, actorID, calendarID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CalendarMembership), args.Error(1)
}

func (m *MockCalendarAuthorizer) HasPermission(ctx context.Context, membership *domain.CalendarMembership, code domain.PermissionCode) (bool, error) {
	args := m.Called(ctx, membership, code)
	return args.Bool(0), args.Error(1)
}
