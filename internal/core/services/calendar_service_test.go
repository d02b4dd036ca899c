package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/nathanmaher41/WorkScheduler/internal/apperrors"
	"github.com/nathanmaher41/WorkScheduler/internal/core/domain"
	"github.com/nathanmaher41/WorkScheduler/internal/core/services"
	"github.com/nathanmaher41/WorkScheduler/internal/dto"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type CalendarServiceTestSuite struct {
	suite.Suite
	mockRepo     *MockCalendarRepository
	mockUserRepo *MockUserRepository
	mockNotifier *MockNotifier
	service      *services.CalendarService

	calendarID string
	adminID    string
	memberID   string
}

func (suite *CalendarServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockCalendarRepository)
	suite.mockUserRepo = new(MockUserRepository)
	suite.mockNotifier = new(MockNotifier)
	suite.service = services.NewCalendarService(suite.mockRepo, suite.mockUserRepo, suite.mockNotifier)

	suite.calendarID = uuid.NewString()
	suite.adminID = uuid.NewString()
	suite.memberID = uuid.NewString()
}

func (suite *CalendarServiceTestSuite) adminMembership() *domain.CalendarMembership {
	return &domain.CalendarMembership{
		UserID:     suite.adminID,
		CalendarID: suite.calendarID,
		IsAdmin:    true,
		Color:      "#FF6B6B",
	}
}

// --- Authorization ---

func (suite *CalendarServiceTestSuite) TestAuthorize_NonMemberIsForbidden() {
	ctx := context.Background()
	suite.mockRepo.On("FindMembership", ctx, suite.memberID, suite.calendarID).
		Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.AuthorizeCalendarAction(ctx, suite.memberID, suite.calendarID, domain.PermManageRoles)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.NotErrorIs(err, apperrors.ErrNotFound)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *CalendarServiceTestSuite) TestAuthorize_AdminBypassesPermissionCheck() {
	ctx := context.Background()
	suite.mockRepo.On("FindMembership", ctx, suite.adminID, suite.calendarID).
		Return(suite.adminMembership(), nil).Once()

	membership, err := suite.service.AuthorizeCalendarAction(ctx, suite.adminID, suite.calendarID, domain.PermManageRoles)

	suite.Require().NoError(err)
	suite.True(membership.IsAdmin)
	// No role lookup happened: admins short-circuit.
	suite.mockRepo.AssertNotCalled(suite.T(), "FindRoleByID", mock.Anything, mock.Anything)
}

func (suite *CalendarServiceTestSuite) TestAuthorize_RolePermissionGrantsAccess() {
	ctx := context.Background()
	roleID := uuid.NewString()
	membership := &domain.CalendarMembership{
		UserID:     suite.memberID,
		CalendarID: suite.calendarID,
		RoleID:     &roleID,
	}
	role := &domain.CalendarRole{
		RoleID:      roleID,
		CalendarID:  suite.calendarID,
		Name:        "Manager",
		Permissions: []domain.PermissionCode{domain.PermManageRoles},
	}
	suite.mockRepo.On("FindMembership", ctx, suite.memberID, suite.calendarID).Return(membership, nil).Once()
	suite.mockRepo.On("FindRoleByID", ctx, roleID).Return(role, nil).Once()

	got, err := suite.service.AuthorizeCalendarAction(ctx, suite.memberID, suite.calendarID, domain.PermManageRoles)

	suite.Require().NoError(err)
	suite.Equal(suite.memberID, got.UserID)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *CalendarServiceTestSuite) TestAuthorize_ExcludedPermissionDeniesDespiteRole() {
	ctx := context.Background()
	roleID := uuid.NewString()
	membership := &domain.CalendarMembership{
		UserID:              suite.memberID,
		CalendarID:          suite.calendarID,
		RoleID:              &roleID,
		ExcludedPermissions: []domain.PermissionCode{domain.PermManageRoles},
	}
	role := &domain.CalendarRole{
		RoleID:      roleID,
		CalendarID:  suite.calendarID,
		Name:        "Manager",
		Permissions: []domain.PermissionCode{domain.PermManageRoles},
	}
	suite.mockRepo.On("FindMembership", ctx, suite.memberID, suite.calendarID).Return(membership, nil).Once()
	suite.mockRepo.On("FindRoleByID", ctx, roleID).Return(role, nil).Once()

	_, err := suite.service.AuthorizeCalendarAction(ctx, suite.memberID, suite.calendarID, domain.PermManageRoles)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

// --- CreateCalendar ---

func (suite *CalendarServiceTestSuite) TestCreateCalendar_Success() {
	ctx := context.Background()
	req := dto.CreateCalendarRequest{
		Name:         "Bar Crew",
		CreatorTitle: "manager",
		Roles:        []string{"bartender"},
		Color:        "#FF6B6B",
	}

	suite.mockRepo.On("FindCalendarByJoinCode", ctx, mock.AnythingOfType("string")).
		Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("SaveCalendar", ctx, mock.MatchedBy(func(c domain.Calendar) bool {
		return c.Name == req.Name && len(c.JoinCode) == 6 && c.CreatedBy == suite.adminID
	})).Return(nil).Once()
	suite.mockRepo.On("SaveRole", ctx, mock.MatchedBy(func(r domain.CalendarRole) bool {
		return r.Name == domain.DefaultRoleName
	})).Return(nil).Once()
	suite.mockRepo.On("SaveRole", ctx, mock.MatchedBy(func(r domain.CalendarRole) bool {
		return r.Name == "Bartender"
	})).Return(nil).Once()
	suite.mockRepo.On("SaveRole", ctx, mock.MatchedBy(func(r domain.CalendarRole) bool {
		return r.Name == "Manager"
	})).Return(nil).Once()
	suite.mockRepo.On("SaveMembership", ctx, mock.MatchedBy(func(m domain.CalendarMembership) bool {
		return m.UserID == suite.adminID && m.IsAdmin && m.RoleID != nil && m.Color == req.Color
	})).Return(nil).Once()

	calendar, err := suite.service.CreateCalendar(ctx, suite.adminID, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(calendar)
	suite.Equal(req.Name, calendar.Name)
	suite.Len(calendar.JoinCode, 6)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *CalendarServiceTestSuite) TestCreateCalendar_CreatorTitleReusesListedRole() {
	ctx := context.Background()
	req := dto.CreateCalendarRequest{
		Name:         "Kitchen",
		CreatorTitle: "Chef",
		Roles:        []string{"chef"},
		Color:        "#4ECDC4",
	}

	suite.mockRepo.On("FindCalendarByJoinCode", ctx, mock.AnythingOfType("string")).
		Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("SaveCalendar", ctx, mock.AnythingOfType("domain.Calendar")).Return(nil).Once()
	// Staff plus one Chef role, not two.
	suite.mockRepo.On("SaveRole", ctx, mock.AnythingOfType("domain.CalendarRole")).Return(nil).Twice()
	suite.mockRepo.On("SaveMembership", ctx, mock.MatchedBy(func(m domain.CalendarMembership) bool {
		return m.RoleID != nil
	})).Return(nil).Once()

	_, err := suite.service.CreateCalendar(ctx, suite.adminID, req)

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *CalendarServiceTestSuite) TestCreateCalendar_NoCreatorTitleLeavesRoleUnset() {
	ctx := context.Background()
	req := dto.CreateCalendarRequest{
		Name:  "Warehouse",
		Color: "#FF6B6B",
	}

	suite.mockRepo.On("FindCalendarByJoinCode", ctx, mock.AnythingOfType("string")).
		Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("SaveCalendar", ctx, mock.AnythingOfType("domain.Calendar")).Return(nil).Once()
	// Only the default Staff role is created.
	suite.mockRepo.On("SaveRole", ctx, mock.MatchedBy(func(r domain.CalendarRole) bool {
		return r.Name == domain.DefaultRoleName
	})).Return(nil).Once()
	suite.mockRepo.On("SaveMembership", ctx, mock.MatchedBy(func(m domain.CalendarMembership) bool {
		return m.UserID == suite.adminID && m.IsAdmin && m.RoleID == nil
	})).Return(nil).Once()

	_, err := suite.service.CreateCalendar(ctx, suite.adminID, req)

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

// --- JoinByCode ---

func (suite *CalendarServiceTestSuite) TestJoinByCode_ColorTaken() {
	ctx := context.Background()
	calendar := &domain.Calendar{CalendarID: suite.calendarID, Name: "Bar Crew", JoinCode: "AB12CD"}
	req := dto.JoinCalendarRequest{JoinCode: "AB12CD", Color: "#FF6B6B"}

	suite.mockRepo.On("FindCalendarByJoinCode", ctx, "AB12CD").Return(calendar, nil).Once()
	suite.mockRepo.On("ListRolesByCalendar", ctx, suite.calendarID).Return([]domain.CalendarRole{}, nil).Once()
	suite.mockRepo.On("FindMembership", ctx, suite.memberID, suite.calendarID).
		Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("ColorTaken", ctx, suite.calendarID, "#FF6B6B").Return(true, nil).Once()

	_, err := suite.service.JoinByCode(ctx, suite.memberID, req)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveMembership", mock.Anything, mock.Anything)
}

func (suite *CalendarServiceTestSuite) TestJoinByCode_TitleRequiredWhenRolesExist() {
	ctx := context.Background()
	calendar := &domain.Calendar{CalendarID: suite.calendarID, Name: "Bar Crew", JoinCode: "AB12CD"}
	roles := []domain.CalendarRole{
		{RoleID: uuid.NewString(), CalendarID: suite.calendarID, Name: "Staff"},
	}
	req := dto.JoinCalendarRequest{JoinCode: "AB12CD", Color: "#FF6B6B"}

	suite.mockRepo.On("FindCalendarByJoinCode", ctx, "AB12CD").Return(calendar, nil).Once()
	suite.mockRepo.On("ListRolesByCalendar", ctx, suite.calendarID).Return(roles, nil).Once()
	suite.mockRepo.On("FindMembership", ctx, suite.memberID, suite.calendarID).
		Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.JoinByCode(ctx, suite.memberID, req)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveMembership", mock.Anything, mock.Anything)
}

func (suite *CalendarServiceTestSuite) TestJoinByCode_AlreadyMemberIsIdempotent() {
	ctx := context.Background()
	calendar := &domain.Calendar{CalendarID: suite.calendarID, JoinCode: "AB12CD"}
	existing := &domain.CalendarMembership{UserID: suite.memberID, CalendarID: suite.calendarID, Color: "#4ECDC4"}
	req := dto.JoinCalendarRequest{JoinCode: "ab12cd", Color: "#FF6B6B"}

	suite.mockRepo.On("FindCalendarByJoinCode", ctx, "AB12CD").Return(calendar, nil).Once()
	suite.mockRepo.On("ListRolesByCalendar", ctx, suite.calendarID).Return([]domain.CalendarRole{}, nil).Once()
	suite.mockRepo.On("FindMembership", ctx, suite.memberID, suite.calendarID).Return(existing, nil).Once()

	membership, err := suite.service.JoinByCode(ctx, suite.memberID, req)

	suite.Require().NoError(err)
	suite.Equal("#4ECDC4", membership.Color)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveMembership", mock.Anything, mock.Anything)
}

// --- SetMemberPermissions ---

func (suite *CalendarServiceTestSuite) TestSetMemberPermissions_SplitsSelectionAgainstRole() {
	ctx := context.Background()
	roleID := uuid.NewString()
	target := &domain.CalendarMembership{
		UserID:     suite.memberID,
		CalendarID: suite.calendarID,
		RoleID:     &roleID,
	}
	role := &domain.CalendarRole{
		RoleID:     roleID,
		CalendarID: suite.calendarID,
		Name:       "Manager",
		Permissions: []domain.PermissionCode{
			domain.PermManageRoles,
			domain.PermManageHolidays,
		},
	}
	selected := []domain.PermissionCode{
		domain.PermManageRoles, // kept from role
		domain.PermAssignRoles, // beyond role -> custom
	}

	suite.mockRepo.On("FindMembership", ctx, suite.adminID, suite.calendarID).
		Return(suite.adminMembership(), nil).Once()
	suite.mockRepo.On("FindMembership", ctx, suite.memberID, suite.calendarID).Return(target, nil).Once()
	suite.mockRepo.On("FindRoleByID", ctx, roleID).Return(role, nil).Once()
	suite.mockRepo.On("UpdateMembership", ctx, mock.MatchedBy(func(m domain.CalendarMembership) bool {
		custom := domain.NewPermissionSet(m.CustomPermissions...)
		excluded := domain.NewPermissionSet(m.ExcludedPermissions...)
		return len(m.CustomPermissions) == 1 && custom.Contains(domain.PermAssignRoles) &&
			len(m.ExcludedPermissions) == 1 && excluded.Contains(domain.PermManageHolidays) &&
			!m.IsAdmin
	})).Return(nil).Once()

	updated, err := suite.service.SetMemberPermissions(ctx, suite.adminID, suite.calendarID, suite.memberID, selected)

	suite.Require().NoError(err)
	suite.False(updated.IsAdmin)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *CalendarServiceTestSuite) TestSetMemberPermissions_FullGrantPromotesToAdmin() {
	ctx := context.Background()
	target := &domain.CalendarMembership{
		UserID:     suite.memberID,
		CalendarID: suite.calendarID,
	}

	suite.mockRepo.On("FindMembership", ctx, suite.adminID, suite.calendarID).
		Return(suite.adminMembership(), nil).Once()
	suite.mockRepo.On("FindMembership", ctx, suite.memberID, suite.calendarID).Return(target, nil).Once()
	suite.mockRepo.On("UpdateMembership", ctx, mock.MatchedBy(func(m domain.CalendarMembership) bool {
		return m.IsAdmin
	})).Return(nil).Once()

	updated, err := suite.service.SetMemberPermissions(ctx, suite.adminID, suite.calendarID, suite.memberID, domain.AllPermissions())

	suite.Require().NoError(err)
	suite.True(updated.IsAdmin)
}

func (suite *CalendarServiceTestSuite) TestSetMemberPermissions_PartialSelectionDemotesAdmin() {
	ctx := context.Background()
	target := &domain.CalendarMembership{
		UserID:     suite.memberID,
		CalendarID: suite.calendarID,
		IsAdmin:    true,
	}

	suite.mockRepo.On("FindMembership", ctx, suite.adminID, suite.calendarID).
		Return(suite.adminMembership(), nil).Once()
	suite.mockRepo.On("FindMembership", ctx, suite.memberID, suite.calendarID).Return(target, nil).Once()
	suite.mockRepo.On("UpdateMembership", ctx, mock.MatchedBy(func(m domain.CalendarMembership) bool {
		return !m.IsAdmin
	})).Return(nil).Once()

	updated, err := suite.service.SetMemberPermissions(ctx, suite.adminID, suite.calendarID, suite.memberID,
		[]domain.PermissionCode{domain.PermManageRoles})

	suite.Require().NoError(err)
	suite.False(updated.IsAdmin)
}

func (suite *CalendarServiceTestSuite) TestSetMemberPermissions_UnknownCodeRejected() {
	ctx := context.Background()
	suite.mockRepo.On("FindMembership", ctx, suite.adminID, suite.calendarID).
		Return(suite.adminMembership(), nil).Once()

	_, err := suite.service.SetMemberPermissions(ctx, suite.adminID, suite.calendarID, suite.memberID,
		[]domain.PermissionCode{"fly_the_helicopter"})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateMembership", mock.Anything, mock.Anything)
}

// --- SetMemberRole ---

func (suite *CalendarServiceTestSuite) TestSetMemberRole_SelfChangeBlockedByPolicy() {
	ctx := context.Background()
	roleID := uuid.NewString()
	calendar := &domain.Calendar{CalendarID: suite.calendarID, SelfRoleChangeAllowed: false}
	membership := &domain.CalendarMembership{UserID: suite.memberID, CalendarID: suite.calendarID}

	suite.mockRepo.On("FindCalendarByID", ctx, suite.calendarID).Return(calendar, nil).Once()
	suite.mockRepo.On("FindMembership", ctx, suite.memberID, suite.calendarID).Return(membership, nil)

	_, err := suite.service.SetMemberRole(ctx, suite.memberID, suite.calendarID, suite.memberID, &roleID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *CalendarServiceTestSuite) TestSetMemberRole_SelfChangeAllowedByPolicy() {
	ctx := context.Background()
	roleID := uuid.NewString()
	calendar := &domain.Calendar{CalendarID: suite.calendarID, SelfRoleChangeAllowed: true}
	membership := &domain.CalendarMembership{UserID: suite.memberID, CalendarID: suite.calendarID}
	role := &domain.CalendarRole{RoleID: roleID, CalendarID: suite.calendarID, Name: "Bartender"}

	suite.mockRepo.On("FindCalendarByID", ctx, suite.calendarID).Return(calendar, nil).Once()
	suite.mockRepo.On("FindMembership", ctx, suite.memberID, suite.calendarID).Return(membership, nil)
	suite.mockRepo.On("FindRoleByID", ctx, roleID).Return(role, nil).Once()
	suite.mockRepo.On("UpdateMembership", ctx, mock.MatchedBy(func(m domain.CalendarMembership) bool {
		return m.RoleID != nil && *m.RoleID == roleID
	})).Return(nil).Once()

	updated, err := suite.service.SetMemberRole(ctx, suite.memberID, suite.calendarID, suite.memberID, &roleID)

	suite.Require().NoError(err)
	suite.Equal(roleID, *updated.RoleID)
}

// --- Roles ---

func (suite *CalendarServiceTestSuite) TestDeleteRole_RefusedWhileReferenced() {
	ctx := context.Background()
	roleID := uuid.NewString()
	role := &domain.CalendarRole{RoleID: roleID, CalendarID: suite.calendarID, Name: "Bartender"}

	suite.mockRepo.On("FindMembership", ctx, suite.adminID, suite.calendarID).
		Return(suite.adminMembership(), nil).Once()
	suite.mockRepo.On("FindRoleByID", ctx, roleID).Return(role, nil).Once()
	suite.mockRepo.On("CountMembershipsByRole", ctx, roleID).Return(3, nil).Once()

	err := suite.service.DeleteRole(ctx, suite.adminID, suite.calendarID, roleID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockRepo.AssertNotCalled(suite.T(), "DeleteRole", mock.Anything, mock.Anything)
}

func (suite *CalendarServiceTestSuite) TestCreateRole_DuplicateNameCaseInsensitive() {
	ctx := context.Background()
	existing := &domain.CalendarRole{RoleID: uuid.NewString(), CalendarID: suite.calendarID, Name: "Bartender"}

	suite.mockRepo.On("FindMembership", ctx, suite.adminID, suite.calendarID).
		Return(suite.adminMembership(), nil).Once()
	suite.mockRepo.On("FindRoleByName", ctx, suite.calendarID, "Bartender").Return(existing, nil).Once()

	_, err := suite.service.CreateRole(ctx, suite.adminID, suite.calendarID, "BARTENDER", nil)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
}

func (suite *CalendarServiceTestSuite) TestCreateRole_CapitalizesMultiByteName() {
	ctx := context.Background()

	suite.mockRepo.On("FindMembership", ctx, suite.adminID, suite.calendarID).
		Return(suite.adminMembership(), nil).Once()
	suite.mockRepo.On("FindRoleByName", ctx, suite.calendarID, "Étagiste").
		Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("SaveRole", ctx, mock.MatchedBy(func(r domain.CalendarRole) bool {
		return r.Name == "Étagiste"
	})).Return(nil).Once()

	role, err := suite.service.CreateRole(ctx, suite.adminID, suite.calendarID, "éTAGISTE", nil)

	suite.Require().NoError(err)
	suite.Equal("Étagiste", role.Name)
	suite.mockRepo.AssertExpectations(suite.T())
}

// --- InviteMember ---

func (suite *CalendarServiceTestSuite) TestInviteMember_AddsUserAndNotifies() {
	ctx := context.Background()
	invitedID := uuid.NewString()
	invited := &domain.User{UserID: invitedID, Username: "casey"}
	calendar := &domain.Calendar{CalendarID: suite.calendarID, Name: "Bar Crew"}
	req := dto.InviteMemberRequest{Username: "casey"}

	suite.mockRepo.On("FindMembership", ctx, suite.adminID, suite.calendarID).
		Return(suite.adminMembership(), nil).Once()
	suite.mockUserRepo.On("FindUserByUsername", ctx, "casey").Return(invited, nil).Once()
	suite.mockRepo.On("FindMembership", ctx, invitedID, suite.calendarID).
		Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("ColorTaken", ctx, suite.calendarID, mock.AnythingOfType("string")).
		Return(false, nil).Once()
	suite.mockRepo.On("SaveMembership", ctx, mock.MatchedBy(func(m domain.CalendarMembership) bool {
		return m.UserID == invitedID && !m.IsAdmin && m.RoleID == nil && m.Color != ""
	})).Return(nil).Once()
	suite.mockRepo.On("FindCalendarByID", ctx, suite.calendarID).Return(calendar, nil).Once()
	suite.mockNotifier.On("Notify", ctx, invitedID, domain.NotifCalendarInvite, mock.AnythingOfType("string"), (*string)(nil), &suite.calendarID).
		Return(nil).Once()

	membership, err := suite.service.InviteMember(ctx, suite.adminID, suite.calendarID, req)

	suite.Require().NoError(err)
	suite.Equal(invitedID, membership.UserID)
	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockNotifier.AssertExpectations(suite.T())
}

func (suite *CalendarServiceTestSuite) TestInviteMember_UnknownUsername() {
	ctx := context.Background()

	suite.mockRepo.On("FindMembership", ctx, suite.adminID, suite.calendarID).
		Return(suite.adminMembership(), nil).Once()
	suite.mockUserRepo.On("FindUserByUsername", ctx, "ghost").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.InviteMember(ctx, suite.adminID, suite.calendarID, dto.InviteMemberRequest{Username: "ghost"})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveMembership", mock.Anything, mock.Anything)
}

func (suite *CalendarServiceTestSuite) TestInviteMember_ExistingMemberIsIdempotent() {
	ctx := context.Background()
	invitedID := uuid.NewString()
	invited := &domain.User{UserID: invitedID, Username: "casey"}
	existing := &domain.CalendarMembership{UserID: invitedID, CalendarID: suite.calendarID, Color: "#4ECDC4"}

	suite.mockRepo.On("FindMembership", ctx, suite.adminID, suite.calendarID).
		Return(suite.adminMembership(), nil).Once()
	suite.mockUserRepo.On("FindUserByUsername", ctx, "casey").Return(invited, nil).Once()
	suite.mockRepo.On("FindMembership", ctx, invitedID, suite.calendarID).Return(existing, nil).Once()

	membership, err := suite.service.InviteMember(ctx, suite.adminID, suite.calendarID, dto.InviteMemberRequest{Username: "casey"})

	suite.Require().NoError(err)
	suite.Equal("#4ECDC4", membership.Color)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveMembership", mock.Anything, mock.Anything)
	suite.mockNotifier.AssertNotCalled(suite.T(), "Notify", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// --- RemoveMember ---

func (suite *CalendarServiceTestSuite) TestRemoveMember_CascadesAndNotifies() {
	ctx := context.Background()
	calendar := &domain.Calendar{CalendarID: suite.calendarID, Name: "Bar Crew"}
	target := &domain.CalendarMembership{UserID: suite.memberID, CalendarID: suite.calendarID}

	suite.mockRepo.On("FindMembership", ctx, suite.adminID, suite.calendarID).
		Return(suite.adminMembership(), nil).Once()
	suite.mockRepo.On("FindMembership", ctx, suite.memberID, suite.calendarID).Return(target, nil).Once()
	suite.mockRepo.On("RemoveMembership", ctx, suite.memberID, suite.calendarID).Return(nil).Once()
	suite.mockRepo.On("FindCalendarByID", ctx, suite.calendarID).Return(calendar, nil).Once()
	suite.mockNotifier.On("Notify", ctx, suite.memberID, domain.NotifMemberRemoved, mock.AnythingOfType("string"), (*string)(nil), &suite.calendarID).
		Return(nil).Once()

	err := suite.service.RemoveMember(ctx, suite.adminID, suite.calendarID, suite.memberID)

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockNotifier.AssertExpectations(suite.T())
}

func (suite *CalendarServiceTestSuite) TestRemoveMember_SelfLeaveSkipsNotification() {
	ctx := context.Background()
	membership := &domain.CalendarMembership{UserID: suite.memberID, CalendarID: suite.calendarID}

	suite.mockRepo.On("FindMembership", ctx, suite.memberID, suite.calendarID).Return(membership, nil).Once()
	suite.mockRepo.On("RemoveMembership", ctx, suite.memberID, suite.calendarID).Return(nil).Once()

	err := suite.service.RemoveMember(ctx, suite.memberID, suite.calendarID, suite.memberID)

	suite.Require().NoError(err)
	suite.mockNotifier.AssertNotCalled(suite.T(), "Notify", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCalendarServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CalendarServiceTestSuite))
}
