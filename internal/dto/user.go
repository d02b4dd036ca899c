package dto

import (
	"github.com/nathanmaher41/WorkScheduler/internal/core/domain"
)

// --- User DTOs ---

// UpdateProfileRequest defines updatable profile fields.
type UpdateProfileRequest struct {
	Name        *string `json:"name,omitempty" binding:"omitempty,max=100"`
	PhoneNumber *string `json:"phoneNumber,omitempty" binding:"omitempty,e164"`
	NotifyEmail *bool   `json:"notifyEmail,omitempty"`
}

// ChangePasswordRequest defines data for changing the password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=8"`
}

// UserResponse defines data returned for a user.
type UserResponse struct {
	UserID      string  `json:"userID"`
	Username    string  `json:"username"`
	Name        string  `json:"name"`
	Email       *string `json:"email,omitempty"`
	PhoneNumber *string `json:"phoneNumber,omitempty"`
	NotifyEmail bool    `json:"notifyEmail"`
}

// ToUserResponse converts domain.User to DTO.
func ToUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		UserID:      u.UserID,
		Username:    u.Username,
		Name:        u.Name,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
		NotifyEmail: u.NotifyEmail,
	}
}
