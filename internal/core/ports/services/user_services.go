package services

import (
	"context"

	"github.com/nathanmaher41/WorkScheduler/internal/core/domain"
	"github.com/nathanmaher41/WorkScheduler/internal/dto"
)

// UserSvcFacade handles user profile settings. Registration, activation and login
// live in the external identity provider.
type UserSvcFacade interface {
	// GetUserByID retrieves a user.
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)

	// UpdateProfile updates the actor's own profile fields.
	UpdateProfile(ctx context.Context, actorID string, req dto.UpdateProfileRequest) (*domain.User, error)

	// ChangePassword verifies the current password and stores a new hash.
	ChangePassword(ctx context.Context, actorID string, req dto.ChangePasswordRequest) error
}
