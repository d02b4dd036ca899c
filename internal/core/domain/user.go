package domain

import "time"

// User represents a user of the application in the domain. Identity (registration,
// activation, login) lives outside this service; users arrive here already
// authenticated, carried by the JWT subject.
type User struct {
	UserID       string  `json:"userID"` // Primary Key (UUID)
	Username     string  `json:"username"`
	Name         string  `json:"name"`
	Email        *string `json:"email,omitempty"`
	PhoneNumber  *string `json:"phoneNumber,omitempty"`
	NotifyEmail  bool    `json:"notifyEmail"` // Opt-in for workflow email notifications
	PasswordHash *string `json:"-"`
	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty" db:"deleted_at"` // Used for soft delete
}

// CanReceiveEmail reports whether workflow emails may be sent to this user.
func (u *User) CanReceiveEmail() bool {
	return u.NotifyEmail && u.Email != nil && *u.Email != ""
}
