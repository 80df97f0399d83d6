package user

import (
	"time"
)

// Entity is the cache entity name of the current user.
const Entity = "user"

type User struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// ProfileInput is the PATCH /users/me body. Password fields are sent only
// together, when the user asks to change it.
type ProfileInput struct {
	Name            string `json:"name,omitempty"`
	CurrentPassword string `json:"currentPassword,omitempty"`
	NewPassword     string `json:"newPassword,omitempty"`
}

// ChangesPassword reports whether the input carries a password change.
func (in ProfileInput) ChangesPassword() bool {
	return in.NewPassword != ""
}
