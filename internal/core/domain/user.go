package domain

import "time"

// RoleUser is the role assigned to every self-registered account. Roles are
// informational; no route is gated on them.
const RoleUser = "user"

// User models a registered identity.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	APIKey       string    `json:"apiKey"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// PublicUser is the only user shape rendered to clients.
type PublicUser struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	APIKey string `json:"apiKey"`
}

// Public returns the client-facing projection of u.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:     u.ID,
		Name:   u.Name,
		Email:  u.Email,
		Role:   u.Role,
		APIKey: u.APIKey,
	}
}

// AuthContext carries the identity resolved for the current request.
type AuthContext struct {
	User *User
}

// UserID returns the id of the authenticated user, or "" for a zero context.
func (a AuthContext) UserID() string {
	if a.User == nil {
		return ""
	}
	return a.User.ID
}
