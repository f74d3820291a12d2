package models

import (
	"time"

	"github.com/upb/association-hub/backend/internal/policy"
)

// User is an association member account
type User struct {
	ID           int64       `json:"id" db:"id"`
	Name         string      `json:"name" db:"name"`
	Email        string      `json:"email" db:"email"`
	PasswordHash string      `json:"-" db:"password"`
	Role         policy.Role `json:"role" db:"role"`
	CreatedAt    time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at" db:"updated_at"`
}

// TableName returns the table name for the User model
func (User) TableName() string {
	return "users"
}

// NewUser creates a member account. Registration never grants admin.
func NewUser(name, email, passwordHash string) *User {
	now := time.Now()
	return &User{
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         policy.RoleMember,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// IsAdmin returns true if the user has admin role
func (u *User) IsAdmin() bool {
	return u.Role == policy.RoleAdmin
}

// Principal returns the authorization identity of the account
func (u *User) Principal() *policy.Principal {
	return &policy.Principal{ID: u.ID, Email: u.Email, Role: u.Role}
}

// UserPatch carries the optional fields of a profile update.
// Password is plaintext here and hashed by the service.
type UserPatch struct {
	Name     *string
	Email    *string
	Password *string
	Role     *policy.Role
}

// UserPatchRecord is the persisted form of a UserPatch
type UserPatchRecord struct {
	Name         *string
	Email        *string
	PasswordHash *string
	Role         *policy.Role
}
