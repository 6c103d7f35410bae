package model

import (
	"regexp"
	"time"
)

const (
	RoleVictim = "VICTIM"
	RoleAdmin  = "ADMIN"
)

var (
	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	phonePattern = regexp.MustCompile(`^[0-9]{9,15}$`)
)

// User represents an account in the system: either a victim reporting
// complaints or an administrator managing the platform.
type User struct {
	ID           int       `json:"id"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	PasswordHash string    `json:"-"` // Do not expose password hash in JSON responses
	Role         string    `json:"role"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// FullName joins first and last name for display and search.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// RegisterRequest is the self-service victim registration payload.
type RegisterRequest struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Phone     string `json:"phone" binding:"required"`
	Password  string `json:"password" binding:"required,min=8"`
}

// CreateUserRequest is the admin-privileged account creation payload.
type CreateUserRequest struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Phone     string `json:"phone" binding:"required"`
	Password  string `json:"password" binding:"required,min=8"`
	Role      string `json:"role" binding:"required,oneof=ADMIN VICTIM"`
}

// UpdateProfileRequest carries the only fields a profile update may touch.
// Email, role and password never travel through this path.
type UpdateProfileRequest struct {
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	Phone     *string `json:"phone,omitempty"`
}

// ValidEmail reports whether the address has a plausible mailbox@domain shape.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ValidPhone reports whether the number is 9 to 15 digits.
func ValidPhone(phone string) bool {
	return phonePattern.MatchString(phone)
}

// ValidRole reports whether the role is one of the two known roles.
func ValidRole(role string) bool {
	return role == RoleVictim || role == RoleAdmin
}
