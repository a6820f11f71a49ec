package domain

import (
	"strings"
	"time"
)

// Role is the closed set of account roles
type Role string

const (
	RoleAdmin Role = "Admin" // Catalog managers and order admins
	RoleUser  Role = "User"  // Regular shoppers
)

// ParseRole normalizes a stored or claimed role string into the closed enum.
// Comparison is case-insensitive; anything unrecognized is rejected.
func ParseRole(s string) (Role, bool) {
	switch strings.ToLower(s) {
	case "admin":
		return RoleAdmin, true
	case "user":
		return RoleUser, true
	}
	return "", false
}

// User Model
type User struct {
	ID           uint       `gorm:"primaryKey"`               // Primary key
	Email        string     `gorm:"size:255;unique;not null"` // Unique email address
	Name         string     `gorm:"size:255;not null"`        // Display name
	PasswordHash string     `gorm:"not null"`                 // Bcrypt password hash
	Role         string     `gorm:"size:50;default:User"`     // Role: Admin or User
	Phone        *string    `gorm:"size:20"`                  // Optional phone number
	IsActive     bool       `gorm:"not null;default:true"`    // Deactivated accounts cannot log in
	LastLoginAt  *time.Time // Timestamp of last successful login
	CreatedAt    time.Time  // Timestamp of creation
	UpdatedAt    time.Time  // Timestamp of last update

	CartItems []CartItem `gorm:"constraint:OnDelete:CASCADE"`  // Owned cart rows
	Orders    []Order    `gorm:"constraint:OnDelete:RESTRICT"` // Owned orders
}

// IsAdmin reports whether the user carries the admin role
func (u *User) IsAdmin() bool {
	role, ok := ParseRole(u.Role)
	return ok && role == RoleAdmin
}
