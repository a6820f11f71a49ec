package domain

import "time"

// RefreshToken Model — persisted hash of an issued opaque refresh token.
// Only the SHA-256 of the token ever touches the database.
type RefreshToken struct {
	ID        uint      `gorm:"primaryKey"`             // Primary key
	UserID    uint      `gorm:"not null;index"`         // Owning user
	TokenHash string    `gorm:"size:64;not null;index"` // base64url(sha256(token))
	ExpiresAt time.Time `gorm:"not null"`               // Hard expiry
	Revoked   bool      `gorm:"not null;default:false"` // Set on rotation and logout
	CreatedAt time.Time // Timestamp of creation
}
