package domain

import "time"

// Category Model
type Category struct {
	ID          uint      `gorm:"primaryKey"`            // Primary key
	Name        string    `gorm:"size:255;not null"`     // Category name
	Description *string   `gorm:"size:1000"`             // Optional description
	ImageUrl    *string   `gorm:"size:500"`              // Optional image URL
	IsActive    bool      `gorm:"not null;default:true"` // Hidden from public lists when false
	SortOrder   int       `gorm:"not null;default:0"`    // Display ordering
	CreatedAt   time.Time // Timestamp of creation
	UpdatedAt   time.Time // Timestamp of last update

	Products []Product `gorm:"constraint:OnDelete:RESTRICT"` // Referencing products block deletion
}
