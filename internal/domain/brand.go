package domain

import "time"

// Brand Model
type Brand struct {
	ID          uint      `gorm:"primaryKey"`               // Primary key
	Name        string    `gorm:"size:100;unique;not null"` // Unique brand name
	Description *string   `gorm:"size:500"`                 // Optional description
	LogoUrl     *string   `gorm:"size:500"`                 // Optional logo URL
	IsActive    bool      `gorm:"not null;default:true"`    // Hidden from public lists when false
	SortOrder   int       `gorm:"not null;default:0"`       // Display ordering
	CreatedAt   time.Time // Timestamp of creation
	UpdatedAt   time.Time // Timestamp of last update
}
