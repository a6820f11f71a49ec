package domain

import "time"

// AppConfig Model — flat key/value settings with upsert semantics
type AppConfig struct {
	ID          uint      `gorm:"primaryKey"`               // Primary key
	Key         string    `gorm:"size:100;unique;not null"` // Unique setting key
	Value       string    `gorm:"size:1000;not null"`       // Setting value
	Description *string   `gorm:"size:500"`                 // Optional description
	UpdatedAt   time.Time // Timestamp of last update
}
