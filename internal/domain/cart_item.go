package domain

import "time"

// CartItem Model — one row per (user, product) pair
type CartItem struct {
	ID        uint      `gorm:"primaryKey"`                            // Primary key
	UserID    uint      `gorm:"not null;uniqueIndex:idx_cart_user_product"` // Owning user
	ProductID uint      `gorm:"not null;uniqueIndex:idx_cart_user_product"` // Referenced product
	Quantity  int       `gorm:"not null"`                              // Always at least 1
	CreatedAt time.Time // Timestamp of creation
	UpdatedAt time.Time // Timestamp of last update

	Product Product `gorm:"constraint:OnDelete:CASCADE"` // Live product data for joins
}
