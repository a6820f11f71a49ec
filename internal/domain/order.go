package domain

import "time"

// Order statuses as written by the workflow. The status column itself is a
// free string: admins may overwrite it with any value.
const (
	OrderStatusPending = "Pending"
	PaymentCompleted   = "Completed"
)

// Order Model — immutable checkout snapshot header
type Order struct {
	ID            uint      `gorm:"primaryKey"`              // Primary key
	OrderNumber   string    `gorm:"size:50;unique;not null"` // Generated human-readable number
	UserID        uint      `gorm:"not null;index"`          // Owning user
	TotalAmount   float64   `gorm:"not null"`                // Subtotal plus tax at placement time
	Status        string    `gorm:"size:50;not null"`        // Pending, Processing, Shipped, Delivered, Cancelled
	PaymentID     *string   `gorm:"size:255"`                // External payment reference
	PaymentStatus *string   `gorm:"size:50"`                 // Pending, Completed, Failed
	ShippingName  string    `gorm:"size:255;not null"`       // Recipient name
	ShippingAddress  string `gorm:"size:500;not null"`       // Street address
	ShippingAddress2 *string `gorm:"size:500"`               // Optional second address line
	ShippingCity    string  `gorm:"size:100;not null"`       // City
	ShippingState   string  `gorm:"size:100;not null"`       // State or region
	ShippingZip     string  `gorm:"size:20;not null"`        // Postal code
	ShippingCountry string  `gorm:"size:100;not null"`       // Country
	Notes         *string   `gorm:"size:1000"`               // Free-text notes
	CreatedAt     time.Time // Timestamp of creation
	UpdatedAt     time.Time // Timestamp of last update

	User  User        `gorm:"constraint:OnDelete:RESTRICT"` // Placing user
	Items []OrderItem `gorm:"constraint:OnDelete:CASCADE"`  // Owned line snapshots
}

// OrderItem Model — per-line snapshot copied from the product at placement.
// Later product edits never alter these rows.
type OrderItem struct {
	ID              uint    `gorm:"primaryKey"`        // Primary key
	OrderID         uint    `gorm:"not null;index"`    // Owning order
	ProductID       uint    `gorm:"not null"`          // Product at placement time
	ProductName     string  `gorm:"size:255;not null"` // Name snapshot
	ProductImageUrl *string `gorm:"size:500"`          // Image snapshot
	Quantity        int     `gorm:"not null"`          // Ordered quantity
	UnitPrice       float64 `gorm:"not null"`          // Effective unit price snapshot
	TotalPrice      float64 `gorm:"not null"`          // Quantity times unit price

	Product Product `gorm:"constraint:OnDelete:RESTRICT"` // Referenced product blocks its deletion
}
