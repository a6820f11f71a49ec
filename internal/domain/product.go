package domain

import "time"

// Product Model
type Product struct {
	ID            uint      `gorm:"primaryKey"`             // Primary key
	Name          string    `gorm:"size:255;not null"`      // Product name
	Description   *string   `gorm:"size:2000"`              // Optional description
	Price         float64   `gorm:"not null"`               // Unit price, positive
	DiscountPrice *float64  // Effective unit price when set
	CategoryID    uint      `gorm:"not null;index"`         // Required category reference
	Brand         *string   `gorm:"size:100"`               // Free-text brand label
	BrandID       *uint     `gorm:"index"`                  // Optional brand reference
	Sku           *string   `gorm:"size:100"`               // Optional stock keeping unit
	Stock         int       `gorm:"not null;default:0"`     // On-hand quantity, never negative
	ImageUrl      *string   `gorm:"size:500"`               // Optional image URL
	IsActive      bool      `gorm:"not null;default:true"`  // Hidden from shoppers when false
	IsFeatured    bool      `gorm:"not null;default:false"` // Highlighted on the storefront
	CreatedByID   uint      `gorm:"not null"`               // User who created the product
	CreatedAt     time.Time // Timestamp of creation
	UpdatedAt     time.Time // Timestamp of last update

	Category    Category `gorm:"constraint:OnDelete:RESTRICT"` // Owning category
	BrandEntity *Brand   `gorm:"foreignKey:BrandID;constraint:OnDelete:SET NULL"`
	CreatedBy   User     `gorm:"foreignKey:CreatedByID;constraint:OnDelete:RESTRICT"`
}

// EffectivePrice returns the discount price when present, else the list price.
// Whether the discount is actually lower is not enforced anywhere.
func (p *Product) EffectivePrice() float64 {
	if p.DiscountPrice != nil {
		return *p.DiscountPrice
	}
	return p.Price
}
