package db

import (
	"github.com/PRASANNA3300/BuyNow/internal/domain" // Domain models

	"github.com/sirupsen/logrus"

	"golang.org/x/crypto/bcrypt" // Password hashing for the seed admin
	"gorm.io/gorm"               // GORM ORM library
)

// Migrate performs automatic migration for the database schema
func Migrate(db *gorm.DB) error {
	// AutoMigrate will create tables, missing foreign keys, constraints, columns and indexes
	return db.AutoMigrate(
		&domain.User{},
		&domain.Category{},
		&domain.Brand{},
		&domain.Product{},
		&domain.CartItem{},
		&domain.Order{},
		&domain.OrderItem{},
		&domain.AppConfig{},
		&domain.RefreshToken{},
	)
}

// Seed populates an empty database with the default admin account, the
// catalog taxonomy, the config keys and a demo product set. Re-running
// against a non-empty database is a no-op.
func Seed(db *gorm.DB) error {
	var count int64
	if err := db.Model(&domain.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil // Already seeded
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := domain.User{
		Email:        "admin@buynow.com",
		Name:         "Admin User",
		PasswordHash: string(hash),
		Role:         string(domain.RoleAdmin),
		IsActive:     true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	categories := []domain.Category{
		{Name: "Electronics", Description: strPtr("Electronic devices and gadgets"), IsActive: true, SortOrder: 1},
		{Name: "Clothing", Description: strPtr("Fashion and apparel"), IsActive: true, SortOrder: 2},
		{Name: "Home & Garden", Description: strPtr("Home improvement and garden supplies"), IsActive: true, SortOrder: 3},
		{Name: "Sports & Outdoors", Description: strPtr("Sports equipment and outdoor gear"), IsActive: true, SortOrder: 4},
		{Name: "Books", Description: strPtr("Books and educational materials"), IsActive: true, SortOrder: 5},
	}
	if err := db.Create(&categories).Error; err != nil {
		return err
	}

	brands := []domain.Brand{
		{Name: "TechSound", Description: strPtr("Premium audio equipment"), IsActive: true, SortOrder: 1},
		{Name: "SmartTech", Description: strPtr("Smart devices and wearables"), IsActive: true, SortOrder: 2},
		{Name: "StreamCam", Description: strPtr("Professional streaming equipment"), IsActive: true, SortOrder: 3},
		{Name: "FashionForward", Description: strPtr("Modern fashion and apparel"), IsActive: true, SortOrder: 4},
		{Name: "HomeComfort", Description: strPtr("Home and garden essentials"), IsActive: true, SortOrder: 5},
		{Name: "SportsPro", Description: strPtr("Professional sports equipment"), IsActive: true, SortOrder: 6},
		{Name: "BookWise", Description: strPtr("Educational and entertainment books"), IsActive: true, SortOrder: 7},
		{Name: "CookMaster", Description: strPtr("Kitchen and cooking essentials"), IsActive: true, SortOrder: 8},
	}
	if err := db.Create(&brands).Error; err != nil {
		return err
	}

	configs := []domain.AppConfig{
		{Key: "currency", Value: "USD", Description: strPtr("Default currency")},
		{Key: "tax_rate", Value: "0.08", Description: strPtr("Tax rate (8%)")},
		{Key: "max_cart_items", Value: "50", Description: strPtr("Maximum items in cart")},
		{Key: "site_name", Value: "BuyNow", Description: strPtr("Site name")},
		{Key: "support_email", Value: "support@buynow.com", Description: strPtr("Support email")},
	}
	if err := db.Create(&configs).Error; err != nil {
		return err
	}

	products := []domain.Product{
		{Name: "Wireless Bluetooth Headphones", Description: strPtr("High-quality wireless headphones with noise cancellation"), Price: 199.99, CategoryID: categories[0].ID, Brand: strPtr("TechSound"), Stock: 50, IsActive: true, IsFeatured: true, CreatedByID: admin.ID},
		{Name: "Smart Watch Pro", Description: strPtr("Feature-rich smartwatch with health monitoring"), Price: 299.99, CategoryID: categories[0].ID, Brand: strPtr("SmartTech"), Stock: 25, IsActive: true, IsFeatured: true, CreatedByID: admin.ID},
		{Name: "4K Webcam", Description: strPtr("Ultra HD webcam for streaming and video calls"), Price: 89.99, CategoryID: categories[0].ID, Brand: strPtr("StreamCam"), Stock: 30, IsActive: true, CreatedByID: admin.ID},
		{Name: "Classic Denim Jacket", Description: strPtr("Timeless denim jacket for casual wear"), Price: 89.99, CategoryID: categories[1].ID, Brand: strPtr("DenimCo"), Stock: 60, IsActive: true, IsFeatured: true, CreatedByID: admin.ID},
		{Name: "Cotton T-Shirt Pack", Description: strPtr("Pack of 3 premium cotton t-shirts"), Price: 49.99, CategoryID: categories[1].ID, Brand: strPtr("ComfortWear"), Stock: 100, IsActive: true, CreatedByID: admin.ID},
		{Name: "Coffee Maker Deluxe", Description: strPtr("Automatic coffee maker with programmable settings"), Price: 149.99, CategoryID: categories[2].ID, Brand: strPtr("BrewMaster"), Stock: 30, IsActive: true, IsFeatured: true, CreatedByID: admin.ID},
		{Name: "LED Desk Lamp", Description: strPtr("Adjustable LED desk lamp with USB charging"), Price: 45.99, CategoryID: categories[2].ID, Brand: strPtr("BrightLight"), Stock: 55, IsActive: true, CreatedByID: admin.ID},
		{Name: "Yoga Mat Premium", Description: strPtr("Non-slip premium yoga mat with carrying strap"), Price: 59.99, CategoryID: categories[3].ID, Brand: strPtr("YogaFlow"), Stock: 45, IsActive: true, CreatedByID: admin.ID},
		{Name: "Running Shoes Pro", Description: strPtr("Professional running shoes with advanced cushioning"), Price: 159.99, CategoryID: categories[3].ID, Brand: strPtr("RunFast"), Stock: 65, IsActive: true, IsFeatured: true, CreatedByID: admin.ID},
		{Name: "Programming Fundamentals", Description: strPtr("Complete guide to programming fundamentals"), Price: 49.99, CategoryID: categories[4].ID, Brand: strPtr("TechBooks"), Stock: 40, IsActive: true, CreatedByID: admin.ID},
		{Name: "Cookbook Collection", Description: strPtr("Collection of international recipes"), Price: 34.99, CategoryID: categories[4].ID, Brand: strPtr("CookMaster"), Stock: 50, IsActive: true, CreatedByID: admin.ID},
	}
	if err := db.Create(&products).Error; err != nil {
		return err
	}

	logrus.Info("Database seeded.")
	return nil
}

func strPtr(s string) *string { return &s }
