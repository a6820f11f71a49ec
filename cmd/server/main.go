package main

import (
	"context" // context package is needed for Redis operations
	"log"     // log package is needed for logging
	"time"    // Token lifetimes

	"github.com/PRASANNA3300/BuyNow/internal/api"        // Custom package for API handlers
	"github.com/PRASANNA3300/BuyNow/internal/config"     // Custom package for configuration
	dbsetup "github.com/PRASANNA3300/BuyNow/internal/db" // Custom package for migrations and seeding
	"github.com/PRASANNA3300/BuyNow/internal/middleware" // Custom package for middleware
	"github.com/PRASANNA3300/BuyNow/internal/utils"      // Custom package for JWT helpers

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
	"gorm.io/driver/mysql"         // MySQL driver for GORM
	"gorm.io/gorm"                 // GORM ORM library
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Connect to the database
	db, err := gorm.Open(mysql.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}

	// Apply schema migrations and baseline data on startup
	if err := dbsetup.Migrate(db); err != nil {
		logrus.Fatalf("failed to migrate DB: %v", err)
	}
	if err := dbsetup.Seed(db); err != nil {
		logrus.Fatalf("failed to seed DB: %v", err)
	}

	// Setup Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr, // Redis server address
		Password: cfg.RedisPass, // Redis password
		DB:       cfg.RedisDB,   // Redis database number
	})

	// Test Redis connection
	_, err = redisClient.Ping(context.Background()).Result()
	if err != nil {
		logrus.Fatalf("failed to connect to Redis: %v", err)
	}

	// Access token parameters shared by the auth handlers and middleware
	tokenCfg := utils.TokenConfig{
		Secret:   cfg.JWTSecret,
		Issuer:   cfg.JWTIssuer,
		Audience: cfg.JWTAudience,
		TTL:      time.Duration(cfg.AccessTokenTTL) * time.Minute,
	}
	refreshTTL := time.Duration(cfg.RefreshTokenTTL) * 24 * time.Hour

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup Gin
	r := gin.Default() // Gin router instance

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	// Auth routes
	authGroup := r.Group("/auth")
	authGroup.POST("/register", api.RegisterHandler(db, tokenCfg, refreshTTL)) // Registration endpoint
	authGroup.POST("/login", api.LoginHandler(db, tokenCfg, refreshTTL))       // Login endpoint
	authGroup.POST("/refresh", api.RefreshHandler(db, tokenCfg, refreshTTL))   // Token refresh endpoint

	// Authenticated auth routes
	authed := authGroup.Group("")
	authed.Use(middleware.JWTAuthMiddleware(tokenCfg))
	authed.POST("/logout", api.LogoutHandler(db))                  // Logout endpoint
	authed.GET("/me", api.MeHandler(db))                           // Current user endpoint
	authed.POST("/change-password", api.ChangePasswordHandler(db)) // Password change endpoint

	// Product routes (public reads, admin writes)
	productGroup := r.Group("/products")
	productGroup.GET("", api.ListProductsHandler(db))                // Product list endpoint
	productGroup.GET("/:id", api.GetProductHandler(db, redisClient)) // Product detail endpoint
	productAdmin := productGroup.Group("")
	productAdmin.Use(middleware.JWTAuthMiddleware(tokenCfg), middleware.AdminOnlyMiddleware(db))
	productAdmin.POST("", api.CreateProductHandler(db))                       // Create product endpoint
	productAdmin.PUT("/:id", api.UpdateProductHandler(db, redisClient))       // Update product endpoint
	productAdmin.DELETE("/:id", api.DeleteProductHandler(db, redisClient))    // Delete product endpoint

	// Category routes
	categoryGroup := r.Group("/categories")
	categoryGroup.GET("", api.ListCategoriesHandler(db, redisClient)) // Active categories endpoint
	categoryGroup.GET("/:id", api.GetCategoryHandler(db))             // Category detail endpoint
	categoryAdmin := categoryGroup.Group("")
	categoryAdmin.Use(middleware.JWTAuthMiddleware(tokenCfg), middleware.AdminOnlyMiddleware(db))
	categoryAdmin.GET("/all", api.ListAllCategoriesHandler(db))               // All categories endpoint
	categoryAdmin.POST("", api.CreateCategoryHandler(db, redisClient))        // Create category endpoint
	categoryAdmin.PUT("/:id", api.UpdateCategoryHandler(db, redisClient))     // Update category endpoint
	categoryAdmin.DELETE("/:id", api.DeleteCategoryHandler(db, redisClient))  // Delete category endpoint

	// Brand routes
	brandGroup := r.Group("/brands")
	brandGroup.GET("", api.ListBrandsHandler(db, redisClient)) // Active brands endpoint
	brandGroup.GET("/:id", api.GetBrandHandler(db))            // Brand detail endpoint
	brandAdmin := brandGroup.Group("")
	brandAdmin.Use(middleware.JWTAuthMiddleware(tokenCfg), middleware.AdminOnlyMiddleware(db))
	brandAdmin.GET("/all", api.ListAllBrandsHandler(db))              // All brands endpoint
	brandAdmin.POST("", api.CreateBrandHandler(db, redisClient))      // Create brand endpoint
	brandAdmin.PUT("/:id", api.UpdateBrandHandler(db, redisClient))   // Update brand endpoint
	brandAdmin.DELETE("/:id", api.DeleteBrandHandler(db, redisClient)) // Delete brand endpoint

	// Cart routes (protected by JWT)
	cartGroup := r.Group("/cart")
	cartGroup.Use(middleware.JWTAuthMiddleware(tokenCfg))
	cartGroup.GET("", api.GetCartHandler(db))                   // Get cart endpoint
	cartGroup.POST("/items", api.AddToCartHandler(db))          // Add to cart endpoint
	cartGroup.PUT("/items/:id", api.UpdateCartItemHandler(db))  // Update quantity endpoint
	cartGroup.DELETE("/items/:id", api.RemoveCartItemHandler(db)) // Remove line endpoint
	cartGroup.DELETE("", api.ClearCartHandler(db))              // Clear cart endpoint

	// Order routes (protected by JWT)
	orderGroup := r.Group("/orders")
	orderGroup.Use(middleware.JWTAuthMiddleware(tokenCfg))
	orderGroup.POST("", api.PlaceOrderHandler(db, redisClient)) // Place order endpoint
	orderGroup.GET("", api.ListOrdersHandler(db))               // Order list endpoint
	orderGroup.GET("/:id", api.GetOrderHandler(db))             // Order detail endpoint
	orderAdmin := orderGroup.Group("")
	orderAdmin.Use(middleware.AdminOnlyMiddleware(db))
	orderAdmin.PUT("/:id/status", api.UpdateOrderStatusHandler(db)) // Status update endpoint

	// Config routes (public reads, admin writes)
	configGroup := r.Group("/config")
	configGroup.GET("", api.ListConfigHandler(db, redisClient)) // Full config map endpoint
	configGroup.GET("/:key", api.GetConfigHandler(db))          // Single key endpoint
	configAdmin := configGroup.Group("")
	configAdmin.Use(middleware.JWTAuthMiddleware(tokenCfg), middleware.AdminOnlyMiddleware(db))
	configAdmin.POST("", api.BulkUpsertConfigHandler(db, redisClient))        // Bulk upsert endpoint
	configAdmin.PUT("/:key", api.UpsertConfigHandler(db, redisClient))        // Single upsert endpoint
	configAdmin.DELETE("/:key", api.DeleteConfigHandler(db, redisClient))     // Delete key endpoint

	log.Println("Server running on " + cfg.AppPort) // Log server start
	r.Run(":" + cfg.AppPort)                        // Start the server on port cfg.AppPort
}
