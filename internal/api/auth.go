package api

import (
	"net/http" // HTTP status codes
	"time"     // Timestamps and TTLs

	"github.com/PRASANNA3300/BuyNow/internal/domain"     // Domain models
	"github.com/PRASANNA3300/BuyNow/internal/middleware" // Context identity helpers
	"github.com/PRASANNA3300/BuyNow/internal/utils"      // Token utilities

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"golang.org/x/crypto/bcrypt" // Password hashing
	"gorm.io/gorm"               // GORM ORM library
)

// RegisterRequest is the body for POST /auth/register
type RegisterRequest struct {
	Email    string  `json:"email" binding:"required,email"`  // Unique email address
	Password string  `json:"password" binding:"required,min=6"` // Plaintext password
	Name     string  `json:"name" binding:"required"`         // Display name
	Phone    *string `json:"phone"`                           // Optional phone number
}

// LoginRequest is the body for POST /auth/login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"` // Email address
	Password string `json:"password" binding:"required"`    // Plaintext password
}

// ChangePasswordRequest is the body for POST /auth/change-password
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`   // Existing password
	NewPassword     string `json:"newPassword" binding:"required,min=6"` // Replacement password
}

// RefreshRequest is the body for POST /auth/refresh
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"` // Opaque refresh token
}

// TokenResponse carries an issued token pair
type TokenResponse struct {
	AccessToken  string    `json:"accessToken"`  // Signed JWT
	RefreshToken string    `json:"refreshToken"` // Opaque refresh token
	ExpiresAt    time.Time `json:"expiresAt"`    // Access token expiry
}

// UserResponse is the user shape returned by the auth endpoints
type UserResponse struct {
	ID          uint       `json:"id"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	Role        string     `json:"role"`
	Phone       *string    `json:"phone"`
	IsActive    bool       `json:"isActive"`
	LastLoginAt *time.Time `json:"lastLoginAt"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// AuthResponse is returned by register, login and refresh
type AuthResponse struct {
	User   UserResponse  `json:"user"`
	Tokens TokenResponse `json:"tokens"`
}

// toUserResponse maps a user row to its response shape
func toUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		Name:        u.Name,
		Role:        u.Role,
		Phone:       u.Phone,
		IsActive:    u.IsActive,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

// issueTokens creates an access/refresh pair and persists the refresh token
// hash so it can be validated and revoked later.
func issueTokens(db *gorm.DB, tokenCfg utils.TokenConfig, refreshTTL time.Duration, user *domain.User) (*TokenResponse, error) {
	access, expiresAt, err := utils.GenerateAccessToken(tokenCfg, user.ID, user.Email, user.Name, user.Role)
	if err != nil {
		return nil, err
	}
	refresh, err := utils.GenerateRefreshToken()
	if err != nil {
		return nil, err
	}
	record := domain.RefreshToken{
		UserID:    user.ID,
		TokenHash: utils.HashToken(refresh),
		ExpiresAt: time.Now().Add(refreshTTL),
	}
	if err := db.Create(&record).Error; err != nil {
		return nil, err
	}
	return &TokenResponse{AccessToken: access, RefreshToken: refresh, ExpiresAt: expiresAt}, nil
}

// RegisterHandler creates a new user account and returns a token pair
func RegisterHandler(db *gorm.DB, tokenCfg utils.TokenConfig, refreshTTL time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
			return
		}
		// Reject duplicate emails before creating anything
		var existing int64
		if err := db.Model(&domain.User{}).Where("email = ?", req.Email).Count(&existing).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create user"})
			return
		}
		if existing > 0 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "User with this email already exists"})
			return
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to hash password"})
			return
		}
		// All new registrations are regular users
		now := time.Now()
		user := domain.User{
			Email:        req.Email,
			Name:         req.Name,
			Phone:        req.Phone,
			PasswordHash: string(hash),
			Role:         string(domain.RoleUser),
			IsActive:     true,
			LastLoginAt:  &now,
		}
		if err := db.Create(&user).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "User with this email already exists"})
			return
		}
		tokens, err := issueTokens(db, tokenCfg, refreshTTL, &user)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to generate tokens"})
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id": user.ID,
			"email":   user.Email,
		}).Info("User registered")
		c.JSON(http.StatusCreated, AuthResponse{User: toUserResponse(&user), Tokens: *tokens})
	}
}

// LoginHandler authenticates a user and returns a token pair. Unknown email
// and wrong password produce the same message.
func LoginHandler(db *gorm.DB, tokenCfg utils.TokenConfig, refreshTTL time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
			return
		}
		var user domain.User // Fetch user from database
		if err := db.Where("email = ?", req.Email).First(&user).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid email or password"})
			return
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid email or password"})
			return
		}
		// Correct credentials on a deactivated account still fail
		if !user.IsActive {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Account is deactivated"})
			return
		}
		now := time.Now()
		if err := db.Model(&user).Updates(map[string]any{"last_login_at": now, "updated_at": now}).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Login failed"})
			return
		}
		user.LastLoginAt = &now
		tokens, err := issueTokens(db, tokenCfg, refreshTTL, &user)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to generate tokens"})
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id": user.ID,
			"email":   user.Email,
		}).Info("User logged in")
		c.JSON(http.StatusOK, AuthResponse{User: toUserResponse(&user), Tokens: *tokens})
	}
}

// RefreshHandler validates a persisted refresh token and rotates it
func RefreshHandler(db *gorm.DB, tokenCfg utils.TokenConfig, refreshTTL time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RefreshRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
			return
		}
		hash := utils.HashToken(req.RefreshToken)
		var record domain.RefreshToken // Look up the stored hash
		err := db.Where("token_hash = ? AND revoked = ? AND expires_at > ?", hash, false, time.Now()).
			First(&record).Error
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid refresh token"})
			return
		}
		var user domain.User
		if err := db.First(&user, record.UserID).Error; err != nil || !user.IsActive {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "User not found or inactive"})
			return
		}
		// Rotate: the presented token is single-use
		if err := db.Model(&record).Update("revoked", true).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to generate tokens"})
			return
		}
		tokens, err := issueTokens(db, tokenCfg, refreshTTL, &user)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to generate tokens"})
			return
		}
		c.JSON(http.StatusOK, AuthResponse{User: toUserResponse(&user), Tokens: *tokens})
	}
}

// LogoutHandler revokes all of the caller's refresh tokens
func LogoutHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := middleware.CurrentUserID(c)
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}
		if err := db.Model(&domain.RefreshToken{}).
			Where("user_id = ? AND revoked = ?", userID, false).
			Update("revoked", true).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Logout failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
	}
}

// MeHandler returns the authenticated caller's profile
func MeHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := middleware.CurrentUserID(c)
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}
		var user domain.User
		if err := db.First(&user, userID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		c.JSON(http.StatusOK, toUserResponse(&user))
	}
}

// ChangePasswordHandler verifies the current password and stores a new hash
func ChangePasswordHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := middleware.CurrentUserID(c)
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}
		var req ChangePasswordRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
			return
		}
		var user domain.User
		if err := db.First(&user, userID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Current password is incorrect"})
			return
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to hash password"})
			return
		}
		if err := db.Model(&user).Update("password_hash", string(hash)).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to change password"})
			return
		}
		logrus.WithFields(logrus.Fields{"user_id": user.ID}).Info("Password changed")
		c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully"})
	}
}
