package api

import (
	"context"  // Context for Redis operations
	"net/http" // HTTP status codes
	"time"     // Cache TTL and timestamps

	"github.com/PRASANNA3300/BuyNow/internal/domain" // Domain models
	"github.com/PRASANNA3300/BuyNow/internal/utils"  // Cache helpers

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
	"gorm.io/gorm"                 // GORM ORM library
	"gorm.io/gorm/clause"          // Upsert support
)

// configCacheKey caches the full key/value map
const configCacheKey = "config:all"

// ConfigEntryResponse is the single-key shape
type ConfigEntryResponse struct {
	Key         string    `json:"key"`
	Value       string    `json:"value"`
	Description *string   `json:"description"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// UpsertConfigRequest is the body for PUT /config/{key}
type UpsertConfigRequest struct {
	Value       string  `json:"value" binding:"required"`
	Description *string `json:"description"`
}

// ListConfigHandler returns every setting as a flat key/value map
func ListConfigHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.Background()
		var values map[string]string
		if hit, err := utils.GetCache(ctx, rdb, configCacheKey, &values); err == nil && hit {
			c.JSON(http.StatusOK, values)
			return
		}
		var entries []domain.AppConfig
		if err := db.Order("`key` asc").Find(&entries).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch configuration"})
			return
		}
		values = make(map[string]string, len(entries))
		for _, e := range entries {
			values[e.Key] = e.Value
		}
		_ = utils.SetCache(ctx, rdb, configCacheKey, values, 5*time.Minute)
		c.JSON(http.StatusOK, values)
	}
}

// GetConfigHandler returns one setting with its metadata
func GetConfigHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var entry domain.AppConfig
		if err := db.Where("`key` = ?", c.Param("key")).First(&entry).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Configuration key not found"})
			return
		}
		c.JSON(http.StatusOK, ConfigEntryResponse{
			Key:         entry.Key,
			Value:       entry.Value,
			Description: entry.Description,
			UpdatedAt:   entry.UpdatedAt,
		})
	}
}

// BulkUpsertConfigHandler takes a key/value map and upserts every pair
func BulkUpsertConfigHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var values map[string]string // Bind JSON request to map
		if err := c.ShouldBindJSON(&values); err != nil || len(values) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
			return
		}
		err := db.Transaction(func(tx *gorm.DB) error {
			for key, value := range values {
				entry := domain.AppConfig{Key: key, Value: value, UpdatedAt: time.Now()}
				if err := tx.Clauses(clause.OnConflict{
					Columns:   []clause.Column{{Name: "key"}},
					DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
				}).Create(&entry).Error; err != nil {
					return err // Rollback
				}
			}
			return nil // Commit
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update configuration"})
			return
		}
		_ = utils.DeleteCache(context.Background(), rdb, configCacheKey)
		logrus.WithField("keys", len(values)).Info("Configuration updated")
		c.JSON(http.StatusOK, gin.H{"message": "Configuration updated"})
	}
}

// UpsertConfigHandler creates or overwrites one setting
func UpsertConfigHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpsertConfigRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
			return
		}
		key := c.Param("key")
		entry := domain.AppConfig{Key: key, Value: req.Value, Description: req.Description, UpdatedAt: time.Now()}
		if err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "description", "updated_at"}),
		}).Create(&entry).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update configuration"})
			return
		}
		_ = utils.DeleteCache(context.Background(), rdb, configCacheKey)
		var saved domain.AppConfig
		if err := db.Where("`key` = ?", key).First(&saved).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update configuration"})
			return
		}
		c.JSON(http.StatusOK, ConfigEntryResponse{
			Key:         saved.Key,
			Value:       saved.Value,
			Description: saved.Description,
			UpdatedAt:   saved.UpdatedAt,
		})
	}
}

// DeleteConfigHandler removes one setting
func DeleteConfigHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		res := db.Where("`key` = ?", c.Param("key")).Delete(&domain.AppConfig{})
		if res.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete configuration"})
			return
		}
		if res.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"message": "Configuration key not found"})
			return
		}
		_ = utils.DeleteCache(context.Background(), rdb, configCacheKey)
		c.Status(http.StatusNoContent)
	}
}
