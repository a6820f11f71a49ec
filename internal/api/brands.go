package api

import (
	"context"  // Context for Redis operations
	"net/http" // HTTP status codes
	"time"     // Cache TTL and timestamps

	"github.com/PRASANNA3300/BuyNow/internal/domain" // Domain models
	"github.com/PRASANNA3300/BuyNow/internal/utils"  // Cache helpers

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"gorm.io/gorm"                 // GORM ORM library
)

// brandsCacheKey caches the public brand list
const brandsCacheKey = "brands:active"

// BrandResponse is the brand shape returned by the catalog endpoints
type BrandResponse struct {
	ID           uint      `json:"id"`
	Name         string    `json:"name"`
	Description  *string   `json:"description"`
	LogoUrl      *string   `json:"logoUrl"`
	IsActive     bool      `json:"isActive"`
	SortOrder    int       `json:"sortOrder"`
	ProductCount int64     `json:"productCount"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// BrandRequest is the body for brand creation and update
type BrandRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
	LogoUrl     *string `json:"logoUrl"`
	IsActive    *bool   `json:"isActive"`
	SortOrder   int     `json:"sortOrder"`
}

func toBrandResponse(b *domain.Brand, productCount int64) BrandResponse {
	return BrandResponse{
		ID:           b.ID,
		Name:         b.Name,
		Description:  b.Description,
		LogoUrl:      b.LogoUrl,
		IsActive:     b.IsActive,
		SortOrder:    b.SortOrder,
		ProductCount: productCount,
		CreatedAt:    b.CreatedAt,
		UpdatedAt:    b.UpdatedAt,
	}
}

// brandProductCount counts products carrying this brand name. Products
// reference brands through the free-text label, so the count matches on name.
func brandProductCount(db *gorm.DB, name string, activeOnly bool) (int64, error) {
	query := db.Model(&domain.Product{}).Where("brand = ?", name)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	var count int64
	err := query.Count(&count).Error
	return count, err
}

// listBrands loads brands ordered for display with product counts
func listBrands(db *gorm.DB, activeOnly bool) ([]BrandResponse, error) {
	query := db.Model(&domain.Brand{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	var brands []domain.Brand
	if err := query.Order("sort_order").Order("name").Find(&brands).Error; err != nil {
		return nil, err
	}
	resp := make([]BrandResponse, len(brands))
	for i := range brands {
		count, err := brandProductCount(db, brands[i].Name, activeOnly)
		if err != nil {
			return nil, err
		}
		resp[i] = toBrandResponse(&brands[i], count)
	}
	return resp, nil
}

// ListBrandsHandler returns active brands for public consumers
func ListBrandsHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.Background()
		var cached []BrandResponse
		if found, err := utils.GetCache(ctx, rdb, brandsCacheKey, &cached); err == nil && found {
			c.JSON(http.StatusOK, cached)
			return
		}
		resp, err := listBrands(db, true)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch brands"})
			return
		}
		_ = utils.SetCache(ctx, rdb, brandsCacheKey, resp, 60*time.Second)
		c.JSON(http.StatusOK, resp)
	}
}

// ListAllBrandsHandler returns every brand, admin only
func ListAllBrandsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		resp, err := listBrands(db, false)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch brands"})
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

// GetBrandHandler returns one brand with its active product count
func GetBrandHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var brand domain.Brand
		if err := db.First(&brand, c.Param("id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Brand not found"})
			return
		}
		count, err := brandProductCount(db, brand.Name, true)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch brand"})
			return
		}
		c.JSON(http.StatusOK, toBrandResponse(&brand, count))
	}
}

// CreateBrandHandler creates a brand
func CreateBrandHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req BrandRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
			return
		}
		isActive := true
		if req.IsActive != nil {
			isActive = *req.IsActive
		}
		brand := domain.Brand{
			Name:        req.Name,
			Description: req.Description,
			LogoUrl:     req.LogoUrl,
			IsActive:    isActive,
			SortOrder:   req.SortOrder,
		}
		if err := db.Create(&brand).Error; err != nil {
			// Brand names are unique
			c.JSON(http.StatusBadRequest, gin.H{"message": "Brand already exists"})
			return
		}
		_ = utils.DeleteCache(context.Background(), rdb, brandsCacheKey)
		c.JSON(http.StatusCreated, toBrandResponse(&brand, 0))
	}
}

// UpdateBrandHandler overwrites a brand's fields
func UpdateBrandHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req BrandRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
			return
		}
		var brand domain.Brand
		if err := db.First(&brand, c.Param("id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Brand not found"})
			return
		}
		isActive := brand.IsActive
		if req.IsActive != nil {
			isActive = *req.IsActive
		}
		brand.Name = req.Name
		brand.Description = req.Description
		brand.LogoUrl = req.LogoUrl
		brand.IsActive = isActive
		brand.SortOrder = req.SortOrder
		if err := db.Save(&brand).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update brand"})
			return
		}
		count, err := brandProductCount(db, brand.Name, true)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update brand"})
			return
		}
		_ = utils.DeleteCache(context.Background(), rdb, brandsCacheKey)
		c.JSON(http.StatusOK, toBrandResponse(&brand, count))
	}
}

// DeleteBrandHandler removes a brand unless products carry its name
func DeleteBrandHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var brand domain.Brand
		if err := db.First(&brand, c.Param("id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Brand not found"})
			return
		}
		productRefs, err := brandProductCount(db, brand.Name, false)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete brand"})
			return
		}
		if productRefs > 0 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Cannot delete brand that is used by products"})
			return
		}
		if err := db.Delete(&brand).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete brand"})
			return
		}
		_ = utils.DeleteCache(context.Background(), rdb, brandsCacheKey)
		c.Status(http.StatusNoContent)
	}
}
