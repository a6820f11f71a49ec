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

// categoriesCacheKey caches the public category list
const categoriesCacheKey = "categories:active"

// CategoryResponse is the category shape returned by the catalog endpoints
type CategoryResponse struct {
	ID           uint      `json:"id"`
	Name         string    `json:"name"`
	Description  *string   `json:"description"`
	ImageUrl     *string   `json:"imageUrl"`
	IsActive     bool      `json:"isActive"`
	SortOrder    int       `json:"sortOrder"`
	ProductCount int64     `json:"productCount"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// CategoryRequest is the body for category creation and update
type CategoryRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
	ImageUrl    *string `json:"imageUrl"`
	IsActive    *bool   `json:"isActive"`
	SortOrder   int     `json:"sortOrder"`
}

// toCategoryResponse maps a category plus its computed product count
func toCategoryResponse(cat *domain.Category, productCount int64) CategoryResponse {
	return CategoryResponse{
		ID:           cat.ID,
		Name:         cat.Name,
		Description:  cat.Description,
		ImageUrl:     cat.ImageUrl,
		IsActive:     cat.IsActive,
		SortOrder:    cat.SortOrder,
		ProductCount: productCount,
		CreatedAt:    cat.CreatedAt,
		UpdatedAt:    cat.UpdatedAt,
	}
}

// categoryProductCount counts products in a category. Public reads count only
// active products; admin reads count everything.
func categoryProductCount(db *gorm.DB, categoryID uint, activeOnly bool) (int64, error) {
	query := db.Model(&domain.Product{}).Where("category_id = ?", categoryID)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	var count int64
	err := query.Count(&count).Error
	return count, err
}

// listCategories loads categories ordered for display with product counts
func listCategories(db *gorm.DB, activeOnly bool) ([]CategoryResponse, error) {
	query := db.Model(&domain.Category{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	var categories []domain.Category
	if err := query.Order("sort_order").Order("name").Find(&categories).Error; err != nil {
		return nil, err
	}
	resp := make([]CategoryResponse, len(categories))
	for i := range categories {
		count, err := categoryProductCount(db, categories[i].ID, activeOnly)
		if err != nil {
			return nil, err
		}
		resp[i] = toCategoryResponse(&categories[i], count)
	}
	return resp, nil
}

// ListCategoriesHandler returns active categories for public consumers
func ListCategoriesHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.Background()
		var cached []CategoryResponse
		if found, err := utils.GetCache(ctx, rdb, categoriesCacheKey, &cached); err == nil && found {
			c.JSON(http.StatusOK, cached)
			return
		}
		resp, err := listCategories(db, true)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch categories"})
			return
		}
		_ = utils.SetCache(ctx, rdb, categoriesCacheKey, resp, 60*time.Second)
		c.JSON(http.StatusOK, resp)
	}
}

// ListAllCategoriesHandler returns every category, admin only
func ListAllCategoriesHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		resp, err := listCategories(db, false)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch categories"})
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

// GetCategoryHandler returns one category with its active product count
func GetCategoryHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var category domain.Category
		if err := db.First(&category, c.Param("id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Category not found"})
			return
		}
		count, err := categoryProductCount(db, category.ID, true)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch category"})
			return
		}
		c.JSON(http.StatusOK, toCategoryResponse(&category, count))
	}
}

// CreateCategoryHandler creates a category
func CreateCategoryHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CategoryRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
			return
		}
		isActive := true
		if req.IsActive != nil {
			isActive = *req.IsActive
		}
		category := domain.Category{
			Name:        req.Name,
			Description: req.Description,
			ImageUrl:    req.ImageUrl,
			IsActive:    isActive,
			SortOrder:   req.SortOrder,
		}
		if err := db.Create(&category).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create category"})
			return
		}
		_ = utils.DeleteCache(context.Background(), rdb, categoriesCacheKey)
		c.JSON(http.StatusCreated, toCategoryResponse(&category, 0))
	}
}

// UpdateCategoryHandler overwrites a category's fields
func UpdateCategoryHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CategoryRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
			return
		}
		var category domain.Category
		if err := db.First(&category, c.Param("id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Category not found"})
			return
		}
		isActive := category.IsActive
		if req.IsActive != nil {
			isActive = *req.IsActive
		}
		category.Name = req.Name
		category.Description = req.Description
		category.ImageUrl = req.ImageUrl
		category.IsActive = isActive
		category.SortOrder = req.SortOrder
		if err := db.Save(&category).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update category"})
			return
		}
		count, err := categoryProductCount(db, category.ID, true)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update category"})
			return
		}
		_ = utils.DeleteCache(context.Background(), rdb, categoriesCacheKey)
		c.JSON(http.StatusOK, toCategoryResponse(&category, count))
	}
}

// DeleteCategoryHandler removes a category unless products reference it
func DeleteCategoryHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var category domain.Category
		if err := db.First(&category, c.Param("id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Category not found"})
			return
		}
		var productRefs int64
		if err := db.Model(&domain.Product{}).Where("category_id = ?", category.ID).Count(&productRefs).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete category"})
			return
		}
		if productRefs > 0 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Cannot delete category that has products"})
			return
		}
		if err := db.Delete(&category).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete category"})
			return
		}
		_ = utils.DeleteCache(context.Background(), rdb, categoriesCacheKey)
		c.Status(http.StatusNoContent)
	}
}
