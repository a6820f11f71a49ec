package api

import (
	"context"  // Context for Redis operations
	"net/http" // HTTP status codes
	"strconv"  // Query param conversion
	"strings"  // Search normalization
	"time"     // Cache TTL and timestamps

	"github.com/PRASANNA3300/BuyNow/internal/domain"     // Domain models
	"github.com/PRASANNA3300/BuyNow/internal/middleware" // Context identity helpers
	"github.com/PRASANNA3300/BuyNow/internal/utils"      // Cache helpers

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"gorm.io/gorm"                 // GORM ORM library
)

// productSortColumns is the closed set of allowed sort keys
var productSortColumns = map[string]string{
	"name":    "name",
	"price":   "price",
	"created": "created_at",
}

// ProductResponse is the product shape returned by the catalog endpoints
type ProductResponse struct {
	ID            uint      `json:"id"`
	Name          string    `json:"name"`
	Description   *string   `json:"description"`
	Price         float64   `json:"price"`
	DiscountPrice *float64  `json:"discountPrice"`
	CategoryID    uint      `json:"categoryId"`
	CategoryName  string    `json:"categoryName"`
	Brand         *string   `json:"brand"`
	BrandID       *uint     `json:"brandId"`
	Sku           *string   `json:"sku"`
	Stock         int       `json:"stock"`
	ImageUrl      *string   `json:"imageUrl"`
	IsActive      bool      `json:"isActive"`
	IsFeatured    bool      `json:"isFeatured"`
	CreatedByID   uint      `json:"createdById"`
	CreatedByName string    `json:"createdByName"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// ProductListResponse wraps a paginated product page
type ProductListResponse struct {
	Products   []ProductResponse `json:"products"`
	TotalCount int64             `json:"totalCount"`
	Page       int               `json:"page"`
	PageSize   int               `json:"pageSize"`
	TotalPages int               `json:"totalPages"`
}

// CreateProductRequest is the body for POST /products
type CreateProductRequest struct {
	Name          string   `json:"name" binding:"required"`
	Description   *string  `json:"description"`
	Price         float64  `json:"price" binding:"required,gt=0"`
	DiscountPrice *float64 `json:"discountPrice"`
	CategoryID    uint     `json:"categoryId" binding:"required"`
	Brand         *string  `json:"brand"`
	BrandID       *uint    `json:"brandId"`
	Sku           *string  `json:"sku"`
	Stock         int      `json:"stock" binding:"min=0"`
	ImageUrl      *string  `json:"imageUrl"`
	IsActive      *bool    `json:"isActive"`
	IsFeatured    bool     `json:"isFeatured"`
}

func toProductResponse(p *domain.Product) ProductResponse {
	return ProductResponse{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price,
		DiscountPrice: p.DiscountPrice,
		CategoryID:    p.CategoryID,
		CategoryName:  p.Category.Name,
		Brand:         p.Brand,
		BrandID:       p.BrandID,
		Sku:           p.Sku,
		Stock:         p.Stock,
		ImageUrl:      p.ImageUrl,
		IsActive:      p.IsActive,
		IsFeatured:    p.IsFeatured,
		CreatedByID:   p.CreatedByID,
		CreatedByName: p.CreatedBy.Name,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// productCacheKey is the Redis key for one product's detail response
func productCacheKey(id string) string { return "product:" + id }

// ListProductsHandler returns a filtered, sorted, paginated product page
func ListProductsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Model(&domain.Product{}).Preload("Category").Preload("CreatedBy")

		// Apply filters
		if categoryID := c.Query("categoryId"); categoryID != "" {
			query = query.Where("category_id = ?", categoryID)
		}
		if brand := c.Query("brand"); brand != "" {
			query = query.Where("brand LIKE ?", "%"+brand+"%")
		}
		if minPrice := c.Query("minPrice"); minPrice != "" {
			if v, err := strconv.ParseFloat(minPrice, 64); err == nil {
				query = query.Where("price >= ?", v)
			}
		}
		if maxPrice := c.Query("maxPrice"); maxPrice != "" {
			if v, err := strconv.ParseFloat(maxPrice, 64); err == nil {
				query = query.Where("price <= ?", v)
			}
		}
		if isActive := c.Query("isActive"); isActive != "" {
			if v, err := strconv.ParseBool(isActive); err == nil {
				query = query.Where("is_active = ?", v)
			}
		}
		if isFeatured := c.Query("isFeatured"); isFeatured != "" {
			if v, err := strconv.ParseBool(isFeatured); err == nil {
				query = query.Where("is_featured = ?", v)
			}
		}
		if search := c.Query("search"); search != "" {
			term := "%" + strings.ToLower(search) + "%"
			query = query.Where(
				"LOWER(name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(brand) LIKE ?",
				term, term, term,
			)
		}

		// Sorting uses a closed set of keys; anything else is rejected
		sortBy := c.DefaultQuery("sortBy", "created")
		column, ok := productSortColumns[strings.ToLower(sortBy)]
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid sort key"})
			return
		}
		sortOrder := strings.ToLower(c.DefaultQuery("sortOrder", "desc"))
		if sortOrder != "asc" && sortOrder != "desc" {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid sort order"})
			return
		}

		var total int64 // Total count before pagination
		if err := query.Count(&total).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to count products"})
			return
		}
		page, pageSize := parsePagination(c)
		var products []domain.Product
		if err := query.Order(column + " " + sortOrder).
			Offset((page - 1) * pageSize).
			Limit(pageSize).
			Find(&products).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch products"})
			return
		}
		resp := make([]ProductResponse, len(products))
		for i := range products {
			resp[i] = toProductResponse(&products[i])
		}
		c.JSON(http.StatusOK, ProductListResponse{
			Products:   resp,
			TotalCount: total,
			Page:       page,
			PageSize:   pageSize,
			TotalPages: totalPages(total, pageSize),
		})
	}
}

// GetProductHandler returns one product, served from cache when possible
func GetProductHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.Background()
		cacheKey := productCacheKey(c.Param("id"))
		var cached ProductResponse
		if found, err := utils.GetCache(ctx, rdb, cacheKey, &cached); err == nil && found {
			c.JSON(http.StatusOK, cached)
			return
		}
		var product domain.Product
		err := db.Preload("Category").Preload("CreatedBy").First(&product, c.Param("id")).Error
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
			return
		}
		resp := toProductResponse(&product)
		_ = utils.SetCache(ctx, rdb, cacheKey, resp, 60*time.Second)
		c.JSON(http.StatusOK, resp)
	}
}

// CreateProductHandler creates a product; the caller becomes its creator
func CreateProductHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := middleware.CurrentUserID(c)
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}
		var req CreateProductRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
			return
		}
		// The referenced category must exist
		var categoryCount int64
		if err := db.Model(&domain.Category{}).Where("id = ?", req.CategoryID).Count(&categoryCount).Error; err != nil || categoryCount == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Category not found"})
			return
		}
		isActive := true
		if req.IsActive != nil {
			isActive = *req.IsActive
		}
		product := domain.Product{
			Name:          req.Name,
			Description:   req.Description,
			Price:         req.Price,
			DiscountPrice: req.DiscountPrice,
			CategoryID:    req.CategoryID,
			Brand:         req.Brand,
			BrandID:       req.BrandID,
			Sku:           req.Sku,
			Stock:         req.Stock,
			ImageUrl:      req.ImageUrl,
			IsActive:      isActive,
			IsFeatured:    req.IsFeatured,
			CreatedByID:   userID,
		}
		if err := db.Create(&product).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create product"})
			return
		}
		// Reload with related names for the response
		if err := db.Preload("Category").Preload("CreatedBy").First(&product, product.ID).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create product"})
			return
		}
		c.JSON(http.StatusCreated, toProductResponse(&product))
	}
}

// UpdateProductHandler overwrites a product's fields
func UpdateProductHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateProductRequest // Same field set as creation
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
			return
		}
		var product domain.Product
		if err := db.First(&product, c.Param("id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
			return
		}
		var categoryCount int64
		if err := db.Model(&domain.Category{}).Where("id = ?", req.CategoryID).Count(&categoryCount).Error; err != nil || categoryCount == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Category not found"})
			return
		}
		isActive := true
		if req.IsActive != nil {
			isActive = *req.IsActive
		}
		product.Name = req.Name
		product.Description = req.Description
		product.Price = req.Price
		product.DiscountPrice = req.DiscountPrice
		product.CategoryID = req.CategoryID
		product.Brand = req.Brand
		product.BrandID = req.BrandID
		product.Sku = req.Sku
		product.Stock = req.Stock
		product.ImageUrl = req.ImageUrl
		product.IsActive = isActive
		product.IsFeatured = req.IsFeatured
		if err := db.Save(&product).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update product"})
			return
		}
		if err := db.Preload("Category").Preload("CreatedBy").First(&product, product.ID).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update product"})
			return
		}
		// Invalidate the cached detail
		_ = utils.DeleteCache(context.Background(), rdb, productCacheKey(c.Param("id")))
		c.JSON(http.StatusOK, toProductResponse(&product))
	}
}

// DeleteProductHandler removes a product unless any order references it
func DeleteProductHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var product domain.Product
		if err := db.First(&product, c.Param("id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
			return
		}
		// Historical orders pin the product forever
		var orderRefs int64
		if err := db.Model(&domain.OrderItem{}).Where("product_id = ?", product.ID).Count(&orderRefs).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete product"})
			return
		}
		if orderRefs > 0 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Cannot delete product that has been ordered"})
			return
		}
		if err := db.Delete(&product).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete product"})
			return
		}
		_ = utils.DeleteCache(context.Background(), rdb, productCacheKey(c.Param("id")))
		c.Status(http.StatusNoContent)
	}
}
