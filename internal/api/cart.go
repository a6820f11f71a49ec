package api

import (
	"net/http" // HTTP status codes
	"time"     // Timestamps

	"github.com/PRASANNA3300/BuyNow/internal/domain"     // Domain models
	"github.com/PRASANNA3300/BuyNow/internal/middleware" // Context identity helpers

	"github.com/gin-gonic/gin" // Gin web framework
	"gorm.io/gorm"             // GORM ORM library
)

// CartItemResponse joins a cart row to live product data
type CartItemResponse struct {
	ID                   uint      `json:"id"`
	ProductID            uint      `json:"productId"`
	ProductName          string    `json:"productName"`
	ProductImageUrl      *string   `json:"productImageUrl"`
	ProductPrice         float64   `json:"productPrice"`
	ProductDiscountPrice *float64  `json:"productDiscountPrice"`
	Quantity             int       `json:"quantity"`
	TotalPrice           float64   `json:"totalPrice"`
	AvailableStock       int       `json:"availableStock"`
	CreatedAt            time.Time `json:"createdAt"`
	UpdatedAt            time.Time `json:"updatedAt"`
}

// CartSummaryResponse is returned by GET /cart
type CartSummaryResponse struct {
	Items      []CartItemResponse `json:"items"`
	TotalItems int                `json:"totalItems"`
	SubTotal   float64            `json:"subTotal"`
	Tax        float64            `json:"tax"`
	Total      float64            `json:"total"`
}

// AddToCartRequest is the body for POST /cart/items
type AddToCartRequest struct {
	ProductID uint `json:"productId" binding:"required"`    // Product to add
	Quantity  int  `json:"quantity" binding:"required,min=1"` // Requested quantity
}

// UpdateCartItemRequest is the body for PUT /cart/items/{id}
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"` // New quantity
}

// toCartItemResponse maps a cart row with its preloaded product
func toCartItemResponse(ci *domain.CartItem) CartItemResponse {
	return CartItemResponse{
		ID:                   ci.ID,
		ProductID:            ci.ProductID,
		ProductName:          ci.Product.Name,
		ProductImageUrl:      ci.Product.ImageUrl,
		ProductPrice:         ci.Product.Price,
		ProductDiscountPrice: ci.Product.DiscountPrice,
		Quantity:             ci.Quantity,
		TotalPrice:           roundCents(float64(ci.Quantity) * ci.Product.EffectivePrice()),
		AvailableStock:       ci.Product.Stock,
		CreatedAt:            ci.CreatedAt,
		UpdatedAt:            ci.UpdatedAt,
	}
}

// GetCartHandler returns the caller's cart with live product data and totals
func GetCartHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := middleware.CurrentUserID(c)
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}
		var items []domain.CartItem
		if err := db.Preload("Product").Where("user_id = ?", userID).Find(&items).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch cart"})
			return
		}
		resp := make([]CartItemResponse, len(items))
		totalItems := 0
		subTotal := 0.0
		for i := range items {
			resp[i] = toCartItemResponse(&items[i])
			totalItems += items[i].Quantity
			subTotal += resp[i].TotalPrice
		}
		subTotal = roundCents(subTotal)
		tax := roundCents(subTotal * taxRate(db))
		c.JSON(http.StatusOK, CartSummaryResponse{
			Items:      resp,
			TotalItems: totalItems,
			SubTotal:   subTotal,
			Tax:        tax,
			Total:      roundCents(subTotal + tax),
		})
	}
}

// AddToCartHandler upserts a cart row, bounded by live stock
func AddToCartHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := middleware.CurrentUserID(c)
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}
		var req AddToCartRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
			return
		}
		var product domain.Product // The product must exist and be active
		if err := db.First(&product, req.ProductID).Error; err != nil || !product.IsActive {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Product not found or inactive"})
			return
		}
		if product.Stock < req.Quantity {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Insufficient stock"})
			return
		}
		// Repeat adds increment the existing row
		var item domain.CartItem
		err := db.Where("user_id = ? AND product_id = ?", userID, req.ProductID).First(&item).Error
		if err == nil {
			newQuantity := item.Quantity + req.Quantity
			if product.Stock < newQuantity {
				c.JSON(http.StatusBadRequest, gin.H{"message": "Insufficient stock"})
				return
			}
			if err := db.Model(&item).Update("quantity", newQuantity).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update cart"})
				return
			}
			item.Quantity = newQuantity
			item.Product = product
			c.JSON(http.StatusOK, toCartItemResponse(&item))
			return
		}
		item = domain.CartItem{UserID: userID, ProductID: req.ProductID, Quantity: req.Quantity}
		if err := db.Create(&item).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update cart"})
			return
		}
		item.Product = product
		c.JSON(http.StatusCreated, toCartItemResponse(&item))
	}
}

// UpdateCartItemHandler changes a row's quantity, ownership-checked
func UpdateCartItemHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := middleware.CurrentUserID(c)
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}
		var req UpdateCartItemRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
			return
		}
		var item domain.CartItem // The row must belong to the caller
		err := db.Preload("Product").
			Where("id = ? AND user_id = ?", c.Param("id"), userID).
			First(&item).Error
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Cart item not found"})
			return
		}
		if item.Product.Stock < req.Quantity {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Insufficient stock"})
			return
		}
		if err := db.Model(&item).Update("quantity", req.Quantity).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update cart"})
			return
		}
		item.Quantity = req.Quantity
		c.JSON(http.StatusOK, toCartItemResponse(&item))
	}
}

// RemoveCartItemHandler deletes one of the caller's cart rows
func RemoveCartItemHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := middleware.CurrentUserID(c)
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}
		res := db.Where("id = ? AND user_id = ?", c.Param("id"), userID).Delete(&domain.CartItem{})
		if res.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to remove cart item"})
			return
		}
		if res.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"message": "Cart item not found"})
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// ClearCartHandler deletes all of the caller's cart rows
func ClearCartHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := middleware.CurrentUserID(c)
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}
		if err := db.Where("user_id = ?", userID).Delete(&domain.CartItem{}).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to clear cart"})
			return
		}
		c.Status(http.StatusNoContent)
	}
}
