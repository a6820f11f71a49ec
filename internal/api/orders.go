package api

import (
	"context"  // Context for Redis operations
	"fmt"      // Error formatting
	"net/http" // HTTP status codes
	"strings"  // Search normalization
	"time"     // Timestamps

	"github.com/PRASANNA3300/BuyNow/internal/domain"     // Domain models
	"github.com/PRASANNA3300/BuyNow/internal/middleware" // Context identity helpers
	"github.com/PRASANNA3300/BuyNow/internal/utils"      // Cache helpers

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/google/uuid"       // Random order number segment
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
	"gorm.io/gorm"                 // GORM ORM library
)

// orderSortColumns is the closed set of allowed sort keys
var orderSortColumns = map[string]string{
	"total":   "orders.total_amount",
	"status":  "orders.status",
	"created": "orders.created_at",
}

// CreateOrderRequest is the body for POST /orders. Payment is captured
// out-of-band; the caller hands over its reference.
type CreateOrderRequest struct {
	ShippingName     string  `json:"shippingName" binding:"required"`
	ShippingAddress  string  `json:"shippingAddress" binding:"required"`
	ShippingAddress2 *string `json:"shippingAddress2"`
	ShippingCity     string  `json:"shippingCity" binding:"required"`
	ShippingState    string  `json:"shippingState" binding:"required"`
	ShippingZip      string  `json:"shippingZip" binding:"required"`
	ShippingCountry  string  `json:"shippingCountry" binding:"required"`
	Notes            *string `json:"notes"`
	PaymentID        string  `json:"paymentId" binding:"required"`
}

// UpdateOrderStatusRequest is the body for PUT /orders/{id}/status
type UpdateOrderStatusRequest struct {
	Status string  `json:"status" binding:"required"` // Free-form overwrite
	Notes  *string `json:"notes"`                     // Optional notes overwrite
}

// OrderItemResponse is the immutable line snapshot shape
type OrderItemResponse struct {
	ID              uint    `json:"id"`
	ProductID       uint    `json:"productId"`
	ProductName     string  `json:"productName"`
	ProductImageUrl *string `json:"productImageUrl"`
	Quantity        int     `json:"quantity"`
	UnitPrice       float64 `json:"unitPrice"`
	TotalPrice      float64 `json:"totalPrice"`
}

// OrderResponse is the order shape returned by all order endpoints
type OrderResponse struct {
	ID               uint                `json:"id"`
	OrderNumber      string              `json:"orderNumber"`
	UserID           uint                `json:"userId"`
	UserName         string              `json:"userName"`
	UserEmail        string              `json:"userEmail"`
	TotalAmount      float64             `json:"totalAmount"`
	Status           string              `json:"status"`
	PaymentID        *string             `json:"paymentId"`
	PaymentStatus    *string             `json:"paymentStatus"`
	ShippingName     string              `json:"shippingName"`
	ShippingAddress  string              `json:"shippingAddress"`
	ShippingAddress2 *string             `json:"shippingAddress2"`
	ShippingCity     string              `json:"shippingCity"`
	ShippingState    string              `json:"shippingState"`
	ShippingZip      string              `json:"shippingZip"`
	ShippingCountry  string              `json:"shippingCountry"`
	Notes            *string             `json:"notes"`
	CreatedAt        time.Time           `json:"createdAt"`
	UpdatedAt        time.Time           `json:"updatedAt"`
	Items            []OrderItemResponse `json:"items"`
}

// OrderListResponse wraps a paginated order page
type OrderListResponse struct {
	Orders     []OrderResponse `json:"orders"`
	TotalCount int64           `json:"totalCount"`
	Page       int             `json:"page"`
	PageSize   int             `json:"pageSize"`
	TotalPages int             `json:"totalPages"`
}

func toOrderResponse(o *domain.Order) OrderResponse {
	items := make([]OrderItemResponse, len(o.Items))
	for i, it := range o.Items {
		items[i] = OrderItemResponse{
			ID:              it.ID,
			ProductID:       it.ProductID,
			ProductName:     it.ProductName,
			ProductImageUrl: it.ProductImageUrl,
			Quantity:        it.Quantity,
			UnitPrice:       it.UnitPrice,
			TotalPrice:      it.TotalPrice,
		}
	}
	return OrderResponse{
		ID:               o.ID,
		OrderNumber:      o.OrderNumber,
		UserID:           o.UserID,
		UserName:         o.User.Name,
		UserEmail:        o.User.Email,
		TotalAmount:      o.TotalAmount,
		Status:           o.Status,
		PaymentID:        o.PaymentID,
		PaymentStatus:    o.PaymentStatus,
		ShippingName:     o.ShippingName,
		ShippingAddress:  o.ShippingAddress,
		ShippingAddress2: o.ShippingAddress2,
		ShippingCity:     o.ShippingCity,
		ShippingState:    o.ShippingState,
		ShippingZip:      o.ShippingZip,
		ShippingCountry:  o.ShippingCountry,
		Notes:            o.Notes,
		CreatedAt:        o.CreatedAt,
		UpdatedAt:        o.UpdatedAt,
		Items:            items,
	}
}

// generateOrderNumber builds ORD-<UTC date>-<8 uppercase hex chars>.
// Uniqueness is probabilistic; the unique index on order_number is the
// final arbiter.
func generateOrderNumber() string {
	u := uuid.New()
	return fmt.Sprintf("ORD-%s-%X", time.Now().UTC().Format("20060102"), u[:4])
}

// insufficientStockError names the product that ran out mid-checkout
type insufficientStockError struct{ productName string }

func (e *insufficientStockError) Error() string {
	return "Insufficient stock for " + e.productName
}

// PlaceOrderHandler converts the caller's cart into an immutable order.
// Everything from the order header to the cart clear commits as one
// transaction; any failure leaves state untouched.
func PlaceOrderHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := middleware.CurrentUserID(c)
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}
		var req CreateOrderRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
			return
		}
		// Load the cart with live product data
		var cartItems []domain.CartItem
		if err := db.Preload("Product").Where("user_id = ?", userID).Find(&cartItems).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to load cart"})
			return
		}
		if len(cartItems) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Cart is empty"})
			return
		}
		// Validate stock before writing anything
		for i := range cartItems {
			if cartItems[i].Product.Stock < cartItems[i].Quantity {
				c.JSON(http.StatusBadRequest, gin.H{"message": "Insufficient stock for " + cartItems[i].Product.Name})
				return
			}
		}
		// Totals use the effective unit price at this instant
		subTotal := 0.0
		for i := range cartItems {
			subTotal += float64(cartItems[i].Quantity) * cartItems[i].Product.EffectivePrice()
		}
		subTotal = roundCents(subTotal)
		tax := roundCents(subTotal * taxRate(db))
		total := roundCents(subTotal + tax)

		paymentStatus := domain.PaymentCompleted // Payment captured out-of-band
		order := domain.Order{
			OrderNumber:      generateOrderNumber(),
			UserID:           userID,
			TotalAmount:      total,
			Status:           domain.OrderStatusPending,
			PaymentID:        &req.PaymentID,
			PaymentStatus:    &paymentStatus,
			ShippingName:     req.ShippingName,
			ShippingAddress:  req.ShippingAddress,
			ShippingAddress2: req.ShippingAddress2,
			ShippingCity:     req.ShippingCity,
			ShippingState:    req.ShippingState,
			ShippingZip:      req.ShippingZip,
			ShippingCountry:  req.ShippingCountry,
			Notes:            req.Notes,
		}

		// One logical unit: header, snapshots, decrements, cart clear
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&order).Error; err != nil {
				return err // Rollback; covers an order-number collision too
			}
			for i := range cartItems {
				ci := &cartItems[i]
				unitPrice := ci.Product.EffectivePrice()
				item := domain.OrderItem{
					OrderID:         order.ID,
					ProductID:       ci.ProductID,
					ProductName:     ci.Product.Name,
					ProductImageUrl: ci.Product.ImageUrl,
					Quantity:        ci.Quantity,
					UnitPrice:       unitPrice,
					TotalPrice:      roundCents(float64(ci.Quantity) * unitPrice),
				}
				if err := tx.Create(&item).Error; err != nil {
					return err // Rollback
				}
				// Conditional decrement: a concurrent checkout that got here
				// first makes this touch zero rows, aborting the order
				// instead of driving stock negative.
				res := tx.Model(&domain.Product{}).
					Where("id = ? AND stock >= ?", ci.ProductID, ci.Quantity).
					Update("stock", gorm.Expr("stock - ?", ci.Quantity))
				if res.Error != nil {
					return res.Error // Rollback
				}
				if res.RowsAffected == 0 {
					return &insufficientStockError{productName: ci.Product.Name}
				}
			}
			// Clear the cart as part of the same unit
			if err := tx.Where("user_id = ?", userID).Delete(&domain.CartItem{}).Error; err != nil {
				return err // Rollback
			}
			return nil // Commit
		})
		if err != nil {
			if stockErr, ok := err.(*insufficientStockError); ok {
				c.JSON(http.StatusBadRequest, gin.H{"message": stockErr.Error()})
				return
			}
			logrus.WithFields(logrus.Fields{
				"user_id": userID,
				"error":   err.Error(),
			}).Error("Order placement failed")
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to place order"})
			return
		}

		// Stock changed; drop the affected product detail caches
		keys := make([]string, len(cartItems))
		for i := range cartItems {
			keys[i] = productCacheKey(fmt.Sprint(cartItems[i].ProductID))
		}
		_ = utils.DeleteCache(context.Background(), rdb, keys...)

		// Reload with nested data for the response
		var created domain.Order
		if err := db.Preload("User").Preload("Items").First(&created, order.ID).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to load order"})
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id":      userID,
			"order_id":     created.ID,
			"order_number": created.OrderNumber,
			"total":        created.TotalAmount,
		}).Info("Order placed")
		c.JSON(http.StatusCreated, toOrderResponse(&created))
	}
}

// ListOrdersHandler returns a filtered, sorted, paginated order page.
// Non-admin callers only ever see their own orders.
func ListOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := middleware.CurrentUserID(c)
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}
		isAdmin := middleware.IsAdmin(c)

		query := db.Model(&domain.Order{}).
			Joins("JOIN users ON users.id = orders.user_id").
			Preload("User").Preload("Items")

		if !isAdmin {
			query = query.Where("orders.user_id = ?", userID)
		} else if filterUser := c.Query("userId"); filterUser != "" {
			query = query.Where("orders.user_id = ?", filterUser)
		}
		if status := c.Query("status"); status != "" {
			query = query.Where("orders.status = ?", status)
		}
		if paymentStatus := c.Query("paymentStatus"); paymentStatus != "" {
			query = query.Where("orders.payment_status = ?", paymentStatus)
		}
		if from := c.Query("fromDate"); from != "" {
			query = query.Where("orders.created_at >= ?", from)
		}
		if to := c.Query("toDate"); to != "" {
			query = query.Where("orders.created_at <= ?", to)
		}
		if search := c.Query("search"); search != "" {
			term := "%" + strings.ToLower(search) + "%"
			query = query.Where(
				"LOWER(orders.order_number) LIKE ? OR LOWER(users.name) LIKE ? OR LOWER(users.email) LIKE ?",
				term, term, term,
			)
		}

		sortBy := c.DefaultQuery("sortBy", "created")
		column, ok := orderSortColumns[strings.ToLower(sortBy)]
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
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to count orders"})
			return
		}
		page, pageSize := parsePagination(c)
		var orders []domain.Order
		if err := query.Order(column + " " + sortOrder).
			Offset((page - 1) * pageSize).
			Limit(pageSize).
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch orders"})
			return
		}
		resp := make([]OrderResponse, len(orders))
		for i := range orders {
			resp[i] = toOrderResponse(&orders[i])
		}
		c.JSON(http.StatusOK, OrderListResponse{
			Orders:     resp,
			TotalCount: total,
			Page:       page,
			PageSize:   pageSize,
			TotalPages: totalPages(total, pageSize),
		})
	}
}

// GetOrderHandler returns one order, enforcing the ownership rule
func GetOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := middleware.CurrentUserID(c)
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}
		var order domain.Order
		err := db.Preload("User").Preload("Items").First(&order, c.Param("id")).Error
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Order not found"})
			return
		}
		// Non-admins never see another user's order
		if !middleware.IsAdmin(c) && order.UserID != userID {
			c.JSON(http.StatusForbidden, gin.H{"message": "Forbidden"})
			return
		}
		c.JSON(http.StatusOK, toOrderResponse(&order))
	}
}

// UpdateOrderStatusHandler overwrites an order's status, admin only.
// Any string can follow any string; there is no transition graph.
func UpdateOrderStatusHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateOrderStatusRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
			return
		}
		var order domain.Order
		if err := db.Preload("User").Preload("Items").First(&order, c.Param("id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Order not found"})
			return
		}
		updates := map[string]any{"status": req.Status, "updated_at": time.Now()}
		if req.Notes != nil && *req.Notes != "" {
			updates["notes"] = *req.Notes
		}
		if err := db.Model(&order).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update order"})
			return
		}
		if err := db.Preload("User").Preload("Items").First(&order, order.ID).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update order"})
			return
		}
		logrus.WithFields(logrus.Fields{
			"order_id":     order.ID,
			"order_number": order.OrderNumber,
			"status":       order.Status,
		}).Info("Order status updated")
		c.JSON(http.StatusOK, toOrderResponse(&order))
	}
}
