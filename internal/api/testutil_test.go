package api

import (
	"bytes"             // For building request bodies
	"encoding/json"     // For encoding/decoding JSON
	"net/http"          // HTTP status codes
	"net/http/httptest" // HTTP test helpers
	"strings"           // Test name sanitizing
	"testing"           // Go's testing package
	"time"              // Token lifetimes

	dbsetup "github.com/PRASANNA3300/BuyNow/internal/db"
	"github.com/PRASANNA3300/BuyNow/internal/domain"
	"github.com/PRASANNA3300/BuyNow/internal/middleware"
	"github.com/PRASANNA3300/BuyNow/internal/utils"

	"github.com/gin-gonic/gin"           // Gin web framework
	"github.com/stretchr/testify/require" // For assertions
	"golang.org/x/crypto/bcrypt"         // Password hashing
	"gorm.io/driver/sqlite"              // SQLite driver for tests
	"gorm.io/gorm"                       // GORM ORM library
)

// testTokenCfg mirrors the server's access token parameters
var testTokenCfg = utils.TokenConfig{
	Secret:   "test-secret",
	Issuer:   "buynow-api",
	Audience: "buynow-client",
	TTL:      time.Hour,
}

const testRefreshTTL = 24 * time.Hour

// setupTestDB opens a fresh in-memory SQLite database named after the test
// so parallel tests never share state
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, dbsetup.Migrate(db))
	return db
}

// setupRouter wires the full route table the way the server does, minus Redis
func setupRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	authGroup := r.Group("/auth")
	authGroup.POST("/register", RegisterHandler(db, testTokenCfg, testRefreshTTL))
	authGroup.POST("/login", LoginHandler(db, testTokenCfg, testRefreshTTL))
	authGroup.POST("/refresh", RefreshHandler(db, testTokenCfg, testRefreshTTL))
	authed := authGroup.Group("")
	authed.Use(middleware.JWTAuthMiddleware(testTokenCfg))
	authed.POST("/logout", LogoutHandler(db))
	authed.GET("/me", MeHandler(db))
	authed.POST("/change-password", ChangePasswordHandler(db))

	productGroup := r.Group("/products")
	productGroup.GET("", ListProductsHandler(db))
	productGroup.GET("/:id", GetProductHandler(db, nil))
	productAdmin := productGroup.Group("")
	productAdmin.Use(middleware.JWTAuthMiddleware(testTokenCfg), middleware.AdminOnlyMiddleware(db))
	productAdmin.POST("", CreateProductHandler(db))
	productAdmin.PUT("/:id", UpdateProductHandler(db, nil))
	productAdmin.DELETE("/:id", DeleteProductHandler(db, nil))

	categoryGroup := r.Group("/categories")
	categoryGroup.GET("", ListCategoriesHandler(db, nil))
	categoryGroup.GET("/:id", GetCategoryHandler(db))
	categoryAdmin := categoryGroup.Group("")
	categoryAdmin.Use(middleware.JWTAuthMiddleware(testTokenCfg), middleware.AdminOnlyMiddleware(db))
	categoryAdmin.GET("/all", ListAllCategoriesHandler(db))
	categoryAdmin.POST("", CreateCategoryHandler(db, nil))
	categoryAdmin.PUT("/:id", UpdateCategoryHandler(db, nil))
	categoryAdmin.DELETE("/:id", DeleteCategoryHandler(db, nil))

	brandGroup := r.Group("/brands")
	brandGroup.GET("", ListBrandsHandler(db, nil))
	brandGroup.GET("/:id", GetBrandHandler(db))
	brandAdmin := brandGroup.Group("")
	brandAdmin.Use(middleware.JWTAuthMiddleware(testTokenCfg), middleware.AdminOnlyMiddleware(db))
	brandAdmin.GET("/all", ListAllBrandsHandler(db))
	brandAdmin.POST("", CreateBrandHandler(db, nil))
	brandAdmin.PUT("/:id", UpdateBrandHandler(db, nil))
	brandAdmin.DELETE("/:id", DeleteBrandHandler(db, nil))

	cartGroup := r.Group("/cart")
	cartGroup.Use(middleware.JWTAuthMiddleware(testTokenCfg))
	cartGroup.GET("", GetCartHandler(db))
	cartGroup.POST("/items", AddToCartHandler(db))
	cartGroup.PUT("/items/:id", UpdateCartItemHandler(db))
	cartGroup.DELETE("/items/:id", RemoveCartItemHandler(db))
	cartGroup.DELETE("", ClearCartHandler(db))

	orderGroup := r.Group("/orders")
	orderGroup.Use(middleware.JWTAuthMiddleware(testTokenCfg))
	orderGroup.POST("", PlaceOrderHandler(db, nil))
	orderGroup.GET("", ListOrdersHandler(db))
	orderGroup.GET("/:id", GetOrderHandler(db))
	orderAdmin := orderGroup.Group("")
	orderAdmin.Use(middleware.AdminOnlyMiddleware(db))
	orderAdmin.PUT("/:id/status", UpdateOrderStatusHandler(db))

	configGroup := r.Group("/config")
	configGroup.GET("", ListConfigHandler(db, nil))
	configGroup.GET("/:key", GetConfigHandler(db))
	configAdmin := configGroup.Group("")
	configAdmin.Use(middleware.JWTAuthMiddleware(testTokenCfg), middleware.AdminOnlyMiddleware(db))
	configAdmin.POST("", BulkUpsertConfigHandler(db, nil))
	configAdmin.PUT("/:key", UpsertConfigHandler(db, nil))
	configAdmin.DELETE("/:key", DeleteConfigHandler(db, nil))

	return r
}

// doRequest serves one JSON request and records the response
func doRequest(router *gin.Engine, method, path string, body any, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// decodeBody unmarshals a recorded response body into dest
func decodeBody(t *testing.T, w *httptest.ResponseRecorder, dest any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dest))
}

// registerUser registers a fresh account through the API and returns its
// profile and tokens
func registerUser(t *testing.T, router *gin.Engine, email, password, name string) AuthResponse {
	t.Helper()
	w := doRequest(router, "POST", "/auth/register", RegisterRequest{
		Email:    email,
		Password: password,
		Name:     name,
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var resp AuthResponse
	decodeBody(t, w, &resp)
	return resp
}

// createAdmin inserts an admin row directly and logs it in through the API
func createAdmin(t *testing.T, db *gorm.DB, router *gin.Engine) AuthResponse {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.MinCost)
	require.NoError(t, err)
	admin := domain.User{
		Email:        "admin@buynow.com",
		Name:         "Admin",
		PasswordHash: string(hash),
		Role:         string(domain.RoleAdmin),
		IsActive:     true,
	}
	require.NoError(t, db.Create(&admin).Error)
	w := doRequest(router, "POST", "/auth/login", LoginRequest{
		Email:    admin.Email,
		Password: "admin123",
	}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp AuthResponse
	decodeBody(t, w, &resp)
	return resp
}

// createCategory inserts a category row directly
func createCategory(t *testing.T, db *gorm.DB, name string) domain.Category {
	t.Helper()
	cat := domain.Category{Name: name, IsActive: true}
	require.NoError(t, db.Create(&cat).Error)
	return cat
}

// createProduct inserts a product row directly
func createProduct(t *testing.T, db *gorm.DB, categoryID, createdByID uint, name string, price float64, stock int) domain.Product {
	t.Helper()
	p := domain.Product{
		Name:        name,
		Price:       price,
		CategoryID:  categoryID,
		Stock:       stock,
		IsActive:    true,
		CreatedByID: createdByID,
	}
	require.NoError(t, db.Create(&p).Error)
	return p
}
