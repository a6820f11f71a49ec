package api

import (
	"fmt"      // Path formatting
	"net/http" // HTTP status codes
	"testing"  // Go's testing package

	"github.com/PRASANNA3300/BuyNow/internal/domain"

	"github.com/stretchr/testify/assert"  // For assertions
	"github.com/stretchr/testify/require" // For fatal assertions
)

// TestListProductsFiltersAndSort covers the storefront query surface
func TestListProductsFiltersAndSort(t *testing.T) {
	db := setupTestDB(t)
	router := setupRouter(db)

	owner := registerUser(t, router, "catalog@example.com", "secret123", "Catalog")
	audio := createCategory(t, db, "Audio")
	video := createCategory(t, db, "Video")
	cheap := createProduct(t, db, audio.ID, owner.User.ID, "Budget Earbuds", 15.00, 10)
	mid := createProduct(t, db, audio.ID, owner.User.ID, "Studio Headphones", 80.00, 10)
	createProduct(t, db, video.ID, owner.User.ID, "Webcam", 45.00, 10)
	hidden := createProduct(t, db, audio.ID, owner.User.ID, "Prototype", 200.00, 1)
	require.NoError(t, db.Model(&hidden).Update("is_active", false).Error)

	// Category filter
	w := doRequest(router, "GET", fmt.Sprintf("/products?categoryId=%d&isActive=true", audio.ID), nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var page ProductListResponse
	decodeBody(t, w, &page)
	assert.Equal(t, int64(2), page.TotalCount)

	// Price band
	w = doRequest(router, "GET", "/products?minPrice=40&maxPrice=100&isActive=true", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &page)
	assert.Equal(t, int64(2), page.TotalCount)

	// Case-insensitive search
	w = doRequest(router, "GET", "/products?search=HEADPHONES", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &page)
	require.Equal(t, int64(1), page.TotalCount)
	assert.Equal(t, mid.ID, page.Products[0].ID)

	// Ascending price sort
	w = doRequest(router, "GET", "/products?sortBy=price&sortOrder=asc&isActive=true", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &page)
	require.NotEmpty(t, page.Products)
	assert.Equal(t, cheap.ID, page.Products[0].ID)

	// Unknown sort keys and orders are rejected outright
	w = doRequest(router, "GET", "/products?sortBy=stock", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid sort key")
	w = doRequest(router, "GET", "/products?sortBy=price&sortOrder=sideways", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid sort order")
}

// TestProductCRUD covers create, update and the missing-category guard
func TestProductCRUD(t *testing.T) {
	db := setupTestDB(t)
	router := setupRouter(db)

	admin := createAdmin(t, db, router)
	cat := createCategory(t, db, "Gear")

	// Creating against a missing category fails
	w := doRequest(router, "POST", "/products", CreateProductRequest{
		Name:       "Orphan",
		Price:      9.99,
		CategoryID: 9999,
		Stock:      1,
	}, admin.Tokens.AccessToken)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Category not found")

	w = doRequest(router, "POST", "/products", CreateProductRequest{
		Name:       "Tripod",
		Price:      29.99,
		CategoryID: cat.ID,
		Stock:      4,
	}, admin.Tokens.AccessToken)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created ProductResponse
	decodeBody(t, w, &created)
	assert.Equal(t, admin.User.ID, created.CreatedByID)
	assert.True(t, created.IsActive)

	// Update rewrites the row
	w = doRequest(router, "PUT", fmt.Sprintf("/products/%d", created.ID), CreateProductRequest{
		Name:       "Carbon Tripod",
		Price:      49.99,
		CategoryID: cat.ID,
		Stock:      6,
	}, admin.Tokens.AccessToken)
	require.Equal(t, http.StatusOK, w.Code)
	var updated ProductResponse
	decodeBody(t, w, &updated)
	assert.Equal(t, "Carbon Tripod", updated.Name)
	assert.Equal(t, 49.99, updated.Price)

	// Detail endpoint knows it, unknown ids 404
	w = doRequest(router, "GET", fmt.Sprintf("/products/%d", created.ID), nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	w = doRequest(router, "GET", "/products/9999", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// TestDeleteProductOrderedGuard verifies products referenced by an order can
// never be deleted
func TestDeleteProductOrderedGuard(t *testing.T) {
	db := setupTestDB(t)
	router := setupRouter(db)

	user := registerUser(t, router, "keeper@example.com", "secret123", "Keeper")
	admin := createAdmin(t, db, router)
	cat := createCategory(t, db, "Kept")
	product := createProduct(t, db, cat.ID, admin.User.ID, "Heirloom", 30.00, 5)

	w := doRequest(router, "POST", "/cart/items", AddToCartRequest{ProductID: product.ID, Quantity: 1}, user.Tokens.AccessToken)
	require.Equal(t, http.StatusCreated, w.Code)
	w = doRequest(router, "POST", "/orders", testShipping("pay_k"), user.Tokens.AccessToken)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doRequest(router, "DELETE", fmt.Sprintf("/products/%d", product.ID), nil, admin.Tokens.AccessToken)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Cannot delete product that has been ordered")

	// A never-ordered product deletes cleanly
	loose := createProduct(t, db, cat.ID, admin.User.ID, "Disposable", 1.00, 1)
	w = doRequest(router, "DELETE", fmt.Sprintf("/products/%d", loose.ID), nil, admin.Tokens.AccessToken)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

// TestCategoryLifecycle covers the category surface and its delete guard
func TestCategoryLifecycle(t *testing.T) {
	db := setupTestDB(t)
	router := setupRouter(db)

	admin := createAdmin(t, db, router)

	w := doRequest(router, "POST", "/categories", CategoryRequest{Name: "Cameras"}, admin.Tokens.AccessToken)
	require.Equal(t, http.StatusCreated, w.Code)
	var created CategoryResponse
	decodeBody(t, w, &created)

	inactive := false
	w = doRequest(router, "POST", "/categories", CategoryRequest{Name: "Archive", IsActive: &inactive}, admin.Tokens.AccessToken)
	require.Equal(t, http.StatusCreated, w.Code)

	// The public list hides inactive categories
	w = doRequest(router, "GET", "/categories", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var public []CategoryResponse
	decodeBody(t, w, &public)
	require.Len(t, public, 1)
	assert.Equal(t, "Cameras", public[0].Name)

	// The admin list shows everything
	w = doRequest(router, "GET", "/categories/all", nil, admin.Tokens.AccessToken)
	require.Equal(t, http.StatusOK, w.Code)
	var all []CategoryResponse
	decodeBody(t, w, &all)
	assert.Len(t, all, 2)

	// A category with products refuses deletion
	createProduct(t, db, created.ID, admin.User.ID, "DSLR", 500.00, 2)
	w = doRequest(router, "DELETE", fmt.Sprintf("/categories/%d", created.ID), nil, admin.Tokens.AccessToken)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Cannot delete category that has products")
}

// TestBrandLifecycle covers the brand surface and its free-text delete guard
func TestBrandLifecycle(t *testing.T) {
	db := setupTestDB(t)
	router := setupRouter(db)

	admin := createAdmin(t, db, router)
	cat := createCategory(t, db, "Lenses")

	w := doRequest(router, "POST", "/brands", BrandRequest{Name: "Lumina"}, admin.Tokens.AccessToken)
	require.Equal(t, http.StatusCreated, w.Code)
	var brand BrandResponse
	decodeBody(t, w, &brand)

	// Products reference brands by label, and that reference blocks deletion
	p := createProduct(t, db, cat.ID, admin.User.ID, "Prime 50mm", 199.00, 3)
	require.NoError(t, db.Model(&p).Update("brand", "Lumina").Error)

	w = doRequest(router, "DELETE", fmt.Sprintf("/brands/%d", brand.ID), nil, admin.Tokens.AccessToken)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Cannot delete brand that is used by products")

	// Drop the reference and deletion goes through
	require.NoError(t, db.Model(&domain.Product{}).Where("id = ?", p.ID).Update("brand", nil).Error)
	w = doRequest(router, "DELETE", fmt.Sprintf("/brands/%d", brand.ID), nil, admin.Tokens.AccessToken)
	assert.Equal(t, http.StatusNoContent, w.Code)
}
