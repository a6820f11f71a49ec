package api

import (
	"fmt"      // Path formatting
	"net/http" // HTTP status codes
	"testing"  // Go's testing package

	"github.com/PRASANNA3300/BuyNow/internal/domain"

	"github.com/stretchr/testify/assert"  // For assertions
	"github.com/stretchr/testify/require" // For fatal assertions
)

// TestAddToCartStockBound walks the stock boundary: with 5 on hand, adding 3
// then 3 more fails, while 3 then 2 merges into a single line of 5.
func TestAddToCartStockBound(t *testing.T) {
	db := setupTestDB(t)
	router := setupRouter(db)

	user := registerUser(t, router, "cart@example.com", "secret123", "Cart")
	cat := createCategory(t, db, "Audio")
	product := createProduct(t, db, cat.ID, user.User.ID, "Headphones", 10.00, 5)

	// First add creates the line
	w := doRequest(router, "POST", "/cart/items", AddToCartRequest{
		ProductID: product.ID,
		Quantity:  3,
	}, user.Tokens.AccessToken)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var line CartItemResponse
	decodeBody(t, w, &line)
	assert.Equal(t, 3, line.Quantity)
	assert.Equal(t, 30.00, line.TotalPrice)

	// 3 more would exceed the 5 on hand
	w = doRequest(router, "POST", "/cart/items", AddToCartRequest{
		ProductID: product.ID,
		Quantity:  3,
	}, user.Tokens.AccessToken)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Insufficient stock")

	// 2 more lands exactly on the boundary and merges into the same line
	w = doRequest(router, "POST", "/cart/items", AddToCartRequest{
		ProductID: product.ID,
		Quantity:  2,
	}, user.Tokens.AccessToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decodeBody(t, w, &line)
	assert.Equal(t, 5, line.Quantity)
	assert.Equal(t, 50.00, line.TotalPrice)

	// Still one line in the cart
	var count int64
	require.NoError(t, db.Model(&domain.CartItem{}).Where("user_id = ?", user.User.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

// TestAddToCartInactiveProduct verifies hidden products cannot be added
func TestAddToCartInactiveProduct(t *testing.T) {
	db := setupTestDB(t)
	router := setupRouter(db)

	user := registerUser(t, router, "hidden@example.com", "secret123", "Hidden")
	cat := createCategory(t, db, "Retired")
	product := createProduct(t, db, cat.ID, user.User.ID, "Discontinued", 5.00, 10)
	require.NoError(t, db.Model(&product).Update("is_active", false).Error)

	w := doRequest(router, "POST", "/cart/items", AddToCartRequest{
		ProductID: product.ID,
		Quantity:  1,
	}, user.Tokens.AccessToken)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Product not found or inactive")

	// A product id that does not exist gets the same answer
	w = doRequest(router, "POST", "/cart/items", AddToCartRequest{
		ProductID: 9999,
		Quantity:  1,
	}, user.Tokens.AccessToken)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// TestGetCartTotals verifies the summary math: discount prices apply and tax
// defaults to 8% when no tax_rate config row exists
func TestGetCartTotals(t *testing.T) {
	db := setupTestDB(t)
	router := setupRouter(db)

	user := registerUser(t, router, "totals@example.com", "secret123", "Totals")
	cat := createCategory(t, db, "Mixed")
	a := createProduct(t, db, cat.ID, user.User.ID, "Widget", 10.00, 10)
	b := createProduct(t, db, cat.ID, user.User.ID, "Gadget", 9.00, 10)
	discount := 7.50
	require.NoError(t, db.Model(&b).Update("discount_price", discount).Error)

	w := doRequest(router, "POST", "/cart/items", AddToCartRequest{ProductID: a.ID, Quantity: 3}, user.Tokens.AccessToken)
	require.Equal(t, http.StatusCreated, w.Code)
	w = doRequest(router, "POST", "/cart/items", AddToCartRequest{ProductID: b.ID, Quantity: 2}, user.Tokens.AccessToken)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doRequest(router, "GET", "/cart", nil, user.Tokens.AccessToken)
	require.Equal(t, http.StatusOK, w.Code)
	var cart CartSummaryResponse
	decodeBody(t, w, &cart)
	assert.Len(t, cart.Items, 2)
	assert.Equal(t, 5, cart.TotalItems)
	// 3 x 10.00 + 2 x 7.50 = 45.00; 8% tax = 3.60
	assert.Equal(t, 45.00, cart.SubTotal)
	assert.Equal(t, 3.60, cart.Tax)
	assert.Equal(t, 48.60, cart.Total)
}

// TestUpdateAndRemoveCartItem covers quantity edits, ownership, and removal
func TestUpdateAndRemoveCartItem(t *testing.T) {
	db := setupTestDB(t)
	router := setupRouter(db)

	owner := registerUser(t, router, "owner@example.com", "secret123", "Owner")
	other := registerUser(t, router, "other@example.com", "secret123", "Other")
	cat := createCategory(t, db, "Stuff")
	product := createProduct(t, db, cat.ID, owner.User.ID, "Thing", 4.00, 8)

	w := doRequest(router, "POST", "/cart/items", AddToCartRequest{ProductID: product.ID, Quantity: 2}, owner.Tokens.AccessToken)
	require.Equal(t, http.StatusCreated, w.Code)
	var line CartItemResponse
	decodeBody(t, w, &line)
	path := fmt.Sprintf("/cart/items/%d", line.ID)

	// Another user cannot touch the line
	w = doRequest(router, "PUT", path, UpdateCartItemRequest{Quantity: 1}, other.Tokens.AccessToken)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Quantity beyond stock is refused
	w = doRequest(router, "PUT", path, UpdateCartItemRequest{Quantity: 9}, owner.Tokens.AccessToken)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Insufficient stock")

	// Valid edit sticks
	w = doRequest(router, "PUT", path, UpdateCartItemRequest{Quantity: 5}, owner.Tokens.AccessToken)
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &line)
	assert.Equal(t, 5, line.Quantity)

	// Removal, then the line is gone
	w = doRequest(router, "DELETE", path, nil, owner.Tokens.AccessToken)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = doRequest(router, "DELETE", path, nil, owner.Tokens.AccessToken)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// TestClearCart verifies the whole cart empties in one call
func TestClearCart(t *testing.T) {
	db := setupTestDB(t)
	router := setupRouter(db)

	user := registerUser(t, router, "clear@example.com", "secret123", "Clear")
	cat := createCategory(t, db, "Bulk")
	a := createProduct(t, db, cat.ID, user.User.ID, "One", 1.00, 10)
	b := createProduct(t, db, cat.ID, user.User.ID, "Two", 2.00, 10)

	doRequest(router, "POST", "/cart/items", AddToCartRequest{ProductID: a.ID, Quantity: 1}, user.Tokens.AccessToken)
	doRequest(router, "POST", "/cart/items", AddToCartRequest{ProductID: b.ID, Quantity: 1}, user.Tokens.AccessToken)

	w := doRequest(router, "DELETE", "/cart", nil, user.Tokens.AccessToken)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doRequest(router, "GET", "/cart", nil, user.Tokens.AccessToken)
	require.Equal(t, http.StatusOK, w.Code)
	var cart CartSummaryResponse
	decodeBody(t, w, &cart)
	assert.Empty(t, cart.Items)
	assert.Equal(t, 0.00, cart.Total)
}
