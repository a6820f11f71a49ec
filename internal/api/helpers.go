package api

import (
	"math"    // Cent rounding
	"strconv" // Query param conversion

	"github.com/PRASANNA3300/BuyNow/internal/domain" // AppConfig lookups

	"github.com/gin-gonic/gin" // Gin web framework
	"gorm.io/gorm"             // GORM ORM library
)

// defaultTaxRate applies when the tax_rate config key is absent or malformed
const defaultTaxRate = 0.08

// parsePagination reads page/pageSize query params with the usual bounds
func parsePagination(c *gin.Context) (page, pageSize int) {
	page = 1      // Default page
	pageSize = 20 // Default page size
	if p := c.Query("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v
		}
	}
	if ps := c.Query("pageSize"); ps != "" {
		if v, err := strconv.Atoi(ps); err == nil && v > 0 && v <= 100 {
			pageSize = v
		}
	}
	return page, pageSize
}

// totalPages computes the page count for a result set
func totalPages(total int64, pageSize int) int {
	return (int(total) + pageSize - 1) / pageSize
}

// roundCents rounds a money amount to two decimal places
func roundCents(amount float64) float64 {
	return math.Round(amount*100) / 100
}

// taxRate reads the tax_rate key from the configuration store. Falls back to
// the 8% default when the key is missing or not a number.
func taxRate(db *gorm.DB) float64 {
	var cfg domain.AppConfig
	if err := db.Where("`key` = ?", "tax_rate").First(&cfg).Error; err != nil {
		return defaultTaxRate
	}
	rate, err := strconv.ParseFloat(cfg.Value, 64)
	if err != nil || rate < 0 {
		return defaultTaxRate
	}
	return rate
}
