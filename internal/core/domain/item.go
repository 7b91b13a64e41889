// internal/core/domain/item.go
package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ExpiryDateLayout is the wire format for item expiry dates.
const ExpiryDateLayout = "2006-01-02"

// StockStatus classifies an item's on-hand quantity for display and reports.
type StockStatus string

const (
	StockGood   StockStatus = "Good"
	StockMedium StockStatus = "Medium"
	StockLow    StockStatus = "Low"
)

// LowStockThreshold is the inclusive quantity at or below which an item
// counts as low stock.
const LowStockThreshold = 5

// StockStatusOf returns the classification for a given on-hand quantity.
func StockStatusOf(quantity int) StockStatus {
	switch {
	case quantity > 10:
		return StockGood
	case quantity > LowStockThreshold:
		return StockMedium
	default:
		return StockLow
	}
}

// categoryColors maps known categories to their display color.
var categoryColors = map[string]string{
	"Fruits":       "#fbbf24",
	"Vegetables":   "#10b981",
	"Dairy":        "#8b5cf6",
	"Meat":         "#ef4444",
	"Grains":       "#d97706",
	"Beverages":    "#06b6d4",
	"Canned Goods": "#6366f1",
	"Bakery":       "#ec4899",
	"Condiments":   "#f97316",
	"Oils":         "#84cc16",
	"Pulses":       "#a855f7",
	"Spices":       "#f59e0b",
}

// DefaultCategoryColor is used for categories without a fixed color.
const DefaultCategoryColor = "#999"

// CategoryColor returns the display color for a category.
func CategoryColor(category string) string {
	if color, ok := categoryColors[category]; ok {
		return color
	}
	return DefaultCategoryColor
}

// Item represents a single catalog entry with stock and pricing.
type Item struct {
	ID         int             `json:"id"`
	Name       string          `json:"name"`
	Category   string          `json:"category"`
	Price      decimal.Decimal `json:"price"`
	Quantity   int             `json:"quantity"`
	Perishable bool            `json:"perishable"`
	Expiry     string          `json:"expiry"`
}

// Validate performs domain validation on the item.
func (i *Item) Validate() error {
	if i.Name == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if i.Category == "" {
		return fmt.Errorf("%w: category is required", ErrValidation)
	}
	if i.Price.IsNegative() {
		return fmt.Errorf("%w: price cannot be negative", ErrValidation)
	}
	if i.Quantity < 0 {
		return fmt.Errorf("%w: quantity cannot be negative", ErrValidation)
	}
	if !i.Perishable {
		// Expiry is meaningful only for perishables.
		i.Expiry = ""
	}
	return nil
}

// StockStatus returns the item's current stock classification.
func (i *Item) StockStatus() StockStatus {
	return StockStatusOf(i.Quantity)
}

// Value returns price x quantity.
func (i *Item) Value() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// ExpiresWithin reports whether a perishable item's expiry date falls within
// [today, today+days]. Items with no or unparseable expiry never match.
func (i *Item) ExpiresWithin(now time.Time, days int) bool {
	if !i.Perishable || i.Expiry == "" {
		return false
	}
	expiry, err := time.Parse(ExpiryDateLayout, i.Expiry)
	if err != nil {
		return false
	}
	today := now.Truncate(24 * time.Hour)
	limit := today.AddDate(0, 0, days)
	return !expiry.Before(today) && !expiry.After(limit)
}

// ItemPatch holds the fields of a partial update. Nil fields are left
// untouched when the patch is applied.
type ItemPatch struct {
	Name       *string          `json:"name,omitempty"`
	Category   *string          `json:"category,omitempty"`
	Price      *decimal.Decimal `json:"price,omitempty"`
	Quantity   *int             `json:"quantity,omitempty"`
	Perishable *bool            `json:"perishable,omitempty"`
	Expiry     *string          `json:"expiry,omitempty"`
}

// Validate checks the fields that are present in the patch.
func (p *ItemPatch) Validate() error {
	if p.Name != nil && *p.Name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrValidation)
	}
	if p.Price != nil && p.Price.IsNegative() {
		return fmt.Errorf("%w: price cannot be negative", ErrValidation)
	}
	if p.Quantity != nil && *p.Quantity < 0 {
		return fmt.Errorf("%w: quantity cannot be negative", ErrValidation)
	}
	return nil
}

// Apply merges the patch into the item in place.
func (p *ItemPatch) Apply(item *Item) {
	if p.Name != nil {
		item.Name = *p.Name
	}
	if p.Category != nil {
		item.Category = *p.Category
	}
	if p.Price != nil {
		item.Price = *p.Price
	}
	if p.Quantity != nil {
		item.Quantity = *p.Quantity
	}
	if p.Perishable != nil {
		item.Perishable = *p.Perishable
	}
	if p.Expiry != nil {
		item.Expiry = *p.Expiry
	}
	if !item.Perishable {
		item.Expiry = ""
	}
}
