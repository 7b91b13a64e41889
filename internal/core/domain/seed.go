// internal/core/domain/seed.go
package domain

import "github.com/shopspring/decimal"

// seedRow keeps the built-in dataset compact.
type seedRow struct {
	id         int
	name       string
	category   string
	price      int64
	quantity   int
	perishable bool
	expiry     string
}

var seedRows = []seedRow{
	{1, "Alphonso Mangoes (Maharashtra)", "Fruits", 180, 15, true, "2025-11-15"},
	{2, "Amul Whole Milk", "Dairy", 55, 25, true, "2025-11-12"},
	{3, "Basmati Rice (Dehra Dun)", "Grains", 180, 30, false, ""},
	{4, "Fresh Chicken Breast", "Meat", 280, 8, true, "2025-11-11"},
	{5, "Canned Beans (Indian)", "Canned Goods", 45, 45, false, ""},
	{6, "Amul Greek Yogurt", "Dairy", 120, 3, true, "2025-11-14"},
	{7, "Wheat Flour (Aata)", "Grains", 50, 50, false, ""},
	{8, "Fresh Spinach (Himalayan)", "Vegetables", 50, 4, true, "2025-11-11"},
	{9, "Sunflower Oil (Refined)", "Oils", 200, 20, false, ""},
	{10, "Frooti Orange Juice", "Beverages", 40, 2, true, "2025-11-13"},
	{11, "Multigrain Bread", "Bakery", 60, 15, true, "2025-11-12"},
	{12, "Assam Tea", "Beverages", 400, 5, false, ""},
	{13, "Strawberries (Kashmir)", "Fruits", 250, 6, true, "2025-11-11"},
	{14, "Peanut Butter (Creamy)", "Condiments", 250, 15, false, ""},
	{15, "Fresh Tomatoes (Nashik)", "Vegetables", 45, 20, true, "2025-11-15"},
	{16, "Paneer (Amul)", "Dairy", 380, 12, true, "2025-11-13"},
	{17, "Arhar Dal", "Pulses", 140, 25, false, ""},
	{18, "Garam Masala", "Spices", 180, 10, false, ""},
	{19, "Hilsa Fish", "Meat", 500, 5, true, "2025-11-11"},
	{20, "Coconut Oil (Virgin/Kerala)", "Oils", 280, 18, false, ""},
}

// SeedItems returns a fresh copy of the built-in sample dataset used when the
// remote service is unreachable. Each call builds new values, so mutating the
// returned slice never corrupts the seed.
func SeedItems() []Item {
	items := make([]Item, 0, len(seedRows))
	for _, row := range seedRows {
		items = append(items, Item{
			ID:         row.id,
			Name:       row.name,
			Category:   row.category,
			Price:      decimal.NewFromInt(row.price),
			Quantity:   row.quantity,
			Perishable: row.perishable,
			Expiry:     row.expiry,
		})
	}
	return items
}
