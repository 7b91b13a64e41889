// internal/core/domain/stats.go
package domain

import "github.com/shopspring/decimal"

// InventoryStats holds the derived statistics recomputed after every
// inventory mutation.
type InventoryStats struct {
	ItemCount          int             `json:"item_count"`
	TotalQuantity      int             `json:"total_quantity"`
	TotalValue         decimal.Decimal `json:"total_value"`
	DistinctCategories int             `json:"distinct_categories"`
	LowStockCount      int             `json:"low_stock_count"`
	PerishableCount    int             `json:"perishable_count"`
	NonPerishableCount int             `json:"non_perishable_count"`
	ExpiryTracked      int             `json:"expiry_tracked"`
	AveragePrice       decimal.Decimal `json:"average_price"`
}

// ComputeStats derives inventory statistics in a single pass.
// AveragePrice is zero for an empty inventory.
func ComputeStats(items []Item) InventoryStats {
	stats := InventoryStats{
		ItemCount:    len(items),
		TotalValue:   decimal.Zero,
		AveragePrice: decimal.Zero,
	}

	categories := make(map[string]struct{})
	priceSum := decimal.Zero

	for i := range items {
		item := &items[i]
		stats.TotalQuantity += item.Quantity
		stats.TotalValue = stats.TotalValue.Add(item.Value())
		priceSum = priceSum.Add(item.Price)
		categories[item.Category] = struct{}{}

		if item.Quantity <= LowStockThreshold {
			stats.LowStockCount++
		}
		if item.Perishable {
			stats.PerishableCount++
			if item.Expiry != "" {
				stats.ExpiryTracked++
			}
		} else {
			stats.NonPerishableCount++
		}
	}

	stats.DistinctCategories = len(categories)
	if len(items) > 0 {
		stats.AveragePrice = priceSum.Div(decimal.NewFromInt(int64(len(items))))
	}

	return stats
}
