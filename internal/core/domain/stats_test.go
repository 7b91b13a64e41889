package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/smartgrocer/grocery-be/internal/core/domain"
)

func TestComputeStats(t *testing.T) {
	items := []domain.Item{
		{ID: 1, Name: "Milk", Category: "Dairy", Price: decimal.NewFromInt(50), Quantity: 20, Perishable: true, Expiry: "2025-11-12"},
		{ID: 2, Name: "Yogurt", Category: "Dairy", Price: decimal.NewFromInt(120), Quantity: 3, Perishable: true, Expiry: ""},
		{ID: 3, Name: "Rice", Category: "Grains", Price: decimal.NewFromInt(130), Quantity: 30, Perishable: false},
	}

	stats := domain.ComputeStats(items)

	assert.Equal(t, 3, stats.ItemCount)
	assert.Equal(t, 53, stats.TotalQuantity)
	// 50*20 + 120*3 + 130*30 = 1000 + 360 + 3900
	assert.True(t, decimal.NewFromInt(5260).Equal(stats.TotalValue), "total value: %s", stats.TotalValue)
	assert.Equal(t, 2, stats.DistinctCategories)
	assert.Equal(t, 1, stats.LowStockCount)
	assert.Equal(t, 2, stats.PerishableCount)
	assert.Equal(t, 1, stats.NonPerishableCount)
	assert.Equal(t, 1, stats.ExpiryTracked)
	assert.True(t, decimal.NewFromInt(100).Equal(stats.AveragePrice), "average price: %s", stats.AveragePrice)
}

func TestComputeStats_EmptyInventory(t *testing.T) {
	stats := domain.ComputeStats(nil)

	assert.Zero(t, stats.ItemCount)
	assert.Zero(t, stats.TotalQuantity)
	assert.True(t, stats.TotalValue.IsZero())
	assert.True(t, stats.AveragePrice.IsZero())
}

func TestComputeStats_SeedDataset(t *testing.T) {
	stats := domain.ComputeStats(domain.SeedItems())

	assert.Equal(t, 20, stats.ItemCount)
	assert.Equal(t, 12, stats.DistinctCategories)
	// Yogurt (3), Spinach (4), Juice (2), Tea (5), Fish (5)
	assert.Equal(t, 5, stats.LowStockCount)
	assert.Equal(t, 11, stats.PerishableCount)
	assert.Equal(t, 9, stats.NonPerishableCount)
	assert.Equal(t, 11, stats.ExpiryTracked)
}
