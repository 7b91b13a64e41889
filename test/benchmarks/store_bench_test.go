package benchmarks

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/smartgrocer/grocery-be/internal/core/domain"
	"github.com/smartgrocer/grocery-be/internal/core/services"
	"github.com/smartgrocer/grocery-be/test/helpers"
)

func BenchmarkStoreOperations(b *testing.B) {
	store := services.NewInventoryService(helpers.NewFakeRemote(nil), nil, nil, helpers.TestLogger())
	ctx := context.Background()

	// Pre-create items for the read benchmarks.
	for i := 0; i < 100; i++ {
		_, _ = store.Create(ctx, helpers.CreateTestItem(func(item *domain.Item) {
			item.ID = 0
			item.Name = fmt.Sprintf("Bench Item %d", i)
		}))
	}

	b.Run("Get", func(b *testing.B) {
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_, _ = store.Get(ctx, 1+(i%100))
		}
	})

	b.Run("List", func(b *testing.B) {
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_, _ = store.List(ctx)
		}
	})

	b.Run("SearchByName", func(b *testing.B) {
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_, _ = store.SearchByName(ctx, "bench")
		}
	})

	b.Run("LowStock", func(b *testing.B) {
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_, _ = store.LowStock(ctx)
		}
	})
}

func BenchmarkComputeStats(b *testing.B) {
	sizes := []int{20, 100, 1000}

	for _, size := range sizes {
		b.Run(fmt.Sprintf("items_%d", size), func(b *testing.B) {
			items := helpers.CreateTestItems(size)

			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_ = domain.ComputeStats(items)
			}
		})
	}
}

func BenchmarkComputeBill(b *testing.B) {
	lines := make([]domain.CartLine, 25)
	for i := range lines {
		lines[i] = domain.CartLine{
			ID:           i + 1,
			Name:         fmt.Sprintf("Bench Item %d", i+1),
			Price:        decimal.NewFromInt(int64(50 + i*10)),
			CartQuantity: 1 + i%5,
		}
	}
	discount := decimal.NewFromInt(10)
	gst := decimal.NewFromInt(5)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = domain.ComputeBill(lines, discount, gst)
	}
}

func BenchmarkCartCycle(b *testing.B) {
	store := services.NewInventoryService(helpers.NewFakeRemote(nil), nil, nil, helpers.TestLogger())
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cart := services.NewCartService(store, helpers.TestLogger())
		_ = cart.AddLine(ctx, 3, 1)
		_ = cart.AddLine(ctx, 7, 2)
		_, _ = cart.Bill(nil, nil)
		cart.Clear(ctx)
	}
}
