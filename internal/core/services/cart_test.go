package services_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartgrocer/grocery-be/internal/core/domain"
	"github.com/smartgrocer/grocery-be/internal/core/services"
	"github.com/smartgrocer/grocery-be/test/helpers"
)

// newSeededCart builds a cart over an offline store carrying the seed dataset.
func newSeededCart(t *testing.T) (*services.CartService, *services.InventoryService) {
	t.Helper()
	store := services.NewInventoryService(helpers.NewFakeRemote(nil), nil, nil, helpers.TestLogger())
	return services.NewCartService(store, helpers.TestLogger()), store
}

func TestCartService_AddLine(t *testing.T) {
	tests := []struct {
		name     string
		itemID   int
		quantity int
		wantErr  error
	}{
		{
			name:     "valid_line",
			itemID:   1,
			quantity: 3,
		},
		{
			name:     "zero_item_id",
			itemID:   0,
			quantity: 1,
			wantErr:  domain.ErrValidation,
		},
		{
			name:     "negative_quantity",
			itemID:   1,
			quantity: -2,
			wantErr:  domain.ErrValidation,
		},
		{
			name:     "unknown_item",
			itemID:   999,
			quantity: 1,
			wantErr:  domain.ErrNotFound,
		},
		{
			name:     "insufficient_stock",
			itemID:   10, // Frooti Orange Juice, 2 on hand
			quantity: 3,
			wantErr:  domain.ErrInsufficientStock,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cart, _ := newSeededCart(t)

			err := cart.AddLine(context.Background(), tt.itemID, tt.quantity)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, cart.Lines())
				return
			}
			require.NoError(t, err)
			lines := cart.Lines()
			require.Len(t, lines, 1)
			assert.Equal(t, tt.itemID, lines[0].ID)
			assert.Equal(t, tt.quantity, lines[0].CartQuantity)
			assert.Equal(t, "Alphonso Mangoes (Maharashtra)", lines[0].Name)
			assert.True(t, lines[0].Price.Equal(decimal.NewFromInt(180)))
		})
	}
}

func TestCartService_AddLine_MergesSameItem(t *testing.T) {
	cart, _ := newSeededCart(t)
	ctx := context.Background()

	require.NoError(t, cart.AddLine(ctx, 1, 3))
	require.NoError(t, cart.AddLine(ctx, 1, 4))

	lines := cart.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 7, lines[0].CartQuantity)
}

func TestCartService_AddLine_MergedQuantityBoundByStock(t *testing.T) {
	cart, _ := newSeededCart(t)
	ctx := context.Background()

	// Item 1 has 15 on hand; 10 + 6 would exceed it.
	require.NoError(t, cart.AddLine(ctx, 1, 10))
	err := cart.AddLine(ctx, 1, 6)

	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	lines := cart.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 10, lines[0].CartQuantity)
}

func TestCartService_RemoveLine(t *testing.T) {
	cart, _ := newSeededCart(t)
	ctx := context.Background()

	require.NoError(t, cart.AddLine(ctx, 1, 2))
	require.NoError(t, cart.AddLine(ctx, 3, 1))
	require.NoError(t, cart.AddLine(ctx, 5, 4))

	require.NoError(t, cart.RemoveLine(ctx, 1))

	lines := cart.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, 1, lines[0].ID)
	assert.Equal(t, 5, lines[1].ID)

	assert.ErrorIs(t, cart.RemoveLine(ctx, 2), domain.ErrValidation)
	assert.ErrorIs(t, cart.RemoveLine(ctx, -1), domain.ErrValidation)
}

func TestCartService_Clear(t *testing.T) {
	cart, _ := newSeededCart(t)
	ctx := context.Background()

	require.NoError(t, cart.AddLine(ctx, 1, 2))
	cart.Clear(ctx)

	assert.Empty(t, cart.Lines())
}

func TestCartService_Bill_DefaultRates(t *testing.T) {
	cart, _ := newSeededCart(t)

	// 3 x 180 = 540, no discount, 5% GST by default.
	require.NoError(t, cart.AddLine(context.Background(), 1, 3))

	bill, err := cart.Bill(nil, nil)
	require.NoError(t, err)

	assert.True(t, bill.Subtotal.Equal(decimal.NewFromInt(540)), "subtotal %s", bill.Subtotal)
	assert.True(t, bill.DiscountAmount.IsZero())
	assert.True(t, bill.GSTPercent.Equal(domain.DefaultGSTPercent))
	assert.True(t, bill.TaxAmount.Equal(decimal.NewFromInt(27)), "tax %s", bill.TaxAmount)
	assert.True(t, bill.Total.Equal(decimal.NewFromInt(567)), "total %s", bill.Total)
}

func TestCartService_Bill_ExplicitRates(t *testing.T) {
	cart, _ := newSeededCart(t)

	require.NoError(t, cart.AddLine(context.Background(), 1, 3))

	discount := decimal.NewFromInt(10)
	gst := decimal.Zero
	bill, err := cart.Bill(&discount, &gst)
	require.NoError(t, err)

	// 540 - 54 = 486, no GST.
	assert.True(t, bill.DiscountAmount.Equal(decimal.NewFromInt(54)), "discount %s", bill.DiscountAmount)
	assert.True(t, bill.TaxAmount.IsZero())
	assert.True(t, bill.Total.Equal(decimal.NewFromInt(486)), "total %s", bill.Total)
}

func TestCartService_Bill_NegativeRateRejected(t *testing.T) {
	cart, _ := newSeededCart(t)
	require.NoError(t, cart.AddLine(context.Background(), 1, 1))

	discount := decimal.NewFromInt(-5)
	_, err := cart.Bill(&discount, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCartService_CompletePurchase(t *testing.T) {
	cart, store := newSeededCart(t)
	ctx := context.Background()

	require.NoError(t, cart.AddLine(ctx, 1, 3))

	bill, err := cart.CompletePurchase(ctx, nil, nil)
	require.NoError(t, err)

	assert.True(t, bill.Total.Equal(decimal.NewFromInt(567)), "total %s", bill.Total)
	assert.Empty(t, cart.Lines())

	item, err := store.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 12, item.Quantity)
}

func TestCartService_CompletePurchase_EmptyCart(t *testing.T) {
	cart, _ := newSeededCart(t)

	_, err := cart.CompletePurchase(context.Background(), nil, nil)
	assert.ErrorIs(t, err, domain.ErrCartEmpty)
}

func TestCartService_CompletePurchase_StockDrainedAfterAdd(t *testing.T) {
	cart, store := newSeededCart(t)
	ctx := context.Background()

	// Frooti has 2 on hand. Put both in the cart, then drain the stock
	// behind the cart's back so the commit-time recheck must fail.
	require.NoError(t, cart.AddLine(ctx, 10, 2))
	require.NoError(t, store.CommitPurchase(ctx, []domain.CartLine{{ID: 10, CartQuantity: 1}}))

	_, err := cart.CompletePurchase(ctx, nil, nil)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	// The cart survives a failed purchase so the user can adjust it.
	assert.Len(t, cart.Lines(), 1)

	item, err := store.Get(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, item.Quantity)
}
