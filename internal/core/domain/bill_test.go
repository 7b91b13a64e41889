package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartgrocer/grocery-be/internal/core/domain"
)

func TestComputeBill(t *testing.T) {
	lines := []domain.CartLine{
		{ID: 1, Name: "Alphonso Mangoes", Price: decimal.NewFromInt(180), CartQuantity: 5},
		{ID: 2, Name: "Amul Whole Milk", Price: decimal.NewFromInt(50), CartQuantity: 2},
	}

	bill, err := domain.ComputeBill(lines, decimal.NewFromInt(10), decimal.NewFromInt(5))
	require.NoError(t, err)

	// subtotal 1000, 10% discount 100, taxable 900, 5% gst 45, total 945
	assert.True(t, decimal.NewFromInt(1000).Equal(bill.Subtotal), "subtotal: %s", bill.Subtotal)
	assert.True(t, decimal.NewFromInt(100).Equal(bill.DiscountAmount), "discount: %s", bill.DiscountAmount)
	assert.True(t, decimal.NewFromInt(45).Equal(bill.TaxAmount), "tax: %s", bill.TaxAmount)
	assert.True(t, decimal.NewFromInt(945).Equal(bill.Total), "total: %s", bill.Total)

	require.Len(t, bill.Lines, 2)
	assert.Equal(t, 1, bill.Lines[0].ID)
	assert.Equal(t, 5, bill.Lines[0].Quantity)
	assert.True(t, decimal.NewFromInt(900).Equal(bill.Lines[0].Amount))
	assert.True(t, decimal.NewFromInt(100).Equal(bill.Lines[1].Amount))
	assert.False(t, bill.GeneratedAt.IsZero())
}

func TestComputeBill_ZeroRates(t *testing.T) {
	lines := []domain.CartLine{
		{ID: 1, Name: "Wheat Flour", Price: decimal.NewFromInt(50), CartQuantity: 4},
	}

	bill, err := domain.ComputeBill(lines, decimal.Zero, decimal.Zero)
	require.NoError(t, err)

	assert.True(t, decimal.NewFromInt(200).Equal(bill.Subtotal))
	assert.True(t, bill.DiscountAmount.IsZero())
	assert.True(t, bill.TaxAmount.IsZero())
	assert.True(t, decimal.NewFromInt(200).Equal(bill.Total))
}

func TestComputeBill_NegativeRatesRejected(t *testing.T) {
	lines := []domain.CartLine{
		{ID: 1, Name: "Assam Tea", Price: decimal.NewFromInt(400), CartQuantity: 1},
	}

	_, err := domain.ComputeBill(lines, decimal.NewFromInt(-5), decimal.NewFromInt(5))
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = domain.ComputeBill(lines, decimal.Zero, decimal.NewFromInt(-1))
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestComputeBill_RatesOverHundredFlowThrough(t *testing.T) {
	lines := []domain.CartLine{
		{ID: 1, Name: "Garam Masala", Price: decimal.NewFromInt(100), CartQuantity: 1},
	}

	bill, err := domain.ComputeBill(lines, decimal.NewFromInt(150), decimal.NewFromInt(5))
	require.NoError(t, err)

	// 150% discount pushes the taxable amount negative; the arithmetic is
	// carried through untouched.
	assert.True(t, decimal.NewFromInt(150).Equal(bill.DiscountAmount))
	assert.True(t, decimal.NewFromFloat(-52.5).Equal(bill.Total), "total: %s", bill.Total)
}

func TestComputeBill_EmptyCart(t *testing.T) {
	bill, err := domain.ComputeBill(nil, decimal.Zero, domain.DefaultGSTPercent)
	require.NoError(t, err)

	assert.Empty(t, bill.Lines)
	assert.True(t, bill.Subtotal.IsZero())
	assert.True(t, bill.Total.IsZero())
}

func TestCartLine_Amount(t *testing.T) {
	line := domain.CartLine{Price: decimal.NewFromInt(280), CartQuantity: 3}
	assert.True(t, decimal.NewFromInt(840).Equal(line.Amount()))
}
