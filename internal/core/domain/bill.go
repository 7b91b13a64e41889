// internal/core/domain/bill.go
package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultGSTPercent is applied when the caller supplies no tax rate.
var DefaultGSTPercent = decimal.NewFromInt(5)

// CartLine is one entry in a pending purchase. Name and price are snapshots
// taken when the line was added; later catalog changes do not flow back.
type CartLine struct {
	ID           int             `json:"id"`
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	CartQuantity int             `json:"cart_quantity"`
}

// Amount returns price x cartQuantity for the line.
func (l *CartLine) Amount() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.CartQuantity)))
}

// BillLine is the itemized form of a cart line on a generated bill.
type BillLine struct {
	ID       int             `json:"id"`
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Rate     decimal.Decimal `json:"rate"`
	Amount   decimal.Decimal `json:"amount"`
}

// Bill is the payable breakdown for a cart: subtotal, discount, tax, total.
type Bill struct {
	Lines           []BillLine      `json:"items"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	DiscountAmount  decimal.Decimal `json:"discount_amount"`
	GSTPercent      decimal.Decimal `json:"gst_percent"`
	TaxAmount       decimal.Decimal `json:"tax_amount"`
	Total           decimal.Decimal `json:"total"`
	GeneratedAt     time.Time       `json:"timestamp"`
}

// ComputeBill derives the payable amount for the given cart lines:
//
//	subtotal = sum(price x quantity)
//	discount = subtotal x discountPercent/100
//	taxable  = subtotal - discount
//	tax      = taxable x gstPercent/100
//	total    = taxable + tax
//
// Negative rates are rejected; rates above 100% flow through the arithmetic.
func ComputeBill(lines []CartLine, discountPercent, gstPercent decimal.Decimal) (*Bill, error) {
	if discountPercent.IsNegative() {
		return nil, fmt.Errorf("%w: discount percent cannot be negative", ErrValidation)
	}
	if gstPercent.IsNegative() {
		return nil, fmt.Errorf("%w: gst percent cannot be negative", ErrValidation)
	}

	hundred := decimal.NewFromInt(100)
	subtotal := decimal.Zero
	billLines := make([]BillLine, 0, len(lines))

	for i := range lines {
		line := &lines[i]
		amount := line.Amount()
		subtotal = subtotal.Add(amount)
		billLines = append(billLines, BillLine{
			ID:       line.ID,
			Name:     line.Name,
			Quantity: line.CartQuantity,
			Rate:     line.Price,
			Amount:   amount,
		})
	}

	discount := subtotal.Mul(discountPercent).Div(hundred)
	taxable := subtotal.Sub(discount)
	tax := taxable.Mul(gstPercent).Div(hundred)

	return &Bill{
		Lines:           billLines,
		Subtotal:        subtotal,
		DiscountPercent: discountPercent,
		DiscountAmount:  discount,
		GSTPercent:      gstPercent,
		TaxAmount:       tax,
		Total:           taxable.Add(tax),
		GeneratedAt:     time.Now(),
	}, nil
}
