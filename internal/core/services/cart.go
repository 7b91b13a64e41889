// internal/core/services/cart.go
package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/smartgrocer/grocery-be/internal/core/domain"
	"github.com/smartgrocer/grocery-be/internal/core/ports"
)

// CartService accumulates a purchase selection and computes the payable
// amount. It reads prices and stock from the inventory store but mutates it
// only when a purchase is completed.
type CartService struct {
	store  ports.InventoryStore
	logger *slog.Logger

	mu    sync.Mutex
	lines []domain.CartLine
}

// Statically assert that *CartService implements the CartService interface.
var _ ports.CartService = (*CartService)(nil)

// NewCartService creates an empty cart backed by the given store.
func NewCartService(store ports.InventoryStore, logger *slog.Logger) *CartService {
	return &CartService{
		store:  store,
		logger: logger.With(slog.String("service", "cart")),
	}
}

// AddLine validates the request against current stock and either merges it
// into an existing line for the same item or appends a new line carrying a
// snapshot of the item's name and price. Rejections leave the cart untouched.
func (c *CartService) AddLine(ctx context.Context, itemID, quantity int) error {
	if itemID <= 0 {
		return fmt.Errorf("%w: a valid item id is required", domain.ErrValidation)
	}
	if quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive", domain.ErrValidation)
	}

	item, err := c.store.Get(ctx, itemID)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// The merged line must still be coverable by on-hand stock.
	requested := quantity
	for i := range c.lines {
		if c.lines[i].ID == itemID {
			requested += c.lines[i].CartQuantity
			break
		}
	}
	if requested > item.Quantity {
		return fmt.Errorf("%w: %s has %d on hand, %d requested",
			domain.ErrInsufficientStock, item.Name, item.Quantity, requested)
	}

	for i := range c.lines {
		if c.lines[i].ID == itemID {
			c.lines[i].CartQuantity += quantity
			c.logger.InfoContext(ctx, "cart line merged",
				slog.Int("item_id", itemID),
				slog.Int("cart_quantity", c.lines[i].CartQuantity))
			return nil
		}
	}

	c.lines = append(c.lines, domain.CartLine{
		ID:           item.ID,
		Name:         item.Name,
		Price:        item.Price,
		CartQuantity: quantity,
	})
	c.logger.InfoContext(ctx, "cart line added",
		slog.Int("item_id", itemID),
		slog.Int("quantity", quantity))
	return nil
}

// RemoveLine removes exactly one line by position, preserving the order of
// the remaining lines.
func (c *CartService) RemoveLine(ctx context.Context, position int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if position < 0 || position >= len(c.lines) {
		return fmt.Errorf("%w: no cart line at position %d", domain.ErrValidation, position)
	}

	removed := c.lines[position]
	c.lines = append(c.lines[:position], c.lines[position+1:]...)
	c.logger.InfoContext(ctx, "cart line removed",
		slog.Int("position", position),
		slog.Int("item_id", removed.ID))
	return nil
}

// Clear empties the cart unconditionally.
func (c *CartService) Clear(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = nil
	c.logger.InfoContext(ctx, "cart cleared")
}

// Lines returns a copy of the current cart lines.
func (c *CartService) Lines() []domain.CartLine {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

// Bill computes the payable breakdown for the current cart. Nil rates fall
// back to the defaults (0% discount, 5% GST).
func (c *CartService) Bill(discountPercent, gstPercent *decimal.Decimal) (*domain.Bill, error) {
	discount, gst := resolveRates(discountPercent, gstPercent)
	return domain.ComputeBill(c.Lines(), discount, gst)
}

// CompletePurchase commits the cart against the store: stock is re-checked,
// each item decremented by its line quantity, the final bill returned, and
// the cart reset to empty.
func (c *CartService) CompletePurchase(ctx context.Context, discountPercent, gstPercent *decimal.Decimal) (*domain.Bill, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.lines) == 0 {
		return nil, domain.ErrCartEmpty
	}

	discount, gst := resolveRates(discountPercent, gstPercent)
	bill, err := domain.ComputeBill(c.lines, discount, gst)
	if err != nil {
		return nil, err
	}

	if err := c.store.CommitPurchase(ctx, c.lines); err != nil {
		return nil, fmt.Errorf("failed to complete purchase: %w", err)
	}

	c.logger.InfoContext(ctx, "purchase completed",
		slog.Int("lines", len(c.lines)),
		slog.String("total", bill.Total.String()))
	c.lines = nil
	return bill, nil
}

// resolveRates substitutes the default rates for absent ones.
func resolveRates(discountPercent, gstPercent *decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	discount := decimal.Zero
	if discountPercent != nil {
		discount = *discountPercent
	}
	gst := domain.DefaultGSTPercent
	if gstPercent != nil {
		gst = *gstPercent
	}
	return discount, gst
}
