// internal/core/ports/inventory_store.go
package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/smartgrocer/grocery-be/internal/core/domain"
)

// Mode is the process-wide connectivity state of the inventory store.
type Mode string

const (
	// ModeOnline mirrors the remote service.
	ModeOnline Mode = "online"
	// ModeOffline acts on the local in-memory copy.
	ModeOffline Mode = "offline"
)

// InventoryStore defines the application port for the inventory store and
// sync layer. It is the single source of truth for items, mirroring the
// remote service when reachable and the local copy otherwise.
type InventoryStore interface {
	// Probe re-runs the reachability check. It is the only way the store
	// upgrades back to online mode.
	Probe(ctx context.Context) Mode
	Mode() Mode

	List(ctx context.Context) ([]domain.Item, error)
	Get(ctx context.Context, id int) (*domain.Item, error)
	Create(ctx context.Context, item *domain.Item) (*domain.Item, error)
	Update(ctx context.Context, id int, patch *domain.ItemPatch) (*domain.Item, error)
	Delete(ctx context.Context, id int) error

	SearchByName(ctx context.Context, query string) ([]domain.Item, error)
	SearchByCategory(ctx context.Context, category string) ([]domain.Item, error)

	Stats() domain.InventoryStats
	LowStock(ctx context.Context) ([]domain.Item, error)
	ExpiringWithin(ctx context.Context, days int) ([]domain.Item, error)

	// CommitPurchase decrements on-hand quantities for the given cart lines
	// after a final stock recheck. It is the only mutation the billing
	// engine performs on the store.
	CommitPurchase(ctx context.Context, lines []domain.CartLine) error
}

// CartService defines the application port for the cart and billing engine.
type CartService interface {
	AddLine(ctx context.Context, itemID, quantity int) error
	RemoveLine(ctx context.Context, position int) error
	Clear(ctx context.Context)
	Lines() []domain.CartLine

	// Bill computes the payable breakdown for the current cart. Nil rates
	// fall back to the defaults (0% discount, 5% GST).
	Bill(discountPercent, gstPercent *decimal.Decimal) (*domain.Bill, error)

	CompletePurchase(ctx context.Context, discountPercent, gstPercent *decimal.Decimal) (*domain.Bill, error)
}
