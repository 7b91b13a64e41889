// internal/core/ports/remote.go
package ports

import (
	"context"

	"github.com/smartgrocer/grocery-be/internal/core/domain"
)

// RemoteInventory defines the client port for the remote inventory service.
// Implementations must return domain.ErrRemoteUnavailable (wrapped) for
// transport-level failures and domain.ErrRemoteRejected (wrapped, carrying
// the server-reported reason) for structured application failures.
type RemoteInventory interface {
	// Ping is the reachability probe (GET /health).
	Ping(ctx context.Context) error

	FetchItems(ctx context.Context) ([]domain.Item, error)
	// CreateItem returns the created item as echoed by the server, carrying
	// the server-assigned id.
	CreateItem(ctx context.Context, item *domain.Item) (*domain.Item, error)
	UpdateItem(ctx context.Context, id int, patch *domain.ItemPatch) error
	DeleteItem(ctx context.Context, id int) error

	SearchByName(ctx context.Context, query string) ([]domain.Item, error)
	SearchByCategory(ctx context.Context, category string) ([]domain.Item, error)
}
