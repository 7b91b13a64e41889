// internal/workers/expiry_processor.go
package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/smartgrocer/grocery-be/internal/core/ports"
)

// ExpiryProcessor runs the periodic sweep for perishables nearing expiry.
type ExpiryProcessor struct {
	store  ports.InventoryStore
	logger *slog.Logger
}

// NewExpiryProcessor creates a new expiry processor
func NewExpiryProcessor(store ports.InventoryStore, logger *slog.Logger) *ExpiryProcessor {
	return &ExpiryProcessor{
		store:  store,
		logger: logger.With(slog.String("processor", "expiry")),
	}
}

// HandleExpirySweep reports items expiring within the payload window.
func (p *ExpiryProcessor) HandleExpirySweep(ctx context.Context, t *asynq.Task) error {
	var payload ExpirySweepPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}
	if payload.Days <= 0 {
		payload.Days = 7
	}

	expiring, err := p.store.ExpiringWithin(ctx, payload.Days)
	if err != nil {
		return fmt.Errorf("expiry sweep failed: %w", err)
	}

	if len(expiring) == 0 {
		p.logger.InfoContext(ctx, "expiry sweep clean",
			slog.Int("days", payload.Days))
		return nil
	}

	for _, item := range expiring {
		p.logger.WarnContext(ctx, "item nearing expiry",
			slog.Int("item_id", item.ID),
			slog.String("name", item.Name),
			slog.String("expiry", item.Expiry),
			slog.Int("quantity", item.Quantity))
	}

	p.logger.InfoContext(ctx, "expiry sweep completed",
		slog.Int("days", payload.Days),
		slog.Int("expiring", len(expiring)))
	return nil
}
