// internal/workers/tasks.go
package workers

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/smartgrocer/grocery-be/internal/core/domain"
)

// Task type names routed to the worker queues.
const (
	TypeLowStockAlert = "alerts:low_stock"
	TypeExpirySweep   = "reports:expiry_sweep"
)

// LowStockAlertPayload carries the item snapshot that triggered the alert.
type LowStockAlertPayload struct {
	ItemID   int    `json:"item_id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Quantity int    `json:"quantity"`
}

// ExpirySweepPayload carries the lookahead window for an expiry sweep.
type ExpirySweepPayload struct {
	Days int `json:"days"`
}

// NewLowStockAlertTask builds the task enqueued when a mutation leaves an
// item at or below the low stock threshold.
func NewLowStockAlertTask(item *domain.Item) (*asynq.Task, error) {
	payload, err := json.Marshal(LowStockAlertPayload{
		ItemID:   item.ID,
		Name:     item.Name,
		Category: item.Category,
		Quantity: item.Quantity,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal low stock payload: %w", err)
	}
	return asynq.NewTask(TypeLowStockAlert, payload), nil
}

// NewExpirySweepTask builds the periodic task that reports items expiring
// within the given number of days.
func NewExpirySweepTask(days int) (*asynq.Task, error) {
	payload, err := json.Marshal(ExpirySweepPayload{Days: days})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal expiry sweep payload: %w", err)
	}
	return asynq.NewTask(TypeExpirySweep, payload), nil
}
