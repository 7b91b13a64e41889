package workers_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartgrocer/grocery-be/internal/core/domain"
	"github.com/smartgrocer/grocery-be/internal/core/services"
	"github.com/smartgrocer/grocery-be/internal/workers"
	"github.com/smartgrocer/grocery-be/test/helpers"
)

func TestNewLowStockAlertTask(t *testing.T) {
	item := helpers.CreateTestItem(func(i *domain.Item) {
		i.ID = 10
		i.Name = "Frooti Orange Juice"
		i.Category = "Beverages"
		i.Quantity = 2
	})

	task, err := workers.NewLowStockAlertTask(item)
	require.NoError(t, err)
	assert.Equal(t, workers.TypeLowStockAlert, task.Type())

	var payload workers.LowStockAlertPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	assert.Equal(t, 10, payload.ItemID)
	assert.Equal(t, "Frooti Orange Juice", payload.Name)
	assert.Equal(t, "Beverages", payload.Category)
	assert.Equal(t, 2, payload.Quantity)
}

func TestNewExpirySweepTask(t *testing.T) {
	task, err := workers.NewExpirySweepTask(7)
	require.NoError(t, err)
	assert.Equal(t, workers.TypeExpirySweep, task.Type())

	var payload workers.ExpirySweepPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	assert.Equal(t, 7, payload.Days)
}

func TestAlertsProcessor_HandleLowStockAlert(t *testing.T) {
	cfg := helpers.LoadTestConfig()
	cfg.App.Environment = "development" // log-only path, no SMTP
	processor := workers.NewAlertsProcessor(cfg, helpers.TestLogger())

	task, err := workers.NewLowStockAlertTask(helpers.CreateTestItem(func(i *domain.Item) {
		i.Quantity = 3
	}))
	require.NoError(t, err)

	assert.NoError(t, processor.HandleLowStockAlert(context.Background(), task))
}

func TestAlertsProcessor_HandleLowStockAlert_BadPayload(t *testing.T) {
	processor := workers.NewAlertsProcessor(helpers.LoadTestConfig(), helpers.TestLogger())

	task := asynq.NewTask(workers.TypeLowStockAlert, []byte("not json"))
	assert.Error(t, processor.HandleLowStockAlert(context.Background(), task))
}

func TestExpiryProcessor_HandleExpirySweep(t *testing.T) {
	store := services.NewInventoryService(helpers.NewFakeRemote(nil), nil, nil, helpers.TestLogger())
	ctx := context.Background()

	// Give the sweep something to find; all seed expiries are long past.
	_, err := store.Create(ctx, helpers.CreateTestItem(func(i *domain.Item) {
		i.ID = 0
		i.Name = "Fresh Cream"
		i.Category = "Dairy"
		i.Perishable = true
		i.Expiry = time.Now().AddDate(0, 0, 2).Format(domain.ExpiryDateLayout)
	}))
	require.NoError(t, err)

	processor := workers.NewExpiryProcessor(store, helpers.TestLogger())

	task, err := workers.NewExpirySweepTask(7)
	require.NoError(t, err)
	assert.NoError(t, processor.HandleExpirySweep(ctx, task))

	// A zero window falls back to the 7-day default rather than erroring.
	task, err = workers.NewExpirySweepTask(0)
	require.NoError(t, err)
	assert.NoError(t, processor.HandleExpirySweep(ctx, task))
}

func TestExpiryProcessor_HandleExpirySweep_BadPayload(t *testing.T) {
	store := services.NewInventoryService(helpers.NewFakeRemote(nil), nil, nil, helpers.TestLogger())
	processor := workers.NewExpiryProcessor(store, helpers.TestLogger())

	task := asynq.NewTask(workers.TypeExpirySweep, []byte("not json"))
	assert.Error(t, processor.HandleExpirySweep(context.Background(), task))
}
