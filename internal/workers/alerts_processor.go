// internal/workers/alerts_processor.go
package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/smtp"

	"github.com/hibiken/asynq"

	"github.com/smartgrocer/grocery-be/internal/pkg/config"
)

// AlertsProcessor handles low-stock alert notifications.
type AlertsProcessor struct {
	config *config.Config
	logger *slog.Logger
}

// NewAlertsProcessor creates a new alerts processor
func NewAlertsProcessor(config *config.Config, logger *slog.Logger) *AlertsProcessor {
	return &AlertsProcessor{
		config: config,
		logger: logger.With(slog.String("processor", "alerts")),
	}
}

// HandleLowStockAlert notifies the store manager about an item running low.
func (p *AlertsProcessor) HandleLowStockAlert(ctx context.Context, t *asynq.Task) error {
	var payload LowStockAlertPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	p.logger.InfoContext(ctx, "low stock alert",
		slog.Int("item_id", payload.ItemID),
		slog.String("name", payload.Name),
		slog.String("category", payload.Category),
		slog.Int("quantity", payload.Quantity))

	subject := fmt.Sprintf("Low stock: %s", payload.Name)
	body := fmt.Sprintf("%s (%s) is down to %d units. Restock soon.",
		payload.Name, payload.Category, payload.Quantity)

	// In development, just log the notification
	if p.config.App.Environment == "development" {
		p.logger.InfoContext(ctx, "alert email would be sent",
			slog.String("to", p.config.Alerts.Recipient),
			slog.String("subject", subject),
			slog.String("body", body))
		return nil
	}

	from := "alerts@smartgrocer.local"
	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		from, p.config.Alerts.Recipient, subject, body,
	))

	auth := smtp.PlainAuth("", p.config.Alerts.SMTPUser, p.config.Alerts.SMTPPassword, p.config.Alerts.SMTPHost)
	addr := fmt.Sprintf("%s:%s", p.config.Alerts.SMTPHost, p.config.Alerts.SMTPPort)
	if err := smtp.SendMail(addr, auth, from, []string{p.config.Alerts.Recipient}, msg); err != nil {
		return fmt.Errorf("failed to send alert email: %w", err)
	}

	p.logger.InfoContext(ctx, "alert email sent",
		slog.Int("item_id", payload.ItemID))
	return nil
}
