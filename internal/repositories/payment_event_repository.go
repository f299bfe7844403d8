package repositories

import (
	"context"

	"mentorpay/internal/models"
)

// PaymentEventRepository is the append-only audit log of provider events
type PaymentEventRepository interface {
	// Record stores the event, or bumps its delivery count if already seen
	Record(ctx context.Context, event *models.PaymentEvent) error

	// MarkProcessed stamps the outcome of handling an event
	MarkProcessed(ctx context.Context, outcome models.EventOutcome) error

	// Recent lists the newest events, optionally for one account
	Recent(ctx context.Context, accountID string, limit int) ([]models.PaymentEvent, error)
}
