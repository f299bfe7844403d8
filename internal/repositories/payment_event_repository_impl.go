package repositories

import (
	"context"
	"time"

	"mentorpay/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type paymentEventRepository struct {
	db *gorm.DB
}

func NewPaymentEventRepository(db *gorm.DB) PaymentEventRepository {
	return &paymentEventRepository{db: db}
}

func (r *paymentEventRepository) Record(ctx context.Context, event *models.PaymentEvent) error {
	if event.ReceivedAt.IsZero() {
		event.ReceivedAt = time.Now().UTC()
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "event_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"deliveries":  gorm.Expr("payment_events.deliveries + 1"),
			"received_at": event.ReceivedAt,
		}),
	}).Create(event).Error
	if err != nil {
		return mapDBError(err, nil)
	}
	return nil
}

func (r *paymentEventRepository) MarkProcessed(ctx context.Context, outcome models.EventOutcome) error {
	updates := map[string]interface{}{
		"processed_at":     outcome.ProcessedAt,
		"processing_error": "",
	}
	if outcome.Err != nil {
		updates["processing_error"] = outcome.Err.Error()
	}
	if outcome.Type != "" {
		updates["type"] = outcome.Type
	}
	if outcome.AccountID != "" {
		updates["account_id"] = outcome.AccountID
	}

	err := r.db.WithContext(ctx).
		Model(&models.PaymentEvent{}).
		Where("event_id = ?", outcome.EventID).
		Updates(updates).Error
	if err != nil {
		return mapDBError(err, nil)
	}
	return nil
}

func (r *paymentEventRepository) Recent(ctx context.Context, accountID string, limit int) ([]models.PaymentEvent, error) {
	q := r.db.WithContext(ctx).Order("received_at DESC").Limit(limit)
	if accountID != "" {
		q = q.Where("account_id = ?", accountID)
	}
	var events []models.PaymentEvent
	if err := q.Find(&events).Error; err != nil {
		return nil, mapDBError(err, nil)
	}
	return events, nil
}
