package models

import "time"

// PaymentEvent is the audit row for one provider event id. Redeliveries of
// the same id bump Deliveries instead of adding rows.
type PaymentEvent struct {
	ID              uint       `gorm:"primaryKey" json:"-"`
	EventID         string     `gorm:"uniqueIndex;size:255;not null" json:"eventId"`
	Type            string     `gorm:"size:255;index" json:"type"`
	AccountID       string     `gorm:"size:64;index" json:"accountId,omitempty"`
	Thin            bool       `gorm:"default:false" json:"thin"`
	Detail          JSON       `gorm:"type:jsonb" json:"detail,omitempty"`
	Deliveries      int        `gorm:"default:1" json:"deliveries"`
	ReceivedAt      time.Time  `gorm:"not null" json:"receivedAt"`
	ProcessedAt     *time.Time `json:"processedAt,omitempty"`
	ProcessingError string     `gorm:"type:text" json:"processingError,omitempty"`
}

// EventOutcome closes an audit row once the event has been handled. Type and
// AccountID carry the resolved values, which differ from the delivered body
// for thin events.
type EventOutcome struct {
	EventID     string
	Type        string
	AccountID   string
	ProcessedAt time.Time
	Err         error
}
