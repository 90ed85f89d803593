package billing

import "time"

// StripeEvent is the processed-webhook ledger. Stripe delivers at-least-once,
// so a redelivered event id is acknowledged without reprocessing.
type StripeEvent struct {
	ID          uint   `gorm:"primaryKey"`
	EventID     string `gorm:"not null;uniqueIndex:idx_stripe_events_event_id"`
	Type        string
	ProcessedAt time.Time `gorm:"autoCreateTime"`
}
