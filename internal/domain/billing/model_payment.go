package billing

import (
	"time"

	"juriszap-app/internal/domain/plans"
	"juriszap-app/internal/domain/users"
)

// Payment rows are appended by the webhook path (first checkout and cycle
// renewals) and read by the dashboard and admin listings.
type Payment struct {
	ID              uint       `gorm:"primaryKey"`
	UserID          uint       `gorm:"index"`
	User            users.User
	PlanoID         *string     `gorm:"column:plano_id"`
	Plano           *plans.Plan `gorm:"foreignKey:PlanoID;references:StripePriceID"`
	StripeSessionID *string     `gorm:"uniqueIndex:idx_payments_stripe_session_id"`
	InvoiceID       *string     `gorm:"uniqueIndex:idx_payments_invoice_id"`
	AmountBRL       float64
	Status          string
	ReceiptURL      *string
	CreatedAt       time.Time
}
