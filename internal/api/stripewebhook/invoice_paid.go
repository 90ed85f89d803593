package stripewebhooks

import (
	"fmt"
	"time"

	"juriszap-app/internal/domain/billing"
	"juriszap-app/internal/domain/users"

	"github.com/stripe/stripe-go/v75"
)

// handleInvoicePaymentSucceeded reconciles a cycle renewal: status back to
// ativo and proximoVencimento advanced to the renewed period's end. The date
// comes from the invoice's own line data, never from a re-fetch, and only
// moves forward — a redelivered or stale renewal cannot regress it.
func (h *Handler) handleInvoicePaymentSucceeded(inv *stripe.Invoice) error {
	if inv.BillingReason != stripe.InvoiceBillingReasonSubscriptionCycle {
		// One-off charges and the creation invoice (handled by the
		// provisioner) are not renewals.
		return nil
	}

	customerID := invoiceCustomerID(inv)
	if customerID == "" {
		fmt.Println("⚠️ Invoice", inv.ID, "has no customer reference; ignoring")
		return nil
	}

	user, err := h.store.UserByStripeCustomerID(customerID)
	if err != nil {
		return fmt.Errorf("failed to look up customer %s: %w", customerID, err)
	}
	if user == nil {
		fmt.Println("⚠️ No profile for stripe customer", customerID, "; ignoring orphaned invoice", inv.ID)
		return nil
	}

	fields := map[string]interface{}{
		"status_assinatura": users.StatusAtivo,
	}

	vencimento := user.ProximoVencimento
	if periodEnd := invoicePeriodEnd(inv); periodEnd != nil {
		if user.ProximoVencimento == nil || periodEnd.After(*user.ProximoVencimento) {
			fields["proximo_vencimento"] = *periodEnd
			vencimento = periodEnd
		}
	}

	if err := h.store.UpdateUserFields(user.ID, fields); err != nil {
		return fmt.Errorf("failed to update user %d after renewal: %w", user.ID, err)
	}

	invoiceID := inv.ID
	payment := billing.Payment{
		UserID:    user.ID,
		PlanoID:   user.PlanoID,
		InvoiceID: &invoiceID,
		AmountBRL: float64(inv.AmountPaid) / 100.0,
		Status:    "paid",
	}
	if inv.HostedInvoiceURL != "" {
		receipt := inv.HostedInvoiceURL
		payment.ReceiptURL = &receipt
	}
	if err := h.store.RecordPayment(&payment); err != nil {
		fmt.Println("⚠️ Failed to record renewal payment for user", user.ID, ":", err)
	}

	h.publishStatus(user, users.StatusAtivo, vencimento)
	return nil
}

func invoiceCustomerID(inv *stripe.Invoice) string {
	if inv.Customer == nil {
		return ""
	}
	return inv.Customer.ID
}

// invoicePeriodEnd picks the latest line-item period end on the invoice.
func invoicePeriodEnd(inv *stripe.Invoice) *time.Time {
	var end int64
	if inv.Lines != nil {
		for _, line := range inv.Lines.Data {
			if line != nil && line.Period != nil && line.Period.End > end {
				end = line.Period.End
			}
		}
	}
	if end == 0 {
		end = inv.PeriodEnd
	}
	if end == 0 {
		return nil
	}
	t := time.Unix(end, 0)
	return &t
}
