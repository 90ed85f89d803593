package stripewebhooks

import (
	"fmt"

	"juriszap-app/internal/domain/users"

	"github.com/stripe/stripe-go/v75"
)

// handleInvoicePaymentFailed marks the profile pagamento_atrasado.
// proximoVencimento stays untouched; a later successful renewal brings the
// account back to ativo.
func (h *Handler) handleInvoicePaymentFailed(inv *stripe.Invoice) error {
	customerID := invoiceCustomerID(inv)
	if customerID == "" {
		fmt.Println("⚠️ Failed invoice", inv.ID, "has no customer reference; ignoring")
		return nil
	}

	user, err := h.store.UserByStripeCustomerID(customerID)
	if err != nil {
		return fmt.Errorf("failed to look up customer %s: %w", customerID, err)
	}
	if user == nil {
		fmt.Println("⚠️ No profile for stripe customer", customerID, "; ignoring failed invoice", inv.ID)
		return nil
	}

	if err := h.store.UpdateUserFields(user.ID, map[string]interface{}{
		"status_assinatura": users.StatusPagamentoAtrasado,
	}); err != nil {
		return fmt.Errorf("failed to update user %d after payment failure: %w", user.ID, err)
	}

	h.publishStatus(user, users.StatusPagamentoAtrasado, user.ProximoVencimento)
	return nil
}
