package stripe

import (
	"strings"

	"juriszap-app/internal/domain/users"
)

// NormalizeSubscriptionStatus maps a Stripe subscription status onto the
// app's statusAssinatura enum.
func NormalizeSubscriptionStatus(s string) string {
	switch strings.TrimSpace(s) {
	case "active", "trialing":
		return users.StatusAtivo
	case "past_due", "unpaid", "incomplete":
		return users.StatusPagamentoAtrasado
	case "canceled", "incomplete_expired":
		return users.StatusInativo
	default:
		return users.StatusInativo
	}
}
