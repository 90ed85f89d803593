package stripewebhooks

import (
	"fmt"

	"juriszap-app/internal/domain/users"

	"github.com/stripe/stripe-go/v75"
)

// handleSubscriptionDeleted marks the profile inativo. The profile record is
// kept; cancellation never deletes.
func (h *Handler) handleSubscriptionDeleted(sub *stripe.Subscription) error {
	if sub.Customer == nil || sub.Customer.ID == "" {
		fmt.Println("⚠️ Deleted subscription", sub.ID, "has no customer reference; ignoring")
		return nil
	}
	customerID := sub.Customer.ID

	user, err := h.store.UserByStripeCustomerID(customerID)
	if err != nil {
		return fmt.Errorf("failed to look up customer %s: %w", customerID, err)
	}
	if user == nil {
		fmt.Println("⚠️ No profile for stripe customer", customerID, "; ignoring cancellation")
		return nil
	}

	if err := h.store.UpdateUserFields(user.ID, map[string]interface{}{
		"status_assinatura": users.StatusInativo,
	}); err != nil {
		return fmt.Errorf("failed to update user %d after cancellation: %w", user.ID, err)
	}

	h.publishStatus(user, users.StatusInativo, user.ProximoVencimento)
	return nil
}
