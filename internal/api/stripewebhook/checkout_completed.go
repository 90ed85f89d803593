package stripewebhooks

import (
	"fmt"
	"time"

	"juriszap-app/internal/api/auth"
	"juriszap-app/internal/domain/billing"
	"juriszap-app/internal/domain/users"
	stripeinfra "juriszap-app/internal/infra/stripe"

	"github.com/stripe/stripe-go/v75"
)

// handleCheckoutSessionCompleted is the account provisioner: the profile and
// its credentials are only created here, after Stripe confirmed payment.
// Missing contact data is a data-entry defect upstream — redelivery cannot
// fix it, so those cases log and return nil (acknowledge). Only store/Stripe
// round-trip failures return an error and trigger a retry.
func (h *Handler) handleCheckoutSessionCompleted(session *stripe.CheckoutSession) error {
	// Re-fetch with expansions; the webhook payload alone is too thin.
	fullSession, err := h.api.GetCheckoutSession(session.ID)
	if err != nil {
		return fmt.Errorf("failed to fetch expanded checkout session: %w", err)
	}

	email := checkoutEmail(fullSession)
	nome := fullSession.Metadata["nome"]
	telefone := fullSession.Metadata["telefone"]

	if fullSession.Subscription == nil || fullSession.Subscription.ID == "" {
		fmt.Println("⚠️ Checkout session", session.ID, "has no subscription; ignoring")
		return nil
	}
	if email == "" || nome == "" || telefone == "" {
		fmt.Println("⚠️ Checkout session", session.ID, "missing contact data (email/nome/telefone); ignoring")
		return nil
	}

	subData, err := h.api.GetSubscription(fullSession.Subscription.ID)
	if err != nil {
		return fmt.Errorf("failed to fetch subscription: %w", err)
	}
	if subData == nil || subData.Items == nil || len(subData.Items.Data) == 0 || subData.Items.Data[0].Price == nil {
		fmt.Println("⚠️ Subscription", fullSession.Subscription.ID, "has no price item; ignoring")
		return nil
	}

	customerID := ""
	if subData.Customer != nil {
		customerID = subData.Customer.ID
	}
	if customerID == "" && fullSession.Customer != nil {
		customerID = fullSession.Customer.ID
	}
	if customerID == "" {
		fmt.Println("⚠️ Checkout session", session.ID, "has no customer reference; ignoring")
		return nil
	}

	// Delivery is at-least-once: a second delivery of the same session must
	// not create a second profile.
	if existing, err := h.store.UserByStripeCustomerID(customerID); err != nil {
		return fmt.Errorf("failed to check for existing customer: %w", err)
	} else if existing != nil {
		fmt.Println("ℹ️ Customer", customerID, "already provisioned; acknowledging")
		return nil
	}
	if existing, err := h.store.UserByEmail(email); err != nil {
		return fmt.Errorf("failed to check for existing email: %w", err)
	} else if existing != nil {
		fmt.Println("ℹ️ Email", email, "already provisioned; acknowledging")
		return nil
	}

	priceID := subData.Items.Data[0].Price.ID
	plan, err := h.store.PlanByPriceID(priceID)
	if err != nil {
		return fmt.Errorf("failed to look up plan for price_id=%s: %w", priceID, err)
	}
	if plan == nil {
		fmt.Println("⚠️ No plan for stripe price_id=", priceID, "; ignoring (run /admin/sync-plans)")
		return nil
	}

	periodEnd := time.Unix(subData.CurrentPeriodEnd, 0)
	subscriptionID := subData.ID
	status := stripeinfra.NormalizeSubscriptionStatus(string(subData.Status))

	user := users.User{
		Nome:              nome,
		Email:             email,
		Telefone:          users.NormalizeTelefone(telefone),
		AuthProvider:      "local",
		Role:              users.RoleUser,
		PlanoID:           &priceID,
		StatusAssinatura:  status,
		StripeCustomerID:  &customerID,
		SubscriptionID:    &subscriptionID,
		ProximoVencimento: &periodEnd,
	}

	if err := h.store.CreateUser(&user); err != nil {
		// A concurrent delivery may have slipped past the pre-check and won
		// the unique index. That is "already provisioned", not a failure.
		if again, lookupErr := h.store.UserByStripeCustomerID(customerID); lookupErr == nil && again != nil {
			fmt.Println("ℹ️ Customer", customerID, "provisioned concurrently; acknowledging")
			return nil
		}
		return fmt.Errorf("failed to create user after checkout: %w", err)
	}

	sessionID := fullSession.ID
	payment := billing.Payment{
		UserID:          user.ID,
		PlanoID:         &priceID,
		StripeSessionID: &sessionID,
		AmountBRL:       float64(fullSession.AmountTotal) / 100.0,
		Status:          "paid",
	}
	if err := h.store.RecordPayment(&payment); err != nil {
		fmt.Println("⚠️ Failed to record checkout payment for user", user.ID, ":", err)
	}

	// First credential: the user sets a password through an emailed link.
	token, err := h.store.CreatePasswordSetupToken(user.ID)
	if err != nil {
		fmt.Println("⚠️ Failed to create password setup token for user", user.ID, ":", err)
	} else if err := auth.SendPasswordSetupEmail(user.Email, token); err != nil {
		fmt.Println("⚠️ Failed to send password setup email to", user.Email, ":", err)
	}

	h.publishStatus(&user, status, &periodEnd)
	return nil
}

func checkoutEmail(session *stripe.CheckoutSession) string {
	if session.CustomerDetails != nil && session.CustomerDetails.Email != "" {
		return session.CustomerDetails.Email
	}
	if session.CustomerEmail != "" {
		return session.CustomerEmail
	}
	return session.Metadata["email"]
}
