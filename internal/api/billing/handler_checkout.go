package billing

import (
	"net/http"
	"os"

	"juriszap-app/database"
	"juriszap-app/internal/domain/plans"
	"juriszap-app/internal/domain/users"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v75"
	portalSession "github.com/stripe/stripe-go/v75/billingportal/session"
	checkoutsession "github.com/stripe/stripe-go/v75/checkout/session"
)

// The initiators only produce redirect URLs. They never write the profile
// store; every resulting state change arrives later through the webhook path.

// CreateSignupCheckout handles the anonymous signup flow: no account exists
// yet, so the contact details ride along as session metadata and the
// provisioner reads them back after payment.
func CreateSignupCheckout(c *gin.Context) {
	var body struct {
		PriceID  string `json:"priceId" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Nome     string `json:"nome" binding:"required"`
		Telefone string `json:"telefone" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing or invalid priceId/email/nome/telefone"})
		return
	}

	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")
	if stripe.Key == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Stripe key not configured"})
		return
	}

	// allow-list price id
	var plan plans.Plan
	if err := database.DB.Where("stripe_price_id = ?", body.PriceID).First(&plan).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown plan/priceId"})
		return
	}

	var existing users.User
	if err := database.DB.Where("email = ?", body.Email).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "An account already exists for this email. Log in and use the billing portal."})
		return
	}

	appURL := os.Getenv("APP_URL")
	if appURL == "" {
		appURL = "http://localhost:5173"
	}

	params := &stripe.CheckoutSessionParams{
		SuccessURL:    stripe.String(appURL + "/cadastro/sucesso?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:     stripe.String(appURL + "/planos?canceled=1"),
		Mode:          stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		CustomerEmail: stripe.String(body.Email),

		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{Price: stripe.String(plan.StripePriceID), Quantity: stripe.Int64(1)},
		},
	}
	params.AddMetadata("nome", body.Nome)
	params.AddMetadata("telefone", users.NormalizeTelefone(body.Telefone))
	params.AddMetadata("email", body.Email)

	s, err := checkoutsession.New(params)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create checkout session", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"sessionId": s.ID, "url": s.URL})
}

// CreateCheckoutSession handles a plan purchase/change for an authenticated
// user. The new subscription attaches to the stored Stripe customer; the
// webhook path flips the profile back to ativo once payment confirms.
func CreateCheckoutSession(c *gin.Context) {
	var body struct {
		PriceID string `json:"priceId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing or invalid priceId"})
		return
	}

	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")
	if stripe.Key == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Stripe key not configured"})
		return
	}

	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not identified"})
		return
	}

	var plan plans.Plan
	if err := database.DB.Where("stripe_price_id = ?", body.PriceID).First(&plan).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown plan/priceId"})
		return
	}

	var user users.User
	if err := database.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return
	}

	if user.StripeCustomerID == nil || *user.StripeCustomerID == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "No billing customer on file for this account"})
		return
	}

	appURL := os.Getenv("APP_URL")
	if appURL == "" {
		appURL = "http://localhost:5173"
	}

	params := &stripe.CheckoutSessionParams{
		SuccessURL: stripe.String(appURL + "/conta"),
		CancelURL:  stripe.String(appURL + "/conta?canceled=1"),
		Mode:       stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		Customer:   stripe.String(*user.StripeCustomerID),

		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{Price: stripe.String(plan.StripePriceID), Quantity: stripe.Int64(1)},
		},
	}
	params.AddMetadata("nome", user.Nome)
	params.AddMetadata("telefone", user.Telefone)
	params.AddMetadata("email", user.Email)

	s, err := checkoutsession.New(params)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create checkout session", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"sessionId": s.ID, "url": s.URL})
}

// CreateBillingPortal returns a Stripe self-service portal URL for the
// authenticated user's stored customer.
func CreateBillingPortal(c *gin.Context) {
	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")
	if stripe.Key == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Stripe key not configured"})
		return
	}

	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not identified"})
		return
	}

	var user users.User
	if err := database.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return
	}
	if user.StripeCustomerID == nil || *user.StripeCustomerID == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "No billing customer on file (no completed payment yet)"})
		return
	}

	appURL := os.Getenv("APP_URL")
	if appURL == "" {
		appURL = "http://localhost:5173"
	}

	portal, err := portalSession.New(&stripe.BillingPortalSessionParams{
		Customer:  stripe.String(*user.StripeCustomerID),
		ReturnURL: stripe.String(appURL + "/conta"),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create billing portal session", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": portal.URL})
}
