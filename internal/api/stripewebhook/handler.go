package stripewebhooks

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"juriszap-app/internal/domain/users"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v75"
	"github.com/stripe/stripe-go/v75/webhook"
)

// Handler is the webhook boundary: signature verification, event dispatch
// and the processed-event ledger. All profile-store mutation in the app
// flows through here.
type Handler struct {
	store    Store
	api      StripeAPI
	notifier *users.StatusNotifier
}

func NewHandler(store Store, api StripeAPI, notifier *users.StatusNotifier) *Handler {
	return &Handler{store: store, api: api, notifier: notifier}
}

// StripeWebhook handles POST /webhook. Any non-2xx response makes Stripe
// redeliver the event, so transient failures return 500 and data defects are
// logged and acknowledged with 200.
func (h *Handler) StripeWebhook(c *gin.Context) {
	// Stripe key is required for the follow-up API calls (checkoutsession.Get,
	// subscription.Get).
	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")
	if stripe.Key == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "STRIPE_SECRET_KEY not configured"})
		return
	}

	endpointSecret := os.Getenv("STRIPE_WEBHOOK_SECRET")
	if endpointSecret == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "STRIPE_WEBHOOK_SECRET not configured"})
		return
	}

	payload, err := readStripeBody(c, 65536)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Error reading request body"})
		return
	}

	// The signature is computed over the raw bytes; verification must run on
	// the payload exactly as received.
	event, err := webhook.ConstructEventWithOptions(
		payload,
		c.GetHeader("Stripe-Signature"),
		endpointSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true},
	)
	if err != nil {
		fmt.Println("❌ Stripe signature verification failed:", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Signature verification failed"})
		return
	}

	seen, err := h.store.EventSeen(event.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check event ledger"})
		return
	}
	if seen {
		c.JSON(http.StatusOK, gin.H{"received": true, "duplicate": true})
		return
	}

	var handleErr error
	switch string(event.Type) {
	case "checkout.session.completed":
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to parse session"})
			return
		}
		handleErr = h.handleCheckoutSessionCompleted(&session)

	case "invoice.payment_succeeded":
		var inv stripe.Invoice
		if err := json.Unmarshal(event.Data.Raw, &inv); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to parse invoice"})
			return
		}
		handleErr = h.handleInvoicePaymentSucceeded(&inv)

	case "invoice.payment_failed":
		var inv stripe.Invoice
		if err := json.Unmarshal(event.Data.Raw, &inv); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to parse invoice"})
			return
		}
		handleErr = h.handleInvoicePaymentFailed(&inv)

	case "customer.subscription.deleted":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to parse subscription"})
			return
		}
		handleErr = h.handleSubscriptionDeleted(&sub)

	default:
		// Acknowledge unknown events to stop retries.
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	if handleErr != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": handleErr.Error()})
		return
	}

	// A ledger write failure after a successful handle is tolerable: the
	// per-handler idempotency guards absorb the redelivery.
	if err := h.store.MarkEventProcessed(event.ID, string(event.Type)); err != nil {
		fmt.Println("⚠️ Failed to record processed event", event.ID, ":", err)
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}

func (h *Handler) publishStatus(u *users.User, status string, vencimento *time.Time) {
	if h.notifier == nil {
		return
	}
	h.notifier.Publish(users.StatusChange{
		UID:               u.ID,
		StatusAssinatura:  status,
		ProximoVencimento: vencimento,
	})
}

func readStripeBody(c *gin.Context, maxBytes int64) ([]byte, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
	return io.ReadAll(c.Request.Body)
}
