package stripewebhooks

import (
	"github.com/stripe/stripe-go/v75"
	checkoutsession "github.com/stripe/stripe-go/v75/checkout/session"
	"github.com/stripe/stripe-go/v75/subscription"
)

// StripeAPI covers the round-trips the handlers make back to Stripe. The
// checkout session alone does not reliably carry the price id, so the
// provisioner re-fetches the subscription for it.
type StripeAPI interface {
	GetCheckoutSession(id string) (*stripe.CheckoutSession, error)
	GetSubscription(id string) (*stripe.Subscription, error)
}

type liveStripeAPI struct{}

func NewStripeAPI() StripeAPI {
	return liveStripeAPI{}
}

func (liveStripeAPI) GetCheckoutSession(id string) (*stripe.CheckoutSession, error) {
	return checkoutsession.Get(id, &stripe.CheckoutSessionParams{
		Params: stripe.Params{
			Expand: []*string{
				stripe.String("subscription"),
				stripe.String("customer"),
			},
		},
	})
}

func (liveStripeAPI) GetSubscription(id string) (*stripe.Subscription, error) {
	return subscription.Get(id, nil)
}
