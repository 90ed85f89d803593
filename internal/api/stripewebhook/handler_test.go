package stripewebhooks

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"juriszap-app/internal/domain/billing"
	"juriszap-app/internal/domain/plans"
	"juriszap-app/internal/domain/users"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v75"
	"github.com/stripe/stripe-go/v75/webhook"
)

const testWebhookSecret = "whsec_test_secret"

// --- fakes ---

type fakeStore struct {
	users     map[uint]*users.User
	plansByID map[string]*plans.Plan
	payments  []*billing.Payment
	events    map[string]bool
	tokens    map[uint]string

	nextID uint
	writes int // mutations only; lookups don't count
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:     map[uint]*users.User{},
		plansByID: map[string]*plans.Plan{},
		events:    map[string]bool{},
		tokens:    map[uint]string{},
	}
}

func (f *fakeStore) UserByStripeCustomerID(customerID string) (*users.User, error) {
	for _, u := range f.users {
		if u.StripeCustomerID != nil && *u.StripeCustomerID == customerID {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) UserByEmail(email string) (*users.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) CreateUser(u *users.User) error {
	f.nextID++
	u.ID = f.nextID
	u.DataCadastro = time.Now()
	f.users[u.ID] = u
	f.writes++
	return nil
}

func (f *fakeStore) UpdateUserFields(uid uint, fields map[string]interface{}) error {
	u, ok := f.users[uid]
	if !ok {
		return fmt.Errorf("no user %d", uid)
	}
	if v, ok := fields["status_assinatura"].(string); ok {
		u.StatusAssinatura = v
	}
	if v, ok := fields["proximo_vencimento"].(time.Time); ok {
		t := v
		u.ProximoVencimento = &t
	}
	f.writes++
	return nil
}

func (f *fakeStore) PlanByPriceID(priceID string) (*plans.Plan, error) {
	return f.plansByID[priceID], nil
}

func (f *fakeStore) RecordPayment(p *billing.Payment) error {
	f.payments = append(f.payments, p)
	f.writes++
	return nil
}

func (f *fakeStore) CreatePasswordSetupToken(uid uint) (string, error) {
	token := fmt.Sprintf("tok_%d", uid)
	f.tokens[uid] = token
	f.writes++
	return token, nil
}

func (f *fakeStore) EventSeen(eventID string) (bool, error) {
	return f.events[eventID], nil
}

func (f *fakeStore) MarkEventProcessed(eventID, eventType string) error {
	f.events[eventID] = true
	return nil
}

type fakeStripeAPI struct {
	sessions      map[string]*stripe.CheckoutSession
	subscriptions map[string]*stripe.Subscription
}

func (f *fakeStripeAPI) GetCheckoutSession(id string) (*stripe.CheckoutSession, error) {
	s, ok := f.sessions[id]
	if !ok {
		return nil, fmt.Errorf("no such session %s", id)
	}
	return s, nil
}

func (f *fakeStripeAPI) GetSubscription(id string) (*stripe.Subscription, error) {
	s, ok := f.subscriptions[id]
	if !ok {
		return nil, fmt.Errorf("no such subscription %s", id)
	}
	return s, nil
}

// --- helpers ---

func newTestHandler(t *testing.T, store Store, api StripeAPI) *gin.Engine {
	t.Helper()
	t.Setenv("STRIPE_SECRET_KEY", "sk_test_123")
	t.Setenv("STRIPE_WEBHOOK_SECRET", testWebhookSecret)
	t.Setenv("SMTP_HOST", "127.0.0.1")
	t.Setenv("SMTP_PORT", "1")

	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHandler(store, api, users.NewStatusNotifier())
	r.POST("/webhook", h.StripeWebhook)
	return r
}

func eventPayload(t *testing.T, eventID, eventType string, object interface{}) []byte {
	t.Helper()
	raw, err := json.Marshal(object)
	require.NoError(t, err)
	payload, err := json.Marshal(map[string]interface{}{
		"id":   eventID,
		"type": eventType,
		"data": map[string]interface{}{"object": json.RawMessage(raw)},
	})
	require.NoError(t, err)
	return payload
}

func deliver(t *testing.T, r *gin.Engine, payload []byte) *httptest.ResponseRecorder {
	t.Helper()
	ts := time.Now()
	sig := webhook.ComputeSignature(ts, payload, testWebhookSecret)
	header := fmt.Sprintf("t=%d,v1=%s", ts.Unix(), hex.EncodeToString(sig))

	req := httptest.NewRequest("POST", "/webhook", bytes.NewReader(payload))
	req.Header.Set("Stripe-Signature", header)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func basicCheckoutFixture() (*fakeStore, *fakeStripeAPI) {
	store := newFakeStore()
	store.plansByID["price_basic"] = &plans.Plan{ID: 1, Name: "Básico", StripePriceID: "price_basic", PriceBRL: 49.9}

	periodEnd := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	api := &fakeStripeAPI{
		sessions: map[string]*stripe.CheckoutSession{
			"cs_1": {
				ID:          "cs_1",
				AmountTotal: 4990,
				CustomerDetails: &stripe.CheckoutSessionCustomerDetails{
					Email: "a@x.com",
				},
				Metadata: map[string]string{
					"nome":     "Ana",
					"telefone": "+5511999999999",
					"email":    "a@x.com",
				},
				Subscription: &stripe.Subscription{ID: "sub_1"},
				Customer:     &stripe.Customer{ID: "cus_1"},
			},
		},
		subscriptions: map[string]*stripe.Subscription{
			"sub_1": {
				ID:               "sub_1",
				Customer:         &stripe.Customer{ID: "cus_1"},
				Status:           stripe.SubscriptionStatusActive,
				CurrentPeriodEnd: periodEnd.Unix(),
				Items: &stripe.SubscriptionItemList{
					Data: []*stripe.SubscriptionItem{
						{Price: &stripe.Price{ID: "price_basic"}},
					},
				},
			},
		},
	}
	return store, api
}

func provisionedUser(store *fakeStore) *users.User {
	venc := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	cus := "cus_1"
	sub := "sub_1"
	price := "price_basic"
	u := &users.User{
		Nome:              "Ana",
		Email:             "a@x.com",
		Telefone:          "+5511999999999",
		Role:              users.RoleUser,
		PlanoID:           &price,
		StatusAssinatura:  users.StatusAtivo,
		StripeCustomerID:  &cus,
		SubscriptionID:    &sub,
		ProximoVencimento: &venc,
	}
	store.nextID++
	u.ID = store.nextID
	store.users[u.ID] = u
	return u
}

// --- boundary ---

func TestWebhookRejectsInvalidSignature(t *testing.T) {
	store, api := basicCheckoutFixture()
	r := newTestHandler(t, store, api)

	payload := eventPayload(t, "evt_1", "checkout.session.completed", map[string]string{"id": "cs_1"})
	req := httptest.NewRequest("POST", "/webhook", bytes.NewReader(payload))
	req.Header.Set("Stripe-Signature", "t=1,v1=deadbeef")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, 0, store.writes, "no handler may run before verification")
	assert.Empty(t, store.users)
}

func TestWebhookUnknownEventAcknowledged(t *testing.T) {
	store, api := basicCheckoutFixture()
	r := newTestHandler(t, store, api)

	rr := deliver(t, r, eventPayload(t, "evt_2", "product.created", map[string]string{"id": "prod_1"}))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 0, store.writes)
}

func TestWebhookDuplicateEventIDSkipped(t *testing.T) {
	store, api := basicCheckoutFixture()
	r := newTestHandler(t, store, api)

	payload := eventPayload(t, "evt_3", "checkout.session.completed", map[string]string{"id": "cs_1"})

	rr := deliver(t, r, payload)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Len(t, store.users, 1)

	rr = deliver(t, r, payload)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "duplicate")
	assert.Len(t, store.users, 1)
}

// --- provisioner ---

func TestCheckoutCompletedProvisionsAccount(t *testing.T) {
	store, api := basicCheckoutFixture()
	r := newTestHandler(t, store, api)

	rr := deliver(t, r, eventPayload(t, "evt_10", "checkout.session.completed", map[string]string{"id": "cs_1"}))
	require.Equal(t, http.StatusOK, rr.Code)

	require.Len(t, store.users, 1)
	var u *users.User
	for _, created := range store.users {
		u = created
	}

	assert.Equal(t, "Ana", u.Nome)
	assert.Equal(t, "a@x.com", u.Email)
	assert.Equal(t, "+5511999999999", u.Telefone)
	assert.Equal(t, users.RoleUser, u.Role)
	assert.Equal(t, users.StatusAtivo, u.StatusAssinatura)
	require.NotNil(t, u.PlanoID)
	assert.Equal(t, "price_basic", *u.PlanoID)
	require.NotNil(t, u.StripeCustomerID)
	assert.Equal(t, "cus_1", *u.StripeCustomerID)
	require.NotNil(t, u.ProximoVencimento)
	assert.Equal(t, time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC).Unix(), u.ProximoVencimento.Unix())

	require.Len(t, store.payments, 1)
	assert.InDelta(t, 49.90, store.payments[0].AmountBRL, 0.001)

	// first credential is set by an emailed token
	assert.NotEmpty(t, store.tokens[u.ID])
}

func TestCheckoutCompletedRedeliveryIsIdempotent(t *testing.T) {
	store, api := basicCheckoutFixture()
	r := newTestHandler(t, store, api)

	rr := deliver(t, r, eventPayload(t, "evt_11", "checkout.session.completed", map[string]string{"id": "cs_1"}))
	require.Equal(t, http.StatusOK, rr.Code)

	// Stripe may redeliver with a distinct event id, so the ledger alone is
	// not enough; the handler must treat the existing profile as done.
	rr = deliver(t, r, eventPayload(t, "evt_12", "checkout.session.completed", map[string]string{"id": "cs_1"}))
	assert.Equal(t, http.StatusOK, rr.Code)

	assert.Len(t, store.users, 1)
	assert.Len(t, store.payments, 1)
}

func TestCheckoutCompletedMissingContactAcknowledged(t *testing.T) {
	store, api := basicCheckoutFixture()
	api.sessions["cs_1"].Metadata = map[string]string{"nome": "Ana"} // no telefone
	r := newTestHandler(t, store, api)

	rr := deliver(t, r, eventPayload(t, "evt_13", "checkout.session.completed", map[string]string{"id": "cs_1"}))

	// data defect: redelivery cannot fix it, so it must not 500
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, store.users)
}

func TestCheckoutCompletedUnknownPriceAcknowledged(t *testing.T) {
	store, api := basicCheckoutFixture()
	delete(store.plansByID, "price_basic")
	r := newTestHandler(t, store, api)

	rr := deliver(t, r, eventPayload(t, "evt_14", "checkout.session.completed", map[string]string{"id": "cs_1"}))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, store.users)
}

func TestCheckoutCompletedStripeFetchFailureRetries(t *testing.T) {
	store, api := basicCheckoutFixture()
	delete(api.subscriptions, "sub_1")
	r := newTestHandler(t, store, api)

	rr := deliver(t, r, eventPayload(t, "evt_15", "checkout.session.completed", map[string]string{"id": "cs_1"}))

	// transient failure: non-2xx so Stripe redelivers
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Empty(t, store.users)
	assert.False(t, store.events["evt_15"], "failed event must not enter the ledger")
}

// --- reconciler ---

func renewalInvoice(invoiceID string, reason string, periodEnd time.Time) map[string]interface{} {
	return map[string]interface{}{
		"id":             invoiceID,
		"customer":       "cus_1",
		"billing_reason": reason,
		"amount_paid":    4990,
		"lines": map[string]interface{}{
			"data": []map[string]interface{}{
				{"period": map[string]int64{"start": periodEnd.AddDate(0, -1, 0).Unix(), "end": periodEnd.Unix()}},
			},
		},
	}
}

func TestInvoicePaymentFailedMarksAtrasado(t *testing.T) {
	store, api := basicCheckoutFixture()
	u := provisionedUser(store)
	vencBefore := *u.ProximoVencimento
	r := newTestHandler(t, store, api)

	rr := deliver(t, r, eventPayload(t, "evt_20", "invoice.payment_failed", map[string]interface{}{
		"id":       "in_1",
		"customer": "cus_1",
	}))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, users.StatusPagamentoAtrasado, u.StatusAssinatura)
	assert.Equal(t, vencBefore, *u.ProximoVencimento, "failure must not touch proximoVencimento")
}

func TestInvoicePaymentSucceededRenewsAndAdvances(t *testing.T) {
	store, api := basicCheckoutFixture()
	u := provisionedUser(store)
	u.StatusAssinatura = users.StatusPagamentoAtrasado
	newEnd := u.ProximoVencimento.AddDate(0, 1, 0)
	r := newTestHandler(t, store, api)

	rr := deliver(t, r, eventPayload(t, "evt_21", "invoice.payment_succeeded", renewalInvoice("in_2", "subscription_cycle", newEnd)))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, users.StatusAtivo, u.StatusAssinatura)
	assert.Equal(t, newEnd.Unix(), u.ProximoVencimento.Unix())
	require.Len(t, store.payments, 1)
	assert.Equal(t, "in_2", *store.payments[0].InvoiceID)
}

func TestStaleRenewalDoesNotRegressDueDate(t *testing.T) {
	store, api := basicCheckoutFixture()
	u := provisionedUser(store)
	current := *u.ProximoVencimento
	stale := current.AddDate(0, -1, 0)
	r := newTestHandler(t, store, api)

	rr := deliver(t, r, eventPayload(t, "evt_22", "invoice.payment_succeeded", renewalInvoice("in_3", "subscription_cycle", stale)))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, users.StatusAtivo, u.StatusAssinatura)
	assert.Equal(t, current.Unix(), u.ProximoVencimento.Unix(), "proximoVencimento only moves forward")
}

func TestNonCycleInvoiceIgnored(t *testing.T) {
	store, api := basicCheckoutFixture()
	u := provisionedUser(store)
	u.StatusAssinatura = users.StatusInativo
	r := newTestHandler(t, store, api)

	rr := deliver(t, r, eventPayload(t, "evt_23", "invoice.payment_succeeded", renewalInvoice("in_4", "manual", time.Now().AddDate(0, 2, 0))))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, users.StatusInativo, u.StatusAssinatura, "one-off charges are not renewals")
}

func TestSubscriptionDeletedMarksInativo(t *testing.T) {
	store, api := basicCheckoutFixture()
	u := provisionedUser(store)
	vencBefore := *u.ProximoVencimento
	r := newTestHandler(t, store, api)

	rr := deliver(t, r, eventPayload(t, "evt_24", "customer.subscription.deleted", map[string]interface{}{
		"id":       "sub_1",
		"customer": "cus_1",
		"status":   "canceled",
	}))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, users.StatusInativo, u.StatusAssinatura)
	assert.Equal(t, vencBefore, *u.ProximoVencimento)
}

func TestOrphanedEventAcknowledged(t *testing.T) {
	store, api := basicCheckoutFixture()
	r := newTestHandler(t, store, api)

	rr := deliver(t, r, eventPayload(t, "evt_25", "invoice.payment_failed", map[string]interface{}{
		"id":       "in_5",
		"customer": "cus_unknown",
	}))

	// the profile may legitimately not exist yet; redelivery won't fix it
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 0, store.writes)
}

// --- full lifecycle ---

func TestSubscriptionLifecycle(t *testing.T) {
	store, api := basicCheckoutFixture()
	r := newTestHandler(t, store, api)

	// checkout -> ativo
	rr := deliver(t, r, eventPayload(t, "evt_30", "checkout.session.completed", map[string]string{"id": "cs_1"}))
	require.Equal(t, http.StatusOK, rr.Code)
	require.Len(t, store.users, 1)
	var u *users.User
	for _, created := range store.users {
		u = created
	}
	require.Equal(t, users.StatusAtivo, u.StatusAssinatura)
	firstEnd := *u.ProximoVencimento

	// failed invoice -> pagamento_atrasado
	rr = deliver(t, r, eventPayload(t, "evt_31", "invoice.payment_failed", map[string]interface{}{
		"id":       "in_10",
		"customer": "cus_1",
	}))
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, users.StatusPagamentoAtrasado, u.StatusAssinatura)
	require.Equal(t, firstEnd.Unix(), u.ProximoVencimento.Unix())

	// recovered renewal -> ativo again, date advances
	newEnd := firstEnd.AddDate(0, 1, 0)
	rr = deliver(t, r, eventPayload(t, "evt_32", "invoice.payment_succeeded", renewalInvoice("in_11", "subscription_cycle", newEnd)))
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, users.StatusAtivo, u.StatusAssinatura)
	require.Equal(t, newEnd.Unix(), u.ProximoVencimento.Unix())

	// cancellation -> inativo, record kept
	rr = deliver(t, r, eventPayload(t, "evt_33", "customer.subscription.deleted", map[string]interface{}{
		"id":       "sub_1",
		"customer": "cus_1",
		"status":   "canceled",
	}))
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, users.StatusInativo, u.StatusAssinatura)
	require.Len(t, store.users, 1, "cancellation never deletes the profile")
}
