package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	domainerrors "mentorpay/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v72"
)

// newTestStripe points every SDK backend at a local server with retries off.
func newTestStripe(t *testing.T, handler http.HandlerFunc) *Stripe {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	backend := stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
		URL:               stripe.String(srv.URL),
		HTTPClient:        srv.Client(),
		MaxNetworkRetries: stripe.Int64(0),
		LeveledLogger:     &stripe.LeveledLogger{Level: stripe.LevelNull},
	})
	return NewStripe("sk_test_key",
		WithBackends(&stripe.Backends{API: backend, Connect: backend, Uploads: backend}),
		WithAPIBase(srv.URL),
		WithHTTPClient(srv.Client()))
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func TestStripe_CreateAccount(t *testing.T) {
	s := newTestStripe(t, func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/accounts", r.URL.Path)
		assert.Equal(t, "idem-7", r.Header.Get("Idempotency-Key"))
		assert.Equal(t, "express", r.PostForm.Get("type"))
		assert.Equal(t, "expert@example.com", r.PostForm.Get("email"))
		assert.Equal(t, "US", r.PostForm.Get("country"))
		assert.Equal(t, "true", r.PostForm.Get("capabilities[transfers][requested]"))
		assert.Equal(t, "7", r.PostForm.Get("metadata[user_id]"))

		writeJSON(w, http.StatusOK, `{"id":"acct_new","object":"account","capabilities":{"transfers":"inactive"},
			"requirements":{"currently_due":["external_account"],"past_due":[],"pending_verification":[],"disabled_reason":"requirements.past_due"}}`)
	})

	acct, err := s.CreateAccount(context.Background(), CreateAccountParams{
		UserID:         7,
		Email:          "expert@example.com",
		Country:        "US",
		IdempotencyKey: "idem-7",
	})
	require.NoError(t, err)
	assert.Equal(t, "acct_new", acct.ID)
	assert.Equal(t, "inactive", acct.Capability)
	assert.Equal(t, "requirements.past_due", acct.DisabledReason)
	assert.Equal(t, []string{"external_account"}, acct.Requirements.CurrentlyDue)
}

func TestStripe_CreateAccount_ConcurrentKeyIsRetryable(t *testing.T) {
	s := newTestStripe(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusConflict, `{"error":{"type":"idempotency_error","code":"idempotency_key_in_use",
			"message":"There is currently another in-progress request using this Idempotent Key"}}`)
	})

	_, err := s.CreateAccount(context.Background(), CreateAccountParams{UserID: 7, Email: "expert@example.com", IdempotencyKey: "idem-7"})
	require.Error(t, err)
	assert.True(t, domainerrors.Retryable(err))
}

func TestStripe_GetAccount(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		capability  string
		reason      string
		pending     []string
		noReqsBlock bool
	}{
		{
			name: "pending verification",
			body: `{"id":"acct_1","object":"account","capabilities":{"transfers":"pending"},
				"requirements":{"currently_due":[],"past_due":[],"pending_verification":["individual.id_number"],"disabled_reason":"requirements.pending_verification"}}`,
			capability: "pending",
			reason:     "requirements.pending_verification",
			pending:    []string{"individual.id_number"},
		},
		{
			name:        "no capability or requirements",
			body:        `{"id":"acct_1","object":"account"}`,
			noReqsBlock: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStripe(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodGet, r.Method)
				assert.Equal(t, "/v1/accounts/acct_1", r.URL.Path)
				writeJSON(w, http.StatusOK, tt.body)
			})

			acct, err := s.GetAccount(context.Background(), "acct_1")
			require.NoError(t, err)
			assert.Equal(t, tt.capability, acct.Capability)
			assert.Equal(t, tt.reason, acct.DisabledReason)
			if tt.noReqsBlock {
				assert.Nil(t, acct.Requirements)
				return
			}
			require.NotNil(t, acct.Requirements)
			assert.Equal(t, tt.pending, acct.Requirements.PendingVerification)
		})
	}
}

func TestStripe_GetAccount_Missing(t *testing.T) {
	s := newTestStripe(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, `{"error":{"type":"invalid_request_error","code":"resource_missing","message":"No such account: 'acct_x'"}}`)
	})

	_, err := s.GetAccount(context.Background(), "acct_x")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestStripe_CreateAccountLink(t *testing.T) {
	s := newTestStripe(t, func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "/v1/account_links", r.URL.Path)
		assert.Equal(t, "acct_1", r.PostForm.Get("account"))
		assert.Equal(t, "account_onboarding", r.PostForm.Get("type"))
		assert.Equal(t, "https://app.example.com/refresh", r.PostForm.Get("refresh_url"))
		assert.Equal(t, "https://app.example.com/return", r.PostForm.Get("return_url"))
		writeJSON(w, http.StatusOK, `{"object":"account_link","url":"https://connect.stripe.com/setup/e/acct_1/x","expires_at":1792152000}`)
	})

	link, err := s.CreateAccountLink(context.Background(), AccountLinkParams{
		AccountID:  "acct_1",
		RefreshURL: "https://app.example.com/refresh",
		ReturnURL:  "https://app.example.com/return",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://connect.stripe.com/setup/e/acct_1/x", link.URL)
	assert.Equal(t, int64(1792152000), link.ExpiresAt.Unix())
}

func TestStripe_CreateProduct(t *testing.T) {
	var calls int32
	s := newTestStripe(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "/v1/products", r.URL.Path)
		assert.Equal(t, "Career session", r.PostForm.Get("name"))
		assert.Equal(t, "2550", r.PostForm.Get("default_price_data[unit_amount]"))
		assert.Equal(t, "usd", r.PostForm.Get("default_price_data[currency]"))
		assert.Equal(t, "acct_1", r.PostForm.Get("metadata[recipient_account_id]"))
		assert.Equal(t, "default_price", r.PostForm.Get("expand[0]"))
		assert.Equal(t, "idem-p", r.Header.Get("Idempotency-Key"))

		writeJSON(w, http.StatusOK, `{"id":"prod_1","object":"product","active":true,"name":"Career session","created":1760000000,
			"metadata":{"recipient_account_id":"acct_1"},
			"default_price":{"id":"price_1","object":"price","active":true,"unit_amount":2550,"currency":"usd"}}`)
	})

	prod, err := s.CreateProduct(context.Background(), CreateProductParams{
		Name:                 "Career session",
		UnitAmountMinorUnits: 2550,
		Currency:             "usd",
		Metadata:             map[string]string{"recipient_account_id": "acct_1"},
		IdempotencyKey:       "idem-p",
	})
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Equal(t, "prod_1", prod.ID)
	assert.Equal(t, "price_1", prod.PriceRef)
	assert.Equal(t, int64(2550), prod.UnitAmountMinorUnits)
	assert.Equal(t, "usd", prod.Currency)
	assert.Equal(t, "acct_1", prod.Metadata["recipient_account_id"])
}

const productSearchPage = `{"object":"search_result","url":"/v1/products/search","has_more":%s,"next_page":%s,"data":[
	{"id":"prod_1","object":"product","active":true,"name":"Session","metadata":{"recipient_account_id":"acct_1"},
	 "default_price":{"id":"price_1","object":"price","active":true,"unit_amount":5000,"currency":"usd"}},
	{"id":"prod_2","object":"product","active":true,"name":"Draft","metadata":{"recipient_account_id":"acct_1"}},
	{"id":"prod_3","object":"product","active":true,"name":"Review","metadata":{"recipient_account_id":"acct_1"},
	 "default_price":{"id":"price_3","object":"price","active":true,"unit_amount":1500,"currency":"usd"}}
]}`

func TestStripe_ListProducts_FiltersProviderSide(t *testing.T) {
	var calls int32
	s := newTestStripe(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1/products/search", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "active:'true' AND metadata['recipient_account_id']:'acct_1'", q.Get("query"))
		assert.Equal(t, "2", q.Get("limit"))
		assert.Equal(t, "data.default_price", q.Get("expand[0]"))
		// Always claims more pages exist; only one may be read.
		writeJSON(w, http.StatusOK, fmt.Sprintf(productSearchPage, "true", `"page_2"`))
	})

	page, err := s.ListProducts(context.Background(), ProductQuery{
		Metadata: map[string]string{"recipient_account_id": "acct_1"},
		Limit:    1,
	})
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	require.Len(t, page.Items, 1)
	assert.Equal(t, "prod_1", page.Items[0].ID)
	assert.Equal(t, "price_1", page.Items[0].PriceRef)
	assert.Equal(t, int64(5000), page.Items[0].UnitAmountMinorUnits)
	assert.True(t, page.HasMore)
}

func TestStripe_ListProducts_SkipsProductsWithoutPrice(t *testing.T) {
	s := newTestStripe(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, fmt.Sprintf(productSearchPage, "false", "null"))
	})

	page, err := s.ListProducts(context.Background(), ProductQuery{
		Metadata: map[string]string{"recipient_account_id": "acct_1"},
		Limit:    10,
	})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "prod_1", page.Items[0].ID)
	assert.Equal(t, "prod_3", page.Items[1].ID)
	assert.False(t, page.HasMore)
}

func TestStripe_ListProducts_Unfiltered(t *testing.T) {
	var calls int32
	s := newTestStripe(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, "/v1/products", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("active"))
		assert.Equal(t, "6", r.URL.Query().Get("limit"))
		writeJSON(w, http.StatusOK, `{"object":"list","url":"/v1/products","has_more":true,"data":[
			{"id":"prod_9","object":"product","active":true,"name":"Mock interview",
			 "default_price":{"id":"price_9","object":"price","active":true,"unit_amount":9000,"currency":"eur"}}]}`)
	})

	page, err := s.ListProducts(context.Background(), ProductQuery{Limit: 5})
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	require.Len(t, page.Items, 1)
	assert.Equal(t, "eur", page.Items[0].Currency)
	assert.True(t, page.HasMore)
}

func TestStripe_GetPrice(t *testing.T) {
	s := newTestStripe(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/prices/price_1", r.URL.Path)
		assert.Equal(t, "product", r.URL.Query().Get("expand[0]"))
		writeJSON(w, http.StatusOK, `{"id":"price_1","object":"price","active":true,"unit_amount":5000,"currency":"usd",
			"product":{"id":"prod_1","object":"product","metadata":{"recipient_account_id":"acct_1"}}}`)
	})

	price, err := s.GetPrice(context.Background(), "price_1")
	require.NoError(t, err)
	assert.True(t, price.Active)
	assert.Equal(t, "prod_1", price.ProductID)
	assert.Equal(t, "acct_1", price.ProductMetadata["recipient_account_id"])
	assert.Equal(t, int64(5000), price.UnitAmountMinorUnits)
}

func TestStripe_CreateCheckoutSession(t *testing.T) {
	s := newTestStripe(t, func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		f := r.PostForm
		assert.Equal(t, "/v1/checkout/sessions", r.URL.Path)
		assert.Equal(t, "payment", f.Get("mode"))
		assert.Equal(t, "price_1", f.Get("line_items[0][price]"))
		assert.Equal(t, "2", f.Get("line_items[0][quantity]"))
		assert.Equal(t, "1000", f.Get("payment_intent_data[application_fee_amount]"))
		assert.Equal(t, "acct_1", f.Get("payment_intent_data[transfer_data][destination]"))
		assert.Equal(t, "https://app.example.com/success", f.Get("success_url"))
		assert.Equal(t, "https://app.example.com/cancel", f.Get("cancel_url"))
		assert.Equal(t, "buyer@example.com", f.Get("customer_email"))
		assert.Equal(t, "prod_1", f.Get("metadata[product_id]"))
		assert.Equal(t, "idem-c", r.Header.Get("Idempotency-Key"))

		writeJSON(w, http.StatusOK, `{"id":"cs_1","object":"checkout.session","url":"https://checkout.stripe.com/c/pay/cs_1"}`)
	})

	sess, err := s.CreateCheckoutSession(context.Background(), CheckoutSessionParams{
		PriceRef:             "price_1",
		Quantity:             2,
		ApplicationFeeAmount: 1000,
		DestinationAccountID: "acct_1",
		SuccessURL:           "https://app.example.com/success",
		CancelURL:            "https://app.example.com/cancel",
		CustomerEmail:        "buyer@example.com",
		Metadata:             map[string]string{"product_id": "prod_1"},
		IdempotencyKey:       "idem-c",
	})
	require.NoError(t, err)
	assert.Equal(t, "cs_1", sess.ID)
	assert.Equal(t, "https://checkout.stripe.com/c/pay/cs_1", sess.URL)
}

func TestStripe_GetEvent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer sk_test_key", r.Header.Get("Authorization"))
		assert.Equal(t, thinEventVersion, r.Header.Get("Stripe-Version"))

		switch r.URL.Path {
		case "/v2/core/events/evt_thin":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{
				"id": "evt_thin",
				"object": "v2.core.event",
				"type": "v2.core.account[requirements].updated",
				"created": "2024-10-22T16:26:51.421Z",
				"livemode": false,
				"related_object": {"id": "acct_42", "type": "v2.core.account", "url": "/v2/core/accounts/acct_42"}
			}`))
		case "/v2/core/events/evt_missing":
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":{"type":"invalid_request_error","code":"resource_missing","message":"No such event"}}`))
		default:
			w.WriteHeader(http.StatusBadGateway)
		}
	}))
	defer srv.Close()

	s := NewStripe("sk_test_key", WithAPIBase(srv.URL), WithHTTPClient(srv.Client()))

	ev, err := s.GetEvent(context.Background(), "evt_thin")
	require.NoError(t, err)
	assert.Equal(t, "evt_thin", ev.ID)
	assert.Equal(t, "v2.core.account[requirements].updated", ev.Type)
	assert.Equal(t, "acct_42", ev.AccountID)
	assert.Equal(t, 2024, ev.Created.Year())

	_, err = s.GetEvent(context.Background(), "evt_missing")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	_, err = s.GetEvent(context.Background(), "evt_flaky")
	assert.ErrorIs(t, err, domainerrors.ErrUpstreamUnavailable)
}
