package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	domainerrors "mentorpay/internal/errors"

	"github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/client"
)

const (
	defaultAPIBase = "https://api.stripe.com"
	// thinEventVersion is sent on the v2 events endpoint, which the pinned
	// SDK predates.
	thinEventVersion = "2024-09-30.acacia"
	listPageSize     = 100
)

// Stripe implements Provider on top of stripe-go.
type Stripe struct {
	api        *client.API
	backends   *stripe.Backends
	key        string
	apiBase    string
	httpClient *http.Client
}

type StripeOption func(*Stripe)

// WithAPIBase points the raw v2 calls at another host. Used by tests.
func WithAPIBase(base string) StripeOption {
	return func(s *Stripe) { s.apiBase = strings.TrimRight(base, "/") }
}

func WithHTTPClient(c *http.Client) StripeOption {
	return func(s *Stripe) { s.httpClient = c }
}

// WithBackends routes the SDK calls through the given backends.
func WithBackends(b *stripe.Backends) StripeOption {
	return func(s *Stripe) { s.backends = b }
}

func NewStripe(secretKey string, opts ...StripeOption) *Stripe {
	s := &Stripe{
		key:        secretKey,
		apiBase:    defaultAPIBase,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.api = client.New(secretKey, s.backends)
	return s
}

func (s *Stripe) CreateAccount(ctx context.Context, p CreateAccountParams) (*Account, error) {
	params := &stripe.AccountParams{
		Type:  stripe.String(string(stripe.AccountTypeExpress)),
		Email: stripe.String(p.Email),
		Capabilities: &stripe.AccountCapabilitiesParams{
			Transfers: &stripe.AccountCapabilitiesTransfersParams{
				Requested: stripe.Bool(true),
			},
		},
	}
	if p.Country != "" {
		params.Country = stripe.String(p.Country)
	}
	params.Context = ctx
	params.AddMetadata("user_id", fmt.Sprint(p.UserID))
	if p.IdempotencyKey != "" {
		params.SetIdempotencyKey(p.IdempotencyKey)
	}

	acct, err := s.api.Account.New(params)
	if err != nil {
		return nil, MapError(err)
	}
	return toAccount(acct), nil
}

func (s *Stripe) GetAccount(ctx context.Context, accountID string) (*Account, error) {
	params := &stripe.AccountParams{}
	params.Context = ctx

	acct, err := s.api.Account.GetByID(accountID, params)
	if err != nil {
		return nil, MapError(err)
	}
	return toAccount(acct), nil
}

func (s *Stripe) CreateAccountLink(ctx context.Context, p AccountLinkParams) (*AccountLink, error) {
	params := &stripe.AccountLinkParams{
		Account:    stripe.String(p.AccountID),
		RefreshURL: stripe.String(p.RefreshURL),
		ReturnURL:  stripe.String(p.ReturnURL),
		Type:       stripe.String(string(stripe.AccountLinkTypeAccountOnboarding)),
	}
	params.Context = ctx

	link, err := s.api.AccountLinks.New(params)
	if err != nil {
		return nil, MapError(err)
	}
	return &AccountLink{URL: link.URL, ExpiresAt: time.Unix(link.ExpiresAt, 0).UTC()}, nil
}

// CreateProduct creates the product together with its default one-off price.
func (s *Stripe) CreateProduct(ctx context.Context, p CreateProductParams) (*Product, error) {
	params := &stripe.ProductParams{
		Name: stripe.String(p.Name),
		DefaultPriceData: &stripe.ProductDefaultPriceDataParams{
			UnitAmount: stripe.Int64(p.UnitAmountMinorUnits),
			Currency:   stripe.String(p.Currency),
		},
	}
	if p.Description != "" {
		params.Description = stripe.String(p.Description)
	}
	params.Context = ctx
	params.AddExpand("default_price")
	for k, v := range p.Metadata {
		params.AddMetadata(k, v)
	}
	if p.IdempotencyKey != "" {
		params.SetIdempotencyKey(p.IdempotencyKey)
	}

	prod, err := s.api.Products.New(params)
	if err != nil {
		return nil, MapError(err)
	}
	if prod.DefaultPrice == nil {
		return nil, domainerrors.UpstreamUnavailable("payment provider returned product "+prod.ID+" without a price", nil)
	}
	return toProduct(prod), nil
}

// ListProducts reads a single page of active products with their default
// price expanded. A metadata filter runs provider-side as a product search,
// so a listing never costs more than one upstream call.
func (s *Stripe) ListProducts(ctx context.Context, q ProductQuery) (*ProductPage, error) {
	limit := q.Limit
	if limit <= 0 || limit > listPageSize {
		limit = listPageSize
	}
	fetch := int64(limit + 1)
	if fetch > listPageSize {
		fetch = listPageSize
	}

	var (
		products []*stripe.Product
		more     bool
		err      error
	)
	if len(q.Metadata) == 0 {
		params := &stripe.ProductListParams{Active: stripe.Bool(true)}
		params.Context = ctx
		params.Limit = stripe.Int64(fetch)
		params.Single = true
		params.AddExpand("data.default_price")

		iter := s.api.Products.List(params)
		for iter.Next() {
			products = append(products, iter.Product())
		}
		err = iter.Err()
		if meta := iter.Meta(); err == nil && meta != nil {
			more = meta.HasMore
		}
	} else {
		params := &stripe.ProductSearchParams{}
		params.Query = productSearchQuery(q.Metadata)
		params.Context = ctx
		params.Limit = stripe.Int64(fetch)
		params.Single = true
		params.AddExpand("data.default_price")

		iter := s.api.Products.Search(params)
		for iter.Next() {
			products = append(products, iter.Product())
		}
		err = iter.Err()
		if meta := iter.Meta(); err == nil && meta != nil {
			more = meta.HasMore
		}
	}
	if err != nil {
		return nil, MapError(err)
	}

	page := &ProductPage{Items: make([]Product, 0, limit), HasMore: more}
	for _, prod := range products {
		if prod.Deleted || !prod.Active || prod.DefaultPrice == nil || !prod.DefaultPrice.Active {
			continue
		}
		if len(page.Items) == limit {
			page.HasMore = true
			break
		}
		page.Items = append(page.Items, *toProduct(prod))
	}
	return page, nil
}

func (s *Stripe) GetPrice(ctx context.Context, priceID string) (*Price, error) {
	params := &stripe.PriceParams{}
	params.Context = ctx
	params.AddExpand("product")

	price, err := s.api.Prices.Get(priceID, params)
	if err != nil {
		return nil, MapError(err)
	}

	out := &Price{
		ID:                   price.ID,
		Active:               price.Active,
		UnitAmountMinorUnits: price.UnitAmount,
		Currency:             string(price.Currency),
	}
	if price.Product != nil {
		out.ProductID = price.Product.ID
		out.ProductMetadata = price.Product.Metadata
	}
	return out, nil
}

func (s *Stripe) CreateCheckoutSession(ctx context.Context, p CheckoutSessionParams) (*CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(p.PriceRef),
				Quantity: stripe.Int64(p.Quantity),
			},
		},
		PaymentIntentData: &stripe.CheckoutSessionPaymentIntentDataParams{
			ApplicationFeeAmount: stripe.Int64(p.ApplicationFeeAmount),
			TransferData: &stripe.CheckoutSessionPaymentIntentDataTransferDataParams{
				Destination: stripe.String(p.DestinationAccountID),
			},
		},
		SuccessURL: stripe.String(p.SuccessURL),
		CancelURL:  stripe.String(p.CancelURL),
	}
	if p.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(p.CustomerEmail)
	}
	params.Context = ctx
	for k, v := range p.Metadata {
		params.AddMetadata(k, v)
	}
	if p.IdempotencyKey != "" {
		params.SetIdempotencyKey(p.IdempotencyKey)
	}

	sess, err := s.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, MapError(err)
	}
	return &CheckoutSession{ID: sess.ID, URL: sess.URL}, nil
}

// thinEventPayload is the v2 event resource.
type thinEventPayload struct {
	ID            string    `json:"id"`
	Type          string    `json:"type"`
	Created       time.Time `json:"created"`
	Livemode      bool      `json:"livemode"`
	Context       string    `json:"context"`
	RelatedObject *struct {
		ID   string `json:"id"`
		Type string `json:"type"`
	} `json:"related_object"`
}

func (s *Stripe) GetEvent(ctx context.Context, eventID string) (*Event, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.apiBase+"/v2/core/events/"+eventID, nil)
	if err != nil {
		return nil, MapError(err)
	}
	req.Header.Set("Authorization", "Bearer "+s.key)
	req.Header.Set("Stripe-Version", thinEventVersion)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, MapError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, MapError(decodeErrorBody(resp))
	}

	var payload thinEventPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, MapError(fmt.Errorf("decode event %s: %w", eventID, err))
	}

	ev := &Event{
		ID:       payload.ID,
		Type:     payload.Type,
		Created:  payload.Created.UTC(),
		Livemode: payload.Livemode,
	}
	if payload.RelatedObject != nil && strings.HasSuffix(payload.RelatedObject.Type, "account") {
		ev.AccountID = payload.RelatedObject.ID
	} else if strings.HasPrefix(payload.Context, "acct_") {
		ev.AccountID = payload.Context
	}
	return ev, nil
}

// decodeErrorBody turns a v2 error response into a *stripe.Error so it maps
// like every SDK error.
func decodeErrorBody(resp *http.Response) error {
	var body struct {
		Error struct {
			Type    string `json:"type"`
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&body)
	return &stripe.Error{
		HTTPStatusCode: resp.StatusCode,
		Type:           stripe.ErrorType(body.Error.Type),
		Code:           stripe.ErrorCode(body.Error.Code),
		Msg:            body.Error.Message,
	}
}

func toAccount(a *stripe.Account) *Account {
	out := &Account{ID: a.ID}
	if a.Capabilities != nil {
		out.Capability = string(a.Capabilities.Transfers)
	}
	if a.Requirements != nil {
		out.DisabledReason = string(a.Requirements.DisabledReason)
		out.Requirements = &Requirements{
			CurrentlyDue:        a.Requirements.CurrentlyDue,
			PastDue:             a.Requirements.PastDue,
			PendingVerification: a.Requirements.PendingVerification,
		}
	}
	return out
}

// productSearchQuery renders a metadata filter in the provider's search
// query language. Keys are sorted so equal filters produce equal queries.
func productSearchQuery(metadata map[string]string) string {
	keys := make([]string, 0, len(metadata))
	for k := range metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	clauses := []string{"active:'true'"}
	for _, k := range keys {
		clauses = append(clauses, fmt.Sprintf("metadata['%s']:'%s'", searchEscape(k), searchEscape(metadata[k])))
	}
	return strings.Join(clauses, " AND ")
}

func searchEscape(v string) string {
	return strings.ReplaceAll(v, "'", `\'`)
}

func toProduct(prod *stripe.Product) *Product {
	out := &Product{
		ID:          prod.ID,
		Name:        prod.Name,
		Description: prod.Description,
		Metadata:    prod.Metadata,
		CreatedAt:   time.Unix(prod.Created, 0).UTC(),
	}
	if price := prod.DefaultPrice; price != nil {
		out.PriceRef = price.ID
		out.UnitAmountMinorUnits = price.UnitAmount
		out.Currency = string(price.Currency)
	}
	return out
}
