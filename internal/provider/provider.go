// Package provider is the narrow capability handle the payments core holds on
// the payment provider. Services depend on the Provider interface; Stripe is
// the only implementation.
package provider

import (
	"context"
	"time"
)

// Provider lists every upstream call the payments core makes.
type Provider interface {
	CreateAccount(ctx context.Context, params CreateAccountParams) (*Account, error)
	GetAccount(ctx context.Context, accountID string) (*Account, error)
	CreateAccountLink(ctx context.Context, params AccountLinkParams) (*AccountLink, error)

	CreateProduct(ctx context.Context, params CreateProductParams) (*Product, error)
	ListProducts(ctx context.Context, query ProductQuery) (*ProductPage, error)
	GetPrice(ctx context.Context, priceID string) (*Price, error)

	CreateCheckoutSession(ctx context.Context, params CheckoutSessionParams) (*CheckoutSession, error)

	// GetEvent retrieves the full form of a thin event by id.
	GetEvent(ctx context.Context, eventID string) (*Event, error)
}

// Account is the provider's raw view of a recipient account.
type Account struct {
	ID string
	// Capability is the raw transfers capability state, "" when absent.
	Capability     string
	DisabledReason string
	// Requirements is nil when the provider sent no requirements block.
	Requirements *Requirements
}

type Requirements struct {
	CurrentlyDue        []string
	PastDue             []string
	PendingVerification []string
}

type CreateAccountParams struct {
	UserID         uint
	Email          string
	Country        string
	IdempotencyKey string
}

type AccountLinkParams struct {
	AccountID  string
	RefreshURL string
	ReturnURL  string
}

type AccountLink struct {
	URL       string
	ExpiresAt time.Time
}

type CreateProductParams struct {
	Name                 string
	Description          string
	UnitAmountMinorUnits int64
	Currency             string
	Metadata             map[string]string
	IdempotencyKey       string
}

// Product is a provider product joined with its single price.
type Product struct {
	ID                   string
	PriceRef             string
	Name                 string
	Description          string
	UnitAmountMinorUnits int64
	Currency             string
	Metadata             map[string]string
	CreatedAt            time.Time
}

// ProductQuery selects active products whose metadata contains every pair
// in Metadata.
type ProductQuery struct {
	Metadata map[string]string
	Limit    int
}

type ProductPage struct {
	Items   []Product
	HasMore bool
}

type Price struct {
	ID                   string
	ProductID            string
	ProductMetadata      map[string]string
	Active               bool
	UnitAmountMinorUnits int64
	Currency             string
}

type CheckoutSessionParams struct {
	PriceRef             string
	Quantity             int64
	ApplicationFeeAmount int64
	DestinationAccountID string
	SuccessURL           string
	CancelURL            string
	CustomerEmail        string
	Metadata             map[string]string
	IdempotencyKey       string
}

type CheckoutSession struct {
	ID  string
	URL string
}

// Event is the normalized form of a provider event, snapshot or thin.
type Event struct {
	ID        string
	Type      string
	AccountID string
	Created   time.Time
	Livemode  bool
}
