// Package providertest offers a testify mock of provider.Provider.
package providertest

import (
	"context"

	"mentorpay/internal/provider"

	"github.com/stretchr/testify/mock"
)

type MockProvider struct {
	mock.Mock
}

var _ provider.Provider = (*MockProvider)(nil)

func (m *MockProvider) CreateAccount(ctx context.Context, params provider.CreateAccountParams) (*provider.Account, error) {
	args := m.Called(ctx, params)
	if a, ok := args.Get(0).(*provider.Account); ok {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProvider) GetAccount(ctx context.Context, accountID string) (*provider.Account, error) {
	args := m.Called(ctx, accountID)
	if a, ok := args.Get(0).(*provider.Account); ok {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProvider) CreateAccountLink(ctx context.Context, params provider.AccountLinkParams) (*provider.AccountLink, error) {
	args := m.Called(ctx, params)
	if l, ok := args.Get(0).(*provider.AccountLink); ok {
		return l, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProvider) CreateProduct(ctx context.Context, params provider.CreateProductParams) (*provider.Product, error) {
	args := m.Called(ctx, params)
	if p, ok := args.Get(0).(*provider.Product); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProvider) ListProducts(ctx context.Context, query provider.ProductQuery) (*provider.ProductPage, error) {
	args := m.Called(ctx, query)
	if p, ok := args.Get(0).(*provider.ProductPage); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProvider) GetPrice(ctx context.Context, priceID string) (*provider.Price, error) {
	args := m.Called(ctx, priceID)
	if p, ok := args.Get(0).(*provider.Price); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProvider) CreateCheckoutSession(ctx context.Context, params provider.CheckoutSessionParams) (*provider.CheckoutSession, error) {
	args := m.Called(ctx, params)
	if s, ok := args.Get(0).(*provider.CheckoutSession); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProvider) GetEvent(ctx context.Context, eventID string) (*provider.Event, error) {
	args := m.Called(ctx, eventID)
	if e, ok := args.Get(0).(*provider.Event); ok {
		return e, args.Error(1)
	}
	return nil, args.Error(1)
}
