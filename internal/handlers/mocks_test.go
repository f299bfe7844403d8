package handlers_test

import (
	"context"

	"mentorpay/internal/services/account"
	"mentorpay/internal/services/catalog"
	"mentorpay/internal/services/checkout"
	"mentorpay/internal/services/onboarding"

	"github.com/stretchr/testify/mock"
)

type mockAccounts struct{ mock.Mock }

func (m *mockAccounts) ResolveAccountID(ctx context.Context, userID uint) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

func (m *mockAccounts) ResolveOwnedAccount(ctx context.Context, userID uint, requested string) (string, error) {
	args := m.Called(ctx, userID, requested)
	return args.String(0), args.Error(1)
}

func (m *mockAccounts) CreateAccount(ctx context.Context, userID uint, email string) (string, error) {
	args := m.Called(ctx, userID, email)
	return args.String(0), args.Error(1)
}

func (m *mockAccounts) FetchStatus(ctx context.Context, accountID string) (*account.Status, error) {
	args := m.Called(ctx, accountID)
	if s, ok := args.Get(0).(*account.Status); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAccounts) RefreshStatus(ctx context.Context, accountID string, scope account.Scope) (*account.Status, error) {
	args := m.Called(ctx, accountID, scope)
	if s, ok := args.Get(0).(*account.Status); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockOnboarding struct{ mock.Mock }

func (m *mockOnboarding) CreateOnboardingLink(ctx context.Context, accountID, returnURL string) (*onboarding.Link, error) {
	args := m.Called(ctx, accountID, returnURL)
	if l, ok := args.Get(0).(*onboarding.Link); ok {
		return l, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockCatalog struct{ mock.Mock }

func (m *mockCatalog) CreateProduct(ctx context.Context, in catalog.NewProduct) (*catalog.Product, error) {
	args := m.Called(ctx, in)
	if p, ok := args.Get(0).(*catalog.Product); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCatalog) ListProducts(ctx context.Context, filter catalog.ListFilter) (*catalog.ProductList, error) {
	args := m.Called(ctx, filter)
	if l, ok := args.Get(0).(*catalog.ProductList); ok {
		return l, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockCheckout struct{ mock.Mock }

func (m *mockCheckout) CreateCheckoutSession(ctx context.Context, req checkout.Request) (*checkout.Session, error) {
	args := m.Called(ctx, req)
	if s, ok := args.Get(0).(*checkout.Session); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockReconciler struct{ mock.Mock }

func (m *mockReconciler) HandleDelivery(ctx context.Context, payload []byte, signature string) error {
	return m.Called(ctx, payload, signature).Error(0)
}
