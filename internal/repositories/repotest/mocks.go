// Package repotest offers testify mocks of the repository interfaces.
package repotest

import (
	"context"

	"mentorpay/internal/models"
	"mentorpay/internal/repositories"

	"github.com/stretchr/testify/mock"
)

type MockProfileRepository struct {
	mock.Mock
}

var _ repositories.ProfileRepository = (*MockProfileRepository)(nil)

func (m *MockProfileRepository) GetByUserID(ctx context.Context, userID uint) (*models.Profile, error) {
	args := m.Called(ctx, userID)
	if p, ok := args.Get(0).(*models.Profile); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProfileRepository) GetByAccountID(ctx context.Context, accountID string) (*models.Profile, error) {
	args := m.Called(ctx, accountID)
	if p, ok := args.Get(0).(*models.Profile); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProfileRepository) AttachAccount(ctx context.Context, userID uint, email, accountID string) (*models.Profile, error) {
	args := m.Called(ctx, userID, email, accountID)
	if p, ok := args.Get(0).(*models.Profile); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProfileRepository) UpdateStatus(ctx context.Context, accountID string, update models.StatusUpdate) error {
	args := m.Called(ctx, accountID, update)
	return args.Error(0)
}

type MockPaymentEventRepository struct {
	mock.Mock
}

var _ repositories.PaymentEventRepository = (*MockPaymentEventRepository)(nil)

func (m *MockPaymentEventRepository) Record(ctx context.Context, event *models.PaymentEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockPaymentEventRepository) MarkProcessed(ctx context.Context, outcome models.EventOutcome) error {
	args := m.Called(ctx, outcome)
	return args.Error(0)
}

func (m *MockPaymentEventRepository) Recent(ctx context.Context, accountID string, limit int) ([]models.PaymentEvent, error) {
	args := m.Called(ctx, accountID, limit)
	if e, ok := args.Get(0).([]models.PaymentEvent); ok {
		return e, args.Error(1)
	}
	return nil, args.Error(1)
}
