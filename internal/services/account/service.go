// Package account manages the link between marketplace users and their
// payable recipient accounts, and derives their payment readiness.
package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	domainerrors "mentorpay/internal/errors"
	"mentorpay/internal/models"
	"mentorpay/internal/provider"
	"mentorpay/internal/repositories"

	"github.com/google/uuid"
)

// Scope selects which derived fields a refresh persists.
type Scope int

const (
	ScopeAll Scope = iota
	ScopeRequirements
	ScopeCapability
)

func (s Scope) String() string {
	switch s {
	case ScopeRequirements:
		return "requirements"
	case ScopeCapability:
		return "capability"
	default:
		return "all"
	}
}

type Service interface {
	// ResolveAccountID returns the user's recipient account or ErrAccountNotFound.
	ResolveAccountID(ctx context.Context, userID uint) (string, error)
	// ResolveOwnedAccount returns requested when it belongs to userID, or the
	// user's own account when requested is empty.
	ResolveOwnedAccount(ctx context.Context, userID uint, requested string) (string, error)
	// CreateAccount returns the user's account, creating it on first use.
	CreateAccount(ctx context.Context, userID uint, email string) (string, error)
	// FetchStatus reads the account upstream and derives its status.
	FetchStatus(ctx context.Context, accountID string) (*Status, error)
	// RefreshStatus is FetchStatus followed by persisting the scoped fields.
	RefreshStatus(ctx context.Context, accountID string, scope Scope) (*Status, error)
}

// idempotencyNamespace seeds the per-user account creation keys.
var idempotencyNamespace = uuid.MustParse("6f1c7a52-8d0e-4b53-9a3e-2f5d41c0b7e9")

type service struct {
	provider provider.Provider
	profiles repositories.ProfileRepository
	logger   *slog.Logger
	now      func() time.Time
}

func NewService(p provider.Provider, profiles repositories.ProfileRepository, logger *slog.Logger) Service {
	return &service{
		provider: p,
		profiles: profiles,
		logger:   logger.With("component", "account"),
		now:      time.Now,
	}
}

func (s *service) ResolveAccountID(ctx context.Context, userID uint) (string, error) {
	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrProfileNotFound) {
			return "", domainerrors.ErrAccountNotFound
		}
		return "", err
	}
	if profile.AccountID() == "" {
		return "", domainerrors.ErrAccountNotFound
	}
	return profile.AccountID(), nil
}

func (s *service) ResolveOwnedAccount(ctx context.Context, userID uint, requested string) (string, error) {
	own, err := s.ResolveAccountID(ctx, userID)
	if err != nil {
		return "", err
	}
	if requested != "" && requested != own {
		return "", domainerrors.ErrAccountNotOwned
	}
	return own, nil
}

func (s *service) CreateAccount(ctx context.Context, userID uint, email string) (string, error) {
	existing, err := s.ResolveAccountID(ctx, userID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domainerrors.ErrAccountNotFound) {
		return "", err
	}

	key := uuid.NewSHA1(idempotencyNamespace, []byte(fmt.Sprintf("recipient-account:%d", userID)))
	acct, err := s.provider.CreateAccount(ctx, provider.CreateAccountParams{
		UserID:         userID,
		Email:          email,
		IdempotencyKey: key.String(),
	})
	if err != nil {
		return "", fmt.Errorf("create recipient account: %w", err)
	}

	if _, err := s.profiles.AttachAccount(ctx, userID, email, acct.ID); err != nil {
		// The provider call is keyed per user, so a retry gets the same account back.
		s.logger.ErrorContext(ctx, "failed to store recipient account",
			"user_id", userID, "account_id", acct.ID, "error", err)
		return "", err
	}

	s.logger.InfoContext(ctx, "recipient account created", "user_id", userID, "account_id", acct.ID)
	return acct.ID, nil
}

func (s *service) FetchStatus(ctx context.Context, accountID string) (*Status, error) {
	if accountID == "" {
		return nil, domainerrors.ErrAccountNotFound
	}
	acct, err := s.provider.GetAccount(ctx, accountID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.WithCause(domainerrors.ErrAccountNotFound, err)
		}
		return nil, err
	}
	status := Derive(acct)
	return &status, nil
}

func (s *service) RefreshStatus(ctx context.Context, accountID string, scope Scope) (*Status, error) {
	status, err := s.FetchStatus(ctx, accountID)
	if err != nil {
		return nil, err
	}

	update := models.StatusUpdate{SyncedAt: s.now().UTC()}
	if scope == ScopeAll || scope == ScopeRequirements {
		update.RequirementsStatus = &status.RequirementsStatus
		update.OnboardingComplete = &status.OnboardingComplete
	}
	if scope == ScopeAll || scope == ScopeCapability {
		update.CapabilityStatus = &status.CapabilityStatus
		update.ReadyToReceivePayments = &status.ReadyToReceivePayments
	}

	if err := s.profiles.UpdateStatus(ctx, accountID, update); err != nil {
		return status, err
	}

	s.logger.DebugContext(ctx, "recipient status persisted",
		"account_id", accountID,
		"scope", scope.String(),
		"onboarding_complete", status.OnboardingComplete,
		"ready_to_receive_payments", status.ReadyToReceivePayments)
	return status, nil
}
