// Package onboarding issues provider-hosted onboarding links for recipient
// accounts.
package onboarding

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	domainerrors "mentorpay/internal/errors"
	"mentorpay/internal/provider"
)

type Link struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type Service interface {
	// CreateOnboardingLink issues a single-use link for accountID. An empty
	// returnURL sends the user back to the status page.
	CreateOnboardingLink(ctx context.Context, accountID, returnURL string) (*Link, error)
}

// Config holds the app URLs the provider redirects to.
type Config struct {
	AppURL        string
	DashboardPath string
	StatusPath    string
}

type service struct {
	provider provider.Provider
	cfg      Config
}

func NewService(p provider.Provider, cfg Config) Service {
	cfg.AppURL = strings.TrimRight(cfg.AppURL, "/")
	return &service{provider: p, cfg: cfg}
}

func (s *service) CreateOnboardingLink(ctx context.Context, accountID, returnURL string) (*Link, error) {
	if accountID == "" {
		return nil, domainerrors.ErrAccountNotFound
	}

	ret, err := s.returnURL(accountID, returnURL)
	if err != nil {
		return nil, err
	}

	link, err := s.provider.CreateAccountLink(ctx, provider.AccountLinkParams{
		AccountID:  accountID,
		RefreshURL: s.refreshURL(accountID),
		ReturnURL:  ret,
	})
	if err != nil {
		if domainerrors.KindOf(err) == domainerrors.KindNotFound {
			return nil, domainerrors.WithCause(domainerrors.ErrAccountNotFound, err)
		}
		return nil, fmt.Errorf("create onboarding link: %w", err)
	}

	return &Link{URL: link.URL, ExpiresAt: link.ExpiresAt}, nil
}

func (s *service) refreshURL(accountID string) string {
	return s.cfg.AppURL + s.cfg.DashboardPath + "?refresh=true&accountId=" + url.QueryEscape(accountID)
}

// returnURL resolves the caller's return URL. Relative paths are joined to
// the app URL; absolute ones must be http(s).
func (s *service) returnURL(accountID, requested string) (string, error) {
	if requested == "" {
		return s.cfg.AppURL + s.cfg.StatusPath + "?accountId=" + url.QueryEscape(accountID), nil
	}
	if strings.HasPrefix(requested, "/") && !strings.HasPrefix(requested, "//") {
		return s.cfg.AppURL + requested, nil
	}
	u, err := url.Parse(requested)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", domainerrors.InvalidArgument("returnUrl must be a path or an absolute http(s) URL")
	}
	return requested, nil
}
