package notification

import (
	"context"
	"fmt"
	"log/slog"

	"mentorpay/internal/repositories"
)

// Service is a minimal notification service implementation. Messages are
// written to the log until a delivery channel exists.
type Service struct {
	profiles repositories.ProfileRepository
	logger   *slog.Logger
}

// NewService creates a new notification service.
func NewService(profiles repositories.ProfileRepository, logger *slog.Logger) *Service {
	return &Service{profiles: profiles, logger: logger.With("component", "notification")}
}

// AccountReady tells the account's owner they can now be paid.
func (s *Service) AccountReady(ctx context.Context, accountID string) error {
	profile, err := s.profiles.GetByAccountID(ctx, accountID)
	if err != nil {
		return fmt.Errorf("notify account ready: %w", err)
	}
	s.logger.InfoContext(ctx, "notify user: ready to receive payments",
		"user_id", profile.UserID,
		"email", profile.Email,
		"account_id", accountID)
	return nil
}
