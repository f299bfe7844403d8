package repositories

import (
	"context"

	"mentorpay/internal/models"
)

// ProfileRepository defines the profile-store operations of the payments core
type ProfileRepository interface {
	// GetByUserID returns the user's profile or ErrProfileNotFound
	GetByUserID(ctx context.Context, userID uint) (*models.Profile, error)

	// GetByAccountID returns the profile linked to a recipient account
	GetByAccountID(ctx context.Context, accountID string) (*models.Profile, error)

	// AttachAccount links accountID to the user, creating the profile if needed
	AttachAccount(ctx context.Context, userID uint, email, accountID string) (*models.Profile, error)

	// UpdateStatus writes derived status fields for the profile owning accountID
	UpdateStatus(ctx context.Context, accountID string, update models.StatusUpdate) error
}

// Implementation is in profile_repository_impl.go
