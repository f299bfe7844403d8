package repositories

import (
	"context"
	"errors"

	domainerrors "mentorpay/internal/errors"
	"mentorpay/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new instance of ProfileRepository
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) GetByUserID(ctx context.Context, userID uint) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, mapDBError(err, domainerrors.ErrProfileNotFound)
	}
	return &profile, nil
}

func (r *profileRepository) GetByAccountID(ctx context.Context, accountID string) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).Where("recipient_account_id = ?", accountID).First(&profile).Error; err != nil {
		return nil, mapDBError(err, domainerrors.ErrProfileNotFound)
	}
	return &profile, nil
}

func (r *profileRepository) AttachAccount(ctx context.Context, userID uint, email, accountID string) (*models.Profile, error) {
	profile := &models.Profile{
		UserID:             userID,
		Email:              email,
		RecipientAccountID: &accountID,
		CapabilityStatus:   models.CapabilityInactive,
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"recipient_account_id", "email", "updated_at"}),
	}).Create(profile).Error
	if err != nil {
		return nil, mapDBError(err, nil)
	}
	return r.GetByUserID(ctx, userID)
}

func (r *profileRepository) UpdateStatus(ctx context.Context, accountID string, update models.StatusUpdate) error {
	result := r.db.WithContext(ctx).
		Model(&models.Profile{}).
		Where("recipient_account_id = ?", accountID).
		Updates(update.Columns())
	if result.Error != nil {
		return mapDBError(result.Error, nil)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrProfileNotFound
	}
	return nil
}

// mapDBError turns a gorm error into a domain error. notFound is returned
// for a missing record when non-nil.
func mapDBError(err error, notFound *domainerrors.DomainError) error {
	if errors.Is(err, gorm.ErrRecordNotFound) && notFound != nil {
		return notFound
	}
	return domainerrors.WithCause(domainerrors.ErrStoreUnavailable, err)
}
