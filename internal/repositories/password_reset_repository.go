package repositories

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"luxe/internal/apperror"
	"luxe/internal/models"
)

// PasswordResetRepository stores hashed password reset tokens.
type PasswordResetRepository interface {
	Create(ctx context.Context, token *models.PasswordResetToken) error
	GetByID(ctx context.Context, id string) (*models.PasswordResetToken, error)
	Delete(ctx context.Context, id string) error
	DeleteByUser(ctx context.Context, userID string) error
}

// GORMPasswordResetRepository is a GORM implementation of PasswordResetRepository.
type GORMPasswordResetRepository struct {
	db *gorm.DB
}

func NewGORMPasswordResetRepository(db *gorm.DB) *GORMPasswordResetRepository {
	return &GORMPasswordResetRepository{db: db}
}

func (r *GORMPasswordResetRepository) Create(ctx context.Context, token *models.PasswordResetToken) error {
	if err := r.db.WithContext(ctx).Create(token).Error; err != nil {
		return fmt.Errorf("failed to create reset token: %w", err)
	}
	return nil
}

func (r *GORMPasswordResetRepository) GetByID(ctx context.Context, id string) (*models.PasswordResetToken, error) {
	var token models.PasswordResetToken
	if err := r.db.WithContext(ctx).First(&token, "id = ?", id).Error; err != nil {
		return nil, translate(err, "Invalid or expired reset token", "get reset token")
	}
	return &token, nil
}

// Delete removes a single token. It reports NotFound when the token is
// already gone, so only one redemption can succeed.
func (r *GORMPasswordResetRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.PasswordResetToken{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete reset token: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("Invalid or expired reset token")
	}
	return nil
}

func (r *GORMPasswordResetRepository) DeleteByUser(ctx context.Context, userID string) error {
	if err := r.db.WithContext(ctx).Delete(&models.PasswordResetToken{}, "user_id = ?", userID).Error; err != nil {
		return fmt.Errorf("failed to delete reset tokens for user: %w", err)
	}
	return nil
}
