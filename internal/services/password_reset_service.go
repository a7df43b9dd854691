package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"luxe/internal/apperror"
	"luxe/internal/models"
	"luxe/internal/repositories"
)

// ResetPasswordInput is the password reset submission.
type ResetPasswordInput struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}

// PasswordResetService issues and redeems password reset tokens.
//
// A token has the form "<selector>.<secret>". The selector is the primary key
// of the stored record and the secret is only kept as a bcrypt hash, so a
// submission costs one indexed lookup and one hash comparison.
type PasswordResetService struct {
	uow       repositories.UnitOfWork
	userRepo  repositories.UserRepository
	publisher EventPublisher
	ttl       time.Duration
	resetURL  string
}

// NewPasswordResetService creates a new PasswordResetService.
func NewPasswordResetService(uow repositories.UnitOfWork, userRepo repositories.UserRepository, publisher EventPublisher, ttl time.Duration, resetURL string) *PasswordResetService {
	return &PasswordResetService{
		uow:       uow,
		userRepo:  userRepo,
		publisher: publisher,
		ttl:       ttl,
		resetURL:  resetURL,
	}
}

// RequestReset creates a token for the account with this email and queues the
// reset mail. Unknown addresses are not reported to the caller.
func (s *PasswordResetService) RequestReset(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return apperror.Validation("Email is required")
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if repositories.IsNotFound(err) {
			log.Printf("Password reset requested for unknown email")
			return nil
		}
		return err
	}

	token, expiresAt, err := s.issue(ctx, user.ID)
	if err != nil {
		return err
	}

	publish(s.publisher, QueueMail, EventPasswordReset, PasswordResetMail{
		Email:     user.Email,
		Username:  user.Username,
		ResetLink: s.resetURL + "?token=" + token,
		ExpiresAt: expiresAt,
	})
	return nil
}

// issue replaces any outstanding tokens for the user with a new one.
func (s *PasswordResetService) issue(ctx context.Context, userID string) (string, time.Time, error) {
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate reset secret: %w", err)
	}
	secretHex := hex.EncodeToString(secret)

	hash, err := bcrypt.GenerateFromPassword([]byte(secretHex), bcrypt.DefaultCost)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to hash reset secret: %w", err)
	}

	record := &models.PasswordResetToken{
		ID:         uuid.New().String(),
		UserID:     userID,
		SecretHash: string(hash),
		ExpiresAt:  time.Now().Add(s.ttl),
	}
	err = s.uow.Do(ctx, func(repos repositories.Repositories) error {
		if err := repos.PasswordResets.DeleteByUser(ctx, userID); err != nil {
			return err
		}
		return repos.PasswordResets.Create(ctx, record)
	})
	if err != nil {
		return "", time.Time{}, err
	}
	return record.ID + "." + secretHex, record.ExpiresAt, nil
}

// ResetPassword redeems a token, sets the new password and revokes the
// stored refresh token. The token cannot be used twice.
func (s *PasswordResetService) ResetPassword(ctx context.Context, in ResetPasswordInput) error {
	in.Token = strings.TrimSpace(in.Token)
	if err := validateStruct("Token and new password are required", in); err != nil {
		return err
	}

	invalid := apperror.Validation("Invalid or expired reset token")
	selector, secret, ok := strings.Cut(in.Token, ".")
	if !ok || selector == "" || secret == "" {
		return invalid
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return s.uow.Do(ctx, func(repos repositories.Repositories) error {
		record, err := repos.PasswordResets.GetByID(ctx, selector)
		if err != nil {
			if repositories.IsNotFound(err) {
				return invalid
			}
			return err
		}
		if record.Expired(time.Now()) {
			return invalid
		}
		if bcrypt.CompareHashAndPassword([]byte(record.SecretHash), []byte(secret)) != nil {
			return invalid
		}

		if err := repos.Users.Update(ctx, record.UserID, map[string]interface{}{
			"password":      string(hashed),
			"refresh_token": "",
		}); err != nil {
			return err
		}
		if err := repos.PasswordResets.Delete(ctx, record.ID); err != nil {
			if repositories.IsNotFound(err) {
				return invalid
			}
			return err
		}
		return nil
	})
}
