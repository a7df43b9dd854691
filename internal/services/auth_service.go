package services

import (
	"context"
	"crypto/subtle"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"luxe/internal/apperror"
	"luxe/internal/models"
	"luxe/internal/repositories"
)

// RegisterInput is the sign-up payload.
type RegisterInput struct {
	Username string `json:"username" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	FullName string `json:"fullname" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
	Address  string `json:"address"`
}

// LoginInput accepts either a username or an email.
type LoginInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password" validate:"required"`
}

// UpdateAccountInput holds the editable profile fields. Empty fields are left unchanged.
type UpdateAccountInput struct {
	FullName string `json:"fullname"`
	Email    string `json:"email" validate:"omitempty,email"`
	Address  string `json:"address"`
}

// AuthService handles business logic for authentication and authorization.
type AuthService struct {
	userRepo repositories.UserRepository
	tokens   *TokenService
	storage  FileStorage
	isAdmin  func(username string) bool
}

// NewAuthService creates a new AuthService. isAdmin decides which usernames
// register with the admin role; nil means nobody does.
func NewAuthService(userRepo repositories.UserRepository, tokens *TokenService, storage FileStorage, isAdmin func(username string) bool) *AuthService {
	if isAdmin == nil {
		isAdmin = func(string) bool { return false }
	}
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
		storage:  storage,
		isAdmin:  isAdmin,
	}
}

// RegisterUser validates the input, hashes the password and saves the user.
func (s *AuthService) RegisterUser(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Username = strings.ToLower(strings.TrimSpace(in.Username))
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.FullName = strings.TrimSpace(in.FullName)
	in.Address = strings.TrimSpace(in.Address)
	if err := validateStruct("All fields are required", in); err != nil {
		return nil, err
	}

	if err := s.ensureUnique(ctx, in.Username, in.Email, ""); err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	role := models.RoleCustomer
	if s.isAdmin(in.Username) {
		role = models.RoleAdmin
	}
	user := &models.User{
		Username:       in.Username,
		Email:          in.Email,
		FullName:       in.FullName,
		Address:        in.Address,
		Password:       string(hashedPassword),
		Role:           role,
		CustomerStatus: models.CustomerStatusActive,
		CustomerType:   models.CustomerTypeNew,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to register user: %w", err)
	}
	log.Printf("Registered user %s (%s)", user.Username, user.ID)
	return user, nil
}

// ensureUnique rejects a username or email already held by a user other than selfID.
func (s *AuthService) ensureUnique(ctx context.Context, username, email, selfID string) error {
	if username != "" {
		existing, err := s.userRepo.GetByUsername(ctx, username)
		if err == nil && existing.ID != selfID {
			return apperror.Conflict("User with username or email already exists")
		}
		if err != nil && !repositories.IsNotFound(err) {
			return err
		}
	}
	if email != "" {
		existing, err := s.userRepo.GetByEmail(ctx, email)
		if err == nil && existing.ID != selfID {
			return apperror.Conflict("User with username or email already exists")
		}
		if err != nil && !repositories.IsNotFound(err) {
			return err
		}
	}
	return nil
}

// LoginUser authenticates a user and returns a fresh token pair.
func (s *AuthService) LoginUser(ctx context.Context, in LoginInput) (*models.User, TokenPair, error) {
	username := strings.ToLower(strings.TrimSpace(in.Username))
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if username == "" && email == "" {
		return nil, TokenPair{}, apperror.Validation("Username or email is required")
	}
	if err := validateStruct("Password is required", in); err != nil {
		return nil, TokenPair{}, err
	}

	var (
		user *models.User
		err  error
	)
	if username != "" {
		user, err = s.userRepo.GetByUsername(ctx, username)
	} else {
		user, err = s.userRepo.GetByEmail(ctx, email)
	}
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, TokenPair{}, apperror.Unauthorized("Invalid user credentials")
		}
		return nil, TokenPair{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)); err != nil {
		return nil, TokenPair{}, apperror.Unauthorized("Invalid user credentials")
	}
	if user.CustomerStatus == models.CustomerStatusInactive {
		return nil, TokenPair{}, apperror.Forbidden("Account is inactive")
	}

	pair, err := s.tokens.Issue(user.ID, user.Username)
	if err != nil {
		return nil, TokenPair{}, err
	}
	now := time.Now()
	if err := s.userRepo.Update(ctx, user.ID, map[string]interface{}{
		"refresh_token": pair.RefreshToken,
		"last_login_at": now,
	}); err != nil {
		return nil, TokenPair{}, err
	}
	user.RefreshToken = pair.RefreshToken
	user.LastLoginAt = &now
	return user, pair, nil
}

// RefreshSession exchanges a refresh token for a new pair. The presented token
// must match the one stored on the user, so a rotated or revoked token fails.
func (s *AuthService) RefreshSession(ctx context.Context, refreshToken string) (*models.User, TokenPair, error) {
	if refreshToken == "" {
		return nil, TokenPair{}, apperror.Unauthorized("Unauthorized request")
	}
	claims, err := s.tokens.ValidateRefresh(refreshToken)
	if err != nil {
		return nil, TokenPair{}, err
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, TokenPair{}, apperror.Unauthorized("Invalid refresh token")
		}
		return nil, TokenPair{}, err
	}
	if subtle.ConstantTimeCompare([]byte(user.RefreshToken), []byte(refreshToken)) != 1 {
		return nil, TokenPair{}, apperror.Unauthorized("Refresh token is expired or used")
	}
	if user.CustomerStatus == models.CustomerStatusInactive {
		return nil, TokenPair{}, apperror.Forbidden("Account is inactive")
	}

	pair, err := s.tokens.Issue(user.ID, user.Username)
	if err != nil {
		return nil, TokenPair{}, err
	}
	if err := s.userRepo.Update(ctx, user.ID, map[string]interface{}{"refresh_token": pair.RefreshToken}); err != nil {
		return nil, TokenPair{}, err
	}
	user.RefreshToken = pair.RefreshToken
	return user, pair, nil
}

// LogoutUser revokes the stored refresh token.
func (s *AuthService) LogoutUser(ctx context.Context, userID string) error {
	return s.userRepo.Update(ctx, userID, map[string]interface{}{"refresh_token": ""})
}

// Authenticate resolves an access token to an active user.
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (*models.User, error) {
	if accessToken == "" {
		return nil, apperror.Unauthorized("Unauthorized request")
	}
	claims, err := s.tokens.ValidateAccess(accessToken)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, apperror.Unauthorized("Invalid access token")
		}
		return nil, err
	}
	if user.CustomerStatus == models.CustomerStatusInactive {
		return nil, apperror.Forbidden("Account is inactive")
	}
	return user, nil
}

// GetUser returns the user with the given ID.
func (s *AuthService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

// UpdateAccount changes profile fields, re-checking email uniqueness.
func (s *AuthService) UpdateAccount(ctx context.Context, userID string, in UpdateAccountInput) (*models.User, error) {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Address = strings.TrimSpace(in.Address)
	if in.FullName == "" && in.Email == "" && in.Address == "" {
		return nil, apperror.Validation("At least one field is required")
	}
	if err := validateStruct("Invalid account details", in); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if in.FullName != "" {
		fields["full_name"] = in.FullName
	}
	if in.Address != "" {
		fields["address"] = in.Address
	}
	if in.Email != "" {
		if err := s.ensureUnique(ctx, "", in.Email, userID); err != nil {
			return nil, err
		}
		fields["email"] = in.Email
	}

	if err := s.userRepo.Update(ctx, userID, fields); err != nil {
		return nil, err
	}
	return s.userRepo.GetByID(ctx, userID)
}

// UpdateAvatar stores the uploaded image and points the user's avatar at it.
func (s *AuthService) UpdateAvatar(ctx context.Context, userID, filename string, r io.Reader) (*models.User, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
	default:
		return nil, apperror.Validation("Avatar must be an image file")
	}

	url, err := s.storage.Save(ctx, filename, r)
	if err != nil {
		return nil, fmt.Errorf("failed to upload avatar: %w", err)
	}
	if err := s.userRepo.Update(ctx, userID, map[string]interface{}{"avatar": url}); err != nil {
		return nil, err
	}
	return s.userRepo.GetByID(ctx, userID)
}
