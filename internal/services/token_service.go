package services

import (
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"

	"luxe/internal/apperror"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// TokenPair is the access and refresh token issued at sign-in and refresh.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// TokenClaims is the subset of claims the rest of the application reads.
type TokenClaims struct {
	UserID   string
	Username string
}

// TokenService signs and validates JWTs. Access and refresh tokens use
// separate secrets so one can never be presented as the other.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

// NewTokenService creates a new TokenService.
func NewTokenService(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *TokenService {
	return &TokenService{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

// Issue creates a fresh access/refresh pair for the user.
func (s *TokenService) Issue(userID, username string) (TokenPair, error) {
	access, err := s.sign(userID, username, tokenTypeAccess, s.accessSecret, s.accessTTL)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := s.sign(userID, username, tokenTypeRefresh, s.refreshSecret, s.refreshTTL)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *TokenService) sign(userID, username, typ string, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  userID,
		"username": username,
		"typ":      typ,
		"jti":      uuid.New().String(),
		"exp":      now.Add(ttl).Unix(),
		"iat":      now.Unix(),
	})

	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to generate %s token: %w", typ, err)
	}
	return signed, nil
}

// ValidateAccess parses an access token and returns its claims.
func (s *TokenService) ValidateAccess(tokenString string) (*TokenClaims, error) {
	return s.validate(tokenString, tokenTypeAccess, s.accessSecret)
}

// ValidateRefresh parses a refresh token and returns its claims.
func (s *TokenService) ValidateRefresh(tokenString string) (*TokenClaims, error) {
	return s.validate(tokenString, tokenTypeRefresh, s.refreshSecret)
}

func (s *TokenService) validate(tokenString, typ string, secret []byte) (*TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return nil, apperror.Unauthorized("Invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, apperror.Unauthorized("Invalid or expired token")
	}
	if t, _ := claims["typ"].(string); t != typ {
		return nil, apperror.Unauthorized("Invalid or expired token")
	}
	userID, _ := claims["user_id"].(string)
	if userID == "" {
		return nil, apperror.Unauthorized("Invalid or expired token")
	}
	username, _ := claims["username"].(string)
	return &TokenClaims{UserID: userID, Username: username}, nil
}
