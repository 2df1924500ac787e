package auth

import (
	"context"
	"fmt"
	"time"

	apperrors "aits/internal/errors"
)

// TokenPair is what a successful login hands back to the client.
type TokenPair struct {
	Access  string
	Refresh string
}

// TokenService issues, verifies and revokes bearer credentials.
type TokenService interface {
	Issue(ctx context.Context, sub Subject) (TokenPair, error)
	Verify(accessToken string) (*Claims, error)
	Refresh(ctx context.Context, refreshToken string) (accessToken string, err error)
	Revoke(ctx context.Context, refreshToken string) error
}

type tokenService struct {
	jwt   *JWTService
	store TokenStoreInterface
	now   func() time.Time
}

// NewTokenService combines JWT signing with the Redis token store.
func NewTokenService(jwtService *JWTService, store TokenStoreInterface) TokenService {
	return &tokenService{jwt: jwtService, store: store, now: time.Now}
}

// Issue mints an access/refresh pair and registers the refresh token.
func (s *tokenService) Issue(ctx context.Context, sub Subject) (TokenPair, error) {
	access, err := s.jwt.GenerateAccessToken(sub)
	if err != nil {
		return TokenPair{}, fmt.Errorf("generate access token: %w", err)
	}

	tokenID, refresh, err := s.jwt.GenerateRefreshToken(sub)
	if err != nil {
		return TokenPair{}, fmt.Errorf("generate refresh token: %w", err)
	}

	if err := s.store.StoreRefreshToken(ctx, tokenID, sub, s.jwt.RefreshTTL()); err != nil {
		return TokenPair{}, fmt.Errorf("store refresh token: %w", err)
	}

	return TokenPair{Access: access, Refresh: refresh}, nil
}

// Verify validates an access token and returns its claims.
func (s *tokenService) Verify(accessToken string) (*Claims, error) {
	return s.jwt.ValidateAccessToken(accessToken)
}

// Refresh exchanges a live refresh token for a new access token.
func (s *tokenService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	if refreshToken == "" {
		return "", apperrors.ErrRefreshTokenRequired
	}

	claims, err := s.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		return "", apperrors.ErrInvalidRefreshToken
	}

	blacklisted, err := s.store.IsRefreshTokenBlacklisted(ctx, claims.ID)
	if err != nil {
		return "", err
	}
	if blacklisted {
		return "", apperrors.ErrTokenBlacklisted
	}

	// Verify token matches stored data
	stored, err := s.store.GetRefreshToken(ctx, claims.ID)
	if err != nil || stored != claims.Identity() {
		return "", apperrors.ErrInvalidRefreshToken
	}

	access, err := s.jwt.GenerateAccessToken(stored)
	if err != nil {
		return "", fmt.Errorf("generate access token: %w", err)
	}
	return access, nil
}

// Revoke places a refresh token on the revocation list. Revoking the same
// token twice fails with ErrTokenBlacklisted.
func (s *tokenService) Revoke(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return apperrors.ErrRefreshTokenRequired
	}

	claims, err := s.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		return apperrors.ErrInvalidRefreshToken
	}

	ttl := claims.ExpiresAt.Time.Sub(s.now())
	added, err := s.store.BlacklistRefreshToken(ctx, claims.ID, ttl)
	if err != nil {
		return err
	}
	if !added {
		return apperrors.ErrTokenBlacklisted
	}

	return s.store.DeleteRefreshToken(ctx, claims.ID)
}
