package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"aits/internal/cache"
)

const (
	refreshTokenKeyPrefix = "refresh_token:"
	blacklistKeyPrefix    = "blacklist:refresh_token:"
)

// TokenStoreInterface defines the interface for token storage operations.
type TokenStoreInterface interface {
	StoreRefreshToken(ctx context.Context, tokenID string, sub Subject, ttl time.Duration) error
	GetRefreshToken(ctx context.Context, tokenID string) (Subject, error)
	DeleteRefreshToken(ctx context.Context, tokenID string) error
	BlacklistRefreshToken(ctx context.Context, tokenID string, ttl time.Duration) (added bool, err error)
	IsRefreshTokenBlacklisted(ctx context.Context, tokenID string) (bool, error)
}

// TokenStore keeps the refresh-token registry and the revocation list in Redis.
type TokenStore struct {
	cache *cache.Client
}

// Ensure TokenStore implements TokenStoreInterface
var _ TokenStoreInterface = (*TokenStore)(nil)

// NewTokenStore creates a new token store.
func NewTokenStore(cache *cache.Client) *TokenStore {
	return &TokenStore{cache: cache}
}

// StoreRefreshToken stores a refresh token in Redis with TTL.
func (s *TokenStore) StoreRefreshToken(ctx context.Context, tokenID string, sub Subject, ttl time.Duration) error {
	payload, err := json.Marshal(sub)
	if err != nil {
		return fmt.Errorf("marshal token data: %w", err)
	}
	return s.cache.Set(ctx, refreshTokenKeyPrefix+tokenID, payload, ttl)
}

// GetRefreshToken retrieves refresh token data from Redis.
func (s *TokenStore) GetRefreshToken(ctx context.Context, tokenID string) (Subject, error) {
	data, err := s.cache.Get(ctx, refreshTokenKeyPrefix+tokenID)
	if err != nil || data == nil {
		return Subject{}, fmt.Errorf("refresh token not found")
	}

	var sub Subject
	if err := json.Unmarshal(data, &sub); err != nil {
		return Subject{}, fmt.Errorf("unmarshal token data: %w", err)
	}
	if sub.UserID == 0 || !sub.Role.Valid() {
		return Subject{}, fmt.Errorf("invalid token data")
	}
	return sub, nil
}

// DeleteRefreshToken removes a refresh token from Redis.
func (s *TokenStore) DeleteRefreshToken(ctx context.Context, tokenID string) error {
	return s.cache.Delete(ctx, refreshTokenKeyPrefix+tokenID)
}

// BlacklistRefreshToken revokes a refresh token until it would have expired.
// added is false when the token was already on the list.
func (s *TokenStore) BlacklistRefreshToken(ctx context.Context, tokenID string, ttl time.Duration) (bool, error) {
	if ttl <= 0 {
		ttl = time.Second
	}
	added, err := s.cache.SetNX(ctx, blacklistKeyPrefix+tokenID, []byte("1"), ttl)
	if err != nil {
		return false, fmt.Errorf("blacklist refresh token: %w", err)
	}
	return added, nil
}

// IsRefreshTokenBlacklisted checks if a refresh token has been revoked.
func (s *TokenStore) IsRefreshTokenBlacklisted(ctx context.Context, tokenID string) (bool, error) {
	blacklisted, err := s.cache.Exists(ctx, blacklistKeyPrefix+tokenID)
	if err != nil {
		return false, fmt.Errorf("check refresh token blacklist: %w", err)
	}
	return blacklisted, nil
}
