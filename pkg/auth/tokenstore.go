package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/flipcash/partner-portal/pkg/cache"
)

// ErrSessionNotFound means the session has expired or was revoked
var ErrSessionNotFound = errors.New("session not found or expired")

// TokenStore maps portal session ids to upstream bearer tokens in Redis.
// It replaces the ambient module-level token global of the old frontend:
// the token's lifecycle is tied to login/logout and Redis TTL, and requests
// resolve it explicitly through a TokenSource.
type TokenStore struct {
	cache *cache.Client
}

// NewTokenStore creates a token store backed by the shared Redis client
func NewTokenStore(cache *cache.Client) *TokenStore {
	return &TokenStore{cache: cache}
}

func sessionKey(sessionID string) string {
	return "session:" + sessionID
}

// Save stores the upstream token for a session with a TTL
func (s *TokenStore) Save(ctx context.Context, sessionID, upstreamToken string, ttl time.Duration) error {
	if err := s.cache.Set(ctx, sessionKey(sessionID), upstreamToken, ttl); err != nil {
		return fmt.Errorf("failed to store session token: %w", err)
	}
	return nil
}

// Get resolves the upstream token for a session
func (s *TokenStore) Get(ctx context.Context, sessionID string) (string, error) {
	token, err := s.cache.Get(ctx, sessionKey(sessionID))
	if err == redis.Nil {
		return "", ErrSessionNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to resolve session token: %w", err)
	}
	return token, nil
}

// Delete revokes a session
func (s *TokenStore) Delete(ctx context.Context, sessionID string) error {
	return s.cache.Delete(ctx, sessionKey(sessionID))
}

type sessionIDKey struct{}

// WithSessionID returns a context carrying the caller's session id
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionIDKey{}, sessionID)
}

// SessionIDFromContext extracts the session id set by the auth middleware
func SessionIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(sessionIDKey{}).(string)
	return id, ok
}

// ContextTokenSource resolves the upstream bearer token from the session id
// carried in the request context. It satisfies flipcash.TokenSource.
type ContextTokenSource struct {
	store *TokenStore
}

// NewContextTokenSource creates a TokenSource over the store
func NewContextTokenSource(store *TokenStore) *ContextTokenSource {
	return &ContextTokenSource{store: store}
}

// Token implements flipcash.TokenSource. Requests without a session id
// (public endpoints) get an empty token and no Authorization header.
func (s *ContextTokenSource) Token(ctx context.Context) (string, error) {
	sessionID, ok := SessionIDFromContext(ctx)
	if !ok {
		return "", nil
	}
	return s.store.Get(ctx, sessionID)
}
