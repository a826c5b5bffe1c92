package shared

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Principal identifies the authenticated caller behind a bearer token.
type Principal struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// TokenManager orchestrates opaque bearer tokens backed by Redis.
type TokenManager struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewTokenManager constructs a TokenManager.
func NewTokenManager(client *redis.Client, prefix string, ttl time.Duration) *TokenManager {
	return &TokenManager{client: client, prefix: prefix, ttl: ttl}
}

// Issue mints a token for the principal and persists it with the configured TTL.
func (tm *TokenManager) Issue(ctx context.Context, p Principal) (string, error) {
	token := tm.generateToken()
	payload, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	if err := tm.client.Set(ctx, tm.redisKey(token), payload, tm.ttl).Err(); err != nil {
		return "", err
	}
	return token, nil
}

// Resolve looks up the principal for a token and slides its expiry.
func (tm *TokenManager) Resolve(ctx context.Context, token string) (*Principal, error) {
	if token == "" {
		return nil, ErrTokenInvalid
	}
	payload, err := tm.client.Get(ctx, tm.redisKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrTokenInvalid
		}
		return nil, err
	}
	var p Principal
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, err
	}
	_ = tm.client.Expire(ctx, tm.redisKey(token), tm.ttl).Err()
	return &p, nil
}

// Refresh rewrites the stored principal for an existing token, keeping the token itself.
func (tm *TokenManager) Refresh(ctx context.Context, token string, p Principal) error {
	payload, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return tm.client.Set(ctx, tm.redisKey(token), payload, tm.ttl).Err()
}

// Revoke deletes the token.
func (tm *TokenManager) Revoke(ctx context.Context, token string) error {
	if err := tm.client.Del(ctx, tm.redisKey(token)).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	return nil
}

// TTL exposes the configured token lifetime.
func (tm *TokenManager) TTL() time.Duration {
	return tm.ttl
}

func (tm *TokenManager) redisKey(token string) string {
	return tm.prefix + ":" + token
}

func (tm *TokenManager) generateToken() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return uuid.NewString()
	}
	return uuid.NewString() + "." + base64.RawURLEncoding.EncodeToString(buf)
}

// BearerToken extracts the bearer token from an Authorization header, empty when absent.
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
