package shared

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestTokenManager(t *testing.T) (*TokenManager, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewTokenManager(client, "session", time.Hour), mr
}

func TestTokenIssueResolveRevoke(t *testing.T) {
	tm, _ := newTestTokenManager(t)
	ctx := context.Background()

	token, err := tm.Issue(ctx, Principal{UserID: 7, Username: "sam", Role: "user"})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	p, err := tm.Resolve(ctx, token)
	require.NoError(t, err)
	require.Equal(t, int64(7), p.UserID)
	require.Equal(t, "sam", p.Username)

	require.NoError(t, tm.Revoke(ctx, token))
	_, err = tm.Resolve(ctx, token)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenResolveUnknown(t *testing.T) {
	tm, _ := newTestTokenManager(t)

	_, err := tm.Resolve(context.Background(), "")
	require.ErrorIs(t, err, ErrTokenInvalid)

	_, err = tm.Resolve(context.Background(), "no-such-token")
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenResolveSlidesExpiry(t *testing.T) {
	tm, mr := newTestTokenManager(t)
	ctx := context.Background()

	token, err := tm.Issue(ctx, Principal{UserID: 1, Username: "sam", Role: "user"})
	require.NoError(t, err)

	// Burn half the TTL, then resolve; the window must reset.
	mr.FastForward(30 * time.Minute)
	_, err = tm.Resolve(ctx, token)
	require.NoError(t, err)

	mr.FastForward(45 * time.Minute)
	_, err = tm.Resolve(ctx, token)
	require.NoError(t, err)

	mr.FastForward(2 * time.Hour)
	_, err = tm.Resolve(ctx, token)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenRefreshUpdatesPrincipal(t *testing.T) {
	tm, _ := newTestTokenManager(t)
	ctx := context.Background()

	token, err := tm.Issue(ctx, Principal{UserID: 1, Username: "sam", Role: "user"})
	require.NoError(t, err)

	require.NoError(t, tm.Refresh(ctx, token, Principal{UserID: 1, Username: "sam", Role: "admin"}))
	p, err := tm.Resolve(ctx, token)
	require.NoError(t, err)
	require.Equal(t, "admin", p.Role)
}

func TestTokensAreUnique(t *testing.T) {
	tm, _ := newTestTokenManager(t)
	ctx := context.Background()

	seen := map[string]struct{}{}
	for i := 0; i < 32; i++ {
		token, err := tm.Issue(ctx, Principal{UserID: 1})
		require.NoError(t, err)
		_, dup := seen[token]
		require.False(t, dup)
		seen[token] = struct{}{}
	}
}

func TestBearerToken(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	require.Empty(t, BearerToken(r))

	r.Header.Set("Authorization", "Basic abc")
	require.Empty(t, BearerToken(r))

	r.Header.Set("Authorization", "Bearer abc.def")
	require.Equal(t, "abc.def", BearerToken(r))

	r.Header.Set("Authorization", "bearer abc.def")
	require.Equal(t, "abc.def", BearerToken(r))
}
