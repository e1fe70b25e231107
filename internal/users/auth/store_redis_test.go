// Copyright (c) 2026 Verdantia. All rights reserved.

package auth_test

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdantia/verdantia/internal/platform/apperr"
	"github.com/verdantia/verdantia/internal/users/auth"
)

func newRedisResetRepo(t *testing.T) (*auth.RedisResetTokenRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return auth.NewResetTokenRepository(client), mr
}

func TestRedisResetTokenRepository_RoundTrip(t *testing.T) {
	repo, _ := newRedisResetRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "tok-1", "user-1", time.Minute))

	userID, err := repo.Get(ctx, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)

	require.NoError(t, repo.Delete(ctx, "tok-1"))

	_, err = repo.Get(ctx, "tok-1")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}

func TestRedisResetTokenRepository_Expiry(t *testing.T) {
	repo, mr := newRedisResetRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "tok-ttl", "user-1", time.Minute))

	// FastForward simulates the token outliving its TTL.
	mr.FastForward(2 * time.Minute)

	_, err := repo.Get(ctx, "tok-ttl")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}

func TestRedisResetTokenRepository_UnknownToken(t *testing.T) {
	repo, _ := newRedisResetRepo(t)

	_, err := repo.Get(context.Background(), "never-issued")
	require.Error(t, err)
	assert.True(t, apperr.IsAppError(err))
}
