package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"coding-club/internal/cache"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newMiniredisCache(t *testing.T) (*miniredis.Miniredis, cache.Cache) {
	t.Helper()
	mr := miniredis.RunT(t)
	c, err := cache.NewRedisClient(mr.Addr(), "", 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return mr, c
}

func TestRegistrationTokenLifecycle(t *testing.T) {
	t.Cleanup(restoreGlobals)
	ctx := context.Background()
	mr, c := newMiniredisCache(t)

	tok, err := IssueRegistrationToken(ctx, c, "Amy@Example.com")
	require.NoError(t, err)
	require.Len(t, tok, 64)
	require.Equal(t, RegistrationTokenTTL, mr.TTL(registrationKey(tok)))

	require.NoError(t, ValidateRegistrationToken(ctx, c, tok, "amy@example.com"))
	require.ErrorIs(t, ValidateRegistrationToken(ctx, c, tok, "other@example.com"), ErrInvalidConfirmation)
	require.ErrorIs(t, ValidateRegistrationToken(ctx, c, "missing", "amy@example.com"), ErrInvalidConfirmation)

	require.NoError(t, RevokeRegistrationToken(ctx, c, tok))
	require.ErrorIs(t, ValidateRegistrationToken(ctx, c, tok, "amy@example.com"), ErrInvalidConfirmation)

	tok, err = IssueRegistrationToken(ctx, c, "amy@example.com")
	require.NoError(t, err)
	mr.FastForward(RegistrationTokenTTL + time.Second)
	require.ErrorIs(t, ValidateRegistrationToken(ctx, c, tok, "amy@example.com"), ErrInvalidConfirmation)
}

func TestRegistrationTokenErrors(t *testing.T) {
	t.Cleanup(restoreGlobals)
	ctx := context.Background()

	randRead = func([]byte) (int, error) { return 0, errors.New("rand") }
	_, err := IssueRegistrationToken(ctx, &cache.FakeCache{}, "a@b.c")
	require.Error(t, err)

	randRead = func(b []byte) (int, error) { return len(b), nil }
	c := &cache.FakeCache{
		SetFn: func(context.Context, string, any, time.Duration) *redis.StatusCmd {
			return redis.NewStatusResult("", errors.New("set"))
		},
		GetFn: func(context.Context, string) *redis.StringCmd {
			return redis.NewStringResult("", errors.New("get"))
		},
	}
	_, err = IssueRegistrationToken(ctx, c, "a@b.c")
	require.Error(t, err)

	err = ValidateRegistrationToken(ctx, c, "tok", "a@b.c")
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrInvalidConfirmation)
}
